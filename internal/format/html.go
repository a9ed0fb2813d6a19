// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPattern   = regexp.MustCompile(`<br>•[ \t]*`)
	numberedPattern = regexp.MustCompile(`<br>(\d+)\.[ \t]+`)
)

// allowedTags are the only tags HTML emits.
var allowedTags = []string{"<p>", "</p>", "<br>", "<strong>", "</strong>"}

// allowedEntities are the escapes html.EscapeString produces, plus &quot;.
var allowedEntities = []string{"&amp;", "&lt;", "&gt;", "&#34;", "&#39;", "&quot;"}

// HTML converts a bot reply to paragraph markup. Every character of content
// is escaped before markup is added, so server text can never inject tags.
//
// Transforms, in order: newline to <br>, "•" and "N." list prefixes
// normalized after a break, <br><br> to a paragraph break, **x** to
// <strong>x</strong> within a paragraph, and an outer <p>…</p>. Input that
// is already HTML output is returned as is.
func HTML(content string) string {
	if content == "" {
		return ""
	}
	if IsFormatted(content) {
		return content
	}

	s := html.EscapeString(content)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	s = bulletPattern.ReplaceAllString(s, "<br>• ")
	s = numberedPattern.ReplaceAllString(s, "<br>$1. ")

	// Bold never spans paragraphs, so every <strong> closes in its <p>.
	paras := strings.Split(s, "<br><br>")
	for i, p := range paras {
		paras[i] = boldPattern.ReplaceAllString(p, "<strong>$1</strong>")
	}
	return "<p>" + strings.Join(paras, "</p><p>") + "</p>"
}

// IsFormatted reports whether s is safe paragraph markup of the kind HTML
// produces: a sequence of <p>…</p> paragraphs using only the allowed tags,
// balanced and unnested, with every other character escaped and no raw
// newlines. Text and entities only appear inside a paragraph.
func IsFormatted(s string) bool {
	if !strings.HasPrefix(s, "<p>") {
		return false
	}

	inP, inStrong := false, false
	for i := 0; i < len(s); {
		switch s[i] {
		case '<':
			tag := matchPrefix(s[i:], allowedTags)
			switch tag {
			case "<p>":
				if inP {
					return false
				}
				inP = true
			case "</p>":
				if !inP || inStrong {
					return false
				}
				inP = false
			case "<br>":
				if !inP {
					return false
				}
			case "<strong>":
				if !inP || inStrong {
					return false
				}
				inStrong = true
			case "</strong>":
				if !inStrong {
					return false
				}
				inStrong = false
			default:
				return false
			}
			i += len(tag)
		case '&':
			entity := matchPrefix(s[i:], allowedEntities)
			if entity == "" || !inP {
				return false
			}
			i += len(entity)
		case '>', '"', '\'', '\n':
			return false
		default:
			if !inP {
				return false
			}
			i++
		}
	}
	return !inP && !inStrong
}

// matchPrefix returns the first candidate s starts with, or "".
func matchPrefix(s string, candidates []string) string {
	for _, c := range candidates {
		if strings.HasPrefix(s, c) {
			return c
		}
	}
	return ""
}

// Escape escapes text for interpolation into markup. Conversation names and
// server messages go through it before they reach an HTML document.
func Escape(text string) string {
	return html.EscapeString(text)
}
