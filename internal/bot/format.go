// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bot

import (
	"regexp"
	"strings"
)

var (
	priceKeywords = []string{"价格", "预算", "多少钱", "人均", "消费"}

	// Longest forms first so "人均100元" is emphasized as one unit.
	pricePattern = regexp.MustCompile(`(?:人均|预算)\s*\d+\s*元?|¥\s*\d+|RMB\s*\d+|\d+\s*元`)

	extraNewlines = regexp.MustCompile(`\n{3,}`)

	listPrefixes = []string{"•", "-", "*", "1.", "2.", "3.", "4.", "5."}
)

// FormatReply reshapes a model reply for display:
//   - price figures are bolded when the question is about money
//   - list items and headings are set off by blank lines
//   - runs of blank lines collapse to one
func FormatReply(reply, input string) string {
	if reply == "" {
		return reply
	}

	out := strings.ReplaceAll(reply, "\r\n", "\n")
	if mentionsPrice(input) {
		out = emphasizePrices(out)
	}
	out = spaceListItems(out)
	out = spaceHeadings(out)
	out = extraNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimRight(out, "\n")
}

func mentionsPrice(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range priceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func emphasizePrices(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pricePattern.ReplaceAllStringFunc(line, func(m string) string {
			return "**" + m + "**"
		})
	}
	return strings.Join(lines, "\n")
}

func isListItem(line string) bool {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "**") {
		return false
	}
	for _, p := range listPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// spaceListItems puts a blank line before every list item and after the
// last item of a block.
func spaceListItems(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)*2)
	for i, line := range lines {
		if !isListItem(line) {
			out = append(out, line)
			continue
		}
		if i > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, line)
		if i < len(lines)-1 && !isListItem(lines[i+1]) {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

// spaceHeadings surrounds markdown headings with blank lines.
func spaceHeadings(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			out = append(out, line)
			continue
		}
		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, line, "")
	}
	return strings.Join(out, "\n")
}
