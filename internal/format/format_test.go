// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"math/rand"
	"strings"
	"testing"
)

// =============================================================================
// HTML TESTS
// =============================================================================

func TestHTML_Transforms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "你好", "<p>你好</p>"},
		{"line break", "a\nb", "<p>a<br>b</p>"},
		{"bold", "推荐**老北京炸酱面**", "<p>推荐<strong>老北京炸酱面</strong></p>"},
		{"paragraphs", "第一段\n\n第二段", "<p>第一段</p><p>第二段</p>"},
		{"bullet normalized", "菜单\n•  烤鸭\n•鱼", "<p>菜单<br>• 烤鸭<br>• 鱼</p>"},
		{"numbered normalized", "清单\n1.   火锅\n2. 串串", "<p>清单<br>1. 火锅<br>2. 串串</p>"},
		{"decimal kept", "重量\n1.5公斤", "<p>重量<br>1.5公斤</p>"},
		{"crlf", "a\r\nb", "<p>a<br>b</p>"},
		{"unmatched bold", "a ** b", "<p>a ** b</p>"},
		{"bold stays in its paragraph", "**a\n\nb**", "<p>**a</p><p>b**</p>"},
		{"bold per paragraph", "**a**\n\n**b**", "<p><strong>a</strong></p><p><strong>b</strong></p>"},
		{"leading paragraph break", "\n\nx", "<p></p><p>x</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.in); got != tt.want {
				t.Errorf("HTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTML_EscapesMarkup(t *testing.T) {
	in := `<script>alert("x")</script> & <img src=x onerror='y'>`
	got := HTML(in)

	if strings.Contains(got, "<script") || strings.Contains(got, "<img") {
		t.Fatalf("markup leaked through: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("expected escaped text, got %q", got)
	}
	if !IsFormatted(got) {
		t.Errorf("output is not recognized as formatted: %q", got)
	}
}

func TestHTML_BoldCannotSmuggleTags(t *testing.T) {
	got := HTML("**<b>x</b>**")
	want := "<p><strong>&lt;b&gt;x&lt;/b&gt;</strong></p>"
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestHTML_EscapesUnbalancedMarkup(t *testing.T) {
	in := "<p><strong>x</p>"
	got := HTML(in)
	want := "<p>&lt;p&gt;&lt;strong&gt;x&lt;/p&gt;</p>"
	if got != want {
		t.Errorf("HTML(%q) = %q, want %q", in, got, want)
	}
	if !IsFormatted(got) {
		t.Errorf("output is not recognized as formatted: %q", got)
	}
}

func TestHTML_Idempotent(t *testing.T) {
	samples := []string{
		"你好",
		"a\nb\n\nc",
		"**价格**：人均 80 元\n• 川菜\n1. 火锅",
		"\n\n",
		"<p>already</p>",
		"x < y && y > z",
		"it's \"quoted\"",
	}
	for _, s := range samples {
		once := HTML(s)
		twice := HTML(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", s, once, twice)
		}
	}
}

// TestHTML_IdempotentRandom formats random strings built from the characters
// the transforms care about.
func TestHTML_IdempotentRandom(t *testing.T) {
	alphabet := []string{"a", "火", "*", "**", "\n", "\n\n", "•", "1.", " ", "<", ">", "&", "\"", "'", "<p>", "</p>", "&amp;", "\r\n"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		var sb strings.Builder
		for j := rng.Intn(12); j >= 0; j-- {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		in := sb.String()

		once := HTML(in)
		if once != "" && !IsFormatted(once) {
			t.Fatalf("HTML(%q) = %q is not recognized as formatted", in, once)
		}
		if twice := HTML(once); twice != once {
			t.Fatalf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestIsFormatted(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<p>ok</p>", true},
		{"<p>a<br><strong>b</strong></p><p>c</p>", true},
		{"<p>&amp;&lt;&#39;</p>", true},
		{"no wrapper", false},
		{"<p><script>x</script></p>", false},
		{"<p>a & b</p>", false},
		{"<p>a\nb</p>", false},
		{`<p>"</p>`, false},
		{"<p></p>", true},
		{"<p><strong>x</p>", false},
		{"<p><strong>x</strong>", false},
		{"<p>x</strong></p>", false},
		{"<p><strong><strong>x</strong></strong></p>", false},
		{"<p><p>x</p></p>", false},
		{"<p>a</p>b<p>c</p>", false},
		{"<p>a</p><br><p>c</p>", false},
		{"<p>a</p>&amp;", false},
		{"<p><strong>a</p><p>b</strong></p>", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsFormatted(tt.in); got != tt.want {
			t.Errorf("IsFormatted(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// ICON TESTS
// =============================================================================

func TestIconFor(t *testing.T) {
	tests := []struct {
		name string
		want Icon
	}{
		{"成都火锅推荐", iconPepper},
		{"海鲜大餐", iconFish},
		{"生日蛋糕哪家好", iconCake},
		{"素食主义", iconLeaf},
		{"早茶去哪", iconMug},
		{"宵夜", iconMoon},
		{"餐厅", iconUtensils},
		{"北京烤鸭", iconDrumstick},
		{"上海小笼包", iconBread},
		{"广东点心", iconMug},
		{"四川", iconPepper},
		{"西安面食", iconWheat},
		{"新对话", DefaultIcon},
		{"", DefaultIcon},
	}
	for _, tt := range tests {
		if got := IconFor(tt.name); got != tt.want {
			t.Errorf("IconFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIconRules_FirstMatchWins(t *testing.T) {
	// 推荐 comes before 北京 in the table
	if got := IconFor("北京餐厅推荐"); got != iconUtensils {
		t.Errorf("IconFor = %v, want utensils", got)
	}
	for i, rule := range IconRules {
		if len(rule.Keywords) == 0 {
			t.Errorf("rule %d has no keywords", i)
		}
	}
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestRenderer_Plain(t *testing.T) {
	r := NewRenderer(StylePlain)
	out := r.Render("推荐**麻辣烫**\n• 便宜", 40)

	if strings.Contains(out, "**") {
		t.Errorf("plain render kept markdown markers: %q", out)
	}
	if !strings.Contains(out, "麻辣烫") || !strings.Contains(out, "便宜") {
		t.Errorf("plain render lost text: %q", out)
	}
}

func TestRenderer_GlamourKeepsText(t *testing.T) {
	r := NewRenderer(StyleDark)
	out := r.Render("第一行\n第二行\n\n**重点**", 60)
	for _, want := range []string{"第一行", "第二行", "重点"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q: %q", want, out)
		}
	}
	// cached per width
	if len(r.cache) != 1 {
		t.Errorf("cache size = %d, want 1", len(r.cache))
	}
}

func TestRenderer_Empty(t *testing.T) {
	if out := NewRenderer(StylePlain).Render("   ", 40); out != "" {
		t.Errorf("blank content rendered as %q", out)
	}
}

func TestHardBreaks(t *testing.T) {
	got := hardBreaks("a\nb\n\nc")
	if got != "a  \nb\n\nc" {
		t.Errorf("hardBreaks = %q", got)
	}
}
