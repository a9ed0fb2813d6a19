// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import "strings"

// Icon is a conversation icon: a Font Awesome class for HTML exports and a
// glyph for the terminal.
type Icon struct {
	Class string
	Glyph string
}

// IconRule maps any of its keywords, matched as substrings of the
// conversation name, to an icon.
type IconRule struct {
	Keywords []string
	Icon     Icon
}

var (
	iconPepper    = Icon{Class: "fa-pepper-hot", Glyph: "🌶"}
	iconFish      = Icon{Class: "fa-fish", Glyph: "🐟"}
	iconCake      = Icon{Class: "fa-birthday-cake", Glyph: "🎂"}
	iconLeaf      = Icon{Class: "fa-leaf", Glyph: "🥬"}
	iconMug       = Icon{Class: "fa-mug-hot", Glyph: "☕"}
	iconMoon      = Icon{Class: "fa-moon", Glyph: "🌙"}
	iconUtensils  = Icon{Class: "fa-utensils", Glyph: "🍴"}
	iconDrumstick = Icon{Class: "fa-drumstick-bite", Glyph: "🍗"}
	iconBread     = Icon{Class: "fa-bread-slice", Glyph: "🥖"}
	iconWheat     = Icon{Class: "fa-wheat-awn", Glyph: "🌾"}

	// DefaultIcon is used when no rule matches.
	DefaultIcon = Icon{Class: "fa-comment", Glyph: "💬"}
)

// IconRules is evaluated top to bottom; the first rule with a matching
// keyword wins.
var IconRules = []IconRule{
	{Keywords: []string{"火锅", "辣", "川菜"}, Icon: iconPepper},
	{Keywords: []string{"海鲜", "鱼"}, Icon: iconFish},
	{Keywords: []string{"生日", "蛋糕"}, Icon: iconCake},
	{Keywords: []string{"素食", "蔬菜"}, Icon: iconLeaf},
	{Keywords: []string{"早餐", "早茶"}, Icon: iconMug},
	{Keywords: []string{"晚餐", "宵夜"}, Icon: iconMoon},
	{Keywords: []string{"推荐", "餐厅"}, Icon: iconUtensils},
	{Keywords: []string{"北京", "烤鸭"}, Icon: iconDrumstick},
	{Keywords: []string{"上海", "小笼包"}, Icon: iconBread},
	{Keywords: []string{"广东"}, Icon: iconMug},
	{Keywords: []string{"四川", "麻辣"}, Icon: iconPepper},
	{Keywords: []string{"西安", "面食"}, Icon: iconWheat},
}

// IconFor returns the icon for a conversation name.
func IconFor(name string) Icon {
	lower := strings.ToLower(name)
	for _, rule := range IconRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Icon
			}
		}
	}
	return DefaultIcon
}
