// Package palette assigns stable display colors to labels such as model
// names and token labels.
package palette

import "unicode/utf16"

// Color is a named palette entry.
type Color string

// Palette entries, in hashing order.
const (
	Amber     Color = "amber"
	Blue      Color = "blue"
	Cyan      Color = "cyan"
	Green     Color = "green"
	Grey      Color = "grey"
	Indigo    Color = "indigo"
	LightBlue Color = "light-blue"
	Lime      Color = "lime"
	Orange    Color = "orange"
	Pink      Color = "pink"
	Purple    Color = "purple"
	Red       Color = "red"
	Teal      Color = "teal"
	Violet    Color = "violet"
	Yellow    Color = "yellow"
)

// Colors is the fixed palette. Its order is part of the label hash.
var Colors = []Color{
	Amber, Blue, Cyan, Green, Grey, Indigo, LightBlue, Lime,
	Orange, Pink, Purple, Red, Teal, Violet, Yellow,
}

var overrides = map[string]Color{
	"vip":     Yellow,
	"pro":     Yellow,
	"svip":    Red,
	"premium": Red,
}

var hexByColor = map[Color]string{
	Amber:     "#FFB300",
	Blue:      "#3F8CFF",
	Cyan:      "#00BCD4",
	Green:     "#3BB346",
	Grey:      "#9E9E9E",
	Indigo:    "#5C6BC0",
	LightBlue: "#40B4F3",
	Lime:      "#9CCC65",
	Orange:    "#FF8A30",
	Pink:      "#F06292",
	Purple:    "#AB47BC",
	Red:       "#F44336",
	Teal:      "#26A69A",
	Violet:    "#7E57C2",
	Yellow:    "#FDD835",
}

// ColorFor returns the color for a label. Known tier names have fixed
// colors; any other label hashes by the sum of its UTF-16 code units.
func ColorFor(label string) Color {
	if c, ok := overrides[label]; ok {
		return c
	}
	return hashColor(label)
}

func hashColor(label string) Color {
	sum := 0
	for _, unit := range utf16.Encode([]rune(label)) {
		sum += int(unit)
	}
	return Colors[sum%len(Colors)]
}

// Hex returns the terminal color for a palette entry.
func (c Color) Hex() string {
	if hex, ok := hexByColor[c]; ok {
		return hex
	}
	return hexByColor[Grey]
}
