package components

import (
	"github.com/j-veylop/token-usage-tui/internal/palette"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// RenderTag renders a label chip colored by its palette hash.
func RenderTag(label string) string {
	if label == "" {
		return ""
	}
	return styles.TagStyle(palette.ColorFor(label).Hex()).Render(label)
}

// RenderColorTag renders a label chip with a fixed palette color.
func RenderColorTag(label string, c palette.Color) string {
	if label == "" {
		return ""
	}
	return styles.TagStyle(c.Hex()).Render(label)
}
