package palette

import "strings"

var modelHex = map[string]string{
	"dall-e":                   "#9370DB",
	"dall-e-3":                 "#9932CC",
	"gpt-3.5-turbo":            "#B8E3A7",
	"gpt-3.5-turbo-0613":       "#3CB371",
	"gpt-3.5-turbo-1106":       "#20B2AA",
	"gpt-3.5-turbo-16k":        "#95FCCE",
	"gpt-3.5-turbo-16k-0613":   "#77FFD6",
	"gpt-3.5-turbo-instruct":   "#AFEEEE",
	"gpt-4":                    "#87CEEB",
	"gpt-4-0613":               "#6495ED",
	"gpt-4-1106-preview":       "#1E90FF",
	"gpt-4-0125-preview":       "#02B1EC",
	"gpt-4-turbo-preview":      "#02B1FF",
	"gpt-4-32k":                "#686FEE",
	"gpt-4-32k-0613":           "#3D478B",
	"gpt-4-all":                "#4169E1",
	"gpt-4-vision-preview":     "#191970",
	"text-ada-001":             "#FFC0CB",
	"text-babbage-001":         "#FFA07A",
	"text-curie-001":           "#DB7093",
	"text-davinci-003":         "#DB7093",
	"text-davinci-edit-001":    "#FF69B4",
	"text-embedding-ada-002":   "#FFB6C1",
	"text-embedding-v1":        "#FFAEB9",
	"text-moderation-latest":   "#FF82AB",
	"text-moderation-stable":   "#FFA07A",
	"tts-1":                    "#FF8C00",
	"tts-1-1106":               "#FFA500",
	"tts-1-hd":                 "#FFD700",
	"tts-1-hd-1106":            "#FFDF00",
	"whisper-1":                "#F5F5DC",
	"claude-3-opus-20240229":   "#FF841F",
	"claude-3-sonnet-20240229": "#FD875D",
	"claude-3-haiku-20240307":  "#FFAF92",
	"claude-2.1":               "#FFD1BE",
}

// Prefix entries, checked after exact names.
var modelPrefixHex = []struct {
	prefix string
	hex    string
}{
	{"gpt-4-gizmo-", "#0000FF"},
}

// ModelHex returns the terminal color for a model name. Well-known models
// keep their own shade; anything else falls back to its palette color.
func ModelHex(model string) string {
	if hex, ok := modelHex[model]; ok {
		return hex
	}
	for _, p := range modelPrefixHex {
		if strings.HasPrefix(model, p.prefix) {
			return p.hex
		}
	}
	return ColorFor(model).Hex()
}
