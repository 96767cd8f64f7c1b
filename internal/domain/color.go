package domain

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseFillColor converts a colour string into a fill colour.
// Accepted forms are "#rgb", "#rrggbb" and SVG colour names such as "white" or "teal".
func ParseFillColor(value string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return color.NRGBA{}, NewValidationError("color", value, "must not be empty", ErrInvalidColor)
	}

	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: 0xff}, nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, NewValidationError("color", value, "expected #rgb, #rrggbb or a color name", ErrInvalidColor)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatFillColor returns the "#rrggbb" form of a colour, as stored in preferences.
func FormatFillColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cf.Hex()
}
