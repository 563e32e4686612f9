package wordcloud

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Clear renders a transparent background
const Clear = "clear"

var errUnknownColor = errors.New("unknown color")

// ParseColor resolves "clear", a CSS color name or a hex code such as
// #1e90ff or fff. Clear returns a nil color.
func ParseColor(raw string) (color.Color, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == Clear {
		return nil, nil
	}
	if c, ok := colornames.Map[raw]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(raw, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, errUnknownColor
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, errUnknownColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
