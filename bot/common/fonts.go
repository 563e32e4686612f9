package common

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts bundled with the binary
const (
	FontMono    = "mono"
	FontRegular = "regular"
	FontBold    = "bold"
)

var fontData = map[string][]byte{
	FontMono:    gomono.TTF,
	FontRegular: goregular.TTF,
	FontBold:    gobold.TTF,
}

var (
	fontsMu sync.Mutex
	parsed  = map[string]*truetype.Font{}
)

// LoadFontFace returns a face of the named bundled font at size points
func LoadFontFace(name string, size float64) (font.Face, error) {
	f, err := parseFont(name)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}

func parseFont(name string) (*truetype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := parsed[name]; ok {
		return f, nil
	}
	data, ok := fontData[name]
	if !ok {
		return nil, fmt.Errorf("unknown font %q", name)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	parsed[name] = f
	return f, nil
}
