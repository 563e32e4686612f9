package spoiler

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"strings"

	"cogbot/bot/common"

	"github.com/fogleman/gg"
)

const (
	width      = 300
	lineHeight = 18
	marginX    = 9
	marginY    = 9
	lineLength = 40
	fontSize   = 14
	fontGray   = 150
	bgGray     = 20

	coverText = "Mouseover to reveal spoiler"
	// revealDelay is the longest frame delay a GIF can hold, in 1/100s
	revealDelay = 0xFFFF
)

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for idx := range p {
		p[idx] = color.Gray{Y: uint8(idx)}
	}
	return p
}()

// Wrap breaks text into lines of at most n characters on word boundaries.
// Existing line breaks are kept and words longer than n are split.
func Wrap(text string, n int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current []rune
		for _, word := range strings.Fields(paragraph) {
			w := []rune(word)
			for len(w) > n {
				if len(current) > 0 {
					lines = append(lines, string(current))
					current = nil
				}
				lines = append(lines, string(w[:n]))
				w = w[n:]
			}
			switch {
			case len(w) == 0:
			case len(current) == 0:
				current = w
			case len(current)+1+len(w) <= n:
				current = append(append(current, ' '), w...)
			default:
				lines = append(lines, string(current))
				current = w
			}
		}
		if len(current) > 0 {
			lines = append(lines, string(current))
		}
	}
	return lines
}

// Render draws the two-frame spoiler GIF: a cover frame followed by the
// wrapped text, held for as long as the format allows
func Render(text string) ([]byte, error) {
	lines := Wrap(text, lineLength)
	if len(lines) == 0 {
		lines = []string{""}
	}
	height := lineHeight*len(lines) + 2*marginY

	cover, err := drawFrame([]string{coverText}, height)
	if err != nil {
		return nil, err
	}
	reveal, err := drawFrame(lines, height)
	if err != nil {
		return nil, err
	}

	anim := &gif.GIF{
		Image: []*image.Paletted{cover, reveal},
		Delay: []int{0, revealDelay},
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("failed to encode spoiler gif: %w", err)
	}
	return buf.Bytes(), nil
}

func drawFrame(lines []string, height int) (*image.Paletted, error) {
	face, err := common.LoadFontFace(common.FontMono, fontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.Gray{Y: bgGray})
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(color.Gray{Y: fontGray})
	for idx, line := range lines {
		dc.DrawStringAnchored(line, marginX, float64(marginY+idx*lineHeight), 0, 1)
	}

	frame := image.NewPaletted(image.Rect(0, 0, width, height), grayPalette)
	draw.Draw(frame, frame.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return frame, nil
}
