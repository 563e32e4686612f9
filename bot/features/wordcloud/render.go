package wordcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"cogbot/bot/common"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	minFontSize   = 8
	wordPadding   = 2
	spiralStep    = 0.1
	spiralSpacing = 1.5
	// relativeScaling weighs word frequency against rank when sizing
	relativeScaling = 0.5
)

var ErrNoWords = errors.New("no words to render")

// palette is sampled from viridis
var palette = []color.Color{
	color.RGBA{0x44, 0x01, 0x54, 0xFF},
	color.RGBA{0x48, 0x28, 0x78, 0xFF},
	color.RGBA{0x3E, 0x4A, 0x89, 0xFF},
	color.RGBA{0x31, 0x68, 0x8E, 0xFF},
	color.RGBA{0x26, 0x82, 0x8E, 0xFF},
	color.RGBA{0x1F, 0x9E, 0x89, 0xFF},
	color.RGBA{0x35, 0xB7, 0x79, 0xFF},
	color.RGBA{0x6D, 0xCD, 0x59, 0xFF},
	color.RGBA{0xB4, 0xDE, 0x2C, 0xFF},
	color.RGBA{0xFD, 0xE7, 0x25, 0xFF},
}

// Options controls the canvas and word placement
type Options struct {
	Width, Height int
	// Background fills the canvas; nil leaves it transparent
	Background color.Color
	// Mask restricts words to its non-white pixels. It is stretched to the canvas.
	Mask image.Image
	// ColorMask paints each word with the mask color under it
	ColorMask bool
	MaxWords  int
	Seed      uint64
}

// Placement is a word positioned on the canvas. X and Y are the top-left
// corner of its box.
type Placement struct {
	Word     string
	FontSize int
	X, Y     int
	W, H     int
	Ascent   int
	Color    color.Color
}

type rect struct{ x0, y0, x1, y1 int }

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

// Render lays out words and encodes the cloud as PNG
func Render(ctx context.Context, words []WordCount, opts Options) ([]byte, error) {
	placements, err := Layout(ctx, words, opts)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	faces := newFaceCache()
	for _, p := range placements {
		face, err := faces.get(p.FontSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(p.Color)
		dc.DrawString(p.Word, float64(p.X), float64(p.Y+p.Ascent))
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode wordcloud: %w", err)
	}
	return buf.Bytes(), nil
}

// Layout places the most frequent words first, each as large as it can be
// while fitting somewhere along an Archimedean spiral from the center.
// Placement stops once a word no longer fits at the minimum size.
func Layout(ctx context.Context, words []WordCount, opts Options) ([]Placement, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.MaxWords > 0 && len(words) > opts.MaxWords {
		words = words[:opts.MaxWords]
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9E3779B97F4A7C15))
	var mask *maskGrid
	if opts.Mask != nil {
		mask = newMaskGrid(opts.Mask, opts.Width, opts.Height)
	}

	faces := newFaceCache()
	var placed []Placement
	var boxes []rect

	size := float64(opts.Height) / 3
	lastCount := words[0].Count
	for _, wc := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size *= relativeScaling*float64(wc.Count)/float64(lastCount) + (1 - relativeScaling)
		lastCount = wc.Count

		var fitted bool
		for ; size >= minFontSize; size *= 0.9 {
			face, err := faces.get(int(size))
			if err != nil {
				return nil, err
			}
			metrics := face.Metrics()
			w := font.MeasureString(face, wc.Word).Ceil()
			ascent, h := metrics.Ascent.Ceil(), metrics.Ascent.Ceil()+metrics.Descent.Ceil()

			x, y, ok, err := findSpot(ctx, w, h, opts.Width, opts.Height, rng.Float64()*2*math.Pi, mask, boxes)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			c := palette[rng.IntN(len(palette))]
			if opts.ColorMask && opts.Mask != nil {
				c = mask.colorAt(opts.Mask, x+w/2, y+h/2)
			}
			placed = append(placed, Placement{Word: wc.Word, FontSize: int(size), X: x, Y: y, W: w, H: h, Ascent: ascent, Color: c})
			boxes = append(boxes, rect{x - wordPadding, y - wordPadding, x + w + wordPadding, y + h + wordPadding})
			fitted = true
			break
		}
		if !fitted {
			break
		}
	}

	if len(placed) == 0 {
		return nil, ErrNoWords
	}
	return placed, nil
}

// findSpot walks the spiral and returns the first top-left corner where a
// w x h box fits the canvas and the mask without touching placed boxes
func findSpot(ctx context.Context, w, h, width, height int, phase float64, mask *maskGrid, boxes []rect) (int, int, bool, error) {
	if w > width || h > height {
		return 0, 0, false, nil
	}

	cx, cy := float64(width)/2, float64(height)/2
	aspect := float64(height) / float64(width)
	maxRadius := math.Hypot(cx, cy) / math.Min(1, aspect)

	for step := 0; ; step++ {
		if step%512 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, false, err
			}
		}
		t := float64(step) * spiralStep
		r := spiralSpacing * t
		if r > maxRadius {
			return 0, 0, false, nil
		}

		x := int(cx+r*math.Cos(t+phase)) - w/2
		y := int(cy+r*aspect*math.Sin(t+phase)) - h/2
		if x < 0 || y < 0 || x+w > width || y+h > height {
			continue
		}
		candidate := rect{x, y, x + w, y + h}
		if mask != nil && mask.blocked(candidate) {
			continue
		}
		if collides(candidate, boxes) {
			continue
		}
		return x, y, true, nil
	}
}

func collides(r rect, boxes []rect) bool {
	for _, b := range boxes {
		if r.overlaps(b) {
			return true
		}
	}
	return false
}

// maskGrid is a summed-area table of blocked pixels at canvas resolution
type maskGrid struct {
	width, height int
	sum           []int32
}

func newMaskGrid(mask image.Image, width, height int) *maskGrid {
	g := &maskGrid{width: width, height: height, sum: make([]int32, (width+1)*(height+1))}
	stride := width + 1
	for y := 0; y < height; y++ {
		var row int32
		for x := 0; x < width; x++ {
			if isBackground(mask.At(g.source(mask, x, y))) {
				row++
			}
			g.sum[(y+1)*stride+x+1] = g.sum[y*stride+x+1] + row
		}
	}
	return g
}

// source maps a canvas pixel to the stretched mask pixel
func (g *maskGrid) source(mask image.Image, x, y int) (int, int) {
	b := mask.Bounds()
	return b.Min.X + x*b.Dx()/g.width, b.Min.Y + y*b.Dy()/g.height
}

func (g *maskGrid) blocked(r rect) bool {
	stride := g.width + 1
	total := g.sum[r.y1*stride+r.x1] - g.sum[r.y0*stride+r.x1] - g.sum[r.y1*stride+r.x0] + g.sum[r.y0*stride+r.x0]
	return total > 0
}

func (g *maskGrid) colorAt(mask image.Image, x, y int) color.Color {
	x = min(max(x, 0), g.width-1)
	y = min(max(y, 0), g.height-1)
	r, gr, b, _ := mask.At(g.source(mask, x, y)).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(gr >> 8), B: uint8(b >> 8), A: 0xFF}
}

// isBackground treats white and fully transparent mask pixels as off limits
func isBackground(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a == 0 || (r >= 0xF000 && g >= 0xF000 && b >= 0xF000)
}

type faceCache map[int]font.Face

func newFaceCache() faceCache {
	return make(faceCache)
}

func (c faceCache) get(size int) (font.Face, error) {
	if face, ok := c[size]; ok {
		return face, nil
	}
	face, err := common.LoadFontFace(common.FontBold, float64(size))
	if err != nil {
		return nil, err
	}
	c[size] = face
	return face, nil
}
