package wordcloud

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWords() []WordCount {
	return []WordCount{
		{Word: "bees", Count: 40},
		{Word: "honey", Count: 25},
		{Word: "hive", Count: 12},
		{Word: "queen", Count: 9},
		{Word: "buzz", Count: 5},
		{Word: "pollen", Count: 3},
		{Word: "wax", Count: 1},
	}
}

func TestLayout_NoOverlapsInsideCanvas(t *testing.T) {
	t.Parallel()

	opts := Options{Width: 400, Height: 300, Seed: 7}
	placements, err := Layout(context.Background(), sampleWords(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, placements)
	assert.Equal(t, "bees", placements[0].Word)

	for n, p := range placements {
		assert.GreaterOrEqual(t, p.X, 0, p.Word)
		assert.GreaterOrEqual(t, p.Y, 0, p.Word)
		assert.LessOrEqual(t, p.X+p.W, opts.Width, p.Word)
		assert.LessOrEqual(t, p.Y+p.H, opts.Height, p.Word)
		if n > 0 {
			assert.LessOrEqual(t, p.FontSize, placements[n-1].FontSize, "sizes shrink with frequency")
		}
		for _, other := range placements[n+1:] {
			a := rect{p.X, p.Y, p.X + p.W, p.Y + p.H}
			b := rect{other.X, other.Y, other.X + other.W, other.Y + other.H}
			assert.False(t, a.overlaps(b), "%s overlaps %s", p.Word, other.Word)
		}
	}
}

func TestLayout_MaxWords(t *testing.T) {
	t.Parallel()

	placements, err := Layout(context.Background(), sampleWords(), Options{Width: 400, Height: 300, MaxWords: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(placements), 2)
}

func TestLayout_RespectsMask(t *testing.T) {
	t.Parallel()

	// Left half white (blocked), right half dark red (open)
	mask := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
			if x >= 20 {
				c = color.RGBA{0x80, 0, 0, 0xFF}
			}
			mask.Set(x, y, c)
		}
	}

	opts := Options{Width: 400, Height: 300, Mask: mask, ColorMask: true, Seed: 3}
	placements, err := Layout(context.Background(), sampleWords(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, placements)

	for _, p := range placements {
		assert.GreaterOrEqual(t, p.X, 200, "%s placed on the white half", p.Word)
		assert.Equal(t, color.RGBA{0x80, 0, 0, 0xFF}, p.Color)
	}
}

func TestLayout_Errors(t *testing.T) {
	t.Parallel()

	_, err := Layout(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoWords)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Layout(ctx, sampleWords(), Options{Width: 400, Height: 300})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_PNG(t *testing.T) {
	t.Parallel()

	data, err := Render(context.Background(), sampleWords(), Options{Width: 320, Height: 240, Background: color.Black, Seed: 1})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), a, "background is opaque")
}

func TestRender_ClearBackground(t *testing.T) {
	t.Parallel()

	data, err := Render(context.Background(), []WordCount{{Word: "bees", Count: 1}}, Options{Width: 200, Height: 100, Seed: 1})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "corner stays transparent")
}
