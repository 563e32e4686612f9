package spoiler

import (
	"bytes"
	"image/gif"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		n        int
		expected []string
	}{
		{
			name:     "short",
			text:     "snape kills dumbledore",
			n:        40,
			expected: []string{"snape kills dumbledore"},
		},
		{
			name:     "wraps on words",
			text:     "the quick brown fox jumps",
			n:        10,
			expected: []string{"the quick", "brown fox", "jumps"},
		},
		{
			name:     "keeps line breaks",
			text:     "one\ntwo",
			n:        10,
			expected: []string{"one", "two"},
		},
		{
			name:     "splits long words",
			text:     "abcdefghijkl",
			n:        5,
			expected: []string{"abcde", "fghij", "kl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Wrap(tt.text, tt.n))
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("spoiler ", 12)
	data, err := Render(text)
	require.NoError(t, err)

	anim, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, anim.Image, 2)
	assert.Equal(t, []int{0, revealDelay}, anim.Delay)

	lines := len(Wrap(text, lineLength))
	assert.Equal(t, width, anim.Image[0].Bounds().Dx())
	assert.Equal(t, lineHeight*lines+2*marginY, anim.Image[1].Bounds().Dy())
}

func TestCaption(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "**alice** posted this spoiler:", Caption("alice"))
}
