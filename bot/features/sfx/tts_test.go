package sfx

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"cogbot/infrastructure/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	requests []web.Request
	err      error
}

func (f *fakeFetcher) GetBytes(_ context.Context, req web.Request) ([]byte, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + req.Query.Get("idx")), nil
}

func TestSplitText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "empty", text: "   ", limit: 10, want: nil},
		{name: "fits", text: "hello world", limit: 20, want: []string{"hello world"}},
		{name: "breaks on words", text: "one two three four", limit: 9, want: []string{"one two", "three", "four"}},
		{name: "cuts long words", text: "abcdefghij k", limit: 4, want: []string{"abcd", "efgh", "ij k"}},
		{name: "counts runes", text: "ééé ééé", limit: 3, want: []string{"ééé", "ééé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitText(tt.text, tt.limit))
		})
	}
}

func TestSpeech_Synthesize(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	speech := NewSpeech(fetcher, "en", t.TempDir())

	text := strings.Repeat("word ", 30)
	path, err := speech.Synthesize(context.Background(), text)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	require.Len(t, fetcher.requests, 2)
	first := fetcher.requests[0]
	assert.Equal(t, ttsURL, first.URL)
	assert.Equal(t, "tw-ob", first.Query.Get("client"))
	assert.Equal(t, "en", first.Query.Get("tl"))
	assert.Equal(t, "2", first.Query.Get("total"))
	assert.Equal(t, "1", fetcher.requests[1].Query.Get("idx"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3:0mp3:1", string(data))
}

func TestSpeech_Synthesize_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := NewSpeech(&fakeFetcher{}, "en", dir).Synthesize(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = NewSpeech(&fakeFetcher{err: errors.New("blocked")}, "en", dir).Synthesize(context.Background(), "hi")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp file is left behind")
}

func TestFFmpegArgs(t *testing.T) {
	t.Parallel()

	args := ffmpegArgs("horn.mp3", 150)
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-i horn.mp3")
	assert.Contains(t, joined, "-filter:a volume=1.50")
	assert.Contains(t, joined, "-acodec libopus")
	assert.Contains(t, joined, "-ar 48000")
	assert.Equal(t, "pipe:1", args[len(args)-1])
}
