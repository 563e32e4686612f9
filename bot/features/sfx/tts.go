package sfx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"cogbot/infrastructure/web"

	"github.com/google/uuid"
)

const (
	ttsURL = "https://translate.google.com/translate_tts"
	// Google rejects longer chunks
	ttsChunkRunes = 100
)

// ErrEmptyText is returned when there is nothing to speak
var ErrEmptyText = errors.New("no text to speak")

type byteFetcher interface {
	GetBytes(ctx context.Context, req web.Request) ([]byte, error)
}

// Speech fetches MP3 speech from Google Translate
type Speech struct {
	web      byteFetcher
	language string
	tempDir  string
}

// NewSpeech creates a speech fetcher writing temporary files to tempDir
func NewSpeech(client byteFetcher, language, tempDir string) *Speech {
	return &Speech{web: client, language: language, tempDir: tempDir}
}

func ttsQuery(text, language string, idx, total int) url.Values {
	return url.Values{
		"ie":      {"UTF-8"},
		"client":  {"tw-ob"},
		"tl":      {language},
		"q":       {text},
		"idx":     {strconv.Itoa(idx)},
		"total":   {strconv.Itoa(total)},
		"textlen": {strconv.Itoa(utf8.RuneCountInString(text))},
	}
}

// SplitText breaks text into chunks of at most limit runes at word boundaries.
// Words longer than limit are cut.
func SplitText(text string, limit int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > limit {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:limit]))
			word = string(runes[limit:])
		}
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()
	return chunks
}

// Synthesize downloads speech for text and returns the path of a temporary MP3.
// The caller owns the file.
func (sp *Speech) Synthesize(ctx context.Context, text string) (string, error) {
	chunks := SplitText(text, ttsChunkRunes)
	if len(chunks) == 0 {
		return "", ErrEmptyText
	}

	var audio bytes.Buffer
	for idx, chunk := range chunks {
		data, err := sp.web.GetBytes(ctx, web.Request{
			URL:    ttsURL,
			Source: "google_tts",
			Query:  ttsQuery(chunk, sp.language, idx, len(chunks)),
			Header: http.Header{"Referer": {"https://translate.google.com/"}},
		})
		if err != nil {
			return "", fmt.Errorf("failed to fetch speech chunk %d: %w", idx, err)
		}
		// MP3 frames can be concatenated as is
		audio.Write(data)
	}

	if err := os.MkdirAll(sp.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(sp.tempDir, "tts-"+uuid.NewString()+".mp3")
	if err := os.WriteFile(path, audio.Bytes(), 0o644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write speech file: %w", err)
	}
	return path, nil
}
