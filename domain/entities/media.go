package entities

const (
	MinVolume = 0
	MaxVolume = 200
)

// WordcloudSettings configures wordcloud rendering for a guild
type WordcloudSettings struct {
	GuildID       int64
	BgColor       string
	MaxWords      int // Zero means the default of 200
	ExcludedWords []string
	MaskFile      *string
	ColorMask     bool
}

// DefaultMaxWords is used when MaxWords is zero
const DefaultMaxWords = 200

// EffectiveMaxWords resolves the zero value to the default
func (w *WordcloudSettings) EffectiveMaxWords() int {
	if w.MaxWords <= 0 {
		return DefaultMaxWords
	}
	return w.MaxWords
}

// IsExcluded reports whether word was excluded by the guild
func (w *WordcloudSettings) IsExcluded(word string) bool {
	for _, excluded := range w.ExcludedWords {
		if excluded == word {
			return true
		}
	}
	return false
}
