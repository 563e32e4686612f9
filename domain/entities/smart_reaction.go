package entities

import (
	"sort"
	"strings"
)

// SmartReaction is an emoji together with the words that trigger it
type SmartReaction struct {
	Emoji string
	Words []string
}

// SmartReactionSet maps emoji to trigger words for one guild
type SmartReactionSet []*SmartReaction

// Match returns the emojis whose trigger words appear as whole words in content.
// Words are split on whitespace after lowercasing; punctuation is kept.
func (s SmartReactionSet) Match(content string) []string {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(content)) {
		words[w] = struct{}{}
	}

	var matched []string
	for _, reaction := range s {
		for _, trigger := range reaction.Words {
			if _, ok := words[trigger]; ok {
				matched = append(matched, reaction.Emoji)
				break
			}
		}
	}
	return matched
}

// Sorted returns a copy ordered by emoji with each word list sorted
func (s SmartReactionSet) Sorted() SmartReactionSet {
	out := make(SmartReactionSet, 0, len(s))
	for _, r := range s {
		words := append([]string(nil), r.Words...)
		sort.Strings(words)
		out = append(out, &SmartReaction{Emoji: r.Emoji, Words: words})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Emoji < out[j].Emoji })
	return out
}
