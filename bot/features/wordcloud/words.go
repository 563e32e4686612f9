package wordcloud

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	wordRE = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)
	// Links, mentions, channels and custom emoji carry no words
	noiseRE = regexp.MustCompile(`https?://\S+|<a?:\w+:\d+>|<[@#][!&]?\d+>`)
)

var stopwords = makeSet(strings.Fields(`
	a about above after again against all also am an and any are aren't as at
	be because been before being below between both but by
	can can't cannot com could couldn't
	did didn't do does doesn't doing don't down during
	each else ever
	few for from further
	get had hadn't has hasn't have haven't having he he'd he'll he's hence her here here's hers herself him himself his how how's however http
	i i'd i'll i'm i've if in into is isn't it it's its itself
	just k let's like
	me more most mustn't my myself
	no nor not of off on once only or other otherwise ought our ours ourselves out over own
	r same shall shan't she she'd she'll she's should shouldn't since so some such
	than that that's the their theirs them themselves then there there's therefore these they they'd they'll they're they've this those through to too
	under until up very
	was wasn't we we'd we'll we're we've were weren't what what's when when's where where's which while who who's whom why why's with won't would wouldn't www
	you you'd you'll you're you've your yours yourself yourselves
`))

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// WordCount is a word and how often it appeared
type WordCount struct {
	Word  string
	Count int
}

// Tokenize lowercases text and splits it into words of two or more
// characters. Possessive 's is dropped and bare numbers are skipped.
func Tokenize(text string) []string {
	text = noiseRE.ReplaceAllString(text, " ")

	var words []string
	for _, raw := range wordRE.FindAllString(strings.ToLower(text), -1) {
		word := strings.TrimSuffix(raw, "'s")
		word = strings.Trim(word, "'")
		if utf8.RuneCountInString(word) < 2 || isNumber(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Frequencies counts words across texts, ignoring stopwords and excluded
// words. The result is ordered by count, then alphabetically.
func Frequencies(texts []string, excluded []string) []WordCount {
	skip := makeSet(excluded)
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range Tokenize(text) {
			if _, ok := stopwords[word]; ok {
				continue
			}
			if _, ok := skip[word]; ok {
				continue
			}
			counts[word]++
		}
	}

	result := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		result = append(result, WordCount{Word: word, Count: count})
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].Count != result[b].Count {
			return result[a].Count > result[b].Count
		}
		return result[a].Word < result[b].Word
	})
	return result
}
