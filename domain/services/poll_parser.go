package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cogbot/domain/entities"
)

// Poll parse errors. Their text is shown to the user as is.
var (
	ErrPollMissingQuestion = errors.New("Poll question must end with a question mark.")
	ErrPollTooFewOptions   = errors.New("Polls need at least 2 options.")
	ErrPollTooManyOptions  = errors.New("Polls can have at most 20 options.")
	ErrPollInvalidDuration = errors.New("Invalid poll duration.")
)

const multiVoteFlag = "multi-vote"

// pollUnits maps every accepted unit spelling to its length
var pollUnits = map[string]time.Duration{
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
}

// ParsePoll parses "question? option; option; ..." with two optional
// markers: a standalone "multi-vote" word anywhere in the text, and a
// "t=1h30m" or "time=1h30m" duration anywhere after the question. When the
// duration marker appears more than once the last one wins.
func ParsePoll(text string, defaultDuration time.Duration) (*entities.ParsedPoll, error) {
	parsed := &entities.ParsedPoll{Duration: defaultDuration}

	text, parsed.MultipleVotes = cutMultiVote(text)
	text = strings.TrimSpace(text)

	idx := strings.IndexByte(text, '?')
	if idx < 0 {
		return nil, ErrPollMissingQuestion
	}
	parsed.Question = strings.TrimSpace(text[:idx+1])
	if parsed.Question == "?" {
		return nil, ErrPollMissingQuestion
	}
	rest := text[idx+1:]

	if start, ok := lastTimeMarker(rest); ok {
		spec := rest[start:]
		spec = spec[strings.IndexByte(spec, '=')+1:]
		d, consumed, err := parseDurationGroups(spec)
		if err != nil {
			return nil, err
		}
		parsed.Duration = d
		rest = rest[:start] + " " + spec[consumed:]
	}

	for _, option := range strings.Split(rest, ";") {
		option = strings.TrimSpace(option)
		if option != "" {
			parsed.Options = append(parsed.Options, option)
		}
	}

	switch {
	case len(parsed.Options) < entities.MinPollOptions:
		return nil, ErrPollTooFewOptions
	case len(parsed.Options) > entities.MaxPollOptions:
		return nil, ErrPollTooManyOptions
	}

	return parsed, nil
}

// cutMultiVote removes every whitespace-delimited "multi-vote" word.
// "multi-voters" and "non-multi-vote" are left alone.
func cutMultiVote(s string) (string, bool) {
	found := false
	for i := 0; i+len(multiVoteFlag) <= len(s); {
		end := i + len(multiVoteFlag)
		if strings.EqualFold(s[i:end], multiVoteFlag) && isWordEdge(s, i-1) && isWordEdge(s, end) {
			s = s[:i] + s[end:]
			found = true
			continue
		}
		i++
	}
	return s, found
}

func isWordEdge(s string, i int) bool {
	return i < 0 || i >= len(s) || s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r'
}

// lastTimeMarker returns the offset of the last "t=" or "time=" that starts
// a word or follows an option separator
func lastTimeMarker(s string) (int, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !isWordEdge(s, i-1) && s[i-1] != ';' {
			continue
		}
		if hasFoldPrefix(s[i:], "t=") || hasFoldPrefix(s[i:], "time=") {
			return i, true
		}
	}
	return 0, false
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// parseDurationGroups consumes "<n><unit>" groups separated by optional
// spaces and returns the total with the number of bytes consumed.
func parseDurationGroups(s string) (time.Duration, int, error) {
	var total time.Duration
	groups := 0
	pos := 0

	for {
		i := pos
		for i < len(s) && s[i] == ' ' {
			i++
		}
		digitsStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == digitsStart {
			break
		}
		n, err := strconv.ParseInt(s[digitsStart:i], 10, 64)
		if err != nil {
			return 0, 0, ErrPollInvalidDuration
		}
		if i < len(s) && s[i] == ' ' {
			i++
		}
		unitStart := i
		for i < len(s) && s[i] < unicode.MaxASCII && unicode.IsLetter(rune(s[i])) {
			i++
		}
		unit, ok := pollUnits[strings.ToLower(s[unitStart:i])]
		if !ok {
			break
		}
		if n > math.MaxInt64/int64(unit) {
			return 0, 0, ErrPollInvalidDuration
		}
		add := time.Duration(n) * unit
		if total > math.MaxInt64-add {
			return 0, 0, ErrPollInvalidDuration
		}
		total += add
		groups++
		pos = i
	}

	if groups == 0 || total <= 0 {
		return 0, 0, ErrPollInvalidDuration
	}
	return total, pos, nil
}

var keycapEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// PollEmojis returns the reaction emojis for n options: keycaps first, then
// regional indicator letters.
func PollEmojis(n int) []string {
	emojis := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < len(keycapEmojis) {
			emojis = append(emojis, keycapEmojis[i])
			continue
		}
		emojis = append(emojis, string(rune(0x1F1E6+i-len(keycapEmojis))))
	}
	return emojis
}
