package common

import (
	"fmt"
	"strings"
	"time"
)

// Pagify splits text into pages no longer than maxLen, breaking on newlines
// where possible. Lines longer than maxLen are hard-split.
func Pagify(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}

	var pages []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			pages = append(pages, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > maxLen {
			flush()
			cut := runeBoundary(line, maxLen)
			pages = append(pages, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > maxLen {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return pages
}

// runeBoundary returns the largest index <= n that starts a UTF-8 rune
func runeBoundary(s string, n int) int {
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return n
}

// CodeBlockPages wraps lines in code blocks so that every page, fences
// included, fits in maxLen
func CodeBlockPages(lang string, lines []string, maxLen int) []string {
	open := "```" + lang + "\n"
	closing := "\n```"
	budget := maxLen - len(open) - len(closing)

	pages := Pagify(strings.Join(lines, "\n"), budget)
	for i, p := range pages {
		pages[i] = open + p + closing
	}
	return pages
}

// CodeBlock wraps text in a single code block
func CodeBlock(lang, text string) string {
	return "```" + lang + "\n" + text + "\n```"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "30s"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
