package blizzard

import (
	"errors"
	"strings"
	"unicode/utf8"

	"cogbot/bot/common"

	"github.com/PuerkitoBio/goquery"
)

const (
	notesPageSize      = 1000
	quoteUnderRunes    = 80
	embedSummaryLength = 1024
)

var errNoNotes = errors.New("no patch notes found")

// Notes is a patch note rendered as markdown lines
type Notes struct {
	Title string
	Lines []string
}

// Pages splits the notes into markdown code blocks
func (n *Notes) Pages() []string {
	return common.CodeBlockPages("markdown", n.Lines, notesPageSize)
}

// Summary returns everything after the title and its underline
func (n *Notes) Summary() string {
	body := n.Lines
	if len(body) > 2 {
		body = body[2:]
	}
	return common.Truncate(strings.TrimSpace(strings.Join(body, "\n")), embedSummaryLength)
}

// RenderNotes converts the first patch note on a launcher page to markdown
func RenderNotes(doc *goquery.Document, g game) (*Notes, error) {
	interior := doc.Find("div.patch-notes-interior").First()
	if interior.Length() == 0 {
		return nil, errNoNotes
	}

	notes := &Notes{}
	title := func(text string) {
		if notes.Title == "" {
			notes.Title = text
		}
		notes.Lines = append(notes.Lines, text, underline(text, "="))
	}

	if g.header != "" {
		title(g.header)
	}

	promote := g.promoteFirstParagraph
	interior.Children().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		text := strings.TrimSpace(child.Text())

		switch {
		case name == "p" && promote:
			promote = false
			if text != "" {
				title(text)
			}
		case name == "h1":
			title(text)
		case len(name) == 2 && name[0] == 'h' && name[1] >= '2' && name[1] <= '6':
			notes.Lines = append(notes.Lines, "", text, underline(text, "-"))
		case name == "p":
			if text == "" {
				return
			}
			if utf8.RuneCountInString(text) < quoteUnderRunes {
				text = "> " + text
			}
			notes.Lines = append(notes.Lines, "", text)
		case name == "li" || name == "ul" || name == "ol":
			notes.Lines = append(notes.Lines, "")
			notes.Lines = walkList(child, listDepth(name), notes.Lines)
		}
	})

	if len(notes.Lines) == 0 {
		return nil, errNoNotes
	}
	if notes.Title == "" {
		notes.Title = strings.ToUpper(g.label) + " PATCH NOTES"
	}
	return notes, nil
}

// listDepth is the indent level of the text directly inside a top-level node
func listDepth(name string) int {
	if name == "li" {
		return 0
	}
	return -1
}

// walkList emits one "* item" line per text node, indented two spaces per
// level of list nesting
func walkList(sel *goquery.Selection, depth int, lines []string) []string {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			if text := strings.TrimSpace(node.Text()); text != "" {
				lines = append(lines, strings.Repeat("  ", max(depth, 0))+"* "+text)
			}
			return
		}
		next := depth
		if goquery.NodeName(node) == "li" {
			next++
		}
		lines = walkList(node, next, lines)
	})
	return lines
}

func underline(text, char string) string {
	return strings.Repeat(char, utf8.RuneCountInString(text))
}
