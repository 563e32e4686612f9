package comics

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		extract  func(*goquery.Document) string
		expected string
	}{
		{
			name:     "og image",
			html:     `<head><meta property="og:image" content=" https://img.example/ohno.png "></head>`,
			extract:  OGImage,
			expected: "https://img.example/ohno.png",
		},
		{
			name:     "og image missing",
			html:     `<head></head>`,
			extract:  OGImage,
			expected: "",
		},
		{
			name:     "xkcd hotlink",
			html:     `<div id="middleContainer">Permanent link: https://xkcd.com/927/<br>Image URL (for hotlinking/embedding): https://imgs.xkcd.com/comics/standards.png<br></div>`,
			extract:  XKCDImage,
			expected: "https://imgs.xkcd.com/comics/standards.png",
		},
		{
			name:     "dilbert ld+json",
			html:     `<script type="application/ld+json">{"@type": "Article", "image": "https://assets.amuniversal.com/abc"}</script>`,
			extract:  DilbertImage,
			expected: "https://assets.amuniversal.com/abc",
		},
		{
			name:     "dilbert broken json",
			html:     `<script type="application/ld+json">{not json</script>`,
			extract:  DilbertImage,
			expected: "",
		},
		{
			name: "calvin lazyload",
			html: `<img class="lazyload img-fluid" data-srcset="https://other.example/ad.png 900w">
				<img class="lazyload img-fluid" data-srcset="https://assets.amuniversal.com/strip 900w">`,
			extract:  CalvinImage,
			expected: "https://assets.amuniversal.com/strip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.extract(parseHTML(t, tt.html)))
		})
	}
}

func TestSMBCArchive(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, `<select name="comic"><option value="">Select</option><option value="comic/one">One</option><option value="comic/two">Two</option></select>`)
	assert.Equal(t, []string{"comic/one", "comic/two"}, SMBCArchive(doc))
}

func TestAbsolute(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, "<html></html>")
	doc.Url, _ = url.Parse("http://www.mrlovenstein.com/comic/123")

	assert.Equal(t, "http://www.mrlovenstein.com/images/comics/123.png", absolute(doc, "/images/comics/123.png"))
	assert.Equal(t, "https://cdn.example/x.png", absolute(doc, "https://cdn.example/x.png"))
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	calvin := sources["calvin"].dates
	garfield := sources["garfield"].dates

	date, err := calvin.parse("1990-05-01", now)
	require.NoError(t, err)
	assert.Equal(t, day(1990, time.May, 1), date)

	_, err = calvin.parse("2001-01-01", now)
	assert.EqualError(t, err, "This comic can only be used on dates between 1985-11-18 and 1995-12-31.")

	_, err = garfield.parse("2030-01-01", now)
	assert.EqualError(t, err, "This comic can only be used on dates between 1978-06-19 and today.")

	_, err = garfield.parse("yesterday", now)
	assert.EqualError(t, err, "That doesn't seem like a valid date. Try a format like `1994-06-16`.")

	for n := 0; n < 50; n++ {
		picked := calvin.random(now)
		assert.False(t, picked.Before(calvin.first))
		assert.True(t, picked.Before(calvin.last))
	}
}

func TestChoicesCoverEverySource(t *testing.T) {
	t.Parallel()

	choices := Choices()
	require.Len(t, choices, len(sources))
	for _, c := range choices {
		_, ok := sources[c.Value.(string)]
		assert.True(t, ok, c.Value)
	}
}
