package comics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
	"time"

	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
)

type finder func(ctx context.Context, w fetcher, date time.Time) (string, error)

type source struct {
	name  string
	title string
	dates *dateRange
	find  finder
}

// dateRange bounds the strips a dated comic has. A zero last means today.
type dateRange struct {
	first time.Time
	last  time.Time
	hint  string
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var sourceOrder = []string{"ohno", "smbc", "pbf", "cah", "xkcd", "mrls", "chainsaw", "sarah", "garfield", "dilbert", "calvin"}

var sources = map[string]*source{
	"ohno":     {name: "ohno", title: "Webcomic Name", find: ogImageAt("http://webcomicname.com/random")},
	"smbc":     {name: "smbc", title: "Saturday Morning Breakfast Cereal", find: findSMBC},
	"pbf":      {name: "pbf", title: "The Perry Bible Fellowship", find: ogImageAt("http://pbfcomics.com/random")},
	"cah":      {name: "cah", title: "Cyanide and Happiness", find: ogImageAt("http://explosm.net/comics/random")},
	"xkcd":     {name: "xkcd", title: "xkcd", find: findXKCD},
	"mrls":     {name: "mrls", title: "Mr. Lovenstein", find: findMrLovenstein},
	"chainsaw": {name: "chainsaw", title: "Chainsawsuit", find: ogImageAt("https://www.gocomics.com/random/chainsawsuit")},
	"sarah":    {name: "sarah", title: "Sarah's Scribbles", find: ogImageAt("https://www.gocomics.com/random/sarahs-scribbles")},
	"garfield": {
		name:  "garfield",
		title: "Garfield",
		dates: &dateRange{first: day(1978, time.June, 19), hint: "1994-06-16"},
		find:  findGoComicsDated("garfield", OGImage),
	},
	"dilbert": {
		name:  "dilbert",
		title: "Dilbert",
		dates: &dateRange{first: day(1989, time.April, 16), hint: "2020-01-15"},
		find:  findDilbert,
	},
	"calvin": {
		name:  "calvin",
		title: "Calvin and Hobbes",
		dates: &dateRange{first: day(1985, time.November, 18), last: day(1995, time.December, 31), hint: "1995-12-31"},
		find:  findGoComicsDated("calvinandhobbes", CalvinImage),
	},
}

func (r *dateRange) end(now time.Time) time.Time {
	if r.last.IsZero() {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return r.last
}

// random picks a day in [first, end)
func (r *dateRange) random(now time.Time) time.Time {
	days := int(r.end(now).Sub(r.first).Hours() / 24)
	if days <= 0 {
		return r.first
	}
	return r.first.AddDate(0, 0, rand.IntN(days))
}

func (r *dateRange) parse(raw string, now time.Time) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("That doesn't seem like a valid date. Try a format like `%s`.", r.hint)
	}
	end := r.end(now)
	if date.Before(r.first) || date.After(end) {
		last := end.Format(time.DateOnly)
		if r.last.IsZero() {
			last = "today"
		}
		return time.Time{}, fmt.Errorf("This comic can only be used on dates between %s and %s.", r.first.Format(time.DateOnly), last)
	}
	return date, nil
}

func ogImageAt(pageURL string) finder {
	return func(ctx context.Context, w fetcher, _ time.Time) (string, error) {
		doc, err := w.GetDocument(ctx, web.Request{URL: pageURL, Source: "comics"})
		if err != nil {
			return "", err
		}
		return OGImage(doc), nil
	}
}

func findGoComicsDated(slug string, extract func(*goquery.Document) string) finder {
	return func(ctx context.Context, w fetcher, date time.Time) (string, error) {
		doc, err := w.GetDocument(ctx, web.Request{
			URL:    fmt.Sprintf("https://www.gocomics.com/%s/%s", slug, date.Format("2006/01/02")),
			Source: "comics",
		})
		if err != nil {
			return "", err
		}
		return extract(doc), nil
	}
}

func findSMBC(ctx context.Context, w fetcher, _ time.Time) (string, error) {
	archive, err := w.GetDocument(ctx, web.Request{URL: "http://www.smbc-comics.com/comic/archive", Source: "comics"})
	if err != nil {
		return "", err
	}
	stubs := SMBCArchive(archive)
	if len(stubs) == 0 {
		return "", errors.New("smbc archive is empty")
	}
	doc, err := w.GetDocument(ctx, web.Request{
		URL:    "http://www.smbc-comics.com/" + strings.TrimPrefix(stubs[rand.IntN(len(stubs))], "/"),
		Source: "comics",
	})
	if err != nil {
		return "", err
	}
	return OGImage(doc), nil
}

type xkcdInfo struct {
	Num int `json:"num"`
}

func findXKCD(ctx context.Context, w fetcher, _ time.Time) (string, error) {
	var latest xkcdInfo
	if err := w.GetJSON(ctx, web.Request{URL: "https://xkcd.com/info.0.json", Source: "comics"}, &latest); err != nil {
		return "", err
	}
	if latest.Num <= 0 {
		return "", errors.New("xkcd returned no latest comic")
	}
	doc, err := w.GetDocument(ctx, web.Request{
		URL:    fmt.Sprintf("https://xkcd.com/%d/", rand.IntN(latest.Num)+1),
		Source: "comics",
	})
	if err != nil {
		return "", err
	}
	return XKCDImage(doc), nil
}

func findMrLovenstein(ctx context.Context, w fetcher, _ time.Time) (string, error) {
	doc, err := w.GetDocument(ctx, web.Request{URL: "http://www.mrlovenstein.com/shuffle", Source: "comics"})
	if err != nil {
		return "", err
	}
	src, ok := doc.Find("#comic_main_image").Attr("src")
	if !ok {
		return "", nil
	}
	return absolute(doc, src), nil
}

func findDilbert(ctx context.Context, w fetcher, date time.Time) (string, error) {
	doc, err := w.GetDocument(ctx, web.Request{
		URL:    "https://dilbert.com/strip/" + date.Format(time.DateOnly),
		Source: "comics",
	})
	if err != nil {
		return "", err
	}
	return DilbertImage(doc), nil
}

// OGImage returns the page's og:image
func OGImage(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(`meta[property="og:image"]`).First().AttrOr("content", ""))
}

// SMBCArchive returns the comic paths listed in the archive picker
func SMBCArchive(doc *goquery.Document) []string {
	var stubs []string
	doc.Find(`select[name="comic"] option`).Each(func(_ int, sel *goquery.Selection) {
		if v := strings.TrimSpace(sel.AttrOr("value", "")); v != "" {
			stubs = append(stubs, v)
		}
	})
	return stubs
}

var xkcdHotlinkRE = regexp.MustCompile(`Image URL \(for hotlinking/embedding\):\s*(https?://\S+)`)

// XKCDImage reads the hotlinking URL printed under each strip
func XKCDImage(doc *goquery.Document) string {
	m := xkcdHotlinkRE.FindStringSubmatch(doc.Text())
	if m == nil {
		return ""
	}
	return m[1]
}

// DilbertImage reads the image from the page's ld+json block
func DilbertImage(doc *goquery.Document) string {
	var image string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var info struct {
			Image string `json:"image"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &info); err != nil {
			return true
		}
		image = info.Image
		return image == ""
	})
	return image
}

// CalvinImage picks the strip out of the lazy-loaded images
func CalvinImage(doc *goquery.Document) string {
	var image string
	doc.Find("img.lazyload").Each(func(_ int, sel *goquery.Selection) {
		srcset := sel.AttrOr("data-srcset", "")
		if strings.HasPrefix(srcset, "https://assets.amuniversal.com/") {
			image = strings.Fields(srcset)[0]
		}
	})
	return image
}

func absolute(doc *goquery.Document, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil || parsed.IsAbs() || doc.Url == nil {
		return ref
	}
	return doc.Url.ResolveReference(parsed).String()
}
