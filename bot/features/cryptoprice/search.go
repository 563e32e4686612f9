package cryptoprice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"text/tabwriter"

	"cogbot/bot/common"
	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	pageCount    = 10
	fetchLimit   = 3
	enoughRows   = 3
	tableMaxRows = 10
	topRows      = 5
)

// Row is one currency in the listing
type Row struct {
	Name     string
	PriceUSD string
	PriceBTC string
	Change   string
}

// SearchTerm normalizes a currency query into a row-id fragment
func SearchTerm(currency string) string {
	if strings.TrimSpace(currency) == "" {
		return "id"
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(currency), " ", "-"))
}

// search fetches listing pages concurrently and returns matches in page
// order. No new page is started once more than enoughRows matches are known.
func (f *Feature) search(ctx context.Context, term string) ([]Row, error) {
	pages := make([][]Row, pageCount)
	fetched := make([]bool, pageCount)
	var found atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for idx := 0; idx < pageCount; idx++ {
		g.Go(func() error {
			if found.Load() > enoughRows {
				return nil
			}
			doc, err := f.web.GetDocument(gctx, web.Request{
				URL:    f.baseURL + strconv.Itoa(idx+1),
				Source: "coinmarketcap",
			})
			if err != nil {
				return fmt.Errorf("failed to fetch listing page %d: %w", idx+1, err)
			}
			pages[idx] = MatchRows(doc, term)
			fetched[idx] = true
			found.Add(int64(len(pages[idx])))
			return nil
		})
	}
	err := g.Wait()

	return collect(pages, fetched), err
}

// collect concatenates pages in order, stopping at the first page that was
// not fetched or once more than enoughRows are gathered
func collect(pages [][]Row, fetched []bool) []Row {
	var rows []Row
	for idx, page := range pages {
		if !fetched[idx] {
			break
		}
		rows = append(rows, page...)
		if len(rows) > enoughRows {
			break
		}
	}
	return rows
}

// MatchRows returns the listing rows whose id contains term
func MatchRows(doc *goquery.Document, term string) []Row {
	var rows []Row
	doc.Find("tr[id]").Each(func(_ int, tr *goquery.Selection) {
		if !strings.Contains(tr.AttrOr("id", ""), term) {
			return
		}
		price := tr.Find("a.price").First()
		rows = append(rows, Row{
			Name:     strings.TrimSpace(tr.Find("td.currency-name a").First().Text()),
			PriceUSD: strings.TrimSpace(price.Text()),
			PriceBTC: strings.TrimSpace(price.AttrOr("data-btc", "")),
			Change:   strings.TrimSpace(tr.Find("td.percent-change").First().Text()),
		})
	})
	return rows
}

// Reply picks the message for a set of matches
func Reply(rows []Row, currencyGiven bool) string {
	switch {
	case len(rows) == 0:
		return msgNoMatch
	case len(rows) <= tableMaxRows:
		return common.CodeBlock("", FormatTable(rows))
	case !currencyGiven:
		return common.CodeBlock("", FormatTable(rows[:topRows]))
	default:
		return fmt.Sprintf("Your query matched %d results. Try adding more characters to your search.", len(rows))
	}
}

// FormatTable renders rows as an aligned plain-text table
func FormatTable(rows []Row) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tPrice (USD)\tPrice (BTC)\t24h Change (USD)")
	fmt.Fprintln(w, "----\t-----------\t-----------\t----------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.PriceUSD, r.PriceBTC, r.Change)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
