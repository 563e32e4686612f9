package cryptoprice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingRow(id, name, usd, btc, change string) string {
	return fmt.Sprintf(`<tr id="%s">
		<td class="currency-name"><a href="#">%s</a></td>
		<td><a class="price" data-btc="%s">%s</a></td>
		<td class="percent-change">%s</td>
	</tr>`, id, name, btc, usd, change)
}

func listingPage(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "") + "</table></body></html>"
}

type fakeListing struct {
	mu      sync.Mutex
	pages   map[string]string
	fail    map[string]bool
	fetched []string
}

func (f *fakeListing) GetDocument(_ context.Context, req web.Request) (*goquery.Document, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, req.URL)
	f.mu.Unlock()

	if f.fail[req.URL] {
		return nil, &web.StatusError{URL: req.URL, StatusCode: 503}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(listingPage(f.pages[req.URL])))
}

func TestSearchTerm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id", SearchTerm(""))
	assert.Equal(t, "bitcoin-cash", SearchTerm("Bitcoin Cash"))
}

func TestMatchRows(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingPage(
		listingRow("id-bitcoin", "Bitcoin", "$60,000.00", "1.0", "2.5%"),
		listingRow("id-ethereum", "Ethereum", "$3,000.00", "0.05", "-1.2%"),
		`<tr><td>header</td></tr>`,
	)))
	require.NoError(t, err)

	rows := MatchRows(doc, "bitcoin")
	assert.Equal(t, []Row{{Name: "Bitcoin", PriceUSD: "$60,000.00", PriceBTC: "1.0", Change: "2.5%"}}, rows)
	assert.Len(t, MatchRows(doc, "id"), 2)
}

func TestSearch_KeepsPageOrder(t *testing.T) {
	t.Parallel()

	base := "https://cmc.test/"
	listing := &fakeListing{pages: map[string]string{
		base + "1": listingRow("id-btc", "BTC", "1", "1", "0%"),
		base + "2": listingRow("id-eth", "ETH", "2", "2", "0%"),
		base + "3": listingRow("id-ada", "ADA", "3", "3", "0%") + listingRow("id-sol", "SOL", "4", "4", "0%"),
	}}
	f := &Feature{web: listing, baseURL: base}

	rows, err := f.search(context.Background(), "id")
	require.NoError(t, err)

	names := make([]string, len(rows))
	for idx, r := range rows {
		names[idx] = r.Name
	}
	assert.Equal(t, []string{"BTC", "ETH", "ADA", "SOL"}, names)
}

func TestSearch_FailedPageTruncates(t *testing.T) {
	t.Parallel()

	base := "https://cmc.test/"
	listing := &fakeListing{
		pages: map[string]string{
			base + "1": listingRow("id-btc", "BTC", "1", "1", "0%"),
			base + "3": listingRow("id-ada", "ADA", "3", "3", "0%"),
		},
		fail: map[string]bool{base + "2": true},
	}
	f := &Feature{web: listing, baseURL: base}

	rows, err := f.search(context.Background(), "id")
	require.Error(t, err)
	assert.True(t, web.IsStatus(err, 503) || errors.Is(err, context.Canceled))
	require.Len(t, rows, 1)
	assert.Equal(t, "BTC", rows[0].Name)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	row := Row{Name: "x"}
	pages := [][]Row{{row, row}, {row, row}, {row}}
	fetched := []bool{true, true, true}

	assert.Len(t, collect(pages, fetched), 4)
	assert.Len(t, collect(pages, []bool{true, false, true}), 2)
}

func TestReply(t *testing.T) {
	t.Parallel()

	many := make([]Row, 12)
	for idx := range many {
		many[idx] = Row{Name: fmt.Sprintf("C%d", idx)}
	}

	tests := []struct {
		name          string
		rows          []Row
		currencyGiven bool
		check         func(t *testing.T, reply string)
	}{
		{
			name: "no matches",
			check: func(t *testing.T, reply string) {
				assert.Equal(t, "Couldn't find a currency matching your query.", reply)
			},
		},
		{
			name:          "table",
			rows:          many[:2],
			currencyGiven: true,
			check: func(t *testing.T, reply string) {
				assert.True(t, strings.HasPrefix(reply, "```\nName"))
				assert.Contains(t, reply, "C1")
			},
		},
		{
			name: "top five without currency",
			rows: many,
			check: func(t *testing.T, reply string) {
				assert.Contains(t, reply, "C4")
				assert.NotContains(t, reply, "C5")
			},
		},
		{
			name:          "too many with currency",
			rows:          many,
			currencyGiven: true,
			check: func(t *testing.T, reply string) {
				assert.Equal(t, "Your query matched 12 results. Try adding more characters to your search.", reply)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, Reply(tt.rows, tt.currencyGiven))
		})
	}
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	table := FormatTable([]Row{{Name: "Bitcoin", PriceUSD: "$1", PriceBTC: "1.0", Change: "5%"}})
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name     Price (USD)  Price (BTC)  24h Change (USD)", lines[0])
	assert.Equal(t, "Bitcoin  $1           1.0          5%", lines[2])
}
