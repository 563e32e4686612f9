package dongers

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDongers(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<textarea class="donger">ヽ༼ຈل͜ຈ༽ﾉ</textarea>
		<textarea class="other">not a donger</textarea>
		<textarea class="donger">  (ง •̀_•́)ง  </textarea>
		<textarea class="donger"></textarea>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"ヽ༼ຈل͜ຈ༽ﾉ", "(ง •̀_•́)ง"}, ExtractDongers(doc))
}

func TestExtractDongers_Empty(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.Empty(t, ExtractDongers(doc))
}
