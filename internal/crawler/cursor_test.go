package crawler

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u
}

func TestPagingLinkCursor_OnlyFollowsNextGlyph(t *testing.T) {
	t.Parallel()

	cursor := pagingLinkCursor{base: mustURL(t, "https://shop.test")}

	doc := mustDoc(t, `<div class="paging">
		<a href="/products?page=1">1</a>
		<a href="/products?page=2">2</a>
		<a href="/products?page=2">&gt;</a>
	</div>`)

	next, ok := cursor.Next(doc)
	require.True(t, ok)
	assert.Equal(t, "https://shop.test/products?page=2", next.URL)
	assert.Empty(t, next.Headers)
}

func TestPagingLinkCursor_NoNextAnchor(t *testing.T) {
	t.Parallel()

	cursor := pagingLinkCursor{base: mustURL(t, "https://shop.test")}

	doc := mustDoc(t, `<div class="paging"><a href="/products?page=1">1</a></div>`)

	_, ok := cursor.Next(doc)
	assert.False(t, ok)
}

func TestTriggerCursor_LastTriggerWinsAndCarriesHeaders(t *testing.T) {
	t.Parallel()

	headers := map[string]string{SecretTokenHeader: "tok"}
	cursor := triggerCursor{base: mustURL(t, "https://shop.test"), headers: headers}

	doc := mustDoc(t, `<body>
		<div class="testimonial" hx-get="/api/testimonials?page=2"></div>
		<div class="testimonial" hx-get="/api/testimonials?page=3"></div>
	</body>`)

	next, ok := cursor.Next(doc)
	require.True(t, ok)
	assert.Equal(t, "https://shop.test/api/testimonials?page=3", next.URL)
	assert.Equal(t, headers, next.Headers)
}

func TestTriggerCursor_AbsoluteTriggerURLUnchanged(t *testing.T) {
	t.Parallel()

	cursor := triggerCursor{base: mustURL(t, "https://shop.test")}

	doc := mustDoc(t, `<div class="testimonial" hx-get="https://cdn.shop.test/api/testimonials?page=2"></div>`)

	next, ok := cursor.Next(doc)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.shop.test/api/testimonials?page=2", next.URL)
}
