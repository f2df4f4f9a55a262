// Package crawler implements the pagination-aware crawl stages for products,
// testimonials, and embedded review payloads.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher is the capability crawlers require from the HTTP layer.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string, extraHeaders map[string]string) (*goquery.Document, error)
}

// NextPage describes how to reach one page of a paginated source: its
// absolute URL and any extra headers the fetch must carry.
type NextPage struct {
	URL     string
	Headers map[string]string
}

// Cursor inspects a fetched page and yields the descriptor for the next one.
// ok is false when pagination is exhausted. Implementations isolate the
// per-source pagination protocol so the crawl loop is written once.
type Cursor interface {
	Next(doc *goquery.Document) (next NextPage, ok bool)
}

// crawlPages runs the shared fetch/extract/advance loop starting at first.
// handle is invoked once per fetched page. Any fetch or handle error aborts
// the loop; paginated sources fail loud on structural errors.
func crawlPages(
	ctx context.Context,
	fetch PageFetcher,
	first NextPage,
	cursor Cursor,
	handle func(doc *goquery.Document) error,
) (pages int, err error) {
	page := first

	for {
		doc, fetchErr := fetch.Fetch(ctx, page.URL, page.Headers)
		if fetchErr != nil {
			return pages, fetchErr
		}
		pages++

		if handleErr := handle(doc); handleErr != nil {
			return pages, fmt.Errorf("page %s: %w", page.URL, handleErr)
		}

		next, ok := cursor.Next(doc)
		if !ok {
			return pages, nil
		}
		page = next
	}
}

// pagingLinkCursor follows conventional pagination: an anchor inside the
// paging control whose visible text is exactly ">".
type pagingLinkCursor struct {
	base *url.URL
}

func (c pagingLinkCursor) Next(doc *goquery.Document) (NextPage, bool) {
	var href string

	doc.Find("div.paging a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) != ">" {
			return true
		}
		href, _ = a.Attr("href")
		return false
	})

	if href == "" {
		return NextPage{}, false
	}

	return NextPage{URL: resolveURL(c.base, href)}, true
}

// triggerCursor follows server-push pagination: a testimonial card whose
// hx-get attribute holds the next page's URL. When several cards carry the
// attribute the last one wins. Pages past the first are header-gated, so the
// descriptor carries the configured extra headers.
type triggerCursor struct {
	base    *url.URL
	headers map[string]string
}

func (c triggerCursor) Next(doc *goquery.Document) (NextPage, bool) {
	var href string

	doc.Find("div.testimonial[hx-get]").Each(func(_ int, card *goquery.Selection) {
		if v, exists := card.Attr("hx-get"); exists && v != "" {
			href = v
		}
	})

	if href == "" {
		return NextPage{}, false
	}

	return NextPage{URL: resolveURL(c.base, href), Headers: c.headers}, true
}

// resolveURL resolves href against base, returning href unchanged when it is
// already absolute or unparseable.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
