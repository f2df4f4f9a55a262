package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

// SecretTokenHeader gates testimonial pages past the first one.
const SecretTokenHeader = "x-secret-token"

// TestimonialCrawler walks the HTMX-paginated testimonial listing. The first
// page is fetched with default headers only; every later page requires the
// secret token plus a referer pointing at the listing's canonical URL.
type TestimonialCrawler struct {
	fetch       PageFetcher
	base        *url.URL
	secretToken string
	log         logger.Interface
}

// NewTestimonialCrawler creates a TestimonialCrawler for the site at baseURL.
func NewTestimonialCrawler(
	fetch PageFetcher,
	baseURL, secretToken string,
	log logger.Interface,
) (*TestimonialCrawler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &TestimonialCrawler{
		fetch:       fetch,
		base:        base,
		secretToken: secretToken,
		log:         log.WithComponent("testimonials"),
	}, nil
}

// Crawl fetches testimonial pages until no lazy-load trigger remains and
// returns the collected records. Cards without text are non-content
// placeholders and are dropped. A page-level fetch failure aborts the crawl.
func (c *TestimonialCrawler) Crawl(ctx context.Context) ([]domain.Testimonial, error) {
	listingURL := strings.TrimRight(c.base.String(), "/") + "/testimonials"

	cursor := triggerCursor{
		base: c.base,
		headers: map[string]string{
			SecretTokenHeader: c.secretToken,
			"Referer":         listingURL,
		},
	}

	var testimonials []domain.Testimonial

	pages, err := crawlPages(ctx, c.fetch, NextPage{URL: listingURL}, cursor, func(doc *goquery.Document) error {
		doc.Find("div.testimonial").Each(func(_ int, card *goquery.Selection) {
			if t, ok := extractTestimonial(card); ok {
				testimonials = append(testimonials, t)
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("testimonial crawl finished", "total", len(testimonials), "pages", pages)

	return testimonials, nil
}

// extractTestimonial pulls one testimonial out of a card. ok is false when
// the card carries no text.
func extractTestimonial(card *goquery.Selection) (domain.Testimonial, bool) {
	text := strings.TrimSpace(card.Find("p.text").First().Text())
	if text == "" {
		return domain.Testimonial{}, false
	}

	t := domain.Testimonial{Text: text}

	if author, exists := card.Find("identicon-svg").First().Attr("username"); exists {
		t.Author = author
	}

	ratingEl := card.Find("span.rating").First()
	if ratingEl.Length() > 0 {
		stars := ratingEl.Find("svg").Length()
		t.Rating = &stars
	}

	return t, true
}
