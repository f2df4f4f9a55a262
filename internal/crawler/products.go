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

// ProductCrawler paginates the per-category listing pages and extracts
// product records, deduplicating across categories by canonical link.
type ProductCrawler struct {
	fetch PageFetcher
	base  *url.URL
	log   logger.Interface
}

// NewProductCrawler creates a ProductCrawler for the site at baseURL.
func NewProductCrawler(fetch PageFetcher, baseURL string, log logger.Interface) (*ProductCrawler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &ProductCrawler{
		fetch: fetch,
		base:  base,
		log:   log.WithComponent("products"),
	}, nil
}

// Crawl walks every category's listing pages in order and returns the
// aggregated product set in first-seen order. The seen-links set is scoped to
// this call so repeated crawls are independent. A page-level fetch failure
// aborts the whole crawl.
func (c *ProductCrawler) Crawl(ctx context.Context, categories []domain.Category) ([]domain.Product, error) {
	seen := make(map[string]struct{})

	var all []domain.Product

	for _, category := range categories {
		products, pages, err := c.crawlCategory(ctx, category, seen)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category, err)
		}

		c.log.Info("category crawled",
			"category", category,
			"products", len(products),
			"pages", pages,
		)
		all = append(all, products...)
	}

	c.log.Info("product crawl finished", "total", len(all))

	return all, nil
}

// crawlCategory paginates one category's listing. seen is shared across
// categories: a link listed under two categories is recorded once, under the
// category that listed it first.
func (c *ProductCrawler) crawlCategory(
	ctx context.Context,
	category domain.Category,
	seen map[string]struct{},
) ([]domain.Product, int, error) {
	first := NextPage{
		URL: fmt.Sprintf("%s/products?category=%s", strings.TrimRight(c.base.String(), "/"), category),
	}

	var products []domain.Product

	pages, err := crawlPages(ctx, c.fetch, first, pagingLinkCursor{base: c.base}, func(doc *goquery.Document) error {
		doc.Find("div.row.product").Each(func(_ int, card *goquery.Selection) {
			product := c.extractProduct(card, category)
			if _, dup := seen[product.Link]; dup {
				return
			}
			seen[product.Link] = struct{}{}
			products = append(products, product)
		})
		return nil
	})
	if err != nil {
		return nil, pages, err
	}

	return products, pages, nil
}

// extractProduct pulls one product record out of a listing card. Missing
// elements yield empty fields, never an error.
func (c *ProductCrawler) extractProduct(card *goquery.Selection, category domain.Category) domain.Product {
	product := domain.Product{Category: category}

	nameEl := card.Find("h3 a").First()
	if nameEl.Length() > 0 {
		product.Name = strings.TrimSpace(nameEl.Text())
		if href, exists := nameEl.Attr("href"); exists {
			product.Link = resolveURL(c.base, href)
		}
	}

	product.Price = strings.TrimSpace(card.Find("div.price").First().Text())
	product.Description = strings.TrimSpace(card.Find("div.short-description").First().Text())

	return product
}
