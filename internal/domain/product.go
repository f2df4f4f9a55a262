// Package domain defines the record types produced by the crawl stages.
package domain

// Category identifies a product listing category on the target site.
type Category string

const (
	CategoryApparel     Category = "apparel"
	CategoryConsumables Category = "consumables"
	CategoryHousehold   Category = "household"
)

// DefaultCategories is the fixed set of categories crawled by default.
func DefaultCategories() []Category {
	return []Category{CategoryApparel, CategoryConsumables, CategoryHousehold}
}

// Product is a single listing record discovered during the product crawl.
// Link is the canonical absolute URL and is unique across the whole crawl;
// the remaining fields may be empty when the listing card omits them.
// Products are created once and never mutated afterwards.
type Product struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}
