// Package dataset serializes crawl results to the CSV tables the external
// dashboard reads. Column orders are part of that contract and never change.
package dataset

import (
	"strconv"

	"github.com/jonesrussell/brandmon/internal/domain"
)

// Output file names, relative to the configured output directory.
const (
	ProductsFile      = "products.csv"
	TestimonialsFile  = "testimonials.csv"
	AllReviewsFile    = "reviews_all.csv"
	TargetReviewsFile = "reviews.csv"
)

// DateLayout is how normalized review dates serialize. The dashboard only
// needs a parseable calendar date.
const DateLayout = "2006-01-02"

// Column orders, exactly as the dashboard expects them.
var (
	ProductColumns     = []string{"name", "price", "link", "description", "category"}
	TestimonialColumns = []string{"author", "text", "rating"}
	ReviewColumns      = []string{"review_id", "product_url", "text", "rating", "date_raw", "date", "is_from_2023"}
)

// productRow serializes one product. Absent fields are already empty strings.
func productRow(p domain.Product) []string {
	return []string{p.Name, p.Price, p.Link, p.Description, string(p.Category)}
}

// testimonialRow serializes one testimonial. A nil rating is an empty field.
func testimonialRow(t domain.Testimonial) []string {
	rating := ""
	if t.Rating != nil {
		rating = strconv.Itoa(*t.Rating)
	}

	return []string{t.Author, t.Text, rating}
}

// reviewRow serializes one review. Nil rating and nil date are empty fields.
func reviewRow(r domain.Review) []string {
	rating := ""
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}

	date := ""
	if r.Date != nil {
		date = r.Date.Format(DateLayout)
	}

	return []string{
		r.ID,
		r.ProductURL,
		r.Text,
		rating,
		r.DateRaw,
		date,
		strconv.FormatBool(r.FromTargetYear),
	}
}
