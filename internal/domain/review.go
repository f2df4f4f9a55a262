package domain

import "time"

// Review is a single product review lifted from the JSON payload embedded in
// a product detail page. DateRaw holds the site's date string verbatim; Date
// is its normalized form and stays nil when the raw string matches none of
// the supported formats. FromTargetYear is derived: true iff Date is set and
// its year equals the configured target year.
type Review struct {
	ID             string     `json:"review_id"`
	ProductURL     string     `json:"product_url"`
	Text           string     `json:"text"`
	Rating         *float64   `json:"rating"`
	DateRaw        string     `json:"date_raw"`
	Date           *time.Time `json:"date"`
	FromTargetYear bool       `json:"is_from_2023"`
}
