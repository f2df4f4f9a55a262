package domain

// Testimonial is a customer testimonial card. Text is required: cards without
// text are non-content placeholders and are discarded during the crawl.
// Rating is the number of rating glyphs on the card, nil when the card has no
// rating container.
type Testimonial struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Rating *int   `json:"rating"`
}
