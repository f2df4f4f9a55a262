package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonesrussell/brandmon/internal/dates"
	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

// reviewsPayloadSelector locates the embedded JSON review payload on a
// product detail page.
const reviewsPayloadSelector = `script#reviews-data[type="application/json"]`

// reviewRecord mirrors one entry of the embedded payload. The site emits ids
// as either strings or numbers.
type reviewRecord struct {
	ID     any      `json:"id"`
	Text   string   `json:"text"`
	Rating *float64 `json:"rating"`
	Date   string   `json:"date"`
}

// ReviewExtractor visits each known product page and lifts the embedded
// review payload out of it.
type ReviewExtractor struct {
	fetch PageFetcher
	log   logger.Interface
}

// NewReviewExtractor creates a ReviewExtractor.
func NewReviewExtractor(fetch PageFetcher, log logger.Interface) *ReviewExtractor {
	return &ReviewExtractor{
		fetch: fetch,
		log:   log.WithComponent("reviews"),
	}
}

// Extract fetches every product's detail page and parses its review payload.
// It returns all reviews plus the in-order subsequence from targetYear.
// Per-product fetch and parse failures are logged and skipped so one bad
// product cannot abort the batch; only context cancellation stops the run.
func (e *ReviewExtractor) Extract(
	ctx context.Context,
	products []domain.Product,
	targetYear int,
) (all, target []domain.Review, err error) {
	for i, product := range products {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return all, target, ctxErr
		}

		e.log.Debug("extracting reviews",
			"product", product.Link,
			"progress", fmt.Sprintf("%d/%d", i+1, len(products)),
		)

		reviews, extractErr := e.extractProduct(ctx, product.Link, targetYear)
		if extractErr != nil {
			e.log.Warn("skipping product",
				"product", product.Link,
				"error", extractErr.Error(),
			)
			continue
		}

		for _, r := range reviews {
			all = append(all, r)
			if r.FromTargetYear {
				target = append(target, r)
			}
		}
	}

	e.log.Info("review extraction finished",
		"total", len(all),
		"target_year", targetYear,
		"target_year_total", len(target),
	)

	return all, target, nil
}

// extractProduct fetches one product page and parses its payload. A page
// without a payload yields zero reviews and no error; a malformed payload is
// an error the caller downgrades to a skip.
func (e *ReviewExtractor) extractProduct(
	ctx context.Context,
	productURL string,
	targetYear int,
) ([]domain.Review, error) {
	doc, err := e.fetch.Fetch(ctx, productURL, nil)
	if err != nil {
		return nil, err
	}

	payload := doc.Find(reviewsPayloadSelector).First()
	if payload.Length() == 0 {
		return nil, nil
	}

	var records []reviewRecord
	if unmarshalErr := json.Unmarshal([]byte(payload.Text()), &records); unmarshalErr != nil {
		return nil, fmt.Errorf("parse reviews payload: %w", unmarshalErr)
	}

	reviews := make([]domain.Review, 0, len(records))
	for _, record := range records {
		reviews = append(reviews, buildReview(record, productURL, targetYear))
	}

	return reviews, nil
}

// buildReview normalizes one payload record. An unparseable date is a normal
// outcome: Date stays nil and FromTargetYear is false.
func buildReview(record reviewRecord, productURL string, targetYear int) domain.Review {
	review := domain.Review{
		ID:         reviewID(record.ID),
		ProductURL: productURL,
		Text:       record.Text,
		Rating:     record.Rating,
		DateRaw:    record.Date,
	}

	if parsed, ok := dates.Parse(record.Date); ok {
		review.Date = &parsed
		review.FromTargetYear = parsed.Year() == targetYear
	}

	return review
}

// reviewID stringifies a payload id, which the site emits as a string or a
// number.
func reviewID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
