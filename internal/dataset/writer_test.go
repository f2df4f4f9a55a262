package dataset_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/brandmon/internal/dataset"
	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestWriteProducts_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := dataset.NewWriter(dir, logger.NewNoOp())

	products := []domain.Product{
		{Name: "Shirt", Price: "$9.99", Link: "https://shop.test/p/1", Description: "A shirt", Category: domain.CategoryApparel},
		{Link: "https://shop.test/p/2", Category: domain.CategoryHousehold}, // absent optional fields
	}

	path, err := writer.WriteProducts(products)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, dataset.ProductsFile), path)

	header, rows, err := dataset.ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, dataset.ProductColumns, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Shirt", "$9.99", "https://shop.test/p/1", "A shirt", "apparel"}, rows[0])
	assert.Equal(t, []string{"", "", "https://shop.test/p/2", "", "household"}, rows[1])
}

func TestWriteTestimonials_AbsentRatingIsEmpty(t *testing.T) {
	t.Parallel()

	writer := dataset.NewWriter(t.TempDir(), logger.NewNoOp())

	path, err := writer.WriteTestimonials([]domain.Testimonial{
		{Author: "alice", Text: "love it", Rating: intPtr(5)},
		{Text: "anonymous, no rating"},
	})
	require.NoError(t, err)

	header, rows, err := dataset.ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, dataset.TestimonialColumns, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"alice", "love it", "5"}, rows[0])
	assert.Equal(t, []string{"", "anonymous, no rating", ""}, rows[1])
}

func TestWriteReviews_BothViews(t *testing.T) {
	t.Parallel()

	writer := dataset.NewWriter(t.TempDir(), logger.NewNoOp())

	inYear := domain.Review{
		ID:             "r-1",
		ProductURL:     "https://shop.test/p/1",
		Text:           "great",
		Rating:         floatPtr(4.5),
		DateRaw:        "2023-03-15",
		Date:           timePtr(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)),
		FromTargetYear: true,
	}
	undated := domain.Review{
		ID:         "r-2",
		ProductURL: "https://shop.test/p/1",
		DateRaw:    "not-a-date",
	}

	allPath, err := writer.WriteReviews(dataset.AllReviewsFile, []domain.Review{inYear, undated})
	require.NoError(t, err)

	header, rows, err := dataset.ReadTable(allPath)
	require.NoError(t, err)

	assert.Equal(t, dataset.ReviewColumns, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"r-1", "https://shop.test/p/1", "great", "4.5", "2023-03-15", "2023-03-15", "true"}, rows[0])
	assert.Equal(t, []string{"r-2", "https://shop.test/p/1", "", "", "not-a-date", "", "false"}, rows[1])

	// the target-year file is the same encoding over the filtered subset
	targetPath, err := writer.WriteReviews(dataset.TargetReviewsFile, []domain.Review{inYear})
	require.NoError(t, err)

	_, targetRows, err := dataset.ReadTable(targetPath)
	require.NoError(t, err)
	require.Len(t, targetRows, 1)
	assert.Equal(t, rows[0], targetRows[0])
}

func TestWriteTable_EmptySetKeepsHeader(t *testing.T) {
	t.Parallel()

	writer := dataset.NewWriter(t.TempDir(), logger.NewNoOp())

	path, err := writer.WriteProducts(nil)
	require.NoError(t, err)

	header, rows, err := dataset.ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, dataset.ProductColumns, header)
	assert.Empty(t, rows)
}
