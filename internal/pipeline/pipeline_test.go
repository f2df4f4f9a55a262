package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jonesrussell/brandmon/internal/config"
	"github.com/jonesrussell/brandmon/internal/dataset"
	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/fetcher"
	"github.com/jonesrussell/brandmon/internal/logger"
	"github.com/jonesrussell/brandmon/internal/pipeline"
	"github.com/jonesrussell/brandmon/internal/storage"
)

const testToken = "secret123"

// newFakeShop serves a minimal but complete shop: one apparel product with
// two reviews, an empty household category, and two testimonial pages linked
// by a lazy-load trigger.
func newFakeShop(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") != "apparel" {
			_, _ = w.Write([]byte("<html><body></body></html>"))
			return
		}
		_, _ = w.Write([]byte(`<html><body>
			<div class="row product">
				<h3><a href="/product/1">Box of Chocolate Candy</a></h3>
				<div class="price">$9.99</div>
				<div class="short-description">Sweet.</div>
			</div>
		</body></html>`))
	})

	mux.HandleFunc("/product/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script id="reviews-data" type="application/json">[
				{"id": "r-1", "text": "lovely", "rating": 5, "date": "2023-04-01"},
				{"id": "r-2", "text": "stale", "rating": 2, "date": "2022-09-09"}
			]</script>
		</body></html>`))
	})

	mux.HandleFunc("/testimonials", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div class="testimonial">
				<identicon-svg username="alice"></identicon-svg>
				<p class="text">Great shop</p>
				<span class="rating"><svg></svg><svg></svg></span>
			</div>
			<div class="testimonial" hx-get="/api/testimonials?page=2"></div>
		</body></html>`))
	})

	mux.HandleFunc("/api/testimonials", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-secret-token") != testToken {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`<html><body>
			<div class="testimonial">
				<identicon-svg username="bob"></identicon-svg>
				<p class="text">Fast shipping</p>
			</div>
		</body></html>`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newTestPipeline(t *testing.T, baseURL, outDir string, sink pipeline.Sink) *pipeline.Pipeline {
	t.Helper()

	cfg := &config.Config{
		BaseURL:           baseURL,
		Categories:        []domain.Category{domain.CategoryApparel, domain.CategoryHousehold},
		TargetYear:        2023,
		RequestsPerSecond: 1,
		SecretToken:       testToken,
		OutputDir:         outDir,
	}
	require.NoError(t, cfg.Validate())

	fetch := fetcher.New(fetcher.Config{
		Limiter: rate.NewLimiter(rate.Inf, 1),
	}, logger.NewNoOp())

	writer := dataset.NewWriter(outDir, logger.NewNoOp())

	return pipeline.New(cfg, fetch, writer, sink, logger.NewNoOp())
}

func TestRun_WritesAllDatasets(t *testing.T) {
	t.Parallel()

	server := newFakeShop(t)
	outDir := t.TempDir()

	p := newTestPipeline(t, server.URL, outDir, nil)

	summary, err := p.Run(context.Background(), pipeline.Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 2, summary.Testimonials)
	assert.Equal(t, 2, summary.Reviews)
	assert.Equal(t, 1, summary.TargetYearReviews)
	assert.Len(t, summary.Files, 4)

	// reviews.csv is the target-year projection of reviews_all.csv
	_, allRows, err := dataset.ReadTable(filepath.Join(outDir, dataset.AllReviewsFile))
	require.NoError(t, err)
	_, targetRows, err := dataset.ReadTable(filepath.Join(outDir, dataset.TargetReviewsFile))
	require.NoError(t, err)

	require.Len(t, allRows, 2)
	require.Len(t, targetRows, 1)
	assert.Equal(t, allRows[0], targetRows[0])
}

func TestRun_SkipStages(t *testing.T) {
	t.Parallel()

	server := newFakeShop(t)
	outDir := t.TempDir()

	p := newTestPipeline(t, server.URL, outDir, nil)

	summary, err := p.Run(context.Background(), pipeline.Options{
		SkipTestimonials: true,
		SkipReviews:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Products)
	assert.Zero(t, summary.Testimonials)
	assert.Zero(t, summary.Reviews)
	assert.Len(t, summary.Files, 1)
}

func TestRun_SkipProductsStillFeedsReviews(t *testing.T) {
	t.Parallel()

	server := newFakeShop(t)
	outDir := t.TempDir()

	p := newTestPipeline(t, server.URL, outDir, nil)

	summary, err := p.Run(context.Background(), pipeline.Options{
		SkipProducts:     true,
		SkipTestimonials: true,
	})
	require.NoError(t, err)

	// products were crawled as review input but not written
	assert.Zero(t, summary.Products)
	assert.Equal(t, 2, summary.Reviews)

	for _, file := range summary.Files {
		assert.NotEqual(t, dataset.ProductsFile, filepath.Base(file))
	}
}

func TestRun_WithSQLiteSink(t *testing.T) {
	t.Parallel()

	server := newFakeShop(t)
	outDir := t.TempDir()

	sink, err := storage.NewSQLiteSink(filepath.Join(outDir, "brandmon.db"), logger.NewNoOp())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	p := newTestPipeline(t, server.URL, outDir, sink)

	_, err = p.Run(context.Background(), pipeline.Options{})
	require.NoError(t, err)

	count, err := sink.CountTargetYearReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRun_TestimonialFailureKeepsEarlierFiles(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body></body></html>"))
	})
	mux.HandleFunc("/testimonials", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	outDir := t.TempDir()
	p := newTestPipeline(t, server.URL, outDir, nil)

	_, err := p.Run(context.Background(), pipeline.Options{})
	require.Error(t, err)

	// products.csv from the completed stage stays on disk
	_, _, readErr := dataset.ReadTable(filepath.Join(outDir, dataset.ProductsFile))
	assert.NoError(t, readErr)
}
