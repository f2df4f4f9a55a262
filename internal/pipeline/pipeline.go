// Package pipeline orchestrates the crawl stages in order and hands results
// to the dataset writer and the optional SQLite sink. Stages run
// sequentially; each stage's files are written as soon as it completes and
// are never rolled back when a later stage fails.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/brandmon/internal/config"
	"github.com/jonesrussell/brandmon/internal/crawler"
	"github.com/jonesrussell/brandmon/internal/dataset"
	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
	"github.com/jonesrussell/brandmon/internal/storage"
)

// Options toggles individual stages of a run.
type Options struct {
	SkipProducts     bool
	SkipTestimonials bool
	SkipReviews      bool
}

// Summary reports what a run produced.
type Summary struct {
	RunID             string
	Products          int
	Testimonials      int
	Reviews           int
	TargetYearReviews int
	Files             []string
	Duration          time.Duration
}

// Sink is the optional relational mirror of the CSV datasets.
type Sink interface {
	ReplaceProducts(ctx context.Context, products []domain.Product) error
	ReplaceTestimonials(ctx context.Context, testimonials []domain.Testimonial) error
	ReplaceReviews(ctx context.Context, reviews []domain.Review) error
}

// Pipeline wires the crawl stages together.
type Pipeline struct {
	cfg    *config.Config
	fetch  crawler.PageFetcher
	writer *dataset.Writer
	sink   Sink // nil when the SQLite sink is disabled
	log    logger.Interface
}

// New creates a Pipeline. sink may be nil.
func New(
	cfg *config.Config,
	fetch crawler.PageFetcher,
	writer *dataset.Writer,
	sink Sink,
	log logger.Interface,
) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		fetch:  fetch,
		writer: writer,
		sink:   sink,
		log:    log,
	}
}

var _ Sink = (*storage.SQLiteSink)(nil)

// Run executes the enabled stages in order and returns the run summary.
// Products are crawled even when their dataset is skipped if the review
// stage needs them as input.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	summary := &Summary{RunID: uuid.NewString()}
	log := p.log.WithRunID(summary.RunID)

	log.Info("starting crawl run")

	products, err := p.runProducts(ctx, log, opts, summary)
	if err != nil {
		return nil, err
	}

	if !opts.SkipTestimonials {
		if err := p.runTestimonials(ctx, log, summary); err != nil {
			return nil, err
		}
	}

	if !opts.SkipReviews {
		if err := p.runReviews(ctx, log, products, summary); err != nil {
			return nil, err
		}
	}

	summary.Duration = time.Since(start)
	log.Info("crawl run finished",
		"products", summary.Products,
		"testimonials", summary.Testimonials,
		"reviews", summary.Reviews,
		"target_year_reviews", summary.TargetYearReviews,
		"duration", summary.Duration,
	)

	return summary, nil
}

// runProducts crawls the product listings unless both the product dataset and
// the review stage are disabled.
func (p *Pipeline) runProducts(
	ctx context.Context,
	log logger.Interface,
	opts Options,
	summary *Summary,
) ([]domain.Product, error) {
	if opts.SkipProducts && opts.SkipReviews {
		return nil, nil
	}

	productCrawler, err := crawler.NewProductCrawler(p.fetch, p.cfg.BaseURL, log)
	if err != nil {
		return nil, err
	}

	products, err := productCrawler.Crawl(ctx, p.cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("product crawl: %w", err)
	}

	if opts.SkipProducts {
		return products, nil
	}

	path, err := p.writer.WriteProducts(products)
	if err != nil {
		return nil, err
	}

	summary.Products = len(products)
	summary.Files = append(summary.Files, path)

	if p.sink != nil {
		if err := p.sink.ReplaceProducts(ctx, products); err != nil {
			return nil, fmt.Errorf("sqlite sink: %w", err)
		}
	}

	return products, nil
}

func (p *Pipeline) runTestimonials(ctx context.Context, log logger.Interface, summary *Summary) error {
	testimonialCrawler, err := crawler.NewTestimonialCrawler(p.fetch, p.cfg.BaseURL, p.cfg.SecretToken, log)
	if err != nil {
		return err
	}

	testimonials, err := testimonialCrawler.Crawl(ctx)
	if err != nil {
		return fmt.Errorf("testimonial crawl: %w", err)
	}

	path, err := p.writer.WriteTestimonials(testimonials)
	if err != nil {
		return err
	}

	summary.Testimonials = len(testimonials)
	summary.Files = append(summary.Files, path)

	if p.sink != nil {
		if err := p.sink.ReplaceTestimonials(ctx, testimonials); err != nil {
			return fmt.Errorf("sqlite sink: %w", err)
		}
	}

	return nil
}

// runReviews extracts reviews from every known product page and writes both
// the full table and its target-year projection.
func (p *Pipeline) runReviews(
	ctx context.Context,
	log logger.Interface,
	products []domain.Product,
	summary *Summary,
) error {
	extractor := crawler.NewReviewExtractor(p.fetch, log)

	all, target, err := extractor.Extract(ctx, products, p.cfg.TargetYear)
	if err != nil {
		return fmt.Errorf("review extraction: %w", err)
	}

	allPath, err := p.writer.WriteReviews(dataset.AllReviewsFile, all)
	if err != nil {
		return err
	}

	targetPath, err := p.writer.WriteReviews(dataset.TargetReviewsFile, target)
	if err != nil {
		return err
	}

	summary.Reviews = len(all)
	summary.TargetYearReviews = len(target)
	summary.Files = append(summary.Files, allPath, targetPath)

	if p.sink != nil {
		if err := p.sink.ReplaceReviews(ctx, all); err != nil {
			return fmt.Errorf("sqlite sink: %w", err)
		}
	}

	return nil
}
