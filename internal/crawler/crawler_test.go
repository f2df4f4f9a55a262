package crawler_test

import (
	"testing"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/brandmon/internal/fetcher"
	"github.com/jonesrussell/brandmon/internal/logger"
)

// newTestFetcher creates a fetch client with an unlimited politeness limiter
// so crawling fixture pages never sleeps.
func newTestFetcher(t *testing.T) *fetcher.Client {
	t.Helper()

	return fetcher.New(fetcher.Config{
		UserAgent: "TestBot/1.0",
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	}, logger.NewNoOp())
}
