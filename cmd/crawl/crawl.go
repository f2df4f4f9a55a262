// Package crawl implements the crawl command: one full run of the product,
// testimonial, and review stages.
package crawl

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/brandmon/cmd/common"
	"github.com/jonesrussell/brandmon/internal/pipeline"
)

// Command returns the crawl command for use in the root command.
func Command() *cobra.Command {
	var (
		skipProducts     bool
		skipTestimonials bool
		skipReviews      bool
		runTimeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the shop and write the CSV datasets",
		Long: `Crawl the shop's product listings, testimonials, and embedded review
payloads, then write products.csv, testimonials.csv, reviews_all.csv, and
reviews.csv into the output directory.

Stages run sequentially with a politeness delay between requests. Files from
completed stages stay on disk even when a later stage fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			resources, err := common.NewPipeline(deps)
			if err != nil {
				return err
			}
			defer resources.Close()

			ctx := cmd.Context()
			if runTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runTimeout)
				defer cancel()
			}

			summary, err := resources.Pipeline.Run(ctx, pipeline.Options{
				SkipProducts:     skipProducts,
				SkipTestimonials: skipTestimonials,
				SkipReviews:      skipReviews,
			})
			if err != nil {
				return err
			}

			renderSummary(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipProducts, "skip-products", false, "do not write the products dataset")
	cmd.Flags().BoolVar(&skipTestimonials, "skip-testimonials", false, "do not crawl testimonials")
	cmd.Flags().BoolVar(&skipReviews, "skip-reviews", false, "do not extract reviews")
	cmd.Flags().DurationVar(&runTimeout, "run-timeout", 0, "overall time budget for the run (0 = no limit)")

	return cmd
}

// renderSummary prints the run summary as a table.
func renderSummary(summary *pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Dataset", "Records"})
	t.AppendRow(table.Row{"products", summary.Products})
	t.AppendRow(table.Row{"testimonials", summary.Testimonials})
	t.AppendRow(table.Row{"reviews (all years)", summary.Reviews})
	t.AppendRow(table.Row{"reviews (target year)", summary.TargetYearReviews})
	t.AppendFooter(table.Row{"duration", summary.Duration.Round(time.Millisecond)})

	t.Render()

	for _, file := range summary.Files {
		fmt.Printf("  wrote %s\n", file)
	}
}
