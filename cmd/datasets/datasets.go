// Package datasets implements the datasets command that lists the CSV tables
// in the output directory, the operator's view of what the dashboard reads.
package datasets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/brandmon/cmd/common"
	"github.com/jonesrussell/brandmon/internal/dataset"
)

// Command returns the datasets command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the written CSV datasets and their row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			return listDatasets(deps.Config.OutputDir)
		},
	}
}

// listDatasets renders one row per known dataset file.
func listDatasets(dir string) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Rows", "Columns"})

	files := []string{
		dataset.ProductsFile,
		dataset.TestimonialsFile,
		dataset.AllReviewsFile,
		dataset.TargetReviewsFile,
	}

	for _, name := range files {
		path := filepath.Join(dir, name)

		header, rows, err := dataset.ReadTable(path)
		if err != nil {
			t.AppendRow(table.Row{name, "-", "-"})
			continue
		}

		t.AppendRow(table.Row{name, len(rows), len(header)})
	}

	t.Render()
	return nil
}
