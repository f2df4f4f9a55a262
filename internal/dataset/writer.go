package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

// Writer writes crawl result tables into a single output directory. It holds
// no transformation logic: records arrive fully shaped.
type Writer struct {
	dir string
	log logger.Interface
}

// NewWriter creates a Writer rooted at dir. The directory is created on the
// first write.
func NewWriter(dir string, log logger.Interface) *Writer {
	return &Writer{
		dir: dir,
		log: log.WithComponent("dataset"),
	}
}

// WriteProducts writes products.csv and returns its path.
func (w *Writer) WriteProducts(products []domain.Product) (string, error) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}

	return w.writeTable(ProductsFile, ProductColumns, rows)
}

// WriteTestimonials writes testimonials.csv and returns its path.
func (w *Writer) WriteTestimonials(testimonials []domain.Testimonial) (string, error) {
	rows := make([][]string, 0, len(testimonials))
	for _, t := range testimonials {
		rows = append(rows, testimonialRow(t))
	}

	return w.writeTable(TestimonialsFile, TestimonialColumns, rows)
}

// WriteReviews writes a review table under the given file name. The same
// encoding serves both the full set and its target-year projection.
func (w *Writer) WriteReviews(filename string, reviews []domain.Review) (string, error) {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, reviewRow(r))
	}

	return w.writeTable(filename, ReviewColumns, rows)
}

// writeTable writes one header row plus the data rows to dir/filename,
// replacing any previous file.
func (w *Writer) writeTable(filename string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}

	w.log.Info("dataset written", "path", path, "rows", len(rows))

	return path, nil
}

// ReadTable reads a CSV table back as a header row plus data rows. Used by
// the datasets command and the round-trip tests.
func ReadTable(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	return all[0], all[1:], nil
}
