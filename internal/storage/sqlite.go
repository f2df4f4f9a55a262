// Package storage provides the optional SQLite sink that mirrors the CSV
// datasets into a local database for ad-hoc SQL. The CSV files remain the
// contract with the dashboard; this sink is additive.
package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/jonesrussell/brandmon/internal/dataset"
	"github.com/jonesrussell/brandmon/internal/domain"
	"github.com/jonesrussell/brandmon/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	link        TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	price       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS testimonials (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	author TEXT NOT NULL DEFAULT '',
	text   TEXT NOT NULL,
	rating INTEGER
);
CREATE TABLE IF NOT EXISTS reviews (
	review_id    TEXT NOT NULL DEFAULT '',
	product_url  TEXT NOT NULL,
	text         TEXT NOT NULL DEFAULT '',
	rating       REAL,
	date_raw     TEXT NOT NULL DEFAULT '',
	date         TEXT,
	is_from_2023 INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteSink persists crawl snapshots into a SQLite database. Each Replace*
// call swaps the previous snapshot for the new one inside a transaction.
type SQLiteSink struct {
	db  *sqlx.DB
	log logger.Interface
}

// NewSQLiteSink opens (creating if needed) the database at path and ensures
// the schema exists.
func NewSQLiteSink(path string, log logger.Interface) (*SQLiteSink, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Sequential writer, no need for a pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteSink{
		db:  db,
		log: log.WithComponent("sqlite"),
	}, nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// ReplaceProducts swaps the products table contents for the given snapshot.
func (s *SQLiteSink) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	return s.replace(ctx, "products", func(tx *sqlx.Tx) error {
		for _, p := range products {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO products (link, name, price, description, category)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT(link) DO NOTHING`,
				p.Link, p.Name, p.Price, p.Description, string(p.Category),
			)
			if err != nil {
				return err
			}
		}
		return nil
	}, len(products))
}

// ReplaceTestimonials swaps the testimonials table contents.
func (s *SQLiteSink) ReplaceTestimonials(ctx context.Context, testimonials []domain.Testimonial) error {
	return s.replace(ctx, "testimonials", func(tx *sqlx.Tx) error {
		for _, t := range testimonials {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO testimonials (author, text, rating) VALUES (?, ?, ?)`,
				t.Author, t.Text, t.Rating,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}, len(testimonials))
}

// ReplaceReviews swaps the reviews table contents. The full review set is
// stored; the target-year view is a query over the is_from_2023 flag, never a
// separate table.
func (s *SQLiteSink) ReplaceReviews(ctx context.Context, reviews []domain.Review) error {
	return s.replace(ctx, "reviews", func(tx *sqlx.Tx) error {
		for _, r := range reviews {
			var date *string
			if r.Date != nil {
				formatted := r.Date.Format(dataset.DateLayout)
				date = &formatted
			}

			_, err := tx.ExecContext(ctx,
				`INSERT INTO reviews (review_id, product_url, text, rating, date_raw, date, is_from_2023)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.ProductURL, r.Text, r.Rating, r.DateRaw, date, r.FromTargetYear,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}, len(reviews))
}

// CountTargetYearReviews returns the number of stored reviews carrying the
// target-year flag.
func (s *SQLiteSink) CountTargetYearReviews(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews WHERE is_from_2023 = 1`)
	return count, err
}

// replace deletes a table's rows and inserts the new snapshot atomically.
func (s *SQLiteSink) replace(ctx context.Context, table string, insert func(tx *sqlx.Tx) error, count int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	if err := insert(tx); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}

	s.log.Info("snapshot stored", "table", table, "rows", count)

	return nil
}
