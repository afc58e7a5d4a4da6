// Package postgres stores the dataset in a PostgreSQL table through pgx.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gagyebu/internal/core"
	"gagyebu/internal/storage"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS expenses (
			position     INTEGER PRIMARY KEY,
			date         DATE NOT NULL,
			category     TEXT NOT NULL,
			product_name TEXT NOT NULL,
			input_price  NUMERIC NOT NULL,
			quantity     INTEGER NOT NULL,
			unit_price   NUMERIC NOT NULL,
			total_price  NUMERIC NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	selectExpensesSQL = `
		SELECT date::text, category, product_name, input_price::text, quantity, unit_price::text, total_price::text
		FROM expenses ORDER BY position
	`
	insertExpenseSQL = `
		INSERT INTO expenses (position, date, category, product_name, input_price, quantity, unit_price, total_price)
		VALUES ($1, $2::text::date, $3, $4, $5::text::numeric, $6, $7::text::numeric, $8::text::numeric)
	`
)

type Repository struct {
	pool *pgxpool.Pool
}

// New connects to url and creates the expenses table if it does not exist.
func New(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create expenses table: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Load(ctx context.Context) (core.Dataset, error) {
	rows, err := r.pool.Query(ctx, selectExpensesSQL)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	ds := core.Dataset{}
	for rows.Next() {
		var row storage.Row
		if err := rows.Scan(&row.Date, &row.Category, &row.ProductName, &row.InputPrice,
			&row.Quantity, &row.UnitPrice, &row.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := row.Expense()
		if err != nil {
			slog.WarnContext(ctx, "Skipping undecodable expense row", "error", err)
			continue
		}
		ds = append(ds, e)
	}
	return ds, rows.Err()
}

// Save replaces the table contents in one transaction.
func (r *Repository) Save(ctx context.Context, ds core.Dataset) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM expenses`); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		batch := &pgx.Batch{}
		for i, e := range ds {
			row := storage.NewRow(e)
			batch.Queue(insertExpenseSQL, i, row.Date, row.Category, row.ProductName,
				row.InputPrice, row.Quantity, row.UnitPrice, row.TotalPrice)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert expenses: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Dataset saved to PostgreSQL", "records", len(ds))
	return nil
}
