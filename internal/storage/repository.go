package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gagyebu/internal/core"

	_ "modernc.org/sqlite"
)

const (
	selectExpensesSQL = `SELECT date, category, product_name, input_price, quantity, unit_price, total_price
		FROM expenses ORDER BY position`
	insertExpenseSQL = `INSERT INTO expenses (position, date, category, product_name, input_price, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load returns the stored records ordered by position. Rows that cannot be
// decoded are skipped with a warning.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, selectExpensesSQL)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	ds := core.Dataset{}
	skipped := 0
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Date, &row.Category, &row.ProductName, &row.InputPrice,
			&row.Quantity, &row.UnitPrice, &row.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := row.Expense()
		if err != nil {
			skipped++
			slog.WarnContext(ctx, "Skipping undecodable expense row",
				"position", len(ds)+skipped-1,
				"error", err)
			continue
		}
		ds = append(ds, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return ds, nil
}

// Save replaces the stored dataset in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, ds core.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertExpenseSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range ds {
		row := NewRow(e)
		if _, err := stmt.ExecContext(ctx, i, row.Date, row.Category, row.ProductName,
			row.InputPrice, row.Quantity, row.UnitPrice, row.TotalPrice); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Dataset saved to SQLite", "records", len(ds))
	return nil
}
