// Package storage persists the expense dataset. Every backend stores the
// whole ordered sequence: Load returns it, Save replaces it.
package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

// Store is implemented by every persistence backend.
type Store interface {
	Load(ctx context.Context) (core.Dataset, error)
	Save(ctx context.Context, ds core.Dataset) error
}

// Row is the column form of an expense shared by the SQL backends.
// Amounts travel as decimal strings so no precision is lost.
type Row struct {
	Date        string
	Category    string
	ProductName string
	InputPrice  string
	Quantity    int64
	UnitPrice   string
	TotalPrice  string
}

func NewRow(e core.Expense) Row {
	return Row{
		Date:        e.Date.String(),
		Category:    string(e.Category),
		ProductName: e.ProductName,
		InputPrice:  e.InputPrice.String(),
		Quantity:    int64(e.Quantity),
		UnitPrice:   e.UnitPrice.String(),
		TotalPrice:  e.TotalPrice.String(),
	}
}

// Expense decodes and validates the row.
func (r Row) Expense() (core.Expense, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, err
	}
	cat, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Date:        date,
		Category:    cat,
		ProductName: r.ProductName,
		Quantity:    int(r.Quantity),
	}
	for _, f := range []struct {
		name string
		in   string
		out  *decimal.Decimal
	}{
		{"input_price", r.InputPrice, &e.InputPrice},
		{"unit_price", r.UnitPrice, &e.UnitPrice},
		{"total_price", r.TotalPrice, &e.TotalPrice},
	} {
		d, err := decimal.NewFromString(f.in)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%s: %w", f.name, core.ErrInvalidAmount)
		}
		*f.out = d
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
