// Package file stores the dataset as a JSON array in a single file, the
// layout of household_data.json.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
	"gagyebu/internal/storage"
)

// record keeps the legacy key names so existing household_data.json
// files load unchanged.
type record struct {
	Date        string      `json:"날짜"`
	Category    string      `json:"품목"`
	ProductName string      `json:"제품명"`
	InputPrice  json.Number `json:"가격"`
	Quantity    json.Number `json:"개수"`
	UnitPrice   json.Number `json:"개당가격"`
	TotalPrice  json.Number `json:"전체가격"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the dataset. A missing file is an empty dataset. An unreadable
// or corrupt file is logged and also treated as empty.
func (s *Store) Load(ctx context.Context) (core.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Dataset{}, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Cannot read data file, starting empty", "path", s.path, "error", err)
		return core.Dataset{}, nil
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		slog.WarnContext(ctx, "Corrupt data file, starting empty", "path", s.path, "error", err)
		return core.Dataset{}, nil
	}

	ds := make(core.Dataset, 0, len(recs))
	for i, rec := range recs {
		e, err := rec.expense()
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid record", "path", s.path, "position", i, "error", err)
			continue
		}
		ds = append(ds, e)
	}
	return ds, nil
}

// Save writes the dataset to a temporary file next to the target and
// renames it into place, so a failed write leaves the previous file intact.
func (s *Store) Save(ctx context.Context, ds core.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]record, 0, len(ds))
	for _, e := range ds {
		recs = append(recs, newRecord(e))
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	slog.DebugContext(ctx, "Dataset saved to file", "path", s.path, "records", len(ds))
	return nil
}

func newRecord(e core.Expense) record {
	return record{
		Date:        e.Date.String(),
		Category:    e.Category.Label(),
		ProductName: e.ProductName,
		InputPrice:  json.Number(e.InputPrice.String()),
		Quantity:    json.Number(fmt.Sprint(e.Quantity)),
		UnitPrice:   json.Number(e.UnitPrice.String()),
		TotalPrice:  json.Number(e.TotalPrice.String()),
	}
}

func (r record) expense() (core.Expense, error) {
	qty, err := decimal.NewFromString(string(r.Quantity))
	if err != nil {
		return core.Expense{}, fmt.Errorf("quantity: %w", core.ErrInvalidQuantity)
	}
	return storage.Row{
		Date:        r.Date,
		Category:    r.Category,
		ProductName: r.ProductName,
		InputPrice:  string(r.InputPrice),
		Quantity:    qty.IntPart(),
		UnitPrice:   string(r.UnitPrice),
		TotalPrice:  string(r.TotalPrice),
	}.Expense()
}
