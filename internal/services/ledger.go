package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gagyebu/internal/amqp"
	"gagyebu/internal/core"
	"gagyebu/internal/storage"
)

// ChangePublisher is notified after every successful save.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, kind amqp.ChangeKind, count, total int) error
}

type (
	// ListFilter narrows the expense list. Zero values mean "no constraint".
	ListFilter struct {
		Start    core.Date
		End      core.Date
		Category *core.Category
		Query    string // case-insensitive substring of the product name
	}

	// Entry is a record together with its current position.
	Entry struct {
		Position int
		Expense  core.Expense
	}
)

// Ledger owns the single mutable copy of the dataset. Mutations are
// serialized and saved before they become visible, so memory and store
// never diverge.
type Ledger struct {
	mu        sync.RWMutex
	store     storage.Store
	publisher ChangePublisher
	data      core.Dataset
	version   uint64
}

// NewLedger loads the dataset from store. publisher may be nil.
func NewLedger(ctx context.Context, store storage.Store, publisher ChangePublisher) (*Ledger, error) {
	ds, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	slog.InfoContext(ctx, "Ledger loaded", "records", len(ds))
	return &Ledger{store: store, publisher: publisher, data: ds.Clone()}, nil
}

// Snapshot returns a copy of the current dataset.
func (l *Ledger) Snapshot() core.Dataset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data.Clone()
}

// Version changes whenever the dataset changes.
func (l *Ledger) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.data)
}

// Recommend suggests a category for a product name.
func (l *Ledger) Recommend(productName string) core.Category {
	return core.Classify(productName)
}

// Add validates the entry, derives its prices, appends it and saves. When
// fields are missing the labels are returned and nothing is stored.
func (l *Ledger) Add(ctx context.Context, in core.EntryInput) (core.Expense, []string, error) {
	e, missing := core.BuildExpense(in)
	if len(missing) > 0 {
		return core.Expense{}, missing, nil
	}

	l.mu.Lock()
	next := append(l.data.Clone(), e)
	if err := l.store.Save(ctx, next); err != nil {
		l.mu.Unlock()
		return core.Expense{}, nil, fmt.Errorf("save dataset: %w", err)
	}
	l.data = next
	l.version++
	total := len(next)
	l.mu.Unlock()

	slog.InfoContext(ctx, "Expense added",
		"position", total-1,
		"category", e.Category,
		"product_name", e.ProductName,
		"total_price", e.TotalPrice.String())

	l.publish(ctx, amqp.ChangeAdded, 1, total)
	return e, nil, nil
}

// Delete removes the records at positions and saves. Remaining records are
// renumbered contiguously. It returns the number of records removed.
func (l *Ledger) Delete(ctx context.Context, positions ...int) (int, error) {
	unique := core.SortedPositions(positions)
	if len(unique) == 0 {
		return 0, nil
	}

	l.mu.Lock()
	next, err := core.DeleteAt(l.data, unique...)
	if err != nil {
		l.mu.Unlock()
		return 0, err
	}
	if err := l.store.Save(ctx, next); err != nil {
		l.mu.Unlock()
		return 0, fmt.Errorf("save dataset: %w", err)
	}
	l.data = next
	l.version++
	total := len(next)
	l.mu.Unlock()

	slog.InfoContext(ctx, "Expenses deleted", "positions", unique, "remaining", total)

	l.publish(ctx, amqp.ChangeDeleted, len(unique), total)
	return len(unique), nil
}

// Filter lists the records matching f with their positions, in dataset order.
func (l *Ledger) Filter(f ListFilter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []Entry{}
	for i, e := range l.data {
		if !f.Start.IsZero() && e.Date.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && e.Date.After(f.End) {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.ProductName), q) {
			continue
		}
		out = append(out, Entry{Position: i, Expense: e})
	}
	return out
}

func (l *Ledger) publish(ctx context.Context, kind amqp.ChangeKind, count, total int) {
	if l.publisher == nil {
		slog.DebugContext(ctx, "No change publisher configured, skipping ledger changed message")
		return
	}
	if err := l.publisher.PublishLedgerChanged(ctx, kind, count, total); err != nil {
		// The change is already saved; mirrors catch up on their next periodic run.
		slog.ErrorContext(ctx, "Failed to publish ledger changed message", "kind", kind, "error", err)
	}
}
