package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gagyebu/internal/amqp"
	"gagyebu/internal/sheets"
	"gagyebu/internal/storage"
)

// MirrorWorker copies the stored dataset to a DatasetMirror whenever the
// ledger announces a change. Each run writes the whole dataset, so messages
// may be duplicated or arrive out of order.
type MirrorWorker struct {
	store  storage.Store
	mirror sheets.DatasetMirror

	// serializes mirror runs triggered by messages and the periodic processor
	mu sync.Mutex
}

func NewMirrorWorker(store storage.Store, mirror sheets.DatasetMirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// HandleLedgerChanged processes a single ledger changed message from AMQP
func (w *MirrorWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger changed message",
		"id", msg.ID,
		"kind", msg.Kind,
		"count", msg.Count,
		"total", msg.Total)

	if err := w.MirrorNow(ctx); err != nil {
		return fmt.Errorf("mirror after %s: %w", msg.Kind, err)
	}
	return nil
}

// MirrorNow loads the stored dataset and replaces the mirror's contents.
func (w *MirrorWorker) MirrorNow(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ds, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := w.mirror.Mirror(ctx, ds); err != nil {
		return fmt.Errorf("mirror dataset: %w", err)
	}

	slog.InfoContext(ctx, "Dataset mirrored", "records", len(ds))
	return nil
}
