package sheets

import (
	"context"

	"gagyebu/internal/core"
)

// Ports for outbound adapters.
type (
	// DatasetMirror publishes a read-only copy of the whole dataset somewhere
	// outside the ledger, e.g. a spreadsheet.
	DatasetMirror interface {
		Mirror(ctx context.Context, ds core.Dataset) error
	}
)
