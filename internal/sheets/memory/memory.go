// Package memory is an in-process DatasetMirror. The worker falls back to it
// when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"gagyebu/internal/core"
	ports "gagyebu/internal/sheets"
)

type Mirror struct {
	mu    sync.Mutex
	last  core.Dataset
	calls int
	err   error
}

var _ ports.DatasetMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// FailWith makes subsequent Mirror calls return err. Pass nil to recover.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mirror) Mirror(_ context.Context, ds core.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.last = ds.Clone()
	return nil
}

// Last returns the most recently mirrored dataset and the number of Mirror calls.
func (m *Mirror) Last() (core.Dataset, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Clone(), m.calls
}
