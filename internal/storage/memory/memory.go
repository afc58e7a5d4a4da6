// Package memory keeps the dataset in process memory. Used for tests and
// for running without persistence.
package memory

import (
	"context"
	"sync"

	"gagyebu/internal/core"
)

type Store struct {
	mu    sync.RWMutex
	data  core.Dataset
	saves int
}

func New(seed ...core.Expense) *Store {
	return &Store{data: core.Dataset(seed).Clone()}
}

func (s *Store) Load(_ context.Context) (core.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}

func (s *Store) Save(_ context.Context, ds core.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ds.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
