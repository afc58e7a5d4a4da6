package memory

import (
	"context"
	"testing"

	"gagyebu/internal/core"
)

func TestStoreCopiesOnLoadAndSave(t *testing.T) {
	ctx := context.Background()
	seed := core.Expense{Date: core.NewDate(2024, 1, 1), Category: core.Food, ProductName: "coffee", Quantity: 1}
	s := New(seed)

	ds, _ := s.Load(ctx)
	ds[0].ProductName = "changed"
	again, _ := s.Load(ctx)
	if again[0].ProductName != "coffee" {
		t.Fatalf("Load must return a copy")
	}

	if err := s.Save(ctx, ds); err != nil {
		t.Fatalf("save: %v", err)
	}
	ds[0].ProductName = "changed twice"
	again, _ = s.Load(ctx)
	if again[0].ProductName != "changed" {
		t.Fatalf("Save must store a copy, got %q", again[0].ProductName)
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}
}
