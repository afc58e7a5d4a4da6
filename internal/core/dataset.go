package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

func (d Dataset) Clone() Dataset {
	if d == nil {
		return Dataset{}
	}
	return append(Dataset(nil), d...)
}

// Between returns the records dated within [start, end], in dataset order.
func (d Dataset) Between(start, end Date) Dataset {
	out := Dataset{}
	for _, e := range d {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// InCategory returns the records of category c, in dataset order.
func (d Dataset) InCategory(c Category) Dataset {
	out := Dataset{}
	for _, e := range d {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

func (d Dataset) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range d {
		sum = sum.Add(e.TotalPrice)
	}
	return sum
}

// DateSpan returns the earliest and latest record dates. ok is false for an empty dataset.
func (d Dataset) DateSpan() (first, last Date, ok bool) {
	for i, e := range d {
		if i == 0 || e.Date.Before(first) {
			first = e.Date
		}
		if i == 0 || e.Date.After(last) {
			last = e.Date
		}
	}
	return first, last, len(d) > 0
}

// DeleteAt removes the given positions and returns the remaining records in
// their original relative order. Duplicate positions are ignored.
func DeleteAt(d Dataset, positions ...int) (Dataset, error) {
	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(d) {
			return nil, fmt.Errorf("%w: %d (dataset has %d records)", ErrPositionOutOfRange, p, len(d))
		}
		drop[p] = struct{}{}
	}
	out := make(Dataset, 0, len(d)-len(drop))
	for i, e := range d {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// SortedPositions returns the positions in ascending order without duplicates.
func SortedPositions(positions []int) []int {
	seen := make(map[int]struct{}, len(positions))
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
