// Package analysis computes period statistics and text summaries over a
// dataset snapshot. Every function is pure; callers own the dataset.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

const topProductsLimit = 5

type (
	CategoryAmount struct {
		Category core.Category
		Amount   decimal.Decimal
		Count    int
		Share    decimal.Decimal // percent of the period total
	}

	ProductCount struct {
		Name  string
		Count int
	}

	// PeriodAggregate summarizes the records of one window.
	PeriodAggregate struct {
		Start       core.Date
		End         core.Date
		Category    *core.Category
		Records     core.Dataset
		Total       decimal.Decimal
		Average     decimal.Decimal
		Max         decimal.Decimal
		Count       int
		ByCategory  []CategoryAmount
		TopProducts []ProductCount
	}
)

// Aggregate filters ds to [start, end] (inclusive) and, when filter is set,
// to one category. An empty result is reported as a *NoDataError, never as
// a zero aggregate.
func Aggregate(ds core.Dataset, start, end core.Date, filter *core.Category) (PeriodAggregate, error) {
	if len(ds) == 0 {
		return PeriodAggregate{}, &NoDataError{Reason: ReasonEmptyDataset}
	}
	rows := ds.Between(start, end)
	if len(rows) == 0 {
		return PeriodAggregate{}, &NoDataError{Reason: ReasonNoRowsInRange}
	}
	if filter != nil {
		rows = rows.InCategory(*filter)
		if len(rows) == 0 {
			return PeriodAggregate{}, &NoDataError{Reason: ReasonNoRowsForFilter}
		}
	}

	agg := PeriodAggregate{
		Start:    start,
		End:      end,
		Category: filter,
		Records:  rows,
		Total:    rows.Total(),
		Count:    len(rows),
	}
	agg.Average = safeDiv(agg.Total, decimal.NewFromInt(int64(agg.Count)))
	for i, e := range rows {
		if i == 0 || e.TotalPrice.GreaterThan(agg.Max) {
			agg.Max = e.TotalPrice
		}
	}
	agg.ByCategory = byCategory(rows, agg.Total)
	agg.TopProducts = topProducts(rows, topProductsLimit)
	return agg, nil
}

// Share returns the percentage of the total spent in c.
func (a PeriodAggregate) Share(c core.Category) decimal.Decimal {
	for _, ca := range a.ByCategory {
		if ca.Category == c {
			return ca.Share
		}
	}
	return decimal.Zero
}

func byCategory(rows core.Dataset, total decimal.Decimal) []CategoryAmount {
	sums := map[core.Category]*CategoryAmount{}
	for _, e := range rows {
		ca, ok := sums[e.Category]
		if !ok {
			ca = &CategoryAmount{Category: e.Category, Amount: decimal.Zero}
			sums[e.Category] = ca
		}
		ca.Amount = ca.Amount.Add(e.TotalPrice)
		ca.Count++
	}
	out := make([]CategoryAmount, 0, len(sums))
	for _, ca := range sums {
		ca.Share = percentOf(ca.Amount, total)
		out = append(out, *ca)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category.Rank() < out[j].Category.Rank()
	})
	return out
}

// topProducts counts purchases per product name. Ties keep first-seen order.
func topProducts(rows core.Dataset, limit int) []ProductCount {
	index := map[string]int{}
	var out []ProductCount
	for _, e := range rows {
		i, ok := index[e.ProductName]
		if !ok {
			i = len(out)
			index[e.ProductName] = i
			out = append(out, ProductCount{Name: e.ProductName})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
