package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

const topItemsLimit = 5

const (
	// DeltaOK means Percent holds a computed change.
	DeltaOK DeltaStatus = iota
	// DeltaNew means the previous window had records but none in this category.
	DeltaNew
	// DeltaUnavailable means the previous window had no records at all.
	DeltaUnavailable
	// DeltaNoPreviousSpend means the previous window had records summing to zero.
	DeltaNoPreviousSpend
)

type (
	DeltaStatus int

	Delta struct {
		Status  DeltaStatus
		Percent decimal.Decimal
	}

	CategoryComparison struct {
		Category core.Category
		Current  decimal.Decimal
		Previous decimal.Decimal
		Share    decimal.Decimal
		Delta    Delta
	}

	ItemSpend struct {
		Name         string
		Count        int
		Total        decimal.Decimal
		MeanQuantity decimal.Decimal
	}

	Comparison struct {
		Current       PeriodAggregate
		PeriodDays    int
		PreviousStart core.Date
		PreviousEnd   core.Date // exclusive
		Previous      core.Dataset
		PreviousTotal decimal.Decimal
		TotalDelta    Delta
		Categories    []CategoryComparison
		// DailyAverage divides by the span of the matching records, not the requested range.
		DailyAverage            decimal.Decimal
		SingleUnitRatio         decimal.Decimal
		PreviousSingleUnitRatio decimal.Decimal
		TopItems                []ItemSpend
	}
)

func (d Delta) Computable() bool { return d.Status == DeltaOK }

// HasPrevious reports whether the previous window contained any records.
func (c Comparison) HasPrevious() bool { return len(c.Previous) > 0 }

// Compare aggregates [start, end] and contrasts it with the window of the
// same length that ends right before start.
func Compare(ds core.Dataset, start, end core.Date) (Comparison, error) {
	cur, err := Aggregate(ds, start, end, nil)
	if err != nil {
		return Comparison{}, err
	}

	days := start.DaysUntil(end)
	if days < 1 {
		days = 1
	}
	cmp := Comparison{
		Current:       cur,
		PeriodDays:    days,
		PreviousStart: start.AddDays(-days),
		PreviousEnd:   start,
	}
	cmp.Previous = ds.Between(cmp.PreviousStart, start.AddDays(-1))
	cmp.PreviousTotal = cmp.Previous.Total()
	cmp.TotalDelta = totalDelta(cur.Total, cmp.PreviousTotal, len(cmp.Previous) > 0)

	prevByCat := map[core.Category]decimal.Decimal{}
	for _, e := range cmp.Previous {
		prevByCat[e.Category] = prevByCat[e.Category].Add(e.TotalPrice)
	}
	for _, ca := range cur.ByCategory {
		prev := prevByCat[ca.Category]
		cmp.Categories = append(cmp.Categories, CategoryComparison{
			Category: ca.Category,
			Current:  ca.Amount,
			Previous: prev,
			Share:    ca.Share,
			Delta:    categoryDelta(ca.Amount, prev, len(cmp.Previous) > 0),
		})
	}

	first, last, _ := cur.Records.DateSpan()
	spanDays := first.DaysUntil(last) + 1
	if spanDays < 1 {
		spanDays = 1
	}
	cmp.DailyAverage = safeDiv(cur.Total, decimal.NewFromInt(int64(spanDays)))
	cmp.SingleUnitRatio = singleUnitRatio(cur.Records)
	cmp.PreviousSingleUnitRatio = singleUnitRatio(cmp.Previous)
	cmp.TopItems = topItemsBySpend(cur.Records, topItemsLimit)
	return cmp, nil
}

// Category returns the comparison row for c, if c has spending in the current window.
func (c Comparison) Category(cat core.Category) (CategoryComparison, bool) {
	for _, cc := range c.Categories {
		if cc.Category == cat {
			return cc, true
		}
	}
	return CategoryComparison{}, false
}

func change(cur, prev decimal.Decimal) decimal.Decimal {
	return cur.Sub(prev).Div(prev).Mul(hundred)
}

func totalDelta(cur, prev decimal.Decimal, hasPrevious bool) Delta {
	switch {
	case !hasPrevious:
		return Delta{Status: DeltaUnavailable}
	case !prev.IsPositive():
		return Delta{Status: DeltaNoPreviousSpend}
	}
	return Delta{Status: DeltaOK, Percent: change(cur, prev)}
}

func categoryDelta(cur, prev decimal.Decimal, hasPrevious bool) Delta {
	switch {
	case !hasPrevious:
		return Delta{Status: DeltaUnavailable}
	case !prev.IsPositive():
		return Delta{Status: DeltaNew}
	}
	return Delta{Status: DeltaOK, Percent: change(cur, prev)}
}

// singleUnitRatio is the percentage of rows bought with quantity 1.
func singleUnitRatio(rows core.Dataset) decimal.Decimal {
	single := 0
	for _, e := range rows {
		if e.Quantity == 1 {
			single++
		}
	}
	return percentOf(decimal.NewFromInt(int64(single)), decimal.NewFromInt(int64(len(rows))))
}

func topItemsBySpend(rows core.Dataset, limit int) []ItemSpend {
	index := map[string]int{}
	var items []ItemSpend
	qty := []int{}
	for _, e := range rows {
		i, ok := index[e.ProductName]
		if !ok {
			i = len(items)
			index[e.ProductName] = i
			items = append(items, ItemSpend{Name: e.ProductName, Total: decimal.Zero})
			qty = append(qty, 0)
		}
		items[i].Count++
		items[i].Total = items[i].Total.Add(e.TotalPrice)
		qty[i] += e.Quantity
	}
	for i := range items {
		items[i].MeanQuantity = safeDiv(decimal.NewFromInt(int64(qty[i])), decimal.NewFromInt(int64(items[i].Count)))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Total.GreaterThan(items[j].Total) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
