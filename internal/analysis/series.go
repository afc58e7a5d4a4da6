package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

type (
	DailyPoint struct {
		Date  core.Date
		Total decimal.Decimal
	}

	// Statistics backs the statistics screen: the aggregate plus chart series.
	Statistics struct {
		PeriodAggregate
		Daily []DailyPoint
	}
)

// DailyTotals sums total_price per calendar day, ordered by date. Days
// without records are not emitted.
func DailyTotals(rows core.Dataset) []DailyPoint {
	index := map[string]int{}
	var out []DailyPoint
	for _, e := range rows {
		key := e.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DailyPoint{Date: e.Date, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.TotalPrice)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func Stats(ds core.Dataset, start, end core.Date, filter *core.Category) (Statistics, error) {
	agg, err := Aggregate(ds, start, end, filter)
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{PeriodAggregate: agg, Daily: DailyTotals(agg.Records)}, nil
}
