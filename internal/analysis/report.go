package analysis

import (
	"fmt"

	"gagyebu/internal/core"
)

const (
	TitleOverview    = "Overview"
	TitleByCategory  = "By category"
	TitleTopProducts = "Top products"
)

// Report renders the basic statistics of a period as a Summary.
func Report(ds core.Dataset, start, end core.Date, filter *core.Category) Summary {
	agg, err := Aggregate(ds, start, end, filter)
	if err != nil {
		return Summary{NoData: NoDataMessage(err)}
	}

	overview := []string{
		fmt.Sprintf("Period: %s ~ %s", start, end),
		"Total spending: " + core.FormatWon(agg.Total),
		"Average spending: " + core.FormatWon(agg.Average),
		fmt.Sprintf("Transactions: %d", agg.Count),
	}
	byCat := make([]string, 0, len(agg.ByCategory))
	for _, ca := range agg.ByCategory {
		byCat = append(byCat, fmt.Sprintf("- %s: %s (%s)", ca.Category, core.FormatWon(ca.Amount), core.FormatPercent(ca.Share)))
	}
	products := make([]string, 0, len(agg.TopProducts))
	for _, p := range agg.TopProducts {
		products = append(products, fmt.Sprintf("- %s: %d times", p.Name, p.Count))
	}
	return Summary{Sections: []Section{
		{Title: TitleOverview, Lines: overview},
		{Title: TitleByCategory, Lines: byCat},
		{Title: TitleTopProducts, Lines: products},
	}}
}
