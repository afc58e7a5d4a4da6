package google

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

// mirrorHeader is written to the first row of the mirror sheet.
var mirrorHeader = []any{"Position", "Date", "Category", "Product", "Quantity", "Unit price", "Total price"}

// datasetValues converts ds into the value matrix written to the sheet:
// a header row followed by one row per record in dataset order.
func datasetValues(ds core.Dataset) [][]any {
	values := make([][]any, 0, len(ds)+1)
	values = append(values, mirrorHeader)
	for i, e := range ds {
		values = append(values, []any{
			i,
			e.Date.String(),
			fmt.Sprintf("%s (%s)", e.Category, e.Category.Label()),
			e.ProductName,
			e.Quantity,
			sheetNumber(e.UnitPrice),
			sheetNumber(e.TotalPrice),
		})
	}
	return values
}

// sheetNumber keeps two decimals so per-unit prices from total-mode entries stay readable.
func sheetNumber(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}

// mirrorRange returns the A1 range covering rows data rows plus the header.
func mirrorRange(sheet string, rows int) string {
	return fmt.Sprintf("%s!A1:G%d", quoteSheet(sheet), rows+1)
}

// quoteSheet quotes sheet names containing spaces or punctuation for A1 notation.
func quoteSheet(name string) string {
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, " !'-") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
