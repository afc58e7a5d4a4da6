package core

import "strings"

// Missing-field labels returned by ValidateEntry, in check order.
const (
	FieldDate        = "date"
	FieldCategory    = "category"
	FieldProductName = "product_name"
	FieldPrice       = "price"
)

// ValidateEntry lists the required fields that are missing from in.
// An empty result means the entry is acceptable. Quantity is not checked.
func ValidateEntry(in EntryInput) []string {
	missing := []string{}
	if in.Date.IsZero() {
		missing = append(missing, FieldDate)
	}
	if in.Category == "" {
		missing = append(missing, FieldCategory)
	}
	if strings.TrimSpace(in.ProductName) == "" {
		missing = append(missing, FieldProductName)
	}
	if !in.Price.IsPositive() {
		missing = append(missing, FieldPrice)
	}
	return missing
}

// BuildExpense validates in and derives the stored record.
// The returned labels are non-empty when the entry was rejected.
func BuildExpense(in EntryInput) (Expense, []string) {
	if missing := ValidateEntry(in); len(missing) > 0 {
		return Expense{}, missing
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	mode := in.Mode
	if !mode.IsValid() {
		mode = PerUnit
	}
	unit, total := CalculatePrice(in.Price, qty, mode)
	return Expense{
		Date:        in.Date,
		Category:    in.Category,
		ProductName: strings.TrimSpace(in.ProductName),
		InputPrice:  in.Price,
		Quantity:    qty,
		UnitPrice:   unit,
		TotalPrice:  total,
	}, nil
}
