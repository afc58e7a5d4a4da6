package analysis

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoData is matched (errors.Is) by every empty-result outcome.
var ErrNoData = errors.New("no data")

const (
	ReasonEmptyDataset Reason = iota + 1
	ReasonNoRowsInRange
	ReasonNoRowsForFilter
)

type Reason int

// NoDataError tells why an aggregation produced nothing.
type NoDataError struct {
	Reason Reason
}

func (e *NoDataError) Error() string { return e.Reason.Message() }

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

func (r Reason) Message() string {
	switch r {
	case ReasonEmptyDataset:
		return "No data recorded yet."
	case ReasonNoRowsInRange:
		return "No data in the selected period."
	case ReasonNoRowsForFilter:
		return "No data matches the selected filters."
	}
	return "No data."
}

// NoDataMessage returns the user-facing message for err, or "" if err is not a no-data outcome.
func NoDataMessage(err error) string {
	var nd *NoDataError
	if errors.As(err, &nd) {
		return nd.Error()
	}
	if errors.Is(err, ErrNoData) {
		return Reason(0).Message()
	}
	return ""
}

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// safeDiv returns a/b, or zero when b is zero.
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}
