package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Living        Category = "Living"
	Medical       Category = "Medical"
	Education     Category = "Education"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

const (
	PerUnit PriceMode = "per_unit"
	Total   PriceMode = "total"
)

type (
	Category string

	// PriceMode tells how the entered price relates to the quantity.
	PriceMode string

	Date struct {
		time.Time
	}

	Expense struct {
		Date        Date
		Category    Category
		ProductName string
		InputPrice  decimal.Decimal
		Quantity    int
		UnitPrice   decimal.Decimal
		TotalPrice  decimal.Decimal
	}

	// Dataset is the ordered list of records. A record's position is its only identity.
	Dataset []Expense

	EntryInput struct {
		Date        Date
		Category    Category
		ProductName string
		Price       decimal.Decimal
		Quantity    int
		Mode        PriceMode
	}
)

// Categories lists every category in declaration order. Order matters:
// classifier ties and aggregate ties resolve towards the earlier entry.
var Categories = []Category{Food, Transport, Shopping, Living, Medical, Education, Entertainment, Other}

var categoryLabels = map[Category]string{
	Food:          "식비",
	Transport:     "교통비",
	Shopping:      "쇼핑",
	Living:        "생활비",
	Medical:       "의료",
	Education:     "교육",
	Entertainment: "오락",
	Other:         "기타",
}

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrEmptyProductName   = errors.New("empty product name")
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Label returns the Korean ledger label of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Rank is the declaration index of the category, or len(Categories) if unknown.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// ParseCategory accepts the English name (any case) or the Korean label.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrUnknownCategory
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) || s == c.Label() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (m PriceMode) IsValid() bool {
	return m == PerUnit || m == Total
}

func ParsePriceMode(s string) (PriceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_unit", "unit", "개당":
		return PerUnit, nil
	case "total", "총액":
		return Total, nil
	}
	return "", fmt.Errorf("unknown price mode %q", s)
}

const dateLayout = "2006-01-02"

// Legacy files stored timestamps; only the calendar day is kept.
var dateLayouts = []string{dateLayout, "2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Validate checks a record that was built elsewhere, e.g. decoded from storage.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	if strings.TrimSpace(e.ProductName) == "" {
		return ErrEmptyProductName
	}
	if e.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if e.InputPrice.IsNegative() || e.UnitPrice.IsNegative() || e.TotalPrice.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
