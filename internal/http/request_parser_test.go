package http

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   core.EntryInput
	}{
		{
			name: "complete form",
			values: map[string]string{
				"date": "2024-05-01", "category": "교통비", "product_name": "bus",
				"price": "1,500", "quantity": "2", "price_mode": "total",
			},
			want: core.EntryInput{
				Date: core.NewDate(2024, 5, 1), Category: core.Transport, ProductName: "bus",
				Price: decimal.NewFromInt(1500), Quantity: 2, Mode: core.Total,
			},
		},
		{
			name:   "garbage stays zero",
			values: map[string]string{"date": "01/05/2024", "category": "Pets", "price": "cheap", "quantity": "-3", "price_mode": "bulk"},
			want:   core.EntryInput{Quantity: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEntry(func(k string) string { return tt.values[k] })
			if !got.Date.Equal(tt.want.Date) || got.Category != tt.want.Category ||
				got.ProductName != tt.want.ProductName || !got.Price.Equal(tt.want.Price) ||
				got.Quantity != tt.want.Quantity || got.Mode != tt.want.Mode {
				t.Fatalf("ParseEntry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePeriodDefaults(t *testing.T) {
	ds := core.Dataset{
		{Date: core.NewDate(2024, 2, 10), Category: core.Food},
		{Date: core.NewDate(2024, 1, 3), Category: core.Food},
	}

	p, err := ParsePeriod(url.Values{}, ds)
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}
	if p.Start.String() != "2024-01-03" || p.End.String() != "2024-02-10" || p.Category != nil {
		t.Fatalf("defaults = %s..%s %v", p.Start, p.End, p.Category)
	}

	p, err = ParsePeriod(url.Values{}, nil)
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}
	if !p.Start.Equal(core.Today()) || !p.End.Equal(core.Today()) {
		t.Fatalf("empty dataset should default to today, got %s..%s", p.Start, p.End)
	}

	p, err = ParsePeriod(url.Values{"start": {"2024-01-15"}, "category": {"all"}}, ds)
	if err != nil {
		t.Fatalf("ParsePeriod() error = %v", err)
	}
	if p.Start.String() != "2024-01-15" || p.End.String() != "2024-02-10" || p.Category != nil {
		t.Fatalf("explicit start = %s..%s %v", p.Start, p.End, p.Category)
	}

	for _, q := range []url.Values{{"end": {"tomorrow"}}, {"category": {"Pets"}}} {
		if _, err := ParsePeriod(q, ds); err == nil {
			t.Errorf("ParsePeriod(%v) expected error", q)
		}
	}
}

func TestParseListFilter(t *testing.T) {
	f, err := ParseListFilter(url.Values{"end": {"2024-03-31"}, "category": {"food"}, "q": {"  latte "}})
	if err != nil {
		t.Fatalf("ParseListFilter() error = %v", err)
	}
	if !f.Start.IsZero() {
		t.Errorf("start should stay open, got %s", f.Start)
	}
	if f.End.String() != "2024-03-31" || f.Category == nil || *f.Category != core.Food || f.Query != "latte" {
		t.Fatalf("unexpected filter %+v", f)
	}
}

func TestParsePositions(t *testing.T) {
	got, err := ParsePositions(url.Values{"position": {"3", " 0 "}})
	if err != nil || len(got) != 2 || got[0] != 3 || got[1] != 0 {
		t.Fatalf("ParsePositions() = %v, %v", got, err)
	}
	if _, err := ParsePositions(url.Values{"position": {"x"}}); err == nil {
		t.Fatal("expected error for non-numeric position")
	}
}

func TestRequestBodyParser(t *testing.T) {
	req := httptest.NewRequest("POST", "/expenses", strings.NewReader(`{"price": 12000.50, "product_name": "rice\u0000"}`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON body")
	}
	if p.Get("price") != "12000.50" {
		t.Errorf("price = %q, want literal number text", p.Get("price"))
	}
	if p.Get("product_name") != "rice" {
		t.Errorf("product_name = %q", p.Get("product_name"))
	}

	req = httptest.NewRequest("POST", "/expenses", strings.NewReader("product_name=milk&price=2500"))
	p = NewRequestBodyParser(req)
	if err := p.Parse(); err != nil || p.IsJSON() || p.Get("product_name") != "milk" {
		t.Fatalf("form parse: err=%v json=%v name=%q", err, p.IsJSON(), p.Get("product_name"))
	}
}
