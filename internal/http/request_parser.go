// Package http serves the ledger screens: entry form, expense list,
// statistics and analysis, rendered server-side for HTMX.
//
// This file parses request parameters into ledger and analysis inputs.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gagyebu/internal/core"
	"gagyebu/internal/services"
)

const maxBodyBytes = 1 << 20

// PeriodParams holds an inclusive date window and an optional category.
type PeriodParams struct {
	Start    core.Date
	End      core.Date
	Category *core.Category
}

// ParseEntry reads an entry form. Unparseable values are left at their zero
// value so validation reports the field as missing.
func ParseEntry(get func(string) string) core.EntryInput {
	in := core.EntryInput{
		ProductName: get("product_name"),
		Quantity:    1,
	}
	if d, err := core.ParseDate(get("date")); err == nil {
		in.Date = d
	}
	if c, err := core.ParseCategory(get("category")); err == nil {
		in.Category = c
	}
	if p, err := core.ParseAmount(get("price")); err == nil {
		in.Price = p
	}
	if q, err := strconv.Atoi(get("quantity")); err == nil && q > 0 {
		in.Quantity = q
	}
	if m, err := core.ParsePriceMode(get("price_mode")); err == nil {
		in.Mode = m
	}
	return in
}

// ParsePeriod reads start, end and category from query values. Missing
// dates default to the first and last record dates of ds, or today when ds
// is empty. An unknown category or a malformed date is an error.
func ParsePeriod(q url.Values, ds core.Dataset) (PeriodParams, error) {
	first, last, ok := ds.DateSpan()
	if !ok {
		first, last = core.Today(), core.Today()
	}
	p := PeriodParams{Start: first, End: last}

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return PeriodParams{}, err
		}
		p.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return PeriodParams{}, err
		}
		p.End = d
	}
	c, err := parseCategoryFilter(q.Get("category"))
	if err != nil {
		return PeriodParams{}, err
	}
	p.Category = c
	return p, nil
}

// ParseListFilter reads the expense list filters. Dates are optional here:
// an absent bound leaves that side open.
func ParseListFilter(q url.Values) (services.ListFilter, error) {
	var f services.ListFilter
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, err
		}
		f.End = d
	}
	c, err := parseCategoryFilter(q.Get("category"))
	if err != nil {
		return f, err
	}
	f.Category = c
	f.Query = sanitizeInput(q.Get("q"))
	return f, nil
}

// parseCategoryFilter treats "" and "all" as no filter.
func parseCategoryFilter(v string) (*core.Category, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") || v == "전체" {
		return nil, nil
	}
	c, err := core.ParseCategory(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ParsePositions reads every "position" value. Non-numeric values are an error.
func ParsePositions(form url.Values) ([]int, error) {
	raw := form["position"]
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// RequestBodyParser reads an entry submitted either as a form (HTMX) or as a
// JSON object. JSON numbers keep their literal text so prices are not
// rounded through float64.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body once; later calls return the first result.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if strings.HasPrefix(trimmed, "{") {
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		p.err = dec.Decode(&p.jsonData)
		return p.err
	}
	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns the sanitized value for key, or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		return sanitizeInput(stringValue(p.jsonData[key]))
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
