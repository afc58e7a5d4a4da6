package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
	"gagyebu/internal/services"
	"gagyebu/internal/storage/memory"
)

func expense(y, m, d int, cat core.Category, name string, price int64, qty int) core.Expense {
	p := decimal.NewFromInt(price)
	return core.Expense{
		Date: core.NewDate(y, m, d), Category: cat, ProductName: name,
		InputPrice: p, Quantity: qty, UnitPrice: p, TotalPrice: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func newTestServer(t *testing.T, seed ...core.Expense) (*Server, *services.Ledger) {
	t.Helper()
	ledger, err := services.NewLedger(context.Background(), memory.New(seed...), nil)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	srv := NewServer(":0", ledger, Options{RateLimitPerMinute: 1000})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, ledger
}

func do(t *testing.T, srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Add expense") {
		t.Fatalf("index body missing heading")
	}
	if strings.Index(body, `value="Food"`) > strings.Index(body, `value="Other"`) {
		t.Fatalf("category options must follow declaration order")
	}
	if rr.Header().Get("X-Request-ID") == "" || rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing middleware headers: %v", rr.Header())
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestRecommend(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/ui/recommend?product_name="+url.QueryEscape("taxi ride"), nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `data-category="Transport"`) {
		t.Fatalf("recommend = %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodGet, "/ui/recommend", nil)
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Fatalf("empty name should render nothing, got %q", rr.Body.String())
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv, ledger := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/expenses", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/expenses", url.Values{
		"date": {"2024-03-01"}, "category": {"Food"}, "product_name": {""}, "price": {"abc"},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-Missing-Fields"); got != "product_name,price" {
		t.Fatalf("missing fields = %q", got)
	}
	if ledger.Len() != 0 {
		t.Fatal("rejected entry must not be stored")
	}

	rr = do(t, srv, http.MethodPost, "/expenses", url.Values{
		"date": {"2024-03-01"}, "category": {"식비"}, "product_name": {"eggs"},
		"price": {"₩9,000"}, "quantity": {"3"}, "price_mode": {"total"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "expense:created") {
		t.Fatalf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(rr.Body.String(), "₩3,000") || !strings.Contains(rr.Body.String(), "₩9,000") {
		t.Fatalf("success body should show unit and total price: %s", rr.Body.String())
	}
	e := ledger.Snapshot()[0]
	if e.Category != core.Food || !e.UnitPrice.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("stored %+v", e)
	}
}

func TestCreateExpenseJSON(t *testing.T) {
	srv, ledger := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(
		`{"date":"2024-03-02","category":"Transport","product_name":"bus","price":1450,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if e := ledger.Snapshot()[0]; !e.TotalPrice.Equal(decimal.NewFromInt(2900)) {
		t.Fatalf("total = %s, want 2900", e.TotalPrice)
	}
}

func TestListAndDeleteExpenses(t *testing.T) {
	srv, ledger := newTestServer(t,
		expense(2024, 1, 1, core.Food, "coffee", 4000, 1),
		expense(2024, 1, 2, core.Transport, "bus", 1500, 1),
		expense(2024, 1, 3, core.Food, "Iced Coffee", 5000, 1),
	)

	rr := do(t, srv, http.MethodGet, "/ui/expenses?q=COFFEE", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "bus") || !strings.Contains(body, "Iced Coffee") || !strings.Contains(body, "₩9,000") {
		t.Fatalf("unexpected list body: %s", body)
	}

	rr = do(t, srv, http.MethodGet, "/ui/expenses?category=Medical", nil)
	if !strings.Contains(rr.Body.String(), "No expenses match") {
		t.Fatalf("expected empty list message: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/ui/expenses?category=Nope", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown category status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/expenses/delete", url.Values{"position": {"0", "2"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "expense:deleted") {
		t.Fatalf("HX-Trigger = %q", rr.Header().Get("HX-Trigger"))
	}
	if snap := ledger.Snapshot(); len(snap) != 1 || snap[0].ProductName != "bus" {
		t.Fatalf("remaining %+v", snap)
	}

	rr = do(t, srv, http.MethodPost, "/expenses/delete", url.Values{"position": {"5"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("out of range status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodPost, "/expenses/delete", url.Values{})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty selection status=%d", rr.Code)
	}
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t,
		expense(2024, 1, 1, core.Food, "coffee", 4000, 1),
		expense(2024, 1, 1, core.Food, "bread", 3000, 1),
		expense(2024, 1, 2, core.Transport, "bus", 1500, 2),
	)

	rr := do(t, srv, http.MethodGet, "/ui/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"₩10,000", "식비", "70.0%"} {
		if !strings.Contains(body, want) {
			t.Errorf("stats body missing %q", want)
		}
	}

	rr = do(t, srv, http.MethodGet, "/ui/stats?start=2025-01-01&end=2025-01-31", nil)
	if !strings.Contains(rr.Body.String(), "No data in the selected period.") {
		t.Fatalf("expected no-data message: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/stats?category=Transport", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("api status=%d", rr.Code)
	}
	var resp statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || !resp.Total.Equal(decimal.NewFromInt(3000)) || len(resp.Daily) != 1 {
		t.Fatalf("unexpected api response %+v", resp)
	}

	rr = do(t, srv, http.MethodGet, "/api/stats?category=Medical", nil)
	resp = statsResponse{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.NoData != "No data matches the selected filters." {
		t.Fatalf("no_data = %q", resp.NoData)
	}

	rr = do(t, srv, http.MethodGet, "/api/stats?start=yesterday", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date status=%d", rr.Code)
	}
}

func TestStatsCacheFollowsLedgerVersion(t *testing.T) {
	srv, ledger := newTestServer(t, expense(2024, 1, 1, core.Food, "coffee", 4000, 1))

	do(t, srv, http.MethodGet, "/api/stats", nil)
	do(t, srv, http.MethodGet, "/api/stats", nil)
	if hits, _ := srv.statsCache.Stats(); hits != 1 {
		t.Fatalf("expected a cache hit, got %d", hits)
	}

	_, _, err := ledger.Add(context.Background(), core.EntryInput{
		Date: core.NewDate(2024, 1, 1), Category: core.Food, ProductName: "tea", Price: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rr := do(t, srv, http.MethodGet, "/api/stats", nil)
	var resp statsResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if !resp.Total.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("stale statistics after mutation: total=%s", resp.Total)
	}
}

func TestAnalysis(t *testing.T) {
	srv, _ := newTestServer(t,
		expense(2024, 1, 1, core.Food, "coffee", 4000, 1),
		expense(2024, 1, 5, core.Food, "coffee", 5000, 1),
		expense(2024, 1, 6, core.Shopping, "shirt", 20000, 1),
	)

	rr := do(t, srv, http.MethodPost, "/ui/analysis", url.Values{"query": {"  "}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty query status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/ui/analysis", url.Values{
		"start": {"2024-01-05"}, "end": {"2024-01-06"}, "query": {"compare category trend"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("analysis status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Overview", "Spending trend summary", "Category breakdown"} {
		if !strings.Contains(body, want) {
			t.Errorf("analysis body missing %q", want)
		}
	}

	rr = do(t, srv, http.MethodPost, "/ui/analysis", url.Values{
		"start": {"2030-01-01"}, "end": {"2030-01-31"}, "query": {"trend"},
	})
	if !strings.Contains(rr.Body.String(), "No data in the selected period.") {
		t.Fatalf("expected no-data message: %s", rr.Body.String())
	}
}

func TestRateLimitAppliesToPOST(t *testing.T) {
	ledger, _ := services.NewLedger(context.Background(), memory.New(), nil)
	srv := NewServer(":0", ledger, Options{RateLimitPerMinute: 1})
	defer srv.Shutdown(context.Background())

	form := url.Values{"query": {""}}
	do(t, srv, http.MethodPost, "/ui/analysis", form)
	rr := do(t, srv, http.MethodPost, "/ui/analysis", form)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("GET should not be limited, got %d", rr.Code)
	}
}
