package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"gagyebu/internal/analysis"
	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/log"
)

type (
	statsPoint struct {
		Date  string          `json:"date"`
		Total decimal.Decimal `json:"total"`
	}

	statsCategory struct {
		Category core.Category   `json:"category"`
		Label    string          `json:"label"`
		Amount   decimal.Decimal `json:"amount"`
		Count    int             `json:"count"`
		Share    decimal.Decimal `json:"share"`
	}

	statsProduct struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	// statsResponse is the JSON shape of /api/stats, ready for a chart library.
	statsResponse struct {
		Start       string          `json:"start"`
		End         string          `json:"end"`
		Category    *core.Category  `json:"category,omitempty"`
		NoData      string          `json:"no_data,omitempty"`
		Total       decimal.Decimal `json:"total"`
		Average     decimal.Decimal `json:"average"`
		Max         decimal.Decimal `json:"max"`
		Count       int             `json:"count"`
		Daily       []statsPoint    `json:"daily"`
		ByCategory  []statsCategory `json:"by_category"`
		TopProducts []statsProduct  `json:"top_products"`
	}
)

// statistics computes or recalls the statistics for p. A NoDataError is a
// result, not a failure, and is cached like one.
func (s *Server) statistics(r *http.Request, p PeriodParams) (analysis.Statistics, error) {
	cat := ""
	if p.Category != nil {
		cat = string(*p.Category)
	}
	key := cache.Key(s.ledger.Version(), "stats", p.Start.String(), p.End.String(), cat)
	if res, ok := s.statsCache.Get(key); ok {
		return res.stats, res.err
	}

	st, err := analysis.Stats(s.ledger.Snapshot(), p.Start, p.End, p.Category)
	s.statsCache.Set(key, statsResult{stats: st, err: err})

	log.FromContext(r.Context()).DebugContext(r.Context(), "Statistics computed",
		log.FieldOperation, log.OpStats,
		log.FieldStartDate, p.Start.String(),
		log.FieldEndDate, p.End.String(),
		log.FieldRecords, st.Count)
	return st, err
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriod(r.URL.Query(), s.ledger.Snapshot())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	st, err := s.statistics(r, p)
	if err != nil && !errors.Is(err, analysis.ErrNoData) {
		InternalServerError("Error computing statistics").Write(w)
		return
	}

	resp := buildStatsResponse(p, st, err)
	s.render(w, r, NewHTMXResponse(), "stats.html", struct {
		Params     PeriodParams
		Stats      analysis.Statistics
		NoData     string
		MaxDaily   decimal.Decimal
		Categories []categoryOption
		Chart      statsResponse
	}{
		Params:     p,
		Stats:      st,
		NoData:     resp.NoData,
		MaxDaily:   maxDaily(st.Daily),
		Categories: categoryOptions(),
		Chart:      resp,
	})
}

func (s *Server) handleStatsJSON(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriod(r.URL.Query(), s.ledger.Snapshot())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := s.statistics(r, p)
	if err != nil && !errors.Is(err, analysis.ErrNoData) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "statistics unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, buildStatsResponse(p, st, err))
}

func buildStatsResponse(p PeriodParams, st analysis.Statistics, err error) statsResponse {
	resp := statsResponse{
		Start:       p.Start.String(),
		End:         p.End.String(),
		Category:    p.Category,
		Daily:       []statsPoint{},
		ByCategory:  []statsCategory{},
		TopProducts: []statsProduct{},
	}
	if err != nil {
		resp.NoData = analysis.NoDataMessage(err)
		return resp
	}
	resp.Total, resp.Average, resp.Max, resp.Count = st.Total, st.Average, st.Max, st.Count
	for _, d := range st.Daily {
		resp.Daily = append(resp.Daily, statsPoint{Date: d.Date.String(), Total: d.Total})
	}
	for _, c := range st.ByCategory {
		resp.ByCategory = append(resp.ByCategory, statsCategory{
			Category: c.Category, Label: c.Category.Label(),
			Amount: c.Amount, Count: c.Count, Share: c.Share,
		})
	}
	for _, tp := range st.TopProducts {
		resp.TopProducts = append(resp.TopProducts, statsProduct{Name: tp.Name, Count: tp.Count})
	}
	return resp
}

func maxDaily(points []analysis.DailyPoint) decimal.Decimal {
	m := decimal.Zero
	for _, p := range points {
		if p.Total.GreaterThan(m) {
			m = p.Total
		}
	}
	return m
}

// handleAnalysis runs the basic report and the query-driven summary for a
// period. An empty query is rejected.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	query := sanitizeInput(r.PostForm.Get("query"))
	if query == "" {
		UnprocessableEntityError("Please enter an analysis request.").Write(w)
		return
	}
	p, err := ParsePeriod(r.PostForm, s.ledger.Snapshot())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	key := cache.Key(s.ledger.Version(), "analysis", p.Start.String(), p.End.String(), strings.ToLower(query))
	res, ok := s.analysisCache.Get(key)
	if !ok {
		ds := s.ledger.Snapshot()
		res = analysisResult{
			report:  analysis.Report(ds, p.Start, p.End, nil),
			summary: analysis.Summarize(ds, p.Start, p.End, query),
		}
		s.analysisCache.Set(key, res)
		log.FromContext(r.Context()).InfoContext(r.Context(), "Analysis computed",
			log.FieldOperation, log.OpAnalyze,
			log.FieldStartDate, p.Start.String(),
			log.FieldEndDate, p.End.String(),
			log.FieldQuery, query)
	}

	s.render(w, r, NewHTMXResponse(), "analysis.html", struct {
		Params  PeriodParams
		Query   string
		Report  analysis.Summary
		Summary analysis.Summary
	}{Params: p, Query: query, Report: res.report, Summary: res.summary})
}
