package http

import (
	"encoding/json"
	"net/http"
	"time"

	"gagyebu/internal/core"
	"gagyebu/internal/log"
)

type categoryOption struct {
	Value core.Category
	Label string
}

func categoryOptions() []categoryOption {
	out := make([]categoryOption, 0, len(core.Categories))
	for _, c := range core.Categories {
		out = append(out, categoryOption{Value: c, Label: c.Label()})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports not ready until templates are loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}
	checks["ledger"] = map[string]any{"records": s.ledger.Len(), "version": s.ledger.Version()}

	statsHits, statsMisses := s.statsCache.Stats()
	checks["cache"] = map[string]any{
		"stats_entries":    s.statsCache.Size(),
		"analysis_entries": s.analysisCache.Size(),
		"stats_hits":       statsHits,
		"stats_misses":     statsMisses,
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"limited":        s.rateLimiter.Limited(),
	}
	checks["requests"] = s.traceMiddleware.TotalRequests()
	checks["suspicious_requests"] = s.securityDetector.SuspiciousRequests()

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Today      string
		Categories []categoryOption
		Records    int
	}{
		Today:      core.Today().String(),
		Categories: categoryOptions(),
		Records:    s.ledger.Len(),
	}
	s.render(w, r, NewHTMXResponse(), "index.html", data)
}

// handleRecommend renders the suggested category for the typed product name.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.URL.Query().Get("product_name"))
	if name == "" {
		NewHTMXResponse().BodyHTML("").Write(w)
		return
	}
	c := s.ledger.Recommend(name)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Category recommended",
		log.FieldOperation, log.OpRecommend,
		log.FieldProductName, name,
		log.FieldCategory, c)

	s.render(w, r, NewHTMXResponse(), "recommend.html", struct {
		Category core.Category
		Label    string
	}{Category: c, Label: c.Label()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		InternalServerError("encoding error").Write(w)
		return
	}
	NewHTMXResponse().
		Status(code).
		Header("Content-Type", "application/json").
		Body(body).
		Write(w)
}
