package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"gagyebu/internal/analysis"
	"gagyebu/internal/core"
	"gagyebu/internal/log"
)

var templateFuncs = template.FuncMap{
	"won":     core.FormatWon,
	"percent": core.FormatPercent,
	"label":   func(c core.Category) string { return c.Label() },
	"insufficientData": func() string {
		return analysis.InsufficientDataMessage
	},
	"barWidth": func(part, max decimal.Decimal) int {
		if !max.IsPositive() || !part.IsPositive() {
			return 0
		}
		w := int(part.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
		if w < 2 {
			w = 2
		}
		return min(w, 100)
	},
}

// sanitizeInput removes control characters except tab and newlines and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// render executes a template into a buffer first so a failing template never
// produces a half-written 200 response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name,
			log.FieldOperation, log.OpRender)
		InternalServerError("Error rendering page").Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}
