package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"gagyebu/internal/core"
	"gagyebu/internal/log"
	"gagyebu/internal/services"
)

// handleCreateExpense validates, prices and stores one entry. Missing
// fields are answered with 422 and nothing is stored.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	in := ParseEntry(p.Get)
	e, missing, err := s.ledger.Add(r.Context(), in)
	if len(missing) > 0 {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Entry rejected",
			log.FieldOperation, log.OpCreate,
			"missing", missing)
		ValidationError(missing).Write(w)
		return
	}
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save expense",
			log.FieldError, err,
			log.FieldOperation, log.OpCreate,
			log.FieldProductName, in.ProductName)
		InternalServerError("Error saving expense").Write(w)
		return
	}

	total := s.ledger.Len()
	s.render(w, r,
		NewHTMXResponse().
			TriggerExpenseCreated(total-1, total).
			TriggerFormReset().
			TriggerSuccessNotification("Expense saved"),
		"expense_saved.html", e)
}

type listRow struct {
	Position int
	Expense  core.Expense
}

// handleListExpenses renders the filtered list with positions for deletion.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := ParseListFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	entries := s.ledger.Filter(f)
	rows := make([]listRow, 0, len(entries))
	total := decimal.Zero
	for _, e := range entries {
		rows = append(rows, listRow{Position: e.Position, Expense: e.Expense})
		total = total.Add(e.Expense.TotalPrice)
	}

	s.render(w, r, NewHTMXResponse(), "expense_list.html", struct {
		Rows       []listRow
		Total      decimal.Decimal
		Empty      bool
		Filter     services.ListFilter
		Categories []categoryOption
	}{
		Rows:       rows,
		Total:      total,
		Empty:      len(rows) == 0,
		Filter:     f,
		Categories: categoryOptions(),
	})
}

// handleDeleteExpenses removes the selected positions; remaining records
// are renumbered.
func (s *Server) handleDeleteExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	positions, err := ParsePositions(r.PostForm)
	if err != nil {
		BadRequestError("Invalid position").Write(w)
		return
	}
	if len(positions) == 0 {
		UnprocessableEntityError("Select at least one expense to delete").Write(w)
		return
	}

	n, err := s.ledger.Delete(r.Context(), positions...)
	switch {
	case errors.Is(err, core.ErrPositionOutOfRange):
		UnprocessableEntityError("The selected expense no longer exists. Reload the list.").Write(w)
		return
	case err != nil:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete expenses",
			log.FieldError, err,
			log.FieldOperation, log.OpDelete)
		InternalServerError("Error deleting expenses").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerExpenseDeleted(n, s.ledger.Len()).
		TriggerSuccessNotification(fmt.Sprintf("%d expense(s) deleted", n)).
		BodyHTML(fmt.Sprintf(`<div class="success">%d expense(s) deleted</div>`, n)).
		Write(w)
}
