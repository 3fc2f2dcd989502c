package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"spendlog/internal/core"
)

type expenseRequest struct {
	Title       string      `json:"title"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// toInput converts wire fields into core types. Parse failures surface as
// field-level validation errors; the full rule set runs in the ledger.
func (req expenseRequest) toInput() (core.ExpenseInput, error) {
	cents, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		return core.ExpenseInput{}, &core.ValidationError{Field: "amount", Err: err}
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.ExpenseInput{}, &core.ValidationError{Field: "date", Err: err}
	}

	return core.ExpenseInput{
		Title:       req.Title,
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(req.Category),
		Description: req.Description,
		Date:        date,
	}, nil
}

type expenseResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	var description *string
	if e.Description != "" {
		description = &e.Description
	}
	return expenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      e.Amount.Float(),
		Category:    string(e.Category),
		Description: description,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   e.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toExpenseResponses(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

func expenseIDFrom(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		// A malformed ID matches no record; same response as a missing one.
		return 0, core.ErrNotFound
	}
	return id, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())

	expenses, err := s.ledger.List(r.Context(), principal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := r.URL.Query()
	query := core.Query{
		Search:    params.Get("search"),
		Category:  core.Category(params.Get("category")),
		SortBy:    core.SortBy(params.Get("sort_by")),
		SortOrder: core.SortOrder(params.Get("sort_order")),
	}

	writeJSON(w, http.StatusOK, toExpenseResponses(query.Apply(expenses)))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.ledger.Create(r.Context(), principalFrom(r.Context()), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseIDFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.ledger.Update(r.Context(), principalFrom(r.Context()), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseIDFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.ledger.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
