package http

import (
	"net/http"

	"spendlog/internal/core"
)

type categoryTotalResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type dayTotalResponse struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type statsResponse struct {
	Total            float64                 `json:"total"`
	ByCategory       []categoryTotalResponse `json:"by_category"`
	Weekly           []dayTotalResponse      `json:"weekly"`
	ThisMonth        float64                 `json:"this_month"`
	LastMonth        float64                 `json:"last_month"`
	MonthlyChangePct float64                 `json:"monthly_change_pct"`
}

func toStatsResponse(s core.Summary) statsResponse {
	out := statsResponse{
		Total:            s.Total.Float(),
		ByCategory:       make([]categoryTotalResponse, 0, len(s.ByCategory)),
		Weekly:           make([]dayTotalResponse, 0, len(s.Weekly)),
		ThisMonth:        s.ThisMonth.Float(),
		LastMonth:        s.LastMonth.Float(),
		MonthlyChangePct: s.MonthlyChangePct,
	}
	for _, ct := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryTotalResponse{
			Category: string(ct.Category),
			Total:    ct.Total.Float(),
		})
	}
	for _, dt := range s.Weekly {
		out.Weekly = append(out.Weekly, dayTotalResponse{
			Date:  dt.Date.String(),
			Total: dt.Total.Float(),
		})
	}
	return out
}

// handleStats computes the analytics summary over the principal's current
// snapshot. Nothing is cached; the snapshot is always the live ledger.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledger.List(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(core.Summarize(expenses, s.now())))
}
