package report

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuspay/campuspay/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

type statsResponse struct {
	TotalStudents   int64 `json:"total_students"`
	TotalDeposits   int64 `json:"total_deposits"`
	TotalExpenses   int64 `json:"total_expenses"`
	NetProfit       int64 `json:"net_profit"`
	TotalStockValue int64 `json:"total_stock_value"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := statsResponse{
		TotalStudents:   stats.TotalStudents,
		TotalDeposits:   stats.TotalDeposits,
		TotalExpenses:   stats.TotalExpenses,
		NetProfit:       stats.NetProfit,
		TotalStockValue: stats.TotalStockValue,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
