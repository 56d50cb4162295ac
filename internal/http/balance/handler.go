package balance

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/balance"
	"github.com/campuspay/campuspay/internal/student"
)

type Handler struct {
	svc *balance.Service
}

func NewHandler(svc *balance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{query}", h.find)
}

// find resolves the path segment as a class code when it matches one of the
// configured codes, otherwise as an admission number.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")

	if h.svc.IsClassCode(query) {
		result, err := h.svc.FindByClassCode(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(toClassResponse(result)); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	st, err := h.svc.FindByAdmissionNumber(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toStudentResponse(st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, student.ErrNotFound):
		http.Error(w, "student not found", http.StatusNotFound)
	case errors.Is(err, student.ErrUnknownClass):
		http.Error(w, "unknown class code", http.StatusUnprocessableEntity)
	case errors.Is(err, student.ErrUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type studentBalanceResponse struct {
	ID            uuid.UUID  `json:"id"`
	AdmissionNo   string     `json:"admission_no"`
	ClassCode     string     `json:"class_code"`
	Name          string     `json:"name"`
	Balance       int64      `json:"balance"`
	TotalPaid     int64      `json:"total_paid"`
	TotalSpent    int64      `json:"total_spent"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`
}

func toStudentResponse(st *student.Student) studentBalanceResponse {
	return studentBalanceResponse{
		ID:            st.ID,
		AdmissionNo:   st.AdmissionNo,
		ClassCode:     st.ClassCode,
		Name:          st.Name,
		Balance:       st.Balance,
		TotalPaid:     st.TotalPaid,
		TotalSpent:    st.TotalSpent,
		LastPaymentAt: st.LastPaymentAt,
	}
}

type summaryResponse struct {
	Balance    int64 `json:"balance"`
	TotalPaid  int64 `json:"total_paid"`
	TotalSpent int64 `json:"total_spent"`
}

type classBalancesResponse struct {
	ClassCode string                   `json:"class_code"`
	Students  []studentBalanceResponse `json:"students"`
	Summary   summaryResponse          `json:"summary"`
}

func toClassResponse(result *balance.ClassBalances) classBalancesResponse {
	students := make([]studentBalanceResponse, len(result.Students))
	for i, st := range result.Students {
		students[i] = toStudentResponse(st)
	}

	return classBalancesResponse{
		ClassCode: result.ClassCode,
		Students:  students,
		Summary: summaryResponse{
			Balance:    result.Summary.Balance,
			TotalPaid:  result.Summary.TotalPaid,
			TotalSpent: result.Summary.TotalSpent,
		},
	}
}
