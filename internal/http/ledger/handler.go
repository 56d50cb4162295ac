package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/ledger"
	"github.com/campuspay/campuspay/internal/stock"
	"github.com/campuspay/campuspay/internal/student"
)

var validate = validator.New()

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) TransactionRoutes(r chi.Router) {
	r.Post("/", h.applyTransaction)
	r.Get("/", h.listTransactions)
}

func (h *Handler) PurchaseRoutes(r chi.Router) {
	r.Post("/", h.applyPurchase)
	r.Get("/", h.listPurchases)
}

type applyTransactionRequest struct {
	StudentID uuid.UUID     `json:"student_id" validate:"required"`
	Kind      ledger.Kind   `json:"kind" validate:"required"`
	Amount    int64         `json:"amount" validate:"required"`
	Method    ledger.Method `json:"method" validate:"required"`
	Note      string        `json:"note"`
}

func (h *Handler) applyTransaction(w http.ResponseWriter, r *http.Request) {
	var req applyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.ApplyTransaction(r.Context(), ledger.TransactionParams{
		StudentID: req.StudentID,
		Kind:      req.Kind,
		Amount:    req.Amount,
		Method:    req.Method,
		Note:      req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toTransactionResponse(rec)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type applyPurchaseRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required"`
}

func (h *Handler) applyPurchase(w http.ResponseWriter, r *http.Request) {
	var req applyPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.ApplyPurchase(r.Context(), ledger.PurchaseParams{
		StudentID: req.StudentID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toPurchaseResponse(rec)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toTransactionResponseList(recs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, err := h.svc.ListPurchases(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPurchaseResponseList(recs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseFilter(r *http.Request) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	if s := r.URL.Query().Get("student_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, errors.New("invalid student_id")
		}

		filter.StudentID = &id
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit")
		}

		filter.Limit = limit
	}

	return filter, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, student.ErrNotFound):
		http.Error(w, "student not found", http.StatusNotFound)
	case errors.Is(err, stock.ErrNotFound):
		http.Error(w, "stock item not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrInvalidMethod):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ledger.ErrInsufficientStock):
		http.Error(w, "insufficient stock", http.StatusConflict)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		http.Error(w, "insufficient funds", http.StatusConflict)
	case errors.Is(err, ledger.ErrUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
