package lending

import (
	"encoding/json"
	"errors"
	"net/http"

	"librarium/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func principal(r *http.Request) (Principal, bool) {
	p, ok := httpx.PrincipalFrom(r)
	if !ok {
		return Principal{}, false
	}
	return Principal{ID: p.ID, Role: p.Role}, true
}

type BorrowReq struct {
	BookID string `json:"book_id" validate:"required"`
}

// Borrow handles POST /transactions/borrow.
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req BorrowReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	tx, err := h.service.Borrow(r.Context(), req.BookID, p.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrNotAvailable):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is not available", nil)
		case errors.Is(err, ErrAlreadyBorrowed):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "You have already borrowed this book", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessCreated(w, r, tx)
}

type ReturnReq struct {
	BookID string `json:"book_id" validate:"required"`
}

// Return handles POST /transactions/return.
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req ReturnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	tx, err := h.service.Return(r.Context(), req.BookID, p.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrNoActiveBorrow):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "No active borrow for this book", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccess(w, r, tx)
}

// List handles GET /transactions; admins see everything, members their own.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), p)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, txs)
}

// Active handles GET /transactions/active.
func (h *HTTPHandler) Active(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	txs, err := h.service.ListActive(r.Context(), p.ID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, txs)
}

// Overdue handles GET /transactions/overdue.
func (h *HTTPHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	txs, err := h.service.ListOverdue(r.Context(), p)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, txs)
}

// GetStats handles GET /transactions/stats.
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, stats)
}

// Reconcile handles POST /admin/reconcile, admin only. Operators run it
// when drift between book status and the ledger is suspected.
func (h *HTTPHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	corrected, err := h.service.Reconcile(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int{"corrected": corrected})
}
