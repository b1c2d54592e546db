package book

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

type CreateReq struct {
	Title    string `json:"title" validate:"required,max=200"`
	Author   string `json:"author" validate:"required,max=200"`
	Category string `json:"category" validate:"max=100"`
}

// Create handles POST /books, admin only.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Create(r.Context(), req.Title, req.Author, req.Category)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// List handles GET /books with optional q, category and status filters.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Q:        r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	books, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, books)
}

// GetByID handles GET /books/{id}.
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b)
}

type UpdateReq struct {
	Title    string  `json:"title" validate:"max=200"`
	Author   string  `json:"author" validate:"max=200"`
	Category *string `json:"category"`
}

// Update handles PUT /books/{id}, admin only.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), UpdateFields{
		Title:    req.Title,
		Author:   req.Author,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b)
}

// Delete handles DELETE /books/{id}, admin only. Deleting a borrowed book
// is a conflict, not a success.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrBorrowed):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Cannot delete a borrowed book", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessNoContent(w)
}
