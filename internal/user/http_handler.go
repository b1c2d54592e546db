package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"librarium/internal/auth"
	"librarium/internal/httpx"
)

type HTTPHandler struct {
	service  *Service
	secret   string
	tokenTTL time.Duration
}

func NewHTTPHandler(service *Service, secret string, tokenTTL time.Duration) *HTTPHandler {
	return &HTTPHandler{service: service, secret: secret, tokenTTL: tokenTTL}
}

type RegisterReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register handles POST /auth/register.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	u, err := h.service.Register(r.Context(), req.Name, req.Email, hashed)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Email already in use", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	token, _, err := auth.GenerateToken(h.secret, u.ID, u.Role, h.tokenTTL)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, map[string]any{
		"token": token,
		"user":  u,
	})
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.service.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(u.Password, req.Password) {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
		return
	}

	token, _, err := auth.GenerateToken(h.secret, u.ID, u.Role, h.tokenTTL)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /me.
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, u)
}

// List handles GET /users, admin only.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, users)
}
