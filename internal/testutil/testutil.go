package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"librarium/internal/auth"
	"librarium/internal/httpx"

	"github.com/golang-jwt/jwt/v5"
)

// TestSecret is the signing secret used across handler and middleware tests.
const TestSecret = "test-secret"

// TestMember is a mock member principal for testing.
var TestMember = httpx.Principal{ID: "member-id-123", Role: "member"}

// TestAdmin is a mock admin principal for testing.
var TestAdmin = httpx.Principal{ID: "admin-id-456", Role: "admin"}

// GenerateTestToken generates a JWT token for testing.
func GenerateTestToken(secret, userID, role string) string {
	token, _, _ := auth.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing.
func GenerateExpiredToken(secret, userID, role string) string {
	c := auth.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithPrincipal creates a request carrying a resolved principal,
// as AuthMiddleware would have attached it.
func NewRequestWithPrincipal(method, path string, body interface{}, p httpx.Principal) *http.Request {
	r := NewRequest(method, path, body)
	return r.WithContext(httpx.ContextWithPrincipal(r.Context(), p))
}

// NewRequestWithAuth creates a request with a bearer token header.
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse holds the decoded HTTP response for assertions.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorded response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
