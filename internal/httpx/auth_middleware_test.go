package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"librarium/internal/httpx"
	"librarium/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	var seen httpx.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := httpx.PrincipalFrom(r)
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusOK)
	})
	protected := httpx.AuthMiddleware(testutil.TestSecret)(next)

	tests := []struct {
		name           string
		token          string
		rawHeader      string
		expectedStatus int
	}{
		{
			name:           "valid token",
			token:          testutil.GenerateTestToken(testutil.TestSecret, "user-1", "member"),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			rawHeader:      "Basic abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			token:          "not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			token:          testutil.GenerateExpiredToken(testutil.TestSecret, "user-1", "member"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			token:          testutil.GenerateTestToken("other-secret", "user-1", "member"),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.NewRequestWithAuth(http.MethodGet, "/me", nil, tt.token)
			if tt.rawHeader != "" {
				r.Header.Set("Authorization", tt.rawHeader)
			}
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "user-1", seen.ID)
				assert.Equal(t, "member", seen.Role)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := httpx.RequireAdmin(next)

	t.Run("admin passes", func(t *testing.T) {
		r := testutil.NewRequestWithPrincipal(http.MethodPost, "/admin/reconcile", nil, testutil.TestAdmin)
		w := httptest.NewRecorder()

		adminOnly.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member rejected", func(t *testing.T) {
		r := testutil.NewRequestWithPrincipal(http.MethodPost, "/admin/reconcile", nil, testutil.TestMember)
		w := httptest.NewRecorder()

		adminOnly.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no principal rejected", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodPost, "/admin/reconcile", nil)
		w := httptest.NewRecorder()

		adminOnly.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
