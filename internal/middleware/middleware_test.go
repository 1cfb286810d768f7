package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogplatform/internal/models"
	"blogplatform/internal/reqctx"
	"blogplatform/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func actorEcho(t *testing.T, got *models.Actor) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = reqctx.Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func bearer(t *testing.T, a models.Actor, ttl time.Duration, key string) string {
	t.Helper()
	tok, err := utils.GenerateToken(key, a, ttl)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestJWTAuth(t *testing.T) {
	alice := models.Actor{ID: "u-1", Role: models.RoleUser, DisplayName: "Alice", Email: "a@example.com"}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", bearer(t, alice, time.Hour, "other"), http.StatusUnauthorized},
		{"expired", bearer(t, alice, -time.Minute, secret), http.StatusUnauthorized},
		{"valid", bearer(t, alice, time.Hour, secret), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.Actor
			h := JWTAuth(secret)(actorEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, alice, got)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var got models.Actor
	h := OptionalAuth(secret)(actorEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, got.IsAuthenticated())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, models.Actor{ID: "u-2", Role: models.RoleAdmin}, time.Hour, secret))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u-2", got.ID)
	assert.True(t, got.IsAdmin())
}

func TestOnlyRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := OnlyRole(models.RoleAdmin)(ok)

	cases := map[string]struct {
		actor  models.Actor
		status int
	}{
		"anonymous": {models.Anonymous, http.StatusUnauthorized},
		"user":      {models.Actor{ID: "u", Role: models.RoleUser}, http.StatusForbidden},
		"admin":     {models.Actor{ID: "a", Role: models.RoleAdmin}, http.StatusOK},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(reqctx.WithActor(req.Context(), c.actor))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, c.status, rec.Code)
		})
	}
}

func TestRequestIDAndRecoverer(t *testing.T) {
	var rid string
	h := RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, _ = reqctx.GetRequestID(r.Context())
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, rec.Header().Get(HeaderRequestID))
	assert.Contains(t, rec.Body.String(), "Server error")
}
