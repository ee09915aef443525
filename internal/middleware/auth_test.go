package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdaybook/internal/ctxkeys"
	"birthdaybook/internal/model"
	"birthdaybook/internal/service"
)

// newGateService builds an AuthService for token work only. Repositories are
// nil because token signing and verification never touch the database.
func newGateService(tokenExpiry time.Duration) *service.AuthService {
	return service.NewAuthService(nil, nil, nil,
		[]byte("0123456789abcdef0123456789abcdef"), 5*time.Minute, tokenExpiry)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireAuthMissingHeader(t *testing.T) {
	svc := newGateService(time.Hour)
	handler := RequireAuth(svc)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/birthdays", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing or invalid Authorization header", errorBody(t, rec))
}

func TestRequireAuthNonBearerScheme(t *testing.T) {
	svc := newGateService(time.Hour)
	handler := RequireAuth(svc)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest("GET", "/birthdays", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing or invalid Authorization header", errorBody(t, rec))
}

func TestRequireAuthGarbageToken(t *testing.T) {
	svc := newGateService(time.Hour)
	handler := RequireAuth(svc)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest("GET", "/birthdays", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, rec))
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := newGateService(-time.Hour)
	token, err := expired.GenerateToken(&model.Account{ID: "acc-1", Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	handler := RequireAuth(expired)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest("GET", "/birthdays", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, rec))
}

func TestRequireAuthValidTokenPopulatesContext(t *testing.T) {
	svc := newGateService(time.Hour)
	token, err := svc.GenerateToken(&model.Account{ID: "acc-1", Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	var gotAccountID string
	var gotEmail string
	handler := RequireAuth(svc)(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID = ctxkeys.AccountID(r.Context())
		claims := ctxkeys.Claims(r.Context())
		gotEmail, _ = claims["email"].(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/birthdays", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acc-1", gotAccountID)
	assert.Equal(t, "a@x.com", gotEmail)
}
