package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Configure("round-trip-secret", time.Hour)

	userID := uuid.New()
	token, err := GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "blogswamp-api", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	Configure("round-trip-secret", time.Hour)

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	Configure("secret-one", time.Hour)
	token, err := GenerateToken(uuid.New())
	require.NoError(t, err)

	Configure("secret-two", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func protectedProbe(t *testing.T) (http.HandlerFunc, *uuid.UUID) {
	t.Helper()
	seen := new(uuid.UUID)
	handler := func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetUserIDFromContext(r.Context()); ok {
			*seen = id
		}
		w.WriteHeader(http.StatusOK)
	}
	return handler, seen
}

func TestMiddlewareRequiresToken(t *testing.T) {
	Configure("middleware-secret", time.Hour)

	handler, _ := protectedProbe(t)
	wrapped := ApplyJWTMiddleware(handler, "/blog")

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	rec := httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewarePropagatesUserID(t *testing.T) {
	Configure("middleware-secret", time.Hour)

	userID := uuid.New()
	token, err := GenerateToken(userID)
	require.NoError(t, err)

	handler, seen := protectedProbe(t)
	wrapped := ApplyJWTMiddleware(handler, "/blog")

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *seen)
}

func TestUnprotectedRoutesSkipAuth(t *testing.T) {
	Configure("middleware-secret", time.Hour)

	handler, _ := protectedProbe(t)

	for _, path := range []string{"/health", "/user/register", "/user/login", "/user/check-email", "/ws"} {
		wrapped := ApplyJWTMiddleware(handler, path)
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		wrapped(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestImageDownloadsSkipAuth(t *testing.T) {
	Configure("middleware-secret", time.Hour)

	handler, _ := protectedProbe(t)
	wrapped := ApplyJWTMiddleware(handler, "/images/")

	req := httptest.NewRequest(http.MethodGet, "/images/some-id", nil)
	rec := httptest.NewRecorder()
	wrapped(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Uploads still authenticate
	req = httptest.NewRequest(http.MethodPost, "/images", nil)
	rec = httptest.NewRecorder()
	uploadWrapped := ApplyJWTMiddleware(handler, "/images")
	uploadWrapped(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
