package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/medtransport/internal/middleware"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, key []byte, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "dispatcher-7",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

// subjectEcho answers 200 with the subject the auth middleware stored.
var subjectEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(middleware.Subject(r.Context())))
})

func authRequest(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func unauthorizedCode(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

func TestAuth_ValidToken(t *testing.T) {
	h := middleware.NewAuth(middleware.AuthOptions{Secret: testSecret})(subjectEcho)

	rec := authRequest(h, "/trips", signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dispatcher-7", rec.Body.String())
}

func TestAuth_MissingToken(t *testing.T) {
	h := middleware.NewAuth(middleware.AuthOptions{Secret: testSecret})(subjectEcho)

	rec := authRequest(h, "/trips", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	code, msg := unauthorizedCode(t, rec)
	assert.Equal(t, "unauthorized", code)
	assert.Equal(t, "missing bearer token", msg)
}

func TestAuth_Rejections(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong key", token: signToken(t, []byte("other"), jwt.SigningMethodHS256, validClaims())},
		{name: "expired", token: signToken(t, testSecret, jwt.SigningMethodHS256, expired)},
		{name: "no expiry", token: signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry)},
		{name: "wrong alg", token: signToken(t, testSecret, jwt.SigningMethodHS512, validClaims())},
		{name: "garbage", token: "not.a.jwt"},
	}
	h := middleware.NewAuth(middleware.AuthOptions{Secret: testSecret})(subjectEcho)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := authRequest(h, "/patients/1", tc.token)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuth_Issuer(t *testing.T) {
	h := middleware.NewAuth(middleware.AuthOptions{Secret: testSecret, Issuer: "dispatch"})(subjectEcho)

	claims := validClaims()
	claims.Issuer = "someone-else"
	assert.Equal(t, http.StatusUnauthorized, authRequest(h, "/trips", signToken(t, testSecret, jwt.SigningMethodHS256, claims)).Code)

	claims.Issuer = "dispatch"
	assert.Equal(t, http.StatusOK, authRequest(h, "/trips", signToken(t, testSecret, jwt.SigningMethodHS256, claims)).Code)
}

func TestAuth_PublicPath(t *testing.T) {
	h := middleware.NewAuth(middleware.AuthOptions{Secret: testSecret, Public: []string{"/healthz"}})(subjectEcho)

	rec := authRequest(h, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAuth_NoSecretDisables(t *testing.T) {
	h := middleware.NewAuth(middleware.AuthOptions{})(subjectEcho)

	assert.Equal(t, http.StatusOK, authRequest(h, "/trips", "").Code)
}
