package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type subjectKey struct{}

// Subject returns the JWT subject of an authenticated request, or "".
func Subject(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey{}).(*string); ok && s != nil {
		return *s
	}
	return ""
}

// withSubjectSlot installs an empty subject that NewAuth fills in later.
// The logger sits outside the auth middleware and reads it after next returns.
func withSubjectSlot(ctx context.Context) context.Context {
	if _, ok := ctx.Value(subjectKey{}).(*string); ok {
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, new(string))
}

func setSubject(ctx context.Context, sub string) context.Context {
	if s, ok := ctx.Value(subjectKey{}).(*string); ok {
		*s = sub
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, &sub)
}

// AuthOptions configures NewAuth.
type AuthOptions struct {
	// Secret is the HS256 signing key. Empty disables authentication.
	Secret []byte
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	// Public lists paths served without a token.
	Public []string
}

// NewAuth returns a middleware that requires an "Authorization: Bearer <jwt>"
// header signed with HS256. Failures answer 401 with the API error shape.
func NewAuth(opts AuthOptions) func(http.Handler) http.Handler {
	public := make(map[string]bool, len(opts.Public))
	for _, p := range opts.Public {
		public[p] = true
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(next http.Handler) http.Handler {
		if len(opts.Secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}
			var claims jwt.RegisteredClaims
			_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return opts.Secret, nil
			})
			if err != nil {
				unauthorized(w, tokenMessage(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(setSubject(r.Context(), claims.Subject)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	default:
		return "invalid token"
	}
}

// unauthorized writes the same {"error":{"code","message"}} body the handlers use.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="medtransport"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
}
