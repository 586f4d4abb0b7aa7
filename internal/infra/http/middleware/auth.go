package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
)

const (
	msgTokenRequired = "Access token required"
	msgTokenExpired  = "Token expired"
	msgTokenInvalid  = "Invalid token"
	msgForbidden     = "Insufficient permissions"
)

type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate rejects requests without a valid bearer token and attaches
// the decoded identity otherwise.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, msgTokenRequired, "")
				return
			}
			id, err := v.Verify(raw)
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				response.Error(w, http.StatusUnauthorized, msgTokenExpired, "")
				return
			case err != nil:
				response.Error(w, http.StatusUnauthorized, msgTokenInvalid, "")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuthenticate attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				if id, err := v.Verify(raw); err == nil {
					r = r.WithContext(auth.WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, msgTokenRequired, "")
				return
			}
			if !auth.HasRole(id.Role, roles...) {
				response.Error(w, http.StatusForbidden, msgForbidden, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
