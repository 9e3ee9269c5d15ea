package identity

import (
	"context"
	"net/http"
	"strings"

	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	httpAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/http/adapter"
)

// PasswordVerifier checks username/password pairs for HTTP Basic requests.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, username, password string) (Principal, error)
}

type Middleware struct {
	tokens    *Tokens
	passwords PasswordVerifier
	logger    pkgApp.AppLogger
}

func NewMiddleware(tokens *Tokens, passwords PasswordVerifier, logger pkgApp.AppLogger) *Middleware {
	return &Middleware{tokens: tokens, passwords: passwords, logger: logger}
}

// Require rejects requests without a valid bearer token or Basic credentials.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.authenticate(r)
		if err != nil {
			pkgApp.LogDebug(r.Context(), m.logger, "request not authenticated", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			w.Header().Set("WWW-Authenticate", `Basic realm="pathshare"`)
			httpAdapter.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Principal{}, ErrMissingCredentials
	}

	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return m.tokens.Parse(header[len("Bearer "):])
	}

	if username, password, ok := r.BasicAuth(); ok && m.passwords != nil {
		return m.passwords.VerifyPassword(r.Context(), username, password)
	}
	return Principal{}, ErrInvalidCredentials
}
