// Package middleware holds the HTTP request pipeline: rate limiting, bearer
// authentication, and client IP extraction.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"business-analytics-server/internal/dispatch"
	"business-analytics-server/internal/security"
)

const bearerPrefix = "bearer "

// Verifier checks a bearer token and returns the caller principal.
type Verifier interface {
	Verify(token string) (*security.Principal, error)
}

// Auth returns middleware that verifies the Authorization header and places
// the principal on the request context. A present-but-invalid header is
// rejected here; an absent header passes through, because the dispatcher
// also accepts a token parameter and public paths carry no header at all.
func Auth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := withClientIP(r.Context(), ClientIP(r))
			token := extractBearer(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			p, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(dispatch.WithPrincipal(ctx, p)))
		})
	}
}

type clientIPKey struct{}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the caller address recorded by Auth, or "".
// Passed to the audit logger as its IP extractor.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// extractBearer returns the Bearer token from the Authorization header, or
// "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

// ClientIP returns the caller address: the first X-Forwarded-For hop when
// present, else the connection's remote host.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
