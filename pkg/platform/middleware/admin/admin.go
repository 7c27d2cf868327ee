// Package admin gates privileged routes behind a shared admin token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"

	dErrors "rollcall/pkg/domain-errors"
)

// TokenHeader carries the admin credential.
const TokenHeader = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token header does not
// match the configured token. An empty configured token disables the routes
// entirely rather than leaving them open.
func RequireAdminToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			presented := r.Header.Get(TokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				if logger != nil {
					logger.WarnContext(ctx, "admin route rejected",
						"request_id", requestcontext.RequestID(ctx),
						"path", r.URL.Path,
					)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
