// Package requestid assigns a correlation ID to every request so log lines
// and audit events from one request can be stitched together.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"rollcall/pkg/requestcontext"
)

// Header is the response header carrying the request ID back to clients.
const Header = "X-Request-Id"

// Middleware injects a request ID into the context, honoring one supplied by
// an upstream proxy and generating a fresh UUID otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
