package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m4mynk/luxor-frontend/pkg/logger"
)

// SessionHeader carries the caller's storefront session identifier.
const SessionHeader = "X-Session-ID"

// Session extracts the session ID from the request header and stores it in
// the context. If the caller does not supply one, a new ID is minted and
// echoed back so subsequent requests can reuse it.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				sessionID = uuid.New().String()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := logger.WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
