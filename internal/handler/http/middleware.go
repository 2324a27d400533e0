package http

import (
	"net/http"

	"github.com/m4mynk/luxor-frontend/internal/commerce"
	"github.com/m4mynk/luxor-frontend/pkg/httputil"
	"github.com/m4mynk/luxor-frontend/pkg/logger"
)

// ContentTypeJSON sets the response content type for API routes.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// CredentialsPassthrough copies the shopper's Cookie header into the context
// so commerce API calls made on their behalf carry their session.
func CredentialsPassthrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie := r.Header.Get("Cookie"); cookie != "" {
			r = r.WithContext(commerce.WithCredentials(r.Context(), cookie))
		}
		next.ServeHTTP(w, r)
	})
}

// sessionID pulls the session identifier established by the session
// middleware. A missing ID means the middleware chain is misconfigured, so
// the request is rejected.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := logger.SessionIDFromContext(r.Context())
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "session id is required"},
		})
		return "", false
	}
	return id, true
}
