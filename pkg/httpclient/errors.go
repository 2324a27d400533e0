package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
)

// upstreamErrorBody mirrors the `{ "message": "..." }` error shape returned
// by the Luxor commerce API on non-2xx responses.
type upstreamErrorBody struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. When the body carries the commerce API's standard
// `{message}` shape, that message is preserved verbatim so it can be shown to
// the shopper unchanged. Otherwise a generic error with the status code and
// raw body is returned.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var upstream upstreamErrorBody
	if json.Unmarshal(bodyBytes, &upstream) == nil && upstream.Message != "" {
		return mapUpstreamError(resp.StatusCode, upstream.Message, serviceName)
	}

	// Unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapUpstreamError translates the commerce API's HTTP status and message into
// an AppError that keeps the message intact.
func mapUpstreamError(status int, message, serviceName string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(message)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(message)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return apperrors.Upstream(status, message)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
