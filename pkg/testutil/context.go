package testutil

import (
	"net/http"

	"intake/pkg/requestcontext"
)

// WithRequestID adds a request id to the request context, as the request
// context middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
