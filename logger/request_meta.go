package logger

import "github.com/google/uuid"

// RequestIDHeader is the correlation header shared by all log entries
// produced while handling one inbound request.
const RequestIDHeader = "X-Request-ID"

// RequestMeta carries the ambient request data captured with every log entry.
// It is built once per request by the HTTP middleware and passed explicitly
// into the service; the engine itself holds no global request state.
type RequestMeta struct {
	UserID    *uint
	IP        string
	UserAgent string
	RequestID string
}

// NewRequestID mints a fresh correlation id for requests that arrive without one.
func NewRequestID() string {
	return uuid.NewString()
}
