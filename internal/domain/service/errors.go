package service

import (
	"errors"
	"fmt"
)

// Upstream failure kinds. Callers wrap these with the underlying cause using %w.
var (
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamUnreachable = errors.New("upstream service unreachable")
	ErrUpstreamEmptyResult = errors.New("upstream returned an empty result")
)

// UpstreamHTTPError is returned when the model endpoint answers with a non-2xx status
type UpstreamHTTPError struct {
	StatusCode int
	Excerpt    string
}

func (e *UpstreamHTTPError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Excerpt)
}

// UpstreamModelError is returned when the model service reports an application-level
// error in its response body
type UpstreamModelError struct {
	Message string
}

func (e *UpstreamModelError) Error() string {
	return "upstream model error: " + e.Message
}

// ErrorKind returns a short, stable name for the upstream failure class of err,
// suitable for log fields and metric labels.
func ErrorKind(err error) string {
	var httpErr *UpstreamHTTPError
	var modelErr *UpstreamModelError

	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnreachable):
		return "unreachable"
	case errors.Is(err, ErrUpstreamEmptyResult):
		return "empty_result"
	case errors.As(err, &httpErr):
		return "http_error"
	case errors.As(err, &modelErr):
		return "model_error"
	default:
		return "unknown"
	}
}
