package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// messageExpr probes the error payload shapes the API is known to emit.
// Django-style bodies use "detail" or "non_field_errors"; others use
// "message" or "error".
const messageExpr = `detail || message || error || non_field_errors[0]`

// APIError is a non-2xx response passed through unchanged with the server's
// body attached.
type APIError struct {
	StatusCode int
	Body       []byte
}

func newAPIError(resp *Response) *APIError {
	return &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Message extracts a human-readable message from whichever payload shape the
// server used, or returns empty when the body is not JSON or matches none.
func (e *APIError) Message() string {
	var payload any
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}
	result, err := jmespath.Search(messageExpr, payload)
	if err != nil {
		return ""
	}
	if msg, ok := result.(string); ok {
		return msg
	}
	return ""
}

// Payload decodes the error body as a generic JSON value for callers that
// surface it verbatim, e.g. the session error field.
func (e *APIError) Payload() any {
	var payload any
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return map[string]any{"detail": http.StatusText(e.StatusCode)}
	}
	return payload
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
