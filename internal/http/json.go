package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// maxRequestBody caps inbound JSON bodies. Auth and resource payloads are
// all small; anything larger is garbage or abuse.
const maxRequestBody = 1 << 20

// DecodeJSON reads the request body into dst, rejecting unknown fields and
// oversized payloads. On failure it writes a 400 response and returns false,
// so handlers can bail with a bare return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer before touching the response writer, so
// an encoding failure can still become a clean 500 instead of a truncated
// body behind a committed 200.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// A write failure here means the client went away; nothing to salvage.
	_, _ = buf.WriteTo(w)
}

// ErrorParams names the pieces of a JSON error response: the HTTP status,
// a stable machine-readable code, and the error whose message is surfaced.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes the error envelope shared by every handler.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}
