package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 2 << 20

// errorResponse is the JSON error shape of every non-streaming route.
type errorResponse struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeProviderError maps a completion failure to the provider's status
// (or 500) and passes through the provider's error payload.
func writeProviderError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode <= 599 {
			status = apiErr.StatusCode
		}
		resp.Error = apiErr.Message
		resp.Detail = apiErr.Detail
	}
	if resp.Error == "" {
		resp.Error = fallback
	}

	slog.Error("provider call failed", "path", r.URL.Path, "status", status, "request_id", RequestIDFrom(r.Context()), "error", err)
	writeJSON(w, status, resp)
}

// decodeBody reads a JSON body into a T. Missing or malformed bodies yield
// the zero T so the operation falls through to its empty-input default.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) T {
	var v T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		if !errors.Is(err, io.EOF) {
			slog.Debug("ignoring unreadable request body", "path", r.URL.Path, "error", err)
		}
		var zero T
		return zero
	}
	return v
}

// textField is a request field read as text. Numbers and booleans keep
// their literal form, and null, objects or arrays read as empty, so one
// mistyped field does not discard the rest of the body.
type textField string

func (f *textField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text field: %w", err)
		}
		*f = textField(s)
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*f = textField(data)
	default:
		*f = ""
	}
	return nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
