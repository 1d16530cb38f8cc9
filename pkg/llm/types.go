package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Message represents a chat message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents a complete response from an LLM provider.
type Response struct {
	Content string          `json:"content"`
	Raw     json.RawMessage `json:"raw,omitempty"`
	Usage   Usage           `json:"usage"`
}

// Usage tracks token consumption for a request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Delta represents an incremental update during streaming.
type Delta struct {
	Content string `json:"content,omitempty"`
	Err     error  `json:"-"`
}

// APIError is a failed provider call. StatusCode mirrors the provider's HTTP
// status, or 500 when the request never got a response.
type APIError struct {
	StatusCode int
	Message    string
	Detail     json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NewTransportError wraps a network-level failure as a 500 APIError.
func NewTransportError(err error) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
}
