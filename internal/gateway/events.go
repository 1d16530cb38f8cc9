package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

// EventKind distinguishes the three events of a chat stream.
type EventKind int

const (
	EventDelta EventKind = iota
	EventDone
	EventError
)

const (
	doneSentinel = "[DONE]"
	errorPrefix  = "[ERROR] "
)

// StreamEvent is one server-sent event of a chat stream.
type StreamEvent struct {
	Kind EventKind
	Text string
}

// Encode renders the event as an SSE frame whose data is a JSON string.
func (e StreamEvent) Encode() []byte {
	payload := e.Text
	switch e.Kind {
	case EventDone:
		payload = doneSentinel
	case EventError:
		payload = errorPrefix + e.Text
	}

	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(payload) // a string always encodes
	buf.Truncate(buf.Len() - 1)
	buf.WriteString("\n\n")
	return buf.Bytes()
}

// eventWriter writes SSE frames and finishes the stream at most once.
type eventWriter struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	finished bool
}

func newEventWriter(w http.ResponseWriter) (*eventWriter, bool) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &eventWriter{w: w, flusher: f}, true
}

// open commits the SSE headers. No JSON error can be sent after this.
func (ew *eventWriter) open() {
	h := ew.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	ew.w.WriteHeader(http.StatusOK)
	ew.flusher.Flush()
}

// send writes one frame. It reports false once the client is gone or the
// stream has been finished; callers stop writing at that point.
func (ew *eventWriter) send(ev StreamEvent) bool {
	if ew.finished {
		return false
	}
	if _, err := ew.w.Write(ev.Encode()); err != nil {
		ew.finished = true
		return false
	}
	ew.flusher.Flush()
	return true
}

func (ew *eventWriter) delta(text string) bool {
	return ew.send(StreamEvent{Kind: EventDelta, Text: text})
}

func (ew *eventWriter) done() {
	ew.send(StreamEvent{Kind: EventDone})
	ew.finished = true
}

func (ew *eventWriter) fail(err error) {
	ew.send(StreamEvent{Kind: EventError, Text: errorMessage(err)})
	ew.finished = true
}

// errorMessage prefers the provider's own message over the wrapped chain.
func errorMessage(err error) string {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, llm.ErrNotConfigured) {
		return "completion provider not configured"
	}
	return err.Error()
}
