package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

const (
	maxPromptRunes = 8000

	chatTemperature = 0.7

	emptyPromptText = "Empty prompt."
	noOutputText    = "(no output)"
	echoPrefix      = "Echo: "
	streamGreeting  = "Hello"
)

// ChatRequest is the body of the chat routes. A non-empty Messages takes
// precedence over Prompt.
type ChatRequest struct {
	Prompt   textField     `json:"prompt"`
	Messages []llm.Message `json:"messages"`
}

// conversation returns the messages to send and the text an echo reply
// repeats. Both are empty when the request carries no input, including a
// message list whose contents are all empty.
func (req ChatRequest) conversation() ([]llm.Message, string) {
	if len(req.Messages) > 0 {
		if !hasContent(req.Messages) {
			return nil, ""
		}
		return req.Messages, lastUserContent(req.Messages)
	}
	prompt := truncate(string(req.Prompt), maxPromptRunes)
	if prompt == "" {
		return nil, ""
	}
	return []llm.Message{{Role: "user", Content: prompt}}, prompt
}

func hasContent(msgs []llm.Message) bool {
	for _, m := range msgs {
		if m.Content != "" {
			return true
		}
	}
	return false
}

func lastUserContent(msgs []llm.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return msgs[len(msgs)-1].Content
}

type textResponse struct {
	Text string `json:"text"`
}

type rawTextResponse struct {
	Text string          `json:"text"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[ChatRequest](w, r)

	msgs, echo := req.conversation()
	if len(msgs) == 0 {
		writeJSON(w, http.StatusOK, textResponse{Text: emptyPromptText})
		return
	}
	if !s.provider.Configured() {
		writeJSON(w, http.StatusOK, textResponse{Text: echoPrefix + echo})
		return
	}

	resp, err := s.provider.Complete(r.Context(), msgs, llm.Options{Temperature: chatTemperature})
	if err != nil {
		writeProviderError(w, r, err, "chat failed")
		return
	}

	text := resp.Content
	if text == "" {
		text = noOutputText
	}
	if len(req.Messages) > 0 {
		writeJSON(w, http.StatusOK, rawTextResponse{Text: text, Raw: resp.Raw})
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[ChatRequest](w, r)

	msgs, echo := req.conversation()
	if len(msgs) == 0 {
		msgs = []llm.Message{{Role: "user", Content: streamGreeting}}
		echo = streamGreeting
	}

	ew, ok := newEventWriter(w)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ew.open()

	if !s.provider.Configured() {
		ew.delta(echoPrefix + echo)
		ew.done()
		return
	}

	ctx := r.Context()
	stream, err := s.provider.Stream(ctx, msgs, llm.Options{})
	if err != nil {
		slog.Error("open provider stream failed", "request_id", RequestIDFrom(ctx), "error", err)
		ew.fail(err)
		return
	}

	for d := range stream {
		if d.Err != nil {
			slog.Error("provider stream failed", "request_id", RequestIDFrom(ctx), "error", d.Err)
			ew.fail(d.Err)
			return
		}
		if d.Content == "" {
			continue
		}
		if !ew.delta(d.Content) {
			slog.Debug("client went away mid-stream", "request_id", RequestIDFrom(ctx))
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	ew.done()
}
