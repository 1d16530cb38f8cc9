package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

const (
	maxEmailRunes = 16000

	emailTemperature = 0.5

	emailInstruction = "Write a concise, professional reply (3–6 sentences). Be clear and helpful."
	emptyEmailText   = "Please paste the email content."
	emailAckText     = "Thanks for the note — I’ll take a look and get back to you shortly."
)

type emailRequest struct {
	Email textField `json:"email"`
	Body  textField `json:"body"`
}

// content returns the pasted email truncated to maxEmailRunes.
func (req emailRequest) content() string {
	text := string(req.Email)
	if text == "" {
		text = string(req.Body)
	}
	return truncate(text, maxEmailRunes)
}

var htmlTag = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/?>`)

// htmlEmail converts an email that is an HTML document or fragment to
// markdown. Text that does not open with markup is returned unchanged.
func htmlEmail(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "<") || !htmlTag.MatchString(trimmed) {
		return text
	}
	md, err := htmltomarkdown.ConvertString(trimmed)
	if err != nil {
		slog.Debug("html email conversion failed, using raw text", "error", err)
		return text
	}
	return strings.TrimSpace(md)
}

// draftReply produces the reply text for an email. It fails only when the
// provider call does.
func (s *Server) draftReply(ctx context.Context, email string) (string, error) {
	if email == "" {
		return emptyEmailText, nil
	}
	if !s.provider.Configured() {
		return emailAckText, nil
	}

	resp, err := s.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: emailInstruction},
		{Role: "user", Content: email},
	}, llm.Options{Temperature: emailTemperature})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		text = noOutputText
	}
	return text, nil
}

func (s *Server) handleEmailDraft(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[emailRequest](w, r)
	text, err := s.draftReply(r.Context(), req.content())
	if err != nil {
		writeProviderError(w, r, err, "email-draft failed")
		return
	}
	writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleEmailDraftHTML(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[emailRequest](w, r)
	text, err := s.draftReply(r.Context(), htmlEmail(req.content()))
	if err != nil {
		writeProviderError(w, r, err, "email-draft failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": text})
}
