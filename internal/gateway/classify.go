package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/pmezzich/MezzAI-Backend/internal/classify"
)

// classifyRequest accepts {text} or, from older clients, {messages} as a
// single delimited string.
type classifyRequest struct {
	Text     textField       `json:"text"`
	Messages json.RawMessage `json:"messages"`
}

func (req classifyRequest) raw() string {
	if req.Text != "" {
		return string(req.Text)
	}
	var s string
	if len(req.Messages) > 0 && json.Unmarshal(req.Messages, &s) == nil {
		return s
	}
	return ""
}

type classifyResponse struct {
	Items []classify.Item `json:"items"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[classifyRequest](w, r)
	writeJSON(w, http.StatusOK, classifyResponse{Items: classify.Classify(req.raw())})
}
