package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pmezzich/MezzAI-Backend/pkg/llm"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client implements the llm.Provider interface for OpenAI-compatible APIs.
type Client struct {
	config     *llm.Config
	httpClient *http.Client
	// streamClient has no overall timeout; streams end with the provider or the caller's context.
	streamClient *http.Client
}

// New creates a new OpenAI-compatible client with the given configuration.
func New(config *llm.Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		streamClient: &http.Client{},
	}
}

// chatRequest is the OpenAI chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// chatResponse is the OpenAI chat completions response body.
type chatResponse struct {
	Choices []choice      `json:"choices"`
	Usage   responseUsage `json:"usage"`
}

type choice struct {
	Message responseMessage `json:"message"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// streamChunk is one `data:` event of a streamed completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorResponse struct {
	Error *errorBody `json:"error"`
}

// Configured reports true: a Client is only built when an API key is present.
func (c *Client) Configured() bool { return true }

// Complete sends a chat completion request and returns the full response.
func (c *Client) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.Response, error) {
	req, err := c.newRequest(ctx, messages, opts, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, llm.NewTransportError(fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewTransportError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, llm.NewTransportError(fmt.Errorf("parsing response: %w", err))
	}

	out := &llm.Response{
		Raw: json.RawMessage(respBody),
		Usage: llm.Usage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:  chatResp.Usage.TotalTokens,
		},
	}
	if len(chatResp.Choices) > 0 {
		out.Content = chatResp.Choices[0].Message.Content
	}
	return out, nil
}

// Stream sends a streaming chat completion request and returns a channel of
// incremental deltas read from the provider's event stream. The channel is
// closed after `data: [DONE]`, at EOF, after an error delta, or once ctx is done.
func (c *Client) Stream(ctx context.Context, messages []llm.Message, opts llm.Options) (<-chan llm.Delta, error) {
	req, err := c.newRequest(ctx, messages, opts, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, llm.NewTransportError(fmt.Errorf("sending request: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, apiError(resp.StatusCode, body)
	}

	ch := make(chan llm.Delta, 16)

	go func() {
		defer close(ch)
		defer resp.Body.Close()

		send := func(d llm.Delta) bool {
			select {
			case ch <- d:
				return true
			case <-ctx.Done():
				return false
			}
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue // Skip malformed lines
			}
			if chunk.Error != nil {
				send(llm.Delta{Err: &llm.APIError{
					StatusCode: http.StatusInternalServerError,
					Message:    chunk.Error.Message,
					Detail:     json.RawMessage(data),
				}})
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if !send(llm.Delta{Content: chunk.Choices[0].Delta.Content}) {
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			send(llm.Delta{Err: llm.NewTransportError(fmt.Errorf("reading stream: %w", err))})
		}
	}()

	return ch, nil
}

func (c *Client) newRequest(ctx context.Context, messages []llm.Message, opts llm.Options, stream bool) (*http.Request, error) {
	reqBody := chatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   stream,
	}
	if opts.Model != "" {
		reqBody.Model = opts.Model
	}
	if opts.Temperature != 0 {
		temp := opts.Temperature
		reqBody.Temperature = &temp
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	return req, nil
}

// apiError builds a typed error from a non-200 provider response, preferring
// the provider's own error message.
func apiError(status int, body []byte) *llm.APIError {
	e := &llm.APIError{StatusCode: status, Message: http.StatusText(status)}
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Detail = json.RawMessage(body)
		if parsed.Error != nil && parsed.Error.Message != "" {
			e.Message = parsed.Error.Message
		}
	} else if len(body) > 0 {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}
