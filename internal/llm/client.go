package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weichenhsu/tutorchat/internal/config"
)

// Sampling parameters are fixed for every call; the API offers no
// per-request override.
const (
	completionTemperature = 0.5
	completionMaxTokens   = 500
	httpTimeout           = 20 * time.Second
)

// Message mirrors the chat-completions wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint with a
// fine-tuned model. One Client is shared across all requests; it holds
// no per-request state.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  httpDoer
}

func NewClient(cfg config.OpenAIConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}

	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Complete sends the ordered message list and returns the first
// candidate's text. Transport and API failures are returned as-is; no
// retry, no streaming.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := chatAPIRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", buildAPIError(response.StatusCode, respBody)
	}

	var apiResp chatAPIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if apiResp.Error != nil && apiResp.Error.Message != "" {
		return "", fmt.Errorf("completion api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return apiResp.Choices[0].Message.Content, nil
}

type chatAPIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatAPIChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatAPIResponse struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"`
	Created int64           `json:"created"`
	Choices []chatAPIChoice `json:"choices"`
	Error   *apiError       `json:"error,omitempty"`
}
