package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/serenwell/backend/internal/config"
)

var (
	ErrRateLimited   = errors.New("rate limit exceeded, please try again in a moment")
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrUnavailable   = errors.New("AI service temporarily unavailable")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Client calls an OpenAI-compatible chat-completions endpoint. In mock
// mode it returns deterministic canned replies instead of going over
// the network, which keeps the app usable without an API key.
type Client struct {
	apiURL     string
	apiKey     string
	mock       bool
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	backoff := cfg.AIRetryBackoff
	if backoff == 0 {
		backoff = time.Second
	}
	return &Client{
		apiURL:     cfg.OpenAIAPIURL,
		apiKey:     cfg.OpenAIAPIKey,
		mock:       cfg.AIMockMode,
		maxRetries: cfg.AIMaxRetries,
		backoff:    backoff,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Mock reports whether the client serves canned responses.
func (c *Client) Mock() bool {
	return c.mock
}

// ChatCompletion sends the request, retrying 429 and 5xx responses with
// exponential backoff. Other 4xx responses surface immediately.
func (c *Client) ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if c.mock {
		return mockCompletion(req), nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			slog.Warn("retrying AI request", "attempt", attempt, "wait", wait.String())
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		}

		resp, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*ChatResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
		var resp ChatResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, false, fmt.Errorf("%w: malformed response", ErrUnavailable)
		}
		if len(resp.Choices) == 0 {
			return nil, false, fmt.Errorf("%w: empty response", ErrUnavailable)
		}
		return &resp, false, nil
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, true, ErrRateLimited
	case httpResp.StatusCode == http.StatusUnauthorized:
		return nil, false, ErrInvalidAPIKey
	case httpResp.StatusCode >= 500:
		return nil, true, ErrUnavailable
	default:
		return nil, false, fmt.Errorf("AI provider returned %d: %s", httpResp.StatusCode, string(respBody))
	}
}
