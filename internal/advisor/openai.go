package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

const (
	// completionPath locates the answer in a chat-completions response.
	completionPath = "$.choices[0].message.content"
	errorPath      = "$.error.message"
	systemPrompt   = "你是一位謹慎的顧問，回答以繁體中文為主，內容僅供參考。"
	maxRetries     = 3
)

// OpenAIConfig configures an OpenAI-compatible chat-completions backend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// HTTPClient overrides the default client; tests pass httptest clients.
	HTTPClient *http.Client
	// Backoff is the first retry delay after a 429; it doubles per attempt.
	Backoff time.Duration
}

// OpenAI talks to any server exposing POST {BaseURL}/chat/completions.
type OpenAI struct {
	cfg    OpenAIConfig
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// NewOpenAI validates cfg and returns a backend.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai: base url is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAI{cfg: cfg, client: client}, nil
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.cfg.Model }

// Generate sends one chat completion, retrying on 429 with exponential backoff.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := o.cfg.Backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		body, status, err := o.post(ctx, payload)
		if err != nil {
			return "", err
		}
		if status == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("openai: rate limited (429)")
			continue
		}
		if status != http.StatusOK {
			return "", fmt.Errorf("openai: status %d: %s", status, remoteError(body))
		}
		return extractCompletion(body)
	}
	return "", fmt.Errorf("openai: max retries exceeded: %w", lastErr)
}

func (o *OpenAI) post(ctx context.Context, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("openai: request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("openai: read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func extractCompletion(body []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("openai: parse response: %w", err)
	}
	val, err := jsonpath.Get(completionPath, doc)
	if err != nil {
		return "", fmt.Errorf("openai: no completion in response: %w", err)
	}
	if arr, ok := val.([]any); ok && len(arr) == 1 {
		val = arr[0]
	}
	text, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("openai: completion is %T, not text", val)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// remoteError pulls error.message from an error body, falling back to the
// raw body cut to limit characters.
func remoteError(body []byte) string {
	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		if msg, err := jsonpath.Get(errorPath, doc); err == nil {
			if s, ok := msg.(string); ok && s != "" {
				return s
			}
		}
	}
	const limit = 200
	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > limit {
		text = string(runes[:limit]) + "..."
	}
	return text
}
