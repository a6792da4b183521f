// Package model_caller calls OpenAI-compatible chat completion APIs.
package model_caller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrEmptyCompletion the API answered without any message content
var ErrEmptyCompletion = errors.New("empty completion")

// Message chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallOptions sampling options
type CallOptions struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// DefaultCallOptions options used for dream analysis
var DefaultCallOptions = CallOptions{
	MaxTokens:   800,
	Temperature: 0.7,
	TopP:        0.9,
}

// ModelCaller chat completion client
type ModelCaller struct {
	client  *http.Client
	apiBase string
	apiKey  string
	model   string
}

// NewModelCaller creates a chat completion client. apiBase is the URL prefix
// of /chat/completions, e.g. https://api.groq.com/openai/v1.
func NewModelCaller(apiBase, apiKey, model string, timeout time.Duration) *ModelCaller {
	return &ModelCaller{
		client: &http.Client{
			Timeout: timeout,
		},
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// Model returns the configured model id
func (mc *ModelCaller) Model() string {
	return mc.model
}

// Call sends messages and returns the content of the first choice
func (mc *ModelCaller) Call(ctx context.Context, messages []Message, options *CallOptions) (string, error) {
	if options == nil {
		options = &DefaultCallOptions
	}

	jsonBody, err := json.Marshal(map[string]interface{}{
		"model":       mc.model,
		"messages":    messages,
		"max_tokens":  options.MaxTokens,
		"temperature": options.Temperature,
		"top_p":       options.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mc.apiBase+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if mc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+mc.apiKey)
	}

	resp, err := mc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = string(body)
		}
		return "", fmt.Errorf("api error: status=%d, message=%s", resp.StatusCode, msg)
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || strings.TrimSpace(content.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(content.String()), nil
}

// CallWithConcurrencyLimit calls the model while holding a limiter slot
func (mc *ModelCaller) CallWithConcurrencyLimit(ctx context.Context, limiter *ConcurrencyLimiter, key string, messages []Message, options *CallOptions) (string, error) {
	if err := limiter.Acquire(ctx, key); err != nil {
		return "", fmt.Errorf("acquire slot: %w", err)
	}
	defer limiter.Release(ctx, key)

	return mc.Call(ctx, messages, options)
}
