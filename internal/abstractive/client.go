// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstractive rewrites extractive evidence into a coherent summary
// through an OpenAI-compatible chat completions API.
package abstractive

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

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Defaults applied by NewClient when the configuration leaves them unset.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTokenLimit  = 800
	DefaultTemperature = 0.3
	defaultTimeout     = 60 * time.Second
)

// ErrMissingAPIKey is returned by NewClient when no API key is configured.
var ErrMissingAPIKey = errors.New("abstractive API key is not set")

// Client calls a chat completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	tokenLimit  int
	temperature float64
	maxRetries  int
	http        *http.Client
}

// NewClient builds a Client from cfg, filling unset fields with defaults.
func NewClient(cfg types.AbstractiveConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		tokenLimit:  cfg.TokenLimit,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.tokenLimit <= 0 {
		c.tokenLimit = DefaultTokenLimit
	}
	if c.temperature <= 0 {
		c.temperature = DefaultTemperature
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.http = &http.Client{Timeout: timeout}
	return c, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a summary of evidence. model and tokenLimit
// override the client defaults when non-zero. Empty evidence returns "" and
// makes no request.
func (c *Client) Generate(ctx context.Context, evidence []types.SummaryItem, model string, tokenLimit int) (string, error) {
	formatted := FormatEvidence(evidence)
	if formatted == "" {
		return "", nil
	}
	if model == "" {
		model = c.model
	}
	if tokenLimit <= 0 {
		tokenLimit = c.tokenLimit
	}

	prompt, err := renderUserPrompt(formatted, tokenLimit)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   tokenLimit,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat completions API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completions API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat completions response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", errors.New("chat completions API returned no choices")
	}
	return strings.TrimSpace(cResp.Choices[0].Message.Content), nil
}
