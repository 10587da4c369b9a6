package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/fitfriends/backend/internal/config"
)

var (
	// ErrEmptyResponse indicates the model returned no candidates or no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrRateLimited indicates the local limiter rejected the call before the
	// request left the process.
	ErrRateLimited = errors.New("model call rate limited")
)

// TextGenerator produces free-form text for a prompt. Implemented by Client;
// consumers depend on this interface so tests can substitute canned output.
type TextGenerator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Client talks to a Gemini-style generateContent REST endpoint. It is
// constructed once at process start and passed to every component that needs
// it; there is no lazily-initialized global state.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a model client from configuration. The limiter may be nil
// to disable local rate limiting.
func NewClient(cfg config.ModelConfig, limiter *rate.Limiter) *Client {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return &Client{
		endpoint:   endpoint,
		model:      cfg.Name,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
	}
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate submits a prompt and returns the first candidate's text. The call
// blocks for the duration of the upstream request; failures are returned to
// the caller unretried.
func (c *Client) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return "", ErrRateLimited
	}

	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if systemInstruction != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("model status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("model error %d: %s", out.Error.Code, out.Error.Message)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

var _ TextGenerator = (*Client)(nil)
