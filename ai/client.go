// Package ai provides a retryable OpenAI-compatible client for embeddings
// and chat completions, and the enrichment/embedding batch drivers the
// orchestrator calls during the optional phases of a chunking job.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/use-agent/ragforge/fetcher"
	"github.com/use-agent/ragforge/metrics"
	"github.com/use-agent/ragforge/models"
)

// Client is a lightweight OpenAI-compatible API client for embeddings and
// chat completions. No third-party SDK is used — both endpoints are a
// single JSON-in/JSON-out POST.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
}

// Params configures a Client instance (BYOK: bring your own key).
type Params struct {
	APIKey     string
	BaseURL    string // e.g. "https://api.openai.com/v1"
	HTTPClient *http.Client
}

func NewClient(p Params) *Client {
	hc := p.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(p.BaseURL, "/"),
		apiKey:     p.APIKey,
		maxRetries: 3,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Chat sends one chat-completion request and returns the raw assistant
// message content (expected to be a JSON object per response_format).
func (c *Client) Chat(ctx context.Context, model, systemPrompt, userContent string) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var raw []byte
	err = c.doRetrying(ctx, "/chat/completions", body, &raw)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", models.NewPipelineError("enrichment", models.ErrCodeLLMFailure, "failed to parse chat response", err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewPipelineError("enrichment", models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}
	content := resp.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return "", models.NewPipelineError("enrichment", models.ErrCodeLLMFailure, "LLM returned invalid JSON", nil)
	}
	return content, nil
}

// Embed requests embeddings for a batch of texts, returning one vector per
// input in the same order.
func (c *Client) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	reqBody := embedRequest{Model: model, Input: texts}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := c.doRetrying(ctx, "/embeddings", body, &raw); err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, models.NewPipelineError("embeddings", models.ErrCodeLLMFailure, "failed to parse embeddings response", err)
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out, nil
}

// doRetrying performs the POST with exponential backoff starting at 1s for
// up to three attempts, honoring Retry-After on 429 and aborting immediately
// on 401 (auth failures never benefit from a retry).
func (c *Client) doRetrying(ctx context.Context, path string, body []byte, out *[]byte) error {
	endpoint := c.baseURL + path
	backoff := time.Second

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = models.NewPipelineError("ai", models.ErrCodeLLMFailure, "request failed", err)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = models.NewPipelineError("ai", models.ErrCodeLLMFailure, "failed to read response", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			metrics.AIRequestsTotal.WithLabelValues(path, "success").Inc()
			*out = respBody
			return nil
		}

		classified := classifyError(resp.StatusCode, respBody)
		metrics.AIRequestsTotal.WithLabelValues(path, classified.Code).Inc()
		if classified.Code == models.ErrCodeLLMAuthFailure {
			return classified
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if ra := fetcher.RetryAfterSeconds(resp.Header.Get("Retry-After")); ra > 0 {
				backoff = time.Duration(ra) * time.Second
			}
		}
		lastErr = classified
	}
	return lastErr
}

func classifyError(statusCode int, body []byte) *models.PipelineError {
	var errResp apiErrorResponse
	msg := "AI API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewPipelineError("ai", models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewPipelineError("ai", models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewPipelineError("ai", models.ErrCodeLLMFailure, fmt.Sprintf("AI API returned %d: %s", statusCode, msg), nil)
	}
}
