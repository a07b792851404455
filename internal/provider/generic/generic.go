// Package generic proxies chat requests to any OpenAI-compatible
// completion endpoint.
package generic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/LDY55/llm-api-chat/internal/provider"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// Client posts chat completions to a configured endpoint with bearer
// authentication. The endpoint is used exactly as configured, no path
// is appended.
type Client struct {
	Endpoint string

	http *http.Client
}

var _ provider.Provider = (*Client)(nil)

// New returns a client for endpoint. A nil httpClient falls back to a
// fresh default client.
func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		Endpoint: endpoint,
		http:     httpClient,
	}
}

// Pointer fields distinguish unset from an explicit zero: nil is
// omitted, a pointer to zero is sent.
type chatPayload struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
	MaxTokens   *int               `json:"max_tokens,omitempty"`
}

// Complete forwards the request as a single JSON POST and returns the
// provider's response body verbatim. The system instruction, when
// present, is prepended as a system-role message.
func (c *Client) Complete(ctx context.Context, req provider.ChatRequest, apiKey string) (*provider.Result, error) {
	msgs := req.Messages
	if strings.TrimSpace(req.System) != "" {
		msgs = append([]provider.Message{{Role: "system", Content: req.System}}, msgs...)
	}

	reqBody, err := json.Marshal(chatPayload{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generic: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.Endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("generic: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generic: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("generic: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    provider.ErrorMessage(body),
			Details:    provider.Preview(body),
		}
	}

	res := &provider.Result{StatusCode: resp.StatusCode, Body: body}
	if usage := gjson.GetBytes(body, "usage"); usage.Exists() {
		res.Usage = json.RawMessage(usage.Raw)
		res.TotalTokens = usage.Get("total_tokens").Int()
	}
	return res, nil
}
