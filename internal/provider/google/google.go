// Package google adapts the uniform chat shape to Google's
// generateContent API and wraps the reply back into the uniform
// choices shape, so downstream code never sees the provider format.
package google

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

// DefaultBaseURL is the public generative language REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// Client talks to the generateContent endpoint of baseURL.
type Client struct {
	BaseURL string

	http *http.Client
}

var _ provider.Provider = (*Client)(nil)

// New returns a client for baseURL, defaulting to the public endpoint.
// A nil httpClient falls back to a fresh default client.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		BaseURL: baseURL,
		http:    httpClient,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Pointer fields distinguish unset from an explicit zero: nil is
// omitted, a pointer to zero is sent.
type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata json.RawMessage `json:"usageMetadata"`
}

// uniformReply is the OpenAI-style shape handed back to clients.
type uniformReply struct {
	Choices []uniformChoice `json:"choices"`
}

type uniformChoice struct {
	Message provider.Message `json:"message"`
}

// buildContents maps uniform messages onto the provider's content list:
// assistant turns become model turns, everything else user turns. The
// system instruction is folded into the first user turn, or becomes a
// synthetic leading user turn, because this request shape has no
// independent system slot.
func buildContents(messages []provider.Message, system string) []content {
	system = strings.TrimSpace(system)
	contents := make([]content, 0, len(messages)+1)
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		text := m.Content
		if system != "" && role == "user" {
			text = system + "\n\n" + text
			system = ""
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: text}}})
	}
	if system != "" {
		contents = append([]content{{Role: "user", Parts: []part{{Text: system}}}}, contents...)
	}
	return contents
}

// Complete translates the request, calls generateContent and wraps the
// first candidate's text as a single assistant choice.
func (c *Client) Complete(ctx context.Context, req provider.ChatRequest, apiKey string) (*provider.Result, error) {
	genReq := generateRequest{Contents: buildContents(req.Messages, req.System)}
	if req.Temperature != nil || req.MaxTokens != nil {
		genReq.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	reqBody, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("google: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.BaseURL, req.Model, apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("google: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("google: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    provider.ErrorMessage(body),
			Details:    provider.Preview(body),
		}
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("google: decode response: %v, body: %s", err, provider.Preview(body))
	}

	var text strings.Builder
	if len(genResp.Candidates) > 0 {
		for _, p := range genResp.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}

	wrapped, err := json.Marshal(uniformReply{
		Choices: []uniformChoice{
			{Message: provider.Message{Role: "assistant", Content: text.String()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("google: marshal reply: %w", err)
	}

	res := &provider.Result{StatusCode: resp.StatusCode, Body: wrapped}
	if len(genResp.UsageMetadata) > 0 {
		res.Usage = genResp.UsageMetadata
		res.TotalTokens = gjson.GetBytes(genResp.UsageMetadata, "totalTokenCount").Int()
	}
	return res, nil
}
