// Package provider defines the uniform chat contract shared by the
// generic OpenAI-compatible adapter and the Google adapter.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Message is one conversation turn in the uniform shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-agnostic request produced by the API
// layer. System is kept separate because each provider folds it into
// its payload differently. Temperature and MaxTokens are nil when the
// client sent neither; an explicit zero is forwarded upstream.
type ChatRequest struct {
	Model       string
	Messages    []Message
	System      string
	Temperature *float64
	MaxTokens   *int
}

// Result is a completed upstream call. Body is already in the uniform
// response shape and can be returned to the client verbatim.
// TotalTokens and Usage carry whatever accounting the provider
// reported; both are zero values when the provider reported nothing.
type Result struct {
	StatusCode  int
	Body        []byte
	TotalTokens int64
	Usage       json.RawMessage
}

// UpstreamError reports a non-2xx upstream response whose status is
// mirrored back to the client.
type UpstreamError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// Provider adapts the uniform request to one upstream API shape.
type Provider interface {
	Complete(ctx context.Context, req ChatRequest, apiKey string) (*Result, error)
}

// Constants for provider names used in logs and metrics.
const (
	NameGeneric = "generic"
	NameGoogle  = "google"
)

// ErrorMessage extracts the nested error message from an upstream JSON
// body, falling back to a preview of the raw text.
func ErrorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return Preview(body)
}

// Preview truncates a response body for error payloads and logs.
func Preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
