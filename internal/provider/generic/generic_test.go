package generic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LDY55/llm-api-chat/internal/provider"
)

func TestCompleteForwardsRequest(t *testing.T) {
	upstream := `{"id":"chatcmpl-1","choices":[{"message":{"role":"assistant","content":"hi there"}}],"usage":{"prompt_tokens":9,"completion_tokens":3,"total_tokens":12}}`

	var captured []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, upstream)
	}))
	defer ts.Close()

	temperature := 0.7
	maxTokens := 256
	c := New(ts.URL, ts.Client())
	res, err := c.Complete(context.Background(), provider.ChatRequest{
		Model:       "gpt-test",
		Messages:    []provider.Message{{Role: "user", Content: "hello"}},
		System:      "Be brief",
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}, "sk-test")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	var payload struct {
		Model       string             `json:"model"`
		Messages    []provider.Message `json:"messages"`
		Temperature float64            `json:"temperature"`
		MaxTokens   int                `json:"max_tokens"`
	}
	if err := json.Unmarshal(captured, &payload); err != nil {
		t.Fatalf("unmarshal captured payload: %v", err)
	}
	if payload.Model != "gpt-test" {
		t.Fatalf("expected model gpt-test, got %q", payload.Model)
	}
	if len(payload.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d messages", len(payload.Messages))
	}
	if payload.Messages[0].Role != "system" || payload.Messages[0].Content != "Be brief" {
		t.Fatalf("expected system message first, got %+v", payload.Messages[0])
	}
	if payload.Messages[1].Role != "user" {
		t.Fatalf("expected user message second, got %+v", payload.Messages[1])
	}
	if payload.MaxTokens != 256 {
		t.Fatalf("expected max_tokens 256, got %d", payload.MaxTokens)
	}

	if string(res.Body) != upstream {
		t.Fatalf("expected body forwarded verbatim, got %s", res.Body)
	}
	if res.TotalTokens != 12 {
		t.Fatalf("expected 12 total tokens, got %d", res.TotalTokens)
	}
	if len(res.Usage) == 0 {
		t.Fatalf("expected raw usage captured")
	}
}

func TestCompleteOmitsSystemWhenBlank(t *testing.T) {
	var captured []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	if _, err := c.Complete(context.Background(), provider.ChatRequest{
		Model:    "gpt-test",
		Messages: []provider.Message{{Role: "user", Content: "hello"}},
		System:   "   ",
	}, "sk-test"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var payload struct {
		Messages []provider.Message `json:"messages"`
	}
	if err := json.Unmarshal(captured, &payload); err != nil {
		t.Fatalf("unmarshal captured payload: %v", err)
	}
	if len(payload.Messages) != 1 {
		t.Fatalf("expected no system message for blank instruction, got %d messages", len(payload.Messages))
	}
}

func TestCompleteForwardsZeroTemperature(t *testing.T) {
	var captured []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	temperature := 0.0
	c := New(ts.URL, ts.Client())
	if _, err := c.Complete(context.Background(), provider.ChatRequest{
		Model:       "gpt-test",
		Messages:    []provider.Message{{Role: "user", Content: "hello"}},
		Temperature: &temperature,
	}, "sk-test"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var payload struct {
		Temperature *float64 `json:"temperature"`
		MaxTokens   *int     `json:"max_tokens"`
	}
	if err := json.Unmarshal(captured, &payload); err != nil {
		t.Fatalf("unmarshal captured payload: %v", err)
	}
	if payload.Temperature == nil {
		t.Fatalf("expected explicit zero temperature sent, payload was %s", captured)
	}
	if *payload.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", *payload.Temperature)
	}
	if payload.MaxTokens != nil {
		t.Fatalf("expected unset max_tokens omitted, got %d", *payload.MaxTokens)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Complete(context.Background(), provider.ChatRequest{
		Model:    "gpt-test",
		Messages: []provider.Message{{Role: "user", Content: "hello"}},
	}, "sk-test")

	var ue *provider.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", ue.StatusCode)
	}
	if ue.Message != "rate limited" {
		t.Fatalf("expected extracted message, got %q", ue.Message)
	}
}

func TestCompleteUpstreamErrorPlainText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "bad gateway")
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	_, err := c.Complete(context.Background(), provider.ChatRequest{
		Model:    "gpt-test",
		Messages: []provider.Message{{Role: "user", Content: "hello"}},
	}, "sk-test")

	var ue *provider.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Message != "bad gateway" {
		t.Fatalf("expected raw text passthrough, got %q", ue.Message)
	}
}
