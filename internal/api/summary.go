package api

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/LDY55/llm-api-chat/internal/provider"
	"github.com/LDY55/llm-api-chat/internal/store"
)

// summarizeInstruction is the system instruction for note summaries.
const summarizeInstruction = "Summarize the note in one or two short sentences."

// summaryTimeout bounds the background call so a hung upstream cannot
// leak goroutines.
const summaryTimeout = 60 * time.Second

// scheduleSummary regenerates a note's summary in the background. The
// generic namespace is preferred, the google one is the fallback, and
// no active configuration anywhere simply means no summary.
func (s *Server) scheduleSummary(n store.Note) {
	if strings.TrimSpace(n.Content) == "" {
		return
	}
	cfg, ns, ok := s.summaryConfig()
	if !ok {
		return
	}
	go s.summarize(n, ns, cfg)
}

func (s *Server) summaryConfig() (store.APIConfig, store.Namespace, bool) {
	if cfg, ok := s.store.ActiveConfig(store.NamespaceGeneric); ok {
		return cfg, store.NamespaceGeneric, true
	}
	if cfg, ok := s.store.ActiveConfig(store.NamespaceGoogle); ok {
		return cfg, store.NamespaceGoogle, true
	}
	return store.APIConfig{}, "", false
}

// summarize runs detached from the originating request so a client
// disconnect does not abort it.
func (s *Server) summarize(n store.Note, ns store.Namespace, cfg store.APIConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	maxTokens := 120
	res, err := s.complete(ctx, ns, cfg, provider.ChatRequest{
		Model:     cfg.Model,
		Messages:  []provider.Message{{Role: "user", Content: n.Content}},
		System:    summarizeInstruction,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		s.metrics.NoteSummaries.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Int("note", n.ID).Msg("note summary failed")
		return
	}

	summary := strings.TrimSpace(gjson.GetBytes(res.Body, "choices.0.message.content").String())
	if summary == "" {
		s.metrics.NoteSummaries.WithLabelValues("empty").Inc()
		return
	}
	if s.store.SetNoteSummary(n.ID, summary) {
		s.metrics.NoteSummaries.WithLabelValues("ok").Inc()
	}
}
