package api

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/LDY55/llm-api-chat/internal/provider"
	"github.com/LDY55/llm-api-chat/internal/provider/generic"
	"github.com/LDY55/llm-api-chat/internal/provider/google"
	"github.com/LDY55/llm-api-chat/internal/requestlog"
	"github.com/LDY55/llm-api-chat/internal/store"
)

type chatRequest struct {
	Model    string             `json:"model"`
	Messages []provider.Message `json:"messages"`
	System   string             `json:"system"`
	// Pointers distinguish an explicit zero from an absent field.
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"maxTokens"`
}

// ChatHandler proxies a chat completion through the namespace's active
// configuration. The upstream response body is returned verbatim, so
// the client extracts choices[0].message.content for any provider.
func (s *Server) ChatHandler(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(400, gin.H{"message": "Messages are required"})
		return
	}

	ns := nsFromQuery(c)
	cfg, ok := s.store.ActiveConfig(ns)
	if !ok {
		c.JSON(400, gin.H{"message": "No active configuration"})
		return
	}

	model := cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	res, err := s.complete(c.Request.Context(), ns, cfg, provider.ChatRequest{
		Model:       model,
		Messages:    req.Messages,
		System:      req.System,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		s.upstreamError(c, err)
		return
	}

	c.Data(200, "application/json", res.Body)
}

// complete runs one provider call for cfg and records its outcome in
// the usage ledger, the request archive and the metrics, whichever
// handler triggered it.
func (s *Server) complete(ctx context.Context, ns store.Namespace, cfg store.APIConfig, req provider.ChatRequest) (*provider.Result, error) {
	var p provider.Provider
	name := provider.NameGeneric
	if ns == store.NamespaceGoogle {
		p = google.New(s.googleBaseURL, s.client)
		name = provider.NameGoogle
	} else {
		p = generic.New(cfg.Endpoint, s.client)
	}

	start := time.Now()
	res, err := p.Complete(ctx, req, store.FirstTokenLine(cfg.Token))

	entry := &requestlog.Entry{
		Provider:   name,
		Model:      req.Model,
		ConfigName: cfg.Name,
		DurationMs: time.Since(start).Milliseconds(),
	}
	outcome := "error"
	if err == nil {
		outcome = "ok"
		entry.Status = res.StatusCode
		entry.TotalTokens = res.TotalTokens
		entry.Usage = datatypes.JSON(res.Usage)
		s.store.RecordUsage(cfg, res.TotalTokens)
		s.metrics.ChatTokens.WithLabelValues(name).Add(float64(res.TotalTokens))
	} else {
		var ue *provider.UpstreamError
		if errors.As(err, &ue) {
			entry.Status = ue.StatusCode
		}
	}
	s.metrics.ChatRequests.WithLabelValues(name, outcome).Inc()

	if s.rlog != nil {
		// The archive write outlives a disconnecting client.
		if aerr := s.rlog.Append(context.WithoutCancel(ctx), entry); aerr != nil {
			s.log.Warn().Err(aerr).Msg("request log append failed")
		}
	}
	return res, err
}

// upstreamError maps provider failures onto the wire: known upstream
// statuses pass through, anything else becomes a 500.
func (s *Server) upstreamError(c *gin.Context, err error) {
	var ue *provider.UpstreamError
	if errors.As(err, &ue) {
		c.JSON(ue.StatusCode, gin.H{"message": ue.Message, "details": ue.Details})
		return
	}
	s.log.Error().Err(err).Msg("provider request failed")
	c.JSON(500, gin.H{"message": "Upstream request failed", "details": err.Error()})
}
