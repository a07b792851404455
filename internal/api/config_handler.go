package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/LDY55/llm-api-chat/internal/provider"
	"github.com/LDY55/llm-api-chat/internal/store"
)

type configRequest struct {
	ID       int    `json:"id"`
	Name     string `json:"name" binding:"required"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token" binding:"required"`
	Model    string `json:"model" binding:"required"`
}

// ActiveConfigHandler returns the namespace's active configuration, or
// a JSON null when none is set.
func (s *Server) ActiveConfigHandler(c *gin.Context) {
	cfg, ok := s.store.ActiveConfig(nsFromQuery(c))
	if !ok {
		c.JSON(200, nil)
		return
	}
	c.JSON(200, cfg)
}

// ListConfigsHandler returns all of a namespace's configurations plus
// the active id, null when unset.
func (s *Server) ListConfigsHandler(c *gin.Context) {
	configs, activeID := s.store.Configs(nsFromQuery(c))
	var active any
	if activeID != 0 {
		active = activeID
	}
	c.JSON(200, gin.H{"configs": configs, "activeId": active})
}

// SaveConfigHandler upserts a configuration and makes it active. The
// endpoint is only required for the generic namespace; the google one
// has a default.
func (s *Server) SaveConfigHandler(c *gin.Context) {
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	ns := nsFromQuery(c)
	if ns == store.NamespaceGeneric && strings.TrimSpace(req.Endpoint) == "" {
		c.JSON(400, gin.H{"message": "Endpoint is required"})
		return
	}
	cfg := s.store.SaveConfig(ns, store.APIConfig{
		ID:       req.ID,
		Name:     req.Name,
		Endpoint: req.Endpoint,
		Token:    req.Token,
		Model:    req.Model,
	})
	c.JSON(200, cfg)
}

// ActivateConfigHandler switches the namespace's active pointer.
func (s *Server) ActivateConfigHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	cfg, err := s.store.ActivateConfig(nsFromQuery(c), id)
	if err != nil {
		c.JSON(404, gin.H{"message": "Configuration not found"})
		return
	}
	c.JSON(200, cfg)
}

// DeleteConfigHandler removes a configuration.
func (s *Server) DeleteConfigHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	if !s.store.DeleteConfig(nsFromQuery(c), id) {
		c.JSON(404, gin.H{"message": "Configuration not found"})
		return
	}
	c.Status(204)
}

// TestConfigHandler fires a minimal request through the active
// configuration and reports the reply.
func (s *Server) TestConfigHandler(c *gin.Context) {
	ns := nsFromQuery(c)
	cfg, ok := s.store.ActiveConfig(ns)
	if !ok {
		c.JSON(400, gin.H{"message": "No active configuration"})
		return
	}

	maxTokens := 32
	res, err := s.complete(c.Request.Context(), ns, cfg, provider.ChatRequest{
		Model:     cfg.Model,
		Messages:  []provider.Message{{Role: "user", Content: "Hello"}},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		s.upstreamError(c, err)
		return
	}

	reply := gjson.GetBytes(res.Body, "choices.0.message.content").String()
	c.JSON(200, gin.H{"success": true, "reply": reply})
}
