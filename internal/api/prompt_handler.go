package api

import "github.com/gin-gonic/gin"

type promptRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ListPromptsHandler returns all prompts in creation order.
func (s *Server) ListPromptsHandler(c *gin.Context) {
	c.JSON(200, s.store.Prompts())
}

// CreatePromptHandler stores a new prompt.
func (s *Server) CreatePromptHandler(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	c.JSON(201, s.store.CreatePrompt(req.Name, req.Content))
}

// UpdatePromptHandler overwrites an existing prompt.
func (s *Server) UpdatePromptHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	p, err := s.store.UpdatePrompt(id, req.Name, req.Content)
	if err != nil {
		c.JSON(404, gin.H{"message": "Prompt not found"})
		return
	}
	c.JSON(200, p)
}

// DeletePromptHandler removes a prompt.
func (s *Server) DeletePromptHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(400, gin.H{"message": "Invalid id"})
		return
	}
	if !s.store.DeletePrompt(id) {
		c.JSON(404, gin.H{"message": "Prompt not found"})
		return
	}
	c.Status(204)
}
