package api

import "github.com/gin-gonic/gin"

type messageRequest struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ListMessagesHandler returns the chat history in append order.
func (s *Server) ListMessagesHandler(c *gin.Context) {
	c.JSON(200, s.store.Messages())
}

// CreateMessageHandler appends one turn to the history.
func (s *Server) CreateMessageHandler(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}
	c.JSON(201, s.store.AppendMessage(req.Role, req.Content))
}

// ClearMessagesHandler wipes the whole history. There is no per-id
// delete.
func (s *Server) ClearMessagesHandler(c *gin.Context) {
	s.store.ClearMessages()
	c.Status(204)
}
