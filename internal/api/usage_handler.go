package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LDY55/llm-api-chat/internal/requestlog"
)

// UsageHandler returns the flattened usage ledger across all dates and
// configurations, newest day first.
func (s *Server) UsageHandler(c *gin.Context) {
	c.JSON(200, s.store.UsageEntries())
}

// LogsHandler returns the most recent archived provider calls.
func (s *Server) LogsHandler(c *gin.Context) {
	if s.rlog == nil {
		c.JSON(200, []requestlog.Entry{})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := s.rlog.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("request log query failed")
		c.JSON(500, gin.H{"message": "Failed to load request log"})
		return
	}
	c.JSON(200, entries)
}
