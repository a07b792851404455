package api

import "github.com/gin-gonic/gin"

// SessionGate rejects unauthenticated access. Login, logout and the
// session check are registered outside the gated group.
func (s *Server) SessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := s.sessions.Current(c); !ok {
			c.AbortWithStatusJSON(401, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}
