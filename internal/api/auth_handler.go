package api

import "github.com/gin-gonic/gin"

// LoginHandler compares plaintext credentials against the seeded user
// and starts a session on match.
func (s *Server) LoginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": err.Error()})
		return
	}

	user := s.store.User()
	if req.Username != user.Username || req.Password != user.Password {
		c.JSON(401, gin.H{"message": "Invalid username or password"})
		return
	}

	s.sessions.Start(c, user.Username)
	c.JSON(200, gin.H{"username": user.Username})
}

// LogoutHandler destroys the current session. Always succeeds.
func (s *Server) LogoutHandler(c *gin.Context) {
	s.sessions.Destroy(c)
	c.Status(204)
}

// SessionHandler reports whether the request carries a live session.
func (s *Server) SessionHandler(c *gin.Context) {
	data, ok := s.sessions.Current(c)
	if !ok {
		c.JSON(401, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(200, gin.H{"authenticated": true, "username": data.Username})
}
