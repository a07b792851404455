// Package api wires the storage facade, session manager and provider
// adapters into the HTTP surface.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/LDY55/llm-api-chat/internal/metrics"
	"github.com/LDY55/llm-api-chat/internal/requestlog"
	"github.com/LDY55/llm-api-chat/internal/session"
	"github.com/LDY55/llm-api-chat/internal/store"
)

// Server holds the dependencies shared by all handlers. It carries no
// request state of its own.
type Server struct {
	store    *store.Store
	sessions *session.Manager
	rlog     *requestlog.Log
	metrics  *metrics.Metrics
	log      zerolog.Logger
	client   *http.Client

	// googleBaseURL overrides the default Google endpoint, used by
	// tests. Empty means the public endpoint.
	googleBaseURL string
}

// NewServer builds a server around its injected collaborators.
func NewServer(st *store.Store, sessions *session.Manager, rlog *requestlog.Log, logger zerolog.Logger) *Server {
	return &Server{
		store:    st,
		sessions: sessions,
		rlog:     rlog,
		metrics:  metrics.Global(),
		log:      logger,
		client:   &http.Client{},
	}
}

// RegisterRoutes mounts the API, the health and metrics endpoints and
// the static frontend with its SPA fallback.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public: everything else under /api requires a session.
	r.POST("/api/login", s.LoginHandler)
	r.POST("/api/logout", s.LogoutHandler)
	r.GET("/api/session", s.SessionHandler)

	api := r.Group("/api")
	api.Use(s.SessionGate())
	{
		api.GET("/prompts", s.ListPromptsHandler)
		api.POST("/prompts", s.CreatePromptHandler)
		api.PUT("/prompts/:id", s.UpdatePromptHandler)
		api.DELETE("/prompts/:id", s.DeletePromptHandler)

		api.GET("/notes", s.ListNotesHandler)
		api.POST("/notes", s.CreateNoteHandler)
		api.GET("/notes/:id", s.GetNoteHandler)
		api.POST("/notes/:id", s.UpdateNoteHandler)
		api.DELETE("/notes/:id", s.DeleteNoteHandler)

		api.GET("/messages", s.ListMessagesHandler)
		api.POST("/messages", s.CreateMessageHandler)
		api.DELETE("/messages", s.ClearMessagesHandler)

		api.GET("/config", s.ActiveConfigHandler)
		api.POST("/config", s.SaveConfigHandler)
		api.POST("/config/test", s.TestConfigHandler)
		api.GET("/configs", s.ListConfigsHandler)
		api.POST("/configs/:id/activate", s.ActivateConfigHandler)
		api.DELETE("/configs/:id", s.DeleteConfigHandler)

		api.POST("/chat", s.ChatHandler)
		api.GET("/usage", s.UsageHandler)
		api.GET("/logs", s.LogsHandler)
	}

	// Serve frontend
	r.StaticFile("/", "./web/dist/index.html")
	r.Static("/assets", "./web/dist/assets")

	r.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{"message": "Not found"})
			return
		}
		c.File("./web/dist/index.html")
	})
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// nsFromQuery selects the configuration namespace from the google
// query flag.
func nsFromQuery(c *gin.Context) store.Namespace {
	if c.Query("google") == "true" {
		return store.NamespaceGoogle
	}
	return store.NamespaceGeneric
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
