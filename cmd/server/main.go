package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LDY55/llm-api-chat/internal/api"
	"github.com/LDY55/llm-api-chat/internal/config"
	"github.com/LDY55/llm-api-chat/internal/requestlog"
	"github.com/LDY55/llm-api-chat/internal/session"
	"github.com/LDY55/llm-api-chat/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg.LogLevel)
	log.Info().
		Str("addr", cfg.Addr).
		Str("data_dir", cfg.DataDir).
		Dur("session_max_age", cfg.SessionMaxAge).
		Msg("starting llm-api-chat")
	if cfg.SessionSecret == config.DefaultSessionSecret {
		log.Warn().Msg("SESSION_SECRET is not set, using the built-in default")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.DataDir, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	sessStore := session.NewStore(filepath.Join(cfg.DataDir, "sessions.json"), 200*time.Millisecond, log.Logger)
	sessions := session.NewManager(sessStore, cfg.SessionSecret, cfg.SessionMaxAge)

	rlog, err := requestlog.Open(filepath.Join(cfg.DataDir, "data", "requests.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open request log")
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	srv := api.NewServer(st, sessions, rlog, log.Logger)
	srv.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("runtime error")
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
	}
	sessStore.Flush()

	log.Info().Msg("stopped")
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLogLevel(level))
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
