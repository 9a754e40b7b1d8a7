// Package server wires the HTTP API: routes, middleware and lifecycle.
package server

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/config"
	"github.com/lograca/lograca/internal/handler"
	"github.com/lograca/lograca/internal/llm"
	"github.com/lograca/lograca/internal/query"
	"github.com/lograca/lograca/internal/repository"
)

// Server holds the Echo app and its dependencies.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	Logger zerolog.Logger
}

// New builds the Echo server and registers all routes. Caller must
// provide a non-nil pool.
func New(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowedOrigins,
	}))

	repo := repository.NewLogRepository(pool)
	querySvc := query.New(repo)

	logHandler := handler.NewLogHandler(querySvc, logger)
	chatHandler := handler.NewChatHandler(
		llm.New(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Model),
		logger,
	)

	api := e.Group("/api")
	api.GET("/logs", logHandler.List)
	api.GET("/logs/services", logHandler.Services)
	api.GET("/logs/:id", logHandler.Get)
	api.GET("/logs/:id/analysis", logHandler.GetAnalysis)
	api.POST("/logs", logHandler.Create)
	api.POST("/chat", chatHandler.Send)

	e.GET("/healthz", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return &Server{Echo: e, Config: cfg, Logger: logger}
}

// Start runs the HTTP server until the context is cancelled or the
// server fails. On cancel the server shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	addr := ":" + s.Config.Server.Port
	s.Logger.Info().Str("addr", addr).Msg("http server listening")
	return s.Echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
