package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"meetspot/core/cache"
	"meetspot/core/config"
	"meetspot/core/database"
	"meetspot/core/logger"
	"meetspot/core/middleware"
	"meetspot/modules/event"
	"meetspot/modules/recommend"
	"meetspot/modules/vote"

	"github.com/labstack/echo/v4"
)

// Run boots the service: config, logger, database, cache, HTTP.
// Blocks until SIGINT/SIGTERM, then shuts down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment == "development")
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		// The cache only memoizes reads; run without it rather than
		// refusing to start.
		logger.Warn("Redis unavailable, running without cache", "error", err)
		c = cache.NewNoop()
	}
	defer c.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	mw := middleware.NewMiddleware()
	e.Use(mw.RequestID(), mw.RequestLogger(), mw.Recover(), mw.CORS())

	e.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/api/v1")

	recommendSvc := recommend.Init(g, db, c, mw)
	event.Init(g, db, c, mw, recommendSvc)
	vote.Init(g, db, c, mw)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
