// Package httpapi exposes the recognition engine as a small REST API.
//
// Routes:
//
//	POST /api/v1/recognize/text    {"text": "...", "method": "tesseract", ...}
//	POST /api/v1/recognize/colors  {"colors": [{"r":37,"g":211,"b":102}], ...}
//	GET  /api/v1/apps
//	GET  /api/v1/apps/:name
//	GET  /healthz
//
// Every reply except /healthz uses the Response envelope. A recognize body
// without its evidence field is rejected with 400 NO_EVIDENCE; an empty text
// or color list is valid and yields the fallback set.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/app-finder-mcp/internal/config"
	"github.com/ironsheep/app-finder-mcp/internal/engine"
	"github.com/ironsheep/app-finder-mcp/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(eng *engine.Engine, cfg config.HTTPConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware())
	router.Use(gin.Recovery())

	h := NewHandler(eng)
	router.GET("/healthz", h.Health)

	v1 := router.Group("/api/v1")
	{
		recognize := v1.Group("/recognize")
		{
			recognize.POST("/text", h.RecognizeText)
			recognize.POST("/colors", h.RecognizeColors)
		}

		apps := v1.Group("/apps")
		{
			apps.GET("", h.ListApps)
			apps.GET("/:name", h.GetApp)
		}
	}

	return router
}

// Serve runs the API on cfg.Addr until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, eng *engine.Engine, cfg config.HTTPConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(eng, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("starting HTTP API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve HTTP API: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP API: %w", err)
	}
	return <-errCh
}
