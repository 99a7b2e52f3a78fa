package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/config"
)

const apiPrefix = "/api/v1"

type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

// NewServer builds the router: registerHandlerFn receives the /api/v1 group,
// every other path is served from cfg.StaticsFolder when it is set.
func NewServer(cfg config.Server, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(zap.L().Named("http"), time.RFC3339, true),
		ginzap.RecoveryWithZap(zap.L().Named("http"), true),
	)

	registerHandlerFn(engine.Group(apiPrefix))

	var files http.Handler
	if cfg.StaticsFolder != "" {
		info, err := os.Stat(cfg.StaticsFolder)
		if err != nil {
			return nil, fmt.Errorf("statics folder: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("statics folder %s is not a directory", cfg.StaticsFolder)
		}
		files = http.FileServer(gin.Dir(cfg.StaticsFolder, false))
	}

	engine.NoRoute(func(c *gin.Context) {
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Stop is called or ctx ends. A stopped server returns
// nil.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(shutdownCtx)
	}()

	zap.S().Named("server").Infow("listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts down gracefully, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
