// Package server provides the HTTP server of modelcheck.
//
// The server uses the Gin web framework. It hosts the editor statics, so
// the browser suite needs nothing else running, and exposes the run journal
// API under /api/v1.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                      HTTP Server :8000                        │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request logging, "http" logger)         │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery with stack)     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /api/v1/*     → handlers registered via callback             │
//	│  /api/*        → 404 JSON error (unknown route)               │
//	│  /any/path     → StaticsFolder/any/path                       │
//	│                  (indexTests.html, js/, styles/, ...)         │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
//   - dev: gin debug mode
//   - prod: gin release mode
//
// Without a StaticsFolder every non-API path is a 404.
//
// # Usage Example
//
//	srv, err := server.NewServer(cfg.Server, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Blocks until ctx ends, then shuts down gracefully
//	err = srv.Start(ctx)
package server
