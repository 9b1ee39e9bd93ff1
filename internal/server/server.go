// Package server exposes the dashboard's HTTP surface: job listings backed
// by the listing controller, dashboard stats, preferences passthrough, and
// the refresh endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/miasdk/job-finder-frontend/internal/api"
	"github.com/miasdk/job-finder-frontend/internal/config"
	"github.com/miasdk/job-finder-frontend/internal/listing"
	"github.com/miasdk/job-finder-frontend/internal/refresh"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	client     api.BackendClient
	controller *listing.Controller
	refresher  *refresh.Service
	config     *config.Config
}

func New(logger *zap.Logger, cfg *config.Config, client api.BackendClient, controller *listing.Controller, refresher *refresh.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	s := &Server{
		engine:     engine,
		logger:     logger,
		client:     client,
		controller: controller,
		refresher:  refresher,
		config:     cfg,
	}

	engine.Use(s.requestLogger())
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.health)
	engine.GET("/api/jobs", s.listJobs)
	engine.GET("/api/jobs/:id", s.getJob)
	engine.GET("/api/dashboard", s.dashboard)
	engine.GET("/api/preferences", s.getPreferences)
	engine.POST("/api/preferences/update", s.updatePreferences)
	engine.POST("/api/refresh", s.triggerRefresh)
	engine.POST("/api/refresh-jobs", s.proxyRefresh)

	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)
		start := time.Now()

		c.Next()

		s.logger.Debug("handled request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
