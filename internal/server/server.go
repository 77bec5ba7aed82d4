// Package server exposes the verification service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/newsguard/internal/model"
	"github.com/ppiankov/newsguard/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API
type Server struct {
	svc    *service.Service
	cfg    model.ServerConfig
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the router for svc
func New(svc *service.Service, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = model.DefaultConfig().Server.MaxUploadBytes
	}

	s := &Server{svc: svc, cfg: cfg, logger: logger}

	g := gin.New()
	g.MaxMultipartMemory = cfg.MaxUploadBytes
	g.Use(requestID(), accessLog(logger), recovery(logger))
	g.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	g.GET("/healthz", s.health)
	g.GET("/capabilities", s.capabilities)
	g.GET("/history", s.history)

	g.POST("/extract", s.extractHeadlines)
	g.POST("/search", s.search)
	g.POST("/extracted_content", s.extractedContent)
	g.POST("/results", s.results)
	g.POST("/analyze_authenticity", s.analyzeAuthenticity)

	g.POST("/verify_text", s.verifyText)
	g.POST("/verify_meme", s.verifyMeme)
	g.POST("/detect_image", s.detectImage)
	g.POST("/detect_language", s.detectLanguage)
	g.POST("/translate", s.translate)

	s.engine = g
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerUserID, headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
