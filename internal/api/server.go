// Package api serves exam generation and weight management over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/store"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server holds the HTTP routes over a store.
type Server struct {
	store  *store.Store
	log    *zap.Logger
	router *gin.Engine
}

// New creates a Server. A nil log discards output.
func New(st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{store: st, log: log}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "no such route", nil)
	})
	s.registerRoutes(router.Group("/api"))
	s.router = router
	return s
}

func (s *Server) registerRoutes(rg *gin.RouterGroup) {
	rg.POST("/exams", s.generateExam)
	rg.GET("/stats", s.stats)

	rg.GET("/weights", s.listWeights)
	rg.PUT("/weights/:char", s.putWeight)
	rg.DELETE("/weights/:char", s.removeWeight)

	rg.GET("/article-weights", s.listArticleWeights)
	rg.PUT("/article-weights/:id", s.putArticleWeight)
	rg.DELETE("/article-weights", s.clearArticleWeights)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
