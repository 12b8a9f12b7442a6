// Package server is the HTTP host: calculator sessions behind a gin
// router, one lock per session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wildfunctions/terncalc/pkg/engine"
	"github.com/wildfunctions/terncalc/pkg/logging"
)

// Server serves calculator sessions over HTTP.
type Server struct {
	eng      *engine.Engine
	cfg      engine.ServerConfig
	log      *logging.Logger
	sessions *store
	limiter  *rate.Limiter
	validate *validator.Validate
	router   *gin.Engine
}

// New builds a server for eng using eng.Config().Server.
func New(eng *engine.Engine, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	cfg := eng.Config().Server
	s := &Server{
		eng:      eng,
		cfg:      cfg,
		log:      log.With("component", "server"),
		sessions: newStore(cfg.MaxSessions, cfg.SessionTTL),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		validate: validator.New(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware("terncalc"))

	// Probes and scrapes stay outside the rate limit.
	r.GET("/healthz", s.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", s.rateLimit())
	{
		v1.POST("/sessions", s.HandleCreateSession)
		v1.GET("/sessions/:id", s.HandleGetSession)
		v1.DELETE("/sessions/:id", s.HandleDeleteSession)
		v1.POST("/sessions/:id/inputs", s.HandleInputs)
		v1.GET("/sessions/:id/enabled", s.HandleEnabled)
		v1.GET("/sessions/:id/stream", s.HandleStream)

		v1.GET("/format/:value", s.HandleFormat)
		v1.GET("/parse/:ternary", s.HandleParse)
	}
	return r
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			requestsThrottled.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

// Run listens on the configured address until ctx is cancelled, evicting
// idle sessions in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		s.evictLoop(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.sessions.closeAll()
	s.log.Info("server stopped")
	return err
}

func (s *Server) evictLoop(ctx context.Context) {
	interval := s.cfg.SessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.evict(); n > 0 {
				s.log.Info("evicted idle sessions", "count", n, "remaining", s.sessions.count())
			}
		}
	}
}
