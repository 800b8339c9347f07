// Package web serves the dashboard as an HTTP JSON API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/session"
	"github.com/amonks/guidex/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures NewServer.
type Options struct {
	Store   store.Store
	Insight insight.Service
	Timer   *session.Timer

	// Owner serves requests when JWTSecret is empty.
	Owner string
	Email string
	// JWTSecret enables bearer-token auth. The token's subject is the owner.
	JWTSecret string

	AllowedOrigins []string
	Categories     []goal.Category
	Settings       dashboard.Settings
	// Gatherer backs /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer
	Now      func() time.Time
	Logger   *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	opts   Options
	logger *zap.Logger
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	if opts.Insight == nil {
		opts.Insight = insight.Offline{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{opts: opts, logger: logging.OrNop(opts.Logger)}
	s.engine = s.routes()
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(recovery(s.logger))
	r.Use(requestLogger(s.logger))
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": s.opts.Now()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(s.authenticate())
	{
		api.GET("/dashboard", s.withBoard(s.getDashboard))

		api.GET("/goals", s.withBoard(s.listGoals))
		api.POST("/goals", s.withBoard(s.createGoal))
		api.GET("/goals/:id", s.withBoard(s.getGoal))
		api.PUT("/goals/:id", s.withBoard(s.updateGoal))
		api.DELETE("/goals/:id", s.withBoard(s.deleteGoal))
		api.POST("/goals/:id/tasks", s.withBoard(s.addTask))
		api.POST("/goals/:id/tasks/:task/toggle", s.withBoard(s.toggleTask))

		api.GET("/journal", s.withBoard(s.listEntries))
		api.POST("/journal", s.withBoard(s.createEntry))
		api.GET("/journal/:id", s.withBoard(s.getEntry))
		api.PUT("/journal/:id", s.withBoard(s.updateEntry))
		api.DELETE("/journal/:id", s.withBoard(s.deleteEntry))

		api.GET("/profile", s.withBoard(s.getProfile))
		api.PUT("/profile", s.withBoard(s.updateProfile))
		api.POST("/profile/interests", s.withBoard(s.addInterest))
		api.DELETE("/profile/interests/:interest", s.withBoard(s.removeInterest))

		api.GET("/focus", s.focusStatus)
		api.POST("/focus/start", s.focusStart)
		api.POST("/focus/stop", s.focusStop)

		api.POST("/mentor/ask", s.mentorAsk)
		api.POST("/mentor/stream", s.mentorStream)
		api.POST("/mentor/speech", s.mentorSpeech)

		api.GET("/reports/stats", s.withBoard(s.reportStats))
		api.POST("/reports/generate", s.withBoard(s.generateReport))
	}
	return r
}

// withBoard opens the requesting owner's board for the handler.
func (s *Server) withBoard(fn func(*gin.Context, *dashboard.Board)) gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := dashboard.Open(c.Request.Context(), dashboard.Options{
			Store:      s.opts.Store,
			Insight:    s.opts.Insight,
			Owner:      c.GetString(ownerKey),
			Email:      s.email(c),
			Categories: s.opts.Categories,
			Settings:   s.opts.Settings,
			Now:        s.opts.Now,
			Logger:     s.logger,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		fn(c, board)
	}
}

func (s *Server) email(c *gin.Context) string {
	if c.GetString(ownerKey) == s.opts.Owner {
		return s.opts.Email
	}
	return ""
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server_stopped")
	return nil
}
