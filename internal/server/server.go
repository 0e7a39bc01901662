package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"habitdash/internal/model"
	"habitdash/internal/store"
)

// Store is the persistence the endpoint needs. *store.Store satisfies it.
type Store interface {
	ListGoals(ctx context.Context) ([]model.Goal, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	AddGoal(ctx context.Context, title, category string) (int64, error)
	AddTask(ctx context.Context, title, at string) (int64, error)
	UpdateGoal(ctx context.Context, id int64, u store.GoalUpdate) error
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error
}

const DefaultTimeout = 5 * time.Second

// Server is the single-path goals/tasks aggregation endpoint.
type Server struct {
	store   Store
	log     *slog.Logger
	timeout time.Duration
	router  *gin.Engine
}

func New(st Store, log *slog.Logger, timeout time.Duration) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	s := &Server{store: st, log: log, timeout: timeout, router: router}

	router.Use(gin.Recovery(), s.requestLog(), cors())
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.GET("/healthz", s.handleHealth)
	router.OPTIONS("/", s.handlePreflight)
	router.GET("/", s.handleGet)
	router.POST("/", s.handlePost)
	router.PUT("/", s.handlePut)

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("habitdash http server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server stopped unexpectedly", "error", err)
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-ID", reqID)

		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", reqID,
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}
