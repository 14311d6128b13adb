// Package server wires the todo API, the list page and its assets into one
// HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"todo-api/api"
	"todo-api/config"
	"todo-api/logging"
	"todo-api/storage"
	"todo-api/ui"
)

// NewRouter builds the gin engine serving the API, the page and the static
// assets.
func NewRouter(table storage.Table, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	api.NewHandler(table, logger).Register(r)

	page := templ.Handler(ui.Page(ui.PageOptions{
		Title:      "todos",
		APIPath:    api.CollectionPath,
		AssetsPath: "/static",
	}))
	r.GET("/", gin.WrapH(page))
	r.StaticFS("/static", http.FS(ui.Assets()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Server hosts the router on one listener.
type Server struct {
	listener        net.Listener
	httpServer      *http.Server
	logger          *log.Logger
	shutdownTimeout time.Duration
}

// New listens on cfg.Addr and prepares the HTTP server. The table stays
// owned by the caller.
func New(cfg config.Config, table storage.Table, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.Default().ShutdownTimeout
	}
	handler := otelhttp.NewHandler(NewRouter(table, logger), "todo-api")
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: timeout,
	}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests until ctx is cancelled, then drains in-flight
// requests for up to the shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}

	s.logger.Info("listening", "addr", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
