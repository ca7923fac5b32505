// Package server exposes the encoder and decoder as an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reoring/jeomja/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP API.
type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	store *TableStore
	echo  *echo.Echo
}

// New wires routes and middleware. The store supplies the table set for
// every request.
func New(cfg *config.Config, log *slog.Logger, store *TableStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	s := &Server{cfg: cfg, log: log, store: store, echo: e}

	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.BodyLimit(strconv.FormatInt(cfg.Server.MaxBodyBytes, 10) + "B"))

	e.GET("/healthz", s.healthz)

	v1 := e.Group("/v1", language(cfg.Language))
	v1.POST("/encode", s.encode)
	v1.POST("/decode", s.decode)
	v1.POST("/validate", s.validate)
	v1.POST("/render", s.render)
	v1.GET("/tables", s.tables)
	v1.GET("/tables/conflicts", s.conflicts)
	v1.POST("/tables/conflicts", s.checkTables)
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- s.echo.StartServer(srv) }()
	s.log.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	return s.echo.Shutdown(sctx)
}
