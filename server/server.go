// Package server serves the generated API document over HTTP and can
// rebuild it when project sources change.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/gaborage/slimgen/config"
	"github.com/gaborage/slimgen/logger"
	"github.com/gaborage/slimgen/openapi"
)

const (
	HealthPath = "/health"
	JSONPath   = "/swagger/" + openapi.JSONFile
	YAMLPath   = "/swagger/" + openapi.YAMLFile

	shutdownTimeout = 5 * time.Second
)

// Server exposes the document written under a project root.
type Server struct {
	echo *echo.Echo
	addr string
	root string
	log  logger.Logger
}

// New builds the server for cfg. cfg.Serve.Host is used as given.
func New(cfg *config.Config, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo: e,
		addr: net.JoinHostPort(cfg.Serve.Host, strconv.Itoa(cfg.Serve.Port)),
		root: cfg.Project.Root,
		log:  log,
	}

	e.Use(middleware.RequestID())
	e.Use(otelecho.Middleware(cfg.App.Name, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Path() == HealthPath
	})))
	e.Use(RequestLogger(log, HealthPath))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("stack", string(stack)).
				Msg("Panic recovered")
			return err
		},
	}))
	// Swagger UI instances on other origins fetch the document.
	e.Use(middleware.CORS())

	e.GET(HealthPath, s.health)
	e.GET(JSONPath, s.document(openapi.JSONFile))
	e.GET(YAMLPath, s.document(openapi.YAMLFile))
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.addr).Msg("Serving API document")
		errCh <- s.echo.StartServer(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("Shutting down server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// document serves a file from the output directory. The file is read on
// every request so rebuilds show up without a restart.
func (s *Server) document(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := openapi.OutputPath(s.root, name)
		if _, err := os.Stat(path); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "document not generated, run slimgen docs",
			})
		}
		return c.File(path)
	}
}
