// Package rest exposes the shopkeeper services as a JSON HTTP API built on gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/gin-gonic/gin"
)

// Services bundles the dependencies the handlers call into.
type Services struct {
	Users     UserService
	Inventory InventoryService
	Orders    OrderService
	Products  ProductService
	DB        Pinger
}

type Server struct {
	address          string
	logger           logging.Logger
	services         Services
	jwtSecret        []byte
	protectResources bool
	shutdownTimeout  time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, svc Services) *Server {
	return &Server{
		address:          cfg.EndpointAddrHTTP,
		logger:           l.With("module", "http_server"),
		services:         svc,
		jwtSecret:        []byte(cfg.SecretKey),
		protectResources: cfg.ProtectResources,
		shutdownTimeout:  cfg.ShutdownTimeout,
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for at most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		serveErr <- srv.Serve(listen)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// Handler builds the gin engine with all routes and middleware attached.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger))
	s.routes(r)
	return r
}
