package wamp

import (
	"context"
	"net/http"

	"github.com/gammazero/nexus/v3/router"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/sirupsen/logrus"
)

// NewRouter creates a nexus router with a single realm open to anonymous
// clients.
func NewRouter(realm string, logger *logrus.Entry) (router.Router, error) {
	routerConfig := &router.Config{
		RealmConfigs: []*router.RealmConfig{
			&router.RealmConfig{
				URI:           wamp.URI(realm),
				AnonymousAuth: true,
			},
		},
	}
	return router.NewRouter(routerConfig, logger)
}

// Server exposes a router over plain websockets.
type Server struct {
	address    string
	router     router.Router
	httpServer *http.Server
	logger     *logrus.Entry
}

// NewServer instantiates a Server which can be run at the given address.
func NewServer(address string, realm string, logger *logrus.Entry) (*Server, error) {
	nxr, err := NewRouter(realm, logger)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Handler: router.NewWebsocketServer(nxr),
		Addr:    address,
	}

	return &Server{
		address:    address,
		router:     nxr,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Run blocks until the server is shut down.
func (s *Server) Run() error {
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("Run")
		return err
	}
	return nil
}

// Shutdown stops the websocket server, and the router.
func (s *Server) Shutdown() {
	defer s.router.Close()

	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		s.logger.WithError(err).Error("Shutting down http server")
	}
}

// Router returns the underlying router, for in-process clients.
func (s *Server) Router() router.Router {
	return s.router
}

// Addr returns the address of the server
func (s *Server) Addr() string {
	return s.address
}
