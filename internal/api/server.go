package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/terminal"
)

// TerminalService is the terminal pipeline surface the handlers depend on.
// It is an alias to terminal.Service so tests can swap in fakes.
type TerminalService = terminal.Service

// Router groups the route namespaces of the service.
type Router struct {
	Routes        []*echo.Route
	Root          *echo.Group
	Management    *echo.Group
	APIV1Terminal *echo.Group
}

// Server is the central struct keeping all the dependencies. Echo and Router
// are initialized by router.Init; Terminal is wired by NewServer (or swapped
// by tests).
type Server struct {
	Echo     *echo.Echo
	Router   *Router
	Config   config.Server
	Terminal TerminalService
	// TerminalInitError keeps the identity resolution failure (if any) so
	// handlers can fold it into their failure results instead of raising.
	TerminalInitError error
}

// NewServer assembles an uninitialized server; call router.Init afterwards.
// The terminal service is only constructed when the agent identity resolves;
// a server without an identity still serves probes, and the terminal
// endpoints report the configuration failure per request.
func NewServer(cfg config.Server) *Server {
	s := &Server{
		Config: cfg,
	}

	service, err := terminal.NewService(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Agent identity not resolvable, terminal endpoints will report config failures")
		s.TerminalInitError = err
	} else {
		s.Terminal = service
	}

	return s
}

// Ready reports whether all required components are initialized.
func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil && s.Terminal != nil
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	if s.Echo == nil {
		return errors.New("server is not initialized")
	}

	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	if s.Echo != nil {
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	return nil
}
