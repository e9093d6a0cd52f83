// Package tcp implements the mail server's connection multiplexer and
// protocol dispatcher.
//
// The shape is an event loop: an accept goroutine and one reader goroutine
// per connection report readiness by sending events into a single channel,
// and one dispatcher goroutine consumes them. The dispatcher is the only
// goroutine that touches the session registry and the connection table, so
// there is no locking discipline beyond channel ownership, and requests from
// a single connection are processed strictly in the order sent.
package tcp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
	"github.com/dmitrijs2005/gophmail/internal/server/auth"
	"github.com/dmitrijs2005/gophmail/internal/server/delivery"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
	"github.com/dmitrijs2005/gophmail/internal/server/session"
)

type conn struct {
	id uuid.UUID
	nc net.Conn
}

// event is one readiness notification. Exactly one of the cases holds:
// connect (new connection), env (one decoded request), or err (terminal
// read failure).
type event struct {
	c       *conn
	env     *protocol.Envelope
	err     error
	connect bool
}

type Server struct {
	address     string
	idleTimeout time.Duration
	logger      logging.Logger

	auth   *auth.Service
	store  *mailbox.Store
	router *delivery.Router

	sessions *session.Registry
	conns    map[uuid.UUID]*conn
	events   chan event
}

func NewServer(address string, idleTimeout time.Duration, l logging.Logger,
	as *auth.Service, store *mailbox.Store, router *delivery.Router) *Server {
	return &Server{
		address:     address,
		idleTimeout: idleTimeout,
		logger:      l.With("module", "tcp_server"),
		auth:        as,
		store:       store,
		router:      router,
		sessions:    session.NewRegistry(),
		conns:       make(map[uuid.UUID]*conn),
		events:      make(chan event, 64),
	}
}

// Run binds the listening socket and serves until ctx is cancelled. A bind
// failure is returned immediately; per-connection failures only tear down
// the affected connection.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {

	g, ctx := errgroup.WithContext(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping mail server...")
		listen.Close()
	}()

	s.logger.Info(ctx, "Starting mail server", "address", listen.Addr().String(), "domain", s.router.Domain())

	g.Go(func() error {
		return s.acceptLoop(ctx, listen)
	})
	g.Go(func() error {
		return s.dispatchLoop(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, listen net.Listener) error {
	for {
		nc, err := listen.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		c := &conn{id: uuid.New(), nc: nc}
		if !s.emit(ctx, event{c: c, connect: true}) {
			nc.Close()
			return nil
		}
		go s.readLoop(ctx, c)
	}
}

// readLoop reads one envelope per iteration and reports it to the
// dispatcher. Any read or decode failure is terminal for the connection:
// the loop reports it and exits without sending a response.
func (s *Server) readLoop(ctx context.Context, c *conn) {
	for {
		if s.idleTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}
		env, err := protocol.ReceiveEnvelope(c.nc)
		if err != nil {
			s.emit(ctx, event{c: c, err: err})
			return
		}
		if !s.emit(ctx, event{c: c, env: env}) {
			return
		}
	}
}

// emit delivers an event to the dispatcher unless the server is shutting
// down. Reports whether the event was delivered.
func (s *Server) emit(ctx context.Context, ev event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// dispatchLoop owns all mutable connection state. Events arrive in
// per-connection FIFO order; each request envelope produces exactly one
// response frame, except BYE which closes the connection.
func (s *Server) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for _, c := range s.conns {
				c.nc.Close()
				s.sessions.Remove(c.id)
			}
			s.conns = make(map[uuid.UUID]*conn)
			return nil

		case ev := <-s.events:
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *Server) handleEvent(ctx context.Context, ev event) {
	switch {
	case ev.connect:
		s.conns[ev.c.id] = ev.c
		s.sessions.Add(ev.c.id)
		s.logger.Info(ctx, "Client connected", "conn", ev.c.id, "remote", ev.c.nc.RemoteAddr().String())

	case ev.err != nil:
		// The reader may report a failure for a connection the dispatcher
		// already tore down (BYE, shutdown). Ignore those.
		if _, ok := s.conns[ev.c.id]; !ok {
			return
		}
		s.logger.Debug(ctx, "Read failed, dropping client", "conn", ev.c.id, "error", ev.err.Error())
		s.teardown(ctx, ev.c)

	default:
		if _, ok := s.conns[ev.c.id]; !ok {
			return
		}
		if ev.env.Header == protocol.HeaderBye {
			s.teardown(ctx, ev.c)
			return
		}

		resp := s.dispatch(ctx, ev.c.id, ev.env)
		if err := protocol.SendEnvelope(ev.c.nc, resp); err != nil {
			s.logger.Debug(ctx, "Write failed, dropping client", "conn", ev.c.id, "error", err.Error())
			s.teardown(ctx, ev.c)
		}
	}
}

func (s *Server) teardown(ctx context.Context, c *conn) {
	c.nc.Close()
	delete(s.conns, c.id)
	s.sessions.Remove(c.id)
	s.logger.Info(ctx, "Client disconnected", "conn", c.id)
}
