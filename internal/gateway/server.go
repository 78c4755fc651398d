package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/flyagain/server/internal/protocol"
)

// Config carries the knobs every gateway shares.
type Config struct {
	// Name identifies the service in logs.
	Name string
	// Addr is the host:port to listen on.
	Addr string

	// ReadTimeout is the idle watchdog, default 60s.
	ReadTimeout time.Duration
	// WriteTimeout bounds each socket write, default 5s.
	WriteTimeout time.Duration
	// SendQueueSize is the outbound frame queue per connection,
	// default 256.
	SendQueueSize int
}

// Server accepts framed TCP connections and runs each one through the
// limiter, the idle watchdog, the framer, and the router.
type Server struct {
	cfg     Config
	router  *Router
	limiter *ConnLimiter
	log     *slog.Logger

	onDisconnect func(ctx context.Context, c *Conn)

	listener net.Listener
	mu       sync.Mutex
}

// NewServer builds a gateway server. limiter may be nil when the
// service does not cap connections.
func NewServer(cfg Config, router *Router, limiter *ConnLimiter, log *slog.Logger) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return &Server{
		cfg:     cfg,
		router:  router,
		limiter: limiter,
		log:     log,
	}
}

// OnDisconnect registers a hook that runs once per connection after
// its read loop ends and before the socket closes. The world gateway
// uses it for the session flush.
func (s *Server) OnDisconnect(fn func(ctx context.Context, c *Conn)) {
	s.onDisconnect = fn
}

// Addr returns the address the server is listening on, or nil before
// Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close closes the listener and stops the server.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from a ready listener. Split from Run so
// tests can dial an ephemeral port.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Go(func() {
		s.log.Info("gateway listening", "service", s.cfg.Name, "address", ln.Addr())
		acceptLoop(ctx, &wg, s, ln)
	})

	wg.Wait()
	return nil
}

func acceptLoop(
	ctx context.Context,
	wg *sync.WaitGroup,
	srv *Server,
	ln net.Listener,
) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return
				}
				srv.log.Error("accept failed", "service", srv.cfg.Name, "error", err)
				continue
			}

			if tcpConn, ok := conn.(*net.TCPConn); ok {
				if err := tcpConn.SetKeepAlive(true); err != nil {
					srv.log.Warn("set keepalive failed", "error", err)
				}
				if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
					srv.log.Warn("set keepalive period failed", "error", err)
				}
			}

			wg.Go(func() {
				handleConnection(ctx, srv, conn)
			})
		}
	}
}

func handleConnection(ctx context.Context, srv *Server, nc net.Conn) {
	defer nc.Close()

	host, _, err := net.SplitHostPort(nc.RemoteAddr().String())
	if err != nil {
		srv.log.Error("failed to split host port", "connection", nc.RemoteAddr(), "error", err)
		return
	}

	// Over-cap connections are accepted then immediately closed, so
	// the kernel backlog never fills with them.
	if srv.limiter != nil {
		if !srv.limiter.Acquire(host) {
			srv.log.Warn("connection limit reached, dropping",
				"service", srv.cfg.Name,
				"remote", host)
			return
		}
		defer srv.limiter.Release(host)
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := NewConn(nc, srv.log, srv.cfg.SendQueueSize, srv.cfg.WriteTimeout)
	defer c.Close()

	// Closing the socket is the only way to unblock a pending read,
	// whether the shutdown came from ctx or from the write side.
	go func() {
		select {
		case <-connCtx.Done():
		case <-c.Done():
		}
		nc.Close()
	}()

	if srv.onDisconnect != nil {
		defer srv.onDisconnect(connCtx, c)
	}

	srv.log.Info("client connected", "service", srv.cfg.Name, "remote", host)

	buf := make([]byte, protocol.MaxFrameSize)
	for {
		select {
		case <-connCtx.Done():
			return
		default:
			if err := nc.SetReadDeadline(time.Now().Add(srv.cfg.ReadTimeout)); err != nil {
				return
			}

			opcode, payload, err := protocol.ReadFrame(nc, buf)
			if err != nil {
				if errors.Is(err, protocol.ErrFrameTooLarge) {
					c.SendError(opcode, protocol.CodeBadRequest, "frame too large")
					continue
				}
				logDisconnect(srv.log, srv.cfg.Name, host, err)
				return
			}

			if err := srv.router.Dispatch(connCtx, c, opcode, payload); err != nil {
				srv.log.Info("closing connection",
					"service", srv.cfg.Name,
					"remote", host,
					"opcode", protocol.OpcodeName(opcode),
					"reason", err)
				return
			}
		}
	}
}

func logDisconnect(log *slog.Logger, service, host string, err error) {
	switch {
	case errors.Is(err, io.EOF):
		log.Info("client disconnected", "service", service, "remote", host)
	case errors.Is(err, os.ErrDeadlineExceeded):
		log.Info("idle connection closed", "service", service, "remote", host)
	case errors.Is(err, net.ErrClosed):
		// Shutdown or a write-side close, already logged.
	default:
		log.Warn("read failed", "service", service, "remote", host, "error", err)
	}
}
