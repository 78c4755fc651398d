// Package gateway implements the TCP plumbing shared by the login,
// account, and world front ends: framed client connections with an
// asynchronous write pump, a connection limiter, and an opcode router
// with a built-in heartbeat echo.
package gateway

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

// ConnState tracks how far a connection has progressed through the
// gateway handshake.
type ConnState int32

const (
	StateConnected     ConnState = iota // TCP accepted, nothing proven yet
	StateAuthenticated                  // token verified, account id cached
	StateInWorld                        // world entry completed
	StateDisconnected                   // connection closed
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateInWorld:
		return "IN_WORLD"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second

	// DefaultReadTimeout is the idle watchdog: a connection that sends
	// no bytes for this long is closed.
	DefaultReadTimeout = 60 * time.Second
)

// Conn wraps one client TCP connection. Frames are read on the
// connection's handler goroutine; outbound frames go through a
// buffered queue drained by a dedicated write pump, so a slow client
// never stalls a handler or the world tick.
type Conn struct {
	conn net.Conn
	host string
	log  *slog.Logger

	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration

	// state and lastHeartbeat use atomics for lock-free reads from the
	// tick and broadcast goroutines.
	state         atomic.Int32
	lastHeartbeat atomic.Int64

	mu          sync.Mutex
	accountID   int64
	sessionID   string
	characterID int64
}

// NewConn wraps nc and starts its write pump. queueSize and
// writeTimeout fall back to defaults when zero.
func NewConn(nc net.Conn, log *slog.Logger, queueSize int, writeTimeout time.Duration) *Conn {
	if queueSize <= 0 {
		queueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	host, _, err := net.SplitHostPort(nc.RemoteAddr().String())
	if err != nil {
		host = nc.RemoteAddr().String()
	}

	c := &Conn{
		conn:         nc,
		host:         host,
		log:          log,
		sendCh:       make(chan []byte, queueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
	c.state.Store(int32(StateConnected))
	go c.writePump()
	return c
}

// RemoteHost returns the client address without the port.
func (c *Conn) RemoteHost() string { return c.host }

// State returns the connection's handshake state.
func (c *Conn) State() ConnState { return ConnState(c.state.Load()) }

// SetState advances the handshake state. It never resurrects a
// disconnected connection.
func (c *Conn) SetState(s ConnState) {
	for {
		old := c.state.Load()
		if ConnState(old) == StateDisconnected {
			return
		}
		if c.state.CompareAndSwap(old, int32(s)) {
			return
		}
	}
}

// AccountID returns the account bound to this connection, 0 before
// authentication.
func (c *Conn) AccountID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID
}

func (c *Conn) SetAccountID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountID = id
}

// SessionID returns the session bound to this connection, "" before
// authentication.
func (c *Conn) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Conn) SetSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

// CharacterID returns the character bound to this connection, 0 before
// world entry.
func (c *Conn) CharacterID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.characterID
}

func (c *Conn) SetCharacterID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.characterID = id
}

// LastHeartbeat returns when the router last saw a heartbeat frame on
// this connection, or the zero time if none arrived yet.
func (c *Conn) LastHeartbeat() time.Time {
	ms := c.lastHeartbeat.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func (c *Conn) touchHeartbeat(now time.Time) {
	c.lastHeartbeat.Store(now.UnixMilli())
}

// EncodeFrame builds a complete frame for opcode around the encoded
// msg. Broadcasts encode once and hand the same frame to many
// connections.
func EncodeFrame(opcode uint16, msg wire.Message) ([]byte, error) {
	buf := make([]byte, protocol.LengthPrefixSize+protocol.OpcodeSize, 128)
	buf = msg.AppendTo(buf)
	frameLen := len(buf) - protocol.LengthPrefixSize
	if frameLen > protocol.MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes (max %d)", frameLen, protocol.MaxFrameSize)
	}
	binary.BigEndian.PutUint32(buf[:protocol.LengthPrefixSize], uint32(frameLen))
	binary.BigEndian.PutUint16(buf[protocol.LengthPrefixSize:], opcode)
	return buf, nil
}

// Send encodes msg and queues the frame for opcode.
func (c *Conn) Send(opcode uint16, msg wire.Message) error {
	frame, err := EncodeFrame(opcode, msg)
	if err != nil {
		return err
	}
	return c.SendFrame(frame)
}

// SendFrame queues a pre-encoded frame. It never blocks: a full queue
// means the client is not draining its socket, and the connection is
// closed rather than letting it back-pressure the server.
func (c *Conn) SendFrame(frame []byte) error {
	select {
	case <-c.closeCh:
		return fmt.Errorf("send on closed connection to %s", c.host)
	default:
	}

	select {
	case c.sendCh <- frame:
		return nil
	case <-c.closeCh:
		return fmt.Errorf("send on closed connection to %s", c.host)
	default:
		c.log.Warn("send queue full, disconnecting slow client",
			"remote", c.host,
			"queue", cap(c.sendCh))
		c.CloseAsync()
		return fmt.Errorf("send queue full (%d frames) for %s", cap(c.sendCh), c.host)
	}
}

// SendError queues an ErrorResponse for the frame that failed. Best
// effort: a queue-full connection is already on its way out.
func (c *Conn) SendError(origOpcode uint16, code int32, message string) {
	frame, err := EncodeFrame(protocol.OpErrorResponse, &wire.ErrorResponse{
		OrigOpcode: int32(origOpcode),
		Code:       code,
		Message:    message,
	})
	if err != nil {
		return
	}
	_ = c.SendFrame(frame)
}

// writePump drains the send queue onto the socket. A lone frame is
// written directly; when more are already queued they are batched
// through net.Buffers so the kernel sees a single writev.
func (c *Conn) writePump() {
	bufs := make(net.Buffers, 0, 64)

	for {
		select {
		case <-c.closeCh:
			return
		case frame := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				c.CloseAsync()
				return
			}

			queued := len(c.sendCh)
			if queued == 0 {
				if _, err := c.conn.Write(frame); err != nil {
					c.log.Debug("write failed", "remote", c.host, "error", err)
					c.CloseAsync()
					return
				}
				continue
			}

			bufs = bufs[:0]
			bufs = append(bufs, frame)
			for range queued {
				bufs = append(bufs, <-c.sendCh)
			}
			if _, err := bufs.WriteTo(c.conn); err != nil {
				c.log.Debug("batched write failed", "remote", c.host, "frames", queued+1, "error", err)
				c.CloseAsync()
				return
			}
		}
	}
}

// CloseAsync marks the connection disconnected and stops the write
// pump without touching the socket. The read loop observes Done and
// performs the actual close.
func (c *Conn) CloseAsync() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateDisconnected))
		close(c.closeCh)
	})
}

// Close stops the write pump and closes the socket.
func (c *Conn) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}

// Done is closed once the connection is shut down.
func (c *Conn) Done() <-chan struct{} { return c.closeCh }
