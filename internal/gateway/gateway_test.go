package gateway

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pipeConn builds a Conn over an in-memory pipe and returns the client
// end for reading what the Conn writes.
func pipeConn(t *testing.T, queueSize int) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	c := NewConn(server, discardLogger(), queueSize, time.Second)
	t.Cleanup(func() {
		c.Close()
		client.Close()
	})
	return c, client
}

func readFrame(t *testing.T, conn net.Conn) (uint16, []byte) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, protocol.MaxFrameSize)
	opcode, payload, err := protocol.ReadFrame(conn, buf)
	require.NoError(t, err)
	out := make([]byte, len(payload))
	copy(out, payload)
	return opcode, out
}

func writeFrame(t *testing.T, conn net.Conn, opcode uint16, msg wire.Message) {
	t.Helper()
	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, protocol.WriteFrame(conn, opcode, wire.Marshal(msg)))
}

func TestEncodeFrameLayout(t *testing.T) {
	frame, err := EncodeFrame(protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 42})
	require.NoError(t, err)

	op, payload, err := protocol.ReadFrame(bytes.NewReader(frame), make([]byte, protocol.MaxFrameSize))
	require.NoError(t, err)
	assert.Equal(t, protocol.OpHeartbeat, op)

	var hb wire.Heartbeat
	require.NoError(t, hb.Unmarshal(payload))
	assert.Equal(t, int64(42), hb.ClientTime)
}

func TestConnSendWritesFrame(t *testing.T) {
	c, client := pipeConn(t, 8)

	require.NoError(t, c.Send(protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 123, ServerTime: 456}))

	op, payload := readFrame(t, client)
	assert.Equal(t, protocol.OpHeartbeat, op)

	var hb wire.Heartbeat
	require.NoError(t, hb.Unmarshal(payload))
	assert.Equal(t, int64(123), hb.ClientTime)
	assert.Equal(t, int64(456), hb.ServerTime)
}

func TestConnDrainsQueuedFramesInOrder(t *testing.T) {
	c, client := pipeConn(t, 16)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, c.Send(protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: i}))
	}

	for i := int64(1); i <= 5; i++ {
		_, payload := readFrame(t, client)
		var hb wire.Heartbeat
		require.NoError(t, hb.Unmarshal(payload))
		assert.Equal(t, i, hb.ClientTime)
	}
}

func TestConnQueueFullDisconnects(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	// Nobody reads the client end, so the pump jams on its first
	// write and the queue backs up.
	c := NewConn(server, discardLogger(), 2, 100*time.Millisecond)
	defer c.Close()

	var sendErr error
	for i := 0; i < 4; i++ {
		if err := c.Send(protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: int64(i)}); err != nil {
			sendErr = err
			break
		}
	}

	require.Error(t, sendErr, "a jammed connection must reject sends")
	assert.Equal(t, StateDisconnected, c.State())

	err := c.Send(protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 99})
	require.ErrorContains(t, err, "closed connection")
}

func TestConnStateNeverLeavesDisconnected(t *testing.T) {
	c, _ := pipeConn(t, 4)

	assert.Equal(t, StateConnected, c.State())
	c.SetState(StateAuthenticated)
	assert.Equal(t, StateAuthenticated, c.State())

	c.CloseAsync()
	c.SetState(StateInWorld)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestConnSessionFields(t *testing.T) {
	c, _ := pipeConn(t, 4)

	c.SetAccountID(77)
	c.SetSessionID("AbCdEfGhIjK")
	c.SetCharacterID(12)

	assert.Equal(t, int64(77), c.AccountID())
	assert.Equal(t, "AbCdEfGhIjK", c.SessionID())
	assert.Equal(t, int64(12), c.CharacterID())
}

func TestConnLimiterPerHost(t *testing.T) {
	l := NewConnLimiter(0, 2)

	require.True(t, l.Acquire("10.0.0.1"))
	require.True(t, l.Acquire("10.0.0.1"))
	assert.False(t, l.Acquire("10.0.0.1"), "third connection from the same host")
	assert.True(t, l.Acquire("10.0.0.2"), "other hosts are unaffected")

	l.Release("10.0.0.1")
	assert.True(t, l.Acquire("10.0.0.1"), "released slot is reusable")
}

func TestConnLimiterTotal(t *testing.T) {
	l := NewConnLimiter(2, 0)

	require.True(t, l.Acquire("10.0.0.1"))
	require.True(t, l.Acquire("10.0.0.2"))
	assert.False(t, l.Acquire("10.0.0.3"))
	assert.Equal(t, int64(2), l.Total())

	l.Release("10.0.0.1")
	assert.True(t, l.Acquire("10.0.0.3"))
}

func TestRouterHeartbeatEcho(t *testing.T) {
	fixed := time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
	r := NewRouter()
	r.now = func() time.Time { return fixed }

	c, client := pipeConn(t, 4)

	payload := wire.Marshal(&wire.Heartbeat{ClientTime: 1700000000123})
	require.NoError(t, r.Dispatch(context.Background(), c, protocol.OpHeartbeat, payload))

	op, reply := readFrame(t, client)
	assert.Equal(t, protocol.OpHeartbeat, op)

	var hb wire.Heartbeat
	require.NoError(t, hb.Unmarshal(reply))
	assert.Equal(t, int64(1700000000123), hb.ClientTime)
	assert.Equal(t, fixed.UnixMilli(), hb.ServerTime)
	assert.Equal(t, fixed.UnixMilli(), c.LastHeartbeat().UnixMilli())
}

func TestRouterUnknownOpcodeKeepsConnOpen(t *testing.T) {
	r := NewRouter()
	r.Handle(protocol.OpSelectTarget, func(ctx context.Context, c *Conn, payload []byte) error {
		return c.Send(protocol.OpSelectTarget, &wire.SelectTarget{TargetEntityID: 7})
	})

	c, client := pipeConn(t, 4)
	ctx := context.Background()

	require.NoError(t, r.Dispatch(ctx, c, 0x0666, nil))
	op, payload := readFrame(t, client)
	assert.Equal(t, protocol.OpErrorResponse, op)

	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, int32(0x0666), er.OrigOpcode)
	assert.Equal(t, protocol.CodeBadRequest, er.Code)

	// The connection still dispatches registered opcodes.
	require.NoError(t, r.Dispatch(ctx, c, protocol.OpSelectTarget, nil))
	op, _ = readFrame(t, client)
	assert.Equal(t, protocol.OpSelectTarget, op)
}

func TestRouterRegistrationPanics(t *testing.T) {
	r := NewRouter()
	h := func(ctx context.Context, c *Conn, payload []byte) error { return nil }

	r.Handle(protocol.OpChatMessage, h)
	assert.Panics(t, func() { r.Handle(protocol.OpChatMessage, h) })
	assert.Panics(t, func() { r.Handle(protocol.OpHeartbeat, h) })
	assert.Panics(t, func() { r.Handle(protocol.MaxOpcode, h) })
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	c, client := pipeConn(t, 4)

	var st wire.SelectTarget
	ok := Decode(c, protocol.OpSelectTarget, []byte{0xFF, 0xFF, 0xFF}, &st)
	assert.False(t, ok)

	op, payload := readFrame(t, client)
	assert.Equal(t, protocol.OpErrorResponse, op)

	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, protocol.CodeBadRequest, er.Code)
	assert.Equal(t, int32(protocol.OpSelectTarget), er.OrigOpcode)
}

// startGateway serves a router on an ephemeral port and returns its
// address.
func startGateway(t *testing.T, cfg Config, r *Router, limiter *ConnLimiter) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(cfg, r, limiter, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("gateway did not stop")
		}
	})

	return ln.Addr().String()
}

func dialGateway(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeDispatchesFrames(t *testing.T) {
	r := NewRouter()
	r.Handle(protocol.OpSelectTarget, func(ctx context.Context, c *Conn, payload []byte) error {
		var st wire.SelectTarget
		if !Decode(c, protocol.OpSelectTarget, payload, &st) {
			return nil
		}
		return c.Send(protocol.OpSelectTarget, &wire.SelectTarget{TargetEntityID: st.TargetEntityID * 2})
	})

	addr := startGateway(t, Config{Name: "test"}, r, nil)
	conn := dialGateway(t, addr)

	writeFrame(t, conn, protocol.OpSelectTarget, &wire.SelectTarget{TargetEntityID: 21})
	op, payload := readFrame(t, conn)
	require.Equal(t, protocol.OpSelectTarget, op)

	var st wire.SelectTarget
	require.NoError(t, st.Unmarshal(payload))
	assert.Equal(t, int64(42), st.TargetEntityID)

	// Heartbeats are answered without any handler registered.
	writeFrame(t, conn, protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 5})
	op, payload = readFrame(t, conn)
	require.Equal(t, protocol.OpHeartbeat, op)

	var hb wire.Heartbeat
	require.NoError(t, hb.Unmarshal(payload))
	assert.Equal(t, int64(5), hb.ClientTime)
	assert.NotZero(t, hb.ServerTime)
}

func TestServeClosesOverLimitConnections(t *testing.T) {
	addr := startGateway(t, Config{Name: "test"}, NewRouter(), NewConnLimiter(0, 1))

	first := dialGateway(t, addr)
	writeFrame(t, first, protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 1})
	op, _ := readFrame(t, first)
	require.Equal(t, protocol.OpHeartbeat, op)

	second := dialGateway(t, addr)
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := second.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF, "over-limit connection is closed immediately")

	// The surviving connection keeps working.
	writeFrame(t, first, protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 2})
	op, _ = readFrame(t, first)
	assert.Equal(t, protocol.OpHeartbeat, op)
}

func TestServeIdleWatchdog(t *testing.T) {
	addr := startGateway(t, Config{Name: "test", ReadTimeout: 100 * time.Millisecond}, NewRouter(), nil)

	conn := dialGateway(t, addr)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF, "idle connection is closed by the watchdog")
}

func TestServeOversizedFrameKeepsConnOpen(t *testing.T) {
	addr := startGateway(t, Config{Name: "test"}, NewRouter(), nil)
	conn := dialGateway(t, addr)

	// Length prefix one past the cap, then the full oversized body.
	oversized := make([]byte, protocol.LengthPrefixSize+protocol.MaxFrameSize+1)
	oversized[0] = 0x00
	oversized[1] = 0x01
	oversized[2] = 0x00
	oversized[3] = 0x01 // 0x00010001 = 65537
	oversized[4] = 0x07
	oversized[5] = 0x01 // opcode 0x0701
	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Write(oversized)
	require.NoError(t, err)

	op, payload := readFrame(t, conn)
	require.Equal(t, protocol.OpErrorResponse, op)

	var er wire.ErrorResponse
	require.NoError(t, er.Unmarshal(payload))
	assert.Equal(t, int32(protocol.OpZoneData), er.OrigOpcode)
	assert.Equal(t, protocol.CodeBadRequest, er.Code)

	writeFrame(t, conn, protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 9})
	op, _ = readFrame(t, conn)
	assert.Equal(t, protocol.OpHeartbeat, op)
}

func TestServeRunsDisconnectHook(t *testing.T) {
	r := NewRouter()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(Config{Name: "test"}, r, nil, discardLogger())
	gone := make(chan int64, 1)
	srv.OnDisconnect(func(ctx context.Context, c *Conn) {
		gone <- c.AccountID()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Serve(ctx, ln) }()

	r.Handle(protocol.OpSelectTarget, func(ctx context.Context, c *Conn, payload []byte) error {
		c.SetAccountID(31337)
		return nil
	})

	conn := dialGateway(t, ln.Addr().String())
	writeFrame(t, conn, protocol.OpSelectTarget, &wire.SelectTarget{TargetEntityID: 1})
	writeFrame(t, conn, protocol.OpHeartbeat, &wire.Heartbeat{ClientTime: 1})
	_, _ = readFrame(t, conn) // heartbeat echo proves both frames were handled
	require.NoError(t, conn.Close())

	select {
	case id := <-gone:
		assert.Equal(t, int64(31337), id)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect hook did not run")
	}
}
