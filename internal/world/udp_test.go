package world

import (
	"encoding/binary"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

const udpTestSecret = "dGVzdC11ZHAtc2VjcmV0"

func testUDPGateway(clock *manualClock, floodLimit int, resolve SessionResolver) (*UDPGateway, *InputQueue) {
	queue := NewInputQueue(64, discardLogger())
	g := NewUDPGateway("127.0.0.1:0", floodLimit, queue, resolve, clock.Now, discardLogger())
	return g, queue
}

// buildUDPFrame assembles a signed datagram the way the client does.
func buildUDPFrame(secret string, token, seq uint64, opcode uint16, payload []byte) []byte {
	b := make([]byte, 0, udpHeaderSize+len(payload)+auth.HMACSize)
	b = binary.BigEndian.AppendUint64(b, token)
	b = binary.BigEndian.AppendUint64(b, seq)
	b = binary.BigEndian.AppendUint16(b, opcode)
	b = append(b, payload...)
	return append(b, auth.SignUDP(secret, b)...)
}

func udpSender(addr string) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr(addr), 40000)
}

func TestUDPAcceptsSignedMovement(t *testing.T) {
	clock := newManualClock()
	g, queue := testUDPGateway(clock, 100, nil)
	g.RegisterSession(42, udpTestSecret, 7)

	input := &wire.MovementInput{DX: 1, Moving: true}
	frame := buildUDPFrame(udpTestSecret, 42, 1, protocol.OpMovementInput, wire.Marshal(input))
	g.handlePacket(frame, udpSender("203.0.113.9"))

	require.Equal(t, 1, queue.Len())
	pkt := queue.Drain(nil)[0]
	assert.Equal(t, int64(7), pkt.AccountID)
	assert.Equal(t, protocol.OpMovementInput, pkt.Opcode)
	assert.Nil(t, pkt.Conn, "udp input carries no connection")
	assert.Equal(t, clock.Now().UnixMilli(), pkt.ReceivedAt)

	var got wire.MovementInput
	require.NoError(t, got.Unmarshal(pkt.Payload))
	assert.Equal(t, *input, got)
}

func TestUDPRejectsForgedHMAC(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)
	g.RegisterSession(42, udpTestSecret, 7)

	frame := buildUDPFrame("d3Jvbmctc2VjcmV0", 42, 1, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))

	assert.Equal(t, 0, queue.Len())
	_, authN, _ := g.Stats()
	assert.Equal(t, int64(1), authN)
}

func TestUDPRejectsTruncatedFrame(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)

	g.handlePacket(make([]byte, udpMinFrame-1), udpSender("203.0.113.9"))

	assert.Equal(t, 0, queue.Len())
	_, authN, _ := g.Stats()
	assert.Equal(t, int64(1), authN)
}

func TestUDPUnknownTokenDropped(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)

	frame := buildUDPFrame(udpTestSecret, 42, 1, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))

	assert.Equal(t, 0, queue.Len())
	_, authN, _ := g.Stats()
	assert.Equal(t, int64(1), authN)
}

func TestUDPReplayProtection(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)
	g.RegisterSession(42, udpTestSecret, 7)
	send := func(seq uint64) {
		frame := buildUDPFrame(udpTestSecret, 42, seq, protocol.OpMovementInput, nil)
		g.handlePacket(frame, udpSender("203.0.113.9"))
	}

	send(5)
	send(5) // replayed
	send(4) // late
	send(6)

	assert.Equal(t, 2, queue.Len())
	_, _, replayN := g.Stats()
	assert.Equal(t, int64(2), replayN)
}

func TestUDPFloodGateRunsBeforeAuth(t *testing.T) {
	clock := newManualClock()
	g, queue := testUDPGateway(clock, 3, nil)
	g.RegisterSession(42, udpTestSecret, 7)

	for seq := uint64(1); seq <= 5; seq++ {
		frame := buildUDPFrame(udpTestSecret, 42, seq, protocol.OpMovementInput, nil)
		g.handlePacket(frame, udpSender("203.0.113.9"))
	}

	assert.Equal(t, 3, queue.Len(), "limit is 3 per second per address")
	floodN, authN, _ := g.Stats()
	assert.Equal(t, int64(2), floodN)
	assert.Equal(t, int64(0), authN, "flooded packets never reach hmac verification")

	// A fresh second opens a new window.
	clock.Advance(time.Second)
	frame := buildUDPFrame(udpTestSecret, 42, 6, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))
	assert.Equal(t, 4, queue.Len())

	// Another address has its own window.
	frame = buildUDPFrame(udpTestSecret, 42, 7, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.10"))
	assert.Equal(t, 5, queue.Len())
}

func TestUDPResolverFallback(t *testing.T) {
	var calls atomic.Int64
	resolve := func(token uint64) (string, int64, bool) {
		calls.Add(1)
		if token != 42 {
			return "", 0, false
		}
		return udpTestSecret, 7, true
	}
	g, queue := testUDPGateway(newManualClock(), 100, resolve)

	frame := buildUDPFrame(udpTestSecret, 42, 1, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, int64(1), calls.Load())

	// The resolved session is cached; the fallback runs once.
	frame = buildUDPFrame(udpTestSecret, 42, 2, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))
	assert.Equal(t, 2, queue.Len())
	assert.Equal(t, int64(1), calls.Load())

	frame = buildUDPFrame(udpTestSecret, 99, 1, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))
	assert.Equal(t, 2, queue.Len())
	_, authN, _ := g.Stats()
	assert.Equal(t, int64(1), authN)
}

func TestUDPDropSessionInvalidatesToken(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)
	g.RegisterSession(42, udpTestSecret, 7)
	g.DropSession(42)

	frame := buildUDPFrame(udpTestSecret, 42, 1, protocol.OpMovementInput, nil)
	g.handlePacket(frame, udpSender("203.0.113.9"))

	assert.Equal(t, 0, queue.Len())
}

func TestUDPIgnoresNonMovementOpcodes(t *testing.T) {
	g, queue := testUDPGateway(newManualClock(), 100, nil)
	g.RegisterSession(42, udpTestSecret, 7)

	msg := &wire.ChatMessage{Text: "nicht hier"}
	frame := buildUDPFrame(udpTestSecret, 42, 1, protocol.OpChatMessage, wire.Marshal(msg))
	g.handlePacket(frame, udpSender("203.0.113.9"))

	assert.Equal(t, 0, queue.Len(), "chat rides the tcp session only")
	floodN, authN, replayN := g.Stats()
	assert.Zero(t, floodN)
	assert.Zero(t, authN)
	assert.Zero(t, replayN)

	// Targeting is the other opcode allowed over udp.
	st := &wire.SelectTarget{TargetEntityID: 9, AutoAttack: true}
	frame = buildUDPFrame(udpTestSecret, 42, 2, protocol.OpSelectTarget, wire.Marshal(st))
	g.handlePacket(frame, udpSender("203.0.113.9"))
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, protocol.OpSelectTarget, queue.Drain(nil)[0].Opcode)
}

func TestUDPFloodWindowReap(t *testing.T) {
	clock := newManualClock()
	g, _ := testUDPGateway(clock, 3, nil)

	g.handlePacket(make([]byte, udpMinFrame-1), udpSender("203.0.113.9"))
	g.floodMu.Lock()
	assert.Len(t, g.flood, 1)
	g.floodMu.Unlock()

	clock.Advance(2 * time.Second)
	g.reapFloodWindows()
	g.floodMu.Lock()
	assert.Empty(t, g.flood)
	g.floodMu.Unlock()
}
