package world

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/protocol"
)

// UDP frame layout:
//
//	[8 session token BE][8 sequence BE][2 opcode BE][payload][32 HMAC]
//
// The HMAC covers everything before it.
const (
	udpTokenSize  = 8
	udpSeqSize    = 8
	udpHeaderSize = udpTokenSize + udpSeqSize + protocol.OpcodeSize
	udpMinFrame   = udpHeaderSize + auth.HMACSize

	udpReadBufferSize = 1500

	// DefaultUDPFloodLimit is packets per second per sender address,
	// enforced before any crypto work.
	DefaultUDPFloodLimit = 100

	floodReapInterval = time.Minute
)

// udpSession is one authenticated UDP sender. hwm is the sequence
// high-water mark for replay protection.
type udpSession struct {
	secret    string
	accountID int64
	hwm       uint64
}

// SessionResolver recovers a session the gateway has no table entry
// for, typically by consulting the entity manager and the shared
// store. Returning ok=false drops the packet.
type SessionResolver func(token uint64) (secret string, accountID int64, ok bool)

// UDPGateway receives authenticated movement input. Packets pass the
// flood gate, then HMAC verification, then replay protection, and only
// then reach the input queue.
type UDPGateway struct {
	addr       string
	floodLimit int
	resolve    SessionResolver
	queue      *InputQueue
	now        func() time.Time
	log        *slog.Logger

	mu       sync.Mutex
	sessions map[uint64]*udpSession

	floodMu sync.Mutex
	flood   map[netip.Addr]*floodWindow

	conn atomic.Pointer[net.UDPConn]

	floodDropped  atomic.Int64
	authDropped   atomic.Int64
	replayDropped atomic.Int64
}

type floodWindow struct {
	second int64
	count  int
}

func NewUDPGateway(addr string, floodLimit int, queue *InputQueue, resolve SessionResolver, now func() time.Time, log *slog.Logger) *UDPGateway {
	if floodLimit <= 0 {
		floodLimit = DefaultUDPFloodLimit
	}
	if now == nil {
		now = time.Now
	}
	return &UDPGateway{
		addr:       addr,
		floodLimit: floodLimit,
		resolve:    resolve,
		queue:      queue,
		now:        now,
		log:        log,
		sessions:   make(map[uint64]*udpSession),
		flood:      make(map[netip.Addr]*floodWindow),
	}
}

// RegisterSession installs the HMAC secret for a session token at
// world entry.
func (g *UDPGateway) RegisterSession(token uint64, secret string, accountID int64) {
	g.mu.Lock()
	g.sessions[token] = &udpSession{secret: secret, accountID: accountID}
	g.mu.Unlock()
}

// DropSession removes a session token, typically at disconnect.
func (g *UDPGateway) DropSession(token uint64) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}

// Run listens for UDP input until ctx ends.
func (g *UDPGateway) Run(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", g.addr)
	if err != nil {
		return fmt.Errorf("resolving udp address %s: %w", g.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listening on udp %s: %w", g.addr, err)
	}
	g.conn.Store(conn)
	g.log.Info("udp gateway listening", "address", conn.LocalAddr())

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	reap := time.NewTicker(floodReapInterval)
	defer reap.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reap.C:
				g.reapFloodWindows()
			}
		}
	}()

	buf := make([]byte, udpReadBufferSize)
	for {
		n, sender, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			g.log.Warn("udp read failed", "error", err)
			continue
		}
		g.handlePacket(buf[:n], sender)
	}
}

// handlePacket validates one datagram. Every failure is a silent drop;
// an attacker learns nothing from malformed or forged input.
func (g *UDPGateway) handlePacket(b []byte, sender netip.AddrPort) {
	if !g.allowSender(sender.Addr()) {
		g.floodDropped.Add(1)
		return
	}
	if len(b) < udpMinFrame {
		g.authDropped.Add(1)
		return
	}

	token := binary.BigEndian.Uint64(b[:udpTokenSize])
	sess := g.lookupSession(token)
	if sess == nil {
		g.authDropped.Add(1)
		return
	}

	body := b[:len(b)-auth.HMACSize]
	sum := b[len(b)-auth.HMACSize:]
	if !auth.VerifyUDP(sess.secret, body, sum) {
		g.authDropped.Add(1)
		return
	}

	seq := binary.BigEndian.Uint64(b[udpTokenSize : udpTokenSize+udpSeqSize])
	if !g.advanceSequence(sess, seq) {
		g.replayDropped.Add(1)
		return
	}

	opcode := binary.BigEndian.Uint16(b[udpTokenSize+udpSeqSize : udpHeaderSize])
	switch opcode {
	case protocol.OpMovementInput, protocol.OpSelectTarget:
	default:
		// Everything else rides the TCP session.
		return
	}

	g.queue.Enqueue(QueuedPacket{
		AccountID:  sess.accountID,
		Opcode:     opcode,
		Payload:    bytes.Clone(body[udpHeaderSize:]),
		ReceivedAt: g.now().UnixMilli(),
	})
}

// allowSender is the per-address fixed-window flood gate.
func (g *UDPGateway) allowSender(addr netip.Addr) bool {
	second := g.now().Unix()
	g.floodMu.Lock()
	defer g.floodMu.Unlock()
	w, ok := g.flood[addr]
	if !ok {
		g.flood[addr] = &floodWindow{second: second, count: 1}
		return true
	}
	if w.second != second {
		w.second = second
		w.count = 1
		return true
	}
	w.count++
	return w.count <= g.floodLimit
}

func (g *UDPGateway) reapFloodWindows() {
	second := g.now().Unix()
	g.floodMu.Lock()
	defer g.floodMu.Unlock()
	for addr, w := range g.flood {
		if w.second < second {
			delete(g.flood, addr)
		}
	}
}

// lookupSession finds the session for a token, resolving through the
// fallback path when the local table has been evicted.
func (g *UDPGateway) lookupSession(token uint64) *udpSession {
	g.mu.Lock()
	sess, ok := g.sessions[token]
	g.mu.Unlock()
	if ok {
		return sess
	}
	if g.resolve == nil {
		return nil
	}
	secret, accountID, ok := g.resolve(token)
	if !ok {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if sess, ok := g.sessions[token]; ok {
		return sess
	}
	sess = &udpSession{secret: secret, accountID: accountID}
	g.sessions[token] = sess
	return sess
}

// advanceSequence enforces strictly increasing sequence numbers.
func (g *UDPGateway) advanceSequence(sess *udpSession, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= sess.hwm {
		return false
	}
	sess.hwm = seq
	return true
}

// Stats reports drop counters for the world service's tick log line.
func (g *UDPGateway) Stats() (flood, auth, replay int64) {
	return g.floodDropped.Load(), g.authDropped.Load(), g.replayDropped.Load()
}
