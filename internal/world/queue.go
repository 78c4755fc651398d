package world

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/flyagain/server/internal/gateway"
)

// DefaultQueueCapacity bounds the per-world input queue.
const DefaultQueueCapacity = 50_000

// Internal control opcodes. They live above the public opcode range
// and never cross the wire; the tick loop uses them to serialize
// world entry and disconnect with ordinary input.
const (
	opcodeEnter uint16 = 0xFF01
	opcodeLeave uint16 = 0xFF02
)

// QueuedPacket is one unit of work for the tick thread. Network
// fibers and the UDP reader produce them, the tick loop consumes.
type QueuedPacket struct {
	AccountID  int64
	Opcode     uint16
	Payload    []byte
	Conn       *gateway.Conn // nil for UDP input
	ReceivedAt int64         // unix milliseconds
	Entity     *PlayerEntity // set only for opcodeEnter
}

// InputQueue is the multi-producer single-consumer feed into the tick
// loop. Gameplay input is dropped when the queue is full; control
// packets block instead because losing an enter or leave would leak
// the player registration.
type InputQueue struct {
	ch      chan QueuedPacket
	dropped atomic.Int64
	log     *slog.Logger
}

func NewInputQueue(capacity int, log *slog.Logger) *InputQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &InputQueue{ch: make(chan QueuedPacket, capacity), log: log}
}

// Enqueue offers a gameplay packet. When the queue is full the packet
// is dropped and a warning logged; the producer never blocks.
func (q *InputQueue) Enqueue(p QueuedPacket) bool {
	select {
	case q.ch <- p:
		return true
	default:
		n := q.dropped.Add(1)
		q.log.Warn("input queue full, dropping packet",
			"opcode", p.Opcode,
			"accountId", p.AccountID,
			"totalDropped", n)
		return false
	}
}

// EnqueueControl blocks until the packet is accepted or ctx ends.
func (q *InputQueue) EnqueueControl(ctx context.Context, p QueuedPacket) error {
	select {
	case q.ch <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain moves everything currently queued into buf and returns it.
// The tick loop reuses buf across ticks to avoid per-tick allocation.
func (q *InputQueue) Drain(buf []QueuedPacket) []QueuedPacket {
	buf = buf[:0]
	for {
		select {
		case p := <-q.ch:
			buf = append(buf, p)
		default:
			return buf
		}
	}
}

// Dropped returns the total number of packets dropped so far.
func (q *InputQueue) Dropped() int64 { return q.dropped.Load() }

// Len returns the number of packets currently queued.
func (q *InputQueue) Len() int { return len(q.ch) }
