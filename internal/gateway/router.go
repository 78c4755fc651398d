package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

// Handler processes one inbound frame. Returning a non-nil error
// closes the connection; a handler that wants the connection kept open
// replies with an ErrorResponse itself and returns nil.
type Handler func(ctx context.Context, c *Conn, payload []byte) error

// Router dispatches frames by opcode through a dense table. Heartbeats
// are answered here, before any per-service authentication, so every
// gateway echoes them the same way.
type Router struct {
	handlers [protocol.MaxOpcode]Handler
	now      func() time.Time
}

func NewRouter() *Router {
	return &Router{now: time.Now}
}

// Handle registers h for opcode. Routing tables are wired once at
// startup, so a duplicate registration is a programming error and
// panics.
func (r *Router) Handle(opcode uint16, h Handler) {
	if opcode >= protocol.MaxOpcode {
		panic(fmt.Sprintf("opcode 0x%04X outside handler table", opcode))
	}
	if opcode == protocol.OpHeartbeat {
		panic("heartbeat handling is built into the router")
	}
	if r.handlers[opcode] != nil {
		panic(fmt.Sprintf("duplicate handler for opcode 0x%04X", opcode))
	}
	r.handlers[opcode] = h
}

// Dispatch routes one frame. Unknown opcodes are answered with a 400
// and the connection stays open.
func (r *Router) Dispatch(ctx context.Context, c *Conn, opcode uint16, payload []byte) error {
	if opcode == protocol.OpHeartbeat {
		return r.echoHeartbeat(c, payload)
	}
	if int(opcode) < len(r.handlers) {
		if h := r.handlers[opcode]; h != nil {
			return h(ctx, c, payload)
		}
	}
	c.SendError(opcode, protocol.CodeBadRequest, "unknown opcode")
	return nil
}

// echoHeartbeat answers a heartbeat with the server's wall clock next
// to the client's own timestamp, and records the arrival on the
// connection.
func (r *Router) echoHeartbeat(c *Conn, payload []byte) error {
	var hb wire.Heartbeat
	if err := hb.Unmarshal(payload); err != nil {
		c.SendError(protocol.OpHeartbeat, protocol.CodeBadRequest, "malformed heartbeat")
		return nil
	}
	now := r.now()
	c.touchHeartbeat(now)
	return c.Send(protocol.OpHeartbeat, &wire.Heartbeat{
		ClientTime: hb.ClientTime,
		ServerTime: now.UnixMilli(),
	})
}

// Decode unmarshals payload into msg. On failure it reports a 400 to
// the client and returns false; the connection stays open.
func Decode(c *Conn, opcode uint16, payload []byte, msg wire.Message) bool {
	if err := msg.Unmarshal(payload); err != nil {
		c.SendError(opcode, protocol.CodeBadRequest, "malformed payload")
		return false
	}
	return true
}
