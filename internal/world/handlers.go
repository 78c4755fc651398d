package world

import (
	"bytes"
	"context"
	"fmt"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/store"
	"github.com/flyagain/server/internal/wire"
)

// Register wires the world opcodes into the gateway router. Everything
// except EnterWorld is queued for the tick thread.
func (s *Service) Register(r *gateway.Router) {
	r.Handle(protocol.OpEnterWorld, s.handleEnterWorld)
	r.Handle(protocol.OpMovementInput, s.queueing(protocol.OpMovementInput))
	r.Handle(protocol.OpSelectTarget, s.queueing(protocol.OpSelectTarget))
	r.Handle(protocol.OpMoveItem, s.queueing(protocol.OpMoveItem))
	r.Handle(protocol.OpChatMessage, s.queueing(protocol.OpChatMessage))
	r.Handle(protocol.OpChannelSwitch, s.queueing(protocol.OpChannelSwitch))
	r.Handle(protocol.OpChannelList, s.queueing(protocol.OpChannelList))
}

// handleEnterWorld runs on the connection's goroutine. It verifies the
// token, loads the character snapshot, claims the account's world slot,
// and hands placement to the tick thread. The ZoneData reply comes from
// the tick once the player is in a channel.
func (s *Service) handleEnterWorld(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.EnterWorldRequest
	if !gateway.Decode(c, protocol.OpEnterWorld, payload, &req) {
		return nil
	}
	if c.State() == gateway.StateInWorld {
		c.SendError(protocol.OpEnterWorld, protocol.CodeBadRequest, "Already in world.")
		return nil
	}

	claims, err := s.tokens.Verify(req.Token)
	if err != nil {
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnauthorized, "Authentication required.")
		return fmt.Errorf("enter world: %w", err)
	}
	accountID, err := claims.AccountID()
	if err != nil {
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnauthorized, "Authentication required.")
		return fmt.Errorf("enter world: %w", err)
	}

	fields, err := s.sessions.ReadCharacterFields(ctx, req.CharacterID)
	if err != nil {
		s.log.Error("enter world: snapshot read failed",
			"characterId", req.CharacterID, "error", err)
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnavailable, protocol.MsgUnavailable)
		return nil
	}
	if len(fields) == 0 {
		c.SendError(protocol.OpEnterWorld, protocol.CodeBadRequest, "Select a character first.")
		return nil
	}
	snapshot := store.CharacterFromFields(req.CharacterID, fields)
	if snapshot.AccountID != accountID {
		c.SendError(protocol.OpEnterWorld, protocol.CodeForbidden, "Character not available.")
		return fmt.Errorf("enter world: character %d not owned by account %d", req.CharacterID, accountID)
	}

	secret, err := s.sessions.GetSessionSecret(ctx, claims.SessionID)
	if err != nil {
		s.log.Error("enter world: session secret read failed",
			"accountId", accountID, "error", err)
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnavailable, protocol.MsgUnavailable)
		return nil
	}
	udpToken, err := auth.SessionToken(claims.SessionID)
	if err != nil {
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnauthorized, "Authentication required.")
		return fmt.Errorf("enter world: %w", err)
	}

	nowMs := s.now().UnixMilli()
	p := &PlayerEntity{
		Character:      *snapshot,
		EntityID:       s.ids.NextPlayer(),
		SessionID:      claims.SessionID,
		UDPToken:       udpToken,
		SessionStartMs: nowMs,
		Conn:           c,
	}

	// One world slot per account. The loser of a double-entry race is
	// refused here, before it touches any channel.
	if _, loaded := s.entities.LoadOrStore(accountID, p); loaded {
		c.SendError(protocol.OpEnterWorld, protocol.CodeForbidden, "Account already in world.")
		return fmt.Errorf("enter world: account %d already in world", accountID)
	}

	s.udp.RegisterSession(udpToken, secret, accountID)
	c.SetAccountID(accountID)
	c.SetSessionID(claims.SessionID)
	c.SetCharacterID(snapshot.ID)
	c.SetState(gateway.StateInWorld)

	err = s.queue.EnqueueControl(ctx, QueuedPacket{
		AccountID:  accountID,
		Opcode:     opcodeEnter,
		Conn:       c,
		ReceivedAt: nowMs,
		Entity:     p,
	})
	if err != nil {
		s.entities.CompareAndDelete(accountID, p)
		s.udp.DropSession(udpToken)
		c.SendError(protocol.OpEnterWorld, protocol.CodeUnavailable, protocol.MsgUnavailable)
		return fmt.Errorf("enter world: %w", err)
	}
	return nil
}

// queueing builds a handler that copies the frame and feeds it to the
// tick thread. The read buffer is reused per connection, so the
// payload must be cloned before it crosses goroutines.
func (s *Service) queueing(opcode uint16) gateway.Handler {
	return func(ctx context.Context, c *gateway.Conn, payload []byte) error {
		if c.State() != gateway.StateInWorld {
			c.SendError(opcode, protocol.CodeUnauthorized, "Enter the world first.")
			return fmt.Errorf("opcode 0x%04X before world entry", opcode)
		}
		s.queue.Enqueue(QueuedPacket{
			AccountID:  c.AccountID(),
			Opcode:     opcode,
			Payload:    bytes.Clone(payload),
			Conn:       c,
			ReceivedAt: s.now().UnixMilli(),
		})
		return nil
	}
}

// OnDisconnect is installed as the gateway's disconnect hook. It runs
// on the connection's goroutine after the read loop ends, so it is
// ordered after the connection's own EnterWorld enqueue.
func (s *Service) OnDisconnect(ctx context.Context, c *gateway.Conn) {
	if c.State() != gateway.StateInWorld {
		return
	}
	err := s.queue.EnqueueControl(ctx, QueuedPacket{
		AccountID:  c.AccountID(),
		Opcode:     opcodeLeave,
		Conn:       c,
		ReceivedAt: s.now().UnixMilli(),
	})
	if err != nil {
		// Shutdown path: the tick loop is gone, the final force-flush
		// will persist whatever this connection owned.
		s.log.Debug("leave enqueue skipped", "accountId", c.AccountID(), "error", err)
	}
}
