// Package account implements the character gateway. Clients arrive with
// a token minted by the login service; every operation is gated on it.
// The service keeps no state of its own: characters live behind the data
// service and the select handoff goes through the shared store.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/rpc"
	"github.com/flyagain/server/internal/wire"
)

// msgNameRule is the single user-visible reply for every naming
// violation; the exact reason is not interesting to the client.
const msgNameRule = "Character name must be 2-16 letters or digits and start with a letter."

// DataClient is the slice of the data service the account gateway uses.
type DataClient interface {
	CreateCharacter(ctx context.Context, accountID int64, name string, classID model.ClassID) (*model.Character, error)
	GetCharacter(ctx context.Context, characterID, accountID int64) (*model.Character, error)
	DeleteCharacter(ctx context.Context, characterID, accountID int64) error
}

// CharacterCache primes the shared store for the world handoff.
type CharacterCache interface {
	PrimeCharacter(ctx context.Context, c *model.Character) error
	SetSessionCharacter(ctx context.Context, sessionID string, characterID int64) error
}

// Config carries the world endpoints advertised after a select.
type Config struct {
	WorldTCPAddr string
	WorldUDPAddr string
}

// Service handles character create, select, and delete.
type Service struct {
	cfg    Config
	log    *slog.Logger
	data   DataClient
	cache  CharacterCache
	tokens *auth.TokenManager
}

func New(cfg Config, data DataClient, cache CharacterCache, tokens *auth.TokenManager, log *slog.Logger) *Service {
	return &Service{cfg: cfg, log: log, data: data, cache: cache, tokens: tokens}
}

// Register installs the character handlers.
func (s *Service) Register(r *gateway.Router) {
	r.Handle(protocol.OpCharacterCreate, s.handleCreate)
	r.Handle(protocol.OpCharacterSelect, s.handleSelect)
	r.Handle(protocol.OpCharacterDelete, s.handleDelete)
}

// authenticate resolves the calling account. The first frame on a
// connection must carry a valid token; after that the account id is
// cached on the connection and the token field may stay empty.
// A failed check answers 401 and returns an error so the gateway
// closes the connection.
func (s *Service) authenticate(c *gateway.Conn, opcode uint16, token string) (int64, error) {
	if c.State() == gateway.StateAuthenticated {
		return c.AccountID(), nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		c.SendError(opcode, protocol.CodeUnauthorized, "Authentication required.")
		return 0, fmt.Errorf("token rejected from %s: %w", c.RemoteHost(), err)
	}
	accountID, err := claims.AccountID()
	if err != nil {
		c.SendError(opcode, protocol.CodeUnauthorized, "Authentication required.")
		return 0, fmt.Errorf("token rejected from %s: %w", c.RemoteHost(), err)
	}
	c.SetAccountID(accountID)
	c.SetSessionID(claims.SessionID)
	c.SetState(gateway.StateAuthenticated)
	return accountID, nil
}

func (s *Service) handleCreate(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.CharacterCreateRequest
	if !gateway.Decode(c, protocol.OpCharacterCreate, payload, &req) {
		return nil
	}
	accountID, err := s.authenticate(c, protocol.OpCharacterCreate, req.Token)
	if err != nil {
		return err
	}

	if err := model.ValidateCharacterName(req.Name); err != nil {
		return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Message: msgNameRule})
	}
	classID, ok := model.ParseClass(req.Class)
	if !ok {
		return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Message: "Unknown class."})
	}

	ch, err := s.data.CreateCharacter(ctx, accountID, req.Name, classID)
	switch {
	case errors.Is(err, rpc.ErrAlreadyExists):
		return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Message: "Character name is already taken."})
	case errors.Is(err, rpc.ErrCharacterLimit):
		return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Message: "Character limit reached."})
	case err != nil:
		s.log.Error("character creation failed", "account", accountID, "name", req.Name, "error", err)
		return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Message: protocol.MsgUnavailable})
	}

	s.log.Info("character created", "character", ch.ID, "name", ch.Name, "class", ch.ClassID.Label(), "account", accountID)
	return c.Send(protocol.OpCharacterCreate, &wire.CharacterCreateResponse{Ok: true, CharacterID: ch.ID})
}

func (s *Service) handleSelect(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.CharacterSelectRequest
	if !gateway.Decode(c, protocol.OpCharacterSelect, payload, &req) {
		return nil
	}
	accountID, err := s.authenticate(c, protocol.OpCharacterSelect, req.Token)
	if err != nil {
		return err
	}

	ch, err := s.data.GetCharacter(ctx, req.CharacterID, accountID)
	if err != nil {
		s.log.Error("character lookup failed", "character", req.CharacterID, "account", accountID, "error", err)
		return c.Send(protocol.OpCharacterSelect, &wire.CharacterSelectResponse{Message: protocol.MsgUnavailable})
	}
	if ch == nil {
		// Missing and foreign characters get the same generic refusal.
		c.SendError(protocol.OpCharacterSelect, protocol.CodeForbidden, "Character not available.")
		return nil
	}

	if err := s.cache.PrimeCharacter(ctx, ch); err != nil {
		s.log.Error("character cache prime failed", "character", ch.ID, "error", err)
		return c.Send(protocol.OpCharacterSelect, &wire.CharacterSelectResponse{Message: protocol.MsgUnavailable})
	}
	if err := s.cache.SetSessionCharacter(ctx, c.SessionID(), ch.ID); err != nil {
		s.log.Error("session character update failed", "session", c.SessionID(), "character", ch.ID, "error", err)
		return c.Send(protocol.OpCharacterSelect, &wire.CharacterSelectResponse{Message: protocol.MsgUnavailable})
	}
	c.SetCharacterID(ch.ID)

	s.log.Info("character selected", "character", ch.ID, "name", ch.Name, "account", accountID)
	return c.Send(protocol.OpCharacterSelect, &wire.CharacterSelectResponse{
		Ok:           true,
		Character:    wire.CharacterToState(ch),
		WorldTCPAddr: s.cfg.WorldTCPAddr,
		WorldUDPAddr: s.cfg.WorldUDPAddr,
	})
}

func (s *Service) handleDelete(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.CharacterDeleteRequest
	if !gateway.Decode(c, protocol.OpCharacterDelete, payload, &req) {
		return nil
	}
	accountID, err := s.authenticate(c, protocol.OpCharacterDelete, req.Token)
	if err != nil {
		return err
	}

	err = s.data.DeleteCharacter(ctx, req.CharacterID, accountID)
	switch {
	case errors.Is(err, rpc.ErrNotFound):
		c.SendError(protocol.OpCharacterDelete, protocol.CodeForbidden, "Character not available.")
		return nil
	case err != nil:
		s.log.Error("character deletion failed", "character", req.CharacterID, "account", accountID, "error", err)
		return c.Send(protocol.OpCharacterDelete, &wire.CharacterDeleteResponse{Message: protocol.MsgUnavailable})
	}

	s.log.Info("character deleted", "character", req.CharacterID, "account", accountID)
	return c.Send(protocol.OpCharacterDelete, &wire.CharacterDeleteResponse{Ok: true})
}
