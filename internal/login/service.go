// Package login implements the LoginService gateway: registration,
// authentication, token issuance, and session creation. It keeps no
// state of its own; accounts live behind the data service and sessions
// in the shared store.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/rpc"
	"github.com/flyagain/server/internal/store"
	"github.com/flyagain/server/internal/wire"
)

// Fixed-window rate limits per client address. Registration counts
// attempts, successful or not.
const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute

	registerRateLimit  = 3
	registerRateWindow = time.Hour
)

const msgBadCredentials = "Invalid username or password."

// DataClient is the slice of the data service the login gateway uses.
type DataClient interface {
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	CreateAccount(ctx context.Context, username, email, passwordHash string) (*model.Account, error)
	CheckBan(ctx context.Context, accountID int64) (*wire.CheckBanResponse, error)
	GetCharactersByAccount(ctx context.Context, accountID int64) ([]model.Character, error)
	UpdateLastLogin(ctx context.Context, accountID int64) error
}

// SessionStore is the slice of the shared store the login gateway uses.
type SessionStore interface {
	AllowRate(ctx context.Context, ip, action string, limit int64, window time.Duration) (bool, error)
	EvictAccountSession(ctx context.Context, accountID int64) error
	CreateSession(ctx context.Context, sess *store.Session, ttl time.Duration) error
}

// Config carries the login-specific knobs.
type Config struct {
	// AccountServiceAddr is handed to clients after login as their
	// next hop.
	AccountServiceAddr string
	// SessionTTL bounds both the stored session and the token.
	SessionTTL time.Duration
}

// Service handles login and registration frames.
type Service struct {
	cfg      Config
	log      *slog.Logger
	data     DataClient
	sessions SessionStore
	tokens   *auth.TokenManager
	hasher   *auth.Hasher
}

func New(cfg Config, data DataClient, sessions SessionStore, tokens *auth.TokenManager, hasher *auth.Hasher, log *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = store.DefaultSessionTTL
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		data:     data,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// Register wires the service's opcodes into the gateway router.
func (s *Service) Register(r *gateway.Router) {
	r.Handle(protocol.OpLoginRequest, s.handleLogin)
	r.Handle(protocol.OpRegisterRequest, s.handleRegister)
}

func (s *Service) handleRegister(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.RegisterRequest
	if !gateway.Decode(c, protocol.OpRegisterRequest, payload, &req) {
		return nil
	}

	allowed, err := s.sessions.AllowRate(ctx, c.RemoteHost(), store.RateActionRegister, registerRateLimit, registerRateWindow)
	if err != nil {
		s.log.Error("registration rate check failed", "remote", c.RemoteHost(), "error", err)
		return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Message: protocol.MsgUnavailable})
	}
	if !allowed {
		c.SendError(protocol.OpRegisterRequest, protocol.CodeRateLimited, "Too many registration attempts. Try again in an hour.")
		return nil
	}

	if msg, ok := validateRegistration(req.Username, req.Email, req.Password); !ok {
		return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Message: msg})
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("password hash failed", "error", err)
		return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Message: protocol.MsgUnavailable})
	}

	acc, err := s.data.CreateAccount(ctx, req.Username, req.Email, hash)
	if errors.Is(err, rpc.ErrAlreadyExists) {
		return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Message: "Username is already taken."})
	}
	if err != nil {
		s.log.Error("account creation failed", "username", req.Username, "error", err)
		return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Message: protocol.MsgUnavailable})
	}

	s.log.Info("account registered", "account", acc.ID, "username", acc.Username, "remote", c.RemoteHost())
	return c.Send(protocol.OpRegisterResponse, &wire.RegisterResponse{Ok: true, Message: "Account created."})
}

func (s *Service) handleLogin(ctx context.Context, c *gateway.Conn, payload []byte) error {
	var req wire.LoginRequest
	if !gateway.Decode(c, protocol.OpLoginRequest, payload, &req) {
		return nil
	}

	allowed, err := s.sessions.AllowRate(ctx, c.RemoteHost(), store.RateActionLogin, loginRateLimit, loginRateWindow)
	if err != nil {
		s.log.Error("login rate check failed", "remote", c.RemoteHost(), "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}
	if !allowed {
		c.SendError(protocol.OpLoginRequest, protocol.CodeRateLimited, "Too many login attempts. Try again in a minute.")
		return nil
	}

	acc, err := s.data.GetAccountByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("account lookup failed", "username", req.Username, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}
	// Unknown account and wrong password share one reply so usernames
	// cannot be probed.
	if acc == nil || !s.hasher.Verify(acc.PasswordHash, req.Password) {
		return s.loginFailed(c, msgBadCredentials)
	}

	ban, err := s.data.CheckBan(ctx, acc.ID)
	if err != nil {
		s.log.Error("ban check failed", "account", acc.ID, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}
	if ban.Banned {
		msg := "Account banned."
		if ban.Reason != "" {
			msg = fmt.Sprintf("Account banned: %s", ban.Reason)
		}
		return s.loginFailed(c, msg)
	}

	// A fresh login displaces any session the account already holds;
	// the displaced client is evicted on its next frame.
	if err := s.sessions.EvictAccountSession(ctx, acc.ID); err != nil {
		s.log.Error("session eviction failed", "account", acc.ID, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}

	sessionID, err := auth.NewSessionID()
	if err != nil {
		s.log.Error("session id generation failed", "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}
	hmacSecret, err := auth.NewHMACSecret()
	if err != nil {
		s.log.Error("hmac secret generation failed", "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}

	sess := &store.Session{
		ID:         sessionID,
		AccountID:  acc.ID,
		IP:         c.RemoteHost(),
		LoginTime:  time.Now().UTC(),
		HMACSecret: hmacSecret,
	}
	if err := s.sessions.CreateSession(ctx, sess, s.cfg.SessionTTL); err != nil {
		s.log.Error("session creation failed", "account", acc.ID, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}

	token, err := s.tokens.Mint(acc.ID, sessionID, acc.Username)
	if err != nil {
		s.log.Error("token mint failed", "account", acc.ID, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}

	chars, err := s.data.GetCharactersByAccount(ctx, acc.ID)
	if err != nil {
		s.log.Error("character list failed", "account", acc.ID, "error", err)
		return s.loginFailed(c, protocol.MsgUnavailable)
	}
	summaries := make([]wire.CharacterSummary, 0, len(chars))
	for i := range chars {
		ch := &chars[i]
		summaries = append(summaries, wire.CharacterSummary{
			ID:         ch.ID,
			Name:       ch.Name,
			ClassID:    int32(ch.ClassID),
			ClassLabel: ch.ClassID.Label(),
			Level:      ch.Level,
		})
	}

	// Fire and forget: a lost last-login stamp never fails a login.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.data.UpdateLastLogin(ctx, acc.ID); err != nil {
			s.log.Warn("update last login failed", "account", acc.ID, "error", err)
		}
	}()

	c.SetAccountID(acc.ID)
	c.SetSessionID(sessionID)
	c.SetState(gateway.StateAuthenticated)

	s.log.Info("login succeeded", "account", acc.ID, "username", acc.Username, "remote", c.RemoteHost())
	return c.Send(protocol.OpLoginResponse, &wire.LoginResponse{
		Ok:                 true,
		Token:              token,
		HMACSecret:         hmacSecret,
		AccountServiceAddr: s.cfg.AccountServiceAddr,
		Characters:         summaries,
	})
}

func (s *Service) loginFailed(c *gateway.Conn, msg string) error {
	return c.Send(protocol.OpLoginResponse, &wire.LoginResponse{Message: msg})
}
