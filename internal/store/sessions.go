package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL matches the login token lifetime.
const DefaultSessionTTL = 24 * time.Hour

// Session is the shared-store view of an active login.
type Session struct {
	ID          string
	AccountID   int64
	CharacterID int64
	IP          string
	LoginTime   time.Time
	HMACSecret  string
}

// CreateSession stores the session hash and the account reverse key,
// both with the given TTL.
func (s *Store) CreateSession(ctx context.Context, sess *Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	key := sessionKey(sess.ID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"accountId":   sess.AccountID,
		"characterId": sess.CharacterID,
		"ip":          sess.IP,
		"loginTime":   sess.LoginTime.Unix(),
		"hmacSecret":  sess.HMACSecret,
	})
	pipe.Expire(ctx, key, ttl)
	pipe.Set(ctx, accountSessionKey(sess.AccountID), sess.ID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing session %s: %w", sess.ID, err)
	}
	return nil
}

// GetSession returns nil without error when the session does not exist.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", sessionID, err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	sess := &Session{ID: sessionID, HMACSecret: vals["hmacSecret"], IP: vals["ip"]}
	sess.AccountID, _ = strconv.ParseInt(vals["accountId"], 10, 64)
	sess.CharacterID, _ = strconv.ParseInt(vals["characterId"], 10, 64)
	if unix, err := strconv.ParseInt(vals["loginTime"], 10, 64); err == nil {
		sess.LoginTime = time.Unix(unix, 0).UTC()
	}
	return sess, nil
}

// GetSessionSecret reads only the hmacSecret field; the UDP listener
// uses this as its cache-miss fallback.
func (s *Store) GetSessionSecret(ctx context.Context, sessionID string) (string, error) {
	secret, err := s.rdb.HGet(ctx, sessionKey(sessionID), "hmacSecret").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session secret %s: %w", sessionID, err)
	}
	return secret, nil
}

// SetSessionCharacter records the character chosen for this session.
func (s *Store) SetSessionCharacter(ctx context.Context, sessionID string, characterID int64) error {
	if err := s.rdb.HSet(ctx, sessionKey(sessionID), "characterId", characterID).Err(); err != nil {
		return fmt.Errorf("updating session %s character: %w", sessionID, err)
	}
	return nil
}

// EvictAccountSession removes any existing session for the account so
// a new login displaces the old one. Missing reverse keys are fine.
func (s *Store) EvictAccountSession(ctx context.Context, accountID int64) error {
	old, err := s.rdb.Get(ctx, accountSessionKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading current session for account %d: %w", accountID, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(old))
	pipe.Del(ctx, accountSessionKey(accountID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("evicting session for account %d: %w", accountID, err)
	}
	return nil
}
