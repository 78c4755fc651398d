package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EnterWorldPresence registers a character as online and in a channel.
func (s *Store) EnterWorldPresence(ctx context.Context, characterID int64, zoneID, channelID int32) error {
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, onlinePlayersKey, characterID)
	pipe.SAdd(ctx, zoneChannelKey(zoneID, channelID), characterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("registering presence for character %d: %w", characterID, err)
	}
	return nil
}

// SwitchChannelPresence moves the character between channel sets of one zone.
func (s *Store) SwitchChannelPresence(ctx context.Context, characterID int64, zoneID, fromChannel, toChannel int32) error {
	pipe := s.rdb.TxPipeline()
	pipe.SRem(ctx, zoneChannelKey(zoneID, fromChannel), characterID)
	pipe.SAdd(ctx, zoneChannelKey(zoneID, toChannel), characterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("switching channel presence for character %d: %w", characterID, err)
	}
	return nil
}

// OnlineCount returns the size of the online set.
func (s *Store) OnlineCount(ctx context.Context) (int64, error) {
	n, err := s.rdb.SCard(ctx, onlinePlayersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("counting online players: %w", err)
	}
	return n, nil
}

// CleanupDisconnect runs the whole disconnect batch: drop the character
// cache and its marker, leave the presence sets, delete the session.
// The account reverse key is removed only while it still points at this
// session, so a newer login is never evicted by a stale disconnect.
func (s *Store) CleanupDisconnect(ctx context.Context, characterID, accountID int64, zoneID, channelID int32, sessionID string) error {
	current, err := s.rdb.Get(ctx, accountSessionKey(accountID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("reading current session for account %d: %w", accountID, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, charKey(characterID))
	pipe.Del(ctx, dirtyKey(characterID))
	pipe.SRem(ctx, onlinePlayersKey, characterID)
	pipe.SRem(ctx, zoneChannelKey(zoneID, channelID), characterID)
	pipe.Del(ctx, sessionKey(sessionID))
	if current == sessionID {
		pipe.Del(ctx, accountSessionKey(accountID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cleaning up disconnect for character %d: %w", characterID, err)
	}
	return nil
}
