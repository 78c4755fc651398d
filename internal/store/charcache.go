package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/flyagain/server/internal/model"
)

// Character cache TTLs. The account service primes a short-lived entry
// at character select; the world service refreshes it to an hour with
// every snapshot so an idle-but-connected player never falls out.
const (
	CharPrimeTTL    = 5 * time.Minute
	CharSnapshotTTL = time.Hour
	DirtyTTL        = time.Hour
)

// charFields flattens a character into the shared hash field set.
func charFields(c *model.Character) map[string]any {
	return map[string]any{
		"accountId":  c.AccountID,
		"name":       c.Name,
		"classId":    int32(c.ClassID),
		"level":      c.Level,
		"xp":         c.XP,
		"hp":         c.HP,
		"mp":         c.MP,
		"maxHp":      c.MaxHP,
		"maxMp":      c.MaxMP,
		"strength":   c.Strength,
		"stamina":    c.Stamina,
		"dexterity":  c.Dexterity,
		"intellect":  c.Intellect,
		"statPoints": c.StatPoints,
		"mapId":      c.MapID,
		"posX":       strconv.FormatFloat(float64(c.Pos.X), 'g', -1, 32),
		"posY":       strconv.FormatFloat(float64(c.Pos.Y), 'g', -1, 32),
		"posZ":       strconv.FormatFloat(float64(c.Pos.Z), 'g', -1, 32),
		"gold":       c.Gold,
		"playTime":   c.PlayTime,
	}
}

func fieldInt64(vals map[string]string, name string, def int64) int64 {
	v, err := strconv.ParseInt(vals[name], 10, 64)
	if err != nil {
		return def
	}
	return v
}

func fieldInt32(vals map[string]string, name string, def int32) int32 {
	return int32(fieldInt64(vals, name, int64(def)))
}

func fieldFloat(vals map[string]string, name string) float32 {
	v, err := strconv.ParseFloat(vals[name], 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

// CharacterFromFields rebuilds a character from a cache hash, filling
// safe defaults for any missing field. The write-back scheduler relies
// on these defaults when a partially written hash is flushed.
func CharacterFromFields(characterID int64, vals map[string]string) *model.Character {
	return &model.Character{
		ID:         characterID,
		AccountID:  fieldInt64(vals, "accountId", 0),
		Name:       vals["name"],
		ClassID:    model.ClassID(fieldInt32(vals, "classId", 0)),
		Level:      fieldInt32(vals, "level", 1),
		XP:         fieldInt64(vals, "xp", 0),
		HP:         fieldInt32(vals, "hp", 0),
		MP:         fieldInt32(vals, "mp", 0),
		MaxHP:      fieldInt32(vals, "maxHp", 0),
		MaxMP:      fieldInt32(vals, "maxMp", 0),
		Strength:   fieldInt32(vals, "strength", 0),
		Stamina:    fieldInt32(vals, "stamina", 0),
		Dexterity:  fieldInt32(vals, "dexterity", 0),
		Intellect:  fieldInt32(vals, "intellect", 0),
		StatPoints: fieldInt32(vals, "statPoints", 0),
		MapID:      fieldInt32(vals, "mapId", 1),
		Pos: model.Position{
			X: fieldFloat(vals, "posX"),
			Y: fieldFloat(vals, "posY"),
			Z: fieldFloat(vals, "posZ"),
		},
		Gold:     fieldInt64(vals, "gold", 0),
		PlayTime: fieldInt64(vals, "playTime", 0),
	}
}

// PrimeCharacter writes the short-lived cache entry at character select.
func (s *Store) PrimeCharacter(ctx context.Context, c *model.Character) error {
	key := charKey(c.ID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, charFields(c))
	pipe.Expire(ctx, key, CharPrimeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("priming character %d: %w", c.ID, err)
	}
	return nil
}

// SnapshotCharacter writes the full field set, refreshes the TTL and
// sets the write-back marker.
func (s *Store) SnapshotCharacter(ctx context.Context, c *model.Character) error {
	key := charKey(c.ID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, charFields(c))
	pipe.Expire(ctx, key, CharSnapshotTTL)
	pipe.Set(ctx, dirtyKey(c.ID), "1", DirtyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("snapshotting character %d: %w", c.ID, err)
	}
	return nil
}

// ReadCharacterFields returns the raw cache hash, or an empty map when
// the key does not exist.
func (s *Store) ReadCharacterFields(ctx context.Context, characterID int64) (map[string]string, error) {
	vals, err := s.rdb.HGetAll(ctx, charKey(characterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading character cache %d: %w", characterID, err)
	}
	return vals, nil
}

// ScanDirtyCharacters walks the write-back markers and returns the
// character ids they name. Malformed keys are skipped.
func (s *Store) ScanDirtyCharacters(ctx context.Context) ([]int64, error) {
	var (
		ids    []int64
		cursor uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, dirtyScanPattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning dirty markers: %w", err)
		}
		for _, key := range keys {
			if id, ok := parseDirtyKey(key); ok {
				ids = append(ids, id)
			}
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// ClearDirty removes the write-back marker after a successful save.
func (s *Store) ClearDirty(ctx context.Context, characterID int64) error {
	if err := s.rdb.Del(ctx, dirtyKey(characterID)).Err(); err != nil {
		return fmt.Errorf("clearing dirty marker %d: %w", characterID, err)
	}
	return nil
}
