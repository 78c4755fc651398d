package dataservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/flyagain/server/internal/db"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/store"
)

// DefaultWritebackInterval is how often dirty shared-store snapshots are
// flushed into PostgreSQL.
const DefaultWritebackInterval = 300 * time.Second

type snapshotStore interface {
	ScanDirtyCharacters(ctx context.Context) ([]int64, error)
	ReadCharacterFields(ctx context.Context, characterID int64) (map[string]string, error)
	ClearDirty(ctx context.Context, characterID int64) error
}

type characterSaver interface {
	Save(ctx context.Context, c *model.Character) error
}

// Writeback periodically persists characters whose shared-store snapshot
// carries a dirty marker. The world service keeps snapshots fresh; this
// loop is the safety net that survives a world crash.
type Writeback struct {
	log      *slog.Logger
	store    snapshotStore
	saver    characterSaver
	interval time.Duration
}

func NewWriteback(st *store.Store, characters *db.CharacterRepository, interval time.Duration, log *slog.Logger) *Writeback {
	if interval <= 0 {
		interval = DefaultWritebackInterval
	}
	return &Writeback{log: log, store: st, saver: characters, interval: interval}
}

func (w *Writeback) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// flush walks the dirty markers once. Per-character failures are logged
// and skipped; the marker stays so the next pass retries.
func (w *Writeback) flush(ctx context.Context) {
	ids, err := w.store.ScanDirtyCharacters(ctx)
	if err != nil {
		w.log.Error("scanning dirty characters", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	var flushed int
	for _, id := range ids {
		fields, err := w.store.ReadCharacterFields(ctx, id)
		if err != nil {
			w.log.Error("reading character snapshot", "character", id, "error", err)
			continue
		}
		if len(fields) == 0 {
			// Snapshot hash is gone; keep the marker untouched.
			continue
		}
		if err := w.saver.Save(ctx, store.CharacterFromFields(id, fields)); err != nil {
			w.log.Error("flushing character", "character", id, "error", err)
			continue
		}
		if err := w.store.ClearDirty(ctx, id); err != nil {
			w.log.Error("clearing dirty marker", "character", id, "error", err)
			continue
		}
		flushed++
	}
	w.log.Info("write-back pass done", "dirty", len(ids), "flushed", flushed)
}
