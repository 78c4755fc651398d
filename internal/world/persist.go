package world

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ioTaskTimeout bounds one dispatched store or data-plane call.
const ioTaskTimeout = 15 * time.Second

// IOPool runs the world's suspending I/O off the tick thread: saves,
// presence writes, inventory calls. Tasks get their own deadline and
// keep running through shutdown so the final flush can land.
type IOPool struct {
	tasks chan func(context.Context)
	wg    sync.WaitGroup
	log   *slog.Logger
}

func NewIOPool(backlog int, log *slog.Logger) *IOPool {
	if backlog <= 0 {
		backlog = 4096
	}
	return &IOPool{
		tasks: make(chan func(context.Context), backlog),
		log:   log,
	}
}

// Start launches the workers. Call once before the tick loop.
func (p *IOPool) Start(workers int) {
	if workers <= 0 {
		workers = 8
	}
	for range workers {
		p.wg.Go(func() {
			for fn := range p.tasks {
				ctx, cancel := context.WithTimeout(context.Background(), ioTaskTimeout)
				fn(ctx)
				cancel()
			}
		})
	}
}

// Submit hands a task to the pool. Only the tick thread submits, so a
// full backlog blocks the tick; that shows up as an overrun instead of
// silently losing a write.
func (p *IOPool) Submit(fn func(context.Context)) {
	p.tasks <- fn
}

// Shutdown stops accepting work and waits up to budget for the
// remaining tasks to finish.
func (p *IOPool) Shutdown(budget time.Duration) error {
	close(p.tasks)
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(budget):
		return errors.New("io pool shutdown budget exceeded")
	}
}

// persistDirty snapshots every dirty player to the shared store and
// clears the flags immediately, so a save landing mid-interval cannot
// double-fire. The writes themselves run on the I/O pool; the data
// service's write-back scheduler moves them to the database later.
func (s *Service) persistDirty(nowMs int64) {
	var dispatched int
	for _, zone := range s.zones.Zones() {
		for _, chn := range zone.Channels() {
			chn.ForPlayers(func(p *PlayerEntity) {
				if !p.Dirty {
					return
				}
				p.Dirty = false
				s.accruePlayTime(p, nowMs)
				snap := p.Character
				s.io.Submit(func(ctx context.Context) {
					if err := s.sessions.SnapshotCharacter(ctx, &snap); err != nil {
						s.log.Error("periodic snapshot failed",
							"characterId", snap.ID, "error", err)
					}
				})
				dispatched++
			})
		}
	}
	if dispatched > 0 {
		s.log.Debug("periodic persistence dispatched", "players", dispatched)
	}
}

// accruePlayTime folds the current session segment into the played
// seconds and restarts the segment.
func (s *Service) accruePlayTime(p *PlayerEntity, nowMs int64) {
	if nowMs > p.SessionStartMs {
		p.PlayTime += (nowMs - p.SessionStartMs) / 1000
		p.SessionStartMs = nowMs
	}
}

// processLeave is the disconnect flush, run on the tick thread. The
// neighborhood sees the despawn, the authoritative fields go to the
// data service, the store entries are cleaned up, and the world
// structures drop the entity. The suspending steps run as one I/O
// pool task so save, cleanup, and close keep their order.
func (s *Service) processLeave(accountID int64, nowMs int64) {
	v, ok := s.entities.Load(accountID)
	if !ok {
		return
	}
	p := v.(*PlayerEntity)

	chn, placed := s.zones.Channel(p.ZoneID, p.Channel)
	if placed {
		s.bcast.QueueDespawn(chn, p.EntityID, p.Pos.X, p.Pos.Z)
		chn.RemovePlayer(p)
	}
	s.entities.Delete(accountID)
	s.udp.DropSession(p.UDPToken)

	s.accruePlayTime(p, nowMs)
	s.flushPlayer(p)

	s.log.Info("player left world",
		"characterId", p.ID,
		"name", p.Name,
		"entityId", p.EntityID,
		"zoneId", p.ZoneID,
		"channelId", p.Channel)
}

// flushPlayer dispatches the save, the store cleanup, and the socket
// close for one player. Save failures are logged and do not stop the
// cleanup.
func (s *Service) flushPlayer(p *PlayerEntity) {
	snap := p.Character
	sessionID := p.SessionID
	zoneID, channelID := p.ZoneID, p.Channel
	conn := p.Conn
	s.io.Submit(func(ctx context.Context) {
		if err := s.data.SaveCharacter(ctx, &snap); err != nil {
			s.log.Error("disconnect save failed",
				"characterId", snap.ID, "error", err)
		}
		if err := s.sessions.CleanupDisconnect(ctx, snap.ID, snap.AccountID, zoneID, channelID, sessionID); err != nil {
			s.log.Error("disconnect cleanup failed",
				"characterId", snap.ID, "error", err)
		}
		if conn != nil {
			conn.CloseAsync()
		}
	})
}

// shutdownFlush force-flushes everyone still in the world once the
// tick loop has stopped.
func (s *Service) shutdownFlush(nowMs int64) {
	var flushed int
	s.entities.Range(func(key, v any) bool {
		p := v.(*PlayerEntity)
		s.accruePlayTime(p, nowMs)
		s.flushPlayer(p)
		s.entities.Delete(key)
		flushed++
		return true
	})
	if flushed > 0 {
		s.log.Info("shutdown flush dispatched", "players", flushed)
	}
}
