package world

import (
	"log/slog"

	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/protocol"
	"github.com/flyagain/server/internal/wire"
)

// broadcastJob is one message for every player within the 3x3 cell
// neighborhood of a point, optionally excluding one entity.
type broadcastJob struct {
	ch      *ZoneChannel
	x, z    float32
	opcode  uint16
	msg     wire.Message
	exclude int64
}

// Broadcaster collects per-tick events and ships them in the tick's
// broadcast stage. Each job is encoded once and the same frame handed
// to every recipient; per-connection write pumps do the actual socket
// work, so a slow client never stalls the tick.
type Broadcaster struct {
	jobs []broadcastJob
	ids  []int64 // reusable neighborhood buffer
	log  *slog.Logger
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{log: log}
}

// Queue schedules an arbitrary message for the neighborhood of (x, z).
func (b *Broadcaster) Queue(ch *ZoneChannel, x, z float32, opcode uint16, msg wire.Message, exclude int64) {
	b.jobs = append(b.jobs, broadcastJob{ch: ch, x: x, z: z, opcode: opcode, msg: msg, exclude: exclude})
}

// QueueSpawn announces an entity to everyone nearby except the entity
// itself.
func (b *Broadcaster) QueueSpawn(ch *ZoneChannel, sp wire.EntitySpawn) {
	spawn := sp
	b.Queue(ch, sp.X, sp.Z, protocol.OpEntityEvent, &wire.EntityEvent{Spawn: &spawn}, sp.EntityID)
}

// QueueDespawn removes an entity from nearby clients.
func (b *Broadcaster) QueueDespawn(ch *ZoneChannel, entityID int64, x, z float32) {
	b.Queue(ch, x, z, protocol.OpEntityEvent, &wire.EntityEvent{
		Despawn: &wire.EntityDespawn{EntityID: entityID},
	}, entityID)
}

// QueueUpdate publishes a player's committed movement.
func (b *Broadcaster) QueueUpdate(ch *ZoneChannel, p *PlayerEntity) {
	b.Queue(ch, p.Pos.X, p.Pos.Z, protocol.OpEntityEvent, &wire.EntityEvent{
		Update: &wire.EntityUpdate{
			EntityID: p.EntityID,
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			Z:        p.Pos.Z,
			Rotation: p.Rotation,
			Moving:   p.Input.Moving,
			Flying:   p.Input.Flying,
		},
	}, p.EntityID)
}

// QueueMonsterUpdate publishes a monster's movement.
func (b *Broadcaster) QueueMonsterUpdate(ch *ZoneChannel, m *MonsterEntity) {
	b.Queue(ch, m.Pos.X, m.Pos.Z, protocol.OpEntityEvent, &wire.EntityEvent{
		Update: &wire.EntityUpdate{
			EntityID: m.EntityID,
			X:        m.Pos.X,
			Y:        m.Pos.Y,
			Z:        m.Pos.Z,
			Moving:   true,
		},
	}, 0)
}

// QueueDamage publishes one hit around the target's position.
func (b *Broadcaster) QueueDamage(ch *ZoneChannel, x, z float32, d wire.DamageEvent) {
	dmg := d
	b.Queue(ch, x, z, protocol.OpEntityEvent, &wire.EntityEvent{Damage: &dmg}, 0)
}

// Flush encodes every queued job once and fans the frames out, then
// resets for the next tick. Send failures mean the connection is
// closing; its disconnect flush will clean up, so they are dropped
// without logging.
func (b *Broadcaster) Flush() {
	for i := range b.jobs {
		job := &b.jobs[i]
		frame, err := gateway.EncodeFrame(job.opcode, job.msg)
		if err != nil {
			b.log.Error("encode broadcast frame", "opcode", job.opcode, "error", err)
			continue
		}
		b.ids = job.ch.Grid().Nearby(job.x, job.z, b.ids[:0])
		for _, id := range b.ids {
			if id == job.exclude {
				continue
			}
			p, ok := job.ch.Player(id)
			if !ok || p.Conn == nil {
				continue
			}
			_ = p.Conn.SendFrame(frame)
		}
	}
	b.jobs = b.jobs[:0]
}

// Pending returns the number of queued jobs, for tests and the tick
// overrun log line.
func (b *Broadcaster) Pending() int { return len(b.jobs) }
