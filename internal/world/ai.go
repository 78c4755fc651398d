package world

import (
	"math"

	"github.com/flyagain/server/internal/model"
)

// Hysteresis on leaving ATTACK, so a target dancing on the range edge
// does not flip the state every tick.
const attackRangeSlack = 1.2

// returnSnapDistance is how close to home a returning monster snaps
// into place.
const returnSnapDistance = 2.0

// stepMonster advances one monster's state machine by one tick.
func (s *Service) stepMonster(ch *ZoneChannel, m *MonsterEntity, nowMs int64, dt float32) {
	switch m.State {
	case AIIdle:
		s.thinkIdle(ch, m)
	case AIAggro:
		s.thinkAggro(ch, m, dt)
	case AIAttack:
		s.thinkAttack(ch, m, nowMs)
	case AIReturn:
		s.thinkReturn(ch, m, dt)
	case AIDead:
		s.thinkDead(ch, m, nowMs)
	}
}

// thinkIdle scans the surrounding cells for the first living player
// within aggro range.
func (s *Service) thinkIdle(ch *ZoneChannel, m *MonsterEntity) {
	aggroSq := float64(m.AggroRange) * float64(m.AggroRange)
	ch.Grid().ForNearby(m.Pos.X, m.Pos.Z, func(id int64) bool {
		p, ok := ch.Player(id)
		if !ok || !p.Alive() {
			return true
		}
		if m.Pos.DistanceSquared(p.Pos) > aggroSq {
			return true
		}
		m.State = AIAggro
		m.TargetID = p.EntityID
		return false
	})
}

// thinkAggro chases the target until it is in attack range, lost, or
// the monster strays past its leash.
func (s *Service) thinkAggro(ch *ZoneChannel, m *MonsterEntity, dt float32) {
	p, ok := ch.Player(m.TargetID)
	if !ok || !p.Alive() || s.pastLeash(m) {
		s.startReturn(m)
		return
	}
	rangeSq := float64(m.AttackRange) * float64(m.AttackRange)
	if m.Pos.DistanceSquared(p.Pos) <= rangeSq {
		m.State = AIAttack
		return
	}
	s.moveMonster(ch, m, p.Pos, m.MoveSpeed*dt)
}

// thinkAttack swings on cooldown and falls back to AGGRO when the
// target slips out past the hysteresis band.
func (s *Service) thinkAttack(ch *ZoneChannel, m *MonsterEntity, nowMs int64) {
	p, ok := ch.Player(m.TargetID)
	if !ok || !p.Alive() || s.pastLeash(m) {
		s.startReturn(m)
		return
	}
	chaseSq := float64(m.AttackRange) * attackRangeSlack
	chaseSq *= chaseSq
	if m.Pos.DistanceSquared(p.Pos) > chaseSq {
		m.State = AIAggro
		return
	}
	if nowMs-m.LastAttackMs < int64(m.AttackSpeedMs) {
		return
	}
	m.LastAttackMs = nowMs
	dmg, crit := rollDamage(s.rng, m.Attack, p.DefensePower())
	s.hitPlayer(ch, m.EntityID, p, dmg, crit)
}

// thinkReturn runs home at double speed and resets on arrival.
func (s *Service) thinkReturn(ch *ZoneChannel, m *MonsterEntity, dt float32) {
	if m.Pos.DistanceTo(m.SpawnPos) <= returnSnapDistance {
		ch.Grid().Update(m.EntityID, m.Pos.X, m.Pos.Z, m.SpawnPos.X, m.SpawnPos.Z)
		m.Pos = m.SpawnPos
		m.HP = m.MaxHP
		m.State = AIIdle
		m.TargetID = 0
		s.bcast.QueueMonsterUpdate(ch, m)
		return
	}
	s.moveMonster(ch, m, m.SpawnPos, m.MoveSpeed*2*dt)
}

// thinkDead waits out the respawn timer, then puts the monster back at
// its spawn at full health and announces it.
func (s *Service) thinkDead(ch *ZoneChannel, m *MonsterEntity, nowMs int64) {
	if nowMs-m.DeathMs < int64(m.RespawnMs) {
		return
	}
	ch.Grid().Update(m.EntityID, m.Pos.X, m.Pos.Z, m.SpawnPos.X, m.SpawnPos.Z)
	m.Pos = m.SpawnPos
	m.HP = m.MaxHP
	m.State = AIIdle
	m.TargetID = 0
	m.LastAttackMs = 0
	s.bcast.QueueSpawn(ch, m.SpawnRecord())
	s.log.Debug("monster respawned", "monster", m.Name, "entityId", m.EntityID)
}

func (s *Service) startReturn(m *MonsterEntity) {
	m.State = AIReturn
	m.TargetID = 0
}

// pastLeash reports whether the monster has been pulled too far from
// its spawn point.
func (s *Service) pastLeash(m *MonsterEntity) bool {
	leashSq := float64(m.LeashDistance) * float64(m.LeashDistance)
	return m.Pos.DistanceSquared(m.SpawnPos) > leashSq
}

// moveMonster steps toward dest, clamped to the remaining distance,
// and publishes the movement.
func (s *Service) moveMonster(ch *ZoneChannel, m *MonsterEntity, dest model.Position, step float32) {
	dx := float64(dest.X - m.Pos.X)
	dy := float64(dest.Y - m.Pos.Y)
	dz := float64(dest.Z - m.Pos.Z)
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if dist < 1e-6 || step <= 0 {
		return
	}
	if float64(step) > dist {
		step = float32(dist)
	}
	scale := float64(step) / dist
	nx := m.Pos.X + float32(dx*scale)
	ny := m.Pos.Y + float32(dy*scale)
	nz := m.Pos.Z + float32(dz*scale)
	ch.Grid().Update(m.EntityID, m.Pos.X, m.Pos.Z, nx, nz)
	m.Pos.X, m.Pos.Y, m.Pos.Z = nx, ny, nz
	s.bcast.QueueMonsterUpdate(ch, m)
}
