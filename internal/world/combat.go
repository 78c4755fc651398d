package world

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/flyagain/server/internal/wire"
)

const (
	critChance           = 0.10
	critMultiplier       = 1.5
	autoAttackCooldownMs = 1500

	// Level thresholds: a character levels while xp >= level * 1000.
	xpPerLevel        int64 = 1000
	levelUpStatPoints int32 = 5
)

// rollDamage runs the shared damage formula for one hit: attack minus
// defense, a uniform wobble in [-2, +2], a 10% crit that scales the
// raw value by 1.5, and a floor of 1 so every hit matters.
func rollDamage(rng *rand.Rand, attack, defense int32) (damage int32, crit bool) {
	raw := attack - defense + int32(rng.IntN(5)) - 2
	crit = rng.Float64() < critChance
	if crit {
		raw = int32(math.Floor(float64(raw) * critMultiplier))
	}
	return max(1, raw), crit
}

// stepPlayerCombat advances one player's auto-attack. Targets resolve
// within the player's own channel; a stale or dead target simply stalls
// the swing until the client retargets.
func (s *Service) stepPlayerCombat(ch *ZoneChannel, p *PlayerEntity, nowMs int64) {
	if !p.AutoAttack || p.TargetID == 0 || !p.Alive() {
		return
	}
	if nowMs-p.LastAttackMs < autoAttackCooldownMs {
		return
	}

	if IsMonsterID(p.TargetID) {
		m, ok := ch.Monster(p.TargetID)
		if !ok || !m.Alive() {
			return
		}
		p.LastAttackMs = nowMs
		dmg, crit := rollDamage(s.rng, p.AttackPower(), m.Defense)
		s.hitMonster(ch, p, m, dmg, crit, nowMs)
		return
	}

	victim, ok := ch.Player(p.TargetID)
	if !ok || victim == p || !victim.Alive() {
		return
	}
	p.LastAttackMs = nowMs
	dmg, crit := rollDamage(s.rng, p.AttackPower(), victim.DefensePower())
	s.hitPlayer(ch, p.EntityID, victim, dmg, crit)
}

// hitMonster applies damage to a monster and publishes the event. A
// kill parks the monster in DEAD and hands rewards to the attacker.
func (s *Service) hitMonster(ch *ZoneChannel, attacker *PlayerEntity, m *MonsterEntity, dmg int32, crit bool, nowMs int64) {
	m.HP -= dmg
	if m.HP < 0 {
		m.HP = 0
	}
	killed := m.HP == 0
	s.bcast.QueueDamage(ch, m.Pos.X, m.Pos.Z, wire.DamageEvent{
		AttackerID: attacker.EntityID,
		TargetID:   m.EntityID,
		Amount:     dmg,
		Crit:       crit,
		TargetHP:   m.HP,
		Killed:     killed,
	})
	if killed {
		s.killMonster(m, attacker, nowMs)
	}
}

func (s *Service) killMonster(m *MonsterEntity, killer *PlayerEntity, nowMs int64) {
	m.State = AIDead
	m.DeathMs = nowMs
	m.TargetID = 0
	s.log.Debug("monster killed",
		"monster", m.Name,
		"entityId", m.EntityID,
		"killer", killer.Name)
	s.awardKill(killer, m)
}

// awardKill grants XP, resolves level ups, and rolls the loot table.
// Entity fields change here on the tick thread; the item grants go out
// through the I/O pool.
func (s *Service) awardKill(killer *PlayerEntity, m *MonsterEntity) {
	killer.XP += m.XPReward
	killer.Dirty = true
	for killer.XP >= int64(killer.Level)*xpPerLevel {
		killer.Level++
		killer.StatPoints += levelUpStatPoints
		killer.HP = killer.MaxHP
		killer.MP = killer.MaxMP
		s.log.Info("level up",
			"characterId", killer.ID,
			"name", killer.Name,
			"level", killer.Level)
	}
	s.rollLoot(killer, m)
}

// rollLoot rolls each entry of the monster's loot table independently.
func (s *Service) rollLoot(killer *PlayerEntity, m *MonsterEntity) {
	for _, e := range s.game.LootTable(m.LootTableID) {
		if s.rng.Float64() >= e.Chance {
			continue
		}
		qty := e.MinQuantity
		if spread := e.MaxQuantity - e.MinQuantity; spread > 0 {
			qty += int32(s.rng.IntN(int(spread) + 1))
		}
		s.grantLoot(killer.ID, e.ItemID, qty)
	}
}

func (s *Service) grantLoot(characterID int64, itemID, quantity int32) {
	s.io.Submit(func(ctx context.Context) {
		if err := s.data.AddItem(ctx, characterID, itemID, quantity); err != nil {
			s.log.Error("loot grant failed",
				"characterId", characterID,
				"itemId", itemID,
				"error", err)
			return
		}
		s.log.Debug("loot granted",
			"characterId", characterID,
			"itemId", itemID,
			"quantity", quantity)
	})
}

// hitPlayer applies damage to a player from any attacker. Death
// freezes the victim; respawn handling stays client-side.
func (s *Service) hitPlayer(ch *ZoneChannel, attackerID int64, victim *PlayerEntity, dmg int32, crit bool) {
	victim.HP -= dmg
	if victim.HP < 0 {
		victim.HP = 0
	}
	victim.Dirty = true
	killed := victim.HP == 0
	s.bcast.QueueDamage(ch, victim.Pos.X, victim.Pos.Z, wire.DamageEvent{
		AttackerID: attackerID,
		TargetID:   victim.EntityID,
		Amount:     dmg,
		Crit:       crit,
		TargetHP:   victim.HP,
		Killed:     killed,
	})
	if killed {
		victim.Input.Moving = false
		victim.AutoAttack = false
		victim.TargetID = 0
		s.log.Info("player died",
			"characterId", victim.ID,
			"name", victim.Name,
			"attackerId", attackerID)
	}
}
