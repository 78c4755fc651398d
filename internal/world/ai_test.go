package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyagain/server/internal/model"
)

// channelWolf returns the fixture zone's single monster and its channel.
func channelWolf(t *testing.T, f *worldFixture) (*ZoneChannel, *MonsterEntity) {
	t.Helper()
	chn, ok := f.svc.zones.Channel(1, 0)
	require.True(t, ok)
	var wolf *MonsterEntity
	chn.ForMonsters(func(m *MonsterEntity) { wolf = m })
	require.NotNil(t, wolf)
	return chn, wolf
}

// placeCombatPlayer drops a player straight into the channel, no
// network attached.
func placeCombatPlayer(t *testing.T, f *worldFixture, chn *ZoneChannel, x, z float32) *PlayerEntity {
	t.Helper()
	p := &PlayerEntity{
		Character: *testCharacter(),
		EntityID:  f.svc.ids.NextPlayer(),
	}
	p.Pos = model.Position{X: x, Y: 0, Z: z}
	require.NoError(t, chn.AddPlayer(p))
	return p
}

func teleport(chn *ZoneChannel, p *PlayerEntity, x, z float32) {
	chn.Grid().Update(p.EntityID, p.Pos.X, p.Pos.Z, x, z)
	p.Pos.X, p.Pos.Z = x, z
}

func TestIdleAggrosPlayersInRange(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 520, 500) // 18 from the wolf, range is 15
	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIIdle, wolf.State)

	teleport(chn, p, 510, 500) // 8 away
	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIAggro, wolf.State)
	assert.Equal(t, p.EntityID, wolf.TargetID)
}

func TestIdleIgnoresDeadPlayers(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)

	p := placeCombatPlayer(t, f, chn, 504, 500)
	p.HP = 0
	f.svc.stepMonster(chn, wolf, f.clock.Now().UnixMilli(), f.dt)
	assert.Equal(t, AIIdle, wolf.State)
	assert.Equal(t, int64(0), wolf.TargetID)
}

func TestAggroChasesThenEngages(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 510, 500)
	wolf.State = AIAggro
	wolf.TargetID = p.EntityID

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIAggro, wolf.State, "still out of attack range")
	assert.InDelta(t, 502.15, wolf.Pos.X, 1e-3, "chase speed is 3 per second")
	assert.Positive(t, f.svc.bcast.Pending(), "chase movement is published")

	teleport(chn, p, 503.5, 500) // 1.35 from the wolf, attack range 2
	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIAttack, wolf.State)
}

func TestAttackHysteresisBand(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 504.3, 500) // 2.3 away, band edge is 2.4
	wolf.State = AIAttack
	wolf.TargetID = p.EntityID
	wolf.LastAttackMs = nowMs // swing not due

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIAttack, wolf.State, "inside the 1.2x band the monster keeps swinging")

	teleport(chn, p, 504.5, 500) // 2.5 away
	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIAggro, wolf.State, "past the band it goes back to chasing")
}

func TestAttackSwingsOnCooldown(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 503, 500)
	wolf.State = AIAttack
	wolf.TargetID = p.EntityID

	// attack 10 against defense 13 floors at 1 damage, crit or not.
	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, int32(119), p.HP)
	assert.Equal(t, nowMs, wolf.LastAttackMs)
	assert.True(t, p.Dirty)

	f.svc.stepMonster(chn, wolf, nowMs+999, f.dt)
	assert.Equal(t, int32(119), p.HP, "attack speed is 1000ms")

	f.svc.stepMonster(chn, wolf, nowMs+1000, f.dt)
	assert.Equal(t, int32(118), p.HP)
}

func TestAttackDamageAgainstLightArmor(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 503, 500)
	p.Stamina = 0 // defense 1 at level 1
	wolf.State = AIAttack
	wolf.TargetID = p.EntityID

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	dmg := 120 - p.HP
	assert.GreaterOrEqual(t, dmg, int32(7))
	assert.LessOrEqual(t, dmg, int32(16), "non-crit caps at 11, crit at 16")
}

func TestLeashTriggersReturn(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	p := placeCombatPlayer(t, f, chn, 544, 500)
	wolf.State = AIAttack
	wolf.TargetID = p.EntityID
	chn.Grid().Update(wolf.EntityID, wolf.Pos.X, wolf.Pos.Z, 543, 500)
	wolf.Pos.X = 543 // 41 from spawn, leash is 40

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIReturn, wolf.State)
	assert.Equal(t, int64(0), wolf.TargetID)
}

func TestAggroLosesVanishedTarget(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)

	p := placeCombatPlayer(t, f, chn, 510, 500)
	wolf.State = AIAggro
	wolf.TargetID = p.EntityID
	chn.RemovePlayer(p)

	f.svc.stepMonster(chn, wolf, f.clock.Now().UnixMilli(), f.dt)
	assert.Equal(t, AIReturn, wolf.State)
	assert.Equal(t, int64(0), wolf.TargetID)
}

func TestReturnRunsHomeAndHeals(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	chn.Grid().Update(wolf.EntityID, wolf.Pos.X, wolf.Pos.Z, 504.1, 500)
	wolf.Pos.X = 504.1 // 2.1 from spawn
	wolf.State = AIReturn
	wolf.HP = 5

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIReturn, wolf.State)
	assert.InDelta(t, 503.8, wolf.Pos.X, 1e-3, "return speed is twice the chase speed")
	assert.Equal(t, int32(5), wolf.HP, "no healing until home")

	f.svc.stepMonster(chn, wolf, nowMs, f.dt)
	assert.Equal(t, AIIdle, wolf.State)
	assert.Equal(t, wolf.SpawnPos, wolf.Pos, "within 2.0 of home it snaps into place")
	assert.Equal(t, int32(30), wolf.HP)
	assert.Equal(t, int64(0), wolf.TargetID)
}

func TestDeadWaitsFullRespawnDelay(t *testing.T) {
	f := newWorldFixture(t)
	chn, wolf := channelWolf(t, f)
	nowMs := f.clock.Now().UnixMilli()

	// Died far enough out that the corpse sits in another grid block.
	chn.Grid().Update(wolf.EntityID, wolf.Pos.X, wolf.Pos.Z, 610, 500)
	wolf.Pos.X = 610
	wolf.State = AIDead
	wolf.HP = 0
	wolf.DeathMs = nowMs
	wolf.LastAttackMs = nowMs

	f.svc.stepMonster(chn, wolf, nowMs+29_999, f.dt)
	assert.Equal(t, AIDead, wolf.State)
	assert.Equal(t, int32(0), wolf.HP)
	assert.Empty(t, chn.Grid().Nearby(wolf.SpawnPos.X, wolf.SpawnPos.Z, nil))

	pending := f.svc.bcast.Pending()
	f.svc.stepMonster(chn, wolf, nowMs+30_000, f.dt)
	assert.Equal(t, AIIdle, wolf.State)
	assert.Equal(t, int32(30), wolf.HP)
	assert.Equal(t, wolf.SpawnPos, wolf.Pos)
	assert.Equal(t, int64(0), wolf.LastAttackMs)
	assert.Greater(t, f.svc.bcast.Pending(), pending, "respawn is announced")
	assert.Equal(t, []int64{wolf.EntityID}, chn.Grid().Nearby(wolf.SpawnPos.X, wolf.SpawnPos.Z, nil),
		"grid entry moved back to the spawn cell")
}

func TestSeededRunsProduceIdenticalAITimelines(t *testing.T) {
	type frame struct {
		state    AIState
		pos      model.Position
		hp       int32
		targetID int64
		playerHP int32
	}

	// Same seed, same starting world, same input stream.
	run := func() []frame {
		f := newWorldFixture(t)
		chn, wolf := channelWolf(t, f)
		p := placeCombatPlayer(t, f, chn, 510, 500)

		timeline := make([]frame, 0, 120)
		for tick := 0; tick < 120; tick++ {
			switch tick {
			case 40:
				teleport(chn, p, 560, 500) // drag the chase past the leash
			case 80:
				teleport(chn, p, 900, 900)
			}
			f.svc.stepMonster(chn, wolf, f.clock.Now().UnixMilli(), f.dt)
			f.clock.Advance(50 * time.Millisecond)
			timeline = append(timeline, frame{wolf.State, wolf.Pos, wolf.HP, wolf.TargetID, p.HP})
		}
		return timeline
	}

	assert.Equal(t, run(), run())
}
