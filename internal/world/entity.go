package world

import (
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/wire"
)

// InputState is the client's most recent movement intent, applied by
// the tick thread until replaced.
type InputState struct {
	DX       float32
	DY       float32
	DZ       float32
	Rotation float32
	Moving   bool
	Flying   bool
}

// PlayerEntity is the runtime form of a character inside one world
// process. It embeds the persistent fields and adds everything the
// tick loop needs. All mutation happens on the tick thread; network
// code only reads identity fields and publishes intents through the
// input queue.
type PlayerEntity struct {
	model.Character

	EntityID int64
	ZoneID   int32
	Channel  int32

	Rotation   float32
	Input      InputState
	TargetID   int64
	AutoAttack bool

	// LastAttackMs and SessionStartMs are tick-thread wall clock in
	// unix milliseconds, taken from the injected clock.
	LastAttackMs   int64
	SkillCooldowns map[int32]int64
	SessionStartMs int64
	Dirty          bool

	SessionID string
	UDPToken  uint64

	// Conn is a non-owning handle; the connection tears itself down
	// and the disconnect flush drops the entity.
	Conn *gateway.Conn
}

// Alive reports whether the player can act or be targeted.
func (p *PlayerEntity) Alive() bool { return p.HP > 0 }

// AttackPower is the player's attack for the damage formula.
func (p *PlayerEntity) AttackPower() int32 { return p.Strength*2 + p.Level }

// DefensePower is the player's defense for the damage formula.
func (p *PlayerEntity) DefensePower() int32 { return p.Stamina + p.Level }

// SpawnRecord builds the wire introduction for this player.
func (p *PlayerEntity) SpawnRecord() wire.EntitySpawn {
	return wire.EntitySpawn{
		EntityID: p.EntityID,
		Kind:     wire.EntityKindPlayer,
		Name:     p.Name,
		DefID:    int32(p.ClassID),
		Level:    p.Level,
		X:        p.Pos.X,
		Y:        p.Pos.Y,
		Z:        p.Pos.Z,
		Rotation: p.Rotation,
		HP:       p.HP,
		MaxHP:    p.MaxHP,
	}
}

// AIState is the monster state machine position.
type AIState int8

const (
	AIIdle AIState = iota
	AIAggro
	AIAttack
	AIReturn
	AIDead
)

func (s AIState) String() string {
	switch s {
	case AIIdle:
		return "IDLE"
	case AIAggro:
		return "AGGRO"
	case AIAttack:
		return "ATTACK"
	case AIReturn:
		return "RETURN"
	case AIDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// MonsterEntity is one spawned monster. Monsters are created when a
// channel opens and never destroyed; death parks them in AIDead until
// the respawn timer brings them back at their spawn origin.
type MonsterEntity struct {
	EntityID int64
	DefID    int32
	Name     string
	ZoneID   int32
	Channel  int32

	Pos      model.Position
	SpawnPos model.Position

	HP       int32
	MaxHP    int32
	Attack   int32
	Defense  int32
	Level    int32
	XPReward int64

	AggroRange    float32
	AttackRange   float32
	AttackSpeedMs int32
	MoveSpeed     float32
	RespawnMs     int32
	LeashDistance float32
	LootTableID   int32

	State        AIState
	TargetID     int64
	LastAttackMs int64
	DeathMs      int64
}

// NewMonsterEntity builds a living monster from its definition at the
// given position.
func NewMonsterEntity(entityID int64, def *model.MonsterDef, zoneID, channelID int32, pos model.Position) *MonsterEntity {
	return &MonsterEntity{
		EntityID:      entityID,
		DefID:         def.ID,
		Name:          def.Name,
		ZoneID:        zoneID,
		Channel:       channelID,
		Pos:           pos,
		SpawnPos:      pos,
		HP:            def.MaxHP,
		MaxHP:         def.MaxHP,
		Attack:        def.Attack,
		Defense:       def.Defense,
		Level:         def.Level,
		XPReward:      def.XPReward,
		AggroRange:    def.AggroRange,
		AttackRange:   def.AttackRange,
		AttackSpeedMs: def.AttackSpeedMs,
		MoveSpeed:     def.MoveSpeed,
		RespawnMs:     def.RespawnMs,
		LeashDistance: def.LeashDistance,
		LootTableID:   def.LootTableID,
		State:         AIIdle,
	}
}

// Alive reports whether the monster is out of the DEAD state.
func (m *MonsterEntity) Alive() bool { return m.HP > 0 }

// SpawnRecord builds the wire introduction for this monster.
func (m *MonsterEntity) SpawnRecord() wire.EntitySpawn {
	return wire.EntitySpawn{
		EntityID: m.EntityID,
		Kind:     wire.EntityKindMonster,
		Name:     m.Name,
		DefID:    m.DefID,
		Level:    m.Level,
		X:        m.Pos.X,
		Y:        m.Pos.Y,
		Z:        m.Pos.Z,
		HP:       m.HP,
		MaxHP:    m.MaxHP,
	}
}
