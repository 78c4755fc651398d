package model

// MonsterDef is a static monster definition loaded from game data.
// Runtime monster entities in the world service are built from these.
type MonsterDef struct {
	ID            int32
	Name          string
	Level         int32
	MaxHP         int32
	Attack        int32
	Defense       int32
	XPReward      int64
	AggroRange    float32
	AttackRange   float32
	AttackSpeedMs int32
	MoveSpeed     float32 // units per second
	RespawnMs     int32
	LeashDistance float32
	LootTableID   int32 // 0 = no loot
}
