package world

import (
	"context"
	"fmt"

	"github.com/flyagain/server/internal/model"
)

// GameDataSource is the slice of the data-plane client the loader
// needs. Defined here so tests can feed fixture data.
type GameDataSource interface {
	GetAllItems(ctx context.Context) ([]model.ItemDef, error)
	GetAllMonsters(ctx context.Context) ([]model.MonsterDef, error)
	GetAllSpawns(ctx context.Context) ([]model.SpawnPoint, error)
	GetAllSkills(ctx context.Context) ([]model.SkillDef, error)
	GetAllLootTables(ctx context.Context) ([]model.LootEntry, error)
}

// GameData is the immutable definition registry, loaded once at
// startup and shared read-only between the tick thread and handlers.
type GameData struct {
	items    map[int32]model.ItemDef
	monsters map[int32]model.MonsterDef
	spawns   map[int32][]model.SpawnPoint
	skills   map[int32]model.SkillDef
	loot     map[int32][]model.LootEntry
}

// LoadGameData pulls every definition table from the data plane and
// indexes it for runtime lookup.
func LoadGameData(ctx context.Context, src GameDataSource) (*GameData, error) {
	items, err := src.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	monsters, err := src.GetAllMonsters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	spawns, err := src.GetAllSpawns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spawns: %w", err)
	}
	skills, err := src.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	loot, err := src.GetAllLootTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load loot tables: %w", err)
	}

	gd := &GameData{
		items:    make(map[int32]model.ItemDef, len(items)),
		monsters: make(map[int32]model.MonsterDef, len(monsters)),
		spawns:   make(map[int32][]model.SpawnPoint),
		skills:   make(map[int32]model.SkillDef, len(skills)),
		loot:     make(map[int32][]model.LootEntry),
	}
	for _, it := range items {
		gd.items[it.ID] = it
	}
	for _, m := range monsters {
		gd.monsters[m.ID] = m
	}
	for _, sp := range spawns {
		gd.spawns[sp.ZoneID] = append(gd.spawns[sp.ZoneID], sp)
	}
	for _, sk := range skills {
		gd.skills[sk.ID] = sk
	}
	for _, le := range loot {
		gd.loot[le.TableID] = append(gd.loot[le.TableID], le)
	}
	return gd, nil
}

// Item looks an item definition up by id.
func (gd *GameData) Item(id int32) (model.ItemDef, bool) {
	it, ok := gd.items[id]
	return it, ok
}

// Monster looks a monster definition up by id.
func (gd *GameData) Monster(id int32) (model.MonsterDef, bool) {
	m, ok := gd.monsters[id]
	return m, ok
}

// SpawnsIn returns the spawn points of one zone.
func (gd *GameData) SpawnsIn(zoneID int32) []model.SpawnPoint {
	return gd.spawns[zoneID]
}

// Skill looks a skill definition up by id.
func (gd *GameData) Skill(id int32) (model.SkillDef, bool) {
	sk, ok := gd.skills[id]
	return sk, ok
}

// LootTable returns the entries of one loot table, nil when the id is
// zero or unknown.
func (gd *GameData) LootTable(id int32) []model.LootEntry {
	if id == 0 {
		return nil
	}
	return gd.loot[id]
}

// Counts reports table sizes for the startup log line.
func (gd *GameData) Counts() (items, monsters, spawnZones, skills, lootTables int) {
	return len(gd.items), len(gd.monsters), len(gd.spawns), len(gd.skills), len(gd.loot)
}
