package dataservice

import (
	"context"
	"log/slog"

	"github.com/flyagain/server/internal/wire"
)

// GameDataService serves flyagain.GameData, the static definition tables
// every world process loads once at startup.
type GameDataService struct {
	log      *slog.Logger
	gamedata gameDataStore
}

func (s *GameDataService) GetAllItems(ctx context.Context, _ *wire.Empty) (*wire.ItemDefList, error) {
	defs, err := s.gamedata.LoadItemDefs(ctx)
	if err != nil {
		return nil, rpcError(s.log, "GameData.GetAllItems", err)
	}
	list := &wire.ItemDefList{Items: make([]wire.ItemDefRecord, 0, len(defs))}
	for i := range defs {
		list.Items = append(list.Items, *wire.ItemDefToRecord(&defs[i]))
	}
	return list, nil
}

func (s *GameDataService) GetAllMonsters(ctx context.Context, _ *wire.Empty) (*wire.MonsterDefList, error) {
	defs, err := s.gamedata.LoadMonsterDefs(ctx)
	if err != nil {
		return nil, rpcError(s.log, "GameData.GetAllMonsters", err)
	}
	list := &wire.MonsterDefList{Monsters: make([]wire.MonsterDefRecord, 0, len(defs))}
	for i := range defs {
		list.Monsters = append(list.Monsters, *wire.MonsterDefToRecord(&defs[i]))
	}
	return list, nil
}

func (s *GameDataService) GetAllSpawns(ctx context.Context, _ *wire.Empty) (*wire.SpawnList, error) {
	spawns, err := s.gamedata.LoadSpawnPoints(ctx)
	if err != nil {
		return nil, rpcError(s.log, "GameData.GetAllSpawns", err)
	}
	list := &wire.SpawnList{Spawns: make([]wire.SpawnRecord, 0, len(spawns))}
	for i := range spawns {
		list.Spawns = append(list.Spawns, *wire.SpawnToRecord(&spawns[i]))
	}
	return list, nil
}

func (s *GameDataService) GetAllSkills(ctx context.Context, _ *wire.Empty) (*wire.SkillDefList, error) {
	defs, err := s.gamedata.LoadSkillDefs(ctx)
	if err != nil {
		return nil, rpcError(s.log, "GameData.GetAllSkills", err)
	}
	list := &wire.SkillDefList{Skills: make([]wire.SkillDefRecord, 0, len(defs))}
	for i := range defs {
		list.Skills = append(list.Skills, *wire.SkillDefToRecord(&defs[i]))
	}
	return list, nil
}

func (s *GameDataService) GetAllLootTables(ctx context.Context, _ *wire.Empty) (*wire.LootTableList, error) {
	entries, err := s.gamedata.LoadLootEntries(ctx)
	if err != nil {
		return nil, rpcError(s.log, "GameData.GetAllLootTables", err)
	}
	list := &wire.LootTableList{Entries: make([]wire.LootRecord, 0, len(entries))}
	for i := range entries {
		list.Entries = append(list.Entries, *wire.LootToRecord(&entries[i]))
	}
	return list, nil
}
