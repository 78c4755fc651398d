package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flyagain/server/internal/model"
)

// GameDataRepository loads the static definition tables. The world
// service fetches these once at startup through the data service.
type GameDataRepository struct {
	db *pgxpool.Pool
}

func NewGameDataRepository(pool *pgxpool.Pool) *GameDataRepository {
	return &GameDataRepository{db: pool}
}

func (r *GameDataRepository) LoadItemDefs(ctx context.Context) ([]model.ItemDef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, equip_slot, required_level, required_class,
		        attack_bonus, defense_bonus, stack_max, value
		 FROM item_defs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying item defs: %w", err)
	}
	defer rows.Close()

	var defs []model.ItemDef
	for rows.Next() {
		var d model.ItemDef
		err := rows.Scan(&d.ID, &d.Name, &d.EquipSlot, &d.RequiredLevel, &d.RequiredClass,
			&d.AttackBonus, &d.DefenseBonus, &d.StackMax, &d.Value)
		if err != nil {
			return nil, fmt.Errorf("scanning item def: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item defs: %w", err)
	}
	return defs, nil
}

func (r *GameDataRepository) LoadMonsterDefs(ctx context.Context) ([]model.MonsterDef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, level, max_hp, attack, defense, xp_reward,
		        aggro_range, attack_range, attack_speed_ms, move_speed,
		        respawn_ms, leash_distance, loot_table_id
		 FROM monster_defs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying monster defs: %w", err)
	}
	defer rows.Close()

	var defs []model.MonsterDef
	for rows.Next() {
		var d model.MonsterDef
		err := rows.Scan(&d.ID, &d.Name, &d.Level, &d.MaxHP, &d.Attack, &d.Defense, &d.XPReward,
			&d.AggroRange, &d.AttackRange, &d.AttackSpeedMs, &d.MoveSpeed,
			&d.RespawnMs, &d.LeashDistance, &d.LootTableID)
		if err != nil {
			return nil, fmt.Errorf("scanning monster def: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monster defs: %w", err)
	}
	return defs, nil
}

func (r *GameDataRepository) LoadSpawnPoints(ctx context.Context) ([]model.SpawnPoint, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, monster_id, zone_id, pos_x, pos_y, pos_z, radius, count
		 FROM spawn_points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying spawn points: %w", err)
	}
	defer rows.Close()

	var spawns []model.SpawnPoint
	for rows.Next() {
		var s model.SpawnPoint
		err := rows.Scan(&s.ID, &s.MonsterID, &s.ZoneID,
			&s.Pos.X, &s.Pos.Y, &s.Pos.Z, &s.Radius, &s.Count)
		if err != nil {
			return nil, fmt.Errorf("scanning spawn point: %w", err)
		}
		spawns = append(spawns, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn points: %w", err)
	}
	return spawns, nil
}

func (r *GameDataRepository) LoadSkillDefs(ctx context.Context) ([]model.SkillDef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, class_id, base_damage, damage_per_level,
		        cooldown_ms, mp_cost, required_level, cast_range
		 FROM skill_defs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying skill defs: %w", err)
	}
	defer rows.Close()

	var defs []model.SkillDef
	for rows.Next() {
		var d model.SkillDef
		err := rows.Scan(&d.ID, &d.Name, &d.ClassID, &d.BaseDamage, &d.DamagePerLevel,
			&d.CooldownMs, &d.MPCost, &d.RequiredLevel, &d.Range)
		if err != nil {
			return nil, fmt.Errorf("scanning skill def: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill defs: %w", err)
	}
	return defs, nil
}

func (r *GameDataRepository) LoadLootEntries(ctx context.Context) ([]model.LootEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT table_id, item_id, chance, min_quantity, max_quantity
		 FROM loot_entries ORDER BY table_id, item_id`)
	if err != nil {
		return nil, fmt.Errorf("querying loot entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LootEntry
	for rows.Next() {
		var e model.LootEntry
		err := rows.Scan(&e.TableID, &e.ItemID, &e.Chance, &e.MinQuantity, &e.MaxQuantity)
		if err != nil {
			return nil, fmt.Errorf("scanning loot entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loot entries: %w", err)
	}
	return entries, nil
}
