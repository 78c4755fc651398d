// Package dataservice hosts the RPC endpoint that owns PostgreSQL.
// Gateways never touch the relational store directly; everything goes
// through the four surfaces served here.
package dataservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/db"
	"github.com/flyagain/server/internal/model"
)

type accountStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetByID(ctx context.Context, accountID int64) (*model.Account, error)
	Create(ctx context.Context, username, email, passwordHash string) (*model.Account, error)
	UpdateLastLogin(ctx context.Context, accountID int64) error
}

type characterStore interface {
	LoadByID(ctx context.Context, characterID int64) (*model.Character, error)
	LoadByAccount(ctx context.Context, accountID int64) ([]*model.Character, error)
	Create(ctx context.Context, c *model.Character) error
	Save(ctx context.Context, c *model.Character) error
	Delete(ctx context.Context, characterID, accountID int64) error
	LoadSkills(ctx context.Context, characterID int64) ([]model.CharacterSkill, error)
}

type inventoryStore interface {
	LoadBag(ctx context.Context, characterID int64) ([]model.ItemInstance, error)
	LoadEquipment(ctx context.Context, characterID int64) ([]model.ItemInstance, error)
	Move(ctx context.Context, characterID int64, fromSlot, toSlot int32) error
	Add(ctx context.Context, characterID int64, itemID, quantity int32) error
	Remove(ctx context.Context, characterID int64, slot, quantity int32) error
	Equip(ctx context.Context, characterID int64, bagSlot int32) error
	Unequip(ctx context.Context, characterID int64, equipSlot int32) error
}

type gameDataStore interface {
	LoadItemDefs(ctx context.Context) ([]model.ItemDef, error)
	LoadMonsterDefs(ctx context.Context) ([]model.MonsterDef, error)
	LoadSpawnPoints(ctx context.Context) ([]model.SpawnPoint, error)
	LoadSkillDefs(ctx context.Context) ([]model.SkillDef, error)
	LoadLootEntries(ctx context.Context) ([]model.LootEntry, error)
}

// Services bundles the four RPC surfaces over one connection pool.
type Services struct {
	Account   *AccountService
	Character *CharacterService
	Inventory *InventoryService
	GameData  *GameDataService
}

func New(pool *pgxpool.Pool, log *slog.Logger) *Services {
	return &Services{
		Account:   &AccountService{log: log, accounts: db.NewAccountRepository(pool)},
		Character: &CharacterService{log: log, characters: db.NewCharacterRepository(pool)},
		Inventory: &InventoryService{log: log, inventory: db.NewInventoryRepository(pool)},
		GameData:  &GameDataService{log: log, gamedata: db.NewGameDataRepository(pool)},
	}
}

// rpcError maps repository sentinels onto status codes. Anything
// unrecognized is logged here and surfaced as a bare Internal so storage
// detail never crosses the RPC boundary.
func rpcError(log *slog.Logger, op string, err error) error {
	var rule *db.RuleError
	switch {
	case errors.As(err, &rule):
		return status.Error(codes.FailedPrecondition, rule.Msg)
	case errors.Is(err, db.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, db.ErrDuplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, db.ErrCharacterLimit):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, db.ErrBagFull):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	log.Error("rpc failed", "op", op, "error", err)
	return status.Error(codes.Internal, "storage failure")
}
