package rpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/wire"
)

// Sentinels mapped back from RPC status codes so gateway code can branch
// with errors.Is instead of unpacking grpc statuses.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrCharacterLimit = errors.New("character limit reached")
)

// Client is a typed facade over the data service connection. One Client is
// shared per gateway process; gRPC multiplexes calls over the transport.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the data service at target. The connection is lazy, the
// first RPC establishes the transport.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to data service at %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Rejection reports whether err is a business rejection whose message may
// be shown to the player, as opposed to an infrastructure failure.
func Rejection(err error) (string, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return "", false
	}
	switch st.Code() {
	case codes.NotFound, codes.AlreadyExists, codes.FailedPrecondition, codes.InvalidArgument:
		return st.Message(), true
	}
	return "", false
}

// GetAccountByUsername returns nil without error when no such account
// exists.
func (c *Client) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	resp := new(wire.AccountRecord)
	err := c.conn.Invoke(ctx, "/"+accountDataService+"/GetByUsername", &wire.GetByUsernameRequest{Username: username}, resp)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp.Model(), nil
}

// GetAccountByID returns nil without error when no such account exists.
func (c *Client) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	resp := new(wire.AccountRecord)
	err := c.conn.Invoke(ctx, "/"+accountDataService+"/GetById", &wire.GetByIDRequest{ID: id}, resp)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp.Model(), nil
}

// CreateAccount reports ErrAlreadyExists when the username is taken.
func (c *Client) CreateAccount(ctx context.Context, username, email, passwordHash string) (*model.Account, error) {
	req := &wire.CreateAccountRequest{Username: username, Email: email, PasswordHash: passwordHash}
	resp := new(wire.AccountRecord)
	if err := c.conn.Invoke(ctx, "/"+accountDataService+"/Create", req, resp); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, status.Convert(err).Message())
		}
		return nil, err
	}
	return resp.Model(), nil
}

func (c *Client) UpdateLastLogin(ctx context.Context, accountID int64) error {
	return c.conn.Invoke(ctx, "/"+accountDataService+"/UpdateLastLogin", &wire.GetByIDRequest{ID: accountID}, new(wire.Ack))
}

func (c *Client) CheckBan(ctx context.Context, accountID int64) (*wire.CheckBanResponse, error) {
	resp := new(wire.CheckBanResponse)
	if err := c.conn.Invoke(ctx, "/"+accountDataService+"/CheckBan", &wire.GetByIDRequest{ID: accountID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetCharactersByAccount(ctx context.Context, accountID int64) ([]model.Character, error) {
	resp := new(wire.CharacterList)
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/GetByAccount", &wire.GetByIDRequest{ID: accountID}, resp); err != nil {
		return nil, err
	}
	chars := make([]model.Character, 0, len(resp.Characters))
	for i := range resp.Characters {
		chars = append(chars, *resp.Characters[i].Model())
	}
	return chars, nil
}

// GetCharacter returns nil without error when the character does not exist
// or belongs to a different account.
func (c *Client) GetCharacter(ctx context.Context, characterID, accountID int64) (*model.Character, error) {
	req := &wire.GetCharacterRequest{CharacterID: characterID, AccountID: accountID}
	resp := new(wire.CharacterRecord)
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/Get", req, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return resp.Model(), nil
}

// CreateCharacter reports ErrAlreadyExists for a taken name and
// ErrCharacterLimit when the account roster is full.
func (c *Client) CreateCharacter(ctx context.Context, accountID int64, name string, classID model.ClassID) (*model.Character, error) {
	req := &wire.CreateCharacterRequest{AccountID: accountID, Name: name, ClassID: int32(classID)}
	resp := new(wire.CharacterRecord)
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/Create", req, resp); err != nil {
		switch status.Code(err) {
		case codes.AlreadyExists:
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, status.Convert(err).Message())
		case codes.ResourceExhausted:
			return nil, ErrCharacterLimit
		}
		return nil, err
	}
	return resp.Model(), nil
}

// SaveCharacter reports ErrNotFound when the character row is gone.
func (c *Client) SaveCharacter(ctx context.Context, ch *model.Character) error {
	req := &wire.SaveCharacterRequest{Character: wire.CharacterToRecord(ch)}
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/Save", req, new(wire.Ack)); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: character %d", ErrNotFound, ch.ID)
		}
		return err
	}
	return nil
}

// DeleteCharacter reports ErrNotFound when the character does not exist or
// belongs to a different account.
func (c *Client) DeleteCharacter(ctx context.Context, characterID, accountID int64) error {
	req := &wire.DeleteCharacterRequest{CharacterID: characterID, AccountID: accountID}
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/Delete", req, new(wire.Ack)); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: character %d", ErrNotFound, characterID)
		}
		return err
	}
	return nil
}

func (c *Client) GetCharacterSkills(ctx context.Context, characterID int64) ([]model.CharacterSkill, error) {
	resp := new(wire.CharacterSkillList)
	if err := c.conn.Invoke(ctx, "/"+characterDataService+"/GetSkills", &wire.GetByIDRequest{ID: characterID}, resp); err != nil {
		return nil, err
	}
	skills := make([]model.CharacterSkill, 0, len(resp.Skills))
	for _, s := range resp.Skills {
		skills = append(skills, model.CharacterSkill{CharacterID: characterID, SkillID: s.SkillID, Level: s.Level})
	}
	return skills, nil
}

func (c *Client) GetInventory(ctx context.Context, characterID int64) ([]model.ItemInstance, error) {
	return c.itemList(ctx, "/"+inventoryDataService+"/GetInventory", characterID)
}

func (c *Client) GetEquipment(ctx context.Context, characterID int64) ([]model.ItemInstance, error) {
	return c.itemList(ctx, "/"+inventoryDataService+"/GetEquipment", characterID)
}

func (c *Client) itemList(ctx context.Context, method string, characterID int64) ([]model.ItemInstance, error) {
	resp := new(wire.ItemList)
	if err := c.conn.Invoke(ctx, method, &wire.GetByIDRequest{ID: characterID}, resp); err != nil {
		return nil, err
	}
	items := make([]model.ItemInstance, 0, len(resp.Items))
	for i := range resp.Items {
		items = append(items, *resp.Items[i].Model())
	}
	return items, nil
}

// Inventory mutations return the RPC error untouched. Callers show the
// player a message when Rejection reports one.

func (c *Client) MoveItem(ctx context.Context, characterID int64, fromSlot, toSlot int32) error {
	req := &wire.InventoryMoveRequest{CharacterID: characterID, FromSlot: fromSlot, ToSlot: toSlot}
	return c.conn.Invoke(ctx, "/"+inventoryDataService+"/MoveItem", req, new(wire.Ack))
}

func (c *Client) AddItem(ctx context.Context, characterID int64, itemID, quantity int32) error {
	req := &wire.InventoryAddRequest{CharacterID: characterID, ItemID: itemID, Quantity: quantity}
	return c.conn.Invoke(ctx, "/"+inventoryDataService+"/AddItem", req, new(wire.Ack))
}

func (c *Client) RemoveItem(ctx context.Context, characterID int64, slot, quantity int32) error {
	req := &wire.InventoryRemoveRequest{CharacterID: characterID, Slot: slot, Quantity: quantity}
	return c.conn.Invoke(ctx, "/"+inventoryDataService+"/RemoveItem", req, new(wire.Ack))
}

func (c *Client) EquipItem(ctx context.Context, characterID int64, bagSlot int32) error {
	req := &wire.EquipRequest{CharacterID: characterID, BagSlot: bagSlot}
	return c.conn.Invoke(ctx, "/"+inventoryDataService+"/EquipItem", req, new(wire.Ack))
}

func (c *Client) UnequipItem(ctx context.Context, characterID int64, equipSlot int32) error {
	req := &wire.UnequipRequest{CharacterID: characterID, EquipSlot: equipSlot}
	return c.conn.Invoke(ctx, "/"+inventoryDataService+"/UnequipItem", req, new(wire.Ack))
}

func (c *Client) GetAllItems(ctx context.Context) ([]model.ItemDef, error) {
	resp := new(wire.ItemDefList)
	if err := c.conn.Invoke(ctx, "/"+gameDataService+"/GetAllItems", new(wire.Empty), resp); err != nil {
		return nil, err
	}
	defs := make([]model.ItemDef, 0, len(resp.Items))
	for i := range resp.Items {
		defs = append(defs, *resp.Items[i].Model())
	}
	return defs, nil
}

func (c *Client) GetAllMonsters(ctx context.Context) ([]model.MonsterDef, error) {
	resp := new(wire.MonsterDefList)
	if err := c.conn.Invoke(ctx, "/"+gameDataService+"/GetAllMonsters", new(wire.Empty), resp); err != nil {
		return nil, err
	}
	defs := make([]model.MonsterDef, 0, len(resp.Monsters))
	for i := range resp.Monsters {
		defs = append(defs, *resp.Monsters[i].Model())
	}
	return defs, nil
}

func (c *Client) GetAllSpawns(ctx context.Context) ([]model.SpawnPoint, error) {
	resp := new(wire.SpawnList)
	if err := c.conn.Invoke(ctx, "/"+gameDataService+"/GetAllSpawns", new(wire.Empty), resp); err != nil {
		return nil, err
	}
	spawns := make([]model.SpawnPoint, 0, len(resp.Spawns))
	for i := range resp.Spawns {
		spawns = append(spawns, *resp.Spawns[i].Model())
	}
	return spawns, nil
}

func (c *Client) GetAllSkills(ctx context.Context) ([]model.SkillDef, error) {
	resp := new(wire.SkillDefList)
	if err := c.conn.Invoke(ctx, "/"+gameDataService+"/GetAllSkills", new(wire.Empty), resp); err != nil {
		return nil, err
	}
	defs := make([]model.SkillDef, 0, len(resp.Skills))
	for i := range resp.Skills {
		defs = append(defs, *resp.Skills[i].Model())
	}
	return defs, nil
}

func (c *Client) GetAllLootTables(ctx context.Context) ([]model.LootEntry, error) {
	resp := new(wire.LootTableList)
	if err := c.conn.Invoke(ctx, "/"+gameDataService+"/GetAllLootTables", new(wire.Empty), resp); err != nil {
		return nil, err
	}
	entries := make([]model.LootEntry, 0, len(resp.Entries))
	for i := range resp.Entries {
		entries = append(entries, *resp.Entries[i].Model())
	}
	return entries, nil
}
