package dataservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/db"
	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/wire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAccounts struct {
	byID      map[int64]*model.Account
	createErr error
}

func (f *fakeAccounts) GetByUsername(context.Context, string) (*model.Account, error) {
	return nil, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*model.Account, error) {
	return f.byID[id], nil
}

func (f *fakeAccounts) Create(_ context.Context, username, email, hash string) (*model.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Account{ID: 1, Username: username, Email: email, PasswordHash: hash}, nil
}

func (f *fakeAccounts) UpdateLastLogin(context.Context, int64) error { return nil }

type fakeCharacters struct {
	byID      map[int64]*model.Character
	created   []*model.Character
	saved     []*model.Character
	createErr error
	saveErr   error
}

func (f *fakeCharacters) LoadByID(_ context.Context, id int64) (*model.Character, error) {
	return f.byID[id], nil
}

func (f *fakeCharacters) LoadByAccount(context.Context, int64) ([]*model.Character, error) {
	return nil, nil
}

func (f *fakeCharacters) Create(_ context.Context, c *model.Character) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = int64(len(f.created) + 1)
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCharacters) Save(_ context.Context, c *model.Character) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, c)
	return nil
}

func (f *fakeCharacters) Delete(context.Context, int64, int64) error { return nil }

func (f *fakeCharacters) LoadSkills(context.Context, int64) ([]model.CharacterSkill, error) {
	return nil, nil
}

type fakeInventory struct {
	moves [][2]int32
}

func (f *fakeInventory) LoadBag(context.Context, int64) ([]model.ItemInstance, error) {
	return nil, nil
}

func (f *fakeInventory) LoadEquipment(context.Context, int64) ([]model.ItemInstance, error) {
	return nil, nil
}

func (f *fakeInventory) Move(_ context.Context, _ int64, from, to int32) error {
	f.moves = append(f.moves, [2]int32{from, to})
	return nil
}

func (f *fakeInventory) Add(context.Context, int64, int32, int32) error    { return nil }
func (f *fakeInventory) Remove(context.Context, int64, int32, int32) error { return nil }
func (f *fakeInventory) Equip(context.Context, int64, int32) error         { return nil }
func (f *fakeInventory) Unequip(context.Context, int64, int32) error       { return nil }

func TestCheckBanStates(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	accounts := &fakeAccounts{byID: map[int64]*model.Account{
		1: {ID: 1, Banned: true, BanReason: "permanent"},
		2: {ID: 2, Banned: true, BanReason: "temporary", BanUntil: &future},
		3: {ID: 3, Banned: true, BanReason: "elapsed", BanUntil: &past},
		4: {ID: 4},
	}}
	svc := &AccountService{log: discardLogger(), accounts: accounts}

	resp, err := svc.CheckBan(context.Background(), &wire.GetByIDRequest{ID: 1})
	require.NoError(t, err)
	assert.True(t, resp.Banned)
	assert.Equal(t, "permanent", resp.Reason)
	assert.Zero(t, resp.BanUntil)

	resp, err = svc.CheckBan(context.Background(), &wire.GetByIDRequest{ID: 2})
	require.NoError(t, err)
	assert.True(t, resp.Banned)
	assert.Equal(t, future.Unix(), resp.BanUntil)

	resp, err = svc.CheckBan(context.Background(), &wire.GetByIDRequest{ID: 3})
	require.NoError(t, err)
	assert.False(t, resp.Banned)
	assert.Empty(t, resp.Reason)

	resp, err = svc.CheckBan(context.Background(), &wire.GetByIDRequest{ID: 4})
	require.NoError(t, err)
	assert.False(t, resp.Banned)

	_, err = svc.CheckBan(context.Background(), &wire.GetByIDRequest{ID: 99})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestCreateCharacterComposition(t *testing.T) {
	chars := &fakeCharacters{}
	svc := &CharacterService{log: discardLogger(), characters: chars}

	rec, err := svc.Create(context.Background(), &wire.CreateCharacterRequest{
		AccountID: 7,
		Name:      "Gralf",
		ClassID:   int32(model.ClassKrieger),
	})
	require.NoError(t, err)
	require.Len(t, chars.created, 1)

	c := chars.created[0]
	assert.Equal(t, int64(7), c.AccountID)
	assert.Equal(t, int32(1), c.Level)
	assert.Equal(t, int32(14), c.Strength)
	assert.Equal(t, int32(12), c.Stamina)
	assert.Equal(t, int32(170), c.MaxHP) // 50 + 12*10
	assert.Equal(t, int32(40), c.MaxMP)  // 20 + 4*5
	assert.Equal(t, c.MaxHP, c.HP)
	assert.Equal(t, c.MaxMP, c.MP)
	assert.Equal(t, int32(1), c.MapID)
	assert.Equal(t, model.TownSpawn, c.Pos)
	assert.Zero(t, c.XP)
	assert.Zero(t, c.StatPoints)

	assert.Equal(t, c.ID, rec.ID)
	assert.Equal(t, "Gralf", rec.Name)
}

func TestCreateCharacterValidation(t *testing.T) {
	svc := &CharacterService{log: discardLogger(), characters: &fakeCharacters{}}

	_, err := svc.Create(context.Background(), &wire.CreateCharacterRequest{Name: "Gralf", ClassID: 9})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Create(context.Background(), &wire.CreateCharacterRequest{Name: "7up", ClassID: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Create(context.Background(), &wire.CreateCharacterRequest{Name: "x", ClassID: 1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCreateCharacterStoreErrors(t *testing.T) {
	dup := &CharacterService{log: discardLogger(), characters: &fakeCharacters{
		createErr: db.ErrDuplicate,
	}}
	_, err := dup.Create(context.Background(), &wire.CreateCharacterRequest{Name: "Gralf", ClassID: 1})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	full := &CharacterService{log: discardLogger(), characters: &fakeCharacters{
		createErr: db.ErrCharacterLimit,
	}}
	_, err = full.Create(context.Background(), &wire.CreateCharacterRequest{Name: "Gralf", ClassID: 1})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestGetEnforcesOwnership(t *testing.T) {
	chars := &fakeCharacters{byID: map[int64]*model.Character{
		5: {ID: 5, AccountID: 7, Name: "Falka"},
	}}
	svc := &CharacterService{log: discardLogger(), characters: chars}

	rec, err := svc.Get(context.Background(), &wire.GetCharacterRequest{CharacterID: 5, AccountID: 7})
	require.NoError(t, err)
	assert.Equal(t, "Falka", rec.Name)

	_, err = svc.Get(context.Background(), &wire.GetCharacterRequest{CharacterID: 5, AccountID: 8})
	assert.Equal(t, codes.NotFound, status.Code(err))

	// Zero account id skips the ownership assertion.
	rec, err = svc.Get(context.Background(), &wire.GetCharacterRequest{CharacterID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.ID)

	_, err = svc.Get(context.Background(), &wire.GetCharacterRequest{CharacterID: 6})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestSaveClampsVitals(t *testing.T) {
	chars := &fakeCharacters{}
	svc := &CharacterService{log: discardLogger(), characters: chars}

	_, err := svc.Save(context.Background(), &wire.SaveCharacterRequest{Character: &wire.CharacterRecord{
		ID: 5, HP: 9999, MaxHP: 170, MP: -3, MaxMP: 40,
	}})
	require.NoError(t, err)
	require.Len(t, chars.saved, 1)
	assert.Equal(t, int32(170), chars.saved[0].HP)
	assert.Equal(t, int32(0), chars.saved[0].MP)

	_, err = svc.Save(context.Background(), &wire.SaveCharacterRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Save(context.Background(), &wire.SaveCharacterRequest{Character: &wire.CharacterRecord{}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMoveItemValidation(t *testing.T) {
	inv := &fakeInventory{}
	svc := &InventoryService{log: discardLogger(), inventory: inv}

	_, err := svc.MoveItem(context.Background(), &wire.InventoryMoveRequest{CharacterID: 1, FromSlot: 0, ToSlot: 40})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.MoveItem(context.Background(), &wire.InventoryMoveRequest{CharacterID: 1, FromSlot: -1, ToSlot: 2})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// Same-slot moves are a no-op, not a storage call.
	ack, err := svc.MoveItem(context.Background(), &wire.InventoryMoveRequest{CharacterID: 1, FromSlot: 3, ToSlot: 3})
	require.NoError(t, err)
	assert.True(t, ack.Ok)
	assert.Empty(t, inv.moves)

	ack, err = svc.MoveItem(context.Background(), &wire.InventoryMoveRequest{CharacterID: 1, FromSlot: 3, ToSlot: 4})
	require.NoError(t, err)
	assert.True(t, ack.Ok)
	assert.Equal(t, [][2]int32{{3, 4}}, inv.moves)
}

func TestRPCErrorMapping(t *testing.T) {
	log := discardLogger()

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"not found", db.ErrNotFound, codes.NotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), db.ErrNotFound), codes.NotFound},
		{"duplicate", db.ErrDuplicate, codes.AlreadyExists},
		{"character limit", db.ErrCharacterLimit, codes.ResourceExhausted},
		{"bag full", db.ErrBagFull, codes.FailedPrecondition},
		{"rule violation", &db.RuleError{Msg: "item requires level 8, character is 3"}, codes.FailedPrecondition},
		{"unknown", errors.New("connection reset"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rpcError(log, "test", tt.err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	// Rule violations surface their message untouched; internals never do.
	err := rpcError(log, "test", &db.RuleError{Msg: "item is restricted to another class"})
	assert.Equal(t, "item is restricted to another class", status.Convert(err).Message())

	err = rpcError(log, "test", errors.New("pq: connection reset by peer"))
	assert.Equal(t, "storage failure", status.Convert(err).Message())
}
