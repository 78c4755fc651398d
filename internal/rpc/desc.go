package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/flyagain/server/internal/wire"
)

// AccountDataServer answers account lookups for the login gateway.
type AccountDataServer interface {
	GetByUsername(context.Context, *wire.GetByUsernameRequest) (*wire.AccountRecord, error)
	GetByID(context.Context, *wire.GetByIDRequest) (*wire.AccountRecord, error)
	Create(context.Context, *wire.CreateAccountRequest) (*wire.AccountRecord, error)
	UpdateLastLogin(context.Context, *wire.GetByIDRequest) (*wire.Ack, error)
	CheckBan(context.Context, *wire.GetByIDRequest) (*wire.CheckBanResponse, error)
}

// CharacterDataServer answers character CRUD for the account and world
// gateways.
type CharacterDataServer interface {
	GetByAccount(context.Context, *wire.GetByIDRequest) (*wire.CharacterList, error)
	Get(context.Context, *wire.GetCharacterRequest) (*wire.CharacterRecord, error)
	Create(context.Context, *wire.CreateCharacterRequest) (*wire.CharacterRecord, error)
	Save(context.Context, *wire.SaveCharacterRequest) (*wire.Ack, error)
	Delete(context.Context, *wire.DeleteCharacterRequest) (*wire.Ack, error)
	GetSkills(context.Context, *wire.GetByIDRequest) (*wire.CharacterSkillList, error)
}

// InventoryDataServer answers bag and equipment operations for the world
// gateway.
type InventoryDataServer interface {
	GetInventory(context.Context, *wire.GetByIDRequest) (*wire.ItemList, error)
	GetEquipment(context.Context, *wire.GetByIDRequest) (*wire.ItemList, error)
	MoveItem(context.Context, *wire.InventoryMoveRequest) (*wire.Ack, error)
	AddItem(context.Context, *wire.InventoryAddRequest) (*wire.Ack, error)
	RemoveItem(context.Context, *wire.InventoryRemoveRequest) (*wire.Ack, error)
	EquipItem(context.Context, *wire.EquipRequest) (*wire.Ack, error)
	UnequipItem(context.Context, *wire.UnequipRequest) (*wire.Ack, error)
}

// GameDataServer serves the static definition tables the world loads at
// startup.
type GameDataServer interface {
	GetAllItems(context.Context, *wire.Empty) (*wire.ItemDefList, error)
	GetAllMonsters(context.Context, *wire.Empty) (*wire.MonsterDefList, error)
	GetAllSpawns(context.Context, *wire.Empty) (*wire.SpawnList, error)
	GetAllSkills(context.Context, *wire.Empty) (*wire.SkillDefList, error)
	GetAllLootTables(context.Context, *wire.Empty) (*wire.LootTableList, error)
}

// method builds a unary grpc.MethodDesc from a server method expression.
// The request type is allocated fresh per call and decoded by the flywire
// codec before the server method runs.
func method[S any, Req any, Resp any, PReq interface {
	*Req
	wire.Message
}](service, name string, call func(S, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	handler := func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(PReq))
		})
	}
	return grpc.MethodDesc{MethodName: name, Handler: handler}
}

const (
	accountDataService   = "flyagain.AccountData"
	characterDataService = "flyagain.CharacterData"
	inventoryDataService = "flyagain.InventoryData"
	gameDataService      = "flyagain.GameData"
)

var accountDataDesc = grpc.ServiceDesc{
	ServiceName: accountDataService,
	HandlerType: (*AccountDataServer)(nil),
	Methods: []grpc.MethodDesc{
		method(accountDataService, "GetByUsername", AccountDataServer.GetByUsername),
		method(accountDataService, "GetById", AccountDataServer.GetByID),
		method(accountDataService, "Create", AccountDataServer.Create),
		method(accountDataService, "UpdateLastLogin", AccountDataServer.UpdateLastLogin),
		method(accountDataService, "CheckBan", AccountDataServer.CheckBan),
	},
}

var characterDataDesc = grpc.ServiceDesc{
	ServiceName: characterDataService,
	HandlerType: (*CharacterDataServer)(nil),
	Methods: []grpc.MethodDesc{
		method(characterDataService, "GetByAccount", CharacterDataServer.GetByAccount),
		method(characterDataService, "Get", CharacterDataServer.Get),
		method(characterDataService, "Create", CharacterDataServer.Create),
		method(characterDataService, "Save", CharacterDataServer.Save),
		method(characterDataService, "Delete", CharacterDataServer.Delete),
		method(characterDataService, "GetSkills", CharacterDataServer.GetSkills),
	},
}

var inventoryDataDesc = grpc.ServiceDesc{
	ServiceName: inventoryDataService,
	HandlerType: (*InventoryDataServer)(nil),
	Methods: []grpc.MethodDesc{
		method(inventoryDataService, "GetInventory", InventoryDataServer.GetInventory),
		method(inventoryDataService, "GetEquipment", InventoryDataServer.GetEquipment),
		method(inventoryDataService, "MoveItem", InventoryDataServer.MoveItem),
		method(inventoryDataService, "AddItem", InventoryDataServer.AddItem),
		method(inventoryDataService, "RemoveItem", InventoryDataServer.RemoveItem),
		method(inventoryDataService, "EquipItem", InventoryDataServer.EquipItem),
		method(inventoryDataService, "UnequipItem", InventoryDataServer.UnequipItem),
	},
}

var gameDataDesc = grpc.ServiceDesc{
	ServiceName: gameDataService,
	HandlerType: (*GameDataServer)(nil),
	Methods: []grpc.MethodDesc{
		method(gameDataService, "GetAllItems", GameDataServer.GetAllItems),
		method(gameDataService, "GetAllMonsters", GameDataServer.GetAllMonsters),
		method(gameDataService, "GetAllSpawns", GameDataServer.GetAllSpawns),
		method(gameDataService, "GetAllSkills", GameDataServer.GetAllSkills),
		method(gameDataService, "GetAllLootTables", GameDataServer.GetAllLootTables),
	},
}

// RegisterAccountData attaches srv to s under flyagain.AccountData.
func RegisterAccountData(s *grpc.Server, srv AccountDataServer) {
	s.RegisterService(&accountDataDesc, srv)
}

// RegisterCharacterData attaches srv to s under flyagain.CharacterData.
func RegisterCharacterData(s *grpc.Server, srv CharacterDataServer) {
	s.RegisterService(&characterDataDesc, srv)
}

// RegisterInventoryData attaches srv to s under flyagain.InventoryData.
func RegisterInventoryData(s *grpc.Server, srv InventoryDataServer) {
	s.RegisterService(&inventoryDataDesc, srv)
}

// RegisterGameData attaches srv to s under flyagain.GameData.
func RegisterGameData(s *grpc.Server, srv GameDataServer) {
	s.RegisterService(&gameDataDesc, srv)
}
