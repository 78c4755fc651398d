package dataservice

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flyagain/server/internal/model"
	"github.com/flyagain/server/internal/wire"
)

// InventoryService serves flyagain.InventoryData.
type InventoryService struct {
	log       *slog.Logger
	inventory inventoryStore
}

func (s *InventoryService) GetInventory(ctx context.Context, req *wire.GetByIDRequest) (*wire.ItemList, error) {
	items, err := s.inventory.LoadBag(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "InventoryData.GetInventory", err)
	}
	return itemList(items), nil
}

func (s *InventoryService) GetEquipment(ctx context.Context, req *wire.GetByIDRequest) (*wire.ItemList, error) {
	items, err := s.inventory.LoadEquipment(ctx, req.ID)
	if err != nil {
		return nil, rpcError(s.log, "InventoryData.GetEquipment", err)
	}
	return itemList(items), nil
}

func itemList(items []model.ItemInstance) *wire.ItemList {
	list := &wire.ItemList{Items: make([]wire.ItemRecord, 0, len(items))}
	for i := range items {
		list.Items = append(list.Items, *wire.ItemToRecord(&items[i]))
	}
	return list
}

func (s *InventoryService) MoveItem(ctx context.Context, req *wire.InventoryMoveRequest) (*wire.Ack, error) {
	if req.FromSlot < 0 || req.FromSlot >= model.BagSlots || req.ToSlot < 0 || req.ToSlot >= model.BagSlots {
		return nil, status.Error(codes.InvalidArgument, "bag slot out of range")
	}
	if req.FromSlot == req.ToSlot {
		return &wire.Ack{Ok: true}, nil
	}
	if err := s.inventory.Move(ctx, req.CharacterID, req.FromSlot, req.ToSlot); err != nil {
		return nil, rpcError(s.log, "InventoryData.MoveItem", err)
	}
	return &wire.Ack{Ok: true}, nil
}

func (s *InventoryService) AddItem(ctx context.Context, req *wire.InventoryAddRequest) (*wire.Ack, error) {
	if req.Quantity <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quantity must be positive")
	}
	if err := s.inventory.Add(ctx, req.CharacterID, req.ItemID, req.Quantity); err != nil {
		return nil, rpcError(s.log, "InventoryData.AddItem", err)
	}
	return &wire.Ack{Ok: true}, nil
}

func (s *InventoryService) RemoveItem(ctx context.Context, req *wire.InventoryRemoveRequest) (*wire.Ack, error) {
	if req.Quantity <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quantity must be positive")
	}
	if err := s.inventory.Remove(ctx, req.CharacterID, req.Slot, req.Quantity); err != nil {
		return nil, rpcError(s.log, "InventoryData.RemoveItem", err)
	}
	return &wire.Ack{Ok: true}, nil
}

func (s *InventoryService) EquipItem(ctx context.Context, req *wire.EquipRequest) (*wire.Ack, error) {
	if err := s.inventory.Equip(ctx, req.CharacterID, req.BagSlot); err != nil {
		return nil, rpcError(s.log, "InventoryData.EquipItem", err)
	}
	return &wire.Ack{Ok: true}, nil
}

func (s *InventoryService) UnequipItem(ctx context.Context, req *wire.UnequipRequest) (*wire.Ack, error) {
	if err := s.inventory.Unequip(ctx, req.CharacterID, req.EquipSlot); err != nil {
		return nil, rpcError(s.log, "InventoryData.UnequipItem", err)
	}
	return &wire.Ack{Ok: true}, nil
}
