package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flyagain/server/internal/model"
)

// InventoryRepository manages bag and equipment rows. Bag slots are
// 0..39; equipped rows have equip_slot != 0 and an unused bag slot.
// Multi-row moves stage through slot -1 so the partial unique indexes
// hold inside the transaction.
type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: pool}
}

const inventoryColumns = `id, character_id, item_id, slot, quantity, equip_slot`

func (r *InventoryRepository) loadWhere(ctx context.Context, cond string, characterID int64) ([]model.ItemInstance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory
		 WHERE character_id = $1 AND `+cond+` ORDER BY slot, equip_slot`, characterID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory for character %d: %w", characterID, err)
	}
	defer rows.Close()

	var items []model.ItemInstance
	for rows.Next() {
		var it model.ItemInstance
		if err := rows.Scan(&it.ID, &it.CharacterID, &it.ItemID, &it.Slot, &it.Quantity, &it.EquipSlot); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory rows: %w", err)
	}
	return items, nil
}

// LoadBag returns the character's bag contents ordered by slot.
func (r *InventoryRepository) LoadBag(ctx context.Context, characterID int64) ([]model.ItemInstance, error) {
	return r.loadWhere(ctx, "equip_slot = 0", characterID)
}

// LoadEquipment returns the character's equipped items.
func (r *InventoryRepository) LoadEquipment(ctx context.Context, characterID int64) ([]model.ItemInstance, error) {
	return r.loadWhere(ctx, "equip_slot <> 0", characterID)
}

// Move relocates a bag stack, swapping when the target slot is taken.
func (r *InventoryRepository) Move(ctx context.Context, characterID int64, fromSlot, toSlot int32) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory move: %w", err)
	}
	defer tx.Rollback(ctx)

	var fromID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM inventory
		 WHERE character_id = $1 AND slot = $2 AND equip_slot = 0 FOR UPDATE`,
		characterID, fromSlot,
	).Scan(&fromID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("bag slot %d: %w", fromSlot, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking source slot %d: %w", fromSlot, err)
	}

	var toID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM inventory
		 WHERE character_id = $1 AND slot = $2 AND equip_slot = 0 FOR UPDATE`,
		characterID, toSlot,
	).Scan(&toID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET slot = $2 WHERE id = $1`, fromID, toSlot); err != nil {
			return fmt.Errorf("moving stack to slot %d: %w", toSlot, err)
		}
	case err != nil:
		return fmt.Errorf("locking target slot %d: %w", toSlot, err)
	default:
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET slot = -1 WHERE id = $1`, fromID); err != nil {
			return fmt.Errorf("staging swap: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET slot = $2 WHERE id = $1`, toID, fromSlot); err != nil {
			return fmt.Errorf("swapping into slot %d: %w", fromSlot, err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET slot = $2 WHERE id = $1`, fromID, toSlot); err != nil {
			return fmt.Errorf("swapping into slot %d: %w", toSlot, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory move: %w", err)
	}
	return nil
}

// Add grants quantity of an item, topping up existing stacks first and
// then filling empty bag slots. Fails with ErrBagFull when the grant
// does not fit; nothing is written in that case.
func (r *InventoryRepository) Add(ctx context.Context, characterID int64, itemID, quantity int32) error {
	if quantity <= 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory add: %w", err)
	}
	defer tx.Rollback(ctx)

	var stackMax int32
	err = tx.QueryRow(ctx,
		`SELECT stack_max FROM item_defs WHERE id = $1`, itemID).Scan(&stackMax)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("item def %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading item def %d: %w", itemID, err)
	}
	if stackMax < 1 {
		stackMax = 1
	}

	type stack struct {
		id       int64
		quantity int32
	}
	var stacks []stack
	rows, err := tx.Query(ctx,
		`SELECT id, quantity FROM inventory
		 WHERE character_id = $1 AND item_id = $2 AND equip_slot = 0 AND quantity < $3
		 ORDER BY slot FOR UPDATE`,
		characterID, itemID, stackMax)
	if err != nil {
		return fmt.Errorf("locking stacks of item %d: %w", itemID, err)
	}
	for rows.Next() {
		var s stack
		if err := rows.Scan(&s.id, &s.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("scanning stack row: %w", err)
		}
		stacks = append(stacks, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating stack rows: %w", err)
	}

	remaining := quantity
	for _, s := range stacks {
		if remaining == 0 {
			break
		}
		add := stackMax - s.quantity
		if add > remaining {
			add = remaining
		}
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET quantity = quantity + $2 WHERE id = $1`, s.id, add); err != nil {
			return fmt.Errorf("topping up stack %d: %w", s.id, err)
		}
		remaining -= add
	}

	if remaining > 0 {
		occupied := make(map[int32]bool, model.BagSlots)
		slotRows, err := tx.Query(ctx,
			`SELECT slot FROM inventory WHERE character_id = $1 AND equip_slot = 0`, characterID)
		if err != nil {
			return fmt.Errorf("reading occupied slots: %w", err)
		}
		for slotRows.Next() {
			var slot int32
			if err := slotRows.Scan(&slot); err != nil {
				slotRows.Close()
				return fmt.Errorf("scanning slot row: %w", err)
			}
			occupied[slot] = true
		}
		slotRows.Close()
		if err := slotRows.Err(); err != nil {
			return fmt.Errorf("iterating slot rows: %w", err)
		}

		for slot := int32(0); slot < model.BagSlots && remaining > 0; slot++ {
			if occupied[slot] {
				continue
			}
			put := remaining
			if put > stackMax {
				put = stackMax
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO inventory (character_id, item_id, slot, quantity, equip_slot)
				 VALUES ($1, $2, $3, $4, 0)`,
				characterID, itemID, slot, put); err != nil {
				return fmt.Errorf("inserting stack into slot %d: %w", slot, err)
			}
			remaining -= put
		}
		if remaining > 0 {
			return fmt.Errorf("granting %d of item %d: %w", quantity, itemID, ErrBagFull)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory add: %w", err)
	}
	return nil
}

// Remove takes quantity from a bag slot, deleting the row when it hits zero.
func (r *InventoryRepository) Remove(ctx context.Context, characterID int64, slot, quantity int32) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory remove: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		id  int64
		qty int32
	)
	err = tx.QueryRow(ctx,
		`SELECT id, quantity FROM inventory
		 WHERE character_id = $1 AND slot = $2 AND equip_slot = 0 FOR UPDATE`,
		characterID, slot,
	).Scan(&id, &qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("bag slot %d: %w", slot, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking bag slot %d: %w", slot, err)
	}
	if qty < quantity {
		return ruleErrorf("removing %d from slot %d: only %d present", quantity, slot, qty)
	}

	if qty == quantity {
		_, err = tx.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE inventory SET quantity = quantity - $2 WHERE id = $1`, id, quantity)
	}
	if err != nil {
		return fmt.Errorf("removing from slot %d: %w", slot, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory remove: %w", err)
	}
	return nil
}

// Equip moves a bag item into its equipment slot, swapping any current
// occupant back into the freed bag slot. Level and class requirements
// are checked against the character row.
func (r *InventoryRepository) Equip(ctx context.Context, characterID int64, bagSlot int32) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning equip: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		itemRowID     int64
		defEquipSlot  int32
		requiredLevel int32
		requiredClass int32
	)
	err = tx.QueryRow(ctx,
		`SELECT i.id, d.equip_slot, d.required_level, d.required_class
		 FROM inventory i JOIN item_defs d ON d.id = i.item_id
		 WHERE i.character_id = $1 AND i.slot = $2 AND i.equip_slot = 0
		 FOR UPDATE OF i`,
		characterID, bagSlot,
	).Scan(&itemRowID, &defEquipSlot, &requiredLevel, &requiredClass)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("bag slot %d: %w", bagSlot, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking bag slot %d: %w", bagSlot, err)
	}
	if defEquipSlot == 0 {
		return ruleErrorf("item in slot %d is not equippable", bagSlot)
	}

	var (
		level   int32
		classID int32
	)
	err = tx.QueryRow(ctx,
		`SELECT level, class_id FROM characters WHERE id = $1`, characterID,
	).Scan(&level, &classID)
	if err != nil {
		return fmt.Errorf("reading character %d: %w", characterID, err)
	}
	if level < requiredLevel {
		return ruleErrorf("item requires level %d, character is %d", requiredLevel, level)
	}
	if requiredClass != 0 && requiredClass != classID {
		return ruleErrorf("item is restricted to another class")
	}

	var occupantID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM inventory
		 WHERE character_id = $1 AND equip_slot = $2 FOR UPDATE`,
		characterID, defEquipSlot,
	).Scan(&occupantID)
	hasOccupant := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("locking equip slot %d: %w", defEquipSlot, err)
	}

	if hasOccupant {
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET equip_slot = -1 WHERE id = $1`, itemRowID); err != nil {
			return fmt.Errorf("staging equip: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE inventory SET equip_slot = 0, slot = $2 WHERE id = $1`,
			occupantID, bagSlot); err != nil {
			return fmt.Errorf("unequipping occupant: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE inventory SET equip_slot = $2, slot = 0 WHERE id = $1`,
		itemRowID, defEquipSlot); err != nil {
		return fmt.Errorf("equipping item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing equip: %w", err)
	}
	return nil
}

// Unequip moves an equipped item into the first free bag slot.
func (r *InventoryRepository) Unequip(ctx context.Context, characterID int64, equipSlot int32) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning unequip: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemRowID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM inventory
		 WHERE character_id = $1 AND equip_slot = $2 FOR UPDATE`,
		characterID, equipSlot,
	).Scan(&itemRowID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("equip slot %d: %w", equipSlot, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking equip slot %d: %w", equipSlot, err)
	}

	occupied := make(map[int32]bool, model.BagSlots)
	rows, err := tx.Query(ctx,
		`SELECT slot FROM inventory WHERE character_id = $1 AND equip_slot = 0`, characterID)
	if err != nil {
		return fmt.Errorf("reading occupied slots: %w", err)
	}
	for rows.Next() {
		var slot int32
		if err := rows.Scan(&slot); err != nil {
			rows.Close()
			return fmt.Errorf("scanning slot row: %w", err)
		}
		occupied[slot] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating slot rows: %w", err)
	}

	free := int32(-1)
	for slot := int32(0); slot < model.BagSlots; slot++ {
		if !occupied[slot] {
			free = slot
			break
		}
	}
	if free < 0 {
		return fmt.Errorf("unequipping slot %d: %w", equipSlot, ErrBagFull)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE inventory SET equip_slot = 0, slot = $2 WHERE id = $1`,
		itemRowID, free); err != nil {
		return fmt.Errorf("unequipping item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing unequip: %w", err)
	}
	return nil
}
