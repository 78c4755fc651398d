package model

// EquipSlot identifies an equipment position on a character.
type EquipSlot int32

const (
	EquipNone   EquipSlot = 0
	EquipWeapon EquipSlot = 1
	EquipHead   EquipSlot = 2
	EquipChest  EquipSlot = 3
	EquipLegs   EquipSlot = 4
	EquipFeet   EquipSlot = 5
	EquipHands  EquipSlot = 6
)

// BagSlots is the number of inventory slots per character.
const BagSlots = 40

// ItemDef is a static item definition loaded from game data.
type ItemDef struct {
	ID            int32
	Name          string
	EquipSlot     EquipSlot // EquipNone for non-equippable items
	RequiredLevel int32
	RequiredClass ClassID // 0 = any class
	AttackBonus   int32
	DefenseBonus  int32
	StackMax      int32
	Value         int64
}

// Equippable reports whether the definition occupies an equipment slot.
func (d *ItemDef) Equippable() bool {
	return d.EquipSlot != EquipNone
}

// ItemInstance is one stack of an item owned by a character. An
// instance sits either in a bag slot (EquipSlot == EquipNone) or in an
// equipment slot (Slot is then unused).
type ItemInstance struct {
	ID          int64
	CharacterID int64
	ItemID      int32
	Slot        int32
	Quantity    int32
	EquipSlot   EquipSlot
}

// Equipped reports whether the instance currently occupies an equipment slot.
func (i *ItemInstance) Equipped() bool {
	return i.EquipSlot != EquipNone
}
