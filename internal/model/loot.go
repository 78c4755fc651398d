package model

// LootEntry is one independently rolled drop in a loot table.
type LootEntry struct {
	TableID     int32
	ItemID      int32
	Chance      float64 // 0..1, rolled per kill
	MinQuantity int32
	MaxQuantity int32
}
