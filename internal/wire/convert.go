package wire

import (
	"time"

	"github.com/flyagain/server/internal/model"
)

// Conversions between wire records and model types. Both the rpc client
// and the data service use these, so the mapping lives next to the codecs.

func AccountToRecord(a *model.Account) *AccountRecord {
	r := &AccountRecord{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Banned:       a.Banned,
		BanReason:    a.BanReason,
	}
	if !a.CreatedAt.IsZero() {
		r.CreatedAt = a.CreatedAt.Unix()
	}
	if a.LastLogin != nil {
		r.LastLogin = a.LastLogin.Unix()
	}
	if a.BanUntil != nil {
		r.BanUntil = a.BanUntil.Unix()
	}
	return r
}

func (m *AccountRecord) Model() *model.Account {
	a := &model.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Banned:       m.Banned,
		BanReason:    m.BanReason,
	}
	if m.CreatedAt != 0 {
		a.CreatedAt = time.Unix(m.CreatedAt, 0).UTC()
	}
	if m.LastLogin != 0 {
		t := time.Unix(m.LastLogin, 0).UTC()
		a.LastLogin = &t
	}
	if m.BanUntil != 0 {
		t := time.Unix(m.BanUntil, 0).UTC()
		a.BanUntil = &t
	}
	return a
}

func CharacterToRecord(c *model.Character) *CharacterRecord {
	return &CharacterRecord{
		ID:         c.ID,
		AccountID:  c.AccountID,
		Name:       c.Name,
		ClassID:    int32(c.ClassID),
		Level:      c.Level,
		XP:         c.XP,
		HP:         c.HP,
		MP:         c.MP,
		MaxHP:      c.MaxHP,
		MaxMP:      c.MaxMP,
		Strength:   c.Strength,
		Stamina:    c.Stamina,
		Dexterity:  c.Dexterity,
		Intellect:  c.Intellect,
		StatPoints: c.StatPoints,
		MapID:      c.MapID,
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		Z:          c.Pos.Z,
		Gold:       c.Gold,
		PlayTime:   c.PlayTime,
	}
}

func (m *CharacterRecord) Model() *model.Character {
	return &model.Character{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Name:       m.Name,
		ClassID:    model.ClassID(m.ClassID),
		Level:      m.Level,
		XP:         m.XP,
		HP:         m.HP,
		MP:         m.MP,
		MaxHP:      m.MaxHP,
		MaxMP:      m.MaxMP,
		Strength:   m.Strength,
		Stamina:    m.Stamina,
		Dexterity:  m.Dexterity,
		Intellect:  m.Intellect,
		StatPoints: m.StatPoints,
		MapID:      m.MapID,
		Pos:        model.Position{X: m.X, Y: m.Y, Z: m.Z},
		Gold:       m.Gold,
		PlayTime:   m.PlayTime,
	}
}

// CharacterToState builds the client-facing state message. Unlike
// CharacterRecord it omits account id and play time.
func CharacterToState(c *model.Character) *CharacterState {
	return &CharacterState{
		ID:         c.ID,
		Name:       c.Name,
		ClassID:    int32(c.ClassID),
		Level:      c.Level,
		XP:         c.XP,
		HP:         c.HP,
		MP:         c.MP,
		MaxHP:      c.MaxHP,
		MaxMP:      c.MaxMP,
		Strength:   c.Strength,
		Stamina:    c.Stamina,
		Dexterity:  c.Dexterity,
		Intellect:  c.Intellect,
		StatPoints: c.StatPoints,
		MapID:      c.MapID,
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		Z:          c.Pos.Z,
		Gold:       c.Gold,
	}
}

func ItemToRecord(i *model.ItemInstance) *ItemRecord {
	return &ItemRecord{
		ID:          i.ID,
		CharacterID: i.CharacterID,
		ItemID:      i.ItemID,
		Slot:        i.Slot,
		Quantity:    i.Quantity,
		EquipSlot:   int32(i.EquipSlot),
	}
}

func (m *ItemRecord) Model() *model.ItemInstance {
	return &model.ItemInstance{
		ID:          m.ID,
		CharacterID: m.CharacterID,
		ItemID:      m.ItemID,
		Slot:        m.Slot,
		Quantity:    m.Quantity,
		EquipSlot:   model.EquipSlot(m.EquipSlot),
	}
}

func ItemDefToRecord(d *model.ItemDef) *ItemDefRecord {
	return &ItemDefRecord{
		ID:            d.ID,
		Name:          d.Name,
		EquipSlot:     int32(d.EquipSlot),
		RequiredLevel: d.RequiredLevel,
		RequiredClass: int32(d.RequiredClass),
		AttackBonus:   d.AttackBonus,
		DefenseBonus:  d.DefenseBonus,
		StackMax:      d.StackMax,
		Value:         d.Value,
	}
}

func (m *ItemDefRecord) Model() *model.ItemDef {
	return &model.ItemDef{
		ID:            m.ID,
		Name:          m.Name,
		EquipSlot:     model.EquipSlot(m.EquipSlot),
		RequiredLevel: m.RequiredLevel,
		RequiredClass: model.ClassID(m.RequiredClass),
		AttackBonus:   m.AttackBonus,
		DefenseBonus:  m.DefenseBonus,
		StackMax:      m.StackMax,
		Value:         m.Value,
	}
}

func MonsterDefToRecord(d *model.MonsterDef) *MonsterDefRecord {
	return &MonsterDefRecord{
		ID:            d.ID,
		Name:          d.Name,
		Level:         d.Level,
		MaxHP:         d.MaxHP,
		Attack:        d.Attack,
		Defense:       d.Defense,
		XPReward:      d.XPReward,
		AggroRange:    d.AggroRange,
		AttackRange:   d.AttackRange,
		AttackSpeedMs: d.AttackSpeedMs,
		MoveSpeed:     d.MoveSpeed,
		RespawnMs:     d.RespawnMs,
		LeashDistance: d.LeashDistance,
		LootTableID:   d.LootTableID,
	}
}

func (m *MonsterDefRecord) Model() *model.MonsterDef {
	return &model.MonsterDef{
		ID:            m.ID,
		Name:          m.Name,
		Level:         m.Level,
		MaxHP:         m.MaxHP,
		Attack:        m.Attack,
		Defense:       m.Defense,
		XPReward:      m.XPReward,
		AggroRange:    m.AggroRange,
		AttackRange:   m.AttackRange,
		AttackSpeedMs: m.AttackSpeedMs,
		MoveSpeed:     m.MoveSpeed,
		RespawnMs:     m.RespawnMs,
		LeashDistance: m.LeashDistance,
		LootTableID:   m.LootTableID,
	}
}

func SpawnToRecord(s *model.SpawnPoint) *SpawnRecord {
	return &SpawnRecord{
		ID:        s.ID,
		MonsterID: s.MonsterID,
		ZoneID:    s.ZoneID,
		X:         s.Pos.X,
		Y:         s.Pos.Y,
		Z:         s.Pos.Z,
		Radius:    s.Radius,
		Count:     s.Count,
	}
}

func (m *SpawnRecord) Model() *model.SpawnPoint {
	return &model.SpawnPoint{
		ID:        m.ID,
		MonsterID: m.MonsterID,
		ZoneID:    m.ZoneID,
		Pos:       model.Position{X: m.X, Y: m.Y, Z: m.Z},
		Radius:    m.Radius,
		Count:     m.Count,
	}
}

func SkillDefToRecord(d *model.SkillDef) *SkillDefRecord {
	return &SkillDefRecord{
		ID:             d.ID,
		Name:           d.Name,
		ClassID:        int32(d.ClassID),
		RequiredLevel:  d.RequiredLevel,
		MPCost:         d.MPCost,
		CooldownMs:     d.CooldownMs,
		Range:          d.Range,
		BaseDamage:     d.BaseDamage,
		DamagePerLevel: d.DamagePerLevel,
	}
}

func (m *SkillDefRecord) Model() *model.SkillDef {
	return &model.SkillDef{
		ID:             m.ID,
		Name:           m.Name,
		ClassID:        model.ClassID(m.ClassID),
		RequiredLevel:  m.RequiredLevel,
		MPCost:         m.MPCost,
		CooldownMs:     m.CooldownMs,
		Range:          m.Range,
		BaseDamage:     m.BaseDamage,
		DamagePerLevel: m.DamagePerLevel,
	}
}

func LootToRecord(e *model.LootEntry) *LootRecord {
	return &LootRecord{
		TableID:     e.TableID,
		ItemID:      e.ItemID,
		Chance:      e.Chance,
		MinQuantity: e.MinQuantity,
		MaxQuantity: e.MaxQuantity,
	}
}

func (m *LootRecord) Model() *model.LootEntry {
	return &model.LootEntry{
		TableID:     m.TableID,
		ItemID:      m.ItemID,
		Chance:      m.Chance,
		MinQuantity: m.MinQuantity,
		MaxQuantity: m.MaxQuantity,
	}
}
