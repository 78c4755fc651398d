package wire

import "google.golang.org/protobuf/encoding/protowire"

// Empty is the request for argument-free RPCs.
type Empty struct{}

func (m *Empty) AppendTo(b []byte) []byte { return b }

func (m *Empty) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		var err error
		if data, err = skipField(data, num, typ); err != nil {
			return err
		}
	}
	return nil
}

// Ack acknowledges a completed write. Failures travel as gRPC status
// codes, so Ok is true on every successful response.
type Ack struct {
	Ok bool
}

func (m *Ack) AppendTo(b []byte) []byte {
	return appendBool(b, 1, m.Ok)
}

func (m *Ack) Unmarshal(data []byte) error {
	*m = Ack{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Ok = protowire.DecodeBool(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// AccountRecord is the account row as exchanged with the data service.
// Timestamps travel as unix seconds, zero meaning unset.
type AccountRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    int64
	LastLogin    int64
	Banned       bool
	BanReason    string
	BanUntil     int64
}

func (m *AccountRecord) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.Username)
	b = appendString(b, 3, m.Email)
	b = appendString(b, 4, m.PasswordHash)
	b = appendInt64(b, 5, m.CreatedAt)
	b = appendInt64(b, 6, m.LastLogin)
	b = appendBool(b, 7, m.Banned)
	b = appendString(b, 8, m.BanReason)
	b = appendInt64(b, 9, m.BanUntil)
	return b
}

func (m *AccountRecord) Unmarshal(data []byte) error {
	*m = AccountRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 2, 3, 4, 8:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 2:
				m.Username = v
			case 3:
				m.Email = v
			case 4:
				m.PasswordHash = v
			case 8:
				m.BanReason = v
			}
			data = data[n:]
		case 1, 5, 6, 7, 9:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int64(v)
			case 5:
				m.CreatedAt = int64(v)
			case 6:
				m.LastLogin = int64(v)
			case 7:
				m.Banned = protowire.DecodeBool(v)
			case 9:
				m.BanUntil = int64(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetByUsernameRequest looks an account up by login name.
type GetByUsernameRequest struct {
	Username string
}

func (m *GetByUsernameRequest) AppendTo(b []byte) []byte {
	return appendString(b, 1, m.Username)
}

func (m *GetByUsernameRequest) Unmarshal(data []byte) error {
	*m = GetByUsernameRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Username = v
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetByIDRequest looks a row up by primary key.
type GetByIDRequest struct {
	ID int64
}

func (m *GetByIDRequest) AppendTo(b []byte) []byte {
	return appendInt64(b, 1, m.ID)
}

func (m *GetByIDRequest) Unmarshal(data []byte) error {
	*m = GetByIDRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ID = int64(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateAccountRequest inserts a new account with an already-hashed password.
type CreateAccountRequest struct {
	Username     string
	Email        string
	PasswordHash string
}

func (m *CreateAccountRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.PasswordHash)
	return b
}

func (m *CreateAccountRequest) Unmarshal(data []byte) error {
	*m = CreateAccountRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.Username = v
			case 2:
				m.Email = v
			case 3:
				m.PasswordHash = v
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckBanResponse reports an account's ban state.
type CheckBanResponse struct {
	Banned   bool
	Reason   string
	BanUntil int64
}

func (m *CheckBanResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Banned)
	b = appendString(b, 2, m.Reason)
	b = appendInt64(b, 3, m.BanUntil)
	return b
}

func (m *CheckBanResponse) Unmarshal(data []byte) error {
	*m = CheckBanResponse{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Banned = protowire.DecodeBool(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Reason = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.BanUntil = int64(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CharacterRecord is the full character row as exchanged with the data
// service. Positions travel as fixed32 floats, everything else varint.
type CharacterRecord struct {
	ID         int64
	AccountID  int64
	Name       string
	ClassID    int32
	Level      int32
	XP         int64
	HP         int32
	MP         int32
	MaxHP      int32
	MaxMP      int32
	Strength   int32
	Stamina    int32
	Dexterity  int32
	Intellect  int32
	StatPoints int32
	MapID      int32
	X          float32
	Y          float32
	Z          float32
	Gold       int64
	PlayTime   int64
}

func (m *CharacterRecord) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendInt64(b, 2, m.AccountID)
	b = appendString(b, 3, m.Name)
	b = appendInt32(b, 4, m.ClassID)
	b = appendInt32(b, 5, m.Level)
	b = appendInt64(b, 6, m.XP)
	b = appendInt32(b, 7, m.HP)
	b = appendInt32(b, 8, m.MP)
	b = appendInt32(b, 9, m.MaxHP)
	b = appendInt32(b, 10, m.MaxMP)
	b = appendInt32(b, 11, m.Strength)
	b = appendInt32(b, 12, m.Stamina)
	b = appendInt32(b, 13, m.Dexterity)
	b = appendInt32(b, 14, m.Intellect)
	b = appendInt32(b, 15, m.StatPoints)
	b = appendInt32(b, 16, m.MapID)
	b = appendFloat(b, 17, m.X)
	b = appendFloat(b, 18, m.Y)
	b = appendFloat(b, 19, m.Z)
	b = appendInt64(b, 20, m.Gold)
	b = appendInt64(b, 21, m.PlayTime)
	return b
}

func (m *CharacterRecord) Unmarshal(data []byte) error {
	*m = CharacterRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 3:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 17, 18, 19:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 17:
				m.X = f
			case 18:
				m.Y = f
			case 19:
				m.Z = f
			}
			data = data[n:]
		case 1, 2, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 20, 21:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int64(v)
			case 2:
				m.AccountID = int64(v)
			case 4:
				m.ClassID = int32(v)
			case 5:
				m.Level = int32(v)
			case 6:
				m.XP = int64(v)
			case 7:
				m.HP = int32(v)
			case 8:
				m.MP = int32(v)
			case 9:
				m.MaxHP = int32(v)
			case 10:
				m.MaxMP = int32(v)
			case 11:
				m.Strength = int32(v)
			case 12:
				m.Stamina = int32(v)
			case 13:
				m.Dexterity = int32(v)
			case 14:
				m.Intellect = int32(v)
			case 15:
				m.StatPoints = int32(v)
			case 16:
				m.MapID = int32(v)
			case 20:
				m.Gold = int64(v)
			case 21:
				m.PlayTime = int64(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetCharacterRequest fetches one character. A nonzero AccountID also
// asserts ownership; mismatches read as not found.
type GetCharacterRequest struct {
	CharacterID int64
	AccountID   int64
}

func (m *GetCharacterRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt64(b, 2, m.AccountID)
	return b
}

func (m *GetCharacterRequest) Unmarshal(data []byte) error {
	*m = GetCharacterRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.AccountID = int64(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CharacterList is the response to GetByAccount.
type CharacterList struct {
	Characters []CharacterRecord
}

func (m *CharacterList) AppendTo(b []byte) []byte {
	for i := range m.Characters {
		b = appendMessage(b, 1, &m.Characters[i])
	}
	return b
}

func (m *CharacterList) Unmarshal(data []byte) error {
	*m = CharacterList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var cr CharacterRecord
			if err := cr.Unmarshal(v); err != nil {
				return err
			}
			m.Characters = append(m.Characters, cr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateCharacterRequest inserts a new character for an account.
type CreateCharacterRequest struct {
	AccountID int64
	Name      string
	ClassID   int32
}

func (m *CreateCharacterRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.AccountID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.ClassID)
	return b
}

func (m *CreateCharacterRequest) Unmarshal(data []byte) error {
	*m = CreateCharacterRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.AccountID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ClassID = int32(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveCharacterRequest persists a full character snapshot.
type SaveCharacterRequest struct {
	Character *CharacterRecord
}

func (m *SaveCharacterRequest) AppendTo(b []byte) []byte {
	if m.Character != nil {
		b = appendMessage(b, 1, m.Character)
	}
	return b
}

func (m *SaveCharacterRequest) Unmarshal(data []byte) error {
	*m = SaveCharacterRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Character = new(CharacterRecord)
			if err := m.Character.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteCharacterRequest removes a character owned by the given account.
type DeleteCharacterRequest struct {
	CharacterID int64
	AccountID   int64
}

func (m *DeleteCharacterRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt64(b, 2, m.AccountID)
	return b
}

func (m *DeleteCharacterRequest) Unmarshal(data []byte) error {
	*m = DeleteCharacterRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.AccountID = int64(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CharacterSkillRecord is one learned skill.
type CharacterSkillRecord struct {
	SkillID int32
	Level   int32
}

func (m *CharacterSkillRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.SkillID)
	b = appendInt32(b, 2, m.Level)
	return b
}

func (m *CharacterSkillRecord) Unmarshal(data []byte) error {
	*m = CharacterSkillRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.SkillID = int32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Level = int32(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// CharacterSkillList is the response to GetSkills.
type CharacterSkillList struct {
	Skills []CharacterSkillRecord
}

func (m *CharacterSkillList) AppendTo(b []byte) []byte {
	for i := range m.Skills {
		b = appendMessage(b, 1, &m.Skills[i])
	}
	return b
}

func (m *CharacterSkillList) Unmarshal(data []byte) error {
	*m = CharacterSkillList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var sr CharacterSkillRecord
			if err := sr.Unmarshal(v); err != nil {
				return err
			}
			m.Skills = append(m.Skills, sr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ItemRecord is one inventory row.
type ItemRecord struct {
	ID          int64
	CharacterID int64
	ItemID      int32
	Slot        int32
	Quantity    int32
	EquipSlot   int32
}

func (m *ItemRecord) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendInt64(b, 2, m.CharacterID)
	b = appendInt32(b, 3, m.ItemID)
	b = appendInt32(b, 4, m.Slot)
	b = appendInt32(b, 5, m.Quantity)
	b = appendInt32(b, 6, m.EquipSlot)
	return b
}

func (m *ItemRecord) Unmarshal(data []byte) error {
	*m = ItemRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3, 4, 5, 6:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int64(v)
			case 2:
				m.CharacterID = int64(v)
			case 3:
				m.ItemID = int32(v)
			case 4:
				m.Slot = int32(v)
			case 5:
				m.Quantity = int32(v)
			case 6:
				m.EquipSlot = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ItemList is the response to GetInventory and GetEquipment.
type ItemList struct {
	Items []ItemRecord
}

func (m *ItemList) AppendTo(b []byte) []byte {
	for i := range m.Items {
		b = appendMessage(b, 1, &m.Items[i])
	}
	return b
}

func (m *ItemList) Unmarshal(data []byte) error {
	*m = ItemList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var ir ItemRecord
			if err := ir.Unmarshal(v); err != nil {
				return err
			}
			m.Items = append(m.Items, ir)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// InventoryMoveRequest moves or swaps two bag slots.
type InventoryMoveRequest struct {
	CharacterID int64
	FromSlot    int32
	ToSlot      int32
}

func (m *InventoryMoveRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt32(b, 2, m.FromSlot)
	b = appendInt32(b, 3, m.ToSlot)
	return b
}

func (m *InventoryMoveRequest) Unmarshal(data []byte) error {
	*m = InventoryMoveRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.CharacterID = int64(v)
			case 2:
				m.FromSlot = int32(v)
			case 3:
				m.ToSlot = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// InventoryAddRequest grants items, stacking into existing slots first.
type InventoryAddRequest struct {
	CharacterID int64
	ItemID      int32
	Quantity    int32
}

func (m *InventoryAddRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt32(b, 2, m.ItemID)
	b = appendInt32(b, 3, m.Quantity)
	return b
}

func (m *InventoryAddRequest) Unmarshal(data []byte) error {
	*m = InventoryAddRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.CharacterID = int64(v)
			case 2:
				m.ItemID = int32(v)
			case 3:
				m.Quantity = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// InventoryRemoveRequest takes quantity out of a bag slot.
type InventoryRemoveRequest struct {
	CharacterID int64
	Slot        int32
	Quantity    int32
}

func (m *InventoryRemoveRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt32(b, 2, m.Slot)
	b = appendInt32(b, 3, m.Quantity)
	return b
}

func (m *InventoryRemoveRequest) Unmarshal(data []byte) error {
	*m = InventoryRemoveRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.CharacterID = int64(v)
			case 2:
				m.Slot = int32(v)
			case 3:
				m.Quantity = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// EquipRequest equips the item sitting in a bag slot.
type EquipRequest struct {
	CharacterID int64
	BagSlot     int32
}

func (m *EquipRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt32(b, 2, m.BagSlot)
	return b
}

func (m *EquipRequest) Unmarshal(data []byte) error {
	*m = EquipRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.BagSlot = int32(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnequipRequest clears an equipment slot back into the bag.
type UnequipRequest struct {
	CharacterID int64
	EquipSlot   int32
}

func (m *UnequipRequest) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.CharacterID)
	b = appendInt32(b, 2, m.EquipSlot)
	return b
}

func (m *UnequipRequest) Unmarshal(data []byte) error {
	*m = UnequipRequest{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.EquipSlot = int32(v)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ItemDefRecord is one static item definition.
type ItemDefRecord struct {
	ID            int32
	Name          string
	EquipSlot     int32
	RequiredLevel int32
	RequiredClass int32
	AttackBonus   int32
	DefenseBonus  int32
	StackMax      int32
	Value         int64
}

func (m *ItemDefRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.EquipSlot)
	b = appendInt32(b, 4, m.RequiredLevel)
	b = appendInt32(b, 5, m.RequiredClass)
	b = appendInt32(b, 6, m.AttackBonus)
	b = appendInt32(b, 7, m.DefenseBonus)
	b = appendInt32(b, 8, m.StackMax)
	b = appendInt64(b, 9, m.Value)
	return b
}

func (m *ItemDefRecord) Unmarshal(data []byte) error {
	*m = ItemDefRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 1, 3, 4, 5, 6, 7, 8, 9:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int32(v)
			case 3:
				m.EquipSlot = int32(v)
			case 4:
				m.RequiredLevel = int32(v)
			case 5:
				m.RequiredClass = int32(v)
			case 6:
				m.AttackBonus = int32(v)
			case 7:
				m.DefenseBonus = int32(v)
			case 8:
				m.StackMax = int32(v)
			case 9:
				m.Value = int64(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ItemDefList is the response to GetAllItems.
type ItemDefList struct {
	Items []ItemDefRecord
}

func (m *ItemDefList) AppendTo(b []byte) []byte {
	for i := range m.Items {
		b = appendMessage(b, 1, &m.Items[i])
	}
	return b
}

func (m *ItemDefList) Unmarshal(data []byte) error {
	*m = ItemDefList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var dr ItemDefRecord
			if err := dr.Unmarshal(v); err != nil {
				return err
			}
			m.Items = append(m.Items, dr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// MonsterDefRecord is one static monster definition. Ranges and speeds
// travel as fixed32 floats.
type MonsterDefRecord struct {
	ID            int32
	Name          string
	Level         int32
	MaxHP         int32
	Attack        int32
	Defense       int32
	XPReward      int64
	AggroRange    float32
	AttackRange   float32
	AttackSpeedMs int32
	MoveSpeed     float32
	RespawnMs     int32
	LeashDistance float32
	LootTableID   int32
}

func (m *MonsterDefRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.Level)
	b = appendInt32(b, 4, m.MaxHP)
	b = appendInt32(b, 5, m.Attack)
	b = appendInt32(b, 6, m.Defense)
	b = appendInt64(b, 7, m.XPReward)
	b = appendFloat(b, 8, m.AggroRange)
	b = appendFloat(b, 9, m.AttackRange)
	b = appendInt32(b, 10, m.AttackSpeedMs)
	b = appendFloat(b, 11, m.MoveSpeed)
	b = appendInt32(b, 12, m.RespawnMs)
	b = appendFloat(b, 13, m.LeashDistance)
	b = appendInt32(b, 14, m.LootTableID)
	return b
}

func (m *MonsterDefRecord) Unmarshal(data []byte) error {
	*m = MonsterDefRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 8, 9, 11, 13:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 8:
				m.AggroRange = f
			case 9:
				m.AttackRange = f
			case 11:
				m.MoveSpeed = f
			case 13:
				m.LeashDistance = f
			}
			data = data[n:]
		case 1, 3, 4, 5, 6, 7, 10, 12, 14:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int32(v)
			case 3:
				m.Level = int32(v)
			case 4:
				m.MaxHP = int32(v)
			case 5:
				m.Attack = int32(v)
			case 6:
				m.Defense = int32(v)
			case 7:
				m.XPReward = int64(v)
			case 10:
				m.AttackSpeedMs = int32(v)
			case 12:
				m.RespawnMs = int32(v)
			case 14:
				m.LootTableID = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// MonsterDefList is the response to GetAllMonsters.
type MonsterDefList struct {
	Monsters []MonsterDefRecord
}

func (m *MonsterDefList) AppendTo(b []byte) []byte {
	for i := range m.Monsters {
		b = appendMessage(b, 1, &m.Monsters[i])
	}
	return b
}

func (m *MonsterDefList) Unmarshal(data []byte) error {
	*m = MonsterDefList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var mr MonsterDefRecord
			if err := mr.Unmarshal(v); err != nil {
				return err
			}
			m.Monsters = append(m.Monsters, mr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// SpawnRecord is one spawn point definition.
type SpawnRecord struct {
	ID        int32
	MonsterID int32
	ZoneID    int32
	X         float32
	Y         float32
	Z         float32
	Radius    float32
	Count     int32
}

func (m *SpawnRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ID)
	b = appendInt32(b, 2, m.MonsterID)
	b = appendInt32(b, 3, m.ZoneID)
	b = appendFloat(b, 4, m.X)
	b = appendFloat(b, 5, m.Y)
	b = appendFloat(b, 6, m.Z)
	b = appendFloat(b, 7, m.Radius)
	b = appendInt32(b, 8, m.Count)
	return b
}

func (m *SpawnRecord) Unmarshal(data []byte) error {
	*m = SpawnRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 4, 5, 6, 7:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 4:
				m.X = f
			case 5:
				m.Y = f
			case 6:
				m.Z = f
			case 7:
				m.Radius = f
			}
			data = data[n:]
		case 1, 2, 3, 8:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int32(v)
			case 2:
				m.MonsterID = int32(v)
			case 3:
				m.ZoneID = int32(v)
			case 8:
				m.Count = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// SpawnList is the response to GetAllSpawns.
type SpawnList struct {
	Spawns []SpawnRecord
}

func (m *SpawnList) AppendTo(b []byte) []byte {
	for i := range m.Spawns {
		b = appendMessage(b, 1, &m.Spawns[i])
	}
	return b
}

func (m *SpawnList) Unmarshal(data []byte) error {
	*m = SpawnList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var sr SpawnRecord
			if err := sr.Unmarshal(v); err != nil {
				return err
			}
			m.Spawns = append(m.Spawns, sr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// SkillDefRecord is one static skill definition.
type SkillDefRecord struct {
	ID             int32
	Name           string
	ClassID        int32
	RequiredLevel  int32
	MPCost         int32
	CooldownMs     int32
	Range          float32
	BaseDamage     int32
	DamagePerLevel int32
}

func (m *SkillDefRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.ClassID)
	b = appendInt32(b, 4, m.RequiredLevel)
	b = appendInt32(b, 5, m.MPCost)
	b = appendInt32(b, 6, m.CooldownMs)
	b = appendFloat(b, 7, m.Range)
	b = appendInt32(b, 8, m.BaseDamage)
	b = appendInt32(b, 9, m.DamagePerLevel)
	return b
}

func (m *SkillDefRecord) Unmarshal(data []byte) error {
	*m = SkillDefRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 7:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Range = float32frombits(v)
			data = data[n:]
		case 1, 3, 4, 5, 6, 8, 9:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int32(v)
			case 3:
				m.ClassID = int32(v)
			case 4:
				m.RequiredLevel = int32(v)
			case 5:
				m.MPCost = int32(v)
			case 6:
				m.CooldownMs = int32(v)
			case 8:
				m.BaseDamage = int32(v)
			case 9:
				m.DamagePerLevel = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// SkillDefList is the response to GetAllSkills.
type SkillDefList struct {
	Skills []SkillDefRecord
}

func (m *SkillDefList) AppendTo(b []byte) []byte {
	for i := range m.Skills {
		b = appendMessage(b, 1, &m.Skills[i])
	}
	return b
}

func (m *SkillDefList) Unmarshal(data []byte) error {
	*m = SkillDefList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var sr SkillDefRecord
			if err := sr.Unmarshal(v); err != nil {
				return err
			}
			m.Skills = append(m.Skills, sr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// LootRecord is one loot table entry; Chance is a probability in [0,1]
// and travels as a fixed64 double.
type LootRecord struct {
	TableID     int32
	ItemID      int32
	Chance      float64
	MinQuantity int32
	MaxQuantity int32
}

func (m *LootRecord) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.TableID)
	b = appendInt32(b, 2, m.ItemID)
	b = appendDouble(b, 3, m.Chance)
	b = appendInt32(b, 4, m.MinQuantity)
	b = appendInt32(b, 5, m.MaxQuantity)
	return b
}

func (m *LootRecord) Unmarshal(data []byte) error {
	*m = LootRecord{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 3:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Chance = float64frombits(v)
			data = data[n:]
		case 1, 2, 4, 5:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.TableID = int32(v)
			case 2:
				m.ItemID = int32(v)
			case 4:
				m.MinQuantity = int32(v)
			case 5:
				m.MaxQuantity = int32(v)
			}
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// LootTableList is the response to GetAllLootTables.
type LootTableList struct {
	Entries []LootRecord
}

func (m *LootTableList) AppendTo(b []byte) []byte {
	for i := range m.Entries {
		b = appendMessage(b, 1, &m.Entries[i])
	}
	return b
}

func (m *LootTableList) Unmarshal(data []byte) error {
	*m = LootTableList{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var lr LootRecord
			if err := lr.Unmarshal(v); err != nil {
				return err
			}
			m.Entries = append(m.Entries, lr)
			data = data[n:]
		default:
			var err error
			if data, err = skipField(data, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}
