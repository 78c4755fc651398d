package wire

import "google.golang.org/protobuf/encoding/protowire"

// CharacterCreateRequest carries the bearer token on the first frame of
// a connection; later frames may leave it empty once the connection is
// authenticated.
type CharacterCreateRequest struct {
	Token string
	Name  string
	Class string
}

func (m *CharacterCreateRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Class)
	return b
}

func (m *CharacterCreateRequest) Unmarshal(data []byte) error {
	*m = CharacterCreateRequest{}
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
			m.Token = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Name = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Class = v
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

// CharacterCreateResponse returns the new character id on success.
type CharacterCreateResponse struct {
	Ok          bool
	Message     string
	CharacterID int64
}

func (m *CharacterCreateResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	b = appendInt64(b, 3, m.CharacterID)
	return b
}

func (m *CharacterCreateResponse) Unmarshal(data []byte) error {
	*m = CharacterCreateResponse{}
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
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Message = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
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

// CharacterSelectRequest picks a character for world entry.
type CharacterSelectRequest struct {
	Token       string
	CharacterID int64
}

func (m *CharacterSelectRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendInt64(b, 2, m.CharacterID)
	return b
}

func (m *CharacterSelectRequest) Unmarshal(data []byte) error {
	*m = CharacterSelectRequest{}
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
			m.Token = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
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

// CharacterDeleteRequest removes a character from the account roster.
type CharacterDeleteRequest struct {
	Token       string
	CharacterID int64
}

func (m *CharacterDeleteRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendInt64(b, 2, m.CharacterID)
	return b
}

func (m *CharacterDeleteRequest) Unmarshal(data []byte) error {
	*m = CharacterDeleteRequest{}
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
			m.Token = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.CharacterID = int64(v)
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

// CharacterDeleteResponse acknowledges a roster deletion.
type CharacterDeleteResponse struct {
	Ok      bool
	Message string
}

func (m *CharacterDeleteResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	return b
}

func (m *CharacterDeleteResponse) Unmarshal(data []byte) error {
	*m = CharacterDeleteResponse{}
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
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Message = v
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

// CharacterState is the full mutable field set of a character as seen
// by clients and the character cache.
type CharacterState struct {
	ID         int64
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
}

func (m *CharacterState) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.ClassID)
	b = appendInt32(b, 4, m.Level)
	b = appendInt64(b, 5, m.XP)
	b = appendInt32(b, 6, m.HP)
	b = appendInt32(b, 7, m.MP)
	b = appendInt32(b, 8, m.MaxHP)
	b = appendInt32(b, 9, m.MaxMP)
	b = appendInt32(b, 10, m.Strength)
	b = appendInt32(b, 11, m.Stamina)
	b = appendInt32(b, 12, m.Dexterity)
	b = appendInt32(b, 13, m.Intellect)
	b = appendInt32(b, 14, m.StatPoints)
	b = appendInt32(b, 15, m.MapID)
	b = appendFloat(b, 16, m.X)
	b = appendFloat(b, 17, m.Y)
	b = appendFloat(b, 18, m.Z)
	b = appendInt64(b, 19, m.Gold)
	return b
}

func (m *CharacterState) Unmarshal(data []byte) error {
	*m = CharacterState{}
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
		case 16, 17, 18:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 16:
				m.X = f
			case 17:
				m.Y = f
			case 18:
				m.Z = f
			}
			data = data[n:]
		case 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 19:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.ID = int64(v)
			case 3:
				m.ClassID = int32(v)
			case 4:
				m.Level = int32(v)
			case 5:
				m.XP = int64(v)
			case 6:
				m.HP = int32(v)
			case 7:
				m.MP = int32(v)
			case 8:
				m.MaxHP = int32(v)
			case 9:
				m.MaxMP = int32(v)
			case 10:
				m.Strength = int32(v)
			case 11:
				m.Stamina = int32(v)
			case 12:
				m.Dexterity = int32(v)
			case 13:
				m.Intellect = int32(v)
			case 14:
				m.StatPoints = int32(v)
			case 15:
				m.MapID = int32(v)
			case 19:
				m.Gold = int64(v)
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

// CharacterSelectResponse returns the selected character's state and
// the world service endpoints.
type CharacterSelectResponse struct {
	Ok           bool
	Message      string
	Character    *CharacterState
	WorldTCPAddr string
	WorldUDPAddr string
}

func (m *CharacterSelectResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	if m.Character != nil {
		b = appendMessage(b, 3, m.Character)
	}
	b = appendString(b, 4, m.WorldTCPAddr)
	b = appendString(b, 5, m.WorldUDPAddr)
	return b
}

func (m *CharacterSelectResponse) Unmarshal(data []byte) error {
	*m = CharacterSelectResponse{}
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
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Message = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Character = new(CharacterState)
			if err := m.Character.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.WorldTCPAddr = v
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.WorldUDPAddr = v
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
