package wire

import "google.golang.org/protobuf/encoding/protowire"

// Entity kinds carried in EntitySpawn records.
const (
	EntityKindPlayer  int32 = 1
	EntityKindMonster int32 = 2
)

// EnterWorldRequest is the first frame a world connection must send.
type EnterWorldRequest struct {
	Token       string
	CharacterID int64
}

func (m *EnterWorldRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendInt64(b, 2, m.CharacterID)
	return b
}

func (m *EnterWorldRequest) Unmarshal(data []byte) error {
	*m = EnterWorldRequest{}
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

// MovementInput is the client's desired movement for the next ticks.
// Direction components are renormalized server-side when |d| > 1.
type MovementInput struct {
	DX       float32
	DY       float32
	DZ       float32
	Moving   bool
	Flying   bool
	Rotation float32
}

func (m *MovementInput) AppendTo(b []byte) []byte {
	b = appendFloat(b, 1, m.DX)
	b = appendFloat(b, 2, m.DY)
	b = appendFloat(b, 3, m.DZ)
	b = appendBool(b, 4, m.Moving)
	b = appendBool(b, 5, m.Flying)
	b = appendFloat(b, 6, m.Rotation)
	return b
}

func (m *MovementInput) Unmarshal(data []byte) error {
	*m = MovementInput{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3, 6:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 1:
				m.DX = f
			case 2:
				m.DY = f
			case 3:
				m.DZ = f
			case 6:
				m.Rotation = f
			}
			data = data[n:]
		case 4, 5:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if num == 4 {
				m.Moving = protowire.DecodeBool(v)
			} else {
				m.Flying = protowire.DecodeBool(v)
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

// SelectTarget sets the player's current target and auto-attack flag.
// TargetEntityID 0 clears the target.
type SelectTarget struct {
	TargetEntityID int64
	AutoAttack     bool
}

func (m *SelectTarget) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.TargetEntityID)
	b = appendBool(b, 2, m.AutoAttack)
	return b
}

func (m *SelectTarget) Unmarshal(data []byte) error {
	*m = SelectTarget{}
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
			m.TargetEntityID = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.AutoAttack = protowire.DecodeBool(v)
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

// EntitySpawn introduces an entity to a client.
type EntitySpawn struct {
	EntityID int64
	Kind     int32
	Name     string
	DefID    int32 // class id for players, monster definition id for monsters
	Level    int32
	X        float32
	Y        float32
	Z        float32
	Rotation float32
	HP       int32
	MaxHP    int32
}

func (m *EntitySpawn) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.EntityID)
	b = appendInt32(b, 2, m.Kind)
	b = appendString(b, 3, m.Name)
	b = appendInt32(b, 4, m.DefID)
	b = appendInt32(b, 5, m.Level)
	b = appendFloat(b, 6, m.X)
	b = appendFloat(b, 7, m.Y)
	b = appendFloat(b, 8, m.Z)
	b = appendFloat(b, 9, m.Rotation)
	b = appendInt32(b, 10, m.HP)
	b = appendInt32(b, 11, m.MaxHP)
	return b
}

func (m *EntitySpawn) Unmarshal(data []byte) error {
	*m = EntitySpawn{}
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
		case 6, 7, 8, 9:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 6:
				m.X = f
			case 7:
				m.Y = f
			case 8:
				m.Z = f
			case 9:
				m.Rotation = f
			}
			data = data[n:]
		case 1, 2, 4, 5, 10, 11:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			switch num {
			case 1:
				m.EntityID = int64(v)
			case 2:
				m.Kind = int32(v)
			case 4:
				m.DefID = int32(v)
			case 5:
				m.Level = int32(v)
			case 10:
				m.HP = int32(v)
			case 11:
				m.MaxHP = int32(v)
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

// EntityDespawn removes an entity from a client's view.
type EntityDespawn struct {
	EntityID int64
}

func (m *EntityDespawn) AppendTo(b []byte) []byte {
	return appendInt64(b, 1, m.EntityID)
}

func (m *EntityDespawn) Unmarshal(data []byte) error {
	*m = EntityDespawn{}
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
			m.EntityID = int64(v)
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

// EntityUpdate is the per-tick position broadcast.
type EntityUpdate struct {
	EntityID int64
	X        float32
	Y        float32
	Z        float32
	Rotation float32
	Moving   bool
	Flying   bool
}

func (m *EntityUpdate) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.EntityID)
	b = appendFloat(b, 2, m.X)
	b = appendFloat(b, 3, m.Y)
	b = appendFloat(b, 4, m.Z)
	b = appendFloat(b, 5, m.Rotation)
	b = appendBool(b, 6, m.Moving)
	b = appendBool(b, 7, m.Flying)
	return b
}

func (m *EntityUpdate) Unmarshal(data []byte) error {
	*m = EntityUpdate{}
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
			m.EntityID = int64(v)
			data = data[n:]
		case 2, 3, 4, 5:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 2:
				m.X = f
			case 3:
				m.Y = f
			case 4:
				m.Z = f
			case 5:
				m.Rotation = f
			}
			data = data[n:]
		case 6, 7:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if num == 6 {
				m.Moving = protowire.DecodeBool(v)
			} else {
				m.Flying = protowire.DecodeBool(v)
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

// DamageEvent reports one combat hit.
type DamageEvent struct {
	AttackerID int64
	TargetID   int64
	Amount     int32
	Crit       bool
	TargetHP   int32
	Killed     bool
}

func (m *DamageEvent) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.AttackerID)
	b = appendInt64(b, 2, m.TargetID)
	b = appendInt32(b, 3, m.Amount)
	b = appendBool(b, 4, m.Crit)
	b = appendInt32(b, 5, m.TargetHP)
	b = appendBool(b, 6, m.Killed)
	return b
}

func (m *DamageEvent) Unmarshal(data []byte) error {
	*m = DamageEvent{}
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
				m.AttackerID = int64(v)
			case 2:
				m.TargetID = int64(v)
			case 3:
				m.Amount = int32(v)
			case 4:
				m.Crit = protowire.DecodeBool(v)
			case 5:
				m.TargetHP = int32(v)
			case 6:
				m.Killed = protowire.DecodeBool(v)
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

// EntityEvent is the envelope carried by the entity event opcode;
// exactly one field is set.
type EntityEvent struct {
	Spawn   *EntitySpawn
	Despawn *EntityDespawn
	Update  *EntityUpdate
	Damage  *DamageEvent
}

func (m *EntityEvent) AppendTo(b []byte) []byte {
	if m.Spawn != nil {
		b = appendMessage(b, 1, m.Spawn)
	}
	if m.Despawn != nil {
		b = appendMessage(b, 2, m.Despawn)
	}
	if m.Update != nil {
		b = appendMessage(b, 3, m.Update)
	}
	if m.Damage != nil {
		b = appendMessage(b, 4, m.Damage)
	}
	return b
}

func (m *EntityEvent) Unmarshal(data []byte) error {
	*m = EntityEvent{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3, 4:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var err error
			switch num {
			case 1:
				m.Spawn = new(EntitySpawn)
				err = m.Spawn.Unmarshal(v)
			case 2:
				m.Despawn = new(EntityDespawn)
				err = m.Despawn.Unmarshal(v)
			case 3:
				m.Update = new(EntityUpdate)
				err = m.Update.Unmarshal(v)
			case 4:
				m.Damage = new(DamageEvent)
				err = m.Damage.Unmarshal(v)
			}
			if err != nil {
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

// MoveItemRequest moves or swaps bag slots.
type MoveItemRequest struct {
	FromSlot int32
	ToSlot   int32
}

func (m *MoveItemRequest) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.FromSlot)
	b = appendInt32(b, 2, m.ToSlot)
	return b
}

func (m *MoveItemRequest) Unmarshal(data []byte) error {
	*m = MoveItemRequest{}
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
			m.FromSlot = int32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ToSlot = int32(v)
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

// MoveItemResponse acknowledges a MoveItemRequest.
type MoveItemResponse struct {
	Ok      bool
	Message string
}

func (m *MoveItemResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	return b
}

func (m *MoveItemResponse) Unmarshal(data []byte) error {
	*m = MoveItemResponse{}
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

// Chat channels.
const ChatChannelLocal int32 = 1

// ChatMessage is sent by clients with only Text set; the server fills
// the sender fields before broadcasting.
type ChatMessage struct {
	Channel    int32
	SenderID   int64
	SenderName string
	Text       string
}

func (m *ChatMessage) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.Channel)
	b = appendInt64(b, 2, m.SenderID)
	b = appendString(b, 3, m.SenderName)
	b = appendString(b, 4, m.Text)
	return b
}

func (m *ChatMessage) Unmarshal(data []byte) error {
	*m = ChatMessage{}
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
			m.Channel = int32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.SenderID = int64(v)
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.SenderName = v
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Text = v
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

// Heartbeat keeps a connection alive; the server echoes ClientTime and
// adds its own wall clock.
type Heartbeat struct {
	ClientTime int64
	ServerTime int64
}

func (m *Heartbeat) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ClientTime)
	b = appendInt64(b, 2, m.ServerTime)
	return b
}

func (m *Heartbeat) Unmarshal(data []byte) error {
	*m = Heartbeat{}
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
			m.ClientTime = int64(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ServerTime = int64(v)
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

// ZoneData is the world-entry snapshot: the zone, the channel, and a
// spawn record for everything in the new player's neighborhood.
type ZoneData struct {
	ZoneID    int32
	ZoneName  string
	ChannelID int32
	Entities  []EntitySpawn
}

func (m *ZoneData) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ZoneID)
	b = appendString(b, 2, m.ZoneName)
	b = appendInt32(b, 3, m.ChannelID)
	for i := range m.Entities {
		b = appendMessage(b, 4, &m.Entities[i])
	}
	return b
}

func (m *ZoneData) Unmarshal(data []byte) error {
	*m = ZoneData{}
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
			m.ZoneID = int32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ZoneName = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ChannelID = int32(v)
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var e EntitySpawn
			if err := e.Unmarshal(v); err != nil {
				return err
			}
			m.Entities = append(m.Entities, e)
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

// ChannelSwitchRequest asks to move to another channel of the same zone.
type ChannelSwitchRequest struct {
	ChannelID int32
}

func (m *ChannelSwitchRequest) AppendTo(b []byte) []byte {
	return appendInt32(b, 1, m.ChannelID)
}

func (m *ChannelSwitchRequest) Unmarshal(data []byte) error {
	*m = ChannelSwitchRequest{}
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
			m.ChannelID = int32(v)
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

// ChannelSwitchResponse acknowledges a channel switch.
type ChannelSwitchResponse struct {
	Ok        bool
	Message   string
	ChannelID int32
}

func (m *ChannelSwitchResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	b = appendInt32(b, 3, m.ChannelID)
	return b
}

func (m *ChannelSwitchResponse) Unmarshal(data []byte) error {
	*m = ChannelSwitchResponse{}
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
			m.ChannelID = int32(v)
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

// ChannelInfo describes one channel in a ChannelListResponse.
type ChannelInfo struct {
	ChannelID   int32
	PlayerCount int32
	Capacity    int32
}

func (m *ChannelInfo) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ChannelID)
	b = appendInt32(b, 2, m.PlayerCount)
	b = appendInt32(b, 3, m.Capacity)
	return b
}

func (m *ChannelInfo) Unmarshal(data []byte) error {
	*m = ChannelInfo{}
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
				m.ChannelID = int32(v)
			case 2:
				m.PlayerCount = int32(v)
			case 3:
				m.Capacity = int32(v)
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

// ChannelListRequest has no fields; the zone is implied by the caller.
type ChannelListRequest struct{}

func (m *ChannelListRequest) AppendTo(b []byte) []byte { return b }

func (m *ChannelListRequest) Unmarshal(data []byte) error {
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

// ChannelListResponse lists the caller's zone channels.
type ChannelListResponse struct {
	Channels []ChannelInfo
}

func (m *ChannelListResponse) AppendTo(b []byte) []byte {
	for i := range m.Channels {
		b = appendMessage(b, 1, &m.Channels[i])
	}
	return b
}

func (m *ChannelListResponse) Unmarshal(data []byte) error {
	*m = ChannelListResponse{}
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
			var ci ChannelInfo
			if err := ci.Unmarshal(v); err != nil {
				return err
			}
			m.Channels = append(m.Channels, ci)
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

// PositionCorrection rolls a client back to the server's authoritative
// position after failed movement validation.
type PositionCorrection struct {
	X        float32
	Y        float32
	Z        float32
	Rotation float32
	Reason   string
}

func (m *PositionCorrection) AppendTo(b []byte) []byte {
	b = appendFloat(b, 1, m.X)
	b = appendFloat(b, 2, m.Y)
	b = appendFloat(b, 3, m.Z)
	b = appendFloat(b, 4, m.Rotation)
	b = appendString(b, 5, m.Reason)
	return b
}

func (m *PositionCorrection) Unmarshal(data []byte) error {
	*m = PositionCorrection{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1, 2, 3, 4:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f := float32frombits(v)
			switch num {
			case 1:
				m.X = f
			case 2:
				m.Y = f
			case 3:
				m.Z = f
			case 4:
				m.Rotation = f
			}
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Reason = v
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

// ErrorResponse reports a protocol, auth, authz or rate-limit failure.
type ErrorResponse struct {
	OrigOpcode int32
	Code       int32
	Message    string
}

func (m *ErrorResponse) AppendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.OrigOpcode)
	b = appendInt32(b, 2, m.Code)
	b = appendString(b, 3, m.Message)
	return b
}

func (m *ErrorResponse) Unmarshal(data []byte) error {
	*m = ErrorResponse{}
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
			m.OrigOpcode = int32(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Code = int32(v)
			data = data[n:]
		case 3:
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
