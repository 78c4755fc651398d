package wire

import "google.golang.org/protobuf/encoding/protowire"

// LoginRequest asks LoginService to authenticate an account.
type LoginRequest struct {
	Username string
	Password string
}

func (m *LoginRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendString(b, 2, m.Password)
	return b
}

func (m *LoginRequest) Unmarshal(data []byte) error {
	*m = LoginRequest{}
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
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Password = v
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

// CharacterSummary is the per-character line in a LoginResponse.
type CharacterSummary struct {
	ID         int64
	Name       string
	ClassID    int32
	ClassLabel string
	Level      int32
}

func (m *CharacterSummary) AppendTo(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendInt32(b, 3, m.ClassID)
	b = appendString(b, 4, m.ClassLabel)
	b = appendInt32(b, 5, m.Level)
	return b
}

func (m *CharacterSummary) Unmarshal(data []byte) error {
	*m = CharacterSummary{}
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
		case 4:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ClassLabel = v
			data = data[n:]
		case 5:
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

// LoginResponse carries the session token, the UDP signing secret and
// the next hop on success; on failure only Ok=false and Message are set.
type LoginResponse struct {
	Ok                 bool
	Message            string
	Token              string
	HMACSecret         string
	AccountServiceAddr string
	Characters         []CharacterSummary
}

func (m *LoginResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	b = appendString(b, 3, m.Token)
	b = appendString(b, 4, m.HMACSecret)
	b = appendString(b, 5, m.AccountServiceAddr)
	for i := range m.Characters {
		b = appendMessage(b, 6, &m.Characters[i])
	}
	return b
}

func (m *LoginResponse) Unmarshal(data []byte) error {
	*m = LoginResponse{}
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
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Token = v
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.HMACSecret = v
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.AccountServiceAddr = v
			data = data[n:]
		case 6:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var cs CharacterSummary
			if err := cs.Unmarshal(v); err != nil {
				return err
			}
			m.Characters = append(m.Characters, cs)
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

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

func (m *RegisterRequest) AppendTo(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Password)
	return b
}

func (m *RegisterRequest) Unmarshal(data []byte) error {
	*m = RegisterRequest{}
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
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Email = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Password = v
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

// RegisterResponse reports registration success or a user-visible error.
type RegisterResponse struct {
	Ok      bool
	Message string
}

func (m *RegisterResponse) AppendTo(b []byte) []byte {
	b = appendBool(b, 1, m.Ok)
	b = appendString(b, 2, m.Message)
	return b
}

func (m *RegisterResponse) Unmarshal(data []byte) error {
	*m = RegisterResponse{}
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
