// Package wire defines the binary message schema shared by all four
// services. Payloads are protobuf wire format produced by hand-written
// encoders over encoding/protowire; field numbers are frozen, zero
// values are omitted, unknown fields are skipped on decode.
package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every schema type. AppendTo appends the
// encoded message to b and returns the extended slice; Unmarshal
// resets the receiver and decodes data into it.
type Message interface {
	AppendTo(b []byte) []byte
	Unmarshal(data []byte) error
}

// Marshal encodes m into a fresh buffer.
func Marshal(m Message) []byte {
	return m.AppendTo(nil)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	return appendVarint(b, num, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	bits := math.Float32bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, bits)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	bits := math.Float64bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, bits)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendTo(nil))
}

// skipField consumes an unknown field, keeping decoders tolerant of
// schema growth.
func skipField(data []byte, num protowire.Number, typ protowire.Type) ([]byte, error) {
	n := protowire.ConsumeFieldValue(num, typ, data)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	return data[n:], nil
}

func float32frombits(v uint32) float32 {
	return math.Float32frombits(v)
}

func float64frombits(v uint64) float64 {
	return math.Float64frombits(v)
}
