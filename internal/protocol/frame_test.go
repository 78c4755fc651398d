package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		payload []byte
	}{
		{"empty payload", OpHeartbeat, nil},
		{"login request", OpLoginRequest, []byte{0x0A, 0x03, 'n', 'e', 'o'}},
		{"error response", OpErrorResponse, bytes.Repeat([]byte{0xAB}, 100)},
		{"max payload", OpZoneData, make([]byte, MaxPayloadSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFrame(&buf, tt.opcode, tt.payload))

			readBuf := make([]byte, MaxFrameSize)
			op, payload, err := ReadFrame(&buf, readBuf)
			require.NoError(t, err)
			assert.Equal(t, tt.opcode, op)
			assert.Equal(t, len(tt.payload), len(payload))
			if len(tt.payload) > 0 {
				assert.Equal(t, tt.payload, payload)
			}
		})
	}
}

func TestReadFrame_OversizedFrameLeavesStreamAligned(t *testing.T) {
	var raw bytes.Buffer
	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	raw.Write(header[:])
	binary.Write(&raw, binary.BigEndian, OpZoneData)
	raw.Write(make([]byte, MaxFrameSize+1-OpcodeSize))
	require.NoError(t, WriteFrame(&raw, OpHeartbeat, []byte{0x01}))

	readBuf := make([]byte, MaxFrameSize)
	op, _, err := ReadFrame(&raw, readBuf)
	require.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Equal(t, OpZoneData, op, "opcode survives for the error reply")

	// The oversized body was discarded, so the next frame parses.
	op, payload, err := ReadFrame(&raw, readBuf)
	require.NoError(t, err)
	assert.Equal(t, OpHeartbeat, op)
	assert.Equal(t, []byte{0x01}, payload)
}

func TestReadFrame_OversizedFrameTruncatedBody(t *testing.T) {
	var raw bytes.Buffer
	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	raw.Write(header[:])
	raw.Write(make([]byte, 16))

	_, _, err := ReadFrame(&raw, make([]byte, MaxFrameSize))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrFrameTooLarge, "a truncated oversized frame cannot be resynced")
}

func TestReadFrame_RejectsShortLength(t *testing.T) {
	var raw bytes.Buffer
	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], 1)
	raw.Write(header[:])

	_, _, err := ReadFrame(&raw, make([]byte, MaxFrameSize))
	require.Error(t, err)
}

func TestWriteFrame_RejectsOversizedPayload(t *testing.T) {
	err := WriteFrame(io.Discard, OpZoneData, make([]byte, MaxPayloadSize+1))
	require.Error(t, err)
}

func TestReadFrame_TruncatedBody(t *testing.T) {
	var raw bytes.Buffer
	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], 10)
	raw.Write(header[:])
	raw.Write([]byte{0x00, 0x01, 0x02}) // 3 of 10 bytes

	_, _, err := ReadFrame(&raw, make([]byte, MaxFrameSize))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFrameLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, OpLoginRequest, []byte{0xDE, 0xAD}))

	raw := buf.Bytes()
	require.Len(t, raw, LengthPrefixSize+OpcodeSize+2)
	assert.Equal(t, uint32(4), binary.BigEndian.Uint32(raw[:4]), "length counts opcode+payload")
	assert.Equal(t, uint16(0x0001), binary.BigEndian.Uint16(raw[4:6]))
	assert.Equal(t, []byte{0xDE, 0xAD}, raw[6:])
}
