package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame layout: [4-byte length, big-endian][2-byte opcode, big-endian][payload].
// The length field counts opcode + payload only.
const (
	LengthPrefixSize = 4
	OpcodeSize       = 2

	// MaxFrameSize bounds opcode + payload.
	MaxFrameSize   = 64 * 1024
	MaxPayloadSize = MaxFrameSize - OpcodeSize
)

// ErrFrameTooLarge reports a length prefix above MaxFrameSize. ReadFrame
// discards the oversized body before returning it, so the stream stays
// aligned and the caller may keep the connection.
var ErrFrameTooLarge = errors.New("frame too large")

// AppendFrame appends a complete frame for opcode and payload to dst.
func AppendFrame(dst []byte, opcode uint16, payload []byte) ([]byte, error) {
	frameLen := OpcodeSize + len(payload)
	if frameLen > MaxFrameSize {
		return dst, fmt.Errorf("frame too large: %d bytes (max %d)", frameLen, MaxFrameSize)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(frameLen))
	dst = binary.BigEndian.AppendUint16(dst, opcode)
	return append(dst, payload...), nil
}

// WriteFrame encodes and writes a single frame to w.
func WriteFrame(w io.Writer, opcode uint16, payload []byte) error {
	buf := make([]byte, 0, LengthPrefixSize+OpcodeSize+len(payload))
	buf, err := AppendFrame(buf, opcode, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r into buf and returns the opcode and
// a subslice of buf holding the payload. buf must be at least
// MaxFrameSize bytes. An ErrFrameTooLarge error still carries the
// opcode and leaves the stream usable; every other error means it is
// not.
func ReadFrame(r io.Reader, buf []byte) (uint16, []byte, error) {
	var header [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, fmt.Errorf("reading frame header: %w", err)
	}

	frameLen := int(binary.BigEndian.Uint32(header[:]))
	if frameLen < OpcodeSize {
		return 0, nil, fmt.Errorf("invalid frame length: %d", frameLen)
	}
	if frameLen > MaxFrameSize {
		var opBuf [OpcodeSize]byte
		if _, err := io.ReadFull(r, opBuf[:]); err != nil {
			return 0, nil, fmt.Errorf("reading oversized frame opcode: %w", err)
		}
		if _, err := io.CopyN(io.Discard, r, int64(frameLen-OpcodeSize)); err != nil {
			return 0, nil, fmt.Errorf("discarding oversized frame: %w", err)
		}
		opcode := binary.BigEndian.Uint16(opBuf[:])
		return opcode, nil, fmt.Errorf("frame of %d bytes (max %d): %w", frameLen, MaxFrameSize, ErrFrameTooLarge)
	}
	if frameLen > len(buf) {
		return 0, nil, fmt.Errorf("frame %d exceeds buffer size %d", frameLen, len(buf))
	}

	body := buf[:frameLen]
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("reading frame body: %w", err)
	}

	opcode := binary.BigEndian.Uint16(body[:OpcodeSize])
	return opcode, body[OpcodeSize:], nil
}
