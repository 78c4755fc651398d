package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const (
	sessionIDBytes  = 8
	hmacSecretBytes = 32
)

// HMACSize is the length of the trailer on authenticated UDP frames.
const HMACSize = sha256.Size

// NewSessionID returns a fresh session id: 8 random bytes in
// base64-url without padding (11 characters).
func NewSessionID() (string, error) {
	var b [sessionIDBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// NewHMACSecret returns a fresh UDP signing secret: 32 random bytes in
// base64-url without padding (43 characters).
func NewHMACSecret() (string, error) {
	var b [hmacSecretBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating hmac secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// SessionToken derives the numeric UDP token from a session id: the
// big-endian value of the id's 8 decoded bytes.
func SessionToken(sessionID string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sessionID)
	if err != nil || len(raw) < sessionIDBytes {
		return 0, fmt.Errorf("malformed session id %q", sessionID)
	}
	return binary.BigEndian.Uint64(raw[:sessionIDBytes]), nil
}

// SignUDP computes the HMAC-SHA256 trailer over a UDP frame body with
// the session's secret (the base64 string as raw key bytes).
func SignUDP(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// VerifyUDP checks a UDP frame trailer in constant time.
func VerifyUDP(secret string, body, sum []byte) bool {
	return hmac.Equal(SignUDP(secret, body), sum)
}
