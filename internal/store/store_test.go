package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flyagain/server/internal/model"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "session:AAECAwQFBgc", sessionKey("AAECAwQFBgc"))
	assert.Equal(t, "session:account:42", accountSessionKey(42))
	assert.Equal(t, "char:7", charKey(7))
	assert.Equal(t, "character:7:dirty", dirtyKey(7))
	assert.Equal(t, "zone:2:channel:3", zoneChannelKey(2, 3))
	assert.Equal(t, "rate_limit:10.0.0.1:login", rateLimitKey("10.0.0.1", "login"))
}

func TestParseDirtyKey(t *testing.T) {
	tests := []struct {
		key    string
		wantID int64
		wantOK bool
	}{
		{"character:12:dirty", 12, true},
		{"character:1:dirty", 1, true},
		{"character:abc:dirty", 0, false},
		{"character::dirty", 0, false},
		{"character:-4:dirty", 0, false},
		{"character:0:dirty", 0, false},
		{"char:12:dirty", 0, false},
		{"character:12:dirty:extra", 0, false},
		{"character:12", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		id, ok := parseDirtyKey(tt.key)
		assert.Equal(t, tt.wantOK, ok, "key %q", tt.key)
		assert.Equal(t, tt.wantID, id, "key %q", tt.key)
	}
}

func TestCharacterFieldsRoundTrip(t *testing.T) {
	in := &model.Character{
		ID:         7,
		AccountID:  42,
		Name:       "Thorgrim",
		ClassID:    model.ClassKrieger,
		Level:      12,
		XP:         11500,
		HP:         166,
		MP:         38,
		MaxHP:      170,
		MaxMP:      40,
		Strength:   14,
		Stamina:    12,
		Dexterity:  8,
		Intellect:  4,
		StatPoints: 3,
		MapID:      2,
		Pos:        model.Position{X: 512.5, Y: 14.25, Z: 498},
		Gold:       1200,
		PlayTime:   3600,
	}

	// Redis stores every hash value as a string; flatten the same way.
	fields := charFields(in)
	asStrings := make(map[string]string, len(fields))
	for k, v := range fields {
		asStrings[k] = fmt.Sprint(v)
	}

	out := CharacterFromFields(in.ID, asStrings)
	assert.Equal(t, in, out)
}

func TestCharacterFromFieldsDefaults(t *testing.T) {
	out := CharacterFromFields(9, map[string]string{"name": "Ghost"})

	assert.Equal(t, int64(9), out.ID)
	assert.Equal(t, "Ghost", out.Name)
	assert.Equal(t, int32(1), out.Level)
	assert.Equal(t, int32(1), out.MapID)
	assert.Zero(t, out.HP)
	assert.Zero(t, out.MP)
	assert.Zero(t, out.XP)
	assert.Zero(t, out.Gold)
	assert.Zero(t, out.PlayTime)
	assert.Zero(t, out.Pos)
}
