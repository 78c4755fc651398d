package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"pgregory.net/rapid"
)

func TestLoginResponseRoundTrip(t *testing.T) {
	in := &LoginResponse{
		Ok:                 true,
		Token:              "eyJhbGciOiJIUzI1NiJ9.payload.sig",
		HMACSecret:         "c2VjcmV0LXNlY3JldC1zZWNyZXQtc2VjcmV0",
		AccountServiceAddr: "127.0.0.1:7779",
		Characters: []CharacterSummary{
			{ID: 1, Name: "Thorgrim", ClassID: 1, ClassLabel: "Krieger", Level: 12},
			{ID: 2, Name: "Lysandra", ClassID: 2, ClassLabel: "Magier", Level: 3},
		},
	}

	data := Marshal(in)
	var out LoginResponse
	require.NoError(t, out.Unmarshal(data))
	assert.Equal(t, *in, out)
}

func TestEntityEventCarriesOneVariant(t *testing.T) {
	in := &EntityEvent{
		Damage: &DamageEvent{
			AttackerID: 7,
			TargetID:   1000003,
			Amount:     42,
			Crit:       true,
			TargetHP:   18,
		},
	}

	var out EntityEvent
	require.NoError(t, out.Unmarshal(Marshal(in)))

	require.NotNil(t, out.Damage)
	assert.Equal(t, *in.Damage, *out.Damage)
	assert.Nil(t, out.Spawn)
	assert.Nil(t, out.Despawn)
	assert.Nil(t, out.Update)
}

func TestZeroValuesProduceEmptyPayload(t *testing.T) {
	msgs := []Message{
		&LoginRequest{},
		&MovementInput{},
		&CharacterRecord{},
		&EntityUpdate{},
		&Heartbeat{},
	}
	for _, m := range msgs {
		assert.Empty(t, Marshal(m))
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	data := Marshal(&SelectTarget{TargetEntityID: 99, AutoAttack: true})

	// A newer peer may append fields this build does not know about.
	data = protowire.AppendTag(data, 50, protowire.VarintType)
	data = protowire.AppendVarint(data, 12345)
	data = protowire.AppendTag(data, 51, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future"))
	data = protowire.AppendTag(data, 52, protowire.Fixed32Type)
	data = protowire.AppendFixed32(data, 0xDEADBEEF)

	var out SelectTarget
	require.NoError(t, out.Unmarshal(data))
	assert.Equal(t, int64(99), out.TargetEntityID)
	assert.True(t, out.AutoAttack)
}

func TestTruncatedPayloadFails(t *testing.T) {
	data := Marshal(&ChatMessage{Channel: 1, SenderID: 5, SenderName: "Thorgrim", Text: "hello"})
	require.NotEmpty(t, data)

	var out ChatMessage
	assert.Error(t, out.Unmarshal(data[:len(data)-3]))
}

func TestUnmarshalResetsPriorState(t *testing.T) {
	var out MoveItemResponse
	require.NoError(t, out.Unmarshal(Marshal(&MoveItemResponse{Ok: false, Message: "slot occupied"})))
	require.NoError(t, out.Unmarshal(Marshal(&MoveItemResponse{Ok: true})))
	assert.True(t, out.Ok)
	assert.Empty(t, out.Message, "stale message must not survive a second decode")
}

func TestCharacterRecordRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := CharacterRecord{
			ID:         rapid.Int64().Draw(t, "id"),
			AccountID:  rapid.Int64().Draw(t, "accountId"),
			Name:       rapid.StringMatching(`[A-Za-z][A-Za-z0-9]{1,15}`).Draw(t, "name"),
			ClassID:    rapid.Int32Range(1, 4).Draw(t, "classId"),
			Level:      rapid.Int32Range(1, 100).Draw(t, "level"),
			XP:         rapid.Int64().Draw(t, "xp"),
			HP:         rapid.Int32().Draw(t, "hp"),
			MP:         rapid.Int32().Draw(t, "mp"),
			MaxHP:      rapid.Int32().Draw(t, "maxHp"),
			MaxMP:      rapid.Int32().Draw(t, "maxMp"),
			Strength:   rapid.Int32().Draw(t, "str"),
			Stamina:    rapid.Int32().Draw(t, "sta"),
			Dexterity:  rapid.Int32().Draw(t, "dex"),
			Intellect:  rapid.Int32().Draw(t, "int"),
			StatPoints: rapid.Int32().Draw(t, "statPoints"),
			MapID:      rapid.Int32Range(1, 3).Draw(t, "mapId"),
			X:          rapid.Float32Range(-100, 10100).Draw(t, "x"),
			Y:          rapid.Float32Range(-10, 500).Draw(t, "y"),
			Z:          rapid.Float32Range(-100, 10100).Draw(t, "z"),
			Gold:       rapid.Int64().Draw(t, "gold"),
			PlayTime:   rapid.Int64().Draw(t, "playTime"),
		}

		var out CharacterRecord
		if err := out.Unmarshal(Marshal(&in)); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if in != out {
			t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
		}
	})
}

func TestMovementInputNegativeComponents(t *testing.T) {
	in := &MovementInput{DX: -1, DY: -0.5, DZ: 0.25, Moving: true, Flying: true, Rotation: -179.5}
	var out MovementInput
	require.NoError(t, out.Unmarshal(Marshal(in)))
	assert.Equal(t, *in, out)
}

func TestCharacterModelConversion(t *testing.T) {
	rec := &CharacterRecord{
		ID: 3, AccountID: 9, Name: "Brünhild", ClassID: 4, Level: 7,
		XP: 6200, HP: 120, MP: 80, MaxHP: 150, MaxMP: 95,
		Strength: 8, Stamina: 10, Dexterity: 8, Intellect: 12,
		StatPoints: 2, MapID: 2, X: 5000.5, Y: 12, Z: 4999.75,
		Gold: 340, PlayTime: 86400,
	}

	back := CharacterToRecord(rec.Model())
	assert.Equal(t, rec, back)
}
