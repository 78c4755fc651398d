package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClass(t *testing.T) {
	tests := []struct {
		input  string
		wantID ClassID
		wantOK bool
	}{
		{"krieger", ClassKrieger, true},
		{"magier", ClassMagier, true},
		{"assassine", ClassAssassine, true},
		{"kleriker", ClassKleriker, true},
		{"warrior", 0, false},
		{"Krieger", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := ParseClass(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestStartingVitals(t *testing.T) {
	stats := ClassKrieger.StartingStats()
	assert.Equal(t, int32(170), StartingHP(stats), "krieger hp = 50 + 12*10")
	assert.Equal(t, int32(40), StartingMP(stats), "krieger mp = 20 + 4*5")

	mage := ClassMagier.StartingStats()
	assert.Equal(t, int32(130), StartingHP(mage))
	assert.Equal(t, int32(100), StartingMP(mage))
}

func TestClassLabelRoundTrip(t *testing.T) {
	for _, id := range []ClassID{ClassKrieger, ClassMagier, ClassAssassine, ClassKleriker} {
		got, ok := ParseClass(id.Label())
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}
