package model

// ClassID identifies a character class. IDs are stable and stored in the
// database; the German labels are the canonical client-facing names.
type ClassID int32

const (
	ClassKrieger   ClassID = 1 // warrior
	ClassMagier    ClassID = 2 // mage
	ClassAssassine ClassID = 3 // assassin
	ClassKleriker  ClassID = 4 // cleric
)

var classLabels = map[ClassID]string{
	ClassKrieger:   "krieger",
	ClassMagier:    "magier",
	ClassAssassine: "assassine",
	ClassKleriker:  "kleriker",
}

// ParseClass maps a canonical class name to its ClassID.
// Returns false for anything outside the canonical set.
func ParseClass(name string) (ClassID, bool) {
	for id, label := range classLabels {
		if label == name {
			return id, true
		}
	}
	return 0, false
}

// Label returns the canonical class name, or "" for an unknown id.
func (c ClassID) Label() string {
	return classLabels[c]
}

// Valid reports whether the id is one of the four canonical classes.
func (c ClassID) Valid() bool {
	_, ok := classLabels[c]
	return ok
}

// BaseStats holds the primary attributes a class starts with.
type BaseStats struct {
	Strength  int32
	Stamina   int32
	Dexterity int32
	Intellect int32
}

var classBaseStats = map[ClassID]BaseStats{
	ClassKrieger:   {Strength: 14, Stamina: 12, Dexterity: 8, Intellect: 4},
	ClassMagier:    {Strength: 6, Stamina: 8, Dexterity: 8, Intellect: 16},
	ClassAssassine: {Strength: 10, Stamina: 8, Dexterity: 16, Intellect: 6},
	ClassKleriker:  {Strength: 8, Stamina: 10, Dexterity: 8, Intellect: 12},
}

// StartingStats returns the base attributes for the class.
// Unknown classes get zeroed stats; callers validate the class first.
func (c ClassID) StartingStats() BaseStats {
	return classBaseStats[c]
}

// StartingHP derives max HP from stamina.
func StartingHP(stats BaseStats) int32 {
	return 50 + stats.Stamina*10
}

// StartingMP derives max MP from intellect.
func StartingMP(stats BaseStats) int32 {
	return 20 + stats.Intellect*5
}
