package model

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxCharactersPerAccount bounds character creation per account.
const MaxCharactersPerAccount = 4

// Character is the persistent view of a playable character. Runtime
// world state lives in the world package; this type is what the data
// service reads and writes.
type Character struct {
	ID         int64
	AccountID  int64
	Name       string
	ClassID    ClassID
	Level      int32
	XP         int64
	HP         int32
	MP         int32
	MaxHP      int32
	MaxMP      int32
	Strength   int32
	Stamina    int32
	Dexterity  int32
	Intellect  int32
	StatPoints int32
	MapID      int32
	Pos        Position
	Gold       int64
	PlayTime   int64 // accumulated seconds in world
	CreatedAt  time.Time
}

// ClampVitals enforces hp <= maxHp and mp <= maxMp without going below zero.
func (c *Character) ClampVitals() {
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.HP < 0 {
		c.HP = 0
	}
	if c.MP > c.MaxMP {
		c.MP = c.MaxMP
	}
	if c.MP < 0 {
		c.MP = 0
	}
}

const (
	nameMinRunes = 2
	nameMaxRunes = 16
)

func isNameLetter(r rune) bool {
	if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
		return true
	}
	switch r {
	case 'ä', 'ö', 'ü', 'ß', 'Ä', 'Ö', 'Ü', 'ẞ':
		return true
	}
	return false
}

func isNameRune(r rune) bool {
	return isNameLetter(r) || (r >= '0' && r <= '9')
}

// ValidateCharacterName checks the character naming rule: 2-16 code
// points, the first an alphabetic letter (extended Latin set included),
// the rest alphanumeric from the same set.
func ValidateCharacterName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < nameMinRunes || n > nameMaxRunes {
		return fmt.Errorf("name must be %d-%d characters, got %d", nameMinRunes, nameMaxRunes, n)
	}
	first := true
	for _, r := range name {
		if first {
			if !isNameLetter(r) {
				return fmt.Errorf("name must start with a letter")
			}
			first = false
			continue
		}
		if !isNameRune(r) {
			return fmt.Errorf("name contains invalid character %q", r)
		}
	}
	return nil
}
