package model

// SkillDef is a static skill definition. Skill damage is added to the
// attacker's attack value before the damage formula runs.
type SkillDef struct {
	ID             int32
	Name           string
	ClassID        ClassID // 0 = usable by any class
	BaseDamage     int32
	DamagePerLevel int32
	CooldownMs     int32
	MPCost         int32
	RequiredLevel  int32
	Range          float32
}

// DamageBonus returns the attack bonus the skill grants at the given level.
func (s *SkillDef) DamageBonus(level int32) int32 {
	return s.BaseDamage + level*s.DamagePerLevel
}

// CharacterSkill is a skill a character has learned.
type CharacterSkill struct {
	CharacterID int64
	SkillID     int32
	Level       int32
}
