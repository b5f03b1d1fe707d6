// Package character defines the character snapshot the resolution engine
// reads: ability scores, proficiencies, and the corruption counter.
package character

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// Key identifies a character record in the external store. Every read and
// write is scoped by both the character and its owning user.
type Key struct {
	CharacterID int64
	UserID      string
}

// String returns "user/character" for logging.
func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.UserID, k.CharacterID)
}

// AbilityScores holds the six raw ability score values for a character.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Score returns the raw score for a.
func (s AbilityScores) Score(a Ability) int {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	default:
		return 10
	}
}

// Set stores v as the raw score for a.
func (s *AbilityScores) Set(a Ability, v int) {
	switch a {
	case Strength:
		s.Strength = v
	case Dexterity:
		s.Dexterity = v
	case Constitution:
		s.Constitution = v
	case Intelligence:
		s.Intelligence = v
	case Wisdom:
		s.Wisdom = v
	case Charisma:
		s.Charisma = v
	}
}

// Modifier returns the ability modifier for a: floor((score - 10) / 2).
func (s AbilityScores) Modifier(a Ability) int {
	return AbilityMod(s.Score(a))
}

// AbilityMod computes the standard ability modifier using floor division: floor((score - 10) / 2).
// Postcondition: Returns floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// ProficiencyBonusForLevel returns 2 + (level-1)/4, minimum 2.
func ProficiencyBonusForLevel(level int) int {
	if level < 1 {
		return 2
	}
	return 2 + (level-1)/4
}

// Character is the engine's read model of a persisted character.
//
// The engine never writes anything but Corruption back to the store.
type Character struct {
	ID     int64
	UserID string

	Name      string
	Level     int
	Abilities AbilityScores
	// StoredBonus overrides the level-derived proficiency bonus when > 0.
	StoredBonus int

	Skills map[Skill]check.Proficiency
	Saves  map[Ability]check.Proficiency
	// Tools maps a tool or kit identifier (e.g. "herbalism_kit") to proficiency.
	Tools map[string]check.Proficiency

	Corruption int

	UpdatedAt time.Time
}

// Key returns the store key for c.
func (c *Character) Key() Key {
	return Key{CharacterID: c.ID, UserID: c.UserID}
}

// ProficiencyBonus returns the stored bonus, or the level-derived one when unset.
func (c *Character) ProficiencyBonus() int {
	if c.StoredBonus > 0 {
		return c.StoredBonus
	}
	return ProficiencyBonusForLevel(c.Level)
}

// SkillProficiency returns c's training in s; absent entries are Untrained.
func (c *Character) SkillProficiency(s Skill) check.Proficiency {
	return c.Skills[s]
}

// SaveProficiency returns c's training in saves for a.
func (c *Character) SaveProficiency(a Ability) check.Proficiency {
	return c.Saves[a]
}

// ToolProficiency returns c's training with tool.
func (c *Character) ToolProficiency(tool string) check.Proficiency {
	return c.Tools[tool]
}
