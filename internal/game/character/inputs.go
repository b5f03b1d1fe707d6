package character

import "github.com/cory-johannsen/tabletop/internal/game/check"

// SkillCheck builds the check input for a skill check.
func (c *Character) SkillCheck(s Skill, situational ...int) check.Input {
	return check.Input{
		Label:            s.Title(),
		AbilityMod:       c.Abilities.Modifier(s.Ability()),
		Proficiency:      c.SkillProficiency(s),
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      situational,
	}
}

// AbilityCheck builds the check input for a raw ability check. Ability checks
// never add proficiency.
func (c *Character) AbilityCheck(a Ability, situational ...int) check.Input {
	return check.Input{
		Label:            a.Title() + " check",
		AbilityMod:       c.Abilities.Modifier(a),
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      situational,
	}
}

// SavingThrow builds the check input for a saving throw against a.
func (c *Character) SavingThrow(a Ability, situational ...int) check.Input {
	return check.Input{
		Label:            a.Title() + " save",
		AbilityMod:       c.Abilities.Modifier(a),
		Proficiency:      c.SaveProficiency(a),
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      situational,
	}
}

// Initiative builds the check input for an initiative roll: d20 + DEX modifier.
func (c *Character) Initiative(situational ...int) check.Input {
	return check.Input{
		Label:            "Initiative",
		AbilityMod:       c.Abilities.Modifier(Dexterity),
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      situational,
	}
}
