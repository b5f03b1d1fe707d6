package crafting

import (
	"fmt"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// Activity names the ability a ladder's check rolls and the proficiencies
// that count toward both the check and the quality ceiling.
type Activity struct {
	Ability character.Ability `yaml:"ability"`
	// Tool is the kit proficiency key, e.g. "herbalism_kit". Empty for none.
	Tool   string            `yaml:"tool"`
	Skills []character.Skill `yaml:"skills"`
}

func (a Activity) validate() error {
	if _, err := character.ParseAbility(string(a.Ability)); err != nil {
		return fmt.Errorf("activity ability: %w", err)
	}
	for _, s := range a.Skills {
		if _, err := character.ParseSkill(string(s)); err != nil {
			return fmt.Errorf("activity skills: %w", err)
		}
	}
	return nil
}

func (a Activity) levels(c *character.Character) []check.Proficiency {
	levels := make([]check.Proficiency, 0, len(a.Skills)+1)
	if a.Tool != "" {
		levels = append(levels, c.ToolProficiency(a.Tool))
	}
	for _, s := range a.Skills {
		levels = append(levels, c.SkillProficiency(s))
	}
	return levels
}

// Input builds the check for c: the activity ability plus the best of the
// counted proficiencies.
func (a Activity) Input(c *character.Character, label string, situational ...int) check.Input {
	best := check.Untrained
	for _, p := range a.levels(c) {
		best = max(best, p)
	}
	return check.Input{
		Label:            label,
		AbilityMod:       c.Abilities.Modifier(a.Ability),
		Proficiency:      best,
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      situational,
	}
}

// Training summarises c's counted proficiencies; kit reports whether the
// specialised kit is on hand.
func (a Activity) Training(c *character.Character, kit bool) Training {
	return TrainingFrom(kit, a.levels(c)...)
}
