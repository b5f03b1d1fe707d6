package crafting

import (
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/tier"
)

// Training summarises the proficiencies that bound the best achievable tier.
type Training struct {
	// Proficiencies counts relevant tool or skill proficiencies.
	Proficiencies int
	// Expertise is true when any counted proficiency is at expertise.
	Expertise bool
	// Kit is true when the character has the specialised kit for the activity.
	Kit bool
}

// TrainingFrom counts the proficiencies in levels, treating any Expertise as
// expertise. kit records whether the specialised kit is on hand.
func TrainingFrom(kit bool, levels ...check.Proficiency) Training {
	var t Training
	for _, l := range levels {
		if l == check.Untrained {
			continue
		}
		t.Proficiencies++
		if l == check.Expertise {
			t.Expertise = true
		}
	}
	t.Kit = kit
	return t
}

// CeilingRank maps training onto the highest rank it can produce:
// none → 1, one → 2, two or one with expertise → 3, expertise with kit → 4.
func CeilingRank(t Training) int {
	switch {
	case t.Expertise && t.Kit && t.Proficiencies > 0:
		return 4
	case t.Proficiencies >= 2, t.Proficiencies >= 1 && t.Expertise:
		return 3
	case t.Proficiencies == 1:
		return 2
	default:
		return 1
	}
}

// Attempt is one crafting or research roll to be placed on a ladder.
type Attempt struct {
	Category   string
	Ingredient string
	Training   Training
	Outcome    check.Outcome
}

// Result is the quality reached by an Attempt.
type Result struct {
	Ladder     string
	Category   string
	Ingredient string
	// DC is the category base DC adjusted by the ingredient modifier.
	DC      int
	Ceiling tier.Tier
	Tier    tier.Outcome
	// Succeeded is true when the total met DC on anything but a natural 1.
	Succeeded bool
}

// Resolve places a.Outcome on the ladder named ladder.
//
// A natural 1 always yields the worst tier. A natural 20 yields the ceiling.
// Otherwise the earned tier is capped at the ceiling.
func (c *Config) Resolve(ladder string, a Attempt) (Result, error) {
	l, err := c.Ladder(ladder)
	if err != nil {
		return Result{}, err
	}
	table, err := l.Table(a.Category)
	if err != nil {
		return Result{}, err
	}
	mod, err := c.Ingredient(a.Ingredient)
	if err != nil {
		return Result{}, err
	}
	base, _ := l.BaseDC(a.Category)

	shifted := table.Shift(mod)
	ceiling, err := shifted.Lookup(l.TierAt(CeilingRank(a.Training)).Name)
	if err != nil {
		return Result{}, err
	}
	out := tier.Resolve(a.Outcome.Total, shifted, tier.Options{
		NaturalMax: a.Outcome.NaturalMax(),
		NaturalMin: a.Outcome.NaturalMin(),
		Ceiling:    &ceiling,
	})

	dc := base + mod
	return Result{
		Ladder:     l.Name,
		Category:   a.Category,
		Ingredient: a.Ingredient,
		DC:         dc,
		Ceiling:    ceiling,
		Tier:       out,
		Succeeded:  !a.Outcome.NaturalMin() && a.Outcome.Meets(dc),
	}, nil
}
