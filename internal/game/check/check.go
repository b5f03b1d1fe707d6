// Package check composes modifiers, classifies criticals, and resolves d20
// checks: ability checks, skill checks, saving throws, initiative, and attack
// rolls all go through Resolve.
package check

import (
	"fmt"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// Proficiency is a character's training level in a skill, save, tool, or weapon.
type Proficiency int

const (
	// Untrained contributes nothing.
	Untrained Proficiency = iota
	// Proficient contributes the proficiency bonus once.
	Proficient
	// Expertise contributes the proficiency bonus twice.
	Expertise
)

// String returns the stored label for p.
func (p Proficiency) String() string {
	switch p {
	case Untrained:
		return "none"
	case Proficient:
		return "proficient"
	case Expertise:
		return "expertise"
	default:
		return "unknown"
	}
}

// ParseProficiency maps a stored label onto a Proficiency.
func ParseProficiency(s string) (Proficiency, error) {
	switch s {
	case "", "none":
		return Untrained, nil
	case "proficient":
		return Proficient, nil
	case "expertise":
		return Expertise, nil
	default:
		return Untrained, fmt.Errorf("check: unknown proficiency level %q", s)
	}
}

// Contribution returns the proficiency contribution for bonus.
//
// Postcondition: 0 for Untrained, bonus for Proficient, 2*bonus for Expertise.
func (p Proficiency) Contribution(bonus int) int {
	switch p {
	case Proficient:
		return bonus
	case Expertise:
		return 2 * bonus
	default:
		return 0
	}
}

// Advantage selects whether a check draws one d20 or keeps the better or
// worse of two.
type Advantage int

const (
	Normal Advantage = iota
	WithAdvantage
	WithDisadvantage
)

// String returns a human-readable advantage label.
func (a Advantage) String() string {
	switch a {
	case WithAdvantage:
		return "advantage"
	case WithDisadvantage:
		return "disadvantage"
	default:
		return "normal"
	}
}

// ParseAdvantage accepts "", "normal", "adv", "advantage", "dis", "disadvantage".
func ParseAdvantage(s string) (Advantage, error) {
	switch s {
	case "", "normal":
		return Normal, nil
	case "adv", "advantage":
		return WithAdvantage, nil
	case "dis", "disadvantage":
		return WithDisadvantage, nil
	default:
		return Normal, fmt.Errorf("check: unknown advantage state %q", s)
	}
}

// Mode maps the advantage state onto the draw primitive's mode.
func (a Advantage) Mode() dice.Mode {
	switch a {
	case WithAdvantage:
		return dice.ModeKeepHighest
	case WithDisadvantage:
		return dice.ModeKeepLowest
	default:
		return dice.ModeNormal
	}
}

// Compose returns abilityMod + proficiency contribution + sum(situational).
func Compose(abilityMod int, level Proficiency, bonus int, situational ...int) int {
	total := abilityMod + level.Contribution(bonus)
	for _, s := range situational {
		total += s
	}
	return total
}

// DefaultCritThreshold is the natural face at or above which a d20 is a
// critical success when no expanded range is configured.
const DefaultCritThreshold = 20

// Classify reports the critical flags for an unmodified d20 face.
//
// A threshold <= 0 means DefaultCritThreshold. Thresholds are clamped to
// [2, 20] so a natural 1 is never both a critical success and a critical failure.
//
// Postcondition: the two returned flags are never both true.
func Classify(face, threshold int) (critSuccess, critFailure bool) {
	if face == 1 {
		return false, true
	}
	return face >= normalizeThreshold(threshold), false
}

func normalizeThreshold(threshold int) int {
	switch {
	case threshold <= 0:
		return DefaultCritThreshold
	case threshold < 2:
		return 2
	case threshold > DefaultCritThreshold:
		return DefaultCritThreshold
	default:
		return threshold
	}
}
