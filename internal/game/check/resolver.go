package check

import (
	"fmt"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// Input carries everything the modifier composer needs for one check.
type Input struct {
	// Label names the check for display, e.g. "Stealth" or "Dexterity save".
	Label string
	// AbilityMod is the relevant ability modifier.
	AbilityMod int
	// Proficiency is the character's training in this check.
	Proficiency Proficiency
	// ProficiencyBonus is the character's level-derived bonus.
	ProficiencyBonus int
	// Situational lists flat bonuses and penalties.
	Situational []int
	// CritThreshold is the lowest natural face that crits; 0 means 20.
	CritThreshold int
}

// Modifier returns the composed modifier for in.
func (in Input) Modifier() int {
	return Compose(in.AbilityMod, in.Proficiency, in.ProficiencyBonus, in.Situational...)
}

// Outcome is the immutable result of one d20 check.
//
// Invariant: Total == Primary + Modifier; CriticalSuccess and CriticalFailure
// are never both true.
type Outcome struct {
	Label           string
	Advantage       Advantage
	Rolls           []int // every d20 face drawn; two under advantage or disadvantage
	Primary         int   // the face that counted
	Modifier        int
	Total           int
	CriticalSuccess bool
	CriticalFailure bool
}

// Details renders the "Roll Details" string "<raw><signed modifier>=<total>",
// e.g. "15+5=20" or "3-1=2".
func (o Outcome) Details() string {
	return fmt.Sprintf("%d%+d=%d", o.Primary, o.Modifier, o.Total)
}

// Meets reports whether the outcome's total meets or beats dc.
func (o Outcome) Meets(dc int) bool {
	return o.Total >= dc
}

// NaturalMax reports whether the primary face was a natural 20.
func (o Outcome) NaturalMax() bool { return o.Primary == dice.D20 }

// NaturalMin reports whether the primary face was a natural 1.
func (o Outcome) NaturalMin() bool { return o.Primary == 1 }

// Resolve draws a d20 under adv, composes the modifier from in, and classifies
// criticals on the unmodified face.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a fully populated Outcome; never fails.
func Resolve(in Input, adv Advantage, src dice.Source) Outcome {
	draw := dice.DrawDice(src, dice.D20, 1, adv.Mode())
	mod := in.Modifier()
	critS, critF := Classify(draw.Total, in.CritThreshold)
	return Outcome{
		Label:           in.Label,
		Advantage:       adv,
		Rolls:           draw.Values,
		Primary:         draw.Total,
		Modifier:        mod,
		Total:           draw.Total + mod,
		CriticalSuccess: critS,
		CriticalFailure: critF,
	}
}
