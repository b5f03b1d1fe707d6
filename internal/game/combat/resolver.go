package combat

import (
	"fmt"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// AttackInput builds the attack-roll check for c wielding w: ability modifier,
// proficiency when the weapon is proficient, and the enhancement bonus.
func AttackInput(c *character.Character, w *Weapon, situational ...int) check.Input {
	prof := check.Untrained
	if w.Proficient {
		prof = check.Proficient
	}
	return check.Input{
		Label:            w.Name,
		AbilityMod:       c.Abilities.Modifier(w.AttackAbility()),
		Proficiency:      prof,
		ProficiencyBonus: c.ProficiencyBonus(),
		Situational:      append([]int{w.Enhancement}, situational...),
		CritThreshold:    w.CritThreshold,
	}
}

// ResolveAttack rolls the attack for c wielding w.
//
// Precondition: c, w and src must be non-nil.
// Postcondition: CriticalSuccess uses w's crit threshold on the natural face.
func ResolveAttack(c *character.Character, w *Weapon, adv check.Advantage, src dice.Source, situational ...int) check.Outcome {
	return check.Resolve(AttackInput(c, w, situational...), adv, src)
}

// DamageOutcome is the result of rolling exactly one damage component.
//
// Invariant: Total == DiceTotal + Flat; len(Rolls) == DiceCount.
type DamageOutcome struct {
	Component string
	Type      string
	Primary   bool
	Critical  bool
	DiceCount int // effective count, doubled on a critical
	Sides     int
	Rolls     []int
	DiceTotal int
	Flat      int
	Total     int
}

// Expression renders the effective roll, e.g. "4d6+4" on a crit of 2d6+4.
func (d DamageOutcome) Expression() string {
	return dice.Format(d.DiceCount, d.Sides, d.Flat)
}

// Details renders the audit string used in notifications, e.g.
// "4d6+4 → [3 6 1 2] +4 = 16".
func (d DamageOutcome) Details() string {
	return dice.RollResult{Expression: d.Expression(), Dice: d.Rolls, Modifier: d.Flat}.String()
}

// RollDamage rolls comp, doubling only the dice count on a critical. extra
// is added once on top of the component's own modifier.
//
// Postcondition: flat modifiers are never doubled.
func RollDamage(comp DamageComponent, critical bool, extra int, src dice.Source) DamageOutcome {
	count := comp.Dice
	if critical {
		count *= 2
	}
	draw := dice.DrawDice(src, comp.Sides, count, dice.ModeNormal)
	flat := comp.Modifier + extra
	return DamageOutcome{
		Component: comp.Label(),
		Type:      comp.Type,
		Critical:  critical,
		DiceCount: count,
		Sides:     comp.Sides,
		Rolls:     draw.Values,
		DiceTotal: draw.Total,
		Flat:      flat,
		Total:     draw.Total + flat,
	}
}

// ResolveDamage rolls the single component at index from w.Components().
// The primary component adds c's attack ability modifier and w's enhancement
// bonus; additional components add only their own modifier.
//
// Precondition: index comes from w.Components().
// Postcondition: Returns ErrNoDamage when w has no rollable component and
// ErrComponentIndex when index is out of range.
func ResolveDamage(c *character.Character, w *Weapon, index int, critical bool, src dice.Source) (DamageOutcome, error) {
	sels := w.Components()
	if len(sels) == 0 {
		return DamageOutcome{}, ErrNoDamage
	}
	if index < 0 || index >= len(sels) {
		return DamageOutcome{}, fmt.Errorf("%w: %d of %d", ErrComponentIndex, index, len(sels))
	}
	sel := sels[index]

	extra := 0
	if sel.Primary {
		extra = c.Abilities.Modifier(w.AttackAbility()) + w.Enhancement
	}
	out := RollDamage(sel.Component, critical, extra, src)
	out.Primary = sel.Primary
	return out, nil
}
