package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/observability"
	"github.com/cory-johannsen/tabletop/internal/scripting"
)

// ErrMacrosDisabled is returned by Macro when no macro directory is loaded.
var ErrMacrosDisabled = errors.New("macros are not enabled")

// CheckResult is a resolved d20 check.
type CheckResult struct {
	RollID  uuid.UUID
	Outcome check.Outcome
}

// ExpressionResult is a rolled dice expression.
type ExpressionResult struct {
	RollID uuid.UUID
	Result dice.RollResult
}

// Roll rolls a free dice expression such as "2d6+3" for the character.
func (s *Service) Roll(ctx context.Context, key character.Key, expr string) (ExpressionResult, error) {
	c, err := s.Character(ctx, key)
	if err != nil {
		return ExpressionResult{}, err
	}
	res, err := s.roller.RollExpr(expr)
	if err != nil {
		return ExpressionResult{}, err
	}
	id := s.newID()
	s.record(ctx, id, observability.KindExpression, key, nil,
		zap.String("expression", res.Expression),
		zap.Int("total", res.Total()),
	)
	s.send(ctx, id, observability.KindExpression, expressionMessage(c, res))
	return ExpressionResult{RollID: id, Result: res}, nil
}

// Check resolves a skill check when target names a skill, otherwise a raw
// ability check.
func (s *Service) Check(ctx context.Context, key character.Key, target string, adv check.Advantage, situational ...int) (CheckResult, error) {
	c, err := s.Character(ctx, key)
	if err != nil {
		return CheckResult{}, err
	}
	var in check.Input
	if sk, err := character.ParseSkill(target); err == nil {
		in = c.SkillCheck(sk, situational...)
	} else if a, err := character.ParseAbility(target); err == nil {
		in = c.AbilityCheck(a, situational...)
	} else {
		return CheckResult{}, fmt.Errorf("unknown skill or ability %q", target)
	}
	return s.resolve(ctx, c, in, adv), nil
}

// Save resolves a saving throw for ability.
func (s *Service) Save(ctx context.Context, key character.Key, ability string, adv check.Advantage, situational ...int) (CheckResult, error) {
	c, err := s.Character(ctx, key)
	if err != nil {
		return CheckResult{}, err
	}
	a, err := character.ParseAbility(ability)
	if err != nil {
		return CheckResult{}, err
	}
	return s.resolve(ctx, c, c.SavingThrow(a, situational...), adv), nil
}

func (s *Service) resolve(ctx context.Context, c *character.Character, in check.Input, adv check.Advantage) CheckResult {
	out := check.Resolve(in, adv, s.roller.Source())
	id := s.newID()
	s.record(ctx, id, observability.KindCheck, c.Key(), &out)
	s.send(ctx, id, observability.KindCheck, checkMessage(c, out))
	return CheckResult{RollID: id, Outcome: out}
}

// InitiativeResult is a rolled turn order.
type InitiativeResult struct {
	RollID uuid.UUID
	Order  []combat.InitiativeEntry
}

// Initiative rolls initiative for every key and returns the turn order. One
// notification is sent per combatant in turn order.
func (s *Service) Initiative(ctx context.Context, keys ...character.Key) (InitiativeResult, error) {
	chars := make([]*character.Character, 0, len(keys))
	byKey := make(map[character.Key]*character.Character, len(keys))
	for _, k := range keys {
		c, err := s.Character(ctx, k)
		if err != nil {
			return InitiativeResult{}, err
		}
		chars = append(chars, c)
		byKey[c.Key()] = c
	}
	order := combat.RollInitiative(chars, s.roller.Source())
	id := s.newID()
	for i, e := range order {
		c := byKey[e.Key]
		s.record(ctx, id, observability.KindInitiative, e.Key, &e.Outcome, zap.Int("position", i+1))
		msg := checkMessage(c, e.Outcome)
		msg.Title = fmt.Sprintf("Initiative #%d", i+1)
		s.send(ctx, id, observability.KindInitiative, msg)
	}
	return InitiativeResult{RollID: id, Order: order}, nil
}

// MacroResult is a completed macro call.
type MacroResult struct {
	RollID uuid.UUID
	Result scripting.Result
}

// Macros lists the loaded macro names.
func (s *Service) Macros() ([]string, error) {
	if s.content.Macros == nil {
		return nil, ErrMacrosDisabled
	}
	return s.content.Macros.Macros(), nil
}

// Macro runs the named Lua macro with integer args.
func (s *Service) Macro(ctx context.Context, key character.Key, name string, args ...int) (MacroResult, error) {
	if s.content.Macros == nil {
		return MacroResult{}, ErrMacrosDisabled
	}
	c, err := s.Character(ctx, key)
	if err != nil {
		return MacroResult{}, err
	}
	res, err := s.content.Macros.Call(ctx, name, args...)
	if err != nil {
		return MacroResult{}, err
	}
	id := s.newID()
	s.record(ctx, id, observability.KindMacro, key, nil,
		zap.String("macro", name),
		zap.String("value", res.Value),
		zap.Int("rolls", len(res.Rolls)),
		zap.Int("checks", len(res.Checks)),
	)
	s.send(ctx, id, observability.KindMacro, macroMessage(c, res))
	return MacroResult{RollID: id, Result: res}, nil
}
