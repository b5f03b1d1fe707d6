package table

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/observability"
)

// DamageResult is one rolled damage component.
type DamageResult struct {
	RollID  uuid.UUID
	Outcome combat.DamageOutcome
}

// Weapons returns every weapon ID in the armory.
func (s *Service) Weapons() []string {
	return s.content.Armory.IDs()
}

// Components lists the damage components the caller may choose for weaponID.
func (s *Service) Components(weaponID string) ([]combat.Selection, error) {
	w, err := s.content.Armory.Weapon(weaponID)
	if err != nil {
		return nil, err
	}
	return w.Components(), nil
}

// Attack rolls an attack with weaponID.
func (s *Service) Attack(ctx context.Context, key character.Key, weaponID string, adv check.Advantage, situational ...int) (CheckResult, error) {
	w, err := s.content.Armory.Weapon(weaponID)
	if err != nil {
		return CheckResult{}, err
	}
	c, err := s.Character(ctx, key)
	if err != nil {
		return CheckResult{}, err
	}
	out := combat.ResolveAttack(c, w, adv, s.roller.Source(), situational...)
	id := s.newID()
	s.record(ctx, id, observability.KindAttack, key, &out, zap.String("weapon", w.ID))
	s.send(ctx, id, observability.KindAttack, attackMessage(c, w, out))
	return CheckResult{RollID: id, Outcome: out}, nil
}

// Damage rolls the single component at index of weaponID. critical doubles
// the dice count only.
func (s *Service) Damage(ctx context.Context, key character.Key, weaponID string, index int, critical bool) (DamageResult, error) {
	w, err := s.content.Armory.Weapon(weaponID)
	if err != nil {
		return DamageResult{}, err
	}
	c, err := s.Character(ctx, key)
	if err != nil {
		return DamageResult{}, err
	}
	out, err := combat.ResolveDamage(c, w, index, critical, s.roller.Source())
	if err != nil {
		return DamageResult{}, err
	}
	id := s.newID()
	s.record(ctx, id, observability.KindDamage, key, nil,
		zap.String("weapon", w.ID),
		zap.String("component", out.Component),
		zap.Ints("rolls", out.Rolls),
		zap.Int("total", out.Total),
		zap.Bool("critical", out.Critical),
	)
	s.send(ctx, id, observability.KindDamage, damageMessage(c, w, out))
	return DamageResult{RollID: id, Outcome: out}, nil
}
