package table

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/corruption"
	"github.com/cory-johannsen/tabletop/internal/observability"
)

// CorruptionResult is a committed corruption change.
type CorruptionResult struct {
	RollID uuid.UUID
	Change corruption.Change
}

// Corruption returns the character's current corruption value and tier.
func (s *Service) Corruption(ctx context.Context, key character.Key) (int, corruption.Tier, error) {
	c, err := s.Character(ctx, key)
	if err != nil {
		return 0, corruption.Tier{}, err
	}
	ctr := s.counter(c)
	return ctr.Value(), ctr.Tier(), nil
}

// Corrupt adds amount to the character's corruption.
//
// Postcondition: the change is persisted before any notification is sent.
// On a store failure the value is unchanged, the error wraps
// corruption.ErrPersist, and nothing is sent.
func (s *Service) Corrupt(ctx context.Context, key character.Key, amount int) (CorruptionResult, error) {
	return s.mutate(ctx, key, func(ctr *corruption.Counter) (corruption.Change, error) {
		return ctr.Gain(ctx, amount)
	})
}

// Redeem removes amount from the character's corruption.
//
// Precondition: 1 <= amount <= current value, else corruption.ErrInvalidAmount.
func (s *Service) Redeem(ctx context.Context, key character.Key, amount int) (CorruptionResult, error) {
	return s.mutate(ctx, key, func(ctr *corruption.Counter) (corruption.Change, error) {
		return ctr.Spend(ctx, amount)
	})
}

func (s *Service) mutate(ctx context.Context, key character.Key, op func(*corruption.Counter) (corruption.Change, error)) (CorruptionResult, error) {
	c, err := s.Character(ctx, key)
	if err != nil {
		return CorruptionResult{}, err
	}
	ch, err := op(s.counter(c))
	if err != nil {
		if errors.Is(err, corruption.ErrPersist) {
			s.metrics.RecordPersistFailure(ctx, observability.KindCorruption)
		}
		return CorruptionResult{}, err
	}
	id := s.newID()
	s.logger.Info("corruption committed",
		zap.Stringer("roll_id", id),
		zap.Stringer("character", key),
		zap.Int("delta", ch.Delta),
		zap.Int("current", ch.Current),
		zap.String("tier", ch.To.Name),
	)
	s.send(ctx, id, observability.KindCorruption, corruptionMessage(c, ch))
	return CorruptionResult{RollID: id, Change: ch}, nil
}
