package corruption

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/character"
)

var (
	// ErrInvalidAmount is returned when a gain is < 1 or a spend is outside
	// [1, current]. No state changes.
	ErrInvalidAmount = errors.New("invalid corruption amount")
	// ErrPersist wraps a store failure after the counter has been rolled back.
	ErrPersist = errors.New("persisting corruption failed")
)

// Gain returns max(0, current + amount).
func Gain(current, amount int) int {
	return max(0, current+amount)
}

// Spend returns max(0, current - amount).
func Spend(current, amount int) int {
	return max(0, current-amount)
}

// Store persists the counter value for a character, creating the resource
// row when none exists yet.
type Store interface {
	SaveCorruption(ctx context.Context, key character.Key, value int) error
}

// Change describes one successful mutation.
type Change struct {
	Key      character.Key
	Previous int
	Current  int
	Delta    int
	From     Tier
	To       Tier
}

// TierChanged reports whether the mutation crossed a tier boundary.
func (c Change) TierChanged() bool { return c.From.Name != c.To.Name }

// Counter is one character's corruption value. Mutations write through to
// the store and roll back in memory if the write fails.
//
// Counter serialises its own mutations but makes no attempt to detect a
// concurrent writer on another process; the last write wins.
type Counter struct {
	mu     sync.Mutex
	key    character.Key
	value  int
	store  Store
	logger *zap.Logger
}

// NewCounter creates a Counter loaded with value.
//
// Precondition: store and logger must be non-nil; value >= 0.
func NewCounter(key character.Key, value int, store Store, logger *zap.Logger) *Counter {
	return &Counter{key: key, value: max(0, value), store: store, logger: logger}
}

// Value returns the current in-memory value.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Tier returns the tier for the current value.
func (c *Counter) Tier() Tier {
	return TierFor(c.Value())
}

// Gain adds amount and persists.
//
// Precondition: amount >= 1, else ErrInvalidAmount.
// Postcondition: on store failure the value is unchanged and the error wraps ErrPersist.
func (c *Counter) Gain(ctx context.Context, amount int) (Change, error) {
	return c.apply(ctx, amount, Gain, func(int) error {
		if amount < 1 {
			return fmt.Errorf("%w: gain must be >= 1, got %d", ErrInvalidAmount, amount)
		}
		return nil
	})
}

// Spend removes amount and persists.
//
// Precondition: 1 <= amount <= Value(), else ErrInvalidAmount.
// Postcondition: on store failure the value is unchanged and the error wraps ErrPersist.
func (c *Counter) Spend(ctx context.Context, amount int) (Change, error) {
	return c.apply(ctx, amount, Spend, func(current int) error {
		if amount < 1 || amount > current {
			return fmt.Errorf("%w: spend must be in [1, %d], got %d", ErrInvalidAmount, current, amount)
		}
		return nil
	})
}

// apply validates amount against the current value and mutates under one lock.
func (c *Counter) apply(ctx context.Context, amount int, op func(current, amount int) int, valid func(current int) error) (Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := valid(c.value); err != nil {
		return Change{}, err
	}
	prev := c.value
	c.value = op(prev, amount)

	if err := c.store.SaveCorruption(ctx, c.key, c.value); err != nil {
		c.value = prev
		c.logger.Error("persisting corruption, rolled back",
			zap.Stringer("character", c.key),
			zap.Int("value", prev),
			zap.Error(err),
		)
		return Change{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	change := Change{
		Key:      c.key,
		Previous: prev,
		Current:  c.value,
		Delta:    c.value - prev,
		From:     TierFor(prev),
		To:       TierFor(c.value),
	}
	c.logger.Info("corruption changed",
		zap.Stringer("character", c.key),
		zap.Int("previous", prev),
		zap.Int("current", c.value),
		zap.String("tier", change.To.Name),
	)
	return change, nil
}
