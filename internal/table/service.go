// Package table is the application facade over the resolution engine. It
// loads character snapshots, resolves rolls, records attempts, persists the
// corruption counter, and forwards every result to the notification sink.
package table

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/corruption"
	"github.com/cory-johannsen/tabletop/internal/game/crafting"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/notify"
	"github.com/cory-johannsen/tabletop/internal/observability"
	"github.com/cory-johannsen/tabletop/internal/scripting"
	"github.com/cory-johannsen/tabletop/internal/storage"
)

// Content is the static game data the service resolves against.
type Content struct {
	Armory   *combat.Armory
	Crafting *crafting.Config
	// Macros is nil when no macro directory is configured.
	Macros *scripting.Manager
}

// Service resolves rolls for characters in one play session.
//
// Service is safe for concurrent use. Corruption counters live for the
// lifetime of the Service; attempt records live in the store.
type Service struct {
	store    storage.CharacterStore
	notifier notify.Notifier
	roller   *dice.Roller
	content  *Content
	attempts *attempt.Tracker
	metrics  *observability.Metrics
	logger   *zap.Logger
	newID    func() uuid.UUID

	mu       sync.Mutex
	counters map[character.Key]*corruption.Counter
}

// NewService wires a Service.
//
// Precondition: every argument must be non-nil.
func NewService(
	store storage.CharacterStore,
	notifier notify.Notifier,
	roller *dice.Roller,
	content *Content,
	attempts *attempt.Tracker,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		roller:   roller,
		content:  content,
		attempts: attempts,
		metrics:  metrics,
		logger:   logger,
		newID:    uuid.New,
		counters: make(map[character.Key]*corruption.Counter),
	}
}

// Character loads the snapshot for key.
func (s *Service) Character(ctx context.Context, key character.Key) (*character.Character, error) {
	c, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading character %s: %w", key, err)
	}
	return c, nil
}

// Create stores a new character and returns it with its assigned ID.
func (s *Service) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	created, err := s.store.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("creating character %q: %w", c.Name, err)
	}
	s.logger.Info("character created",
		zap.Stringer("character", created.Key()),
		zap.String("name", created.Name),
	)
	return created, nil
}

// Attempts returns the stored attempt record for subject.
func (s *Service) Attempts(ctx context.Context, key character.Key, subject string) (attempt.Record, error) {
	return s.attempts.Get(ctx, key, subject)
}

// counter returns the session counter for c, seeding it from the snapshot on
// first use.
func (s *Service) counter(c *character.Character) *corruption.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := c.Key()
	ctr, ok := s.counters[key]
	if !ok {
		ctr = corruption.NewCounter(key, c.Corruption, s.store, s.logger)
		s.counters[key] = ctr
	}
	return ctr
}

// send forwards msg best-effort. A failure is logged and counted, never returned.
func (s *Service) send(ctx context.Context, id uuid.UUID, kind string, msg notify.Message) {
	msg.Footer = "roll " + id.String()
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.metrics.RecordNotifyFailure(ctx, kind)
		s.logger.Warn("notification failed",
			zap.Stringer("roll_id", id),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

// record counts the roll and logs it at info.
func (s *Service) record(ctx context.Context, id uuid.UUID, kind string, key character.Key, o *check.Outcome, fields ...zap.Field) {
	crit := ""
	if o != nil {
		fields = append(fields,
			zap.String("label", o.Label),
			zap.Ints("rolls", o.Rolls),
			zap.Int("modifier", o.Modifier),
			zap.Int("total", o.Total),
		)
		switch {
		case o.CriticalSuccess:
			crit = "success"
		case o.CriticalFailure:
			crit = "failure"
		}
		if crit != "" {
			fields = append(fields, zap.String("critical", crit))
		}
	}
	s.metrics.RecordRoll(ctx, kind, crit)
	s.logger.Info("roll resolved", append([]zap.Field{
		zap.Stringer("roll_id", id),
		zap.String("kind", kind),
		zap.Stringer("character", key),
	}, fields...)...)
}
