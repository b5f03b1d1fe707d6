package table

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/crafting"
	"github.com/cory-johannsen/tabletop/internal/observability"
)

// CraftRequest describes one attempt on a crafting or research ladder.
type CraftRequest struct {
	Category string
	// Ingredient defaults to "standard".
	Ingredient string
	// Subject keys the attempt record; defaults to Category.
	Subject string
	// Kit reports whether the specialised kit is on hand.
	Kit         bool
	Advantage   check.Advantage
	Situational []int
}

// CraftResult is a resolved ladder attempt and the updated attempt record.
type CraftResult struct {
	RollID  uuid.UUID
	Outcome check.Outcome
	Result  crafting.Result
	Record  attempt.Record
}

// Brew attempts a brew on the brewing ladder.
func (s *Service) Brew(ctx context.Context, key character.Key, req CraftRequest) (CraftResult, error) {
	return s.Craft(ctx, key, crafting.Brewing, req)
}

// Research attempts a knowledge check on the research ladder.
func (s *Service) Research(ctx context.Context, key character.Key, req CraftRequest) (CraftResult, error) {
	return s.Craft(ctx, key, crafting.Research, req)
}

// Craft rolls the ladder's activity check for the character, places it on
// the ladder, and records the attempt against the request subject.
func (s *Service) Craft(ctx context.Context, key character.Key, ladder string, req CraftRequest) (CraftResult, error) {
	l, err := s.content.Crafting.Ladder(ladder)
	if err != nil {
		return CraftResult{}, err
	}
	if req.Ingredient == "" {
		req.Ingredient = "standard"
	}
	if req.Subject == "" {
		req.Subject = req.Category
	}
	// Validate the request before rolling so a bad category costs no roll.
	if _, err := l.BaseDC(req.Category); err != nil {
		return CraftResult{}, err
	}
	if _, err := s.content.Crafting.Ingredient(req.Ingredient); err != nil {
		return CraftResult{}, err
	}
	c, err := s.Character(ctx, key)
	if err != nil {
		return CraftResult{}, err
	}

	title := ladderTitle(l.Name)
	out := check.Resolve(l.Activity.Input(c, title, req.Situational...), req.Advantage, s.roller.Source())
	res, err := s.content.Crafting.Resolve(l.Name, crafting.Attempt{
		Category:   req.Category,
		Ingredient: req.Ingredient,
		Training:   l.Activity.Training(c, req.Kit),
		Outcome:    out,
	})
	if err != nil {
		return CraftResult{}, err
	}
	kind := observability.KindBrew
	if l.Name == crafting.Research {
		kind = observability.KindResearch
	}
	rec, err := s.attempts.Record(ctx, key, req.Subject, out, res.Succeeded)
	if err != nil {
		if errors.Is(err, attempt.ErrPersist) {
			s.metrics.RecordPersistFailure(ctx, observability.KindAttempt)
		}
		s.logger.Error("recording attempt",
			zap.Stringer("character", key),
			zap.String("subject", req.Subject),
			zap.Error(err),
		)
		return CraftResult{}, err
	}
	id := s.newID()
	s.record(ctx, id, kind, key, &out,
		zap.String("category", res.Category),
		zap.String("ingredient", res.Ingredient),
		zap.Int("dc", res.DC),
		zap.String("quality", res.Tier.Tier.Name),
		zap.Bool("succeeded", res.Succeeded),
		zap.Int("slots", rec.Filled()),
	)
	s.send(ctx, id, kind, craftMessage(c, title, res, out))
	return CraftResult{RollID: id, Outcome: out, Result: res, Record: rec}, nil
}

func ladderTitle(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
