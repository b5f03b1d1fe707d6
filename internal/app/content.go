package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/corruption"
	"github.com/cory-johannsen/tabletop/internal/game/crafting"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/scripting"
	"github.com/cory-johannsen/tabletop/internal/table"
)

// LoadContent loads weapons, ladders and macros concurrently.
//
// An empty weapons dir yields an empty armory; an empty macros dir disables
// macros.
// Postcondition: the cleanup closes the macro VM when one was loaded.
func LoadContent(ctx context.Context, cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*table.Content, func(), error) {
	var (
		weapons []*combat.Weapon
		ladders *crafting.Config
		macros  *scripting.Manager
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cfg.Content.WeaponsDir == "" {
			return nil
		}
		var err error
		weapons, err = combat.LoadWeapons(cfg.Content.WeaponsDir)
		if err != nil {
			return fmt.Errorf("loading weapons: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ladders, err = crafting.LoadConfig(cfg.Content.LaddersFile)
		if err != nil {
			return fmt.Errorf("loading ladders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if cfg.Content.MacrosDir == "" {
			return nil
		}
		mgr := scripting.NewManager(roller, logger)
		mgr.RegisterTable("corruption", corruption.Table())
		if err := mgr.Load(gctx, cfg.Content.MacrosDir, scripting.DefaultInstructionLimit); err != nil {
			mgr.Close()
			return fmt.Errorf("loading macros: %w", err)
		}
		macros = mgr
		return nil
	})
	if err := g.Wait(); err != nil {
		if macros != nil {
			macros.Close()
		}
		return nil, nil, err
	}

	armory, err := combat.NewArmory(weapons)
	if err != nil {
		if macros != nil {
			macros.Close()
		}
		return nil, nil, err
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(weapons)),
		zap.Int("ladders", len(ladders.Ladders)),
		zap.Bool("macros", macros != nil),
	)
	cleanup := func() {
		if macros != nil {
			macros.Close()
		}
	}
	return &table.Content{Armory: armory, Crafting: ladders, Macros: macros}, cleanup, nil
}
