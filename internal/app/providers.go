// Package app wires a table.Service from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/notify"
	"github.com/cory-johannsen/tabletop/internal/notify/discord"
	"github.com/cory-johannsen/tabletop/internal/observability"
	"github.com/cory-johannsen/tabletop/internal/storage"
	"github.com/cory-johannsen/tabletop/internal/storage/postgres"
	"github.com/cory-johannsen/tabletop/internal/storage/sqlite"
	"github.com/cory-johannsen/tabletop/internal/table"
)

// ProviderSet builds a table.Service from a config.Config and a logger.
var ProviderSet = wire.NewSet(
	ProvideStore,
	ProvideNotifier,
	ProvideSource,
	dice.NewLoggedRoller,
	LoadContent,
	ProvideTracker,
	observability.SessionMetrics,
	table.NewService,
)

// ProvideStore opens the character store selected by cfg.Storage.Driver.
//
// Postcondition: the cleanup closes the store.
func ProvideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.CharacterStore, func(), error) {
	var (
		store storage.CharacterStore
		err   error
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		store, err = postgres.Open(ctx, cfg.Database)
	case config.DriverSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLite.Path)
	default:
		err = fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Driver, err)
	}
	logger.Info("character store opened", zap.String("driver", cfg.Storage.Driver))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing character store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideNotifier returns the Discord webhook notifier, or notify.Nop when
// webhooks are disabled.
func ProvideNotifier(cfg config.Config) (notify.Notifier, error) {
	if !cfg.Webhook.Enabled {
		return notify.Nop{}, nil
	}
	n, err := discord.New(discord.Config{
		URL:      cfg.Webhook.URL,
		Username: cfg.Webhook.Username,
		Timeout:  cfg.Webhook.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating webhook notifier: %w", err)
	}
	return n, nil
}

// ProvideSource returns the dice source selected by cfg.Dice.
func ProvideSource(cfg config.Config) dice.Source {
	if cfg.Dice.Source == config.SourceSeeded {
		return dice.NewSeededSource(cfg.Dice.Seed)
	}
	return dice.NewCryptoSource()
}

// ProvideTracker records attempts through the character store so slots
// accumulate across runs.
func ProvideTracker(store storage.CharacterStore) *attempt.Tracker {
	return attempt.NewTracker(store)
}
