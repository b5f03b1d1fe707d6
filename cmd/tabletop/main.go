// Package main provides the tabletop binary: it resolves one roll for a
// stored character and posts the result to the configured webhook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/app"
	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	characterID := flag.Int64("character", 0, "character id")
	userID := flag.String("user", "", "owning user id")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: tabletop [flags] <verb> [args]\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s\n", usage)
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, cleanup, err := app.InitializeService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing service", zap.Error(err))
	}

	key := character.Key{CharacterID: *characterID, UserID: *userID}
	err = run(ctx, svc, key, flag.Args(), os.Stdout)
	cleanup()
	logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
