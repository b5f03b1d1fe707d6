// Package main provides a database migration runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/storage/postgres"
	"github.com/cory-johannsen/tabletop/migrations"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	timeout := flag.Duration("timeout", postgres.DefaultHealthTimeout, "postgres health check timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	url, err := databaseURL(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.Storage.Driver == config.DriverPostgres {
		if err := checkPostgres(context.Background(), cfg.Database, *timeout); err != nil {
			log.Fatalf("%v", err)
		}
	}
	src, err := migrations.Source(cfg.Storage.Driver)
	if err != nil {
		log.Fatalf("%v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	elapsed := time.Since(start)

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stdout, "no changes (driver=%s version=%d dirty=%v) [%s]\n", cfg.Storage.Driver, version, dirty, elapsed)
	} else {
		fmt.Fprintf(os.Stdout, "migrated %s %s to version=%d dirty=%v [%s]\n", cfg.Storage.Driver, *direction, version, dirty, elapsed)
	}
}

func databaseURL(cfg config.Config) (string, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return cfg.Database.DSN(), nil
	case config.DriverSQLite:
		return "sqlite://" + cfg.SQLite.Path, nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// checkPostgres fails fast with a readable error when the server is down,
// before migrate reports a lower-level connection failure.
func checkPostgres(ctx context.Context, cfg config.DatabaseConfig, timeout time.Duration) error {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return pool.Health(ctx, timeout)
}
