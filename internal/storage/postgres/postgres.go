// Package postgres stores characters, corruption counters, and attempt
// records in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tabletop/internal/config"
)

// DefaultHealthTimeout bounds the reachability check made when a pool opens.
const DefaultHealthTimeout = 5 * time.Second

// Pool owns the pgx connection pool shared by the character repository.
type Pool struct {
	pool *pgxpool.Pool
	addr string
}

// NewPool connects to the database described by cfg and checks it answers
// within DefaultHealthTimeout. Zero pool limits keep the pgx defaults.
//
// Precondition: cfg must describe a reachable server.
// Postcondition: Returns a healthy Pool or a non-nil error; no pool is leaked
// on failure.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{pool: pool, addr: fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)}
	if err := p.Health(ctx, DefaultHealthTimeout); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Health reports whether the database answers a ping within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database %s unreachable: %w", p.addr, err)
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for repositories and tests.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
