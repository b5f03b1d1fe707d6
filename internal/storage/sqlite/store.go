// Package sqlite provides an embedded character store on modernc.org/sqlite
// for single-table play without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/storage"
	"github.com/cory-johannsen/tabletop/migrations"
)

// Store persists characters in a SQLite file.
type Store struct {
	db *sql.DB
}

var _ storage.CharacterStore = (*Store)(nil)

// Open opens or creates the database at path and applies the embedded
// migrations. ":memory:" opens a private in-memory database.
//
// Postcondition: Returns a migrated Store or a non-nil error.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: creating %q: %w", parent, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %q: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := migrations.Source("sqlite")
	if err != nil {
		return err
	}
	defer src.Close()
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite: migration driver: %w", err)
	}
	// Closing m would close db; only the source is released here.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("sqlite: creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: applying migrations: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts c, its proficiencies, and its resource row in one transaction.
func (s *Store) Create(ctx context.Context, c *character.Character) (out *character.Character, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created := *c
	created.Corruption = max(c.Corruption, 0)
	a := c.Abilities
	var updated string
	if err = tx.QueryRowContext(ctx, `
		INSERT INTO characters
			(user_id, name, level, strength, dexterity, constitution,
			 intelligence, wisdom, charisma, proficiency_bonus)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		RETURNING id, updated_at`,
		c.UserID, c.Name, c.Level, a.Strength, a.Dexterity, a.Constitution,
		a.Intelligence, a.Wisdom, a.Charisma, c.StoredBonus,
	).Scan(&created.ID, &updated); err != nil {
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	if created.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	for _, row := range storage.ProficiencyRows(c) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO character_proficiencies (character_id, kind, name, level) VALUES (?,?,?,?)`,
			created.ID, row.Kind, row.Name, row.Level,
		); err != nil {
			return nil, fmt.Errorf("inserting proficiency %s/%s: %w", row.Kind, row.Name, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO character_resources (character_id, user_id, corruption) VALUES (?,?,?)`,
		created.ID, c.UserID, created.Corruption,
	); err != nil {
		return nil, fmt.Errorf("inserting resources: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing character: %w", err)
	}
	return &created, nil
}

// Load retrieves the snapshot for key. A missing resource row reads as zero
// corruption.
func (s *Store) Load(ctx context.Context, key character.Key) (*character.Character, error) {
	var (
		c       character.Character
		updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.user_id, c.name, c.level,
		       c.strength, c.dexterity, c.constitution, c.intelligence, c.wisdom, c.charisma,
		       c.proficiency_bonus, COALESCE(res.corruption, 0), c.updated_at
		FROM characters c
		LEFT JOIN character_resources res ON res.character_id = c.id
		WHERE c.id = ? AND c.user_id = ?`,
		key.CharacterID, key.UserID,
	).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Level,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.StoredBonus, &c.Corruption, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, name, level FROM character_proficiencies
		WHERE character_id = ? ORDER BY kind, name`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("querying proficiencies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p storage.ProficiencyRow
		if err := rows.Scan(&p.Kind, &p.Name, &p.Level); err != nil {
			return nil, fmt.Errorf("scanning proficiency row: %w", err)
		}
		if err := p.Apply(&c); err != nil {
			return nil, fmt.Errorf("character %s: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading proficiencies: %w", err)
	}
	return &c, nil
}

// SaveCorruption updates the resource row, inserting it when missing.
func (s *Store) SaveCorruption(ctx context.Context, key character.Key, value int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE character_resources
		SET corruption = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE character_id = ? AND user_id = ?`,
		value, key.CharacterID, key.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating corruption: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating corruption: rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	res, err = s.db.ExecContext(ctx, `
		INSERT INTO character_resources (character_id, user_id, corruption)
		SELECT id, user_id, ? FROM characters WHERE id = ? AND user_id = ?`,
		value, key.CharacterID, key.UserID,
	)
	if err != nil {
		return fmt.Errorf("inserting corruption: %w", err)
	}
	if n, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("inserting corruption: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
	}
	return nil
}

// LoadAttempt returns the stored record for subject, empty when none exists.
func (s *Store) LoadAttempt(ctx context.Context, key character.Key, subject string) (attempt.Record, error) {
	var filled int
	err := s.db.QueryRowContext(ctx, `
		SELECT a.filled FROM character_attempts a
		JOIN characters c ON c.id = a.character_id
		WHERE a.character_id = ? AND c.user_id = ? AND a.subject = ?`,
		key.CharacterID, key.UserID, subject,
	).Scan(&filled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attempt.Record{}, nil
		}
		return attempt.Record{}, fmt.Errorf("querying attempts: %w", err)
	}
	return attempt.RecordOf(filled), nil
}

// SaveAttempt upserts the record for subject.
func (s *Store) SaveAttempt(ctx context.Context, key character.Key, subject string, rec attempt.Record) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO character_attempts (character_id, subject, filled)
		SELECT id, ?, ? FROM characters WHERE id = ? AND user_id = ?
		ON CONFLICT (character_id, subject) DO UPDATE
		SET filled = excluded.filled,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		subject, rec.Filled(), key.CharacterID, key.UserID,
	)
	if err != nil {
		return fmt.Errorf("saving attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving attempts: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
