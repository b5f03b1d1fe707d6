package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tabletop/internal/config"
	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/storage"
)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db    *pgxpool.Pool
	owned *Pool
}

var _ storage.CharacterStore = (*CharacterRepository)(nil)

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
// The caller keeps ownership of db.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Open connects a new pool and returns a repository that closes it on Close.
//
// Postcondition: Returns a connected repository or a non-nil error.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*CharacterRepository, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &CharacterRepository{db: pool.DB(), owned: pool}, nil
}

// Close releases the pool when the repository owns it.
func (r *CharacterRepository) Close() error {
	if r.owned != nil {
		r.owned.Close()
	}
	return nil
}

// Create inserts c, its proficiencies, and its resource row in one transaction.
//
// Precondition: c.UserID and c.Name must be non-empty; c.Level must be >= 1.
// Postcondition: Returns the created character with ID set.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out := *c
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		a := c.Abilities
		if err := tx.QueryRow(ctx, `
			INSERT INTO characters
				(user_id, name, level, strength, dexterity, constitution,
				 intelligence, wisdom, charisma, proficiency_bonus)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id, updated_at`,
			c.UserID, c.Name, c.Level, a.Strength, a.Dexterity, a.Constitution,
			a.Intelligence, a.Wisdom, a.Charisma, c.StoredBonus,
		).Scan(&out.ID, &out.UpdatedAt); err != nil {
			return fmt.Errorf("inserting character: %w", err)
		}

		b := &pgx.Batch{}
		for _, row := range storage.ProficiencyRows(c) {
			b.Queue(`INSERT INTO character_proficiencies (character_id, kind, name, level) VALUES ($1,$2,$3,$4)`,
				out.ID, row.Kind, row.Name, row.Level)
		}
		b.Queue(`INSERT INTO character_resources (character_id, user_id, corruption) VALUES ($1,$2,$3)`,
			out.ID, c.UserID, max(c.Corruption, 0))
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("inserting character details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Corruption = max(c.Corruption, 0)
	return &out, nil
}

// Load retrieves the snapshot for key, including proficiencies and the
// corruption counter. A missing resource row reads as zero corruption.
//
// Postcondition: Returns the Character or storage.ErrCharacterNotFound.
func (r *CharacterRepository) Load(ctx context.Context, key character.Key) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.user_id, c.name, c.level,
		       c.strength, c.dexterity, c.constitution, c.intelligence, c.wisdom, c.charisma,
		       c.proficiency_bonus, COALESCE(res.corruption, 0), c.updated_at
		FROM characters c
		LEFT JOIN character_resources res ON res.character_id = c.id
		WHERE c.id = $1 AND c.user_id = $2`,
		key.CharacterID, key.UserID,
	).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Level,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.StoredBonus, &c.Corruption, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT kind, name, level FROM character_proficiencies
		WHERE character_id = $1 ORDER BY kind, name`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("querying proficiencies: %w", err)
	}
	profs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.ProficiencyRow, error) {
		var p storage.ProficiencyRow
		err := row.Scan(&p.Kind, &p.Name, &p.Level)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning proficiency row: %w", err)
	}
	for _, p := range profs {
		if err := p.Apply(&c); err != nil {
			return nil, fmt.Errorf("character %s: %w", key, err)
		}
	}
	return &c, nil
}

// SaveCorruption writes value to the character's resource row, inserting the
// row when the character has none yet.
//
// Precondition: value must be >= 0.
// Postcondition: Returns nil on success, storage.ErrCharacterNotFound if the
// key matches no character.
func (r *CharacterRepository) SaveCorruption(ctx context.Context, key character.Key, value int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE character_resources SET corruption = $3, updated_at = NOW()
		WHERE character_id = $1 AND user_id = $2`,
		key.CharacterID, key.UserID, value,
	)
	if err != nil {
		return fmt.Errorf("updating corruption: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	tag, err = r.db.Exec(ctx, `
		INSERT INTO character_resources (character_id, user_id, corruption)
		SELECT id, user_id, $3 FROM characters WHERE id = $1 AND user_id = $2`,
		key.CharacterID, key.UserID, value,
	)
	if err != nil {
		return fmt.Errorf("inserting corruption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
	}
	return nil
}

// LoadAttempt returns the stored record for subject, empty when none exists.
//
// Postcondition: Returns the record or a non-nil error; a missing row is not an error.
func (r *CharacterRepository) LoadAttempt(ctx context.Context, key character.Key, subject string) (attempt.Record, error) {
	var filled int
	err := r.db.QueryRow(ctx, `
		SELECT a.filled FROM character_attempts a
		JOIN characters c ON c.id = a.character_id
		WHERE a.character_id = $1 AND c.user_id = $2 AND a.subject = $3`,
		key.CharacterID, key.UserID, subject,
	).Scan(&filled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attempt.Record{}, nil
		}
		return attempt.Record{}, fmt.Errorf("querying attempts: %w", err)
	}
	return attempt.RecordOf(filled), nil
}

// SaveAttempt upserts the record for subject.
//
// Postcondition: Returns nil on success, storage.ErrCharacterNotFound if the
// key matches no character.
func (r *CharacterRepository) SaveAttempt(ctx context.Context, key character.Key, subject string, rec attempt.Record) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO character_attempts (character_id, subject, filled)
		SELECT id, $3, $4 FROM characters WHERE id = $1 AND user_id = $2
		ON CONFLICT (character_id, subject) DO UPDATE
		SET filled = EXCLUDED.filled, updated_at = NOW()`,
		key.CharacterID, key.UserID, subject, rec.Filled(),
	)
	if err != nil {
		return fmt.Errorf("saving attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrCharacterNotFound, key)
	}
	return nil
}
