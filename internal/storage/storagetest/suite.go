// Package storagetest holds the behaviour every storage.CharacterStore
// backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/storage"
)

// Character returns a populated character owned by a fresh user id.
func Character(name string) *character.Character {
	return &character.Character{
		UserID: uuid.NewString(),
		Name:   name,
		Level:  5,
		Abilities: character.AbilityScores{
			Strength: 16, Dexterity: 14, Constitution: 12,
			Intelligence: 10, Wisdom: 13, Charisma: 8,
		},
		Skills: map[character.Skill]check.Proficiency{
			character.Athletics: check.Proficient,
			character.Stealth:   check.Expertise,
		},
		Saves: map[character.Ability]check.Proficiency{character.Strength: check.Proficient},
		Tools: map[string]check.Proficiency{"herbalism_kit": check.Proficient},
	}
}

// Run exercises store through create, load, corruption writes, and attempt records.
func Run(t *testing.T, store storage.CharacterStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateAndLoad", func(t *testing.T) {
		in := Character("Kara")
		in.Corruption = 3
		created, err := store.Create(ctx, in)
		require.NoError(t, err)
		assert.Greater(t, created.ID, int64(0))

		got, err := store.Load(ctx, created.Key())
		require.NoError(t, err)
		assert.Equal(t, "Kara", got.Name)
		assert.Equal(t, 5, got.Level)
		assert.Equal(t, in.Abilities, got.Abilities)
		assert.Equal(t, 3, got.Corruption)
		assert.Equal(t, check.Expertise, got.SkillProficiency(character.Stealth))
		assert.Equal(t, check.Proficient, got.SaveProficiency(character.Strength))
		assert.Equal(t, check.Untrained, got.SaveProficiency(character.Wisdom))
		assert.Equal(t, check.Proficient, got.ToolProficiency("herbalism_kit"))
		assert.Equal(t, 3, got.ProficiencyBonus())
	})

	t.Run("LoadScopedByUser", func(t *testing.T) {
		created, err := store.Create(ctx, Character("Orrin"))
		require.NoError(t, err)
		_, err = store.Load(ctx, character.Key{CharacterID: created.ID, UserID: uuid.NewString()})
		assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	})

	t.Run("SaveCorruption", func(t *testing.T) {
		created, err := store.Create(ctx, Character("Vex"))
		require.NoError(t, err)
		require.NoError(t, store.SaveCorruption(ctx, created.Key(), 9))
		got, err := store.Load(ctx, created.Key())
		require.NoError(t, err)
		assert.Equal(t, 9, got.Corruption)

		require.NoError(t, store.SaveCorruption(ctx, created.Key(), 0))
		got, err = store.Load(ctx, created.Key())
		require.NoError(t, err)
		assert.Equal(t, 0, got.Corruption)
	})

	t.Run("Attempts", func(t *testing.T) {
		created, err := store.Create(ctx, Character("Mira"))
		require.NoError(t, err)
		key := created.Key()

		rec, err := store.LoadAttempt(ctx, key, "healing draught")
		require.NoError(t, err)
		assert.Equal(t, attempt.Record{}, rec)

		require.NoError(t, store.SaveAttempt(ctx, key, "healing draught", attempt.RecordOf(1)))
		require.NoError(t, store.SaveAttempt(ctx, key, "healing draught", attempt.RecordOf(2)))
		rec, err = store.LoadAttempt(ctx, key, "healing draught")
		require.NoError(t, err)
		assert.Equal(t, attempt.Record{true, true}, rec)

		rec, err = store.LoadAttempt(ctx, key, "other")
		require.NoError(t, err)
		assert.Zero(t, rec.Filled())

		stranger := character.Key{CharacterID: key.CharacterID, UserID: uuid.NewString()}
		rec, err = store.LoadAttempt(ctx, stranger, "healing draught")
		require.NoError(t, err)
		assert.Zero(t, rec.Filled(), "records are scoped by user")
		assert.ErrorIs(t, store.SaveAttempt(ctx, stranger, "x", attempt.RecordOf(1)), storage.ErrCharacterNotFound)
	})

	t.Run("SaveCorruptionUnknownCharacter", func(t *testing.T) {
		err := store.SaveCorruption(ctx, character.Key{CharacterID: 999999, UserID: "nobody"}, 1)
		assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	})
}
