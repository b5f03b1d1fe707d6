// Package storage defines the character store the engine reads snapshots
// from and writes the corruption counter and attempt records to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/tabletop/internal/game/attempt"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// ErrCharacterNotFound is returned when no character matches a key.
var ErrCharacterNotFound = errors.New("character not found")

// CharacterStore reads character snapshots and persists the corruption
// counter. Every call is scoped by character and owning user.
type CharacterStore interface {
	// Load returns the snapshot for key or ErrCharacterNotFound.
	Load(ctx context.Context, key character.Key) (*character.Character, error)
	// Create inserts c with its proficiencies and corruption value and
	// returns it with ID set.
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	// SaveCorruption updates the corruption value, inserting the resource
	// row when it does not exist yet.
	SaveCorruption(ctx context.Context, key character.Key, value int) error
	// LoadAttempt returns the attempt record for subject, empty when none
	// is stored.
	LoadAttempt(ctx context.Context, key character.Key, subject string) (attempt.Record, error)
	// SaveAttempt upserts the attempt record for subject. It returns
	// ErrCharacterNotFound when key matches no character.
	SaveAttempt(ctx context.Context, key character.Key, subject string, rec attempt.Record) error
	Close() error
}

// Proficiency row kinds.
const (
	KindSkill = "skill"
	KindSave  = "save"
	KindTool  = "tool"
)

// ProficiencyRow is one stored proficiency.
type ProficiencyRow struct {
	Kind  string
	Name  string
	Level string
}

// ProficiencyRows flattens c's trained proficiencies into rows in a stable
// order. Untrained entries are omitted.
func ProficiencyRows(c *character.Character) []ProficiencyRow {
	var rows []ProficiencyRow
	add := func(kind, name string, p check.Proficiency) {
		if p != check.Untrained {
			rows = append(rows, ProficiencyRow{Kind: kind, Name: name, Level: p.String()})
		}
	}
	for s, p := range c.Skills {
		add(KindSkill, string(s), p)
	}
	for a, p := range c.Saves {
		add(KindSave, string(a), p)
	}
	for tool, p := range c.Tools {
		add(KindTool, tool, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Kind != rows[j].Kind {
			return rows[i].Kind < rows[j].Kind
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// Apply sets the proficiency described by row on c.
func (row ProficiencyRow) Apply(c *character.Character) error {
	p, err := check.ParseProficiency(row.Level)
	if err != nil {
		return err
	}
	switch row.Kind {
	case KindSkill:
		s, err := character.ParseSkill(row.Name)
		if err != nil {
			return err
		}
		if c.Skills == nil {
			c.Skills = make(map[character.Skill]check.Proficiency)
		}
		c.Skills[s] = p
	case KindSave:
		a, err := character.ParseAbility(row.Name)
		if err != nil {
			return err
		}
		if c.Saves == nil {
			c.Saves = make(map[character.Ability]check.Proficiency)
		}
		c.Saves[a] = p
	case KindTool:
		if c.Tools == nil {
			c.Tools = make(map[string]check.Proficiency)
		}
		c.Tools[row.Name] = p
	default:
		return fmt.Errorf("storage: unknown proficiency kind %q", row.Kind)
	}
	return nil
}
