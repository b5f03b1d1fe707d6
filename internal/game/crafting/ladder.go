// Package crafting resolves crafting quality and knowledge-check research on
// a DC ladder: each quality tier sits at an offset from the category's base
// DC, ingredient quality shifts the whole ladder, and the character's
// proficiencies cap the best achievable tier.
package crafting

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/tier"
)

var (
	ErrUnknownLadder            = errors.New("unknown ladder")
	ErrUnknownCategory          = errors.New("unknown category")
	ErrUnknownIngredientQuality = errors.New("unknown ingredient quality")
)

// Ladder names.
const (
	Brewing  = "brewing"
	Research = "research"
)

// Step is one rung of a ladder. The first step is the worst tier and is
// reached by any total; it has no offset.
type Step struct {
	Name   string `yaml:"name"`
	Offset int    `yaml:"offset"`
}

// Ladder is a named quality ladder with per-category base DCs and the
// character traits that drive attempts on it.
type Ladder struct {
	Name       string         `yaml:"-"`
	Steps      []Step         `yaml:"tiers"`
	Categories map[string]int `yaml:"categories"`
	Activity   Activity       `yaml:"activity"`
}

// Validate checks that the ladder has a worst tier plus four ranked tiers
// with strictly increasing offsets, and at least one category.
func (l *Ladder) Validate() error {
	if len(l.Steps) != 5 {
		return fmt.Errorf("ladder %q: want 5 tiers, got %d", l.Name, len(l.Steps))
	}
	for i := 2; i < len(l.Steps); i++ {
		if l.Steps[i].Offset <= l.Steps[i-1].Offset {
			return fmt.Errorf("ladder %q: tier %q offset must exceed %q", l.Name, l.Steps[i].Name, l.Steps[i-1].Name)
		}
	}
	if len(l.Categories) == 0 {
		return fmt.Errorf("ladder %q: no categories", l.Name)
	}
	if err := l.Activity.validate(); err != nil {
		return fmt.Errorf("ladder %q: %w", l.Name, err)
	}
	_, err := l.table(0)
	return err
}

// CategoryNames returns the ladder's categories sorted by base DC.
func (l *Ladder) CategoryNames() []string {
	names := make([]string, 0, len(l.Categories))
	for n := range l.Categories {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if l.Categories[names[i]] != l.Categories[names[j]] {
			return l.Categories[names[i]] < l.Categories[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// BaseDC returns the category's base DC.
func (l *Ladder) BaseDC(category string) (int, error) {
	dc, ok := l.Categories[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q in ladder %q (want one of %s)",
			ErrUnknownCategory, category, l.Name, strings.Join(l.CategoryNames(), ", "))
	}
	return dc, nil
}

// Table returns the tier table for category before ingredient adjustment.
func (l *Ladder) Table(category string) (*tier.Table, error) {
	base, err := l.BaseDC(category)
	if err != nil {
		return nil, err
	}
	return l.table(base)
}

func (l *Ladder) table(base int) (*tier.Table, error) {
	tiers := make([]tier.Tier, len(l.Steps))
	for i, s := range l.Steps {
		threshold := base + s.Offset
		if i == 0 {
			threshold = tier.Floor
		}
		tiers[i] = tier.Tier{Name: s.Name, Rank: i, Threshold: threshold}
	}
	return tier.NewTable(tiers...)
}

// TierAt returns the tier with the given rank, 0 being the worst.
func (l *Ladder) TierAt(rank int) tier.Tier {
	rank = min(max(rank, 0), len(l.Steps)-1)
	return tier.Tier{Name: l.Steps[rank].Name, Rank: rank}
}

// Config is the on-disk ladder file: ladders plus ingredient modifiers.
type Config struct {
	Ladders     map[string]*Ladder `yaml:"ladders"`
	Ingredients map[string]int     `yaml:"ingredient_qualities"`
}

// Ingredient returns the signed DC modifier for an ingredient quality.
// An empty quality is "standard".
func (c *Config) Ingredient(quality string) (int, error) {
	if quality == "" {
		quality = "standard"
	}
	mod, ok := c.Ingredients[quality]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIngredientQuality, quality)
	}
	return mod, nil
}

// Ladder returns the named ladder.
func (c *Config) Ladder(name string) (*Ladder, error) {
	l, ok := c.Ladders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLadder, name)
	}
	return l, nil
}

// Validate checks every ladder and requires a "standard" ingredient entry.
func (c *Config) Validate() error {
	var errs []error
	for name, l := range c.Ladders {
		l.Name = name
		if err := l.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, ok := c.Ingredients["standard"]; !ok {
		errs = append(errs, errors.New("ingredient_qualities must define \"standard\""))
	}
	return errors.Join(errs...)
}

// DefaultConfig returns the built-in brewing and research ladders.
func DefaultConfig() *Config {
	return &Config{
		Ladders: map[string]*Ladder{
			Brewing: {
				Name: Brewing,
				Steps: []Step{
					{Name: "ruined"},
					{Name: "flawed", Offset: -5},
					{Name: "normal", Offset: 0},
					{Name: "exceptional", Offset: 5},
					{Name: "superior", Offset: 10},
				},
				Categories: map[string]int{"common": 10, "uncommon": 13, "rare": 16, "very_rare": 19, "legendary": 22},
				Activity: Activity{
					Ability: character.Intelligence,
					Tool:    "herbalism_kit",
					Skills:  []character.Skill{character.Medicine},
				},
			},
			Research: {
				Name: Research,
				Steps: []Step{
					{Name: "ruined"},
					{Name: "flawed", Offset: -5},
					{Name: "regular", Offset: 0},
					{Name: "exceptional", Offset: 5},
					{Name: "superior", Offset: 10},
				},
				Categories: map[string]int{"common": 10, "obscure": 15, "arcane": 20, "forbidden": 25},
				Activity: Activity{
					Ability: character.Intelligence,
					Skills:  []character.Skill{character.Arcana, character.History, character.Investigation},
				},
			},
		},
		Ingredients: map[string]int{"poor": 2, "standard": 0, "fine": -2, "exquisite": -4},
	}
}

// LoadConfig reads a ladder file. An empty path returns DefaultConfig.
//
// Postcondition: Returns a validated Config or a non-nil error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: cannot read file %q: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("LoadConfig: cannot parse file %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("LoadConfig: invalid ladders in %q: %w", path, err)
	}
	return &c, nil
}
