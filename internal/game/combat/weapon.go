package combat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// DamageComponent is one independently configured dice, modifier, and type bundle.
//
// Dice == 0 on a primary component means "no primary damage".
type DamageComponent struct {
	Name     string `yaml:"name"`
	Dice     int    `yaml:"dice"`
	Sides    int    `yaml:"sides"`
	Modifier int    `yaml:"modifier"`
	Type     string `yaml:"type"`
}

// Expression renders the component as "NdS+M".
func (c DamageComponent) Expression() string {
	return dice.Format(c.Dice, c.Sides, c.Modifier)
}

// Label returns the display name, falling back to the damage type and then
// to the expression.
func (c DamageComponent) Label() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Type != "":
		return c.Type
	default:
		return c.Expression()
	}
}

func (c DamageComponent) validate() error {
	if c.Dice < 0 || c.Dice > dice.MaxDice {
		return fmt.Errorf("dice must be in [0, %d], got %d", dice.MaxDice, c.Dice)
	}
	if c.Dice > 0 && !dice.IsStandard(c.Sides) {
		return fmt.Errorf("sides must be a standard die size, got %d", c.Sides)
	}
	return nil
}

// Weapon is an attack definition: a weapon, natural attack, or spell attack.
type Weapon struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Ability governs the attack roll and primary damage; defaults to strength.
	Ability character.Ability `yaml:"ability"`
	// Proficient adds the proficiency bonus to the attack roll.
	Proficient bool `yaml:"proficient"`
	// Enhancement is a flat magic bonus to attack and primary damage.
	Enhancement int `yaml:"enhancement"`
	// CritThreshold is the lowest natural face that crits; 0 means 20.
	CritThreshold int `yaml:"crit_threshold"`
	// Primary is optional; an attack may deal no damage.
	Primary    *DamageComponent  `yaml:"damage"`
	Additional []DamageComponent `yaml:"additional_damage"`
}

// AttackAbility returns the governing ability, defaulting to strength.
func (w *Weapon) AttackAbility() character.Ability {
	if w.Ability == "" {
		return character.Strength
	}
	return w.Ability
}

// Selection is one damage component the caller may choose to roll.
type Selection struct {
	Index     int
	Primary   bool
	Component DamageComponent
}

// Components lists the selectable damage components in index order: the
// primary first when it has dice, then each additional component.
//
// Postcondition: Selection.Index equals its position in the returned slice.
func (w *Weapon) Components() []Selection {
	var out []Selection
	if w.Primary != nil && w.Primary.Dice > 0 {
		out = append(out, Selection{Index: 0, Primary: true, Component: *w.Primary})
	}
	for _, c := range w.Additional {
		out = append(out, Selection{Index: len(out), Component: c})
	}
	return out
}

// Validate checks that the Weapon satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.Ability != "" {
		if _, err := character.ParseAbility(string(w.Ability)); err != nil {
			errs = append(errs, err)
		}
	}
	if w.CritThreshold != 0 && (w.CritThreshold < 2 || w.CritThreshold > 20) {
		errs = append(errs, fmt.Errorf("crit_threshold must be in [2, 20], got %d", w.CritThreshold))
	}
	if w.Primary != nil {
		if err := w.Primary.validate(); err != nil {
			errs = append(errs, fmt.Errorf("damage: %w", err))
		}
	}
	for i, c := range w.Additional {
		if err := c.validate(); err != nil {
			errs = append(errs, fmt.Errorf("additional_damage[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a Weapon,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Weapons or the first encountered error.
func LoadWeapons(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*Weapon
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w Weapon
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
