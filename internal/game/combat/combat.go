// Package combat resolves attack rolls and multi-component damage rolls.
package combat

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoDamage is returned when a damage roll is requested for an attack
	// that has no rollable damage component.
	ErrNoDamage = errors.New("attack has no damage component")
	// ErrComponentIndex is returned when the selected component does not exist.
	ErrComponentIndex = errors.New("damage component index out of range")
	// ErrUnknownWeapon is returned by Armory lookups for unregistered IDs.
	ErrUnknownWeapon = errors.New("unknown weapon")
)

// Armory is an immutable-after-load registry of weapons by ID.
type Armory struct {
	weapons map[string]*Weapon
}

// NewArmory indexes weapons by ID.
//
// Postcondition: Returns an error if two weapons share an ID.
func NewArmory(weapons []*Weapon) (*Armory, error) {
	a := &Armory{weapons: make(map[string]*Weapon, len(weapons))}
	for _, w := range weapons {
		if _, dup := a.weapons[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon id %q", w.ID)
		}
		a.weapons[w.ID] = w
	}
	return a, nil
}

// Weapon returns the weapon registered under id.
func (a *Armory) Weapon(id string) (*Weapon, error) {
	w, ok := a.weapons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return w, nil
}

// IDs returns every registered weapon ID in sorted order.
func (a *Armory) IDs() []string {
	ids := make([]string, 0, len(a.weapons))
	for id := range a.weapons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
