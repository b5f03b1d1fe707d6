package combat

import (
	"sort"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// InitiativeEntry is one combatant's place in the turn order.
type InitiativeEntry struct {
	Key     character.Key
	Name    string
	Outcome check.Outcome
}

// RollInitiative rolls d20 + DEX modifier for every character and returns the
// turn order, highest total first. Ties keep the higher DEX modifier first,
// then input order.
//
// Precondition: characters must be non-nil; src must be non-nil.
// Postcondition: len(result) == len(characters).
func RollInitiative(characters []*character.Character, src dice.Source) []InitiativeEntry {
	order := make([]InitiativeEntry, len(characters))
	for i, c := range characters {
		order[i] = InitiativeEntry{Key: c.Key(), Name: c.Name, Outcome: check.Resolve(c.Initiative(), check.Normal, src)}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i].Outcome, order[j].Outcome
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Modifier > b.Modifier
	})
	return order
}
