// Package tier maps a rolled or counted total onto a named bucket in an
// ordered threshold table.
package tier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Tier is one named bucket. Rank orders tiers from worst (lowest) to best.
type Tier struct {
	Name      string
	Rank      int
	Threshold int
}

// Floor is the threshold for a worst tier that any total reaches.
const Floor = math.MinInt

// Table is an immutable tier table sorted descending by threshold.
//
// Invariant: thresholds strictly descend and ranks strictly descend with them,
// so a higher threshold always means a better tier.
type Table struct {
	tiers []Tier
}

var (
	// ErrEmptyTable is returned by NewTable when no tiers are supplied.
	ErrEmptyTable = errors.New("tier table must not be empty")
	// ErrUnknownTier is returned when a tier name is not in the table.
	ErrUnknownTier = errors.New("unknown tier")
)

// NewTable validates tiers and returns them as a Table. Input order does not
// matter.
//
// Postcondition: Returns an error on duplicate names, duplicate thresholds,
// or ranks that do not follow threshold order.
func NewTable(tiers ...Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyTable
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold > sorted[j].Threshold })

	names := make(map[string]bool, len(sorted))
	for i, t := range sorted {
		if t.Name == "" {
			return nil, fmt.Errorf("tier at threshold %d has no name", t.Threshold)
		}
		if names[t.Name] {
			return nil, fmt.Errorf("duplicate tier %q", t.Name)
		}
		names[t.Name] = true
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.Threshold == t.Threshold {
			return nil, fmt.Errorf("tiers %q and %q share threshold %d", prev.Name, t.Name, t.Threshold)
		}
		if prev.Rank <= t.Rank {
			return nil, fmt.Errorf("tier %q (rank %d) must rank above %q (rank %d)", prev.Name, prev.Rank, t.Name, t.Rank)
		}
	}
	return &Table{tiers: sorted}, nil
}

// MustTable is NewTable for package-level tables; it panics on error.
func MustTable(tiers ...Tier) *Table {
	t, err := NewTable(tiers...)
	if err != nil {
		panic("tier: " + err.Error())
	}
	return t
}

// Tiers returns a copy of the table, best tier first.
func (t *Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// Best returns the highest-ranked tier.
func (t *Table) Best() Tier { return t.tiers[0] }

// Worst returns the lowest-ranked tier.
func (t *Table) Worst() Tier { return t.tiers[len(t.tiers)-1] }

// Lookup returns the tier named name.
func (t *Table) Lookup(name string) (Tier, error) {
	for _, tr := range t.tiers {
		if tr.Name == name {
			return tr, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// For returns the first tier whose threshold is <= total. A total below every
// threshold yields the worst tier.
func (t *Table) For(total int) Tier {
	for _, tr := range t.tiers {
		if tr.Threshold <= total {
			return tr
		}
	}
	return t.Worst()
}

// Shift returns a copy of the table with every finite threshold moved by
// delta. A Floor threshold stays Floor.
func (t *Table) Shift(delta int) *Table {
	out := &Table{tiers: t.Tiers()}
	for i := range out.tiers {
		if out.tiers[i].Threshold != Floor {
			out.tiers[i].Threshold += delta
		}
	}
	return out
}
