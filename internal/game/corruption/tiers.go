// Package corruption tracks a character's corruption points and maps them to
// named tiers.
package corruption

import (
	"github.com/cory-johannsen/tabletop/internal/game/tier"
)

// Tier is a corruption tier with its display and rules data.
type Tier struct {
	tier.Tier
	// Color is the 0xRRGGBB display color.
	Color int
	// SaveDC is the saving-throw DC associated with the tier.
	SaveDC int
	Boon   string
	Effect string
}

// Tier names.
const (
	PureHearted = "Pure Hearted"
	Pragmatic   = "Pragmatic"
	Devious     = "Devious"
	Vicious     = "Vicious"
	Vile        = "Vile"
)

var tiers = []Tier{
	{
		Tier:   tier.Tier{Name: PureHearted, Rank: 0, Threshold: 0},
		Color:  0x2ecc71,
		SaveDC: 10,
	},
	{
		Tier:   tier.Tier{Name: Pragmatic, Rank: 1, Threshold: 1},
		Color:  0xf1c40f,
		SaveDC: 12,
		Boon:   "Once per long rest, reroll a failed Deception or Intimidation check.",
	},
	{
		Tier:   tier.Tier{Name: Devious, Rank: 2, Threshold: 5},
		Color:  0xe67e22,
		SaveDC: 14,
		Boon:   "Advantage on checks to detect lies and hidden motives.",
		Effect: "Disadvantage on Persuasion checks with celestials and the devout.",
	},
	{
		Tier:   tier.Tier{Name: Vicious, Rank: 3, Threshold: 8},
		Color:  0xe74c3c,
		SaveDC: 16,
		Boon:   "Add 1d4 necrotic damage to one hit per turn.",
		Effect: "Healing received from divine sources is halved.",
	},
	{
		Tier:   tier.Tier{Name: Vile, Rank: 4, Threshold: 12},
		Color:  0x8e44ad,
		SaveDC: 18,
		Boon:   "Resistance to necrotic damage.",
		Effect: "Make a Wisdom save against the tier DC after each long rest or act on a dark impulse.",
	},
}

var table = func() *tier.Table {
	base := make([]tier.Tier, len(tiers))
	for i, t := range tiers {
		base[i] = t.Tier
	}
	return tier.MustTable(base...)
}()

// Table returns the corruption tier table for the generic resolver.
func Table() *tier.Table { return table }

// Tiers returns every corruption tier, lowest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor returns the tier for a counter value. Values are never negative,
// so the lowest tier's threshold of 0 is always reached.
func TierFor(value int) Tier {
	name := tier.Resolve(value, table, tier.Options{}).Tier.Name
	for _, t := range tiers {
		if t.Name == name {
			return t
		}
	}
	return tiers[0]
}
