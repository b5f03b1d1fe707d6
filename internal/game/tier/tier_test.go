package tier_test

import (
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func quality() *tier.Table {
	return tier.MustTable(
		tier.Tier{Name: "ruined", Rank: 0, Threshold: tier.Floor},
		tier.Tier{Name: "flawed", Rank: 1, Threshold: 5},
		tier.Tier{Name: "normal", Rank: 2, Threshold: 10},
		tier.Tier{Name: "exceptional", Rank: 3, Threshold: 15},
		tier.Tier{Name: "superior", Rank: 4, Threshold: 20},
	)
}

func mustLookup(t require.TestingT, tb *tier.Table, name string) *tier.Tier {
	tr, err := tb.Lookup(name)
	require.NoError(t, err)
	return &tr
}

func TestNewTable_SortsDescending(t *testing.T) {
	tb := quality()
	tiers := tb.Tiers()
	assert.Equal(t, "superior", tiers[0].Name)
	assert.Equal(t, "ruined", tiers[len(tiers)-1].Name)
	assert.Equal(t, "superior", tb.Best().Name)
	assert.Equal(t, "ruined", tb.Worst().Name)
}

func TestNewTable_Errors(t *testing.T) {
	_, err := tier.NewTable()
	assert.ErrorIs(t, err, tier.ErrEmptyTable)

	_, err = tier.NewTable(tier.Tier{Name: "a", Rank: 0, Threshold: 0}, tier.Tier{Name: "a", Rank: 1, Threshold: 5})
	assert.Error(t, err)

	_, err = tier.NewTable(tier.Tier{Name: "a", Rank: 0, Threshold: 5}, tier.Tier{Name: "b", Rank: 1, Threshold: 5})
	assert.Error(t, err)

	_, err = tier.NewTable(tier.Tier{Name: "a", Rank: 1, Threshold: 0}, tier.Tier{Name: "b", Rank: 0, Threshold: 5})
	assert.Error(t, err)

	_, err = tier.NewTable(tier.Tier{Rank: 0, Threshold: 0})
	assert.Error(t, err)

	assert.Panics(t, func() { tier.MustTable() })
}

func TestResolve_Thresholds(t *testing.T) {
	tb := quality()
	for total, want := range map[int]string{-3: "ruined", 4: "ruined", 5: "flawed", 14: "normal", 15: "exceptional", 20: "superior", 99: "superior"} {
		assert.Equal(t, want, tier.Resolve(total, tb, tier.Options{}).Tier.Name, "total %d", total)
	}
}

func TestResolve_CeilingClamp(t *testing.T) {
	tb := quality()
	out := tier.Resolve(22, tb, tier.Options{Ceiling: mustLookup(t, tb, "normal")})
	assert.Equal(t, "normal", out.Tier.Name)
	assert.Equal(t, "superior", out.Earned.Name)
	assert.True(t, out.Capped)

	out = tier.Resolve(7, tb, tier.Options{Ceiling: mustLookup(t, tb, "normal")})
	assert.Equal(t, "flawed", out.Tier.Name)
	assert.False(t, out.Capped)
}

func TestResolve_NaturalMax(t *testing.T) {
	tb := quality()
	out := tier.Resolve(3, tb, tier.Options{NaturalMax: true})
	assert.Equal(t, "superior", out.Tier.Name)
	assert.Equal(t, tier.NaturalMaxOverride, out.Natural)

	out = tier.Resolve(3, tb, tier.Options{NaturalMax: true, Ceiling: mustLookup(t, tb, "exceptional")})
	assert.Equal(t, "exceptional", out.Tier.Name)
	assert.True(t, out.Capped)
}

func TestResolve_NaturalMinAlwaysWorst_Property(t *testing.T) {
	tb := quality()
	names := []string{"ruined", "flawed", "normal", "exceptional", "superior"}
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(-50, 100).Draw(rt, "total")
		opts := tier.Options{
			NaturalMin: true,
			NaturalMax: rapid.Bool().Draw(rt, "natmax"),
		}
		if rapid.Bool().Draw(rt, "capped") {
			opts.Ceiling = mustLookup(rt, tb, rapid.SampledFrom(names).Draw(rt, "ceiling"))
		}
		out := tier.Resolve(total, tb, opts)
		assert.Equal(rt, "ruined", out.Tier.Name)
		assert.Equal(rt, tier.NaturalMinOverride, out.Natural)
	})
}

func TestResolve_NeverAboveCeiling_Property(t *testing.T) {
	tb := quality()
	names := []string{"ruined", "flawed", "normal", "exceptional", "superior"}
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(-50, 100).Draw(rt, "total")
		ceiling := mustLookup(rt, tb, rapid.SampledFrom(names).Draw(rt, "ceiling"))
		out := tier.Resolve(total, tb, tier.Options{Ceiling: ceiling, NaturalMax: rapid.Bool().Draw(rt, "natmax")})
		assert.LessOrEqual(rt, out.Tier.Rank, ceiling.Rank)
	})
}

func TestTable_Shift(t *testing.T) {
	tb := quality().Shift(2)
	assert.Equal(t, "ruined", tier.Resolve(6, tb, tier.Options{}).Tier.Name)
	assert.Equal(t, "flawed", tier.Resolve(7, tb, tier.Options{}).Tier.Name)
	assert.Equal(t, tier.Floor, tb.Worst().Threshold)
	// original untouched
	assert.Equal(t, "flawed", tier.Resolve(6, quality(), tier.Options{}).Tier.Name)
}

func TestTable_Lookup(t *testing.T) {
	_, err := quality().Lookup("legendary")
	assert.ErrorIs(t, err, tier.ErrUnknownTier)
}
