package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRollResult_Total verifies the postcondition: Total() == sum(Dice) + Modifier.
func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, 12, r.Total(), "Total() must equal sum(Dice)+Modifier")
}

func TestRollResult_Total_IgnoresDropped(t *testing.T) {
	r := dice.RollResult{
		Expression: "4d6kh3",
		Dice:       []int{6, 5, 4},
		Dropped:    []int{1},
	}
	assert.Equal(t, 15, r.Total())
}

// TestRollResult_String verifies the audit string contains expression, dice, and total.
func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_ShowsDropped(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d20kh1",
		Dice:       []int{17},
		Dropped:    []int{3},
	}
	assert.Equal(t, "2d20kh1 → [17] ([3]) +0 = 17", r.String())
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dice_ := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.Int().Draw(rt, "modifier")

		r := dice.RollResult{Expression: "Nd6+M", Dice: dice_, Modifier: modifier}

		expected := modifier
		for _, d := range dice_ {
			expected += d
		}
		assert.Equal(rt, expected, r.Total())
	})
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[0-9]+d[0-9]+[+-][0-9]+`).Draw(rt, "expression")
		dice_ := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")

		r := dice.RollResult{Expression: expr, Dice: dice_, Modifier: modifier}

		s := r.String()
		assert.True(rt, strings.Contains(s, expr))
		assert.Contains(rt, s, fmt.Sprintf("%d", r.Total()))
	})
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}, Modifier: 0}
	assert.Panics(t, func() { _ = r.String() })
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(20), b.Intn(20))
	}
}

func TestFixedSource_ReplaysFaces(t *testing.T) {
	src := dice.NewFixedSource(20, 1, 7)
	assert.Equal(t, 19, src.Intn(20))
	assert.Equal(t, 0, src.Intn(20))
	assert.Equal(t, 6, src.Intn(20))
	// exhausted: last face repeats
	assert.Equal(t, 6, src.Intn(20))
	assert.Equal(t, 3, src.Consumed())
}

func TestFixedSource_ClampsToSides(t *testing.T) {
	src := dice.NewFixedSource(20)
	assert.Equal(t, 5, src.Intn(6))
}

// TestDrawDice_Uniformity checks every face of each standard die appears with
// frequency within tolerance of 1/F over a large sample.
func TestDrawDice_Uniformity(t *testing.T) {
	src := dice.NewSeededSource(7)
	const samples = 60000
	for _, sides := range []int{dice.D4, dice.D6, dice.D8, dice.D10, dice.D12, dice.D20} {
		counts := make([]int, sides+1)
		for i := 0; i < samples; i++ {
			d := dice.DrawDice(src, sides, 1, dice.ModeNormal)
			require.GreaterOrEqual(t, d.Total, 1)
			require.LessOrEqual(t, d.Total, sides)
			counts[d.Total]++
		}
		expected := float64(samples) / float64(sides)
		for face := 1; face <= sides; face++ {
			assert.InDelta(t, expected, float64(counts[face]), expected*0.1,
				"d%d face %d frequency out of tolerance", sides, face)
		}
	}
}

func TestDrawDice_KeepModes_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(1, 20).Draw(rt, "a")
		b := rapid.IntRange(1, 20).Draw(rt, "b")

		hi := dice.DrawDice(dice.NewFixedSource(a, b), 20, 1, dice.ModeKeepHighest)
		assert.Equal(rt, max(a, b), hi.Total)
		assert.Equal(rt, []int{a, b}, hi.Values)

		lo := dice.DrawDice(dice.NewFixedSource(a, b), 20, 1, dice.ModeKeepLowest)
		assert.Equal(rt, min(a, b), lo.Total)
		assert.Equal(rt, []int{a, b}, lo.Values)
	})
}

func TestDrawDice_SumsNormalDice(t *testing.T) {
	d := dice.DrawDice(dice.NewFixedSource(3, 4, 6), 6, 3, dice.ModeNormal)
	assert.Equal(t, 13, d.Total)
	assert.Equal(t, []int{3, 4, 6}, d.Values)
}

func TestDrawDice_ZeroDice(t *testing.T) {
	d := dice.DrawDice(dice.NewFixedSource(5), 6, 0, dice.ModeNormal)
	assert.Equal(t, 0, d.Total)
	assert.Empty(t, d.Values)
}

func TestRoll_KeepHighestAndLowest(t *testing.T) {
	r, err := dice.RollExpr("4d6kh3", dice.NewFixedSource(2, 6, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 5, 2}, r.Dice)
	assert.Equal(t, []int{1}, r.Dropped)
	assert.Equal(t, 13, r.Total())

	r, err = dice.RollExpr("2d20kl1+5", dice.NewFixedSource(14, 9))
	require.NoError(t, err)
	assert.Equal(t, []int{9}, r.Dice)
	assert.Equal(t, 14, r.Total())
}
