package dice_test

import (
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want dice.Expression
	}{
		{"d20", dice.Expression{Raw: "d20", Count: 1, Sides: 20}},
		{"2d6+3", dice.Expression{Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3}},
		{"4d8-2", dice.Expression{Raw: "4d8-2", Count: 4, Sides: 8, Modifier: -2}},
		{"4d6kh3", dice.Expression{Raw: "4d6kh3", Count: 4, Sides: 6, KeepHighest: 3}},
		{"2D20KL1+5", dice.Expression{Raw: "2D20KL1+5", Count: 2, Sides: 20, Modifier: 5, KeepLowest: 1}},
		{"1d8 + 2", dice.Expression{Raw: "1d8 + 2", Count: 1, Sides: 8, Modifier: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "xd6", "d1", "d6+x", "2d6kh2", "2d6kh0", "3d6kh1kl1",
		"101d6", "2000000000d6", "3d1001", "3d99999999999", "99999999999999999999d6"} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestParse_Bounds(t *testing.T) {
	got, err := dice.Parse("100d1000")
	require.NoError(t, err)
	assert.Equal(t, dice.MaxDice, got.Count)
	assert.Equal(t, dice.MaxSides, got.Sides)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2d6+3", dice.Format(2, 6, 3))
	assert.Equal(t, "1d8-1", dice.Format(1, 8, -1))
	assert.Equal(t, "4d6", dice.Format(4, 6, 0))
}

func TestParse_Format_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		sides := rapid.SampledFrom([]int{4, 6, 8, 10, 12, 20}).Draw(rt, "sides")
		mod := rapid.IntRange(-20, 20).Draw(rt, "mod")

		e, err := dice.Parse(dice.Format(count, sides, mod))
		require.NoError(rt, err)
		assert.Equal(rt, count, e.Count)
		assert.Equal(rt, sides, e.Sides)
		assert.Equal(rt, mod, e.Modifier)
	})
}

func TestSanitize(t *testing.T) {
	for in, want := range map[string]int{"d8": 8, "D12": 12, " 6 ": 6, "d20": 20, "4": 4, "10": 10} {
		got, err := dice.Sanitize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"d7", "100", "", "dd6", "d"} {
		_, err := dice.Sanitize(in)
		assert.Error(t, err, in)
	}
}
