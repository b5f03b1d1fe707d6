package combat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fighter has STR 16 (+3), level 1 (+2 proficiency).
func fighter() *character.Character {
	return &character.Character{
		ID: 1, UserID: "u", Name: "Brann", Level: 1,
		Abilities: character.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 10, Wisdom: 10, Charisma: 10},
	}
}

func flameblade() *combat.Weapon {
	return &combat.Weapon{
		ID: "flameblade", Name: "Flameblade",
		Proficient: true, CritThreshold: 19, Enhancement: 1,
		Primary: &combat.DamageComponent{Dice: 2, Sides: 6, Type: "slashing"},
		Additional: []combat.DamageComponent{
			{Name: "Searing", Dice: 1, Sides: 6, Modifier: 1, Type: "fire"},
		},
	}
}

func TestResolveAttack_ProficientWithEnhancement(t *testing.T) {
	out := combat.ResolveAttack(fighter(), flameblade(), check.Normal, dice.NewFixedSource(10))
	// 3 STR + 2 prof + 1 enhancement
	assert.Equal(t, 6, out.Modifier)
	assert.Equal(t, 16, out.Total)
	assert.False(t, out.CriticalSuccess)
	assert.Equal(t, "Flameblade", out.Label)
}

func TestResolveAttack_ExpandedCritRange(t *testing.T) {
	out := combat.ResolveAttack(fighter(), flameblade(), check.Normal, dice.NewFixedSource(19))
	assert.True(t, out.CriticalSuccess)
	out = combat.ResolveAttack(fighter(), flameblade(), check.Normal, dice.NewFixedSource(18))
	assert.False(t, out.CriticalSuccess)
}

func TestResolveAttack_NotProficient(t *testing.T) {
	w := &combat.Weapon{ID: "club", Name: "Club"}
	out := combat.ResolveAttack(fighter(), w, check.Normal, dice.NewFixedSource(20))
	assert.Equal(t, 3, out.Modifier)
	assert.True(t, out.CriticalSuccess)
}

func TestRollDamage_CritDoublesDiceNotModifier_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		comp := combat.DamageComponent{Dice: 2, Sides: 6, Modifier: 3}
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))

		out := combat.RollDamage(comp, true, 0, src)
		assert.Equal(rt, 4, out.DiceCount)
		assert.Len(rt, out.Rolls, 4)
		assert.Equal(rt, 3, out.Flat)
		assert.GreaterOrEqual(rt, out.Total, 7)
		assert.LessOrEqual(rt, out.Total, 27)
		assert.Equal(rt, out.DiceTotal+out.Flat, out.Total)
	})
}

func TestRollDamage_NormalHit(t *testing.T) {
	out := combat.RollDamage(combat.DamageComponent{Dice: 2, Sides: 8, Modifier: -1, Type: "piercing"}, false, 2, dice.NewFixedSource(5, 7))
	assert.Equal(t, 2, out.DiceCount)
	assert.Equal(t, []int{5, 7}, out.Rolls)
	assert.Equal(t, 12, out.DiceTotal)
	assert.Equal(t, 1, out.Flat)
	assert.Equal(t, 13, out.Total)
	assert.Equal(t, "2d8+1", out.Expression())
	assert.Equal(t, "2d8+1 → [5 7] +1 = 13", out.Details())
}

func TestResolveDamage_PrimaryAddsAbilityAndEnhancement(t *testing.T) {
	out, err := combat.ResolveDamage(fighter(), flameblade(), 0, false, dice.NewFixedSource(4, 5))
	require.NoError(t, err)
	assert.True(t, out.Primary)
	// 9 dice + 3 STR + 1 enhancement
	assert.Equal(t, 4, out.Flat)
	assert.Equal(t, 13, out.Total)
	assert.Equal(t, "slashing", out.Type)
}

func TestResolveDamage_AdditionalAddsOnlyOwnModifier(t *testing.T) {
	out, err := combat.ResolveDamage(fighter(), flameblade(), 1, true, dice.NewFixedSource(6, 6))
	require.NoError(t, err)
	assert.False(t, out.Primary)
	assert.Equal(t, "Searing", out.Component)
	assert.Equal(t, 2, out.DiceCount)
	assert.Equal(t, 1, out.Flat)
	assert.Equal(t, 13, out.Total)
}

func TestResolveDamage_EndToEndCrit(t *testing.T) {
	// +3 STR with a +1 component modifier reads as 2d6+4 on the sheet.
	w := &combat.Weapon{
		ID: "longsword", Name: "Longsword", Proficient: true, CritThreshold: 19,
		Primary: &combat.DamageComponent{Dice: 2, Sides: 6, Modifier: 1},
	}
	atk := combat.ResolveAttack(fighter(), w, check.Normal, dice.NewFixedSource(19))
	require.True(t, atk.CriticalSuccess)

	src := dice.NewFixedSource(1, 2, 3, 4)
	dmg, err := combat.ResolveDamage(fighter(), w, 0, atk.CriticalSuccess, src)
	require.NoError(t, err)
	assert.Equal(t, 4, src.Consumed())
	assert.Equal(t, 4, dmg.Flat)
	assert.Equal(t, 14, dmg.Total)
	assert.GreaterOrEqual(t, dmg.Total, 8)
	assert.LessOrEqual(t, dmg.Total, 28)
}

func TestResolveDamage_Errors(t *testing.T) {
	control := &combat.Weapon{ID: "hold", Name: "Hold Person"}
	_, err := combat.ResolveDamage(fighter(), control, 0, false, dice.NewFixedSource(1))
	assert.ErrorIs(t, err, combat.ErrNoDamage)

	_, err = combat.ResolveDamage(fighter(), flameblade(), 2, false, dice.NewFixedSource(1))
	assert.ErrorIs(t, err, combat.ErrComponentIndex)
	_, err = combat.ResolveDamage(fighter(), flameblade(), -1, false, dice.NewFixedSource(1))
	assert.ErrorIs(t, err, combat.ErrComponentIndex)
}

func TestWeapon_Components_ZeroDicePrimaryIsNotSelectable(t *testing.T) {
	w := &combat.Weapon{
		ID: "rider", Name: "Rider",
		Primary:    &combat.DamageComponent{Dice: 0, Type: "force"},
		Additional: []combat.DamageComponent{{Dice: 1, Sides: 4, Type: "acid"}},
	}
	sels := w.Components()
	require.Len(t, sels, 1)
	assert.False(t, sels[0].Primary)
	assert.Equal(t, 0, sels[0].Index)

	none := &combat.Weapon{ID: "x", Name: "x", Primary: &combat.DamageComponent{Dice: 0}}
	assert.Empty(t, none.Components())
}

func TestWeapon_Validate(t *testing.T) {
	require.NoError(t, flameblade().Validate())

	bad := &combat.Weapon{
		CritThreshold: 21,
		Ability:       "luck",
		Primary:       &combat.DamageComponent{Dice: -1, Sides: 6},
		Additional:    []combat.DamageComponent{{Dice: 1, Sides: 7}, {Dice: dice.MaxDice + 1, Sides: 6}},
	}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"ID", "Name", "luck", "crit_threshold", "dice must be in [0, 100]", "additional_damage[0]", "additional_damage[1]"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadWeapons(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rapier.yaml"), []byte(`
id: rapier
name: Rapier
ability: dexterity
proficient: true
crit_threshold: 19
damage:
  dice: 1
  sides: 8
  type: piercing
additional_damage:
  - name: Venom
    dice: 1
    sides: 4
    type: poison
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	weapons, err := combat.LoadWeapons(dir)
	require.NoError(t, err)
	require.Len(t, weapons, 1)
	w := weapons[0]
	assert.Equal(t, character.Dexterity, w.AttackAbility())
	assert.Equal(t, 19, w.CritThreshold)
	require.NotNil(t, w.Primary)
	assert.Equal(t, "1d8", w.Primary.Expression())
	assert.Equal(t, "Venom", w.Additional[0].Label())

	armory, err := combat.NewArmory(weapons)
	require.NoError(t, err)
	got, err := armory.Weapon("rapier")
	require.NoError(t, err)
	assert.Same(t, w, got)
	_, err = armory.Weapon("axe")
	assert.ErrorIs(t, err, combat.ErrUnknownWeapon)
	assert.Equal(t, []string{"rapier"}, armory.IDs())
}

func TestLoadWeapons_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\ncrit_threshold: 30\n"), 0o644))
	_, err := combat.LoadWeapons(dir)
	assert.Error(t, err)
}

func TestNewArmory_Duplicate(t *testing.T) {
	_, err := combat.NewArmory([]*combat.Weapon{flameblade(), flameblade()})
	assert.Error(t, err)
}

func TestRollInitiative_OrdersByTotal(t *testing.T) {
	quick := &character.Character{Name: "Quick", Abilities: character.AbilityScores{Dexterity: 18}}
	slow := &character.Character{Name: "Slow", Abilities: character.AbilityScores{Dexterity: 8}}
	tied := &character.Character{Name: "Tied", Abilities: character.AbilityScores{Dexterity: 10}}

	// Slow: 15-1=14, Quick: 10+4=14, Tied: 17+0=17
	order := combat.RollInitiative([]*character.Character{slow, quick, tied}, dice.NewFixedSource(15, 10, 17))
	require.Len(t, order, 3)
	assert.Equal(t, "Tied", order[0].Name)
	assert.Equal(t, "Quick", order[1].Name)
	assert.Equal(t, "Slow", order[2].Name)
}
