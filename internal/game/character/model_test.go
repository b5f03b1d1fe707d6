package character_test

import (
	"testing"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testCharacter() *character.Character {
	return &character.Character{
		ID:     7,
		UserID: "user-1",
		Name:   "Vex",
		Level:  5,
		Abilities: character.AbilityScores{
			Strength: 16, Dexterity: 14, Constitution: 12,
			Intelligence: 10, Wisdom: 8, Charisma: 13,
		},
		Skills: map[character.Skill]check.Proficiency{
			character.Stealth:   check.Expertise,
			character.Athletics: check.Proficient,
		},
		Saves: map[character.Ability]check.Proficiency{
			character.Dexterity: check.Proficient,
		},
	}
}

func TestAbilityMod(t *testing.T) {
	for score, want := range map[int]int{1: -5, 8: -1, 9: -1, 10: 0, 11: 0, 12: 1, 16: 3, 20: 5, 30: 10} {
		assert.Equal(t, want, character.AbilityMod(score), "score %d", score)
	}
}

func TestAbilityMod_Property_Floor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(1, 30).Draw(rt, "score")
		mod := character.AbilityMod(score)
		// floor((score-10)/2) satisfies 2*mod <= score-10 < 2*mod+2
		assert.LessOrEqual(rt, 2*mod, score-10)
		assert.Less(rt, score-10, 2*mod+2)
	})
}

func TestProficiencyBonusForLevel(t *testing.T) {
	for level, want := range map[int]int{0: 2, 1: 2, 4: 2, 5: 3, 9: 4, 13: 5, 17: 6, 20: 6} {
		assert.Equal(t, want, character.ProficiencyBonusForLevel(level), "level %d", level)
	}
}

func TestCharacter_ProficiencyBonus_StoredOverrides(t *testing.T) {
	c := testCharacter()
	assert.Equal(t, 3, c.ProficiencyBonus())
	c.StoredBonus = 4
	assert.Equal(t, 4, c.ProficiencyBonus())
}

func TestCharacter_SkillCheck(t *testing.T) {
	c := testCharacter()
	in := c.SkillCheck(character.Stealth, 1)
	assert.Equal(t, "Stealth", in.Label)
	assert.Equal(t, 2, in.AbilityMod)
	assert.Equal(t, check.Expertise, in.Proficiency)
	// 2 + 2*3 + 1
	assert.Equal(t, 9, in.Modifier())

	in = c.SkillCheck(character.Perception)
	assert.Equal(t, -1, in.Modifier())
}

func TestCharacter_SavingThrowAndInitiative(t *testing.T) {
	c := testCharacter()
	assert.Equal(t, 5, c.SavingThrow(character.Dexterity).Modifier())
	assert.Equal(t, 3, c.SavingThrow(character.Strength).Modifier())
	assert.Equal(t, 2, c.Initiative().Modifier())
	assert.Equal(t, 3, c.AbilityCheck(character.Strength).Modifier())
	assert.Equal(t, "Strength check", c.AbilityCheck(character.Strength).Label)
}

func TestCharacter_Key(t *testing.T) {
	c := testCharacter()
	assert.Equal(t, character.Key{CharacterID: 7, UserID: "user-1"}, c.Key())
	assert.Equal(t, "user-1/7", c.Key().String())
}

func TestParseAbility(t *testing.T) {
	for in, want := range map[string]character.Ability{"STR": character.Strength, "wisdom": character.Wisdom, " Cha ": character.Charisma} {
		got, err := character.ParseAbility(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := character.ParseAbility("luck")
	assert.Error(t, err)
	assert.Equal(t, "DEX", character.Dexterity.Short())
}

func TestParseSkill(t *testing.T) {
	for _, in := range []string{"sleight_of_hand", "Sleight of Hand", "sleight-of-hand"} {
		got, err := character.ParseSkill(in)
		require.NoError(t, err)
		assert.Equal(t, character.SleightOfHand, got)
	}
	_, err := character.ParseSkill("juggling")
	assert.Error(t, err)
	assert.Equal(t, "Animal Handling", character.AnimalHandling.Title())
	assert.Equal(t, character.Wisdom, character.AnimalHandling.Ability())
}

func TestAbilityScores_SetRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.SampledFrom(character.Abilities).Draw(rt, "ability")
		v := rapid.IntRange(1, 30).Draw(rt, "score")
		var s character.AbilityScores
		s.Set(a, v)
		assert.Equal(rt, v, s.Score(a))
	})
}
