package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// sheet is the YAML form of a character accepted by the create verb.
// Omitted ability scores default to 10.
type sheet struct {
	Name             string            `yaml:"name"`
	Level            int               `yaml:"level"`
	ProficiencyBonus int               `yaml:"proficiency_bonus"`
	Abilities        map[string]int    `yaml:"abilities"`
	Skills           map[string]string `yaml:"skills"`
	Saves            map[string]string `yaml:"saves"`
	Tools            map[string]string `yaml:"tools"`
	Corruption       int               `yaml:"corruption"`
}

func loadSheet(path string) (*sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", path, err)
	}
	var s sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing sheet %q: %w", path, err)
	}
	return &s, nil
}

// character converts the sheet for userID.
func (s *sheet) character(userID string) (*character.Character, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("sheet: name is required")
	}
	if s.Level < 1 {
		return nil, fmt.Errorf("sheet: level must be >= 1, got %d", s.Level)
	}
	if s.Corruption < 0 {
		return nil, fmt.Errorf("sheet: corruption must be >= 0, got %d", s.Corruption)
	}
	c := &character.Character{
		UserID:      userID,
		Name:        s.Name,
		Level:       s.Level,
		StoredBonus: s.ProficiencyBonus,
		Skills:      make(map[character.Skill]check.Proficiency),
		Saves:       make(map[character.Ability]check.Proficiency),
		Tools:       make(map[string]check.Proficiency),
		Corruption:  s.Corruption,
	}
	for _, a := range character.Abilities {
		c.Abilities.Set(a, 10)
	}
	for name, score := range s.Abilities {
		a, err := character.ParseAbility(name)
		if err != nil {
			return nil, fmt.Errorf("sheet abilities: %w", err)
		}
		c.Abilities.Set(a, score)
	}
	for name, level := range s.Skills {
		sk, err := character.ParseSkill(name)
		if err != nil {
			return nil, fmt.Errorf("sheet skills: %w", err)
		}
		p, err := check.ParseProficiency(level)
		if err != nil {
			return nil, fmt.Errorf("sheet skills: %w", err)
		}
		c.Skills[sk] = p
	}
	for name, level := range s.Saves {
		a, err := character.ParseAbility(name)
		if err != nil {
			return nil, fmt.Errorf("sheet saves: %w", err)
		}
		p, err := check.ParseProficiency(level)
		if err != nil {
			return nil, fmt.Errorf("sheet saves: %w", err)
		}
		c.Saves[a] = p
	}
	for tool, level := range s.Tools {
		p, err := check.ParseProficiency(level)
		if err != nil {
			return nil, fmt.Errorf("sheet tools: %w", err)
		}
		c.Tools[tool] = p
	}
	return c, nil
}
