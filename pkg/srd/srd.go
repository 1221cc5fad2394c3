// Package srd defines the contract between the engine and an external
// source of canonical creature, class and race statistics.
package srd

import "context"

// MonsterStats is a monster stat block from the stat provider.
type MonsterStats struct {
	Index            string        `json:"index"`
	Name             string        `json:"name"`
	ArmorClass       int           `json:"armor_class"`
	HitPoints        int           `json:"hit_points"`
	HitDice          string        `json:"hit_dice"`
	Strength         int           `json:"strength"`
	Dexterity        int           `json:"dexterity"`
	Constitution     int           `json:"constitution"`
	Intelligence     int           `json:"intelligence"`
	Wisdom           int           `json:"wisdom"`
	Charisma         int           `json:"charisma"`
	ChallengeRating  float64       `json:"challenge_rating"`
	ProficiencyBonus int           `json:"proficiency_bonus"`
	Actions          []MonsterAttack `json:"actions,omitempty"`
	Size             string        `json:"size,omitempty"`
	Type             string        `json:"type,omitempty"`
	Alignment        string        `json:"alignment,omitempty"`
}

// MonsterAttack is one entry in a monster's action list.
type MonsterAttack struct {
	Name        string `json:"name"`
	Description string `json:"desc,omitempty"`
}

// ClassStats is a character class record from the stat provider.
type ClassStats struct {
	Index            string   `json:"index"`
	Name             string   `json:"name"`
	HitDie           int      `json:"hit_die"`
	PrimaryAbilities []string `json:"primary_abilities,omitempty"`
	SavingThrows     []string `json:"saving_throws,omitempty"`
}

// RaceStats is a character race record from the stat provider.
type RaceStats struct {
	Index          string         `json:"index"`
	Name           string         `json:"name"`
	AbilityBonuses []AbilityBonus `json:"ability_bonuses,omitempty"`
	Size           string         `json:"size,omitempty"`
	Speed          int            `json:"speed"`
}

// AbilityBonus is a racial bonus to one ability score.
type AbilityBonus struct {
	Ability string `json:"ability"`
	Bonus   int    `json:"bonus"`
}

// StatProvider supplies monster, class and race statistics by index.
// Implementations may be backed by a remote API; callers must treat a
// nil record or an error as "unavailable" and fall back to defaults.
type StatProvider interface {
	GetMonster(ctx context.Context, index string) (*MonsterStats, error)
	GetClass(ctx context.Context, index string) (*ClassStats, error)
	GetRace(ctx context.Context, index string) (*RaceStats, error)
}

// AbilityModifier converts an ability score to its modifier.
// Uses floor division so a score of 7 yields -2, matching the 5e table.
func AbilityModifier(score int) int {
	n := score - 10
	if n < 0 && n%2 != 0 {
		return n/2 - 1
	}
	return n / 2
}

// ProficiencyBonus returns the proficiency bonus for a character level.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}
