package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

func spellState(t *testing.T) *state.GameState {
	t.Helper()
	gs := state.NewGameState(nil)
	gs.ApplyMap(context.Background(), state.MapData{
		Name:   "Test Arena",
		Width:  10,
		Height: 10,
		StartingPositions: map[string]grid.Point{
			"player":   {X: 4, Y: 5},
			"goblin_1": {X: 4, Y: 4},
			"goblin_2": {X: 8, Y: 8},
		},
	})
	gs.Character("player").Spellbook.GrantStartingSpells()
	return gs
}

func TestCureWoundsHeals(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.HP = 5

	// Heal die 3 plus the flat 3 restores 6 HP.
	m := NewSpells(gs, &dice.Scripted{Rolls: []int{3}}, testLogger())
	ok, err := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "cure_wounds"})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 11, player.HP)
	assert.Equal(t, 1, player.Spellbook.Used[1])
	assert.Contains(t, gs.Log(), "Hero heals 6 HP")
	assert.Contains(t, gs.Log(), "Hero casts Cure Wounds")
}

func TestCureWoundsHealClampsAtMax(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.HP = 19

	m := NewSpells(gs, &dice.Scripted{Rolls: []int{8}}, testLogger())
	ok, _ := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "cure_wounds"})
	assert.True(t, ok)
	assert.Equal(t, 20, player.HP)
	// The log reports the actual HP gained, not the roll.
	assert.Contains(t, gs.Log(), "Hero heals 1 HP")
}

func TestCastingWithoutSlotsFails(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.HP = 5
	player.Spellbook.Used[1] = 2

	m := NewSpells(gs, &dice.Scripted{Rolls: []int{8}}, testLogger())
	ok, err := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "cure_wounds"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, player.HP)
	assert.Contains(t, gs.Log(), "Hero has no 1-level spell slots left")
}

func TestCastingUnknownSpellFails(t *testing.T) {
	gs := spellState(t)
	m := NewSpells(gs, &dice.Scripted{}, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "wish"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, gs.Log(), "Hero doesn't know wish")
	assert.Equal(t, 0, gs.Character("player").Spellbook.Used[1])
}

func TestSlotConsumedBeforeTargetResolution(t *testing.T) {
	gs := spellState(t)
	m := NewSpells(gs, &dice.Scripted{Rolls: []int{2, 2, 2}}, testLogger())

	// The slot is spent even though the target does not exist.
	ok, err := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "magic_missile", TargetID: "nobody"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, gs.Character("player").Spellbook.Used[1])
}

func TestMagicMissile(t *testing.T) {
	gs := spellState(t)
	// Three missiles of 1d4+1: 2+1, 3+1, 4+1 = 12.
	m := NewSpells(gs, &dice.Scripted{Rolls: []int{2, 3, 4}}, testLogger())

	ok, _ := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "magic_missile", TargetID: "goblin_1"})
	assert.True(t, ok)
	assert.Equal(t, 0, gs.Character("goblin_1").HP)
	assert.Contains(t, gs.Log(), "Magic missiles hit Goblin 1 for 12 damage")
	assert.Contains(t, gs.Log(), "Goblin 1 is defeated!")
}

func TestShieldRaisesCasterAC(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.Spellbook.Learn("shield")
	before := player.AC

	m := NewSpells(gs, &dice.Scripted{}, testLogger())
	ok, _ := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "shield"})
	assert.True(t, ok)
	assert.Equal(t, before+5, player.AC)
	assert.Contains(t, gs.Log(), "Hero gains +5 AC from Shield spell")
}

func TestFireballHitsAllOpponents(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.Spellbook.Learn("fireball")
	player.Spellbook.Slots[3] = 1

	// One 8d6 roll shared by every target; no saving throw is rolled.
	m := NewSpells(gs, &dice.Scripted{Rolls: []int{6, 6, 6, 6, 1, 1, 1, 1}}, testLogger())
	ok, _ := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "fireball"})
	assert.True(t, ok)

	assert.Equal(t, 0, gs.Character("goblin_1").HP)
	assert.Equal(t, 0, gs.Character("goblin_2").HP)
	assert.Equal(t, 20, player.HP)
	assert.Contains(t, gs.Log(), "Fireball deals 28 damage to: Goblin 1, Goblin 2")
	assert.Contains(t, gs.Log(), "Goblin 1 is defeated by the fireball!")
	assert.Equal(t, 1, player.Spellbook.Used[3])
}

func TestFireballSkipsDefeated(t *testing.T) {
	gs := spellState(t)
	player := gs.Character("player")
	player.Spellbook.Learn("fireball")
	player.Spellbook.Slots[3] = 1
	gs.Character("goblin_2").HP = 0

	m := NewSpells(gs, &dice.Scripted{Rolls: []int{1, 1, 1, 1, 1, 1, 1, 1}}, testLogger())
	ok, _ := m.Process(action.Action{Type: action.TypeCastSpell, CharacterID: "player", SpellName: "fireball"})
	assert.True(t, ok)
	assert.Contains(t, gs.Log(), "Fireball deals 8 damage to: Goblin 1")
}

func TestPrepareSpell(t *testing.T) {
	gs := spellState(t)
	m := NewSpells(gs, &dice.Scripted{}, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypePrepareSpell, CharacterID: "player", SpellName: "shield"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, gs.Character("player").Spellbook.Knows("shield"))
	assert.Contains(t, gs.Log(), "Hero prepares Shield")

	ok, _ = m.Process(action.Action{Type: action.TypePrepareSpell, CharacterID: "player", SpellName: "wish"})
	assert.False(t, ok)
}

func TestSpellsAvailableActions(t *testing.T) {
	gs := spellState(t)
	m := NewSpells(gs, &dice.Scripted{}, testLogger())

	actions := m.AvailableActions("player")
	require.Len(t, actions, 2)
	names := []string{actions[0].Name, actions[1].Name}
	assert.Contains(t, names, "Cast Cure Wounds")
	assert.Contains(t, names, "Cast Magic Missile")

	// Spells without free slots disappear.
	gs.Character("player").Spellbook.Used[1] = 2
	assert.Empty(t, m.AvailableActions("player"))
}
