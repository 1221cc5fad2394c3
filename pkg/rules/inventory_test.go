package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/dice"
)

func TestEquipMissingItem(t *testing.T) {
	gs := testState(t)
	m := NewInventory(gs, &dice.Scripted{}, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeEquip, CharacterID: "player", ItemName: "Vorpal Sword"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, gs.Log(), "Hero doesn't have Vorpal Sword")
}

func TestEquipAndUnequip(t *testing.T) {
	gs := testState(t)
	player := gs.Character("player")
	m := NewInventory(gs, &dice.Scripted{}, testLogger())

	ok, _ := m.Process(action.Action{Type: action.TypeUnequip, CharacterID: "player", ItemName: "shield"})
	assert.True(t, ok)
	assert.Nil(t, player.Equipped[actor.SlotShield])
	assert.Contains(t, gs.Log(), "Hero unequips Shield")

	ok, _ = m.Process(action.Action{Type: action.TypeEquip, CharacterID: "player", ItemName: "shield"})
	assert.True(t, ok)
	assert.NotNil(t, player.Equipped[actor.SlotShield])
	assert.Contains(t, gs.Log(), "Hero equips Shield")

	// Unequipping something not worn fails.
	ok, _ = m.Process(action.Action{Type: action.TypeUnequip, CharacterID: "player", ItemName: "Rations"})
	assert.False(t, ok)
}

func TestUseHealingPotion(t *testing.T) {
	gs := testState(t)
	player := gs.Character("player")
	player.HP = 5
	// 2d4+2 with dice 3 and 2 heals 7.
	m := NewInventory(gs, &dice.Scripted{Rolls: []int{3, 2}}, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeUseItem, CharacterID: "player", ItemName: "Healing Potion"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12, player.HP)
	assert.Contains(t, gs.Log(), "Hero uses Healing Potion and heals 7 HP (HP: 12/20)")

	// One of the two potions is gone.
	potion := player.FindItem("Healing Potion")
	require.NotNil(t, potion)
	assert.Equal(t, 1, potion.Quantity)
}

func TestUseItemRemovedWhenExhausted(t *testing.T) {
	gs := testState(t)
	player := gs.Character("player")
	player.FindItem("Healing Potion").Quantity = 1
	m := NewInventory(gs, &dice.Scripted{Rolls: []int{1, 1}}, testLogger())

	ok, _ := m.Process(action.Action{Type: action.TypeUseItem, CharacterID: "player", ItemName: "Healing Potion"})
	assert.True(t, ok)
	assert.Nil(t, player.FindItem("Healing Potion"))
}

func TestUseNonConsumableFails(t *testing.T) {
	gs := testState(t)
	m := NewInventory(gs, &dice.Scripted{}, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeUseItem, CharacterID: "player", ItemName: "Longsword"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, gs.Log(), "Longsword cannot be used")
}

func TestDropItemUnequipsFirst(t *testing.T) {
	gs := testState(t)
	player := gs.Character("player")
	m := NewInventory(gs, &dice.Scripted{}, testLogger())
	require.Equal(t, 18, player.AC)

	ok, err := m.Process(action.Action{Type: action.TypeDropItem, CharacterID: "player", ItemName: "Chain Mail"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, player.FindItem("Chain Mail"))
	assert.Nil(t, player.Equipped[actor.SlotArmor])
	// AC rebuilds without the armor: 10 + dex + shield.
	assert.Equal(t, 13, player.AC)
	assert.Contains(t, gs.Log(), "Hero drops Chain Mail")
}

func TestInventoryAvailableActions(t *testing.T) {
	gs := testState(t)
	player := gs.Character("player")
	m := NewInventory(gs, &dice.Scripted{}, testLogger())

	// Everything equippable is already worn; only the potion shows.
	actions := m.AvailableActions("player")
	require.Len(t, actions, 1)
	assert.Equal(t, action.TypeUseItem, actions[0].Type)
	assert.Equal(t, "Healing Potion", actions[0].ItemName)

	require.True(t, player.Unequip("Shield"))
	actions = m.AvailableActions("player")
	require.Len(t, actions, 2)
	assert.Equal(t, action.TypeEquip, actions[0].Type)
	assert.Equal(t, "Shield", actions[0].ItemName)

	assert.Nil(t, m.AvailableActions("nobody"))
}
