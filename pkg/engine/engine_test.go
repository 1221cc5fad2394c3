package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/grid-engine/internal/services"
	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/chat"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

func testEngine(t *testing.T, rolls []int) (*Engine, *state.GameState, *services.MockAgent) {
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
	agent := services.NewMockAgent()
	eng := New(gs, &dice.Scripted{Rolls: rolls}, agent, testLogger())
	return eng, gs, agent
}

func TestEngineRoutesActions(t *testing.T) {
	eng, gs, _ := testEngine(t, nil)

	ok := eng.Process(action.Action{
		Type:        action.TypeMove,
		CharacterID: "player",
		Position:    &grid.Point{X: 4, Y: 6},
	})
	assert.True(t, ok)
	assert.Equal(t, grid.Point{X: 4, Y: 6}, gs.Character("player").Position)
	assert.Equal(t, 5, eng.MovementInfo("player").Used)
}

func TestEngineAvailableActionsSpanModules(t *testing.T) {
	eng, _, _ := testEngine(t, nil)

	actions := eng.AvailableActions("player")
	types := make(map[action.Type]bool)
	for _, d := range actions {
		types[d.Type] = true
	}
	assert.True(t, types[action.TypeMove])
	assert.True(t, types[action.TypeAttack])
	assert.True(t, types[action.TypeUseItem])
	assert.True(t, types[action.TypeChatWithDM])
}

func TestStartCombatNarrates(t *testing.T) {
	// Initiative rolls for the three characters.
	eng, gs, agent := testEngine(t, []int{5, 18, 12})

	eng.StartCombat()
	assert.True(t, gs.CombatActive)
	assert.Equal(t, "goblin_1", eng.CurrentCharacter().ID)
	assert.Contains(t, gs.Log(), "[DM] Mock narration")

	_, calls := agent.Calls()
	require.NotEmpty(t, calls)
}

func TestAdvanceTurnSkipsDefeated(t *testing.T) {
	eng, gs, _ := testEngine(t, []int{5, 18, 12})
	eng.StartCombat()
	require.Equal(t, []string{"goblin_1", "goblin_2", "player"}, gs.TurnOrder)

	gs.Character("goblin_2").HP = 0
	next := eng.AdvanceTurn()
	require.NotNil(t, next)
	assert.Equal(t, "player", next.ID)
}

func TestAdvanceTurnResetsMovement(t *testing.T) {
	eng, gs, _ := testEngine(t, []int{20, 10, 5})
	eng.StartCombat()
	require.Equal(t, "player", gs.TurnOrder[0])

	ok := eng.Process(action.Action{Type: action.TypeMove, CharacterID: "player", Position: &grid.Point{X: 4, Y: 7}})
	require.True(t, ok)
	require.Equal(t, 10, eng.MovementInfo("player").Used)

	eng.AdvanceTurn()
	assert.Equal(t, 0, eng.MovementInfo("player").Used)
}

func TestProcessAgentActions(t *testing.T) {
	eng, gs, _ := testEngine(t, []int{15, 7})

	narrations := eng.ProcessAgentActions([]chat.AgentAction{
		{Function: chat.FuncNarrate, Args: chat.AgentArgs{Text: "The goblin lunges!"}},
		{Function: chat.FuncMoveCharacter, Args: chat.AgentArgs{
			CharacterID: "goblin_2",
			NewPosition: &grid.Point{X: 8, Y: 6},
		}},
		{Function: chat.FuncAttackCharacter, Args: chat.AgentArgs{
			AttackerID: "goblin_1",
			TargetID:   "player",
		}},
	})

	require.Len(t, narrations, 1)
	assert.Equal(t, "The goblin lunges!", narrations[0])
	assert.Contains(t, gs.Log(), "[DM] The goblin lunges!")
	assert.Equal(t, grid.Point{X: 8, Y: 6}, gs.Character("goblin_2").Position)
	// Goblin attack bonus 3: 15+3=18 vs AC 18 hits for 7+2.
	assert.Equal(t, 11, gs.Character("player").HP)
}

func TestProcessAgentActionsSkipsInvalid(t *testing.T) {
	eng, gs, _ := testEngine(t, nil)
	before := gs.Character("goblin_1").Position

	narrations := eng.ProcessAgentActions([]chat.AgentAction{
		{Function: chat.FuncMoveCharacter, Args: chat.AgentArgs{CharacterID: "goblin_1"}},
		{Function: "summon_dragon"},
		{Function: chat.FuncNarrate},
	})

	assert.Empty(t, narrations)
	assert.Equal(t, before, gs.Character("goblin_1").Position)
}

func TestAgentTurn(t *testing.T) {
	eng, gs, agent := testEngine(t, nil)
	agent.SetActions([]chat.AgentAction{
		{Function: chat.FuncNarrate, Args: chat.AgentArgs{Text: "The goblins regroup."}},
	})

	narrations := eng.AgentTurn(context.Background(), "goblin turn")
	require.Len(t, narrations, 1)
	assert.Equal(t, "The goblins regroup.", narrations[0])
	assert.Contains(t, gs.Log(), "[DM] The goblins regroup.")
}

func TestAgentTurnFallsBackOnError(t *testing.T) {
	eng, _, agent := testEngine(t, nil)
	agent.SetGetActionsError(errors.New("agent unavailable"))

	narrations := eng.AgentTurn(context.Background(), "goblin turn")
	require.Len(t, narrations, 1)
	assert.Equal(t, chat.NeutralNarration()[0].Args.Text, narrations[0])
}
