package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/grid-engine/internal/services"
	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/chat"
)

func TestChatWithDM(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	agent.SetActions([]chat.AgentAction{{
		Function: chat.FuncNarrate,
		Args:     chat.AgentArgs{Text: "The goblin sneers at you."},
	}})
	m := NewDMChat(gs, agent, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeChatWithDM, Message: "I approach the goblin"})
	require.NoError(t, err)
	assert.True(t, ok)

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, chat.SpeakerPlayer, history[0].Speaker)
	assert.Equal(t, "I approach the goblin", history[0].Message)
	assert.Equal(t, chat.SpeakerDM, history[1].Speaker)
	assert.Contains(t, gs.Log(), "[DM] The goblin sneers at you.")

	// The player message reaches the agent verbatim inside the event.
	_, calls := agent.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Event, "Player says: 'I approach the goblin'")
}

func TestChatEmptyMessageFails(t *testing.T) {
	gs := testState(t)
	m := NewDMChat(gs, services.NewMockAgent(), testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeChatWithDM})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChatAgentErrorFallsBack(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	agent.SetGetActionsError(errors.New("agent unavailable"))
	m := NewDMChat(gs, agent, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeChatWithDM, Message: "hello?"})
	require.NoError(t, err)
	// Chat degrades to a canned line but still succeeds.
	assert.True(t, ok)
	assert.Contains(t, gs.Log(), "[DM] "+fallbackDMLine)

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, fallbackDMLine, history[1].Message)
}

func TestNarrateKnownContext(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	m := NewDMChat(gs, agent, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeDMNarrate, Context: "combat_start"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, gs.Log(), "[DM] Mock narration")

	history := m.History()
	require.Len(t, history, 1)
	assert.Equal(t, "combat_start", history[0].EventType)

	_, calls := agent.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, narrationPrompts["combat_start"], calls[0].Event)
}

func TestNarrateAgentErrorFails(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	agent.SetGetActionsError(errors.New("agent unavailable"))
	m := NewDMChat(gs, agent, testLogger())

	// Narration has no player waiting, so it fails outright.
	ok, err := m.Process(action.Action{Type: action.TypeDMNarrate, Context: "combat_start"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.History())
}

func TestEventResponse(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	m := NewDMChat(gs, agent, testLogger())

	ok, err := m.Process(action.Action{
		Type:      action.TypeDMResponse,
		EventType: "attack_hit",
		EventData: map[string]string{"target": "Goblin 1"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	_, calls := agent.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Event, eventPrompts["attack_hit"])
	assert.Contains(t, calls[0].Event, "(target: Goblin 1)")
}

func TestEventResponseUnknownEvent(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	m := NewDMChat(gs, agent, testLogger())

	ok, err := m.Process(action.Action{Type: action.TypeDMResponse, EventType: "meteor_shower"})
	require.NoError(t, err)
	assert.False(t, ok)
	_, calls := agent.Calls()
	assert.Empty(t, calls)
}

func TestAgentInitializedOnceAndRetried(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	failures := 1
	agent.InitializeFunc = func(ctx context.Context, snapshot []byte) error {
		if failures > 0 {
			failures--
			return errors.New("not ready")
		}
		return nil
	}
	m := NewDMChat(gs, agent, testLogger())

	// First call fails to initialize, second retries and sticks.
	m.Process(action.Action{Type: action.TypeChatWithDM, Message: "one"})
	m.Process(action.Action{Type: action.TypeChatWithDM, Message: "two"})
	m.Process(action.Action{Type: action.TypeChatWithDM, Message: "three"})

	initCalls, _ := agent.Calls()
	assert.Len(t, initCalls, 2)
}

func TestTriggerNarration(t *testing.T) {
	gs := testState(t)
	agent := services.NewMockAgent()
	m := NewDMChat(gs, agent, testLogger())

	assert.True(t, m.TriggerNarration("combat_end"))
	assert.Contains(t, gs.Log(), "[DM] Mock narration")
}

func TestDMChatAvailableActions(t *testing.T) {
	gs := testState(t)
	m := NewDMChat(gs, services.NewMockAgent(), testLogger())

	actions := m.AvailableActions("player")
	require.Len(t, actions, 1)
	assert.Equal(t, action.TypeChatWithDM, actions[0].Type)
	assert.Equal(t, "text", actions[0].RequiresInput)

	assert.Nil(t, m.AvailableActions("nobody"))
}
