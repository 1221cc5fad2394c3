package rules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/chat"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// fallbackDMLine is logged when the agent is unreachable or errors
// mid-conversation. Chat still succeeds from the player's perspective.
const fallbackDMLine = "The DM pauses thoughtfully, considering the situation..."

// narrationPrompts map a scene context to the event string sent to the
// agent for unprompted narration.
var narrationPrompts = map[string]string{
	"combat_start":    "Combat has just begun. Set the scene with a short, vivid description of the battle starting.",
	"combat_end":      "The battle is over. Describe the aftermath in a sentence or two.",
	"character_death": "A character has just fallen. Give a brief, dramatic description.",
	"exploration":     "The party is exploring. Describe the surroundings briefly.",
}

// eventPrompts map a game event to the reaction prompt sent to the
// agent for event commentary.
var eventPrompts = map[string]string{
	"attack_hit":         "An attack just landed. React with a short combat description.",
	"attack_miss":        "An attack just missed. React with a short combat description.",
	"spell_cast":         "A spell was just cast. Describe its visual effect briefly.",
	"character_defeated": "A character was just defeated. Give a brief, dramatic line.",
	"critical_hit":       "A devastating blow just landed. Describe it dramatically.",
	"healing":            "A character was just healed. Describe the recovery briefly.",
	"item_used":          "An item was just used. Describe it briefly.",
	"environmental":      "Something in the environment just changed. Describe it briefly.",
}

// DMChatModule connects the player conversation to the narrative
// agent. Agent failures degrade to canned lines; they never fail the
// player's action.
type DMChatModule struct {
	gs          *state.GameState
	agent       chat.Agent
	log         *slog.Logger
	history     []chat.Entry
	initialized bool
}

func NewDMChat(gs *state.GameState, agent chat.Agent, log *slog.Logger) *DMChatModule {
	return &DMChatModule{
		gs:      gs,
		agent:   agent,
		log:     log,
		history: make([]chat.Entry, 0),
	}
}

func (m *DMChatModule) CanHandle(a action.Action) bool {
	switch a.Type {
	case action.TypeChatWithDM, action.TypeDMNarrate, action.TypeDMResponse:
		return true
	}
	return false
}

func (m *DMChatModule) Process(a action.Action) (bool, error) {
	switch a.Type {
	case action.TypeChatWithDM:
		return m.handleChat(a.Message), nil
	case action.TypeDMNarrate:
		return m.handleNarrate(a.Context), nil
	case action.TypeDMResponse:
		return m.handleResponse(a.EventType, a.EventData), nil
	}
	return false, nil
}

// ensureInitialized primes the agent session with a state snapshot on
// first use. Initialization failures are logged and the session
// proceeds uninitialised; the next call retries.
func (m *DMChatModule) ensureInitialized(ctx context.Context) {
	if m.initialized {
		return
	}
	snapshot, err := m.gs.Snapshot()
	if err != nil {
		m.log.Error("failed to snapshot game state for agent", "error", err)
		return
	}
	if err := m.agent.Initialize(ctx, snapshot); err != nil {
		m.log.Warn("agent initialization failed", "error", err)
		return
	}
	m.initialized = true
}

func (m *DMChatModule) handleChat(message string) bool {
	if message == "" {
		return false
	}
	ctx := context.Background()
	m.ensureInitialized(ctx)
	m.history = append(m.history, chat.NewEntry(chat.SpeakerPlayer, message))

	snapshot, err := m.gs.Snapshot()
	if err != nil {
		m.log.Error("failed to snapshot game state", "error", err)
		return m.fallback()
	}
	actions, err := m.agent.GetActions(ctx, snapshot, fmt.Sprintf("Player says: '%s'", message))
	if err != nil {
		m.log.Warn("agent chat failed", "error", err)
		return m.fallback()
	}
	for _, aa := range actions {
		if aa.Function == chat.FuncNarrate && aa.Args.Text != "" {
			m.history = append(m.history, chat.NewEntry(chat.SpeakerDM, aa.Args.Text))
			m.gs.AddLog("[DM] " + aa.Args.Text)
		}
	}
	return true
}

func (m *DMChatModule) fallback() bool {
	m.history = append(m.history, chat.NewEntry(chat.SpeakerDM, fallbackDMLine))
	m.gs.AddLog("[DM] " + fallbackDMLine)
	return true
}

// handleNarrate asks the agent for unprompted scene narration. Unlike
// chat, a failed narration fails the action; there is no player
// waiting on a reply.
func (m *DMChatModule) handleNarrate(sceneContext string) bool {
	prompt, ok := narrationPrompts[sceneContext]
	if !ok {
		prompt = "Narrate the current situation briefly."
	}
	return m.narrate(prompt, sceneContext)
}

// handleResponse asks the agent to react to a concrete game event.
func (m *DMChatModule) handleResponse(eventType string, eventData map[string]string) bool {
	prompt, ok := eventPrompts[eventType]
	if !ok {
		return false
	}
	for k, v := range eventData {
		prompt += fmt.Sprintf(" (%s: %s)", k, v)
	}
	return m.narrate(prompt, eventType)
}

func (m *DMChatModule) narrate(prompt, eventType string) bool {
	ctx := context.Background()
	m.ensureInitialized(ctx)

	snapshot, err := m.gs.Snapshot()
	if err != nil {
		m.log.Error("failed to snapshot game state", "error", err)
		return false
	}
	actions, err := m.agent.GetActions(ctx, snapshot, prompt)
	if err != nil {
		m.log.Warn("agent narration failed", "error", err, "event", eventType)
		return false
	}
	narrated := false
	for _, aa := range actions {
		if aa.Function == chat.FuncNarrate && aa.Args.Text != "" {
			entry := chat.NewEntry(chat.SpeakerDM, aa.Args.Text)
			entry.EventType = eventType
			m.history = append(m.history, entry)
			m.gs.AddLog("[DM] " + aa.Args.Text)
			narrated = true
		}
	}
	return narrated
}

// TriggerNarration is the engine-facing entry point for scene
// narration outside the action pipeline.
func (m *DMChatModule) TriggerNarration(sceneContext string) bool {
	return m.handleNarrate(sceneContext)
}

// History returns a copy of the conversation so far.
func (m *DMChatModule) History() []chat.Entry {
	out := make([]chat.Entry, len(m.history))
	copy(out, m.history)
	return out
}

func (m *DMChatModule) AvailableActions(characterID string) []action.Descriptor {
	if m.gs.Character(characterID) == nil {
		return nil
	}
	return []action.Descriptor{{
		Type:          action.TypeChatWithDM,
		Name:          "Talk to the DM",
		Description:   "Say something to the dungeon master",
		RequiresInput: "text",
	}}
}
