// Package chat defines the contract between the engine and the
// language-model narrative agent that drives non-player characters.
package chat

import (
	"context"
	"time"

	"github.com/jwebster45206/grid-engine/pkg/grid"
)

// Functions an agent may call. The engine maps these onto actions.
const (
	FuncNarrate         = "narrate"
	FuncMoveCharacter   = "move_character"
	FuncAttackCharacter = "attack_character"
)

// AgentArgs carries the arguments of one agent function call.
type AgentArgs struct {
	Text        string      `json:"text,omitempty"`
	CharacterID string      `json:"character_id,omitempty"`
	NewPosition *grid.Point `json:"new_position,omitempty"`
	AttackerID  string      `json:"attacker_id,omitempty"`
	TargetID    string      `json:"target_id,omitempty"`
}

// AgentAction is one structured action returned by the narrative agent.
type AgentAction struct {
	Function string    `json:"function"`
	Args     AgentArgs `json:"args"`
}

// Agent produces prose and structured actions for non-player
// characters. Implementations may block on network I/O; callers treat
// any error as "agent unavailable" and substitute NeutralNarration.
type Agent interface {
	// Initialize starts a session from a serialized game state snapshot.
	Initialize(ctx context.Context, snapshot []byte) error

	// GetActions returns the agent's actions in response to an event,
	// given the current serialized game state.
	GetActions(ctx context.Context, snapshot []byte, event string) ([]AgentAction, error)
}

// NeutralNarration is the fallback substituted when the agent fails.
func NeutralNarration() []AgentAction {
	return []AgentAction{{
		Function: FuncNarrate,
		Args:     AgentArgs{Text: "The dungeon master pauses, momentarily considering the situation..."},
	}}
}

// Speaker labels for conversation entries.
const (
	SpeakerPlayer = "player"
	SpeakerDM     = "dm"
)

// Entry is one line of the DM conversation history.
type Entry struct {
	Speaker   string `json:"speaker"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type,omitempty"`
}

// NewEntry stamps a conversation entry with the current wall clock.
func NewEntry(speaker, message string) Entry {
	return Entry{
		Speaker:   speaker,
		Message:   message,
		Timestamp: time.Now().Format("15:04:05"),
	}
}
