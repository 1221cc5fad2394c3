// Package action defines the structured records submitted to the
// engine and the descriptors modules publish for presentation layers.
package action

import "github.com/jwebster45206/grid-engine/pkg/grid"

// Type tags an action with the verb it performs.
type Type string

const (
	TypeMove         Type = "move"
	TypeDash         Type = "dash"
	TypeAttack       Type = "attack"
	TypeCastSpell    Type = "cast_spell"
	TypePrepareSpell Type = "prepare_spell"
	TypeEquip        Type = "equip"
	TypeUnequip      Type = "unequip"
	TypeUseItem      Type = "use_item"
	TypeDropItem     Type = "drop_item"
	TypeChatWithDM   Type = "chat_with_dm"
	TypeDMNarrate    Type = "dm_narrate"
	TypeDMResponse   Type = "dm_response"
	TypeStartCombat  Type = "start_combat"
)

// Action is one game-rule operation. Only the fields relevant to the
// Type are populated; modules extract missing fields as zero values and
// report a validation failure rather than erroring.
type Action struct {
	Type        Type              `json:"type"`
	CharacterID string            `json:"character_id,omitempty"`
	Position    *grid.Point       `json:"position,omitempty"`
	AttackerID  string            `json:"attacker_id,omitempty"`
	TargetID    string            `json:"target_id,omitempty"`
	SpellName   string            `json:"spell_name,omitempty"`
	ItemName    string            `json:"item_name,omitempty"`
	Message     string            `json:"message,omitempty"`
	Context     string            `json:"context,omitempty"`
	EventType   string            `json:"event_type,omitempty"`
	EventData   map[string]string `json:"event_data,omitempty"`
}

// ActorID returns the acting character id, defaulting to "player".
func (a Action) ActorID() string {
	if a.CharacterID == "" {
		return "player"
	}
	return a.CharacterID
}

// Attacker returns the attacking character id, defaulting to "player".
func (a Action) Attacker() string {
	if a.AttackerID == "" {
		return "player"
	}
	return a.AttackerID
}

// Destination returns the target position, defaulting to the origin
// square when absent.
func (a Action) Destination() grid.Point {
	if a.Position == nil {
		return grid.Point{}
	}
	return *a.Position
}

// Descriptor describes one currently-legal action for a character,
// used to drive presentation layers.
type Descriptor struct {
	Type           Type   `json:"type"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RequiresTarget string `json:"requires_target,omitempty"`
	RequiresInput  string `json:"requires_input,omitempty"`
	SpellName      string `json:"spell_name,omitempty"`
	ItemName       string `json:"item_name,omitempty"`
}
