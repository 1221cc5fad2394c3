package state

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/jwebster45206/grid-engine/pkg/actor"
)

// snapshotJSON is the persisted snapshot shape. The game log is capped
// to the most recent LogLimit entries on serialization.
type snapshotJSON struct {
	ID               uuid.UUID                   `json:"id,omitempty"`
	Characters       map[string]*actor.Character `json:"characters"`
	MapData          MapData                     `json:"map_data"`
	TurnOrder        []string                    `json:"turn_order"`
	CurrentTurnIndex int                         `json:"current_turn_index"`
	CombatActive     bool                        `json:"combat_active"`
	GameLog          []string                    `json:"game_log"`
}

func (gs *GameState) MarshalJSON() ([]byte, error) {
	turnOrder := gs.TurnOrder
	if turnOrder == nil {
		turnOrder = make([]string, 0)
	}
	return json.Marshal(snapshotJSON{
		ID:               gs.ID,
		Characters:       gs.characters,
		MapData:          gs.mapData,
		TurnOrder:        turnOrder,
		CurrentTurnIndex: gs.CurrentTurnIndex,
		CombatActive:     gs.CombatActive,
		GameLog:          gs.LogTail(LogLimit),
	})
}

// UnmarshalJSON is the structural inverse of MarshalJSON. The snapshot
// does not carry roster insertion order, so it is normalized to
// lexicographic id order on load.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	var snap snapshotJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	gs.ID = snap.ID
	gs.mapData = snap.MapData
	gs.TurnOrder = snap.TurnOrder
	gs.CurrentTurnIndex = snap.CurrentTurnIndex
	gs.CombatActive = snap.CombatActive
	gs.log = snap.GameLog
	if gs.log == nil {
		gs.log = make([]string, 0)
	}
	if gs.TurnOrder == nil {
		gs.TurnOrder = make([]string, 0)
	}

	gs.characters = snap.Characters
	if gs.characters == nil {
		gs.characters = make(map[string]*actor.Character)
	}
	gs.order = make([]string, 0, len(gs.characters))
	for id := range gs.characters {
		gs.order = append(gs.order, id)
	}
	sort.Strings(gs.order)
	return nil
}

// Snapshot serializes the game state for persistence or for handing to
// the narrative agent.
func (gs *GameState) Snapshot() ([]byte, error) {
	return json.Marshal(gs)
}
