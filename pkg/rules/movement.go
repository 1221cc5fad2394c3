package rules

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// turnBudget is the per-turn ephemeral movement state for one
// character, owned by the movement module and reset at turn start.
type turnBudget struct {
	usedFeet int
	dashed   bool
}

// MovementModule enforces per-turn movement budgets, map bounds,
// occupancy and blocking terrain.
type MovementModule struct {
	gs     *state.GameState
	log    *slog.Logger
	budget map[string]*turnBudget
}

func NewMovement(gs *state.GameState, log *slog.Logger) *MovementModule {
	return &MovementModule{
		gs:     gs,
		log:    log,
		budget: make(map[string]*turnBudget),
	}
}

func (m *MovementModule) CanHandle(a action.Action) bool {
	return a.Type == action.TypeMove || a.Type == action.TypeDash
}

func (m *MovementModule) Process(a action.Action) (bool, error) {
	switch a.Type {
	case action.TypeMove:
		return m.handleMove(a.ActorID(), a.Destination()), nil
	case action.TypeDash:
		return m.handleDash(a.ActorID()), nil
	}
	return false, nil
}

func (m *MovementModule) handleMove(id string, dest grid.Point) bool {
	c := m.gs.Character(id)
	if c == nil {
		return false
	}

	distFeet := c.Position.DistanceFeet(dest)
	speed := c.Speed()
	tb := m.turn(id)
	remaining := speed - tb.usedFeet
	if distFeet > remaining {
		m.gs.Logf("%s doesn't have enough movement! Needs %d feet, has %d feet remaining.",
			c.Name, distFeet, remaining)
		return false
	}

	if !m.validDestination(c, dest) {
		return false
	}

	from := c.Position
	c.Position = dest
	tb.usedFeet += distFeet
	m.gs.Logf("%s moves from %s to %s (%d feet, %d feet remaining)",
		c.Name, from, dest, distFeet, speed-tb.usedFeet)
	return true
}

func (m *MovementModule) handleDash(id string) bool {
	c := m.gs.Character(id)
	if c == nil {
		return false
	}
	tb := m.turn(id)
	if tb.dashed {
		m.gs.Logf("%s has already dashed this turn!", c.Name)
		return false
	}
	tb.dashed = true
	// Refund up to one full speed's worth of used movement.
	tb.usedFeet -= c.Speed()
	if tb.usedFeet < 0 {
		tb.usedFeet = 0
	}
	m.gs.Logf("%s dashes! Movement doubled for this turn.", c.Name)
	return true
}

func (m *MovementModule) validDestination(c *actor.Character, dest grid.Point) bool {
	if !m.gs.Map().InBounds(dest) {
		m.gs.Logf("%s cannot move outside the map bounds!", c.Name)
		return false
	}
	for _, other := range m.gs.Characters() {
		if other.ID != c.ID && other.Position == dest {
			m.gs.Logf("%s cannot move to occupied position!", c.Name)
			return false
		}
	}
	if m.gs.Map().BlocksMovement(dest) {
		m.gs.Logf("%s cannot move through that terrain!", c.Name)
		return false
	}
	return true
}

// turn returns the per-turn record for a character, creating it fresh
// with a full budget if absent.
func (m *MovementModule) turn(id string) *turnBudget {
	tb, ok := m.budget[id]
	if !ok {
		tb = &turnBudget{}
		m.budget[id] = tb
	}
	return tb
}

// ResetTurn clears a character's movement record at the start of its
// turn. The engine calls this; the module never resets itself.
func (m *MovementModule) ResetTurn(id string) {
	delete(m.budget, id)
}

// MovementInfo reports a character's budget for presentation layers.
type MovementInfo struct {
	Speed     int  `json:"speed"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	CanDash   bool `json:"can_dash"`
}

func (m *MovementModule) Info(id string) MovementInfo {
	c := m.gs.Character(id)
	if c == nil {
		return MovementInfo{}
	}
	tb := m.turn(id)
	speed := c.Speed()
	return MovementInfo{
		Speed:     speed,
		Used:      tb.usedFeet,
		Remaining: speed - tb.usedFeet,
		CanDash:   !tb.dashed,
	}
}

func (m *MovementModule) AvailableActions(characterID string) []action.Descriptor {
	c := m.gs.Character(characterID)
	if c == nil {
		return nil
	}
	tb := m.turn(characterID)
	speed := c.Speed()
	remaining := speed - tb.usedFeet

	actions := []action.Descriptor{{
		Type:           action.TypeMove,
		Name:           fmt.Sprintf("Move (%d feet remaining)", remaining),
		Description:    fmt.Sprintf("Move to a new position. %d/%d feet remaining.", remaining, speed),
		RequiresTarget: "position",
	}}

	// Dash only appears once movement has been spent this turn.
	if !tb.dashed && remaining < speed {
		actions = append(actions, action.Descriptor{
			Type:        action.TypeDash,
			Name:        "Dash",
			Description: "Double your movement speed for this turn",
		})
	}
	return actions
}
