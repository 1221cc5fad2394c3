package engine

import (
	"context"
	"log/slog"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/chat"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/rules"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// Engine owns one game session: the state, the module router and the
// narrative agent. It is single-threaded; callers serialize access.
type Engine struct {
	gs       *state.GameState
	router   *Router
	movement *rules.MovementModule
	combat   *rules.CombatModule
	dm       *rules.DMChatModule
	agent    chat.Agent
	log      *slog.Logger
}

// New assembles an engine over an existing game state. Module
// registration order is fixed: movement, combat, inventory, spells,
// then DM chat.
func New(gs *state.GameState, roller dice.Roller, agent chat.Agent, log *slog.Logger) *Engine {
	e := &Engine{
		gs:     gs,
		router: NewRouter(log),
		agent:  agent,
		log:    log,
	}
	e.movement = rules.NewMovement(gs, log)
	e.combat = rules.NewCombat(gs, roller, log)
	e.dm = rules.NewDMChat(gs, agent, log)

	e.router.Register(e.movement)
	e.router.Register(e.combat)
	e.router.Register(rules.NewInventory(gs, roller, log))
	e.router.Register(rules.NewSpells(gs, roller, log))
	e.router.Register(e.dm)
	return e
}

// State returns the underlying game state.
func (e *Engine) State() *state.GameState {
	return e.gs
}

// Process routes one action through the module pipeline.
func (e *Engine) Process(a action.Action) bool {
	return e.router.Route(a)
}

// AvailableActions lists every currently legal action for a character.
func (e *Engine) AvailableActions(characterID string) []action.Descriptor {
	return e.router.AvailableActions(characterID)
}

// StartCombat rolls initiative and opens the first turn, then asks the
// DM for an opening narration.
func (e *Engine) StartCombat() {
	e.combat.StartCombat()
	e.dm.TriggerNarration("combat_start")
}

// AdvanceTurn resets the outgoing character's movement budget and
// moves to the next living character. Defeated characters are skipped
// here, not in the combat module; the scan is bounded by the turn
// order length so an all-defeated order cannot loop forever.
func (e *Engine) AdvanceTurn() *actor.Character {
	if current := e.combat.CurrentCharacter(); current != nil {
		e.movement.ResetTurn(current.ID)
	}
	e.combat.AdvanceTurn()
	for i := 0; i < len(e.gs.TurnOrder); i++ {
		c := e.combat.CurrentCharacter()
		if c == nil || !c.IsDefeated() {
			break
		}
		e.combat.AdvanceTurn()
	}
	return e.combat.CurrentCharacter()
}

// CurrentCharacter returns the character whose turn it is.
func (e *Engine) CurrentCharacter() *actor.Character {
	return e.combat.CurrentCharacter()
}

// IsCombatOver reports whether one side has been wiped out.
func (e *Engine) IsCombatOver() bool {
	return e.combat.IsCombatOver()
}

// DMHistory returns the DM conversation so far.
func (e *Engine) DMHistory() []chat.Entry {
	return e.dm.History()
}

// MovementInfo reports a character's remaining movement budget.
func (e *Engine) MovementInfo(id string) rules.MovementInfo {
	return e.movement.Info(id)
}

// ProcessAgentActions funnels structured agent actions back through
// the same router the player uses, so agent moves obey identical rules.
// It returns the narration texts collected along the way.
func (e *Engine) ProcessAgentActions(actions []chat.AgentAction) []string {
	narrations := make([]string, 0)
	for _, aa := range actions {
		switch aa.Function {
		case chat.FuncNarrate:
			if aa.Args.Text != "" {
				e.gs.AddLog("[DM] " + aa.Args.Text)
				narrations = append(narrations, aa.Args.Text)
			}
		case chat.FuncMoveCharacter:
			if aa.Args.NewPosition == nil {
				continue
			}
			e.Process(action.Action{
				Type:        action.TypeMove,
				CharacterID: aa.Args.CharacterID,
				Position:    aa.Args.NewPosition,
			})
		case chat.FuncAttackCharacter:
			e.Process(action.Action{
				Type:       action.TypeAttack,
				AttackerID: aa.Args.AttackerID,
				TargetID:   aa.Args.TargetID,
			})
		default:
			e.log.Warn("agent requested unknown function", "function", aa.Function)
		}
	}
	return narrations
}

// AgentTurn asks the narrative agent to act for the non-player side in
// response to an event. Agent failure substitutes neutral narration so
// the loop always progresses.
func (e *Engine) AgentTurn(ctx context.Context, event string) []string {
	snapshot, err := e.gs.Snapshot()
	if err != nil {
		e.log.Error("failed to snapshot game state for agent turn", "error", err)
		return e.ProcessAgentActions(chat.NeutralNarration())
	}
	actions, err := e.agent.GetActions(ctx, snapshot, event)
	if err != nil {
		e.log.Warn("agent turn failed", "error", err)
		actions = chat.NeutralNarration()
	}
	return e.ProcessAgentActions(actions)
}
