package rules

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// Melee reach in grid squares.
const meleeRange = 1

// defaultAttackBonus is used when a character carries no attack bonus
// at all.
const defaultAttackBonus = 3

// CombatModule resolves attacks and owns the turn/combat state
// machine: initiative, turn order and combat-over detection.
//
// The controller does not skip defeated characters on AdvanceTurn;
// that policy lives one layer up, in the engine.
type CombatModule struct {
	gs     *state.GameState
	roller dice.Roller
	log    *slog.Logger
}

func NewCombat(gs *state.GameState, roller dice.Roller, log *slog.Logger) *CombatModule {
	return &CombatModule{gs: gs, roller: roller, log: log}
}

func (m *CombatModule) CanHandle(a action.Action) bool {
	return a.Type == action.TypeAttack || a.Type == action.TypeStartCombat
}

func (m *CombatModule) Process(a action.Action) (bool, error) {
	switch a.Type {
	case action.TypeAttack:
		if a.TargetID == "" {
			return false, nil
		}
		return m.ExecuteAttack(a.Attacker(), a.TargetID), nil
	case action.TypeStartCombat:
		return m.StartCombat(), nil
	}
	return false, nil
}

// ExecuteAttack resolves one melee attack. A resolved miss is still a
// success; only an invalid target or an out-of-range attack fails, and
// a failed attack costs nothing.
func (m *CombatModule) ExecuteAttack(attackerID, targetID string) bool {
	attacker := m.gs.Character(attackerID)
	target := m.gs.Character(targetID)
	if attacker == nil || target == nil {
		return false
	}

	if attacker.Position.Distance(target.Position) > meleeRange {
		m.gs.Logf("%s is too far from %s to attack!", attacker.Name, target.Name)
		return false
	}

	bonus := attacker.AttackBonus + attacker.EquipAttackBonus
	if bonus == 0 {
		bonus = defaultAttackBonus
	}
	roll := m.roller.Roll(20)
	total := roll + bonus
	m.gs.Logf("%s attacks %s: rolls %d + %d = %d vs AC %d",
		attacker.Name, target.Name, roll, bonus, total, target.AC)

	if total >= target.AC { // ties hit
		damage := m.roller.Roll(8) + 2 // 1d8+2
		m.gs.ApplyDamage(targetID, damage)
		return true
	}

	m.gs.Logf("%s's attack misses %s!", attacker.Name, target.Name)
	return true
}

// StartCombat rolls initiative for every character currently in the
// roster and builds the turn order, highest roll first. Ties keep
// roster insertion order (stable sort). Characters added later never
// join the order until the next StartCombat.
func (m *CombatModule) StartCombat() bool {
	m.gs.CombatActive = true
	m.gs.AddLog("Combat has started! Roll for initiative!")

	roster := m.gs.Characters()
	for _, c := range roster {
		c.Initiative = m.roller.Roll(20)
		m.gs.Logf("%s rolls %d for initiative", c.Name, c.Initiative)
	}

	order := make([]string, 0, len(roster))
	for _, c := range roster {
		order = append(order, c.ID)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return m.gs.Character(order[i]).Initiative > m.gs.Character(order[j]).Initiative
	})
	m.gs.TurnOrder = order
	m.gs.CurrentTurnIndex = 0

	names := make([]string, 0, len(order))
	for _, id := range order {
		names = append(names, m.gs.Character(id).Name)
	}
	m.gs.Logf("Turn order: %s", strings.Join(names, " -> "))
	return true
}

// AdvanceTurn moves to the next entry in the turn order, wrapping to
// the top and logging a round marker at the end of each round.
func (m *CombatModule) AdvanceTurn() {
	m.gs.CurrentTurnIndex++
	if m.gs.CurrentTurnIndex >= len(m.gs.TurnOrder) {
		m.gs.CurrentTurnIndex = 0
		m.gs.AddLog("--- New Round ---")
	}
}

// CurrentCharacter returns the character whose turn it is, or nil if
// combat has not started.
func (m *CombatModule) CurrentCharacter() *actor.Character {
	if len(m.gs.TurnOrder) == 0 {
		return nil
	}
	return m.gs.Character(m.gs.TurnOrder[m.gs.CurrentTurnIndex])
}

// IsCombatOver reports whether either side has no characters with
// positive HP left.
func (m *CombatModule) IsCombatOver() bool {
	monsters, players := 0, 0
	for _, c := range m.gs.Characters() {
		if c.HP <= 0 {
			continue
		}
		switch c.Type {
		case actor.TypeMonster:
			monsters++
		case actor.TypePlayer:
			players++
		}
	}
	return monsters == 0 || players == 0
}

func (m *CombatModule) AvailableActions(characterID string) []action.Descriptor {
	if m.gs.Character(characterID) == nil {
		return nil
	}
	return []action.Descriptor{{
		Type:           action.TypeAttack,
		Name:           "Attack",
		Description:    "Attack a target within range",
		RequiresTarget: "character",
	}}
}
