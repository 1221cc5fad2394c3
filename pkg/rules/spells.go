package rules

import (
	"log/slog"
	"strings"

	"github.com/jwebster45206/grid-engine/pkg/action"
	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/dice"
	"github.com/jwebster45206/grid-engine/pkg/state"
)

// Catalog returns the shared spell catalog. Definitions are immutable;
// per-character spell state lives in the Spellbook.
func Catalog() map[string]*actor.Spell {
	return map[string]*actor.Spell{
		"cure_wounds": {
			Name:        "Cure Wounds",
			Level:       1,
			School:      "evocation",
			CastingTime: "1 action",
			Range:       "touch",
			Duration:    "instantaneous",
			Description: "A creature you touch regains hit points.",
			Healing:     "1d8+3",
		},
		"magic_missile": {
			Name:        "Magic Missile",
			Level:       1,
			School:      "evocation",
			CastingTime: "1 action",
			Range:       "120 feet",
			Duration:    "instantaneous",
			Description: "Three darts of magical force strike a target unerringly.",
			Damage:      "1d4+1",
			Missiles:    3,
		},
		"shield": {
			Name:        "Shield",
			Level:       1,
			School:      "abjuration",
			CastingTime: "1 reaction",
			Range:       "self",
			Duration:    "1 round",
			Description: "An invisible barrier of magical force protects you.",
			ACBonus:     5,
		},
		"fireball": {
			Name:        "Fireball",
			Level:       3,
			School:      "evocation",
			CastingTime: "1 action",
			Range:       "150 feet",
			Duration:    "instantaneous",
			Description: "A bright streak blossoms into an explosion of flame.",
			Damage:      "8d6",
			Area:        "20-foot radius",
			Save:        "dexterity",
		},
	}
}

// SpellsModule handles spell preparation and casting. The slot is
// consumed as soon as the knows/slot checks pass, before target
// resolution, so a cast at a missing target still spends the slot.
type SpellsModule struct {
	gs      *state.GameState
	roller  dice.Roller
	log     *slog.Logger
	catalog map[string]*actor.Spell
}

func NewSpells(gs *state.GameState, roller dice.Roller, log *slog.Logger) *SpellsModule {
	return &SpellsModule{
		gs:      gs,
		roller:  roller,
		log:     log,
		catalog: Catalog(),
	}
}

func (m *SpellsModule) CanHandle(a action.Action) bool {
	return a.Type == action.TypeCastSpell || a.Type == action.TypePrepareSpell
}

func (m *SpellsModule) Process(a action.Action) (bool, error) {
	switch a.Type {
	case action.TypeCastSpell:
		return m.castSpell(a.ActorID(), a.SpellName, a.TargetID), nil
	case action.TypePrepareSpell:
		return m.prepareSpell(a.ActorID(), a.SpellName), nil
	}
	return false, nil
}

func (m *SpellsModule) castSpell(casterID, spellName, targetID string) bool {
	caster := m.gs.Character(casterID)
	if caster == nil || caster.Spellbook == nil {
		return false
	}
	if !caster.Spellbook.Knows(spellName) {
		m.gs.Logf("%s doesn't know %s", caster.Name, spellName)
		return false
	}
	spell, ok := m.catalog[spellName]
	if !ok {
		return false
	}
	if !caster.Spellbook.HasSlot(spell.Level) {
		m.gs.Logf("%s has no %d-level spell slots left", caster.Name, spell.Level)
		return false
	}
	caster.Spellbook.UseSlot(spell.Level)

	target := caster
	if targetID != "" && !spell.SelfTargeted() {
		target = m.gs.Character(targetID)
	}
	if target == nil {
		return false
	}

	if !m.executeEffect(caster, target, spell) {
		return false
	}
	m.gs.Logf("%s casts %s", caster.Name, spell.Name)
	return true
}

func (m *SpellsModule) executeEffect(caster, target *actor.Character, spell *actor.Spell) bool {
	switch {
	case spell.Healing != "":
		amount := dice.RollSpec(m.roller, spell.Healing)
		before := target.HP
		target.Heal(amount)
		m.gs.Logf("%s heals %d HP", target.Name, target.HP-before)
		return true

	case spell.Missiles > 0:
		total := 0
		for i := 0; i < spell.Missiles; i++ {
			total += dice.RollSpec(m.roller, spell.Damage)
		}
		wasAlive := target.HP > 0
		target.TakeDamage(total)
		m.gs.Logf("Magic missiles hit %s for %d damage", target.Name, total)
		if wasAlive && target.HP == 0 {
			m.gs.Logf("%s is defeated!", target.Name)
		}
		return true

	case spell.ACBonus > 0:
		caster.AC += spell.ACBonus
		m.gs.Logf("%s gains +%d AC from Shield spell", caster.Name, spell.ACBonus)
		return true

	case spell.Area != "":
		// One damage roll applied to every living character on the
		// opposing side. No saving throw is rolled.
		damage := dice.RollSpec(m.roller, spell.Damage)
		hit := make([]string, 0)
		for _, c := range m.gs.Characters() {
			if c.Type == caster.Type || c.HP <= 0 {
				continue
			}
			c.TakeDamage(damage)
			hit = append(hit, c.Name)
			if c.HP == 0 {
				m.gs.Logf("%s is defeated by the fireball!", c.Name)
			}
		}
		m.gs.Logf("Fireball deals %d damage to: %s", damage, strings.Join(hit, ", "))
		return true
	}
	return false
}

func (m *SpellsModule) prepareSpell(casterID, spellName string) bool {
	caster := m.gs.Character(casterID)
	if caster == nil || caster.Spellbook == nil {
		return false
	}
	if _, ok := m.catalog[spellName]; !ok {
		m.gs.Logf("%s is not a known spell", spellName)
		return false
	}
	caster.Spellbook.Learn(spellName)
	m.gs.Logf("%s prepares %s", caster.Name, m.catalog[spellName].Name)
	return true
}

func (m *SpellsModule) AvailableActions(characterID string) []action.Descriptor {
	c := m.gs.Character(characterID)
	if c == nil || c.Spellbook == nil {
		return nil
	}
	actions := make([]action.Descriptor, 0)
	for _, name := range c.Spellbook.Known {
		spell, ok := m.catalog[name]
		if !ok || !c.Spellbook.HasSlot(spell.Level) {
			continue
		}
		d := action.Descriptor{
			Type:        action.TypeCastSpell,
			Name:        "Cast " + spell.Name,
			Description: spell.Description,
			SpellName:   name,
		}
		if !spell.SelfTargeted() {
			d.RequiresTarget = "character"
		}
		actions = append(actions, d)
	}
	return actions
}
