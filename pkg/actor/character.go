// Package actor holds the entity model for the combat simulator:
// characters, their inventories and their spellbooks.
package actor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/d20"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/srd"
)

// Type is the category a character belongs to.
type Type string

const (
	TypePlayer  Type = "player"
	TypeMonster Type = "monster"
)

// Stats5e represents the six core D&D 5e ability scores.
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts Stats5e to a map for d20.Actor compatibility.
func (s Stats5e) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// OriginKind discriminates how a character's statistics were derived.
type OriginKind string

const (
	// OriginDefault means the character was built from fixed fallback stats.
	OriginDefault OriginKind = "default"
	// OriginMonster means the stats came from a monster record.
	OriginMonster OriginKind = "monster"
	// OriginClass means the stats were derived from a class and race record.
	OriginClass OriginKind = "class"
)

// Origin records where a character's statistics came from. Consumers
// switch on Kind instead of probing for optional data.
type Origin struct {
	Kind    OriginKind        `json:"kind"`
	Monster *srd.MonsterStats `json:"monster,omitempty"`
	Class   *srd.ClassStats   `json:"class,omitempty"`
	Race    *srd.RaceStats    `json:"race,omitempty"`
	Level   int               `json:"level,omitempty"`
}

// Classes that receive a spellbook with slots at character build.
var casterClasses = map[string]bool{
	"wizard":   true,
	"sorcerer": true,
	"cleric":   true,
}

// DefaultSpeed is the movement budget in feet for characters whose
// origin does not carry a race speed.
const DefaultSpeed = 30

// Character is one combatant on the grid. HP and AC are mutable combat
// state; the Sheet is a d20 actor built from the same scores and used
// for attribute lookups.
type Character struct {
	ID          string
	Name        string
	Type        Type
	Position    grid.Point
	HP          int
	MaxHP       int
	AC          int
	AttackBonus int
	Initiative  int // valid only during combat
	Conditions  []string
	Stats       Stats5e
	Origin      Origin

	// Equipment and spell sub-state contributed by the inventory and
	// spell modules.
	Inventory        []*Item
	Equipped         map[Slot]*Item
	EquipAttackBonus int
	EquipACBonus     int
	Spellbook        *Spellbook

	Sheet *d20.Actor
}

// NewCharacter builds a character from an origin. The origin decides the
// stat derivation; an origin missing its records degrades to defaults.
func NewCharacter(id, name string, typ Type, pos grid.Point, origin Origin) (*Character, error) {
	c := &Character{
		ID:         id,
		Name:       name,
		Type:       typ,
		Position:   pos,
		Conditions: make([]string, 0),
		Inventory:  make([]*Item, 0),
		Equipped:   make(map[Slot]*Item),
		Spellbook:  NewSpellbook(),
	}

	switch {
	case origin.Kind == OriginMonster && origin.Monster != nil:
		c.Origin = origin
		m := origin.Monster
		c.Stats = Stats5e{
			Strength:     m.Strength,
			Dexterity:    m.Dexterity,
			Constitution: m.Constitution,
			Intelligence: m.Intelligence,
			Wisdom:       m.Wisdom,
			Charisma:     m.Charisma,
		}
		c.MaxHP = m.HitPoints
		c.HP = m.HitPoints
		c.AC = m.ArmorClass
		c.AttackBonus = srd.AbilityModifier(m.Strength) + m.ProficiencyBonus

	case origin.Kind == OriginClass && origin.Class != nil && origin.Race != nil:
		c.Origin = origin
		level := origin.Level
		if level < 1 {
			level = 1
		}
		c.Origin.Level = level
		c.Stats = classBaseStats(origin.Race)
		conMod := srd.AbilityModifier(c.Stats.Constitution)
		hitDie := origin.Class.HitDie
		c.MaxHP = hitDie + conMod + (level-1)*(hitDie/2+1+conMod)
		c.HP = c.MaxHP
		c.AC = 10 + srd.AbilityModifier(c.Stats.Dexterity) // unarmored
		c.AttackBonus = srd.AbilityModifier(c.Stats.Strength) + srd.ProficiencyBonus(level)

		if casterClasses[strings.ToLower(origin.Class.Name)] {
			c.Spellbook.GrantStartingSpells()
		}

	default:
		c.Origin = Origin{Kind: OriginDefault}
		c.Stats = Stats5e{
			Strength:     13,
			Dexterity:    12,
			Constitution: 14,
			Intelligence: 10,
			Wisdom:       12,
			Charisma:     10,
		}
		if typ == TypePlayer {
			c.MaxHP, c.HP, c.AC, c.AttackBonus = 20, 20, 15, 5
		} else {
			c.MaxHP, c.HP, c.AC, c.AttackBonus = 10, 10, 12, 3
		}
	}

	sheet, err := buildSheet(c.ID, c.MaxHP, c.HP, c.AC, c.Stats)
	if err != nil {
		return nil, err
	}
	c.Sheet = sheet
	return c, nil
}

// classBaseStats applies racial ability bonuses to the standard array.
func classBaseStats(race *srd.RaceStats) Stats5e {
	base := map[string]int{
		"strength":     15,
		"dexterity":    14,
		"constitution": 13,
		"intelligence": 12,
		"wisdom":       10,
		"charisma":     8,
	}
	for _, b := range race.AbilityBonuses {
		key := strings.ToLower(b.Ability)
		if _, ok := base[key]; ok {
			base[key] += b.Bonus
		}
	}
	return Stats5e{
		Strength:     base["strength"],
		Dexterity:    base["dexterity"],
		Constitution: base["constitution"],
		Intelligence: base["intelligence"],
		Wisdom:       base["wisdom"],
		Charisma:     base["charisma"],
	}
}

func buildSheet(id string, maxHP, hp, ac int, stats Stats5e) (*d20.Actor, error) {
	sheet, err := d20.NewActor(id).
		WithHP(maxHP).
		WithAC(ac).
		WithAttributes(stats.ToAttributes()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor sheet: %w", err)
	}
	if hp != maxHP && hp > 0 {
		if err := sheet.SetHP(hp); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}
	return sheet, nil
}

// DisplayNameFromID derives a display name from a character id,
// e.g. "goblin_1" becomes "Goblin 1".
func DisplayNameFromID(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// TakeDamage reduces HP by n. HP cannot go below 0.
func (c *Character) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	c.HP -= n
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal increases HP by n. HP cannot exceed MaxHP.
func (c *Character) Heal(n int) {
	if n <= 0 {
		return
	}
	c.HP += n
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// IsDefeated returns true if the character's HP is 0 or less.
// Defeated characters stay in the roster.
func (c *Character) IsDefeated() bool {
	return c.HP <= 0
}

// AbilityScore looks up an ability score by name from the sheet,
// defaulting to 10 for unknown abilities.
func (c *Character) AbilityScore(name string) int {
	if c.Sheet != nil {
		if v, ok := c.Sheet.Attribute(strings.ToLower(name)); ok {
			return v
		}
	}
	return 10
}

// AbilityModifier returns the modifier for a named ability score.
func (c *Character) AbilityModifier(name string) int {
	return srd.AbilityModifier(c.AbilityScore(name))
}

// Speed returns the per-turn movement budget in feet.
func (c *Character) Speed() int {
	if c.Origin.Kind == OriginClass && c.Origin.Race != nil && c.Origin.Race.Speed > 0 {
		return c.Origin.Race.Speed
	}
	return DefaultSpeed
}

// HasCondition reports whether the named condition is active.
func (c *Character) HasCondition(name string) bool {
	for _, cond := range c.Conditions {
		if cond == name {
			return true
		}
	}
	return false
}

// AddCondition activates a condition. Adding an active condition is a no-op.
func (c *Character) AddCondition(name string) {
	if !c.HasCondition(name) {
		c.Conditions = append(c.Conditions, name)
	}
}

// RemoveCondition clears a condition if active.
func (c *Character) RemoveCondition(name string) {
	for i, cond := range c.Conditions {
		if cond == name {
			c.Conditions = append(c.Conditions[:i], c.Conditions[i+1:]...)
			return
		}
	}
}

// characterJSON is the serialized form of a Character. Ability scores
// are flattened to top-level keys and equipped items are stored by name,
// referencing entries in the inventory list.
type characterJSON struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             Type            `json:"type"`
	Position         grid.Point      `json:"position"`
	HP               int             `json:"hp"`
	MaxHP            int             `json:"max_hp"`
	AC               int             `json:"ac"`
	AttackBonus      int             `json:"attack_bonus"`
	EquipAttackBonus int             `json:"equipment_attack_bonus,omitempty"`
	EquipACBonus     int             `json:"equipment_ac_bonus,omitempty"`
	Initiative       int             `json:"initiative"`
	Conditions       []string        `json:"conditions"`
	Stats5e
	Origin    Origin          `json:"origin"`
	Inventory []*Item         `json:"inventory,omitempty"`
	Equipped  map[Slot]string `json:"equipped,omitempty"`
	Spellbook *Spellbook      `json:"spellbook,omitempty"`
}

func (c *Character) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	cj := characterJSON{
		ID:               c.ID,
		Name:             c.Name,
		Type:             c.Type,
		Position:         c.Position,
		HP:               c.HP,
		MaxHP:            c.MaxHP,
		AC:               c.AC,
		AttackBonus:      c.AttackBonus,
		EquipAttackBonus: c.EquipAttackBonus,
		EquipACBonus:     c.EquipACBonus,
		Initiative:       c.Initiative,
		Conditions:       c.Conditions,
		Stats5e:          c.Stats,
		Origin:           c.Origin,
		Inventory:        c.Inventory,
		Spellbook:        c.Spellbook,
	}
	if len(c.Equipped) > 0 {
		cj.Equipped = make(map[Slot]string, len(c.Equipped))
		for slot, item := range c.Equipped {
			if item != nil {
				cj.Equipped[slot] = item.Name
			}
		}
	}
	return json.Marshal(cj)
}

func (c *Character) UnmarshalJSON(data []byte) error {
	var cj characterJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	c.ID = cj.ID
	c.Name = cj.Name
	c.Type = cj.Type
	c.Position = cj.Position
	c.HP = cj.HP
	c.MaxHP = cj.MaxHP
	c.AC = cj.AC
	c.AttackBonus = cj.AttackBonus
	c.EquipAttackBonus = cj.EquipAttackBonus
	c.EquipACBonus = cj.EquipACBonus
	c.Initiative = cj.Initiative
	c.Conditions = cj.Conditions
	c.Stats = cj.Stats5e
	c.Origin = cj.Origin
	c.Inventory = cj.Inventory
	c.Spellbook = cj.Spellbook
	if c.Conditions == nil {
		c.Conditions = make([]string, 0)
	}
	if c.Inventory == nil {
		c.Inventory = make([]*Item, 0)
	}
	if c.Spellbook == nil {
		c.Spellbook = NewSpellbook()
	}

	// Re-link equipped slots to inventory entries by name.
	c.Equipped = make(map[Slot]*Item)
	for slot, name := range cj.Equipped {
		for _, item := range c.Inventory {
			if item.Name == name {
				c.Equipped[slot] = item
				break
			}
		}
	}

	sheet, err := buildSheet(c.ID, c.MaxHP, c.HP, c.AC, c.Stats)
	if err != nil {
		return err
	}
	c.Sheet = sheet
	return nil
}
