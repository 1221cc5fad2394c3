// Package state owns the shared mutable game state: the character
// roster, map data, combat flags, turn order and the game log.
package state

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/grid-engine/pkg/actor"
	"github.com/jwebster45206/grid-engine/pkg/grid"
	"github.com/jwebster45206/grid-engine/pkg/srd"
)

// LogLimit is the number of log entries retained in a serialized
// snapshot. The in-memory log is unbounded.
const LogLimit = 50

// GameState is the aggregate root for one combat session. All rules
// modules mutate game state exclusively through this type. Access is
// single-threaded by construction: exactly one caller drives the loop.
type GameState struct {
	ID uuid.UUID

	// Combat sequencing, owned by the combat module.
	CombatActive     bool
	TurnOrder        []string
	CurrentTurnIndex int

	characters map[string]*actor.Character
	order      []string // roster insertion order; initiative tie-break
	mapData    MapData
	log        []string

	provider srd.StatProvider // may be nil; absence falls back to defaults
}

// NewGameState creates an empty game state. The stat provider may be
// nil, in which case every character is built from fixed defaults.
func NewGameState(provider srd.StatProvider) *GameState {
	return &GameState{
		ID:         uuid.New(),
		characters: make(map[string]*actor.Character),
		order:      make([]string, 0),
		log:        make([]string, 0),
		provider:   provider,
	}
}

// SetStatProvider attaches a stat provider, e.g. after deserialization.
func (gs *GameState) SetStatProvider(p srd.StatProvider) {
	gs.provider = p
}

// CharacterParams selects the stat-provider records used to build a
// character. Zero values mean "use fixed defaults".
type CharacterParams struct {
	MonsterIndex string
	ClassIndex   string
	RaceIndex    string
	Level        int
}

// AddCharacter constructs a character and inserts it into the roster.
// Stat-provider failures fall back to fixed defaults rather than
// surfacing an error. Re-adding an existing id overwrites it silently,
// keeping the original insertion position.
func (gs *GameState) AddCharacter(ctx context.Context, id, name string, typ actor.Type, pos grid.Point, params CharacterParams) *actor.Character {
	origin := gs.resolveOrigin(ctx, typ, params)
	c, err := actor.NewCharacter(id, name, typ, pos, origin)
	if err != nil {
		// Fail closed: a provider record the sheet builder rejects
		// degrades to defaults.
		c, _ = actor.NewCharacter(id, name, typ, pos, actor.Origin{Kind: actor.OriginDefault})
	}
	if _, exists := gs.characters[id]; !exists {
		gs.order = append(gs.order, id)
	}
	gs.characters[id] = c
	return c
}

func (gs *GameState) resolveOrigin(ctx context.Context, typ actor.Type, params CharacterParams) actor.Origin {
	if gs.provider == nil {
		return actor.Origin{Kind: actor.OriginDefault}
	}
	switch {
	case typ == actor.TypeMonster:
		index := params.MonsterIndex
		if index == "" {
			index = "goblin"
		}
		stats, err := gs.provider.GetMonster(ctx, index)
		if err != nil || stats == nil {
			return actor.Origin{Kind: actor.OriginDefault}
		}
		return actor.Origin{Kind: actor.OriginMonster, Monster: stats}

	case typ == actor.TypePlayer:
		classIndex := params.ClassIndex
		if classIndex == "" {
			classIndex = "fighter"
		}
		raceIndex := params.RaceIndex
		if raceIndex == "" {
			raceIndex = "human"
		}
		class, err := gs.provider.GetClass(ctx, classIndex)
		if err != nil || class == nil {
			return actor.Origin{Kind: actor.OriginDefault}
		}
		race, err := gs.provider.GetRace(ctx, raceIndex)
		if err != nil || race == nil {
			return actor.Origin{Kind: actor.OriginDefault}
		}
		level := params.Level
		if level < 1 {
			level = 1
		}
		return actor.Origin{Kind: actor.OriginClass, Class: class, Race: race, Level: level}
	}
	return actor.Origin{Kind: actor.OriginDefault}
}

// ApplyMap installs map data and spawns the roster from its starting
// positions. The id "player" becomes a level-1 fighter named Hero with
// starting equipment; any other id spawns a monster whose provider
// index is the id prefix before the first underscore.
func (gs *GameState) ApplyMap(ctx context.Context, m MapData) {
	gs.mapData = m

	ids := make([]string, 0, len(m.StartingPositions))
	for id := range m.StartingPositions {
		ids = append(ids, id)
	}
	// Player first, then lexicographic, so spawn order is stable.
	sort.Slice(ids, func(i, j int) bool {
		if ids[i] == "player" {
			return true
		}
		if ids[j] == "player" {
			return false
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		pos := m.StartingPositions[id]
		if id == "player" {
			c := gs.AddCharacter(ctx, id, "Hero", actor.TypePlayer, pos, CharacterParams{
				ClassIndex: "fighter",
				RaceIndex:  "human",
				Level:      1,
			})
			c.GrantStartingEquipment()
			continue
		}
		index := id
		if i := strings.Index(id, "_"); i > 0 {
			index = id[:i]
		}
		gs.AddCharacter(ctx, id, actor.DisplayNameFromID(id), actor.TypeMonster, pos, CharacterParams{
			MonsterIndex: index,
		})
	}
}

// Character returns the character with the given id, or nil.
func (gs *GameState) Character(id string) *actor.Character {
	return gs.characters[id]
}

// Characters returns the roster in insertion order.
func (gs *GameState) Characters() []*actor.Character {
	out := make([]*actor.Character, 0, len(gs.order))
	for _, id := range gs.order {
		out = append(out, gs.characters[id])
	}
	return out
}

// Map returns the current map data.
func (gs *GameState) Map() *MapData {
	return &gs.mapData
}

// SetMap installs map data without spawning characters.
func (gs *GameState) SetMap(m MapData) {
	gs.mapData = m
}

// MoveCharacter moves a character if the destination is on the map and
// unoccupied. There is no terrain or budget check at this layer; those
// belong to the movement module.
func (gs *GameState) MoveCharacter(id string, dest grid.Point) bool {
	c := gs.characters[id]
	if c == nil {
		return false
	}
	if !gs.mapData.InBounds(dest) {
		return false
	}
	for _, other := range gs.characters {
		if other.ID != id && other.Position == dest {
			return false
		}
	}
	from := c.Position
	c.Position = dest
	gs.AddLog(c.Name + " moves from " + from.String() + " to " + dest.String())
	return true
}

// ApplyDamage reduces a character's HP, clamped at zero, and logs the
// result. A defeat line is logged exactly once, when HP crosses from
// positive to zero. The character is never removed from the roster.
func (gs *GameState) ApplyDamage(id string, damage int) bool {
	c := gs.characters[id]
	if c == nil {
		return false
	}
	wasAlive := c.HP > 0
	c.TakeDamage(damage)
	gs.Logf("%s takes %d damage (HP: %d/%d)", c.Name, damage, c.HP, c.MaxHP)
	if wasAlive && c.HP == 0 {
		gs.Logf("%s is defeated!", c.Name)
	}
	return true
}

// CharactersInRange returns every character within rangeFeet of the
// position, Manhattan distance, including the position's own occupant.
func (gs *GameState) CharactersInRange(pos grid.Point, rangeFeet int) []*actor.Character {
	maxSquares := grid.SquaresFromFeet(rangeFeet)
	out := make([]*actor.Character, 0)
	for _, id := range gs.order {
		c := gs.characters[id]
		if c.Position.Distance(pos) <= maxSquares {
			out = append(out, c)
		}
	}
	return out
}
