package actor

// Spell is an immutable spell definition from the shared catalog.
// The Save field is metadata only: no saving throw is rolled when the
// spell resolves, matching the simulator's simplified spell resolution.
type Spell struct {
	Name        string   `json:"name"`
	Level       int      `json:"level"`
	School      string   `json:"school"`
	CastingTime string   `json:"casting_time"`
	Range       string   `json:"range"`
	Duration    string   `json:"duration"`
	Components  []string `json:"components,omitempty"`
	Description string   `json:"description,omitempty"`
	Damage      string   `json:"damage,omitempty"`  // damage dice, e.g. "8d6"
	Healing     string   `json:"healing,omitempty"` // healing dice
	ACBonus     int      `json:"ac_bonus,omitempty"`
	Missiles    int      `json:"missiles,omitempty"`
	Area        string   `json:"area,omitempty"`
	Save        string   `json:"save,omitempty"`
}

// SelfTargeted reports whether the spell targets only its caster.
func (s *Spell) SelfTargeted() bool {
	return s.Range == "self"
}

// Spellbook tracks a character's relationship to the spell catalog:
// spell names known plus per-level slot counters.
type Spellbook struct {
	Known []string    `json:"known"`
	Slots map[int]int `json:"slots"`
	Used  map[int]int `json:"used"`
}

// MaxSpellLevel bounds the slot tables.
const MaxSpellLevel = 5

func NewSpellbook() *Spellbook {
	sb := &Spellbook{
		Known: make([]string, 0),
		Slots: make(map[int]int, MaxSpellLevel),
		Used:  make(map[int]int, MaxSpellLevel),
	}
	for lvl := 1; lvl <= MaxSpellLevel; lvl++ {
		sb.Slots[lvl] = 0
		sb.Used[lvl] = 0
	}
	return sb
}

// GrantStartingSpells gives a first-level caster two level-1 slots and
// the two starter spells.
func (sb *Spellbook) GrantStartingSpells() {
	sb.Slots[1] = 2
	sb.Learn("cure_wounds")
	sb.Learn("magic_missile")
}

// Knows reports whether the named spell is in the known list.
func (sb *Spellbook) Knows(name string) bool {
	for _, n := range sb.Known {
		if n == name {
			return true
		}
	}
	return false
}

// Learn adds a spell name to the known list. Learning a known spell is
// a no-op.
func (sb *Spellbook) Learn(name string) {
	if !sb.Knows(name) {
		sb.Known = append(sb.Known, name)
	}
}

// HasSlot reports whether an unused slot remains at the given level.
func (sb *Spellbook) HasSlot(level int) bool {
	return sb.Used[level] < sb.Slots[level]
}

// UseSlot consumes one slot at the given level.
func (sb *Spellbook) UseSlot(level int) {
	sb.Used[level]++
}
