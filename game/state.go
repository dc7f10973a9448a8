// Package game holds the battle model: two rosters, the active matchup and
// the field. One BattleState exists per battle and is only mutated by the
// tracker; everything downstream works on snapshots.
package game

import "encoding/json"

type Side string

const (
	SideSelf     Side = "self"
	SideOpponent Side = "opponent"
	SideUnknown  Side = "unknown"
)

// Other returns the opposing side. SideUnknown maps to itself.
func (s Side) Other() Side {
	switch s {
	case SideSelf:
		return SideOpponent
	case SideOpponent:
		return SideSelf
	}
	return SideUnknown
}

type Status string

const (
	StatusNone      Status = ""
	StatusBurn      Status = "brn"
	StatusPoison    Status = "psn"
	StatusToxic     Status = "tox"
	StatusParalysis Status = "par"
	StatusSleep     Status = "slp"
	StatusFreeze    Status = "frz"
	StatusFainted   Status = "fnt"
)

// Boost stat keys, matching the sim's shorthand.
const (
	StatAtk = "atk"
	StatDef = "def"
	StatSpA = "spa"
	StatSpD = "spd"
	StatSpe = "spe"
)

const (
	MaxTeamSize   = 6
	MaxBoostStage = 6
	MinBoostStage = -6
)

// RosterEntry is everything learned so far about one team member. HP is a
// percentage; Moves is an append-only set of sighted move names.
type RosterEntry struct {
	Name          string         `json:"name"`
	HP            int            `json:"hp"`
	Status        Status         `json:"status,omitempty"`
	Moves         []string       `json:"moves,omitempty"`
	Item          string         `json:"item,omitempty"`
	Ability       string         `json:"ability,omitempty"`
	TeraType      string         `json:"teraType,omitempty"`
	Terastallized bool           `json:"terastallized,omitempty"`
	Boosts        map[string]int `json:"boosts,omitempty"`
	Revealed      bool           `json:"revealed,omitempty"`
}

func NewRosterEntry(name string) *RosterEntry {
	return &RosterEntry{
		Name:   name,
		HP:     100,
		Boosts: make(map[string]int),
	}
}

func (r *RosterEntry) Fainted() bool {
	return r.Status == StatusFainted || r.HP <= 0
}

// KnowsMove reports whether the move was already sighted.
func (r *RosterEntry) KnowsMove(name string) bool {
	for _, m := range r.Moves {
		if m == name {
			return true
		}
	}
	return false
}

// AddMove records a sighted move. The set is append-only within a battle.
func (r *RosterEntry) AddMove(name string) {
	if name == "" || r.KnowsMove(name) {
		return
	}
	r.Moves = append(r.Moves, name)
}

// ApplyBoost shifts a stat stage, clamped to the legal range.
func (r *RosterEntry) ApplyBoost(stat string, delta int) {
	if r.Boosts == nil {
		r.Boosts = make(map[string]int)
	}
	v := r.Boosts[stat] + delta
	if v > MaxBoostStage {
		v = MaxBoostStage
	}
	if v < MinBoostStage {
		v = MinBoostStage
	}
	r.Boosts[stat] = v
}

func (r *RosterEntry) clone() *RosterEntry {
	c := *r
	c.Moves = append([]string(nil), r.Moves...)
	c.Boosts = make(map[string]int, len(r.Boosts))
	for k, v := range r.Boosts {
		c.Boosts[k] = v
	}
	return &c
}

// Team is a discovery-ordered map from canonical name to entry. The tracker
// guarantees a canonical name lives in at most one team at a time. It
// serializes as {"side": ..., "members": [...]} in discovery order.
type Team struct {
	Side    Side
	order   []string
	members map[string]*RosterEntry
}

type teamJSON struct {
	Side    Side           `json:"side"`
	Members []*RosterEntry `json:"members"`
}

func (t *Team) MarshalJSON() ([]byte, error) {
	out := teamJSON{Side: t.Side, Members: make([]*RosterEntry, 0, len(t.order))}
	for _, name := range t.order {
		out.Members = append(out.Members, t.members[name])
	}
	return json.Marshal(out)
}

func (t *Team) UnmarshalJSON(data []byte) error {
	var in teamJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Side = in.Side
	t.order = t.order[:0]
	t.members = make(map[string]*RosterEntry, len(in.Members))
	for _, e := range in.Members {
		if e == nil || t.Has(e.Name) {
			continue
		}
		t.members[e.Name] = e
		t.order = append(t.order, e.Name)
	}
	return nil
}

func NewTeam(side Side) *Team {
	return &Team{Side: side, members: make(map[string]*RosterEntry)}
}

func (t *Team) Len() int { return len(t.order) }

func (t *Team) Get(name string) *RosterEntry { return t.members[name] }

func (t *Team) Has(name string) bool {
	_, ok := t.members[name]
	return ok
}

// Names returns the member names in discovery order.
func (t *Team) Names() []string {
	return append([]string(nil), t.order...)
}

// Add creates a member. It refuses duplicates and teams already at the size
// cap, returning the existing or nil entry and whether a new one was made.
func (t *Team) Add(name string) (*RosterEntry, bool) {
	if e, ok := t.members[name]; ok {
		return e, false
	}
	if len(t.order) >= MaxTeamSize {
		return nil, false
	}
	e := NewRosterEntry(name)
	t.members[name] = e
	t.order = append(t.order, name)
	return e, true
}

// Rename upgrades a stored key in place, keeping discovery order and the
// entry itself. Used for mid-battle form changes.
func (t *Team) Rename(old, new string) bool {
	e, ok := t.members[old]
	if !ok || old == new {
		return ok
	}
	if _, clash := t.members[new]; clash {
		return false
	}
	delete(t.members, old)
	e.Name = new
	t.members[new] = e
	for i, n := range t.order {
		if n == old {
			t.order[i] = new
			break
		}
	}
	return true
}

// Remove detaches an entry, preserving it for relocation to the other team.
func (t *Team) Remove(name string) *RosterEntry {
	e, ok := t.members[name]
	if !ok {
		return nil
	}
	delete(t.members, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return e
}

// Adopt inserts an already-built entry, used when relocating between teams.
func (t *Team) Adopt(e *RosterEntry) bool {
	if e == nil || t.Has(e.Name) || len(t.order) >= MaxTeamSize {
		return false
	}
	t.members[e.Name] = e
	t.order = append(t.order, e.Name)
	return true
}

func (t *Team) clone() *Team {
	c := NewTeam(t.Side)
	c.order = append([]string(nil), t.order...)
	for k, v := range t.members {
		c.members[k] = v.clone()
	}
	return c
}
