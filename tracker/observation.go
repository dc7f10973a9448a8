// Package tracker is the roster fusion engine. It owns the mutable battle
// state and folds an unordered, possibly-redelivered stream of observations
// into it under the identity and team invariants: a canonical name belongs
// to at most one team, teams never exceed six members, and every handler is
// idempotent.
package tracker

import "showdown-scout/game"

// Observation is the closed set of evidence kinds the engine consumes.
// Dispatch is by exhaustive type switch; there is no field probing.
type Observation interface {
	isObservation()
}

// VisualSighting is direct evidence from the battle surface: a creature was
// seen, possibly with attributes. Side may be unknown, in which case the
// sighting can update an already-placed entry but never create or relocate
// one. Stats carries tooltip stat readouts when the surface exposes them;
// the engine accepts them for interface completeness.
type VisualSighting struct {
	Side        game.Side
	RawName     string
	HP          *int
	StatusToken string
	Item        string
	Ability     string
	TeraType    string
	Stats       map[string]int
	Fainted     bool
}

// LogLine is one line of battle narration. Index is the line's position in
// the full battle log and orders delivery: lines are drained strictly in
// index order and redelivered lines below the high-water mark are skipped.
type LogLine struct {
	Index int
	Text  string
}

// MenuMove is one selectable move as shown in the player's own menu.
type MenuMove struct {
	Name     string
	Type     string
	Disabled bool
}

// MenuSnapshot is the player's own action menu. It is structurally owned by
// the local player, so it is always attributed to the self side.
type MenuSnapshot struct {
	Moves            []MenuMove
	SwitchCandidates []string
	ForcedSwitch     bool
}

// TurnMarker advances the turn counter. Turns are monotonic; a stale marker
// is a no-op.
type TurnMarker struct {
	Turn int
}

func (VisualSighting) isObservation() {}
func (LogLine) isObservation()        {}
func (MenuSnapshot) isObservation()   {}
func (TurnMarker) isObservation()     {}

// Authority ranks evidence channels when they disagree about identity or
// side. Narration has the least identity authority: it may update entries
// but never create or relocate them.
type Authority int

const (
	AuthorityLog Authority = iota
	AuthorityMenu
	AuthorityVisual
)
