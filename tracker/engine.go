package tracker

import (
	"go.uber.org/zap"

	"showdown-scout/game"
	"showdown-scout/names"
)

// Engine applies observations to one battle's state. It is single-threaded;
// callers serialize Apply themselves (the session layer holds a mutex).
type Engine struct {
	log   *zap.Logger
	state *game.BattleState

	// Side resolution, attempted once per battle and cached.
	selfPlayer     string
	opponentPlayer string
	playerSides    map[string]game.Side

	// Log ordering: next expected line index plus the out-of-order buffer.
	hwm     int
	backlog map[int]string
}

type Option func(*Engine)

// WithLogger attaches a logger; the engine stays quiet without one.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSelfName sets the local player's display name, used to attribute
// narration switch-ins when no structural signal resolves the side.
func WithSelfName(name string) Option {
	return func(e *Engine) { e.selfPlayer = name }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		log:         zap.NewNop(),
		state:       game.NewBattleState(),
		playerSides: make(map[string]game.Side),
		backlog:     make(map[int]string),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Reset discards everything for a fresh battle.
func (e *Engine) Reset() {
	e.state = game.NewBattleState()
	e.opponentPlayer = ""
	e.playerSides = make(map[string]game.Side)
	e.hwm = 0
	e.backlog = make(map[int]string)
}

// OpponentPlayer returns the opposing player's display name once
// narration has revealed it, "" before then.
func (e *Engine) OpponentPlayer() string { return e.opponentPlayer }

// Snapshot returns a deep copy of the battle state for the read path.
func (e *Engine) Snapshot() *game.BattleState {
	return e.state.Snapshot()
}

// Turn returns the current turn number.
func (e *Engine) Turn() int { return e.state.Turn }

// Apply folds one observation into the state. No observation is fatal;
// anything unresolvable degrades to a no-op.
func (e *Engine) Apply(obs Observation) {
	switch o := obs.(type) {
	case VisualSighting:
		e.applySighting(o)
	case LogLine:
		e.applyLogLine(o)
	case MenuSnapshot:
		e.applyMenu(o)
	case TurnMarker:
		e.applyTurn(o.Turn)
	}
}

// ensureMember implements the identity rules for side-attributed evidence.
// It returns the canonical roster key, or ok=false when the observation may
// not touch the roster at all.
//
// Order of business: reject unresolvable names; match inside the claimed
// team (upgrading the key on a more specific same-creature form); consider
// relocation from the other team, which only a side-confirmed visual may
// perform; otherwise create, which narration alone never does.
func (e *Engine) ensureMember(side game.Side, raw string, auth Authority, sideConfirmed bool) (string, bool) {
	canonical, ok := names.Normalize(raw)
	if !ok {
		return "", false
	}
	team := e.state.Team(side)
	if team == nil {
		return "", false
	}

	if key := resolveIn(team, canonical); key != "" {
		if names.MoreSpecific(key, canonical) {
			if team.Rename(key, canonical) {
				e.renameActive(side, key, canonical)
				key = canonical
			}
		}
		return key, true
	}

	other := e.state.Team(side.Other())
	if otherKey := resolveIn(other, canonical); otherKey != "" {
		if auth != AuthorityVisual || !sideConfirmed {
			// Narration never outranks the placement a visual made.
			return "", false
		}
		if team.Len() >= game.MaxTeamSize {
			return "", false
		}
		entry := other.Remove(otherKey)
		if !team.Adopt(entry) {
			other.Adopt(entry)
			return "", false
		}
		if e.state.ActiveName(side.Other()) == otherKey {
			e.clearActive(side.Other())
		}
		e.log.Debug("relocated roster entry",
			zap.String("name", otherKey), zap.String("to", string(side)))
		return otherKey, true
	}

	if auth == AuthorityLog {
		return "", false
	}
	if _, created := team.Add(canonical); !created {
		return "", false
	}
	team.Get(canonical).Revealed = true
	e.log.Debug("new roster entry",
		zap.String("name", canonical), zap.String("side", string(side)))
	return canonical, true
}

// resolveIn finds the stored key matching a canonical name, exactly or as
// the same creature in another form.
func resolveIn(team *game.Team, canonical string) string {
	if team == nil {
		return ""
	}
	if team.Has(canonical) {
		return canonical
	}
	for _, key := range team.Names() {
		if names.Same(key, canonical) {
			return key
		}
	}
	return ""
}

func (e *Engine) renameActive(side game.Side, old, new string) {
	if e.state.ActiveName(side) == old {
		e.state.SetActive(side, new)
	}
}

func (e *Engine) clearActive(side game.Side) {
	switch side {
	case game.SideSelf:
		e.state.SelfActive = ""
	case game.SideOpponent:
		e.state.OpponentActive = ""
	}
}

func (e *Engine) applySighting(v VisualSighting) {
	var entry *game.RosterEntry
	if v.Side == game.SideSelf || v.Side == game.SideOpponent {
		key, ok := e.ensureMember(v.Side, v.RawName, AuthorityVisual, true)
		if !ok {
			return
		}
		entry = e.state.Team(v.Side).Get(key)
	} else {
		// Ambiguous side: update-only against whichever team already
		// holds the creature. Never create, never relocate.
		entry = e.findAnywhere(v.RawName)
	}
	if entry == nil {
		return
	}

	if v.HP != nil {
		// The HP bar is ground truth; a rise on this channel is an
		// observed recovery.
		entry.HP = clampPct(*v.HP)
	}
	if v.Fainted {
		entry.Status = game.StatusFainted
		entry.HP = 0
	} else if s, ok := statusFromToken(v.StatusToken); ok {
		entry.Status = s
	}
	if v.Item != "" {
		entry.Item = v.Item
	}
	if v.Ability != "" {
		entry.Ability = v.Ability
	}
	if v.TeraType != "" {
		entry.TeraType = v.TeraType
	}
	entry.Revealed = true
}

// findAnywhere resolves an entry across both teams without mutating either.
func (e *Engine) findAnywhere(raw string) *game.RosterEntry {
	canonical, ok := names.Normalize(raw)
	if !ok {
		return nil
	}
	if key := resolveIn(e.state.Self, canonical); key != "" {
		return e.state.Self.Get(key)
	}
	if key := resolveIn(e.state.Opponent, canonical); key != "" {
		return e.state.Opponent.Get(key)
	}
	return nil
}

// resolveEntry is the update-only path for a side-attributed subject: the
// entry must already be resolvable inside that team.
func (e *Engine) resolveEntry(side game.Side, raw string) *game.RosterEntry {
	canonical, ok := names.Normalize(raw)
	if !ok {
		return nil
	}
	team := e.state.Team(side)
	if team == nil {
		return nil
	}
	if key := resolveIn(team, canonical); key != "" {
		return team.Get(key)
	}
	return nil
}

func (e *Engine) applyMenu(m MenuSnapshot) {
	// Menus are structurally the local player's, so side is settled.
	e.state.ForcedSwitch = m.ForcedSwitch

	moves := make([]game.LegalMove, 0, len(m.Moves))
	for _, mm := range m.Moves {
		moves = append(moves, game.LegalMove{Name: mm.Name, Type: mm.Type, Disabled: mm.Disabled})
	}
	e.state.LegalMoves = moves

	switchable := make([]string, 0, len(m.SwitchCandidates))
	for _, raw := range m.SwitchCandidates {
		if key, ok := e.ensureMember(game.SideSelf, raw, AuthorityMenu, true); ok {
			switchable = append(switchable, key)
		}
	}
	e.state.Switchable = switchable

	// The menu lists the active member's own moveset in full.
	if active := e.state.Active(game.SideSelf); active != nil {
		for _, mm := range m.Moves {
			active.AddMove(mm.Name)
		}
	}
}

func (e *Engine) applyTurn(turn int) {
	if turn > e.state.Turn {
		e.state.Turn = turn
		e.state.ForcedSwitch = false
	}
}

// applyLogLine enforces narration order. Lines are processed only at the
// high-water mark; later lines wait in the backlog, earlier ones are
// redeliveries and are dropped.
func (e *Engine) applyLogLine(l LogLine) {
	if l.Index < e.hwm {
		return
	}
	if l.Index > e.hwm {
		e.backlog[l.Index] = l.Text
		return
	}
	e.processLine(l.Text)
	e.hwm++
	for {
		text, ok := e.backlog[e.hwm]
		if !ok {
			return
		}
		delete(e.backlog, e.hwm)
		e.processLine(text)
		e.hwm++
	}
}

// processLine runs the whole template catalogue; templates are independent,
// so one line may satisfy several. A multi-match is legal but worth
// surfacing, since the grammar intends each line to mean one thing.
func (e *Engine) processLine(text string) {
	var matched []string
	for _, t := range narrationTemplates {
		m := t.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		t.apply(e, m)
		matched = append(matched, t.name)
	}
	if len(matched) > 1 {
		e.log.Debug("narration matched several templates",
			zap.String("line", text), zap.Strings("templates", matched))
	}
}

// sideFromPrefix maps the "The opposing " narration prefix to a side.
func sideFromPrefix(prefix string) game.Side {
	if prefix != "" {
		return game.SideOpponent
	}
	return game.SideSelf
}

// playerSide attributes a narration player name, resolving once and
// caching. Order: a captured local display name, then the positional
// convention that "sent out" phrasing belongs to the opponent while the
// local player's switch-ins read "Go!".
func (e *Engine) playerSide(player string) game.Side {
	if side, ok := e.playerSides[player]; ok {
		return side
	}
	side := game.SideOpponent
	if e.selfPlayer != "" && player == e.selfPlayer {
		side = game.SideSelf
	}
	if side == game.SideOpponent && e.opponentPlayer == "" {
		e.opponentPlayer = player
	}
	e.playerSides[player] = side
	return side
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func statusFromToken(token string) (game.Status, bool) {
	switch token {
	case "brn", "burned":
		return game.StatusBurn, true
	case "psn", "poisoned":
		return game.StatusPoison, true
	case "tox", "badly poisoned":
		return game.StatusToxic, true
	case "par", "paralyzed":
		return game.StatusParalysis, true
	case "slp", "asleep":
		return game.StatusSleep, true
	case "frz", "frozen":
		return game.StatusFreeze, true
	case "fnt", "fainted":
		return game.StatusFainted, true
	}
	return game.StatusNone, false
}
