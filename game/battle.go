package game

// LegalMove is one selectable move from the current menu.
type LegalMove struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// BattleState is the aggregate root for one battle. The tracker owns the
// only mutable instance; consumers get deep copies via Snapshot.
type BattleState struct {
	Self           *Team       `json:"self"`
	Opponent       *Team       `json:"opponent"`
	SelfActive     string      `json:"selfActive"`
	OpponentActive string      `json:"opponentActive"`
	Field          FieldState  `json:"field"`
	Turn           int         `json:"turn"`
	ForcedSwitch   bool        `json:"forcedSwitch"`
	LegalMoves     []LegalMove `json:"legalMoves,omitempty"`
	Switchable     []string    `json:"switchable,omitempty"`
}

func NewBattleState() *BattleState {
	return &BattleState{
		Self:     NewTeam(SideSelf),
		Opponent: NewTeam(SideOpponent),
	}
}

// Team returns the roster for a side, nil for SideUnknown.
func (b *BattleState) Team(side Side) *Team {
	switch side {
	case SideSelf:
		return b.Self
	case SideOpponent:
		return b.Opponent
	}
	return nil
}

// Active returns the active entry for a side, nil when none is known.
func (b *BattleState) Active(side Side) *RosterEntry {
	switch side {
	case SideSelf:
		if b.SelfActive == "" {
			return nil
		}
		return b.Self.Get(b.SelfActive)
	case SideOpponent:
		if b.OpponentActive == "" {
			return nil
		}
		return b.Opponent.Get(b.OpponentActive)
	}
	return nil
}

// SetActive points a side at a member already in its team. Unknown names
// are refused so the active slot can never dangle.
func (b *BattleState) SetActive(side Side, name string) bool {
	team := b.Team(side)
	if team == nil || !team.Has(name) {
		return false
	}
	switch side {
	case SideSelf:
		b.SelfActive = name
	case SideOpponent:
		b.OpponentActive = name
	}
	return true
}

// ActiveName returns the active member name for a side, "" when none.
func (b *BattleState) ActiveName(side Side) string {
	switch side {
	case SideSelf:
		return b.SelfActive
	case SideOpponent:
		return b.OpponentActive
	}
	return ""
}

// Snapshot returns a deep copy safe to read while the tracker keeps
// mutating the original.
func (b *BattleState) Snapshot() *BattleState {
	c := &BattleState{
		Self:           b.Self.clone(),
		Opponent:       b.Opponent.clone(),
		SelfActive:     b.SelfActive,
		OpponentActive: b.OpponentActive,
		Field:          b.Field,
		Turn:           b.Turn,
		ForcedSwitch:   b.ForcedSwitch,
		LegalMoves:     append([]LegalMove(nil), b.LegalMoves...),
		Switchable:     append([]string(nil), b.Switchable...),
	}
	return c
}
