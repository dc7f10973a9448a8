package predict

import (
	"showdown-scout/data"
	"showdown-scout/game"
)

// Report is one per-turn analysis, composed from the heuristic layer over a
// single immutable snapshot.
type Report struct {
	Turn              int              `json:"turn"`
	ForcedSwitch      bool             `json:"forcedSwitch"`
	Field             game.FieldState  `json:"field"`
	SwitchForecast    SwitchForecast   `json:"switchForecast"`
	OpponentMoves     []MoveForecast   `json:"opponentMoves"`
	SelfArchetype     Archetype        `json:"selfArchetype"`
	OpponentArchetype Archetype        `json:"opponentArchetype"`
	SpeedVerdict      string           `json:"speedVerdict"`
	Moves             []Recommendation `json:"moves"`
	Switches          []Recommendation `json:"switches"`
	Best              *Recommendation  `json:"best,omitempty"`
	Notes             []string         `json:"notes,omitempty"`
}

// Analyze composes one report. It never mutates the snapshot and never
// fails; thin states yield a report with "insufficient data" notes.
func Analyze(dex *data.Dex, st *game.BattleState) Report {
	report := Report{
		Turn:              st.Turn,
		ForcedSwitch:      st.ForcedSwitch,
		Field:             st.Field,
		SelfArchetype:     Classify(dex, st.Self),
		OpponentArchetype: Classify(dex, st.Opponent),
		SpeedVerdict:      speedVerdict(dex, st),
	}

	if st.Active(game.SideOpponent) == nil {
		report.Notes = append(report.Notes, "opponent active unknown; damage projections unavailable")
	}
	if st.Active(game.SideSelf) == nil {
		report.Notes = append(report.Notes, "own active unknown; move recommendations unavailable")
	}

	report.SwitchForecast = PredictSwitch(dex, st)
	report.OpponentMoves = PredictOpponentMoves(dex, st)

	plan := Recommend(dex, st, report.SwitchForecast)
	report.Moves = plan.Moves
	report.Switches = plan.Switches
	report.Best = plan.Best
	return report
}

// speedVerdict compares the two actives' field-adjusted speeds. Trick Room
// inverts the verdict while it lasts.
func speedVerdict(dex *data.Dex, st *game.BattleState) string {
	ours := st.Active(game.SideSelf)
	theirs := st.Active(game.SideOpponent)
	if ours == nil || theirs == nil {
		return "unknown"
	}
	us := effectiveSpeed(dex, ours, game.SideSelf, &st.Field)
	them := effectiveSpeed(dex, theirs, game.SideOpponent, &st.Field)
	if us == them {
		return "tied"
	}
	faster := us > them
	if st.Field.TrickRoom {
		faster = !faster
	}
	if faster {
		return "faster"
	}
	return "slower"
}
