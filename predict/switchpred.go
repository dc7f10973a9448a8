package predict

import (
	"showdown-scout/data"
	"showdown-scout/game"
)

type SwitchLikelihood string

const (
	SwitchHigh   SwitchLikelihood = "HIGH"
	SwitchMedium SwitchLikelihood = "MEDIUM"
	SwitchLow    SwitchLikelihood = "LOW"
)

// SwitchForecast is the probability-like score that the opponent switches
// out this turn, with its justification trail.
type SwitchForecast struct {
	Score      Score            `json:"score"`
	Likelihood SwitchLikelihood `json:"likelihood"`
}

const (
	lowHPThreshold = 33

	weightTypeDisadvantage = 40
	weightLowHPWithAnswer  = 25
	weightLowHPNoAnswer    = 15
	weightStallArchetype   = 10
	weightOffenseArchetype = -5
	weightResistedMatchup  = -20
	weightNoBenchAnswer    = -15
)

// PredictSwitch scores how likely the opponent is to switch its active out.
func PredictSwitch(dex *data.Dex, st *game.BattleState) SwitchForecast {
	card := newScorecard(0, "")

	ours := st.Active(game.SideSelf)
	theirs := st.Active(game.SideOpponent)
	if ours == nil || theirs == nil {
		card.add("insufficient-data", 0, "both actives must be known")
		return SwitchForecast{Score: card.done(), Likelihood: SwitchLow}
	}

	ourThreat := threatEffectiveness(dex, ours, theirs)
	oppBench := bench(st.Opponent, st.OpponentActive)
	benchAnswer := opponentHasBenchAnswer(dex, ours, oppBench)

	if ourThreat >= 2 {
		card.add("type-disadvantage", weightTypeDisadvantage, "active is super-effectively threatened")
	}
	if theirs.HP <= lowHPThreshold {
		if benchAnswer {
			card.add("low-hp-with-answer", weightLowHPWithAnswer, "low HP and a bench counter waits")
		} else {
			card.add("low-hp", weightLowHPNoAnswer, "low HP, no clear bench counter")
		}
	}
	switch Classify(dex, st.Opponent) {
	case ArchetypeStall:
		card.add("stall-archetype", weightStallArchetype, "stall teams cycle defensively")
	case ArchetypeHyperOffense:
		card.add("offense-archetype", weightOffenseArchetype, "offense teams rarely give turns away")
	}
	if ourThreat <= 0.5 {
		card.add("resisted-matchup", weightResistedMatchup, "active resists what we threaten")
	}
	if !benchAnswer {
		card.add("no-bench-answer", weightNoBenchAnswer, "nothing on the bench improves the matchup")
	}

	card.clamp(0, 100)
	score := card.done()
	return SwitchForecast{Score: score, Likelihood: likelihoodOf(score.Value)}
}

// opponentHasBenchAnswer reports whether any opposing bench member resists
// our active's best threat.
func opponentHasBenchAnswer(dex *data.Dex, ours *game.RosterEntry, oppBench []*game.RosterEntry) bool {
	for _, b := range oppBench {
		if threatEffectiveness(dex, ours, b) <= 0.5 {
			return true
		}
	}
	return false
}

func likelihoodOf(v float64) SwitchLikelihood {
	switch {
	case v >= 40:
		return SwitchHigh
	case v >= 20:
		return SwitchMedium
	}
	return SwitchLow
}
