package predict

import (
	"sort"

	"showdown-scout/damage"
	"showdown-scout/data"
	"showdown-scout/game"
)

type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionSwitch ActionKind = "switch"
)

// Recommendation is one scored legal action.
type Recommendation struct {
	Kind   ActionKind      `json:"kind"`
	Name   string          `json:"name"`
	Score  Score           `json:"score"`
	Damage damage.Estimate `json:"damage"`
}

// Plan is the full ranked action space plus the single pick.
type Plan struct {
	Moves    []Recommendation `json:"moves"`
	Switches []Recommendation `json:"switches"`
	Best     *Recommendation  `json:"best,omitempty"`
}

// switchMargin is how much better a switch must score before it is
// preferred over the best move; switching spends a turn.
const switchMargin = 15.0

const safeThreatMax = 25

// Recommend scores every legal move and every eligible bench member.
func Recommend(dex *data.Dex, st *game.BattleState, forecast SwitchForecast) Plan {
	plan := Plan{}
	ours := st.Active(game.SideSelf)
	theirs := st.Active(game.SideOpponent)

	if ours != nil && !st.ForcedSwitch {
		plan.Moves = scoreMoves(dex, st, ours, theirs, forecast)
	}
	plan.Switches = scoreSwitches(dex, st, theirs)

	plan.Best = pickBest(st.ForcedSwitch, plan.Moves, plan.Switches)
	return plan
}

func scoreMoves(dex *data.Dex, st *game.BattleState, ours, theirs *game.RosterEntry, forecast SwitchForecast) []Recommendation {
	var incomingMax int
	if theirs != nil {
		incomingMax = bestProjected(dex, theirs, ours, &st.Field).Max
	}
	likelySwitch := likelySwitchIn(dex, st, ours)
	outsped := theirs != nil &&
		effectiveSpeed(dex, ours, game.SideSelf, &st.Field) < effectiveSpeed(dex, theirs, game.SideOpponent, &st.Field)

	out := make([]Recommendation, 0, len(st.LegalMoves))
	for _, lm := range st.LegalMoves {
		if lm.Disabled {
			continue
		}
		move := dex.GetMove(lm.Name)
		var est damage.Estimate
		if theirs != nil {
			est = damage.Compute(dex, ours, theirs, move, &st.Field)
		}

		card := newScorecard(float64(est.Max), "projected max% damage")
		if theirs != nil && est.Max > 0 {
			if est.Min >= theirs.HP {
				card.add("guaranteed-ko", 30, "minimum roll already knocks out")
			} else if est.Max >= theirs.HP {
				card.add("possible-ko", 15, "maximum roll knocks out")
			}
		}
		if move.Flags.Pivot && forecast.Likelihood == SwitchHigh {
			card.add("pivot-on-predicted-switch", 20, "keep momentum against the switch")
		}
		if likelySwitch != nil && damage.Effectiveness(dex, move.Type, likelySwitch) >= 2 {
			card.add("coverage-vs-switch-in", 10, "hits the likely switch-in hard")
		}
		if outsped && move.Priority > 0 && est.Max > 0 {
			card.add("priority-while-outsped", 15, "moves first despite the speed gap")
		}
		if move.Flags.Setup && incomingMax < safeThreatMax {
			card.add("safe-setup", 15, "incoming threat is low")
		}
		if move.Flags.Recovery && ours.HP < 50 && incomingMax < safeThreatMax {
			card.add("safe-recovery", 20, "low HP and little incoming pressure")
		}
		if move.Flags.Hazard && st.Turn <= 3 && !st.Field.OpponentHazards.Any() {
			card.add("early-hazards", 15, "")
		}
		card.clamp(0, 1000)

		out = append(out, Recommendation{Kind: ActionMove, Name: move.Name, Score: card.done(), Damage: est})
	}
	sortRecommendations(out)
	return out
}

// scoreSwitches weighs each eligible bench member as a switch-in. A forced
// switch is a free entry, so speed dominates; a voluntary switch eats a
// turn of exposure, so the incoming hit dominates.
func scoreSwitches(dex *data.Dex, st *game.BattleState, theirs *game.RosterEntry) []Recommendation {
	forced := st.ForcedSwitch
	var theirSpeed float64
	if theirs != nil {
		theirSpeed = effectiveSpeed(dex, theirs, game.SideOpponent, &st.Field)
	}

	var out []Recommendation
	for _, name := range switchCandidates(st) {
		entry := st.Self.Get(name)
		if entry == nil || entry.Fainted() || name == st.SelfActive {
			continue
		}

		var outgoing, incoming damage.Estimate
		if theirs != nil {
			outgoing = bestProjected(dex, entry, theirs, &st.Field)
			incoming = bestProjected(dex, theirs, entry, &st.Field)
		}
		faster := theirs == nil || effectiveSpeed(dex, entry, game.SideSelf, &st.Field) > theirSpeed

		card := newScorecard(float64(outgoing.Max)*0.5, "half of projected max% against their active")
		if forced {
			if faster {
				card.add("outspeeds", 25, "free entry, speed decides the next exchange")
			}
			card.add("incoming-risk", -0.3*float64(incoming.Max), "hit taken after entering")
			if !faster && theirs != nil && incoming.Max >= entry.HP {
				card.add("knocked-out-first", -40, "slower and the hit is lethal")
			}
		} else {
			card.add("switch-in-cost", -0.8*float64(incoming.Max), "eats a hit on the way in")
			if faster {
				card.add("outspeeds", 10, "")
			}
			if incoming.Effectiveness <= 0.5 && theirs != nil {
				card.add("resists-their-threat", 15, "")
			}
		}
		card.clamp(-100, 1000)
		out = append(out, Recommendation{Kind: ActionSwitch, Name: name, Score: card.done(), Damage: outgoing})
	}
	sortRecommendations(out)
	return out
}

// switchCandidates prefers the menu's view of legality, falling back to the
// whole bench when no menu has arrived yet.
func switchCandidates(st *game.BattleState) []string {
	if len(st.Switchable) > 0 {
		return st.Switchable
	}
	return st.Self.Names()
}

// likelySwitchIn guesses which bench member the opponent would bring in:
// the one our active threatens least.
func likelySwitchIn(dex *data.Dex, st *game.BattleState, ours *game.RosterEntry) *game.RosterEntry {
	var best *game.RosterEntry
	bestEff := 100.0
	for _, b := range bench(st.Opponent, st.OpponentActive) {
		if eff := threatEffectiveness(dex, ours, b); eff < bestEff {
			best, bestEff = b, eff
		}
	}
	return best
}

func pickBest(forced bool, moves, switches []Recommendation) *Recommendation {
	var bestMove, bestSwitch *Recommendation
	if len(moves) > 0 {
		bestMove = &moves[0]
	}
	if len(switches) > 0 {
		bestSwitch = &switches[0]
	}
	if forced || bestMove == nil {
		return bestSwitch
	}
	if bestSwitch != nil && bestSwitch.Score.Value > bestMove.Score.Value+switchMargin {
		return bestSwitch
	}
	return bestMove
}

func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score.Value > recs[j].Score.Value
	})
}
