package predict

import (
	"sort"
	"strings"

	"showdown-scout/damage"
	"showdown-scout/data"
	"showdown-scout/game"
)

// MoveForecast is one candidate opponent move with its normalized
// probability and justification trail.
type MoveForecast struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Score       Score   `json:"score"`
}

const maxMoveCandidates = 4

// PredictOpponentMoves ranks what the opponent's active is likely to click.
// Candidates are the sighted moves padded from the species' documented
// common sets up to four; scores normalize to a 100-point distribution.
func PredictOpponentMoves(dex *data.Dex, st *game.BattleState) []MoveForecast {
	theirs := st.Active(game.SideOpponent)
	ours := st.Active(game.SideSelf)
	if theirs == nil {
		return nil
	}

	candidates := candidateMoves(dex, theirs)
	if len(candidates) == 0 {
		return nil
	}

	var safeToSetUp bool
	if ours != nil {
		safeToSetUp = bestProjected(dex, ours, theirs, &st.Field).Max < 30
	}

	forecasts := make([]MoveForecast, 0, len(candidates))
	total := 0.0
	for _, name := range candidates {
		move := dex.GetMove(name)
		card := newScorecard(10, "candidate floor")

		if ours != nil && move.Category != data.CategoryStatus {
			est := damage.Compute(dex, theirs, ours, move, &st.Field)
			card.add("projected-damage", float64(est.Max)*0.5, "half of projected max%")
			switch {
			case est.Effectiveness >= 2:
				card.add("super-effective", 15, "")
			case est.Effectiveness == 0:
				card.add("immune", -25, "")
			case est.Effectiveness <= 0.5:
				card.add("resisted", -10, "")
			}
		}
		if containsType(dex.GetSpecies(theirs.Name).Types, move.Type) {
			card.add("stab", 10, "")
		}
		if move.Flags.Recovery && theirs.HP < 40 {
			card.add("recovery-at-low-hp", 20, "")
		}
		if move.Flags.Setup && safeToSetUp {
			card.add("safe-to-set-up", 15, "")
		}
		if move.Flags.Status && ours != nil && ours.Status != game.StatusNone {
			card.add("target-already-statused", -15, "")
		}

		card.clamp(1, 1000)
		score := card.done()
		total += score.Value
		forecasts = append(forecasts, MoveForecast{Name: move.Name, Score: score})
	}

	for i := range forecasts {
		forecasts[i].Probability = forecasts[i].Score.Value / total * 100
	}
	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].Probability > forecasts[j].Probability
	})
	return forecasts
}

// candidateMoves merges sighted moves with the species' common set, capped
// at four like a real moveset.
func candidateMoves(dex *data.Dex, entry *game.RosterEntry) []string {
	out := append([]string(nil), entry.Moves...)
	for _, m := range dex.GetSpecies(entry.Name).CommonMoves {
		if len(out) >= maxMoveCandidates {
			break
		}
		if !containsMove(out, m) {
			out = append(out, m)
		}
	}
	if len(out) > maxMoveCandidates {
		out = out[:maxMoveCandidates]
	}
	return out
}

func containsMove(moves []string, name string) bool {
	for _, m := range moves {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
