package predict

import (
	"showdown-scout/damage"
	"showdown-scout/data"
	"showdown-scout/game"
)

// bestProjected is the strongest projected hit from attacker to defender:
// the best of the attacker's sighted moves, or a hypothetical 80-power STAB
// per species type when nothing damaging has been sighted yet.
func bestProjected(dex *data.Dex, attacker, defender *game.RosterEntry, field *game.FieldState) damage.Estimate {
	best := damage.Estimate{Effectiveness: 1}
	found := false
	for _, name := range attacker.Moves {
		move := dex.GetMove(name)
		est := damage.Compute(dex, attacker, defender, move, field)
		if est.Max > best.Max {
			best = est
			found = true
		}
	}
	if found {
		return best
	}
	species := dex.GetSpecies(attacker.Name)
	category := data.CategoryPhysical
	if species.BaseStats.SpA > species.BaseStats.Atk {
		category = data.CategorySpecial
	}
	for _, t := range species.Types {
		hypothetical := data.Move{Name: "(projected)", Type: t, Power: 80, Category: category, Accuracy: 100}
		est := damage.Compute(dex, attacker, defender, hypothetical, field)
		if est.Max > best.Max {
			best = est
		}
	}
	return best
}

// threatEffectiveness is the best chart multiplier the attacker can bring
// against the defender, over sighted move types or species types.
func threatEffectiveness(dex *data.Dex, attacker, defender *game.RosterEntry) float64 {
	best := 0.0
	seen := false
	for _, name := range attacker.Moves {
		move := dex.GetMove(name)
		if move.Category == data.CategoryStatus {
			continue
		}
		if eff := damage.Effectiveness(dex, move.Type, defender); eff > best {
			best = eff
		}
		seen = true
	}
	if !seen {
		for _, t := range dex.GetSpecies(attacker.Name).Types {
			if eff := damage.Effectiveness(dex, t, defender); eff > best {
				best = eff
			}
		}
	}
	if best == 0 && !seen {
		return 1
	}
	return best
}

// bench lists a team's unfainted members other than its active.
func bench(team *game.Team, activeName string) []*game.RosterEntry {
	var out []*game.RosterEntry
	for _, name := range team.Names() {
		if name == activeName {
			continue
		}
		if e := team.Get(name); e != nil && !e.Fainted() {
			out = append(out, e)
		}
	}
	return out
}

// effectiveSpeed is the side's field-adjusted speed stat.
func effectiveSpeed(dex *data.Dex, entry *game.RosterEntry, side game.Side, field *game.FieldState) float64 {
	species := dex.GetSpecies(entry.Name)
	v := float64(damage.Stat(species.BaseStats.Spe)) * damage.BoostMultiplier(entry.Boosts[game.StatSpe])
	if entry.Status == game.StatusParalysis {
		v *= 0.5
	}
	if field != nil && field.Tailwind(side) {
		v *= 2
	}
	return v
}
