// Package damage estimates damage as a percentage range of the defender's
// maximum HP. It is a pure function over the knowledge base, two roster
// entries and the field; the formula is the simplified one-shot flavor at
// level 100 with neutral EV assumptions, not a full simulator.
package damage

import (
	"math"
	"strings"

	"showdown-scout/data"
	"showdown-scout/game"
)

// Estimate is a damage projection: min models the 85% roll, max the 100%
// roll, and Effectiveness the chart multiplier for branching.
type Estimate struct {
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	Effectiveness float64 `json:"effectiveness"`
}

const (
	level = 100
	iv    = 31
)

// MaxHP derives hit points from an HP base stat at the fixed level/IV/EV
// assumptions.
func MaxHP(base int) int {
	return (2*base+iv)*level/100 + level + 10
}

// Stat derives a non-HP stat from its base at the same assumptions.
func Stat(base int) int {
	return (2*base+iv)*level/100 + 5
}

// BoostMultiplier is the stage multiplier: (2+s)/2 above zero, 2/(2-s)
// below, stages clamped to the legal band.
func BoostMultiplier(stage int) float64 {
	if stage > game.MaxBoostStage {
		stage = game.MaxBoostStage
	}
	if stage < game.MinBoostStage {
		stage = game.MinBoostStage
	}
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// Compute projects one attacker/defender/move/field combination. Status and
// zero-power moves yield {0,0,1} unless the move sits in the override table.
func Compute(dex *data.Dex, attacker, defender *game.RosterEntry, move data.Move, field *game.FieldState) Estimate {
	if attacker == nil || defender == nil {
		return Estimate{Effectiveness: 1}
	}
	atkSpecies := dex.GetSpecies(attacker.Name)
	defSpecies := dex.GetSpecies(defender.Name)
	ov, hasOverride := moveOverrides[moveKey(move.Name)]

	defHP := MaxHP(defSpecies.BaseStats.HP)

	if hasOverride && ov.fixedLevel {
		// Flat level-based damage converts to a percentage immediately,
		// with no roll band.
		pct := int(float64(level) / float64(defHP) * 100)
		return Estimate{Min: pct, Max: pct, Effectiveness: 1}
	}

	power := effectivePower(move, ov, hasOverride, attacker, defender)
	if power <= 0 || (move.Category == data.CategoryStatus && !hasOverride) {
		return Estimate{Effectiveness: 1}
	}

	eff := effectiveness(move.Type, defender, defSpecies)
	if dAbility(defender) == "levitate" && move.Type == "Ground" {
		eff = 0
	}
	if eff == 0 {
		return Estimate{Effectiveness: 0}
	}

	atkStat := offenseStat(attacker, atkSpecies, defender, defSpecies, move, ov, hasOverride)
	defStat := defenseStat(defender, defSpecies, move, ov, hasOverride)
	if defStat <= 0 {
		return Estimate{Effectiveness: eff}
	}

	base := (2*level/5 + 2) * power * atkStat / defStat
	raw := float64(base/50 + 2)

	mod := stabMultiplier(attacker, atkSpecies, move) * eff *
		weatherMultiplier(field, move.Type) *
		terrainMultiplier(field, move.Type) *
		attackerAbilityMultiplier(attacker, power, eff) *
		defenderMultiplier(defender, move, eff)

	dmg := raw * mod
	return Estimate{
		Min:           int(math.Floor(dmg * 0.85 / float64(defHP) * 100)),
		Max:           int(math.Floor(dmg / float64(defHP) * 100)),
		Effectiveness: eff,
	}
}

// Effectiveness resolves the chart multiplier against a live defender,
// honoring terastallization and a levitating defender's ground immunity.
func Effectiveness(dex *data.Dex, moveType string, defender *game.RosterEntry) float64 {
	if defender == nil {
		return 1
	}
	if dAbility(defender) == "levitate" && moveType == "Ground" {
		return 0
	}
	return effectiveness(moveType, defender, dex.GetSpecies(defender.Name))
}

// effectiveness composes chart lookups over the defender's types; a
// terastallized defender is looked up by its tera type alone.
func effectiveness(moveType string, defender *game.RosterEntry, species data.Species) float64 {
	if defender.Terastallized && defender.TeraType != "" {
		return data.TypeMultiplier(moveType, defender.TeraType)
	}
	return data.Effectiveness(moveType, species.Types)
}

// moveOverride documents the moves whose power or stat selection departs
// from their listed category.
type moveOverride struct {
	fixedLevel      bool                                        // damage equals the user's level, as a flat percentage
	offenseOwnDef   bool                                        // attacker attacks with its own Defense
	offenseTheirAtk bool                                        // attacker borrows the defender's Attack
	targetsDef      bool                                        // hits the defender's physical Defense regardless of category
	hits            int                                         // fixed multi-hit count
	power           func(atk, def *game.RosterEntry, p int) int // conditional base power
}

var moveOverrides = map[string]moveOverride{
	"seismic toss":  {fixedLevel: true},
	"night shade":   {fixedLevel: true},
	"body press":    {offenseOwnDef: true},
	"foul play":     {offenseTheirAtk: true},
	"psyshock":      {targetsDef: true},
	"psystrike":     {targetsDef: true},
	"double kick":   {hits: 2},
	"bonemerang":    {hits: 2},
	"dual wingbeat": {hits: 2},
	"acrobatics": {power: func(atk, _ *game.RosterEntry, p int) int {
		if atk.Item == "" {
			return p * 2
		}
		return p
	}},
	"facade": {power: func(atk, _ *game.RosterEntry, p int) int {
		switch atk.Status {
		case game.StatusBurn, game.StatusPoison, game.StatusToxic, game.StatusParalysis:
			return p * 2
		}
		return p
	}},
	"hex": {power: func(_, def *game.RosterEntry, p int) int {
		if def.Status != game.StatusNone && def.Status != game.StatusFainted {
			return p * 2
		}
		return p
	}},
	// Weight-based power cannot be derived from the knowledge base; assume
	// the common competitive bracket.
	"low kick":   {power: func(_, _ *game.RosterEntry, _ int) int { return 80 }},
	"grass knot": {power: func(_, _ *game.RosterEntry, _ int) int { return 80 }},
}

func effectivePower(move data.Move, ov moveOverride, hasOverride bool, attacker, defender *game.RosterEntry) int {
	p := move.Power
	if !hasOverride {
		return p
	}
	if ov.power != nil {
		p = ov.power(attacker, defender, p)
	}
	if ov.hits > 1 {
		p *= ov.hits
	}
	return p
}

func offenseStat(attacker *game.RosterEntry, atkSpecies data.Species, defender *game.RosterEntry, defSpecies data.Species, move data.Move, ov moveOverride, hasOverride bool) int {
	var base int
	var stage int
	switch {
	case hasOverride && ov.offenseOwnDef:
		base = atkSpecies.BaseStats.Def
		stage = attacker.Boosts[game.StatDef]
	case hasOverride && ov.offenseTheirAtk:
		base = defSpecies.BaseStats.Atk
		stage = defender.Boosts[game.StatAtk]
	case move.Category == data.CategorySpecial:
		base = atkSpecies.BaseStats.SpA
		stage = attacker.Boosts[game.StatSpA]
	default:
		base = atkSpecies.BaseStats.Atk
		stage = attacker.Boosts[game.StatAtk]
	}
	v := float64(Stat(base)) * BoostMultiplier(stage)
	switch aAbility(attacker) {
	case "huge power", "pure power":
		if move.Category == data.CategoryPhysical {
			v *= 2
		}
	}
	return int(v)
}

func defenseStat(defender *game.RosterEntry, defSpecies data.Species, move data.Move, ov moveOverride, hasOverride bool) int {
	base := defSpecies.BaseStats.Def
	stage := defender.Boosts[game.StatDef]
	if move.Category == data.CategorySpecial && !(hasOverride && ov.targetsDef) {
		base = defSpecies.BaseStats.SpD
		stage = defender.Boosts[game.StatSpD]
	}
	return int(float64(Stat(base)) * BoostMultiplier(stage))
}

func stabMultiplier(attacker *game.RosterEntry, species data.Species, move data.Move) float64 {
	adaptability := aAbility(attacker) == "adaptability"
	original := containsType(species.Types, move.Type)

	if attacker.Terastallized && attacker.TeraType != "" {
		if move.Type == attacker.TeraType {
			if containsType(species.Types, attacker.TeraType) {
				return 2.0
			}
			return 1.5
		}
		if original {
			return 1.5
		}
		return 1.0
	}

	if !original {
		return 1.0
	}
	if adaptability {
		return 2.0
	}
	return 1.5
}

func weatherMultiplier(field *game.FieldState, moveType string) float64 {
	if field == nil {
		return 1
	}
	switch field.Weather {
	case game.WeatherSun:
		if moveType == "Fire" {
			return 1.5
		}
		if moveType == "Water" {
			return 0.5
		}
	case game.WeatherRain:
		if moveType == "Water" {
			return 1.5
		}
		if moveType == "Fire" {
			return 0.5
		}
	}
	return 1
}

func terrainMultiplier(field *game.FieldState, moveType string) float64 {
	if field == nil {
		return 1
	}
	switch {
	case field.Terrain == game.TerrainElectric && moveType == "Electric":
		return 1.3
	case field.Terrain == game.TerrainGrassy && moveType == "Grass":
		return 1.3
	case field.Terrain == game.TerrainPsychic && moveType == "Psychic":
		return 1.3
	case field.Terrain == game.TerrainMisty && moveType == "Dragon":
		return 0.5
	}
	return 1
}

func attackerAbilityMultiplier(attacker *game.RosterEntry, power int, eff float64) float64 {
	switch aAbility(attacker) {
	case "technician":
		if power <= 60 {
			return 1.5
		}
	case "tinted lens":
		if eff < 1 {
			return 2
		}
	}
	return 1
}

func defenderMultiplier(defender *game.RosterEntry, move data.Move, eff float64) float64 {
	m := 1.0
	switch dAbility(defender) {
	case "thick fat":
		if move.Type == "Fire" || move.Type == "Ice" {
			m *= 0.5
		}
	case "multiscale", "shadow shield":
		// Halves damage only while the holder is undamaged.
		if defender.HP >= 100 {
			m *= 0.5
		}
	case "filter", "solid rock":
		if eff > 1 {
			m *= 0.75
		}
	}
	if moveKey(defender.Item) == "assault vest" && move.Category == data.CategorySpecial {
		m *= 0.5
	}
	return m
}

func aAbility(e *game.RosterEntry) string { return moveKey(e.Ability) }
func dAbility(e *game.RosterEntry) string { return moveKey(e.Ability) }

func moveKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
