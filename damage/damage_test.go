package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showdown-scout/data"
	"showdown-scout/game"
)

var testDex = data.NewDex(
	[]data.Species{
		{Name: "Groundhog", Types: []string{"Ground"}, BaseStats: data.Stats{HP: 108, Atk: 145, Def: 95, SpA: 80, SpD: 85, Spe: 102}},
		{Name: "Furnace", Types: []string{"Fire", "Steel"}, BaseStats: data.Stats{HP: 91, Atk: 90, Def: 106, SpA: 130, SpD: 106, Spe: 77}},
		{Name: "Dummy", Types: []string{"Normal"}, BaseStats: data.Stats{HP: 100, Atk: 100, Def: 100, SpA: 100, SpD: 100, Spe: 100}},
		{Name: "Specter", Types: []string{"Ghost"}, BaseStats: data.Stats{HP: 60, Atk: 60, Def: 60, SpA: 110, SpD: 75, Spe: 110}},
		{Name: "Bulwark", Types: []string{"Steel"}, BaseStats: data.Stats{HP: 70, Atk: 50, Def: 160, SpA: 50, SpD: 110, Spe: 30}},
		{Name: "Bruiser", Types: []string{"Normal"}, BaseStats: data.Stats{HP: 100, Atk: 150, Def: 90, SpA: 60, SpD: 90, Spe: 85}},
	},
	[]data.Move{
		{Name: "Earthquake", Type: "Ground", Power: 100, Category: data.CategoryPhysical},
		{Name: "Stone Edge", Type: "Rock", Power: 100, Category: data.CategoryPhysical},
		{Name: "Tackle", Type: "Normal", Power: 40, Category: data.CategoryPhysical},
		{Name: "Flamethrower", Type: "Fire", Power: 90, Category: data.CategorySpecial},
		{Name: "Thunderbolt", Type: "Electric", Power: 90, Category: data.CategorySpecial},
		{Name: "Swords Dance", Type: "Normal", Power: 0, Category: data.CategoryStatus},
		{Name: "Seismic Toss", Type: "Fighting", Power: 0, Category: data.CategoryPhysical},
		{Name: "Foul Play", Type: "Dark", Power: 95, Category: data.CategoryPhysical},
		{Name: "Body Press", Type: "Fighting", Power: 80, Category: data.CategoryPhysical},
		{Name: "Double Kick", Type: "Fighting", Power: 30, Category: data.CategoryPhysical},
		{Name: "Triple Axel", Type: "Fighting", Power: 60, Category: data.CategoryPhysical},
		{Name: "Acrobatics", Type: "Flying", Power: 55, Category: data.CategoryPhysical},
		{Name: "Facade", Type: "Normal", Power: 70, Category: data.CategoryPhysical},
		{Name: "Hex", Type: "Ghost", Power: 65, Category: data.CategorySpecial},
		{Name: "Low Kick", Type: "Fighting", Power: 0, Category: data.CategoryPhysical},
	},
)

func entry(name string) *game.RosterEntry { return game.NewRosterEntry(name) }

func compute(attacker, defender *game.RosterEntry, moveName string, field *game.FieldState) Estimate {
	return Compute(testDex, attacker, defender, testDex.GetMove(moveName), field)
}

func TestDerivedStats(t *testing.T) {
	// (2*100+31)*100/100 + 110 and (2*100+31)*100/100 + 5 at the fixed
	// level/IV assumptions.
	assert.Equal(t, 341, MaxHP(100))
	assert.Equal(t, 236, Stat(100))
}

func TestBoostMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, BoostMultiplier(0))
	assert.Equal(t, 2.0, BoostMultiplier(2))
	assert.Equal(t, 0.5, BoostMultiplier(-2))
	// Out-of-band stages clamp.
	assert.Equal(t, 4.0, BoostMultiplier(9))
}

func TestStatusMoveDealsNothing(t *testing.T) {
	est := compute(entry("Groundhog"), entry("Dummy"), "Swords Dance", nil)
	assert.Zero(t, est.Min)
	assert.Zero(t, est.Max)
	assert.Equal(t, 1.0, est.Effectiveness)
}

func TestImmunityShortCircuits(t *testing.T) {
	est := compute(entry("Dummy"), entry("Specter"), "Tackle", nil)
	assert.Zero(t, est.Max)
	assert.Equal(t, 0.0, est.Effectiveness)
}

func TestLevitateGrantsGroundImmunity(t *testing.T) {
	def := entry("Dummy")
	def.Ability = "Levitate"
	est := compute(entry("Groundhog"), def, "Earthquake", nil)
	assert.Zero(t, est.Max)
	assert.Equal(t, 0.0, est.Effectiveness)

	assert.Equal(t, 0.0, Effectiveness(testDex, "Ground", def))
	assert.Equal(t, 1.0, Effectiveness(testDex, "Rock", def))
}

func TestStabGroundIntoFireSteel(t *testing.T) {
	// 145-base-Atk STAB ground move into a Fire/Steel frame is a clean
	// kill range: doubly super effective on top of STAB.
	est := compute(entry("Groundhog"), entry("Furnace"), "Earthquake", nil)
	assert.Equal(t, 4.0, est.Effectiveness)
	assert.Greater(t, est.Max, 80)
	assert.Less(t, est.Min, est.Max)
	assert.Equal(t, 208, est.Max)
	assert.Equal(t, 176, est.Min)
}

func TestStabRaisesDamage(t *testing.T) {
	atk := entry("Groundhog")
	def := entry("Dummy")
	stab := compute(atk, def, "Earthquake", nil)
	flat := compute(atk, def, "Stone Edge", nil)
	assert.Greater(t, stab.Max, flat.Max)
}

func TestRisingPowerNeverLowersDamage(t *testing.T) {
	atk := entry("Bruiser")
	def := entry("Dummy")
	prev := 0
	for power := 10; power <= 250; power += 10 {
		move := data.Move{Name: "Test Blast", Type: "Normal", Power: power, Category: data.CategoryPhysical}
		est := Compute(testDex, atk, def, move, nil)
		assert.GreaterOrEqual(t, est.Max, prev, "power %d", power)
		assert.GreaterOrEqual(t, est.Max, est.Min, "power %d", power)
		prev = est.Max
	}
}

func TestBoostsScaleDamage(t *testing.T) {
	atk := entry("Groundhog")
	def := entry("Dummy")
	base := compute(atk, def, "Earthquake", nil)

	atk.ApplyBoost(game.StatAtk, 2)
	boosted := compute(atk, def, "Earthquake", nil)
	assert.Greater(t, boosted.Max, base.Max)

	def.ApplyBoost(game.StatDef, 2)
	walled := compute(atk, def, "Earthquake", nil)
	assert.Less(t, walled.Max, boosted.Max)
}

func TestWeatherModifiers(t *testing.T) {
	atk := entry("Furnace")
	def := entry("Dummy")
	clear := compute(atk, def, "Flamethrower", &game.FieldState{})
	sun := compute(atk, def, "Flamethrower", &game.FieldState{Weather: game.WeatherSun})
	rain := compute(atk, def, "Flamethrower", &game.FieldState{Weather: game.WeatherRain})

	assert.Greater(t, sun.Max, clear.Max)
	assert.Less(t, rain.Max, clear.Max)
}

func TestTerrainModifiers(t *testing.T) {
	atk := entry("Specter")
	def := entry("Dummy")
	clear := compute(atk, def, "Thunderbolt", nil)
	boosted := compute(atk, def, "Thunderbolt", &game.FieldState{Terrain: game.TerrainElectric})
	assert.Greater(t, boosted.Max, clear.Max)

	// Terrain only touches its own type.
	psychic := compute(atk, def, "Thunderbolt", &game.FieldState{Terrain: game.TerrainPsychic})
	assert.Equal(t, clear.Max, psychic.Max)
}

func TestSeismicTossIsFlat(t *testing.T) {
	est := compute(entry("Dummy"), entry("Furnace"), "Seismic Toss", nil)
	// Level 100 of Furnace's 323 max HP.
	assert.Equal(t, 30, est.Min)
	assert.Equal(t, 30, est.Max)
	assert.Equal(t, 1.0, est.Effectiveness)
}

func TestBodyPressUsesOwnDefense(t *testing.T) {
	// Bulwark's Attack is tiny; Body Press must hit off its huge Defense.
	press := compute(entry("Bulwark"), entry("Dummy"), "Body Press", nil)
	kick := compute(entry("Bulwark"), entry("Dummy"), "Triple Axel", nil)
	assert.Greater(t, press.Max, kick.Max)
}

func TestFoulPlayBorrowsTargetAttack(t *testing.T) {
	weak := entry("Bulwark")
	vsBruiser := compute(weak, entry("Bruiser"), "Foul Play", nil)
	vsDummy := compute(weak, entry("Dummy"), "Foul Play", nil)
	// Equal defense bases, so the defender's own Attack decides.
	assert.Greater(t, vsBruiser.Max, vsDummy.Max)
}

func TestMultiHitDoubles(t *testing.T) {
	double := compute(entry("Dummy"), entry("Bruiser"), "Double Kick", nil)
	single := compute(entry("Dummy"), entry("Bruiser"), "Triple Axel", nil)
	// Double Kick's two 30-power hits equal one 60-power hit.
	assert.Equal(t, single.Max, double.Max)
}

func TestAcrobaticsConditionalPower(t *testing.T) {
	atk := entry("Dummy")
	unburdened := compute(atk, entry("Bruiser"), "Acrobatics", nil)
	atk.Item = "Leftovers"
	held := compute(atk, entry("Bruiser"), "Acrobatics", nil)
	assert.Greater(t, unburdened.Max, held.Max)
}

func TestFacadeWhileStatused(t *testing.T) {
	atk := entry("Dummy")
	healthy := compute(atk, entry("Bruiser"), "Facade", nil)
	atk.Status = game.StatusBurn
	burned := compute(atk, entry("Bruiser"), "Facade", nil)
	assert.Greater(t, burned.Max, healthy.Max)
}

func TestHexAgainstStatusedTarget(t *testing.T) {
	def := entry("Furnace")
	clean := compute(entry("Specter"), def, "Hex", nil)
	def.Status = game.StatusParalysis
	statused := compute(entry("Specter"), def, "Hex", nil)
	assert.Greater(t, statused.Max, clean.Max)
}

func TestLowKickAssumesHeavyBracket(t *testing.T) {
	est := compute(entry("Dummy"), entry("Bruiser"), "Low Kick", nil)
	assert.Greater(t, est.Max, 0)
}

func TestAttackerTerastallization(t *testing.T) {
	atk := entry("Groundhog")
	def := entry("Dummy")
	plain := compute(atk, def, "Earthquake", nil)

	// Tera into the original type upgrades STAB to 2x.
	atk.Terastallized = true
	atk.TeraType = "Ground"
	tera := compute(atk, def, "Earthquake", nil)
	assert.Greater(t, tera.Max, plain.Max)

	// Original-type STAB survives tera into another type.
	atk.TeraType = "Fairy"
	offTera := compute(atk, def, "Earthquake", nil)
	assert.Equal(t, plain.Max, offTera.Max)

	// A foreign tera type grants fresh STAB to its own moves.
	plainRock := compute(entry("Groundhog"), def, "Stone Edge", nil)
	atk.TeraType = "Rock"
	teraRock := compute(atk, def, "Stone Edge", nil)
	assert.Greater(t, teraRock.Max, plainRock.Max)
}

func TestDefenderTerastallization(t *testing.T) {
	def := entry("Furnace")
	def.Terastallized = true
	def.TeraType = "Water"
	// Tera defender is typed by its tera type alone: no more 4x hole.
	est := compute(entry("Groundhog"), def, "Earthquake", nil)
	assert.Equal(t, 1.0, est.Effectiveness)
}

func TestDefenderMitigations(t *testing.T) {
	atk := entry("Furnace")
	def := entry("Dummy")
	base := compute(atk, def, "Flamethrower", nil)

	def.Item = "Assault Vest"
	vest := compute(atk, def, "Flamethrower", nil)
	assert.Less(t, vest.Max, base.Max)

	def.Item = ""
	def.Ability = "Thick Fat"
	fat := compute(atk, def, "Flamethrower", nil)
	assert.Less(t, fat.Max, base.Max)
}

func TestMultiscaleOnlyAtFullHP(t *testing.T) {
	atk := entry("Groundhog")
	def := entry("Dummy")
	def.Ability = "Multiscale"
	full := compute(atk, def, "Earthquake", nil)
	def.HP = 60
	chipped := compute(atk, def, "Earthquake", nil)
	assert.Greater(t, chipped.Max, full.Max)
}

func TestUnknownNamesDegrade(t *testing.T) {
	est := compute(entry("Mystery"), entry("Enigma"), "Tackle", nil)
	require.NotNil(t, est)
	assert.Greater(t, est.Max, 0)
	assert.Equal(t, 1.0, est.Effectiveness)
}
