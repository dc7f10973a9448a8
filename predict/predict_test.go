package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showdown-scout/data"
	"showdown-scout/game"
)

var testDex = data.NewDex(
	[]data.Species{
		{Name: "Voltbug", Types: []string{"Electric"}, BaseStats: data.Stats{HP: 70, Atk: 70, Def: 60, SpA: 110, SpD: 60, Spe: 105}},
		{Name: "Firefox", Types: []string{"Fire"}, BaseStats: data.Stats{HP: 70, Atk: 80, Def: 65, SpA: 100, SpD: 65, Spe: 100}},
		{Name: "Gullwing", Types: []string{"Water", "Flying"}, BaseStats: data.Stats{HP: 85, Atk: 50, Def: 60, SpA: 95, SpD: 70, Spe: 80}, CommonMoves: []string{"Hydro Pump", "Air Slash", "Roost", "Tackle", "Protect"}},
		{Name: "Groundworm", Types: []string{"Ground"}, BaseStats: data.Stats{HP: 90, Atk: 95, Def: 80, SpA: 40, SpD: 60, Spe: 40}},
		{Name: "Kelpling", Types: []string{"Grass", "Dragon"}, BaseStats: data.Stats{HP: 70, Atk: 60, Def: 70, SpA: 80, SpD: 70, Spe: 60}},
		{Name: "Quickfoot", Types: []string{"Normal"}, BaseStats: data.Stats{HP: 65, Atk: 95, Def: 60, SpA: 60, SpD: 60, Spe: 110}},
		{Name: "Slowtank", Types: []string{"Steel"}, BaseStats: data.Stats{HP: 100, Atk: 70, Def: 130, SpA: 50, SpD: 110, Spe: 30}},
		{Name: "Blobfish", Types: []string{"Water"}, BaseStats: data.Stats{HP: 150, Atk: 40, Def: 80, SpA: 60, SpD: 100, Spe: 25}},
		{Name: "Ironhide", Types: []string{"Rock"}, BaseStats: data.Stats{HP: 80, Atk: 90, Def: 140, SpA: 40, SpD: 120, Spe: 35}},
	},
	[]data.Move{
		{Name: "Thunderbolt", Type: "Electric", Power: 90, Category: data.CategorySpecial},
		{Name: "Hydro Pump", Type: "Water", Power: 110, Category: data.CategorySpecial},
		{Name: "Air Slash", Type: "Flying", Power: 75, Category: data.CategorySpecial},
		{Name: "Earthquake", Type: "Ground", Power: 100, Category: data.CategoryPhysical},
		{Name: "Tackle", Type: "Normal", Power: 40, Category: data.CategoryPhysical},
		{Name: "Aqua Jet", Type: "Water", Power: 40, Category: data.CategoryPhysical, Priority: 1, Flags: data.MoveFlags{Priority: true}},
		{Name: "U-turn", Type: "Bug", Power: 70, Category: data.CategoryPhysical, Flags: data.MoveFlags{Pivot: true}},
		{Name: "Swords Dance", Type: "Normal", Category: data.CategoryStatus, Flags: data.MoveFlags{Setup: true, Status: true}},
		{Name: "Roost", Type: "Flying", Category: data.CategoryStatus, Flags: data.MoveFlags{Recovery: true, Status: true}},
		{Name: "Stealth Rock", Type: "Rock", Category: data.CategoryStatus, Flags: data.MoveFlags{Hazard: true, Status: true}},
		{Name: "Protect", Type: "Normal", Category: data.CategoryStatus, Flags: data.MoveFlags{Status: true}},
	},
)

func team(side game.Side, names ...string) *game.Team {
	t := game.NewTeam(side)
	for _, n := range names {
		t.Add(n)
	}
	return t
}

func TestClassifySetupSightingsMeanOffense(t *testing.T) {
	tm := team(game.SideOpponent, "Gullwing", "Groundworm")
	tm.Get("Gullwing").AddMove("Swords Dance")
	tm.Get("Groundworm").AddMove("Swords Dance")
	assert.Equal(t, ArchetypeHyperOffense, Classify(testDex, tm))
}

func TestClassifyRecoveryMeansStall(t *testing.T) {
	tm := team(game.SideOpponent, "Gullwing", "Groundworm", "Kelpling")
	for _, n := range []string{"Gullwing", "Groundworm", "Kelpling"} {
		tm.Get(n).AddMove("Roost")
	}
	assert.Equal(t, ArchetypeStall, Classify(testDex, tm))
}

func TestClassifyFastFrames(t *testing.T) {
	tm := team(game.SideOpponent, "Voltbug", "Firefox", "Quickfoot")
	assert.Equal(t, ArchetypeHyperOffense, Classify(testDex, tm))
}

func TestClassifyBulkyFrames(t *testing.T) {
	tm := team(game.SideOpponent, "Slowtank", "Blobfish", "Ironhide")
	assert.Equal(t, ArchetypeStall, Classify(testDex, tm))
}

func TestClassifyDefaultsToBalance(t *testing.T) {
	tm := team(game.SideOpponent, "Gullwing", "Groundworm")
	assert.Equal(t, ArchetypeBalance, Classify(testDex, tm))
}

func TestPredictSwitchHighUnderPressure(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Voltbug")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Opponent.Add("Gullwing")
	st.Opponent.Add("Kelpling")
	st.SetActive(game.SideOpponent, "Gullwing")
	st.Opponent.Get("Gullwing").HP = 30

	// Electric into Water/Flying is 4x, the active is nearly gone and a
	// resist waits on the bench.
	f := PredictSwitch(testDex, st)
	assert.Equal(t, SwitchHigh, f.Likelihood)
	assert.GreaterOrEqual(t, f.Score.Value, 40.0)
	assert.NotEmpty(t, f.Score.Trail)
}

func TestPredictSwitchLowWhenWeThreatenNothing(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Voltbug")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Self.Get("Voltbug").AddMove("Thunderbolt")
	st.Opponent.Add("Groundworm")
	st.SetActive(game.SideOpponent, "Groundworm")

	f := PredictSwitch(testDex, st)
	assert.Equal(t, SwitchLow, f.Likelihood)
	assert.Zero(t, f.Score.Value)
}

func TestPredictSwitchWithoutActives(t *testing.T) {
	f := PredictSwitch(testDex, game.NewBattleState())
	assert.Equal(t, SwitchLow, f.Likelihood)
	assert.Zero(t, f.Score.Value)
}

func TestPredictOpponentMovesRanking(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Firefox")
	st.SetActive(game.SideSelf, "Firefox")
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")
	theirs := st.Opponent.Get("Gullwing")
	theirs.AddMove("Hydro Pump")
	theirs.AddMove("Tackle")

	forecasts := PredictOpponentMoves(testDex, st)
	require.NotEmpty(t, forecasts)
	assert.Len(t, forecasts, 4) // sighted moves padded from the common set
	assert.Equal(t, "Hydro Pump", forecasts[0].Name)

	total := 0.0
	for _, f := range forecasts {
		assert.Positive(t, f.Probability)
		total += f.Probability
	}
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestPredictOpponentMovesNeedsTheirActive(t *testing.T) {
	assert.Nil(t, PredictOpponentMoves(testDex, game.NewBattleState()))
}

func TestRecommendKillShot(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Voltbug")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")
	st.Opponent.Get("Gullwing").HP = 20
	st.LegalMoves = []game.LegalMove{
		{Name: "Thunderbolt", Type: "Electric"},
		{Name: "Tackle", Type: "Normal"},
	}

	plan := Recommend(testDex, st, SwitchForecast{Likelihood: SwitchLow})
	require.NotNil(t, plan.Best)
	assert.Equal(t, ActionMove, plan.Best.Kind)
	assert.Equal(t, "Thunderbolt", plan.Best.Name)

	var trail []string
	for _, c := range plan.Best.Score.Trail {
		trail = append(trail, c.Signal)
	}
	assert.Contains(t, trail, "guaranteed-ko")
}

func TestRecommendSkipsDisabledMoves(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Voltbug")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")
	st.LegalMoves = []game.LegalMove{
		{Name: "Thunderbolt", Type: "Electric", Disabled: true},
		{Name: "Tackle", Type: "Normal"},
	}

	plan := Recommend(testDex, st, SwitchForecast{Likelihood: SwitchLow})
	require.Len(t, plan.Moves, 1)
	assert.Equal(t, "Tackle", plan.Moves[0].Name)
}

func TestForcedSwitchPrefersSpeed(t *testing.T) {
	st := game.NewBattleState()
	st.ForcedSwitch = true
	st.Self.Add("Voltbug")
	st.Self.Add("Quickfoot")
	st.Self.Add("Slowtank")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Switchable = []string{"Quickfoot", "Slowtank"}
	st.Self.Get("Slowtank").HP = 15
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")

	plan := Recommend(testDex, st, SwitchForecast{Likelihood: SwitchLow})
	require.NotNil(t, plan.Best)
	assert.Equal(t, ActionSwitch, plan.Best.Kind)
	// The faster entry wins the next exchange; the slow one would be
	// knocked out before it moves.
	assert.Equal(t, "Quickfoot", plan.Best.Name)
	require.Len(t, plan.Switches, 2)
	assert.Greater(t, plan.Switches[0].Score.Value, plan.Switches[1].Score.Value)
}

func TestVoluntarySwitchWeighsIncomingHit(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Voltbug")
	st.Self.Add("Kelpling")
	st.Self.Add("Groundworm")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")

	plan := Recommend(testDex, st, SwitchForecast{Likelihood: SwitchLow})
	require.NotEmpty(t, plan.Switches)
	// Kelpling resists the projected Water STAB; Groundworm eats it.
	assert.Equal(t, "Kelpling", plan.Switches[0].Name)
}

func TestAnalyzeOnEmptyStateDegrades(t *testing.T) {
	report := Analyze(testDex, game.NewBattleState())
	assert.NotEmpty(t, report.Notes)
	assert.Nil(t, report.Best)
	assert.Equal(t, SwitchLow, report.SwitchForecast.Likelihood)
}

func TestAnalyzeSpeedVerdict(t *testing.T) {
	st := game.NewBattleState()
	st.Self.Add("Quickfoot")
	st.SetActive(game.SideSelf, "Quickfoot")
	st.Opponent.Add("Slowtank")
	st.SetActive(game.SideOpponent, "Slowtank")

	assert.Equal(t, "faster", Analyze(testDex, st).SpeedVerdict)

	st.Field.TrickRoom = true
	assert.Equal(t, "slower", Analyze(testDex, st).SpeedVerdict)
}

func TestAnalyzeComposition(t *testing.T) {
	st := game.NewBattleState()
	st.Turn = 5
	st.Self.Add("Voltbug")
	st.SetActive(game.SideSelf, "Voltbug")
	st.Opponent.Add("Gullwing")
	st.SetActive(game.SideOpponent, "Gullwing")
	st.LegalMoves = []game.LegalMove{{Name: "Thunderbolt", Type: "Electric"}}

	report := Analyze(testDex, st)
	assert.Equal(t, 5, report.Turn)
	assert.NotEmpty(t, report.OpponentMoves)
	require.NotNil(t, report.Best)
	assert.Empty(t, report.Notes)
}
