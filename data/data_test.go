package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDex() *Dex {
	return NewDex(
		[]Species{
			{Name: "Garchomp", Types: []string{"Dragon", "Ground"}, BaseStats: Stats{HP: 108, Atk: 130, Def: 95, SpA: 80, SpD: 85, Spe: 102}},
			{Name: "Urshifu", Types: []string{"Fighting", "Dark"}, BaseStats: Stats{HP: 100, Atk: 130, Def: 100, SpA: 63, SpD: 60, Spe: 97}},
		},
		[]Move{
			{Name: "Earthquake", Type: "Ground", Power: 100, Category: CategoryPhysical},
			{Name: "Wicked Blow", Type: "Dark", Power: 75, Category: CategoryPhysical},
		},
	)
}

func TestGetSpeciesCaseInsensitive(t *testing.T) {
	d := fixtureDex()
	assert.Equal(t, "Garchomp", d.GetSpecies("garchomp").Name)
	assert.Equal(t, "Garchomp", d.GetSpecies("GARCHOMP").Name)
	assert.False(t, d.GetSpecies("Garchomp").Unknown)
}

func TestGetSpeciesPrefixFallback(t *testing.T) {
	d := fixtureDex()
	// Form suffixes resolve to the base record.
	got := d.GetSpecies("Urshifu-Rapid-Strike")
	assert.Equal(t, "Urshifu", got.Name)
	assert.False(t, got.Unknown)
}

func TestGetSpeciesUnknownFallback(t *testing.T) {
	d := fixtureDex()
	got := d.GetSpecies("Missingno")
	assert.True(t, got.Unknown)
	assert.Equal(t, 80, got.BaseStats.Atk)
	assert.Empty(t, got.Types)
}

func TestGetMoveFallbacks(t *testing.T) {
	d := fixtureDex()
	assert.Equal(t, 100, d.GetMove("earthquake").Power)

	got := d.GetMove("Totally Made Up")
	assert.True(t, got.Unknown)
	assert.Equal(t, 80, got.Power)
	assert.Equal(t, "Normal", got.Type)
	assert.Equal(t, CategoryPhysical, got.Category)
}

func TestLoadFromJSONDumps(t *testing.T) {
	dir := t.TempDir()
	pokedex := filepath.Join(dir, "pokedex.json")
	moves := filepath.Join(dir, "moves.json")

	require.NoError(t, os.WriteFile(pokedex, []byte(`{
		"garchomp": {
			"name": "Garchomp",
			"types": ["Dragon", "Ground"],
			"baseStats": {"hp": 108, "atk": 130, "def": 95, "spa": 80, "spd": 85, "spe": 102},
			"abilities": {"0": "Sand Veil", "H": "Rough Skin"},
			"randomBattleMoves": ["Earthquake", "Outrage"]
		}
	}`), 0o644))
	require.NoError(t, os.WriteFile(moves, []byte(`{
		"earthquake": {"name": "Earthquake", "type": "Ground", "basePower": 100, "category": "Physical", "accuracy": 100, "flags": {"protect": 1}},
		"swordsdance": {"name": "Swords Dance", "type": "Normal", "basePower": 0, "category": "Status", "accuracy": true, "boosts": {"atk": 2}},
		"roost": {"name": "Roost", "type": "Flying", "basePower": 0, "category": "Status", "accuracy": true, "heal": [1, 2]},
		"uturn": {"name": "U-turn", "type": "Bug", "basePower": 70, "category": "Physical", "accuracy": 100},
		"aquajet": {"name": "Aqua Jet", "type": "Water", "basePower": 40, "category": "Physical", "accuracy": 100, "priority": 1},
		"stealthrock": {"name": "Stealth Rock", "type": "Rock", "basePower": 0, "category": "Status", "accuracy": true}
	}`), 0o644))

	d, err := Load(pokedex, moves)
	require.NoError(t, err)

	sp := d.GetSpecies("Garchomp")
	assert.Equal(t, []string{"Dragon", "Ground"}, sp.Types)
	assert.Contains(t, sp.Abilities, "Rough Skin")
	assert.Equal(t, []string{"Earthquake", "Outrage"}, sp.CommonMoves)

	// "accuracy": true means the move cannot miss.
	assert.Equal(t, 100, d.GetMove("Swords Dance").Accuracy)

	assert.True(t, d.GetMove("Swords Dance").Flags.Setup)
	assert.True(t, d.GetMove("Roost").Flags.Recovery)
	assert.True(t, d.GetMove("U-turn").Flags.Pivot)
	assert.True(t, d.GetMove("Aqua Jet").Flags.Priority)
	assert.True(t, d.GetMove("Stealth Rock").Flags.Hazard)
	assert.False(t, d.GetMove("Earthquake").Flags.Status)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.json", "also-missing.json")
	assert.Error(t, err)
}

func TestTypeChartIdentities(t *testing.T) {
	assert.Equal(t, 2.0, TypeMultiplier("Fire", "Grass"))
	assert.Equal(t, 0.5, TypeMultiplier("Fire", "Water"))
	assert.Equal(t, 0.0, TypeMultiplier("Normal", "Ghost"))
	assert.Equal(t, 0.0, TypeMultiplier("Ground", "Flying"))
	assert.Equal(t, 1.0, TypeMultiplier("Fire", "Normal"))

	assert.Equal(t, 4.0, Effectiveness("Ground", []string{"Fire", "Steel"}))
	assert.Equal(t, 4.0, Effectiveness("Fairy", []string{"Dragon", "Dark"}))
	assert.Equal(t, 0.125, Effectiveness("Water", []string{"Water", "Grass", "Dragon"}))
	assert.Equal(t, 0.0, Effectiveness("Electric", []string{"Water", "Ground"}))
	assert.Equal(t, 1.0, Effectiveness("Dark", nil))
}
