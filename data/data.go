// Package data is the static knowledge base: species records, move records
// and the type chart. It is pure lookup; nothing here is mutated after load.
// Unknown names resolve to explicit placeholder records so callers degrade
// instead of erroring.
package data

import (
	"encoding/json"
	"os"
	"strings"
)

// Stats are the six base stats of a species.
type Stats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

// Species is one pokedex record.
type Species struct {
	Name        string
	Types       []string
	BaseStats   Stats
	Abilities   []string
	CommonMoves []string
	Unknown     bool
}

// Category of a move's damage.
const (
	CategoryPhysical = "Physical"
	CategorySpecial  = "Special"
	CategoryStatus   = "Status"
)

// MoveFlags are the behavior bits the heuristics branch on.
type MoveFlags struct {
	Contact  bool
	Recovery bool
	Hazard   bool
	Pivot    bool
	Setup    bool
	Priority bool
	Status   bool
	Sound    bool
	Weather  bool
	Terrain  bool
}

// Move is one move record.
type Move struct {
	Name     string
	Type     string
	Power    int
	Category string
	Priority int
	Accuracy int
	Flags    MoveFlags
	Unknown  bool
}

type rawSpecies struct {
	Name              string         `json:"name"`
	Types             []string       `json:"types"`
	BaseStats         Stats          `json:"baseStats"`
	Abilities         map[string]any `json:"abilities"`
	RandomBattleMoves []string       `json:"randomBattleMoves"`
}

type rawMove struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	BasePower int            `json:"basePower"`
	Category  string         `json:"category"`
	Priority  int            `json:"priority"`
	Accuracy  any            `json:"accuracy"`
	Flags     map[string]int `json:"flags"`
	Heal      []int          `json:"heal"`
	Drain     []int          `json:"drain"`
	Boosts    map[string]int `json:"boosts"`
}

// Dex bundles the loaded tables. One Dex serves any number of battles.
type Dex struct {
	species map[string]Species
	moves   map[string]Move
}

// NewDex builds a knowledge base from already-assembled records, keyed
// case-insensitively. Used by tests and embedded fixtures.
func NewDex(species []Species, moves []Move) *Dex {
	d := &Dex{
		species: make(map[string]Species, len(species)),
		moves:   make(map[string]Move, len(moves)),
	}
	for _, s := range species {
		d.species[nameKey(s.Name)] = s
	}
	for _, m := range moves {
		d.moves[nameKey(m.Name)] = m
	}
	return d
}

// Load reads the pokedex and move tables from their JSON dumps.
func Load(pokedexPath, movesPath string) (*Dex, error) {
	d := &Dex{
		species: make(map[string]Species),
		moves:   make(map[string]Move),
	}
	if err := d.loadSpecies(pokedexPath); err != nil {
		return nil, err
	}
	if err := d.loadMoves(movesPath); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dex) loadSpecies(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]rawSpecies
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return err
	}
	for _, r := range raw {
		abilities := make([]string, 0, len(r.Abilities))
		for _, a := range r.Abilities {
			if s, ok := a.(string); ok {
				abilities = append(abilities, s)
			}
		}
		d.species[nameKey(r.Name)] = Species{
			Name:        r.Name,
			Types:       r.Types,
			BaseStats:   r.BaseStats,
			Abilities:   abilities,
			CommonMoves: r.RandomBattleMoves,
		}
	}
	return nil
}

func (d *Dex) loadMoves(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]rawMove
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return err
	}
	for _, r := range raw {
		d.moves[nameKey(r.Name)] = buildMove(r)
	}
	return nil
}

func buildMove(r rawMove) Move {
	m := Move{
		Name:     r.Name,
		Type:     r.Type,
		Power:    r.BasePower,
		Category: r.Category,
		Priority: r.Priority,
		Accuracy: 100,
	}
	// "accuracy": true in the dump means the move cannot miss.
	if acc, ok := r.Accuracy.(float64); ok && acc > 0 {
		m.Accuracy = int(acc)
	}
	m.Flags = deriveFlags(r)
	return m
}

func deriveFlags(r rawMove) MoveFlags {
	key := nameKey(r.Name)
	f := MoveFlags{
		Contact:  r.Flags["contact"] == 1,
		Sound:    r.Flags["sound"] == 1,
		Status:   r.Category == CategoryStatus,
		Priority: r.Priority > 0,
		Recovery: len(r.Heal) > 0 || len(r.Drain) > 0 || recoveryMoves[key],
		Hazard:   hazardMoves[key],
		Pivot:    pivotMoves[key],
		Weather:  weatherMoves[key],
		Terrain:  terrainMoves[key],
	}
	// Self-boosting status moves count as setup.
	if setupMoves[key] || (r.Category == CategoryStatus && len(r.Boosts) > 0) {
		f.Setup = true
	}
	return f
}

var recoveryMoves = stringSet(
	"recover", "roost", "slack off", "soft-boiled", "synthesis", "moonlight",
	"morning sun", "shore up", "strength sap", "rest", "wish", "milk drink",
)

var hazardMoves = stringSet("stealth rock", "spikes", "toxic spikes", "sticky web", "stone axe", "ceaseless edge")

var pivotMoves = stringSet(
	"u-turn", "volt switch", "flip turn", "parting shot", "baton pass",
	"teleport", "shed tail", "chilly reception",
)

var setupMoves = stringSet(
	"swords dance", "nasty plot", "calm mind", "dragon dance", "bulk up",
	"quiver dance", "shell smash", "agility", "iron defense", "curse",
	"belly drum", "shift gear", "victory dance", "tidy up",
)

var weatherMoves = stringSet("rain dance", "sunny day", "sandstorm", "snowscape", "hail", "chilly reception")

var terrainMoves = stringSet("electric terrain", "grassy terrain", "psychic terrain", "misty terrain")

func stringSet(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetSpecies resolves a species record. Lookup is case-insensitive with a
// prefix fallback for form suffixes; misses return a usable placeholder.
func (d *Dex) GetSpecies(name string) Species {
	key := nameKey(name)
	if s, ok := d.species[key]; ok {
		return s
	}
	if s, ok := d.prefixSpecies(key); ok {
		return s
	}
	return UnknownSpecies(name)
}

// prefixSpecies tries the longest record whose key prefixes the query or
// that the query prefixes, so "urshifu-rapid-strike" still finds "urshifu".
func (d *Dex) prefixSpecies(key string) (Species, bool) {
	var best Species
	bestLen := -1
	for k, s := range d.species {
		if (strings.HasPrefix(key, k) || strings.HasPrefix(k, key)) && len(k) > bestLen {
			best, bestLen = s, len(k)
		}
	}
	return best, bestLen >= 0
}

// GetMove resolves a move record, with the same miss behavior.
func (d *Dex) GetMove(name string) Move {
	key := nameKey(name)
	if m, ok := d.moves[key]; ok {
		return m
	}
	var best Move
	bestLen := -1
	for k, m := range d.moves {
		if (strings.HasPrefix(key, k) || strings.HasPrefix(k, key)) && len(k) > bestLen {
			best, bestLen = m, len(k)
		}
	}
	if bestLen >= 0 {
		return best
	}
	return UnknownMove(name)
}

// UnknownSpecies is the documented fallback record for a missed lookup:
// flat 80s across the board and no typing, flagged so heuristics can note
// the reduced precision.
func UnknownSpecies(name string) Species {
	return Species{
		Name:      name,
		BaseStats: Stats{HP: 80, Atk: 80, Def: 80, SpA: 80, SpD: 80, Spe: 80},
		Unknown:   true,
	}
}

// UnknownMove is the documented fallback for a missed move lookup. Power 80
// keeps damage projections in a plausible range.
func UnknownMove(name string) Move {
	return Move{
		Name:     name,
		Type:     "Normal",
		Power:    80,
		Category: CategoryPhysical,
		Accuracy: 100,
		Unknown:  true,
	}
}
