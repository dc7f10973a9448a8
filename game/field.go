package game

type Weather string

const (
	WeatherNone Weather = ""
	WeatherSun  Weather = "sun"
	WeatherRain Weather = "rain"
	WeatherSand Weather = "sand"
	WeatherSnow Weather = "snow"
)

type Terrain string

const (
	TerrainNone     Terrain = ""
	TerrainElectric Terrain = "electric"
	TerrainGrassy   Terrain = "grassy"
	TerrainPsychic  Terrain = "psychic"
	TerrainMisty    Terrain = "misty"
)

const (
	MaxSpikesLayers      = 3
	MaxToxicSpikesLayers = 2
)

// SideHazards are the persistent entry effects on one side of the field.
type SideHazards struct {
	StealthRock bool `json:"stealthRock"`
	Spikes      int  `json:"spikes"`
	ToxicSpikes int  `json:"toxicSpikes"`
	StickyWeb   bool `json:"stickyWeb"`
}

// AddSpikes adds one layer, saturating at the game cap.
func (h *SideHazards) AddSpikes() {
	if h.Spikes < MaxSpikesLayers {
		h.Spikes++
	}
}

// AddToxicSpikes adds one layer, saturating at the game cap.
func (h *SideHazards) AddToxicSpikes() {
	if h.ToxicSpikes < MaxToxicSpikesLayers {
		h.ToxicSpikes++
	}
}

// Clear removes every hazard layer, for removal narration (Defog, spins).
func (h *SideHazards) Clear() {
	*h = SideHazards{}
}

func (h SideHazards) Any() bool {
	return h.StealthRock || h.Spikes > 0 || h.ToxicSpikes > 0 || h.StickyWeb
}

// FieldState is the battle-wide context: weather, terrain, per-side hazards
// and the room/tailwind toggles. Updates are last-writer-wins per field.
type FieldState struct {
	Weather          Weather     `json:"weather"`
	Terrain          Terrain     `json:"terrain"`
	SelfHazards      SideHazards `json:"selfHazards"`
	OpponentHazards  SideHazards `json:"opponentHazards"`
	TrickRoom        bool        `json:"trickRoom"`
	TailwindSelf     bool        `json:"tailwindSelf"`
	TailwindOpponent bool        `json:"tailwindOpponent"`
}

// Hazards returns the hazard block for a side, nil for SideUnknown.
func (f *FieldState) Hazards(side Side) *SideHazards {
	switch side {
	case SideSelf:
		return &f.SelfHazards
	case SideOpponent:
		return &f.OpponentHazards
	}
	return nil
}

// Tailwind reports whether the side is under Tailwind.
func (f *FieldState) Tailwind(side Side) bool {
	switch side {
	case SideSelf:
		return f.TailwindSelf
	case SideOpponent:
		return f.TailwindOpponent
	}
	return false
}

// SetTailwind toggles Tailwind for a side.
func (f *FieldState) SetTailwind(side Side, up bool) {
	switch side {
	case SideSelf:
		f.TailwindSelf = up
	case SideOpponent:
		f.TailwindOpponent = up
	}
}
