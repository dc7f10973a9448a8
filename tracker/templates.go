package tracker

import (
	"regexp"
	"strconv"

	"showdown-scout/game"
)

// narrationTemplate is one recognizer over battle narration. Templates are
// applied independently and each apply is idempotent under the log's
// ordering guarantee; unmatched text is a no-op.
type narrationTemplate struct {
	name  string
	re    *regexp.Regexp
	apply func(e *Engine, m []string)
}

const opposing = `((?:[Tt]he opposing )?)`

var narrationTemplates = []narrationTemplate{
	{
		name: "turn-marker",
		re:   regexp.MustCompile(`^Turn (\d+)$`),
		apply: func(e *Engine, m []string) {
			if t, err := strconv.Atoi(m[1]); err == nil {
				e.applyTurn(t)
			}
		},
	},
	{
		name: "switch-in-self",
		re:   regexp.MustCompile(`^Go! (.+?)!$`),
		apply: func(e *Engine, m []string) {
			e.switchInFromLog(game.SideSelf, m[1])
		},
	},
	{
		name: "switch-in-named",
		re:   regexp.MustCompile(`^(.+?) sent out (.+?)!$`),
		apply: func(e *Engine, m []string) {
			e.switchInFromLog(e.playerSide(m[1]), m[2])
		},
	},
	{
		name: "move-used",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) used (.+?)!$`),
		apply: func(e *Engine, m []string) {
			if entry := e.resolveEntry(sideFromPrefix(m[1]), m[2]); entry != nil {
				entry.AddMove(m[3])
			}
		},
	},
	{
		name: "damage-taken",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) lost ([0-9.]+)% of its health!$`),
		apply: func(e *Engine, m []string) {
			entry := e.resolveEntry(sideFromPrefix(m[1]), m[2])
			if entry == nil {
				return
			}
			if loss, err := strconv.ParseFloat(m[3], 64); err == nil {
				entry.HP = clampPct(entry.HP - int(loss+0.5))
			}
		},
	},
	{
		name: "fainted",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) fainted!$`),
		apply: func(e *Engine, m []string) {
			if entry := e.resolveEntry(sideFromPrefix(m[1]), m[2]); entry != nil {
				entry.Status = game.StatusFainted
				entry.HP = 0
			}
		},
	},
	{
		name: "regained-health",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) regained health!$`),
		apply: func(e *Engine, m []string) {
			// Narration carries no magnitude; half is the common
			// recovery fraction.
			e.heal(sideFromPrefix(m[1]), m[2], 50)
		},
	},
	{
		name: "item-recovery",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) restored a little HP using its (.+?)!$`),
		apply: func(e *Engine, m []string) {
			side := sideFromPrefix(m[1])
			e.heal(side, m[2], 6)
			if entry := e.resolveEntry(side, m[2]); entry != nil {
				entry.Item = m[3]
			}
		},
	},
	{
		name: "item-knocked-off",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) knocked off ` + opposing + `(.+?)'s (.+?)!$`),
		apply: func(e *Engine, m []string) {
			if entry := e.resolveEntry(sideFromPrefix(m[3]), m[4]); entry != nil {
				entry.Item = m[5]
			}
		},
	},
	{
		name: "ability-revealed",
		re:   regexp.MustCompile(`^\[(.+?)'s (.+?)\]$`),
		apply: func(e *Engine, m []string) {
			if entry := e.findAnywhere(m[1]); entry != nil {
				entry.Ability = m[2]
			}
		},
	},
	{
		name:  "status-burn",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) was burned!$`),
		apply: statusApply(game.StatusBurn),
	},
	{
		name:  "status-poison",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) was poisoned!$`),
		apply: statusApply(game.StatusPoison),
	},
	{
		name:  "status-toxic",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) was badly poisoned!$`),
		apply: statusApply(game.StatusToxic),
	},
	{
		name:  "status-paralysis",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) is paralyzed! It may be unable to move!$`),
		apply: statusApply(game.StatusParalysis),
	},
	{
		name:  "status-sleep",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) fell asleep!$`),
		apply: statusApply(game.StatusSleep),
	},
	{
		name:  "status-freeze",
		re:    regexp.MustCompile(`^` + opposing + `(.+?) was frozen solid!$`),
		apply: statusApply(game.StatusFreeze),
	},
	{
		name: "terastallized",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) has Terastallized into the ([A-Za-z]+)-type!$`),
		apply: func(e *Engine, m []string) {
			if entry := e.resolveEntry(sideFromPrefix(m[1]), m[2]); entry != nil {
				entry.TeraType = m[3]
				entry.Terastallized = true
			}
		},
	},
	{
		name: "boost-change",
		re:   regexp.MustCompile(`^` + opposing + `(.+?)'s (Attack|Defense|Sp\. Atk|Sp\. Def|Speed) (rose drastically|rose sharply|rose|severely fell|harshly fell|fell)!$`),
		apply: func(e *Engine, m []string) {
			entry := e.resolveEntry(sideFromPrefix(m[1]), m[2])
			if entry == nil {
				return
			}
			entry.ApplyBoost(boostStatKeys[m[3]], boostDeltas[m[4]])
		},
	},
	{
		name: "weather-start",
		re:   regexp.MustCompile(`^(The sunlight turned harsh!|It started to rain!|A sandstorm kicked up!|It started to snow!)$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.Weather = weatherStarts[m[1]]
		},
	},
	{
		name: "weather-end",
		re:   regexp.MustCompile(`^(The sunlight faded\.|The rain stopped\.|The sandstorm subsided\.|The snow stopped\.)$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.Weather = game.WeatherNone
		},
	},
	{
		name: "terrain-start",
		re:   regexp.MustCompile(`^(An electric current ran across the battlefield!|Grass grew to cover the battlefield!|The battlefield got weird!|Mist swirled around the battlefield!)$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.Terrain = terrainStarts[m[1]]
		},
	},
	{
		name: "terrain-end",
		re:   regexp.MustCompile(`^The (electricity|grass|weirdness|mist) disappeared from the battlefield\.$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.Terrain = game.TerrainNone
		},
	},
	{
		name: "hazard-stealth-rock",
		re:   regexp.MustCompile(`^Pointed stones float in the air around (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			if h := e.state.Field.Hazards(teamPhraseSide(m[1])); h != nil {
				h.StealthRock = true
			}
		},
	},
	{
		name: "hazard-spikes",
		re:   regexp.MustCompile(`^Spikes were scattered on the ground all around (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			if h := e.state.Field.Hazards(teamPhraseSide(m[1])); h != nil {
				h.AddSpikes()
			}
		},
	},
	{
		name: "hazard-toxic-spikes",
		re:   regexp.MustCompile(`^Poison spikes were scattered on the ground all around (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			if h := e.state.Field.Hazards(teamPhraseSide(m[1])); h != nil {
				h.AddToxicSpikes()
			}
		},
	},
	{
		name: "hazard-sticky-web",
		re:   regexp.MustCompile(`^A sticky web has been laid out on the ground around (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			if h := e.state.Field.Hazards(teamPhraseSide(m[1])); h != nil {
				h.StickyWeb = true
			}
		},
	},
	{
		name: "hazard-removed",
		re:   regexp.MustCompile(`^The (pointed stones|spikes|poison spikes|sticky web) disappeared from around (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			h := e.state.Field.Hazards(teamPhraseSide(m[2]))
			if h == nil {
				return
			}
			switch m[1] {
			case "pointed stones":
				h.StealthRock = false
			case "spikes":
				h.Spikes = 0
			case "poison spikes":
				h.ToxicSpikes = 0
			case "sticky web":
				h.StickyWeb = false
			}
		},
	},
	{
		name: "trick-room-start",
		re:   regexp.MustCompile(`^` + opposing + `(.+?) twisted the dimensions!$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.TrickRoom = true
		},
	},
	{
		name: "trick-room-end",
		re:   regexp.MustCompile(`^The twisted dimensions returned to normal!$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.TrickRoom = false
		},
	},
	{
		name: "tailwind-start",
		re:   regexp.MustCompile(`^The Tailwind blew from behind (your|the opposing) team!$`),
		apply: func(e *Engine, m []string) {
			e.state.Field.SetTailwind(teamPhraseSide(m[1]), true)
		},
	},
	{
		name: "tailwind-end",
		re:   regexp.MustCompile(`^(Your|The opposing) team's Tailwind petered out!$`),
		apply: func(e *Engine, m []string) {
			side := game.SideSelf
			if m[1] == "The opposing" {
				side = game.SideOpponent
			}
			e.state.Field.SetTailwind(side, false)
		},
	},
}

func statusApply(status game.Status) func(*Engine, []string) {
	return func(e *Engine, m []string) {
		if entry := e.resolveEntry(sideFromPrefix(m[1]), m[2]); entry != nil {
			entry.Status = status
		}
	}
}

var boostStatKeys = map[string]string{
	"Attack":  game.StatAtk,
	"Defense": game.StatDef,
	"Sp. Atk": game.StatSpA,
	"Sp. Def": game.StatSpD,
	"Speed":   game.StatSpe,
}

var boostDeltas = map[string]int{
	"rose":             1,
	"rose sharply":     2,
	"rose drastically": 3,
	"fell":             -1,
	"harshly fell":     -2,
	"severely fell":    -3,
}

var weatherStarts = map[string]game.Weather{
	"The sunlight turned harsh!": game.WeatherSun,
	"It started to rain!":        game.WeatherRain,
	"A sandstorm kicked up!":     game.WeatherSand,
	"It started to snow!":        game.WeatherSnow,
}

var terrainStarts = map[string]game.Terrain{
	"An electric current ran across the battlefield!": game.TerrainElectric,
	"Grass grew to cover the battlefield!":            game.TerrainGrassy,
	"The battlefield got weird!":                      game.TerrainPsychic,
	"Mist swirled around the battlefield!":            game.TerrainMisty,
}

// teamPhraseSide maps the "your team" / "the opposing team" phrasing.
func teamPhraseSide(phrase string) game.Side {
	if phrase == "your" || phrase == "Your" {
		return game.SideSelf
	}
	return game.SideOpponent
}

// switchInFromLog sets the active slot from narration. Narration carries no
// creation authority, so an unsighted creature leaves the state untouched.
func (e *Engine) switchInFromLog(side game.Side, raw string) {
	key, ok := e.ensureMember(side, raw, AuthorityLog, false)
	if !ok {
		return
	}
	if prev := e.state.Active(side); prev != nil && prev.Name != key {
		// Boost stages reset when a creature leaves the field.
		prev.Boosts = make(map[string]int)
	}
	e.state.SetActive(side, key)
}

func (e *Engine) heal(side game.Side, raw string, amount int) {
	if entry := e.resolveEntry(side, raw); entry != nil && !entry.Fainted() {
		entry.HP = clampPct(entry.HP + amount)
	}
}
