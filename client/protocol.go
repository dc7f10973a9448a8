package client

import (
	"encoding/json"
	"strconv"
	"strings"

	"showdown-scout/game"
	"showdown-scout/tracker"
)

// Translator turns one battle room's protocol lines into observations.
// It keeps just enough state to attribute sides and to order the
// narration lines it synthesizes.
type Translator struct {
	selfName string

	sides       map[string]game.Side // "p1" -> side
	playerNames map[string]string    // "p1" -> display name
	lastWeather string               // pending weather-end narration
	logIndex    int
}

func NewTranslator(selfName string) *Translator {
	return &Translator{
		selfName:    selfName,
		sides:       make(map[string]game.Side),
		playerNames: make(map[string]string),
	}
}

// Translate maps a single protocol line to zero or more observations.
// Unrecognized lines translate to nothing.
func (t *Translator) Translate(line string) []tracker.Observation {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "player":
		t.handlePlayer(parts)
		return nil
	case "turn":
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				return []tracker.Observation{tracker.TurnMarker{Turn: n}}
			}
		}
	case "request":
		if len(parts) >= 3 {
			return t.handleRequest(parts[2])
		}
	case "switch", "drag", "replace":
		return t.handleSwitch(parts)
	case "faint":
		if len(parts) >= 3 {
			side, name := t.subject(parts[2])
			return []tracker.Observation{tracker.VisualSighting{Side: side, RawName: name, Fainted: true}}
		}
	case "-damage", "-heal":
		return t.handleHPChange(parts)
	case "-status":
		if len(parts) >= 4 {
			side, name := t.subject(parts[2])
			return []tracker.Observation{tracker.VisualSighting{Side: side, RawName: name, StatusToken: parts[3]}}
		}
	case "-item":
		if len(parts) >= 4 {
			side, name := t.subject(parts[2])
			return []tracker.Observation{tracker.VisualSighting{Side: side, RawName: name, Item: parts[3]}}
		}
	case "-ability":
		if len(parts) >= 4 {
			side, name := t.subject(parts[2])
			return []tracker.Observation{tracker.VisualSighting{Side: side, RawName: name, Ability: parts[3]}}
		}
	case "-terastallize":
		if len(parts) >= 4 {
			side, name := t.subject(parts[2])
			return t.narrate(t.prefixed(side, name) + " has Terastallized into the " + parts[3] + "-type!")
		}
	case "move":
		if len(parts) >= 4 {
			side, name := t.subject(parts[2])
			return t.narrate(t.prefixed(side, name) + " used " + parts[3] + "!")
		}
	case "-boost", "-unboost":
		return t.handleBoost(parts)
	case "-weather":
		return t.handleWeather(parts)
	case "-fieldstart", "-fieldend":
		return t.handleField(parts)
	case "-sidestart", "-sideend":
		return t.handleSideCondition(parts)
	}
	return nil
}

func (t *Translator) handlePlayer(parts []string) {
	if len(parts) < 4 || parts[3] == "" {
		return
	}
	id, name := parts[2], parts[3]
	t.playerNames[id] = name
	if t.selfName != "" && name == t.selfName {
		t.claimSelf(id)
	}
}

// claimSelf pins the given player id to the self side and its counterpart
// to the opponent.
func (t *Translator) claimSelf(id string) {
	t.sides[id] = game.SideSelf
	other := "p2"
	if id == "p2" {
		other = "p1"
	}
	t.sides[other] = game.SideOpponent
}

// subject splits a "p1a: Nickname" position reference into the resolved
// side and the displayed name.
func (t *Translator) subject(pos string) (game.Side, string) {
	id, name, ok := strings.Cut(pos, ": ")
	if !ok {
		return game.SideUnknown, pos
	}
	if len(id) > 2 {
		id = id[:2]
	}
	side, ok := t.sides[id]
	if !ok {
		return game.SideUnknown, name
	}
	return side, name
}

// prefixed renders a subject the way narration does, with the opposing
// prefix for the far side.
func (t *Translator) prefixed(side game.Side, name string) string {
	if side == game.SideOpponent {
		return "The opposing " + name
	}
	return name
}

// narrate wraps synthesized narration in an ordered log line.
func (t *Translator) narrate(text string) []tracker.Observation {
	obs := tracker.LogLine{Index: t.logIndex, Text: text}
	t.logIndex++
	return []tracker.Observation{obs}
}

func (t *Translator) handleSwitch(parts []string) []tracker.Observation {
	if len(parts) < 4 {
		return nil
	}
	side, _ := t.subject(parts[2])
	// Keep the comma tokens; the canonicalizer strips gender and level
	// itself.
	species := parts[3]

	sighting := tracker.VisualSighting{Side: side, RawName: species}
	if len(parts) >= 5 {
		if pct, token, ok := parseCondition(parts[4]); ok {
			sighting.HP = &pct
			sighting.StatusToken = token
		}
	}

	obs := []tracker.Observation{sighting}
	display := species
	if i := strings.IndexByte(display, ','); i >= 0 {
		display = display[:i]
	}
	switch side {
	case game.SideSelf:
		obs = append(obs, t.narrate("Go! "+display+"!")...)
	case game.SideOpponent:
		if id, _, ok := strings.Cut(parts[2], ": "); ok && len(id) >= 2 {
			if player := t.playerNames[id[:2]]; player != "" {
				obs = append(obs, t.narrate(player+" sent out "+display+"!")...)
			}
		}
	}
	return obs
}

func (t *Translator) handleHPChange(parts []string) []tracker.Observation {
	if len(parts) < 4 {
		return nil
	}
	side, name := t.subject(parts[2])
	pct, token, ok := parseCondition(parts[3])
	if !ok {
		return nil
	}
	sighting := tracker.VisualSighting{Side: side, RawName: name, HP: &pct, StatusToken: token}
	if token == "fnt" {
		sighting.Fainted = true
	}
	return []tracker.Observation{sighting}
}

// parseCondition reads the "231/290 par" and "45/100" and "0 fnt" shapes
// into an HP percentage plus status token.
func parseCondition(cond string) (pct int, token string, ok bool) {
	fields := strings.Fields(cond)
	if len(fields) == 0 {
		return 0, "", false
	}
	if len(fields) > 1 {
		token = fields[1]
	}
	hpPart := fields[0]
	cur, max, found := strings.Cut(hpPart, "/")
	if !found {
		if n, err := strconv.Atoi(cur); err == nil {
			return n, token, true
		}
		return 0, "", false
	}
	c, err1 := strconv.Atoi(cur)
	m, err2 := strconv.Atoi(max)
	if err1 != nil || err2 != nil || m <= 0 {
		return 0, "", false
	}
	return c * 100 / m, token, true
}

var boostStatNames = map[string]string{
	"atk": "Attack",
	"def": "Defense",
	"spa": "Sp. Atk",
	"spd": "Sp. Def",
	"spe": "Speed",
}

var boostPhrases = map[int]string{1: "rose", 2: "rose sharply", 3: "rose drastically"}
var unboostPhrases = map[int]string{1: "fell", 2: "harshly fell", 3: "severely fell"}

func (t *Translator) handleBoost(parts []string) []tracker.Observation {
	if len(parts) < 5 {
		return nil
	}
	stat, ok := boostStatNames[parts[3]]
	if !ok {
		return nil
	}
	amount, err := strconv.Atoi(parts[4])
	if err != nil || amount <= 0 {
		return nil
	}
	if amount > 3 {
		amount = 3
	}
	phrases := boostPhrases
	if parts[1] == "-unboost" {
		phrases = unboostPhrases
	}
	side, name := t.subject(parts[2])
	return t.narrate(t.prefixed(side, name) + "'s " + stat + " " + phrases[amount] + "!")
}

var weatherNarration = map[string]string{
	"SunnyDay":  "The sunlight turned harsh!",
	"RainDance": "It started to rain!",
	"Sandstorm": "A sandstorm kicked up!",
	"Snow":      "It started to snow!",
	"Hail":      "It started to snow!",
}

var weatherEndNarration = map[string]string{
	"SunnyDay":  "The sunlight faded.",
	"RainDance": "The rain stopped.",
	"Sandstorm": "The sandstorm subsided.",
	"Snow":      "The snow stopped.",
	"Hail":      "The snow stopped.",
}

func (t *Translator) handleWeather(parts []string) []tracker.Observation {
	if len(parts) < 3 {
		return nil
	}
	cond := parts[2]
	if cond == "none" {
		if end, ok := weatherEndNarration[t.lastWeather]; ok {
			t.lastWeather = ""
			return t.narrate(end)
		}
		return nil
	}
	text, ok := weatherNarration[cond]
	if !ok {
		return nil
	}
	t.lastWeather = cond
	return t.narrate(text)
}

var terrainNarration = map[string]string{
	"Electric Terrain": "An electric current ran across the battlefield!",
	"Grassy Terrain":   "Grass grew to cover the battlefield!",
	"Psychic Terrain":  "The battlefield got weird!",
	"Misty Terrain":    "Mist swirled around the battlefield!",
}

var terrainEndNarration = map[string]string{
	"Electric Terrain": "The electricity disappeared from the battlefield.",
	"Grassy Terrain":   "The grass disappeared from the battlefield.",
	"Psychic Terrain":  "The weirdness disappeared from the battlefield.",
	"Misty Terrain":    "The mist disappeared from the battlefield.",
}

func (t *Translator) handleField(parts []string) []tracker.Observation {
	if len(parts) < 3 {
		return nil
	}
	effect := strings.TrimPrefix(parts[2], "move: ")
	if parts[1] == "-fieldstart" {
		if effect == "Trick Room" {
			subject := "The opposing Pokémon"
			for _, p := range parts[3:] {
				if rest, found := strings.CutPrefix(p, "[of] "); found {
					side, name := t.subject(rest)
					subject = t.prefixed(side, name)
				}
			}
			return t.narrate(subject + " twisted the dimensions!")
		}
		if text, ok := terrainNarration[effect]; ok {
			return t.narrate(text)
		}
		return nil
	}
	if effect == "Trick Room" {
		return t.narrate("The twisted dimensions returned to normal!")
	}
	if text, ok := terrainEndNarration[effect]; ok {
		return t.narrate(text)
	}
	return nil
}

var hazardPhrases = map[string]string{
	"Stealth Rock": "Pointed stones float in the air around %s team!",
	"Spikes":       "Spikes were scattered on the ground all around %s team!",
	"Toxic Spikes": "Poison spikes were scattered on the ground all around %s team!",
	"Sticky Web":   "A sticky web has been laid out on the ground around %s team!",
}

var hazardRemovedNames = map[string]string{
	"Stealth Rock": "pointed stones",
	"Spikes":       "spikes",
	"Toxic Spikes": "poison spikes",
	"Sticky Web":   "sticky web",
}

func (t *Translator) handleSideCondition(parts []string) []tracker.Observation {
	if len(parts) < 4 {
		return nil
	}
	id, _, _ := strings.Cut(parts[2], ":")
	phrase := "the opposing"
	if t.sides[id] == game.SideSelf {
		phrase = "your"
	}
	effect := strings.TrimPrefix(parts[3], "move: ")

	if parts[1] == "-sidestart" {
		if effect == "Tailwind" {
			return t.narrate("The Tailwind blew from behind " + phrase + " team!")
		}
		if tmpl, ok := hazardPhrases[effect]; ok {
			return t.narrate(strings.Replace(tmpl, "%s", phrase, 1))
		}
		return nil
	}
	if effect == "Tailwind" {
		owner := "The opposing"
		if phrase == "your" {
			owner = "Your"
		}
		return t.narrate(owner + " team's Tailwind petered out!")
	}
	if name, ok := hazardRemovedNames[effect]; ok {
		return t.narrate("The " + name + " disappeared from around " + phrase + " team!")
	}
	return nil
}

// request mirrors the JSON the simulator sends when it wants a decision.
type request struct {
	Active []struct {
		Moves []struct {
			Move     string `json:"move"`
			Type     string `json:"type"`
			Disabled bool   `json:"disabled"`
		} `json:"moves"`
	} `json:"active"`
	Side struct {
		Name    string `json:"name"`
		ID      string `json:"id"`
		Pokemon []struct {
			Ident     string `json:"ident"`
			Details   string `json:"details"`
			Condition string `json:"condition"`
			Active    bool   `json:"active"`
			Item      string `json:"item"`
			Ability   string `json:"ability"`
		} `json:"pokemon"`
	} `json:"side"`
	ForceSwitch []bool `json:"forceSwitch"`
	Wait        bool   `json:"wait"`
}

// handleRequest turns the decision request into a menu snapshot plus one
// sighting per own team member; the request is the structural channel that
// settles which wire side is ours.
func (t *Translator) handleRequest(payload string) []tracker.Observation {
	var req request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil
	}
	if req.Side.ID != "" {
		t.claimSelf(req.Side.ID)
		if req.Side.Name != "" {
			t.playerNames[req.Side.ID] = req.Side.Name
		}
	}
	if req.Wait {
		return nil
	}

	var obs []tracker.Observation
	menu := tracker.MenuSnapshot{}
	for _, fs := range req.ForceSwitch {
		if fs {
			menu.ForcedSwitch = true
		}
	}
	if len(req.Active) > 0 {
		for _, m := range req.Active[0].Moves {
			menu.Moves = append(menu.Moves, tracker.MenuMove{Name: m.Move, Type: m.Type, Disabled: m.Disabled})
		}
	}
	for _, p := range req.Side.Pokemon {
		pct, token, condOK := parseCondition(p.Condition)
		sighting := tracker.VisualSighting{
			Side:    game.SideSelf,
			RawName: p.Details,
			Item:    p.Item,
			Ability: p.Ability,
		}
		if condOK {
			sighting.HP = &pct
			sighting.StatusToken = token
			if token == "fnt" {
				sighting.Fainted = true
			}
		}
		obs = append(obs, sighting)
		if !p.Active && token != "fnt" {
			menu.SwitchCandidates = append(menu.SwitchCandidates, p.Details)
		}
	}
	return append(obs, menu)
}
