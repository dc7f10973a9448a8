// Package names turns raw observed text into canonical species identities.
// Raw names arrive from several surfaces (log narration, tooltips, menus)
// with nicknames, gender glyphs, level tags and inconsistent form spellings;
// everything downstream keys rosters by the canonical spelling produced here.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const minLen = 2

// Tokens that show up where a species name is expected but never identify
// one. An input that is only such a token is rejected outright.
var nonIdentityTokens = map[string]bool{
	"active": true, "fainted": true, "switch": true, "cancel": true,
	"choose": true, "waiting": true, "mega evolve": true, "terastallize": true,
	"ability": true, "item": true, "moves": true, "hp": true, "status": true,
	"burned": true, "poisoned": true, "badly poisoned": true, "paralyzed": true,
	"asleep": true, "frozen": true, "cursed": true, "confused": true,
	"brn": true, "psn": true, "tox": true, "par": true, "slp": true, "frz": true, "fnt": true,
}

// Regional form adjectives collapsed to their canonical suffix spelling.
var regionalSpellings = map[string]string{
	"alolan": "Alola", "alola": "Alola",
	"galarian": "Galar", "galar": "Galar",
	"hisuian": "Hisui", "hisui": "Hisui",
	"paldean": "Paldea", "paldea": "Paldea",
}

// Suffixes that change the creature competitively. These are never merged
// away, and the regional subset participates in Same's identity rule.
var distinctSuffixes = map[string]bool{
	"Mega": true, "Mega-X": true, "Mega-Y": true, "Primal": true,
	"Alola": true, "Galar": true, "Hisui": true, "Paldea": true,
	"Therian": true, "Origin": true, "Sky": true, "Crowned": true,
	"Rapid-Strike": true, "Single-Strike": true, "White": true, "Black": true,
	"Ice": true, "Shadow": true, "Hero": true, "Zen": true, "Galar-Zen": true, "School": true,
	"Wellspring": true, "Hearthflame": true, "Cornerstone": true,
	"Dusk": true, "Dawn": true, "Midnight": true, "Ultra": true,
	"Low-Key": true, "Hangry": true, "Complete": true, "Bloodmoon": true,
	"Heat": true, "Wash": true, "Frost": true, "Fan": true, "Mow": true,
}

var regionalTags = map[string]bool{
	"Alola": true, "Galar": true, "Hisui": true, "Paldea": true,
}

// Cosmetic-only form suffixes merged into the base species.
var cosmeticSuffixes = map[string]bool{
	"East": true, "West": true, "Spring": true, "Summer": true,
	"Autumn": true, "Winter": true, "Meteor": true, "Heart": true,
	"Star": true, "Diamond": true, "Debutante": true, "Matron": true,
	"Dandy": true, "La-Reine": true, "Kabuki": true, "Pharaoh": true,
	"Blue": true, "Orange": true, "Yellow": true, "Indigo": true,
	"Violet": true, "Plant": true,
}

var (
	parenRe = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)
	levelRe = regexp.MustCompile(`(?i),?\s*L(?:v\.?|evel)?\s*\d+`)

	foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	titleCaser      = cases.Title(language.English)
)

// fold strips combining marks so accented spellings collapse to ASCII.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

func isNonIdentity(s string) bool {
	return nonIdentityTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Normalize maps raw observed text to a canonical species identity. The
// second return is false when the input carries no creature at all; callers
// must treat that as "no creature" and mutate nothing.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(fold(raw))
	if s == "" || isNonIdentity(s) {
		return "", false
	}

	s = resolveParenthetical(s)
	s = stripGenderAndLevel(s)
	s = strings.TrimSpace(strings.Trim(s, ",-"))
	if len(s) < minLen || isNonIdentity(s) {
		return "", false
	}

	s = canonicalCase(s)
	s = normalizeRegional(s)
	s = mergeCosmetic(s)
	return s, true
}

// resolveParenthetical handles "Nickname (Species)" and "Species (active)".
// The parenthesized token wins when it looks like a species name; a pure UI
// token in parentheses is dropped instead.
func resolveParenthetical(s string) string {
	m := parenRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	outer, inner := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if looksLikeSpecies(inner) {
		return inner
	}
	if outer != "" {
		return outer
	}
	return s
}

func looksLikeSpecies(s string) bool {
	if len(s) < minLen || isNonIdentity(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' && r != ' ' && r != '.' && r != '\'' && !unicode.IsDigit(r) && r != '%' && r != ':' {
			return false
		}
	}
	return true
}

func stripGenderAndLevel(s string) string {
	s = strings.NewReplacer("♀", "", "♂", "").Replace(s)
	s = levelRe.ReplaceAllString(s, "")
	// Detail strings carry trailing ", M" / ", F" / ", shiny" tokens.
	parts := strings.Split(s, ",")
	kept := parts[:1]
	for _, p := range parts[1:] {
		t := strings.ToLower(strings.TrimSpace(p))
		if t == "m" || t == "f" || t == "shiny" || strings.HasPrefix(t, "tera:") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, ","))
}

func canonicalCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// normalizeRegional collapses every spelling of a regional form onto one
// canonical suffix: "Alolan Ninetales" and "Ninetales-Alolan" both become
// "Ninetales-Alola".
func normalizeRegional(s string) string {
	if base, rest, ok := strings.Cut(s, " "); ok {
		if tag, found := regionalSpellings[strings.ToLower(base)]; found && rest != "" {
			return rest + "-" + tag
		}
	}
	if i := strings.LastIndex(s, "-"); i > 0 {
		if tag, found := regionalSpellings[strings.ToLower(s[i+1:])]; found {
			return s[:i] + "-" + tag
		}
	}
	return s
}

// mergeCosmetic drops a trailing cosmetic-only form suffix unless that
// suffix is also competitively distinct.
func mergeCosmetic(s string) string {
	i := strings.LastIndex(s, "-")
	if i <= 0 {
		return s
	}
	suffix := s[i+1:]
	if cosmeticSuffixes[suffix] && !distinctSuffixes[suffix] && !regionalTags[suffix] {
		return s[:i]
	}
	return s
}

// suffixOf returns the recognized form suffix of a canonical name, or "".
func suffixOf(s string) string {
	for i := strings.Index(s, "-"); i > 0; i = nextDash(s, i) {
		tail := s[i+1:]
		if distinctSuffixes[tail] || regionalTags[tail] || cosmeticSuffixes[tail] {
			return tail
		}
	}
	return ""
}

func nextDash(s string, from int) int {
	j := strings.Index(s[from+1:], "-")
	if j < 0 {
		return -1
	}
	return from + 1 + j
}

// Base returns the species portion of a canonical name with any recognized
// form suffix removed. Hyphens inside real species names survive because
// their tails are not recognized suffixes.
func Base(s string) string {
	if suf := suffixOf(s); suf != "" {
		return strings.TrimSuffix(s, "-"+suf)
	}
	return s
}

// RegionalTag returns the regional suffix of a canonical name, or "".
func RegionalTag(s string) string {
	suf := suffixOf(s)
	if suf == "" {
		return ""
	}
	// A regional tag can sit ahead of a further mechanic suffix (Galar-Zen).
	first, _, _ := strings.Cut(suf, "-")
	if regionalTags[first] {
		return first
	}
	if regionalTags[suf] {
		return suf
	}
	return ""
}

// Same reports whether two raw names refer to the same creature: equal
// after normalization, or same base species with matching regional-suffix
// presence and value. A regional suffix on only one side always separates
// them, even with identical base species.
func Same(a, b string) bool {
	na, ok := Normalize(a)
	if !ok {
		return false
	}
	nb, ok := Normalize(b)
	if !ok {
		return false
	}
	if na == nb {
		return true
	}
	return Base(na) == Base(nb) && RegionalTag(na) == RegionalTag(nb)
}

// MoreSpecific reports whether candidate names the same creature as stored
// but with a more precise form, so the stored roster key should upgrade.
func MoreSpecific(stored, candidate string) bool {
	return candidate != stored && strings.HasPrefix(candidate, stored+"-") && Same(stored, candidate)
}
