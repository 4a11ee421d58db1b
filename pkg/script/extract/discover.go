package extract

import (
	"regexp"
	"strings"

	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

// =============================================================================
// Fuzzy noun discovery
// =============================================================================
// In fuzzy mode the extractor does not rely on the registry alone: every
// run of capitalized text in a sentence is a noun candidate. Candidates
// are cleaned and filtered, then handed to the matcher as per-sentence
// extra patterns so their occurrences get exact offsets like any
// registered name.

var capsRun = regexp.MustCompile(`\b[A-Z][A-Z0-9\s.\-']+\b`)

// stopWords filters capitalized runs that are screenplay boilerplate or
// sentence-leading function words rather than nouns.
var stopWords = map[string]bool{
	"AND": true, "OR": true, "BUT": true, "IF": true, "THEN": true,
	"THE": true, "OF": true, "TO": true, "IN": true, "ON": true,
	"AT": true, "BY": true, "FOR": true, "WITH": true, "FROM": true,
	"IS": true, "IT": true, "AS": true, "BE": true, "WAS": true,
	"HE": true, "SHE": true, "WE": true, "YOU": true, "THEY": true,
	"NO": true, "NOT": true, "YES": true, "OK": true, "O.S.": true,
	"V.O.": true, "CONT'D": true, "CONTINUED": true, "MORE": true,
	"CUT TO": true, "CUT TO:": true, "FADE IN": true, "FADE OUT": true,
	"DISSOLVE TO": true, "SMASH CUT TO": true, "ANGLE ON": true,
	"CLOSE ON": true, "POV": true, "INT": true, "EXT": true,
}

// CleanDiscoveredName normalizes one capitalized run into a noun
// candidate. An empty result means the run is not a usable name.
func CleanDiscoveredName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" || name == "A" || name == "I" {
		return ""
	}
	// A run ending at an apostrophe is a truncated possessive.
	if strings.HasSuffix(name, "'") {
		return ""
	}
	// Sentence-leading "A DOG barks" / "I HEARD" captures the article or
	// pronoun into the run.
	for _, pre := range []string{"A ", "I "} {
		if strings.HasPrefix(name, pre) {
			name = strings.TrimSpace(name[len(pre):])
		}
	}
	name = StripLeadingThe(name)
	if name == "" || stopWords[name] {
		return ""
	}
	return name
}

// Discover returns the cleaned capitalized-run candidates of one sentence
// that the registry does not already know, deduplicated, in order of
// first appearance.
func Discover(text string, set *presence.Set) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range capsRun.FindAllString(text, -1) {
		name := CleanDiscoveredName(raw)
		if name == "" || seen[name] || set.Known(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
