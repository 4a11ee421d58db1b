package extract

import (
	"regexp"
	"strings"
)

// =============================================================================
// Name normalization
// =============================================================================

var (
	leadingDashes = regexp.MustCompile(`^\s*-+\s*`)
	trailingQual  = regexp.MustCompile(`-+[^-]*$`)
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	innerSpace    = regexp.MustCompile(`[\t ]+`)
)

// StripLeadingThe removes a leading "THE " article unless nothing would
// remain of the name.
func StripLeadingThe(name string) string {
	if strings.HasPrefix(name, "THE ") {
		if rest := strings.TrimSpace(name[4:]); rest != "" {
			return rest
		}
	}
	return name
}

// SceneLocationName derives the location name from a scene heading:
// the interior/exterior marker, decorative dashes, the trailing
// time-of-day qualifier, and a leading article are all stripped.
// An empty result means the heading named no location.
func SceneLocationName(heading string) string {
	s := strings.TrimSpace(heading)
	switch {
	case strings.HasPrefix(s, "INTERIOR"), strings.HasPrefix(s, "EXTERIOR"):
		s = s[len("INTERIOR"):]
	case strings.HasPrefix(s, "INT."), strings.HasPrefix(s, "EXT."):
		s = s[len("INT."):]
	}
	s = leadingDashes.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, " \t")
	// "KITCHEN - NIGHT" keeps only the location; the anchored pattern
	// matches the final dash group so inner dashes survive.
	s = trailingQual.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return StripLeadingThe(s)
}

// CharacterName derives the speaker name from a dialog header by
// dropping parentheticals like (V.O.) or (CONT'D). An empty result means
// the header named no speaker.
func CharacterName(header string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(header, ""))
}

// collapse normalizes one line for extraction: inner runs of spaces and
// tabs become a single space and the ends are trimmed. Normalizing
// before offsets are computed keeps the offset table exact.
func collapse(line string) string {
	return strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
}
