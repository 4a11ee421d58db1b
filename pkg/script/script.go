// Package script defines the shared data model for screenplay parsing:
// the input line records, source positions, and the parser mode switch.
package script

import (
	"fmt"
	"strings"
)

// Line is one raw screenplay line as supplied by the loader.
// LineNo is 1-based and strictly increasing across the whole script,
// PageNo is non-decreasing, Content is the raw text without its
// trailing newline. The parser never mutates Line values.
type Line struct {
	LineNo  int    `json:"line_no"`
	PageNo  int    `json:"page_no"`
	Content string `json:"content"`
}

// Where pins a presence or interaction to a point in the script.
// SceneID is the stringified scene number (numeric sort order).
type Where struct {
	SceneID string `json:"scene_id"`
	PageNo  int    `json:"page_no"`
	LineNo  int    `json:"line_no"`
}

// Mode selects parsing strictness. It controls scene-heading detection
// (Strict requires an INT./EXT. marker) and whether free-text noun
// discovery runs. A Mode must stay fixed for the duration of one parse.
type Mode int

const (
	Strict Mode = iota
	Fuzzy
)

func (m Mode) String() string {
	if m == Fuzzy {
		return "fuzzy"
	}
	return "strict"
}

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "fuzzy":
		return Fuzzy, nil
	default:
		return Strict, fmt.Errorf("unknown mode %q (want strict or fuzzy)", s)
	}
}

// Words counts whitespace-delimited tokens in a line of text.
func Words(s string) int {
	return len(strings.Fields(s))
}
