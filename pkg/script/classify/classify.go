// Package classify implements the screenplay line classifier: a pure
// function mapping one raw line (plus one line of lookahead and the prior
// classification) to a block/line type pair. It fails closed into ERROR
// classifications with a grammar diagnostic instead of raising, so the
// caller always receives a value and the parse always continues.
package classify

import (
	"strings"
	"unicode"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
)

// BlockType labels a maximal run of consecutive lines sharing one
// structural classification.
type BlockType int

const (
	BlockFront BlockType = iota
	BlockEmpty
	BlockAction
	BlockSceneHeading
	BlockDialog
	BlockDirection
	BlockPageNum
	BlockError
)

var blockNames = []string{"FRONT", "EMPTY", "ACTION", "SCENE_HEADING", "DIALOG", "DIRECTION", "PAGE_NUM", "ERROR"}

func (b BlockType) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return "ERROR"
}

// MarshalJSON emits the block type as its string name.
func (b BlockType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// LineType is the finer per-line classification inside a block.
type LineType int

const (
	LineFront LineType = iota
	LineEmpty
	LineAction
	LineSceneHeading
	LineDialog
	LineDialogHeader
	LineDirection
	LinePageNum
	LineContinued
	LineResumed
	LineError
)

var lineNames = []string{"FRONT", "EMPTY", "ACTION", "SCENE_HEADING", "DIALOG", "DIALOG_HEADER", "DIRECTION", "PAGE_NUM", "CONTINUED", "RESUMED", "ERROR"}

func (l LineType) String() string {
	if int(l) < len(lineNames) {
		return lineNames[l]
	}
	return "ERROR"
}

// MarshalJSON emits the line type as its string name.
func (l LineType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// Classification is the (block type, line type) pair produced for each
// line. It is a pure function of the line, its lookahead, and the prior
// classification; it carries no identity of its own.
type Classification struct {
	Block BlockType `json:"block"`
	Line  LineType  `json:"line"`
}

func (c Classification) String() string {
	return c.Block.String() + "/" + c.Line.String()
}

// Front is the classification the segmenter seeds the stream with.
var Front = Classification{BlockFront, LineFront}

// =============================================================================
// Detection predicates
// =============================================================================
// All predicates are whitespace/case heuristics over a single line's raw
// text, independent of the surrounding lines.

// isEmptyLine: nothing but whitespace.
func isEmptyLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return true
		}
	}
	return false
}

// headingShape: begins with a non-whitespace, non-lowercase character and
// contains no lowercase characters anywhere (minimum two characters).
func headingShape(line string) bool {
	if len(line) < 2 {
		return false
	}
	first := []rune(line)[0]
	if unicode.IsSpace(first) || unicode.IsLower(first) {
		return false
	}
	return !hasLower(line)
}

// IsSceneHeading reports whether a line looks like a scene heading.
// Strict mode additionally requires an interior/exterior marker prefix.
func IsSceneHeading(line string, mode script.Mode) bool {
	if !headingShape(line) {
		return false
	}
	if mode == script.Strict {
		return strings.HasPrefix(line, "INTERIOR") ||
			strings.HasPrefix(line, "EXTERIOR") ||
			strings.HasPrefix(line, "INT.") ||
			strings.HasPrefix(line, "EXT.")
	}
	return hasWordChar(line)
}

// isStartContinue: a line containing only a parenthesized CONTINUED token,
// marking the start of a page break.
func isStartContinue(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || len(s) < 2 {
		return false
	}
	return strings.TrimSpace(s[1:len(s)-1]) == "CONTINUED"
}

// isEndContinue: "CONTINUED:" optionally followed by a bare or
// parenthesized page number, marking the end of a page break.
func isEndContinue(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "CONTINUED:") {
		return false
	}
	rest := strings.TrimSpace(s[len("CONTINUED:"):])
	if rest == "" {
		return true
	}
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") && len(rest) > 2 {
		rest = rest[1 : len(rest)-1]
	}
	return allDigits(rest)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isPageNum: whitespace, a bare integer, and an optional period.
func isPageNum(line string) bool {
	i := leadingSpace(line)
	if i == 0 {
		return false
	}
	rest := strings.TrimSuffix(line[i:], ".")
	return allDigits(rest)
}

// isDirection: leading whitespace, then non-lowercase text ending in a colon.
func isDirection(line string) bool {
	i := leadingSpace(line)
	if i == 0 {
		return false
	}
	body := line[i:]
	if len(body) < 2 || !strings.HasSuffix(body, ":") {
		return false
	}
	return !hasLower(body)
}

// isAction: begins with a non-whitespace character.
func isAction(line string) bool {
	if line == "" {
		return false
	}
	return !unicode.IsSpace([]rune(line)[0])
}

// isDialogHeader: leading whitespace then non-lowercase text filling the
// rest of the line.
func isDialogHeader(line string) bool {
	if len(line) < 2 || leadingSpace(line) == 0 {
		return false
	}
	return !hasLower(line)
}

// isDialog: begins with whitespace (anything that is not action).
func isDialog(line string) bool {
	return !isAction(line)
}

func leadingSpace(line string) int {
	for i, r := range line {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return len(line)
}

// =============================================================================
// Transition policy
// =============================================================================

func grammar(msg, line string, prior Classification) *diag.Diagnostic {
	return &diag.Diagnostic{
		Kind:    diag.Grammar,
		Text:    line,
		Prior:   prior.String(),
		Message: msg,
	}
}

// Classify maps a line to its classification given one line of lookahead
// (hasNext reports whether next is meaningful) and the prior line's
// classification. Rule violations return an ERROR classification together
// with a non-fatal diagnostic; Classify never fails outright.
func Classify(line, next string, hasNext bool, prior Classification, mode script.Mode) (Classification, *diag.Diagnostic) {
	// Front matter absorbs everything before the first scene heading.
	if prior.Block == BlockFront && !IsSceneHeading(line, mode) {
		if isDirection(line) {
			// Line-level error: a direction needs a preceding empty
			// line even ahead of the first scene. The block type stays
			// FRONT so the stream continues in front-matter context.
			return Classification{BlockFront, LineError},
				grammar("direction must follow an empty line", line, prior)
		}
		if isEmptyLine(line) {
			return Classification{BlockFront, LineEmpty}, nil
		}
		return Classification{BlockFront, LineFront}, nil
	}

	// Page-break markers preserve the running block across pages.
	if isStartContinue(line) {
		return Classification{prior.Block, LineContinued}, nil
	}
	if prior.Line == LineContinued {
		if isEndContinue(line) {
			return Classification{prior.Block, LineResumed}, nil
		}
		return Classification{prior.Block, LineContinued}, nil
	}

	if isPageNum(line) {
		return Classification{BlockPageNum, LinePageNum}, nil
	}

	if isEmptyLine(line) {
		if prior.Block == BlockDialog && prior.Line == LineDialogHeader {
			return Classification{BlockError, LineEmpty},
				grammar("empty line cannot follow a dialog header", line, prior)
		}
		// A blank separator stays inside one continuous dialog exchange
		// only when the next line is itself a header, or the dialog just
		// resumed after a page break.
		if prior.Block == BlockDialog && prior.Line == LineDialog && hasNext && isDialogHeader(next) {
			return Classification{BlockDialog, LineEmpty}, nil
		}
		if prior.Block == BlockDialog && prior.Line == LineResumed {
			return Classification{BlockDialog, LineEmpty}, nil
		}
		return Classification{BlockEmpty, LineEmpty}, nil
	}

	if isDirection(line) {
		if prior.Line != LineEmpty {
			return Classification{BlockError, LineDirection},
				grammar("direction must follow an empty line", line, prior)
		}
		return Classification{BlockDirection, LineDirection}, nil
	}

	if IsSceneHeading(line, mode) {
		// All-caps action text would otherwise look like a heading.
		if (hasNext && isAction(next)) || prior.Block == BlockAction {
			return Classification{BlockAction, LineAction}, nil
		}
		if prior.Block == BlockEmpty || prior.Block == BlockFront || prior.Line == LineEmpty {
			return Classification{BlockSceneHeading, LineSceneHeading}, nil
		}
		return Classification{BlockError, LineSceneHeading},
			grammar("scene heading must follow an empty line or front matter", line, prior)
	}

	if isAction(line) {
		if prior.Block == BlockEmpty || prior.Block == BlockAction || prior.Line == LineEmpty {
			return Classification{BlockAction, LineAction}, nil
		}
		return Classification{BlockError, LineAction},
			grammar("action must follow an empty line or action", line, prior)
	}

	if isDialogHeader(line) {
		// All-caps dialog body arrives here; keep it as dialog content.
		if prior.Line == LineDialog || prior.Line == LineDialogHeader {
			return Classification{BlockDialog, LineDialog}, nil
		}
		if (prior.Block == BlockEmpty || prior.Block == BlockDialog) && prior.Line == LineEmpty {
			return Classification{BlockDialog, LineDialogHeader}, nil
		}
		return Classification{BlockError, LineDialogHeader},
			grammar("dialog header must follow an empty line or dialog", line, prior)
	}

	if isDialog(line) {
		if prior.Block == BlockDialog && (prior.Line == LineDialogHeader || prior.Line == LineDialog) {
			return Classification{BlockDialog, LineDialog}, nil
		}
		return Classification{BlockError, LineDialog},
			grammar("dialog must follow a dialog header or dialog", line, prior)
	}

	return Classification{BlockError, LineError},
		grammar("unhandled line type", line, prior)
}
