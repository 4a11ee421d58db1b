// Package extract implements the extraction engine: the two-pass walk
// over the parsed document tree that populates the noun registry and the
// interaction graph. Pass one covers scene headings and dialog, pass two
// covers action and direction text, and a final bookkeeping step fills in
// per-speaker dialog word counts.
package extract

import (
	"fmt"
	"strings"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/classify"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/interaction"
	"github.com/correosdelbosque/tsl/pkg/script/presence"
	"github.com/correosdelbosque/tsl/pkg/script/segment"
	"github.com/correosdelbosque/tsl/pkg/script/sentence"
)

// Result is everything one parse produces.
type Result struct {
	Doc   *segment.Structure
	Nouns *presence.Set
	Links *interaction.Graph
}

type engine struct {
	mode  script.Mode
	lines []script.Line
	doc   *segment.Structure

	set   *presence.Set
	graph *interaction.Graph
	diags *diag.List

	splitter sentence.Splitter
	matcher  *NameMatcher

	// scene id -> location presence established in pass one; nil when the
	// scene's heading named no usable location.
	locations map[string]*presence.Presence
}

// Run parses the lines into a document tree and extracts its nouns and
// interactions. Diagnostics from every stage land on diags; Run itself
// never fails.
func Run(lines []script.Line, mode script.Mode, diags *diag.List) *Result {
	doc := segment.Parse(lines, mode, diags)

	set := presence.NewSet(diags)
	e := &engine{
		mode:      mode,
		lines:     lines,
		doc:       doc,
		set:       set,
		graph:     interaction.NewGraph(diags),
		diags:     diags,
		splitter:  sentence.New(),
		matcher:   NewNameMatcher(set),
		locations: make(map[string]*presence.Presence),
	}

	e.passDialog()
	e.passAction()

	return &Result{Doc: doc, Nouns: e.set, Links: e.graph}
}

func (e *engine) content(lineNo int) string {
	if lineNo < 1 || lineNo > len(e.lines) {
		return ""
	}
	return e.lines[lineNo-1].Content
}

func (e *engine) page(lineNo int) int {
	if lineNo < 1 || lineNo > len(e.lines) {
		return 0
	}
	return e.lines[lineNo-1].PageNo
}

func (e *engine) where(sceneID string, lineNo int) script.Where {
	return script.Where{SceneID: sceneID, PageNo: e.page(lineNo), LineNo: lineNo}
}

// =============================================================================
// Pass one: headings and dialog
// =============================================================================

// passDialog establishes each scene's location from its heading, then
// works through the scene's dialog blocks: speakers become DISCUSS
// character presences, their spoken text is extracted as MENTION, and
// every speaker pair in a block gets one DISCUSS interaction.
func (e *engine) passDialog() {
	for _, id := range e.doc.SceneIDs() {
		sc := e.doc.Scene(id)

		loc := e.sceneLocation(id, sc)
		e.locations[id] = loc

		for _, b := range sc.Blocks {
			if b.Type == classify.BlockDialog {
				e.dialogBlock(id, b, loc)
			}
		}
	}
}

// sceneLocation registers the heading's location presence. A heading
// whose derived name is already known as a character is rejected: no
// presence is registered and the scene carries no location of its own,
// so pass two falls back to the previous scene's.
func (e *engine) sceneLocation(sceneID string, sc *segment.Scene) *presence.Presence {
	heading := e.content(sc.HeadingLine)
	name := SceneLocationName(heading)
	if name == "" {
		e.diags.Add(diag.Diagnostic{
			Kind:    diag.Lookup,
			PageNo:  e.page(sc.HeadingLine),
			LineNo:  sc.HeadingLine,
			Text:    heading,
			Message: "scene heading names no location",
		})
		return nil
	}
	if t, ok := e.set.TypeOf(name); ok && t == presence.Character {
		e.diags.Add(diag.Diagnostic{
			Kind:    diag.Semantic,
			PageNo:  e.page(sc.HeadingLine),
			LineNo:  sc.HeadingLine,
			Text:    heading,
			Message: fmt.Sprintf("scene heading names known character %q; no location set", name),
		})
		return nil
	}

	p := &presence.Presence{
		Name:     name,
		NounType: presence.Location,
		Type:     presence.Setting,
		Where:    e.where(sceneID, sc.HeadingLine),
	}
	e.set.Add(p)
	return p
}

// dialogBlock walks one dialog block line by line. Each header line
// closes the previous speaker's run (extracting its text) and opens a
// new one; the header's own words count toward the speaker's dialog
// total alongside the run.
func (e *engine) dialogBlock(sceneID string, b *segment.Block, loc *presence.Presence) {
	var speaker *presence.Presence
	var speakers []*presence.Presence
	headerLine := 0
	runStart := 0

	// The run is extracted even when the header named no speaker; only
	// the word count and the speaker link need one.
	flush := func(endLine int) {
		if speaker != nil {
			words := 0
			for n := headerLine; n <= endLine; n++ {
				words += script.Words(e.content(n))
			}
			speaker.DialogWords = words
		}
		if runStart > 0 && runStart <= endLine {
			e.extractRange(sceneID, runStart, endLine, presence.Mention, speaker, loc)
		}
	}

	for _, n := range b.LineNumbers() {
		if b.LineTypes[n] != classify.LineDialogHeader {
			continue
		}
		flush(n - 1)

		name := CharacterName(e.content(n))
		if name == "" {
			e.diags.Add(diag.Diagnostic{
				Kind:    diag.Grammar,
				PageNo:  e.page(n),
				LineNo:  n,
				Text:    e.content(n),
				Message: "dialog header names no speaker",
			})
			speaker = nil
			headerLine = 0
			runStart = n + 1
			continue
		}

		p := &presence.Presence{
			Name:     name,
			NounType: presence.Character,
			Type:     presence.Discuss,
			Where:    e.where(sceneID, n),
		}
		e.set.Add(p)
		if loc != nil {
			e.graph.Record(p, loc, p.Where, interaction.Setting)
		}

		speakers = append(speakers, p)
		speaker = p
		headerLine = n
		runStart = n + 1
	}
	flush(b.LastLine)

	// One DISCUSS interaction per distinct speaker pair, pinned to the
	// earlier speaker's header.
	seen := make(map[[2]string]bool)
	for i := 0; i < len(speakers); i++ {
		for j := i + 1; j < len(speakers); j++ {
			a, c := speakers[i], speakers[j]
			if a.Name == c.Name {
				continue
			}
			key := pairKey(a.Name, c.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			e.graph.Record(a, c, a.Where, interaction.Discuss)
		}
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// =============================================================================
// Pass two: action and direction text
// =============================================================================

// passAction extracts APPEAR presences from action and direction blocks.
// The scene location is re-resolved against the now-complete registry: a
// name that was a location when pass one read the heading may since have
// been promoted to CHARACTER by a dialog header. A scene without a usable
// location of its own inherits the previous scene's, so setting links
// never silently vanish mid-script.
func (e *engine) passAction() {
	var prior *presence.Presence
	for _, id := range e.doc.SceneIDs() {
		sc := e.doc.Scene(id)

		loc := e.locations[id]
		if loc != nil {
			if t, ok := e.set.TypeOf(loc.Name); ok && t == presence.Character {
				e.diags.Add(diag.Diagnostic{
					Kind:    diag.Semantic,
					PageNo:  e.page(sc.HeadingLine),
					LineNo:  sc.HeadingLine,
					Text:    e.content(sc.HeadingLine),
					Message: fmt.Sprintf("scene location %q now resolves to a character; no location set", loc.Name),
				})
				loc = nil
			}
		}
		if loc == nil {
			loc = prior
		}
		prior = loc

		for _, b := range sc.Blocks {
			if b.Type == classify.BlockAction || b.Type == classify.BlockDirection {
				e.extractRange(id, b.FirstLine, b.LastLine, presence.Appear, nil, loc)
			}
		}
	}
}

// =============================================================================
// Free-text extraction
// =============================================================================

// linkKind maps a presence type to the interaction kind used for
// same-sentence pairwise links.
func linkKind(t presence.Type) interaction.Kind {
	switch t {
	case presence.Setting:
		return interaction.Setting
	case presence.Discuss:
		return interaction.Discuss
	case presence.Mention:
		return interaction.Mention
	default:
		return interaction.Appear
	}
}

// extractRange scans a line range sentence by sentence for noun
// occurrences. Each occurrence becomes a presence pinned to the exact
// line it occurred on, linked to the scene location (SETTING), to the
// speaker when one is given (MENTION), and to every other noun in the
// same sentence under the range's own kind.
//
// Lines are whitespace-normalized before the offset table is built, so
// flattening the range into one string is length-preserving and match
// offsets map back to lines without drift.
func (e *engine) extractRange(sceneID string, first, last int, kind presence.Type, speaker, loc *presence.Presence) {
	if first > last {
		return
	}

	norm := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		norm = append(norm, collapse(e.content(n)))
	}
	offsets := NewLineOffsets(norm)
	flat := strings.Join(norm, " ")

	for _, span := range e.splitter.Split(flat) {
		sent := span.Slice(flat)

		var extra []string
		if e.mode == script.Fuzzy {
			extra = Discover(sent, e.set)
		}

		var found []*presence.Presence
		for _, h := range e.matcher.Find(sent, extra) {
			lineNo := first
			if idx, ok := offsets.LineFor(span.Start + h.Start); ok {
				lineNo = first + idx
			} else {
				e.diags.Add(diag.Diagnostic{
					Kind:    diag.Lookup,
					PageNo:  e.page(first),
					LineNo:  first,
					Text:    h.Name,
					Message: "match offset outside the line table; pinned to range start",
				})
			}

			w := e.where(sceneID, lineNo)
			p := &presence.Presence{
				Name:     h.Name,
				NounType: e.set.TypeOr(h.Name, presence.Thing),
				Type:     kind,
				Where:    w,
			}
			e.set.Add(p)

			if loc != nil {
				e.graph.Record(p, loc, w, interaction.Setting)
			}
			if speaker != nil {
				e.graph.Record(p, speaker, w, interaction.Mention)
			}
			// Pair links carry the earlier occurrence's position.
			for _, q := range found {
				e.graph.Record(q, p, q.Where, linkKind(kind))
			}
			found = append(found, p)
		}
	}
}
