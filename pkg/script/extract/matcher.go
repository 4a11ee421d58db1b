package extract

import (
	"sort"

	aho_corasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

// NameHit is one occurrence of a registered (or just-discovered) name in
// a sentence. Name is the canonical registered spelling regardless of the
// matched text's case; Start is a byte offset into the searched text.
type NameHit struct {
	Name  string
	Start int
}

// NameMatcher finds every occurrence of the registry's names in free
// text with a single Aho-Corasick pass. The automaton over the registered
// names is cached and rebuilt only when the registry's name set changes;
// per-sentence discovery extras force a throwaway rebuild for that call.
type NameMatcher struct {
	set *presence.Set

	ac      aho_corasick.AhoCorasick
	names   []string
	version int
	built   bool
}

// NewNameMatcher creates a matcher over the given registry.
func NewNameMatcher(set *presence.Set) *NameMatcher {
	return &NameMatcher{set: set}
}

// buildAutomaton compiles the patterns. StandardMatch is required for
// IterOverlapping; whole-word matching keeps a short name from firing
// inside a longer word.
func buildAutomaton(patterns []string) aho_corasick.AhoCorasick {
	b := aho_corasick.NewAhoCorasickBuilder(aho_corasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            aho_corasick.StandardMatch,
	})
	return b.Build(patterns)
}

// refresh rebuilds the cached automaton when the registry gained names
// since the last call.
func (m *NameMatcher) refresh() []string {
	if m.built && m.version == m.set.Version() {
		return m.names
	}
	m.names = m.set.Names()
	m.version = m.set.Version()
	m.built = true
	if len(m.names) > 0 {
		m.ac = buildAutomaton(m.names)
	}
	return m.names
}

// Find returns every occurrence of a registered name or an extra pattern
// in text, deduplicated by (name, start) and ordered by start offset,
// then name. Overlapping occurrences are all reported.
func (m *NameMatcher) Find(text string, extra []string) []NameHit {
	registered := m.refresh()

	names := registered
	ac := m.ac
	if len(extra) > 0 {
		names = make([]string, 0, len(registered)+len(extra))
		names = append(names, registered...)
		names = append(names, extra...)
		ac = buildAutomaton(names)
	}
	if len(names) == 0 {
		return nil
	}

	seen := make(map[NameHit]bool)
	var hits []NameHit

	iter := ac.IterOverlapping(text)
	for {
		mt := iter.Next()
		if mt == nil {
			break
		}
		if mt.Pattern() >= len(names) {
			continue
		}
		h := NameHit{Name: names[mt.Pattern()], Start: mt.Start()}
		if seen[h] {
			continue
		}
		seen[h] = true
		hits = append(hits, h)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		return hits[i].Name < hits[j].Name
	})
	return hits
}
