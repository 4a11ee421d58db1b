// Package presence implements the noun registry: the mutable entity table
// tracking every noun discovered in a script, its authoritative type under
// the promotion lattice THING < LOCATION < CHARACTER, and every recorded
// occurrence, cross-indexed by name and by scene.
package presence

import (
	"fmt"
	"sort"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
)

// NounType is the kind of entity a name refers to. The order of the
// constants is the promotion lattice.
type NounType int

const (
	Thing NounType = iota
	Location
	Character
)

var nounNames = []string{"THING", "LOCATION", "CHARACTER"}

func (t NounType) String() string {
	if int(t) < len(nounNames) {
		return nounNames[t]
	}
	return "THING"
}

// MarshalJSON emits the noun type as its string name.
func (t NounType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Type is how a noun occurred at a point in the script.
type Type int

const (
	Setting Type = iota
	Discuss
	Mention
	Appear
)

var typeNames = []string{"SETTING", "DISCUSS", "MENTION", "APPEAR"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "SETTING"
}

// MarshalJSON emits the presence type as its string name.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Presence is one occurrence of a noun at a point in the script.
// NounType is the authoritative type at the time of recording.
// DialogWords is only filled in for DISCUSS presences, by a late
// bookkeeping pass; presences are otherwise never mutated.
type Presence struct {
	Name        string       `json:"name"`
	NounType    NounType     `json:"noun_type"`
	Type        Type         `json:"presence_type"`
	Where       script.Where `json:"where"`
	DialogWords int          `json:"dialog_words,omitempty"`
}

// Entry is the per-name registry record: the authoritative noun type and
// the name's presences grouped by scene.
type Entry struct {
	Type   NounType
	Scenes map[string][]*Presence
}

// Set is the noun registry. It owns the append-only presence log and the
// two derived indices (by name, by scene); every insert goes through Add
// so the indices stay consistent.
type Set struct {
	All []*Presence

	byName  map[string]*Entry
	byScene map[string]map[string][]*Presence

	diags   *diag.List
	version int // bumped when the name set changes
}

// NewSet creates an empty registry. diags may be nil.
func NewSet(diags *diag.List) *Set {
	return &Set{
		byName:  make(map[string]*Entry),
		byScene: make(map[string]map[string][]*Presence),
		diags:   diags,
	}
}

// Add appends a presence and updates both indices. For a known name the
// authoritative type is recomputed via promotion; an illegal
// CHARACTER->LOCATION attempt is rejected with a semantic diagnostic and
// the registry keeps its prior state.
func (s *Set) Add(p *Presence) {
	s.All = append(s.All, p)

	sceneID := p.Where.SceneID

	entry, ok := s.byName[p.Name]
	if !ok {
		entry = &Entry{Type: p.NounType, Scenes: make(map[string][]*Presence)}
		s.byName[p.Name] = entry
		s.version++
	}
	entry.Scenes[sceneID] = append(entry.Scenes[sceneID], p)
	entry.Type = s.promote(entry.Type, p.NounType, p)

	if s.byScene[sceneID] == nil {
		s.byScene[sceneID] = make(map[string][]*Presence)
	}
	s.byScene[sceneID][p.Name] = append(s.byScene[sceneID][p.Name], p)
}

// promote applies the type lattice. Legal: THING->LOCATION,
// THING->CHARACTER, LOCATION->CHARACTER. CHARACTER->LOCATION is a
// semantic conflict; downgrades are silently ignored.
func (s *Set) promote(old, next NounType, p *Presence) NounType {
	switch {
	case old == Thing && (next == Location || next == Character):
		return next
	case old == Location && next == Character:
		return next
	case old == Character && next == Location:
		s.diags.Add(diag.Diagnostic{
			Kind:    diag.Semantic,
			PageNo:  p.Where.PageNo,
			LineNo:  p.Where.LineNo,
			Text:    p.Name,
			Message: fmt.Sprintf("detected character %q in a location context", p.Name),
		})
		return old
	default:
		return old
	}
}

// Known reports whether a name has been registered.
func (s *Set) Known(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// TypeOf returns the authoritative type of a registered name.
func (s *Set) TypeOf(name string) (NounType, bool) {
	if e, ok := s.byName[name]; ok {
		return e.Type, true
	}
	return Thing, false
}

// TypeOr returns the authoritative type, or def for unseen names.
func (s *Set) TypeOr(name string, def NounType) NounType {
	if t, ok := s.TypeOf(name); ok {
		return t
	}
	return def
}

// Names returns all registered names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entry returns the registry record for a name, or nil.
func (s *Set) Entry(name string) *Entry {
	return s.byName[name]
}

// InScene returns the presences of one scene grouped by name.
func (s *Set) InScene(sceneID string) map[string][]*Presence {
	return s.byScene[sceneID]
}

// FirstInScene returns a name's first presence within a scene, or nil.
func (s *Set) FirstInScene(sceneID, name string) *Presence {
	if ps := s.byScene[sceneID][name]; len(ps) > 0 {
		return ps[0]
	}
	return nil
}

// Version increases whenever a new name is first registered. The name
// matcher uses it to know when its automaton is stale.
func (s *Set) Version() int {
	return s.version
}
