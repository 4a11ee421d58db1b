// Package interaction implements the pairwise interaction graph over
// registered nouns. The graph owns the append-only interaction log and
// two derived indices (by participant name, by scene); each insert
// updates all four index paths symmetrically in one place.
package interaction

import (
	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

// Kind is the nature of an interaction.
type Kind int

const (
	Setting Kind = iota
	Discuss
	Mention
	Appear
)

var kindNames = []string{"SETTING", "DISCUSS", "MENTION", "APPEAR"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "SETTING"
}

// MarshalJSON emits the kind as its string name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Interaction is a symmetric relation between two presences, recorded at
// the where of the triggering occurrence. Append-only.
type Interaction struct {
	A     *presence.Presence `json:"a"`
	B     *presence.Presence `json:"b"`
	Where script.Where       `json:"where"`
	Kind  Kind               `json:"interaction_type"`
}

// Graph is the interaction table plus its derived views:
// name -> other name -> scene id -> interactions, and
// scene id -> name -> other name -> interactions, both populated for
// both participant orders.
type Graph struct {
	All []*Interaction

	byName  map[string]map[string]map[string][]*Interaction
	byScene map[string]map[string]map[string][]*Interaction

	diags *diag.List
}

// NewGraph creates an empty graph. diags may be nil.
func NewGraph(diags *diag.List) *Graph {
	return &Graph{
		byName:  make(map[string]map[string]map[string][]*Interaction),
		byScene: make(map[string]map[string]map[string][]*Interaction),
		diags:   diags,
	}
}

// Record appends one interaction and updates all four index paths.
// Self-interactions are never recorded. A missing participant is a
// lookup failure: recorded as a diagnostic, then skipped.
func (g *Graph) Record(a, b *presence.Presence, where script.Where, kind Kind) {
	if a == nil || b == nil {
		g.diags.Add(diag.Diagnostic{
			Kind:    diag.Lookup,
			PageNo:  where.PageNo,
			LineNo:  where.LineNo,
			Message: "interaction participant missing; skipped",
		})
		return
	}
	if a.Name == b.Name {
		return
	}

	in := &Interaction{A: a, B: b, Where: where, Kind: kind}
	g.All = append(g.All, in)

	g.indexName(a.Name, b.Name, where.SceneID, in)
	g.indexName(b.Name, a.Name, where.SceneID, in)
	g.indexScene(where.SceneID, a.Name, b.Name, in)
	g.indexScene(where.SceneID, b.Name, a.Name, in)
}

func (g *Graph) indexName(name, other, sceneID string, in *Interaction) {
	if g.byName[name] == nil {
		g.byName[name] = make(map[string]map[string][]*Interaction)
	}
	if g.byName[name][other] == nil {
		g.byName[name][other] = make(map[string][]*Interaction)
	}
	g.byName[name][other][sceneID] = append(g.byName[name][other][sceneID], in)
}

func (g *Graph) indexScene(sceneID, name, other string, in *Interaction) {
	if g.byScene[sceneID] == nil {
		g.byScene[sceneID] = make(map[string]map[string][]*Interaction)
	}
	if g.byScene[sceneID][name] == nil {
		g.byScene[sceneID][name] = make(map[string][]*Interaction)
	}
	g.byScene[sceneID][name][other] = append(g.byScene[sceneID][name][other], in)
}

// Len returns the number of recorded interactions.
func (g *Graph) Len() int {
	return len(g.All)
}

// ForName returns a participant's interactions grouped by other name and
// scene, or nil.
func (g *Graph) ForName(name string) map[string]map[string][]*Interaction {
	return g.byName[name]
}

// Between returns the interactions between two names grouped by scene.
func (g *Graph) Between(name, other string) map[string][]*Interaction {
	if m := g.byName[name]; m != nil {
		return m[other]
	}
	return nil
}

// InScene returns one scene's interactions grouped by both participants.
func (g *Graph) InScene(sceneID string) map[string]map[string][]*Interaction {
	return g.byScene[sceneID]
}
