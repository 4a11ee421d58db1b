package interaction

import (
	"testing"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

func pres(name string, nt presence.NounType, scene string, line int) *presence.Presence {
	return &presence.Presence{
		Name:     name,
		NounType: nt,
		Type:     presence.Appear,
		Where:    script.Where{SceneID: scene, PageNo: 1, LineNo: line},
	}
}

// Every recorded interaction is reachable via both participant names and
// via the scene id from both participants' perspectives.
func TestRecordIndexSymmetry(t *testing.T) {
	g := NewGraph(nil)
	a := pres("JOHN", presence.Character, "1", 8)
	b := pres("KITCHEN", presence.Location, "1", 4)

	g.Record(a, b, a.Where, Setting)

	if g.Len() != 1 {
		t.Fatalf("log length: %d", g.Len())
	}
	in := g.All[0]

	if got := g.Between("JOHN", "KITCHEN")["1"]; len(got) != 1 || got[0] != in {
		t.Errorf("name index a->b: %v", got)
	}
	if got := g.Between("KITCHEN", "JOHN")["1"]; len(got) != 1 || got[0] != in {
		t.Errorf("name index b->a: %v", got)
	}
	if got := g.InScene("1")["JOHN"]["KITCHEN"]; len(got) != 1 || got[0] != in {
		t.Errorf("scene index a->b: %v", got)
	}
	if got := g.InScene("1")["KITCHEN"]["JOHN"]; len(got) != 1 || got[0] != in {
		t.Errorf("scene index b->a: %v", got)
	}
}

func TestRecordRejectsSelfInteraction(t *testing.T) {
	g := NewGraph(nil)
	a := pres("JOHN", presence.Character, "1", 8)
	b := pres("JOHN", presence.Character, "1", 12)

	g.Record(a, b, a.Where, Discuss)

	if g.Len() != 0 {
		t.Errorf("self-interaction recorded: %v", g.All)
	}
}

func TestRecordNilParticipant(t *testing.T) {
	diags := diag.NewList()
	g := NewGraph(diags)
	a := pres("JOHN", presence.Character, "1", 8)

	g.Record(nil, a, a.Where, Setting)

	if g.Len() != 0 {
		t.Error("interaction with missing participant recorded")
	}
	if len(diags.OfKind(diag.Lookup)) != 1 {
		t.Errorf("diagnostics: %v", diags.All())
	}
}

func TestRecordGroupsByScene(t *testing.T) {
	g := NewGraph(nil)
	a1 := pres("A", presence.Character, "1", 10)
	b1 := pres("B", presence.Character, "1", 12)
	a2 := pres("A", presence.Character, "2", 30)
	b2 := pres("B", presence.Character, "2", 32)

	g.Record(a1, b1, a1.Where, Discuss)
	g.Record(a2, b2, a2.Where, Discuss)
	g.Record(a2, b2, b2.Where, Mention)

	between := g.Between("A", "B")
	if len(between["1"]) != 1 || len(between["2"]) != 2 {
		t.Errorf("per-scene grouping: %v", between)
	}
	if g.ForName("B") == nil {
		t.Error("reverse participant missing from name index")
	}
}
