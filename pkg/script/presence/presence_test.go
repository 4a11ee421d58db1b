package presence

import (
	"testing"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
)

func at(scene string, line int) script.Where {
	return script.Where{SceneID: scene, PageNo: 1, LineNo: line}
}

func TestAddIndexesBothWays(t *testing.T) {
	s := NewSet(nil)

	p1 := &Presence{Name: "KITCHEN", NounType: Location, Type: Setting, Where: at("1", 4)}
	p2 := &Presence{Name: "JOHN", NounType: Character, Type: Discuss, Where: at("1", 8)}
	p3 := &Presence{Name: "JOHN", NounType: Character, Type: Appear, Where: at("2", 20)}
	s.Add(p1)
	s.Add(p2)
	s.Add(p3)

	if len(s.All) != 3 {
		t.Fatalf("log length: %d", len(s.All))
	}

	// By name.
	e := s.Entry("JOHN")
	if e == nil || e.Type != Character {
		t.Fatalf("JOHN entry: %+v", e)
	}
	if len(e.Scenes["1"]) != 1 || len(e.Scenes["2"]) != 1 {
		t.Errorf("JOHN scenes: %v", e.Scenes)
	}

	// By scene.
	if got := s.FirstInScene("1", "KITCHEN"); got != p1 {
		t.Errorf("FirstInScene: got %+v", got)
	}
	if len(s.InScene("1")) != 2 {
		t.Errorf("scene 1 names: %v", s.InScene("1"))
	}

	if names := s.Names(); len(names) != 2 || names[0] != "JOHN" || names[1] != "KITCHEN" {
		t.Errorf("names: %v", names)
	}
}

func TestPromotionLattice(t *testing.T) {
	tests := []struct {
		name string
		old  NounType
		next NounType
		want NounType
	}{
		{"thing to location", Thing, Location, Location},
		{"thing to character", Thing, Character, Character},
		{"location to character", Location, Character, Character},
		{"location downgrade ignored", Location, Thing, Location},
		{"character downgrade ignored", Character, Thing, Character},
		{"character to location rejected", Character, Location, Character},
	}

	for _, tc := range tests {
		s := NewSet(nil)
		s.Add(&Presence{Name: "X", NounType: tc.old, Type: Appear, Where: at("1", 1)})
		s.Add(&Presence{Name: "X", NounType: tc.next, Type: Appear, Where: at("1", 2)})
		if got, _ := s.TypeOf("X"); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

// A rejected CHARACTER->LOCATION attempt leaves the registry unchanged
// and emits a semantic diagnostic.
func TestPromotionRejectionDiagnostic(t *testing.T) {
	diags := diag.NewList()
	s := NewSet(diags)

	s.Add(&Presence{Name: "JOHN", NounType: Character, Type: Discuss, Where: at("1", 8)})
	s.Add(&Presence{Name: "JOHN", NounType: Location, Type: Setting, Where: at("2", 30)})

	if got, _ := s.TypeOf("JOHN"); got != Character {
		t.Errorf("type after rejection: %v", got)
	}
	sems := diags.OfKind(diag.Semantic)
	if len(sems) != 1 {
		t.Fatalf("diagnostics: %v", diags.All())
	}
	if sems[0].LineNo != 30 || sems[0].Text != "JOHN" {
		t.Errorf("diagnostic context: %+v", sems[0])
	}
}

// Once a name is CHARACTER it never becomes anything else, whatever the
// sequence of later sightings.
func TestPromotionMonotonic(t *testing.T) {
	s := NewSet(nil)
	seq := []NounType{Thing, Location, Character, Thing, Location, Thing}
	for i, nt := range seq {
		s.Add(&Presence{Name: "N", NounType: nt, Type: Appear, Where: at("1", i + 1)})
	}
	if got, _ := s.TypeOf("N"); got != Character {
		t.Errorf("final type: %v", got)
	}
}

func TestVersionBumpsOnNewNamesOnly(t *testing.T) {
	s := NewSet(nil)
	v0 := s.Version()
	s.Add(&Presence{Name: "A", NounType: Thing, Type: Appear, Where: at("1", 1)})
	v1 := s.Version()
	s.Add(&Presence{Name: "A", NounType: Thing, Type: Appear, Where: at("1", 2)})
	v2 := s.Version()

	if v1 == v0 {
		t.Error("version did not bump for new name")
	}
	if v2 != v1 {
		t.Error("version bumped for existing name")
	}
}
