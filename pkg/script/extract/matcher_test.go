package extract

import (
	"testing"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/presence"
)

func register(set *presence.Set, name string, nt presence.NounType) {
	set.Add(&presence.Presence{
		Name:     name,
		NounType: nt,
		Type:     presence.Appear,
		Where:    script.Where{SceneID: "1", PageNo: 1, LineNo: 1},
	})
}

func TestFindReportsCanonicalNameAndOffset(t *testing.T) {
	set := presence.NewSet(nil)
	register(set, "JOHN", presence.Character)
	m := NewNameMatcher(set)

	hits := m.Find("John opens the door.", nil)
	if len(hits) != 1 {
		t.Fatalf("hits: %v", hits)
	}
	if hits[0].Name != "JOHN" || hits[0].Start != 0 {
		t.Errorf("got %+v", hits[0])
	}
}

func TestFindWholeWordsOnly(t *testing.T) {
	set := presence.NewSet(nil)
	register(set, "ART", presence.Thing)
	m := NewNameMatcher(set)

	if hits := m.Find("The party departs.", nil); len(hits) != 0 {
		t.Errorf("substring matched: %v", hits)
	}
	if hits := m.Find("The art hangs.", nil); len(hits) != 1 {
		t.Errorf("whole word missed: %v", hits)
	}
}

func TestFindExtraPatterns(t *testing.T) {
	set := presence.NewSet(nil)
	register(set, "JOHN", presence.Character)
	m := NewNameMatcher(set)

	hits := m.Find("JOHN drops the MILK.", []string{"MILK"})
	if len(hits) != 2 || hits[0].Name != "JOHN" || hits[1].Name != "MILK" {
		t.Fatalf("hits: %v", hits)
	}
	if hits[0].Start >= hits[1].Start {
		t.Errorf("order: %v", hits)
	}

	// Extras are per-call only.
	if hits := m.Find("the MILK again", nil); len(hits) != 0 {
		t.Errorf("extra pattern leaked into cache: %v", hits)
	}
}

func TestFindPicksUpNewRegistrations(t *testing.T) {
	set := presence.NewSet(nil)
	register(set, "JOHN", presence.Character)
	m := NewNameMatcher(set)

	if hits := m.Find("MARY waves at John.", nil); len(hits) != 1 {
		t.Fatalf("before registration: %v", hits)
	}

	register(set, "MARY", presence.Character)
	hits := m.Find("MARY waves at John.", nil)
	if len(hits) != 2 {
		t.Fatalf("after registration: %v", hits)
	}
}

func TestFindEmptyRegistry(t *testing.T) {
	m := NewNameMatcher(presence.NewSet(nil))
	if hits := m.Find("nothing to match", nil); hits != nil {
		t.Errorf("got %v", hits)
	}
}
