package sentence

import "testing"

func TestSplitBasic(t *testing.T) {
	text := "John enters the room. He sits down. MARY watches!"
	spans := New().Split(text)

	want := []string{"John enters the room.", "He sits down.", "MARY watches!"}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i, sp := range spans {
		if got := sp.Slice(text); got != want[i] {
			t.Errorf("span %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestSplitNoTerminal(t *testing.T) {
	text := "no punctuation here"
	spans := New().Split(text)
	if len(spans) != 1 || spans[0].Slice(text) != text {
		t.Errorf("got %v", spans)
	}
}

func TestSplitTrailingQuote(t *testing.T) {
	text := `He said "stop." Then silence.`
	spans := New().Split(text)
	if len(spans) != 2 {
		t.Fatalf("got %d spans: %v", len(spans), spans)
	}
	if got := spans[0].Slice(text); got != `He said "stop."` {
		t.Errorf("first span: %q", got)
	}
}

// Spans are in-bounds, non-overlapping, and increasing, and span starts
// are absolute offsets into the input.
func TestSplitSpanInvariants(t *testing.T) {
	text := "One. Two! Three? And a trailing fragment"
	spans := New().Split(text)

	prevEnd := -1
	for i, sp := range spans {
		if sp.Start < 0 || sp.End > len(text) || sp.Start >= sp.End {
			t.Errorf("span %d out of bounds: %+v", i, sp)
		}
		if sp.Start <= prevEnd-1 {
			t.Errorf("span %d overlaps previous: %+v", i, sp)
		}
		prevEnd = sp.End
	}

	if spans[1].Slice(text) != "Two!" || text[spans[1].Start:spans[1].End] != "Two!" {
		t.Errorf("absolute offsets broken: %+v", spans[1])
	}
}

func TestSplitEmpty(t *testing.T) {
	if spans := New().Split(""); len(spans) != 0 {
		t.Errorf("got %v", spans)
	}
	if spans := New().Split("   "); len(spans) != 0 {
		t.Errorf("blank: got %v", spans)
	}
}
