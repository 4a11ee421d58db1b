// Package diag collects non-fatal parse diagnostics.
// The pipeline never aborts on bad input; every recoverable condition
// is recorded here with enough context to be asserted on in tests.
package diag

import "fmt"

// Kind classifies a diagnostic.
type Kind int

const (
	// Grammar: a line's content contradicts its structural context.
	Grammar Kind = iota
	// Semantic: a name resolved to incompatible noun types.
	Semantic
	// Lookup: an offset or record could not be resolved and a safe
	// fallback was used.
	Lookup
)

func (k Kind) String() string {
	switch k {
	case Grammar:
		return "GRAMMAR"
	case Semantic:
		return "SEMANTIC"
	case Lookup:
		return "LOOKUP"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON emits the kind as its string name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Diagnostic is one recoverable problem found during parsing.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	PageNo  int    `json:"page_no"`
	LineNo  int    `json:"line_no"`
	Text    string `json:"text,omitempty"`  // offending content
	Prior   string `json:"prior,omitempty"` // parser state before the line
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s page %d line %d: %s", d.Kind, d.PageNo, d.LineNo, d.Message)
	if d.Text != "" {
		s += fmt.Sprintf(" (content %q)", d.Text)
	}
	if d.Prior != "" {
		s += fmt.Sprintf(" (prior %s)", d.Prior)
	}
	return s
}

// List is an append-only collection of diagnostics.
type List struct {
	items []Diagnostic
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{}
}

// Add appends a diagnostic. Nil-safe so components can run without a
// collector attached.
func (l *List) Add(d Diagnostic) {
	if l == nil {
		return
	}
	l.items = append(l.items, d)
}

// All returns the collected diagnostics in insertion order.
func (l *List) All() []Diagnostic {
	if l == nil {
		return nil
	}
	return l.items
}

// Len returns the number of collected diagnostics.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// OfKind returns the diagnostics matching one kind.
func (l *List) OfKind(k Kind) []Diagnostic {
	if l == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range l.items {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}
