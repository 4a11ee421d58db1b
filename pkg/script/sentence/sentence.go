// Package sentence provides the sentence segmentation capability the
// extraction engine delegates to. The engine treats it as opaque: any
// Splitter returning byte-offset spans over the normalized text works.
package sentence

// Span is a byte-offset range into the text handed to Split.
type Span struct {
	Start int
	End   int
}

// Slice extracts the text covered by the span.
func (s Span) Slice(text string) string {
	if s.Start < 0 || s.End > len(text) || s.Start > s.End {
		return ""
	}
	return text[s.Start:s.End]
}

// Splitter segments text into sentence spans. Spans must be in-bounds,
// non-overlapping, and in increasing order.
type Splitter interface {
	Split(text string) []Span
}

// PunctSplitter is the default splitter: sentences end at a run of
// terminal punctuation (with trailing quotes attached) followed by a
// space or end of text. Text without a terminal forms one sentence.
type PunctSplitter struct{}

// New returns the default splitter.
func New() Splitter {
	return PunctSplitter{}
}

func isTerminal(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isTrailer(c byte) bool {
	return isTerminal(c) || c == '"' || c == '\'' || c == ')'
}

// Split scans for sentence boundaries. The input is expected to be
// whitespace-normalized (single spaces), which is what the extraction
// engine produces.
func (PunctSplitter) Split(text string) []Span {
	var spans []Span
	n := len(text)
	i := 0

	for i < n {
		for i < n && text[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		start := i

		end := -1
		for j := i; j < n; j++ {
			if !isTerminal(text[j]) {
				continue
			}
			k := j
			for k+1 < n && isTrailer(text[k+1]) {
				k++
			}
			if k+1 >= n || text[k+1] == ' ' {
				end = k + 1
				break
			}
			j = k
		}
		if end == -1 {
			end = n
		}

		spans = append(spans, Span{Start: start, End: end})
		i = end
	}

	return spans
}
