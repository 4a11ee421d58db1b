package extract

import "sort"

// LineOffsets maps byte positions in a joined text back to the index of
// the source line. It is built over already-normalized lines joined with
// a single one-byte separator, so positions survive the later
// newline-to-space flattening unchanged.
type LineOffsets struct {
	ends []int // cumulative exclusive end offset of each line, separator included
}

// NewLineOffsets builds the offset table for the given lines.
func NewLineOffsets(lines []string) *LineOffsets {
	ends := make([]int, len(lines))
	off := 0
	for i, ln := range lines {
		off += len(ln)
		if i < len(lines)-1 {
			off++ // the joining separator belongs to the line it follows
		}
		ends[i] = off
	}
	return &LineOffsets{ends: ends}
}

// LineFor returns the index of the line containing the byte position:
// the first line whose end offset exceeds pos. Out-of-range positions
// report false.
func (lo *LineOffsets) LineFor(pos int) (int, bool) {
	if pos < 0 || len(lo.ends) == 0 || pos >= lo.ends[len(lo.ends)-1] {
		return 0, false
	}
	i := sort.SearchInts(lo.ends, pos+1)
	return i, true
}

// Len returns the number of lines in the table.
func (lo *LineOffsets) Len() int {
	return len(lo.ends)
}
