// Package ingest loads raw screenplay text and numbers it into the line
// records the parser consumes.
package ingest

import (
	"fmt"
	"strings"

	"github.com/hack-pad/hackpadfs"

	"github.com/correosdelbosque/tsl/pkg/script"
)

// SplitLines numbers raw screenplay text. Line numbers are 1-based and
// count every physical line, CRLF tolerated. A form feed starts a new
// page at the line carrying it; the marker itself never reaches the
// parser.
func SplitLines(data []byte) []script.Line {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	// A trailing newline produces one phantom empty element.
	if n := len(raw); n > 0 && raw[n-1] == "" {
		raw = raw[:n-1]
	}

	lines := make([]script.Line, 0, len(raw))
	page := 1
	for i, s := range raw {
		if k := strings.Count(s, "\f"); k > 0 {
			page += k
			s = strings.ReplaceAll(s, "\f", "")
		}
		lines = append(lines, script.Line{LineNo: i + 1, PageNo: page, Content: s})
	}
	return lines
}

// Load reads a script file from the filesystem and numbers its lines.
func Load(fsys hackpadfs.FS, path string) ([]script.Line, error) {
	data, err := hackpadfs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return SplitLines(data), nil
}
