// Package segment turns a classified line stream into the structural
// document tree: front matter, scenes, and typed content blocks, with
// per-block and per-scene word counts.
package segment

import (
	"sort"
	"strconv"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/classify"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
)

// Block is a contiguous run of lines sharing one block type.
// Line numbers are global and inclusive.
type Block struct {
	Type       classify.BlockType        `json:"block_type"`
	FirstLine  int                       `json:"first_line"`
	LastLine   int                       `json:"last_line"`
	LineTypes  map[int]classify.LineType `json:"line_types"`
	TotalWords int                       `json:"total_words"`
}

// LineNumbers returns the block's line numbers in ascending order.
func (b *Block) LineNumbers() []int {
	nums := make([]int, 0, len(b.LineTypes))
	for n := range b.LineTypes {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Contains reports whether a global line number falls inside the block.
func (b *Block) Contains(lineNo int) bool {
	return b.FirstLine <= lineNo && lineNo <= b.LastLine
}

// Scene is a screenplay unit beginning at a scene heading.
type Scene struct {
	Number      int      `json:"scene_number"`
	HeadingLine int      `json:"heading_line"`
	FirstLine   int      `json:"first_line"`
	LastLine    int      `json:"last_line"`
	Blocks      []*Block `json:"scene_blocks"`
	TotalWords  int      `json:"total_words"`
	DialogWords int      `json:"dialog_words"`
}

// FrontMatter is the span of unclassified leading material.
type FrontMatter struct {
	FirstLine int `json:"first_line"`
	LastLine  int `json:"last_line"`
}

// Structure is the parsed document tree. Scenes are keyed by their
// stringified scene number for stable serialization; consumers must sort
// numerically, not lexically (see SceneIDs).
type Structure struct {
	Front       FrontMatter       `json:"front"`
	Scenes      map[string]*Scene `json:"scenes"`
	TotalWords  int               `json:"total_words"`
	DialogWords int               `json:"dialog_words"`
}

// SceneIDs returns the scene keys in ascending numeric order.
func (s *Structure) SceneIDs() []string {
	nums := make([]int, 0, len(s.Scenes))
	for id := range s.Scenes {
		if n, err := strconv.Atoi(id); err == nil {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	ids := make([]string, len(nums))
	for i, n := range nums {
		ids[i] = strconv.Itoa(n)
	}
	return ids
}

// Scene returns a scene by its stringified number, or nil.
func (s *Structure) Scene(id string) *Scene {
	return s.Scenes[id]
}

// Parse scans the lines in order through the classifier with one-line
// lookahead, maintaining one growing block and one growing scene. ERROR
// lines close out the open block and become single-line ERROR blocks;
// processing resumes immediately. Diagnostics land on diags.
//
// The input contract requires line_no == slice index + 1.
func Parse(lines []script.Line, mode script.Mode, diags *diag.List) *Structure {
	doc := &Structure{
		Front:  FrontMatter{},
		Scenes: make(map[string]*Scene),
	}

	// Synthetic seed scene 0 and seed block; both discarded or replaced
	// before the document is returned.
	scene := &Scene{Number: 0, HeadingLine: 1, FirstLine: 1, LastLine: 1}
	block := &Block{
		Type:      classify.BlockEmpty,
		FirstLine: 1,
		LastLine:  1,
		LineTypes: map[int]classify.LineType{1: classify.LineEmpty},
	}

	prior := classify.Front
	lastLineNo := 0

	for i, ln := range lines {
		next := ""
		hasNext := false
		if i+1 < len(lines) {
			next = lines[i+1].Content
			hasNext = true
		}

		cls, d := classify.Classify(ln.Content, next, hasNext, prior, mode)
		if d != nil {
			d.PageNo = ln.PageNo
			d.LineNo = ln.LineNo
			diags.Add(*d)
		}
		lastLineNo = ln.LineNo

		if cls.Block == classify.BlockFront {
			doc.Front.FirstLine = 1
			doc.Front.LastLine = ln.LineNo
			continue
		}

		if cls.Block == classify.BlockError {
			// Close the open block under the prior block type so its
			// word counts stay attributable, then isolate the bad line.
			block.Type = prior.Block
			scene.Blocks = append(scene.Blocks, block)
			block = &Block{
				Type:      cls.Block,
				FirstLine: ln.LineNo,
				LastLine:  ln.LineNo,
				LineTypes: map[int]classify.LineType{ln.LineNo: cls.Line},
			}
			prior = cls
			continue
		}

		if cls.Block == prior.Block {
			block.LastLine = ln.LineNo
			block.LineTypes[ln.LineNo] = cls.Line
		} else {
			scene.Blocks = append(scene.Blocks, block)
			block = &Block{
				Type:      cls.Block,
				FirstLine: ln.LineNo,
				LastLine:  ln.LineNo,
				LineTypes: map[int]classify.LineType{ln.LineNo: cls.Line},
			}

			if cls.Block == classify.BlockSceneHeading {
				scene.LastLine = ln.LineNo - 1
				doc.Scenes[strconv.Itoa(scene.Number)] = scene
				scene = &Scene{
					Number:      scene.Number + 1,
					HeadingLine: ln.LineNo,
					FirstLine:   ln.LineNo,
					LastLine:    ln.LineNo,
				}
			}
		}

		prior = cls
	}

	// Flush the terminal block and scene.
	scene.Blocks = append(scene.Blocks, block)
	if lastLineNo > 0 {
		scene.LastLine = lastLineNo
	}
	doc.Scenes[strconv.Itoa(scene.Number)] = scene

	// The seed scene never appears in output.
	delete(doc.Scenes, "0")

	countWords(doc, lines)
	return doc
}

// countWords fills in block, scene, and document word totals after the
// tree is complete. EMPTY blocks are zero by definition.
func countWords(doc *Structure, lines []script.Line) {
	for _, scene := range doc.Scenes {
		totalWords := 0
		dialogWords := 0

		for _, block := range scene.Blocks {
			if block.Type == classify.BlockEmpty {
				block.TotalWords = 0
				continue
			}

			blockWords := 0
			for n := block.FirstLine; n <= block.LastLine; n++ {
				if n < 1 || n > len(lines) {
					continue
				}
				w := script.Words(lines[n-1].Content)
				blockWords += w
				if block.Type == classify.BlockDialog {
					dialogWords += w
				}
			}

			block.TotalWords = blockWords
			totalWords += blockWords
		}

		scene.TotalWords = totalWords
		scene.DialogWords = dialogWords
		doc.TotalWords += totalWords
		doc.DialogWords += dialogWords
	}
}
