// Package store persists parse results. A parse is saved under a script
// id with replace semantics: re-parsing a script overwrites its previous
// rows. MemStore backs tests, SQLiteStore backs the CLI.
package store

import (
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/extract"
)

// SceneRow is one scene of a parsed script.
type SceneRow struct {
	ScriptID    string `json:"scriptId"`
	SceneID     string `json:"sceneId"`
	Number      int    `json:"sceneNumber"`
	HeadingLine int    `json:"headingLine"`
	FirstLine   int    `json:"firstLine"`
	LastLine    int    `json:"lastLine"`
	TotalWords  int    `json:"totalWords"`
	DialogWords int    `json:"dialogWords"`
}

// BlockRow is one typed block within a scene.
type BlockRow struct {
	ScriptID   string `json:"scriptId"`
	SceneID    string `json:"sceneId"`
	BlockType  string `json:"blockType"`
	FirstLine  int    `json:"firstLine"`
	LastLine   int    `json:"lastLine"`
	TotalWords int    `json:"totalWords"`
}

// PresenceRow is one noun occurrence.
type PresenceRow struct {
	ScriptID     string `json:"scriptId"`
	Name         string `json:"name"`
	NounType     string `json:"nounType"`
	PresenceType string `json:"presenceType"`
	SceneID      string `json:"sceneId"`
	PageNo       int    `json:"pageNo"`
	LineNo       int    `json:"lineNo"`
	DialogWords  int    `json:"dialogWords"`
}

// InteractionRow is one pairwise interaction.
type InteractionRow struct {
	ScriptID string `json:"scriptId"`
	NameA    string `json:"nameA"`
	NameB    string `json:"nameB"`
	Kind     string `json:"kind"`
	SceneID  string `json:"sceneId"`
	PageNo   int    `json:"pageNo"`
	LineNo   int    `json:"lineNo"`
}

// DiagnosticRow is one recoverable parse problem.
type DiagnosticRow struct {
	ScriptID string `json:"scriptId"`
	Kind     string `json:"kind"`
	PageNo   int    `json:"pageNo"`
	LineNo   int    `json:"lineNo"`
	Message  string `json:"message"`
}

// ScriptRows is one parse flattened for persistence. Row order follows
// the parse's own deterministic order.
type ScriptRows struct {
	Scenes       []*SceneRow
	Blocks       []*BlockRow
	Presences    []*PresenceRow
	Interactions []*InteractionRow
	Diagnostics  []*DiagnosticRow
}

// Flatten converts a parse result into rows tagged with the script id.
// diags may be nil.
func Flatten(scriptID string, res *extract.Result, diags *diag.List) *ScriptRows {
	rows := &ScriptRows{}

	for _, id := range res.Doc.SceneIDs() {
		sc := res.Doc.Scene(id)
		rows.Scenes = append(rows.Scenes, &SceneRow{
			ScriptID:    scriptID,
			SceneID:     id,
			Number:      sc.Number,
			HeadingLine: sc.HeadingLine,
			FirstLine:   sc.FirstLine,
			LastLine:    sc.LastLine,
			TotalWords:  sc.TotalWords,
			DialogWords: sc.DialogWords,
		})
		for _, b := range sc.Blocks {
			rows.Blocks = append(rows.Blocks, &BlockRow{
				ScriptID:   scriptID,
				SceneID:    id,
				BlockType:  b.Type.String(),
				FirstLine:  b.FirstLine,
				LastLine:   b.LastLine,
				TotalWords: b.TotalWords,
			})
		}
	}

	for _, p := range res.Nouns.All {
		rows.Presences = append(rows.Presences, &PresenceRow{
			ScriptID:     scriptID,
			Name:         p.Name,
			NounType:     p.NounType.String(),
			PresenceType: p.Type.String(),
			SceneID:      p.Where.SceneID,
			PageNo:       p.Where.PageNo,
			LineNo:       p.Where.LineNo,
			DialogWords:  p.DialogWords,
		})
	}

	for _, in := range res.Links.All {
		rows.Interactions = append(rows.Interactions, &InteractionRow{
			ScriptID: scriptID,
			NameA:    in.A.Name,
			NameB:    in.B.Name,
			Kind:     in.Kind.String(),
			SceneID:  in.Where.SceneID,
			PageNo:   in.Where.PageNo,
			LineNo:   in.Where.LineNo,
		})
	}

	for _, d := range diags.All() {
		rows.Diagnostics = append(rows.Diagnostics, &DiagnosticRow{
			ScriptID: scriptID,
			Kind:     d.Kind.String(),
			PageNo:   d.PageNo,
			LineNo:   d.LineNo,
			Message:  d.Message,
		})
	}

	return rows
}

// Storer defines the interface for parse persistence.
// This allows swapping between MemStore (testing) and SQLiteStore (CLI).
type Storer interface {
	// SaveScript replaces everything stored under the script id.
	SaveScript(scriptID string, rows *ScriptRows) error
	DeleteScript(scriptID string) error

	ListScenes(scriptID string) ([]*SceneRow, error)
	ListBlocks(scriptID, sceneID string) ([]*BlockRow, error)

	// ListPresences and ListInteractions filter by name when it is
	// non-empty; interactions match either participant.
	ListPresences(scriptID, name string) ([]*PresenceRow, error)
	ListInteractions(scriptID, name string) ([]*InteractionRow, error)
	ListDiagnostics(scriptID string) ([]*DiagnosticRow, error)

	CountPresences(scriptID string) (int, error)
	CountInteractions(scriptID string) (int, error)

	// Lifecycle
	Close() error
}
