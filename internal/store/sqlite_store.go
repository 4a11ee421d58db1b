// SQLite persistence using ncruces/go-sqlite3/driver, which provides a
// database/sql interface.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed parse store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines all tables. Rows carry the script id so one database
// holds many parsed scripts; referential integrity is managed at the
// application level.
const schema = `
CREATE TABLE IF NOT EXISTS scenes (
    script_id TEXT NOT NULL,
    scene_id TEXT NOT NULL,
    scene_number INTEGER NOT NULL,
    heading_line INTEGER NOT NULL,
    first_line INTEGER NOT NULL,
    last_line INTEGER NOT NULL,
    total_words INTEGER NOT NULL DEFAULT 0,
    dialog_words INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (script_id, scene_id)
);

CREATE TABLE IF NOT EXISTS blocks (
    script_id TEXT NOT NULL,
    scene_id TEXT NOT NULL,
    block_type TEXT NOT NULL,
    first_line INTEGER NOT NULL,
    last_line INTEGER NOT NULL,
    total_words INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_blocks_scene ON blocks(script_id, scene_id);

CREATE TABLE IF NOT EXISTS presences (
    script_id TEXT NOT NULL,
    name TEXT NOT NULL,
    noun_type TEXT NOT NULL,
    presence_type TEXT NOT NULL,
    scene_id TEXT NOT NULL,
    page_no INTEGER NOT NULL,
    line_no INTEGER NOT NULL,
    dialog_words INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_presences_name ON presences(script_id, name);
CREATE INDEX IF NOT EXISTS idx_presences_scene ON presences(script_id, scene_id);

CREATE TABLE IF NOT EXISTS interactions (
    script_id TEXT NOT NULL,
    name_a TEXT NOT NULL,
    name_b TEXT NOT NULL,
    kind TEXT NOT NULL,
    scene_id TEXT NOT NULL,
    page_no INTEGER NOT NULL,
    line_no INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_a ON interactions(script_id, name_a);
CREATE INDEX IF NOT EXISTS idx_interactions_b ON interactions(script_id, name_b);

CREATE TABLE IF NOT EXISTS diagnostics (
    script_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    page_no INTEGER NOT NULL,
    line_no INTEGER NOT NULL,
    message TEXT NOT NULL
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScript replaces the rows stored under the script id. Delete and
// insert run in one transaction so a failed save leaves the previous
// parse intact.
func (s *SQLiteStore) SaveScript(scriptID string, rows *ScriptRows) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteScriptTx(tx, scriptID); err != nil {
		return err
	}

	for _, sc := range rows.Scenes {
		_, err := tx.Exec(`
			INSERT INTO scenes (script_id, scene_id, scene_number, heading_line,
				first_line, last_line, total_words, dialog_words)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, scriptID, sc.SceneID, sc.Number, sc.HeadingLine,
			sc.FirstLine, sc.LastLine, sc.TotalWords, sc.DialogWords)
		if err != nil {
			return err
		}
	}

	for _, b := range rows.Blocks {
		_, err := tx.Exec(`
			INSERT INTO blocks (script_id, scene_id, block_type, first_line, last_line, total_words)
			VALUES (?, ?, ?, ?, ?, ?)
		`, scriptID, b.SceneID, b.BlockType, b.FirstLine, b.LastLine, b.TotalWords)
		if err != nil {
			return err
		}
	}

	for _, p := range rows.Presences {
		_, err := tx.Exec(`
			INSERT INTO presences (script_id, name, noun_type, presence_type,
				scene_id, page_no, line_no, dialog_words)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, scriptID, p.Name, p.NounType, p.PresenceType,
			p.SceneID, p.PageNo, p.LineNo, p.DialogWords)
		if err != nil {
			return err
		}
	}

	for _, in := range rows.Interactions {
		_, err := tx.Exec(`
			INSERT INTO interactions (script_id, name_a, name_b, kind, scene_id, page_no, line_no)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, scriptID, in.NameA, in.NameB, in.Kind, in.SceneID, in.PageNo, in.LineNo)
		if err != nil {
			return err
		}
	}

	for _, d := range rows.Diagnostics {
		_, err := tx.Exec(`
			INSERT INTO diagnostics (script_id, kind, page_no, line_no, message)
			VALUES (?, ?, ?, ?, ?)
		`, scriptID, d.Kind, d.PageNo, d.LineNo, d.Message)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteScript removes every row stored under the script id.
func (s *SQLiteStore) DeleteScript(scriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteScriptTx(tx, scriptID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteScriptTx(tx *sql.Tx, scriptID string) error {
	for _, table := range []string{"scenes", "blocks", "presences", "interactions", "diagnostics"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE script_id = ?", scriptID); err != nil {
			return err
		}
	}
	return nil
}

// ListScenes returns a script's scenes in scene-number order.
func (s *SQLiteStore) ListScenes(scriptID string) ([]*SceneRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT script_id, scene_id, scene_number, heading_line,
			first_line, last_line, total_words, dialog_words
		FROM scenes WHERE script_id = ? ORDER BY scene_number
	`, scriptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*SceneRow
	for rows.Next() {
		var sc SceneRow
		if err := rows.Scan(
			&sc.ScriptID, &sc.SceneID, &sc.Number, &sc.HeadingLine,
			&sc.FirstLine, &sc.LastLine, &sc.TotalWords, &sc.DialogWords,
		); err != nil {
			return nil, err
		}
		scenes = append(scenes, &sc)
	}
	return scenes, rows.Err()
}

// ListBlocks returns a script's blocks in line order, optionally for a
// single scene.
func (s *SQLiteStore) ListBlocks(scriptID, sceneID string) ([]*BlockRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if sceneID != "" {
		rows, err = s.db.Query(`
			SELECT script_id, scene_id, block_type, first_line, last_line, total_words
			FROM blocks WHERE script_id = ? AND scene_id = ? ORDER BY first_line
		`, scriptID, sceneID)
	} else {
		rows, err = s.db.Query(`
			SELECT script_id, scene_id, block_type, first_line, last_line, total_words
			FROM blocks WHERE script_id = ? ORDER BY first_line
		`, scriptID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []*BlockRow
	for rows.Next() {
		var b BlockRow
		if err := rows.Scan(
			&b.ScriptID, &b.SceneID, &b.BlockType, &b.FirstLine, &b.LastLine, &b.TotalWords,
		); err != nil {
			return nil, err
		}
		blocks = append(blocks, &b)
	}
	return blocks, rows.Err()
}

// ListPresences returns presences in occurrence order, optionally for a
// single name.
func (s *SQLiteStore) ListPresences(scriptID, name string) ([]*PresenceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if name != "" {
		rows, err = s.db.Query(`
			SELECT script_id, name, noun_type, presence_type, scene_id, page_no, line_no, dialog_words
			FROM presences WHERE script_id = ? AND name = ? ORDER BY rowid
		`, scriptID, name)
	} else {
		rows, err = s.db.Query(`
			SELECT script_id, name, noun_type, presence_type, scene_id, page_no, line_no, dialog_words
			FROM presences WHERE script_id = ? ORDER BY rowid
		`, scriptID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presences []*PresenceRow
	for rows.Next() {
		var p PresenceRow
		if err := rows.Scan(
			&p.ScriptID, &p.Name, &p.NounType, &p.PresenceType,
			&p.SceneID, &p.PageNo, &p.LineNo, &p.DialogWords,
		); err != nil {
			return nil, err
		}
		presences = append(presences, &p)
	}
	return presences, rows.Err()
}

// ListInteractions returns interactions in occurrence order, optionally
// those involving one name as either participant.
func (s *SQLiteStore) ListInteractions(scriptID, name string) ([]*InteractionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error

	if name != "" {
		rows, err = s.db.Query(`
			SELECT script_id, name_a, name_b, kind, scene_id, page_no, line_no
			FROM interactions WHERE script_id = ? AND (name_a = ? OR name_b = ?) ORDER BY rowid
		`, scriptID, name, name)
	} else {
		rows, err = s.db.Query(`
			SELECT script_id, name_a, name_b, kind, scene_id, page_no, line_no
			FROM interactions WHERE script_id = ? ORDER BY rowid
		`, scriptID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []*InteractionRow
	for rows.Next() {
		var in InteractionRow
		if err := rows.Scan(
			&in.ScriptID, &in.NameA, &in.NameB, &in.Kind, &in.SceneID, &in.PageNo, &in.LineNo,
		); err != nil {
			return nil, err
		}
		interactions = append(interactions, &in)
	}
	return interactions, rows.Err()
}

// ListDiagnostics returns a script's diagnostics in insertion order.
func (s *SQLiteStore) ListDiagnostics(scriptID string) ([]*DiagnosticRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT script_id, kind, page_no, line_no, message
		FROM diagnostics WHERE script_id = ? ORDER BY rowid
	`, scriptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diags []*DiagnosticRow
	for rows.Next() {
		var d DiagnosticRow
		if err := rows.Scan(&d.ScriptID, &d.Kind, &d.PageNo, &d.LineNo, &d.Message); err != nil {
			return nil, err
		}
		diags = append(diags, &d)
	}
	return diags, rows.Err()
}

// CountPresences returns the number of presences stored for a script.
func (s *SQLiteStore) CountPresences(scriptID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM presences WHERE script_id = ?", scriptID).Scan(&count)
	return count, err
}

// CountInteractions returns the number of interactions stored for a script.
func (s *SQLiteStore) CountInteractions(scriptID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM interactions WHERE script_id = ?", scriptID).Scan(&count)
	return count, err
}

// Compile-time interface check
var _ Storer = (*SQLiteStore)(nil)
