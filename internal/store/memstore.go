package store

import "sync"

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu      sync.RWMutex
	scripts map[string]*ScriptRows
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{scripts: make(map[string]*ScriptRows)}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// SaveScript replaces the rows stored under the script id.
func (s *MemStore) SaveScript(scriptID string, rows *ScriptRows) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Shallow-copy the slices so later appends by the caller don't leak in.
	stored := &ScriptRows{
		Scenes:       append([]*SceneRow(nil), rows.Scenes...),
		Blocks:       append([]*BlockRow(nil), rows.Blocks...),
		Presences:    append([]*PresenceRow(nil), rows.Presences...),
		Interactions: append([]*InteractionRow(nil), rows.Interactions...),
		Diagnostics:  append([]*DiagnosticRow(nil), rows.Diagnostics...),
	}
	s.scripts[scriptID] = stored
	return nil
}

func (s *MemStore) DeleteScript(scriptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scripts, scriptID)
	return nil
}

func (s *MemStore) rows(scriptID string) *ScriptRows {
	if r, ok := s.scripts[scriptID]; ok {
		return r
	}
	return &ScriptRows{}
}

func (s *MemStore) ListScenes(scriptID string) ([]*SceneRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*SceneRow(nil), s.rows(scriptID).Scenes...), nil
}

func (s *MemStore) ListBlocks(scriptID, sceneID string) ([]*BlockRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*BlockRow
	for _, b := range s.rows(scriptID).Blocks {
		if sceneID == "" || b.SceneID == sceneID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (s *MemStore) ListPresences(scriptID, name string) ([]*PresenceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*PresenceRow
	for _, p := range s.rows(scriptID).Presences {
		if name == "" || p.Name == name {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *MemStore) ListInteractions(scriptID, name string) ([]*InteractionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*InteractionRow
	for _, in := range s.rows(scriptID).Interactions {
		if name == "" || in.NameA == name || in.NameB == name {
			result = append(result, in)
		}
	}
	return result, nil
}

func (s *MemStore) ListDiagnostics(scriptID string) ([]*DiagnosticRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*DiagnosticRow(nil), s.rows(scriptID).Diagnostics...), nil
}

func (s *MemStore) CountPresences(scriptID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows(scriptID).Presences), nil
}

func (s *MemStore) CountInteractions(scriptID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows(scriptID).Interactions), nil
}

// Compile-time interface check
var _ Storer = (*MemStore)(nil)
