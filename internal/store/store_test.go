package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/correosdelbosque/tsl/pkg/script"
	"github.com/correosdelbosque/tsl/pkg/script/diag"
	"github.com/correosdelbosque/tsl/pkg/script/extract"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

// sampleRows parses a small script and flattens it for saving.
func sampleRows(t *testing.T, scriptID string) *ScriptRows {
	t.Helper()

	texts := []string{
		"INT. KITCHEN - NIGHT",
		"",
		"          JOHN",
		"     Hello there.",
		"",
		"          MARY",
		"     Hello yourself.",
		"",
		"EXT. GARDEN - DAY",
		"",
		"Mary waves at John.",
	}
	lines := make([]script.Line, len(texts))
	for i, s := range texts {
		lines[i] = script.Line{LineNo: i + 1, PageNo: 1, Content: s}
	}

	diags := diag.NewList()
	res := extract.Run(lines, script.Strict, diags)
	return Flatten(scriptID, res, diags)
}

// =============================================================================
// Save / List Tests
// =============================================================================

func TestStoreCreation(t *testing.T) {
	runTestsForAllStores(t, "Creation", func(t *testing.T, store Storer) {
		require.NotNil(t, store, "Store should not be nil")
	})
}

func TestSaveAndListScenes(t *testing.T) {
	runTestsForAllStores(t, "SaveAndListScenes", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "script-1")
		require.NoError(t, store.SaveScript("script-1", rows))

		scenes, err := store.ListScenes("script-1")
		require.NoError(t, err)
		require.Len(t, scenes, 2)

		assert.Equal(t, "1", scenes[0].SceneID)
		assert.Equal(t, 1, scenes[0].HeadingLine)
		assert.Equal(t, "2", scenes[1].SceneID)
		assert.Equal(t, 9, scenes[1].HeadingLine)
		assert.Greater(t, scenes[0].DialogWords, 0)
	})
}

func TestSaveAndListBlocks(t *testing.T) {
	runTestsForAllStores(t, "SaveAndListBlocks", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "script-1")
		require.NoError(t, store.SaveScript("script-1", rows))

		all, err := store.ListBlocks("script-1", "")
		require.NoError(t, err)
		assert.Equal(t, len(rows.Blocks), len(all))

		scene1, err := store.ListBlocks("script-1", "1")
		require.NoError(t, err)
		require.NotEmpty(t, scene1)
		for _, b := range scene1 {
			assert.Equal(t, "1", b.SceneID)
		}
		assert.Equal(t, "SCENE_HEADING", scene1[0].BlockType)
	})
}

func TestListPresencesByName(t *testing.T) {
	runTestsForAllStores(t, "ListPresencesByName", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "script-1")
		require.NoError(t, store.SaveScript("script-1", rows))

		all, err := store.ListPresences("script-1", "")
		require.NoError(t, err)
		assert.Equal(t, len(rows.Presences), len(all))

		johns, err := store.ListPresences("script-1", "JOHN")
		require.NoError(t, err)
		require.NotEmpty(t, johns)
		for _, p := range johns {
			assert.Equal(t, "JOHN", p.Name)
			assert.Equal(t, "CHARACTER", p.NounType)
		}

		none, err := store.ListPresences("script-1", "NOBODY")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestListInteractionsMatchesEitherParticipant(t *testing.T) {
	runTestsForAllStores(t, "ListInteractionsEither", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "script-1")
		require.NoError(t, store.SaveScript("script-1", rows))

		kitchen, err := store.ListInteractions("script-1", "KITCHEN")
		require.NoError(t, err)
		require.NotEmpty(t, kitchen)
		for _, in := range kitchen {
			assert.True(t, in.NameA == "KITCHEN" || in.NameB == "KITCHEN")
			assert.Equal(t, "SETTING", in.Kind)
		}
	})
}

func TestSaveReplacesPreviousParse(t *testing.T) {
	runTestsForAllStores(t, "SaveReplaces", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "script-1")
		require.NoError(t, store.SaveScript("script-1", rows))
		require.NoError(t, store.SaveScript("script-1", rows))

		count, err := store.CountPresences("script-1")
		require.NoError(t, err)
		assert.Equal(t, len(rows.Presences), count)

		count, err = store.CountInteractions("script-1")
		require.NoError(t, err)
		assert.Equal(t, len(rows.Interactions), count)
	})
}

func TestSaveIsolatedPerScript(t *testing.T) {
	runTestsForAllStores(t, "SaveIsolated", func(t *testing.T, store Storer) {
		rows := sampleRows(t, "a")
		require.NoError(t, store.SaveScript("a", rows))
		require.NoError(t, store.SaveScript("b", sampleRows(t, "b")))

		require.NoError(t, store.DeleteScript("b"))

		scenes, err := store.ListScenes("a")
		require.NoError(t, err)
		assert.Len(t, scenes, 2)

		scenes, err = store.ListScenes("b")
		require.NoError(t, err)
		assert.Empty(t, scenes)
	})
}

func TestListUnknownScript(t *testing.T) {
	runTestsForAllStores(t, "ListUnknown", func(t *testing.T, store Storer) {
		scenes, err := store.ListScenes("nope")
		require.NoError(t, err)
		assert.Empty(t, scenes)

		count, err := store.CountPresences("nope")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestDiagnosticsRoundTrip(t *testing.T) {
	runTestsForAllStores(t, "Diagnostics", func(t *testing.T, store Storer) {
		// A direction without a preceding empty line is a grammar error.
		texts := []string{
			"INT. KITCHEN - NIGHT",
			"",
			"Smoke everywhere.",
			"          CUT TO:",
		}
		lines := make([]script.Line, len(texts))
		for i, s := range texts {
			lines[i] = script.Line{LineNo: i + 1, PageNo: 1, Content: s}
		}
		diags := diag.NewList()
		res := extract.Run(lines, script.Strict, diags)
		require.NotZero(t, diags.Len())

		require.NoError(t, store.SaveScript("s", Flatten("s", res, diags)))

		stored, err := store.ListDiagnostics("s")
		require.NoError(t, err)
		require.Len(t, stored, diags.Len())
		assert.Equal(t, "GRAMMAR", stored[0].Kind)
		assert.Equal(t, 4, stored[0].LineNo)
	})
}

// =============================================================================
// Interface Compliance Test
// =============================================================================

func TestStorerInterface(t *testing.T) {
	// Verify both implementations satisfy Storer interface
	var _ Storer = (*MemStore)(nil)
	var _ Storer = (*SQLiteStore)(nil)
}
