package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"inspirehome-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(
		filepath.Join(dir, "public", "data", "liberta-products.json"),
		filepath.Join(dir, "data", "last-sync.json"),
		filepath.Join(dir, "public", "data", "sync-history.json"),
	)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "liberta-A-1", Title: "Lamp", Slug: "lamp", Price: 150, Stock: 4, InStock: true,
			Images: []string{"https://cdn.example.com/a1.jpg"}, Categories: []string{"lighting"}},
	}
}

func sampleState() domain.SyncState {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.SyncState{
		LastSync:     &now,
		ProductCount: 1,
		ProductHash:  map[string]string{"liberta-A-1": "abc123"},
		Delta:        domain.DeltaSummary{New: 1, NewIDs: []string{"liberta-A-1"}},
	}
}

func TestLoadStateMissingFileIsEmptyBaseline(t *testing.T) {
	store := newTestStore(t)

	state, err := store.LoadState()
	require.NoError(t, err)
	assert.Nil(t, state.LastSync)
	assert.Zero(t, state.ProductCount)
	assert.NotNil(t, state.ProductHash)
	assert.Empty(t, state.ProductHash)
}

func TestLoadStateCorruptFileIsError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.statePath), 0o755))
	require.NoError(t, os.WriteFile(store.statePath, []byte("{not json"), 0o644))

	_, err := store.LoadState()
	assert.Error(t, err)
}

func TestPersistRoundTrip(t *testing.T) {
	store := newTestStore(t)
	state := sampleState()
	entry := domain.HistoryEntry{
		Timestamp:    *state.LastSync,
		RunID:        "run-1",
		ProductCount: 1,
		Delta:        state.Delta,
	}

	require.NoError(t, store.Persist(sampleProducts(), state, entry))

	gotState, err := store.LoadState()
	require.NoError(t, err)
	assert.Equal(t, state.ProductHash, gotState.ProductHash)
	assert.Equal(t, 1, gotState.ProductCount)
	require.NotNil(t, gotState.LastSync)
	assert.True(t, state.LastSync.Equal(*gotState.LastSync))

	gotHistory, err := store.LoadHistory()
	require.NoError(t, err)
	require.Len(t, gotHistory, 1)
	assert.Equal(t, "run-1", gotHistory[0].RunID)

	gotCatalog, err := store.LoadCatalog()
	require.NoError(t, err)
	require.Len(t, gotCatalog, 1)
	assert.Equal(t, "liberta-A-1", gotCatalog[0].ID)

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(store.statePath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestPersistPrependsNewestFirstAndCapsHistory(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < domain.MaxHistoryEntries+5; i++ {
		entry := domain.HistoryEntry{
			Timestamp: time.Now().UTC(),
			RunID:     string(rune('a' + i%26)),
		}
		require.NoError(t, store.Persist(sampleProducts(), sampleState(), entry))
	}

	history, err := store.LoadHistory()
	require.NoError(t, err)
	assert.Len(t, history, domain.MaxHistoryEntries)
}

func TestPersistNewestFirst(t *testing.T) {
	store := newTestStore(t)

	first := domain.HistoryEntry{RunID: "first", Timestamp: time.Now().UTC()}
	second := domain.HistoryEntry{RunID: "second", Timestamp: time.Now().UTC()}
	require.NoError(t, store.Persist(sampleProducts(), sampleState(), first))
	require.NoError(t, store.Persist(sampleProducts(), sampleState(), second))

	history, err := store.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].RunID)
	assert.Equal(t, "first", history[1].RunID)
}

func TestLockExcludesSecondRun(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Lock())
	err := store.Lock()
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, store.Unlock())
	assert.NoError(t, store.Lock(), "lock can be retaken after release")
	require.NoError(t, store.Unlock())
}
