package stores

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlukic/matchday/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return store
}

func TestTournamentsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := []models.Tournament{
		{ID: "t1", Name: "Spring Cup", Teams: []models.Team{{ID: "team1", Name: "Reds"}}},
		{ID: "t2", Name: "Summer Cup"},
	}
	store.SaveTournaments(in)

	out := store.Tournaments()
	require.Len(t, out, 2)
	assert.Equal(t, in, out)
}

func TestTournamentsEmptyWhenMissing(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Tournaments())
}

func TestReadIgnoresCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, TournamentsKey+".json"), []byte("{not json"), 0o644))

	assert.Empty(t, store.Tournaments(), "a corrupt cache reads as empty, not as an error")
}

func TestReadLeavesDestinationUntouchedOnMissingKey(t *testing.T) {
	store := newTestStore(t)

	dst := []models.Tournament{{ID: "preset", Name: "Preset"}}
	store.Read("absent", &dst)

	require.Len(t, dst, 1)
	assert.Equal(t, "preset", dst[0].ID)
}

func TestClearRemovesEntry(t *testing.T) {
	store := newTestStore(t)
	store.SaveTournaments([]models.Tournament{{ID: "t1", Name: "Spring Cup"}})
	require.Len(t, store.Tournaments(), 1)

	store.Clear(TournamentsKey)
	assert.Empty(t, store.Tournaments())

	// Clearing an absent key is a no-op, not a failure.
	store.Clear(TournamentsKey)
}
