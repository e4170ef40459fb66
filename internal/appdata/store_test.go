package appdata

import (
	"log/slog"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(afero.NewMemMapFs(), "data", setupTestLogger())
	require.NoError(t, err)
	return store
}

func TestNewStoreValidation(t *testing.T) {
	logger := setupTestLogger()
	fs := afero.NewMemMapFs()

	_, err := NewStore(nil, "data", logger)
	assert.ErrorIs(t, err, ErrNilFs)

	_, err = NewStore(fs, "", logger)
	assert.ErrorIs(t, err, ErrEmptyDir)

	_, err = NewStore(fs, "data", nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := map[string]any{
		"id":    "p-9",
		"title": "A story",
	}
	require.NoError(t, store.Save("story.json", saved))

	var loaded map[string]any
	require.NoError(t, store.Load("story.json", &loaded))
	assert.Equal(t, "p-9", loaded["id"])
	assert.Equal(t, "A story", loaded["title"])
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	var out map[string]any
	err := store.Load("missing.json", &out)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("story.json", map[string]any{"id": "p-9"}))

	require.NoError(t, store.Clear("story.json"))

	var out map[string]any
	assert.ErrorIs(t, store.Load("story.json", &out), ErrFileMissing)

	// Clearing again reports the missing file.
	assert.ErrorIs(t, store.Clear("story.json"), ErrFileMissing)
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("story.json", map[string]any{"title": "first"}))
	require.NoError(t, store.Save("story.json", map[string]any{"title": "second"}))

	var loaded map[string]any
	require.NoError(t, store.Load("story.json", &loaded))
	assert.Equal(t, "second", loaded["title"])
}
