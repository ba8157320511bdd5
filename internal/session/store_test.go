package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/chart-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	return store
}

func TestGetMissingSession(t *testing.T) {
	store := newTestStore(t)

	session, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSetAndGetStyle(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetStyle("s1", types.SchemeBNR))

	style, err := store.Style("s1")
	require.NoError(t, err)
	assert.Equal(t, types.SchemeBNR, style)

	session, err := store.Get("s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.False(t, session.CreatedAt.IsZero())
	assert.False(t, session.LastUsed.IsZero())
}

func TestAppendAndHistoryOrder(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append("s1", types.RoleUser, "Chart this: A=1, B=2", nil))
	require.NoError(t, store.Append("s1", types.RoleAssistant, "done", &types.ChartMeta{
		ChartID: "c1", ChartType: types.ChartBar,
		XLabels: []string{"A", "B"}, YValues: []float64{1, 2},
	}))

	history, err := store.History("s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	require.NotNil(t, history[1].Meta)
	assert.Equal(t, "c1", history[1].Meta.ChartID)
}

func TestHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append("s1", types.RoleUser, "hello", nil))

	reopened, err := NewStore(path)
	require.NoError(t, err)
	history, err := reopened.History("s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Content)
}

func TestClearHistoryKeepsStyle(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetStyle("s1", types.SchemeFD))
	require.NoError(t, store.Append("s1", types.RoleUser, "hi", nil))

	require.NoError(t, store.ClearHistory("s1"))

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.Empty(t, history)

	style, err := store.Style("s1")
	require.NoError(t, err)
	assert.Equal(t, types.SchemeFD, style)
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetStyle("s1", types.SchemeFD))

	require.NoError(t, store.Delete("s1"))
	session, err := store.Get("s1")
	require.NoError(t, err)
	assert.Nil(t, session)

	// Deleting again is not an error.
	assert.NoError(t, store.Delete("s1"))
}

func TestCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	session, err := store.Get("s1")
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, store.SetStyle("s1", types.SchemeBNR))
	style, err := store.Style("s1")
	require.NoError(t, err)
	assert.Equal(t, types.SchemeBNR, style)
}

func TestPreferenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	pref, err := LoadPreference(path)
	require.NoError(t, err)
	assert.Equal(t, types.ColorScheme(""), pref.Get())

	require.NoError(t, pref.Set(types.SchemeBNR))

	reloaded, err := LoadPreference(path)
	require.NoError(t, err)
	assert.Equal(t, types.SchemeBNR, reloaded.Get())
}

func TestPreferenceIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	pref, err := LoadPreference(path)
	require.NoError(t, err)
	assert.Equal(t, types.ColorScheme(""), pref.Get())
}

func TestPreferenceIgnoresUnknownScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"color_scheme": "neon"}`), 0o644))

	pref, err := LoadPreference(path)
	require.NoError(t, err)
	assert.Equal(t, types.ColorScheme(""), pref.Get())
}
