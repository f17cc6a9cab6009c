package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

func sampleHistory() []model.HistoryItem {
	return []model.HistoryItem{
		{
			ID:          "2025-01-02T10:00:00.000Z",
			Timestamp:   1735812000000,
			Medications: []string{"Aspirin", "Warfarin"},
			Result: model.AnalysisResult{
				Medications: []model.MedicationInfo{{Name: "Aspirin", Form: "Tablet", ImageURL: "data:image/jpeg;base64,AA=="}},
				Interactions: []model.InteractionInfo{
					{Medications: []string{"Aspirin", "Warfarin"}, Severity: "Major", Description: "Bleeding."},
				},
			},
		},
	}
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "v1"))
	require.NoError(t, kv.Set("k", "v2"))
	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")

	require.NoError(t, kv.Delete("k"))
	require.NoError(t, kv.Delete("k"))
	_, ok, _ = kv.Get("k")
	assert.False(t, ok)

	assert.Error(t, kv.Set("../escape", "x"))
}

func TestHistoryRoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	a := NewAccessor(kv)

	assert.Empty(t, a.LoadHistory())

	items := sampleHistory()
	require.NoError(t, a.SaveHistory(items))
	assert.Equal(t, items, a.LoadHistory())

	require.NoError(t, a.ClearHistory())
	_, ok, _ := kv.Get(HistoryKey)
	assert.False(t, ok)
	assert.Empty(t, a.LoadHistory())
}

func TestCorruptHistoryIsDiscarded(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"x"}`, `[{"timestamp":"yesterday"}]`} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(HistoryKey, raw))

		a := NewAccessor(kv)
		items := a.LoadHistory()
		assert.NotNil(t, items)
		assert.Empty(t, items, raw)

		_, ok, _ := kv.Get(HistoryKey)
		assert.False(t, ok, "corrupt value should be removed: %s", raw)
	}
}

func TestNullHistoryLoadsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(HistoryKey, "null"))
	items := NewAccessor(kv).LoadHistory()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPreferences(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAccessor(kv)

	assert.Equal(t, model.English, a.LoadLanguage())
	assert.Equal(t, model.Light, a.LoadTheme())

	require.NoError(t, a.SaveLanguage(model.Arabic))
	require.NoError(t, a.SaveTheme(model.Dark))
	assert.Equal(t, model.Arabic, a.LoadLanguage())
	assert.Equal(t, model.Dark, a.LoadTheme())

	raw, _, _ := kv.Get(LanguageKey)
	assert.Equal(t, "ar", raw)

	require.NoError(t, kv.Set(LanguageKey, "fr"))
	require.NoError(t, kv.Set(ThemeKey, "sepia"))
	assert.Equal(t, model.English, a.LoadLanguage())
	assert.Equal(t, model.Light, a.LoadTheme())
}

func TestFileKVLayout(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, NewAccessor(kv).SaveTheme(model.Dark))

	data, err := os.ReadFile(filepath.Join(dir, ThemeKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, "dark", string(data))
}
