package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/store"
)

type stubAI struct {
	failImage string
}

func (s stubAI) AnalyzeMedications(_ context.Context, names []string, _ model.Language) (model.AnalysisResult, error) {
	res := model.AnalysisResult{Interactions: []model.InteractionInfo{}}
	for _, n := range names {
		res.Medications = append(res.Medications, model.MedicationInfo{Name: n, Form: "Tablet", Dosage: model.Dosage{Recommendation: "1 daily"}})
	}
	return res, nil
}

func (s stubAI) GenerateImage(_ context.Context, name, _ string) (string, error) {
	if name == s.failImage {
		return "", errors.New("no image")
	}
	return model.JPEGDataURI("aGVsbG8="), nil
}

func newTestModel(t *testing.T, ai analyzer.AI, meds ...string) AppModel {
	t.Helper()
	orch := analyzer.New(ai, store.NewAccessor(store.NewMemoryKV()), analyzer.WithMedications(meds))
	m := InitialModel(orch, t.TempDir())
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(AppModel)
	require.True(t, ok)
	return out
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m AppModel, keys ...string) AppModel {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, key(k))
	}
	return m
}

// drive runs an analysis the way the program loop would, executing each step command.
func drive(t *testing.T, m AppModel) AppModel {
	t.Helper()
	job, err := m.orch.Begin()
	require.NoError(t, err)
	res, err := m.orch.FetchAnalysis(context.Background(), job)

	var msg tea.Msg = MsgAnalysisReady{RunID: job.RunID, Result: res, Err: err}
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(AppModel)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func TestDisclaimerBlocksUntilAccepted(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	assert.Contains(t, m.View(), "Important Medical Disclaimer")

	m = press(t, m, "n")
	assert.True(t, m.ShowDisclaimer)
	assert.Equal(t, []string{"Aspirin"}, m.Snap.Medications, "keys are ignored behind the disclaimer")

	m = press(t, m, "enter")
	assert.False(t, m.ShowDisclaimer)
	assert.Contains(t, m.View(), "Medication Analyzer Pro")
}

func TestAddAndRemoveMedications(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	m = press(t, m, "enter", "a")
	require.Equal(t, FocusInput, m.Focus)

	m = press(t, m, "W", "a", "r", "f", "a", "r", "i", "n", "enter")
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, m.Snap.Medications)
	assert.Equal(t, 1, m.SelectedMed)

	m = press(t, m, "a", "s", "p", "i", "r", "i", "n", "enter")
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, m.Snap.Medications, "duplicates are ignored")

	m = press(t, m, "esc")
	assert.Equal(t, FocusMedications, m.Focus)

	m = press(t, m, "up", "x")
	assert.Equal(t, []string{"Warfarin"}, m.Snap.Medications)
}

func TestAnalysisFillsImagesProgressively(t *testing.T) {
	m := newTestModel(t, stubAI{failImage: "Metformin"}, "Lisinopril", "Metformin", "Aspirin")
	m = press(t, m, "enter")

	m = drive(t, m)
	assert.Equal(t, model.Done, m.Snap.Phase)
	require.NotNil(t, m.Snap.Result)
	require.Len(t, m.Snap.History, 1)

	meds := m.Snap.Result.Medications
	assert.NotEmpty(t, meds[0].ImageURL)
	assert.Empty(t, meds[1].ImageURL)
	assert.NotEmpty(t, meds[2].ImageURL)

	m = press(t, m, "right")
	assert.Equal(t, 1, m.ActiveTab)
	assert.Contains(t, m.Details.View(), "Image ready")

	m = press(t, m, "s")
	assert.Contains(t, m.Status, "Lisinopril.jpg")

	m = press(t, m, "right")
	assert.Contains(t, m.Details.View(), "Image not available")
}

func TestLanguageToggleDiscardsResult(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	m = press(t, m, "enter")
	m = drive(t, m)
	require.NotNil(t, m.Snap.Result)

	m = press(t, m, "L")
	assert.Equal(t, model.Arabic, m.Snap.Language)
	assert.Nil(t, m.Snap.Result)
	assert.Equal(t, model.Idle, m.Snap.Phase)
	assert.Equal(t, []string{"Aspirin"}, m.Snap.Medications)
	assert.Len(t, m.Snap.History, 1)
	assert.Contains(t, m.View(), "محلل الأدوية")
}

func TestLoadAndClearHistory(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin", "Warfarin")
	m = press(t, m, "enter")
	m = drive(t, m)
	want := m.Snap.History[0]

	m = press(t, m, "n")
	assert.Empty(t, m.Snap.Medications)
	assert.Nil(t, m.Snap.Result)

	m = press(t, m, "tab", "enter")
	assert.Equal(t, want.Medications, m.Snap.Medications)
	require.NotNil(t, m.Snap.Result)
	assert.Equal(t, want.Result, *m.Snap.Result)

	m = press(t, m, "C")
	assert.Empty(t, m.Snap.History)
}

func TestStaleAnalysisMessageIgnored(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	m = press(t, m, "enter")

	next, cmd := m.Update(MsgAnalysisReady{RunID: "not-a-run", Result: model.AnalysisResult{}})
	m = next.(AppModel)
	assert.Nil(t, cmd)
	assert.Nil(t, m.Snap.Result)
	assert.Equal(t, model.Idle, m.Snap.Phase)
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	m = press(t, m, "enter", "?")
	assert.True(t, m.ShowHelp)
	assert.Contains(t, m.View(), model.Version)
	m = press(t, m, "esc")
	assert.False(t, m.ShowHelp)
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t, stubAI{}, "Aspirin")
	m = press(t, m, "enter", "T")
	assert.Equal(t, model.Dark, m.Snap.Theme)
}
