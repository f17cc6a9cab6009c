package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// MsgAnalysisReady carries the text response of a run.
type MsgAnalysisReady struct {
	RunID  string
	Result model.AnalysisResult
	Err    error
}

// MsgImageReady carries one image response.
type MsgImageReady struct {
	Job analyzer.ImageJob
	URL string
	Err error
}

func fetchAnalysisCmd(ctx context.Context, orch *analyzer.Orchestrator, job analyzer.TextJob) tea.Cmd {
	return func() tea.Msg {
		res, err := orch.FetchAnalysis(ctx, job)
		return MsgAnalysisReady{RunID: job.RunID, Result: res, Err: err}
	}
}

func fetchImageCmd(ctx context.Context, orch *analyzer.Orchestrator, job analyzer.ImageJob) tea.Cmd {
	return func() tea.Msg {
		url, err := orch.FetchImage(ctx, job)
		return MsgImageReady{Job: job, URL: url, Err: err}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.refresh()
	return m, cmd
}

func (m AppModel) update(msg tea.Msg) (AppModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgAnalysisReady:
		job, more := m.orch.CompleteAnalysis(msg.RunID, msg.Result, msg.Err)
		m.ActiveTab = 0
		m.Details.GotoTop()
		if more {
			return m, fetchImageCmd(m.ctx, m.orch, job)
		}
		return m, nil

	case MsgImageReady:
		job, more := m.orch.CompleteImage(msg.Job.RunID, msg.Job.Index, msg.URL, msg.Err)
		if more {
			return m, fetchImageCmd(m.ctx, m.orch, job)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Snap.Phase.InProgress() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.Focus == FocusInput {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) quit() (AppModel, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m AppModel) handleKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.ShowDisclaimer {
		switch msg.String() {
		case "enter", " ":
			m.ShowDisclaimer = false
		case "q", "esc":
			return m.quit()
		}
		return m, nil
	}

	if m.ShowHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.ShowHelp = false
		case "up", "k":
			if m.HelpScrollY > 0 {
				m.HelpScrollY--
			}
		case "down", "j":
			m.HelpScrollY++
		}
		return m, nil
	}

	if m.Focus == FocusInput {
		return m.handleInputKey(msg)
	}

	m.Status = ""
	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.ShowHelp = true
		m.HelpScrollY = 0
	case "a", "/":
		m.Focus = FocusInput
		m.Input.SetValue("")
		return m, m.Input.Focus()
	case "tab":
		if m.Focus == FocusHistory {
			m.Focus = FocusMedications
		} else {
			m.Focus = FocusHistory
		}
	case "up", "k":
		if m.Focus == FocusHistory {
			if m.SelectedHistory > 0 {
				m.SelectedHistory--
			}
		} else if m.SelectedMed > 0 {
			m.SelectedMed--
		}
	case "down", "j":
		if m.Focus == FocusHistory {
			if m.SelectedHistory < len(m.Snap.History)-1 {
				m.SelectedHistory++
			}
		} else if m.SelectedMed < len(m.Snap.Medications)-1 {
			m.SelectedMed++
		}
	case "enter":
		if m.Focus == FocusHistory {
			return m.loadHistory()
		}
		return m.analyze()
	case "x", "delete", "backspace":
		if m.Focus == FocusMedications && m.SelectedMed < len(m.Snap.Medications) {
			m.orch.RemoveMedication(m.Snap.Medications[m.SelectedMed])
		}
	case "n":
		m.orch.StartOver()
		m.ActiveTab = 0
		m.SelectedMed = 0
	case "C":
		if err := m.orch.ClearHistory(); err != nil {
			m.Status = err.Error()
		}
		m.SelectedHistory = 0
	case "left", "h":
		if m.ActiveTab > 0 {
			m.ActiveTab--
			m.Details.GotoTop()
		}
	case "right", "l":
		if m.Snap.Result != nil && m.ActiveTab < len(m.Snap.Result.Medications) {
			m.ActiveTab++
			m.Details.GotoTop()
		}
	case "pgdown", " ":
		m.Details.LineDown(m.Details.Height / 2)
	case "pgup":
		m.Details.LineUp(m.Details.Height / 2)
	case "s":
		m.saveImage()
	case "L":
		m.orch.ToggleLanguage()
		m.ActiveTab = 0
	case "T":
		m.orch.ToggleTheme()
	}
	return m, nil
}

func (m AppModel) handleInputKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.Input.Value())
		if value == "" {
			m.Focus = FocusMedications
			m.Input.Blur()
			return m, nil
		}
		if m.orch.AddMedication(value) {
			m.SelectedMed = len(m.orch.Snapshot().Medications) - 1
		}
		m.Input.SetValue("")
		return m, nil
	case tea.KeyEsc:
		m.Focus = FocusMedications
		m.Input.Blur()
		m.Input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m AppModel) analyze() (AppModel, tea.Cmd) {
	job, err := m.orch.Begin()
	if err != nil {
		logging.Debug("Analysis not started", "error", err)
		return m, nil
	}
	m.ActiveTab = 0
	return m, tea.Batch(m.Spinner.Tick, fetchAnalysisCmd(m.ctx, m.orch, job))
}

func (m AppModel) loadHistory() (AppModel, tea.Cmd) {
	if m.SelectedHistory >= len(m.Snap.History) {
		return m, nil
	}
	if err := m.orch.LoadFromHistory(m.Snap.History[m.SelectedHistory].ID); err != nil {
		m.Status = err.Error()
		return m, nil
	}
	m.ActiveTab = 0
	m.SelectedMed = 0
	m.Focus = FocusMedications
	m.Details.GotoTop()
	return m, nil
}

func (m *AppModel) saveImage() {
	med, ok := m.activeMedication()
	if !ok || med.ImageURL == "" {
		return
	}
	path, err := model.SaveImage(m.ImagesDir, med.Name, med.ImageURL)
	if err != nil {
		logging.Warn("Failed to save image", "medication", med.Name, "error", err)
		m.Status = err.Error()
		return
	}
	m.Status = fmt.Sprintf("%s %s", m.Strings().ImageSaved, path)
}

// activeMedication returns the medication shown in the current tab.
func (m AppModel) activeMedication() (model.MedicationInfo, bool) {
	if m.Snap.Result == nil || m.ActiveTab == 0 || m.ActiveTab > len(m.Snap.Result.Medications) {
		return model.MedicationInfo{}, false
	}
	return m.Snap.Result.Medications[m.ActiveTab-1], true
}

// refresh pulls a new snapshot, clamps cursors and re-renders the details pane.
func (m *AppModel) refresh() {
	m.Snap = m.orch.Snapshot()
	t := m.Strings()

	m.Input.Placeholder = t.MedicationInputPlaceholder
	m.Input.SetSuggestions(model.Suggestions(m.Snap.Medications))

	m.SelectedMed = clamp(m.SelectedMed, len(m.Snap.Medications))
	m.SelectedHistory = clamp(m.SelectedHistory, len(m.Snap.History))
	tabs := 1
	if m.Snap.Result != nil {
		tabs += len(m.Snap.Result.Medications)
	}
	m.ActiveTab = clamp(m.ActiveTab, tabs)

	w, h := m.rightPanelSize()
	m.Details.Width = w
	m.Details.Height = h
	m.Details.SetContent(m.renderDetails(w))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
