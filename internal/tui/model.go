package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/i18n"
)

// Focus is the panel receiving list navigation keys.
type Focus int

const (
	FocusMedications Focus = iota
	FocusInput
	FocusHistory
)

// AppModel holds the TUI state. Application state lives in the orchestrator;
// Snap is refreshed from it after every update.
type AppModel struct {
	orch   *analyzer.Orchestrator
	ctx    context.Context
	cancel context.CancelFunc

	// Data
	Snap analyzer.Snapshot

	// UI State
	WindowSize      tea.WindowSizeMsg
	Focus           Focus
	SelectedMed     int
	SelectedHistory int
	ActiveTab       int // 0 = interactions, i = medication i-1
	ImagesDir       string
	Status          string

	// Overlays
	ShowDisclaimer bool
	ShowHelp       bool
	HelpContent    string
	HelpScrollY    int

	// Components
	Input   textinput.Model
	Spinner spinner.Model
	Details viewport.Model
}

// InitialModel returns the initial state driving orch. Saved images go to imagesDir.
func InitialModel(orch *analyzer.Orchestrator, imagesDir string) AppModel {
	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 28
	ti.ShowSuggestions = true

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	ctx, cancel := context.WithCancel(context.Background())

	m := AppModel{
		orch:           orch,
		ctx:            ctx,
		cancel:         cancel,
		ImagesDir:      imagesDir,
		ShowDisclaimer: true,
		HelpContent:    i18n.Help(),
		Input:          ti,
		Spinner:        sp,
		Details:        viewport.New(40, 10),
	}
	m.refresh()
	return m
}

// Strings returns the translation table for the current language.
func (m AppModel) Strings() i18n.Strings {
	return i18n.For(m.Snap.Language)
}

func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}
