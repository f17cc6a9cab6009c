package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

type palette struct {
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Selected lipgloss.Color
	OnAccent lipgloss.Color

	Minor    lipgloss.Color
	Moderate lipgloss.Color
	Major    lipgloss.Color
	Critical lipgloss.Color
	Unknown  lipgloss.Color
}

var lightPalette = palette{
	Primary:  lipgloss.Color("25"),  // deep blue
	Accent:   lipgloss.Color("31"),  // teal
	Text:     lipgloss.Color("235"),
	Muted:    lipgloss.Color("244"),
	Border:   lipgloss.Color("250"),
	Selected: lipgloss.Color("153"),
	OnAccent: lipgloss.Color("231"),
	Minor:    lipgloss.Color("28"),
	Moderate: lipgloss.Color("136"),
	Major:    lipgloss.Color("166"),
	Critical: lipgloss.Color("160"),
	Unknown:  lipgloss.Color("242"),
}

var darkPalette = palette{
	Primary:  lipgloss.Color("75"),
	Accent:   lipgloss.Color("80"),
	Text:     lipgloss.Color("255"),
	Muted:    lipgloss.Color("245"),
	Border:   lipgloss.Color("60"),
	Selected: lipgloss.Color("57"),
	OnAccent: lipgloss.Color("16"),
	Minor:    lipgloss.Color("114"),
	Moderate: lipgloss.Color("221"),
	Major:    lipgloss.Color("215"),
	Critical: lipgloss.Color("203"),
	Unknown:  lipgloss.Color("250"),
}

// styles is the set of lipgloss styles for one theme.
type styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Heading     lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	Panel       lipgloss.Style
	ActivePanel lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	ErrorBox    lipgloss.Style
	Dialog      lipgloss.Style
	Button      lipgloss.Style

	pal palette
}

func newStyles(theme model.Theme) styles {
	p := lightPalette
	if theme == model.Dark {
		p = darkPalette
	}
	return styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Subtitle:    lipgloss.NewStyle().Italic(true).Foreground(p.Muted),
		Heading:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Text:        lipgloss.NewStyle().Foreground(p.Text),
		Muted:       lipgloss.NewStyle().Foreground(p.Muted),
		Selected:    lipgloss.NewStyle().Foreground(p.Text).Background(p.Selected).Bold(true),
		Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		ActivePanel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).Padding(0, 1),
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(p.OnAccent).Background(p.Primary).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ErrorBox:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(p.Critical).Foreground(p.Critical).Padding(0, 1),
		Dialog:      lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.Major).Padding(1, 2),
		Button:      lipgloss.NewStyle().Bold(true).Foreground(p.OnAccent).Background(p.Accent).Padding(0, 2),
		pal:         p,
	}
}

// Interaction returns the style for an interaction severity label.
func (s styles) Interaction(label string) lipgloss.Style {
	c := s.pal.Unknown
	switch model.InteractionLevel(label) {
	case model.SeverityMinor:
		c = s.pal.Minor
	case model.SeverityModerate:
		c = s.pal.Moderate
	case model.SeverityMajor:
		c = s.pal.Major
	case model.SeverityLifeThreatening:
		c = s.pal.Critical
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// SideEffect returns the style for a side-effect severity label.
func (s styles) SideEffect(label string) lipgloss.Style {
	c := s.pal.Muted
	switch model.SideEffectLevel(label) {
	case model.SideEffectCommon:
		c = s.pal.Moderate
	case model.SideEffectRare:
		c = s.pal.Accent
	case model.SideEffectSevere:
		c = s.pal.Critical
	}
	return lipgloss.NewStyle().Foreground(c)
}
