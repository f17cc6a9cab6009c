package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/i18n"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

const (
	headerHeight = 3
	footerHeight = 2
	panelChrome  = 4 // border + horizontal padding
)

func (m AppModel) layout() (width, height, leftInner, rightInner, innerHeight int) {
	width, height = m.WindowSize.Width, m.WindowSize.Height
	if width < 60 {
		width = 60
	}
	if height < 20 {
		height = 20
	}
	leftOuter := width / 3
	if leftOuter < 32 {
		leftOuter = 32
	}
	if leftOuter > 46 {
		leftOuter = 46
	}
	leftInner = leftOuter - panelChrome
	rightInner = width - leftOuter - panelChrome
	innerHeight = height - headerHeight - footerHeight - 2
	return
}

// rightPanelSize is the viewport size inside the results panel (minus the tab row).
func (m AppModel) rightPanelSize() (int, int) {
	_, _, _, w, h := m.layout()
	h -= 2
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m AppModel) align() lipgloss.Position {
	if i18n.RTL(m.Snap.Language) {
		return lipgloss.Right
	}
	return lipgloss.Left
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m AppModel) View() string {
	if m.WindowSize.Width == 0 {
		return "\n  Loading..."
	}
	st := newStyles(m.Snap.Theme)

	if m.ShowDisclaimer {
		return m.renderDisclaimer(st)
	}
	if m.ShowHelp {
		return m.renderHelpDialog(st)
	}

	width, _, leftInner, rightInner, innerHeight := m.layout()

	leftStyle, rightStyle := st.Panel, st.Panel
	if m.Focus == FocusInput || m.Focus == FocusHistory {
		leftStyle = st.ActivePanel
	}
	left := leftStyle.Width(leftInner + 2).Height(innerHeight).Render(m.renderLeft(st, leftInner, innerHeight))
	right := rightStyle.Width(rightInner + 2).Height(innerHeight).Render(m.renderRight(st, rightInner))

	var panels string
	if i18n.RTL(m.Snap.Language) {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, right, left)
	} else {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(st, width),
		panels,
		m.renderFooter(st, width),
	)
}

func (m AppModel) renderHeader(st styles, width int) string {
	t := m.Strings()
	theme := "☾ dark"
	if m.Snap.Theme == model.Dark {
		theme = "☀ light"
	}
	controls := st.Muted.Render(fmt.Sprintf("[L] %s  [T] %s  [?]", t.SwitchLabel(m.Snap.Language), theme))
	title := st.Title.Render(model.IconPill+" "+t.HeaderTitle) + "  " + st.Muted.Render(model.Version)

	gap := width - lipgloss.Width(title) - lipgloss.Width(controls)
	if gap < 1 {
		gap = 1
	}
	line := title + strings.Repeat(" ", gap) + controls
	sub := lipgloss.NewStyle().Width(width).Align(m.align()).Render(st.Subtitle.Render(t.HeaderSubtitle))
	return line + "\n" + sub + "\n"
}

func (m AppModel) renderFooter(st styles, width int) string {
	var line string
	switch {
	case m.Status != "":
		line = st.Heading.Render(m.Status)
	case m.Focus == FocusInput:
		line = st.Muted.Render("enter: add • tab: complete • esc: done")
	case m.Focus == FocusHistory:
		line = st.Muted.Render("↑/↓: select • enter: load • C: clear • tab: back • q: quit")
	default:
		line = st.Muted.Render("a: add • x: remove • enter: analyze • n: new • ←/→: tabs • s: save image • tab: history • ?: help • q: quit")
	}
	return "\n" + lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m AppModel) renderLeft(st styles, width, height int) string {
	t := m.Strings()
	var b strings.Builder

	b.WriteString(st.Heading.Render(t.MedicationInputTitle) + "\n")
	b.WriteString(st.Muted.Render(truncate(t.MedicationInputSubtitle, width)) + "\n\n")

	if m.Focus == FocusInput {
		b.WriteString(m.Input.View() + "\n")
		for i, s := range m.matchingSuggestions(4) {
			marker := "  "
			if i == 0 {
				marker = model.IconSelected + " "
			}
			b.WriteString(st.Muted.Render(marker+s) + "\n")
		}
	} else {
		b.WriteString(st.Muted.Render("[a] "+truncate(t.MedicationInputPlaceholder, width-4)) + "\n")
	}
	b.WriteString("\n")

	for i, name := range m.Snap.Medications {
		line := model.IconPill + " " + truncate(name, width-4)
		if i == m.SelectedMed && m.Focus == FocusMedications {
			b.WriteString(st.Selected.Render(model.IconSelected+" "+line) + "\n")
		} else {
			b.WriteString(st.Text.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n")

	analyze := "[enter] " + t.AnalyzeButton
	if m.orch.CanAnalyze() {
		b.WriteString(st.Button.Render(analyze) + "\n")
	} else {
		b.WriteString(st.Muted.Render(analyze) + "\n")
	}
	b.WriteString(st.Muted.Render("[n] "+t.StartNewAnalysis) + "\n\n")

	b.WriteString(m.renderHistory(st, width))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Width(width).Align(m.align()).Render(strings.Join(lines, "\n"))
}

func (m AppModel) renderHistory(st styles, width int) string {
	t := m.Strings()
	var b strings.Builder
	heading := model.IconHistory + " " + t.HistoryTitle
	if len(m.Snap.History) > 0 {
		heading += "  " + st.Muted.Render("[C] "+t.ClearAll)
	}
	b.WriteString(st.Heading.Render(heading) + "\n")

	if len(m.Snap.History) == 0 {
		b.WriteString(st.Muted.Render(t.HistoryEmpty) + "\n")
		return b.String()
	}
	for i, item := range m.Snap.History {
		when := time.UnixMilli(item.Timestamp).Format("01-02 15:04")
		line := truncate(when+" "+strings.Join(item.Medications, ", "), width-2)
		if m.Focus == FocusHistory && i == m.SelectedHistory {
			b.WriteString(st.Selected.Render(model.IconSelected+" "+line) + "\n")
		} else {
			b.WriteString(st.Muted.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

// matchingSuggestions lists the suggestions that start with the typed text.
func (m AppModel) matchingSuggestions(limit int) []string {
	typed := strings.ToLower(strings.TrimSpace(m.Input.Value()))
	if typed == "" {
		return nil
	}
	var out []string
	for _, s := range model.Suggestions(m.Snap.Medications) {
		if strings.HasPrefix(strings.ToLower(s), typed) {
			out = append(out, s)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (m AppModel) renderRight(st styles, width int) string {
	t := m.Strings()
	var top string
	if m.Snap.Result != nil {
		tabs := []string{t.InteractionsTab}
		for _, med := range m.Snap.Result.Medications {
			tabs = append(tabs, med.Name)
		}
		var rendered []string
		for i, name := range tabs {
			if i == m.ActiveTab {
				rendered = append(rendered, st.TabActive.Render(name))
			} else {
				rendered = append(rendered, st.TabInactive.Render(name))
			}
		}
		top = lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	} else {
		top = st.Heading.Render(t.MedicationDetailsPlaceholder)
	}
	return top + "\n\n" + m.Details.View()
}

// renderDetails builds the scrollable content of the results panel.
func (m AppModel) renderDetails(width int) string {
	st := newStyles(m.Snap.Theme)
	t := m.Strings()
	var b strings.Builder

	switch {
	case m.Snap.Phase == model.AnalyzingText:
		b.WriteString(m.Spinner.View() + " " + st.Heading.Render(t.LoadingAnalysis) + "\n\n")
		b.WriteString(st.Muted.Render(t.LoadingSubtext))
	case m.Snap.Err != nil:
		b.WriteString(st.ErrorBox.Width(width - 2).Render(t.ErrorText(m.Snap.Err)))
	case m.Snap.Result == nil:
		b.WriteString(st.Heading.Render(t.WelcomeTitle) + "\n\n")
		b.WriteString(st.Text.Render(t.WelcomeBody))
	default:
		if m.Snap.Phase == model.GeneratingImages {
			b.WriteString(m.Spinner.View() + " " + st.Muted.Render(t.LoadingImages) + "\n\n")
		}
		if med, ok := m.activeMedication(); ok {
			b.WriteString(m.renderMedication(st, t, med))
		} else {
			b.WriteString(m.renderInteractions(st, t))
		}
	}

	return lipgloss.NewStyle().Width(width).Align(m.align()).Render(b.String())
}

func (m AppModel) renderInteractions(st styles, t i18n.Strings) string {
	var b strings.Builder
	if len(m.Snap.Result.Interactions) == 0 {
		b.WriteString(st.Interaction("Minor").Render(model.IconMinor+" "+t.NoInteractionsTitle) + "\n\n")
		b.WriteString(st.Text.Render(t.NoInteractionsBody))
		return b.String()
	}
	for _, in := range m.Snap.Result.Interactions {
		sev := st.Interaction(in.Severity)
		level := model.InteractionLevel(in.Severity)
		b.WriteString(sev.Render(level.Icon()+" "+strings.Join(in.Medications, " + ")) + "  ")
		b.WriteString(sev.Render(fmt.Sprintf("[%s %s]", in.Severity, t.InteractionSuffix)) + "\n")
		b.WriteString(st.Text.Render(in.Description) + "\n\n")
	}
	return b.String()
}

func (m AppModel) renderMedication(st styles, t i18n.Strings, med model.MedicationInfo) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(model.IconPill+" "+med.Name) + "  " + st.Muted.Render(med.Form) + "\n")
	b.WriteString(st.Text.Render(med.Description) + "\n\n")

	switch {
	case med.ImageLoading:
		b.WriteString(m.Spinner.View() + " " + st.Muted.Render(t.ImageLoading))
	case med.ImageURL != "":
		status := model.IconImageReady + " " + t.ImageReady
		if img, err := model.DecodeDataURI(med.ImageURL); err == nil {
			status += fmt.Sprintf(" (%s, %.1f KB)", img.MimeType, float64(len(img.Bytes))/1024)
		}
		b.WriteString(st.Heading.Render(status) + st.Muted.Render("  [s]"))
	default:
		b.WriteString(st.Muted.Render(model.IconImageMissing + " " + t.ImageNotAvailable))
	}
	b.WriteString("\n\n")

	b.WriteString(st.Heading.Render(t.IndicationsTitle) + "\n")
	for _, ind := range med.Indications {
		b.WriteString(st.Text.Render("• "+ind) + "\n")
	}
	b.WriteString("\n" + st.Heading.Render(t.MethodOfUseTitle) + "\n")
	b.WriteString(st.Text.Render(med.MethodOfUse) + "\n")

	b.WriteString("\n" + st.Heading.Render(t.SideEffectsTitle) + "\n")
	if len(med.SideEffects) == 0 {
		b.WriteString(st.Muted.Render(t.NoSideEffects) + "\n")
	}
	for _, se := range med.SideEffects {
		b.WriteString(st.Text.Render("• "+se.Symptom) + "  " + st.SideEffect(se.Severity).Render(se.Severity) + "\n")
	}

	b.WriteString("\n" + st.Heading.Render(t.DosageTitle) + "\n")
	b.WriteString(st.Text.Bold(true).Render(med.Dosage.Recommendation) + "\n")
	b.WriteString(st.Muted.Render(med.Dosage.Reasoning))
	return b.String()
}

func (m AppModel) renderDisclaimer(st styles) string {
	t := m.Strings()
	w, h := m.WindowSize.Width, m.WindowSize.Height
	dialogWidth := w - 8
	if dialogWidth > 72 {
		dialogWidth = 72
	}
	if dialogWidth < 30 {
		dialogWidth = 30
	}

	body := lipgloss.NewStyle().Width(dialogWidth - 6).Align(m.align())
	content := strings.Join([]string{
		st.Interaction("Major").Render("⚠ " + t.DisclaimerTitle),
		body.Render(t.DisclaimerP1),
		body.Render(t.DisclaimerP2),
		body.Render(t.DisclaimerP3),
		lipgloss.PlaceHorizontal(dialogWidth-6, lipgloss.Center, st.Button.Render("[enter] "+t.DisclaimerButton)),
	}, "\n\n")

	dialog := st.Dialog.Width(dialogWidth).Render(content)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}

func (m AppModel) renderHelpDialog(st styles) string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(m.HelpContent, "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	dialog := st.Panel.
		Width(helpWidth).
		Height(helpHeight).
		BorderForeground(st.pal.Primary).
		Render(strings.Join(lines[startY:endY], "\n"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}
