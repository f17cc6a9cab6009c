package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/i18n"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// GenerateReport renders an analysis as plain text: interactions first, then
// one section per medication. verbose adds descriptions and dosage reasoning.
func GenerateReport(item model.HistoryItem, t i18n.Strings, verbose bool) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString(t.HeaderTitle + "\n")
	sb.WriteString(rule + "\n")
	if item.Timestamp > 0 {
		sb.WriteString(time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04") + "\n")
	}
	sb.WriteString(strings.Join(item.Medications, ", ") + "\n\n")

	sb.WriteString(t.InteractionsTab + "\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	if len(item.Result.Interactions) == 0 {
		sb.WriteString(t.NoInteractionsTitle + "\n")
		sb.WriteString("  " + t.NoInteractionsBody + "\n")
	}
	for _, in := range item.Result.Interactions {
		level := model.InteractionLevel(in.Severity)
		fmt.Fprintf(&sb, "%s %s  [%s %s]\n", level.Icon(), strings.Join(in.Medications, " + "), in.Severity, t.InteractionSuffix)
		sb.WriteString("  " + in.Description + "\n")
	}
	sb.WriteString("\n")

	for _, m := range item.Result.Medications {
		fmt.Fprintf(&sb, "%s %s (%s)\n", model.IconPill, m.Name, m.Form)
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		if verbose && m.Description != "" {
			sb.WriteString(m.Description + "\n")
		}

		sb.WriteString(t.IndicationsTitle + ":\n")
		for _, ind := range m.Indications {
			sb.WriteString("  - " + ind + "\n")
		}

		sb.WriteString(t.MethodOfUseTitle + ":\n")
		sb.WriteString("  " + m.MethodOfUse + "\n")

		sb.WriteString(t.SideEffectsTitle + ":\n")
		if len(m.SideEffects) == 0 {
			sb.WriteString("  " + t.NoSideEffects + "\n")
		}
		for _, se := range m.SideEffects {
			fmt.Fprintf(&sb, "  - %s (%s)\n", se.Symptom, se.Severity)
		}

		sb.WriteString(t.DosageTitle + ":\n")
		sb.WriteString("  " + m.Dosage.Recommendation + "\n")
		if verbose && m.Dosage.Reasoning != "" {
			sb.WriteString("  " + m.Dosage.Reasoning + "\n")
		}

		switch {
		case m.ImageURL != "":
			sb.WriteString(model.IconImageReady + " " + t.ImageReady + "\n")
		case verbose:
			sb.WriteString(model.IconImageMissing + " " + t.ImageNotAvailable + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
