package model

import "strings"

// Severity is the normalised visual level behind an open-ended severity label.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityMinor
	SeverityModerate
	SeverityMajor
	SeverityLifeThreatening
)

// SideEffectSeverity is the visual level of a side-effect label.
type SideEffectSeverity int

const (
	SideEffectDefault SideEffectSeverity = iota
	SideEffectCommon
	SideEffectRare
	SideEffectSevere
)

var interactionLevels = map[string]Severity{
	"Minor":            SeverityMinor,
	"Moderate":         SeverityModerate,
	"Major":            SeverityMajor,
	"Life-threatening": SeverityLifeThreatening,
}

var sideEffectLevels = map[string]SideEffectSeverity{
	"Common": SideEffectCommon,
	"Rare":   SideEffectRare,
	"Severe": SideEffectSevere,
}

// InteractionLevel maps an interaction severity label, falling back to SeverityUnknown.
func InteractionLevel(label string) Severity {
	if lvl, ok := interactionLevels[label]; ok {
		return lvl
	}
	for k, lvl := range interactionLevels {
		if strings.EqualFold(k, strings.TrimSpace(label)) {
			return lvl
		}
	}
	return SeverityUnknown
}

// SideEffectLevel maps a side-effect severity label, falling back to SideEffectDefault.
func SideEffectLevel(label string) SideEffectSeverity {
	if lvl, ok := sideEffectLevels[label]; ok {
		return lvl
	}
	for k, lvl := range sideEffectLevels {
		if strings.EqualFold(k, strings.TrimSpace(label)) {
			return lvl
		}
	}
	return SideEffectDefault
}

// Icon returns the marker drawn next to an interaction.
func (s Severity) Icon() string {
	switch s {
	case SeverityMinor:
		return IconMinor
	case SeverityModerate:
		return IconModerate
	case SeverityMajor:
		return IconMajor
	case SeverityLifeThreatening:
		return IconLifeThreatening
	}
	return IconUnknown
}
