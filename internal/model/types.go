package model

// SideEffect is a symptom reported for a medication with a free-text severity label.
type SideEffect struct {
	Symptom  string `json:"symptom"`
	Severity string `json:"severity"` // "Common", "Rare", "Severe", ...
}

// Dosage pairs a recommended dose with the reasoning behind it.
type Dosage struct {
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
}

// MedicationInfo is the per-medication part of an analysis.
type MedicationInfo struct {
	Name        string       `json:"name"`
	Form        string       `json:"form"`
	Description string       `json:"description"`
	Indications []string     `json:"indications"`
	MethodOfUse string       `json:"methodOfUse"`
	SideEffects []SideEffect `json:"sideEffects"`
	Dosage      Dosage       `json:"dosage"`

	// UI-only, not part of the AI response contract
	ImageURL     string `json:"imageUrl,omitempty"`
	ImageLoading bool   `json:"imageLoading,omitempty"`
}

// InteractionInfo describes an interaction between a pair of medications.
type InteractionInfo struct {
	Medications []string `json:"medications"`
	Severity    string   `json:"severity"` // open set: Minor, Moderate, Major, Life-threatening, ...
	Description string   `json:"description"`
}

// AnalysisResult is the full report for a list of medications.
type AnalysisResult struct {
	Medications  []MedicationInfo  `json:"medications"`
	Interactions []InteractionInfo `json:"interactions"`
}

// Clone returns a deep copy so callers can't mutate shared state.
func (r AnalysisResult) Clone() AnalysisResult {
	out := AnalysisResult{
		Medications:  make([]MedicationInfo, len(r.Medications)),
		Interactions: make([]InteractionInfo, len(r.Interactions)),
	}
	for i, m := range r.Medications {
		m.Indications = append([]string(nil), m.Indications...)
		m.SideEffects = append([]SideEffect(nil), m.SideEffects...)
		out.Medications[i] = m
	}
	for i, in := range r.Interactions {
		in.Medications = append([]string(nil), in.Medications...)
		out.Interactions[i] = in
	}
	return out
}

// Medication returns the analyzed medication with the given name.
func (r AnalysisResult) Medication(name string) (MedicationInfo, bool) {
	for _, m := range r.Medications {
		if m.Name == name {
			return m, true
		}
	}
	return MedicationInfo{}, false
}

// HistoryItem is one completed analysis kept in local history.
type HistoryItem struct {
	ID          string         `json:"id"`
	Timestamp   int64          `json:"timestamp"` // unix milliseconds
	Medications []string       `json:"medications"`
	Result      AnalysisResult `json:"result"`
}

// LoadingState is the orchestrator's visible progress phase.
type LoadingState int

const (
	Idle LoadingState = iota
	AnalyzingText
	GeneratingImages
	Done
)

func (s LoadingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AnalyzingText:
		return "analyzing_text"
	case GeneratingImages:
		return "generating_images"
	case Done:
		return "done"
	}
	return "unknown"
}

// InProgress reports whether an analysis is currently running.
func (s LoadingState) InProgress() bool {
	return s == AnalyzingText || s == GeneratingImages
}

func (s LoadingState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Language is the UI and response language.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// ParseLanguage accepts the two supported locale codes.
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case English, Arabic:
		return Language(s), true
	}
	return English, false
}

func (l Language) Toggle() Language {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Theme is the UI colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return Light, false
}

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}
