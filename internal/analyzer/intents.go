package analyzer

import (
	"errors"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// AddMedication appends name to the working list. Blank and duplicate names are ignored.
func (o *Orchestrator) AddMedication(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	var added bool
	o.meds, added = model.AddMedication(o.meds, name)
	if added && errors.Is(o.lastErr, model.ErrNoMedications) {
		o.lastErr = nil
	}
	return added
}

// RemoveMedication drops name from the working list.
func (o *Orchestrator) RemoveMedication(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	var removed bool
	o.meds, removed = model.RemoveMedication(o.meds, name)
	return removed
}

// StartOver clears the list, result and error and returns to Idle.
func (o *Orchestrator) StartOver() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.meds = []string{}
	o.reset()
}

// reset discards the result, error and any in-flight run. Caller holds mu.
func (o *Orchestrator) reset() {
	o.result = nil
	o.lastErr = nil
	o.run = nil
	o.phase = model.Idle
}

// SetLanguage switches the language, discarding the current result.
// The working list and history are kept.
func (o *Orchestrator) SetLanguage(lang model.Language) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if lang == o.lang {
		return
	}
	o.lang = lang
	o.reset()
	if err := o.store.SaveLanguage(lang); err != nil {
		logging.Warn("Failed to persist language", "error", err)
	}
}

func (o *Orchestrator) ToggleLanguage() model.Language {
	o.mu.Lock()
	next := o.lang.Toggle()
	o.mu.Unlock()
	o.SetLanguage(next)
	return next
}

func (o *Orchestrator) SetTheme(theme model.Theme) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.theme = theme
	if err := o.store.SaveTheme(theme); err != nil {
		logging.Warn("Failed to persist theme", "error", err)
	}
}

func (o *Orchestrator) ToggleTheme() model.Theme {
	o.mu.Lock()
	next := o.theme.Toggle()
	o.mu.Unlock()
	o.SetTheme(next)
	return next
}

// LoadFromHistory restores the list and result of history entry id.
func (o *Orchestrator) LoadFromHistory(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, item := range o.history {
		if item.ID != id {
			continue
		}
		res := item.Result.Clone()
		o.meds = append([]string(nil), item.Medications...)
		o.result = &res
		o.lastErr = nil
		o.run = nil
		o.phase = model.Done
		return nil
	}
	return model.ErrHistoryNotFound
}

// ClearHistory empties history in memory and in the store.
func (o *Orchestrator) ClearHistory() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = []model.HistoryItem{}
	if err := o.store.ClearHistory(); err != nil {
		logging.Error("Failed to clear stored history", "error", err)
		return err
	}
	return nil
}

// CanAnalyze reports whether Begin would start a run.
func (o *Orchestrator) CanAnalyze() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.meds) > 0 && !o.phase.InProgress()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		Medications: append([]string{}, o.meds...),
		Phase:       o.phase,
		Err:         o.lastErr,
		History:     make([]model.HistoryItem, len(o.history)),
		Language:    o.lang,
		Theme:       o.theme,
	}
	if o.result != nil {
		res := o.result.Clone()
		s.Result = &res
	}
	for i, h := range o.history {
		h.Medications = append([]string(nil), h.Medications...)
		h.Result = h.Result.Clone()
		s.History[i] = h
	}
	return s
}
