package store

import (
	"encoding/json"
	"fmt"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

const (
	HistoryKey  = "medicationAnalysisHistory"
	LanguageKey = "medicationAnalyzerLanguage"
	ThemeKey    = "medicationAnalyzerTheme"
)

// Accessor reads and writes the application's persisted values.
type Accessor struct {
	kv KV
}

func NewAccessor(kv KV) *Accessor {
	return &Accessor{kv: kv}
}

// LoadHistory returns the stored history, most recent first. A missing,
// unreadable or corrupt value yields an empty history; corrupt values are removed.
func (a *Accessor) LoadHistory() []model.HistoryItem {
	raw, ok, err := a.kv.Get(HistoryKey)
	if err != nil {
		logging.Warn("Failed to read history", "error", err)
		return []model.HistoryItem{}
	}
	if !ok || raw == "" {
		return []model.HistoryItem{}
	}

	var items []model.HistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		storageErr := &model.StorageError{Key: HistoryKey, Cause: err}
		logging.Error("Discarding corrupt history", "error", storageErr)
		if delErr := a.kv.Delete(HistoryKey); delErr != nil {
			logging.Warn("Failed to delete corrupt history", "error", delErr)
		}
		return []model.HistoryItem{}
	}
	if items == nil {
		items = []model.HistoryItem{}
	}
	return items
}

// SaveHistory overwrites the stored history with items.
func (a *Accessor) SaveHistory(items []model.HistoryItem) error {
	if items == nil {
		items = []model.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := a.kv.Set(HistoryKey, string(data)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func (a *Accessor) ClearHistory() error {
	if err := a.kv.Delete(HistoryKey); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// LoadLanguage returns the stored language, English when absent or invalid.
func (a *Accessor) LoadLanguage() model.Language {
	raw, ok, err := a.kv.Get(LanguageKey)
	if err != nil {
		logging.Warn("Failed to read language preference", "error", err)
	}
	if !ok {
		return model.English
	}
	lang, valid := model.ParseLanguage(raw)
	if !valid {
		logging.Warn("Ignoring invalid language preference", "value", raw)
	}
	return lang
}

func (a *Accessor) SaveLanguage(lang model.Language) error {
	if err := a.kv.Set(LanguageKey, string(lang)); err != nil {
		return fmt.Errorf("saving language: %w", err)
	}
	return nil
}

// LoadTheme returns the stored theme, Light when absent or invalid.
func (a *Accessor) LoadTheme() model.Theme {
	raw, ok, err := a.kv.Get(ThemeKey)
	if err != nil {
		logging.Warn("Failed to read theme preference", "error", err)
	}
	if !ok {
		return model.Light
	}
	theme, valid := model.ParseTheme(raw)
	if !valid {
		logging.Warn("Ignoring invalid theme preference", "value", raw)
	}
	return theme
}

func (a *Accessor) SaveTheme(theme model.Theme) error {
	if err := a.kv.Set(ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}
