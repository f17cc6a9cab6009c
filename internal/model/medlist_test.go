package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMedication(t *testing.T) {
	list := []string{"Aspirin"}

	got, added := AddMedication(list, "  Warfarin ")
	assert.True(t, added)
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, got)
	assert.Equal(t, []string{"Aspirin"}, list, "input list must not be mutated")

	got, added = AddMedication(got, "aSPIRIN")
	assert.False(t, added, "case-insensitive duplicate is a no-op")
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, got)

	got, added = AddMedication(got, "   ")
	assert.False(t, added)
	assert.Len(t, got, 2)
}

func TestRemoveMedication(t *testing.T) {
	list := []string{"Aspirin", "Warfarin", "Metformin"}

	got, removed := RemoveMedication(list, "warfarin")
	assert.True(t, removed)
	assert.Equal(t, []string{"Aspirin", "Metformin"}, got)

	got, removed = RemoveMedication(got, "Ibuprofen")
	assert.False(t, removed)
	assert.Equal(t, []string{"Aspirin", "Metformin"}, got)
}

func TestSuggestionsExcludeAdded(t *testing.T) {
	got := Suggestions([]string{"aspirin", "Warfarin"})

	assert.NotContains(t, got, "Aspirin")
	assert.NotContains(t, got, "Warfarin")
	assert.Contains(t, got, "Metformin")
	assert.Len(t, got, len(CommonMedications)-2)
	assert.IsNonDecreasing(t, got)
}

func TestSameMedicationFoldsUnicode(t *testing.T) {
	assert.True(t, SameMedication("STRASSE", "strasse"))
	assert.True(t, SameMedication(" Insulin Glargine", "insulin glargine "))
	assert.False(t, SameMedication("Aspirin", "Aspirine"))
}
