package model

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Version is the application version printed by --version.
const Version = "v1.2.0"

// DefaultMedications seeds the working list on first start.
var DefaultMedications = []string{"Lisinopril", "Metformin", "Aspirin"}

// CommonMedications backs the input suggestions.
var CommonMedications = []string{
	"Lisinopril", "Atorvastatin", "Levothyroxine", "Metformin", "Amlodipine",
	"Metoprolol", "Albuterol", "Omeprazole", "Losartan", "Gabapentin",
	"Hydrochlorothiazide", "Sertraline", "Simvastatin", "Montelukast",
	"Escitalopram", "Acetaminophen", "Ibuprofen", "Aspirin", "Furosemide",
	"Pantoprazole", "Tamsulosin", "Citalopram", "Prednisone", "Warfarin",
	"Clopidogrel", "Apixaban", "Rivaroxaban", "Insulin Glargine",
}

var folder = cases.Fold()

// SameMedication compares two names ignoring case.
func SameMedication(a, b string) bool {
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// ContainsMedication reports whether list already holds name (case-insensitive).
func ContainsMedication(list []string, name string) bool {
	for _, m := range list {
		if SameMedication(m, name) {
			return true
		}
	}
	return false
}

// AddMedication appends name unless it is blank or already present.
// The returned slice is always a fresh copy.
func AddMedication(list []string, name string) ([]string, bool) {
	name = strings.TrimSpace(name)
	out := append([]string(nil), list...)
	if name == "" || ContainsMedication(list, name) {
		return out, false
	}
	return append(out, name), true
}

// RemoveMedication drops the entry matching name. Absent names are a no-op.
func RemoveMedication(list []string, name string) ([]string, bool) {
	out := make([]string, 0, len(list))
	removed := false
	for _, m := range list {
		if !removed && SameMedication(m, name) {
			removed = true
			continue
		}
		out = append(out, m)
	}
	return out, removed
}

// Suggestions returns the common medications not yet in list, sorted.
func Suggestions(list []string) []string {
	var out []string
	for _, c := range CommonMedications {
		if !ContainsMedication(list, c) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
