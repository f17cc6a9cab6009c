package gemini

import (
	"fmt"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// Pointer fields tell a missing required field apart from an empty one.
type rawMedication struct {
	Name        *string             `json:"name"`
	Form        *string             `json:"form"`
	Description *string             `json:"description"`
	Indications *[]string           `json:"indications"`
	MethodOfUse *string             `json:"methodOfUse"`
	SideEffects *[]model.SideEffect `json:"sideEffects"`
	Dosage      *model.Dosage       `json:"dosage"`
}

type rawInteraction struct {
	Medications *[]string `json:"medications"`
	Severity    *string   `json:"severity"`
	Description *string   `json:"description"`
}

type rawResult struct {
	Medications  *[]rawMedication  `json:"medications"`
	Interactions *[]rawInteraction `json:"interactions"`
}

func missing(what string, i int, field string) error {
	return fmt.Errorf("%s %d: missing required field %q", what, i, field)
}

func (r rawResult) toResult() (model.AnalysisResult, error) {
	if r.Medications == nil {
		return model.AnalysisResult{}, fmt.Errorf("missing required field %q", "medications")
	}
	if r.Interactions == nil {
		return model.AnalysisResult{}, fmt.Errorf("missing required field %q", "interactions")
	}

	out := model.AnalysisResult{
		Medications:  make([]model.MedicationInfo, 0, len(*r.Medications)),
		Interactions: make([]model.InteractionInfo, 0, len(*r.Interactions)),
	}
	for i, m := range *r.Medications {
		switch {
		case m.Name == nil:
			return model.AnalysisResult{}, missing("medication", i, "name")
		case m.Form == nil:
			return model.AnalysisResult{}, missing("medication", i, "form")
		case m.Description == nil:
			return model.AnalysisResult{}, missing("medication", i, "description")
		case m.Indications == nil:
			return model.AnalysisResult{}, missing("medication", i, "indications")
		case m.MethodOfUse == nil:
			return model.AnalysisResult{}, missing("medication", i, "methodOfUse")
		case m.SideEffects == nil:
			return model.AnalysisResult{}, missing("medication", i, "sideEffects")
		case m.Dosage == nil:
			return model.AnalysisResult{}, missing("medication", i, "dosage")
		}
		out.Medications = append(out.Medications, model.MedicationInfo{
			Name:        *m.Name,
			Form:        *m.Form,
			Description: *m.Description,
			Indications: *m.Indications,
			MethodOfUse: *m.MethodOfUse,
			SideEffects: *m.SideEffects,
			Dosage:      *m.Dosage,
		})
	}
	for i, in := range *r.Interactions {
		switch {
		case in.Medications == nil:
			return model.AnalysisResult{}, missing("interaction", i, "medications")
		case in.Severity == nil:
			return model.AnalysisResult{}, missing("interaction", i, "severity")
		case in.Description == nil:
			return model.AnalysisResult{}, missing("interaction", i, "description")
		}
		out.Interactions = append(out.Interactions, model.InteractionInfo{
			Medications: *in.Medications,
			Severity:    *in.Severity,
			Description: *in.Description,
		})
	}
	return out, nil
}
