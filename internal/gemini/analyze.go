package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/metrics"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// schema is the subset of the OpenAPI schema object accepted by responseSchema.
type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

func str(desc string) *schema { return &schema{Type: "STRING", Description: desc} }

func array(desc string, items *schema) *schema {
	return &schema{Type: "ARRAY", Description: desc, Items: items}
}

var analysisSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"medications": array("Detailed information for each medication provided.", &schema{
			Type: "OBJECT",
			Properties: map[string]*schema{
				"name":        str("The common brand or generic name of the medication."),
				"form":        str("The physical form of the medication (e.g., Tablet, Capsule, Injection, Ointment)."),
				"description": str("A brief description of the medication's appearance and primary function."),
				"indications": array("A list of primary conditions or symptoms this medication is used to treat.", str("")),
				"methodOfUse": str("Instructions on how to properly take or use the medication (e.g., with food, at night)."),
				"sideEffects": array("A list of common potential side effects, categorized by severity.", &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"symptom":  str(""),
						"severity": str("e.g., Common, Rare, Severe"),
					},
				}),
				"dosage": {
					Type:        "OBJECT",
					Description: "Recommended dosage information and the clinical reasoning behind it.",
					Properties: map[string]*schema{
						"recommendation": str("The appropriate dosage for a typical adult patient."),
						"reasoning":      str("The medical or pharmacological reason for the recommended dosage."),
					},
				},
			},
			Required: []string{"name", "form", "description", "indications", "methodOfUse", "sideEffects", "dosage"},
		}),
		"interactions": array("Analysis of potential interactions between the listed medications.", &schema{
			Type: "OBJECT",
			Properties: map[string]*schema{
				"medications": array("The pair of medications that interact.", str("")),
				"severity":    str("The potential severity of the interaction (e.g., 'Minor', 'Moderate', 'Major', 'Life-threatening')."),
				"description": str("A detailed explanation of the interaction, its mechanism, and potential consequences."),
			},
			Required: []string{"medications", "severity", "description"},
		}),
	},
	Required: []string{"medications", "interactions"},
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// AnalysisPrompt builds the instruction sent with the medication list.
func AnalysisPrompt(names []string, lang model.Language) string {
	langName := "English"
	if lang == model.Arabic {
		langName = "Arabic"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Provide the entire response in %s.\n", langName)
	fmt.Fprintf(&b, "Analyze the following list of medications: %s.\n", strings.Join(names, ", "))
	b.WriteString(`Act as a highly experienced physician providing a comprehensive and professional consultation.
For each medication, provide:
1. A brief description of its form (e.g., Tablet, Capsule).
2. Indications for use (what it treats).
3. Method of use (how to take it).
4. A list of common side effects with their severity.
5. Appropriate dosage for a typical adult and a clear, concise reason for that dosage.

Also, provide a detailed analysis of all potential drug-drug interactions between these medications, including the severity and a description of each interaction.
If no interactions are found, return an empty array for the interactions field.
`)
	return b.String()
}

// AnalyzeMedications requests a structured analysis of names in lang.
func (c *Client) AnalyzeMedications(ctx context.Context, names []string, lang model.Language) (result model.AnalysisResult, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveAIRequest(metrics.OperationAnalyze, start, err)
		if err != nil {
			logging.Error("Analysis request failed", "medications", len(names), "language", lang, "error", err)
		} else {
			logging.Info("Analysis received",
				"medications", len(result.Medications),
				"interactions", len(result.Interactions),
				"duration", time.Since(start))
		}
	}()

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: AnalysisPrompt(names, lang)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}

	body, err := c.post(ctx, metrics.OperationAnalyze, c.textModel, "generateContent", req)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.AnalysisResult{}, &model.ServiceError{Op: metrics.OperationAnalyze, Message: "failed to parse response envelope", Cause: err}
	}
	if len(resp.Candidates) == 0 {
		msg := "no candidates in response"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return model.AnalysisResult{}, &model.ServiceError{Op: metrics.OperationAnalyze, Message: msg}
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	doc := cleanJSONContent(text.String())
	if doc == "" {
		return model.AnalysisResult{}, &model.ServiceError{Op: metrics.OperationAnalyze, Message: "empty response text"}
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return model.AnalysisResult{}, &model.ServiceError{Op: metrics.OperationAnalyze, Message: "response is not valid JSON", Cause: err}
	}
	result, err = raw.toResult()
	if err != nil {
		return model.AnalysisResult{}, &model.ServiceError{Op: metrics.OperationAnalyze, Message: "response does not match schema", Cause: err}
	}
	return result, nil
}
