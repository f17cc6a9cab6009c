package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

const analysisJSON = `{
  "medications": [
    {
      "name": "Aspirin",
      "form": "Tablet",
      "description": "White round tablet.",
      "indications": ["Pain", "Fever"],
      "methodOfUse": "With food.",
      "sideEffects": [{"symptom": "Stomach upset", "severity": "Common"}],
      "dosage": {"recommendation": "325 mg every 4 hours", "reasoning": "Standard analgesic dose."}
    },
    {
      "name": "Warfarin",
      "form": "Tablet",
      "description": "Anticoagulant.",
      "indications": ["Thrombosis"],
      "methodOfUse": "Same time daily.",
      "sideEffects": [],
      "dosage": {"recommendation": "Individualised", "reasoning": "Guided by INR."}
    }
  ],
  "interactions": [
    {"medications": ["Aspirin", "Warfarin"], "severity": "Major", "description": "Bleeding risk."}
  ]
}`

func textResponse(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestAnalyzeMedications(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = io.WriteString(w, textResponse(analysisJSON))
	})

	result, err := client.AnalyzeMedications(context.Background(), []string{"Aspirin", "Warfarin"}, model.Arabic)
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	require.NotNil(t, gotBody.GenerationConfig.ResponseSchema)
	assert.Equal(t, []string{"medications", "interactions"}, gotBody.GenerationConfig.ResponseSchema.Required)
	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Provide the entire response in Arabic.")
	assert.Contains(t, prompt, "Aspirin, Warfarin")

	require.Len(t, result.Medications, 2)
	assert.Equal(t, "Aspirin", result.Medications[0].Name)
	assert.Equal(t, []string{"Pain", "Fever"}, result.Medications[0].Indications)
	assert.Equal(t, "Common", result.Medications[0].SideEffects[0].Severity)
	assert.Empty(t, result.Medications[1].SideEffects)
	assert.False(t, result.Medications[0].ImageLoading)
	require.Len(t, result.Interactions, 1)
	assert.Equal(t, "Major", result.Interactions[0].Severity)
}

func TestAnalyzeMedicationsStripsCodeFence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, textResponse("```json\n"+analysisJSON+"\n```"))
	})

	result, err := client.AnalyzeMedications(context.Background(), []string{"Aspirin"}, model.English)
	require.NoError(t, err)
	assert.Len(t, result.Medications, 2)
}

func TestAnalyzeMedicationsFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"service error", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, "API key not valid"},
		{"server error", http.StatusInternalServerError, "oops", "status 500"},
		{"envelope not json", http.StatusOK, "<html>", "envelope"},
		{"no candidates", http.StatusOK, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`, "SAFETY"},
		{"text not json", http.StatusOK, textResponse("I cannot help with that."), "not valid JSON"},
		{"missing interactions", http.StatusOK, textResponse(`{"medications":[]}`), "interactions"},
		{"missing dosage", http.StatusOK, textResponse(`{"medications":[{"name":"A","form":"Tablet","description":"d","indications":[],"methodOfUse":"m","sideEffects":[]}],"interactions":[]}`), "dosage"},
		{"interaction missing severity", http.StatusOK, textResponse(`{"medications":[],"interactions":[{"medications":["A","B"],"description":"d"}]}`), "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.AnalyzeMedications(context.Background(), []string{"A"}, model.English)
			require.Error(t, err)

			var svcErr *model.ServiceError
			require.True(t, errors.As(err, &svcErr), "expected ServiceError, got %T", err)
			assert.Equal(t, "analyze", svcErr.Op)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAnalyzeMedicationsEmptyInteractions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, textResponse(`{"medications":[],"interactions":[]}`))
	})

	result, err := client.AnalyzeMedications(context.Background(), []string{"A"}, model.English)
	require.NoError(t, err)
	assert.NotNil(t, result.Interactions)
	assert.Empty(t, result.Interactions)
}

func TestAnalyzeMedicationsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := client.AnalyzeMedications(context.Background(), []string{"A"}, model.English)

	var svcErr *model.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Message, "timeout")
}

func TestGenerateImage(t *testing.T) {
	var gotPath string
	var gotBody predictRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = io.WriteString(w, `{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/jpeg"}]}`)
	})

	uri, err := client.GenerateImage(context.Background(), "Aspirin", "Tablet")
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/imagen-4.0-generate-001:predict", gotPath)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", uri)
	assert.Equal(t, 1, gotBody.Parameters.SampleCount)
	assert.Equal(t, "1:1", gotBody.Parameters.AspectRatio)
	require.Len(t, gotBody.Instances, 1)
	assert.Contains(t, gotBody.Instances[0].Prompt, `"Aspirin Tablet"`)
}

func TestGenerateImageNoImage(t *testing.T) {
	for _, body := range []string{`{"predictions":[]}`, `{}`, `{"predictions":[{"raiFilteredReason":"filtered"}]}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := client.GenerateImage(context.Background(), "Aspirin", "Tablet")
		var svcErr *model.ServiceError
		require.ErrorAs(t, err, &svcErr, body)
		assert.Equal(t, "image", svcErr.Op)
		assert.True(t, strings.HasPrefix(svcErr.Message, "no image"))
	}
}

func TestCleanJSONContent(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONContent("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONContent("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONContent("  {\"a\":1}  "))
}
