package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/store"
)

type mockAI struct {
	textErr error
	release chan struct{}
}

func (m *mockAI) AnalyzeMedications(ctx context.Context, names []string, _ model.Language) (model.AnalysisResult, error) {
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return model.AnalysisResult{}, ctx.Err()
		}
	}
	if m.textErr != nil {
		return model.AnalysisResult{}, m.textErr
	}
	res := model.AnalysisResult{Interactions: []model.InteractionInfo{}}
	for _, n := range names {
		res.Medications = append(res.Medications, model.MedicationInfo{Name: n, Form: "Tablet"})
	}
	return res, nil
}

func (m *mockAI) GenerateImage(context.Context, string, string) (string, error) {
	return model.JPEGDataURI("aGk="), nil
}

func newTestServer(t *testing.T, ai analyzer.AI, meds ...string) (*Server, *analyzer.Orchestrator) {
	t.Helper()
	orch := analyzer.New(ai, store.NewAccessor(store.NewMemoryKV()), analyzer.WithMedications(meds))
	s := NewServer("127.0.0.1:0", orch)
	t.Cleanup(func() {
		s.runCancel()
		s.runs.Wait()
	})
	return s, orch
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	var st StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestStateAndMedicationEndpoints(t *testing.T) {
	s, _ := newTestServer(t, &mockAI{}, "Aspirin")

	rec := do(t, s, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phase":"idle"`)
	st := decodeState(t, rec)
	assert.Equal(t, []string{"Aspirin"}, st.Medications)
	assert.True(t, st.CanAnalyze)
	assert.Equal(t, "ltr", st.Direction)

	rec = do(t, s, http.MethodPost, "/api/medications", `{"name":"Warfarin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, decodeState(t, rec).Medications)

	rec = do(t, s, http.MethodPost, "/api/medications", `{"name":"warfarin"}`)
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, decodeState(t, rec).Medications)

	rec = do(t, s, http.MethodPost, "/api/medications", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/medications", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/medications/Insulin%20Glargine", "")
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, decodeState(t, rec).Medications)
	rec = do(t, s, http.MethodDelete, "/api/medications/ASPIRIN", "")
	assert.Equal(t, []string{"Warfarin"}, decodeState(t, rec).Medications)
}

func TestSuggestions(t *testing.T) {
	s, _ := newTestServer(t, &mockAI{}, "Warfarin")

	rec := do(t, s, http.MethodGet, "/api/suggestions?q=war", "")
	var out []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out, "already-added names are not suggested")

	rec = do(t, s, http.MethodGet, "/api/suggestions?q=STATIN", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"Atorvastatin", "Simvastatin"}, out)
}

func TestAnalyzeWait(t *testing.T) {
	s, orch := newTestServer(t, &mockAI{}, "Aspirin", "Warfarin")

	rec := do(t, s, http.MethodPost, "/api/analyze?wait=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var item model.HistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, []string{"Aspirin", "Warfarin"}, item.Medications)
	require.Len(t, item.Result.Medications, 2)
	assert.Equal(t, "data:image/jpeg;base64,aGk=", item.Result.Medications[0].ImageURL)
	assert.Equal(t, model.Done, orch.Snapshot().Phase)

	rec = do(t, s, http.MethodGet, "/api/history", "")
	var history []model.HistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, item.ID, history[0].ID)
}

func TestAnalyzeErrors(t *testing.T) {
	s, _ := newTestServer(t, &mockAI{textErr: &model.ServiceError{Op: "analyze", Message: "boom"}}, "Aspirin")

	rec := do(t, s, http.MethodPost, "/api/analyze?wait=true", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occurred during analysis")

	st := decodeState(t, do(t, s, http.MethodGet, "/api/state", ""))
	assert.Equal(t, model.Idle, st.Phase)
	assert.NotEmpty(t, st.Error)
	assert.Equal(t, 0, st.HistoryCount)

	do(t, s, http.MethodPost, "/api/start-over", "")
	rec = do(t, s, http.MethodPost, "/api/analyze", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeInBackground(t *testing.T) {
	ai := &mockAI{release: make(chan struct{})}
	s, orch := newTestServer(t, ai, "Aspirin")

	rec := do(t, s, http.MethodPost, "/api/analyze", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, model.AnalyzingText, decodeState(t, rec).Phase)

	rec = do(t, s, http.MethodPost, "/api/analyze", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(ai.release)
	require.Eventually(t, func() bool {
		return orch.Snapshot().Phase == model.Done
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, orch.Snapshot().History, 1)
}

func TestHistoryLoadAndClear(t *testing.T) {
	s, _ := newTestServer(t, &mockAI{}, "Aspirin")
	rec := do(t, s, http.MethodPost, "/api/analyze?wait=true", "")
	var item model.HistoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	do(t, s, http.MethodPost, "/api/start-over", "")
	rec = do(t, s, http.MethodPost, "/api/history/"+item.ID+"/load", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.Equal(t, item.Medications, st.Medications)
	require.NotNil(t, st.Result)
	assert.Equal(t, item.Result, *st.Result)

	rec = do(t, s, http.MethodPost, "/api/history/missing/load", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, decodeState(t, do(t, s, http.MethodGet, "/api/state", "")).HistoryCount)
}

func TestPreferences(t *testing.T) {
	s, orch := newTestServer(t, &mockAI{}, "Aspirin")
	do(t, s, http.MethodPost, "/api/analyze?wait=true", "")

	rec := do(t, s, http.MethodPut, "/api/preferences", `{"language":"ar","theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.Equal(t, model.Arabic, st.Language)
	assert.Equal(t, "rtl", st.Direction)
	assert.Equal(t, model.Dark, st.Theme)
	assert.Nil(t, st.Result, "switching language discards the result")
	assert.Equal(t, 1, st.HistoryCount)

	rec = do(t, s, http.MethodPut, "/api/preferences", `{"language":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.Arabic, orch.Snapshot().Language)
}

func TestTranslationsHelpHealthMetrics(t *testing.T) {
	s, _ := newTestServer(t, &mockAI{}, "Aspirin")

	rec := do(t, s, http.MethodGet, "/api/translations?lang=ar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"interactionsTab"`)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/translations?lang=de", "").Code)

	rec = do(t, s, http.MethodGet, "/api/help", "")
	assert.Contains(t, rec.Body.String(), model.Version)

	rec = do(t, s, http.MethodGet, "/health", "")
	var health HealthData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "idle", health.Phase)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_total")
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(0.001, 150)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	analyze := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, analyze())
	assert.Equal(t, http.StatusTooManyRequests, analyze())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "health is free")

	assert.Equal(t, int64(100), tokenCost(httptest.NewRequest(http.MethodPost, "/api/analyze", nil)))
	assert.Equal(t, int64(1), tokenCost(httptest.NewRequest(http.MethodGet, "/api/state", nil)))
	assert.Equal(t, int64(5), tokenCost(httptest.NewRequest(http.MethodPut, "/api/preferences", nil)))
}

func TestShutdownCancelsBackgroundRun(t *testing.T) {
	ai := &mockAI{release: make(chan struct{})}
	s, orch := newTestServer(t, ai, "Aspirin")

	rec := do(t, s, http.MethodPost, "/api/analyze", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	assert.True(t, err == nil || errors.Is(err, http.ErrServerClosed))
	assert.Equal(t, model.Idle, orch.Snapshot().Phase)
}
