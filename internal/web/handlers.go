package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/i18n"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// StateResponse is the view of the orchestrator returned by most endpoints.
type StateResponse struct {
	Medications  []string              `json:"medications"`
	Phase        model.LoadingState    `json:"phase"`
	Result       *model.AnalysisResult `json:"result"`
	Error        string                `json:"error,omitempty"`
	CanAnalyze   bool                  `json:"canAnalyze"`
	Language     model.Language        `json:"language"`
	Direction    string                `json:"direction"`
	Theme        model.Theme           `json:"theme"`
	HistoryCount int                   `json:"historyCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Error("Failed to encode JSON response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respondWithJSON(w, code, errorResponse{Error: msg})
}

func (s *Server) state() StateResponse {
	snap := s.orch.Snapshot()
	return StateResponse{
		Medications:  snap.Medications,
		Phase:        snap.Phase,
		Result:       snap.Result,
		Error:        i18n.For(snap.Language).ErrorText(snap.Err),
		CanAnalyze:   len(snap.Medications) > 0 && !snap.Phase.InProgress(),
		Language:     snap.Language,
		Direction:    i18n.Direction(snap.Language),
		Theme:        snap.Theme,
		HistoryCount: len(snap.History),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	out := []string{}
	for _, name := range model.Suggestions(s.orch.Snapshot().Medications) {
		if q == "" || strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
		}
	}
	respondWithJSON(w, http.StatusOK, out)
}

type medicationRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.orch.AddMedication(req.Name)
	respondWithJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleRemoveMedication(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid medication name")
		return
	}
	s.orch.RemoveMedication(name)
	respondWithJSON(w, http.StatusOK, s.state())
}

// handleAnalyze starts a run. By default it returns 202 and the run continues
// in the background; with ?wait=true it blocks and returns the history entry.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	job, err := s.orch.Begin()
	switch {
	case errors.Is(err, model.ErrNoMedications):
		respondWithError(w, http.StatusBadRequest, i18n.For(s.orch.Snapshot().Language).ErrorText(err))
		return
	case errors.Is(err, model.ErrAnalysisInProgress):
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		item, err := s.orch.Drive(r.Context(), job, nil)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, i18n.For(job.Language).ErrorText(err))
			return
		}
		respondWithJSON(w, http.StatusOK, item)
		return
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		if _, err := s.orch.Drive(s.runCtx, job, nil); err != nil {
			logging.Warn("Background analysis ended with error", "run_id", job.RunID, "error", err)
		}
	}()
	respondWithJSON(w, http.StatusAccepted, s.state())
}

func (s *Server) handleStartOver(w http.ResponseWriter, r *http.Request) {
	s.orch.StartOver()
	respondWithJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.orch.Snapshot().History)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.ClearHistory(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadHistory(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid history id")
		return
	}
	if err := s.orch.LoadFromHistory(id); err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, s.state())
}

type preferencesRequest struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var lang model.Language
	var theme model.Theme
	if req.Language != nil {
		var ok bool
		if lang, ok = model.ParseLanguage(*req.Language); !ok {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language %q", *req.Language))
			return
		}
	}
	if req.Theme != nil {
		var ok bool
		if theme, ok = model.ParseTheme(*req.Theme); !ok {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unsupported theme %q", *req.Theme))
			return
		}
	}

	if req.Language != nil {
		s.orch.SetLanguage(lang)
	}
	if req.Theme != nil {
		s.orch.SetTheme(theme)
	}
	respondWithJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := s.orch.Snapshot().Language
	if q := r.URL.Query().Get("lang"); q != "" {
		parsed, ok := model.ParseLanguage(q)
		if !ok {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language %q", q))
			return
		}
		lang = parsed
	}
	respondWithJSON(w, http.StatusOK, i18n.For(lang))
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(i18n.Help()))
}

// HealthData is the /health payload.
type HealthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Phase   string `json:"phase"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthData{
		Status:  "healthy",
		Version: model.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Phase:   s.orch.Snapshot().Phase.String(),
	})
}
