// Package analyzer drives an analysis from the medication list to a finished,
// persisted history entry: Idle -> AnalyzingText -> GeneratingImages -> Done,
// falling back to Idle when the text request fails.
package analyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/metrics"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

// HistoryIDLayout formats history IDs as UTC ISO-8601 with milliseconds.
const HistoryIDLayout = "2006-01-02T15:04:05.000Z"

// ErrRunSuperseded is returned by Run when another intent replaced the run.
var ErrRunSuperseded = errors.New("analysis was superseded")

// AI is the remote analysis service.
type AI interface {
	AnalyzeMedications(ctx context.Context, names []string, lang model.Language) (model.AnalysisResult, error)
	GenerateImage(ctx context.Context, name, form string) (string, error)
}

// Persistence is the subset of the store accessor the orchestrator uses.
type Persistence interface {
	LoadHistory() []model.HistoryItem
	SaveHistory(items []model.HistoryItem) error
	ClearHistory() error
	LoadLanguage() model.Language
	SaveLanguage(lang model.Language) error
	LoadTheme() model.Theme
	SaveTheme(theme model.Theme) error
}

// TextJob is the text request of a run.
type TextJob struct {
	RunID       string
	Medications []string
	Language    model.Language
}

// ImageJob is one image request of a run.
type ImageJob struct {
	RunID string
	Index int
	Name  string
	Form  string
}

// Snapshot is a deep copy of the orchestrator's state.
type Snapshot struct {
	Medications []string
	Result      *model.AnalysisResult
	Phase       model.LoadingState
	Err         error
	History     []model.HistoryItem
	Language    model.Language
	Theme       model.Theme
}

type run struct {
	id    string
	names []string
	lang  model.Language
	next  int
}

// Orchestrator owns the application state. All methods are safe for concurrent use.
type Orchestrator struct {
	ai    AI
	store Persistence
	now   func() time.Time

	skipImages bool

	mu      sync.Mutex
	meds    []string
	result  *model.AnalysisResult
	phase   model.LoadingState
	lastErr error
	history []model.HistoryItem
	lang    model.Language
	theme   model.Theme
	run     *run

	// last finished run, for Run's return value
	lastRunID string
	lastItem  model.HistoryItem
}

type Option func(*Orchestrator)

// WithClock overrides the time source used for history entries.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithoutImages finishes runs right after the text analysis.
func WithoutImages() Option {
	return func(o *Orchestrator) { o.skipImages = true }
}

// WithMedications sets the initial working list.
func WithMedications(names []string) Option {
	return func(o *Orchestrator) {
		o.meds = []string{}
		for _, n := range names {
			o.meds, _ = model.AddMedication(o.meds, n)
		}
	}
}

// New loads history and preferences from store. The working list defaults to model.DefaultMedications.
func New(ai AI, store Persistence, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ai:    ai,
		store: store,
		now:   time.Now,
		meds:  append([]string(nil), model.DefaultMedications...),
		phase: model.Idle,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.history = store.LoadHistory()
	o.lang = store.LoadLanguage()
	o.theme = store.LoadTheme()
	return o
}

// Begin starts a run for the current list.
func (o *Orchestrator) Begin() (TextJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase.InProgress() {
		return TextJob{}, model.ErrAnalysisInProgress
	}
	if len(o.meds) == 0 {
		o.lastErr = model.ErrNoMedications
		return TextJob{}, model.ErrNoMedications
	}

	o.result = nil
	o.lastErr = nil
	o.phase = model.AnalyzingText
	o.run = &run{
		id:    uuid.NewString(),
		names: append([]string(nil), o.meds...),
		lang:  o.lang,
	}
	logging.Info("Analysis started", "run_id", o.run.id, "medications", o.run.names, "language", o.lang)

	return TextJob{
		RunID:       o.run.id,
		Medications: append([]string(nil), o.run.names...),
		Language:    o.run.lang,
	}, nil
}

// FetchAnalysis performs the text request for job. It does not touch state.
func (o *Orchestrator) FetchAnalysis(ctx context.Context, job TextJob) (model.AnalysisResult, error) {
	return o.ai.AnalyzeMedications(ctx, job.Medications, job.Language)
}

// FetchImage performs one image request. It does not touch state.
func (o *Orchestrator) FetchImage(ctx context.Context, job ImageJob) (string, error) {
	return o.ai.GenerateImage(ctx, job.Name, job.Form)
}

func (o *Orchestrator) current(runID string) bool {
	return o.run != nil && o.run.id == runID
}

// CompleteAnalysis applies the text response of run runID and returns the
// first image job, if any. Responses for a replaced run are dropped.
func (o *Orchestrator) CompleteAnalysis(runID string, result model.AnalysisResult, err error) (ImageJob, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.current(runID) || o.phase != model.AnalyzingText {
		logging.Debug("Dropping stale analysis", "run_id", runID)
		return ImageJob{}, false
	}

	if err != nil {
		logging.Error("Analysis failed", "run_id", runID, "error", err)
		metrics.ObserveAnalysis(err)
		o.lastErr = err
		o.phase = model.Idle
		o.run = nil
		return ImageJob{}, false
	}

	res := result.Clone()
	for i := range res.Medications {
		res.Medications[i].ImageURL = ""
		res.Medications[i].ImageLoading = !o.skipImages
	}
	o.result = &res

	if o.skipImages || len(res.Medications) == 0 {
		o.finish()
		return ImageJob{}, false
	}
	o.phase = model.GeneratingImages
	o.run.next = 0
	return o.imageJob(0), true
}

// CompleteImage applies one image response and returns the next job. A failed
// image leaves only that medication without an image.
func (o *Orchestrator) CompleteImage(runID string, index int, url string, err error) (ImageJob, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.current(runID) || o.phase != model.GeneratingImages || o.result == nil ||
		index != o.run.next || index >= len(o.result.Medications) {
		logging.Debug("Dropping stale image", "run_id", runID, "index", index)
		return ImageJob{}, false
	}

	med := &o.result.Medications[index]
	med.ImageLoading = false
	if err != nil {
		logging.Warn("Image generation failed", "run_id", runID, "medication", med.Name, "error", err)
	} else {
		med.ImageURL = url
	}

	o.run.next++
	if o.run.next < len(o.result.Medications) {
		return o.imageJob(o.run.next), true
	}
	o.finish()
	return ImageJob{}, false
}

func (o *Orchestrator) imageJob(i int) ImageJob {
	m := o.result.Medications[i]
	return ImageJob{RunID: o.run.id, Index: i, Name: m.Name, Form: m.Form}
}

// finish records the run in history. Caller holds mu.
func (o *Orchestrator) finish() {
	for i := range o.result.Medications {
		o.result.Medications[i].ImageLoading = false
	}
	now := o.now()
	item := model.HistoryItem{
		ID:          now.UTC().Format(HistoryIDLayout),
		Timestamp:   now.UnixMilli(),
		Medications: append([]string(nil), o.run.names...),
		Result:      o.result.Clone(),
	}
	o.history = append([]model.HistoryItem{item}, o.history...)
	if err := o.store.SaveHistory(o.history); err != nil {
		logging.Error("Failed to persist history", "run_id", o.run.id, "error", err)
	}

	logging.Info("Analysis finished", "run_id", o.run.id, "history_id", item.ID, "history_size", len(o.history))
	metrics.ObserveAnalysis(nil)
	o.lastRunID = o.run.id
	o.lastItem = item
	o.phase = model.Done
	o.run = nil
}

// Cancel abandons run runID if it is still current, returning to Idle.
func (o *Orchestrator) Cancel(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.current(runID) {
		return
	}
	logging.Info("Analysis cancelled", "run_id", runID)
	o.run = nil
	o.result = nil
	o.phase = model.Idle
}

// Run performs a whole analysis sequentially, calling observe after every
// state change, and returns the new history entry.
func (o *Orchestrator) Run(ctx context.Context, observe func(Snapshot)) (model.HistoryItem, error) {
	job, err := o.Begin()
	if err != nil {
		return model.HistoryItem{}, err
	}
	if observe != nil {
		observe(o.Snapshot())
	}
	return o.Drive(ctx, job, observe)
}

// Drive carries a run started by Begin through to Done. Cancelling ctx
// abandons the run and returns to Idle.
func (o *Orchestrator) Drive(ctx context.Context, job TextJob, observe func(Snapshot)) (model.HistoryItem, error) {
	notify := func() {
		if observe != nil {
			observe(o.Snapshot())
		}
	}

	result, err := o.FetchAnalysis(ctx, job)
	if ctxErr := ctx.Err(); ctxErr != nil {
		o.Cancel(job.RunID)
		notify()
		return model.HistoryItem{}, ctxErr
	}
	img, more := o.CompleteAnalysis(job.RunID, result, err)
	notify()
	if err != nil {
		return model.HistoryItem{}, err
	}

	for more {
		url, imgErr := o.FetchImage(ctx, img)
		if ctxErr := ctx.Err(); ctxErr != nil {
			o.Cancel(job.RunID)
			notify()
			return model.HistoryItem{}, ctxErr
		}
		img, more = o.CompleteImage(img.RunID, img.Index, url, imgErr)
		notify()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastRunID != job.RunID {
		return model.HistoryItem{}, ErrRunSuperseded
	}
	item := o.lastItem
	item.Medications = append([]string(nil), item.Medications...)
	item.Result = item.Result.Clone()
	return item, nil
}
