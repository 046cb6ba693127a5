package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

// RunService defines the behavior needed to start an assembly run.
type RunService interface {
	Run(ctx context.Context) (*usecase.AssemblyOutput, error)
}

// RunLookup defines the behavior needed to read run summaries.
type RunLookup interface {
	GetRun(ctx context.Context, id string) (*domain.AssemblyRun, error)
	LatestRun(ctx context.Context) (*domain.AssemblyRun, error)
}

// QualityEvaluator checks the output of a finished run.
type QualityEvaluator interface {
	Evaluate(out *usecase.AssemblyOutput) *quality.Report
}

// RunHandler handles assembly run requests. Only one run executes at a time.
type RunHandler struct {
	runUC     RunService
	lookup    RunLookup
	evaluator QualityEvaluator
	running   sync.Mutex
}

// NewRunHandler creates a new RunHandler. evaluator may be nil.
func NewRunHandler(runUC RunService, lookup RunLookup, evaluator QualityEvaluator) *RunHandler {
	return &RunHandler{
		runUC:     runUC,
		lookup:    lookup,
		evaluator: evaluator,
	}
}

// Create assembles the feature table from the configured source.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !h.running.TryLock() {
		writeError(w, http.StatusConflict, "assembly already running", "")
		return
	}
	defer h.running.Unlock()

	out, err := h.runUC.Run(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to assemble features", err.Error())
		return
	}

	resp := dto.RunFromDomain(out.Run)
	if req.EvaluateQuality && h.evaluator != nil {
		resp.Quality = dto.QualitySummaryFromReport(h.evaluator.Evaluate(out))
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get returns a run summary by ID.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run ID", "")
		return
	}

	run, err := h.lookup.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RunFromDomain(run))
}

// Latest returns the most recent run summary.
func (h *RunHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, err := h.lookup.LatestRun(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get latest run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RunFromDomain(run))
}
