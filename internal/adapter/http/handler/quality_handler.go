package handler

import (
	"context"
	"net/http"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

// QualityService defines the behavior needed by QualityHandler.
type QualityService interface {
	Run(ctx context.Context) (*quality.Report, error)
}

// QualityHandler runs the data-quality suite on demand.
type QualityHandler struct {
	qualityUC QualityService
}

// NewQualityHandler creates a new QualityHandler.
func NewQualityHandler(qualityUC QualityService) *QualityHandler {
	return &QualityHandler{qualityUC: qualityUC}
}

// Run returns the full report, or only the summary with ?summary=true.
// A failing suite is still a successful request.
func (h *QualityHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.qualityUC.Run(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run data quality checks", err.Error())
		return
	}

	if r.URL.Query().Get("summary") == "true" {
		writeJSON(w, http.StatusOK, dto.QualitySummaryFromReport(report))
		return
	}

	writeJSON(w, http.StatusOK, report)
}
