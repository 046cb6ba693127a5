package dto

import (
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RunResponse represents an assembly run in API responses.
type RunResponse struct {
	ID             string          `json:"id"`
	Fingerprint    string          `json:"fingerprint"`
	Source         string          `json:"source"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	DurationMS     int64           `json:"duration_ms"`
	RowsEmitted    int             `json:"rows_emitted"`
	Skipped        SkippedResponse `json:"skipped"`
	FlaggedRows    int             `json:"flagged_rows"`
	ViolationCount int             `json:"violation_count"`
	LabeledLoans   int             `json:"labeled_loans"`
	DefaultedLoans int             `json:"defaulted_loans"`
	DefaultRate    *float64        `json:"default_rate"`
	Quality        *QualitySummary `json:"quality,omitempty"`
}

// SkippedResponse counts loans left out of the feature table.
type SkippedResponse struct {
	MissingAnchor int `json:"missing_anchor"`
	Unlabeled     int `json:"unlabeled"`
}

// RunFromDomain converts a domain run to response.
func RunFromDomain(r *domain.AssemblyRun) *RunResponse {
	resp := &RunResponse{
		ID:          r.ID,
		Fingerprint: r.Fingerprint,
		Source:      r.Source,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		DurationMS:  r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
		RowsEmitted: r.RowsEmitted,
		Skipped: SkippedResponse{
			MissingAnchor: r.SkippedNoAnchor,
			Unlabeled:     r.SkippedUnlabeled,
		},
		FlaggedRows:    r.FlaggedRows,
		ViolationCount: r.ViolationCount,
		LabeledLoans:   r.LabeledLoanCount,
		DefaultedLoans: r.DefaultedLoanCount,
	}

	if r.RowsEmitted > 0 {
		rate := float64(r.DefaultedLoanCount) / float64(r.RowsEmitted)
		resp.DefaultRate = &rate
	}

	return resp
}

// QualitySummary is the condensed outcome of a quality run.
type QualitySummary struct {
	OverallStatus     quality.Status  `json:"overall_status"`
	TotalFailedChecks int             `json:"total_failed_checks"`
	TotalWarnings     int             `json:"total_warned_checks"`
	FailedChecks      []quality.Check `json:"failed_checks,omitempty"`
}

// QualitySummaryFromReport condenses a report.
func QualitySummaryFromReport(r *quality.Report) *QualitySummary {
	return &QualitySummary{
		OverallStatus:     r.OverallStatus,
		TotalFailedChecks: r.TotalFailedChecks,
		TotalWarnings:     r.TotalWarnings,
		FailedChecks:      r.FailedChecks(),
	}
}

// FeatureListResponse is a page of a user's feature rows.
type FeatureListResponse struct {
	UserID string               `json:"user_id"`
	Count  int                  `json:"count"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Rows   []*domain.FeatureRow `json:"rows"`
}

// FeatureListFromDomain wraps rows in a page response.
func FeatureListFromDomain(userID string, limit, offset int, rows []*domain.FeatureRow) *FeatureListResponse {
	if rows == nil {
		rows = []*domain.FeatureRow{}
	}
	return &FeatureListResponse{
		UserID: userID,
		Count:  len(rows),
		Limit:  limit,
		Offset: offset,
		Rows:   rows,
	}
}
