package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sh2nam/bree-takehome-nam/internal/adapter/http/dto"
	"github.com/sh2nam/bree-takehome-nam/internal/quality"
)

type qualityServiceStub struct {
	report *quality.Report
	err    error
}

func (s *qualityServiceStub) Run(ctx context.Context) (*quality.Report, error) {
	return s.report, s.err
}

func failingReport() *quality.Report {
	return &quality.Report{
		OverallStatus:     quality.StatusFail,
		TotalFailedChecks: 1,
		TotalCategories:   1,
		Categories: []quality.CategoryResult{{
			Name:   "risk_timestamp_validations",
			Status: quality.StatusFail,
			Total:  1,
			Failed: 1,
			Checks: []quality.Check{{
				Category: "risk_timestamp_validations",
				Name:     "txn_after_anchor",
				Status:   quality.StatusFail,
				Observed: 3,
				Expected: "0",
			}},
		}},
	}
}

func TestQualityHandler_Run_FullReport(t *testing.T) {
	handler := NewQualityHandler(&qualityServiceStub{report: failingReport()})

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quality", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even for a failing suite, got %d", rec.Code)
	}

	var report quality.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.OverallStatus != quality.StatusFail || len(report.Categories) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestQualityHandler_Run_Summary(t *testing.T) {
	handler := NewQualityHandler(&qualityServiceStub{report: failingReport()})

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quality?summary=true", nil))

	var summary dto.QualitySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.TotalFailedChecks != 1 || len(summary.FailedChecks) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.FailedChecks[0].Name != "txn_after_anchor" {
		t.Fatalf("unexpected failed check: %+v", summary.FailedChecks[0])
	}
}

func TestQualityHandler_Run_SourceError(t *testing.T) {
	handler := NewQualityHandler(&qualityServiceStub{err: errors.New("load events")})

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quality", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
