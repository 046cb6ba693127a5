package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.RowsAssembled == nil || m.HTTPRequests == nil || m.CacheLookups == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.CacheLookup(true)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRunCompleted(t *testing.T) {
	m := New(prometheus.NewRegistry())

	run := &domain.AssemblyRun{
		RowsEmitted:        8,
		SkippedNoAnchor:    2,
		SkippedUnlabeled:   5,
		FlaggedRows:        1,
		DefaultedLoanCount: 2,
	}
	violations := []domain.ViolationCount{
		{Entity: domain.EntityTransaction, Kind: "sign_direction_mismatch", Count: 3},
	}

	m.RunCompleted(run, violations, 1500*time.Millisecond)

	if got := testutil.ToFloat64(m.RowsAssembled); got != 8 {
		t.Fatalf("expected 8 rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.LoansSkipped.WithLabelValues("unlabeled")); got != 5 {
		t.Fatalf("expected 5 unlabeled skips, got %v", got)
	}
	if got := testutil.ToFloat64(m.Violations.WithLabelValues("transaction", "sign_direction_mismatch")); got != 3 {
		t.Fatalf("expected 3 violations, got %v", got)
	}
	if got := testutil.ToFloat64(m.LastRunDefaultRate); got != 0.25 {
		t.Fatalf("expected default rate 0.25, got %v", got)
	}
}

func TestCacheLookupAndQualityChecked(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.QualityChecked("risk_ratio_validations", "PASS")

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.QualityChecks.WithLabelValues("risk_ratio_validations", "PASS")); got != 1 {
		t.Fatalf("expected 1 quality check, got %v", got)
	}
}
