package feature

import (
	"sort"
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// CadenceConfig holds the payroll lookbacks in days. The gap lookback bounds
// the events used for the median gap; the last lookback bounds the search for
// the most recent payroll.
type CadenceConfig struct {
	GapLookbackDays  int
	LastLookbackDays int
}

// DefaultCadenceConfig returns the 180/120 day lookbacks.
func DefaultCadenceConfig() CadenceConfig {
	return CadenceConfig{GapLookbackDays: 180, LastLookbackDays: 120}
}

const hoursPerDay = 24

// EstimatePayroll infers payroll cadence from the payroll transactions
// posted before anchor. txns must be ordered by posted_at.
func EstimatePayroll(txns []*domain.Transaction, anchor time.Time, cfg CadenceConfig) domain.PayrollFeatures {
	pf := domain.PayrollFeatures{
		DaysSinceLastPayroll: domain.NoPayrollSentinelDays,
		Bucket:               domain.CadenceIrregular,
	}

	gapEvents := payrollTimes(between(txns, anchor.AddDate(0, 0, -cfg.GapLookbackDays), anchor))
	pf.PayrollCount = len(gapEvents)

	if len(gapEvents) >= 2 {
		gaps := make([]float64, 0, len(gapEvents)-1)
		for i := 1; i < len(gapEvents); i++ {
			gaps = append(gaps, daysBetween(gapEvents[i-1], gapEvents[i]))
		}
		m := median(gaps)
		pf.MedianGapDays = &m
		pf.Bucket = BucketCadence(m)
	}

	lastEvents := payrollTimes(between(txns, anchor.AddDate(0, 0, -cfg.LastLookbackDays), anchor))
	if n := len(lastEvents); n > 0 {
		pf.DaysSinceLastPayroll = int(daysBetween(lastEvents[n-1], anchor))
	}

	return pf
}

// BucketCadence maps a median gap in days onto a cadence. Bounds are inclusive.
func BucketCadence(gapDays float64) domain.Cadence {
	switch {
	case gapDays >= 6 && gapDays <= 8:
		return domain.CadenceWeekly
	case gapDays >= 12 && gapDays <= 17:
		return domain.CadenceBiweekly
	case gapDays >= 26 && gapDays <= 35:
		return domain.CadenceMonthly
	default:
		return domain.CadenceIrregular
	}
}

func payrollTimes(txns []*domain.Transaction) []time.Time {
	var out []time.Time
	for _, t := range txns {
		if t.IsPayroll {
			out = append(out, t.PostedAt)
		}
	}
	return out
}

// daysBetween counts whole calendar days from a to b in UTC.
func daysBetween(a, b time.Time) float64 {
	return float64(dayKey(b).Sub(dayKey(a)).Hours() / hoursPerDay)
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
