package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

func TestEstimatePayroll_Biweekly(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(0), 1000, 1000, true)
	b.inflow("u1", at(14), 1000, 2000, true)
	b.inflow("u1", at(15), 50, 2050, false)

	s := b.snapshot()
	pf := EstimatePayroll(s.UserTransactions("u1"), at(20), DefaultCadenceConfig())

	assert.Equal(t, 2, pf.PayrollCount)
	require.NotNil(t, pf.MedianGapDays)
	assert.Equal(t, 14.0, *pf.MedianGapDays)
	assert.Equal(t, domain.CadenceBiweekly, pf.Bucket)
	assert.Equal(t, 6, pf.DaysSinceLastPayroll)
}

func TestEstimatePayroll_NoPayrollUsesSentinel(t *testing.T) {
	pf := EstimatePayroll(nil, at(20), DefaultCadenceConfig())

	assert.Equal(t, domain.NoPayrollSentinelDays, pf.DaysSinceLastPayroll)
	assert.Equal(t, 1000, pf.DaysSinceLastPayroll)
	assert.Nil(t, pf.MedianGapDays)
	assert.Equal(t, domain.CadenceIrregular, pf.Bucket)
}

func TestEstimatePayroll_SingleEventIsIrregular(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(10), 1000, 1000, true)

	s := b.snapshot()
	pf := EstimatePayroll(s.UserTransactions("u1"), at(20), DefaultCadenceConfig())

	assert.Nil(t, pf.MedianGapDays)
	assert.Equal(t, domain.CadenceIrregular, pf.Bucket)
	assert.Equal(t, 10, pf.DaysSinceLastPayroll)
}

func TestEstimatePayroll_PayrollAtAnchorIgnored(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(0), 1000, 1000, true)
	b.inflow("u1", at(7), 1000, 2000, true)
	b.inflow("u1", at(14), 1000, 3000, true)

	s := b.snapshot()
	pf := EstimatePayroll(s.UserTransactions("u1"), at(14), DefaultCadenceConfig())

	assert.Equal(t, 2, pf.PayrollCount)
	assert.Equal(t, 7, pf.DaysSinceLastPayroll)
	assert.Equal(t, domain.CadenceWeekly, pf.Bucket)
}

func TestEstimatePayroll_IndependentLookbacks(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(0), 1000, 1000, true)
	b.inflow("u1", at(30), 1000, 2000, true)

	s := b.snapshot()
	anchor := at(160)

	// Both payrolls are inside the 180 day gap lookback but the latest one is
	// 130 days old, outside the 120 day last-payroll lookback.
	pf := EstimatePayroll(s.UserTransactions("u1"), anchor, DefaultCadenceConfig())
	require.NotNil(t, pf.MedianGapDays)
	assert.Equal(t, domain.CadenceMonthly, pf.Bucket)
	assert.Equal(t, domain.NoPayrollSentinelDays, pf.DaysSinceLastPayroll)

	pf = EstimatePayroll(s.UserTransactions("u1"), anchor, CadenceConfig{GapLookbackDays: 180, LastLookbackDays: 150})
	assert.Equal(t, 130, pf.DaysSinceLastPayroll)

	pf = EstimatePayroll(s.UserTransactions("u1"), anchor, CadenceConfig{GapLookbackDays: 140, LastLookbackDays: 150})
	assert.Nil(t, pf.MedianGapDays)
	assert.Equal(t, 1, pf.PayrollCount)
}

func TestEstimatePayroll_MedianOfEvenGaps(t *testing.T) {
	b := newBuilder("u1")
	for _, d := range []int{0, 6, 14, 28, 34} {
		b.inflow("u1", at(d), 1000, 1000, true)
	}

	s := b.snapshot()
	pf := EstimatePayroll(s.UserTransactions("u1"), at(40), DefaultCadenceConfig())

	// gaps 6, 8, 14, 6 -> median (6+8)/2
	require.NotNil(t, pf.MedianGapDays)
	assert.Equal(t, 7.0, *pf.MedianGapDays)
	assert.Equal(t, domain.CadenceWeekly, pf.Bucket)
}

func TestBucketCadence(t *testing.T) {
	tests := []struct {
		gap  float64
		want domain.Cadence
	}{
		{5.5, domain.CadenceIrregular},
		{6, domain.CadenceWeekly},
		{8, domain.CadenceWeekly},
		{8.5, domain.CadenceIrregular},
		{12, domain.CadenceBiweekly},
		{17, domain.CadenceBiweekly},
		{20, domain.CadenceIrregular},
		{26, domain.CadenceMonthly},
		{35, domain.CadenceMonthly},
		{36, domain.CadenceIrregular},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketCadence(tt.gap), "gap %v", tt.gap)
	}
}
