package feature

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

func TestAggregateWindow_HalfOpenBounds(t *testing.T) {
	b := newBuilder("u1")
	anchor := at(30)

	b.inflow("u1", anchor.AddDate(0, 0, -14).Add(-time.Second), 1000, 1000, false) // just outside
	b.inflow("u1", anchor.AddDate(0, 0, -14), 200, 1200, false)                    // lower bound, included
	b.inflow("u1", anchor.Add(-time.Second), 300, 1500, false)                     // included
	b.inflow("u1", anchor, 5000, 6500, false)                                      // at anchor, excluded

	s := b.snapshot()
	wf := AggregateWindow(s.UserTransactions("u1"), anchor, 14)

	assert.Equal(t, 2, wf.TxnCount)
	assert.True(t, wf.InflowSum.Equal(decimal.NewFromInt(500)), "inflow sum %s", wf.InflowSum)
	require.NotNil(t, wf.MinBalance)
	assert.Equal(t, 1200.0, *wf.MinBalance)
}

func TestAggregateWindow_Empty(t *testing.T) {
	wf := AggregateWindow(nil, at(10), 14)
	deriveRatios(&wf)

	assert.Equal(t, 14, wf.Days)
	assert.Zero(t, wf.TxnCount)
	assert.True(t, wf.InflowSum.IsZero())
	assert.True(t, wf.OutflowSum.IsZero())
	assert.Zero(t, wf.OverdraftDays)
	assert.Nil(t, wf.AvgEndOfDayBalance)
	assert.Nil(t, wf.MinBalance)
	assert.Nil(t, wf.NetCashflowVolatility)
	assert.Nil(t, wf.InflowCV)
	assert.Nil(t, wf.OutflowToInflow)
	assert.Nil(t, wf.RentShare)
	assert.Nil(t, wf.NetCashflowMomentum)
	assert.Nil(t, wf.BalanceToInflow)
}

func TestAggregateWindow_SpendPartition(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(1), 1000, 1000, true)
	b.outflow("u1", at(2), domain.CategoryRent, 400, 600)
	b.outflow("u1", at(3), domain.CategoryGroceries, 100, 500)
	b.outflow("u1", at(4), domain.CategoryDining, 50, 450)
	b.outflow("u1", at(5), domain.CategoryOther, 50, 400)

	s := b.snapshot()
	wf := AggregateWindow(s.UserTransactions("u1"), at(10), 14)
	deriveRatios(&wf)

	assert.True(t, wf.OutflowSum.Equal(decimal.NewFromInt(600)))
	assert.True(t, wf.EssentialsOutflowSum.Equal(decimal.NewFromInt(500)))
	assert.True(t, wf.RentOutflowSum.Equal(decimal.NewFromInt(400)))
	assert.True(t, wf.DiscretionaryOutflowSum.Equal(decimal.NewFromInt(50)))

	require.NotNil(t, wf.RentShare)
	assert.InDelta(t, 400.0/600.0, *wf.RentShare, 1e-12)
	require.NotNil(t, wf.EssentialsShare)
	assert.InDelta(t, 500.0/600.0, *wf.EssentialsShare, 1e-12)
	require.NotNil(t, wf.DiscretionaryShare)
	assert.InDelta(t, 50.0/600.0, *wf.DiscretionaryShare, 1e-12)
	assert.Empty(t, shareFlags(wf))
}

func TestAggregateWindow_DailyStatistics(t *testing.T) {
	b := newBuilder("u1")
	// day 1: net +100, balance dips negative then recovers
	b.outflow("u1", at(1), domain.CategoryOther, 50, -20)
	b.inflow("u1", at(1).Add(2*time.Hour), 150, 130, false)
	// day 3: net -30, ends at 100
	b.outflow("u1", at(3), domain.CategoryDining, 30, 100)

	s := b.snapshot()
	wf := AggregateWindow(s.UserTransactions("u1"), at(10), 14)

	assert.Equal(t, 1, wf.OverdraftDays)
	require.NotNil(t, wf.AvgEndOfDayBalance)
	assert.InDelta(t, 115.0, *wf.AvgEndOfDayBalance, 1e-9)
	require.NotNil(t, wf.MinBalance)
	assert.Equal(t, -20.0, *wf.MinBalance)

	// daily nets 100 and -30: mean 35, population std 65
	require.NotNil(t, wf.NetCashflowVolatility)
	assert.InDelta(t, 65.0, *wf.NetCashflowVolatility, 1e-9)

	// single inflow: std 0, cv 0
	require.NotNil(t, wf.InflowVolatility)
	assert.Equal(t, 0.0, *wf.InflowVolatility)
	require.NotNil(t, wf.InflowCV)
	assert.Equal(t, 0.0, *wf.InflowCV)
}

func TestAggregateWindow_InflowCV(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(1), 100, 100, false)
	b.inflow("u1", at(2), 300, 400, false)

	s := b.snapshot()
	wf := AggregateWindow(s.UserTransactions("u1"), at(5), 14)

	// mean 200, population std 100
	require.NotNil(t, wf.InflowCV)
	assert.InDelta(t, 0.5, *wf.InflowCV, 1e-12)
}

func TestAggregateWindow_ZeroInflowMeanIsNull(t *testing.T) {
	b := newBuilder("u1")
	b.inflow("u1", at(1), 0, 0, false)

	s := b.snapshot()
	wf := AggregateWindow(s.UserTransactions("u1"), at(5), 14)
	deriveRatios(&wf)

	assert.Nil(t, wf.InflowCV)
	assert.Nil(t, wf.OutflowToInflow)
	assert.Nil(t, wf.NetCashflowMomentum)
}

func TestShareFlags(t *testing.T) {
	over := 1.4
	under := -0.1
	wf := domain.WindowFeatures{Days: 14, RentShare: &over, DiscretionaryShare: &under}

	assert.Equal(t, []string{
		"rent_share_14d_out_of_range",
		"discretionary_share_14d_out_of_range",
	}, shareFlags(wf))
}
