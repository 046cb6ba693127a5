package feature

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

type dayStat struct {
	key        time.Time
	net        decimal.Decimal
	endBalance decimal.Decimal
	minBalance decimal.Decimal
}

// AggregateWindow computes trailing-window aggregates over the transactions
// with posted_at in [anchor - days, anchor). txns must be ordered by posted_at.
// Days are calendar days in UTC; only observed days contribute to the daily
// statistics.
func AggregateWindow(txns []*domain.Transaction, anchor time.Time, days int) domain.WindowFeatures {
	in := between(txns, anchor.AddDate(0, 0, -days), anchor)

	wf := domain.WindowFeatures{
		Days:                    days,
		TxnCount:                len(in),
		InflowSum:               decimal.Zero,
		OutflowSum:              decimal.Zero,
		EssentialsOutflowSum:    decimal.Zero,
		DiscretionaryOutflowSum: decimal.Zero,
		RentOutflowSum:          decimal.Zero,
	}
	if len(in) == 0 {
		return wf
	}

	var (
		inflows []float64
		dailies []*dayStat
		minBal  = in[0].BalanceAfter
	)

	for _, t := range in {
		mag := t.Magnitude()

		switch t.Direction {
		case domain.DirectionInflow:
			wf.InflowSum = wf.InflowSum.Add(mag)
			inflows = append(inflows, mag.InexactFloat64())
		case domain.DirectionOutflow:
			wf.OutflowSum = wf.OutflowSum.Add(mag)
			switch domain.ClassifyCategory(t.Category) {
			case domain.SpendEssentials:
				wf.EssentialsOutflowSum = wf.EssentialsOutflowSum.Add(mag)
			case domain.SpendDiscretionary:
				wf.DiscretionaryOutflowSum = wf.DiscretionaryOutflowSum.Add(mag)
			}
			if t.Category == domain.CategoryRent {
				wf.RentOutflowSum = wf.RentOutflowSum.Add(mag)
			}
		}

		if t.BalanceAfter.LessThan(minBal) {
			minBal = t.BalanceAfter
		}

		key := dayKey(t.PostedAt)
		if len(dailies) == 0 || !dailies[len(dailies)-1].key.Equal(key) {
			dailies = append(dailies, &dayStat{key: key, net: decimal.Zero, minBalance: t.BalanceAfter})
		}
		day := dailies[len(dailies)-1]
		day.net = day.net.Add(signed(t))
		day.endBalance = t.BalanceAfter
		if t.BalanceAfter.LessThan(day.minBalance) {
			day.minBalance = t.BalanceAfter
		}
	}

	endBalances := make([]float64, len(dailies))
	nets := make([]float64, len(dailies))
	for i, d := range dailies {
		endBalances[i] = d.endBalance.InexactFloat64()
		nets[i] = d.net.InexactFloat64()
		if d.minBalance.IsNegative() {
			wf.OverdraftDays++
		}
	}

	wf.AvgEndOfDayBalance = floatPtr(mean(endBalances))
	wf.MinBalance = floatPtr(minBal.InexactFloat64())
	wf.NetCashflowVolatility = floatPtr(popStd(nets))

	if len(inflows) > 0 {
		std := popStd(inflows)
		wf.InflowVolatility = floatPtr(std)
		if m := mean(inflows); m != 0 {
			wf.InflowCV = floatPtr(std / m)
		}
	}

	return wf
}

// signed returns the transaction's contribution to net cash flow, using the
// direction rather than the stored sign.
func signed(t *domain.Transaction) decimal.Decimal {
	if t.Direction == domain.DirectionOutflow {
		return t.Magnitude().Neg()
	}
	return t.Magnitude()
}

func dayKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// popStd is the population standard deviation. xs must be non-empty.
func popStd(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func floatPtr(v float64) *float64 {
	return &v
}
