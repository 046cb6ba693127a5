package feature

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// ratio returns num/den, or nil when den <= 0.
func ratio(num, den decimal.Decimal) *float64 {
	if !den.IsPositive() {
		return nil
	}
	return floatPtr(num.Div(den).InexactFloat64())
}

func floatRatio(num *float64, den decimal.Decimal) *float64 {
	if num == nil || !den.IsPositive() {
		return nil
	}
	return floatPtr(*num / den.InexactFloat64())
}

// deriveRatios fills the ratio fields of wf from its sums. Shares are not
// clipped; see shareFlags.
func deriveRatios(wf *domain.WindowFeatures) {
	wf.OutflowToInflow = ratio(wf.OutflowSum, wf.InflowSum)
	wf.RentShare = ratio(wf.RentOutflowSum, wf.OutflowSum)
	wf.EssentialsShare = ratio(wf.EssentialsOutflowSum, wf.OutflowSum)
	wf.DiscretionaryShare = ratio(wf.DiscretionaryOutflowSum, wf.OutflowSum)
	wf.NetCashflowMomentum = ratio(wf.InflowSum.Sub(wf.OutflowSum), wf.InflowSum)
	wf.BalanceToOutflow = floatRatio(wf.AvgEndOfDayBalance, wf.OutflowSum)
	wf.BalanceToInflow = floatRatio(wf.AvgEndOfDayBalance, wf.InflowSum)
}

// shareFlags names every share of wf that falls outside [0,1].
func shareFlags(wf domain.WindowFeatures) []string {
	shares := []struct {
		name  string
		value *float64
	}{
		{"rent_share", wf.RentShare},
		{"essentials_share", wf.EssentialsShare},
		{"discretionary_share", wf.DiscretionaryShare},
	}

	var flags []string
	for _, s := range shares {
		if s.value != nil && (*s.value < 0 || *s.value > 1) {
			flags = append(flags, fmt.Sprintf("%s_%dd_out_of_range", s.name, wf.Days))
		}
	}
	return flags
}
