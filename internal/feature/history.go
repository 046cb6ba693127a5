package feature

import (
	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// AggregateHistory summarises the user's loans requested strictly before
// current. loans are the user's loans, including current.
//
// The hist_* statistics use request ordering over the disbursed subset.
// PriorLoanFlag uses approval ordering and is independent of them.
func AggregateHistory(loans []*domain.Loan, current *domain.Loan) domain.HistoryFeatures {
	var (
		hf        domain.HistoryFeatures
		repaid    int
		defaulted int
		late      int
		lateDays  int
	)

	for _, l := range loans {
		if l.ID == current.ID {
			continue
		}

		if current.ApprovedAt != nil && l.ApprovedAt != nil && l.ApprovedAt.Before(*current.ApprovedAt) {
			hf.PriorLoanFlag = 1
		}

		if !l.RequestedAt.Before(current.RequestedAt) {
			continue
		}

		hf.PriorLoanCount++
		if !l.IsDisbursed() {
			continue
		}

		hf.PriorDisbursedCount++
		if l.Status == domain.LoanStatusRepaid && !l.ChargeOff {
			repaid++
		}
		if l.IsDefaulted() {
			defaulted++
		}
		if l.LateDays > 0 {
			late++
		}
		lateDays += l.LateDays
	}

	if hf.PriorDisbursedCount == 0 {
		return hf
	}

	n := float64(hf.PriorDisbursedCount)
	hf.RepayRate = floatPtr(float64(repaid) / n)
	hf.DefaultRate = floatPtr(float64(defaulted) / n)
	hf.DefaultCount = intPtr(defaulted)
	hf.AvgLateDays = floatPtr(float64(lateDays) / n)
	hf.LateCount = intPtr(late)

	return hf
}

func intPtr(v int) *int {
	return &v
}
