package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a cash advance.
type LoanStatus string

const (
	LoanStatusRequested LoanStatus = "requested"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusDisbursed LoanStatus = "disbursed"
	LoanStatusRepaid    LoanStatus = "repaid"
	LoanStatusDefault   LoanStatus = "default"
	LoanStatusDeclined  LoanStatus = "declined"
)

var validLoanStatuses = map[LoanStatus]bool{
	LoanStatusRequested: true,
	LoanStatusApproved:  true,
	LoanStatusDisbursed: true,
	LoanStatusRepaid:    true,
	LoanStatusDefault:   true,
	LoanStatusDeclined:  true,
}

// IsValid checks if the status is a known status.
func (s LoanStatus) IsValid() bool {
	return validLoanStatuses[s]
}

// IsTerminal reports whether the loan reached a final repayment outcome.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusRepaid || s == LoanStatusDefault
}

// requiresDisbursal lists statuses that only exist after money moved.
func (s LoanStatus) requiresDisbursal() bool {
	return s == LoanStatusDisbursed || s.IsTerminal()
}

// Loan is a cash advance and its lifecycle timestamps.
type Loan struct {
	RequestedAt        time.Time
	ApprovedAt         *time.Time
	DisbursedAt        *time.Time
	DueDate            *time.Time
	RepaidAt           *time.Time
	ID                 string
	UserID             string
	Status             LoanStatus
	PriceVariant       string
	TipVariant         string
	Amount             decimal.Decimal
	Fee                decimal.Decimal
	TipAmount          decimal.Decimal
	InstantTransferFee decimal.Decimal
	PrincipalRepaid    decimal.Decimal
	WriteoffAmount     decimal.Decimal
	LateDays           int
	ChargeOff          bool
	AutopayEnrolled    bool
}

// IsApproved reports whether the loan has an approval timestamp.
func (l *Loan) IsApproved() bool {
	return l.ApprovedAt != nil
}

// IsDisbursed reports whether money was sent to the borrower.
func (l *Loan) IsDisbursed() bool {
	return l.DisbursedAt != nil
}

// IsDefaulted reports a default or charge-off outcome.
func (l *Loan) IsDefaulted() bool {
	return l.Status == LoanStatusDefault || l.ChargeOff
}

// IsLabeled reports whether the loan carries a known repayment outcome.
func (l *Loan) IsLabeled() bool {
	return l.Status.IsTerminal()
}

// Validate enforces requested <= approved <= disbursed <= repaid and that the
// status agrees with which timestamps are present.
func (l *Loan) Validate() error {
	if l.ID == "" || l.UserID == "" {
		return ErrMissingKey
	}

	if l.RequestedAt.IsZero() {
		return ErrMissingTimestamp
	}

	if !l.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, l.Status)
	}

	if l.ApprovedAt != nil && l.ApprovedAt.Before(l.RequestedAt) {
		return fmt.Errorf("%w: approved_at before requested_at", ErrLifecycleOrder)
	}

	if l.DisbursedAt != nil {
		if l.ApprovedAt == nil {
			return fmt.Errorf("%w: disbursed without approval", ErrLifecycleOrder)
		}
		if l.DisbursedAt.Before(*l.ApprovedAt) {
			return fmt.Errorf("%w: disbursed_at before approved_at", ErrLifecycleOrder)
		}
	}

	if l.RepaidAt != nil {
		if l.DisbursedAt == nil {
			return fmt.Errorf("%w: repaid without disbursal", ErrLifecycleOrder)
		}
		if l.RepaidAt.Before(*l.DisbursedAt) {
			return fmt.Errorf("%w: repaid_at before disbursed_at", ErrLifecycleOrder)
		}
	}

	if l.Status.requiresDisbursal() && l.DisbursedAt == nil {
		return fmt.Errorf("%w: status %s without disbursed_at", ErrLifecycleStatus, l.Status)
	}

	if l.Status == LoanStatusApproved && l.ApprovedAt == nil {
		return fmt.Errorf("%w: status approved without approved_at", ErrLifecycleStatus)
	}

	if (l.Status == LoanStatusDeclined || l.Status == LoanStatusRequested) && l.DisbursedAt != nil {
		return fmt.Errorf("%w: status %s with disbursed_at", ErrLifecycleStatus, l.Status)
	}

	return nil
}
