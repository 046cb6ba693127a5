package domain

import (
	"errors"
	"testing"
	"time"
)

func ts(day int) *time.Time {
	t := time.Date(2024, 5, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func TestLoan_Validate(t *testing.T) {
	requested := *ts(1)

	tests := []struct {
		name        string
		loan        Loan
		expectError error
	}{
		{
			name:        "repaid loan with full lifecycle",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, ApprovedAt: ts(1), DisbursedAt: ts(2), RepaidAt: ts(20), Status: LoanStatusRepaid},
			expectError: nil,
		},
		{
			name:        "declined loan without approval",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, Status: LoanStatusDeclined},
			expectError: nil,
		},
		{
			name:        "approved before requested",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: *ts(3), ApprovedAt: ts(2), Status: LoanStatusApproved},
			expectError: ErrLifecycleOrder,
		},
		{
			name:        "disbursed before approved",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, ApprovedAt: ts(5), DisbursedAt: ts(4), Status: LoanStatusDisbursed},
			expectError: ErrLifecycleOrder,
		},
		{
			name:        "repaid without disbursal",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, ApprovedAt: ts(1), RepaidAt: ts(9), Status: LoanStatusRepaid},
			expectError: ErrLifecycleOrder,
		},
		{
			name:        "default without disbursal",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, ApprovedAt: ts(1), Status: LoanStatusDefault},
			expectError: ErrLifecycleStatus,
		},
		{
			name:        "declined but disbursed",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, ApprovedAt: ts(1), DisbursedAt: ts(2), Status: LoanStatusDeclined},
			expectError: ErrLifecycleStatus,
		},
		{
			name:        "unknown status",
			loan:        Loan{ID: "l1", UserID: "u1", RequestedAt: requested, Status: "paused"},
			expectError: ErrUnknownStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loan.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestLoan_IsDefaulted(t *testing.T) {
	if !(&Loan{Status: LoanStatusDefault}).IsDefaulted() {
		t.Fatal("default status should be defaulted")
	}
	if !(&Loan{Status: LoanStatusRepaid, ChargeOff: true}).IsDefaulted() {
		t.Fatal("charge-off should be defaulted")
	}
	if (&Loan{Status: LoanStatusRepaid}).IsDefaulted() {
		t.Fatal("repaid loan should not be defaulted")
	}
}
