package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransaction_Validate(t *testing.T) {
	posted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		txn         Transaction
		expectError error
	}{
		{
			name:        "valid inflow",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: DirectionInflow, Amount: decimal.NewFromInt(500)},
			expectError: nil,
		},
		{
			name:        "valid outflow",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: DirectionOutflow, Amount: decimal.NewFromInt(-120)},
			expectError: nil,
		},
		{
			name:        "zero amount is allowed either way",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: DirectionOutflow, Amount: decimal.Zero},
			expectError: nil,
		},
		{
			name:        "inflow with negative amount",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: DirectionInflow, Amount: decimal.NewFromInt(-50)},
			expectError: ErrSignDirectionMismatch,
		},
		{
			name:        "outflow with positive amount",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: DirectionOutflow, Amount: decimal.NewFromInt(50)},
			expectError: ErrSignDirectionMismatch,
		},
		{
			name:        "unknown direction",
			txn:         Transaction{ID: "t1", UserID: "u1", PostedAt: posted, Direction: "sideways", Amount: decimal.NewFromInt(1)},
			expectError: ErrUnknownDirection,
		},
		{
			name:        "missing user",
			txn:         Transaction{ID: "t1", PostedAt: posted, Direction: DirectionInflow},
			expectError: ErrMissingKey,
		},
		{
			name:        "missing posted_at",
			txn:         Transaction{ID: "t1", UserID: "u1", Direction: DirectionInflow},
			expectError: ErrMissingTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := map[string]SpendClass{
		CategoryRent:          SpendEssentials,
		CategoryGroceries:     SpendEssentials,
		CategoryUtilities:     SpendEssentials,
		CategoryTransport:     SpendEssentials,
		CategoryDining:        SpendDiscretionary,
		CategoryEntertainment: SpendDiscretionary,
		CategoryPayroll:       SpendOther,
		"subscriptions":       SpendOther,
	}

	for category, want := range tests {
		if got := ClassifyCategory(category); got != want {
			t.Errorf("ClassifyCategory(%q) = %v, want %v", category, got, want)
		}
	}
}
