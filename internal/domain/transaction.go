package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money entered or left the account.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// IsValid reports whether the direction is one of the known values.
func (d Direction) IsValid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// Transaction categories emitted by the bank-data provider.
const (
	CategoryPayroll       = "payroll"
	CategoryRent          = "rent"
	CategoryGroceries     = "groceries"
	CategoryUtilities     = "utilities"
	CategoryTransport     = "transport"
	CategoryDining        = "dining"
	CategoryEntertainment = "entertainment"
	CategoryOther         = "other"
)

// SpendClass partitions outflow categories.
type SpendClass int

const (
	SpendOther SpendClass = iota
	SpendEssentials
	SpendDiscretionary
)

var spendClasses = map[string]SpendClass{
	CategoryGroceries:     SpendEssentials,
	CategoryUtilities:     SpendEssentials,
	CategoryRent:          SpendEssentials,
	CategoryTransport:     SpendEssentials,
	CategoryEntertainment: SpendDiscretionary,
	CategoryDining:        SpendDiscretionary,
}

// ClassifyCategory maps a transaction category onto the fixed spend partition.
// Unknown categories fall into SpendOther.
func ClassifyCategory(category string) SpendClass {
	return spendClasses[category]
}

// Transaction is an immutable posted bank transaction.
type Transaction struct {
	PostedAt     time.Time
	ID           string
	UserID       string
	Direction    Direction
	Category     string
	MCC          string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	IsPayroll    bool
	// Seq is the position in the source. It orders transactions that share
	// a posted_at, which is common when the source only records dates.
	Seq int64
}

// Magnitude returns the unsigned transaction amount.
func (t *Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// Validate checks keys and that the amount sign agrees with the direction:
// inflows are >= 0 and outflows are <= 0.
func (t *Transaction) Validate() error {
	if t.ID == "" || t.UserID == "" {
		return ErrMissingKey
	}

	if t.PostedAt.IsZero() {
		return ErrMissingTimestamp
	}

	if !t.Direction.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, t.Direction)
	}

	if t.Direction == DirectionInflow && t.Amount.IsNegative() {
		return fmt.Errorf("%w: inflow with amount %s", ErrSignDirectionMismatch, t.Amount)
	}

	if t.Direction == DirectionOutflow && t.Amount.IsPositive() {
		return fmt.Errorf("%w: outflow with amount %s", ErrSignDirectionMismatch, t.Amount)
	}

	return nil
}
