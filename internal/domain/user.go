package domain

import "time"

// User is a borrower profile.
type User struct {
	SignupAt           time.Time
	BankLinkedAt       *time.Time
	ID                 string
	Province           string
	DeviceOS           string
	AcquisitionChannel string
	PayrollFrequency   string
	FicoBand           string
	BaselineRiskScore  float64
}

// Validate checks keys and the risk score range.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrMissingKey
	}

	if u.SignupAt.IsZero() {
		return ErrMissingTimestamp
	}

	if u.BaselineRiskScore < 0 || u.BaselineRiskScore > 1 {
		return ErrRiskScoreOutOfRange
	}

	return nil
}

// BankLinkedBefore reports whether the bank account was linked strictly before t.
func (u *User) BankLinkedBefore(t time.Time) bool {
	return u.BankLinkedAt != nil && u.BankLinkedAt.Before(t)
}

// ExperimentAssignment records which variant of an A/B test a user saw.
type ExperimentAssignment struct {
	AssignedAt     time.Time
	ID             string
	UserID         string
	ExperimentName string
	Variant        string
}

// Validate checks the assignment keys.
func (a *ExperimentAssignment) Validate() error {
	if a.ID == "" || a.UserID == "" || a.ExperimentName == "" {
		return ErrMissingKey
	}

	if a.AssignedAt.IsZero() {
		return ErrMissingTimestamp
	}

	return nil
}

// Dataset is the raw content of the event store: users, transactions, loans
// and experiment assignments as read from a source.
type Dataset struct {
	Users        []*User
	Transactions []*Transaction
	Loans        []*Loan
	Assignments  []*ExperimentAssignment

	// Rejected holds rows the source could not decode.
	Rejected []*ViolationError
	// RenamedDuplicates counts transaction ids the source disambiguated.
	RenamedDuplicates int
}
