package domain

import "errors"

var (
	// Schema violations
	ErrMissingKey            = errors.New("record is missing a required key")
	ErrMissingTimestamp      = errors.New("record is missing a required timestamp")
	ErrUnknownDirection      = errors.New("unknown transaction direction")
	ErrSignDirectionMismatch = errors.New("amount sign inconsistent with direction")
	ErrUnknownStatus         = errors.New("unknown loan status")
	ErrLifecycleOrder        = errors.New("loan lifecycle timestamps out of order")
	ErrLifecycleStatus       = errors.New("loan status inconsistent with lifecycle timestamps")
	ErrRiskScoreOutOfRange   = errors.New("baseline risk score outside [0,1]")
	ErrOrphanRecord          = errors.New("record references an unknown user")
	ErrDuplicateID           = errors.New("duplicate record id")
	ErrMalformedRecord       = errors.New("record could not be decoded")

	// Assembly
	ErrMissingAnchor = errors.New("loan has no approval timestamp")
	ErrUnlabeledLoan = errors.New("loan has no terminal outcome")

	// Lookup errors
	ErrLoanNotFound       = errors.New("loan not found")
	ErrFeatureRowNotFound = errors.New("feature row not found")
	ErrRunNotFound        = errors.New("assembly run not found")
)
