package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidWindow    = errors.New("invalid feature window")
	ErrInvalidLookback  = errors.New("invalid payroll lookback")
	ErrInvalidIDFormat  = errors.New("invalid ID format")
	ErrInvalidRunSource = errors.New("invalid event source")
)

// Validation constants
const (
	MaxWindowDays   = 365
	MaxLookbackDays = 730
	MaxIDLength     = 128
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// ValidateID checks identifiers received from the API before they reach storage.
func ValidateID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" || len(id) > MaxIDLength {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidIDFormat, MaxIDLength)
	}

	if !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}

	return nil
}

// ValidateWindows checks trailing-window lengths: positive, bounded, unique.
func ValidateWindows(windows []int) error {
	if len(windows) == 0 {
		return fmt.Errorf("%w: at least one window is required", ErrInvalidWindow)
	}

	seen := make(map[int]bool, len(windows))
	for _, w := range windows {
		if w <= 0 || w > MaxWindowDays {
			return fmt.Errorf("%w: %d days (must be 1..%d)", ErrInvalidWindow, w, MaxWindowDays)
		}
		if seen[w] {
			return fmt.Errorf("%w: %d days listed twice", ErrInvalidWindow, w)
		}
		seen[w] = true
	}

	return nil
}

// ValidateLookback checks a payroll lookback length in days.
func ValidateLookback(days int) error {
	if days <= 0 || days > MaxLookbackDays {
		return fmt.Errorf("%w: %d days (must be 1..%d)", ErrInvalidLookback, days, MaxLookbackDays)
	}
	return nil
}

// ValidateSource checks the event source name.
func ValidateSource(source string) error {
	switch source {
	case SourceCSV, SourcePostgres:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRunSource, source)
	}
}

// Event source names.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
