package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Entity names the event-store table a record came from.
type Entity string

const (
	EntityUser        Entity = "user"
	EntityTransaction Entity = "transaction"
	EntityLoan        Entity = "loan"
	EntityAssignment  Entity = "assignment"
)

// ViolationError is a data-quality violation tied to one source record.
type ViolationError struct {
	Entity Entity
	ID     string
	UserID string
	Err    error
}

// NewViolation wraps err with the record it was raised for.
func NewViolation(entity Entity, id, userID string, err error) *ViolationError {
	return &ViolationError{Entity: entity, ID: id, UserID: userID, Err: err}
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s %s (user %s): %v", e.Entity, e.ID, e.UserID, e.Err)
}

func (e *ViolationError) Unwrap() error {
	return e.Err
}

// Kind returns a stable snake_case name for the underlying sentinel.
func (e *ViolationError) Kind() string {
	return ViolationKind(e.Err)
}

var violationKinds = []struct {
	err  error
	kind string
}{
	{ErrMissingKey, "missing_key"},
	{ErrMissingTimestamp, "missing_timestamp"},
	{ErrUnknownDirection, "unknown_direction"},
	{ErrSignDirectionMismatch, "sign_direction_mismatch"},
	{ErrUnknownStatus, "unknown_status"},
	{ErrLifecycleOrder, "lifecycle_order"},
	{ErrLifecycleStatus, "lifecycle_status"},
	{ErrRiskScoreOutOfRange, "risk_score_out_of_range"},
	{ErrOrphanRecord, "orphan_record"},
	{ErrDuplicateID, "duplicate_id"},
	{ErrMalformedRecord, "malformed_record"},
}

// ViolationKind maps a schema error onto its report name.
func ViolationKind(err error) string {
	for _, k := range violationKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "other"
}

// ViolationReport collects the records excluded from a snapshot.
type ViolationReport struct {
	Violations []*ViolationError
}

// Add records a violation. Nil violations are ignored.
func (r *ViolationReport) Add(v *ViolationError) {
	if v == nil {
		return
	}
	r.Violations = append(r.Violations, v)
}

// Total returns the number of excluded records.
func (r *ViolationReport) Total() int {
	return len(r.Violations)
}

// Count returns the number of violations for entity whose error matches target.
// A nil target matches every error.
func (r *ViolationReport) Count(entity Entity, target error) int {
	n := 0
	for _, v := range r.Violations {
		if v.Entity != entity {
			continue
		}
		if target == nil || errors.Is(v.Err, target) {
			n++
		}
	}
	return n
}

// ViolationCount is one row of the summarised report.
type ViolationCount struct {
	Entity Entity `json:"entity"`
	Kind   string `json:"kind"`
	Count  int    `json:"count"`
}

// Summary groups violations by entity and kind, sorted for stable output.
func (r *ViolationReport) Summary() []ViolationCount {
	counts := make(map[ViolationCount]int)
	for _, v := range r.Violations {
		counts[ViolationCount{Entity: v.Entity, Kind: v.Kind()}]++
	}

	out := make([]ViolationCount, 0, len(counts))
	for k, n := range counts {
		k.Count = n
		out = append(out, k)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		return out[i].Kind < out[j].Kind
	})

	return out
}

type violationJSON struct {
	Entity Entity `json:"entity"`
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// MarshalJSON writes the total, the summary and every excluded record.
func (r *ViolationReport) MarshalJSON() ([]byte, error) {
	records := make([]violationJSON, len(r.Violations))
	for i, v := range r.Violations {
		records[i] = violationJSON{
			Entity: v.Entity,
			ID:     v.ID,
			UserID: v.UserID,
			Kind:   v.Kind(),
			Error:  v.Err.Error(),
		}
	}

	return json.Marshal(struct {
		Total      int              `json:"total"`
		Summary    []ViolationCount `json:"summary"`
		Violations []violationJSON  `json:"violations"`
	}{
		Total:      r.Total(),
		Summary:    r.Summary(),
		Violations: records,
	})
}
