// Package quality runs data-quality checks over an event-store snapshot and
// the feature table assembled from it.
package quality

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Status is the outcome of a check.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Check is a single data-quality assertion.
type Check struct {
	Category string  `json:"category"`
	Name     string  `json:"check"`
	Status   Status  `json:"status"`
	Observed float64 `json:"observed"`
	Expected string  `json:"expected"`
	Message  string  `json:"message,omitempty"`
}

// CategoryResult groups the checks of one category.
type CategoryResult struct {
	Name   string  `json:"check_category"`
	Status Status  `json:"category_status"`
	Total  int     `json:"total_checks"`
	Passed int     `json:"passed_checks"`
	Warned int     `json:"warned_checks"`
	Failed int     `json:"failed_checks"`
	Checks []Check `json:"details"`
}

// Report is the result of a full quality run.
type Report struct {
	ExecutedAt        time.Time        `json:"execution_timestamp"`
	Fingerprint       string           `json:"snapshot_fingerprint"`
	OverallStatus     Status           `json:"overall_status"`
	TotalFailedChecks int              `json:"total_failed_checks"`
	TotalWarnings     int              `json:"total_warned_checks"`
	TotalCategories   int              `json:"total_check_categories"`
	Categories        []CategoryResult `json:"categories"`
}

// Passed reports whether no check failed. Warnings do not fail a run.
func (r *Report) Passed() bool {
	return r.OverallStatus == StatusPass
}

// FailedChecks returns every check with status FAIL in report order.
func (r *Report) FailedChecks() []Check {
	var out []Check
	for _, c := range r.Categories {
		for _, ch := range c.Checks {
			if ch.Status == StatusFail {
				out = append(out, ch)
			}
		}
	}
	return out
}

// Category returns the named category result.
func (r *Report) Category(name string) (CategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryResult{}, false
}

func newCategory(name string, checks []Check) CategoryResult {
	c := CategoryResult{Name: name, Status: StatusPass, Total: len(checks), Checks: checks}
	for i := range c.Checks {
		c.Checks[i].Category = name
		switch c.Checks[i].Status {
		case StatusPass:
			c.Passed++
		case StatusWarn:
			c.Warned++
		case StatusFail:
			c.Failed++
		}
	}

	switch {
	case c.Failed > 0:
		c.Status = StatusFail
	case c.Warned > 0:
		c.Status = StatusWarn
	}
	return c
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode quality report: %w", err)
	}
	return nil
}

var failedCSVHeader = []string{"category", "check", "status", "observed", "expected", "message"}

// WriteFailedCSV exports failed checks, one per row. It returns the number
// of rows written; the header is always written.
func WriteFailedCSV(w io.Writer, r *Report) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(failedCSVHeader); err != nil {
		return 0, err
	}

	failed := r.FailedChecks()
	for _, c := range failed {
		record := []string{
			c.Category,
			c.Name,
			string(c.Status),
			strconv.FormatFloat(c.Observed, 'f', -1, 64),
			c.Expected,
			c.Message,
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("write failed checks: %w", err)
	}
	return len(failed), nil
}
