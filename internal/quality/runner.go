package quality

import (
	"fmt"
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/feature"
)

// Category names, in report order.
const (
	CategoryRowCounts        = "row_count_reconciliation"
	CategoryNullKeys         = "null_key_checks"
	CategoryReferential      = "referential_integrity"
	CategoryTransactions     = "transaction_validations"
	CategoryLoans            = "loan_validations"
	CategoryUsers            = "user_validations"
	CategoryExperiments      = "ab_test_validations"
	CategoryRiskRowCounts    = "risk_row_counts"
	CategoryRiskTimestamps   = "risk_timestamp_validations"
	CategoryRiskRatios       = "risk_ratio_validations"
	CategoryRiskDistribution = "risk_distribution_checks"
)

// Config holds the thresholds of the distribution checks. Values outside
// them produce warnings, not failures.
type Config struct {
	MinDefaultRate      float64
	MaxDefaultRate      float64
	MaxNoPayrollShare   float64
	MaxFlaggedRowsShare float64
}

// DefaultConfig returns thresholds that accept any plausible portfolio.
func DefaultConfig() Config {
	return Config{
		MinDefaultRate:      0.01,
		MaxDefaultRate:      0.40,
		MaxNoPayrollShare:   0.50,
		MaxFlaggedRowsShare: 0.01,
	}
}

// Input is everything a quality run inspects.
type Input struct {
	Dataset  *domain.Dataset
	Snapshot *feature.Snapshot
	Result   *feature.Result
}

// Runner evaluates the check categories.
type Runner struct {
	cfg Config
	now func() time.Time
}

// NewRunner creates a runner with the given thresholds.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, now: time.Now}
}

// Run evaluates every category and builds the report.
func (r *Runner) Run(in Input) *Report {
	categories := []CategoryResult{
		newCategory(CategoryRowCounts, r.rowCounts(in)),
		newCategory(CategoryNullKeys, r.nullKeys(in)),
		newCategory(CategoryReferential, r.referential(in)),
		newCategory(CategoryTransactions, r.transactions(in)),
		newCategory(CategoryLoans, r.loans(in)),
		newCategory(CategoryUsers, r.users(in)),
		newCategory(CategoryExperiments, r.experiments(in)),
		newCategory(CategoryRiskRowCounts, r.riskRowCounts(in)),
		newCategory(CategoryRiskTimestamps, r.riskTimestamps(in)),
		newCategory(CategoryRiskRatios, r.riskRatios(in)),
		newCategory(CategoryRiskDistribution, r.riskDistribution(in)),
	}

	report := &Report{
		ExecutedAt:      r.now().UTC(),
		Fingerprint:     in.Snapshot.Fingerprint(),
		OverallStatus:   StatusPass,
		TotalCategories: len(categories),
		Categories:      categories,
	}
	for _, c := range categories {
		report.TotalFailedChecks += c.Failed
		report.TotalWarnings += c.Warned
	}
	if report.TotalFailedChecks > 0 {
		report.OverallStatus = StatusFail
	}

	return report
}

// zeroCheck fails (or warns) when the observed count is not zero.
func zeroCheck(name string, observed int, onViolation Status) Check {
	c := Check{Name: name, Status: StatusPass, Observed: float64(observed), Expected: "0"}
	if observed != 0 {
		c.Status = onViolation
		c.Message = fmt.Sprintf("%d offending records", observed)
	}
	return c
}

func equalCheck(name string, observed, expected int) Check {
	c := Check{Name: name, Status: StatusPass, Observed: float64(observed), Expected: fmt.Sprint(expected)}
	if observed != expected {
		c.Status = StatusFail
		c.Message = fmt.Sprintf("observed %d, expected %d", observed, expected)
	}
	return c
}

var entities = []domain.Entity{
	domain.EntityUser,
	domain.EntityTransaction,
	domain.EntityLoan,
	domain.EntityAssignment,
}

func rawCount(ds *domain.Dataset, e domain.Entity) int {
	n := 0
	switch e {
	case domain.EntityUser:
		n = len(ds.Users)
	case domain.EntityTransaction:
		n = len(ds.Transactions)
	case domain.EntityLoan:
		n = len(ds.Loans)
	case domain.EntityAssignment:
		n = len(ds.Assignments)
	}
	for _, v := range ds.Rejected {
		if v.Entity == e {
			n++
		}
	}
	return n
}

// rowCounts checks that every source record was either accepted or reported.
func (r *Runner) rowCounts(in Input) []Check {
	accepted := in.Snapshot.Counts()
	violations := in.Snapshot.Violations()

	checks := make([]Check, 0, len(entities))
	for _, e := range entities {
		accounted := accepted[e] + violations.Count(e, nil)
		checks = append(checks, equalCheck(string(e)+"_records_accounted", accounted, rawCount(in.Dataset, e)))
	}
	return checks
}

func (r *Runner) nullKeys(in Input) []Check {
	v := in.Snapshot.Violations()
	var checks []Check
	for _, e := range entities {
		checks = append(checks,
			zeroCheck(string(e)+"_missing_keys", v.Count(e, domain.ErrMissingKey), StatusFail),
			zeroCheck(string(e)+"_missing_timestamps", v.Count(e, domain.ErrMissingTimestamp), StatusFail),
		)
	}
	return checks
}

func (r *Runner) referential(in Input) []Check {
	v := in.Snapshot.Violations()
	return []Check{
		zeroCheck("transactions_without_user", v.Count(domain.EntityTransaction, domain.ErrOrphanRecord), StatusFail),
		zeroCheck("loans_without_user", v.Count(domain.EntityLoan, domain.ErrOrphanRecord), StatusFail),
		zeroCheck("assignments_without_user", v.Count(domain.EntityAssignment, domain.ErrOrphanRecord), StatusFail),
	}
}

func (r *Runner) transactions(in Input) []Check {
	v := in.Snapshot.Violations()
	return []Check{
		zeroCheck("sign_direction_mismatch", v.Count(domain.EntityTransaction, domain.ErrSignDirectionMismatch), StatusFail),
		zeroCheck("unknown_direction", v.Count(domain.EntityTransaction, domain.ErrUnknownDirection), StatusFail),
		zeroCheck("duplicate_ids", v.Count(domain.EntityTransaction, domain.ErrDuplicateID), StatusFail),
		zeroCheck("malformed_rows", v.Count(domain.EntityTransaction, domain.ErrMalformedRecord), StatusFail),
		zeroCheck("renamed_duplicate_ids", in.Snapshot.RenamedDuplicates(), StatusWarn),
	}
}

func (r *Runner) loans(in Input) []Check {
	v := in.Snapshot.Violations()

	return []Check{
		zeroCheck("lifecycle_order", v.Count(domain.EntityLoan, domain.ErrLifecycleOrder), StatusFail),
		zeroCheck("lifecycle_status", v.Count(domain.EntityLoan, domain.ErrLifecycleStatus), StatusFail),
		zeroCheck("unknown_status", v.Count(domain.EntityLoan, domain.ErrUnknownStatus), StatusFail),
		zeroCheck("duplicate_ids", v.Count(domain.EntityLoan, domain.ErrDuplicateID), StatusFail),
		zeroCheck("malformed_rows", v.Count(domain.EntityLoan, domain.ErrMalformedRecord), StatusFail),
		zeroCheck("first_loan_flag_mismatch", firstLoanMismatches(in), StatusFail),
	}
}

// firstLoanMismatches recomputes is_first_loan for every emitted row from the
// user's loans and counts disagreements. Ties on requested_at go to the
// smaller loan id.
func firstLoanMismatches(in Input) int {
	mismatches := 0
	for _, row := range in.Result.Rows {
		first := true
		for _, l := range in.Snapshot.UserLoans(row.UserID) {
			if l.ID == row.LoanID {
				continue
			}
			if l.RequestedAt.Before(row.RequestedAt) ||
				(l.RequestedAt.Equal(row.RequestedAt) && l.ID < row.LoanID) {
				first = false
				break
			}
		}
		if row.IsFirstLoan != first {
			mismatches++
		}
	}
	return mismatches
}

func (r *Runner) users(in Input) []Check {
	v := in.Snapshot.Violations()

	linkedBeforeSignup := 0
	for _, id := range in.Snapshot.UserIDs() {
		u, _ := in.Snapshot.User(id)
		if u.BankLinkedAt != nil && u.BankLinkedAt.Before(u.SignupAt) {
			linkedBeforeSignup++
		}
	}

	return []Check{
		zeroCheck("risk_score_out_of_range", v.Count(domain.EntityUser, domain.ErrRiskScoreOutOfRange), StatusFail),
		zeroCheck("duplicate_ids", v.Count(domain.EntityUser, domain.ErrDuplicateID), StatusFail),
		zeroCheck("malformed_rows", v.Count(domain.EntityUser, domain.ErrMalformedRecord), StatusFail),
		zeroCheck("bank_linked_before_signup", linkedBeforeSignup, StatusWarn),
	}
}

func (r *Runner) experiments(in Input) []Check {
	type key struct{ user, experiment string }
	variants := make(map[key]string)
	conflicting := make(map[key]bool)
	beforeSignup := 0

	for _, a := range in.Snapshot.Assignments() {
		k := key{a.UserID, a.ExperimentName}
		if prev, ok := variants[k]; ok && prev != a.Variant {
			conflicting[k] = true
		}
		variants[k] = a.Variant

		if u, ok := in.Snapshot.User(a.UserID); ok && a.AssignedAt.Before(u.SignupAt) {
			beforeSignup++
		}
	}

	return []Check{
		zeroCheck("users_with_conflicting_variants", len(conflicting), StatusFail),
		zeroCheck("assigned_before_signup", beforeSignup, StatusWarn),
	}
}

func (r *Runner) riskRowCounts(in Input) []Check {
	labeled := 0
	for _, id := range in.Snapshot.LoanIDs() {
		l, _ := in.Snapshot.Loan(id)
		if l.IsLabeled() {
			labeled++
		}
	}

	seen := make(map[string]bool, len(in.Result.Rows))
	dups := 0
	for _, row := range in.Result.Rows {
		if seen[row.LoanID] {
			dups++
		}
		seen[row.LoanID] = true
	}

	return []Check{
		equalCheck("rows_equal_repaid_plus_default", len(in.Result.Rows), labeled),
		zeroCheck("duplicate_loan_rows", dups, StatusFail),
	}
}

func (r *Runner) riskTimestamps(in Input) []Check {
	txnLeaks, loanLeaks, anchorBeforeRequest := 0, 0, 0
	for _, row := range in.Result.Rows {
		if row.MaxTxnPostedAt != nil && !row.MaxTxnPostedAt.Before(row.AnchorAt) {
			txnLeaks++
		}
		if row.MaxPriorRequestedAt != nil && !row.MaxPriorRequestedAt.Before(row.RequestedAt) {
			loanLeaks++
		}
		if row.AnchorAt.Before(row.RequestedAt) {
			anchorBeforeRequest++
		}
	}

	return []Check{
		zeroCheck("transactions_at_or_after_anchor", txnLeaks, StatusFail),
		zeroCheck("history_requested_at_or_after_loan", loanLeaks, StatusFail),
		zeroCheck("anchor_before_request", anchorBeforeRequest, StatusFail),
	}
}

func outsideUnit(v *float64) bool {
	return v != nil && (*v < 0 || *v > 1)
}

func (r *Runner) riskRatios(in Input) []Check {
	shares, negativeSums, negativeCounts, rates := 0, 0, 0, 0
	for _, row := range in.Result.Rows {
		for _, w := range row.Windows {
			if outsideUnit(w.RentShare) || outsideUnit(w.EssentialsShare) || outsideUnit(w.DiscretionaryShare) {
				shares++
			}
			if w.InflowSum.IsNegative() || w.OutflowSum.IsNegative() || w.EssentialsOutflowSum.IsNegative() ||
				w.DiscretionaryOutflowSum.IsNegative() || w.RentOutflowSum.IsNegative() {
				negativeSums++
			}
			if w.OverdraftDays < 0 || w.TxnCount < 0 {
				negativeCounts++
			}
		}
		if row.Payroll.DaysSinceLastPayroll < 0 {
			negativeCounts++
		}
		if outsideUnit(row.History.RepayRate) || outsideUnit(row.History.DefaultRate) {
			rates++
		}
	}

	return []Check{
		zeroCheck("shares_outside_unit_interval", shares, StatusFail),
		zeroCheck("negative_sums", negativeSums, StatusFail),
		zeroCheck("negative_counts", negativeCounts, StatusFail),
		zeroCheck("history_rates_outside_unit_interval", rates, StatusFail),
	}
}

func (r *Runner) riskDistribution(in Input) []Check {
	rows := in.Result.Rows
	if len(rows) == 0 {
		return []Check{{Name: "feature_rows_present", Status: StatusWarn, Observed: 0, Expected: "> 0", Message: "no labeled loans"}}
	}

	n := float64(len(rows))
	defaults, noPayroll, flagged := 0, 0, 0
	for _, row := range rows {
		defaults += row.Default30d
		if row.Payroll.DaysSinceLastPayroll == domain.NoPayrollSentinelDays {
			noPayroll++
		}
		if len(row.Flags) > 0 {
			flagged++
		}
	}

	return []Check{
		rangeCheck("default_rate", float64(defaults)/n, r.cfg.MinDefaultRate, r.cfg.MaxDefaultRate),
		rangeCheck("no_payroll_share", float64(noPayroll)/n, 0, r.cfg.MaxNoPayrollShare),
		rangeCheck("flagged_row_share", float64(flagged)/n, 0, r.cfg.MaxFlaggedRowsShare),
	}
}

func rangeCheck(name string, observed, lo, hi float64) Check {
	c := Check{Name: name, Status: StatusPass, Observed: observed, Expected: fmt.Sprintf("[%g, %g]", lo, hi)}
	if observed < lo || observed > hi {
		c.Status = StatusWarn
		c.Message = fmt.Sprintf("%.4f outside plausible range", observed)
	}
	return c
}
