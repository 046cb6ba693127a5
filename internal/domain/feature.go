package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoPayrollSentinelDays is reported as days_since_last_payroll when no payroll
// was observed in the lookback. A number rather than null keeps the column
// orderable for downstream models.
const NoPayrollSentinelDays = 1000

// Cadence is the inferred periodicity of payroll deposits.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceIrregular Cadence = "irregular"
)

// WindowFeatures holds trailing-window aggregates for one window length.
// Pointer fields are null when the underlying observation count or
// denominator does not allow a value.
type WindowFeatures struct {
	Days                    int             `json:"days"`
	TxnCount                int             `json:"txn_count"`
	InflowSum               decimal.Decimal `json:"inflow_sum"`
	OutflowSum              decimal.Decimal `json:"outflow_sum"`
	EssentialsOutflowSum    decimal.Decimal `json:"essentials_outflow_sum"`
	DiscretionaryOutflowSum decimal.Decimal `json:"discretionary_outflow_sum"`
	RentOutflowSum          decimal.Decimal `json:"rent_outflow_sum"`
	AvgEndOfDayBalance      *float64        `json:"avg_end_of_day_balance"`
	MinBalance              *float64        `json:"min_balance"`
	OverdraftDays           int             `json:"overdraft_days"`
	NetCashflowVolatility   *float64        `json:"net_cashflow_volatility"`
	InflowVolatility        *float64        `json:"inflow_volatility"`
	InflowCV                *float64        `json:"inflow_coefficient_of_variation"`

	OutflowToInflow     *float64 `json:"outflow_to_inflow"`
	RentShare           *float64 `json:"rent_share"`
	EssentialsShare     *float64 `json:"essentials_share"`
	DiscretionaryShare  *float64 `json:"discretionary_share"`
	NetCashflowMomentum *float64 `json:"net_cf_momentum"`
	BalanceToOutflow    *float64 `json:"balance_to_outflow"`
	BalanceToInflow     *float64 `json:"balance_to_inflow"`
}

// PayrollFeatures describes payroll cadence as of the anchor.
type PayrollFeatures struct {
	PayrollCount         int      `json:"payroll_count"`
	MedianGapDays        *float64 `json:"median_payroll_gap_days"`
	DaysSinceLastPayroll int      `json:"days_since_last_payroll"`
	Bucket               Cadence  `json:"payroll_frequency_bucket"`
}

// HistoryFeatures describes the borrower's earlier loans. The hist_* values
// are null when there is no disbursed prior loan, which is distinct from a
// zero rate.
type HistoryFeatures struct {
	PriorLoanCount      int      `json:"prior_loan_count"`
	PriorDisbursedCount int      `json:"prior_disbursed_count"`
	RepayRate           *float64 `json:"hist_repay_rate"`
	DefaultRate         *float64 `json:"hist_default_rate"`
	DefaultCount        *int     `json:"hist_default_count"`
	AvgLateDays         *float64 `json:"hist_avg_late_days"`
	LateCount           *int     `json:"hist_late_count"`
	PriorLoanFlag       int      `json:"prior_loan_flag"`
}

// FeatureRow is the per-loan modeling record anchored at approval time.
type FeatureRow struct {
	LoanID      string    `json:"loan_id"`
	UserID      string    `json:"user_id"`
	AnchorAt    time.Time `json:"anchor_at"`
	RequestedAt time.Time `json:"requested_at"`
	IsFirstLoan bool      `json:"is_first_loan"`

	LoanAmount         decimal.Decimal `json:"loan_amount"`
	Fee                decimal.Decimal `json:"fee"`
	TipAmount          decimal.Decimal `json:"tip_amount"`
	InstantTransferFee decimal.Decimal `json:"instant_transfer_fee"`

	Province               string  `json:"province"`
	DeviceOS               string  `json:"device_os"`
	AcquisitionChannel     string  `json:"acquisition_channel"`
	FicoBand               string  `json:"fico_band"`
	BaselineRiskScore      float64 `json:"baseline_risk_score"`
	DaysSinceSignup        int     `json:"days_since_signup"`
	BankLinkedBeforeAnchor bool    `json:"bank_linked_before_anchor"`

	Windows []WindowFeatures `json:"windows"`
	Payroll PayrollFeatures  `json:"payroll"`
	History HistoryFeatures  `json:"history"`

	Default30d int      `json:"default_30d"`
	Flags      []string `json:"flags,omitempty"`

	// Audit columns for the leakage checks.
	// MaxTxnPostedAt is the latest transaction inside the widest lookback
	// (windows and payroll gap), not only those a window aggregated.
	MaxTxnPostedAt *time.Time `json:"max_txn_posted_at,omitempty"`
	// MaxPriorRequestedAt is the latest requested_at among earlier loans.
	MaxPriorRequestedAt *time.Time `json:"max_prior_requested_at,omitempty"`
}

// Window returns the aggregates for the given window length.
func (r *FeatureRow) Window(days int) (WindowFeatures, bool) {
	for _, w := range r.Windows {
		if w.Days == days {
			return w, true
		}
	}
	return WindowFeatures{}, false
}

// AssemblyRun summarises one execution of the feature assembler.
type AssemblyRun struct {
	ID                 string    `json:"id"`
	Fingerprint        string    `json:"fingerprint"`
	Source             string    `json:"source"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	RowsEmitted        int       `json:"rows_emitted"`
	SkippedNoAnchor    int       `json:"skipped_missing_anchor"`
	SkippedUnlabeled   int       `json:"skipped_unlabeled"`
	FlaggedRows        int       `json:"flagged_rows"`
	ViolationCount     int       `json:"violation_count"`
	LabeledLoanCount   int       `json:"labeled_loan_count"`
	DefaultedLoanCount int       `json:"defaulted_loan_count"`
}
