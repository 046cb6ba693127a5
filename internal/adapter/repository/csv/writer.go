package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// FeaturesFile is the default name of the feature table export.
const FeaturesFile = "features.csv"

var windowColumns = []string{
	"txn_count",
	"inflow_sum",
	"outflow_sum",
	"essentials_outflow_sum",
	"discretionary_outflow_sum",
	"rent_outflow_sum",
	"avg_end_of_day_balance",
	"min_balance",
	"overdraft_days",
	"net_cashflow_volatility",
	"inflow_volatility",
	"inflow_coefficient_of_variation",
	"outflow_to_inflow",
	"rent_share",
	"essentials_share",
	"discretionary_share",
	"net_cf_momentum",
	"balance_to_outflow",
	"balance_to_inflow",
}

// FeatureHeader returns the column names of the feature table for the given
// windows. Window columns carry a _<W>d suffix.
func FeatureHeader(windows []int) []string {
	header := []string{
		"loan_id", "user_id", "anchor_at", "requested_at", "is_first_loan",
		"loan_amount", "fee", "tip_amount", "instant_transfer_fee",
		"province", "device_os", "acquisition_channel", "fico_band",
		"baseline_risk_score", "days_since_signup", "bank_linked_before_anchor",
	}
	for _, w := range windows {
		for _, c := range windowColumns {
			header = append(header, fmt.Sprintf("%s_%dd", c, w))
		}
	}
	return append(header,
		"payroll_count", "median_payroll_gap_days", "days_since_last_payroll", "payroll_frequency_bucket",
		"prior_loan_count", "prior_disbursed_count", "hist_repay_rate", "hist_default_rate",
		"hist_default_count", "hist_avg_late_days", "hist_late_count", "prior_loan_flag",
		"default_30d", "flags", "max_txn_posted_at", "max_prior_requested_at",
	)
}

// WriteFeatures writes rows as CSV with a stable column order. Null values are
// empty cells.
func WriteFeatures(w io.Writer, rows []*domain.FeatureRow, windows []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeatureHeader(windows)); err != nil {
		return err
	}

	for _, row := range rows {
		if err := cw.Write(featureRecord(row, windows)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFeaturesFile writes rows to path, replacing any existing file.
func WriteFeaturesFile(path string, rows []*domain.FeatureRow, windows []int) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteFeatures(w, rows, windows)
	})
}

func featureRecord(row *domain.FeatureRow, windows []int) []string {
	rec := []string{
		row.LoanID,
		row.UserID,
		formatTime(row.AnchorAt),
		formatTime(row.RequestedAt),
		formatBool(row.IsFirstLoan),
		row.LoanAmount.String(),
		row.Fee.String(),
		row.TipAmount.String(),
		row.InstantTransferFee.String(),
		row.Province,
		row.DeviceOS,
		row.AcquisitionChannel,
		row.FicoBand,
		formatFloat(row.BaselineRiskScore),
		strconv.Itoa(row.DaysSinceSignup),
		formatBool(row.BankLinkedBeforeAnchor),
	}

	for _, days := range windows {
		wf, ok := row.Window(days)
		if !ok {
			rec = append(rec, make([]string, len(windowColumns))...)
			continue
		}
		rec = append(rec,
			strconv.Itoa(wf.TxnCount),
			wf.InflowSum.String(),
			wf.OutflowSum.String(),
			wf.EssentialsOutflowSum.String(),
			wf.DiscretionaryOutflowSum.String(),
			wf.RentOutflowSum.String(),
			formatOptFloat(wf.AvgEndOfDayBalance),
			formatOptFloat(wf.MinBalance),
			strconv.Itoa(wf.OverdraftDays),
			formatOptFloat(wf.NetCashflowVolatility),
			formatOptFloat(wf.InflowVolatility),
			formatOptFloat(wf.InflowCV),
			formatOptFloat(wf.OutflowToInflow),
			formatOptFloat(wf.RentShare),
			formatOptFloat(wf.EssentialsShare),
			formatOptFloat(wf.DiscretionaryShare),
			formatOptFloat(wf.NetCashflowMomentum),
			formatOptFloat(wf.BalanceToOutflow),
			formatOptFloat(wf.BalanceToInflow),
		)
	}

	h := row.History
	return append(rec,
		strconv.Itoa(row.Payroll.PayrollCount),
		formatOptFloat(row.Payroll.MedianGapDays),
		strconv.Itoa(row.Payroll.DaysSinceLastPayroll),
		string(row.Payroll.Bucket),
		strconv.Itoa(h.PriorLoanCount),
		strconv.Itoa(h.PriorDisbursedCount),
		formatOptFloat(h.RepayRate),
		formatOptFloat(h.DefaultRate),
		formatOptInt(h.DefaultCount),
		formatOptFloat(h.AvgLateDays),
		formatOptInt(h.LateCount),
		strconv.Itoa(h.PriorLoanFlag),
		strconv.Itoa(row.Default30d),
		strings.Join(row.Flags, ";"),
		formatOptTime(row.MaxTxnPostedAt),
		formatOptTime(row.MaxPriorRequestedAt),
	)
}

// WriteDataset writes the four event-store files into dir.
func WriteDataset(dir string, ds *domain.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name  string
		write func(*csv.Writer) error
	}{
		{UsersFile, func(cw *csv.Writer) error { return writeUsers(cw, ds.Users) }},
		{TransactionsFile, func(cw *csv.Writer) error { return writeTransactions(cw, ds.Transactions) }},
		{LoansFile, func(cw *csv.Writer) error { return writeLoans(cw, ds.Loans) }},
		{AssignmentsFile, func(cw *csv.Writer) error { return writeAssignments(cw, ds.Assignments) }},
	}

	for _, f := range files {
		err := writeFile(filepath.Join(dir, f.name), func(w io.Writer) error {
			cw := csv.NewWriter(w)
			if err := f.write(cw); err != nil {
				return err
			}
			cw.Flush()
			return cw.Error()
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	return nil
}

func writeUsers(cw *csv.Writer, users []*domain.User) error {
	if err := cw.Write([]string{"user_id", "signup_at", "province", "device_os", "acquisition_channel",
		"bank_linked_at", "payroll_frequency", "baseline_risk_score", "fico_band"}); err != nil {
		return err
	}
	for _, u := range users {
		if err := cw.Write([]string{u.ID, formatTime(u.SignupAt), u.Province, u.DeviceOS, u.AcquisitionChannel,
			formatOptTime(u.BankLinkedAt), u.PayrollFrequency, formatFloat(u.BaselineRiskScore), u.FicoBand}); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactions(cw *csv.Writer, txns []*domain.Transaction) error {
	if err := cw.Write([]string{"txn_id", "user_id", "posted_date", "amount", "direction", "mcc",
		"category", "balance_after", "is_payroll"}); err != nil {
		return err
	}
	for _, t := range txns {
		if err := cw.Write([]string{t.ID, t.UserID, formatTime(t.PostedAt), t.Amount.String(), string(t.Direction),
			t.MCC, t.Category, t.BalanceAfter.String(), formatFlag(t.IsPayroll)}); err != nil {
			return err
		}
	}
	return nil
}

func writeLoans(cw *csv.Writer, loans []*domain.Loan) error {
	if err := cw.Write([]string{"loan_id", "user_id", "requested_at", "approved_at", "disbursed_at", "due_date",
		"repaid_at", "amount", "fee", "tip_amount", "instant_transfer_fee", "status", "late_days",
		"chargeoff_flag", "autopay_enrolled", "principal_repaid", "writeoff_amount", "price_variant",
		"tip_variant"}); err != nil {
		return err
	}
	for _, l := range loans {
		if err := cw.Write([]string{l.ID, l.UserID, formatTime(l.RequestedAt), formatOptTime(l.ApprovedAt),
			formatOptTime(l.DisbursedAt), formatOptTime(l.DueDate), formatOptTime(l.RepaidAt),
			l.Amount.StringFixed(2), l.Fee.StringFixed(2), l.TipAmount.StringFixed(2),
			l.InstantTransferFee.StringFixed(2), string(l.Status), strconv.Itoa(l.LateDays),
			formatFlag(l.ChargeOff), formatFlag(l.AutopayEnrolled), l.PrincipalRepaid.StringFixed(2),
			l.WriteoffAmount.StringFixed(2), l.PriceVariant, l.TipVariant}); err != nil {
			return err
		}
	}
	return nil
}

func writeAssignments(cw *csv.Writer, assignments []*domain.ExperimentAssignment) error {
	if err := cw.Write([]string{"assignment_id", "user_id", "experiment_name", "variant", "assigned_at"}); err != nil {
		return err
	}
	for _, a := range assignments {
		if err := cw.Write([]string{a.ID, a.UserID, a.ExperimentName, a.Variant, formatTime(a.AssignedAt)}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
