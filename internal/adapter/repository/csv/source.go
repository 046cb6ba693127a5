package csv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// EventSource implements usecase.EventSource over a directory of CSV exports.
type EventSource struct {
	dir    string
	logger zerolog.Logger
}

// NewEventSource creates a new EventSource reading from dir.
func NewEventSource(dir string, logger zerolog.Logger) *EventSource {
	return &EventSource{dir: dir, logger: logger}
}

// Name identifies the source in run summaries.
func (s *EventSource) Name() string {
	return domain.SourceCSV
}

// Load reads the four files. Missing files and headers are errors; rows that
// cannot be decoded are returned in Dataset.Rejected.
func (s *EventSource) Load(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{}

	steps := []struct {
		file string
		load func(*table, *domain.Dataset)
		cols []string
	}{
		{UsersFile, loadUsers, []string{"user_id", "signup_at"}},
		{TransactionsFile, s.loadTransactions, []string{"txn_id", "user_id", "posted_date", "amount", "direction", "balance_after"}},
		{LoansFile, loadLoans, []string{"loan_id", "user_id", "requested_at", "status"}},
		{AssignmentsFile, loadAssignments, []string{"assignment_id", "user_id", "experiment_name", "variant", "assigned_at"}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := readTable(filepath.Join(s.dir, step.file), step.cols...)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", step.file, err)
		}

		before := len(ds.Rejected)
		step.load(t, ds)

		s.logger.Debug().
			Str("file", step.file).
			Int("rows", len(t.rows)).
			Int("rejected", len(ds.Rejected)-before).
			Msg("csv file loaded")
	}

	if ds.RenamedDuplicates > 0 {
		s.logger.Warn().
			Int("renamed", ds.RenamedDuplicates).
			Msg("duplicate txn_id values renamed")
	}

	return ds, nil
}

func reject(ds *domain.Dataset, entity domain.Entity, id, userID string, err error) {
	ds.Rejected = append(ds.Rejected,
		domain.NewViolation(entity, id, userID, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)))
}

func loadUsers(t *table, ds *domain.Dataset) {
	for i := range t.rows {
		r := t.row(i)
		u := &domain.User{
			ID:                 r.str("user_id"),
			SignupAt:           r.timestamp("signup_at"),
			BankLinkedAt:       r.optTimestamp("bank_linked_at"),
			Province:           r.str("province"),
			DeviceOS:           r.str("device_os"),
			AcquisitionChannel: r.str("acquisition_channel"),
			PayrollFrequency:   r.str("payroll_frequency"),
			FicoBand:           r.str("fico_band"),
			BaselineRiskScore:  r.float("baseline_risk_score"),
		}
		if r.err != nil {
			reject(ds, domain.EntityUser, u.ID, u.ID, r.err)
			continue
		}
		ds.Users = append(ds.Users, u)
	}
}

// loadTransactions renames every copy of a duplicated txn_id to
// "<id>-dup-<row index>" so each row stays addressable.
func (s *EventSource) loadTransactions(t *table, ds *domain.Dataset) {
	idCounts := make(map[string]int, len(t.rows))
	for i := range t.rows {
		idCounts[t.row(i).str("txn_id")]++
	}

	for i := range t.rows {
		r := t.row(i)
		txn := &domain.Transaction{
			ID:           r.str("txn_id"),
			UserID:       r.str("user_id"),
			PostedAt:     r.timestamp("posted_date"),
			Amount:       r.dec("amount"),
			Direction:    domain.Direction(r.str("direction")),
			MCC:          r.str("mcc"),
			Category:     r.str("category"),
			BalanceAfter: r.dec("balance_after"),
			IsPayroll:    r.flag("is_payroll"),
			Seq:          int64(i),
		}
		if r.err != nil {
			reject(ds, domain.EntityTransaction, txn.ID, txn.UserID, r.err)
			continue
		}
		if txn.ID != "" && idCounts[txn.ID] > 1 {
			txn.ID = fmt.Sprintf("%s-dup-%d", txn.ID, i)
			ds.RenamedDuplicates++
		}
		ds.Transactions = append(ds.Transactions, txn)
	}
}

func loadLoans(t *table, ds *domain.Dataset) {
	for i := range t.rows {
		r := t.row(i)
		l := &domain.Loan{
			ID:                 r.str("loan_id"),
			UserID:             r.str("user_id"),
			RequestedAt:        r.timestamp("requested_at"),
			ApprovedAt:         r.optTimestamp("approved_at"),
			DisbursedAt:        r.optTimestamp("disbursed_at"),
			DueDate:            r.optTimestamp("due_date"),
			RepaidAt:           r.optTimestamp("repaid_at"),
			Amount:             r.dec("amount"),
			Fee:                r.dec("fee"),
			TipAmount:          r.dec("tip_amount"),
			InstantTransferFee: r.dec("instant_transfer_fee"),
			Status:             domain.LoanStatus(r.str("status")),
			LateDays:           r.integer("late_days"),
			ChargeOff:          r.flag("chargeoff_flag"),
			AutopayEnrolled:    r.flag("autopay_enrolled"),
			PrincipalRepaid:    r.dec("principal_repaid"),
			WriteoffAmount:     r.dec("writeoff_amount"),
			PriceVariant:       r.str("price_variant"),
			TipVariant:         r.str("tip_variant"),
		}
		if r.err != nil {
			reject(ds, domain.EntityLoan, l.ID, l.UserID, r.err)
			continue
		}
		ds.Loans = append(ds.Loans, l)
	}
}

func loadAssignments(t *table, ds *domain.Dataset) {
	for i := range t.rows {
		r := t.row(i)
		a := &domain.ExperimentAssignment{
			ID:             r.str("assignment_id"),
			UserID:         r.str("user_id"),
			ExperimentName: r.str("experiment_name"),
			Variant:        r.str("variant"),
			AssignedAt:     r.timestamp("assigned_at"),
		}
		if r.err != nil {
			reject(ds, domain.EntityAssignment, a.ID, a.UserID, r.err)
			continue
		}
		ds.Assignments = append(ds.Assignments, a)
	}
}
