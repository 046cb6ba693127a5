package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
	"github.com/sh2nam/bree-takehome-nam/internal/infrastructure/postgres/generated"
	"github.com/sh2nam/bree-takehome-nam/internal/usecase"
)

// EventStore implements usecase.EventSource over the event-store tables.
type EventStore struct {
	queries *generated.Queries
	retrier usecase.Retrier
	logger  zerolog.Logger
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *pgxpool.Pool, retrier usecase.Retrier, logger zerolog.Logger) *EventStore {
	return newEventStore(pool, retrier, logger)
}

func newEventStore(db generated.DBTX, retrier usecase.Retrier, logger zerolog.Logger) *EventStore {
	return &EventStore{
		queries: generated.New(db),
		retrier: retrier,
		logger:  logger,
	}
}

// Name identifies the source in run summaries.
func (s *EventStore) Name() string {
	return domain.SourcePostgres
}

// Load reads all four tables. Each read is retried independently.
func (s *EventStore) Load(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{}

	var users []generated.User
	if err := s.retrier.Retry(ctx, func() (err error) {
		users, err = s.queries.ListUsers(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var txns []generated.Transaction
	if err := s.retrier.Retry(ctx, func() (err error) {
		txns, err = s.queries.ListTransactions(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var loans []generated.Loan
	if err := s.retrier.Retry(ctx, func() (err error) {
		loans, err = s.queries.ListLoans(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	var assignments []generated.ExperimentAssignment
	if err := s.retrier.Retry(ctx, func() (err error) {
		assignments, err = s.queries.ListAssignments(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	ds.Users = make([]*domain.User, 0, len(users))
	for _, row := range users {
		ds.Users = append(ds.Users, rowToUser(row))
	}

	ds.Transactions = make([]*domain.Transaction, 0, len(txns))
	for _, row := range txns {
		ds.Transactions = append(ds.Transactions, rowToTransaction(row))
	}

	ds.Loans = make([]*domain.Loan, 0, len(loans))
	for _, row := range loans {
		ds.Loans = append(ds.Loans, rowToLoan(row))
	}

	ds.Assignments = make([]*domain.ExperimentAssignment, 0, len(assignments))
	for _, row := range assignments {
		ds.Assignments = append(ds.Assignments, rowToAssignment(row))
	}

	s.logger.Debug().
		Int("users", len(ds.Users)).
		Int("transactions", len(ds.Transactions)).
		Int("loans", len(ds.Loans)).
		Int("assignments", len(ds.Assignments)).
		Msg("event store loaded")

	return ds, nil
}

func rowToUser(row generated.User) *domain.User {
	return &domain.User{
		ID:                 row.ID,
		SignupAt:           row.SignupAt.Time.UTC(),
		BankLinkedAt:       pgTimestamptzToOptTime(row.BankLinkedAt),
		Province:           row.Province,
		DeviceOS:           row.DeviceOs,
		AcquisitionChannel: row.AcquisitionChannel,
		PayrollFrequency:   row.PayrollFrequency,
		FicoBand:           row.FicoBand,
		BaselineRiskScore:  row.BaselineRiskScore,
	}
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:           row.ID,
		UserID:       row.UserID,
		PostedAt:     row.PostedAt.Time.UTC(),
		Amount:       numericToDecimal(row.Amount),
		Direction:    domain.Direction(row.Direction),
		MCC:          row.Mcc,
		Category:     row.Category,
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		IsPayroll:    row.IsPayroll,
		Seq:          row.Seq,
	}
}

func rowToLoan(row generated.Loan) *domain.Loan {
	return &domain.Loan{
		ID:                 row.ID,
		UserID:             row.UserID,
		RequestedAt:        row.RequestedAt.Time.UTC(),
		ApprovedAt:         pgTimestamptzToOptTime(row.ApprovedAt),
		DisbursedAt:        pgTimestamptzToOptTime(row.DisbursedAt),
		DueDate:            pgTimestamptzToOptTime(row.DueDate),
		RepaidAt:           pgTimestamptzToOptTime(row.RepaidAt),
		Amount:             numericToDecimal(row.Amount),
		Fee:                numericToDecimal(row.Fee),
		TipAmount:          numericToDecimal(row.TipAmount),
		InstantTransferFee: numericToDecimal(row.InstantTransferFee),
		Status:             domain.LoanStatus(row.Status),
		LateDays:           int(row.LateDays),
		ChargeOff:          row.ChargeoffFlag,
		AutopayEnrolled:    row.AutopayEnrolled,
		PrincipalRepaid:    numericToDecimal(row.PrincipalRepaid),
		WriteoffAmount:     numericToDecimal(row.WriteoffAmount),
		PriceVariant:       row.PriceVariant,
		TipVariant:         row.TipVariant,
	}
}

func rowToAssignment(row generated.ExperimentAssignment) *domain.ExperimentAssignment {
	return &domain.ExperimentAssignment{
		ID:             row.ID,
		UserID:         row.UserID,
		ExperimentName: row.ExperimentName,
		Variant:        row.Variant,
		AssignedAt:     row.AssignedAt.Time.UTC(),
	}
}
