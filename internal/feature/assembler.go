package feature

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// Config controls feature assembly.
type Config struct {
	Windows []int
	Cadence CadenceConfig
	Workers int
}

// DefaultConfig returns 14 and 30 day windows, default payroll lookbacks and
// one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Windows: []int{14, 30},
		Cadence: DefaultCadenceConfig(),
		Workers: runtime.NumCPU(),
	}
}

// Validate checks window and lookback lengths.
func (c Config) Validate() error {
	if err := domain.ValidateWindows(c.Windows); err != nil {
		return err
	}
	if err := domain.ValidateLookback(c.Cadence.GapLookbackDays); err != nil {
		return fmt.Errorf("gap lookback: %w", err)
	}
	if err := domain.ValidateLookback(c.Cadence.LastLookbackDays); err != nil {
		return fmt.Errorf("last payroll lookback: %w", err)
	}
	return nil
}

// SkipReason explains why a loan produced no feature row.
type SkipReason string

const (
	SkipMissingAnchor SkipReason = "missing_anchor"
	SkipUnlabeled     SkipReason = "unlabeled"
)

// Result is the output of one assembly pass.
type Result struct {
	Fingerprint  string
	Rows         []*domain.FeatureRow
	Skipped      map[SkipReason]int
	Violations   *domain.ViolationReport
	LabeledLoans int
}

// FlaggedRows counts rows carrying at least one data flag.
func (r *Result) FlaggedRows() int {
	n := 0
	for _, row := range r.Rows {
		if len(row.Flags) > 0 {
			n++
		}
	}
	return n
}

// DefaultedRows counts rows with default_30d = 1.
func (r *Result) DefaultedRows() int {
	n := 0
	for _, row := range r.Rows {
		n += row.Default30d
	}
	return n
}

// Assembler builds feature rows from a Snapshot. It holds no mutable state and
// may be shared between goroutines.
type Assembler struct {
	cfg      Config
	lookback int
}

// NewAssembler creates an assembler. Workers <= 0 means one per CPU.
func NewAssembler(cfg Config) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	lookback := max(cfg.Cadence.GapLookbackDays, cfg.Cadence.LastLookbackDays)
	for _, w := range cfg.Windows {
		lookback = max(lookback, w)
	}

	return &Assembler{cfg: cfg, lookback: lookback}, nil
}

// Windows returns the configured window lengths in output order.
func (a *Assembler) Windows() []int {
	return a.cfg.Windows
}

// AssembleLoan builds the feature row for a single loan.
func (a *Assembler) AssembleLoan(s *Snapshot, loanID string) (*domain.FeatureRow, error) {
	l, ok := s.Loan(loanID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLoanNotFound, loanID)
	}
	if reason, skip := skipReason(l); skip {
		if reason == SkipMissingAnchor {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingAnchor, loanID)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnlabeledLoan, loanID)
	}
	return a.build(s, l), nil
}

// Assemble builds one row per labeled loan in parallel. Rows are ordered by
// loan id, so the output is identical across runs on the same snapshot.
func (a *Assembler) Assemble(ctx context.Context, s *Snapshot) (*Result, error) {
	res := &Result{
		Fingerprint: s.Fingerprint(),
		Skipped:     map[SkipReason]int{SkipMissingAnchor: 0, SkipUnlabeled: 0},
		Violations:  s.Violations(),
	}

	var eligible []*domain.Loan
	for _, id := range s.LoanIDs() {
		l, _ := s.Loan(id)
		if reason, skip := skipReason(l); skip {
			res.Skipped[reason]++
			continue
		}
		eligible = append(eligible, l)
	}
	res.LabeledLoans = len(eligible)

	rows := make([]*domain.FeatureRow, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for i, l := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = a.build(s, l)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble features: %w", err)
	}

	res.Rows = rows
	return res, nil
}

func skipReason(l *domain.Loan) (SkipReason, bool) {
	if !l.IsApproved() {
		return SkipMissingAnchor, true
	}
	if !l.IsLabeled() {
		return SkipUnlabeled, true
	}
	return "", false
}

func (a *Assembler) build(s *Snapshot, l *domain.Loan) *domain.FeatureRow {
	anchor := l.ApprovedAt.UTC()
	txns := s.UserTransactions(l.UserID)

	row := &domain.FeatureRow{
		LoanID:             l.ID,
		UserID:             l.UserID,
		AnchorAt:           anchor,
		RequestedAt:        l.RequestedAt.UTC(),
		IsFirstLoan:        s.IsFirstLoan(l.ID),
		LoanAmount:         l.Amount,
		Fee:                l.Fee,
		TipAmount:          l.TipAmount,
		InstantTransferFee: l.InstantTransferFee,
		Windows:            make([]domain.WindowFeatures, 0, len(a.cfg.Windows)),
	}

	if u, ok := s.User(l.UserID); ok {
		row.Province = u.Province
		row.DeviceOS = u.DeviceOS
		row.AcquisitionChannel = u.AcquisitionChannel
		row.FicoBand = u.FicoBand
		row.BaselineRiskScore = u.BaselineRiskScore
		row.DaysSinceSignup = int(daysBetween(u.SignupAt, anchor))
		row.BankLinkedBeforeAnchor = u.BankLinkedBefore(anchor)
	}

	for _, days := range a.cfg.Windows {
		wf := AggregateWindow(txns, anchor, days)
		deriveRatios(&wf)
		row.Flags = append(row.Flags, shareFlags(wf)...)
		row.Windows = append(row.Windows, wf)
	}

	row.Payroll = EstimatePayroll(txns, anchor, a.cfg.Cadence)
	row.History = AggregateHistory(s.UserLoans(l.UserID), l)

	if l.IsDisbursed() && l.IsDefaulted() {
		row.Default30d = 1
	}

	if used := between(txns, anchor.AddDate(0, 0, -a.lookback), anchor); len(used) > 0 {
		row.MaxTxnPostedAt = timePtr(used[len(used)-1].PostedAt.UTC())
	}
	row.MaxPriorRequestedAt = maxPriorRequested(s.UserLoans(l.UserID), l)

	return row
}

// maxPriorRequested returns the latest requested_at among loans requested
// before current. loans are ordered by requested_at.
func maxPriorRequested(loans []*domain.Loan, current *domain.Loan) *time.Time {
	var out *time.Time
	for _, l := range loans {
		if l.ID == current.ID || !l.RequestedAt.Before(current.RequestedAt) {
			continue
		}
		out = timePtr(l.RequestedAt.UTC())
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	return &t
}
