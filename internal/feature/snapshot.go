// Package feature assembles point-in-time loan risk features from an
// immutable event-store snapshot.
package feature

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

// Snapshot is a validated, indexed, read-only view of a Dataset. Records that
// fail validation are excluded and counted in Violations. A Snapshot is safe
// for concurrent reads once built.
type Snapshot struct {
	users       map[string]*domain.User
	txnsByUser  map[string][]*domain.Transaction
	loansByUser map[string][]*domain.Loan
	loansByID   map[string]*domain.Loan
	loanIDs     []string
	firstLoans  map[string]string
	assignments []*domain.ExperimentAssignment
	txnCount    int

	violations        domain.ViolationReport
	renamedDuplicates int
	fingerprint       string
}

// NewSnapshot validates every record of ds and builds the per-user indexes.
// Transactions are ordered by (posted_at, seq, id) and loans by
// (requested_at, id).
func NewSnapshot(ds *domain.Dataset) *Snapshot {
	s := &Snapshot{
		users:             make(map[string]*domain.User, len(ds.Users)),
		txnsByUser:        make(map[string][]*domain.Transaction),
		loansByUser:       make(map[string][]*domain.Loan),
		loansByID:         make(map[string]*domain.Loan, len(ds.Loans)),
		firstLoans:        make(map[string]string),
		renamedDuplicates: ds.RenamedDuplicates,
	}

	for _, v := range ds.Rejected {
		s.violations.Add(v)
	}

	for _, u := range ds.Users {
		if err := u.Validate(); err != nil {
			s.violations.Add(domain.NewViolation(domain.EntityUser, u.ID, u.ID, err))
			continue
		}
		if _, dup := s.users[u.ID]; dup {
			s.violations.Add(domain.NewViolation(domain.EntityUser, u.ID, u.ID, domain.ErrDuplicateID))
			continue
		}
		s.users[u.ID] = u
	}

	seenTxn := make(map[string]bool, len(ds.Transactions))
	for _, t := range ds.Transactions {
		if err := s.admit(domain.EntityTransaction, t.ID, t.UserID, t.Validate(), seenTxn); err != nil {
			s.violations.Add(err)
			continue
		}
		s.txnsByUser[t.UserID] = append(s.txnsByUser[t.UserID], t)
		s.txnCount++
	}

	seenLoan := make(map[string]bool, len(ds.Loans))
	for _, l := range ds.Loans {
		if err := s.admit(domain.EntityLoan, l.ID, l.UserID, l.Validate(), seenLoan); err != nil {
			s.violations.Add(err)
			continue
		}
		s.loansByUser[l.UserID] = append(s.loansByUser[l.UserID], l)
		s.loansByID[l.ID] = l
		s.loanIDs = append(s.loanIDs, l.ID)
	}

	seenAssignment := make(map[string]bool, len(ds.Assignments))
	for _, a := range ds.Assignments {
		if err := s.admit(domain.EntityAssignment, a.ID, a.UserID, a.Validate(), seenAssignment); err != nil {
			s.violations.Add(err)
			continue
		}
		s.assignments = append(s.assignments, a)
	}

	for _, txns := range s.txnsByUser {
		sort.Slice(txns, func(i, j int) bool {
			if !txns[i].PostedAt.Equal(txns[j].PostedAt) {
				return txns[i].PostedAt.Before(txns[j].PostedAt)
			}
			if txns[i].Seq != txns[j].Seq {
				return txns[i].Seq < txns[j].Seq
			}
			return txns[i].ID < txns[j].ID
		})
	}

	for userID, loans := range s.loansByUser {
		sort.Slice(loans, func(i, j int) bool {
			if !loans[i].RequestedAt.Equal(loans[j].RequestedAt) {
				return loans[i].RequestedAt.Before(loans[j].RequestedAt)
			}
			return loans[i].ID < loans[j].ID
		})
		s.firstLoans[userID] = loans[0].ID
	}

	sort.Strings(s.loanIDs)
	sort.Slice(s.assignments, func(i, j int) bool { return s.assignments[i].ID < s.assignments[j].ID })

	s.fingerprint = s.computeFingerprint()
	return s
}

// admit returns the violation that excludes a record, or nil when it may enter
// the snapshot. Users must already be indexed.
func (s *Snapshot) admit(entity domain.Entity, id, userID string, validateErr error, seen map[string]bool) *domain.ViolationError {
	if validateErr != nil {
		return domain.NewViolation(entity, id, userID, validateErr)
	}
	if seen[id] {
		return domain.NewViolation(entity, id, userID, domain.ErrDuplicateID)
	}
	seen[id] = true
	if _, ok := s.users[userID]; !ok {
		return domain.NewViolation(entity, id, userID, domain.ErrOrphanRecord)
	}
	return nil
}

// Fingerprint identifies the accepted content of the snapshot. Two snapshots
// built from the same records share a fingerprint regardless of input order.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

// Violations returns the records excluded while building the snapshot.
func (s *Snapshot) Violations() *domain.ViolationReport {
	return &s.violations
}

// RenamedDuplicates is the number of transaction ids the source disambiguated.
func (s *Snapshot) RenamedDuplicates() int {
	return s.renamedDuplicates
}

// User returns the user by id.
func (s *Snapshot) User(id string) (*domain.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// Loan returns the loan by id.
func (s *Snapshot) Loan(id string) (*domain.Loan, bool) {
	l, ok := s.loansByID[id]
	return l, ok
}

// LoanIDs returns every accepted loan id in ascending order.
func (s *Snapshot) LoanIDs() []string {
	return s.loanIDs
}

// UserIDs returns every accepted user id in ascending order.
func (s *Snapshot) UserIDs() []string {
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UserLoans returns the user's loans ordered by requested_at.
func (s *Snapshot) UserLoans(userID string) []*domain.Loan {
	return s.loansByUser[userID]
}

// UserTransactions returns the user's transactions ordered by posted_at.
func (s *Snapshot) UserTransactions(userID string) []*domain.Transaction {
	return s.txnsByUser[userID]
}

// Assignments returns accepted experiment assignments ordered by id.
func (s *Snapshot) Assignments() []*domain.ExperimentAssignment {
	return s.assignments
}

// IsFirstLoan reports whether loanID is the user's earliest requested loan.
func (s *Snapshot) IsFirstLoan(loanID string) bool {
	l, ok := s.loansByID[loanID]
	if !ok {
		return false
	}
	return s.firstLoans[l.UserID] == loanID
}

// Counts reports accepted records per entity.
func (s *Snapshot) Counts() map[domain.Entity]int {
	return map[domain.Entity]int{
		domain.EntityUser:        len(s.users),
		domain.EntityTransaction: s.txnCount,
		domain.EntityLoan:        len(s.loansByID),
		domain.EntityAssignment:  len(s.assignments),
	}
}

// TransactionsBetween returns the user's transactions with from <= posted_at < to.
func (s *Snapshot) TransactionsBetween(userID string, from, to time.Time) []*domain.Transaction {
	return between(s.txnsByUser[userID], from, to)
}

func between(txns []*domain.Transaction, from, to time.Time) []*domain.Transaction {
	lo := sort.Search(len(txns), func(i int) bool { return !txns[i].PostedAt.Before(from) })
	hi := sort.Search(len(txns), func(i int) bool { return !txns[i].PostedAt.Before(to) })
	if hi <= lo {
		return nil
	}
	return txns[lo:hi]
}

func (s *Snapshot) computeFingerprint() string {
	d := xxhash.New()
	w := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.WriteString("\x1f")
		}
		_, _ = d.WriteString("\x1e")
	}

	for _, id := range s.UserIDs() {
		u := s.users[id]
		w("u", u.ID, stamp(u.SignupAt), optStamp(u.BankLinkedAt), u.Province, u.DeviceOS,
			u.AcquisitionChannel, u.PayrollFrequency, u.FicoBand,
			strconv.FormatFloat(u.BaselineRiskScore, 'g', -1, 64))

		for _, t := range s.txnsByUser[id] {
			w("t", t.ID, stamp(t.PostedAt), strconv.FormatInt(t.Seq, 10), string(t.Direction), t.Category, t.MCC,
				t.Amount.String(), t.BalanceAfter.String(), strconv.FormatBool(t.IsPayroll))
		}

		for _, l := range s.loansByUser[id] {
			w("l", l.ID, stamp(l.RequestedAt), optStamp(l.ApprovedAt), optStamp(l.DisbursedAt),
				optStamp(l.DueDate), optStamp(l.RepaidAt), string(l.Status),
				l.Amount.String(), l.Fee.String(), l.TipAmount.String(), l.InstantTransferFee.String(),
				l.WriteoffAmount.String(), strconv.Itoa(l.LateDays), strconv.FormatBool(l.ChargeOff))
		}
	}

	for _, a := range s.assignments {
		w("a", a.ID, a.UserID, a.ExperimentName, a.Variant, stamp(a.AssignedAt))
	}

	return fmt.Sprintf("%016x", d.Sum64())
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func optStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stamp(*t)
}
