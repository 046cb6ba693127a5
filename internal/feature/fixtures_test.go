package feature

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

var day0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func at(day int) time.Time {
	return day0.AddDate(0, 0, day)
}

func atPtr(day int) *time.Time {
	t := at(day)
	return &t
}

type builder struct {
	ds  domain.Dataset
	seq int
}

func newBuilder(userIDs ...string) *builder {
	b := &builder{}
	for _, id := range userIDs {
		b.ds.Users = append(b.ds.Users, &domain.User{
			ID:                id,
			SignupAt:          at(-60),
			Province:          "ON",
			DeviceOS:          "ios",
			FicoBand:          "650-699",
			BaselineRiskScore: 0.3,
		})
	}
	return b
}

func (b *builder) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%04d", prefix, b.seq)
}

func (b *builder) inflow(userID string, posted time.Time, amount, balance int64, payroll bool) *domain.Transaction {
	t := &domain.Transaction{
		ID:           b.nextID("t"),
		UserID:       userID,
		PostedAt:     posted,
		Direction:    domain.DirectionInflow,
		Category:     domain.CategoryOther,
		Amount:       decimal.NewFromInt(amount),
		BalanceAfter: decimal.NewFromInt(balance),
		IsPayroll:    payroll,
	}
	if payroll {
		t.Category = domain.CategoryPayroll
	}
	b.ds.Transactions = append(b.ds.Transactions, t)
	return t
}

func (b *builder) outflow(userID string, posted time.Time, category string, amount, balance int64) *domain.Transaction {
	t := &domain.Transaction{
		ID:           b.nextID("t"),
		UserID:       userID,
		PostedAt:     posted,
		Direction:    domain.DirectionOutflow,
		Category:     category,
		Amount:       decimal.NewFromInt(-amount),
		BalanceAfter: decimal.NewFromInt(balance),
	}
	b.ds.Transactions = append(b.ds.Transactions, t)
	return t
}

// loan adds a loan requested at requested. A nil approved leaves it unapproved.
// Disbursal follows approval by an hour for disbursed, repaid and default loans.
func (b *builder) loan(userID string, requested time.Time, approved *time.Time, status domain.LoanStatus) *domain.Loan {
	l := &domain.Loan{
		ID:          b.nextID("l"),
		UserID:      userID,
		RequestedAt: requested,
		ApprovedAt:  approved,
		Status:      status,
		Amount:      decimal.NewFromInt(100),
		Fee:         decimal.NewFromInt(5),
	}
	switch status {
	case domain.LoanStatusDisbursed, domain.LoanStatusRepaid, domain.LoanStatusDefault:
		d := approved.Add(time.Hour)
		l.DisbursedAt = &d
	}
	if status == domain.LoanStatusRepaid {
		r := l.DisbursedAt.AddDate(0, 0, 14)
		l.RepaidAt = &r
	}
	b.ds.Loans = append(b.ds.Loans, l)
	return l
}

func (b *builder) snapshot() *Snapshot {
	return NewSnapshot(&b.ds)
}
