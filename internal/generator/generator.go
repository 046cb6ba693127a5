// Package generator produces a seeded synthetic event store: users,
// experiment assignments, daily transactions and loans with their lifecycle.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sh2nam/bree-takehome-nam/internal/domain"
)

const day = 24 * time.Hour

// Generator builds datasets. A Generator is not safe for concurrent use.
type Generator struct {
	cfg  Config
	rand *rand.Rand
	seq  int64
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Generate synthesises the dataset. Equal seeds give equal datasets.
func (g *Generator) Generate(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{}

	for i := range g.cfg.Users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u := g.user(i + 1)
		ds.Users = append(ds.Users, u)

		assignments := g.assignments(u)
		ds.Assignments = append(ds.Assignments, assignments...)

		if g.rand.Float64() < g.cfg.TransactionUserShare {
			ds.Transactions = append(ds.Transactions, g.transactions(u)...)
		}

		ds.Loans = append(ds.Loans, g.loans(u, assignments)...)
	}

	return ds, nil
}

func (g *Generator) user(n int) *domain.User {
	days := int(g.cfg.End.Sub(g.cfg.Start) / day)
	signup := g.cfg.Start.Add(time.Duration(g.rand.IntN(days+1)) * day)

	province := g.pick(provinces)
	channel := g.pick(channels)

	u := &domain.User{
		ID:                 fmt.Sprintf("%d", n),
		SignupAt:           signup,
		Province:           province,
		DeviceOS:           []string{"ios", "android"}[g.rand.IntN(2)],
		AcquisitionChannel: channel,
		PayrollFrequency:   g.pick(payFrequencies),
	}

	if g.rand.Float64() < 0.72 {
		linked := signup.Add(time.Duration(g.rand.ExpFloat64() * 30 * float64(time.Hour)))
		u.BankLinkedAt = &linked
	}

	risk := g.beta25()
	if channel == "paid_social" || channel == "affiliate" {
		risk += 0.03
	}
	switch province {
	case "NB", "NL", "PE":
		risk += 0.02
	}
	risk = math.Round(clamp(risk, 0, 1)*10000) / 10000
	u.BaselineRiskScore = risk
	u.FicoBand = ficoBand(risk)

	return u
}

func ficoBand(risk float64) string {
	switch {
	case risk < 0.15:
		return "740+"
	case risk < 0.25:
		return "680-739"
	case risk < 0.40:
		return "640-679"
	case risk < 0.60:
		return "580-639"
	case risk < 0.80:
		return "500-579"
	default:
		return "<500"
	}
}

// assignments enrolls users whose signup falls inside an experiment window.
func (g *Generator) assignments(u *domain.User) []*domain.ExperimentAssignment {
	var out []*domain.ExperimentAssignment
	for _, exp := range experiments {
		if u.SignupAt.Before(exp.start) || u.SignupAt.After(exp.end) {
			continue
		}
		out = append(out, &domain.ExperimentAssignment{
			ID:             u.ID + "-" + exp.name,
			UserID:         u.ID,
			ExperimentName: exp.name,
			Variant:        exp.variants[g.rand.IntN(len(exp.variants))],
			AssignedAt:     u.SignupAt,
		})
	}
	return out
}

func (g *Generator) transactions(u *domain.User) []*domain.Transaction {
	var txns []*domain.Transaction

	gap := payGapDays[u.PayrollFrequency]
	nextPay := u.SignupAt.Add(time.Duration(g.rand.IntN(gap+1)) * day)
	balance := math.Max(0, g.normal(200, 150))

	for d := g.cfg.Start; !d.After(g.cfg.End); d = d.Add(day) {
		if !d.Before(nextPay) {
			amount := math.Max(400, g.normal(950, 220))
			balance += amount
			txns = append(txns, g.txn(u.ID, fmt.Sprintf("t-%s-%d-in", u.ID, d.Unix()), d, amount, balance, domain.CategoryPayroll))
			nextPay = nextPay.Add(time.Duration(gap) * day)
		}

		for range g.poisson(1.2) {
			amount := math.Max(5, math.Exp(3.2+0.7*g.rand.NormFloat64()))
			balance -= amount
			id := fmt.Sprintf("t-%s-%d-out-%d", u.ID, d.Unix(), g.rand.IntN(1_000_000)+1)
			txns = append(txns, g.txn(u.ID, id, d, -amount, balance, g.pick(expenseCategories)))
		}
	}

	return txns
}

func (g *Generator) txn(userID, id string, posted time.Time, amount, balance float64, category string) *domain.Transaction {
	g.seq++
	t := &domain.Transaction{
		ID:           id,
		UserID:       userID,
		PostedAt:     posted,
		Amount:       money(amount),
		BalanceAfter: money(balance),
		Category:     category,
		Direction:    domain.DirectionOutflow,
		MCC:          "0000",
		Seq:          g.seq,
	}
	if category == domain.CategoryPayroll {
		t.Direction = domain.DirectionInflow
		t.MCC = "6011"
		t.IsPayroll = true
	}
	return t
}

func (g *Generator) loans(u *domain.User, assignments []*domain.ExperimentAssignment) []*domain.Loan {
	priceVariant, tipVariant := "A", "control"
	for _, a := range assignments {
		switch a.ExperimentName {
		case priceExperiment:
			priceVariant = a.Variant
		case tipExperiment:
			tipVariant = a.Variant
		}
	}

	var out []*domain.Loan
	n := g.poisson(1.2)
	for i := range n {
		offsetDays := int(g.rand.ExpFloat64()*25) + i*max(7, int(g.rand.ExpFloat64()*18))
		requested := u.SignupAt.Add(time.Duration(offsetDays) * day)
		if requested.Before(g.cfg.Start) || requested.After(g.cfg.End) {
			continue
		}
		out = append(out, g.loan(u, fmt.Sprintf("L%s-%d", u.ID, i+1), requested, priceVariant, tipVariant))
	}
	return out
}

func (g *Generator) loan(u *domain.User, id string, requested time.Time, priceVariant, tipVariant string) *domain.Loan {
	risk := u.BaselineRiskScore
	amount := clamp(g.normal(140, 60), 40, 350)

	l := &domain.Loan{
		ID:              id,
		UserID:          u.ID,
		RequestedAt:     requested,
		Amount:          money(amount),
		Status:          domain.LoanStatusRequested,
		PriceVariant:    priceVariant,
		TipVariant:      tipVariant,
		AutopayEnrolled: g.rand.Float64() < 0.62,
	}

	approveP := 0.82 - 0.6*risk
	if u.DeviceOS == "ios" {
		approveP += 0.03
	}
	approved := g.rand.Float64() < clamp(approveP, 0.05, 0.95)

	var instantFee float64
	if priceVariant == "B" {
		l.Fee = money(clamp(0.01*amount+g.normal(0.4, 0.2), 0, 6))
		l.InstantTransferFee = decimal.RequireFromString(g.pick(instantFees))
		instantFee = l.InstantTransferFee.InexactFloat64()
	}

	if !approved {
		return l
	}

	approvedAt := requested.Add(time.Duration(g.rand.ExpFloat64() * 12 * float64(time.Hour)))
	disbursedAt := approvedAt.Add(time.Duration(g.rand.ExpFloat64() * 6 * float64(time.Hour)))
	due := disbursedAt.Truncate(day).Add(14 * day)
	l.ApprovedAt = &approvedAt
	l.DisbursedAt = &disbursedAt
	l.DueDate = &due

	if g.rand.Float64() < clamp(0.12+tipUplift[tipVariant]-0.10*risk, 0.01, 0.4) {
		l.TipAmount = decimal.RequireFromString(g.pick(tipAmounts))
	}

	// Instant opt-in is a proxy for liquidity stress.
	instantOptIn := instantFee > 0 && g.rand.Float64() < 0.32-0.18*risk
	defaultP := 0.06 + 0.45*risk + 0.0005*amount
	if instantOptIn {
		defaultP += 0.02
	}

	if g.rand.Float64() < clamp(defaultP, 0.01, 0.45) {
		l.Status = domain.LoanStatusDefault
		l.LateDays = int(g.normal(20, 7))
		l.ChargeOff = true
		l.WriteoffAmount = money(amount * (0.6 + 0.35*g.rand.Float64()))
		return l
	}

	l.LateDays = max(0, int(g.normal(1.4, 2.0)))
	repaid := disbursedAt.Add(time.Duration(14+l.LateDays) * day)
	l.RepaidAt = &repaid
	l.Status = domain.LoanStatusRepaid
	l.PrincipalRepaid = l.Amount
	return l
}

func (g *Generator) pick(w weighted) string {
	var total float64
	for _, x := range w.weights {
		total += x
	}

	target := g.rand.Float64() * total
	for i, x := range w.weights {
		target -= x
		if target < 0 {
			return w.values[i]
		}
	}
	return w.values[len(w.values)-1]
}

func (g *Generator) normal(mean, std float64) float64 {
	return mean + std*g.rand.NormFloat64()
}

// poisson uses Knuth's multiplication method; lambda is small here.
func (g *Generator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k, p := 0, 1.0
	for {
		p *= g.rand.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// beta25 samples Beta(2,5) as the second order statistic of six uniforms.
func (g *Generator) beta25() float64 {
	smallest, second := 2.0, 2.0
	for range 6 {
		u := g.rand.Float64()
		switch {
		case u < smallest:
			smallest, second = u, smallest
		case u < second:
			second = u
		}
	}
	return second
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
