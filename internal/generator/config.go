package generator

import "time"

// Config drives the synthetic event generator.
type Config struct {
	Users int
	// TransactionUserShare is the share of users that get a transaction history.
	TransactionUserShare float64
	Start                time.Time
	End                  time.Time
	Seed                 uint64
}

// DefaultConfig returns a small dataset over the first seven months of 2025.
func DefaultConfig() Config {
	return Config{
		Users:                1000,
		TransactionUserShare: 0.35,
		Start:                time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:                  time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		Seed:                 42,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Users <= 0 {
		c.Users = def.Users
	}
	if c.TransactionUserShare <= 0 || c.TransactionUserShare > 1 {
		c.TransactionUserShare = def.TransactionUserShare
	}
	if c.Start.IsZero() {
		c.Start = def.Start
	}
	if c.End.IsZero() || !c.End.After(c.Start) {
		c.End = c.Start.Add(def.End.Sub(def.Start))
	}
	return c
}

type experiment struct {
	name     string
	start    time.Time
	end      time.Time
	variants []string
}

const (
	priceExperiment = "PriceTest_2025Q2"
	tipExperiment   = "TipPrompt_2025Q2"
)

var experiments = []experiment{
	{
		name:     priceExperiment,
		start:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		end:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		variants: []string{"A", "B"},
	},
	{
		name:     tipExperiment,
		start:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		end:      time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		variants: []string{"control", "persuasive", "social_proof"},
	},
}

type weighted struct {
	values  []string
	weights []float64
}

var (
	provinces = weighted{
		values:  []string{"ON", "QC", "BC", "AB", "MB", "SK", "NS", "NB", "NL", "PE"},
		weights: []float64{0.38, 0.22, 0.14, 0.12, 0.04, 0.03, 0.025, 0.02, 0.015, 0.01},
	}
	channels = weighted{
		values:  []string{"organic", "paid_search", "paid_social", "referral", "affiliate", "email"},
		weights: []float64{0.45, 0.12, 0.18, 0.10, 0.10, 0.05},
	}
	payFrequencies = weighted{
		values:  []string{"weekly", "biweekly", "semimonthly", "monthly", "unknown"},
		weights: []float64{0.25, 0.45, 0.15, 0.10, 0.05},
	}
	expenseCategories = weighted{
		values:  []string{"rent", "groceries", "dining", "utilities", "transport", "entertainment", "other"},
		weights: []float64{0.08, 0.32, 0.18, 0.10, 0.18, 0.06, 0.08},
	}
	instantFees = weighted{
		values:  []string{"0", "1.99", "2.99"},
		weights: []float64{0.45, 0.35, 0.20},
	}
	tipAmounts = weighted{
		values:  []string{"1", "2", "3", "5", "7"},
		weights: []float64{0.25, 0.30, 0.25, 0.15, 0.05},
	}
)

var payGapDays = map[string]int{
	"weekly":      7,
	"biweekly":    14,
	"semimonthly": 15,
	"monthly":     30,
	"unknown":     14,
}

var tipUplift = map[string]float64{
	"control":      0,
	"persuasive":   0.06,
	"social_proof": 0.03,
}
