package harness

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
)

// Observation is what the harness saw at one effective datetime.
type Observation struct {
	At        *time.Time                         `json:"at,omitempty"`
	Effects   *postings.ClientTransactionEffects `json:"effects,omitempty"`
	Balances  []BalanceEntry                     `json:"balances,omitempty"`
	Released  *bool                              `json:"released,omitempty"`
	Completed *bool                              `json:"completed,omitempty"`
	Error     string                             `json:"error,omitempty"`
}

// BalanceEntry is one coordinate of a balance dict, flattened for snapshots.
type BalanceEntry struct {
	AccountAddress string          `json:"account_address"`
	Asset          string          `json:"asset"`
	Denomination   string          `json:"denomination"`
	Phase          balances.Phase  `json:"phase"`
	Credit         decimal.Decimal `json:"credit"`
	Debit          decimal.Decimal `json:"debit"`
	Net            decimal.Decimal `json:"net"`
}

func balanceEntries(d *balances.BalanceDefaultDict) []BalanceEntry {
	keys := d.Keys()
	out := make([]BalanceEntry, 0, len(keys))
	for _, c := range keys {
		b := d.Get(c)
		out = append(out, BalanceEntry{
			AccountAddress: c.AccountAddress,
			Asset:          c.Asset,
			Denomination:   c.Denomination,
			Phase:          c.Phase,
			Credit:         b.Credit,
			Debit:          b.Debit,
			Net:            b.Net,
		})
	}
	return out
}

// Result is the outcome of a scenario run.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass indicates overall test success.
	// True if the error and every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains mismatch messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ClientTransactionID is the client transaction that was loaded.
	ClientTransactionID string `json:"client_transaction_id"`

	// InstructionIDs are the journal ids, in replay order.
	InstructionIDs []string `json:"instruction_ids"`

	// Error is the error the instructions produced, if any.
	Error string `json:"error,omitempty"`

	// Observations has one entry per expectation.
	Observations []Observation `json:"observations"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario:       scenario,
		Pass:           true,
		Errors:         []string{},
		InstructionIDs: []string{},
		Observations:   []Observation{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
