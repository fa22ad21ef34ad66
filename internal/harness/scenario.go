package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
)

// Scenario defines a client transaction replay test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// AccountID is the account every instruction is journaled against.
	AccountID string `yaml:"account_id"`

	// ClientTransactionID selects the client transaction to load. Defaults
	// to the client transaction id of the first instruction.
	ClientTransactionID string `yaml:"client_transaction_id,omitempty"`

	// Tside is the ledger side balances are computed for.
	Tside balances.Tside `yaml:"tside"`

	// Instructions are replayed in order.
	Instructions []postings.Record `yaml:"instructions"`

	// Error, when set, is a substring of the error the instructions must
	// produce while being validated or replayed.
	Error string `yaml:"error,omitempty"`

	// Expect lists observations to make on the loaded client transaction.
	Expect []Expectation `yaml:"expect,omitempty"`
}

// Expectation is one observation of the client transaction.
// Unset fields are not checked.
type Expectation struct {
	// At is the effective datetime. Nil observes the latest state.
	At *time.Time `yaml:"at,omitempty"`

	Effects   *ExpectedEffects  `yaml:"effects,omitempty"`
	Balances  []ExpectedBalance `yaml:"balances,omitempty"`
	Released  *bool             `yaml:"released,omitempty"`
	Completed *bool             `yaml:"completed,omitempty"`

	// Error is a substring of the error the observation must fail with.
	Error string `yaml:"error,omitempty"`
}

// ExpectedEffects is a subset match on ClientTransactionEffects.
type ExpectedEffects struct {
	Authorised *decimal.Decimal `yaml:"authorised,omitempty"`
	Settled    *decimal.Decimal `yaml:"settled,omitempty"`
	Unsettled  *decimal.Decimal `yaml:"unsettled,omitempty"`
}

// ExpectedBalance checks one coordinate. Address and asset default to the
// ledger defaults; denomination defaults to the client transaction's.
type ExpectedBalance struct {
	AccountAddress string           `yaml:"account_address,omitempty"`
	Asset          string           `yaml:"asset,omitempty"`
	Denomination   string           `yaml:"denomination,omitempty"`
	Phase          balances.Phase   `yaml:"phase"`
	Net            *decimal.Decimal `yaml:"net,omitempty"`
	Credit         *decimal.Decimal `yaml:"credit,omitempty"`
	Debit          *decimal.Decimal `yaml:"debit,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.AccountID == "" {
		return fmt.Errorf("account_id is required")
	}
	if !s.Tside.Valid() {
		return fmt.Errorf("tside is required")
	}
	if len(s.Instructions) == 0 {
		return fmt.Errorf("instructions list is required and must be non-empty")
	}
	if s.Error == "" && len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required unless error is set")
	}
	if s.Error != "" && len(s.Expect) > 0 {
		return fmt.Errorf("expect and error cannot both be set")
	}

	for i, rec := range s.Instructions {
		if !rec.Type.Valid() {
			return fmt.Errorf("instructions[%d]: type is required", i)
		}
	}
	if s.clientTransactionID() == "" {
		return fmt.Errorf("client_transaction_id is required when the first instruction has none")
	}

	for i, e := range s.Expect {
		if e.Effects == nil && len(e.Balances) == 0 && e.Released == nil && e.Completed == nil && e.Error == "" {
			return fmt.Errorf("expect[%d]: nothing to check", i)
		}
		for j, b := range e.Balances {
			if !b.Phase.Valid() {
				return fmt.Errorf("expect[%d].balances[%d]: phase is required", i, j)
			}
		}
	}
	return nil
}

func (s *Scenario) clientTransactionID() string {
	if s.ClientTransactionID != "" {
		return s.ClientTransactionID
	}
	first := s.Instructions[0]
	if first.ClientTransactionID != "" {
		return first.ClientTransactionID
	}
	return first.Output.ClientTransactionID
}
