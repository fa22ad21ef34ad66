package postings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Posting is a single credit or debit against one balance of one account.
type Posting struct {
	Credit         bool            `json:"credit" yaml:"credit"`
	Amount         decimal.Decimal `json:"amount" yaml:"amount"`
	Denomination   string          `json:"denomination" yaml:"denomination"`
	AccountID      string          `json:"account_id" yaml:"account_id"`
	AccountAddress string          `json:"account_address" yaml:"account_address"`
	Asset          string          `json:"asset" yaml:"asset"`
	Phase          balances.Phase  `json:"phase" yaml:"phase"`
}

// NewPosting validates p unless trusted.
func NewPosting(p Posting, opts ...strongtyping.Option) (Posting, error) {
	if strongtyping.Apply(opts).Trusted {
		return p, nil
	}
	if err := p.Validate(); err != nil {
		return Posting{}, err
	}
	return p, nil
}

// Validate checks, in order: required strings, a non-negative amount and a
// declared phase.
func (p Posting) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"denomination", p.Denomination},
		{"account_id", p.AccountID},
		{"account_address", p.AccountAddress},
		{"asset", p.Asset},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return sdkerr.InvalidSmartContractf("Postings missing required argument(s): %s", valuefmt.Literal(missing))
	}
	if p.Amount.IsNegative() {
		return sdkerr.InvalidSmartContractf("Amount must be greater than 0, %s", p.Amount)
	}
	if !p.Phase.Valid() {
		return sdkerr.StrongTypingf("'phase' must be set to a Phase value")
	}
	return nil
}

// Coordinate returns the balance bucket the posting moves.
func (p Posting) Coordinate() balances.BalanceCoordinate {
	return balances.BalanceCoordinate{
		AccountAddress: p.AccountAddress,
		Asset:          p.Asset,
		Denomination:   p.Denomination,
		Phase:          p.Phase,
	}
}

// Equal compares amounts numerically and every other field exactly.
func (p Posting) Equal(o Posting) bool {
	return p.Credit == o.Credit && p.Amount.Equal(o.Amount) &&
		p.Denomination == o.Denomination && p.AccountID == o.AccountID &&
		p.AccountAddress == o.AccountAddress && p.Asset == o.Asset && p.Phase == o.Phase
}

func (p Posting) String() string {
	return fmt.Sprintf("Posting(credit=%s, amount=%s, denomination=%s, account_id=%s, account_address=%s, asset=%s, phase=%s)",
		valuefmt.Text(p.Credit), p.Amount, p.Denomination, p.AccountID, p.AccountAddress, p.Asset, p.Phase)
}

// TransactionCode is the ISO20022 bank transaction code of an instruction.
type TransactionCode struct {
	Domain    string `json:"domain" yaml:"domain"`
	Family    string `json:"family" yaml:"family"`
	Subfamily string `json:"subfamily" yaml:"subfamily"`
}

// NewTransactionCode validates and returns a transaction code.
func NewTransactionCode(domain, family, subfamily string, opts ...strongtyping.Option) (*TransactionCode, error) {
	tc := &TransactionCode{Domain: domain, Family: family, Subfamily: subfamily}
	if strongtyping.Apply(opts).Trusted {
		return tc, nil
	}
	if err := tc.validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

func (tc *TransactionCode) validate() error {
	for _, f := range []struct{ prefix, value string }{
		{"TransactionCode.domain", tc.Domain},
		{"TransactionCode.family", tc.Family},
		{"TransactionCode.subfamily", tc.Subfamily},
	} {
		if err := strongtyping.ValidateType(f.value, strongtyping.Str, strongtyping.CheckEmpty(), strongtyping.WithPrefix(f.prefix)); err != nil {
			return err
		}
	}
	return nil
}

// AdjustmentAmount is the change requested by an AuthorisationAdjustment:
// either a delta or a replacement for the authorised total.
type AdjustmentAmount struct {
	Amount            *decimal.Decimal `json:"amount,omitempty" yaml:"amount,omitempty"`
	ReplacementAmount *decimal.Decimal `json:"replacement_amount,omitempty" yaml:"replacement_amount,omitempty"`
}

// NewAdjustmentAmount validates and returns an adjustment amount.
func NewAdjustmentAmount(amount, replacementAmount *decimal.Decimal, opts ...strongtyping.Option) (*AdjustmentAmount, error) {
	a := &AdjustmentAmount{Amount: amount, ReplacementAmount: replacementAmount}
	if strongtyping.Apply(opts).Trusted {
		return a, nil
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// validate rejects neither or both being set. A zero amount counts as unset
// when the other is also given.
func (a *AdjustmentAmount) validate() error {
	neither := a.Amount == nil && a.ReplacementAmount == nil
	both := nonZero(a.Amount) && nonZero(a.ReplacementAmount)
	if neither || both {
		return sdkerr.InvalidSmartContractf("Either amount or replacement amount argument must be set, not both.")
	}
	return nil
}

func nonZero(d *decimal.Decimal) bool {
	return d != nil && !d.IsZero()
}

// BalanceDiff is the gross credit and debit moved into one balance bucket.
type BalanceDiff struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
}

// DeriveBalanceDiff sums postings per balance coordinate.
func DeriveBalanceDiff(postings []Posting) map[balances.BalanceCoordinate]BalanceDiff {
	diff := make(map[balances.BalanceCoordinate]BalanceDiff)
	for _, p := range postings {
		c := p.Coordinate()
		d := diff[c]
		if p.Credit {
			d.Credit = d.Credit.Add(p.Amount)
		} else {
			d.Debit = d.Debit.Add(p.Amount)
		}
		diff[c] = d
	}
	return diff
}

// MergeBalanceDiff returns base with diff added per coordinate. Neither input
// is modified.
func MergeBalanceDiff(base, diff map[balances.BalanceCoordinate]BalanceDiff) map[balances.BalanceCoordinate]BalanceDiff {
	out := make(map[balances.BalanceCoordinate]BalanceDiff, len(base)+len(diff))
	for c, d := range base {
		out[c] = d
	}
	for c, d := range diff {
		cur := out[c]
		out[c] = BalanceDiff{Credit: cur.Credit.Add(d.Credit), Debit: cur.Debit.Add(d.Debit)}
	}
	return out
}

// SidedBalances converts gross diffs into balances whose net follows tside.
func SidedBalances(diff map[balances.BalanceCoordinate]BalanceDiff, tside balances.Tside) *balances.BalanceDefaultDict {
	out := balances.NewBalanceDefaultDict(nil)
	for c, d := range diff {
		out.Adjust(c, tside, d.Credit, d.Debit)
	}
	return out
}
