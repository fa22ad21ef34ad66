package postings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// MaxPostingsPerInstruction bounds the postings a directive may submit in one
// CustomInstruction.
const MaxPostingsPerInstruction = 64

// CustomInstruction is a free-form list of postings. Its postings are its
// committed postings from the moment it is constructed.
type CustomInstruction struct {
	Postings []Posting `json:"postings" yaml:"postings"`
	Base
}

// NewCustomInstruction validates c unless trusted.
func NewCustomInstruction(c CustomInstruction, opts ...strongtyping.Option) (*CustomInstruction, error) {
	return construct(c, opts)
}

func (c *CustomInstruction) normalize() {
	c.Base.normalize()
	if c.Postings != nil && len(c.out.CommittedPostings) == 0 {
		c.out.CommittedPostings = c.Postings
	}
}

func (c *CustomInstruction) validate() error {
	if err := c.validateBase(); err != nil {
		return err
	}
	_, err := strongtyping.GetIterator(c.Postings, "Posting", "CustomInstruction.postings", true)
	return err
}

// ValidatePostingsAndZeroNetSum checks the directive limits: at most
// MaxPostingsPerInstruction postings, and for every (asset, denomination,
// phase) the credits equal the debits.
func (c *CustomInstruction) ValidatePostingsAndZeroNetSum() error {
	if len(c.Postings) > MaxPostingsPerInstruction {
		return sdkerr.InvalidSmartContractf("Too many postings submitted in the %s. Number submitted: %d. Limit: %d.",
			c.Type(), len(c.Postings), MaxPostingsPerInstruction)
	}
	type key struct {
		asset, denomination string
		phase               balances.Phase
	}
	var order []key
	sums := map[key]*BalanceDiff{}
	for _, p := range c.Postings {
		k := key{p.Asset, p.Denomination, p.Phase}
		d, ok := sums[k]
		if !ok {
			d = &BalanceDiff{}
			sums[k] = d
			order = append(order, k)
		}
		if p.Credit {
			d.Credit = d.Credit.Add(p.Amount)
		} else {
			d.Debit = d.Debit.Add(p.Amount)
		}
	}
	for _, k := range order {
		d := sums[k]
		if !d.Credit.Equal(d.Debit) {
			tuple := fmt.Sprintf("(%s, %s, %s)", valuefmt.Literal(k.asset), valuefmt.Literal(k.denomination), k.phase)
			return sdkerr.InvalidSmartContractf("Net of balance coordinate %s in the CustomInstruction: %s, Expected: 0.",
				tuple, d.Credit.Sub(d.Debit).Abs())
		}
	}
	return nil
}

func (*CustomInstruction) Type() InstructionType { return TypeCustomInstruction }

func (c *CustomInstruction) SetOutputAttributes(o OutputAttributes) error {
	return c.setOutput(c.Type(), o, 0)
}

// CommittedPostings returns the postings when the ledger has not set any.
func (c *CustomInstruction) CommittedPostings() []Posting {
	if len(c.out.CommittedPostings) > 0 {
		return c.out.CommittedPostings
	}
	return c.Postings
}

func (c *CustomInstruction) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return c.balances(c.Type(), c.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (c *CustomInstruction) Attribute(name string) (any, bool) {
	if name == "type" {
		return c.Type(), true
	}
	return c.attribute(name)
}

// ClientTransactionEffects is the net state of a client transaction:
// what was authorised, what settled and what is still outstanding.
type ClientTransactionEffects struct {
	Authorised decimal.Decimal `json:"authorised" yaml:"authorised"`
	Settled    decimal.Decimal `json:"settled" yaml:"settled"`
	Unsettled  decimal.Decimal `json:"unsettled" yaml:"unsettled"`
}

// Equal compares numerically.
func (e ClientTransactionEffects) Equal(o ClientTransactionEffects) bool {
	return e.Authorised.Equal(o.Authorised) && e.Settled.Equal(o.Settled) && e.Unsettled.Equal(o.Unsettled)
}

func (e ClientTransactionEffects) String() string {
	return fmt.Sprintf("ClientTransactionEffects(authorised=%s, settled=%s, unsettled=%s)", e.Authorised, e.Settled, e.Unsettled)
}
