package postings

import (
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
	"github.com/roach88/vaultsdk/internal/types"
)

// PostingInstruction is implemented by every instruction variant:
//
//	*InboundAuthorisation, *OutboundAuthorisation, *AuthorisationAdjustment,
//	*Settlement, *Release, *InboundHardSettlement, *OutboundHardSettlement,
//	*Transfer, *CustomInstruction
//
// The set is closed.
type PostingInstruction interface {
	types.Describer

	Type() InstructionType

	// SetOutputAttributes records what the ledger computed when it accepted
	// the instruction. Unset fields of o leave the current value alone.
	SetOutputAttributes(o OutputAttributes) error

	// Balances returns the balance changes the instruction made to accountID.
	// Empty arguments fall back to the instruction's own account and tside.
	Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error)

	ID() string
	ValueDatetime() *time.Time
	CommittedPostings() []Posting
	OutputAttributes() OutputAttributes

	base() *Base
	validate() error
}

// OutputAttributes are set by the ledger, never by contract code. The zero
// value of each field means "not set". The trailing group only applies to
// the variants that report it.
type OutputAttributes struct {
	InstructionID             string            `json:"id,omitempty" yaml:"id,omitempty"`
	InsertionDatetime         *time.Time        `json:"insertion_datetime,omitempty" yaml:"insertion_datetime,omitempty"`
	ValueDatetime             *time.Time        `json:"value_datetime,omitempty" yaml:"value_datetime,omitempty"`
	ClientBatchID             string            `json:"client_batch_id,omitempty" yaml:"client_batch_id,omitempty"`
	BatchID                   string            `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
	CommittedPostings         []Posting         `json:"committed_postings,omitempty" yaml:"committed_postings,omitempty"`
	UniqueClientTransactionID string            `json:"unique_client_transaction_id,omitempty" yaml:"unique_client_transaction_id,omitempty"`
	ClientTransactionID       string            `json:"client_transaction_id,omitempty" yaml:"client_transaction_id,omitempty"`
	OwnAccountID              string            `json:"own_account_id,omitempty" yaml:"own_account_id,omitempty"`
	Tside                     balances.Tside    `json:"tside,omitempty" yaml:"tside,omitempty"`
	BatchDetails              map[string]string `json:"batch_details,omitempty" yaml:"batch_details,omitempty"`

	AuthorisedAmount  *decimal.Decimal `json:"authorised_amount,omitempty" yaml:"authorised_amount,omitempty"`
	DeltaAmount       *decimal.Decimal `json:"delta_amount,omitempty" yaml:"delta_amount,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty" yaml:"amount,omitempty"`
	Denomination      string           `json:"denomination,omitempty" yaml:"denomination,omitempty"`
	TargetAccountID   string           `json:"target_account_id,omitempty" yaml:"target_account_id,omitempty"`
	InternalAccountID string           `json:"internal_account_id,omitempty" yaml:"internal_account_id,omitempty"`
}

// outputExtras selects the variant-specific output attributes a variant keeps.
type outputExtras uint8

const (
	extraAccounts outputExtras = 1 << iota // denomination, target and internal account
	extraAmount
	extraAuthorised // authorised and delta amounts
)

// Base holds the arguments and output attributes shared by every variant.
type Base struct {
	InstructionDetails      map[string]string `json:"instruction_details" yaml:"instruction_details,omitempty"`
	TransactionCode         *TransactionCode  `json:"transaction_code" yaml:"transaction_code,omitempty"`
	OverrideAllRestrictions bool              `json:"override_all_restrictions" yaml:"override_all_restrictions,omitempty"`

	out OutputAttributes
}

func (b *Base) base() *Base { return b }

func (b *Base) normalize() {
	if b.InstructionDetails == nil {
		b.InstructionDetails = map[string]string{}
	}
}

func (b *Base) validateBase() error {
	if b.TransactionCode != nil {
		return b.TransactionCode.validate()
	}
	return nil
}

func (b *Base) setOutput(typ InstructionType, o OutputAttributes, extras outputExtras) error {
	owner := string(typ)
	if o.InsertionDatetime != nil {
		if err := strongtyping.CheckUTC(*o.InsertionDatetime, "insertion_datetime", owner); err != nil {
			return err
		}
		t := *o.InsertionDatetime
		b.out.InsertionDatetime = &t
	}
	if o.ValueDatetime != nil {
		if err := strongtyping.CheckUTC(*o.ValueDatetime, "value_datetime", owner); err != nil {
			return err
		}
		t := *o.ValueDatetime
		b.out.ValueDatetime = &t
	}
	setString(&b.out.InstructionID, o.InstructionID)
	setString(&b.out.ClientBatchID, o.ClientBatchID)
	setString(&b.out.BatchID, o.BatchID)
	setString(&b.out.UniqueClientTransactionID, o.UniqueClientTransactionID)
	setString(&b.out.ClientTransactionID, o.ClientTransactionID)
	setString(&b.out.OwnAccountID, o.OwnAccountID)
	// Committed postings are never replaced once present.
	if o.CommittedPostings != nil && len(b.out.CommittedPostings) == 0 {
		b.out.CommittedPostings = slices.Clone(o.CommittedPostings)
	}
	if o.Tside != 0 {
		b.out.Tside = o.Tside
	}
	if o.BatchDetails != nil {
		b.out.BatchDetails = maps.Clone(o.BatchDetails)
	}
	if extras&extraAccounts != 0 {
		setString(&b.out.Denomination, o.Denomination)
		setString(&b.out.TargetAccountID, o.TargetAccountID)
		setString(&b.out.InternalAccountID, o.InternalAccountID)
	}
	if extras&extraAmount != 0 && o.Amount != nil {
		b.out.Amount = o.Amount
	}
	if extras&extraAuthorised != 0 {
		if o.AuthorisedAmount != nil {
			b.out.AuthorisedAmount = o.AuthorisedAmount
		}
		if o.DeltaAmount != nil {
			b.out.DeltaAmount = o.DeltaAmount
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ID is the ledger id of the instruction, empty while proposed.
func (b *Base) ID() string { return b.out.InstructionID }

// BatchID is the id of the batch the instruction was accepted in.
func (b *Base) BatchID() string { return b.out.BatchID }

// ClientBatchID associates related instructions.
func (b *Base) ClientBatchID() string { return b.out.ClientBatchID }

// UniqueClientTransactionID is the ledger-wide id of the client transaction.
func (b *Base) UniqueClientTransactionID() string { return b.out.UniqueClientTransactionID }

// InsertionDatetime is when the ledger stored the instruction, nil while proposed.
func (b *Base) InsertionDatetime() *time.Time { return b.out.InsertionDatetime }

// ValueDatetime is when the instruction takes effect.
func (b *Base) ValueDatetime() *time.Time { return b.out.ValueDatetime }

// BatchDetails never returns nil.
func (b *Base) BatchDetails() map[string]string {
	if b.out.BatchDetails == nil {
		return map[string]string{}
	}
	return b.out.BatchDetails
}

// OwnAccountID is the account the instruction was observed from.
func (b *Base) OwnAccountID() string { return b.out.OwnAccountID }

// CommittedPostings returns nil until the ledger has committed the instruction.
func (b *Base) CommittedPostings() []Posting { return b.out.CommittedPostings }

// OutputAttributes returns a copy of the output attributes.
func (b *Base) OutputAttributes() OutputAttributes {
	o := b.out
	o.CommittedPostings = slices.Clone(b.out.CommittedPostings)
	o.BatchDetails = maps.Clone(b.out.BatchDetails)
	return o
}

// attribute reads the output attributes shared by every variant.
func (b *Base) attribute(name string) (any, bool) {
	switch name {
	case "id":
		return b.out.InstructionID, true
	case "client_batch_id":
		return b.out.ClientBatchID, true
	case "unique_client_transaction_id":
		return b.out.UniqueClientTransactionID, true
	case "insertion_datetime":
		return optionalTime(b.out.InsertionDatetime), true
	case "value_datetime":
		return optionalTime(b.out.ValueDatetime), true
	case "batch_id":
		return b.out.BatchID, true
	case "batch_details":
		return b.BatchDetails(), true
	}
	return nil, false
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func optionalDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// balances derives side-aware balance changes from committed.
func (b *Base) balances(typ InstructionType, committed []Posting, accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	if accountID == "" {
		accountID = b.out.OwnAccountID
	}
	if tside == 0 {
		tside = b.out.Tside
	}
	if accountID == "" {
		return nil, sdkerr.InvalidSmartContractf("An account_id must be specified for the balances calculation.")
	}
	if committed == nil {
		return nil, sdkerr.InvalidSmartContractf("The %s posting instruction type does not support the balances "+
			"method for the non-historical data as committed_postings are not available.", typ)
	}
	if tside == 0 {
		return nil, sdkerr.InvalidSmartContractf("A tside must be specified for the balances calculation.")
	}
	var own []Posting
	for _, p := range committed {
		if p.AccountID == accountID {
			own = append(own, p)
		}
	}
	return SidedBalances(DeriveBalanceDiff(own), tside), nil
}

// ClientTransactionID returns the client transaction pi belongs to: the
// constructor argument where the variant has one, otherwise the output
// attribute.
func ClientTransactionID(pi PostingInstruction) string {
	switch v := pi.(type) {
	case *InboundAuthorisation:
		return v.ClientTransactionID
	case *OutboundAuthorisation:
		return v.ClientTransactionID
	case *AuthorisationAdjustment:
		return v.ClientTransactionID
	case *Settlement:
		return v.ClientTransactionID
	case *Release:
		return v.ClientTransactionID
	}
	return pi.base().out.ClientTransactionID
}

type validator interface {
	normalize()
	validate() error
}

// construct normalizes v and validates it unless trusted.
func construct[T any, P interface {
	*T
	validator
}](v T, opts []strongtyping.Option) (*T, error) {
	p := P(&v)
	p.normalize()
	if !strongtyping.Apply(opts).Trusted {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return &v, nil
}
