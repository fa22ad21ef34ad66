package postings

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// Authorisation holds the arguments shared by InboundAuthorisation and
// OutboundAuthorisation.
type Authorisation struct {
	ClientTransactionID string          `json:"client_transaction_id" yaml:"client_transaction_id"`
	Amount              decimal.Decimal `json:"amount" yaml:"amount"`
	Denomination        string          `json:"denomination" yaml:"denomination"`
	TargetAccountID     string          `json:"target_account_id" yaml:"target_account_id"`
	InternalAccountID   string          `json:"internal_account_id" yaml:"internal_account_id"`
	Advice              bool            `json:"advice" yaml:"advice,omitempty"`
	Base
}

func (a *Authorisation) validate() error { return a.validateBase() }

// InboundAuthorisation holds incoming funds for the target account.
type InboundAuthorisation struct{ Authorisation }

// NewInboundAuthorisation validates a unless trusted.
func NewInboundAuthorisation(a Authorisation, opts ...strongtyping.Option) (*InboundAuthorisation, error) {
	return construct(InboundAuthorisation{a}, opts)
}

func (*InboundAuthorisation) Type() InstructionType { return TypeInboundAuthorisation }

func (a *InboundAuthorisation) SetOutputAttributes(o OutputAttributes) error {
	return a.setOutput(a.Type(), o, 0)
}

func (a *InboundAuthorisation) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return a.balances(a.Type(), a.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (a *InboundAuthorisation) Attribute(name string) (any, bool) {
	if name == "type" {
		return a.Type(), true
	}
	return a.attribute(name)
}

// OutboundAuthorisation holds outgoing funds on the target account.
type OutboundAuthorisation struct{ Authorisation }

// NewOutboundAuthorisation validates a unless trusted.
func NewOutboundAuthorisation(a Authorisation, opts ...strongtyping.Option) (*OutboundAuthorisation, error) {
	return construct(OutboundAuthorisation{a}, opts)
}

func (*OutboundAuthorisation) Type() InstructionType { return TypeOutboundAuthorisation }

func (a *OutboundAuthorisation) SetOutputAttributes(o OutputAttributes) error {
	return a.setOutput(a.Type(), o, 0)
}

func (a *OutboundAuthorisation) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return a.balances(a.Type(), a.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (a *OutboundAuthorisation) Attribute(name string) (any, bool) {
	if name == "type" {
		return a.Type(), true
	}
	return a.attribute(name)
}

// AuthorisationAdjustment changes the amount held by an authorisation.
type AuthorisationAdjustment struct {
	ClientTransactionID string            `json:"client_transaction_id" yaml:"client_transaction_id"`
	AdjustmentAmount    *AdjustmentAmount `json:"adjustment_amount" yaml:"adjustment_amount"`
	Advice              bool              `json:"advice" yaml:"advice,omitempty"`
	Base
}

// NewAuthorisationAdjustment validates a unless trusted.
func NewAuthorisationAdjustment(a AuthorisationAdjustment, opts ...strongtyping.Option) (*AuthorisationAdjustment, error) {
	return construct(a, opts)
}

func (a *AuthorisationAdjustment) validate() error {
	if err := a.validateBase(); err != nil {
		return err
	}
	if a.AdjustmentAmount == nil {
		return sdkerr.StrongTypingf("%s 'adjustment_amount' must be populated", a.Type())
	}
	return a.AdjustmentAmount.validate()
}

func (*AuthorisationAdjustment) Type() InstructionType { return TypeAuthorisationAdjustment }

func (a *AuthorisationAdjustment) SetOutputAttributes(o OutputAttributes) error {
	return a.setOutput(a.Type(), o, extraAccounts|extraAuthorised)
}

func (a *AuthorisationAdjustment) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return a.balances(a.Type(), a.CommittedPostings(), accountID, tside)
}

// AuthorisedAmount is the total held after the adjustment was accepted.
func (a *AuthorisationAdjustment) AuthorisedAmount() decimal.Decimal {
	return optionalDecimal(a.out.AuthorisedAmount)
}

// DeltaAmount is the change the adjustment made to the held amount.
func (a *AuthorisationAdjustment) DeltaAmount() decimal.Decimal {
	return optionalDecimal(a.out.DeltaAmount)
}

func (a *AuthorisationAdjustment) Denomination() string      { return a.out.Denomination }
func (a *AuthorisationAdjustment) TargetAccountID() string   { return a.out.TargetAccountID }
func (a *AuthorisationAdjustment) InternalAccountID() string { return a.out.InternalAccountID }

// Attribute implements types.AttributeReader.
func (a *AuthorisationAdjustment) Attribute(name string) (any, bool) {
	switch name {
	case "type":
		return a.Type(), true
	case "authorised_amount":
		return a.AuthorisedAmount(), true
	case "delta_amount":
		return a.DeltaAmount(), true
	}
	if v, ok := ledgerAccountAttribute(&a.Base, name); ok {
		return v, true
	}
	return a.attribute(name)
}

// Settlement clears some or all of an authorised amount. A nil Amount
// settles the whole authorised amount.
type Settlement struct {
	ClientTransactionID string           `json:"client_transaction_id" yaml:"client_transaction_id"`
	Amount              *decimal.Decimal `json:"amount" yaml:"amount,omitempty"`
	Final               *bool            `json:"final" yaml:"final,omitempty"`
	Base
}

// NewSettlement validates s unless trusted. A nil Final defaults to false
// unless trusted, so rehydrated settlements keep an unset flag visible.
func NewSettlement(s Settlement, opts ...strongtyping.Option) (*Settlement, error) {
	if s.Final == nil && !strongtyping.Apply(opts).Trusted {
		s.Final = new(bool)
	}
	return construct(s, opts)
}

func (s *Settlement) validate() error { return s.validateBase() }

// IsFinal reports whether the settlement releases any remaining amount.
func (s *Settlement) IsFinal() bool { return s.Final != nil && *s.Final }

func (*Settlement) Type() InstructionType { return TypeSettlement }

func (s *Settlement) SetOutputAttributes(o OutputAttributes) error {
	return s.setOutput(s.Type(), o, extraAccounts)
}

func (s *Settlement) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return s.balances(s.Type(), s.CommittedPostings(), accountID, tside)
}

func (s *Settlement) Denomination() string      { return s.out.Denomination }
func (s *Settlement) TargetAccountID() string   { return s.out.TargetAccountID }
func (s *Settlement) InternalAccountID() string { return s.out.InternalAccountID }

// Attribute implements types.AttributeReader.
func (s *Settlement) Attribute(name string) (any, bool) {
	switch name {
	case "type":
		return s.Type(), true
	case "final":
		if s.Final == nil {
			return nil, true
		}
		return *s.Final, true
	}
	if v, ok := ledgerAccountAttribute(&s.Base, name); ok {
		return v, true
	}
	return s.attribute(name)
}

// Release returns the remaining authorised amount to the account.
type Release struct {
	ClientTransactionID string `json:"client_transaction_id" yaml:"client_transaction_id"`
	Base
}

// NewRelease validates r unless trusted.
func NewRelease(r Release, opts ...strongtyping.Option) (*Release, error) {
	return construct(r, opts)
}

func (r *Release) validate() error { return r.validateBase() }

func (*Release) Type() InstructionType { return TypeRelease }

func (r *Release) SetOutputAttributes(o OutputAttributes) error {
	return r.setOutput(r.Type(), o, extraAccounts|extraAmount)
}

func (r *Release) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return r.balances(r.Type(), r.CommittedPostings(), accountID, tside)
}

// Amount is the amount released, zero until committed.
func (r *Release) Amount() decimal.Decimal { return optionalDecimal(r.out.Amount) }

func (r *Release) Denomination() string      { return r.out.Denomination }
func (r *Release) TargetAccountID() string   { return r.out.TargetAccountID }
func (r *Release) InternalAccountID() string { return r.out.InternalAccountID }

// Attribute implements types.AttributeReader.
func (r *Release) Attribute(name string) (any, bool) {
	switch name {
	case "type":
		return r.Type(), true
	case "amount":
		return r.Amount(), true
	}
	if v, ok := ledgerAccountAttribute(&r.Base, name); ok {
		return v, true
	}
	return r.attribute(name)
}

func ledgerAccountAttribute(b *Base, name string) (any, bool) {
	switch name {
	case "denomination":
		return b.out.Denomination, true
	case "target_account_id":
		return b.out.TargetAccountID, true
	case "internal_account_id":
		return b.out.InternalAccountID, true
	}
	return nil, false
}

// HardSettlement holds the arguments shared by InboundHardSettlement and
// OutboundHardSettlement.
type HardSettlement struct {
	Amount            decimal.Decimal `json:"amount" yaml:"amount"`
	Denomination      string          `json:"denomination" yaml:"denomination"`
	TargetAccountID   string          `json:"target_account_id" yaml:"target_account_id"`
	InternalAccountID string          `json:"internal_account_id" yaml:"internal_account_id"`
	Advice            bool            `json:"advice" yaml:"advice,omitempty"`
	Base
}

func (h *HardSettlement) validate() error { return h.validateBase() }

// InboundHardSettlement moves funds into the target account immediately.
type InboundHardSettlement struct{ HardSettlement }

// NewInboundHardSettlement validates h unless trusted.
func NewInboundHardSettlement(h HardSettlement, opts ...strongtyping.Option) (*InboundHardSettlement, error) {
	return construct(InboundHardSettlement{h}, opts)
}

func (*InboundHardSettlement) Type() InstructionType { return TypeInboundHardSettlement }

func (h *InboundHardSettlement) SetOutputAttributes(o OutputAttributes) error {
	return h.setOutput(h.Type(), o, 0)
}

func (h *InboundHardSettlement) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return h.balances(h.Type(), h.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (h *InboundHardSettlement) Attribute(name string) (any, bool) {
	if name == "type" {
		return h.Type(), true
	}
	return h.attribute(name)
}

// OutboundHardSettlement moves funds out of the target account immediately.
type OutboundHardSettlement struct{ HardSettlement }

// NewOutboundHardSettlement validates h unless trusted.
func NewOutboundHardSettlement(h HardSettlement, opts ...strongtyping.Option) (*OutboundHardSettlement, error) {
	return construct(OutboundHardSettlement{h}, opts)
}

func (*OutboundHardSettlement) Type() InstructionType { return TypeOutboundHardSettlement }

func (h *OutboundHardSettlement) SetOutputAttributes(o OutputAttributes) error {
	return h.setOutput(h.Type(), o, 0)
}

func (h *OutboundHardSettlement) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return h.balances(h.Type(), h.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (h *OutboundHardSettlement) Attribute(name string) (any, bool) {
	if name == "type" {
		return h.Type(), true
	}
	return h.attribute(name)
}

// Transfer moves funds between two accounts immediately.
type Transfer struct {
	Amount                  decimal.Decimal `json:"amount" yaml:"amount"`
	Denomination            string          `json:"denomination" yaml:"denomination"`
	DebtorTargetAccountID   string          `json:"debtor_target_account_id" yaml:"debtor_target_account_id"`
	CreditorTargetAccountID string          `json:"creditor_target_account_id" yaml:"creditor_target_account_id"`
	Base
}

// NewTransfer validates t unless trusted.
func NewTransfer(t Transfer, opts ...strongtyping.Option) (*Transfer, error) {
	return construct(t, opts)
}

func (t *Transfer) validate() error { return t.validateBase() }

func (*Transfer) Type() InstructionType { return TypeTransfer }

func (t *Transfer) SetOutputAttributes(o OutputAttributes) error {
	return t.setOutput(t.Type(), o, 0)
}

func (t *Transfer) Balances(accountID string, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	return t.balances(t.Type(), t.CommittedPostings(), accountID, tside)
}

// Attribute implements types.AttributeReader.
func (t *Transfer) Attribute(name string) (any, bool) {
	if name == "type" {
		return t.Type(), true
	}
	return t.attribute(name)
}
