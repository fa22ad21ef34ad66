package postings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// Record is the flat wire and storage form of any posting instruction. Only
// the fields of the variant named by Type are meaningful.
type Record struct {
	Type                    InstructionType   `json:"type" yaml:"type"`
	ClientTransactionID     string            `json:"client_transaction_id,omitempty" yaml:"client_transaction_id,omitempty"`
	Amount                  *decimal.Decimal  `json:"amount,omitempty" yaml:"amount,omitempty"`
	Denomination            string            `json:"denomination,omitempty" yaml:"denomination,omitempty"`
	TargetAccountID         string            `json:"target_account_id,omitempty" yaml:"target_account_id,omitempty"`
	InternalAccountID       string            `json:"internal_account_id,omitempty" yaml:"internal_account_id,omitempty"`
	DebtorTargetAccountID   string            `json:"debtor_target_account_id,omitempty" yaml:"debtor_target_account_id,omitempty"`
	CreditorTargetAccountID string            `json:"creditor_target_account_id,omitempty" yaml:"creditor_target_account_id,omitempty"`
	Advice                  bool              `json:"advice,omitempty" yaml:"advice,omitempty"`
	Final                   *bool             `json:"final,omitempty" yaml:"final,omitempty"`
	AdjustmentAmount        *AdjustmentAmount `json:"adjustment_amount,omitempty" yaml:"adjustment_amount,omitempty"`
	Postings                []Posting         `json:"postings,omitempty" yaml:"postings,omitempty"`
	InstructionDetails      map[string]string `json:"instruction_details,omitempty" yaml:"instruction_details,omitempty"`
	TransactionCode         *TransactionCode  `json:"transaction_code,omitempty" yaml:"transaction_code,omitempty"`
	OverrideAllRestrictions bool              `json:"override_all_restrictions,omitempty" yaml:"override_all_restrictions,omitempty"`

	Output OutputAttributes `json:"output" yaml:"output,omitempty"`
}

func (r Record) base() Base {
	return Base{
		InstructionDetails:      r.InstructionDetails,
		TransactionCode:         r.TransactionCode,
		OverrideAllRestrictions: r.OverrideAllRestrictions,
	}
}

func (r Record) amount() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// Instruction builds the instruction r describes and applies its output
// attributes. opts are passed to the variant constructor.
func (r Record) Instruction(opts ...strongtyping.Option) (PostingInstruction, error) {
	pi, err := r.construct(opts)
	if err != nil {
		return nil, err
	}
	if err := pi.SetOutputAttributes(r.Output); err != nil {
		return nil, err
	}
	return pi, nil
}

func (r Record) construct(opts []strongtyping.Option) (PostingInstruction, error) {
	auth := Authorisation{
		ClientTransactionID: r.ClientTransactionID,
		Amount:              r.amount(),
		Denomination:        r.Denomination,
		TargetAccountID:     r.TargetAccountID,
		InternalAccountID:   r.InternalAccountID,
		Advice:              r.Advice,
		Base:                r.base(),
	}
	hard := HardSettlement{
		Amount:            r.amount(),
		Denomination:      r.Denomination,
		TargetAccountID:   r.TargetAccountID,
		InternalAccountID: r.InternalAccountID,
		Advice:            r.Advice,
		Base:              r.base(),
	}
	switch r.Type {
	case TypeInboundAuthorisation:
		return NewInboundAuthorisation(auth, opts...)
	case TypeOutboundAuthorisation:
		return NewOutboundAuthorisation(auth, opts...)
	case TypeAuthorisationAdjustment:
		return NewAuthorisationAdjustment(AuthorisationAdjustment{
			ClientTransactionID: r.ClientTransactionID,
			AdjustmentAmount:    r.AdjustmentAmount,
			Advice:              r.Advice,
			Base:                r.base(),
		}, opts...)
	case TypeSettlement:
		return NewSettlement(Settlement{
			ClientTransactionID: r.ClientTransactionID,
			Amount:              r.Amount,
			Final:               r.Final,
			Base:                r.base(),
		}, opts...)
	case TypeRelease:
		return NewRelease(Release{ClientTransactionID: r.ClientTransactionID, Base: r.base()}, opts...)
	case TypeInboundHardSettlement:
		return NewInboundHardSettlement(hard, opts...)
	case TypeOutboundHardSettlement:
		return NewOutboundHardSettlement(hard, opts...)
	case TypeTransfer:
		return NewTransfer(Transfer{
			Amount:                  r.amount(),
			Denomination:            r.Denomination,
			DebtorTargetAccountID:   r.DebtorTargetAccountID,
			CreditorTargetAccountID: r.CreditorTargetAccountID,
			Base:                    r.base(),
		}, opts...)
	case TypeCustomInstruction:
		return NewCustomInstruction(CustomInstruction{Postings: r.Postings, Base: r.base()}, opts...)
	}
	return nil, fmt.Errorf("unknown posting instruction type %q", r.Type)
}

// RecordOf flattens pi into its Record form.
func RecordOf(pi PostingInstruction) Record {
	b := pi.base()
	r := Record{
		Type:                    pi.Type(),
		InstructionDetails:      b.InstructionDetails,
		TransactionCode:         b.TransactionCode,
		OverrideAllRestrictions: b.OverrideAllRestrictions,
		Output:                  pi.OutputAttributes(),
	}
	if len(r.InstructionDetails) == 0 {
		r.InstructionDetails = nil
	}
	switch v := pi.(type) {
	case *InboundAuthorisation:
		r.fromAuthorisation(v.Authorisation)
	case *OutboundAuthorisation:
		r.fromAuthorisation(v.Authorisation)
	case *AuthorisationAdjustment:
		r.ClientTransactionID = v.ClientTransactionID
		r.AdjustmentAmount = v.AdjustmentAmount
		r.Advice = v.Advice
	case *Settlement:
		r.ClientTransactionID = v.ClientTransactionID
		r.Amount = v.Amount
		r.Final = v.Final
	case *Release:
		r.ClientTransactionID = v.ClientTransactionID
	case *InboundHardSettlement:
		r.fromHardSettlement(v.HardSettlement)
	case *OutboundHardSettlement:
		r.fromHardSettlement(v.HardSettlement)
	case *Transfer:
		amount := v.Amount
		r.Amount = &amount
		r.Denomination = v.Denomination
		r.DebtorTargetAccountID = v.DebtorTargetAccountID
		r.CreditorTargetAccountID = v.CreditorTargetAccountID
	case *CustomInstruction:
		r.Postings = v.Postings
		// The postings already carry what the ledger would commit.
		r.Output.CommittedPostings = nil
	}
	return r
}

func (r *Record) fromAuthorisation(a Authorisation) {
	amount := a.Amount
	r.ClientTransactionID = a.ClientTransactionID
	r.Amount = &amount
	r.Denomination = a.Denomination
	r.TargetAccountID = a.TargetAccountID
	r.InternalAccountID = a.InternalAccountID
	r.Advice = a.Advice
}

func (r *Record) fromHardSettlement(h HardSettlement) {
	amount := h.Amount
	r.Amount = &amount
	r.Denomination = h.Denomination
	r.TargetAccountID = h.TargetAccountID
	r.InternalAccountID = h.InternalAccountID
	r.Advice = h.Advice
}
