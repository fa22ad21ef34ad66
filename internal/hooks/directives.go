package hooks

import (
	"time"

	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// MaxInstructionsPerDirective bounds the instructions one directive may submit.
const MaxInstructionsPerDirective = 64

// PostingInstructionsDirective asks the ledger to commit a batch of
// CustomInstructions on behalf of the contract.
type PostingInstructionsDirective struct {
	PostingInstructions []postings.PostingInstruction `json:"posting_instructions" yaml:"-"`
	ClientBatchID       string                        `json:"client_batch_id,omitempty" yaml:"client_batch_id,omitempty"`
	ValueDatetime       *time.Time                    `json:"value_datetime,omitempty" yaml:"value_datetime,omitempty"`
	BatchDetails        map[string]string             `json:"batch_details,omitempty" yaml:"batch_details,omitempty"`
}

// NewPostingInstructionsDirective validates d unless trusted.
func NewPostingInstructionsDirective(d PostingInstructionsDirective, opts ...strongtyping.Option) (*PostingInstructionsDirective, error) {
	return construct(d, opts)
}

func (d *PostingInstructionsDirective) validate() error {
	items, err := strongtyping.GetIterator(d.PostingInstructions, "CustomInstruction", "posting_instructions", true)
	if err != nil {
		return err
	}
	if n := len(d.PostingInstructions); n > MaxInstructionsPerDirective {
		return sdkerr.InvalidSmartContractf("Too many posting instructions submitted in the Posting Instructions Directive. "+
			"Number submitted: %d. Limit: %d.", n, MaxInstructionsPerDirective)
	}
	for _, pi := range items {
		if err := strongtyping.ValidateType(pi, strongtyping.InstanceOf[postings.PostingInstruction](),
			strongtyping.WithHint("List[CustomInstruction]")); err != nil {
			return err
		}
		custom, ok := pi.(*postings.CustomInstruction)
		if !ok {
			return sdkerr.InvalidSmartContractf("Posting instruction of type %s cannot be instructed from a Contract.",
				pi.Type().Literal())
		}
		if err := custom.ValidatePostingsAndZeroNetSum(); err != nil {
			return err
		}
	}
	if d.ValueDatetime != nil {
		if err := strongtyping.CheckUTC(*d.ValueDatetime, "value_datetime", "PostingInstructionsDirective"); err != nil {
			return err
		}
	}
	return nil
}

// Attribute implements types.AttributeReader.
func (d *PostingInstructionsDirective) Attribute(name string) (any, bool) {
	switch name {
	case "client_batch_id":
		if d.ClientBatchID == "" {
			return nil, true
		}
		return d.ClientBatchID, true
	case "value_datetime":
		if d.ValueDatetime == nil {
			return nil, true
		}
		return *d.ValueDatetime, true
	}
	return nil, false
}

// AccountNotificationDirective publishes a notification about the account.
type AccountNotificationDirective struct {
	NotificationType    string            `json:"notification_type" yaml:"notification_type"`
	NotificationDetails map[string]string `json:"notification_details" yaml:"notification_details"`
}

// NewAccountNotificationDirective validates d unless trusted.
func NewAccountNotificationDirective(d AccountNotificationDirective, opts ...strongtyping.Option) (*AccountNotificationDirective, error) {
	return construct(d, opts)
}

func (d *AccountNotificationDirective) validate() error {
	if len(d.NotificationDetails) == 0 {
		return sdkerr.InvalidSmartContractf("AccountNotificationDirective 'notification_details' must be populated")
	}
	return nil
}

// validateDirectives rejects nil entries in a directive list.
func validateDirectives[T any](directives []*T, hint, name string) error {
	if directives == nil {
		return nil
	}
	items, err := strongtyping.GetIterator(directives, hint, name, false)
	if err != nil {
		return err
	}
	for _, d := range items {
		if err := strongtyping.ValidateType(d, strongtyping.InstanceOf[*T](), strongtyping.WithHint("List["+hint+"]")); err != nil {
			return err
		}
	}
	return nil
}
