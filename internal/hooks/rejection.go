package hooks

import (
	"fmt"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// Rejection is returned on a hook result to refuse the action the hook was
// called for. A rejected result carries no directives.
type Rejection struct {
	Message    string           `json:"message" yaml:"message"`
	ReasonCode *RejectionReason `json:"reason_code,omitempty" yaml:"reason_code,omitempty"`
}

// NewRejection validates r unless trusted.
func NewRejection(r Rejection, opts ...strongtyping.Option) (*Rejection, error) {
	return construct(r, opts)
}

func (r *Rejection) validate() error {
	if r.Message == "" {
		return sdkerr.InvalidSmartContractf("Rejection 'message' must be populated")
	}
	return nil
}

// Reason returns the reason code, or ReasonUnknown when none was given.
func (r *Rejection) Reason() RejectionReason {
	if r.ReasonCode == nil {
		return ReasonUnknown
	}
	return *r.ReasonCode
}

// Attribute implements types.AttributeReader.
func (r *Rejection) Attribute(name string) (any, bool) {
	if name == "reason_code" {
		if r.ReasonCode == nil {
			return nil, true
		}
		return *r.ReasonCode, true
	}
	return nil, false
}

func (r *Rejection) String() string {
	if r.ReasonCode == nil {
		return fmt.Sprintf("Rejection(%q)", r.Message)
	}
	return fmt.Sprintf("Rejection(%q, %s)", r.Message, r.ReasonCode)
}
