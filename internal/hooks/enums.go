package hooks

import (
	"fmt"
	"strings"

	"github.com/roach88/vaultsdk/internal/types"
)

// RejectionReason classifies a Rejection.
type RejectionReason int

const (
	ReasonUnknown                   RejectionReason = 0
	ReasonInsufficientFunds         RejectionReason = 1
	ReasonWrongDenomination         RejectionReason = 2
	ReasonAgainstTermsAndConditions RejectionReason = 3
	ReasonClientCustomReason        RejectionReason = 4
)

var rejectionReasonNames = map[RejectionReason]string{
	ReasonUnknown:                   "UNKNOWN_REASON",
	ReasonInsufficientFunds:         "INSUFFICIENT_FUNDS",
	ReasonWrongDenomination:         "WRONG_DENOMINATION",
	ReasonAgainstTermsAndConditions: "AGAINST_TNC",
	ReasonClientCustomReason:        "CLIENT_CUSTOM_REASON",
}

// Valid reports whether r is a declared member.
func (r RejectionReason) Valid() bool {
	_, ok := rejectionReasonNames[r]
	return ok
}

// String returns the qualified member name, e.g. "RejectionReason.AGAINST_TNC".
func (r RejectionReason) String() string {
	if name, ok := rejectionReasonNames[r]; ok {
		return "RejectionReason." + name
	}
	return fmt.Sprintf("RejectionReason(%d)", int(r))
}

// Literal implements valuefmt.Literaler.
func (r RejectionReason) Literal() string { return r.String() }

// MarshalText implements encoding.TextMarshaler.
func (r RejectionReason) MarshalText() ([]byte, error) {
	name, ok := rejectionReasonNames[r]
	if !ok {
		return nil, fmt.Errorf("invalid rejection reason %d", int(r))
	}
	return []byte(name), nil
}

// UnmarshalText accepts a member name, case-insensitively.
func (r *RejectionReason) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToUpper(string(text)), "REJECTIONREASON.")
	for v, name := range rejectionReasonNames {
		if name == s {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("invalid rejection reason %q", string(text))
}

// Spec implements types.Describer.
func (RejectionReason) Spec() types.Spec {
	return &types.EnumSpec{
		Name:      "RejectionReason",
		Docstring: "The reason a hook rejected the action it was called for.",
		Members: types.EnumMembers(
			types.EnumMember{Name: "UNKNOWN_REASON", Value: ReasonUnknown},
			types.EnumMember{Name: "INSUFFICIENT_FUNDS", Value: ReasonInsufficientFunds},
			types.EnumMember{Name: "WRONG_DENOMINATION", Value: ReasonWrongDenomination},
			types.EnumMember{Name: "AGAINST_TNC", Value: ReasonAgainstTermsAndConditions},
			types.EnumMember{Name: "CLIENT_CUSTOM_REASON", Value: ReasonClientCustomReason},
		),
	}
}
