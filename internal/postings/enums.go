package postings

import (
	"fmt"
	"strings"

	"github.com/roach88/vaultsdk/internal/types"
)

// InstructionType names a posting instruction variant.
type InstructionType string

const (
	TypeOutboundAuthorisation   InstructionType = "OutboundAuthorisation"
	TypeInboundAuthorisation    InstructionType = "InboundAuthorisation"
	TypeAuthorisation           InstructionType = "Authorisation"
	TypeAuthorisationAdjustment InstructionType = "AuthorisationAdjustment"
	TypeCustomInstruction       InstructionType = "CustomInstruction"
	TypeOutboundHardSettlement  InstructionType = "OutboundHardSettlement"
	TypeInboundHardSettlement   InstructionType = "InboundHardSettlement"
	TypeHardSettlement          InstructionType = "HardSettlement"
	TypeRelease                 InstructionType = "Release"
	TypeSettlement              InstructionType = "Settlement"
	TypeTransfer                InstructionType = "Transfer"
)

var instructionTypeNames = map[InstructionType]string{
	TypeOutboundAuthorisation:   "OUTBOUND_AUTHORISATION",
	TypeInboundAuthorisation:    "INBOUND_AUTHORISATION",
	TypeAuthorisation:           "AUTHORISATION",
	TypeAuthorisationAdjustment: "AUTHORISATION_ADJUSTMENT",
	TypeCustomInstruction:       "CUSTOM_INSTRUCTION",
	TypeOutboundHardSettlement:  "OUTBOUND_HARD_SETTLEMENT",
	TypeInboundHardSettlement:   "INBOUND_HARD_SETTLEMENT",
	TypeHardSettlement:          "HARD_SETTLEMENT",
	TypeRelease:                 "RELEASE",
	TypeSettlement:              "SETTLEMENT",
	TypeTransfer:                "TRANSFER",
}

// Valid reports whether t is a declared member.
func (t InstructionType) Valid() bool {
	_, ok := instructionTypeNames[t]
	return ok
}

// String returns the value, e.g. "Settlement".
func (t InstructionType) String() string { return string(t) }

// Literal implements valuefmt.Literaler.
func (t InstructionType) Literal() string {
	if name, ok := instructionTypeNames[t]; ok {
		return "PostingInstructionType." + name
	}
	return fmt.Sprintf("PostingInstructionType(%q)", string(t))
}

// UnmarshalText accepts a value ("Settlement") or a member name ("SETTLEMENT").
func (t *InstructionType) UnmarshalText(text []byte) error {
	s := string(text)
	upper := strings.TrimPrefix(strings.ToUpper(s), "POSTINGINSTRUCTIONTYPE.")
	for v, name := range instructionTypeNames {
		if string(v) == s || name == upper {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("unknown posting instruction type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t InstructionType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown posting instruction type %q", string(t))
	}
	return []byte(t), nil
}

// IsPrimary reports whether t may open a chain of secondary instructions.
func (t InstructionType) IsPrimary() bool {
	return t == TypeInboundAuthorisation || t == TypeOutboundAuthorisation
}

// IsSecondary reports whether t continues an authorised client transaction.
func (t InstructionType) IsSecondary() bool {
	return t == TypeAuthorisationAdjustment || t == TypeSettlement || t == TypeRelease
}

// IsNonChainable reports whether t settles immediately and admits no followers.
func (t InstructionType) IsNonChainable() bool {
	return t == TypeInboundHardSettlement || t == TypeOutboundHardSettlement || t == TypeTransfer
}

// Spec implements types.Describer.
func (InstructionType) Spec() types.Spec {
	members := make([]types.EnumMember, 0, len(instructionTypeNames))
	for v, name := range instructionTypeNames {
		members = append(members, types.EnumMember{Name: name, Value: v})
	}
	return &types.EnumSpec{
		Name:       "PostingInstructionType",
		Docstring:  "The type of a posting instruction.",
		Members:    types.EnumMembers(members...),
		ShowValues: true,
	}
}
