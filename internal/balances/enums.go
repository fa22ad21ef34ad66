package balances

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/types"
)

// Tside is the ledger side that determines the sign of a Balance's net.
type Tside int

const (
	TsideAsset     Tside = 1
	TsideLiability Tside = 2
)

var tsideNames = map[Tside]string{
	TsideAsset:     "ASSET",
	TsideLiability: "LIABILITY",
}

// Valid reports whether t is a declared member.
func (t Tside) Valid() bool {
	_, ok := tsideNames[t]
	return ok
}

// String returns the qualified member name, e.g. "Tside.ASSET".
func (t Tside) String() string {
	if name, ok := tsideNames[t]; ok {
		return "Tside." + name
	}
	return fmt.Sprintf("Tside(%d)", int(t))
}

// Literal implements valuefmt.Literaler.
func (t Tside) Literal() string { return t.String() }

// NetSign is +1 for TsideLiability and -1 for TsideAsset.
func (t Tside) NetSign() decimal.Decimal {
	if t == TsideAsset {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tside) MarshalText() ([]byte, error) {
	name, ok := tsideNames[t]
	if !ok {
		return nil, fmt.Errorf("invalid tside %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText accepts a member name, case-insensitively.
func (t *Tside) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToUpper(string(text)), "TSIDE.")
	for v, name := range tsideNames {
		if name == s {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("invalid tside %q: expected ASSET or LIABILITY", string(text))
}

// Spec implements types.Describer.
func (Tside) Spec() types.Spec {
	return &types.EnumSpec{
		Name:      "Tside",
		Docstring: "Account treasury side - determine account Balance net sign.",
		Members: types.EnumMembers(
			types.EnumMember{Name: "ASSET", Value: TsideAsset},
			types.EnumMember{Name: "LIABILITY", Value: TsideLiability},
		),
	}
}

// Phase is the settlement stage a posting's funds are in.
type Phase string

const (
	PhaseCommitted  Phase = "committed"
	PhasePendingIn  Phase = "pending_in"
	PhasePendingOut Phase = "pending_out"
)

var phaseNames = map[Phase]string{
	PhaseCommitted:  "COMMITTED",
	PhasePendingIn:  "PENDING_IN",
	PhasePendingOut: "PENDING_OUT",
}

// Phases lists every phase in declaration order.
var Phases = []Phase{PhaseCommitted, PhasePendingIn, PhasePendingOut}

// Valid reports whether p is a declared member.
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// String returns the qualified member name, e.g. "Phase.COMMITTED".
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return "Phase." + name
	}
	return fmt.Sprintf("Phase(%q)", string(p))
}

// Literal implements valuefmt.Literaler.
func (p Phase) Literal() string { return p.String() }

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	name, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("invalid phase %q", string(p))
	}
	return []byte(name), nil
}

// UnmarshalText accepts a member name or value, case-insensitively.
func (p *Phase) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.ToUpper(string(text)), "PHASE.")
	for v, name := range phaseNames {
		if name == s || strings.ToUpper(string(v)) == s {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("invalid phase %q: expected COMMITTED, PENDING_IN or PENDING_OUT", string(text))
}

// Spec implements types.Describer.
func (Phase) Spec() types.Spec {
	return &types.EnumSpec{
		Name:      "Phase",
		Docstring: "The availability of a given Balance.",
		Members: types.EnumMembers(
			types.EnumMember{Name: "COMMITTED", Value: PhaseCommitted},
			types.EnumMember{Name: "PENDING_IN", Value: PhasePendingIn},
			types.EnumMember{Name: "PENDING_OUT", Value: PhasePendingOut},
		),
	}
}
