package balances

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/types"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Balance is the credit, debit and net total of one balance bucket.
type Balance struct {
	Credit decimal.Decimal `json:"credit" yaml:"credit"`
	Debit  decimal.Decimal `json:"debit" yaml:"debit"`
	Net    decimal.Decimal `json:"net" yaml:"net"`
}

// Adjust accumulates credit and debit and recomputes net from the totals
// for tside.
func (b *Balance) Adjust(tside Tside, credit, debit decimal.Decimal) {
	b.Credit = b.Credit.Add(credit)
	b.Debit = b.Debit.Add(debit)
	b.Net = b.Credit.Sub(b.Debit).Mul(tside.NetSign())
}

// Add returns the componentwise sum. Net is summed, not recomputed.
func (b Balance) Add(o Balance) Balance {
	return Balance{
		Credit: b.Credit.Add(o.Credit),
		Debit:  b.Debit.Add(o.Debit),
		Net:    b.Net.Add(o.Net),
	}
}

// Equal compares numerically.
func (b Balance) Equal(o Balance) bool {
	return b.Credit.Equal(o.Credit) && b.Debit.Equal(o.Debit) && b.Net.Equal(o.Net)
}

// IsZero reports whether every component is zero.
func (b Balance) IsZero() bool {
	return b.Credit.IsZero() && b.Debit.IsZero() && b.Net.IsZero()
}

func (b Balance) String() string {
	return fmt.Sprintf("Balance(credit=%s, debit=%s, net=%s)", b.Credit, b.Debit, b.Net)
}

// Spec implements types.Describer.
func (Balance) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "credit", Type: "Decimal", Docstring: "The total credit balance"},
		{Name: "debit", Type: "Decimal", Docstring: "The total debit balance"},
		{Name: "net", Type: "Decimal", Docstring: "The total net balance. For Tside.LIABILITY this is (credit - debit); for Tside.ASSET it is (debit - credit)."},
	}
	return &types.ClassSpec{
		Name:             "Balance",
		Docstring:        "The credit, debit, and net balances (credit - debit) for a given balance phase.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new Balance object.",
			Args:      attrs,
			New:       types.FieldConstructor[Balance](nil),
		},
	}
}

// BalanceCoordinate identifies one balance bucket.
type BalanceCoordinate struct {
	AccountAddress string `json:"account_address" yaml:"account_address"`
	Asset          string `json:"asset" yaml:"asset"`
	Denomination   string `json:"denomination" yaml:"denomination"`
	Phase          Phase  `json:"phase" yaml:"phase"`
}

// Compare orders coordinates field by field.
func (c BalanceCoordinate) Compare(o BalanceCoordinate) int {
	if n := strings.Compare(c.AccountAddress, o.AccountAddress); n != 0 {
		return n
	}
	if n := strings.Compare(c.Asset, o.Asset); n != 0 {
		return n
	}
	if n := strings.Compare(c.Denomination, o.Denomination); n != 0 {
		return n
	}
	return strings.Compare(string(c.Phase), string(o.Phase))
}

// Less reports whether c sorts before o.
func (c BalanceCoordinate) Less(o BalanceCoordinate) bool {
	return c.Compare(o) < 0
}

// Literal renders the coordinate as a tuple.
func (c BalanceCoordinate) Literal() string {
	return fmt.Sprintf("(%s, %s, %s, %s)",
		valuefmt.Literal(c.AccountAddress), valuefmt.Literal(c.Asset), valuefmt.Literal(c.Denomination), c.Phase)
}

func (c BalanceCoordinate) String() string {
	return fmt.Sprintf("BalanceCoordinate(account_address=%s, asset=%s, denomination=%s, phase=%s)",
		c.AccountAddress, c.Asset, c.Denomination, c.Phase)
}

// Spec implements types.Describer.
func (BalanceCoordinate) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "account_address", Type: "str", Docstring: "The account address associated with the Balance."},
		{Name: "asset", Type: "str", Docstring: "The underlying asset of the Balance."},
		{Name: "denomination", Type: "str", Docstring: "The underlying denomination of the Balance."},
		{Name: "phase", Type: "Phase", Docstring: "The current phase of the Balance."},
	}
	return &types.ClassSpec{
		Name:             "BalanceCoordinate",
		Docstring:        "Unique key for BalanceDefaultDict made up of attributes identifying a particular Balance.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new BalanceCoordinate object.",
			Args:      attrs,
			New:       types.FieldConstructor[BalanceCoordinate](nil),
		},
	}
}

// BalanceDefaultDict maps coordinates to balances. Reading a missing
// coordinate yields a zero Balance without storing it.
type BalanceDefaultDict struct {
	m map[BalanceCoordinate]Balance
}

// NewBalanceDefaultDict returns a dict holding a copy of mapping.
func NewBalanceDefaultDict(mapping map[BalanceCoordinate]Balance) *BalanceDefaultDict {
	d := &BalanceDefaultDict{m: make(map[BalanceCoordinate]Balance, len(mapping))}
	maps.Copy(d.m, mapping)
	return d
}

// Get returns the balance at c, or a zero Balance.
func (d *BalanceDefaultDict) Get(c BalanceCoordinate) Balance {
	if d == nil {
		return Balance{}
	}
	return d.m[c]
}

// Lookup returns the balance at c and whether it is present.
func (d *BalanceDefaultDict) Lookup(c BalanceCoordinate) (Balance, bool) {
	if d == nil {
		return Balance{}, false
	}
	b, ok := d.m[c]
	return b, ok
}

// Set stores b at c.
func (d *BalanceDefaultDict) Set(c BalanceCoordinate, b Balance) {
	d.m[c] = b
}

// Adjust applies credit and debit to the balance at c for tside.
func (d *BalanceDefaultDict) Adjust(c BalanceCoordinate, tside Tside, credit, debit decimal.Decimal) {
	b := d.m[c]
	b.Adjust(tside, credit, debit)
	d.m[c] = b
}

// Keys returns the coordinates in order.
func (d *BalanceDefaultDict) Keys() []BalanceCoordinate {
	if d == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(d.m))
	slices.SortFunc(keys, BalanceCoordinate.Compare)
	return keys
}

// Len returns the number of stored coordinates.
func (d *BalanceDefaultDict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.m)
}

// Map returns a copy of the entries.
func (d *BalanceDefaultDict) Map() map[BalanceCoordinate]Balance {
	if d == nil {
		return map[BalanceCoordinate]Balance{}
	}
	return maps.Clone(d.m)
}

// Copy returns an independent copy.
func (d *BalanceDefaultDict) Copy() *BalanceDefaultDict {
	return NewBalanceDefaultDict(d.Map())
}

// Add returns a new dict holding the per-coordinate sum of d and other.
// Coordinates present on only one side are kept as they are.
func (d *BalanceDefaultDict) Add(other *BalanceDefaultDict) *BalanceDefaultDict {
	out := d.Copy()
	out.AddInPlace(other)
	return out
}

// AddInPlace adds other into d.
func (d *BalanceDefaultDict) AddInPlace(other *BalanceDefaultDict) {
	if other == nil {
		return
	}
	for c, b := range other.m {
		d.m[c] = d.m[c].Add(b)
	}
}

// Equal reports whether both dicts hold the same coordinates with equal balances.
func (d *BalanceDefaultDict) Equal(other *BalanceDefaultDict) bool {
	if d.Len() != other.Len() {
		return false
	}
	for c, b := range d.Map() {
		ob, ok := other.Lookup(c)
		if !ok || !b.Equal(ob) {
			return false
		}
	}
	return true
}

// String renders the entries as a dict of strings.
func (d *BalanceDefaultDict) String() string {
	entries := make(map[string]string, d.Len())
	for c, b := range d.Map() {
		entries[c.String()] = b.String()
	}
	return valuefmt.Literal(entries)
}

// Spec implements types.Describer.
func (BalanceDefaultDict) Spec() types.Spec {
	return &types.ClassSpec{
		Name: "BalanceDefaultDict",
		Docstring: "The key is a BalanceCoordinate object which contains the account_address, asset, " +
			"denomination and phase. The value is a Balance object which contains the debit, credit " +
			"and net balance changes. If a non-existing key is accessed, a zero Balance is returned. " +
			"BalanceDefaultDict objects support addition.",
	}
}
