package balances

import (
	"time"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
	"github.com/roach88/vaultsdk/internal/types"
)

// BalanceTimeseries is a timeseries of balance snapshots. Reading before the
// first snapshot yields an empty dict, whose every coordinate is a zero Balance.
type BalanceTimeseries = strongtyping.Timeseries[*BalanceDefaultDict]

// NewBalanceTimeseries returns a BalanceTimeseries over items.
func NewBalanceTimeseries(items []strongtyping.TimeseriesItem[*BalanceDefaultDict], opts ...strongtyping.Option) (*BalanceTimeseries, error) {
	return strongtyping.NewNamedTimeseries("BalanceTimeseries", items,
		func() *BalanceDefaultDict { return NewBalanceDefaultDict(nil) }, opts...)
}

// BalancesObservation is a snapshot of an account's balances. ValueDatetime
// is nil for a live observation.
type BalancesObservation struct {
	Balances      *BalanceDefaultDict `json:"balances"`
	ValueDatetime *time.Time          `json:"value_datetime,omitempty"`
}

// NewBalancesObservation validates and returns an observation.
func NewBalancesObservation(balances *BalanceDefaultDict, valueDatetime *time.Time, opts ...strongtyping.Option) (*BalancesObservation, error) {
	o := &BalancesObservation{Balances: balances, ValueDatetime: valueDatetime}
	if strongtyping.Apply(opts).Trusted {
		return o, nil
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *BalancesObservation) validate() error {
	if o.ValueDatetime != nil {
		if err := strongtyping.CheckUTC(*o.ValueDatetime, "value_datetime", "BalancesObservation"); err != nil {
			return err
		}
	}
	return strongtyping.ValidateType(o.Balances, strongtyping.InstanceOf[*BalanceDefaultDict](),
		strongtyping.WithPrefix("BalancesObservation.balances"))
}

// Spec implements types.Describer.
func (BalancesObservation) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "value_datetime", Type: "Optional[datetime]", Docstring: "The time at which the balances are observed. None for a live balances observation. Must be a UTC datetime."},
		{Name: "balances", Type: "BalanceDefaultDict", Docstring: "The balances at the given datetime."},
	}
	return &types.ClassSpec{
		Name:             "BalancesObservation",
		Docstring:        "A snapshot of an Account's balances at a given time.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new BalancesObservation object.",
			Args:      attrs,
			New:       types.FieldConstructor[BalancesObservation]((*BalancesObservation).validate),
		},
	}
}

// AddressDetails describes an account address.
type AddressDetails struct {
	AccountAddress string   `json:"account_address"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
}

// NewAddressDetails validates and returns address details.
func NewAddressDetails(accountAddress, description string, tags []string, opts ...strongtyping.Option) (*AddressDetails, error) {
	a := &AddressDetails{AccountAddress: accountAddress, Description: description, Tags: tags}
	if strongtyping.Apply(opts).Trusted {
		return a, nil
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AddressDetails) validate() error {
	if a.AccountAddress == "" {
		return sdkerr.InvalidSmartContractf("AddressDetails 'account_address' must be populated")
	}
	if a.Tags == nil {
		return sdkerr.InvalidSmartContractf("AddressDetails 'tags' must be populated")
	}
	return nil
}

// Equal compares every field.
func (a *AddressDetails) Equal(o *AddressDetails) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.AccountAddress != o.AccountAddress || a.Description != o.Description || len(a.Tags) != len(o.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}

// Spec implements types.Describer.
func (AddressDetails) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "account_address", Type: "str", Docstring: "The account address the details describe."},
		{Name: "description", Type: "str", Docstring: "The human-readable description of the address."},
		{Name: "tags", Type: "List[str]", Docstring: "The list of string tags related to the described address."},
	}
	return &types.ClassSpec{
		Name:             "AddressDetails",
		Docstring:        "Address details gives a rich description of an address. The tags can be shared between addresses and even different accounts.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new AddressDetails object.",
			Args:      attrs,
			New:       types.FieldConstructor[AddressDetails]((*AddressDetails).validate),
		},
	}
}
