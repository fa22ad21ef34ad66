package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/hooks"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/types"
)

func TestNewRegistryNames(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)

	for _, name := range []string{
		"Decimal", "datetime", "Tside", "Phase", "BalanceDefaultDict", "Posting",
		"CustomInstruction", "Settlement", "ClientTransaction", "ClientTransactionEffects",
		"Rejection", "RejectionReason", "PostingInstructionsDirective", "PostPostingHookArguments",
	} {
		_, ok := r.Spec(name)
		assert.True(t, ok, name)
	}
	assert.Len(t, r.Names(), len(Items()))
}

func TestNewRegistryRejectsDuplicateExtra(t *testing.T) {
	_, err := NewRegistry([]any{balances.Tside(0)})
	require.Error(t, err)
	assert.True(t, sdkerr.IsInvalidSmartContract(err))
	assert.EqualError(t, err, "Name 'Tside' is multiply defined in TypeRegistry")
}

func TestRegistryChecksCatalogTypes(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)

	reason := hooks.ReasonInsufficientFunds
	tests := []struct {
		typeName string
		value    any
		want     bool
	}{
		{"Tside", balances.TsideAsset, true},
		{"Tside", 1, false},
		{"Optional[RejectionReason]", nil, true},
		{"Optional[RejectionReason]", reason, true},
		{"Rejection", &hooks.Rejection{Message: "no"}, true},
		{"Rejection", hooks.Rejection{Message: "no"}, true},
		{"Rejection", "no", false},
		{"List[Phase]", []balances.Phase{balances.PhaseCommitted}, true},
		{"List[Phase]", []any{"committed"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, err := r.Check(tt.typeName, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrebuiltInstances(t *testing.T) {
	prebuilt, err := PrebuiltInstances()
	require.NoError(t, err)

	r, err := NewRegistry(nil)
	require.NoError(t, err)
	for typeName, v := range prebuilt {
		assert.NoError(t, r.AssertTypeName(typeName, v, ""), typeName)
	}
}

func TestCheckSanity(t *testing.T) {
	report, err := CheckSanity(nil)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.String())
}

func TestCheckSanityWithExtraItems(t *testing.T) {
	report, err := CheckSanity([]any{&types.FixedValueSpec{Name: "LIMIT", Type: "int", FixedValue: 64}})
	require.NoError(t, err)
	assert.True(t, report.OK(), report.String())
}
