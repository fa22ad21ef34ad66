package balances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTsideRendering(t *testing.T) {
	assert.Equal(t, "Tside.ASSET", TsideAsset.String())
	assert.Equal(t, "Tside.LIABILITY", TsideLiability.Literal())
	assert.Equal(t, "Tside(7)", Tside(7).String())
	assert.True(t, TsideAsset.Valid())
	assert.False(t, Tside(0).Valid())
}

func TestPhaseRendering(t *testing.T) {
	assert.Equal(t, "Phase.COMMITTED", PhaseCommitted.String())
	assert.Equal(t, "Phase.PENDING_OUT", PhasePendingOut.Literal())
	assert.False(t, Phase("settled").Valid())
	assert.Len(t, Phases, 3)
}

func TestEnumTextRoundTrip(t *testing.T) {
	type doc struct {
		Tside Tside `yaml:"tside"`
		Phase Phase `yaml:"phase"`
	}

	var got doc
	require.NoError(t, yaml.Unmarshal([]byte("tside: liability\nphase: pending_in\n"), &got))
	assert.Equal(t, doc{Tside: TsideLiability, Phase: PhasePendingIn}, got)

	out, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, "tside: LIABILITY\nphase: PENDING_IN\n", string(out))

	var bad doc
	assert.Error(t, yaml.Unmarshal([]byte("tside: sideways\n"), &bad))
	assert.Error(t, yaml.Unmarshal([]byte("phase: settled\n"), &bad))
}

func TestEnumSpecs(t *testing.T) {
	tside := Tside(0).Spec()
	phase := Phase("").Spec()
	assert.NotNil(t, tside)
	assert.NotNil(t, phase)
}
