package balances

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBalanceAdjustTsideSign(t *testing.T) {
	pairs := []struct{ credit, debit string }{
		{"0", "0"},
		{"10", "3"},
		{"3", "10"},
		{"0.01", "1000000"},
		{"42.5", "42.5"},
	}

	for _, p := range pairs {
		t.Run(p.credit+"/"+p.debit, func(t *testing.T) {
			var liability, asset Balance
			liability.Adjust(TsideLiability, d(p.credit), d(p.debit))
			asset.Adjust(TsideAsset, d(p.credit), d(p.debit))

			assert.True(t, liability.Net.Equal(d(p.credit).Sub(d(p.debit))), "liability net = credit - debit")
			assert.True(t, asset.Net.Equal(d(p.debit).Sub(d(p.credit))), "asset net = debit - credit")
			assert.True(t, liability.Credit.Equal(asset.Credit))
			assert.True(t, liability.Debit.Equal(asset.Debit))
		})
	}
}

func TestBalanceAdjustAccumulates(t *testing.T) {
	var b Balance
	b.Adjust(TsideLiability, d("10"), decimal.Zero)
	b.Adjust(TsideLiability, decimal.Zero, d("4"))
	b.Adjust(TsideLiability, d("1"), d("1"))

	assert.Equal(t, "Balance(credit=11, debit=5, net=6)", b.String())
}

func TestBalanceAddCommutativeAndAssociative(t *testing.T) {
	a := Balance{Credit: d("1"), Debit: d("2"), Net: d("-1")}
	b := Balance{Credit: d("10.5"), Debit: d("0"), Net: d("-10.5")}
	c := Balance{Credit: d("0.25"), Debit: d("7"), Net: d("6.75")}

	assert.True(t, a.Add(b).Equal(b.Add(a)))
	assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))

	sum := a.Add(b)
	assert.True(t, sum.Net.Equal(d("-11.5")), "net is summed, not recomputed")
	assert.True(t, Balance{}.IsZero())
}

func TestBalanceCoordinateOrderAndRendering(t *testing.T) {
	a := BalanceCoordinate{AccountAddress: DefaultAddress, Asset: DefaultAsset, Denomination: "GBP", Phase: PhaseCommitted}
	b := BalanceCoordinate{AccountAddress: DefaultAddress, Asset: DefaultAsset, Denomination: "GBP", Phase: PhasePendingIn}
	c := BalanceCoordinate{AccountAddress: DefaultAddress, Asset: DefaultAsset, Denomination: "USD", Phase: PhaseCommitted}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, 0, a.Compare(a))

	assert.Equal(t, "BalanceCoordinate(account_address=DEFAULT, asset=COMMERCIAL_BANK_MONEY, denomination=GBP, phase=Phase.COMMITTED)", a.String())
	assert.Equal(t, "('DEFAULT', 'COMMERCIAL_BANK_MONEY', 'GBP', Phase.COMMITTED)", a.Literal())
}

func coord(denomination string, phase Phase) BalanceCoordinate {
	return BalanceCoordinate{AccountAddress: DefaultAddress, Asset: DefaultAsset, Denomination: denomination, Phase: phase}
}

func TestBalanceDefaultDictDefaults(t *testing.T) {
	dict := NewBalanceDefaultDict(nil)

	assert.True(t, dict.Get(coord("GBP", PhaseCommitted)).IsZero())
	assert.Equal(t, 0, dict.Len(), "reading does not store")

	dict.Adjust(coord("GBP", PhaseCommitted), TsideLiability, d("5"), decimal.Zero)
	got, ok := dict.Lookup(coord("GBP", PhaseCommitted))
	require.True(t, ok)
	assert.True(t, got.Net.Equal(d("5")))

	var nilDict *BalanceDefaultDict
	assert.True(t, nilDict.Get(coord("GBP", PhaseCommitted)).IsZero())
	assert.Equal(t, 0, nilDict.Len())
}

func TestBalanceDefaultDictAdd(t *testing.T) {
	left := NewBalanceDefaultDict(map[BalanceCoordinate]Balance{
		coord("GBP", PhaseCommitted): {Credit: d("1"), Net: d("1")},
		coord("GBP", PhasePendingIn): {Credit: d("2"), Net: d("2")},
	})
	right := NewBalanceDefaultDict(map[BalanceCoordinate]Balance{
		coord("GBP", PhaseCommitted): {Debit: d("3"), Net: d("-3")},
		coord("USD", PhaseCommitted): {Credit: d("4"), Net: d("4")},
	})

	sum := left.Add(right)

	want := map[BalanceCoordinate]Balance{
		coord("GBP", PhaseCommitted): {Credit: d("1"), Debit: d("3"), Net: d("-2")},
		coord("GBP", PhasePendingIn): {Credit: d("2"), Net: d("2")},
		coord("USD", PhaseCommitted): {Credit: d("4"), Net: d("4")},
	}
	if diff := cmp.Diff(want, sum.Map(), decimalComparer); diff != "" {
		t.Errorf("sum mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, sum.Equal(right.Add(left)), "addition is commutative")
	assert.Equal(t, 2, left.Len(), "Add leaves operands untouched")

	left.AddInPlace(right)
	assert.True(t, left.Equal(sum))

	assert.Equal(t, []BalanceCoordinate{
		coord("GBP", PhaseCommitted),
		coord("GBP", PhasePendingIn),
		coord("USD", PhaseCommitted),
	}, sum.Keys())
}

func TestBalanceDefaultDictEqual(t *testing.T) {
	a := NewBalanceDefaultDict(map[BalanceCoordinate]Balance{coord("GBP", PhaseCommitted): {Credit: d("1.0")}})
	b := NewBalanceDefaultDict(map[BalanceCoordinate]Balance{coord("GBP", PhaseCommitted): {Credit: d("1")}})
	c := NewBalanceDefaultDict(nil)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, c.Equal(NewBalanceDefaultDict(nil)))
}

func TestBalanceDefaultDictString(t *testing.T) {
	dict := NewBalanceDefaultDict(map[BalanceCoordinate]Balance{
		coord("GBP", PhaseCommitted): {Credit: d("1"), Net: d("1")},
	})
	assert.Equal(t,
		"{'BalanceCoordinate(account_address=DEFAULT, asset=COMMERCIAL_BANK_MONEY, denomination=GBP, phase=Phase.COMMITTED)': 'Balance(credit=1, debit=0, net=1)'}",
		dict.String())
}
