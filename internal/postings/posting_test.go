package postings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func posting(account string, credit bool, amount string, phase balances.Phase) Posting {
	return Posting{
		Credit:         credit,
		Amount:         d(amount),
		Denomination:   "GBP",
		AccountID:      account,
		AccountAddress: balances.DefaultAddress,
		Asset:          balances.DefaultAsset,
		Phase:          phase,
	}
}

func TestNewPosting(t *testing.T) {
	valid := posting("acc", true, "10", balances.PhaseCommitted)

	tests := []struct {
		name    string
		mutate  func(p *Posting)
		wantErr string
		kind    sdkerr.Kind
	}{
		{name: "valid", mutate: func(*Posting) {}},
		{name: "zero amount", mutate: func(p *Posting) { p.Amount = decimal.Zero }},
		{
			name: "missing strings listed in declaration order",
			mutate: func(p *Posting) {
				p.Denomination = ""
				p.AccountAddress = ""
				p.Asset = ""
			},
			wantErr: "Postings missing required argument(s): ['denomination', 'account_address', 'asset']",
			kind:    sdkerr.KindInvalidSmartContract,
		},
		{
			name:    "missing account id",
			mutate:  func(p *Posting) { p.AccountID = "" },
			wantErr: "Postings missing required argument(s): ['account_id']",
			kind:    sdkerr.KindInvalidSmartContract,
		},
		{
			name:    "negative amount",
			mutate:  func(p *Posting) { p.Amount = d("-10") },
			wantErr: "Amount must be greater than 0, -10",
			kind:    sdkerr.KindInvalidSmartContract,
		},
		{
			name:    "unknown phase",
			mutate:  func(p *Posting) { p.Phase = "settled" },
			wantErr: "'phase' must be set to a Phase value",
			kind:    sdkerr.KindStrongTyping,
		},
		{
			name: "missing strings reported before the amount",
			mutate: func(p *Posting) {
				p.Asset = ""
				p.Amount = d("-1")
			},
			wantErr: "Postings missing required argument(s): ['asset']",
			kind:    sdkerr.KindInvalidSmartContract,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			got, err := NewPosting(p)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, tt.kind, sdkerr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(p))
		})
	}
}

func TestNewPostingTrustedSkipsValidation(t *testing.T) {
	p := Posting{Amount: d("-5")}
	got, err := NewPosting(p, strongtyping.Trusted())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(d("-5")))
}

func TestPostingCoordinate(t *testing.T) {
	p := posting("acc", false, "1", balances.PhasePendingOut)
	assert.Equal(t, balances.BalanceCoordinate{
		AccountAddress: balances.DefaultAddress,
		Asset:          balances.DefaultAsset,
		Denomination:   "GBP",
		Phase:          balances.PhasePendingOut,
	}, p.Coordinate())
}

func TestNewTransactionCode(t *testing.T) {
	tc, err := NewTransactionCode("PMNT", "ICDT", "STDO")
	require.NoError(t, err)
	assert.Equal(t, "ICDT", tc.Family)

	tests := []struct {
		domain, family, subfamily string
		wantErr                   string
	}{
		{"", "f", "s", "'TransactionCode.domain' must be a non-empty string"},
		{"d", " ", "s", "'TransactionCode.family' must be a non-empty string"},
		{"d", "f", "", "'TransactionCode.subfamily' must be a non-empty string"},
	}
	for _, tt := range tests {
		_, err := NewTransactionCode(tt.domain, tt.family, tt.subfamily)
		require.Error(t, err)
		assert.True(t, sdkerr.IsInvalidSmartContract(err))
		assert.EqualError(t, err, tt.wantErr)
	}
}

func TestNewAdjustmentAmount(t *testing.T) {
	const msg = "Either amount or replacement amount argument must be set, not both."

	tests := []struct {
		name        string
		amount      *decimal.Decimal
		replacement *decimal.Decimal
		wantErr     bool
	}{
		{name: "delta", amount: dp("7")},
		{name: "negative delta", amount: dp("-7")},
		{name: "replacement", replacement: dp("50")},
		{name: "zero delta with replacement", amount: dp("0"), replacement: dp("50")},
		{name: "neither", wantErr: true},
		{name: "both", amount: dp("7"), replacement: dp("50"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdjustmentAmount(tt.amount, tt.replacement)
			if tt.wantErr {
				assert.EqualError(t, err, msg)
				assert.True(t, sdkerr.IsInvalidSmartContract(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeriveBalanceDiff(t *testing.T) {
	ps := []Posting{
		posting("acc", true, "10", balances.PhaseCommitted),
		posting("acc", false, "4", balances.PhaseCommitted),
		posting("acc", true, "1.5", balances.PhaseCommitted),
		posting("acc", false, "3", balances.PhasePendingOut),
	}
	diff := DeriveBalanceDiff(ps)
	require.Len(t, diff, 2)

	committed := diff[ps[0].Coordinate()]
	assert.True(t, committed.Credit.Equal(d("11.5")))
	assert.True(t, committed.Debit.Equal(d("4")))

	pending := diff[ps[3].Coordinate()]
	assert.True(t, pending.Credit.IsZero())
	assert.True(t, pending.Debit.Equal(d("3")))

	merged := MergeBalanceDiff(diff, DeriveBalanceDiff(ps[:1]))
	assert.True(t, merged[ps[0].Coordinate()].Credit.Equal(d("21.5")))
	assert.True(t, diff[ps[0].Coordinate()].Credit.Equal(d("11.5")), "inputs are not modified")

	sided := SidedBalances(diff, balances.TsideAsset)
	assert.True(t, sided.Get(ps[0].Coordinate()).Net.Equal(d("-7.5")))
	assert.True(t, sided.Get(ps[3].Coordinate()).Net.Equal(d("3")))
}
