package clienttx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/sdkerr"
)

type step struct {
	at    *time.Time
	typ   postings.InstructionType
	final bool
	post  []postings.Posting
}

var (
	pendingOut = []postings.Posting{cp(false, "1", balances.PhasePendingOut)}
	committed  = []postings.Posting{cp(true, "1", balances.PhaseCommitted)}
)

func TestLedgerAdd(t *testing.T) {
	tests := []struct {
		name    string
		steps   []step
		wantErr string
	}{
		{
			name: "authorise adjust settle",
			steps: []step{
				{at(t0), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeAuthorisationAdjustment, false, pendingOut},
				{at(t2), postings.TypeSettlement, true, pendingOut},
			},
		},
		{
			name: "same instant is not backdating",
			steps: []step{
				{at(t1), postings.TypeInboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeRelease, false, pendingOut},
			},
		},
		{
			name: "custom chain",
			steps: []step{
				{at(t0), postings.TypeCustomInstruction, false, committed},
				{at(t1), postings.TypeCustomInstruction, false, committed},
			},
		},
		{
			name:    "no postings",
			steps:   []step{{at(t0), postings.TypeTransfer, false, nil}},
			wantErr: "Committed Postings required",
		},
		{
			name: "foreign account",
			steps: []step{{at(t0), postings.TypeTransfer, false, []postings.Posting{
				{Credit: true, Amount: d("1"), Denomination: camels, AccountID: "other",
					AccountAddress: balances.DefaultAddress, Asset: balances.DefaultAsset, Phase: balances.PhaseCommitted},
			}}},
			wantErr: "Cannot add this Committed Posting with account ID other to the Client Transaction for account ID 1231234",
		},
		{
			name:    "final on a release",
			steps:   []step{{at(t0), postings.TypeRelease, true, pendingOut}},
			wantErr: "Final flag can only be used with Settlement Posting Instructions",
		},
		{
			name:    "missing value datetime",
			steps:   []step{{nil, postings.TypeTransfer, false, committed}},
			wantErr: "All posting instructions within a ClientTransaction have to have a value_datetime set.",
		},
		{
			name:    "starts with a secondary",
			steps:   []step{{at(t0), postings.TypeSettlement, false, pendingOut}},
			wantErr: "A ClientTransaction cannot start with Settlement",
		},
		{
			name:    "unknown first type",
			steps:   []step{{at(t0), postings.InstructionType("Refund"), false, pendingOut}},
			wantErr: "Unknown instruction type Refund",
		},
		{
			name: "backdated",
			steps: []step{
				{at(t1), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t0), postings.TypeRelease, false, pendingOut},
			},
			wantErr: "ClientTransaction does not support backdating",
		},
		{
			name: "after final settlement",
			steps: []step{
				{at(t0), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeSettlement, true, pendingOut},
				{at(t2), postings.TypeRelease, false, pendingOut},
			},
			wantErr: "Client Transaction (id ct) has already been finalised",
		},
		{
			name: "after release",
			steps: []step{
				{at(t0), postings.TypeInboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeRelease, false, pendingOut},
				{at(t2), postings.TypeAuthorisationAdjustment, false, pendingOut},
			},
			wantErr: "Client Transaction (id ct) has already been finalised",
		},
		{
			name: "second primary",
			steps: []step{
				{at(t0), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeInboundAuthorisation, false, pendingOut},
			},
			wantErr: "Cannot add InboundAuthorisation to existing ClientTransaction (id ct)",
		},
		{
			name: "chained hard settlement",
			steps: []step{
				{at(t0), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeOutboundHardSettlement, false, committed},
			},
			wantErr: "Cannot add OutboundHardSettlement to existing ClientTransaction (id ct)",
		},
		{
			name: "secondary after hard settlement",
			steps: []step{
				{at(t0), postings.TypeInboundHardSettlement, false, committed},
				{at(t1), postings.TypeSettlement, false, committed},
			},
			wantErr: "Cannot add Settlement for an existing ClientTransaction (id ct) that did not start with " +
				"an InboundAuthorisation or an OutboundAuthorisation",
		},
		{
			name: "custom after authorisation",
			steps: []step{
				{at(t0), postings.TypeOutboundAuthorisation, false, pendingOut},
				{at(t1), postings.TypeCustomInstruction, false, committed},
			},
			wantErr: "Cannot add CustomInstruction for an existing ClientTransaction (id ct) that did not start " +
				"with a CustomInstruction",
		},
		{
			name: "unknown chained type",
			steps: []step{
				{at(t0), postings.TypeCustomInstruction, false, committed},
				{at(t1), postings.InstructionType("Refund"), false, committed},
			},
			wantErr: "Unknown instruction type Refund",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger("ct", account)
			var err error
			for _, s := range tt.steps {
				if err = l.Add(s.at, s.post, s.typ, s.final); err != nil {
					break
				}
			}
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, len(tt.steps), l.Len())
				return
			}
			require.Error(t, err)
			assert.True(t, sdkerr.IsInvalidPostingInstruction(err))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLedgerRejectedAddLeavesStateAlone(t *testing.T) {
	l := NewLedger("ct", account)
	require.NoError(t, l.Add(at(t1), pendingOut, postings.TypeOutboundAuthorisation, false))
	require.Error(t, l.Add(at(t0), pendingOut, postings.TypeRelease, false))

	assert.Equal(t, 1, l.Len())
	assert.False(t, l.Released())
	require.NoError(t, l.Add(at(t2), pendingOut, postings.TypeRelease, false))
	assert.True(t, l.Released())
	assert.False(t, l.Completed())
}

func TestLedgerBalances(t *testing.T) {
	l := NewLedger("ct", account)
	assert.Empty(t, l.Balances(nil))

	require.NoError(t, l.Add(at(t1), []postings.Posting{cp(false, "40", balances.PhasePendingOut)},
		postings.TypeOutboundAuthorisation, false))
	require.NoError(t, l.Add(at(t2), []postings.Posting{cp(false, "7", balances.PhasePendingOut)},
		postings.TypeAuthorisationAdjustment, false))

	coord := cp(false, "1", balances.PhasePendingOut).Coordinate()
	tests := []struct {
		name  string
		at    *time.Time
		debit string
		empty bool
	}{
		{name: "latest", at: nil, debit: "47"},
		{name: "before first", at: at(t0), empty: true},
		{name: "at first inclusive", at: at(t1), debit: "40"},
		{name: "between", at: at(t1.Add(time.Minute)), debit: "40"},
		{name: "at second", at: at(t2), debit: "47"},
		{name: "after last", at: at(t3), debit: "47"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Balances(tt.at)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.True(t, got[coord].Debit.Equal(d(tt.debit)), "debit %s", got[coord].Debit)
			assert.True(t, got[coord].Credit.IsZero())
		})
	}
}
