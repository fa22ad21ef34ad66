package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
)

func TestAppendInstruction_AssignsIDAndSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2")

	id1, err := s.AppendInstruction(ctx, account, inboundAuthRecord("ct-1", "10", t1))
	require.NoError(t, err)
	id2, err := s.AppendInstruction(ctx, account, settlementRecord("ct-1", "4", false, t2))
	require.NoError(t, err)
	assert.Equal(t, "id-1", id1)
	assert.Equal(t, "id-2", id2)

	stored, err := s.ReadInstructions(ctx, account, "ct-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, int64(1), stored[0].Seq)
	assert.Equal(t, int64(2), stored[1].Seq)
	assert.Equal(t, postings.TypeInboundAuthorisation, stored[0].Record.Type)
	assert.Equal(t, postings.TypeSettlement, stored[1].Record.Type)
	assert.Equal(t, "id-1", stored[0].Record.Output.InstructionID)
	assert.Equal(t, account, stored[0].Record.Output.OwnAccountID)
	assert.Equal(t, "ct-1", stored[0].Record.Output.ClientTransactionID)
	assert.True(t, stored[0].Record.Amount.Equal(*dec("10")))
}

func TestAppendInstruction_KeepsExistingID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	rec := inboundAuthRecord("ct-1", "10", t1)
	rec.Output.InstructionID = "given"

	id, err := s.AppendInstruction(ctx, account, rec)
	require.NoError(t, err)
	assert.Equal(t, "given", id)

	// Re-appending the same id is a no-op.
	id, err = s.AppendInstruction(ctx, account, rec)
	require.NoError(t, err)
	assert.Equal(t, "given", id)

	stored, err := s.ReadInstructions(ctx, account, "ct-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAppendInstruction_DefaultGeneratorIsUUID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	s.ids = postings.UUIDv7Generator{}

	id, err := s.AppendInstruction(ctx, account, inboundAuthRecord("ct-1", "10", t1))
	require.NoError(t, err)
	assert.Len(t, id, 36)
}

func TestAppendInstruction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		account string
		rec     postings.Record
		wantErr string
	}{
		{
			name:    "missing account",
			account: "",
			rec:     inboundAuthRecord("ct-1", "10", t1),
			wantErr: "account id is required",
		},
		{
			name:    "unknown type",
			account: account,
			rec:     postings.Record{Type: "Bogus", ClientTransactionID: "ct-1"},
			wantErr: `unknown posting instruction type "Bogus"`,
		},
		{
			name:    "no client transaction id",
			account: account,
			rec:     postings.Record{Type: postings.TypeTransfer},
			wantErr: "Transfer has no client transaction id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			_, err := s.AppendInstruction(context.Background(), tt.account, tt.rec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppendInstruction_OutputClientTransactionID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1")

	rec := postings.Record{
		Type:              postings.TypeInboundHardSettlement,
		Amount:            dec("5"),
		Denomination:      camels,
		TargetAccountID:   account,
		InternalAccountID: "internal",
		Output:            postings.OutputAttributes{ClientTransactionID: "hard-1"},
	}
	_, err := s.AppendInstruction(ctx, account, rec)
	require.NoError(t, err)

	ids, err := s.ClientTransactionIDs(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, []string{"hard-1"}, ids)
}

func TestAppendInstructions_StopsAtFirstError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2")

	ids, err := s.AppendInstructions(ctx, account, []postings.Record{
		inboundAuthRecord("ct-1", "10", t1),
		{Type: "Bogus"},
		settlementRecord("ct-1", "10", true, t2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction 1")
	assert.Equal(t, []string{"id-1"}, ids)
}

func TestReadInstructions_Empty(t *testing.T) {
	s := createTestStore(t)

	stored, err := s.ReadInstructions(context.Background(), account, "missing")
	require.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Empty(t, stored)
}

func TestClientTransactionIDs_OrderedByFirstInstruction(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2", "id-3", "id-4")

	_, err := s.AppendInstructions(ctx, account, []postings.Record{
		inboundAuthRecord("zeta", "10", t1),
		inboundAuthRecord("alpha", "10", t1),
		settlementRecord("zeta", "10", true, t2),
	})
	require.NoError(t, err)
	_, err = s.AppendInstruction(ctx, "other-account", inboundAuthRecord("beta", "1", t1))
	require.NoError(t, err)

	ids, err := s.ClientTransactionIDs(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, ids)

	ids, err = s.ClientTransactionIDs(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestLoadClientTransaction(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1", "id-2")

	_, err := s.AppendInstructions(ctx, account, []postings.Record{
		inboundAuthRecord("ct-1", "10", t1),
		settlementRecord("ct-1", "4", false, t2),
	})
	require.NoError(t, err)

	ct, err := s.LoadClientTransaction(ctx, account, "ct-1", balances.TsideLiability)
	require.NoError(t, err)
	assert.Equal(t, "ct-1", ct.ClientTransactionID())
	assert.Equal(t, account, ct.AccountID())
	require.Len(t, ct.PostingInstructions(), 2)
	assert.Equal(t, "id-1", ct.PostingInstructions()[0].OutputAttributes().InstructionID)

	effects, err := ct.Effects(nil)
	require.NoError(t, err)
	want := postings.ClientTransactionEffects{Authorised: *dec("10"), Settled: *dec("4"), Unsettled: *dec("6")}
	assert.True(t, want.Equal(*effects), "got %s", effects)

	got, err := ct.Balances(&t3, balances.TsideLiability)
	require.NoError(t, err)
	committed := got.Get(balances.BalanceCoordinate{
		AccountAddress: balances.DefaultAddress,
		Asset:          balances.DefaultAsset,
		Denomination:   camels,
		Phase:          balances.PhaseCommitted,
	})
	assert.True(t, committed.Net.Equal(*dec("4")), "committed net %s", committed.Net)

	completed, err := ct.Completed(nil)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestLoadClientTransaction_Missing(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadClientTransaction(context.Background(), account, "ct-1", balances.TsideLiability)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no instructions for account main-account")
}

func TestLoadClientTransaction_LifecycleStillEnforced(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, "id-1")

	// A settlement with no authorisation before it cannot be replayed.
	_, err := s.AppendInstruction(ctx, account, settlementRecord("ct-1", "4", false, t2))
	require.NoError(t, err)

	_, err = s.LoadClientTransaction(ctx, account, "ct-1", balances.TsideLiability)
	require.Error(t, err)
}
