package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
)

const (
	account = "main-account"
	camels  = "CAMELS"
)

var (
	t1 = time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

// createTestStore opens a fresh journal in a temp dir with fixed ids.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path, WithIDGenerator(postings.NewFixedGenerator(ids...)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func posting(credit bool, amount string, phase balances.Phase) postings.Posting {
	return postings.Posting{
		Credit:         credit,
		Amount:         *dec(amount),
		Denomination:   camels,
		AccountID:      account,
		AccountAddress: balances.DefaultAddress,
		Asset:          balances.DefaultAsset,
		Phase:          phase,
	}
}

func inboundAuthRecord(ctid, amount string, value time.Time) postings.Record {
	return postings.Record{
		Type:                postings.TypeInboundAuthorisation,
		ClientTransactionID: ctid,
		Amount:              dec(amount),
		Denomination:        camels,
		TargetAccountID:     account,
		InternalAccountID:   "internal",
		Output: postings.OutputAttributes{
			ValueDatetime:     &value,
			CommittedPostings: []postings.Posting{posting(true, amount, balances.PhasePendingIn)},
		},
	}
}

func settlementRecord(ctid, amount string, final bool, value time.Time) postings.Record {
	return postings.Record{
		Type:                postings.TypeSettlement,
		ClientTransactionID: ctid,
		Amount:              dec(amount),
		Final:               &final,
		Output: postings.OutputAttributes{
			ValueDatetime: &value,
			CommittedPostings: []postings.Posting{
				posting(false, amount, balances.PhasePendingIn),
				posting(true, amount, balances.PhaseCommitted),
			},
		},
	}
}
