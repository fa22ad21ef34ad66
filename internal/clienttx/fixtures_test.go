package clienttx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
)

const (
	account = "1231234"
	camels  = "CAMELS"
)

var (
	t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(t time.Time) *time.Time { return &t }

func cp(credit bool, amount string, phase balances.Phase) postings.Posting {
	return postings.Posting{
		Credit:         credit,
		Amount:         d(amount),
		Denomination:   camels,
		AccountID:      account,
		AccountAddress: balances.DefaultAddress,
		Asset:          balances.DefaultAsset,
		Phase:          phase,
	}
}

func commit(t *testing.T, pi postings.PostingInstruction, value time.Time, committed ...postings.Posting) postings.PostingInstruction {
	t.Helper()
	require.NoError(t, pi.SetOutputAttributes(postings.OutputAttributes{
		ValueDatetime:     &value,
		CommittedPostings: committed,
		OwnAccountID:      account,
	}))
	return pi
}

func authorisation(ctid, amount string) postings.Authorisation {
	return postings.Authorisation{
		ClientTransactionID: ctid,
		Amount:              d(amount),
		Denomination:        camels,
		TargetAccountID:     account,
		InternalAccountID:   "internal",
	}
}

func outboundAuth(t *testing.T, amount string, value time.Time) postings.PostingInstruction {
	t.Helper()
	pi, err := postings.NewOutboundAuthorisation(authorisation("ct", amount))
	require.NoError(t, err)
	return commit(t, pi, value, cp(false, amount, balances.PhasePendingOut))
}

func inboundAuth(t *testing.T, amount string, value time.Time) postings.PostingInstruction {
	t.Helper()
	pi, err := postings.NewInboundAuthorisation(authorisation("ct", amount))
	require.NoError(t, err)
	return commit(t, pi, value, cp(true, amount, balances.PhasePendingIn))
}

func adjustment(t *testing.T, delta string, value time.Time) postings.PostingInstruction {
	t.Helper()
	amount := d(delta)
	pi, err := postings.NewAuthorisationAdjustment(postings.AuthorisationAdjustment{
		ClientTransactionID: "ct",
		AdjustmentAmount:    &postings.AdjustmentAmount{Amount: &amount},
	})
	require.NoError(t, err)
	return commit(t, pi, value, cp(false, delta, balances.PhasePendingOut))
}

func settlement(t *testing.T, amount string, final bool, value time.Time) postings.PostingInstruction {
	t.Helper()
	a := d(amount)
	pi, err := postings.NewSettlement(postings.Settlement{ClientTransactionID: "ct", Amount: &a, Final: &final})
	require.NoError(t, err)
	return commit(t, pi, value,
		cp(false, amount, balances.PhasePendingIn),
		cp(true, amount, balances.PhaseCommitted),
	)
}

func release(t *testing.T, amount string, value time.Time) postings.PostingInstruction {
	t.Helper()
	pi, err := postings.NewRelease(postings.Release{ClientTransactionID: "ct"})
	require.NoError(t, err)
	return commit(t, pi, value, cp(false, amount, balances.PhasePendingIn))
}

func effects(authorised, settled, unsettled string) postings.ClientTransactionEffects {
	return postings.ClientTransactionEffects{Authorised: d(authorised), Settled: d(settled), Unsettled: d(unsettled)}
}
