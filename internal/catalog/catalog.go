// Package catalog assembles the namespace visible to contract code: the
// builtins, the native Decimal and datetime objects, and every type of the
// object model.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/clienttx"
	"github.com/roach88/vaultsdk/internal/hooks"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/types"
)

// Items returns the custom registry items in registration order.
func Items() []any {
	return []any{
		&types.NativeObjectSpec{Name: "Decimal", Object: types.DecimalType, Docstring: "Arbitrary precision decimal number."},
		&types.NativeObjectSpec{Name: "datetime", Object: types.DatetimeType, Docstring: "A point in time. Must be UTC where the object model says so."},

		balances.Tside(0),
		balances.Phase(""),
		balances.Balance{},
		balances.BalanceCoordinate{},
		balances.BalanceDefaultDict{},
		balances.BalancesObservation{},
		balances.AddressDetails{},

		postings.InstructionType(""),
		postings.Posting{},
		postings.TransactionCode{},
		postings.AdjustmentAmount{},
		postings.ClientTransactionEffects{},
		postings.InboundAuthorisation{},
		postings.OutboundAuthorisation{},
		postings.AuthorisationAdjustment{},
		postings.Settlement{},
		postings.Release{},
		postings.InboundHardSettlement{},
		postings.OutboundHardSettlement{},
		postings.Transfer{},
		postings.CustomInstruction{},

		clienttx.ClientTransaction{},

		hooks.RejectionReason(0),
		hooks.Rejection{},
		hooks.AccountNotificationDirective{},
		hooks.PostingInstructionsDirective{},
		hooks.PrePostingHookArguments{},
		hooks.PostPostingHookArguments{},
		hooks.ScheduledEventHookArguments{},
		hooks.PrePostingHookResult{},
		hooks.PostPostingHookResult{},
		hooks.ScheduledEventHookResult{},
	}
}

// NewRegistry returns a registry over the default builtins, Items and extra.
// Extra items, e.g. compiled contract records, must not reuse a catalog name.
func NewRegistry(extra []any, opts ...types.RegistryOption) (*types.Registry, error) {
	items := append(Items(), extra...)
	return types.NewRegistry(types.DefaultBuiltins(), items, opts...)
}

// PrebuiltInstances returns sample values for the types the sanity checker
// cannot build from their constructor arguments alone, keyed by type
// expression.
func PrebuiltInstances() (map[string]any, error) {
	at := types.PrototypeDatetime
	amount := types.PrototypeDecimal

	posting := func(credit bool, account string, phase balances.Phase) postings.Posting {
		return postings.Posting{
			Credit:         credit,
			Amount:         amount,
			Denomination:   "GBP",
			AccountID:      account,
			AccountAddress: balances.DefaultAddress,
			Asset:          balances.DefaultAsset,
			Phase:          phase,
		}
	}
	custom, err := postings.NewCustomInstruction(postings.CustomInstruction{Postings: []postings.Posting{
		posting(true, "main", balances.PhaseCommitted),
		posting(false, "internal", balances.PhaseCommitted),
	}})
	if err != nil {
		return nil, err
	}

	auth, err := postings.NewOutboundAuthorisation(postings.Authorisation{
		ClientTransactionID: "client-transaction",
		Amount:              amount,
		Denomination:        "GBP",
		TargetAccountID:     "main",
		InternalAccountID:   "internal",
	})
	if err != nil {
		return nil, err
	}
	if err := auth.SetOutputAttributes(postings.OutputAttributes{
		ValueDatetime:     &at,
		CommittedPostings: []postings.Posting{posting(false, "main", balances.PhasePendingOut)},
		OwnAccountID:      "main",
	}); err != nil {
		return nil, err
	}
	ct, err := clienttx.New("client-transaction", "main", []postings.PostingInstruction{auth}, balances.TsideLiability)
	if err != nil {
		return nil, err
	}

	directive, err := hooks.NewPostingInstructionsDirective(hooks.PostingInstructionsDirective{
		PostingInstructions: []postings.PostingInstruction{custom},
		ClientBatchID:       "batch",
		ValueDatetime:       &at,
		BatchDetails:        map[string]string{"key": "value"},
	})
	if err != nil {
		return nil, err
	}
	notification, err := hooks.NewAccountNotificationDirective(hooks.AccountNotificationDirective{
		NotificationType:    "NOTIFICATION",
		NotificationDetails: map[string]string{"key": "value"},
	})
	if err != nil {
		return nil, err
	}

	dict := balances.NewBalanceDefaultDict(nil)
	dict.Adjust(posting(true, "main", balances.PhaseCommitted).Coordinate(), balances.TsideLiability, amount, decimal.Zero)

	adjustment, err := postings.NewAdjustmentAmount(&amount, nil)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"AdjustmentAmount":             adjustment,
		"List[Posting]":                custom.Postings,
		"List[CustomInstruction]":      []postings.PostingInstruction{custom},
		"ClientTransaction":            ct,
		"BalanceDefaultDict":           dict,
		"PostingInstructionsDirective": directive,
		"AccountNotificationDirective": notification,
	}, nil
}

// CheckSanity builds the catalog registry and runs the sanity checker over it.
func CheckSanity(extra []any, opts ...types.RegistryOption) (*types.SanityReport, error) {
	r, err := NewRegistry(extra, opts...)
	if err != nil {
		return nil, err
	}
	prebuilt, err := PrebuiltInstances()
	if err != nil {
		return nil, err
	}
	return types.CheckSpecsSanity(r, prebuilt), nil
}
