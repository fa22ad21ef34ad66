package clienttx

import (
	"fmt"
	"time"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/types"
)

var effectiveDatetimeArg = types.ValueSpec{
	Name:      "effective_datetime",
	Type:      "Optional[datetime]",
	Docstring: "The datetime the query is evaluated at. Defaults to the latest state.",
}

// Spec implements types.Describer.
func (ClientTransaction) Spec() types.Spec {
	return &types.ClassSpec{
		Name: "ClientTransaction",
		Docstring: "The posting instructions of one client transaction on one account, " +
			"replayed in value datetime order.",
		PublicAttributes: []types.ValueSpec{
			{Name: "client_transaction_id", Type: "str", Docstring: "The id shared by the instructions."},
			{Name: "account_id", Type: "str", Docstring: "The account the transaction is replayed on."},
			{Name: "denomination", Type: "Optional[str]", Docstring: "The denomination of the opening instruction, when it has one."},
			{Name: "is_custom", Type: "bool", Docstring: "Whether the transaction opened with a CustomInstruction."},
			{Name: "start_datetime", Type: "Optional[datetime]", Docstring: "The value datetime of the opening instruction."},
			{Name: "posting_instructions", Type: postings.InstructionTypesExpr, Docstring: "The instructions of the transaction."},
		},
		PublicMethods: []types.MethodSpec{
			{
				Name:        "released",
				Docstring:   "Whether a Release took effect before effective_datetime.",
				Args:        []types.ValueSpec{effectiveDatetimeArg},
				ReturnValue: &types.ReturnValueSpec{Type: "bool"},
				Invoke: invoke(func(ct *ClientTransaction, args map[string]any) (any, error) {
					return ct.Released(timeArg(args))
				}),
			},
			{
				Name:        "completed",
				Docstring:   "Whether a final Settlement took effect before effective_datetime.",
				Args:        []types.ValueSpec{effectiveDatetimeArg},
				ReturnValue: &types.ReturnValueSpec{Type: "bool"},
				Invoke: invoke(func(ct *ClientTransaction, args map[string]any) (any, error) {
					return ct.Completed(timeArg(args))
				}),
			},
			{
				Name:      "effects",
				Docstring: "The authorised, settled and unsettled amounts. None for custom transactions.",
				Args:      []types.ValueSpec{effectiveDatetimeArg},
				ReturnValue: &types.ReturnValueSpec{
					Type: "Optional[ClientTransactionEffects]",
				},
				Invoke: invoke(func(ct *ClientTransaction, args map[string]any) (any, error) {
					e, err := ct.Effects(timeArg(args))
					if err != nil || e == nil {
						return nil, err
					}
					return e, nil
				}),
			},
			{
				Name:      "balances",
				Docstring: "The balances of the transaction as of effective_datetime.",
				Args: []types.ValueSpec{
					effectiveDatetimeArg,
					{Name: "tside", Type: "Optional[Tside]", Docstring: "Defaults to the transaction's tside."},
				},
				ReturnValue: &types.ReturnValueSpec{Type: "BalanceDefaultDict"},
				Invoke: invoke(func(ct *ClientTransaction, args map[string]any) (any, error) {
					tside, _ := args["tside"].(balances.Tside)
					return ct.Balances(timeArg(args), tside)
				}),
			},
		},
	}
}

func invoke(fn func(*ClientTransaction, map[string]any) (any, error)) func(any, map[string]any) (any, error) {
	return func(obj any, args map[string]any) (any, error) {
		ct, ok := obj.(*ClientTransaction)
		if !ok {
			return nil, fmt.Errorf("ClientTransaction method called on %T", obj)
		}
		return fn(ct, args)
	}
}

func timeArg(args map[string]any) *time.Time {
	switch v := args["effective_datetime"].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	}
	return nil
}

// Attribute implements types.AttributeReader.
func (ct *ClientTransaction) Attribute(name string) (any, bool) {
	switch name {
	case "client_transaction_id":
		return ct.clientTransactionID, true
	case "account_id":
		return ct.accountID, true
	case "denomination":
		if d := ct.Denomination(); d != "" {
			return d, true
		}
		return nil, true
	case "is_custom":
		return ct.IsCustom(), true
	case "start_datetime":
		if t := ct.StartDatetime(); t != nil {
			return *t, true
		}
		return nil, true
	case "posting_instructions":
		return ct.instructions, true
	}
	return nil, false
}
