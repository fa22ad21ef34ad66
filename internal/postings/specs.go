package postings

import (
	"fmt"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/types"
)

const outputNote = " Output attributes such as id and value_datetime are only populated " +
	"once the ledger has accepted the instruction; set them with SetOutputAttributes when mocking historical data."

// InstructionTypesExpr is the type expression of a list of any posting instruction.
const InstructionTypesExpr = "List[Union[AuthorisationAdjustment, CustomInstruction, InboundAuthorisation, " +
	"InboundHardSettlement, OutboundAuthorisation, OutboundHardSettlement, Release, Settlement, Transfer]]"

// Spec implements types.Describer.
func (Posting) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "credit", Type: "bool", Docstring: "True if the posting is a credit, False if it is a debit."},
		{Name: "amount", Type: "Decimal", Docstring: "The amount of the posting. Must not be negative."},
		{Name: "denomination", Type: "str", Docstring: "The denomination of the posting."},
		{Name: "account_id", Type: "str", Docstring: "The account the posting is made against."},
		{Name: "account_address", Type: "str", Docstring: "The account address the posting is made against."},
		{Name: "asset", Type: "str", Docstring: "The asset of the posting."},
		{Name: "phase", Type: "Phase", Docstring: "The phase of the posting."},
	}
	return &types.ClassSpec{
		Name:             "Posting",
		Docstring:        "A credit or debit against a single balance of an account.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new Posting.",
			Args:      attrs,
			New:       types.FieldConstructor[Posting]((*Posting).Validate),
		},
	}
}

// Spec implements types.Describer.
func (TransactionCode) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "domain", Type: "str", Docstring: "The transaction code domain."},
		{Name: "family", Type: "str", Docstring: "The transaction code family."},
		{Name: "subfamily", Type: "str", Docstring: "The transaction code subfamily."},
	}
	return &types.ClassSpec{
		Name:             "TransactionCode",
		Docstring:        "ISO20022 bank transaction code identifying the underlying transaction.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new TransactionCode.",
			Args:      attrs,
			New:       types.FieldConstructor[TransactionCode]((*TransactionCode).validate),
		},
	}
}

// Spec implements types.Describer.
func (AdjustmentAmount) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "amount", Type: "Optional[Decimal]", Docstring: "The change to the authorised amount."},
		{Name: "replacement_amount", Type: "Optional[Decimal]", Docstring: "The new total authorised amount."},
	}
	return &types.ClassSpec{
		Name:             "AdjustmentAmount",
		Docstring:        "The amount of an AuthorisationAdjustment, given either as a delta or as a replacement total.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new AdjustmentAmount. Exactly one of the arguments must be set.",
			Args:      attrs,
			New:       types.FieldConstructor[AdjustmentAmount]((*AdjustmentAmount).validate),
		},
	}
}

// Spec implements types.Describer.
func (ClientTransactionEffects) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "authorised", Type: "Optional[Decimal]", Docstring: "The total amount authorised. Adjustments update it; settlements and releases do not."},
		{Name: "settled", Type: "Optional[Decimal]", Docstring: "The total amount settled."},
		{Name: "unsettled", Type: "Optional[Decimal]", Docstring: "The amount authorised that is yet to be settled or released."},
	}
	return &types.ClassSpec{
		Name:             "ClientTransactionEffects",
		Docstring:        "The effects a ClientTransaction has had on an account. Not defined for CustomInstruction transactions.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new ClientTransactionEffects.",
			Args:      attrs,
			New:       types.FieldConstructor[ClientTransactionEffects](nil),
		},
	}
}

func baseArgs() []types.ValueSpec {
	return []types.ValueSpec{
		{Name: "instruction_details", Type: "Optional[Dict[str, str]]", Docstring: "Instruction-level metadata."},
		{Name: "transaction_code", Type: "Optional[TransactionCode]", Docstring: "ISO20022 bank transaction code."},
		{Name: "override_all_restrictions", Type: "bool", Docstring: "Whether to ignore all restrictions."},
	}
}

func baseOutputs() []types.ValueSpec {
	return []types.ValueSpec{
		{Name: "type", Type: "PostingInstructionType", Docstring: "The posting instruction type."},
		{Name: "id", Type: "Optional[str]", Docstring: "The ledger id of the instruction."},
		{Name: "client_batch_id", Type: "str", Docstring: "Associates related instructions."},
		{Name: "unique_client_transaction_id", Type: "str", Docstring: "The ledger-wide id of the client transaction."},
		{Name: "insertion_datetime", Type: "Optional[datetime]", Docstring: "When the ledger stored the instruction."},
		{Name: "value_datetime", Type: "Optional[datetime]", Docstring: "When the instruction takes effect."},
		{Name: "batch_id", Type: "Optional[str]", Docstring: "The batch the instruction was accepted in."},
		{Name: "batch_details", Type: "Optional[Dict[str, str]]", Docstring: "Batch-level metadata."},
	}
}

func ledgerAccountOutputs() []types.ValueSpec {
	return []types.ValueSpec{
		{Name: "denomination", Type: "str", Docstring: "The instruction denomination, calculated by the ledger."},
		{Name: "target_account_id", Type: "str", Docstring: "The target account, calculated by the ledger."},
		{Name: "internal_account_id", Type: "str", Docstring: "The internal account, calculated by the ledger."},
	}
}

var (
	clientTransactionIDArg = types.ValueSpec{Name: "client_transaction_id", Type: "str", Docstring: "The client transaction the instruction belongs to."}
	adviceArg              = types.ValueSpec{Name: "advice", Type: "Optional[bool]", Docstring: "Skip balance checks for this instruction."}
)

func authorisationArgs() []types.ValueSpec {
	return append(baseArgs(),
		clientTransactionIDArg,
		types.ValueSpec{Name: "amount", Type: "Decimal", Docstring: "The amount moved by the instruction."},
		types.ValueSpec{Name: "denomination", Type: "str", Docstring: "The denomination of the amount."},
		types.ValueSpec{Name: "target_account_id", Type: "str", Docstring: "The account whose balance is affected."},
		types.ValueSpec{Name: "internal_account_id", Type: "str", Docstring: "An internal account id."},
		adviceArg,
	)
}

func hardSettlementArgs() []types.ValueSpec {
	return append(baseArgs(),
		types.ValueSpec{Name: "amount", Type: "Decimal", Docstring: "The amount moved by the instruction."},
		types.ValueSpec{Name: "denomination", Type: "str", Docstring: "The denomination of the amount."},
		types.ValueSpec{Name: "target_account_id", Type: "str", Docstring: "The account whose balance is affected."},
		types.ValueSpec{Name: "internal_account_id", Type: "str", Docstring: "An internal account id."},
		adviceArg,
	)
}

func balancesMethod() types.MethodSpec {
	return types.MethodSpec{
		Name:      "balances",
		Docstring: "Returns the balance changes the instruction made to an account.",
		Args: []types.ValueSpec{
			{Name: "account_id", Type: "Optional[str]", Docstring: "Defaults to the instruction's own account."},
			{Name: "tside", Type: "Optional[Tside]", Docstring: "Defaults to the instruction's own tside."},
		},
		ReturnValue: &types.ReturnValueSpec{Type: "BalanceDefaultDict"},
		Invoke: func(obj any, args map[string]any) (any, error) {
			pi, ok := obj.(PostingInstruction)
			if !ok {
				return nil, fmt.Errorf("balances called on %T", obj)
			}
			accountID, _ := args["account_id"].(string)
			tside, _ := args["tside"].(balances.Tside)
			return pi.Balances(accountID, tside)
		},
	}
}

// instructionSpec assembles the spec of a variant. Public attributes are the
// constructor arguments followed by the output attributes.
func instructionSpec(name, doc string, args, extraOutputs []types.ValueSpec, newFn func(map[string]any) (any, error)) *types.ClassSpec {
	attrs := append(append(append([]types.ValueSpec{}, args...), baseOutputs()...), extraOutputs...)
	return &types.ClassSpec{
		Name:             name,
		Docstring:        doc + outputNote,
		PublicAttributes: attrs,
		PublicMethods:    []types.MethodSpec{balancesMethod()},
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new " + name + ".",
			Args:      args,
			New:       newFn,
		},
	}
}

// Spec implements types.Describer.
func (InboundAuthorisation) Spec() types.Spec {
	return instructionSpec("InboundAuthorisation",
		"A chainable instruction that authorises incoming funds into the target account.",
		authorisationArgs(), nil, types.FieldConstructor[InboundAuthorisation](normalized[InboundAuthorisation]))
}

// Spec implements types.Describer.
func (OutboundAuthorisation) Spec() types.Spec {
	return instructionSpec("OutboundAuthorisation",
		"A chainable instruction that holds outgoing funds on the target account.",
		authorisationArgs(), nil, types.FieldConstructor[OutboundAuthorisation](normalized[OutboundAuthorisation]))
}

// Spec implements types.Describer.
func (AuthorisationAdjustment) Spec() types.Spec {
	args := append(baseArgs(),
		clientTransactionIDArg,
		types.ValueSpec{Name: "adjustment_amount", Type: "AdjustmentAmount", Docstring: "The delta or the new total authorised amount."},
		adviceArg,
	)
	outputs := append([]types.ValueSpec{
		{Name: "authorised_amount", Type: "Decimal", Docstring: "The total authorised after the instruction, calculated by the ledger."},
		{Name: "delta_amount", Type: "Decimal", Docstring: "The change made to the authorised amount, calculated by the ledger."},
	}, ledgerAccountOutputs()...)
	return instructionSpec("AuthorisationAdjustment",
		"A chainable instruction that modifies the amount held by an authorisation.",
		args, outputs, types.FieldConstructor[AuthorisationAdjustment](normalized[AuthorisationAdjustment]))
}

// Spec implements types.Describer.
func (Settlement) Spec() types.Spec {
	args := append(baseArgs(),
		clientTransactionIDArg,
		types.ValueSpec{Name: "amount", Type: "Optional[Decimal]", Docstring: "The amount to clear. Defaults to the total authorised."},
		types.ValueSpec{Name: "final", Type: "Optional[bool]", Docstring: "If set, any remaining authorised amount is released and the transaction is closed."},
	)
	return instructionSpec("Settlement",
		"A chainable instruction that clears some or all of an authorised amount.",
		args, ledgerAccountOutputs(), types.FieldConstructor[Settlement](normalized[Settlement]))
}

// Spec implements types.Describer.
func (Release) Spec() types.Spec {
	outputs := append([]types.ValueSpec{
		{Name: "amount", Type: "Decimal", Docstring: "The amount released, calculated by the ledger."},
	}, ledgerAccountOutputs()...)
	return instructionSpec("Release",
		"A chainable instruction that releases the remaining authorised amount.",
		append(baseArgs(), clientTransactionIDArg), outputs, types.FieldConstructor[Release](normalized[Release]))
}

// Spec implements types.Describer.
func (InboundHardSettlement) Spec() types.Spec {
	return instructionSpec("InboundHardSettlement",
		"A non-chainable instruction that moves funds into the target account.",
		hardSettlementArgs(), nil, types.FieldConstructor[InboundHardSettlement](normalized[InboundHardSettlement]))
}

// Spec implements types.Describer.
func (OutboundHardSettlement) Spec() types.Spec {
	return instructionSpec("OutboundHardSettlement",
		"A non-chainable instruction that moves funds out of the target account.",
		hardSettlementArgs(), nil, types.FieldConstructor[OutboundHardSettlement](normalized[OutboundHardSettlement]))
}

// Spec implements types.Describer.
func (Transfer) Spec() types.Spec {
	args := append(baseArgs(),
		types.ValueSpec{Name: "amount", Type: "Decimal", Docstring: "The amount moved by the instruction."},
		types.ValueSpec{Name: "denomination", Type: "str", Docstring: "The denomination of the amount."},
		types.ValueSpec{Name: "debtor_target_account_id", Type: "str", Docstring: "The account being debited."},
		types.ValueSpec{Name: "creditor_target_account_id", Type: "str", Docstring: "The account being credited."},
	)
	return instructionSpec("Transfer",
		"A non-chainable instruction that moves funds from one account to another.",
		args, nil, types.FieldConstructor[Transfer](normalized[Transfer]))
}

// Spec implements types.Describer.
func (CustomInstruction) Spec() types.Spec {
	args := append(baseArgs(),
		types.ValueSpec{Name: "postings", Type: "List[Posting]", Docstring: "The postings. A directive may submit up to 64 per instruction, with a zero net per (asset, denomination, phase)."},
	)
	return instructionSpec("CustomInstruction",
		"A free-form list of postings.",
		args, nil, types.FieldConstructor[CustomInstruction](normalized[CustomInstruction]))
}

// normalized is the FieldConstructor hook for variants: it applies the same
// defaults and checks as the New constructors.
func normalized[T any, P interface {
	*T
	validator
}](v *T) error {
	p := P(v)
	p.normalize()
	return p.validate()
}
