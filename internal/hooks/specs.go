package hooks

import (
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/types"
)

// Spec implements types.Describer.
func (Rejection) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "message", Type: "str", Docstring: "The message of the rejection."},
		{Name: "reason_code", Type: "Optional[RejectionReason]", Docstring: "The reason for the rejection."},
	}
	return &types.ClassSpec{
		Name: "Rejection",
		Docstring: "Returned through some hook results to reject a hook run, e.g. to stop postings " +
			"from being committed. A rejected result carries no other directives or data.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new Rejection.",
			Args:      attrs,
			New:       types.FieldConstructor[Rejection]((*Rejection).validate),
		},
	}
}

// Spec implements types.Describer.
func (PostingInstructionsDirective) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "posting_instructions", Type: "List[CustomInstruction]", Docstring: "Up to 64 instructions, each with up to 64 postings that net to zero."},
		{Name: "client_batch_id", Type: "Optional[str]", Docstring: "An id for the batch. Generated by the ledger when unset."},
		{Name: "value_datetime", Type: "Optional[datetime]", Docstring: "When the batch takes effect. Must be UTC."},
		{Name: "batch_details", Type: "Optional[Dict[str, str]]", Docstring: "Batch-level metadata."},
	}
	return &types.ClassSpec{
		Name:             "PostingInstructionsDirective",
		Docstring:        "Instructs the ledger to commit a batch of CustomInstructions.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new PostingInstructionsDirective.",
			Args:      attrs,
			New:       types.FieldConstructor[PostingInstructionsDirective]((*PostingInstructionsDirective).validate),
		},
	}
}

// Spec implements types.Describer.
func (AccountNotificationDirective) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "notification_type", Type: "str", Docstring: "The notification type, declared by the contract."},
		{Name: "notification_details", Type: "Dict[str, str]", Docstring: "The notification payload. Must not be empty."},
	}
	return &types.ClassSpec{
		Name:             "AccountNotificationDirective",
		Docstring:        "Publishes a notification about the account.",
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new AccountNotificationDirective.",
			Args:      attrs,
			New:       types.FieldConstructor[AccountNotificationDirective]((*AccountNotificationDirective).validate),
		},
	}
}

var effectiveDatetimeAttr = types.ValueSpec{
	Name:      "effective_datetime",
	Type:      "datetime",
	Docstring: "The logical time the hook runs at. Must be UTC.",
}

func postingsHookAttrs() []types.ValueSpec {
	return []types.ValueSpec{
		effectiveDatetimeAttr,
		{Name: "posting_instructions", Type: postings.InstructionTypesExpr, Docstring: "The posting instructions the hook runs for."},
		{Name: "client_transactions", Type: "Dict[str, ClientTransaction]", Docstring: "Every ClientTransaction affected by the instructions, by unique client transaction id."},
	}
}

func argumentsSpec(name, doc string, attrs []types.ValueSpec, newFn func(map[string]any) (any, error)) *types.ClassSpec {
	return &types.ClassSpec{
		Name:             name,
		Docstring:        doc,
		PublicAttributes: attrs,
		Constructor: &types.ConstructorSpec{
			Docstring: "Constructs a new " + name + ".",
			Args:      attrs,
			New:       newFn,
		},
	}
}

// Spec implements types.Describer.
func (PrePostingHookArguments) Spec() types.Spec {
	return argumentsSpec("PrePostingHookArguments", "The hook arguments of pre_posting_hook.",
		postingsHookAttrs(), types.FieldConstructor[PrePostingHookArguments]((*PrePostingHookArguments).validate))
}

// Spec implements types.Describer.
func (PostPostingHookArguments) Spec() types.Spec {
	return argumentsSpec("PostPostingHookArguments", "The hook arguments of post_posting_hook.",
		postingsHookAttrs(), types.FieldConstructor[PostPostingHookArguments]((*PostPostingHookArguments).validate))
}

// Spec implements types.Describer.
func (ScheduledEventHookArguments) Spec() types.Spec {
	attrs := []types.ValueSpec{
		effectiveDatetimeAttr,
		{Name: "event_type", Type: "str", Docstring: "The scheduled event type that triggered the hook."},
		{Name: "pause_at_datetime", Type: "Optional[datetime]", Docstring: "When the schedule is paused, if it is."},
	}
	return argumentsSpec("ScheduledEventHookArguments", "The hook arguments of scheduled_event_hook.",
		attrs, types.FieldConstructor[ScheduledEventHookArguments]((*ScheduledEventHookArguments).validate))
}

func directiveAttrs() []types.ValueSpec {
	return []types.ValueSpec{
		{Name: "account_notification_directives", Type: "List[AccountNotificationDirective]", Docstring: "Notifications to publish."},
		{Name: "posting_instructions_directives", Type: "List[PostingInstructionsDirective]", Docstring: "Posting instructions to commit."},
	}
}

// Spec implements types.Describer.
func (PrePostingHookResult) Spec() types.Spec {
	attrs := []types.ValueSpec{
		{Name: "rejection", Type: "Optional[Rejection]", Docstring: "Rejects the proposed posting instructions when set."},
	}
	return argumentsSpec("PrePostingHookResult", "The result of pre_posting_hook.",
		attrs, types.FieldConstructor[PrePostingHookResult]((*PrePostingHookResult).validate))
}

// Spec implements types.Describer.
func (PostPostingHookResult) Spec() types.Spec {
	attrs := append(directiveAttrs(),
		types.ValueSpec{Name: "rejection", Type: "Optional[Rejection]", Docstring: "Rejects the hook run. Excludes every directive."},
	)
	return argumentsSpec("PostPostingHookResult", "The result of post_posting_hook.",
		attrs, types.FieldConstructor[PostPostingHookResult](func(r *PostPostingHookResult) error {
			r.normalize()
			return r.validate()
		}))
}

// Spec implements types.Describer.
func (ScheduledEventHookResult) Spec() types.Spec {
	return argumentsSpec("ScheduledEventHookResult", "The result of scheduled_event_hook.",
		directiveAttrs(), types.FieldConstructor[ScheduledEventHookResult](func(r *ScheduledEventHookResult) error {
			r.normalize()
			return r.validate()
		}))
}
