package hooks

import (
	"time"

	"github.com/roach88/vaultsdk/internal/clienttx"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// HookArguments holds what every hook receives.
type HookArguments struct {
	EffectiveDatetime time.Time `json:"effective_datetime" yaml:"effective_datetime"`
}

func (a *HookArguments) validateAs(owner string) error {
	return strongtyping.CheckUTC(a.EffectiveDatetime, "effective_datetime", owner)
}

// PrePostingHookArguments are passed to the hook that may reject proposed
// posting instructions before they are committed.
type PrePostingHookArguments struct {
	HookArguments
	PostingInstructions []postings.PostingInstruction          `json:"posting_instructions" yaml:"-"`
	ClientTransactions  map[string]*clienttx.ClientTransaction `json:"client_transactions" yaml:"-"`
}

// NewPrePostingHookArguments validates a unless trusted.
func NewPrePostingHookArguments(a PrePostingHookArguments, opts ...strongtyping.Option) (*PrePostingHookArguments, error) {
	return construct(a, opts)
}

func (a *PrePostingHookArguments) validate() error {
	return a.validateAs("PrePostingHookArguments")
}

// PostPostingHookArguments are passed to the hook that runs after posting
// instructions were committed.
type PostPostingHookArguments struct {
	HookArguments
	PostingInstructions []postings.PostingInstruction          `json:"posting_instructions" yaml:"-"`
	ClientTransactions  map[string]*clienttx.ClientTransaction `json:"client_transactions" yaml:"-"`
}

// NewPostPostingHookArguments validates a unless trusted.
func NewPostPostingHookArguments(a PostPostingHookArguments, opts ...strongtyping.Option) (*PostPostingHookArguments, error) {
	return construct(a, opts)
}

func (a *PostPostingHookArguments) validate() error {
	return a.validateAs("PostPostingHookArguments")
}

// ScheduledEventHookArguments are passed to the hook that runs on a
// scheduled event.
type ScheduledEventHookArguments struct {
	HookArguments
	EventType       string     `json:"event_type" yaml:"event_type"`
	PauseAtDatetime *time.Time `json:"pause_at_datetime,omitempty" yaml:"pause_at_datetime,omitempty"`
}

// NewScheduledEventHookArguments validates a unless trusted.
func NewScheduledEventHookArguments(a ScheduledEventHookArguments, opts ...strongtyping.Option) (*ScheduledEventHookArguments, error) {
	return construct(a, opts)
}

func (a *ScheduledEventHookArguments) validate() error {
	if err := a.validateAs("ScheduledEventHookArguments"); err != nil {
		return err
	}
	if a.PauseAtDatetime != nil {
		return strongtyping.CheckUTC(*a.PauseAtDatetime, "pause_at_datetime", "ScheduledEventHookArguments")
	}
	return nil
}

// Attribute implements types.AttributeReader.
func (a *ScheduledEventHookArguments) Attribute(name string) (any, bool) {
	if name == "pause_at_datetime" {
		if a.PauseAtDatetime == nil {
			return nil, true
		}
		return *a.PauseAtDatetime, true
	}
	return nil, false
}
