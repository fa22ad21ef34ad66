package hooks

import (
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// Directives are the side effects a hook may request.
type Directives struct {
	AccountNotificationDirectives []*AccountNotificationDirective `json:"account_notification_directives" yaml:"account_notification_directives"`
	PostingInstructionsDirectives []*PostingInstructionsDirective `json:"posting_instructions_directives" yaml:"posting_instructions_directives"`
}

// Empty reports whether no directive is set.
func (d *Directives) Empty() bool {
	return len(d.AccountNotificationDirectives) == 0 && len(d.PostingInstructionsDirectives) == 0
}

func (d *Directives) normalize() {
	if d.AccountNotificationDirectives == nil {
		d.AccountNotificationDirectives = []*AccountNotificationDirective{}
	}
	if d.PostingInstructionsDirectives == nil {
		d.PostingInstructionsDirectives = []*PostingInstructionsDirective{}
	}
}

func (d *Directives) validate() error {
	if err := validateDirectives(d.AccountNotificationDirectives, "AccountNotificationDirective", "account_directives"); err != nil {
		return err
	}
	return validateDirectives(d.PostingInstructionsDirectives, "PostingInstructionsDirective", "posting_directives")
}

// PrePostingHookResult either accepts the proposed instructions (nil
// Rejection) or rejects them.
type PrePostingHookResult struct {
	Rejection *Rejection `json:"rejection,omitempty" yaml:"rejection,omitempty"`
}

// NewPrePostingHookResult validates r unless trusted.
func NewPrePostingHookResult(r PrePostingHookResult, opts ...strongtyping.Option) (*PrePostingHookResult, error) {
	return construct(r, opts)
}

func (r *PrePostingHookResult) validate() error {
	if r.Rejection != nil {
		return r.Rejection.validate()
	}
	return nil
}

// Rejected reports whether the result carries a rejection.
func (r *PrePostingHookResult) Rejected() bool { return r.Rejection != nil }

// PostPostingHookResult carries directives or a rejection, never both.
type PostPostingHookResult struct {
	Directives
	Rejection *Rejection `json:"rejection,omitempty" yaml:"rejection,omitempty"`
}

// NewPostPostingHookResult validates r unless trusted. Nil directive lists
// become empty lists.
func NewPostPostingHookResult(r PostPostingHookResult, opts ...strongtyping.Option) (*PostPostingHookResult, error) {
	r.normalize()
	return construct(r, opts)
}

func (r *PostPostingHookResult) validate() error {
	if r.Rejection != nil {
		if err := r.Rejection.validate(); err != nil {
			return err
		}
		if !r.Empty() {
			return sdkerr.InvalidSmartContractf("PostPostingHookResult allows the population of directives or rejection, but not both")
		}
	}
	return r.Directives.validate()
}

// Rejected reports whether the result carries a rejection.
func (r *PostPostingHookResult) Rejected() bool { return r.Rejection != nil }

// ScheduledEventHookResult carries the directives of a scheduled event run.
type ScheduledEventHookResult struct {
	Directives
}

// NewScheduledEventHookResult validates r unless trusted. Nil directive lists
// become empty lists.
func NewScheduledEventHookResult(r ScheduledEventHookResult, opts ...strongtyping.Option) (*ScheduledEventHookResult, error) {
	r.normalize()
	return construct(r, opts)
}

func (r *ScheduledEventHookResult) validate() error {
	return r.Directives.validate()
}
