package clienttx

import (
	"time"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/sdkerr"
)

// update is the state of a client transaction after one instruction.
type update struct {
	at        time.Time
	postings  []postings.Posting
	balances  map[balances.BalanceCoordinate]postings.BalanceDiff
	completed bool
	released  bool
}

// Ledger keeps the committed postings of one client transaction on one
// account, in the order they were accepted, together with the running
// balances after each instruction.
//
// Ledger is not safe for concurrent use.
type Ledger struct {
	clientTransactionID string
	accountID           string
	firstType           postings.InstructionType
	updates             []update
}

// NewLedger returns an empty ledger for clientTransactionID on accountID.
func NewLedger(clientTransactionID, accountID string) *Ledger {
	return &Ledger{clientTransactionID: clientTransactionID, accountID: accountID}
}

// Len is the number of instructions accepted so far.
func (l *Ledger) Len() int { return len(l.updates) }

func (l *Ledger) last() *update {
	if len(l.updates) == 0 {
		return nil
	}
	return &l.updates[len(l.updates)-1]
}

// Balances returns the running balances as of at, inclusive. A nil at
// returns the latest balances. The result must not be modified.
func (l *Ledger) Balances(at *time.Time) map[balances.BalanceCoordinate]postings.BalanceDiff {
	last := l.last()
	if last == nil {
		return map[balances.BalanceCoordinate]postings.BalanceDiff{}
	}
	if at == nil {
		return last.balances
	}
	idx := len(l.updates)
	for i, u := range l.updates {
		if u.at.After(*at) {
			idx = i
			break
		}
	}
	if idx == 0 {
		return map[balances.BalanceCoordinate]postings.BalanceDiff{}
	}
	return l.updates[idx-1].balances
}

// Completed reports whether the latest instruction was a final settlement.
func (l *Ledger) Completed() bool {
	last := l.last()
	return last != nil && last.completed
}

// Released reports whether the latest instruction was a release.
func (l *Ledger) Released() bool {
	last := l.last()
	return last != nil && last.released
}

// Add appends the committed postings of one instruction accepted at at.
// final only applies to settlements. Every failure is an
// InvalidPostingInstruction error and leaves the ledger unchanged.
func (l *Ledger) Add(at *time.Time, committed []postings.Posting, typ postings.InstructionType, final bool) error {
	if err := l.validateCommittedPostings(committed, typ, final); err != nil {
		return err
	}
	if at == nil {
		return sdkerr.InvalidPostingInstructionf("All posting instructions within a ClientTransaction have to " +
			"have a value_datetime set.")
	}
	if l.last() != nil {
		if err := l.validateSecondary(*at, typ); err != nil {
			return err
		}
	} else {
		if err := validatePrimary(typ); err != nil {
			return err
		}
		l.firstType = typ
	}

	var completed, released bool
	switch typ {
	case postings.TypeSettlement:
		completed = final
	case postings.TypeRelease:
		released = true
	}
	l.updates = append(l.updates, update{
		at:        *at,
		postings:  committed,
		balances:  postings.MergeBalanceDiff(l.Balances(nil), postings.DeriveBalanceDiff(committed)),
		completed: completed,
		released:  released,
	})
	return nil
}

func (l *Ledger) validateCommittedPostings(committed []postings.Posting, typ postings.InstructionType, final bool) error {
	if len(committed) == 0 {
		return sdkerr.InvalidPostingInstructionf("Committed Postings required")
	}
	for _, p := range committed {
		if p.AccountID != l.accountID {
			return sdkerr.InvalidPostingInstructionf("Cannot add this Committed Posting with account ID %s "+
				"to the Client Transaction for account ID %s", p.AccountID, l.accountID)
		}
	}
	if final && typ != postings.TypeSettlement {
		return sdkerr.InvalidPostingInstructionf("Final flag can only be used with Settlement Posting Instructions")
	}
	return nil
}

func validatePrimary(typ postings.InstructionType) error {
	switch {
	case typ.IsSecondary():
		return sdkerr.InvalidPostingInstructionf("A ClientTransaction cannot start with %s", typ)
	case typ.IsPrimary(), typ.IsNonChainable(), typ == postings.TypeCustomInstruction:
		return nil
	}
	return sdkerr.InvalidPostingInstructionf("Unknown instruction type %s", typ)
}

func (l *Ledger) validateSecondary(at time.Time, typ postings.InstructionType) error {
	last := l.last()
	if at.Before(last.at) {
		return sdkerr.InvalidPostingInstructionf("ClientTransaction does not support backdating")
	}
	if last.completed || last.released {
		return sdkerr.InvalidPostingInstructionf("Client Transaction (id %s) has already been finalised",
			l.clientTransactionID)
	}
	switch {
	case typ.IsPrimary(), typ.IsNonChainable():
		return sdkerr.InvalidPostingInstructionf("Cannot add %s to existing ClientTransaction (id %s)",
			typ, l.clientTransactionID)
	case typ.IsSecondary():
		if !l.firstType.IsPrimary() {
			return sdkerr.InvalidPostingInstructionf("Cannot add %s for an existing ClientTransaction (id %s) "+
				"that did not start with an %s or an %s",
				typ, l.clientTransactionID, postings.TypeInboundAuthorisation, postings.TypeOutboundAuthorisation)
		}
	case typ == postings.TypeCustomInstruction:
		if l.firstType != postings.TypeCustomInstruction {
			return sdkerr.InvalidPostingInstructionf("Cannot add %s for an existing ClientTransaction (id %s) "+
				"that did not start with a %s", typ, l.clientTransactionID, postings.TypeCustomInstruction)
		}
	default:
		return sdkerr.InvalidPostingInstructionf("Unknown instruction type %s", typ)
	}
	return nil
}
