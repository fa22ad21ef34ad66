package clienttx

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/strongtyping"
)

// Option configures a ClientTransaction.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	trusted bool
}

// WithLogger sets the logger used while replaying instructions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Trusted skips validation of the instruction list. Lifecycle rules are
// still enforced while replaying.
func Trusted() Option {
	return func(c *config) {
		c.trusted = true
	}
}

// ClientTransaction is the ordered list of posting instructions that share a
// client transaction id on one account.
//
// The instruction list is fixed at construction. Balances and Effects are
// memoized per effective datetime; ClientTransaction is safe for concurrent
// use.
type ClientTransaction struct {
	clientTransactionID string
	accountID           string
	instructions        []postings.PostingInstruction
	tside               balances.Tside
	ledger              *Ledger
	logger              *slog.Logger
	memo                *memo
}

// memo caches Balances and Effects results.
type memo struct {
	mu       sync.Mutex
	balances map[balancesKey]*balances.BalanceDefaultDict
	effects  map[effectiveKey]*postings.ClientTransactionEffects
}

// effectiveKey identifies an optional effective datetime.
type effectiveKey struct {
	set bool
	at  time.Time
}

type balancesKey struct {
	effectiveKey
	tside balances.Tside
}

func keyOf(at *time.Time) effectiveKey {
	if at == nil {
		return effectiveKey{}
	}
	return effectiveKey{set: true, at: at.Round(0)}
}

// New validates the instructions unless Trusted is given, then replays every
// instruction that has a value datetime and committed postings. tside may be
// zero, in which case Balances needs an explicit tside.
func New(clientTransactionID, accountID string, instructions []postings.PostingInstruction, tside balances.Tside, opts ...Option) (*ClientTransaction, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ct := &ClientTransaction{
		clientTransactionID: clientTransactionID,
		accountID:           accountID,
		instructions:        instructions,
		tside:               tside,
		ledger:              NewLedger(clientTransactionID, accountID),
		logger:              cfg.logger,
		memo: &memo{
			balances: make(map[balancesKey]*balances.BalanceDefaultDict),
			effects:  make(map[effectiveKey]*postings.ClientTransactionEffects),
		},
	}
	if !cfg.trusted {
		if err := ct.validate(); err != nil {
			return nil, err
		}
	}

	for _, pi := range instructions {
		if pi == nil {
			continue
		}
		committed := pi.CommittedPostings()
		if pi.ValueDatetime() == nil || len(committed) == 0 {
			continue
		}
		final := false
		if s, ok := pi.(*postings.Settlement); ok {
			if s.Final == nil {
				continue
			}
			final = *s.Final
		}
		if err := ct.ledger.Add(pi.ValueDatetime(), committed, pi.Type(), final); err != nil {
			return nil, err
		}
		ct.logger.Debug("instruction applied",
			"client_transaction_id", clientTransactionID,
			"account_id", accountID,
			"type", pi.Type().String(),
			"value_datetime", pi.ValueDatetime().Format(time.RFC3339Nano),
			"postings", len(committed),
		)
	}
	return ct, nil
}

func (ct *ClientTransaction) validate() error {
	const name = "ClientTransaction.posting_instructions"
	items, err := strongtyping.GetIterator(ct.instructions, postings.InstructionTypesExpr, name, true)
	if err != nil {
		return err
	}
	for i, pi := range items {
		if pi == nil {
			return sdkerr.StrongTypingf("'%s' expected %s, got None", name, postings.InstructionTypesExpr)
		}
		if pi.ValueDatetime() == nil {
			return sdkerr.InvalidPostingInstructionf("'%s[%d]' has its value_datetime attribute set to None. "+
				"Expected value_datetime to be set.", name, i)
		}
		if s, ok := pi.(*postings.Settlement); ok && s.Final == nil {
			return sdkerr.InvalidPostingInstructionf("'%s[%d]' Settlement instruction has its final attribute "+
				"set to None. Expected True or False.", name, i)
		}
		if _, err := strongtyping.GetIterator(pi.CommittedPostings(), "List[Posting]",
			fmt.Sprintf("%s[%d]._committed_postings", name, i), true); err != nil {
			return err
		}
	}
	return nil
}

// ClientTransactionID returns the id shared by the instructions.
func (ct *ClientTransaction) ClientTransactionID() string { return ct.clientTransactionID }

// AccountID returns the account the transaction is replayed on.
func (ct *ClientTransaction) AccountID() string { return ct.accountID }

// Tside returns the default tside for Balances, zero if unset.
func (ct *ClientTransaction) Tside() balances.Tside { return ct.tside }

// PostingInstructions returns the instructions in the order given to New.
func (ct *ClientTransaction) PostingInstructions() []postings.PostingInstruction {
	return ct.instructions
}

func (ct *ClientTransaction) first() postings.PostingInstruction {
	if len(ct.instructions) == 0 {
		return nil
	}
	return ct.instructions[0]
}

// Denomination returns the denomination of the opening instruction when it
// declares one (authorisations, hard settlements and transfers), else "".
func (ct *ClientTransaction) Denomination() string {
	switch pi := ct.first().(type) {
	case *postings.InboundAuthorisation:
		return pi.Denomination
	case *postings.OutboundAuthorisation:
		return pi.Denomination
	case *postings.InboundHardSettlement:
		return pi.Denomination
	case *postings.OutboundHardSettlement:
		return pi.Denomination
	case *postings.Transfer:
		return pi.Denomination
	}
	return ""
}

// IsCustom reports whether the transaction opened with a CustomInstruction.
func (ct *ClientTransaction) IsCustom() bool {
	first := ct.first()
	return first != nil && first.Type() == postings.TypeCustomInstruction
}

// StartDatetime is the value datetime of the opening instruction.
func (ct *ClientTransaction) StartDatetime() *time.Time {
	first := ct.first()
	if first == nil {
		return nil
	}
	return first.ValueDatetime()
}

// Released reports whether a Release took effect strictly before at. A nil at
// means no upper bound.
func (ct *ClientTransaction) Released(at *time.Time) (bool, error) {
	return ct.anyBefore(at, "ClientTransaction.released()", func(pi postings.PostingInstruction) bool {
		return pi.Type() == postings.TypeRelease
	})
}

// Completed reports whether a final Settlement took effect strictly before at.
// A nil at means no upper bound.
func (ct *ClientTransaction) Completed(at *time.Time) (bool, error) {
	return ct.anyBefore(at, "ClientTransaction.completed()", func(pi postings.PostingInstruction) bool {
		s, ok := pi.(*postings.Settlement)
		return ok && s.IsFinal()
	})
}

func (ct *ClientTransaction) anyBefore(at *time.Time, owner string, match func(postings.PostingInstruction) bool) (bool, error) {
	if at != nil {
		if err := strongtyping.CheckUTC(*at, "effective_datetime", owner); err != nil {
			return false, err
		}
	}
	for _, pi := range ct.instructions {
		if pi == nil || pi.ValueDatetime() == nil {
			continue
		}
		if (at == nil || pi.ValueDatetime().Before(*at)) && match(pi) {
			return true, nil
		}
	}
	return false, nil
}

// Balances returns the balances of the transaction as of at, inclusive of
// instructions valued exactly at at. A nil at returns the latest balances;
// a zero tside falls back to the transaction's tside. The returned dict is a
// copy the caller may modify.
func (ct *ClientTransaction) Balances(at *time.Time, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	if at != nil {
		if err := strongtyping.CheckUTC(*at, "effective_datetime", "ClientTransaction.balances()"); err != nil {
			return nil, err
		}
	}
	ct.memo.mu.Lock()
	defer ct.memo.mu.Unlock()

	b, err := ct.balancesLocked(at, tside)
	if err != nil {
		return nil, err
	}
	return b.Copy(), nil
}

func (ct *ClientTransaction) balancesLocked(at *time.Time, tside balances.Tside) (*balances.BalanceDefaultDict, error) {
	if tside == 0 {
		tside = ct.tside
	}
	if tside == 0 {
		return nil, sdkerr.InvalidSmartContractf("A tside must be specified for the balances calculation.")
	}
	key := balancesKey{effectiveKey: keyOf(at), tside: tside}
	if cached, ok := ct.memo.balances[key]; ok {
		return cached, nil
	}
	result := postings.SidedBalances(ct.ledger.Balances(at), tside)
	ct.memo.balances[key] = result
	return result, nil
}

// Effects summarises what the transaction authorised, settled and left
// unsettled as of at. It returns nil for custom transactions.
//
// Effects always aggregates with TsideLiability: direction comes from the
// opening posting, not from the account's tside.
func (ct *ClientTransaction) Effects(at *time.Time) (*postings.ClientTransactionEffects, error) {
	if at != nil {
		if err := strongtyping.CheckUTC(*at, "effective_datetime", "ClientTransaction.effects()"); err != nil {
			return nil, err
		}
	}
	ct.memo.mu.Lock()
	defer ct.memo.mu.Unlock()

	key := keyOf(at)
	if cached, ok := ct.memo.effects[key]; ok {
		return copyEffects(cached), nil
	}
	result, err := ct.effects(at)
	if err != nil {
		return nil, err
	}
	ct.memo.effects[key] = result
	return copyEffects(result), nil
}

func copyEffects(e *postings.ClientTransactionEffects) *postings.ClientTransactionEffects {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (ct *ClientTransaction) effects(at *time.Time) (*postings.ClientTransactionEffects, error) {
	if ct.IsCustom() {
		return nil, nil
	}
	bals, err := ct.balancesLocked(at, balances.TsideLiability)
	if err != nil {
		return nil, err
	}
	if bals.Len() == 0 {
		return &postings.ClientTransactionEffects{}, nil
	}

	type triple struct{ address, asset, denomination string }
	seen := map[triple]struct{}{}
	var key triple
	for _, c := range bals.Keys() {
		key = triple{c.AccountAddress, c.Asset, c.Denomination}
		seen[key] = struct{}{}
	}
	if len(seen) != 1 {
		return nil, sdkerr.InvalidPostingInstructionf("ClientTransaction only supports posting instructions with " +
			"the same account_address, denomination and asset attributes.")
	}

	var lead []postings.Posting
	if first := ct.first(); first != nil {
		lead = first.CommittedPostings()
	}
	if len(lead) == 0 {
		return nil, sdkerr.InvalidSmartContractf("ClientTransaction only supports posting instructions with " +
			"non empty committed postings.")
	}

	coord := func(phase balances.Phase) balances.BalanceCoordinate {
		return balances.BalanceCoordinate{
			AccountAddress: key.address,
			Asset:          key.asset,
			Denomination:   key.denomination,
			Phase:          phase,
		}
	}
	released, err := ct.Released(at)
	if err != nil {
		return nil, err
	}

	if lead[0].Credit {
		pending := bals.Get(coord(balances.PhasePendingIn))
		unsettled := pending.Net.Abs()
		if released {
			unsettled = decimal.Zero
		}
		return &postings.ClientTransactionEffects{
			Authorised: pending.Credit,
			Settled:    bals.Get(coord(balances.PhaseCommitted)).Credit,
			Unsettled:  unsettled,
		}, nil
	}

	pending := bals.Get(coord(balances.PhasePendingOut))
	unsettled := pending.Net.Abs().Neg()
	if released {
		unsettled = decimal.Zero
	}
	return &postings.ClientTransactionEffects{
		Authorised: pending.Debit.Neg(),
		Settled:    bals.Get(coord(balances.PhaseCommitted)).Debit.Neg(),
		Unsettled:  unsettled,
	}, nil
}

func (ct *ClientTransaction) String() string {
	return fmt.Sprintf("ClientTransaction(%d posting instruction(s))", len(ct.instructions))
}
