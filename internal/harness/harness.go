package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/clienttx"
	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/store"
	"github.com/roach88/vaultsdk/internal/testutil"
)

// Option configures Run and RunAll.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	parallelism int
}

// WithLogger sets the logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithParallelism bounds how many scenarios RunAll replays at once.
// Values below one use GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = runtime.GOMAXPROCS(0)
	}
	return cfg
}

// Harness replays one scenario.
type Harness struct {
	store  *store.Store
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run replays a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Fill missing value datetimes and validate every instruction
// 2. Validate and replay the client transaction
// 3. Journal the instructions and load the client transaction back
// 4. Observe and check every expectation
//
// A mismatch fails the result; the returned error is reserved for journal
// failures.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)),
		store.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewDeterministicClock(testutil.DefaultEpoch, 0),
		logger: cfg.logger,
	}
	result, err := h.run(ctx, scenario)
	if err != nil {
		return nil, err
	}
	cfg.logger.Info("scenario run",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors))
	return result, nil
}

// RunAll replays scenarios concurrently and returns results in input order.
// It stops at the first journal failure.
func RunAll(ctx context.Context, scenarios []*Scenario, opts ...Option) ([]*Result, error) {
	cfg := newConfig(opts)
	results := make([]*Result, len(scenarios))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.parallelism)
	for i, s := range scenarios {
		eg.Go(func() error {
			r, err := Run(egCtx, s, opts...)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Harness) run(ctx context.Context, s *Scenario) (*Result, error) {
	result := NewResult(s.Name)
	result.ClientTransactionID = s.clientTransactionID()

	records, buildErr := h.prepare(result.ClientTransactionID, s)
	if buildErr == nil {
		ids, err := h.store.AppendInstructions(ctx, s.AccountID, records)
		if err != nil {
			return nil, err
		}
		result.InstructionIDs = ids
	}

	var ct *clienttx.ClientTransaction
	if buildErr == nil {
		var err error
		ct, err = h.store.LoadClientTransaction(ctx, s.AccountID, result.ClientTransactionID, s.Tside)
		if err != nil {
			buildErr = err
		}
	}

	if buildErr != nil {
		result.Error = buildErr.Error()
	}
	switch {
	case s.Error != "" && buildErr == nil:
		result.AddError(fmt.Sprintf("expected error containing %q, got none", s.Error))
	case s.Error != "" && !strings.Contains(result.Error, s.Error):
		result.AddError(fmt.Sprintf("expected error containing %q, got %q", s.Error, result.Error))
	case s.Error == "" && buildErr != nil:
		result.AddError(fmt.Sprintf("unexpected error: %s", result.Error))
	}
	if ct == nil {
		return result, nil
	}

	for i, e := range s.Expect {
		obs := Observe(ct, e.At, s.Tside)
		result.Observations = append(result.Observations, obs)
		for _, msg := range check(ct, e, obs) {
			result.AddError(fmt.Sprintf("expect[%d]: %s", i, msg))
		}
	}
	return result, nil
}

// prepare fills missing value datetimes, validates each record and replays
// the instruction list untrusted. It returns the normalised records to
// journal.
func (h *Harness) prepare(ctid string, s *Scenario) ([]postings.Record, error) {
	instructions := make([]postings.PostingInstruction, 0, len(s.Instructions))
	for i, rec := range s.Instructions {
		if rec.Output.ValueDatetime != nil {
			h.clock.AdvanceTo(*rec.Output.ValueDatetime)
		} else {
			at := h.clock.Next()
			rec.Output.ValueDatetime = &at
		}
		if rec.Output.OwnAccountID == "" {
			rec.Output.OwnAccountID = s.AccountID
		}
		if rec.ClientTransactionID == "" && rec.Output.ClientTransactionID == "" {
			rec.Output.ClientTransactionID = ctid
		}
		pi, err := rec.Instruction()
		if err != nil {
			return nil, fmt.Errorf("instructions[%d]: %w", i, err)
		}
		instructions = append(instructions, pi)
	}

	if _, err := clienttx.New(ctid, s.AccountID, instructions, s.Tside, clienttx.WithLogger(h.logger)); err != nil {
		return nil, err
	}

	records := make([]postings.Record, 0, len(instructions))
	for _, pi := range instructions {
		records = append(records, postings.RecordOf(pi))
	}
	return records, nil
}

// Observe records everything visible on ct at at. A nil at observes the
// latest state. The first error stops it and is kept in Observation.Error.
func Observe(ct *clienttx.ClientTransaction, at *time.Time, tside balances.Tside) Observation {
	obs := Observation{At: at}

	effects, err := ct.Effects(at)
	if err != nil {
		obs.Error = err.Error()
		return obs
	}
	obs.Effects = effects

	b, err := ct.Balances(at, tside)
	if err != nil {
		obs.Error = err.Error()
		return obs
	}
	obs.Balances = balanceEntries(b)

	released, err := ct.Released(at)
	if err != nil {
		obs.Error = err.Error()
		return obs
	}
	obs.Released = &released

	completed, err := ct.Completed(at)
	if err != nil {
		obs.Error = err.Error()
		return obs
	}
	obs.Completed = &completed
	return obs
}

func check(ct *clienttx.ClientTransaction, e Expectation, obs Observation) []string {
	if e.Error != "" {
		if obs.Error == "" {
			return []string{fmt.Sprintf("expected error containing %q, got none", e.Error)}
		}
		if !strings.Contains(obs.Error, e.Error) {
			return []string{fmt.Sprintf("expected error containing %q, got %q", e.Error, obs.Error)}
		}
		return nil
	}
	if obs.Error != "" {
		return []string{fmt.Sprintf("unexpected error: %s", obs.Error)}
	}

	var msgs []string
	if e.Effects != nil {
		msgs = append(msgs, checkEffects(*e.Effects, obs.Effects)...)
	}
	for _, want := range e.Balances {
		msgs = append(msgs, checkBalance(ct, want, obs.Balances)...)
	}
	if e.Released != nil && *e.Released != *obs.Released {
		msgs = append(msgs, fmt.Sprintf("released = %t, want %t", *obs.Released, *e.Released))
	}
	if e.Completed != nil && *e.Completed != *obs.Completed {
		msgs = append(msgs, fmt.Sprintf("completed = %t, want %t", *obs.Completed, *e.Completed))
	}
	return msgs
}

func checkEffects(want ExpectedEffects, got *postings.ClientTransactionEffects) []string {
	if got == nil {
		return []string{"effects: none for a custom client transaction"}
	}
	var msgs []string
	if want.Authorised != nil && !want.Authorised.Equal(got.Authorised) {
		msgs = append(msgs, fmt.Sprintf("effects.authorised = %s, want %s", got.Authorised, want.Authorised))
	}
	if want.Settled != nil && !want.Settled.Equal(got.Settled) {
		msgs = append(msgs, fmt.Sprintf("effects.settled = %s, want %s", got.Settled, want.Settled))
	}
	if want.Unsettled != nil && !want.Unsettled.Equal(got.Unsettled) {
		msgs = append(msgs, fmt.Sprintf("effects.unsettled = %s, want %s", got.Unsettled, want.Unsettled))
	}
	return msgs
}

func checkBalance(ct *clienttx.ClientTransaction, want ExpectedBalance, got []BalanceEntry) []string {
	coord := balances.BalanceCoordinate{
		AccountAddress: want.AccountAddress,
		Asset:          want.Asset,
		Denomination:   want.Denomination,
		Phase:          want.Phase,
	}
	if coord.AccountAddress == "" {
		coord.AccountAddress = balances.DefaultAddress
	}
	if coord.Asset == "" {
		coord.Asset = balances.DefaultAsset
	}
	if coord.Denomination == "" {
		coord.Denomination = ct.Denomination()
	}

	entry := BalanceEntry{
		AccountAddress: coord.AccountAddress,
		Asset:          coord.Asset,
		Denomination:   coord.Denomination,
		Phase:          coord.Phase,
	}
	for _, g := range got {
		if g.AccountAddress == coord.AccountAddress && g.Asset == coord.Asset &&
			g.Denomination == coord.Denomination && g.Phase == coord.Phase {
			entry = g
			break
		}
	}

	name := fmt.Sprintf("balances[%s/%s/%s/%s]", coord.AccountAddress, coord.Asset, coord.Denomination, coord.Phase)
	var msgs []string
	if want.Net != nil && !want.Net.Equal(entry.Net) {
		msgs = append(msgs, fmt.Sprintf("%s.net = %s, want %s", name, entry.Net, want.Net))
	}
	if want.Credit != nil && !want.Credit.Equal(entry.Credit) {
		msgs = append(msgs, fmt.Sprintf("%s.credit = %s, want %s", name, entry.Credit, want.Credit))
	}
	if want.Debit != nil && !want.Debit.Equal(entry.Debit) {
		msgs = append(msgs, fmt.Sprintf("%s.debit = %s, want %s", name, entry.Debit, want.Debit))
	}
	return msgs
}
