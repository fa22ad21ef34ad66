package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsdk/internal/balances"
	"github.com/roach88/vaultsdk/internal/harness"
	"github.com/roach88/vaultsdk/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Account  string
	CTID     string // optional - specific client transaction only
	At       string // optional RFC 3339 effective datetime
	Tside    string
}

// ReplayClientTransaction is the replay of one client transaction.
type ReplayClientTransaction struct {
	ClientTransactionID string               `json:"client_transaction_id"`
	Instructions        int                  `json:"instructions"`
	Observation         *harness.Observation `json:"observation,omitempty"`
	Error               string               `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Account            string                    `json:"account"`
	ClientTransactions []ReplayClientTransaction `json:"client_transactions"`
	Failed             int                       `json:"failed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild client transactions from the journal",
		Long: `Load journaled posting instructions back into client transactions and
report their effects, balances and lifecycle state.

Without --ctid every client transaction of the account is replayed, in the
order its first instruction was journaled.

Exit codes:
  0 - Every client transaction replayed
  1 - A client transaction failed to replay or observe
  2 - Command error (database not found, bad flag, etc.)

Examples:
  vaultsdk replay --db ./journal.db --account main_account
  vaultsdk replay --db ./journal.db --account main_account --ctid ct-1 --at 2020-01-01T02:00:00Z
  vaultsdk replay --db ./journal.db --account main_account --tside ASSET --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Account, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&opts.CTID, "ctid", "", "replay specific client transaction only")
	cmd.Flags().StringVar(&opts.At, "at", "", "effective datetime (RFC 3339, UTC)")
	cmd.Flags().StringVar(&opts.Tside, "tside", "LIABILITY", "ledger side (ASSET|LIABILITY)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	var tside balances.Tside
	if err := tside.UnmarshalText([]byte(opts.Tside)); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --tside", err)
	}

	var at *time.Time
	if opts.At != "" {
		t, err := time.Parse(time.RFC3339Nano, opts.At)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid --at", err)
		}
		at = &t
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger(cmd)))
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctids := []string{opts.CTID}
	if opts.CTID == "" {
		ctids, err = st.ClientTransactionIDs(ctx, opts.Account)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list client transactions", err)
		}
	}

	result := ReplayResult{
		Account:            opts.Account,
		ClientTransactions: make([]ReplayClientTransaction, 0, len(ctids)),
	}
	for _, ctid := range ctids {
		formatter.VerboseLog("Replaying %s", ctid)
		entry := ReplayClientTransaction{ClientTransactionID: ctid}
		ct, err := st.LoadClientTransaction(ctx, opts.Account, ctid, tside)
		if err != nil {
			entry.Error = err.Error()
			result.Failed++
			result.ClientTransactions = append(result.ClientTransactions, entry)
			continue
		}
		entry.Instructions = len(ct.PostingInstructions())
		obs := harness.Observe(ct, at, tside)
		entry.Observation = &obs
		if obs.Error != "" {
			entry.Error = obs.Error
			result.Failed++
		}
		result.ClientTransactions = append(result.ClientTransactions, entry)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputReplayText(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d client transaction(s) failed to replay", result.Failed))
	}
	return nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) {
	w := f.Writer
	if len(result.ClientTransactions) == 0 {
		fmt.Fprintf(w, "No client transactions for %s.\n", result.Account)
		return
	}
	for _, ct := range result.ClientTransactions {
		if ct.Error != "" {
			fmt.Fprintf(w, "✗ %s: %s\n", ct.ClientTransactionID, ct.Error)
			continue
		}
		obs := ct.Observation
		fmt.Fprintf(w, "✓ %s (%d instruction(s))\n", ct.ClientTransactionID, ct.Instructions)
		if obs.Effects != nil {
			fmt.Fprintf(w, "  effects: %s\n", obs.Effects)
		}
		fmt.Fprintf(w, "  released: %t  completed: %t\n", *obs.Released, *obs.Completed)
		for _, b := range obs.Balances {
			fmt.Fprintf(w, "  %s/%s/%s/%s: credit %s debit %s net %s\n",
				b.AccountAddress, b.Asset, b.Denomination, b.Phase, b.Credit, b.Debit, b.Net)
		}
	}
}
