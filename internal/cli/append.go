package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vaultsdk/internal/postings"
	"github.com/roach88/vaultsdk/internal/store"
)

// AppendOptions holds flags for the append command.
type AppendOptions struct {
	*RootOptions
	Database string
	Account  string
}

// AppendResult lists the ids given to the journaled instructions.
type AppendResult struct {
	Account        string   `json:"account"`
	InstructionIDs []string `json:"instruction_ids"`
}

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AppendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append <instructions.yaml>",
		Short: "Journal posting instructions",
		Long: `Validate posting instructions and append them to the journal.

The file holds a YAML list of posting instruction records, the same form
scenario files use under "instructions". Nothing is journaled unless every
record is valid. Instructions without an id get a UUIDv7.

Exit codes:
  0 - All instructions journaled
  1 - An instruction is invalid
  2 - Command error (file or database not found, etc.)

Examples:
  vaultsdk append --db ./journal.db --account main_account ./instructions.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Account, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runAppend(opts *AppendOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	records, err := LoadRecords(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load instructions", err)
	}
	for i, rec := range records {
		if _, err := rec.Instruction(); err != nil {
			msg := fmt.Sprintf("instructions[%d]: %v", i, err)
			_ = formatter.Error(ErrCodeInvalidValue, msg, nil)
			return NewExitError(ExitFailure, msg)
		}
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger(cmd)))
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ids, err := st.AppendInstructions(context.Background(), opts.Account, records)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), map[string]any{"journaled": ids})
		return WrapExitError(ExitCommandError, "failed to journal instructions", err)
	}

	result := AppendResult{Account: opts.Account, InstructionIDs: ids}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Journaled %d instruction(s) for %s\n", len(ids), opts.Account)
	for _, id := range ids {
		formatter.VerboseLog("  %s", id)
	}
	return nil
}

// LoadRecords reads a YAML list of posting instruction records, rejecting
// unknown fields.
func LoadRecords(path string) ([]postings.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instructions file: %w", err)
	}
	var records []postings.Record
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no instructions in %s", path)
	}
	return records, nil
}
