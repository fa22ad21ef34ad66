package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsdk/internal/catalog"
	"github.com/roach88/vaultsdk/internal/types"
)

// SanityOptions holds flags for the sanity command.
type SanityOptions struct {
	*RootOptions
	Specs string
}

// SanityResult wraps the report with its verdict.
type SanityResult struct {
	OK     bool                `json:"ok"`
	Report *types.SanityReport `json:"report"`
}

// NewSanityCommand creates the sanity command.
func NewSanityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SanityOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sanity",
		Short: "Check every class spec against the instances it describes",
		Long: `Construct an instance of every class in the SDK catalog from prototype
arguments and check its attributes and methods against its spec.

With --specs the records declared in the directory are checked too.

Exit codes:
  0 - All specs satisfied
  1 - The report lists inconsistencies
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanity(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Specs, "specs", "", "directory of CUE type declarations")

	return cmd
}

func runSanity(opts *SanityOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	var extra []any
	if opts.Specs != "" {
		loaded, err := LoadSpecs(opts.Specs)
		if err != nil {
			code := ErrCodeGeneric
			var loadErr *LoadError
			if errors.As(err, &loadErr) {
				code = loadErr.Code
			}
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load specs", err)
		}
		extra = loaded.Items()
	}

	report, err := catalog.CheckSanity(extra, types.WithLogger(opts.Logger(cmd)))
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "sanity check failed to run", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(SanityResult{OK: report.OK(), Report: report}); err != nil {
			return err
		}
	} else {
		mark := "✓"
		if !report.OK() {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s\n", mark, report)
	}

	if !report.OK() {
		return NewExitError(ExitFailure, "specs are not sane")
	}
	return nil
}
