package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsdk/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter   string // scenario filter (glob pattern)
	Parallel int    // concurrent scenarios, 0 means GOMAXPROCS
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-file-or-dir>...",
		Short: "Run client transaction scenarios",
		Long: `Run YAML scenarios through the journal and check the expected effects,
balances and lifecycle state of each client transaction.

Directories are searched recursively for .yaml and .yml files. Every
scenario runs against its own in-memory journal.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, unreadable scenario, etc.)

Examples:
  vaultsdk test ./scenarios
  vaultsdk test ./scenarios --filter "inbound_*"
  vaultsdk test ./scenarios/outbound_released.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern on the file name")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "scenarios to run concurrently (default GOMAXPROCS)")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := findScenarioFiles(paths, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(files) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	scenarios := make([]*harness.Scenario, 0, len(files))
	for _, f := range files {
		s, err := harness.LoadScenario(f)
		if err != nil {
			_ = formatter.Error(ErrCodeLoadFailed, err.Error(), map[string]any{"file": f})
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		formatter.VerboseLog("Loaded %s from %s", s.Name, f)
		scenarios = append(scenarios, s)
	}

	results, err := harness.RunAll(context.Background(), scenarios,
		harness.WithLogger(opts.Logger(cmd)),
		harness.WithParallelism(opts.Parallel),
	)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario run failed", err)
	}

	summary := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(results)),
		Total:     len(results),
	}
	for i, r := range results {
		summary.Scenarios = append(summary.Scenarios, ScenarioResult{
			Name:   r.Scenario,
			File:   files[i],
			Pass:   r.Pass,
			Errors: r.Errors,
		})
		if r.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		outputTestText(formatter, summary)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}

// findScenarioFiles expands paths into scenario files. Files are taken as
// given; directories are searched for .yaml and .yml files. The filter
// matches the file name without its extension.
func findScenarioFiles(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scenario path not found: %s", p)
		}
		found := []string{p}
		if info.IsDir() {
			found, err = FindFiles(p, ".yaml", ".yml")
			if err != nil {
				return nil, fmt.Errorf("error scanning %s: %w", p, err)
			}
		}
		for _, f := range found {
			if filter != "" {
				name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
				if ok, _ := filepath.Match(filter, name); !ok {
					continue
				}
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func outputTestText(f *OutputFormatter, result TestResult) {
	w := f.Writer
	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
