package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/vaultsdk/internal/catalog"
	"github.com/roach88/vaultsdk/internal/compiler"
	"github.com/roach88/vaultsdk/internal/types"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                    `json:"valid"`
	Records int                     `json:"records"`
	Enums   int                     `json:"enums"`
	Errors  []types.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate contract type declarations",
		Long: `Validate the record and enum declarations of a directory of CUE files.

Checks every declaration against the type spec rules, resolves every
attribute type against the SDK catalog and the other declarations, and
reports records whose required attributes form a cycle. All errors are
reported, not just the first.

Exit codes:
  0 - All declarations valid
  1 - Validation failed
  2 - Command error (directory not found, CUE does not load, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadSpecs(specsDir)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, specsDir)

	result, err := ValidateDeclared(loaded.Declared, types.WithLogger(opts.Logger(cmd)))
	if err != nil {
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	for _, d := range loaded.Declared {
		formatter.VerboseLog("Validated %s", compilerName(d))
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateDeclared validates compiled declarations against the catalog.
// Shadowed catalog names are reported without building a registry, since
// the registry rejects them outright.
func ValidateDeclared(declared []types.Describer, opts ...types.RegistryOption) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}
	for _, d := range declared {
		switch d.Spec().(type) {
		case *types.ClassSpec:
			result.Records++
		case *types.EnumSpec:
			result.Enums++
		}
	}

	base, err := catalog.NewRegistry(nil, opts...)
	if err != nil {
		return nil, err
	}
	taken := append(base.Names(), slices.Sorted(maps.Keys(types.DefaultBuiltins()))...)
	if errs := compiler.CheckShadowing(taken, declared); len(errs) > 0 {
		result.Valid = false
		result.Errors = errs
		return result, nil
	}

	items := make([]any, 0, len(declared))
	for _, d := range declared {
		items = append(items, d)
	}
	reg, err := catalog.NewRegistry(items, opts...)
	if err != nil {
		return nil, err
	}
	if errs := compiler.Validate(reg, declared); len(errs) > 0 {
		result.Valid = false
		result.Errors = errs
	}
	return result, nil
}

func compilerName(d types.Describer) string {
	switch s := d.Spec().(type) {
	case *types.ClassSpec:
		return "record " + s.Name
	case *types.EnumSpec:
		return "enum " + s.Name
	}
	return fmt.Sprintf("%T", d)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result *ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All declarations valid (%d record(s), %d enum(s))\n", result.Records, result.Enums)
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result *ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
