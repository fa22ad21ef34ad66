package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/vaultsdk/internal/types"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// TypecheckOptions holds flags for the typecheck command.
type TypecheckOptions struct {
	*RootOptions
	Type  string
	Value string
	Specs string
}

// TypecheckResult is the outcome of checking one value.
type TypecheckResult struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Conforms bool   `json:"conforms"`
}

// NewTypecheckCommand creates the typecheck command.
func NewTypecheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypecheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "typecheck",
		Short: "Check a JSON value against a type expression",
		Long: `Check a JSON value against a type expression such as "List[Optional[int]]".

JSON integers become int and other numbers become float. Objects of the form
{"$decimal": "1.50"} and {"$datetime": "2020-01-01T00:00:00Z"} become a
Decimal and a datetime. Every other object becomes a dict, which is also how
records are checked.

Exit codes:
  0 - The value conforms
  1 - The value does not conform
  2 - Command error (bad type expression, unknown name, invalid JSON)

Examples:
  vaultsdk typecheck --type "List[int]" --value "[1, 2]"
  vaultsdk typecheck --type Decimal --value '{"$decimal": "1.5"}'
  vaultsdk typecheck --type Address --value '{"street": "x"}' --specs ./types`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypecheck(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "type expression (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&opts.Value, "value", "null", "JSON value to check")
	cmd.Flags().StringVar(&opts.Specs, "specs", "", "directory of CUE type declarations")

	return cmd
}

func runTypecheck(opts *TypecheckOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	value, err := DecodeValue(opts.Value)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidValue, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid value", err)
	}

	reg, _, err := LoadRegistry(opts.Specs, types.WithLogger(opts.Logger(cmd)))
	if err != nil {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load registry", err)
	}

	ok, err := reg.Check(opts.Type, value)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid type expression", err)
	}

	result := TypecheckResult{Type: opts.Type, Value: valuefmt.Literal(value), Conforms: ok}
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if ok {
		fmt.Fprintf(formatter.Writer, "✓ %s conforms to %s\n", result.Value, result.Type)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s does not conform to %s\n", result.Value, result.Type)
	}

	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: value does not conform to %s", ErrCodeTypeMismatch, opts.Type))
	}
	return nil
}

// DecodeValue parses a JSON document into the values the type registry
// checks against.
func DecodeValue(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse JSON: trailing data after value")
	}
	return convertValue(v)
}

func convertValue(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", t, err)
		}
		return f, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		if len(t) == 1 {
			if s, ok := t["$decimal"].(string); ok {
				d, err := decimal.NewFromString(s)
				if err != nil {
					return nil, fmt.Errorf("invalid $decimal %q: %w", s, err)
				}
				return d, nil
			}
			if s, ok := t["$datetime"].(string); ok {
				at, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return nil, fmt.Errorf("invalid $datetime %q: %w", s, err)
				}
				return at, nil
			}
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			c, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	}
	return v, nil
}
