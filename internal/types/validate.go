package types

import (
	"fmt"
	"strings"

	"github.com/roach88/vaultsdk/internal/typeexpr"
)

// Validation error codes (E100-E199)
const (
	ErrUnsupportedSpec = "E100" // unsupported spec type for validation

	ErrEmptyName           = "E101" // name is required
	ErrInvalidTypeExpr     = "E102" // type expression does not parse
	ErrUndeclaredArg       = "E103" // constructor arg is not a public attribute
	ErrEnumNoMembers       = "E104" // enum must have members
	ErrDuplicateMemberName = "E105" // duplicate enum member or attribute name
)

// ValidationError represents a spec table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a spec for structural mistakes.
// Returns all errors found (does not fail-fast).
func Validate(spec Spec) []ValidationError {
	switch s := spec.(type) {
	case *ClassSpec:
		return validateClassSpec(s)
	case *EnumSpec:
		return validateEnumSpec(s)
	case *NativeObjectSpec:
		return validateName(s.Name)
	case *FixedValueSpec:
		errs := validateName(s.Name)
		return append(errs, validateTypeExpr("type", s.Type)...)
	case *DecoratorSpec:
		return validateName(s.Name)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported spec type: %T", spec),
			Code:    ErrUnsupportedSpec,
		}}
	}
}

func validateName(name string) []ValidationError {
	if strings.TrimSpace(name) == "" {
		return []ValidationError{{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrEmptyName,
		}}
	}
	return nil
}

func validateTypeExpr(field, expr string) []ValidationError {
	if _, err := typeexpr.Parse(expr); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: err.Error(),
			Code:    ErrInvalidTypeExpr,
		}}
	}
	return nil
}

func validateClassSpec(spec *ClassSpec) []ValidationError {
	errs := validateName(spec.Name)

	seen := make(map[string]bool)
	for i, attr := range spec.PublicAttributes {
		field := fmt.Sprintf("public_attributes[%d]", i)
		if seen[attr.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate attribute name: %q", attr.Name),
				Code:    ErrDuplicateMemberName,
			})
		}
		seen[attr.Name] = true
		errs = append(errs, validateTypeExpr(field+".type", attr.Type)...)
	}

	for i, m := range spec.PublicMethods {
		for j, arg := range m.Args {
			errs = append(errs, validateTypeExpr(fmt.Sprintf("public_methods[%d].args[%d].type", i, j), arg.Type)...)
		}
		if m.ReturnValue != nil {
			errs = append(errs, validateTypeExpr(fmt.Sprintf("public_methods[%d].return_value.type", i), m.ReturnValue.Type)...)
		}
	}

	if spec.Constructor != nil {
		for i, arg := range spec.Constructor.Args {
			field := fmt.Sprintf("constructor.args[%d]", i)
			errs = append(errs, validateTypeExpr(field+".type", arg.Type)...)
			if _, ok := spec.Attribute(arg.Name); !ok {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("constructor arg %q is not a public attribute of %s", arg.Name, spec.Name),
					Code:    ErrUndeclaredArg,
				})
			}
		}
	}

	return errs
}

func validateEnumSpec(spec *EnumSpec) []ValidationError {
	errs := validateName(spec.Name)

	if len(spec.Members) == 0 {
		errs = append(errs, ValidationError{
			Field:   "members",
			Message: fmt.Sprintf("enum %s must have at least one member", spec.Name),
			Code:    ErrEnumNoMembers,
		})
	}

	seen := make(map[string]bool)
	for i, m := range spec.Members {
		if seen[m.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("members[%d].name", i),
				Message: fmt.Sprintf("duplicate member name: %q", m.Name),
				Code:    ErrDuplicateMemberName,
			})
		}
		seen[m.Name] = true
	}

	return errs
}
