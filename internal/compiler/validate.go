package compiler

import (
	"fmt"

	"github.com/roach88/vaultsdk/internal/typeexpr"
	"github.com/roach88/vaultsdk/internal/types"
)

// Validation error codes beyond the type spec checks in package types.
const (
	ErrUnknownTypeName = "E106" // type expression names something the registry does not know
	ErrRecordCycle     = "E107" // required attributes of records form a cycle
	ErrShadowedName    = "E108" // declared name collides with a catalog name
)

// Validate checks compiled types against the type spec rules and against
// the names visible in reg. Returns all errors found (does not fail-fast).
// Fields are prefixed with the declaration path, e.g. "record.Address".
func Validate(reg *types.Registry, declared []types.Describer) []types.ValidationError {
	var errs []types.ValidationError

	for _, d := range declared {
		spec := d.Spec()
		prefix := declarationPath(spec)

		for _, e := range types.Validate(spec) {
			e.Field = prefix + "." + e.Field
			errs = append(errs, e)
		}

		cs, ok := spec.(*types.ClassSpec)
		if !ok {
			continue
		}
		for i, attr := range cs.PublicAttributes {
			if _, err := typeexpr.Parse(attr.Type); err != nil {
				// reported by types.Validate
				continue
			}
			if _, err := reg.Check(attr.Type, nil); err != nil {
				errs = append(errs, types.ValidationError{
					Field:   fmt.Sprintf("%s.public_attributes[%d].type", prefix, i),
					Message: err.Error(),
					Code:    ErrUnknownTypeName,
				})
			}
		}
	}

	for _, w := range AnalyzeRecordCycles(declared) {
		errs = append(errs, types.ValidationError{
			Field:   "record." + w.Path[0],
			Message: w.Message,
			Code:    ErrRecordCycle,
		})
	}

	return errs
}

// CheckShadowing reports declared names that collide with names already in
// catalog.
func CheckShadowing(catalog []string, declared []types.Describer) []types.ValidationError {
	taken := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		taken[name] = true
	}
	var errs []types.ValidationError
	for _, d := range declared {
		spec := d.Spec()
		name := specName(spec)
		if taken[name] {
			errs = append(errs, types.ValidationError{
				Field:   declarationPath(spec),
				Message: fmt.Sprintf("%s is already defined by the SDK", name),
				Code:    ErrShadowedName,
			})
		}
		taken[name] = true
	}
	return errs
}

func declarationPath(spec types.Spec) string {
	switch s := spec.(type) {
	case *types.ClassSpec:
		return "record." + s.Name
	case *types.EnumSpec:
		return "enum." + s.Name
	}
	return specName(spec)
}

func specName(spec types.Spec) string {
	switch s := spec.(type) {
	case *types.ClassSpec:
		return s.Name
	case *types.EnumSpec:
		return s.Name
	}
	return fmt.Sprintf("%T", spec)
}
