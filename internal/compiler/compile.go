package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/vaultsdk/internal/types"
)

// CompileTypes reads the contract-declared types of a CUE value:
//
//	record: Address: {
//		docstring: "A postal address."
//		attributes: {
//			street: "str"
//			note:   {type: "Optional[str]", docstring: "Free text."}
//		}
//	}
//	enum: Colour: {
//		docstring:   "Paint colours."
//		show_values: true
//		members: {RED: 1, GREEN: 2}
//	}
//
// Records come first, then enums, each in declaration order.
func CompileTypes(v cue.Value) ([]types.Describer, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var out []types.Describer

	if recordsVal := v.LookupPath(cue.ParsePath("record")); recordsVal.Exists() {
		iter, err := recordsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			rec, err := CompileRecord(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}

	if enumsVal := v.LookupPath(cue.ParsePath("enum")); enumsVal.Exists() {
		iter, err := enumsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			enum, err := CompileEnum(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, enum)
		}
	}

	return out, nil
}

// CompileRecord parses one record declaration. The record name is the last
// path selector of v.
func CompileRecord(v cue.Value) (*types.Record, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &types.ClassSpec{Name: labelOf(v)}

	doc, err := optionalString(v, "docstring")
	if err != nil {
		return nil, err
	}
	spec.Docstring = doc

	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, &CompileError{
			Field:   "attributes",
			Message: "attributes are required",
			Pos:     v.Pos(),
		}
	}
	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		attr, err := parseAttribute(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		spec.PublicAttributes = append(spec.PublicAttributes, attr)
	}

	return types.NewRecord(spec), nil
}

// parseAttribute accepts either a bare type expression or a struct with
// type and docstring fields.
func parseAttribute(name string, v cue.Value) (types.ValueSpec, error) {
	attr := types.ValueSpec{Name: name}

	if expr, err := v.String(); err == nil {
		attr.Type = expr
		return attr, nil
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return attr, &CompileError{
			Field:   "attributes." + name,
			Message: "must be a type expression string or a struct with a type field",
			Pos:     v.Pos(),
		}
	}
	expr, err := typeVal.String()
	if err != nil {
		return attr, formatCUEError(err)
	}
	attr.Type = expr

	doc, err := optionalString(v, "docstring")
	if err != nil {
		return attr, err
	}
	attr.Docstring = doc
	return attr, nil
}

// CompileEnum parses one enum declaration. Member values must be concrete
// ints, strings or bools. Floats are forbidden: members are compared by their
// rendering, which is not stable for floats.
func CompileEnum(v cue.Value) (*types.Enum, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &types.EnumSpec{Name: labelOf(v)}

	doc, err := optionalString(v, "docstring")
	if err != nil {
		return nil, err
	}
	spec.Docstring = doc

	if showVal := v.LookupPath(cue.ParsePath("show_values")); showVal.Exists() {
		show, err := showVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.ShowValues = show
	}

	membersVal := v.LookupPath(cue.ParsePath("members"))
	if !membersVal.Exists() {
		return nil, &CompileError{
			Field:   "members",
			Message: "members are required",
			Pos:     v.Pos(),
		}
	}
	iter, err := membersVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var members []types.EnumMember
	for iter.Next() {
		value, err := memberValue(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		members = append(members, types.EnumMember{Name: iter.Label(), Value: value})
	}
	spec.Members = types.EnumMembers(members...)

	return types.NewEnum(spec), nil
}

func memberValue(name string, v cue.Value) (any, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return int(i), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "members." + name,
			Message: "float member values are forbidden - use int or string instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "members." + name,
			Message: fmt.Sprintf("unsupported member value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func labelOf(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return labels[len(labels)-1].String()
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}
