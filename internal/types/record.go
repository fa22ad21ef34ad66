package types

import (
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Record is a structural class declared as data rather than as a Go type.
// A value conforms when it is a map[string]any whose keys are declared
// attributes and whose entries conform to the attribute types. Absent
// attributes are checked as None, so only Optional attributes may be omitted.
//
// Attribute types are resolved through the registry on every check, so a
// record may refer to itself, e.g. Node{children: List[Node]}.
type Record struct {
	spec *ClassSpec
}

// NewRecord wraps spec as a self-describing structural type. When spec has no
// constructor, one taking every attribute and returning the map is added.
func NewRecord(spec *ClassSpec) *Record {
	if spec.Constructor == nil {
		cp := *spec
		cp.Constructor = &ConstructorSpec{
			Args: spec.PublicAttributes,
			New: func(args map[string]any) (any, error) {
				out := make(map[string]any, len(args))
				for k, v := range args {
					out[k] = v
				}
				return out, nil
			},
		}
		spec = &cp
	}
	return &Record{spec: spec}
}

// Spec implements Describer.
func (r *Record) Spec() Spec {
	return r.spec
}

// Conforms implements Checker.
func (r *Record) Conforms(reg *Registry, v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for key := range m {
		if _, ok := r.spec.Attribute(key); !ok {
			return false
		}
	}
	for _, attr := range r.spec.PublicAttributes {
		ok, err := reg.Check(attr.Type, m[attr.Name])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// Enum is an enumeration declared as data. A value conforms when it renders
// identically to one of the member values, so 1 and int64(1) are the same
// member but 1 and "1" are not.
type Enum struct {
	spec *EnumSpec
}

// NewEnum wraps spec as a self-describing enumeration.
func NewEnum(spec *EnumSpec) *Enum {
	return &Enum{spec: spec}
}

// Spec implements Describer.
func (e *Enum) Spec() Spec {
	return e.spec
}

// Conforms implements Checker.
func (e *Enum) Conforms(_ *Registry, v any) bool {
	lit := valuefmt.Literal(v)
	for _, m := range e.spec.Members {
		if valuefmt.Literal(m.Value) == lit {
			return true
		}
	}
	return false
}
