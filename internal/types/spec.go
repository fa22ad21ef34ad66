package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/vaultsdk/internal/sdkerr"
)

// Spec is a sealed interface over the specification descriptors.
type Spec interface {
	specName() string
}

// Describer is implemented by types that publish their own specification.
// Implementations must use value receivers so a zero value can describe itself.
type Describer interface {
	Spec() Spec
}

// ValueSpec describes a named value: an attribute or an argument.
type ValueSpec struct {
	Name      string `json:"name"`
	Type      string `json:"type"` // type expression, e.g. "Optional[Dict[str, str]]"
	Docstring string `json:"docstring,omitempty"`
}

// ReturnValueSpec describes a method return value.
type ReturnValueSpec struct {
	Type      string `json:"type"`
	Docstring string `json:"docstring,omitempty"`
}

// MethodSpec describes a public method.
type MethodSpec struct {
	Name        string           `json:"name"`
	Docstring   string           `json:"docstring,omitempty"`
	Args        []ValueSpec      `json:"args,omitempty"`
	ReturnValue *ReturnValueSpec `json:"return_value,omitempty"`

	// Invoke calls the method on obj. Nil when the method cannot be called
	// generically; the sanity checker reports such methods as missing.
	Invoke func(obj any, args map[string]any) (any, error) `json:"-"`
}

// Arg returns the spec of the named argument.
func (m *MethodSpec) Arg(name string) (ValueSpec, bool) {
	return findValueSpec(m.Args, name)
}

// ConstructorSpec describes how an instance is constructed.
type ConstructorSpec struct {
	Docstring string      `json:"docstring,omitempty"`
	Args      []ValueSpec `json:"args"`

	// New builds an instance from keyword arguments.
	New func(args map[string]any) (any, error) `json:"-"`
}

// Arg returns the spec of the named argument.
func (c *ConstructorSpec) Arg(name string) (ValueSpec, bool) {
	return findValueSpec(c.Args, name)
}

// ClassSpec describes a structured type.
type ClassSpec struct {
	Name             string           `json:"name"`
	Docstring        string           `json:"docstring,omitempty"`
	PublicAttributes []ValueSpec      `json:"public_attributes,omitempty"`
	PublicMethods    []MethodSpec     `json:"public_methods,omitempty"`
	Constructor      *ConstructorSpec `json:"constructor,omitempty"`
}

func (s *ClassSpec) specName() string { return s.Name }

// Attribute returns the spec of the named public attribute.
func (s *ClassSpec) Attribute(name string) (ValueSpec, bool) {
	return findValueSpec(s.PublicAttributes, name)
}

// Method returns the spec of the named public method.
func (s *ClassSpec) Method(name string) (*MethodSpec, bool) {
	for i := range s.PublicMethods {
		if s.PublicMethods[i].Name == name {
			return &s.PublicMethods[i], true
		}
	}
	return nil, false
}

// AssertConstructorArgs checks every keyword argument against the constructor spec.
func (s *ClassSpec) AssertConstructorArgs(r *Registry, args map[string]any) error {
	if s.Constructor == nil {
		return fmt.Errorf("ConstructorSpec missing on class %s", s.Name)
	}
	for _, name := range sortedKeys(args) {
		argSpec, ok := s.Constructor.Arg(name)
		if !ok {
			return fmt.Errorf("ArgSpec missing on class %s for constructor arg '%s'", s.Name, name)
		}
		location := fmt.Sprintf("%s.__init__ arg '%s'", s.Name, name)
		if err := r.AssertTypeName(argSpec.Type, args[name], location); err != nil {
			return err
		}
	}
	return nil
}

// AssertMethodArgs checks every keyword argument against the named method's spec.
func (s *ClassSpec) AssertMethodArgs(r *Registry, method string, args map[string]any) error {
	m, ok := s.Method(method)
	if !ok {
		return fmt.Errorf("MethodSpec missing on class %s for method '%s'", s.Name, method)
	}
	for _, name := range sortedKeys(args) {
		argSpec, ok := m.Arg(name)
		if !ok {
			return fmt.Errorf("ArgSpec missing on class %s for method %s arg '%s'", s.Name, method, name)
		}
		location := fmt.Sprintf("%s.%s arg '%s'", s.Name, method, name)
		if err := r.AssertTypeName(argSpec.Type, args[name], location); err != nil {
			return err
		}
	}
	return nil
}

// AssertAttributeValue checks value against the named attribute's declared type.
func (s *ClassSpec) AssertAttributeValue(r *Registry, name string, value any) error {
	attr, ok := s.Attribute(name)
	if !ok {
		return sdkerr.StrongTypingf("ValueSpec missing on class %s for attribute %s", s.Name, name)
	}
	return r.AssertTypeName(attr.Type, value, s.Name+"."+name)
}

// EnumMember is a single enumeration member.
type EnumMember struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// EnumSpec describes an enumeration.
type EnumSpec struct {
	Name       string       `json:"name"`
	Docstring  string       `json:"docstring,omitempty"`
	Members    []EnumMember `json:"members"`
	ShowValues bool         `json:"show_values,omitempty"`
}

func (s *EnumSpec) specName() string { return s.Name }

// EnumMembers returns members sorted by name, dropping placeholder members
// whose name contains "UNKNOWN".
func EnumMembers(members ...EnumMember) []EnumMember {
	out := make([]EnumMember, 0, len(members))
	for _, m := range members {
		if strings.Contains(m.Name, "UNKNOWN") {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NativeObjectSpec binds a name to an externally defined runtime type,
// e.g. Decimal or datetime. Object is a reflect.Type or a Checker.
type NativeObjectSpec struct {
	Name      string `json:"name"`
	Object    any    `json:"-"`
	Docstring string `json:"docstring,omitempty"`
}

func (s *NativeObjectSpec) specName() string { return s.Name }

// FixedValueSpec binds a name to a literal singleton. A string FixedValue is
// treated as a type alias when used in a type expression.
type FixedValueSpec struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	FixedValue any    `json:"fixed_value"`
	Docstring  string `json:"docstring,omitempty"`
}

func (s *FixedValueSpec) specName() string { return s.Name }

// DecoratorSpec binds a name to a callable exposed to contract code.
type DecoratorSpec struct {
	Name      string `json:"name"`
	Object    any    `json:"-"`
	Docstring string `json:"docstring,omitempty"`
}

func (s *DecoratorSpec) specName() string { return s.Name }

// MergeClassSpecs overlays derived onto base: derived attributes and methods
// replace same-named base entries, new ones are appended, and the derived
// constructor wins when set.
func MergeClassSpecs(derived, base *ClassSpec) *ClassSpec {
	merged := &ClassSpec{
		Name:        derived.Name,
		Docstring:   derived.Docstring,
		Constructor: derived.Constructor,
	}
	if merged.Constructor == nil {
		merged.Constructor = base.Constructor
	}

	merged.PublicAttributes = append(merged.PublicAttributes, base.PublicAttributes...)
	for _, attr := range derived.PublicAttributes {
		merged.PublicAttributes = upsertValueSpec(merged.PublicAttributes, attr)
	}

	merged.PublicMethods = append(merged.PublicMethods, base.PublicMethods...)
	for _, m := range derived.PublicMethods {
		replaced := false
		for i := range merged.PublicMethods {
			if merged.PublicMethods[i].Name == m.Name {
				merged.PublicMethods[i] = m
				replaced = true
				break
			}
		}
		if !replaced {
			merged.PublicMethods = append(merged.PublicMethods, m)
		}
	}
	return merged
}

func upsertValueSpec(specs []ValueSpec, v ValueSpec) []ValueSpec {
	for i := range specs {
		if specs[i].Name == v.Name {
			specs[i] = v
			return specs
		}
	}
	return append(specs, v)
}

func findValueSpec(specs []ValueSpec, name string) (ValueSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ValueSpec{}, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
