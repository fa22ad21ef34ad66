package types

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/typeexpr"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Registry holds every name visible to contract code together with its
// specification, and checks values against type expressions over that
// namespace.
//
// Name resolution order: the generic helpers (Any, Dict, List, Optional,
// Tuple, Union), then custom names, then builtins.
type Registry struct {
	builtins map[string]any
	objects  map[string]any
	specs    map[string]Spec
	order    []string

	typeCheckingDisabled bool
	logger               *slog.Logger

	parsed sync.Map // type expression -> typeexpr.Node
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTypeCheckingDisabled turns every check into a no-op.
// Intended for trusted replay paths.
func WithTypeCheckingDisabled() RegistryOption {
	return func(r *Registry) {
		r.typeCheckingDisabled = true
	}
}

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

var genericNames = map[string]bool{
	"Any": true, "Dict": true, "List": true, "Optional": true, "Tuple": true, "Union": true,
}

// NewRegistry builds a registry from a builtins namespace and a list of custom
// items. Each custom item is one of *NativeObjectSpec, *DecoratorSpec,
// *FixedValueSpec or a Describer.
func NewRegistry(builtins map[string]any, custom []any, opts ...RegistryOption) (*Registry, error) {
	if builtins == nil {
		return nil, sdkerr.InvalidSmartContractf("builtins must be a dict")
	}

	r := &Registry{
		builtins: builtins,
		objects:  make(map[string]any, len(custom)),
		specs:    make(map[string]Spec, len(custom)),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, item := range custom {
		name, object, spec, err := resolveItem(item)
		if err != nil {
			return nil, err
		}
		name = norm.NFC.String(name)
		if name == "" {
			return nil, sdkerr.InvalidSmartContractf("TypeRegistry could not infer name for object %s", valuefmt.Literal(item))
		}
		if _, exists := r.objects[name]; exists {
			return nil, sdkerr.InvalidSmartContractf("Name '%s' is multiply defined in TypeRegistry", name)
		}
		r.objects[name] = object
		r.specs[name] = spec
		r.order = append(r.order, name)
	}

	r.logger.Debug("type registry built",
		"builtins", len(builtins),
		"custom", len(r.order),
		"type_checking", !r.typeCheckingDisabled)

	return r, nil
}

// resolveItem determines (name, object, spec) for a custom item.
func resolveItem(item any) (string, any, Spec, error) {
	switch v := item.(type) {
	case *NativeObjectSpec:
		return v.Name, v.Object, v, nil
	case *DecoratorSpec:
		return v.Name, v.Object, v, nil
	case *FixedValueSpec:
		return v.Name, v.FixedValue, v, nil
	case Describer:
		spec := v.Spec()
		if spec == nil {
			return "", nil, nil, sdkerr.InvalidSmartContractf("Invalid item %s inserted into TypeRegistry", valuefmt.Literal(item))
		}
		return spec.specName(), describedObject(v, spec), spec, nil
	}
	return "", nil, nil, sdkerr.InvalidSmartContractf("Invalid item %s inserted into TypeRegistry", valuefmt.Literal(item))
}

// describedObject derives the namespace object for a self-describing item.
func describedObject(item Describer, spec Spec) any {
	if c, ok := item.(Checker); ok {
		return c
	}
	rt := reflect.TypeOf(item)
	if es, ok := spec.(*EnumSpec); ok {
		return enumChecker{spec: es, rt: rt}
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}

// TypeCheckingDisabled reports whether checks are short-circuited.
func (r *Registry) TypeCheckingDisabled() bool {
	return r.typeCheckingDisabled
}

// Lookup returns the namespace object bound to name.
func (r *Registry) Lookup(name string) (any, bool) {
	if obj, ok := r.objects[name]; ok {
		return obj, true
	}
	obj, ok := r.builtins[name]
	return obj, ok
}

// Spec returns the specification registered under name.
func (r *Registry) Spec(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns custom names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Specs returns every custom spec in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// ClassSpecs returns every registered ClassSpec sorted by name.
func (r *Registry) ClassSpecs() []*ClassSpec {
	var out []*ClassSpec
	for _, name := range r.order {
		if cs, ok := r.specs[name].(*ClassSpec); ok {
			out = append(out, cs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AssertTypeName checks value against the type expression typeName.
// Returns a strong typing error naming location on mismatch.
func (r *Registry) AssertTypeName(typeName string, value any, location string) error {
	if r.typeCheckingDisabled {
		return nil
	}
	ok, err := r.Check(typeName, value)
	if err != nil {
		return err
	}
	if !ok {
		return sdkerr.StrongTypingf("%s expected %s but got value %s", location, typeName, valuefmt.Literal(value))
	}
	return nil
}

// Check reports whether value conforms to typeName. An error is returned only
// for malformed expressions or unknown names.
func (r *Registry) Check(typeName string, value any) (bool, error) {
	node, err := r.parse(typeName)
	if err != nil {
		return false, err
	}
	obj, err := r.Resolve(node)
	if err != nil {
		return false, err
	}
	return r.IsValidType(obj, value), nil
}

// IsValidType delegates to obj's Checker when it has one, otherwise performs
// a runtime type check against a reflect.Type. A string object is an alias
// and is checked as a type expression.
func (r *Registry) IsValidType(obj any, value any) bool {
	switch t := obj.(type) {
	case Checker:
		return t.Conforms(r, value)
	case reflect.Type:
		return instanceOf(t, value)
	case string:
		ok, err := r.Check(t, value)
		return err == nil && ok
	}
	return false
}

func (r *Registry) parse(typeName string) (typeexpr.Node, error) {
	if cached, ok := r.parsed.Load(typeName); ok {
		return cached.(typeexpr.Node), nil
	}
	node, err := typeexpr.Parse(typeName)
	if err != nil {
		return nil, err
	}
	r.parsed.Store(typeName, node)
	return node, nil
}

// UnknownTypeError reports a name that is not bound in the registry.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("name '%s' is not defined", e.Name)
}

// Resolve maps a type expression AST to a namespace object or checker.
// Named types are bound to their current namespace object; nested
// references inside generics are resolved again at check time through
// IsValidType, so recursive record types terminate on finite values.
func (r *Registry) Resolve(node typeexpr.Node) (any, error) {
	switch n := node.(type) {
	case typeexpr.Simple:
		switch n.Name {
		case "Any":
			return anyChecker{}, nil
		case "Dict":
			return dictChecker{key: anyChecker{}, value: anyChecker{}}, nil
		case "List":
			return listChecker{elem: anyChecker{}}, nil
		}
		obj, ok := r.Lookup(n.Name)
		if !ok {
			return nil, &UnknownTypeError{Name: n.Name}
		}
		return obj, nil

	case typeexpr.Generic:
		if !genericNames[n.Name] || n.Name == "Any" {
			return nil, fmt.Errorf("'%s' is not subscriptable", n.Name)
		}
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			obj, err := r.Resolve(arg)
			if err != nil {
				return nil, err
			}
			args[i] = obj
		}
		switch n.Name {
		case "Dict":
			if len(args) != 2 {
				return nil, fmt.Errorf("Dict expects 2 type arguments, got %d", len(args))
			}
			return dictChecker{key: args[0], value: args[1]}, nil
		case "List":
			if len(args) != 1 {
				return nil, fmt.Errorf("List expects 1 type argument, got %d", len(args))
			}
			return listChecker{elem: args[0]}, nil
		case "Optional":
			if len(args) != 1 {
				return nil, fmt.Errorf("Optional expects 1 type argument, got %d", len(args))
			}
			return optionalChecker{elem: args[0]}, nil
		case "Tuple":
			return tupleChecker{elems: args}, nil
		default: // Union
			return unionChecker{alternatives: args}, nil
		}
	}
	return nil, fmt.Errorf("unsupported type expression node %T", node)
}
