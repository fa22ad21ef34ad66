package types

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/typeexpr"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Prototype values used when constructing instances for sanity checks.
var (
	PrototypeDecimal  = decimal.NewFromInt(123)
	PrototypeDatetime = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	PrototypeString   = "Hello"
)

// InvalidAttribute records an attribute whose value does not match its spec.
type InvalidAttribute struct {
	Attribute string `json:"attribute"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

// InvalidMethod records a method (or constructor) that raised a typing error.
type InvalidMethod struct {
	Method string `json:"method"`
	Error  string `json:"error"`
}

// InvalidReturnValue records a method whose return value does not match its spec.
type InvalidReturnValue struct {
	Method   string `json:"method"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// SanityReport accumulates every inconsistency found between the registered
// class specs and the instances they describe. Nothing is fail-fast.
type SanityReport struct {
	ClassesWithoutConstructorSpecs []string             `json:"classes_without_constructor_specs,omitempty"`
	MissingAttributes              []string             `json:"missing_attributes,omitempty"`
	InvalidAttributes              []InvalidAttribute   `json:"invalid_attributes,omitempty"`
	MissingMethods                 []string             `json:"missing_methods,omitempty"`
	InvalidMethods                 []InvalidMethod      `json:"invalid_methods,omitempty"`
	InvalidMethodReturnValues      []InvalidReturnValue `json:"invalid_method_return_values,omitempty"`
}

// OK reports whether every spec was satisfied.
func (s *SanityReport) OK() bool {
	return len(s.ClassesWithoutConstructorSpecs) == 0 &&
		len(s.MissingAttributes) == 0 &&
		len(s.InvalidAttributes) == 0 &&
		len(s.MissingMethods) == 0 &&
		len(s.InvalidMethods) == 0 &&
		len(s.InvalidMethodReturnValues) == 0
}

// String renders the human-readable report.
func (s *SanityReport) String() string {
	var lines []string
	if len(s.ClassesWithoutConstructorSpecs) > 0 {
		lines = append(lines, "Classes without constructor specs: "+strings.Join(s.ClassesWithoutConstructorSpecs, ", "))
	}
	if len(s.MissingAttributes) > 0 {
		lines = append(lines, "Missing attributes: "+strings.Join(s.MissingAttributes, ", "))
	}
	if len(s.InvalidAttributes) > 0 {
		lines = append(lines, "Invalid attributes:")
		for _, a := range s.InvalidAttributes {
			lines = append(lines, fmt.Sprintf("%s expected %s but got %s", a.Attribute, a.Expected, a.Actual))
		}
	}
	if len(s.MissingMethods) > 0 {
		lines = append(lines, "Missing methods: "+strings.Join(s.MissingMethods, ", "))
	}
	if len(s.InvalidMethods) > 0 {
		lines = append(lines, "Invalid methods:")
		for _, m := range s.InvalidMethods {
			lines = append(lines, fmt.Sprintf("%s raised %s", m.Method, m.Error))
		}
	}
	if len(s.InvalidMethodReturnValues) > 0 {
		lines = append(lines, "Invalid method return values:")
		for _, m := range s.InvalidMethodReturnValues {
			lines = append(lines, fmt.Sprintf("%s expected %s but got %s", m.Method, m.Expected, m.Actual))
		}
	}
	if len(lines) == 0 {
		return "All specs satisfied"
	}
	return strings.Join(lines, "\n")
}

func (s *SanityReport) sort() {
	sort.Strings(s.ClassesWithoutConstructorSpecs)
	sort.Strings(s.MissingAttributes)
	sort.Strings(s.MissingMethods)
	sort.Slice(s.InvalidAttributes, func(i, j int) bool { return s.InvalidAttributes[i].Attribute < s.InvalidAttributes[j].Attribute })
	sort.Slice(s.InvalidMethods, func(i, j int) bool { return s.InvalidMethods[i].Method < s.InvalidMethods[j].Method })
	sort.Slice(s.InvalidMethodReturnValues, func(i, j int) bool {
		return s.InvalidMethodReturnValues[i].Method < s.InvalidMethodReturnValues[j].Method
	})
}

// CheckSpecsSanity constructs an instance of every registered class from
// prototype arguments and verifies that its attributes and methods match
// the spec. prebuilt supplies instances by type expression for types that
// cannot be built from prototypes.
func CheckSpecsSanity(r *Registry, prebuilt map[string]any) *SanityReport {
	report := &SanityReport{}
	for _, spec := range r.ClassSpecs() {
		p := &prototyper{r: r, prebuilt: prebuilt, visiting: map[string]bool{}}
		p.checkClassSpec(report, spec)
	}
	report.sort()
	return report
}

// prototyper builds prototype values, refusing to recurse into a class that
// is already being constructed.
type prototyper struct {
	r        *Registry
	prebuilt map[string]any
	visiting map[string]bool
}

func (p *prototyper) checkClassSpec(report *SanityReport, spec *ClassSpec) {
	r := p.r
	if _, ok := p.prebuilt[spec.Name]; !ok && spec.Constructor == nil {
		report.ClassesWithoutConstructorSpecs = append(report.ClassesWithoutConstructorSpecs, spec.Name)
		return
	}

	instance, err := p.construct(spec.Name)
	if err != nil {
		if isTypingFailure(err) {
			report.InvalidMethods = append(report.InvalidMethods, InvalidMethod{Method: spec.Name + ".__init__", Error: err.Error()})
		}
		return
	}

	for _, attr := range spec.PublicAttributes {
		if attr.Name == "" {
			continue
		}
		id := spec.Name + "." + attr.Name
		value, ok := ReadAttribute(instance, attr.Name)
		if !ok {
			report.MissingAttributes = append(report.MissingAttributes, id)
			continue
		}
		if err := r.AssertTypeName(attr.Type, value, ""); err != nil {
			report.InvalidAttributes = append(report.InvalidAttributes, InvalidAttribute{
				Attribute: id,
				Expected:  attr.Type,
				Actual:    valuefmt.TypeName(value),
			})
		}
	}

	for i := range spec.PublicMethods {
		p.checkMethodSpec(report, spec.Name+"."+spec.PublicMethods[i].Name, instance, &spec.PublicMethods[i])
	}
}

func (p *prototyper) checkMethodSpec(report *SanityReport, id string, instance any, m *MethodSpec) {
	if m.Invoke == nil {
		report.MissingMethods = append(report.MissingMethods, id)
		return
	}

	args := make(map[string]any, len(m.Args))
	for _, arg := range m.Args {
		v, err := p.construct(arg.Type)
		if err != nil {
			return
		}
		args[arg.Name] = v
	}

	result, err := m.Invoke(instance, args)
	if err != nil {
		if isTypingFailure(err) {
			report.InvalidMethods = append(report.InvalidMethods, InvalidMethod{Method: id, Error: err.Error()})
		}
		return
	}

	if m.ReturnValue != nil {
		if err := p.r.AssertTypeName(m.ReturnValue.Type, result, ""); err != nil {
			report.InvalidMethodReturnValues = append(report.InvalidMethodReturnValues, InvalidReturnValue{
				Method:   id,
				Expected: m.ReturnValue.Type,
				Actual:   valuefmt.TypeName(result),
			})
		}
	}
}

// assignError marks argument shape mismatches raised while constructing.
type assignError struct {
	err error
}

func (e *assignError) Error() string { return e.err.Error() }
func (e *assignError) Unwrap() error { return e.err }

func isTypingFailure(err error) bool {
	var ae *assignError
	return sdkerr.IsStrongTyping(err) || errors.As(err, &ae)
}

// construct builds a prototype value for a type expression.
func (p *prototyper) construct(typeName string) (any, error) {
	r := p.r
	if v, ok := p.prebuilt[typeName]; ok && v != nil {
		return v, nil
	}

	node, err := r.parse(typeName)
	if err != nil {
		return nil, err
	}

	if spec, ok := r.Spec(typeName); ok {
		switch s := spec.(type) {
		case *ClassSpec:
			if s.Constructor == nil || s.Constructor.New == nil {
				return nil, fmt.Errorf("cannot construct %s: no constructor", s.Name)
			}
			if p.visiting[s.Name] {
				return nil, fmt.Errorf("cannot construct %s: recursive constructor", s.Name)
			}
			p.visiting[s.Name] = true
			defer delete(p.visiting, s.Name)
			args := make(map[string]any, len(s.Constructor.Args))
			for _, arg := range s.Constructor.Args {
				v, err := p.construct(arg.Type)
				if err != nil {
					return nil, err
				}
				args[arg.Name] = v
			}
			if err := s.AssertConstructorArgs(r, args); err != nil {
				return nil, err
			}
			v, err := s.Constructor.New(args)
			if err != nil && !sdkerr.IsStrongTyping(err) && sdkerr.KindOf(err) == "" {
				return nil, &assignError{err: err}
			}
			return v, err
		case *EnumSpec:
			if len(s.Members) == 0 {
				return nil, fmt.Errorf("cannot construct enum %s without members", s.Name)
			}
			return s.Members[0].Value, nil
		case *NativeObjectSpec:
			switch s.Object {
			case DecimalType:
				return PrototypeDecimal, nil
			case DatetimeType:
				return PrototypeDatetime, nil
			}
			return nil, fmt.Errorf("don't know how to construct native object %s", s.Name)
		default:
			return nil, fmt.Errorf("can't construct specification of type %T", spec)
		}
	}

	if g, ok := node.(typeexpr.Generic); ok {
		switch g.Name {
		case "Optional":
			return nil, nil
		case "List":
			return []any{}, nil
		case "Dict":
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("can't construct %s", typeName)
	}

	obj, err := r.Resolve(node)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *Builtin:
		if o.Name == "str" {
			return PrototypeString, nil
		}
		if o.zero == nil {
			return nil, nil
		}
		return o.zero(), nil
	case reflect.Type:
		return reflect.New(o).Interface(), nil
	}
	return nil, fmt.Errorf("can't construct %s", typeName)
}
