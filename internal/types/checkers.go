package types

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Checker is implemented by namespace objects that decide conformance
// themselves instead of by runtime type. The registry is passed at check time
// so named types resolve lazily, which is what makes recursive types work.
type Checker interface {
	Conforms(r *Registry, v any) bool
}

// Tuple is a fixed-arity heterogeneous value, checked by Tuple[...] expressions.
type Tuple []any

// TypeName implements valuefmt.TypeNamer.
func (Tuple) TypeName() string { return "tuple" }

// Literal implements valuefmt.Literaler.
func (t Tuple) Literal() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = valuefmt.Literal(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Builtin is a namespace object for a primitive type.
type Builtin struct {
	Name  string
	match func(v any) bool
	zero  func() any
}

// Conforms implements Checker.
func (b *Builtin) Conforms(_ *Registry, v any) bool {
	return b.match(v)
}

// String returns the builtin's name.
func (b *Builtin) String() string {
	return b.Name
}

// DefaultBuiltins returns the primitive types available in every registry.
// Decimal and datetime are not builtins; they are registered as native objects.
func DefaultBuiltins() map[string]any {
	builtins := []*Builtin{
		{Name: "int", match: isInt, zero: func() any { return 0 }},
		{Name: "str", match: func(v any) bool { _, ok := v.(string); return ok }, zero: func() any { return "" }},
		{Name: "bool", match: func(v any) bool { _, ok := v.(bool); return ok }, zero: func() any { return false }},
		{Name: "float", match: isFloat, zero: func() any { return 0.0 }},
		{Name: "dict", match: isDict, zero: func() any { return map[string]any{} }},
		{Name: "list", match: isList, zero: func() any { return []any{} }},
		{Name: "tuple", match: func(v any) bool { _, ok := v.(Tuple); return ok }, zero: func() any { return Tuple{} }},
		{Name: "None", match: isNone},
	}
	out := make(map[string]any, len(builtins))
	for _, b := range builtins {
		out[b.Name] = b
	}
	return out
}

// DecimalType and DatetimeType are the runtime types bound by the Decimal and
// datetime native object specs.
var (
	DecimalType  = reflect.TypeOf(decimal.Decimal{})
	DatetimeType = reflect.TypeOf(time.Time{})
)

func isInt(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// Named integer types (enums) are not plain ints.
		return reflect.TypeOf(v).PkgPath() == ""
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func isDict(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
}

func isList(v any) bool {
	if _, ok := v.(Tuple); ok {
		return false
	}
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// isNone reports whether v is nil or a nil pointer.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// anyChecker accepts every value.
type anyChecker struct{}

func (anyChecker) Conforms(*Registry, any) bool { return true }

// dictChecker checks Dict[K, V].
type dictChecker struct {
	key, value any
}

func (c dictChecker) Conforms(r *Registry, v any) bool {
	if !isDict(v) {
		return false
	}
	iter := reflect.ValueOf(v).MapRange()
	for iter.Next() {
		if !r.IsValidType(c.key, iter.Key().Interface()) || !r.IsValidType(c.value, iter.Value().Interface()) {
			return false
		}
	}
	return true
}

// listChecker checks List[T].
type listChecker struct {
	elem any
}

func (c listChecker) Conforms(r *Registry, v any) bool {
	if !isList(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.Len(); i++ {
		if !r.IsValidType(c.elem, rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

// optionalChecker checks Optional[T].
type optionalChecker struct {
	elem any
}

func (c optionalChecker) Conforms(r *Registry, v any) bool {
	return isNone(v) || r.IsValidType(c.elem, v)
}

// tupleChecker checks Tuple[T1, ..., Tn].
type tupleChecker struct {
	elems []any
}

func (c tupleChecker) Conforms(r *Registry, v any) bool {
	t, ok := v.(Tuple)
	if !ok || len(t) != len(c.elems) {
		return false
	}
	for i, elem := range c.elems {
		if !r.IsValidType(elem, t[i]) {
			return false
		}
	}
	return true
}

// unionChecker checks Union[T1, ..., Tn].
type unionChecker struct {
	alternatives []any
}

func (c unionChecker) Conforms(r *Registry, v any) bool {
	for _, alt := range c.alternatives {
		if r.IsValidType(alt, v) {
			return true
		}
	}
	return false
}

// enumChecker checks membership of a Go enum type.
type enumChecker struct {
	spec *EnumSpec
	rt   reflect.Type
}

func (c enumChecker) Conforms(_ *Registry, v any) bool {
	if v == nil || reflect.TypeOf(v) != c.rt {
		return false
	}
	for _, m := range c.spec.Members {
		if m.Value == v {
			return true
		}
	}
	return false
}

// instanceOf reports whether v is an instance of rt or a non-nil pointer to one.
func instanceOf(rt reflect.Type, v any) bool {
	if v == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if vt == rt {
		return true
	}
	if vt.Kind() == reflect.Pointer && vt.Elem() == rt {
		return !reflect.ValueOf(v).IsNil()
	}
	if rt.Kind() == reflect.Interface {
		return vt.Implements(rt)
	}
	return false
}
