package strongtyping

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Type is a runtime type that ValidateType can test values against.
type Type interface {
	// Name is used in messages when no hint is given.
	Name() string
	accepts(v any) bool
}

type basicType struct {
	name  string
	match func(any) bool
}

func (t *basicType) Name() string        { return t.name }
func (t *basicType) accepts(v any) bool { return t.match(v) }

// Primitive types. Int never accepts bool and never accepts named integer
// types such as enums.
var (
	Int Type = &basicType{name: "int", match: func(v any) bool {
		if v == nil {
			return false
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return reflect.TypeOf(v).PkgPath() == ""
		}
		return false
	}}
	Str Type = &basicType{name: "str", match: func(v any) bool { _, ok := v.(string); return ok }}
	Bool Type = &basicType{name: "bool", match: func(v any) bool { _, ok := v.(bool); return ok }}
	Float Type = &basicType{name: "float", match: func(v any) bool { _, ok := v.(float64); return ok }}
	DecimalType Type = &basicType{name: "Decimal", match: func(v any) bool {
		switch d := v.(type) {
		case decimal.Decimal:
			return true
		case *decimal.Decimal:
			return d != nil
		}
		return false
	}}
	Datetime Type = &basicType{name: "datetime", match: func(v any) bool {
		switch t := v.(type) {
		case time.Time:
			return true
		case *time.Time:
			return t != nil
		}
		return false
	}}
	Dict Type = &basicType{name: "dict", match: func(v any) bool {
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
	}}
	List Type = &basicType{name: "list", match: func(v any) bool {
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Slice
	}}
)

type instanceType[T any] struct{}

func (instanceType[T]) Name() string {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Name()
}

func (instanceType[T]) accepts(v any) bool {
	t, ok := v.(T)
	if !ok {
		return false
	}
	rv := reflect.ValueOf(t)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}

// InstanceOf returns the Type satisfied by values assignable to T.
// A nil pointer is never an instance.
func InstanceOf[T any]() Type {
	return instanceType[T]{}
}

type oneOf []Type

func (o oneOf) Name() string {
	names := make([]string, len(o))
	for i, t := range o {
		names[i] = t.Name()
	}
	return "Union[" + strings.Join(names, ", ") + "]"
}

func (o oneOf) accepts(v any) bool {
	for _, t := range o {
		if t.accepts(v) {
			return true
		}
	}
	return false
}

// OneOf returns a Type satisfied by any of types.
func OneOf(types ...Type) Type {
	return oneOf(types)
}

type validateConfig struct {
	hint       string
	prefix     string
	optional   bool
	checkEmpty bool
}

// ValidateOption configures ValidateType.
type ValidateOption func(*validateConfig)

// WithHint replaces the type name in failure messages.
func WithHint(hint string) ValidateOption {
	return func(c *validateConfig) { c.hint = hint }
}

// WithPrefix names the value being checked in failure messages.
func WithPrefix(prefix string) ValidateOption {
	return func(c *validateConfig) { c.prefix = prefix }
}

// Optional accepts nil. With CheckEmpty it also accepts an empty string.
func Optional() ValidateOption {
	return func(c *validateConfig) { c.optional = true }
}

// CheckEmpty rejects strings that are empty or only whitespace.
func CheckEmpty() ValidateOption {
	return func(c *validateConfig) { c.checkEmpty = true }
}

// ValidateType checks value against expected.
//
// A type mismatch is a strong typing error:
//
//	'{prefix}' expected {hint}[ if populated], got '{value}' of type {T}
//
// An empty string under CheckEmpty is an invalid smart contract error.
func ValidateType(value any, expected Type, opts ...ValidateOption) error {
	var c validateConfig
	for _, opt := range opts {
		opt(&c)
	}

	if c.optional {
		if isNone(value) {
			return nil
		}
		if s, ok := value.(string); ok && c.checkEmpty && s == "" {
			return nil
		}
	}

	if !expected.accepts(value) {
		hint := c.hint
		if hint == "" {
			hint = expected.Name()
		}
		if c.optional {
			hint += " if populated"
		}

		got := "None"
		if !isNone(value) {
			text := valuefmt.Text(value)
			typeName := valuefmt.TypeName(value)
			if valuefmt.Literal(value) == typeName {
				got = fmt.Sprintf("'%s'", text)
			} else {
				got = fmt.Sprintf("'%s' of type %s", text, typeName)
			}
		}

		if c.prefix != "" {
			return sdkerr.StrongTypingf("'%s' expected %s, got %s", c.prefix, hint, got)
		}
		return sdkerr.StrongTypingf("Expected %s, got %s", hint, got)
	}

	if c.checkEmpty && expected == Str {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			if c.prefix != "" {
				return sdkerr.InvalidSmartContractf("'%s' must be a non-empty string", c.prefix)
			}
			return sdkerr.InvalidSmartContractf("Expected non empty string")
		}
	}
	return nil
}

// CheckUTC rejects datetimes whose location is not UTC. attr and owner name
// the offending attribute in the message.
func CheckUTC(t time.Time, attr, owner string) error {
	if t.Location() != time.UTC {
		return sdkerr.InvalidSmartContractf("'%s' of %s is not timezone-aware UTC", attr, owner)
	}
	return nil
}

// isNone reports whether v is nil or a nil pointer.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
