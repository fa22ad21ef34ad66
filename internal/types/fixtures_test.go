package types

import (
	"github.com/roach88/vaultsdk/internal/sdkerr"
)

// widget is a minimal self-describing class used across the tests.
type widget struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func (widget) Spec() Spec {
	attrs := []ValueSpec{
		{Name: "name", Type: "str"},
		{Name: "size", Type: "int"},
	}
	return &ClassSpec{
		Name:             "Widget",
		PublicAttributes: attrs,
		PublicMethods: []MethodSpec{
			{
				Name:        "label",
				Args:        []ValueSpec{{Name: "prefix", Type: "str"}},
				ReturnValue: &ReturnValueSpec{Type: "str"},
				Invoke: func(obj any, args map[string]any) (any, error) {
					return args["prefix"].(string) + obj.(*widget).Name, nil
				},
			},
		},
		Constructor: &ConstructorSpec{Args: attrs, New: FieldConstructor[widget](nil)},
	}
}

type color int

const (
	red color = iota + 1
	blue
)

func (color) Spec() Spec {
	return &EnumSpec{
		Name:    "Color",
		Members: EnumMembers(EnumMember{Name: "RED", Value: red}, EnumMember{Name: "BLUE", Value: blue}),
	}
}

// gadget deliberately disagrees with its own spec.
type gadget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (gadget) Spec() Spec {
	return &ClassSpec{
		Name: "Gadget",
		PublicAttributes: []ValueSpec{
			{Name: "name", Type: "str"},
			{Name: "count", Type: "str"},
			{Name: "ghost", Type: "int"},
		},
		PublicMethods: []MethodSpec{
			{Name: "missing"},
			{
				Name: "explode",
				Invoke: func(any, map[string]any) (any, error) {
					return nil, sdkerr.StrongTypingf("boom")
				},
			},
			{
				Name:        "lie",
				ReturnValue: &ReturnValueSpec{Type: "int"},
				Invoke: func(any, map[string]any) (any, error) {
					return "not an int", nil
				},
			},
		},
		Constructor: &ConstructorSpec{
			Args: []ValueSpec{{Name: "name", Type: "str"}},
			New:  FieldConstructor[gadget](nil),
		},
	}
}

// bare has no constructor spec.
type bare struct{}

func (bare) Spec() Spec {
	return &ClassSpec{Name: "Bare"}
}

func nativeSpecs() []any {
	return []any{
		&NativeObjectSpec{Name: "Decimal", Object: DecimalType},
		&NativeObjectSpec{Name: "datetime", Object: DatetimeType},
	}
}

func newTestRegistry(t interface{ Fatalf(string, ...any) }, custom ...any) *Registry {
	r, err := NewRegistry(DefaultBuiltins(), append(nativeSpecs(), custom...))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}
