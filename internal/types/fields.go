package types

import (
	"fmt"
	"reflect"
	"strings"
)

// AttributeReader is implemented by types whose public attributes are not
// all plain struct fields, e.g. output attributes behind accessors.
type AttributeReader interface {
	Attribute(name string) (any, bool)
}

// ReadAttribute returns the public attribute name of obj. It consults
// AttributeReader first, then exported struct fields by json tag.
func ReadAttribute(obj any, name string) (any, bool) {
	if ar, ok := obj.(AttributeReader); ok {
		if v, ok := ar.Attribute(name); ok {
			return v, true
		}
	}
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]
		return v, ok
	}
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	idx, ok := fieldIndex(rv.Type(), name)
	if !ok {
		return nil, false
	}
	return rv.FieldByIndex(idx).Interface(), true
}

// FieldConstructor returns a ConstructorSpec.New that builds a *T by assigning
// each argument to the exported field whose json tag matches the argument
// name, then runs validate when it is non-nil.
func FieldConstructor[T any](validate func(*T) error) func(map[string]any) (any, error) {
	return func(args map[string]any) (any, error) {
		out := new(T)
		rv := reflect.ValueOf(out).Elem()
		for _, name := range sortedKeys(args) {
			idx, ok := fieldIndex(rv.Type(), name)
			if !ok {
				return nil, fmt.Errorf("%s has no field for argument '%s'", rv.Type().Name(), name)
			}
			if err := assign(rv.FieldByIndex(idx), args[name]); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", rv.Type().Name(), name, err)
			}
		}
		if validate != nil {
			if err := validate(out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

func fieldIndex(rt reflect.Type, name string) ([]int, bool) {
	for _, f := range reflect.VisibleFields(rt) {
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == name {
			return f.Index, true
		}
	}
	return nil, false
}

// assign stores v into field, converting where the shapes agree: nil leaves
// the zero value, values are boxed into pointers, and empty containers take
// the field's own container type.
func assign(field reflect.Value, v any) error {
	if isNone(v) {
		return nil
	}
	val := reflect.ValueOf(v)
	ft := field.Type()
	switch {
	case val.Type().AssignableTo(ft):
		field.Set(val)
	case ft.Kind() == reflect.Pointer && val.Type().AssignableTo(ft.Elem()):
		ptr := reflect.New(ft.Elem())
		ptr.Elem().Set(val)
		field.Set(ptr)
	case ft.Kind() == reflect.Map && val.Kind() == reflect.Map && val.Len() == 0:
		field.Set(reflect.MakeMap(ft))
	case ft.Kind() == reflect.Slice && val.Kind() == reflect.Slice && val.Len() == 0:
		field.Set(reflect.MakeSlice(ft, 0, 0))
	case ft.Kind() == reflect.Slice && val.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, val.Len(), val.Len())
		for i := 0; i < val.Len(); i++ {
			if err := assign(out.Index(i), val.Index(i).Interface()); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		field.Set(out)
	case val.Type().ConvertibleTo(ft) && kindFamily(val.Kind()) == kindFamily(ft.Kind()):
		field.Set(val.Convert(ft))
	default:
		return fmt.Errorf("cannot assign %s to %s", val.Type(), ft)
	}
	return nil
}

// kindFamily groups kinds that convert without changing meaning.
func kindFamily(k reflect.Kind) reflect.Kind {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.Int
	case reflect.Float32, reflect.Float64:
		return reflect.Float64
	}
	return k
}
