// Package valuefmt renders runtime values for error messages.
//
// Two forms exist. Text is the display form (a string renders raw). Literal is
// the source-like form (a string renders quoted). Containers always render
// their elements in literal form so nested strings stay distinguishable.
// Map entries are ordered by their rendered key so output is deterministic.
package valuefmt

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Literaler is implemented by values that carry their own literal form.
type Literaler interface {
	Literal() string
}

// TypeNamer is implemented by values that report a type name other than their Go type.
type TypeNamer interface {
	TypeName() string
}

// Text returns the display form of v.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return formatTime(val)
	case *time.Time:
		if val == nil {
			return "None"
		}
		return formatTime(*val)
	case fmt.Stringer:
		if isNilPointer(v) {
			return "None"
		}
		return val.String()
	}
	return Literal(v)
}

// Literal returns the literal form of v.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return quote(val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	case decimal.Decimal:
		return fmt.Sprintf("Decimal('%s')", val.String())
	case time.Time:
		return fmt.Sprintf("datetime(%s)", formatTime(val))
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case Literaler:
		if isNilPointer(v) {
			return "None"
		}
		return val.Literal()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "None"
		}
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		return Literal(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Literal(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case reflect.Map:
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, Literal(iter.Key().Interface())+": "+Literal(iter.Value().Interface()))
		}
		sort.Strings(entries)
		return "{" + strings.Join(entries, ", ") + "}"
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

// TypeName returns the short runtime type name of v.
func TypeName(v any) string {
	switch val := v.(type) {
	case nil:
		return "NoneType"
	case string:
		return "str"
	case bool:
		return "bool"
	case decimal.Decimal:
		return "Decimal"
	case time.Time:
		return "datetime"
	case TypeNamer:
		return val.TypeName()
	}

	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() != "" && rt.PkgPath() != "" {
		return rt.Name()
	}
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "dict"
	case reflect.Func:
		return "function"
	}
	return rt.String()
}

// quote renders s with single quotes unless it contains a single quote and no
// double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// formatTime renders t as "2006-01-02 15:04:05[.ffffff]+00:00".
func formatTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond()/1000 != 0 {
		layout += ".000000"
	}
	return t.Format(layout + "-07:00")
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
