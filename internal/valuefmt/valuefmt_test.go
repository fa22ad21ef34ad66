package valuefmt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type namedThing struct{}

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"string", "abc", "'abc'"},
		{"string with single quote", "it's", `"it's"`},
		{"string with both quotes", `it's "x"`, `'it\'s "x"'`},
		{"bool", true, "True"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"float", 1.0, "1.0"},
		{"float fraction", 2.5, "2.5"},
		{"decimal", decimal.NewFromInt(10), "Decimal('10')"},
		{"list", []any{1, "a", nil}, "[1, 'a', None]"},
		{"typed list", []string{"x", "y"}, "['x', 'y']"},
		{"dict", map[string]any{"5": "5"}, "{'5': '5'}"},
		{"dict sorted", map[string]int{"b": 2, "a": 1}, "{'a': 1, 'b': 2}"},
		{"nil pointer", (*namedThing)(nil), "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(tt.in))
		})
	}
}

func TestText(t *testing.T) {
	ts := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "None", Text(nil))
	assert.Equal(t, "-10", Text(decimal.NewFromInt(-10)))
	assert.Equal(t, "2019-01-01 00:00:00+00:00", Text(ts))
	assert.Equal(t, "2019-01-01 00:00:00.000123+00:00", Text(ts.Add(123*time.Microsecond)))
	assert.Equal(t, "['a']", Text([]string{"a"}))
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NoneType"},
		{"x", "str"},
		{true, "bool"},
		{3, "int"},
		{uint8(3), "int"},
		{1.5, "float"},
		{decimal.Zero, "Decimal"},
		{time.Time{}, "datetime"},
		{[]any{}, "list"},
		{map[string]any{}, "dict"},
		{namedThing{}, "namedThing"},
		{&namedThing{}, "namedThing"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeName(tt.in))
		})
	}
}
