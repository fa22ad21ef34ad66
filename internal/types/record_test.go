package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordConforms(t *testing.T) {
	node := NewRecord(&ClassSpec{
		Name: "Node",
		PublicAttributes: []ValueSpec{
			{Name: "value", Type: "int"},
			{Name: "children", Type: "Optional[List[Node]]"},
		},
	})
	r := newTestRegistry(t, node)

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"leaf", map[string]any{"value": 1}, true},
		{"nested", map[string]any{
			"value": 1,
			"children": []any{
				map[string]any{"value": 2},
				map[string]any{"value": 3, "children": []any{}},
			},
		}, true},
		{"nested wrong", map[string]any{
			"value":    1,
			"children": []any{map[string]any{"value": "2"}},
		}, false},
		{"missing required", map[string]any{"children": nil}, false},
		{"undeclared key", map[string]any{"value": 1, "colour": "red"}, false},
		{"not a map", "node", false},
		{"typed map", map[string]int{"value": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := r.Check("Node", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRecordDefaultConstructor(t *testing.T) {
	spec := &ClassSpec{
		Name:             "Pair",
		PublicAttributes: []ValueSpec{{Name: "left", Type: "int"}, {Name: "right", Type: "Decimal"}},
	}
	rec := NewRecord(spec)

	assert.Nil(t, spec.Constructor, "input spec is not mutated")

	cs := rec.Spec().(*ClassSpec)
	require.NotNil(t, cs.Constructor)
	assert.Equal(t, spec.PublicAttributes, cs.Constructor.Args)

	v, err := cs.Constructor.New(map[string]any{"left": 1, "right": decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"left": 1, "right": decimal.NewFromInt(2)}, v)
}

func TestEnumConforms(t *testing.T) {
	level := NewEnum(&EnumSpec{
		Name:    "Level",
		Members: []EnumMember{{Name: "LOW", Value: 1}, {Name: "HIGH", Value: "high"}},
	})
	r := newTestRegistry(t, level)

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"int member", 1, true},
		{"int64 member", int64(1), true},
		{"string member", "high", true},
		{"int as string", "1", false},
		{"non-member", 2, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := r.Check("Level", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
