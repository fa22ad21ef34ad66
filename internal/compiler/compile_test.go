package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/types"
)

func compileString(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return v
}

func TestCompileTypes(t *testing.T) {
	v := compileString(t, `
		record: Address: {
			docstring: "A postal address."
			attributes: {
				street: "str"
				note: {type: "Optional[str]", docstring: "Free text."}
			}
		}
		enum: Colour: {
			docstring: "Paint colours."
			show_values: true
			members: {RED: 1, GREEN: 2}
		}
	`)

	declared, err := CompileTypes(v)
	require.NoError(t, err)
	require.Len(t, declared, 2)

	rec, ok := declared[0].Spec().(*types.ClassSpec)
	require.True(t, ok)
	assert.Equal(t, "Address", rec.Name)
	assert.Equal(t, "A postal address.", rec.Docstring)
	assert.Equal(t, []types.ValueSpec{
		{Name: "street", Type: "str"},
		{Name: "note", Type: "Optional[str]", Docstring: "Free text."},
	}, rec.PublicAttributes)
	require.NotNil(t, rec.Constructor)

	enum, ok := declared[1].Spec().(*types.EnumSpec)
	require.True(t, ok)
	assert.Equal(t, "Colour", enum.Name)
	assert.True(t, enum.ShowValues)
	assert.Equal(t, []types.EnumMember{
		{Name: "GREEN", Value: 2},
		{Name: "RED", Value: 1},
	}, enum.Members)
}

func TestCompileTypesEmpty(t *testing.T) {
	declared, err := CompileTypes(compileString(t, `other: 1`))
	require.NoError(t, err)
	assert.Empty(t, declared)
}

func TestCompileRecordErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{
			name:     "missing attributes",
			src:      `record: Bad: {docstring: "x"}`,
			contains: "attributes are required",
		},
		{
			name:     "attribute without type",
			src:      `record: Bad: attributes: {a: {docstring: "x"}}`,
			contains: "attributes.a: must be a type expression string",
		},
		{
			name:     "non-string docstring",
			src:      `record: Bad: {docstring: 3, attributes: {}}`,
			contains: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileTypes(compileString(t, tt.src))
			require.Error(t, err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestCompileEnumErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{
			name:     "missing members",
			src:      `enum: Bad: {docstring: "x"}`,
			contains: "members are required",
		},
		{
			name:     "float member",
			src:      `enum: Bad: members: {HALF: 0.5}`,
			contains: "float member values are forbidden",
		},
		{
			name:     "list member",
			src:      `enum: Bad: members: {LIST: [1]}`,
			contains: "unsupported member value kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileTypes(compileString(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)

			var ce *CompileError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestCompiledRecordConforms(t *testing.T) {
	declared, err := CompileTypes(compileString(t, `
		record: Node: attributes: {
			label: "str"
			children: "List[Node]"
		}
	`))
	require.NoError(t, err)

	reg, err := types.NewRegistry(types.DefaultBuiltins(), []any{declared[0]})
	require.NoError(t, err)

	leaf := map[string]any{"label": "leaf", "children": []any{}}
	ok, err := reg.Check("Node", map[string]any{"label": "root", "children": []any{leaf}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.Check("Node", map[string]any{"label": "root", "children": []any{"leaf"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "members", Message: "members are required"}
	assert.Equal(t, "members: members are required", err.Error())
}
