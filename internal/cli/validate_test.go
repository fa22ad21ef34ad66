package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/compiler"
)

const validSpecs = `
package test

record: Address: {
	docstring: "A postal address."
	attributes: {
		street:   "str"
		postcode: "Optional[str]"
	}
}

enum: Colour: {
	docstring: "Paint colours."
	members: {RED: 1, GREEN: 2}
}
`

// writeSpecs writes src as a CUE file in a fresh directory.
func writeSpecs(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.cue"), []byte(src), 0644))
	return dir
}

func runValidateCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidSpecs(t *testing.T) {
	out, err := runValidateCmd(t, "text", writeSpecs(t, validSpecs))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All declarations valid (1 record(s), 1 enum(s))")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	out, err := runValidateCmd(t, "json", writeSpecs(t, validSpecs))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.EqualValues(t, 1, data["records"])
	assert.EqualValues(t, 1, data["enums"])
}

func TestValidateLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
		code string
		text string
	}{
		{
			name: "missing directory",
			dir:  func(t *testing.T) string { return "/nonexistent/directory/path" },
			code: ErrCodeNotFound,
			text: "not found",
		},
		{
			name: "empty directory",
			dir:  func(t *testing.T) string { return t.TempDir() },
			code: ErrCodeNoFiles,
			text: "no CUE files found",
		},
		{
			name: "no declarations",
			dir:  func(t *testing.T) string { return writeSpecs(t, "package test\n\nother: 1\n") },
			code: ErrCodeGeneric,
			text: "no records or enums found",
		},
		{
			name: "malformed record",
			dir:  func(t *testing.T) string { return writeSpecs(t, "package test\n\nrecord: Bad: {docstring: \"x\"}\n") },
			code: ErrCodeRecordAttributes,
			text: "attributes are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runValidateCmd(t, "text", tt.dir(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
			assert.Contains(t, out, tt.text)
		})
	}
}

func TestValidateInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		text string
	}{
		{
			name: "unknown type name",
			src:  "package test\n\nrecord: Fee: attributes: {amount: \"Money\"}\n",
			code: compiler.ErrUnknownTypeName,
			text: "name 'Money' is not defined",
		},
		{
			name: "shadowed catalog name",
			src:  "package test\n\nrecord: Posting: attributes: {amount: \"int\"}\n",
			code: compiler.ErrShadowedName,
			text: "Posting is already defined by the SDK",
		},
		{
			name: "record cycle",
			src:  "package test\n\nrecord: Node: attributes: {next: \"Node\"}\n",
			code: compiler.ErrRecordCycle,
			text: "Record Node requires itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runValidateCmd(t, "text", writeSpecs(t, tt.src))
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, err.Error(), "validation failed")
			assert.Contains(t, out, "✗ Validation failed")
			assert.Contains(t, out, tt.code)
			assert.Contains(t, out, tt.text)
		})
	}
}

func TestValidateInvalidSpecsJSON(t *testing.T) {
	src := "package test\n\nrecord: Fee: attributes: {amount: \"Money\"}\n"
	out, err := runValidateCmd(t, "json", writeSpecs(t, src))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrUnknownTypeName, resp.Error.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["valid"])
}
