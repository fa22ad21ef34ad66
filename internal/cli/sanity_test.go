package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSanityCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewSanityCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSanityCatalog(t *testing.T) {
	out, err := runSanityCmd(t, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
}

func TestSanityWithSpecsJSON(t *testing.T) {
	out, err := runSanityCmd(t, "json", "--specs", writeSpecs(t, validSpecs))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["ok"])
}

func TestSanityMissingSpecs(t *testing.T) {
	out, err := runSanityCmd(t, "text", "--specs", "/nonexistent/specs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
