package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandPasses(t *testing.T) {
	out, err := runTestCmd(t, "text", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ inbound_partial_settlement")
	assert.Contains(t, out, "✓ outbound_released")
	assert.Contains(t, out, "✓ settlement_first")
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := runTestCmd(t, "json", "--parallel", "1", scenariosDir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 3, resp.Data.Passed)

	names := make([]string, 0, len(resp.Data.Scenarios))
	for _, s := range resp.Data.Scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"inbound_partial_settlement", "outbound_released", "settlement_first"}, names)
}

func TestTestCommandFilter(t *testing.T) {
	out, err := runTestCmd(t, "text", "--filter", "inbound_*", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "outbound_released")
}

func TestTestCommandNoMatches(t *testing.T) {
	out, err := runTestCmd(t, "text", "--filter", "nothing_*", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandFailure(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(scenariosDir, "settlement_first.yaml"))
	require.NoError(t, err)
	broken := bytes.Replace(data, []byte("cannot start with Settlement"), []byte("cannot start with Release"), 1)
	file := writeFile(t, "broken.yaml", string(broken))

	out, err := runTestCmd(t, "text", file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ settlement_first")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommandPathErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"missing path", []string{"/nonexistent/scenarios"}, "scenario path not found"},
		{"bad filter", []string{"--filter", "[", scenariosDir}, "invalid filter pattern"},
		{"unparseable scenario", []string{writeBadScenario(t)}, "Error [E004]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runTestCmd(t, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.contains)
		})
	}
}

func writeBadScenario(t *testing.T) string {
	t.Helper()
	return writeFile(t, "bad.yaml", "name: bad\nunknown_field: true\n")
}
