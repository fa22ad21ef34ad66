package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vaultsdk/internal/store"
)

// journal appends the partial settlement instructions to a fresh database.
func journal(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	file := writeFile(t, "instructions.yaml", partialSettlement)
	_, err := runAppendCmd(t, "text", "--db", dbPath, "--account", "main_account", file)
	require.NoError(t, err)
	return dbPath
}

func runReplayCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReplayCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, err := runReplayCmd(t, "text", "--account", "main_account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := runReplayCmd(t, "text", "--db", dbPath, "--account", "main_account")
	require.NoError(t, err)
	assert.Contains(t, out, "No client transactions for main_account.")
}

func TestReplayText(t *testing.T) {
	dbPath := journal(t)

	out, err := runReplayCmd(t, "text", "--db", dbPath, "--account", "main_account")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ ct-1 (2 instruction(s))")
	assert.Contains(t, out, "effects: ClientTransactionEffects(authorised=10, settled=4, unsettled=6)")
	assert.Contains(t, out, "released: false  completed: false")
	assert.Contains(t, out, "DEFAULT/COMMERCIAL_BANK_MONEY/GBP/Phase.COMMITTED: credit 4 debit 0 net 4")
}

func TestReplayJSONAt(t *testing.T) {
	dbPath := journal(t)

	out, err := runReplayCmd(t, "json", "--db", dbPath, "--account", "main_account",
		"--ctid", "ct-1", "--at", "2020-01-01T01:30:00Z")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.ClientTransactions, 1)

	ct := resp.Data.ClientTransactions[0]
	assert.Equal(t, "ct-1", ct.ClientTransactionID)
	assert.Equal(t, 2, ct.Instructions)
	require.NotNil(t, ct.Observation)
	require.NotNil(t, ct.Observation.Effects)
	assert.Equal(t, "10", ct.Observation.Effects.Authorised.String())
	assert.Equal(t, "0", ct.Observation.Effects.Settled.String())
	assert.Equal(t, "10", ct.Observation.Effects.Unsettled.String())
}

func TestReplayFailures(t *testing.T) {
	dbPath := journal(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		contains string
	}{
		{
			name:     "unknown client transaction",
			args:     []string{"--ctid", "ct-9"},
			wantCode: ExitFailure,
			contains: "✗ ct-9: load client transaction ct-9: no instructions for account main_account",
		},
		{
			name:     "non-UTC datetime",
			args:     []string{"--at", "2020-01-01T02:00:00+01:00"},
			wantCode: ExitFailure,
			contains: "is not timezone-aware UTC",
		},
		{
			name:     "bad datetime",
			args:     []string{"--at", "tomorrow"},
			wantCode: ExitCommandError,
			contains: "Error [E001]",
		},
		{
			name:     "bad tside",
			args:     []string{"--tside", "SIDEWAYS"},
			wantCode: ExitCommandError,
			contains: "Error [E001]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", dbPath, "--account", "main_account"}, tt.args...)
			out, err := runReplayCmd(t, "text", args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.Contains(t, out, tt.contains)
		})
	}
}
