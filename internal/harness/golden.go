package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden form of a scenario run.
type Snapshot struct {
	ScenarioName        string        `json:"scenario_name"`
	ClientTransactionID string        `json:"client_transaction_id"`
	InstructionIDs      []string      `json:"instruction_ids"`
	Error               string        `json:"error,omitempty"`
	Observations        []Observation `json:"observations"`
}

// SnapshotOf builds the snapshot of a result.
func SnapshotOf(r *Result) Snapshot {
	return Snapshot{
		ScenarioName:        r.Scenario,
		ClientTransactionID: r.ClientTransactionID,
		InstructionIDs:      r.InstructionIDs,
		Error:               r.Error,
		Observations:        r.Observations,
	}
}

// MarshalSnapshot renders s as indented JSON without HTML escaping, so
// arrows and angle brackets in error messages stay readable.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// RunWithGolden replays a scenario and compares its observations against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be replayed. Test failure (via
// goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(SnapshotOf(result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
