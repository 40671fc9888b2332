package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures a scenario execution for golden comparison. The log
// is deterministic: fresh databases, a manual clock and sequential
// receipt tokens make every field reproducible.
type Snapshot struct {
	Scenario string    `json:"scenario"`
	Pass     bool      `json:"pass"`
	Log      []Outcome `json:"log"`
	Errors   []string  `json:"errors,omitempty"`
}

// RunWithGolden executes a scenario and compares the outcome log against
// a golden file under testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the log doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-executed result against the golden
// file named for the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		Scenario: scenarioName,
		Pass:     result.Pass,
		Log:      result.Log,
		Errors:   result.Errors,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
