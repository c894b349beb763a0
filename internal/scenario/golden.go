package scenario

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/signum/internal/ir"
)

// Snapshot renders a result as canonical JSON. The bytes are stable for a
// given scenario, which makes them suitable for golden files and for
// ir.TraceHash.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		trace[i] = event
	}

	bindings := make(map[string]any, len(result.Bindings))
	for k, n := range result.Bindings {
		bindings[k] = n
	}

	doc := map[string]any{
		"scenario": name,
		"run_id":   result.RunID,
		"pass":     result.Pass,
		"trace":    trace,
		"bindings": bindings,
	}
	if len(result.Errors) > 0 {
		doc["errors"] = result.Errors
	}

	return ir.MarshalCanonical(doc)
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		return err
	}
	return AssertGolden(t, s.Name, result)
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)

	return nil
}
