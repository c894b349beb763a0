package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signum/internal/number"
	"github.com/roach88/signum/internal/runid"
	"github.com/roach88/signum/internal/store"
)

func i64(v int64) *int64 { return &v }
func boolp(b bool) *bool  { return &b }

type memoryRecorder struct {
	evals []store.Evaluation
	err   error
}

func (m *memoryRecorder) WriteEvaluation(_ context.Context, ev store.Evaluation) error {
	if m.err != nil {
		return m.err
	}
	m.evals = append(m.evals, ev)
	return nil
}

func TestRun_ReferenceNumbers(t *testing.T) {
	s, err := Load("testdata/scenarios/reference_numbers.yaml")
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "run-golden-001", result.RunID)
	require.Len(t, result.Trace, 7)

	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
	}
	assert.Equal(t, number.Construct(-987, true), result.Bindings["negative"])
	assert.Equal(t, number.Construct(987, true), result.Bindings["big"])
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	s := &Scenario{
		Name: "mismatch",
		Steps: []Step{
			{Op: OpConstruct, Into: "x", Value: i64(2)},
			{Op: OpDescribe, Target: "x", Expect: "odd number 2"},
			{Op: OpNegate, Target: "x", Expect: map[string]any{"value": 2}},
			{Op: OpIsPositive, Target: "x", Expect: false},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "steps[1] describe")
	assert.Contains(t, result.Errors[1], "value: expected 2, got -2")
	assert.Contains(t, result.Errors[2], "expected false, got true")
}

func TestRun_ExpectNumberAgainstScalar(t *testing.T) {
	s := &Scenario{
		Name: "shape",
		Steps: []Step{
			{Op: OpConstruct, Into: "x", Value: i64(1)},
			{Op: OpDescribe, Target: "x", Expect: map[string]any{"value": 1}},
		},
	}
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected a number")
}

func TestRun_VerbatimConstructIsInconsistent(t *testing.T) {
	s := &Scenario{
		Name: "inconsistent",
		Steps: []Step{
			{Op: OpConstruct, Into: "x", Value: i64(2), Odd: boolp(true)},
			{Op: OpDescribe, Target: "x", Expect: "odd number 2"},
		},
		Assertions: []Assertion{{Type: AssertConsistent, Binding: "x"}},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "parity flag does not match value")
}

func TestRun_SignSpellAndNegateWithoutInto(t *testing.T) {
	s := &Scenario{
		Name: "misc",
		Steps: []Step{
			{Op: OpConstruct, Into: "x", Value: i64(2)},
			{Op: OpSpell, Target: "x", Expect: "Two"},
			{Op: OpSign, Target: "x", Expect: 1},
			{Op: OpNegate, Target: "x", Expect: map[string]any{"value": -2, "odd": false}},
			{Op: OpIsNegative, Target: "x", Expect: false},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	// negate without into leaves the environment alone
	assert.Len(t, result.Bindings, 1)
	assert.Equal(t, int64(2), result.Bindings["x"].Value)
}

func TestRun_UnboundTargetStopsRun(t *testing.T) {
	s := &Scenario{Name: "broken", Steps: []Step{{Op: OpDescribe, Target: "ghost"}}}

	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbound))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scenario{Name: "c", Steps: []Step{{Op: OpConstruct, Into: "x", Value: i64(1)}}}
	_, err := Run(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_RunIDSelection(t *testing.T) {
	s := &Scenario{Name: "ids", Steps: []Step{{Op: OpConstruct, Into: "x", Value: i64(1)}}}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, runid.DefaultFixed, result.RunID)

	result, err = Run(context.Background(), s, WithRunIDGenerator(runid.NewFixed("generated")))
	require.NoError(t, err)
	assert.Equal(t, "generated", result.RunID)

	s.RunID = "pinned"
	result, err = Run(context.Background(), s, WithRunIDGenerator(runid.NewFixed("generated")))
	require.NoError(t, err)
	assert.Equal(t, "pinned", result.RunID)
}

func TestRun_Recorder(t *testing.T) {
	s, err := Load("testdata/scenarios/clone_independence.yaml")
	require.NoError(t, err)

	rec := &memoryRecorder{}
	result, err := Run(context.Background(), s, WithRecorder(rec))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, rec.evals, len(s.Steps))
	first := rec.evals[0]
	assert.Equal(t, "run-golden-002", first.RunID)
	assert.Equal(t, OpConstruct, first.Op)
	assert.Equal(t, "original", first.Target)
	assert.Equal(t, number.New(23), first.Input)
	assert.Equal(t, `{"odd":true,"value":23}`, first.Output)
	assert.Equal(t, "odd number 23", first.Label)
	assert.Len(t, first.ID, 64)

	last := rec.evals[len(rec.evals)-1]
	assert.Equal(t, `"odd number -123"`, last.Output)
	assert.Equal(t, "odd number -123", last.Label)

	// Same scenario, same ids.
	again := &memoryRecorder{}
	_, err = Run(context.Background(), s, WithRecorder(again))
	require.NoError(t, err)
	for i := range rec.evals {
		assert.Equal(t, rec.evals[i].ID, again.evals[i].ID)
	}
}

func TestRun_RecorderWithStore(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	s, err := Load("testdata/scenarios/reference_numbers.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = Run(ctx, s, WithRecorder(st))
	require.NoError(t, err)
	// replaying the same run is idempotent
	_, err = Run(ctx, s, WithRecorder(st))
	require.NoError(t, err)

	evals, err := st.ReadRun(ctx, "run-golden-001")
	require.NoError(t, err)
	require.Len(t, evals, 7)
	assert.Equal(t, "is_negative", evals[6].Op)
	assert.Equal(t, "true", evals[6].Output)
}

func TestRun_RecorderFailure(t *testing.T) {
	s := &Scenario{Name: "r", Steps: []Step{{Op: OpConstruct, Into: "x", Value: i64(1)}}}
	_, err := Run(context.Background(), s, WithRecorder(&memoryRecorder{err: errors.New("disk full")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
