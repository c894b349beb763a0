package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	s, err := Load("testdata/scenarios/reference_numbers.yaml")
	require.NoError(t, err)

	assert.Equal(t, "reference_numbers", s.Name)
	assert.Equal(t, "run-golden-001", s.RunID)
	require.Len(t, s.Steps, 7)
	assert.Equal(t, OpConstruct, s.Steps[0].Op)
	require.NotNil(t, s.Steps[0].Value)
	assert.Equal(t, int64(3), *s.Steps[0].Value)
	require.NotNil(t, s.Steps[0].Odd)
	assert.True(t, *s.Steps[0].Odd)
	assert.Equal(t, "odd number 3", s.Steps[1].Expect)
	assert.Len(t, s.Assertions, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(`
name: typo
steps:
  - op: construct
    into: x
    value: 1
assertion:
  - type: consistent
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_FromTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
steps:
  - op: construct
    into: x
    value: -4
  - op: sign
    target: x
    expect: -1
`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 2)
}

func TestValidate(t *testing.T) {
	one := int64(1)
	count := 1

	tests := []struct {
		name    string
		s       Scenario
		field   string
		message string
	}{
		{
			name:    "missing name",
			s:       Scenario{Steps: []Step{{Op: OpConstruct, Into: "x", Value: &one}}},
			field:   "name",
			message: "required",
		},
		{
			name:    "no steps",
			s:       Scenario{Name: "n"},
			field:   "steps",
			message: "non-empty",
		},
		{
			name:    "unknown op",
			s:       Scenario{Name: "n", Steps: []Step{{Op: "square"}}},
			field:   "steps[0].op",
			message: "unknown op",
		},
		{
			name:    "construct without value",
			s:       Scenario{Name: "n", Steps: []Step{{Op: OpConstruct, Into: "x"}}},
			field:   "steps[0].value",
			message: "value is required",
		},
		{
			name:    "construct without into",
			s:       Scenario{Name: "n", Steps: []Step{{Op: OpConstruct, Value: &one}}},
			field:   "steps[0].into",
			message: "into is required",
		},
		{
			name:    "unbound target",
			s:       Scenario{Name: "n", Steps: []Step{{Op: OpNegate, Target: "ghost"}}},
			field:   "steps[0].target",
			message: "not bound",
		},
		{
			name: "duplicate without into",
			s: Scenario{Name: "n", Steps: []Step{
				{Op: OpConstruct, Into: "x", Value: &one},
				{Op: OpDuplicate, Target: "x"},
			}},
			field:   "steps[1].into",
			message: "into is required",
		},
		{
			name: "describe with into",
			s: Scenario{Name: "n", Steps: []Step{
				{Op: OpConstruct, Into: "x", Value: &one},
				{Op: OpDescribe, Target: "x", Into: "y"},
			}},
			field:   "steps[1].into",
			message: "does not produce a number",
		},
		{
			name: "set_value without value",
			s: Scenario{Name: "n", Steps: []Step{
				{Op: OpConstruct, Into: "x", Value: &one},
				{Op: OpSetValue, Target: "x"},
			}},
			field:   "steps[1].value",
			message: "value is required",
		},
		{
			name: "assertion on unbound name",
			s: Scenario{
				Name:       "n",
				Steps:      []Step{{Op: OpConstruct, Into: "x", Value: &one}},
				Assertions: []Assertion{{Type: AssertConsistent, Binding: "y"}},
			},
			field:   "assertions[0].binding",
			message: "never bound",
		},
		{
			name: "final_value without expectation",
			s: Scenario{
				Name:       "n",
				Steps:      []Step{{Op: OpConstruct, Into: "x", Value: &one}},
				Assertions: []Assertion{{Type: AssertFinalValue, Binding: "x"}},
			},
			field:   "assertions[0]",
			message: "needs value or odd",
		},
		{
			name: "trace_count without count",
			s: Scenario{
				Name:       "n",
				Steps:      []Step{{Op: OpConstruct, Into: "x", Value: &one}},
				Assertions: []Assertion{{Type: AssertTraceCount, Op: OpConstruct}},
			},
			field:   "assertions[0]",
			message: "needs op and count",
		},
		{
			name: "unknown assertion",
			s: Scenario{
				Name:       "n",
				Steps:      []Step{{Op: OpConstruct, Into: "x", Value: &one}},
				Assertions: []Assertion{{Type: "final_state", Op: "x", Count: &count}},
			},
			field:   "assertions[0].type",
			message: "unknown assertion type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.s)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, verr.Message, tt.message)
		})
	}
}

func TestValidate_ExampleFilesPass(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := Load(f)
			require.NoError(t, err)
		})
	}
}
