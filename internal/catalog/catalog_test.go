package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signum/internal/number"
)

func TestLoadFile(t *testing.T) {
	cat, err := LoadFile("testdata/numbers.cue")
	require.NoError(t, err)

	names := make([]string, len(cat.Entries))
	for i, e := range cat.Entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"big", "minusOne", "one", "three", "two"}, names)

	for _, e := range cat.Entries {
		assert.NoError(t, e.Number.Validate(), "entry %s", e.Name)
	}
}

func TestLoadFile_DerivesParity(t *testing.T) {
	cat, err := LoadFile("testdata/numbers.cue")
	require.NoError(t, err)

	n, ok := cat.Lookup("minusOne")
	require.True(t, ok)
	assert.Equal(t, number.New(-1), n)

	n, ok = cat.Lookup("big")
	require.True(t, ok)
	assert.Equal(t, "odd number 987", n.Describe())

	_, ok = cat.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadFile_ParityConflict(t *testing.T) {
	_, err := LoadFile("testdata/mismatch.cue")
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "numbers.four", ce.Field)
	assert.Contains(t, ce.Message, "conflicting values")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog")
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"syntax error", `numbers: {`, "cue"},
		{"no numbers", `other: 1`, "numbers"},
		{"missing value", `numbers: x: odd: true`, "numbers.x"},
		{"float value", `numbers: x: value: 1.5`, "numbers.x"},
		{"string value", `numbers: x: value: "3"`, "numbers.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.src), "inline.cue")
			require.Error(t, err)

			var ce *CompileError
			require.True(t, errors.As(err, &ce), "expected *CompileError, got %T: %v", err, err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompile_NegativeOdd(t *testing.T) {
	cat, err := Compile([]byte(`numbers: m: {value: -3, odd: true}`), "inline.cue")
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, number.Construct(-3, true), cat.Entries[0].Number)
}

func TestCompile_Empty(t *testing.T) {
	cat, err := Compile([]byte(`numbers: {}`), "inline.cue")
	require.NoError(t, err)
	assert.Empty(t, cat.Entries)
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Field: "numbers.x", Message: "bad"}
	assert.Equal(t, "numbers.x: bad", err.Error())
}
