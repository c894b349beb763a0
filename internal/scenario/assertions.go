package scenario

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/roach88/signum/internal/ir"
	"github.com/roach88/signum/internal/number"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %v\n", event.Seq, event.Op, event.Target+event.Into, event.Output)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertFinalValue:
			err = assertFinalValue(result, a)
		case AssertConsistent:
			err = assertConsistent(result, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	return failures
}

func assertFinalValue(result *Result, a Assertion) error {
	n, ok := result.Bindings[a.Binding]
	if !ok {
		return &AssertionError{
			Type:     AssertFinalValue,
			Expected: fmt.Sprintf("binding %q", a.Binding),
			Actual:   "not bound",
		}
	}

	if a.Value != nil && n.Value != *a.Value {
		return &AssertionError{
			Type:     AssertFinalValue,
			Expected: fmt.Sprintf("%s.value = %d", a.Binding, *a.Value),
			Actual:   fmt.Sprintf("%s.value = %d", a.Binding, n.Value),
			Trace:    result.Trace,
		}
	}
	if a.Odd != nil && n.Odd != *a.Odd {
		return &AssertionError{
			Type:     AssertFinalValue,
			Expected: fmt.Sprintf("%s.odd = %t", a.Binding, *a.Odd),
			Actual:   fmt.Sprintf("%s.odd = %t", a.Binding, n.Odd),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertConsistent(result *Result, a Assertion) error {
	n, ok := result.Bindings[a.Binding]
	if !ok {
		return &AssertionError{
			Type:     AssertConsistent,
			Expected: fmt.Sprintf("binding %q", a.Binding),
			Actual:   "not bound",
		}
	}
	if err := n.Validate(); err != nil {
		return &AssertionError{
			Type:     AssertConsistent,
			Expected: fmt.Sprintf("%s parity matches value", a.Binding),
			Actual:   err.Error(),
		}
	}
	return nil
}

// assertTraceCount checks the op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op {
			count++
		}
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that the first occurrences of Ops are in order.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// compareExpect returns "" when actual satisfies expected, or a message.
// A mapping expectation is a subset match against a number result.
func compareExpect(expected, actual any) string {
	if fields, ok := expected.(map[string]any); ok {
		n, isNumber := actual.(number.Number)
		if !isNumber {
			return fmt.Sprintf("expected a number, got %v", actual)
		}
		have := n.CanonicalMap()
		for k, want := range fields {
			got, known := have[k]
			if !known {
				return fmt.Sprintf("unknown number field %q", k)
			}
			if !canonicalEqual(want, got) {
				return fmt.Sprintf("%s: expected %v, got %v", k, want, got)
			}
		}
		return ""
	}

	if !canonicalEqual(expected, actual) {
		return fmt.Sprintf("expected %v, got %v", expected, actual)
	}
	return ""
}

// canonicalEqual compares through the canonical encoding so that a YAML
// int and an int64 result compare equal.
func canonicalEqual(a, b any) bool {
	ab, err := ir.MarshalCanonical(a)
	if err != nil {
		return false
	}
	bb, err := ir.MarshalCanonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
