// Package scenario runs scripted sequences of number operations and checks
// the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: clone_then_mutate
//	description: "A duplicate never aliases its source"
//	run_id: run-fixed-001
//	steps:
//	  - op: construct
//	    into: original
//	    value: 23
//	  - op: duplicate
//	    target: original
//	    into: copy
//	  - op: set_value
//	    target: copy
//	    value: 123
//	  - op: describe
//	    target: original
//	    expect: "odd number 23"
//	assertions:
//	  - type: final_value
//	    binding: original
//	    value: 23
//
// # Operations
//
//   - construct: bind `into` to value/odd (odd omitted = derived)
//   - negate: new number with the value negated; bound to `into` if set
//   - invert: negate `target` in place
//   - duplicate: bind `into` to an independent copy of `target`
//   - set_value: replace the value of `target`, re-deriving parity
//   - describe, spell: string result
//   - is_positive, is_negative: bool result
//   - sign: -1, 0 or 1
//
// Any step may carry `expect`. Scalars must match exactly. A mapping is a
// subset match against a number result, so `expect: {value: -987}` ignores
// the parity flag.
//
// # Assertion Types
//
//   - final_value: binding holds value and/or odd after the run
//   - consistent: binding's parity flag matches its value
//   - trace_count: op appears exactly count times
//   - trace_order: ops appear in the given order (first occurrence)
//
// # Determinism
//
// Every run uses a fresh environment, a logical clock starting at 1 and
// a fixed run id (scenario run_id or runid.DefaultFixed), so traces are
// byte-identical across runs and can be compared against golden files.
package scenario
