package scenario

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of number operations.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// RunID fixes the run id recorded in the ledger. Empty means
	// runid.DefaultFixed unless the caller supplies a generator.
	RunID string `yaml:"run_id,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is a single operation.
type Step struct {
	Op     string `yaml:"op"`
	Target string `yaml:"target,omitempty"`
	Into   string `yaml:"into,omitempty"`
	Value  *int64 `yaml:"value,omitempty"`
	Odd    *bool  `yaml:"odd,omitempty"`

	// Expect is compared against the op result when non-nil.
	Expect any `yaml:"expect,omitempty"`
}

// Assertion validates the final bindings or the trace.
type Assertion struct {
	Type    string   `yaml:"type"`
	Binding string   `yaml:"binding,omitempty"`
	Value   *int64   `yaml:"value,omitempty"`
	Odd     *bool    `yaml:"odd,omitempty"`
	Op      string   `yaml:"op,omitempty"`
	Count   *int     `yaml:"count,omitempty"`
	Ops     []string `yaml:"ops,omitempty"`
}

// Operation names.
const (
	OpConstruct  = "construct"
	OpNegate     = "negate"
	OpInvert     = "invert"
	OpDuplicate  = "duplicate"
	OpSetValue   = "set_value"
	OpDescribe   = "describe"
	OpSpell      = "spell"
	OpIsPositive = "is_positive"
	OpIsNegative = "is_negative"
	OpSign       = "sign"
)

// Assertion type constants.
const (
	AssertFinalValue = "final_value"
	AssertConsistent = "consistent"
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
)

var knownOps = []string{
	OpConstruct, OpNegate, OpInvert, OpDuplicate, OpSetValue,
	OpDescribe, OpSpell, OpIsPositive, OpIsNegative, OpSign,
}

// ValidationError reports a structural problem in a scenario file.
type ValidationError struct {
	Field   string // e.g. "steps[2].target"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and parses a scenario YAML file. Unknown fields are rejected
// so typos like "assertion:" fail loudly.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// Validate checks required fields and that every target is bound before
// it is used.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(s.Steps) == 0 {
		return &ValidationError{Field: "steps", Message: "steps list is required and must be non-empty"}
	}

	bound := map[string]bool{}
	for i, step := range s.Steps {
		if err := validateStep(i, step, bound); err != nil {
			return err
		}
		if step.Into != "" {
			bound[step.Into] = true
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, bound); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(i int, step Step, bound map[string]bool) error {
	field := func(name string) string { return fmt.Sprintf("steps[%d].%s", i, name) }

	if step.Op == "" {
		return &ValidationError{Field: field("op"), Message: "op is required"}
	}
	if !slices.Contains(knownOps, step.Op) {
		return &ValidationError{Field: field("op"), Message: fmt.Sprintf("unknown op %q", step.Op)}
	}

	if step.Op == OpConstruct {
		if step.Into == "" {
			return &ValidationError{Field: field("into"), Message: "into is required for construct"}
		}
		if step.Value == nil {
			return &ValidationError{Field: field("value"), Message: "value is required for construct"}
		}
		return nil
	}

	if step.Target == "" {
		return &ValidationError{Field: field("target"), Message: fmt.Sprintf("target is required for %s", step.Op)}
	}
	if !bound[step.Target] {
		return &ValidationError{Field: field("target"), Message: fmt.Sprintf("%q is not bound", step.Target)}
	}

	switch step.Op {
	case OpDuplicate:
		if step.Into == "" {
			return &ValidationError{Field: field("into"), Message: "into is required for duplicate"}
		}
	case OpSetValue:
		if step.Value == nil {
			return &ValidationError{Field: field("value"), Message: "value is required for set_value"}
		}
	case OpNegate:
		// into is optional
	default:
		if step.Into != "" {
			return &ValidationError{Field: field("into"), Message: fmt.Sprintf("%s does not produce a number", step.Op)}
		}
	}

	return nil
}

func validateAssertion(i int, a Assertion, bound map[string]bool) error {
	field := fmt.Sprintf("assertions[%d]", i)

	switch a.Type {
	case "":
		return &ValidationError{Field: field + ".type", Message: "type is required"}
	case AssertFinalValue, AssertConsistent:
		if a.Binding == "" {
			return &ValidationError{Field: field + ".binding", Message: fmt.Sprintf("binding is required for %s", a.Type)}
		}
		if !bound[a.Binding] {
			return &ValidationError{Field: field + ".binding", Message: fmt.Sprintf("%q is never bound", a.Binding)}
		}
		if a.Type == AssertFinalValue && a.Value == nil && a.Odd == nil {
			return &ValidationError{Field: field, Message: "final_value needs value or odd"}
		}
	case AssertTraceCount:
		if a.Op == "" || a.Count == nil {
			return &ValidationError{Field: field, Message: "trace_count needs op and count"}
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return &ValidationError{Field: field + ".ops", Message: "ops list is required for trace_order"}
		}
	default:
		return &ValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown assertion type %q", a.Type)}
	}

	return nil
}
