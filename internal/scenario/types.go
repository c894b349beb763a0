package scenario

import "github.com/roach88/signum/internal/number"

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Op     string         `json:"op"`
	Target string         `json:"target,omitempty"`
	Into   string         `json:"into,omitempty"`
	Input  *number.Number `json:"input,omitempty"` // receiver before the op; nil for construct
	Output any            `json:"output"`          // number.Number, string, bool or int64
}

// CanonicalMap implements ir.Canonicaler.
func (e TraceEvent) CanonicalMap() map[string]any {
	m := map[string]any{
		"seq":    e.Seq,
		"op":     e.Op,
		"output": e.Output,
	}
	if e.Target != "" {
		m["target"] = e.Target
	}
	if e.Into != "" {
		m["into"] = e.Into
	}
	if e.Input != nil {
		m["input"] = *e.Input
	}
	return m
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Bindings is the final environment.
	Bindings map[string]number.Number `json:"bindings"`
}

// NewResult creates a passing result for runID.
func NewResult(runID string) *Result {
	return &Result{
		Pass:     true,
		RunID:    runID,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Bindings: map[string]number.Number{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
