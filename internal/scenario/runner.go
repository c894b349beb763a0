package scenario

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/roach88/signum/internal/ir"
	"github.com/roach88/signum/internal/number"
	"github.com/roach88/signum/internal/runid"
	"github.com/roach88/signum/internal/store"
)

// ErrUnbound is returned when a step refers to a name with no binding.
// Validate catches this statically; Run checks again for scenarios built
// in code.
var ErrUnbound = errors.New("unbound name")

// Recorder receives one evaluation per executed step. *store.Store
// satisfies it.
type Recorder interface {
	WriteEvaluation(ctx context.Context, ev store.Evaluation) error
}

// Option configures Run.
type Option func(*runner)

// WithRecorder sends every evaluation to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *runner) { r.recorder = rec }
}

// WithRunIDGenerator supplies run ids for scenarios that do not fix one.
func WithRunIDGenerator(gen runid.Generator) Option {
	return func(r *runner) { r.gen = gen }
}

// WithLogger sets the logger used for per-step debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *runner) { r.logger = logger }
}

// logicalClock hands out strictly increasing seq numbers starting at 1.
type logicalClock struct {
	seq int64
}

func (c *logicalClock) Next() int64 {
	c.seq++
	return c.seq
}

type runner struct {
	recorder Recorder
	gen      runid.Generator
	logger   *zap.Logger

	clock logicalClock
	env   map[string]number.Number
	runID string
}

// Run executes a scenario in a fresh environment.
//
// Expect mismatches and failed assertions are reported on the Result.
// The returned error is reserved for problems that stop the run: an
// unbound name, a recorder failure or a cancelled context.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Result, error) {
	r := &runner{
		gen:    runid.NewFixed(""),
		logger: zap.NewNop(),
		env:    map[string]number.Number{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.runID = s.RunID
	if r.runID == "" {
		r.runID = r.gen.Generate()
	}

	r.logger.Debug("scenario started",
		zap.String("scenario", s.Name),
		zap.String("run_id", r.runID),
		zap.Int("steps", len(s.Steps)))

	result := NewResult(r.runID)
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		event, err := r.apply(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
		result.Trace = append(result.Trace, event)

		r.logger.Debug("step",
			zap.Int64("seq", event.Seq),
			zap.String("op", event.Op),
			zap.String("target", event.Target),
			zap.Any("output", event.Output))

		if step.Expect != nil {
			if msg := compareExpect(step.Expect, event.Output); msg != "" {
				result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Op, msg))
			}
		}

		if r.recorder != nil {
			if err := r.record(ctx, event); err != nil {
				return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
			}
		}
	}

	result.Bindings = maps.Clone(r.env)

	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}

	r.logger.Debug("scenario finished",
		zap.String("scenario", s.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

func (r *runner) lookup(name string) (number.Number, error) {
	n, ok := r.env[name]
	if !ok {
		return number.Number{}, fmt.Errorf("%w: %q", ErrUnbound, name)
	}
	return n, nil
}

// apply executes one step against the environment.
func (r *runner) apply(step Step) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op, Target: step.Target, Into: step.Into}

	if step.Op == OpConstruct {
		if step.Into == "" || step.Value == nil {
			return TraceEvent{}, fmt.Errorf("construct needs into and value")
		}
		n := number.New(*step.Value)
		if step.Odd != nil {
			n = number.Construct(*step.Value, *step.Odd)
		}
		r.env[step.Into] = n
		event.Seq = r.clock.Next()
		event.Output = n
		return event, nil
	}

	src, err := r.lookup(step.Target)
	if err != nil {
		return TraceEvent{}, err
	}
	event.Input = &src

	switch step.Op {
	case OpNegate:
		out := src.Negate()
		if step.Into != "" {
			r.env[step.Into] = out
		}
		event.Output = out
	case OpInvert:
		n := src
		n.Invert()
		r.env[step.Target] = n
		event.Output = n
	case OpDuplicate:
		if step.Into == "" {
			return TraceEvent{}, fmt.Errorf("duplicate needs into")
		}
		out := src.Clone()
		r.env[step.Into] = out
		event.Output = out
	case OpSetValue:
		if step.Value == nil {
			return TraceEvent{}, fmt.Errorf("set_value needs value")
		}
		out := src.WithValue(*step.Value)
		r.env[step.Target] = out
		event.Output = out
	case OpDescribe:
		event.Output = src.Describe()
	case OpSpell:
		event.Output = src.Spell()
	case OpIsPositive:
		event.Output = src.IsPositive()
	case OpIsNegative:
		event.Output = src.IsNegative()
	case OpSign:
		event.Output = int64(number.Sign(src))
	default:
		return TraceEvent{}, fmt.Errorf("unknown op %q", step.Op)
	}

	event.Seq = r.clock.Next()
	return event, nil
}

// record converts a trace event into a ledger row.
func (r *runner) record(ctx context.Context, event TraceEvent) error {
	input := number.Number{}
	if event.Input != nil {
		input = *event.Input
	} else if n, ok := event.Output.(number.Number); ok {
		input = n
	}

	id, err := ir.EvaluationID(r.runID, event.Op, map[string]any{
		"target": event.Target,
		"into":   event.Into,
		"number": input,
	}, event.Seq)
	if err != nil {
		return err
	}

	output, err := ir.MarshalCanonical(event.Output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	target := event.Target
	if target == "" {
		target = event.Into
	}

	return r.recorder.WriteEvaluation(ctx, store.Evaluation{
		ID:     id,
		RunID:  r.runID,
		Seq:    event.Seq,
		Op:     event.Op,
		Target: target,
		Input:  input,
		Output: string(output),
		Label:  label(event.Output),
	})
}

func label(output any) string {
	switch v := output.(type) {
	case number.Number:
		return v.Describe()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
