package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/signum/internal/ir"
	"github.com/roach88/signum/internal/runid"
	"github.com/roach88/signum/internal/scenario"
	"github.com/roach88/signum/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// RunIDGenerator overrides run id generation for scenarios without a
	// fixed run_id. Defaults to runid.UUIDv7.
	RunIDGenerator runid.Generator
}

// RunResult is the payload of the run command.
type RunResult struct {
	Scenario  string   `json:"scenario"`
	RunID     string   `json:"run_id"`
	Pass      bool     `json:"pass"`
	Steps     int      `json:"steps"`
	TraceHash string   `json:"trace_hash"`
	Errors    []string `json:"errors,omitempty"`
}

// Text implements Texter.
func (r RunResult) Text() string {
	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%d steps, run %s)", status, r.Scenario, r.Steps, r.RunID)
	for _, e := range r.Errors {
		for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
			fmt.Fprintf(&b, "\n  %s", line)
		}
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file",
		Long: `Run a scenario of number operations and check its expectations.

With --db every executed step is appended to the SQLite ledger. Writing the
same run twice is a no-op.

Exit codes:
  0 - Scenario passed
  1 - An expectation or assertion failed
  2 - Command error (invalid file, database error)

Examples:
  signum run ./scenarios/clone.yaml
  signum run --db ./signum.db ./scenarios/clone.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record evaluations in this SQLite database")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	s, err := scenario.Load(path)
	if err != nil {
		code := ErrCodeInvalid
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return formatter.fail(ExitCommandError, code, "failed to load scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %s (%d steps)", s.Name, len(s.Steps))

	gen := opts.RunIDGenerator
	if gen == nil {
		gen = runid.UUIDv7{}
	}
	runOpts := []scenario.Option{
		scenario.WithRunIDGenerator(gen),
		scenario.WithLogger(logger),
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", zap.Error(closeErr))
			}
		}()
		runOpts = append(runOpts, scenario.WithRecorder(st))
		logger.Info("recording evaluations", zap.String("db", opts.Database))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := scenario.Run(ctx, s, runOpts...)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "scenario run aborted", err)
	}

	snapshot, err := scenario.Snapshot(s.Name, result)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "failed to encode trace", err)
	}

	out := RunResult{
		Scenario:  s.Name,
		RunID:     result.RunID,
		Pass:      result.Pass,
		Steps:     len(result.Trace),
		TraceHash: ir.TraceHash(snapshot),
		Errors:    result.Errors,
	}
	if result.Pass {
		return formatter.Success(out)
	}

	msg := fmt.Sprintf("scenario %s failed", s.Name)
	if formatter.Format == "json" {
		if err := formatter.Error(ErrCodeFailed, msg, out); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(formatter.Writer, out.Text()); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}
