package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/signum/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// RunsResult lists the runs in a ledger.
type RunsResult struct {
	Runs []store.RunSummary `json:"runs"`
}

// Text implements Texter.
func (r RunsResult) Text() string {
	if len(r.Runs) == 0 {
		return "No runs recorded."
	}
	lines := make([]string, len(r.Runs))
	for i, run := range r.Runs {
		lines[i] = fmt.Sprintf("%s\t%d evaluation(s)\tseq %d..%d", run.RunID, run.Count, run.FirstSeq, run.LastSeq)
	}
	return strings.Join(lines, "\n")
}

// EvaluationsResult lists the evaluations of one run.
type EvaluationsResult struct {
	RunID       string             `json:"run_id"`
	Evaluations []store.Evaluation `json:"evaluations"`
}

// Text implements Texter.
func (r EvaluationsResult) Text() string {
	if len(r.Evaluations) == 0 {
		return fmt.Sprintf("No evaluations for run %s.", r.RunID)
	}
	lines := make([]string, len(r.Evaluations))
	for i, ev := range r.Evaluations {
		lines[i] = fmt.Sprintf("[%d] %s %s -> %s", ev.Seq, ev.Op, ev.Target, ev.Output)
	}
	return strings.Join(lines, "\n")
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or the evaluations of one run",
		Long: `Read the evaluation ledger written by "signum run --db".

Examples:
  signum history --db ./signum.db
  signum history --db ./signum.db --run 0190f5c2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show evaluations of this run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
		}
		return formatter.Success(RunsResult{Runs: runs})
	}

	evals, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to read run", err)
	}
	return formatter.Success(EvaluationsResult{RunID: opts.RunID, Evaluations: evals})
}
