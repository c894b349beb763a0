package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/signum/internal/catalog"
)

// ValidationResult is the payload of the validate command.
type ValidationResult struct {
	Valid   bool            `json:"valid"`
	Entries []catalog.Entry `json:"entries"`
}

// Text implements Texter.
func (r ValidationResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %d number(s) valid", len(r.Entries))
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\n  %s\t%s", e.Name, e.Number.Describe())
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog.cue>",
		Short: "Check a CUE catalog of named numbers",
		Long: `Compile a CUE catalog and check every entry against the #Number schema.

An entry whose odd flag contradicts its value is a failure (exit 1).
A missing or unreadable file is a command error (exit 2).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cat, err := catalog.LoadFile(path)
	if err != nil {
		var ce *catalog.CompileError
		if errors.As(err, &ce) {
			return formatter.fail(ExitFailure, ErrCodeCatalog, "catalog is invalid", err)
		}
		return formatter.fail(ExitCommandError, ErrCodeNotFound, "failed to load catalog", err)
	}

	formatter.VerboseLog("Compiled %d entries from %s", len(cat.Entries), path)
	return formatter.Success(ValidationResult{Valid: true, Entries: cat.Entries})
}
