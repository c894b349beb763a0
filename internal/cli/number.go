package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/signum/internal/number"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Odd bool
}

// DescribeResult is the payload of describe and negate.
type DescribeResult struct {
	Value      int64  `json:"value"`
	Odd        bool   `json:"odd"`
	Label      string `json:"label"`
	Consistent bool   `json:"consistent"`
}

// Text implements Texter.
func (r DescribeResult) Text() string { return r.Label }

func newDescribeResult(n number.Number) DescribeResult {
	return DescribeResult{
		Value:      n.Value,
		Odd:        n.Odd,
		Label:      n.Describe(),
		Consistent: n.Consistent(),
	}
}

// CheckResult reports every sign and parity fact about a number.
type CheckResult struct {
	Value    int64  `json:"value"`
	Odd      bool   `json:"odd"`
	Positive bool   `json:"positive"`
	Negative bool   `json:"negative"`
	Sign     int    `json:"sign"`
	Spelled  string `json:"spelled"`
	Label    string `json:"label"`
}

// Text implements Texter.
func (r CheckResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "value:    %d\n", r.Value)
	fmt.Fprintf(&b, "parity:   %s\n", number.Construct(r.Value, r.Odd).Parity())
	fmt.Fprintf(&b, "positive: %t\n", r.Positive)
	fmt.Fprintf(&b, "negative: %t\n", r.Negative)
	fmt.Fprintf(&b, "sign:     %d\n", r.Sign)
	fmt.Fprintf(&b, "spelled:  %s", r.Spelled)
	return b.String()
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe <int>",
		Short: "Print \"<odd|even> number <value>\"",
		Long: `Describe a number.

Parity is derived from the value unless --odd is given, in which case the
flag is stored verbatim. A flag that disagrees with the value is reported
in verbose mode and in the JSON "consistent" field.

Examples:
  signum describe 3
  signum describe --odd=true 2
  signum describe -- -51`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Odd, "odd", false, "store this parity flag verbatim instead of deriving it")

	return cmd
}

func runDescribe(opts *DescribeOptions, arg string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	v, err := parseValue(arg)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeBadArgument, "invalid number", err)
	}

	n := number.New(v)
	if cmd.Flags().Changed("odd") {
		n = number.Construct(v, opts.Odd)
	}
	if err := n.Validate(); err != nil {
		formatter.VerboseLog("warning: %v", err)
	}

	return formatter.Success(newDescribeResult(n))
}

// NewNegateCommand creates the negate command.
func NewNegateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negate <int>",
		Short: "Print the additive inverse, keeping the parity flag",
		Long: `Negate a number.

Examples:
  signum negate 987
  signum negate -- -987`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			v, err := parseValue(args[0])
			if err != nil {
				return formatter.fail(ExitCommandError, ErrCodeBadArgument, "invalid number", err)
			}

			n := number.New(v)
			formatter.VerboseLog("negating %s", n)
			return formatter.Success(newDescribeResult(n.Negate()))
		},
	}

	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "check <int>",
		Short:         "Report sign and parity facts about a number",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			v, err := parseValue(args[0])
			if err != nil {
				return formatter.fail(ExitCommandError, ErrCodeBadArgument, "invalid number", err)
			}

			n := number.New(v)
			return formatter.Success(CheckResult{
				Value:    n.Value,
				Odd:      n.Odd,
				Positive: n.IsPositive(),
				Negative: n.IsNegative(),
				Sign:     number.Sign(n),
				Spelled:  n.Spell(),
				Label:    n.Describe(),
			})
		},
	}

	return cmd
}

func parseValue(arg string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a 64-bit integer", arg)
	}
	return v, nil
}
