package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulselab/cadence/internal/input"
	"github.com/pulselab/cadence/internal/timings"
)

// IsoOptions holds flags for the iso command.
type IsoOptions struct {
	*RootOptions
	Period float64
	Length int
	ZScore float64
}

// NewIsoCommand creates the iso command.
func NewIsoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IsoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "iso [sequence-file]",
		Short: "Generate an isochronous timing sequence",
		Long: `Generate an evenly spaced stimulus timing sequence for an isochronous
block.

The period is either given explicitly with --period, or derived from a
reference recording as the mean inter-beat interval after outlier
rejection.

Example:
  cadence iso --period 0.75 --length 120
  cadence iso session-03.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runIso(opts, path, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Period, "period", 0, "inter-stimulus period in seconds (overrides the reference)")
	cmd.Flags().IntVar(&opts.Length, "length", 0, "number of stimuli (defaults to the reference length)")
	cmd.Flags().Float64Var(&opts.ZScore, "zscore", timings.DefaultZScore, "outlier rejection z-score threshold for the reference")

	return cmd
}

// IsoReport is the iso command's output payload.
type IsoReport struct {
	Block   string    `json:"block"`
	Length  int       `json:"length"`
	Period  float64   `json:"period"`
	Timings []float64 `json:"timings"`
}

// String renders the report for text output.
func (r IsoReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "generated %s sequence: length=%d period=%gs", r.Block, r.Length, r.Period)
	for _, t := range r.Timings {
		fmt.Fprintf(&b, "\n  %g", t)
	}
	return b.String()
}

func runIso(opts *IsoOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	period := opts.Period
	length := opts.Length

	if path == "" && (period <= 0 || length < 2) {
		return NewExitError(ExitCommandError, "without a reference file, both --period and --length are required")
	}

	if path != "" {
		doc, err := input.ReadFile(path)
		if err != nil {
			_ = formatter.Error(ErrCodeInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read sequence file", err)
		}
		ref, err := timings.Analyze(doc.Timings, timings.WithZScore(opts.ZScore))
		if err != nil {
			return generateError(formatter, err)
		}
		if len(ref.Surviving) == 0 {
			_ = formatter.Error(ErrCodeEmpty, "every interval rejected as outlier, no period to derive", nil)
			return NewExitError(ExitFailure, "no surviving intervals in reference")
		}
		formatter.VerboseLog("reference: %d/%d intervals survived, mean period %gs",
			len(ref.Surviving), ref.Total, ref.MeanInterval())
		if period <= 0 {
			period = ref.MeanInterval()
		}
		if length == 0 {
			length = len(doc.Timings)
		}
	}

	seq, err := timings.Isochronous(length, period)
	if err != nil {
		return generateError(formatter, err)
	}

	return formatter.Success(IsoReport{
		Block:   string(timings.BlockIsochronous),
		Length:  length,
		Period:  period,
		Timings: seq,
	})
}
