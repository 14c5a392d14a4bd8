package cli

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulselab/cadence/internal/timings"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Blocks int
	Seed   int64
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a session's block sequence",
		Long: `Plan the order of experiment blocks for a session.

The session opens with a fixed (baseline, synchronous) pair; after that,
block types are balanced per group of four with no immediate repeats.

Example:
  cadence plan --blocks 16 --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Blocks, "blocks", 0, "number of blocks to plan (defaults to the config total)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")

	return cmd
}

// PlanReport is the plan command's output payload.
type PlanReport struct {
	Seed   int64           `json:"seed"`
	Blocks []timings.Block `json:"blocks"`
}

// String renders the report for text output.
func (r PlanReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "planned %d block(s) (seed %d)", len(r.Blocks), r.Seed)
	for i, blk := range r.Blocks {
		fmt.Fprintf(&b, "\n  %2d. %s", i+1, blk)
	}
	return b.String()
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	n := opts.Blocks
	if n == 0 {
		n = cfg.Blocks.Total()
	}
	if n < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--blocks must be at least 1, got %d", n))
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return formatter.Success(PlanReport{
		Seed:   seed,
		Blocks: timings.PlanBlocks(n, rng),
	})
}
