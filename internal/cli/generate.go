package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulselab/cadence/internal/input"
	"github.com/pulselab/cadence/internal/session"
	"github.com/pulselab/cadence/internal/timings"
	"github.com/pulselab/cadence/internal/validate"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	ZScore    float64
	ValidPerc float64
	Count     int
	Seed      int64
	Database  string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <sequence-file>",
		Short: "Generate asynchronous timing sequences from a reference recording",
		Long: `Generate stimulus timing sequences for asynchronous blocks from the
R-peak timestamps recorded during a synchronous block.

Outlier inter-beat intervals are removed by iterative z-score rejection,
then each output sequence is synthesized by drawing intervals with
replacement from the surviving set.

Example:
  cadence generate session-03.json
  cadence generate session-03.json --count 4 --seed 42 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.ZScore, "zscore", timings.DefaultZScore, "outlier rejection z-score threshold")
	cmd.Flags().Float64Var(&opts.ValidPerc, "valid-perc", timings.DefaultValidPercent, "minimum percentage of surviving intervals")
	cmd.Flags().IntVar(&opts.Count, "count", 1, "number of sequences to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "session store to record the runs in")

	return cmd
}

// GenerateReport is the generate command's output payload.
type GenerateReport struct {
	Source  string           `json:"source"`
	Block   string           `json:"block"`
	Seed    int64            `json:"seed"`
	Results []SequenceResult `json:"results"`
}

// SequenceResult is one generated sequence with its quality verdict.
type SequenceResult struct {
	Valid    bool      `json:"valid"`
	Survived int       `json:"survived"`
	Total    int       `json:"total"`
	Ratio    float64   `json:"ratio"`
	Timings  []float64 `json:"timings,omitempty"`
}

// String renders the report for text output.
func (r GenerateReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "generated %d %s sequence(s) from %s (seed %d)", len(r.Results), r.Block, r.Source, r.Seed)
	for i, res := range r.Results {
		if res.Timings == nil {
			fmt.Fprintf(&b, "\n  [%d] no sequence: every interval rejected as outlier", i)
			continue
		}
		fmt.Fprintf(&b, "\n  [%d] valid=%t survived=%d/%d (%.1f%%) length=%d",
			i, res.Valid, res.Survived, res.Total, res.Ratio, len(res.Timings))
	}
	return b.String()
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
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
	zscore, validPerc := opts.ZScore, opts.ValidPerc
	if !cmd.Flags().Changed("zscore") {
		zscore = cfg.ZScore
	}
	if !cmd.Flags().Changed("valid-perc") {
		validPerc = cfg.ValidPercent
	}
	db := opts.Database
	if !cmd.Flags().Changed("db") && cfg.Database != "" {
		db = cfg.Database
	}
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--count must be at least 1, got %d", opts.Count))
	}

	doc, err := input.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read sequence file", err)
	}
	formatter.VerboseLog("loaded %d timestamps from %s", len(doc.Timings), path)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results, err := timings.GenerateBatch(doc.Timings, opts.Count, seed,
		timings.WithZScore(zscore),
		timings.WithValidPercent(validPerc),
	)
	if err != nil {
		return generateError(formatter, err)
	}

	report := GenerateReport{
		Source: path,
		Block:  string(timings.BlockAsynchronous),
		Seed:   seed,
	}
	empty, invalid := 0, 0
	for _, res := range results {
		if res.Empty() {
			empty++
		} else if !res.Valid {
			invalid++
		}
		report.Results = append(report.Results, SequenceResult{
			Valid:    res.Valid,
			Survived: res.Survived,
			Total:    res.Total,
			Ratio:    res.Ratio,
			Timings:  res.Timings,
		})
	}

	if db != "" {
		if err := persistRuns(cmd.Context(), db, path, results); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record runs", err)
		}
		formatter.VerboseLog("recorded %d run(s) in %s", len(results)-empty, db)
	}

	if err := formatter.Success(report); err != nil {
		return err
	}
	if empty > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d sequences could not be generated", empty, len(results)))
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d sequences failed the validity gate", invalid, len(results)))
	}
	return nil
}

// generateError maps a generation error to CLI output and an exit code.
func generateError(formatter *OutputFormatter, err error) error {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		code := ErrCodeSequence
		if ve.Code == validate.CodeOutOfRange || ve.Code == validate.CodeNotPositive {
			code = ErrCodeConfig
		}
		_ = formatter.Error(code, ve.Error(), nil)
		return WrapExitError(ExitCommandError, "generation rejected arguments", err)
	}
	_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
	return WrapExitError(ExitCommandError, "generation failed", err)
}

// persistRuns stores the non-empty results in the session store.
func persistRuns(ctx context.Context, db, source string, results []timings.Result) error {
	st, err := session.Open(db)
	if err != nil {
		return err
	}
	defer st.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	for _, res := range results {
		if res.Empty() {
			continue
		}
		run := session.Run{
			ID:       session.NewRunID(),
			Block:    string(timings.BlockAsynchronous),
			Source:   source,
			Valid:    res.Valid,
			Survived: res.Survived,
			Total:    res.Total,
		}
		if err := st.SaveRun(ctx, run, res.Timings); err != nil {
			return err
		}
	}
	return nil
}
