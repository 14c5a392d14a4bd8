package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulselab/cadence/internal/session"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded timing runs",
		Long: `List the timing runs recorded in a session store, oldest first.
With --run, print the stored timestamp sequence of a single run instead.

Example:
  cadence history --db runs.db
  cadence history --db runs.db --run 0190f3a2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the session store (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "print the timings of a single run")

	return cmd
}

// HistoryEntry is one listed run.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Block     string    `json:"block"`
	Source    string    `json:"source,omitempty"`
	Valid     bool      `json:"valid"`
	Survived  int       `json:"survived"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryReport is the history command's output payload.
type HistoryReport struct {
	Runs []HistoryEntry `json:"runs"`
}

// String renders the report for text output.
func (r HistoryReport) String() string {
	if len(r.Runs) == 0 {
		return "no runs recorded"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d run(s)", len(r.Runs))
	for _, run := range r.Runs {
		fmt.Fprintf(&b, "\n  %s  %-12s valid=%-5t survived=%d/%d  %s",
			run.ID, run.Block, run.Valid, run.Survived, run.Total,
			run.CreatedAt.Format(time.RFC3339))
	}
	return b.String()
}

// RunTimingsReport is the payload when a single run is requested.
type RunTimingsReport struct {
	ID      string    `json:"id"`
	Timings []float64 `json:"timings"`
}

// String renders the report for text output.
func (r RunTimingsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d timestamps", r.ID, len(r.Timings))
	for _, t := range r.Timings {
		fmt.Fprintf(&b, "\n  %g", t)
	}
	return b.String()
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := session.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open session store", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID != "" {
		ts, err := st.RunTimings(ctx, opts.RunID)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		return formatter.Success(RunTimingsReport{ID: opts.RunID, Timings: ts})
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	report := HistoryReport{}
	for _, r := range runs {
		report.Runs = append(report.Runs, HistoryEntry{
			ID:        r.ID,
			Block:     r.Block,
			Source:    r.Source,
			Valid:     r.Valid,
			Survived:  r.Survived,
			Total:     r.Total,
			CreatedAt: r.CreatedAt,
		})
	}
	return formatter.Success(report)
}
