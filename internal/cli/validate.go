package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulselab/cadence/internal/input"
	"github.com/pulselab/cadence/internal/validate"
)

// ValidationIssue is one problem found in a sequence file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationReport holds validation results for a sequence file.
type ValidationReport struct {
	Source string            `json:"source"`
	Valid  bool              `json:"valid"`
	Count  int               `json:"count"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// String renders the report for text output.
func (r ValidationReport) String() string {
	if r.Valid {
		return fmt.Sprintf("%s: OK (%d timestamps)", r.Source, r.Count)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: INVALID", r.Source)
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "\n  [%s] %s", issue.Code, issue.Message)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sequence-file>",
		Short: "Validate a reference recording without generating anything",
		Long: `Validate a reference sequence file.

JSON files are checked against the sequence schema; all files are then
checked semantically (finite values, non-decreasing order, at least two
samples). Nothing is generated.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateSequence(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidateSequence(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	report := ValidationReport{Source: path, Valid: true}

	doc, err := input.ReadFile(path)
	if err != nil {
		report.Valid = false
		report.Issues = append(report.Issues, ValidationIssue{
			Code:    ErrCodeInput,
			Message: err.Error(),
		})
		if err := formatter.Success(report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "sequence file is invalid")
	}

	report.Count = len(doc.Timings)
	if err := validate.Sequence("timings", doc.Timings); err != nil {
		report.Valid = false
		var ve *validate.ValidationError
		if errors.As(err, &ve) {
			report.Issues = append(report.Issues, ValidationIssue{
				Code:    string(ve.Code),
				Field:   ve.Field,
				Message: ve.Message,
			})
		} else {
			report.Issues = append(report.Issues, ValidationIssue{
				Code:    ErrCodeSequence,
				Message: err.Error(),
			})
		}
	}

	if err := formatter.Success(report); err != nil {
		return err
	}
	if !report.Valid {
		return NewExitError(ExitFailure, "sequence file is invalid")
	}
	return nil
}
