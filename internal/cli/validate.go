package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/compiler"
	"github.com/roach88/chartpick/internal/ir"
)

// ChartSummary describes one compiled chart.
type ChartSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Source   string `json:"source"`
	Mode     string `json:"mode"` // Handler for clicks from the default source
	Elements int    `json:"elements"`
	Hash     string `json:"hash"` // Content hash of the compiled chart
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Charts []ChartSummary             `json:"charts,omitempty"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate chart specs",
		Long: `Compile every chart in a directory of CUE specs and report schema errors.

All charts are checked; errors from every chart are reported together.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)

	// Directory not found, no files, CUE syntax errors
	if loadResult == nil {
		return formatter.Fail(ExitCommandError, loadErrorCode(loadErrors[0]), loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "chart",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    lineOf(loadErr),
			})
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	summaries := make([]ChartSummary, len(loadResult.Charts))
	for i, spec := range loadResult.Charts {
		summary, err := summarize(spec)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
		}
		summaries[i] = summary
		formatter.VerboseLog("Validated chart: %s (%s, %d elements)", spec.Name, spec.TypeName, len(spec.Elements))
	}
	return outputValidateSuccess(formatter, summaries)
}

func summarize(spec ir.ChartSpec) (ChartSummary, error) {
	hash, err := ir.SpecHash(spec)
	if err != nil {
		return ChartSummary{}, err
	}
	return ChartSummary{
		Name:     spec.Name,
		Type:     spec.TypeName,
		Source:   string(spec.Source),
		Mode:     chart.Route(spec.Type, spec.Source).String(),
		Elements: len(spec.Elements),
		Hash:     hash,
	}, nil
}

// lineOf extracts the line number of a load error, or 0.
func lineOf(err *LoadError) int {
	if err.Pos.IsValid() {
		return err.Pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, charts []ChartSummary) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Charts: charts})
	}

	for _, c := range charts {
		fmt.Fprintf(formatter.Writer, "  %-20s %-10s %-8s %d element(s)\n", c.Name, c.Type, c.Mode, c.Elements)
	}
	fmt.Fprintf(formatter.Writer, "✓ All %d chart(s) valid\n", len(charts))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
