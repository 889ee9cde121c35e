package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
	"github.com/roach88/chartpick/internal/selection"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Chart  string  // chart name
	Clicks []Click // --click and --shift-click in command-line order
	Source string  // interaction source override
}

// Click is one entry of a click sequence.
type Click struct {
	Label    string
	Modifier bool
}

// clickFlag appends to a click sequence shared by --click and --shift-click,
// so the sequence keeps the order the flags were given in. Labels are taken
// literally.
type clickFlag struct {
	clicks   *[]Click
	modifier bool
}

func (f clickFlag) Set(label string) error {
	*f.clicks = append(*f.clicks, Click{Label: label, Modifier: f.modifier})
	return nil
}

func (f clickFlag) String() string { return "" }

func (f clickFlag) Type() string { return "label" }

// PlayStep is the outcome of one click.
type PlayStep struct {
	Seq       int64                    `json:"seq"`
	Click     string                   `json:"click"`
	Modifier  bool                     `json:"modifier"`
	Mode      string                   `json:"mode"`
	Classes   []selection.ElementClass `json:"classes"`
	Predicate predicate.Predicate      `json:"predicate,omitempty"`
}

// PlayResult holds every step of a click sequence.
type PlayResult struct {
	Chart string     `json:"chart"`
	Steps []PlayStep `json:"steps"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <specs-dir>",
		Short: "Replay a click sequence on a chart",
		Long: `Deliver a sequence of clicks to one chart and print the classification
and predicate after each click.

--click and --shift-click may be mixed and repeated; clicks are delivered
in the order given.

Examples:
  chartpick play ./specs --chart name --click a --shift-click b
  chartpick play ./specs --chart age --click 20 --shift-click 40 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Chart, "chart", "", "chart name (required)")
	cmd.Flags().Var(clickFlag{clicks: &opts.Clicks}, "click", "element label to click (repeatable)")
	cmd.Flags().Var(clickFlag{clicks: &opts.Clicks, modifier: true}, "shift-click", "element label to click with the modifier held (repeatable)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "interaction source (few|many|unique|date)")
	_ = cmd.MarkFlagRequired("chart")

	return cmd
}

func runPlay(opts *PlayOptions, specsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Source != "" && !ir.ValidSources[ir.Source(opts.Source)] {
		return commandError(formatter, ErrCodeBadArgument, fmt.Sprintf("invalid source %q", opts.Source))
	}

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return formatter.Fail(ExitCommandError, loadErrorCode(loadErrors[0]), loadErrors[0])
	}
	spec, ok := loadResult.FindChart(opts.Chart)
	if !ok {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("chart %q not found", opts.Chart))
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	c := chart.New(spec,
		chart.WithLogger(logger),
		chart.WithSink(&logSink{logger: logger}),
	)

	result := PlayResult{Chart: spec.Name, Steps: []PlayStep{}}
	for _, click := range opts.Clicks {
		out, err := c.Click(click.Label, click.Modifier, ir.Source(opts.Source))
		if err != nil {
			return playError(formatter, err)
		}
		result.Steps = append(result.Steps, PlayStep{
			Seq:       out.Seq,
			Click:     click.Label,
			Modifier:  click.Modifier,
			Mode:      out.Mode.String(),
			Classes:   out.Classes,
			Predicate: out.Predicate,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputPlayText(formatter, result)
	return nil
}

func outputPlayText(formatter *OutputFormatter, result PlayResult) {
	w := formatter.Writer
	fmt.Fprintf(w, "chart %s\n", result.Chart)
	for _, step := range result.Steps {
		click := "click " + step.Click
		if step.Modifier {
			click = "shift-click " + step.Click
		}
		pred := "(cleared)"
		if step.Predicate != nil {
			pred = step.Predicate.String()
		}
		fmt.Fprintf(w, "[%d] %s (%s): %s\n", step.Seq, click, step.Mode, pred)
		if selected := selection.Labels(step.Classes, selection.Selected); len(selected) > 0 {
			fmt.Fprintf(w, "    selected: %s\n", strings.Join(selected, ", "))
		}
		if dimmed := selection.Labels(step.Classes, selection.Dimmed); len(dimmed) > 0 {
			fmt.Fprintf(w, "    dimmed:   %s\n", strings.Join(dimmed, ", "))
		}
	}
}

// playError reports a failed click. Unknown labels are argument errors;
// anything else is a selection failure.
func playError(formatter *OutputFormatter, err error) error {
	var ce *chart.Error
	if !errors.As(err, &ce) || chart.IsNotFound(err) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	return formatter.Fail(ExitFailure, ErrCodeGeneric, err)
}

// commandError outputs an error and returns it with ExitCommandError.
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// logSink logs predicate updates at debug level.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) SetPredicate(field string, p predicate.Predicate) {
	s.logger.Debug("predicate set", "field", field, "kind", string(p.Kind()), "predicate", p.String())
}

func (s *logSink) ClearPredicate(field string) {
	s.logger.Debug("predicate cleared", "field", field)
}
