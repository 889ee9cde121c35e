package cli

import (
	"fmt"
	"math"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/spf13/cobra"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/source"
)

// ElementsOptions holds flags for the elements command.
type ElementsOptions struct {
	*RootOptions
	DBPath string
	Table  string
	Field  string
	Type   string  // field type; inferred from storage classes when empty
	Bin    float64 // histogram bin width; 0 lists distinct values
	Name   string  // chart name; defaults to the field
}

// ElementsResult is the chart derived from a database column.
type ElementsResult struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Elements []ir.Element `json:"elements"`
}

// NewElementsCommand creates the elements command.
func NewElementsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ElementsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Derive chart elements from a SQLite column",
		Long: `Read a column of a SQLite table and print a chart spec for it.

Without --bin every distinct non-NULL value becomes one element. With
--bin the column must be numeric and each non-empty bin of that width
becomes one element. Text output is a CUE chart block ready for a specs
directory.

Examples:
  chartpick elements --db people.db --table people --field name
  chartpick elements --db people.db --table people --field age --bin 10
  chartpick elements --db people.db --table people --field joined --type date`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElements(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (required)")
	cmd.Flags().StringVar(&opts.Field, "field", "", "column name (required)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "field type (boolean|string|number|date|objectid|uuid)")
	cmd.Flags().Float64Var(&opts.Bin, "bin", 0, "histogram bin width")
	cmd.Flags().StringVar(&opts.Name, "name", "", "chart name (default: field)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func runElements(opts *ElementsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DBPath))
	}
	if opts.Bin < 0 || math.IsNaN(opts.Bin) || math.IsInf(opts.Bin, 0) {
		return commandError(formatter, ErrCodeBadArgument, fmt.Sprintf("invalid bin width %v", opts.Bin))
	}

	db, err := source.Open(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSource, err)
	}
	defer db.Close()

	ctx := cmd.Context()
	ft := ir.ParseFieldType(opts.Type)
	if opts.Type == "" {
		ft, err = db.InferType(ctx, opts.Table, opts.Field)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeSource, err)
		}
		formatter.VerboseLog("Inferred type %s for %s.%s", ft, opts.Table, opts.Field)
	}
	if ft == ir.FieldUnsupported {
		return commandError(formatter, ErrCodeBadArgument,
			fmt.Sprintf("cannot derive elements for %s.%s: unsupported field type", opts.Table, opts.Field))
	}
	if opts.Bin > 0 && ft != ir.FieldNumber {
		return commandError(formatter, ErrCodeBadArgument, fmt.Sprintf("--bin requires a number field, got %s", ft))
	}

	var elems []ir.Element
	if opts.Bin > 0 {
		elems, err = db.Histogram(ctx, opts.Table, opts.Field, opts.Bin)
	} else {
		elems, err = db.Distinct(ctx, opts.Table, opts.Field, ft)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSource, err)
	}

	name := opts.Name
	if name == "" {
		name = opts.Field
	}
	result := ElementsResult{Name: name, Type: ft.String(), Elements: elems}
	formatter.VerboseLog("Derived %d element(s)", len(elems))

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	src, err := formatChartCUE(result)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	_, err = formatter.Writer.Write(src)
	return err
}

type cueChartFile struct {
	Chart map[string]cueChart `json:"chart"`
}

type cueChart struct {
	Type     string       `json:"type"`
	Elements []cueElement `json:"elements"`
}

type cueElement struct {
	Label    string  `json:"label"`
	Value    any     `json:"value"`
	BinWidth float64 `json:"bin_width,omitempty"`
}

// formatChartCUE renders the chart as a formatted CUE file that
// compiler.CompileFile reads back to the same spec.
func formatChartCUE(result ElementsResult) ([]byte, error) {
	elems := make([]cueElement, len(result.Elements))
	for i, e := range result.Elements {
		elems[i] = cueElement{Label: e.Label, Value: cueScalar(e.Value), BinWidth: e.BinWidth}
	}
	file := cueChartFile{Chart: map[string]cueChart{
		result.Name: {Type: result.Type, Elements: elems},
	}}

	v := cuecontext.New().Encode(file)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}

	node := v.Syntax(cue.Final(), cue.Concrete(true))
	if lit, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: lit.Elts}
	}
	return format.Node(node)
}

// cueScalar converts a value to the Go scalar its CUE spec form takes.
// Integral numbers stay integers so they print without a fraction.
func cueScalar(v ir.Value) any {
	switch val := v.(type) {
	case ir.Number:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case ir.Bool:
		return bool(val)
	case ir.String:
		return string(val)
	default:
		// Dates, ObjectIDs and UUIDs are written as their text form.
		return val.String()
	}
}
