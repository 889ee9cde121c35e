package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/chartpick/internal/ir"
)

// CompileCharts compiles every chart under the top-level "chart" field of v,
// in declaration order. It stops at the first error.
func CompileCharts(v cue.Value) ([]ir.ChartSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	chartsVal := v.LookupPath(cue.ParsePath("chart"))
	if !chartsVal.Exists() {
		return nil, nil
	}
	iter, err := chartsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.ChartSpec
	for iter.Next() {
		spec, err := CompileChart(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", iter.Label(), err)
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

// CompileFile compiles the charts of a single CUE file.
func CompileFile(path string) ([]ir.ChartSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileCharts(v)
}
