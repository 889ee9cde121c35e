package compiler

import (
	"fmt"
	"strconv"
	"time"

	"cuelang.org/go/cue"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/ir"
)

// CompileChart parses a CUE value into a ChartSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the chart struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`chart: age: { type: "number", elements: [...] }`)
//	spec, err := CompileChart(v.LookupPath(cue.ParsePath("chart.age")))
//
// The chart name is the struct label; quoted labels allow dotted field paths
// such as chart: "address.city". Element values are decoded according to the
// chart type.
func CompileChart(v cue.Value) (*ir.ChartSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "chart", Message: "chart not found", Pos: v.Pos()}
	}

	spec := &ir.ChartSpec{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = unquoteLabel(labels[len(labels)-1].String())
	}

	// Parse type (required)
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{Field: "type", Message: "type is required", Pos: v.Pos()}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.TypeName = typeName
	spec.Type = ir.ParseFieldType(typeName)

	// Parse source (optional)
	spec.Source = chart.DefaultSource(spec.Type)
	if srcVal := v.LookupPath(cue.ParsePath("source")); srcVal.Exists() {
		src, err := srcVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !ir.ValidSources[ir.Source(src)] {
			return nil, &CompileError{
				Field:   "source",
				Message: fmt.Sprintf("invalid source %q, must be \"few\", \"many\", \"unique\" or \"date\"", src),
				Pos:     srcVal.Pos(),
			}
		}
		spec.Source = ir.Source(src)
	}

	spec.Elements, err = parseElements(v, spec.Type)
	if err != nil {
		return nil, err
	}

	if errs := Validate(*spec); len(errs) > 0 {
		return nil, &CompileError{Field: errs[0].Field, Message: errs[0].Message, Code: errs[0].Code, Pos: v.Pos()}
	}
	return spec, nil
}

// parseElements extracts the element list of a chart.
func parseElements(v cue.Value, ft ir.FieldType) ([]ir.Element, error) {
	elemsVal := v.LookupPath(cue.ParsePath("elements"))
	if !elemsVal.Exists() {
		return nil, &CompileError{Field: "elements", Message: "elements are required", Pos: v.Pos()}
	}
	iter, err := elemsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var elems []ir.Element
	for i := 0; iter.Next(); i++ {
		ev := iter.Value()
		field := fmt.Sprintf("elements[%d]", i)

		labelVal := ev.LookupPath(cue.ParsePath("label"))
		if !labelVal.Exists() {
			return nil, &CompileError{Field: field + ".label", Message: "label is required", Pos: ev.Pos()}
		}
		label, err := labelVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		valueVal := ev.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return nil, &CompileError{Field: field + ".value", Message: "value is required", Pos: ev.Pos()}
		}
		value, err := decodeValue(valueVal, ft)
		if err != nil {
			return nil, &CompileError{Field: field + ".value", Message: err.Error(), Pos: valueVal.Pos()}
		}

		elem := ir.Element{Label: label, Value: value}
		if bwVal := ev.LookupPath(cue.ParsePath("bin_width")); bwVal.Exists() {
			bw, err := bwVal.Float64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			elem.BinWidth = bw
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

// decodeValue converts an element value according to the chart's field type.
// Dates are RFC 3339 strings, ObjectIDs 24 hex characters, UUIDs canonical
// text. Unsupported charts keep whatever scalar the CUE source wrote.
func decodeValue(v cue.Value, ft ir.FieldType) (ir.Value, error) {
	switch ft {
	case ir.FieldBoolean:
		b, err := v.Bool()
		if err != nil {
			return nil, fmt.Errorf("expected bool: %v", err)
		}
		return ir.Bool(b), nil
	case ir.FieldString:
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("expected string: %v", err)
		}
		return ir.String(s), nil
	case ir.FieldNumber:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("expected number: %v", err)
		}
		return ir.Number(f), nil
	case ir.FieldDate:
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("expected RFC 3339 date string: %v", err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %v", s, err)
		}
		return ir.NewDate(t), nil
	case ir.FieldObjectID:
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("expected objectid string: %v", err)
		}
		return ir.ParseObjectID(s)
	case ir.FieldUUID:
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("expected uuid string: %v", err)
		}
		return ir.ParseUUID(s)
	}

	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return ir.String(s), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return ir.Bool(b), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return ir.Number(f), nil
	default:
		return nil, fmt.Errorf("unsupported value kind: %v", v.IncompleteKind())
	}
}

func unquoteLabel(label string) string {
	if s, err := strconv.Unquote(label); err == nil {
		return s
	}
	return label
}
