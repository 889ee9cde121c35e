package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrChartNameEmpty     = "E201" // chart name is required
	ErrChartNoElements    = "E202" // at least one element required
	ErrDuplicateLabel     = "E203" // element labels must be unique
	ErrInvalidBinWidth    = "E204" // bin width negative or non-finite
	ErrValueKindMismatch  = "E205" // value kind does not fit the field type
	ErrInvalidSource      = "E206" // unknown interaction source
	ErrBinWidthNotAllowed = "E207" // bins on a distinct-only field
	ErrMissingValue       = "E208" // element has no value
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"` // Source line, when known
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// expectedKind is the value kind each supported field type carries.
var expectedKind = map[ir.FieldType]ir.Kind{
	ir.FieldBoolean:  ir.KindBool,
	ir.FieldString:   ir.KindString,
	ir.FieldNumber:   ir.KindNumber,
	ir.FieldDate:     ir.KindDate,
	ir.FieldObjectID: ir.KindObjectID,
	ir.FieldUUID:     ir.KindUUID,
}

// Validate checks a chart spec against schema rules.
// Returns all errors found (does not fail-fast).
//
// Element order is not checked: range charts over unsorted elements are
// accepted as they are.
func Validate(spec ir.ChartSpec) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(spec.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "chart name is required and must be non-empty",
			Code:    ErrChartNameEmpty,
		})
	}

	if spec.Source != "" && !ir.ValidSources[spec.Source] {
		errs = append(errs, ValidationError{
			Field:   "source",
			Message: fmt.Sprintf("invalid source %q", spec.Source),
			Code:    ErrInvalidSource,
		})
	}

	if len(spec.Elements) == 0 {
		errs = append(errs, ValidationError{
			Field:   "elements",
			Message: "at least one element is required",
			Code:    ErrChartNoElements,
		})
	}

	want, typed := expectedKind[spec.Type]
	binsAllowed := chart.Route(spec.Type, ir.SourceMany) == chart.ModeRange
	labels := make(map[string]int)
	for i, e := range spec.Elements {
		field := fmt.Sprintf("elements[%d]", i)

		if j, dup := labels[e.Label]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".label",
				Message: fmt.Sprintf("duplicate label %q (also elements[%d])", e.Label, j),
				Code:    ErrDuplicateLabel,
			})
		} else {
			labels[e.Label] = i
		}

		if e.Value == nil {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: "value is required",
				Code:    ErrMissingValue,
			})
		} else if typed && e.Value.Kind() != want {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: fmt.Sprintf("%s value in %s chart", e.Value.Kind(), spec.Type),
				Code:    ErrValueKindMismatch,
			})
		}

		switch {
		case e.BinWidth < 0 || math.IsNaN(e.BinWidth) || math.IsInf(e.BinWidth, 0):
			errs = append(errs, ValidationError{
				Field:   field + ".bin_width",
				Message: fmt.Sprintf("bin width must be a finite number >= 0, got %v", e.BinWidth),
				Code:    ErrInvalidBinWidth,
			})
		case e.BinWidth > 0 && typed && !binsAllowed:
			errs = append(errs, ValidationError{
				Field:   field + ".bin_width",
				Message: fmt.Sprintf("%s charts cannot be binned", spec.Type),
				Code:    ErrBinWidthNotAllowed,
			})
		}
	}

	return errs
}
