package chart

import "github.com/roach88/chartpick/internal/ir"

// Mode is the handler an interaction is routed to.
type Mode int

const (
	// ModeNone leaves selection and predicate untouched.
	ModeNone Mode = iota
	ModeDistinct
	ModeRange
)

func (m Mode) String() string {
	switch m {
	case ModeDistinct:
		return "distinct"
	case ModeRange:
		return "range"
	default:
		return "none"
	}
}

// Route picks the handler for a field type and interaction source.
func Route(ft ir.FieldType, src ir.Source) Mode {
	switch ft {
	case ir.FieldBoolean, ir.FieldString:
		return ModeDistinct
	case ir.FieldNumber:
		if src == ir.SourceUnique {
			return ModeDistinct
		}
		return ModeRange
	case ir.FieldDate, ir.FieldObjectID, ir.FieldUUID:
		return ModeRange
	case ir.FieldUnsupported:
		return ModeNone
	default:
		return ModeNone
	}
}

// DefaultSource is the source a chart of the given field type reports when
// none is configured: "many" for range-mode types, "few" otherwise.
func DefaultSource(ft ir.FieldType) ir.Source {
	if Route(ft, ir.SourceMany) == ModeRange {
		return ir.SourceMany
	}
	return ir.SourceFew
}
