package ir

import "fmt"

// FieldType is the inferred type of the field a chart visualizes.
// The set is closed; types without selection support map to FieldUnsupported.
type FieldType int

const (
	FieldUnsupported FieldType = iota
	FieldBoolean
	FieldString
	FieldNumber
	FieldDate
	FieldObjectID
	FieldUUID
)

var fieldTypeNames = map[FieldType]string{
	FieldUnsupported: "unsupported",
	FieldBoolean:     "boolean",
	FieldString:      "string",
	FieldNumber:      "number",
	FieldDate:        "date",
	FieldObjectID:    "objectid",
	FieldUUID:        "uuid",
}

// ParseFieldType maps a spec type name to a FieldType.
// Unknown names (e.g. "document", "array") yield FieldUnsupported.
func ParseFieldType(name string) FieldType {
	for ft, n := range fieldTypeNames {
		if n == name && ft != FieldUnsupported {
			return ft
		}
	}
	return FieldUnsupported
}

func (ft FieldType) String() string {
	if n, ok := fieldTypeNames[ft]; ok {
		return n
	}
	return fmt.Sprintf("fieldtype(%d)", int(ft))
}

// Source tags which kind of chart raised an interaction.
type Source string

const (
	SourceFew    Source = "few"
	SourceMany   Source = "many"
	SourceUnique Source = "unique"
	SourceDate   Source = "date"
)

// ValidSources defines the allowed interaction sources.
var ValidSources = map[Source]bool{
	SourceFew:    true,
	SourceMany:   true,
	SourceUnique: true,
	SourceDate:   true,
}

// Element is one clickable unit of a chart: a distinct value, or a histogram
// bin spanning [Value, Value+BinWidth).
type Element struct {
	Label    string  `json:"label"`               // Unique within a chart
	Value    Value   `json:"value"`               // Underlying domain value
	BinWidth float64 `json:"bin_width,omitempty"` // 0 for exact elements
	Ref      any     `json:"-"`                   // Rendering-layer handle, never dereferenced
}

// Binned reports whether the element is a histogram bin.
func (e Element) Binned() bool { return e.BinWidth > 0 }

// MarshalJSON encodes the element with its value in canonical form.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.Value == nil {
		return nil, fmt.Errorf("element %q: missing value", e.Label)
	}
	obj := map[string]any{
		"label": e.Label,
		"value": e.Value,
		"kind":  e.Value.Kind().String(),
	}
	if e.BinWidth != 0 {
		obj["bin_width"] = e.BinWidth
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", e.Label, err)
	}
	return data, nil
}

// ChartSpec is a compiled chart definition: the field it visualizes and the
// elements a user can click.
type ChartSpec struct {
	Name     string    `json:"name"`   // Field path, e.g. "age" or "address.city"
	Type     FieldType `json:"-"`      // Inferred field type
	TypeName string    `json:"type"`   // Type name as written in the chart spec
	Source   Source    `json:"source"` // Default interaction source
	Elements []Element `json:"elements"`
}

// Labels returns element labels in chart order.
func (s ChartSpec) Labels() []string {
	labels := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		labels[i] = e.Label
	}
	return labels
}

// Element looks up an element by label.
func (s ChartSpec) Element(label string) (Element, bool) {
	for _, e := range s.Elements {
		if e.Label == label {
			return e, true
		}
	}
	return Element{}, false
}
