// Package source derives chart elements from a column of a SQLite table.
//
// Two shapes are supported:
//
//	Distinct   one element per distinct non-NULL value, ordered by value
//	Histogram  one element per non-empty fixed-width bin, ordered by bin start
//
// Values are typed by the chart's field type. When the caller has no type,
// InferType picks one from the column's dominant SQLite storage class:
// INTEGER and REAL become number, TEXT becomes string.
//
// Table and column names are identifiers, never bound parameters, so they are
// checked against identPattern before being quoted into SQL.
package source
