// Package ir provides the value and chart-spec types shared by every other
// chartpick package.
//
// All other internal packages import ir; ir imports nothing internal. This
// keeps the value model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is sealed: Number, String, Bool, Date, ObjectID and UUID only
//   - Comparable is pure and O(1); it is called on every min/max scan
//   - Compare is a total order across all kinds (kind rank, then value)
//   - All JSON tags use snake_case
//   - Canonical JSON (RFC 8785 ordering, NFC strings) is the only encoding
//     used for traces and golden files
package ir
