// Package chart is the interaction entry point for one rendered minichart.
//
// A Chart owns the selection of a single field. Every click reaches it through
// HandleInteraction, which routes by field type and source, updates the
// selection, and reports the outcome:
//
//	[click] → HandleInteraction → Route → selection.Tracker
//	                                    → Renderer.Apply(classes)
//	                                    → Sink.SetPredicate / Sink.ClearPredicate
//
// ROUTING:
//
//	Boolean, String            any source     distinct
//	Number                     unique         distinct
//	Number                     other          range
//	Date, ObjectID, UUID       any source     range
//	Unsupported                any source     no-op
//
// Every call returns an Outcome with Handled set, including the no-op route,
// so the caller suppresses the platform's default click behavior exactly once
// per event.
//
// CONCURRENCY:
//
// A Chart is owned by one goroutine. Interactions are handled to completion
// one at a time; there is no queue and no I/O. Events are stamped with a
// monotonic sequence number from Clock.
package chart
