// Package strongtyping provides the allocation-time checks used by every
// hand-written constructor in the object model, plus typed containers that
// enforce their element type on every mutation.
//
// Checks here are cheap and static: they test a value against a Go runtime
// type rather than parsing a type expression. Containers delegate element
// checks to an Asserter (normally *types.Registry) so their element types can
// be full type expressions.
//
// Every constructor accepts the Trusted option. Trusted construction skips the
// initial validation and is reserved for rehydrating data that was already
// validated upstream, such as journal records.
package strongtyping
