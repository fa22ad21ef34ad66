// Package hooks defines the envelopes that carry data into and out of contract
// hooks: hook arguments, hook results, rejections and the directives a hook
// may return.
//
// A rejection is a value on a hook result, never an error. Errors returned by
// the constructors here are contract-author mistakes from the sdkerr taxonomy.
package hooks
