// Package types holds the declarative type specification model and the
// TypeRegistry that checks runtime values against type expressions.
//
// Every type exposed to contract code is described by a Spec: a ClassSpec for
// structured types, an EnumSpec for enumerations, and NativeObjectSpec,
// FixedValueSpec or DecoratorSpec for names bound to external objects. Specs
// are inert data; the Registry is the only place values are checked.
//
// A Registry is built once per execution context and is read-only afterwards,
// so it is safe for concurrent use.
package types
