// Package typeexpr parses type expressions such as
// "Dict[str, List[Union[int, CustomType]]]".
//
// Grammar:
//
//	Expr := Name | Name '[' Expr (',' Expr)* ']'
//	Name := [A-Za-z_][A-Za-z0-9_.]*
//
// Whitespace between tokens is ignored. Parsing produces a sealed AST of
// Simple and Generic nodes; resolving names to runtime checkers is the
// caller's job, so the same AST can be checked against any namespace.
package typeexpr
