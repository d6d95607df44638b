// Package ast is the parse tree of one query module.
//
// The tree is deliberately loose: grouping nodes carry a Type and optionally an
// anchor token for their position, terminals carry the token they were built
// from, and operator chains are flattened into the enclosing node. Checks query it
// with dotted type paths (Find) and compare reconstructed values (Value), for
// instance an IfPredicate over `$a eq 1` has the value "UnaryExpr eq UnaryExpr".
package ast
