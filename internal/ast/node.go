// Package ast defines the contract this runtime core consumes for its
// input: a tree of expressions, type expressions and object literals
// produced by a parser/AST-builder this package does not implement (spec
// section 1, "Out of scope: the parser and AST builder"). Every node
// carries a source Range so the evaluator can attach accurate diagnostics
// (spec section 7).
package ast

import "github.com/pkl-lang/pkl-core/internal/diag"

// Node is embedded by every expression, type expression and declaration
// node to carry its source location.
type Node interface {
	Range() diag.Range
}

// base is embedded by concrete node structs to implement Node.
type base struct {
	Src diag.Range
}

// Range implements Node.
func (b base) Range() diag.Range { return b.Src }
