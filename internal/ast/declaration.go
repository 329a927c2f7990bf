package ast

import "github.com/pkl-lang/pkl-core/internal/value"

// ObjectLiteral is the overlay (or, for a bare `new Dynamic { ... }` with no
// amend target, the entire shape) of a New/Amend expression (spec section
// 3, "Object-like"; spec section 4.F, "Amend/compose engine").
type ObjectLiteral struct {
	base
	Members []MemberDecl
}

// MemberDecl is implemented by every member declared inside an object
// literal.
type MemberDecl interface {
	Node
	memberDeclNode()
}

// PropertyDecl declares (or, within an overlay, amends) a named property.
type PropertyDecl struct {
	base
	Name         string
	Flags        value.MemberFlags
	DeclaredType TypeExpr // nil if untyped
	Body         Expr
}

func (*PropertyDecl) memberDeclNode() {}

// EntryDecl declares a Mapping/Dynamic entry under an explicit key
// expression (spec section 4.F, "Entry-syntax overlays only valid on
// Mapping/Dynamic").
type EntryDecl struct {
	base
	Key   Expr
	Flags value.MemberFlags
	Body  Expr
}

func (*EntryDecl) memberDeclNode() {}

// ElementDecl declares the next sequential Listing/List element (spec
// section 4.D, "Tie-breaks": indices start at the parent's current length).
type ElementDecl struct {
	base
	Flags value.MemberFlags
	Body  Expr
}

func (*ElementDecl) memberDeclNode() {}

// PredicateDecl is a predicate member `[[pred]] { members }`: Overlay is
// amended onto every visible parent entry whose forced value satisfies
// Predicate under a custom-this scope (spec section 4.F).
type PredicateDecl struct {
	base
	Predicate Expr
	Overlay   *ObjectLiteral
}

func (*PredicateDecl) memberDeclNode() {}

// WhenDecl conditionally includes its Then (and, if present, Else) member
// declarations depending on Cond, evaluated in the enclosing frame.
type WhenDecl struct {
	base
	Cond Expr
	Then []MemberDecl
	Else []MemberDecl
}

func (*WhenDecl) memberDeclNode() {}
