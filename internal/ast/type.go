package ast

// TypeExpr is implemented by every type-expression node kind the type
// checker (package types) reduces to a type value (spec section 4.E).
type TypeExpr interface {
	Node
	typeExprNode()
}

// UnknownType is the `unknown` type (accepts anything).
type UnknownType struct{ base }

func (*UnknownType) typeExprNode() {}

// NothingType is the `nothing` type (accepts nothing).
type NothingType struct{ base }

func (*NothingType) typeExprNode() {}

// ClassType names a class (spec section 4.E, "Class C").
type ClassType struct {
	base
	QualifiedName string
	TypeArgs      []TypeExpr // for parameterized classes, e.g. List<Int>
}

func (*ClassType) typeExprNode() {}

// StringLiteralType is a string-literal type (`"GET"|"POST"` members are
// modeled as a UnionType of StringLiteralType).
type StringLiteralType struct {
	base
	Literal string
}

func (*StringLiteralType) typeExprNode() {}

// NullableType is `T?`.
type NullableType struct {
	base
	Element TypeExpr
}

func (*NullableType) typeExprNode() {}

// UnionType is `T1 | T2 | ...`, checked left-to-right (spec section 4.E).
type UnionType struct {
	base
	Members []TypeExpr
}

func (*UnionType) typeExprNode() {}

// ConstrainedType is `T(pred1, pred2, ...)`.
type ConstrainedType struct {
	base
	Base       TypeExpr
	Predicates []Expr
}

func (*ConstrainedType) typeExprNode() {}

// AliasType references a `typealias` declaration by qualified name.
type AliasType struct {
	base
	QualifiedName string
}

func (*AliasType) typeExprNode() {}
