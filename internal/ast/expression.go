package ast

import "github.com/pkl-lang/pkl-core/internal/value"

// Expr is implemented by every expression-node kind the evaluator (package
// eval) dispatches on (spec section 4.D).
type Expr interface {
	Node
	exprNode()
}

// Constant is a literal value embedded directly in the AST.
type Constant struct {
	base
	Value value.Value
}

func (*Constant) exprNode() {}

// ReadProperty reads a named property, optionally off an explicit receiver
// expression (spec section 4.D, "ReadProperty (explicit receiver)"). When
// Receiver is nil the property is read off the current frame's Receiver
// (`this.name` or a bare `name` that resolves to a member rather than a
// lexical local).
type ReadProperty struct {
	base
	Receiver   Expr
	Name       string
	NeedsConst bool
}

func (*ReadProperty) exprNode() {}

// ReadLocalProperty reads a lexically-enclosing member using a statically
// resolved (levels-up, name) pair (spec section 4.C/4.D).
type ReadLocalProperty struct {
	base
	LevelsUp int
	Name     string
}

func (*ReadLocalProperty) exprNode() {}

// ReadSuperProperty reads the version of a property shadowed by the
// currently-executing def, starting the amend-chain walk at
// `owner.parent()` (spec section 4.D).
type ReadSuperProperty struct {
	base
	Name string
}

func (*ReadSuperProperty) exprNode() {}

// ReadSuperEntry is ReadSuperProperty's entry-key counterpart (`super[k]`).
type ReadSuperEntry struct {
	base
	Key Expr
}

func (*ReadSuperEntry) exprNode() {}

// MethodDispatch distinguishes the four method-invocation forms of spec
// section 4.D.
type MethodDispatch uint8

// The four dispatch forms.
const (
	DispatchDirect MethodDispatch = iota
	DispatchLexical
	DispatchVirtual
	DispatchSuper
)

// InvokeMethod covers InvokeMethodDirect/Lexical/Virtual/Super (spec
// section 4.D), distinguished by Dispatch.
type InvokeMethod struct {
	base
	Dispatch MethodDispatch
	Receiver Expr // set for Direct/Virtual
	LevelsUp int  // set for Lexical
	Name     string
	Args     []Expr
}

func (*InvokeMethod) exprNode() {}

// Amend is `parent { members... }`: an amend expression whose parent value
// is the evaluated Parent expression (spec section 4.D, "Amend / New").
type Amend struct {
	base
	Parent  Expr
	Overlay *ObjectLiteral
}

func (*Amend) exprNode() {}

// New is `new T { members... }` or `new { members... }` (inferred parent).
// ExplicitType names T when one was given and is nil for `new { ... }`,
// in which case the evaluator infers the parent.
type New struct {
	base
	ExplicitType TypeExpr // nil to request parent inference
	Overlay      *ObjectLiteral
}

func (*New) exprNode() {}

// Subscript is `o[k]` (spec section 4.D).
type Subscript struct {
	base
	Object Expr
	Key    Expr
}

func (*Subscript) exprNode() {}

// BinOp is the operator of a BinaryOp expression.
type BinOp uint8

// Binary operators covering arithmetic, string/collection concatenation,
// equality and ordering (spec section 4.D, "Equality" and
// "Arithmetic/string/coll ops").
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpIntDiv
	OpMod
	OpPow
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// BinaryOp is a two-operand expression.
type BinaryOp struct {
	base
	Op          BinOp
	Left, Right Expr
}

func (*BinaryOp) exprNode() {}

// UnaryOp is a one-operand expression (`-x`, `!x`).
type UnaryOp struct {
	base
	Negate bool // numeric negation
	Not    bool // boolean not
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// Lambda is an anonymous function literal.
type Lambda struct {
	base
	Params []string
	Body   Expr
}

func (*Lambda) exprNode() {}

// ForGenerator iterates Source (a List/Set/Map/Listing/Mapping/IntSeq
// expression), binding Vars per iteration, and collects object members from
// Body (spec section 4.D, "Lambdas and for-generators").
type ForGenerator struct {
	base
	Source Expr
	Vars   []string
	Body   *ObjectLiteral
}

func (*ForGenerator) exprNode() {}

// ReadKind distinguishes the four resource/module read forms.
type ReadKind uint8

// The four read forms.
const (
	ReadResource ReadKind = iota
	ReadResourceOrNull
	ReadImport
	ReadImportGlob
)

// ResourceRead is read/readOrNull/import/importGlob (spec section 4.D).
type ResourceRead struct {
	base
	Kind ReadKind
	URI  Expr
}

func (*ResourceRead) exprNode() {}

// If is a conditional expression `if (c) a else b`.
type If struct {
	base
	Cond, Then, Else Expr
}

func (*If) exprNode() {}

// Identifier is a bare name whose binding (local vs. member, and levels-up)
// has not yet been resolved; well-formed ASTs handed to this core are
// expected to have already lowered these into ReadProperty/ReadLocalProperty
// (spec section 1: AST preparation is out of scope), but the node is kept so
// callers building ASTs programmatically have a simple escape hatch resolved
// lazily by the evaluator's current scope.
type Identifier struct {
	base
	Name string
}

func (*Identifier) exprNode() {}
