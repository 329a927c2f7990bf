// Package frame implements the scope/frame model of spec section 4.C: the
// lexical enclosing chain, the dynamic receiver/owner pair, and the
// auxiliary slot map used for late-bound `this` in type constraints and
// object predicates. For-generator variables are bound as call parameters
// (WithCall), not through the auxiliary slot map.
package frame

import "github.com/pkl-lang/pkl-core/internal/value"

// AuxToken identifies one of the two stable auxiliary-scope slots described
// in spec section 4.C.
type AuxToken uint8

const (
	// CustomThis rebinds unqualified `this` to the value currently being
	// validated, used inside type-constraint predicates and object
	// predicate members ([[pred]] { ... }).
	CustomThis AuxToken = iota
	// ForGenerator names the slot for the per-iteration variables of a
	// comprehension (`for (x in ...)`). No code sets it: the evaluator binds
	// those variables with WithCall.
	ForGenerator
)

// Frame is passed to every expression reduction (spec section 4.C).
type Frame struct {
	// Receiver is the current dynamic `this`: the object on which the
	// executing member was looked up.
	Receiver value.Objectlike
	// Owner is the object-like that physically declares the member whose
	// body is currently executing.
	Owner value.Objectlike
	// Arguments holds positional arguments for a method/function body.
	Arguments []value.Value
	// paramNames parallels Arguments with the callee's declared parameter
	// names, letting a bare identifier in a lambda/method body resolve
	// against the current call's arguments without a separate local-variable
	// scope (spec section 4.C's identifier-resolution rule (a)/(b) treats
	// this as part of the current scope, ahead of the lexical chain).
	paramNames []string
	// aux holds the auxiliary-scope bindings, keyed by stable token.
	aux map[AuxToken]value.Value
	// enclosing is the lexical parent frame used to resolve free
	// identifiers declared outside the current member body.
	enclosing *Frame
}

// New constructs a root frame (e.g. for a module's top-level members).
func New(receiver, owner value.Objectlike) *Frame {
	return &Frame{Receiver: receiver, Owner: owner}
}

// WithArguments returns a derived frame with Arguments set, sharing
// everything else (used when invoking a method/function body).
func (f *Frame) WithArguments(args []value.Value) *Frame {
	n := *f
	n.Arguments = args

	return &n
}

// WithCall returns a derived frame bound to a function call: params names
// each positional argument in args, readable via LookupArgument.
func (f *Frame) WithCall(params []string, args []value.Value) *Frame {
	n := *f
	n.paramNames = params
	n.Arguments = args

	return &n
}

// LookupArgument resolves name against this frame's call parameters,
// searching the lexical enclosing chain if not bound here (spec section 4.C
// resolution rule (a)/(b)).
func (f *Frame) LookupArgument(name string) (value.Value, bool) {
	for cur := f; cur != nil; cur = cur.enclosing {
		for i, p := range cur.paramNames {
			if p == name && i < len(cur.Arguments) {
				return cur.Arguments[i], true
			}
		}
	}

	return nil, false
}

// WithOwner returns a derived frame with Owner replaced, used when dispatch
// walks to an ancestor in the amend chain (spec section 4.C: "the ancestor
// in the amend chain when reading an inherited member").
func (f *Frame) WithOwner(owner value.Objectlike) *Frame {
	n := *f
	n.Owner = owner

	return &n
}

// WithReceiver returns a derived frame with Receiver replaced.
func (f *Frame) WithReceiver(receiver value.Objectlike) *Frame {
	n := *f
	n.Receiver = receiver

	return &n
}

// WithEnclosing returns a derived frame whose lexical parent is enclosing;
// used when entering a member body so that free identifiers resolve against
// the object literal's captured environment rather than the caller's frame.
func (f *Frame) WithEnclosing(enclosing *Frame) *Frame {
	n := *f
	n.enclosing = enclosing

	return &n
}

// WithAux returns a derived frame with one auxiliary slot bound.
func (f *Frame) WithAux(token AuxToken, v value.Value) *Frame {
	n := *f
	n.aux = make(map[AuxToken]value.Value, len(f.aux)+1)

	for k, v := range f.aux {
		n.aux[k] = v
	}

	n.aux[token] = v

	return &n
}

// Aux returns the binding for token in this frame's auxiliary scope chain,
// searching this frame before any lexical parent (spec section 4.C,
// resolution rule (a)).
func (f *Frame) Aux(token AuxToken) (value.Value, bool) {
	for cur := f; cur != nil; cur = cur.enclosing {
		if v, ok := cur.aux[token]; ok {
			return v, true
		}
	}

	return nil, false
}

// Enclosing returns this frame's lexical parent, if any.
func (f *Frame) Enclosing() (*Frame, bool) {
	if f.enclosing == nil {
		return nil, false
	}

	return f.enclosing, true
}

// EnclosingOwner implements value.Enclosing: it returns the object-like
// lexically enclosing this frame's owner, used to resolve free identifiers
// declared outside the current member body (spec section 4.C resolution
// rule (b), "each owner.enclosingOwner() link").
func (f *Frame) EnclosingOwner() (value.Objectlike, bool) {
	if f.enclosing == nil {
		return nil, false
	}

	return f.enclosing.Owner, f.enclosing.Owner != nil
}

// ResolveLocal walks levelsUp lexical enclosing links starting at f and
// returns the frame whose Owner directly declares the identifier (spec
// section 4.C: "Resolution is decided once at AST-preparation time into a
// (levels-up, name) pair; the runtime merely walks that many enclosing
// links").
func (f *Frame) ResolveLocal(levelsUp int) (*Frame, bool) {
	cur := f
	for i := 0; i < levelsUp; i++ {
		if cur.enclosing == nil {
			return nil, false
		}

		cur = cur.enclosing
	}

	return cur, true
}
