package value

// NativeFunc is the signature for a stdlib function implemented directly in
// Go rather than as an interpreted Pkl body (spec section 9, "Global base
// module"). It receives already-forced arguments and returns a forced
// result.
type NativeFunc func(args []Value) (Value, error)

// Function is a closure value: a captured environment plus a callable body
// (spec section 3). CapturedFrame is opaque (typically a *frame.Frame) to
// avoid a value<->frame import cycle; Body is opaque (typically an ast.Expr)
// for the same reason as Def.Body. Exactly one of Body or Native is set.
type Function struct {
	handle Handle

	Name          string
	Parameters    []PropertyDescriptor
	ReturnType    any
	Body          any
	Native        NativeFunc
	CapturedFrame any
}

// NewFunction constructs a Function value with a fresh identity handle.
func NewFunction(name string, params []PropertyDescriptor, returnType any, body any, captured any) *Function {
	return &Function{
		handle:        NextHandle(),
		Name:          name,
		Parameters:    params,
		ReturnType:    returnType,
		Body:          body,
		CapturedFrame: captured,
	}
}

// NewNativeFunction constructs a Function backed directly by Go code. A
// negative arity marks a variadic function, which declares no parameters.
func NewNativeFunction(name string, arity int, fn NativeFunc) *Function {
	var params []PropertyDescriptor
	if arity > 0 {
		params = make([]PropertyDescriptor, arity)
	}
	return &Function{handle: NextHandle(), Name: name, Parameters: params, Native: fn}
}

// Handle returns this function's stable identity.
func (f *Function) Handle() Handle { return f.handle }

// Kind implements Value.
func (*Function) Kind() Kind { return KindFunction }

// Equals implements Value: identity based, per spec section 4.A.
func (f *Function) Equals(other Value) bool {
	o, ok := other.(*Function)
	return ok && f.handle == o.handle
}

// Hash implements Value.
func (f *Function) Hash() uint64 { return hashCombine(0xfc7104, uint64(f.handle)) }

// String implements Value.
func (f *Function) String() string { return "function " + f.Name }
