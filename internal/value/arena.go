package value

import "sync/atomic"

// Handle is a stable, process-wide unique identifier for an object-like
// value. Spec section 9 calls for "arena-backed object handles (stable IDs,
// not raw pointers)" so that the cyclic enclosing-frame graph can be walked
// without the garbage collector needing to reason about reference cycles
// through non-owning links; this mirrors the teacher's register/column
// index-allocation idiom (pkg/corset/compiler/allocation.go) adapted from
// column identity to object identity.
type Handle uint64

var handleCounter uint64

// NextHandle allocates a fresh, never-reused Handle.
func NextHandle() Handle {
	return Handle(atomic.AddUint64(&handleCounter, 1))
}
