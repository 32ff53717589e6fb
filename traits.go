package cadence

// Traits is the capability set the core needs to blend and compose values of
// type T. It must be pure, thread-safe, and allocation-free on hot paths —
// the core never allocates inside a call to any Traits method.
//
// Concrete value-type math (vectors, quaternions, colors) is out of scope
// for this package; see cadence/numeric for example implementations (used
// by cadence/tween).
type Traits[T any] interface {
	// Identity returns the neutral element for additive composition.
	Identity() T
	// Copy returns an independent copy of src (value types may return src
	// unchanged; reference-like T must deep-copy what the core may mutate).
	Copy(src T) T
	// Interpolate returns the linear blend of a and b at weight w, w in [0,1].
	Interpolate(a, b T, w float32) T
	// Add returns a + b under the type's additive group operation.
	Add(a, b T) T
	// Invert returns the additive inverse of a.
	Invert(a T) T
	// Multiply returns a scaled by the integer k under repeated Add, used for
	// cycle offsets on looping additive animations.
	Multiply(a T, k int32) T
}

// IdentityChecker is an optional hook for recognizing the identity value.
// Traits that don't implement it are treated as never-identity by
// isIdentity. The blend path in this package does not call isIdentity.
type IdentityChecker[T any] interface {
	IsIdentity(a T) bool
}

// isIdentity reports whether traits considers v the identity value, falling
// back to false when traits doesn't implement IdentityChecker.
func isIdentity[T any](traits Traits[T], v T) bool {
	if ic, ok := traits.(IdentityChecker[T]); ok {
		return ic.IsIdentity(v)
	}
	return false
}
