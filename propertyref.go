package cadence

import "reflect"

// PropertyRef is a weak-or-direct reference to a host's AnimatableProperty.
// A direct reference assumes the host-owned property outlives every chain
// pointing at it (the common case: a property embedded in a long-lived
// struct). An arena reference goes through a WeakHandle so a
// CompositionChain can outlive the property's host being disposed and
// discover that on the next resolve, per spec.md §9.
type PropertyRef[T any] struct {
	arena  *Arena[AnimatableProperty[T]]
	handle WeakHandle
	direct AnimatableProperty[T]
	id     uint64
}

// DirectProperty wraps a property the caller guarantees stays alive for as
// long as any chain targets it. p must be a pointer-backed implementation
// (true of every property type in this module and its examples) so its
// identity can be used to sort and deduplicate chains.
func DirectProperty[T any](p AnimatableProperty[T]) PropertyRef[T] {
	return PropertyRef[T]{direct: p, id: pointerIdentity(p)}
}

// ArenaProperty wraps a property stored in a host-owned Arena, resolved
// fresh (and checked for liveness) on every access.
func ArenaProperty[T any](arena *Arena[AnimatableProperty[T]], handle WeakHandle) PropertyRef[T] {
	base := reflect.ValueOf(arena).Pointer()
	id := splitmix64(uint64(base) ^ uint64(handle.index)<<1 ^ uint64(handle.generation)<<33)
	return PropertyRef[T]{arena: arena, handle: handle, id: id}
}

// resolve returns the live property, or ok=false if it's a stale arena
// handle or an unset direct reference.
func (r PropertyRef[T]) resolve() (AnimatableProperty[T], bool) {
	if r.arena != nil {
		return r.arena.Get(r.handle)
	}
	if r.direct == nil {
		return nil, false
	}
	return r.direct, true
}

// identity is the stable sort/dedup key ChainCollection uses to find the
// chain already targeting this property, if any.
func (r PropertyRef[T]) identity() uint64 { return r.id }

func pointerIdentity[T any](p AnimatableProperty[T]) uint64 {
	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Pointer {
		panic("cadence: AnimatableProperty implementations must be pointer types")
	}
	return splitmix64(uint64(v.Pointer()))
}
