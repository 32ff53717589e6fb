package cadence

// chain is the non-generic face of a CompositionChain, letting
// ChainCollection hold chains targeting different property types T in one
// ordered slice.
type chain interface {
	// update recomputes the chain's pending blended value from its current
	// instance list. Safe to call concurrently with other chains' update,
	// never concurrently with its own apply.
	update(mgr *Manager)
	// apply writes the pending value (if any) to the property and
	// refreshes its IsAnimated flag.
	apply()
	// isImmediate reports whether the target property implements
	// ImmediateProperty, meaning Manager must update+apply this chain
	// during Update rather than deferring apply to Manager.Apply.
	isImmediate() bool
	// identity is this chain's property's stable sort/dedup key.
	identity() uint64
	// instanceCount is how many instances currently target this chain.
	instanceCount() int
	// propertyAlive reports whether the target property still resolves
	// (false for an arena-backed property whose host was disposed).
	propertyAlive() bool
	// markEmptyObserved advances the empty-chain survival counter and
	// reports whether the chain is now eligible for removal. Per spec.md
	// §4.4, an emptied chain survives one extra Apply (so a late SetWeight
	// or SetIsAnimated(false) from this frame's instances-list is visible
	// to the host before its last fallback) before being pruned.
	markEmptyObserved() (removable bool)
}

// compositionChain blends every animInstance[T] currently targeting one
// property of type T, in priority (insertion) order, per spec.md §4.3.
type compositionChain[T any] struct {
	ref       PropertyRef[T]
	traits    Traits[T]
	immediate bool

	instances []*animInstance[T]

	hasSnapshot bool
	snapshot    T

	hasPending bool
	pending    T

	// everComposed reports whether update has ever run for this chain, so a
	// snapshot taken between frames (after apply has already cleared
	// hasPending) can still read the last composed value out of pending.
	everComposed bool

	emptyStreak int
	composeLast map[*animInstance[T]]*animInstance[T]
}

func newCompositionChain[T any](ref PropertyRef[T], traits Traits[T]) *compositionChain[T] {
	cc := &compositionChain[T]{ref: ref, traits: traits}
	if prop, ok := ref.resolve(); ok {
		cc.immediate = isImmediate(prop)
	}
	return cc
}

func (cc *compositionChain[T]) identity() uint64    { return cc.ref.identity() }
func (cc *compositionChain[T]) isImmediate() bool   { return cc.immediate }
func (cc *compositionChain[T]) instanceCount() int  { return len(cc.instances) }

func (cc *compositionChain[T]) propertyAlive() bool {
	_, ok := cc.ref.resolve()
	return ok
}

// addInstance appends inst to the chain's priority order and binds it back
// to this chain so Stop/advanceTime can detach it without a collection scan.
func (cc *compositionChain[T]) addInstance(inst *animInstance[T]) {
	inst.chainRef = cc
	cc.instances = append(cc.instances, inst)
	cc.emptyStreak = 0
}

// removeInstance drops inst from the priority order. O(n) in chain length,
// which per spec.md §5 is expected to stay small (a handful of concurrent
// animations per property).
func (cc *compositionChain[T]) removeInstance(inst *animInstance[T]) {
	for i, other := range cc.instances {
		if other == inst {
			cc.instances = append(cc.instances[:i], cc.instances[i+1:]...)
			return
		}
	}
}

// insertAfter is the Compose handoff's placement rule: inst goes right
// after anchor's current position, preserving the order of everything else.
// A nil anchor (or one no longer in the chain) appends to the end.
//
// composeLast remembers, per anchor, the most recently composed-in
// instance, so a second Compose against the same anchor lands after the
// first instead of splitting it off — this is what keeps D and E in
// tree order in spec.md §8 scenario S4.
func (cc *compositionChain[T]) insertAfter(anchor, inst *animInstance[T]) {
	inst.chainRef = cc
	cc.emptyStreak = 0

	after := anchor
	if anchor != nil {
		if cc.composeLast == nil {
			cc.composeLast = make(map[*animInstance[T]]*animInstance[T])
		}
		if last, ok := cc.composeLast[anchor]; ok {
			after = last
		}
	}

	idx := -1
	if after != nil {
		for i, o := range cc.instances {
			if o == after {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		cc.instances = append(cc.instances, inst)
	} else {
		cc.instances = append(cc.instances, nil)
		copy(cc.instances[idx+2:], cc.instances[idx+1:])
		cc.instances[idx+1] = inst
	}

	if anchor != nil {
		cc.composeLast[anchor] = inst
	}
}

// snapshotAndClear freezes the chain's current blended output as its new
// base value and clears every existing instance, used by the
// SnapshotAndReplace handoff mode.
func (cc *compositionChain[T]) snapshotAndClear(value T) {
	cc.snapshot = cc.traits.Copy(value)
	cc.hasSnapshot = true
	cc.instances = cc.instances[:0]
}

// clear drops every instance without taking a snapshot (Replace handoff).
func (cc *compositionChain[T]) clear() {
	cc.instances = cc.instances[:0]
	cc.hasSnapshot = false
}

// realBaseValue is the property's actual rest value, ignoring any pending
// snapshot. Per spec.md §4.3, this is always what every stage receives as
// its defaultTarget, regardless of a frozen snapshot substituting for the
// first stage's defaultSource.
func (cc *compositionChain[T]) realBaseValue() T {
	if prop, ok := cc.ref.resolve(); ok && prop.HasBaseValue() {
		return prop.BaseValue()
	}
	return cc.traits.Identity()
}

// baseValue is the value the chain's first stage would currently blend
// from: the frozen snapshot if one is pending, the property's real base
// value otherwise. Unlike update, this does not consume the snapshot.
func (cc *compositionChain[T]) baseValue() T {
	if cc.hasSnapshot {
		return cc.snapshot
	}
	return cc.realBaseValue()
}

func (cc *compositionChain[T]) update(mgr *Manager) {
	if !cc.propertyAlive() {
		return
	}
	target := cc.realBaseValue()
	current := target
	if cc.hasSnapshot {
		current = cc.snapshot
		cc.hasSnapshot = false
	}
	for _, inst := range cc.instances {
		if v, changed := inst.getValue(current, target); changed {
			current = v
		}
	}
	cc.pending = current
	cc.hasPending = true
	cc.everComposed = true
}

func (cc *compositionChain[T]) apply() {
	prop, ok := cc.ref.resolve()
	if !ok {
		return
	}
	if cc.hasPending {
		prop.SetAnimationValue(cc.pending)
		cc.hasPending = false
	}
	prop.SetIsAnimated(len(cc.instances) > 0)
}

// BindChildInstance builds a leaf instance for anim and installs it into
// ref's composition chain (Replace semantics, since a freshly built child
// has no rival yet on a brand-new group). Use the result as one of
// NewGroupInstance's children — a composite Timeline's children start
// blending together as soon as the group itself becomes a running root,
// with no separate per-child Start call.
func BindChildInstance[T any](mgr *Manager, anim Animation[T], ref PropertyRef[T], traits Traits[T]) Instance {
	inst := NewInstance(anim).(*animInstance[T])
	mgr.mu.Lock()
	cc := findOrCreateChain(mgr.chains, ref, traits)
	cc.clear()
	cc.addInstance(inst)
	mgr.mu.Unlock()
	return inst
}

func (cc *compositionChain[T]) markEmptyObserved() bool {
	if len(cc.instances) > 0 {
		cc.emptyStreak = 0
		return false
	}
	cc.emptyStreak++
	return cc.emptyStreak > 1
}
