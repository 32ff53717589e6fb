package cadence

import "time"

// HandoffMode selects how a newly started animation takes over a property
// that may already have other animations targeting it (spec.md §4.6).
type HandoffMode uint8

const (
	// HandoffReplace drops every existing instance on the property's chain
	// immediately and installs the new one, using the property's base value
	// as the new instance's default source.
	HandoffReplace HandoffMode = iota
	// HandoffSnapshotAndReplace is like Replace, but the chain first
	// records a snapshot of its current composed value; the new instance
	// sees that snapshot as its first-stage default_source.
	HandoffSnapshotAndReplace
	// HandoffCompose inserts the new instance right after an optional
	// anchor instance, preserving every other instance already in the
	// chain. A second Compose against the same anchor lands after the
	// first, not splitting it off (spec.md §8 scenario S4).
	HandoffCompose
	// HandoffFadeIn appends the new instance and ramps its weight from 0 up
	// to its configured weight over a fixed duration.
	HandoffFadeIn
	// HandoffFadeOut ramps an existing instance's weight down to 0 over a
	// fixed duration, then removes it.
	HandoffFadeOut
)

func (m HandoffMode) String() string {
	switch m {
	case HandoffReplace:
		return "replace"
	case HandoffSnapshotAndReplace:
		return "snapshot_and_replace"
	case HandoffCompose:
		return "compose"
	case HandoffFadeIn:
		return "fade_in"
	case HandoffFadeOut:
		return "fade_out"
	default:
		return "unknown"
	}
}

// transition is the non-generic face Manager uses to step every in-flight
// handoff once per Update, before chains are recomputed. Each is a tiny
// Scheduled → Active → Done state machine (spec.md §4.6); "Scheduled" is
// implicit (step hasn't run yet) and "Active" is everything between the
// first and last call to step.
type transition interface {
	// step advances the transition by dt and reports whether it has
	// finished (in which case Manager removes it from the active list).
	step(dt time.Duration) (done bool)
}

// transitionHandle is a generic handoff in progress against one
// CompositionChain[T].
type transitionHandle[T any] struct {
	mgr      *Manager
	mode     HandoffMode
	chain    *compositionChain[T]
	incoming *animInstance[T]
	anchor   *animInstance[T]

	duration time.Duration
	elapsed  time.Duration

	from, to float32

	installed bool
	done      bool
}

func newReplaceTransition[T any](mgr *Manager, chain *compositionChain[T], incoming *animInstance[T]) *transitionHandle[T] {
	return &transitionHandle[T]{mgr: mgr, mode: HandoffReplace, chain: chain, incoming: incoming}
}

func newSnapshotReplaceTransition[T any](mgr *Manager, chain *compositionChain[T], incoming *animInstance[T]) *transitionHandle[T] {
	return &transitionHandle[T]{mgr: mgr, mode: HandoffSnapshotAndReplace, chain: chain, incoming: incoming}
}

func newComposeTransition[T any](mgr *Manager, chain *compositionChain[T], incoming, anchor *animInstance[T]) *transitionHandle[T] {
	return &transitionHandle[T]{mgr: mgr, mode: HandoffCompose, chain: chain, incoming: incoming, anchor: anchor}
}

func newFadeInTransition[T any](mgr *Manager, chain *compositionChain[T], incoming *animInstance[T], fade time.Duration) *transitionHandle[T] {
	return &transitionHandle[T]{
		mgr: mgr, mode: HandoffFadeIn, chain: chain, incoming: incoming, duration: fade,
		from: 0, to: incoming.weight,
	}
}

func newFadeOutTransition[T any](mgr *Manager, chain *compositionChain[T], target *animInstance[T], fade time.Duration) *transitionHandle[T] {
	return &transitionHandle[T]{
		mgr: mgr, mode: HandoffFadeOut, chain: chain, anchor: target, duration: fade,
		from: target.weight, to: 0,
	}
}

// snapshotValue is the chain's actual composed output right now (spec.md
// §4.6: "records a snapshot of its current composed value"), not the
// property's rest value — those two only coincide by accident when nothing
// has ever been composed onto the chain, which is exactly the fallback case.
func (t *transitionHandle[T]) snapshotValue() T {
	if t.chain.everComposed {
		return t.chain.pending
	}
	if prop, ok := t.chain.ref.resolve(); ok && prop.HasBaseValue() {
		return prop.BaseValue()
	}
	return t.chain.traits.Identity()
}

func (t *transitionHandle[T]) step(dt time.Duration) bool {
	if t.done {
		return true
	}
	switch t.mode {
	case HandoffReplace:
		t.chain.clear()
		t.chain.addInstance(t.incoming)
		t.done = true
	case HandoffSnapshotAndReplace:
		t.chain.snapshotAndClear(t.snapshotValue())
		t.chain.addInstance(t.incoming)
		t.done = true
	case HandoffCompose:
		t.chain.insertAfter(t.anchor, t.incoming)
		t.done = true
	case HandoffFadeIn:
		if !t.installed {
			t.chain.addInstance(t.incoming)
			t.installed = true
		}
		frac := t.advance(dt)
		t.incoming.SetWeight(lerp32(t.from, t.to, frac))
		t.done = frac >= 1
	case HandoffFadeOut:
		frac := t.advance(dt)
		t.anchor.SetWeight(lerp32(t.from, t.to, frac))
		if frac >= 1 {
			t.done = true
			wasStopped := t.anchor.State() == StateStopped
			t.anchor.Stop()
			if !wasStopped && t.mgr != nil {
				t.mgr.recordCompletion(t.anchor)
			}
		}
	}
	return t.done
}

func (t *transitionHandle[T]) advance(dt time.Duration) float32 {
	t.elapsed += dt
	if t.duration <= 0 {
		return 1
	}
	frac := float32(t.elapsed) / float32(t.duration)
	if frac > 1 {
		frac = 1
	}
	return frac
}

func lerp32(a, b, frac float32) float32 {
	return a + (b-a)*frac
}
