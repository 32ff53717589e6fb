package cadence

import "time"

// FillBehavior controls what an instance does once it passes the end of its
// timeline's TotalDuration.
type FillBehavior uint8

const (
	// FillHold freezes the instance's output at its end-of-timeline value;
	// the instance enters StateFilling and keeps producing that value until
	// explicitly removed.
	FillHold FillBehavior = iota
	// FillStop transitions the instance straight to StateStopped once its
	// duration elapses.
	FillStop
)

func (f FillBehavior) String() string {
	if f == FillHold {
		return "hold"
	}
	return "stop"
}

// Timeline describes timing only: how long a playback lasts, what happens
// once it's over, and which property it targets (by name, for late binding,
// or via a direct handle assigned by the host). Concrete curve/keyframe/path
// timelines are out of scope for this package (spec.md §1); see
// cadence/tween for one concrete example.
//
// A Timeline may be a leaf (also implementing Animation[T] for some T) or a
// composite Group of child Timelines sharing one playback clock.
type Timeline interface {
	// TotalDuration is the length of one playthrough, before FillBehavior or
	// looping is taken into account. A non-positive duration never ends:
	// the instance stays Playing until it is stopped.
	TotalDuration() time.Duration
	// FillBehavior selects what happens once local time passes TotalDuration.
	FillBehavior() FillBehavior
	// TargetObjectName is a hint used to resolve the property this timeline
	// binds to when no direct property handle was supplied to the manager.
	// Empty means "no hint" (the caller must supply a direct handle).
	TargetObjectName() string
	// TargetPropertyName is the companion hint to TargetObjectName.
	TargetPropertyName() string
	// CreateInstance materializes a fresh, non-root AnimationInstance for one
	// playback of this timeline. Implementations typically obtain the
	// backing instance from a pool (see Pool[T]) rather than allocating; use
	// NewInstance (leaf) or NewGroupInstance (composite) to build the
	// returned value.
	CreateInstance(mgr *Manager) Instance
}

// Animation is a Timeline that also produces values of type T. evaluate must
// not allocate in the steady state; callers supply out-parameters.
type Animation[T any] interface {
	Timeline
	// Traits returns the value-trait capability set for T.
	Traits() Traits[T]
	// Evaluate computes this animation's value at localTime. defaultSource
	// and defaultTarget are supplied so curves that need an implicit
	// from/to (e.g. "animate to this value") can use them; most concrete
	// animations ignore one or both.
	Evaluate(localTime time.Duration, defaultSource, defaultTarget T) T
	// IsAdditive reports whether this animation's value should be added onto
	// defaultSource rather than replacing it outright.
	IsAdditive() bool
}
