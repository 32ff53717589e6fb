package cadence

import "time"

// InstanceState is the playback state of one AnimationInstance.
type InstanceState uint8

const (
	// StateDelayed is entered when local time is still negative: the
	// instance hasn't reached its timeline's start yet.
	StateDelayed InstanceState = iota
	// StatePlaying is the normal in-range state.
	StatePlaying
	// StateFilling is entered once local time reaches TotalDuration under
	// FillHold: the instance keeps producing its end-of-timeline value.
	StateFilling
	// StateStopped means the instance no longer contributes to any chain
	// and is a candidate for removal/recycling at the next Apply.
	StateStopped
)

func (s InstanceState) String() string {
	switch s {
	case StateDelayed:
		return "delayed"
	case StatePlaying:
		return "playing"
	case StateFilling:
		return "filling"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Instance is the tree/scheduling face of an AnimationInstance: the part the
// Manager walks to advance time and cascade pause/speed/weight, independent
// of the value type T a leaf happens to animate. Its methods are deliberately
// unexported where they're an internal scheduling concern, which keeps the
// interface implementable only from within this package — hosts build
// instances through NewInstance / NewGroupInstance, never by hand.
//
// This mirrors the two-level strategy spec.md §9 calls for: a heterogeneous
// tree of otherwise-monomorphized leaves.
type Instance interface {
	// State reports the instance's current playback state.
	State() InstanceState
	// IsPaused reports whether this instance (not counting ancestors) is
	// paused.
	IsPaused() bool
	// SetPaused pauses or resumes this instance. A paused instance's
	// advanceTime is a no-op, and cascades to its children.
	SetPaused(paused bool)
	// Speed is the local playback rate; 1 is normal, negative runs the
	// timeline backwards.
	Speed() float32
	// SetSpeed changes the local playback rate.
	SetSpeed(speed float32)
	// Weight is this instance's own contribution weight, before cascading
	// with ancestors. See EffectiveWeight.
	Weight() float32
	// SetWeight changes this instance's own weight.
	SetWeight(weight float32)
	// EffectiveWeight is Weight() multiplied through every ancestor's
	// Weight(), the value chains actually blend with.
	EffectiveWeight() float32
	// Parent returns the owning tree node, or nil at the root.
	Parent() Instance
	// Children returns this instance's direct children (composite Group
	// timelines only; leaves always report an empty slice).
	Children() []Instance
	// RunCount is bumped every time the instance is recycled; Controller
	// uses it to detect a stale handle.
	RunCount() uint32
	// IsRoot reports whether this instance was registered directly with a
	// Manager (as opposed to being a child of a Group).
	IsRoot() bool
	// AutoRecycle reports whether a Stopped instance should return to its
	// pool automatically during Apply.
	AutoRecycle() bool
	// SetAutoRecycle changes that policy.
	SetAutoRecycle(auto bool)
	// Stop transitions this instance and its whole subtree to Stopped
	// immediately, detaching any leaf from its composition chain.
	Stop()
	// Seek sets local time directly, reclamping state against the
	// timeline's TotalDuration/FillBehavior. A group seeks every child to
	// the same t; its own state is recomputed on its next advanceTime.
	Seek(t time.Duration)
	// SetCompletionHandler registers fn to run once, the next time this
	// instance transitions into StateStopped, or into StateFilling from
	// another state. A nil fn clears it.
	SetCompletionHandler(fn func())

	advanceTime(dt time.Duration, mgr *Manager) (completed bool)
	setParent(p Instance)
	setRoot(root bool)
	fireCompletion()
	recycle(mgr *Manager)
	// targetAlive reports whether every property this instance (or one of
	// its descendants) is bound to still resolves. A leaf not yet bound to
	// any chain, and a childless group, both report true.
	targetAlive() bool
}

// node is an alias kept for readability at call sites that only care about
// the scheduling face of an instance.
type node = Instance

// animInstance is the concrete leaf: a single playback of an Animation[T]
// contributing to exactly one CompositionChain[T] while it is Playing or
// Filling.
type animInstance[T any] struct {
	anim     Animation[T]
	traits   Traits[T]
	additive bool
	pool     *Pool[T]
	chainRef *compositionChain[T]

	parent Instance
	state  InstanceState

	localTime time.Duration
	speed     float32
	weight    float32
	paused    bool
	root      bool
	auto      bool
	runCount  uint32

	onComplete func()
	hasHandler bool

	// weightSource, when set, overrides weight with the current value of
	// another (typically immediate) property each frame — see
	// Controller.SetWeightSource and spec.md §8 scenario S3.
	weightSource func() float32
}

// NewInstance builds a leaf Instance playing anim once. The returned value
// satisfies both Instance and, for internal package use, the typed getValue
// contract CompositionChain[T] relies on.
func NewInstance[T any](anim Animation[T]) Instance {
	ai := &animInstance[T]{
		anim:     anim,
		traits:   anim.Traits(),
		additive: anim.IsAdditive(),
		speed:    1,
		weight:   1,
		auto:     true,
		runCount: 1,
	}
	_, ai.state = clampLocalTime(0, anim.TotalDuration(), anim.FillBehavior())
	return ai
}

func (ai *animInstance[T]) State() InstanceState      { return ai.state }
func (ai *animInstance[T]) IsPaused() bool            { return ai.paused }
func (ai *animInstance[T]) SetPaused(p bool)          { ai.paused = p }
func (ai *animInstance[T]) Speed() float32            { return ai.speed }
func (ai *animInstance[T]) SetSpeed(s float32)        { ai.speed = s }
func (ai *animInstance[T]) Weight() float32           { return ai.weight }
func (ai *animInstance[T]) SetWeight(w float32)       { ai.weight = w }
func (ai *animInstance[T]) Parent() Instance          { return ai.parent }
func (ai *animInstance[T]) Children() []Instance      { return nil }
func (ai *animInstance[T]) RunCount() uint32          { return ai.runCount }
func (ai *animInstance[T]) IsRoot() bool              { return ai.root }
func (ai *animInstance[T]) AutoRecycle() bool         { return ai.auto }
func (ai *animInstance[T]) SetAutoRecycle(auto bool)  { ai.auto = auto }
func (ai *animInstance[T]) setParent(p Instance)      { ai.parent = p }
func (ai *animInstance[T]) setRoot(root bool)         { ai.root = root }

func (ai *animInstance[T]) EffectiveWeight() float32 {
	w := ai.weight
	if ai.weightSource != nil {
		w = ai.weightSource()
	}
	if ai.parent != nil {
		w *= ai.parent.EffectiveWeight()
	}
	return w
}

func (ai *animInstance[T]) SetCompletionHandler(fn func()) {
	ai.onComplete = fn
	ai.hasHandler = fn != nil
}

func (ai *animInstance[T]) fireCompletion() {
	if ai.hasHandler {
		handler := ai.onComplete
		ai.hasHandler = false
		ai.onComplete = nil
		handler()
	}
}

func (ai *animInstance[T]) Seek(t time.Duration) {
	clamped, state := clampLocalTime(t, ai.anim.TotalDuration(), ai.anim.FillBehavior())
	ai.localTime = clamped
	ai.state = state
}

func (ai *animInstance[T]) Stop() {
	if ai.state == StateStopped {
		return
	}
	ai.state = StateStopped
	if ai.chainRef != nil {
		ai.chainRef.removeInstance(ai)
		ai.chainRef = nil
	}
}

func (ai *animInstance[T]) targetAlive() bool {
	if ai.chainRef == nil {
		return true
	}
	return ai.chainRef.propertyAlive()
}

func (ai *animInstance[T]) recycle(mgr *Manager) {
	ai.runCount++
	ai.chainRef = nil
	ai.parent = nil
	if ai.pool != nil {
		ai.pool.release(ai)
	}
}

func (ai *animInstance[T]) advanceTime(dt time.Duration, mgr *Manager) bool {
	if ai.paused {
		return false
	}
	prev := ai.state
	ai.localTime += scaleDuration(dt, ai.speed)
	clamped, state := clampLocalTime(ai.localTime, ai.anim.TotalDuration(), ai.anim.FillBehavior())
	ai.localTime = clamped
	ai.state = state
	if state == StateStopped && ai.chainRef != nil {
		ai.chainRef.removeInstance(ai)
		ai.chainRef = nil
	}
	// spec.md §4.2: completion fires both when a timeline stops outright and
	// when a FillHold timeline reaches its end and settles into Filling.
	completed := (state == StateStopped && prev != StateStopped) ||
		(state == StateFilling && prev != StateFilling)
	if completed && ai.hasHandler && mgr != nil {
		mgr.recordCompletion(ai)
	}
	return completed
}

// getValue folds this instance's contribution onto defaultSource, returning
// the blended result and whether it contributed at all (false means "no
// change", letting CompositionChain skip a Copy). defaultTarget is passed
// through to Evaluate for animations that need an implicit destination
// (e.g. a bare "animate to" curve with no explicit from value).
func (ai *animInstance[T]) getValue(defaultSource, defaultTarget T) (T, bool) {
	if ai.state == StateDelayed || ai.state == StateStopped {
		return defaultSource, false
	}
	w := ai.EffectiveWeight()
	if w <= 0 {
		return defaultSource, false
	}
	raw := ai.anim.Evaluate(ai.localTime, defaultSource, defaultTarget)
	if ai.additive {
		weighted := raw
		if w < 1 {
			weighted = ai.traits.Interpolate(ai.traits.Identity(), raw, w)
		}
		return ai.traits.Add(defaultSource, weighted), true
	}
	if w >= 1 {
		return raw, true
	}
	return ai.traits.Interpolate(defaultSource, raw, w), true
}

// groupInstance drives a shared clock over a fixed set of children (a
// composite Timeline, e.g. several properties animated in lockstep). It
// never itself joins a CompositionChain.
type groupInstance struct {
	timeline Timeline
	children []Instance

	parent Instance
	state  InstanceState

	localTime time.Duration
	speed     float32
	weight    float32
	paused    bool
	root      bool
	auto      bool
	runCount  uint32

	onComplete func()
	hasHandler bool
}

// NewGroupInstance builds a composite Instance over already-constructed
// children (typically each child Timeline's own CreateInstance result).
func NewGroupInstance(timeline Timeline, children ...Instance) Instance {
	gi := &groupInstance{
		timeline: timeline,
		children: children,
		speed:    1,
		weight:   1,
		auto:     true,
		runCount: 1,
		state:    StatePlaying,
	}
	for _, c := range children {
		c.setParent(gi)
	}
	if len(children) == 0 {
		gi.state = StateStopped
	}
	return gi
}

func (gi *groupInstance) State() InstanceState     { return gi.state }
func (gi *groupInstance) IsPaused() bool           { return gi.paused }
func (gi *groupInstance) SetPaused(p bool)         { gi.paused = p }
func (gi *groupInstance) Speed() float32           { return gi.speed }
func (gi *groupInstance) SetSpeed(s float32)       { gi.speed = s }
func (gi *groupInstance) Weight() float32          { return gi.weight }
func (gi *groupInstance) SetWeight(w float32)      { gi.weight = w }
func (gi *groupInstance) Parent() Instance         { return gi.parent }
func (gi *groupInstance) Children() []Instance     { return gi.children }
func (gi *groupInstance) RunCount() uint32         { return gi.runCount }
func (gi *groupInstance) IsRoot() bool             { return gi.root }
func (gi *groupInstance) AutoRecycle() bool        { return gi.auto }
func (gi *groupInstance) SetAutoRecycle(auto bool) { gi.auto = auto }
func (gi *groupInstance) setParent(p Instance)     { gi.parent = p }
func (gi *groupInstance) setRoot(root bool)         { gi.root = root }

func (gi *groupInstance) EffectiveWeight() float32 {
	w := gi.weight
	if gi.parent != nil {
		w *= gi.parent.EffectiveWeight()
	}
	return w
}

func (gi *groupInstance) SetCompletionHandler(fn func()) {
	gi.onComplete = fn
	gi.hasHandler = fn != nil
}

func (gi *groupInstance) fireCompletion() {
	if gi.hasHandler {
		handler := gi.onComplete
		gi.hasHandler = false
		gi.onComplete = nil
		handler()
	}
}

func (gi *groupInstance) Seek(t time.Duration) {
	gi.localTime = t
	for _, c := range gi.children {
		c.Seek(t)
	}
}

func (gi *groupInstance) Stop() {
	if gi.state == StateStopped {
		return
	}
	gi.state = StateStopped
	for _, c := range gi.children {
		c.Stop()
	}
}

func (gi *groupInstance) targetAlive() bool {
	for _, c := range gi.children {
		if !c.targetAlive() {
			return false
		}
	}
	return true
}

func (gi *groupInstance) recycle(mgr *Manager) {
	gi.runCount++
	for _, c := range gi.children {
		c.recycle(mgr)
	}
	gi.children = nil
	gi.parent = nil
}

func (gi *groupInstance) advanceTime(dt time.Duration, mgr *Manager) bool {
	if gi.paused {
		return false
	}
	scaled := scaleDuration(dt, gi.speed)
	gi.localTime += scaled
	prev := gi.state

	if len(gi.children) == 0 {
		gi.state = StateStopped
	} else {
		// allSettled is the weaker condition (every child is at least
		// Filling); allStopped is the stronger one. A group with some
		// children Filling and the rest Stopped settles into Filling
		// itself rather than hanging in Playing forever.
		allStopped, allSettled := true, true
		for _, c := range gi.children {
			c.advanceTime(scaled, mgr)
			switch c.State() {
			case StateStopped:
			case StateFilling:
				allStopped = false
			default:
				allStopped = false
				allSettled = false
			}
		}
		switch {
		case allStopped:
			gi.state = StateStopped
		case allSettled:
			gi.state = StateFilling
		default:
			gi.state = StatePlaying
		}
	}

	// spec.md §4.2: completion fires both on a transition into Stopped and
	// on one into Filling, mirroring animInstance's leaf-level rule.
	completed := (gi.state == StateStopped && prev != StateStopped) ||
		(gi.state == StateFilling && prev != StateFilling)
	if completed && gi.hasHandler && mgr != nil {
		mgr.recordCompletion(gi)
	}
	return completed
}
