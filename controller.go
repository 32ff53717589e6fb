package cadence

import "time"

// Controller is an opaque, value-sized handle to one root AnimationInstance.
// It stays safe to call after its instance has been recycled: every method
// checks the instance's RunCount against the value captured at creation and
// silently no-ops if they disagree, per spec.md §7's "recycled controllers
// degrade gracefully" policy. Only CreateController, CreateControllerFromPool,
// Start and FadeOut return errors; everything else is deliberately
// best-effort.
type Controller struct {
	mgr            *Manager
	inst           Instance
	runAt          uint32
	bind           func(mode HandoffMode, fade time.Duration) error
	fadeOut        func(fade time.Duration) error
	setWeightSrc   func(ref PropertyRef[float64])
}

// IsValid reports whether this handle still refers to the playback it was
// created for (false once that instance has been recycled).
func (c Controller) IsValid() bool {
	return c.mgr != nil && c.inst != nil && c.inst.RunCount() == c.runAt
}

// CreateController builds a new root instance playing anim, without yet
// adding it to any composition chain — call Start to begin blending it in.
// Building a leaf whose target property can't be resolved at all (a nil
// direct reference) is rejected with ErrInvalidArgument; an arena-backed
// reference is accepted without checking whether its handle still resolves.
func CreateController[T any](mgr *Manager, anim Animation[T], ref PropertyRef[T], traits Traits[T]) (Controller, error) {
	if ref.arena == nil && ref.direct == nil {
		return Controller{}, newError(ErrInvalidArgument, "create_controller")
	}
	inst := NewInstance(anim).(*animInstance[T])
	inst.setRoot(true)
	return newLeafController(mgr, ref, traits, inst), nil
}

// CreateControllerFromPool is CreateController using an existing Pool[T]
// instead of allocating a fresh instance, avoiding per-Start allocation in
// steady state (spec.md §5).
func CreateControllerFromPool[T any](mgr *Manager, pool *Pool[T], anim Animation[T], ref PropertyRef[T], traits Traits[T]) (Controller, error) {
	if ref.arena == nil && ref.direct == nil {
		return Controller{}, newError(ErrInvalidArgument, "create_controller")
	}
	inst := pool.Acquire(anim).(*animInstance[T])
	inst.setRoot(true)
	return newLeafController(mgr, ref, traits, inst), nil
}

func newLeafController[T any](mgr *Manager, ref PropertyRef[T], traits Traits[T], inst *animInstance[T]) Controller {
	return Controller{
		mgr:   mgr,
		inst:  inst,
		runAt: inst.RunCount(),
		bind: func(mode HandoffMode, fade time.Duration) error {
			return startLeaf(mgr, ref, traits, inst, mode, fade)
		},
		fadeOut: func(fade time.Duration) error {
			return fadeOutLeaf(mgr, ref, traits, inst, fade)
		},
		setWeightSrc: func(wref PropertyRef[float64]) {
			inst.weightSource = func() float32 {
				if prop, ok := wref.resolve(); ok && prop.HasBaseValue() {
					return float32(prop.BaseValue())
				}
				return 1
			}
		},
	}
}

// CreateGroupController builds a root Instance over a composite Timeline and
// its already-constructed children (see NewGroupInstance). Group instances
// never join a composition chain themselves, so Start ignores mode/fade.
func CreateGroupController(mgr *Manager, timeline Timeline, children ...Instance) Controller {
	inst := NewGroupInstance(timeline, children...)
	inst.setRoot(true)
	return Controller{mgr: mgr, inst: inst, runAt: inst.RunCount()}
}

// Start admits this controller's instance into the Manager's tree (if not
// already a root elsewhere) and, for leaves, into their target property's
// composition chain using mode. fade is only used by HandoffFadeIn and is
// ignored otherwise. HandoffFadeOut is not accepted here (use FadeOut).
//
// Returns ErrRecycled if the handle is stale, ErrAlreadyRunning if this
// instance has already been started, ErrInvalidArgument for a mode a leaf
// cannot start with.
func (c Controller) Start(mode HandoffMode, fade time.Duration) error {
	if !c.IsValid() {
		return newError(ErrRecycled, "start")
	}
	if c.mgr.hasRoot(c.inst) {
		return newError(ErrAlreadyRunning, "start")
	}
	if c.bind != nil {
		if err := c.bind(mode, fade); err != nil {
			return err
		}
	}
	c.mgr.addRoot(c.inst)
	return nil
}

// Stop transitions the instance (and its subtree) to Stopped immediately.
// A no-op on a stale or already-stopped handle.
func (c Controller) Stop() {
	if !c.IsValid() {
		return
	}
	wasStopped := c.inst.State() == StateStopped
	c.inst.Stop()
	if !wasStopped {
		c.mgr.recordCompletion(c.inst)
	}
}

// FadeOut ramps this instance's weight down to 0 over fade, then stops it.
// Only meaningful for leaf controllers created via CreateController /
// CreateControllerFromPool; a no-op (returning ErrInvalidArgument) on a
// group controller.
func (c Controller) FadeOut(fade time.Duration) error {
	if !c.IsValid() {
		return newError(ErrRecycled, "fade_out")
	}
	if c.fadeOut == nil {
		return newError(ErrInvalidArgument, "fade_out")
	}
	return c.fadeOut(fade)
}

// Pause freezes local-time advancement for this instance and its subtree.
func (c Controller) Pause() {
	if !c.IsValid() {
		return
	}
	c.inst.SetPaused(true)
}

// Resume undoes Pause.
func (c Controller) Resume() {
	if !c.IsValid() {
		return
	}
	c.inst.SetPaused(false)
}

// IsPaused reports the instance's paused flag, or false for a stale handle.
func (c Controller) IsPaused() bool {
	if !c.IsValid() {
		return false
	}
	return c.inst.IsPaused()
}

// SetSpeed changes local playback rate; negative values play the timeline
// backwards.
func (c Controller) SetSpeed(speed float32) {
	if !c.IsValid() {
		return
	}
	c.inst.SetSpeed(speed)
}

// SetWeight changes this instance's own blend weight (before ancestor
// cascading). Ignored once SetWeightSource has been called: the weight is
// then read from that source (1 while it does not resolve or has no base
// value), and a Controller offers no way to remove the source again.
func (c Controller) SetWeight(weight float32) {
	if !c.IsValid() {
		return
	}
	c.inst.SetWeight(weight)
}

// SetWeightSource makes this instance's effective weight track another
// property's current value every frame, instead of the static value set by
// SetWeight — e.g. binding an ordinary animation's weight to an immediate
// property that is itself being animated (spec.md §8 scenario S3). Only
// meaningful for leaf controllers.
func (c Controller) SetWeightSource(ref PropertyRef[float64]) {
	if !c.IsValid() || c.setWeightSrc == nil {
		return
	}
	c.setWeightSrc(ref)
}

// Seek jumps local time directly, reclamping state against the timeline.
func (c Controller) Seek(t time.Duration) {
	if !c.IsValid() {
		return
	}
	c.inst.Seek(t)
}

// State reports the instance's InstanceState, or StateStopped for a stale
// handle.
func (c Controller) State() InstanceState {
	if !c.IsValid() {
		return StateStopped
	}
	return c.inst.State()
}

// SetAutoRecycle changes whether a Stopped instance returns to its pool
// automatically during Apply.
func (c Controller) SetAutoRecycle(auto bool) {
	if !c.IsValid() {
		return
	}
	c.inst.SetAutoRecycle(auto)
}

// OnComplete registers fn to run once, the next time this instance
// transitions into StateStopped, or into StateFilling from another state.
// Passing nil detaches any previously
// registered handler. A no-op on a stale handle.
func (c Controller) OnComplete(fn func()) {
	if !c.IsValid() {
		return
	}
	c.inst.SetCompletionHandler(fn)
}
