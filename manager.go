package cadence

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ManagerConfig tunes a Manager's frame loop.
type ManagerConfig struct {
	// Parallel enables fork/join concurrency (via errgroup) across root
	// subtrees during advancement and across ordinary chains during blend
	// computation. Disable for small scenes or deterministic single-thread
	// tests; see manager_test.go for both configurations exercised against
	// the same scenario.
	Parallel bool
	// InitialRootCapacity preallocates the root-instance slice.
	InitialRootCapacity int
}

// Manager owns one animation scene: every root AnimationInstance, every
// CompositionChain, and every in-flight Transition. A frame is driven by
// calling Update then Apply (or UpdateAndApply for the common case); see
// spec.md §4 for the phase breakdown this implements.
type Manager struct {
	mu sync.Mutex

	cfg ManagerConfig

	roots        []Instance
	stoppedRoots []Instance
	chains       *ChainCollection
	transitions  []transition
	completions  []Instance

	sweepCursor int
	lastDt      time.Duration
}

// NewManager creates an empty Manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		cfg:    cfg,
		chains: NewChainCollection(),
		roots:  make([]Instance, 0, cfg.InitialRootCapacity),
	}
}

func (mgr *Manager) hasRoot(inst Instance) bool {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for _, r := range mgr.roots {
		if r == inst {
			return true
		}
	}
	return false
}

func (mgr *Manager) addRoot(inst Instance) {
	mgr.mu.Lock()
	mgr.roots = append(mgr.roots, inst)
	mgr.mu.Unlock()
}

// recordCompletion queues inst's OnComplete handler (if any) to fire on the
// next Apply. Safe to call from any of the goroutines Update fans advance
// work out to.
func (mgr *Manager) recordCompletion(inst Instance) {
	mgr.mu.Lock()
	mgr.completions = append(mgr.completions, inst)
	mgr.mu.Unlock()
}

// startLeaf resolves (or creates) inst's target chain and schedules the
// handoff transition mode requests. Called from Controller.Start via a
// closure captured at CreateController time, which is what lets this stay a
// free function generic over T while Controller itself stays a plain
// concrete type.
func startLeaf[T any](mgr *Manager, ref PropertyRef[T], traits Traits[T], inst *animInstance[T], mode HandoffMode, fade time.Duration) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	cc := findOrCreateChain(mgr.chains, ref, traits)
	var tr transition
	switch mode {
	case HandoffReplace:
		tr = newReplaceTransition(mgr, cc, inst)
	case HandoffSnapshotAndReplace:
		tr = newSnapshotReplaceTransition(mgr, cc, inst)
	case HandoffCompose:
		tr = newComposeTransition(mgr, cc, inst, topInstance(cc))
	case HandoffFadeIn:
		tr = newFadeInTransition(mgr, cc, inst, fade)
	default:
		return newError(ErrInvalidArgument, "start")
	}
	mgr.transitions = append(mgr.transitions, tr)
	return nil
}

// fadeOutLeaf schedules a FadeOut transition against an already-running
// leaf, called from Controller.FadeOut.
func fadeOutLeaf[T any](mgr *Manager, ref PropertyRef[T], traits Traits[T], inst *animInstance[T], fade time.Duration) error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	cc := findOrCreateChain(mgr.chains, ref, traits)
	mgr.transitions = append(mgr.transitions, newFadeOutTransition(mgr, cc, inst, fade))
	return nil
}

func topInstance[T any](cc *compositionChain[T]) *animInstance[T] {
	if len(cc.instances) == 0 {
		return nil
	}
	return cc.instances[len(cc.instances)-1]
}

// Update runs the advancement and blend-computation phases of one frame:
//
//  1. every root instance's local time is advanced (optionally fanned out
//     across goroutines, one per root subtree), queuing completions;
//  2. every in-flight Transition is stepped once, serially, since
//     transitions mutate shared chain state (insert/clear instances);
//  3. check-and-sweep: one root is probed round-robin for a collected
//     target and stopped if so, then every root now Stopped is moved out of
//     the schedule into a pending-recycle list Apply will drain; emptied or
//     dead chains are swept out of the collection;
//  4. immediate-property chains are updated AND applied right away, so a
//     weight property driven by its own animation is visible to ordinary
//     chains computed next;
//  5. ordinary chains compute their pending blended value (optionally
//     fanned out); writing that value to the property is deferred to Apply.
func (mgr *Manager) Update(dt time.Duration) error {
	mgr.lastDt = dt

	if err := mgr.advanceRoots(dt); err != nil {
		return err
	}

	for i := 0; i < len(mgr.transitions); {
		if mgr.transitions[i].step(dt) {
			mgr.transitions = append(mgr.transitions[:i], mgr.transitions[i+1:]...)
			continue
		}
		i++
	}

	mgr.probeCollectedTarget()
	mgr.sweepStoppedRoots()
	mgr.chains.sweep()

	for _, c := range mgr.chains.Immediate() {
		c.update(mgr)
		c.apply()
	}

	return mgr.updateOrdinaryChains()
}

// probeCollectedTarget examines a single root, chosen round-robin, and
// stops it if the host-side property it ultimately targets has been
// collected. Spec.md §9's "incremental cleanup": O(1) per frame, O(N)
// worst-case time to notice any one collected target.
func (mgr *Manager) probeCollectedTarget() {
	n := len(mgr.roots)
	if n == 0 {
		return
	}
	if mgr.sweepCursor >= n {
		mgr.sweepCursor = 0
	}
	r := mgr.roots[mgr.sweepCursor]
	mgr.sweepCursor++
	if r.State() == StateStopped || r.targetAlive() {
		return
	}
	wasStopped := r.State() == StateStopped
	r.Stop()
	if !wasStopped {
		mgr.recordCompletion(r)
	}
}

// sweepStoppedRoots removes every Stopped root from the active schedule,
// queuing each for Apply to recycle (if its auto_recycle flag is set).
func (mgr *Manager) sweepStoppedRoots() {
	n := 0
	for _, r := range mgr.roots {
		if r.State() == StateStopped {
			mgr.stoppedRoots = append(mgr.stoppedRoots, r)
			continue
		}
		mgr.roots[n] = r
		n++
	}
	mgr.roots = mgr.roots[:n]
}

func (mgr *Manager) advanceRoots(dt time.Duration) error {
	if !mgr.cfg.Parallel || len(mgr.roots) < 2 {
		for _, r := range mgr.roots {
			r.advanceTime(dt, mgr)
		}
		return nil
	}
	g, _ := errgroup.WithContext(context.Background())
	for _, r := range mgr.roots {
		r := r
		g.Go(func() error {
			r.advanceTime(dt, mgr)
			return nil
		})
	}
	return g.Wait()
}

func (mgr *Manager) updateOrdinaryChains() error {
	ordinary := mgr.chains.Ordinary()
	if !mgr.cfg.Parallel || len(ordinary) < 2 {
		for _, c := range ordinary {
			c.update(mgr)
		}
		return nil
	}
	g, _ := errgroup.WithContext(context.Background())
	for _, c := range ordinary {
		c := c
		g.Go(func() error {
			c.update(mgr)
			return nil
		})
	}
	return g.Wait()
}

// Apply writes every ordinary chain's pending value to its property, fires
// completion handlers queued since the last Apply, and recycles (or drops)
// every root instance that is Stopped, including one stopped through its
// Controller after Update ran.
func (mgr *Manager) Apply() {
	for _, c := range mgr.chains.Ordinary() {
		c.apply()
	}

	mgr.mu.Lock()
	pending := mgr.completions
	mgr.completions = nil
	mgr.mu.Unlock()
	for _, inst := range pending {
		inst.fireCompletion()
	}

	mgr.sweepStoppedRoots()
	for _, r := range mgr.stoppedRoots {
		if r.AutoRecycle() {
			r.recycle(mgr)
		}
	}
	mgr.stoppedRoots = mgr.stoppedRoots[:0]
}

// UpdateAndApply runs Update followed by Apply, the common single-threaded
// host frame step.
func (mgr *Manager) UpdateAndApply(dt time.Duration) error {
	if err := mgr.Update(dt); err != nil {
		return err
	}
	mgr.Apply()
	return nil
}

// RootCount reports how many root instances the Manager currently tracks,
// mainly for tests and diagnostics.
func (mgr *Manager) RootCount() int {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return len(mgr.roots)
}
