package cadence

import (
	"testing"
	"time"
)

func TestReplaceTransitionClearsChainAndInstallsIncoming(t *testing.T) {
	cc, _ := newTestChain(0)
	old := leaf(0, 1)
	cc.addInstance(old)

	incoming := leaf(0, 1)
	tr := newReplaceTransition(nil, cc, incoming)
	if !tr.step(0) {
		t.Fatalf("replace transition should finish on its first step")
	}
	if cc.instanceCount() != 1 || cc.instances[0] != incoming {
		t.Fatalf("chain after replace = %v, want only the incoming instance", cc.instances)
	}
}

func TestSnapshotAndReplaceTransitionFreezesValueFirst(t *testing.T) {
	cc, prop := newTestChain(3)
	prop.base = 3

	incoming := leaf(0, 1)
	tr := newSnapshotReplaceTransition(nil, cc, incoming)
	tr.step(0)

	if !cc.hasSnapshot || cc.snapshot != 3 {
		t.Fatalf("snapshot = (%v, %v), want (true, 3)", cc.hasSnapshot, cc.snapshot)
	}
	if cc.instanceCount() != 1 || cc.instances[0] != incoming {
		t.Fatalf("chain after snapshot_and_replace should contain only incoming")
	}
}

func TestComposeTransitionInsertsWithoutRampOrAnchorStop(t *testing.T) {
	cc, _ := newTestChain(0)
	anchor := leaf(0, 1)
	anchor.SetWeight(0.7)
	cc.addInstance(anchor)

	incoming := leaf(0, 1)
	incoming.SetWeight(0.4)
	tr := newComposeTransition(nil, cc, incoming, anchor)

	if !tr.step(16 * time.Millisecond) {
		t.Fatalf("compose transition should finish immediately (one-shot insert)")
	}
	if anchor.State() == StateStopped {
		t.Fatalf("compose must not stop the anchor")
	}
	if anchor.Weight() != 0.7 {
		t.Fatalf("compose must not ramp the anchor's weight, got %v", anchor.Weight())
	}
	if incoming.Weight() != 0.4 {
		t.Fatalf("compose must not ramp the incoming instance's weight, got %v", incoming.Weight())
	}
	if cc.instanceCount() != 2 || cc.instances[0] != anchor || cc.instances[1] != incoming {
		t.Fatalf("chain after compose = %v, want [anchor, incoming]", cc.instances)
	}
}

func TestFadeInTransitionRampsWeightToTarget(t *testing.T) {
	cc, _ := newTestChain(0)
	incoming := leaf(0, 1)
	incoming.SetWeight(0.8)

	tr := newFadeInTransition(nil, cc, incoming, 100*time.Millisecond)
	if tr.step(50 * time.Millisecond) {
		t.Fatalf("fade-in should not be done halfway through")
	}
	if incoming.Weight() <= 0 || incoming.Weight() >= 0.8 {
		t.Fatalf("mid-fade weight = %v, want strictly between 0 and 0.8", incoming.Weight())
	}
	if cc.instanceCount() != 1 {
		t.Fatalf("fade-in should install the incoming instance on its first step")
	}

	if !tr.step(50 * time.Millisecond) {
		t.Fatalf("fade-in should be done once elapsed reaches duration")
	}
	if incoming.Weight() != 0.8 {
		t.Fatalf("final weight = %v, want 0.8", incoming.Weight())
	}
}

func TestFadeOutTransitionRampsToZeroThenStops(t *testing.T) {
	cc, _ := newTestChain(0)
	target := leaf(0, 1)
	target.SetWeight(1)
	cc.addInstance(target)

	mgr := NewManager(ManagerConfig{})
	tr := newFadeOutTransition(mgr, cc, target, 100*time.Millisecond)
	if tr.step(100 * time.Millisecond) != true {
		t.Fatalf("fade-out should finish once elapsed reaches duration")
	}
	if target.Weight() != 0 {
		t.Fatalf("final weight = %v, want 0", target.Weight())
	}
	if target.State() != StateStopped {
		t.Fatalf("fade-out should stop the target once it reaches zero weight")
	}
}
