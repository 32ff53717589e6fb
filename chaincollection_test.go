package cadence

import "testing"

func TestFindOrCreateChainReusesExistingChain(t *testing.T) {
	cc := NewChainCollection()
	ref := DirectProperty[float64](newScalarProperty(0))

	c1 := findOrCreateChain(cc, ref, float64Traits{})
	c2 := findOrCreateChain(cc, ref, float64Traits{})
	if c1 != c2 {
		t.Fatalf("findOrCreateChain returned distinct chains for the same ref")
	}
}

func TestChainCollectionOrdinarySegmentStaysSorted(t *testing.T) {
	cc := NewChainCollection()
	for i := 0; i < 20; i++ {
		ref := DirectProperty[float64](newScalarProperty(float64(i)))
		findOrCreateChain(cc, ref, float64Traits{})
	}
	if !cc.validate() {
		t.Fatalf("ordinary segment is not sorted after 20 inserts")
	}
}

func TestChainCollectionImmediatePropertiesGoToPrefix(t *testing.T) {
	cc := NewChainCollection()
	immediateRef := DirectProperty[float64](&weightProperty{scalarProperty: scalarProperty{base: 1, hasBase: true}})
	ordinaryRef := DirectProperty[float64](newScalarProperty(0))

	findOrCreateChain(cc, immediateRef, float64Traits{})
	findOrCreateChain(cc, ordinaryRef, float64Traits{})

	if len(cc.Immediate()) != 1 {
		t.Fatalf("len(Immediate()) = %d, want 1", len(cc.Immediate()))
	}
	if len(cc.Ordinary()) != 1 {
		t.Fatalf("len(Ordinary()) = %d, want 1", len(cc.Ordinary()))
	}
}

func TestChainCollectionSweepDropsDeadAndStaleEmptyChains(t *testing.T) {
	cc := NewChainCollection()
	arena := NewArena[AnimatableProperty[float64]](1)
	h := arena.Insert(newScalarProperty(0))
	deadRef := ArenaProperty[float64](arena, h)
	findOrCreateChain(cc, deadRef, float64Traits{})
	arena.Remove(h)

	aliveRef := DirectProperty[float64](newScalarProperty(0))
	findOrCreateChain(cc, aliveRef, float64Traits{})

	cc.sweep() // first empty observation of the alive-but-empty chain
	cc.sweep() // dead chain gone; alive-but-empty chain now eligible

	if len(cc.Ordinary()) != 0 {
		t.Fatalf("len(Ordinary()) after two sweeps = %d, want 0", len(cc.Ordinary()))
	}
}
