package cadence

// ChainCollection holds every CompositionChain a Manager currently maintains,
// laid out as an immediate-property prefix followed by a suffix sorted
// ascending by property identity (spec.md §4.4). The prefix is scanned
// linearly — hosts rarely have more than a handful of weight-style
// properties — while the suffix supports binary-search lookup, since that's
// where most chains (ordinary animated properties) live.
type ChainCollection struct {
	immediate []chain
	ordinary  []chain
}

// NewChainCollection returns an empty collection.
func NewChainCollection() *ChainCollection {
	return &ChainCollection{}
}

// find looks up the chain with the given identity in the appropriate
// segment. When not found, idx is the index at which it would need to be
// inserted to preserve order (only meaningful for the ordinary segment).
func (cc *ChainCollection) find(id uint64, immediate bool) (c chain, idx int, found bool) {
	if immediate {
		for i, c := range cc.immediate {
			if c.identity() == id {
				return c, i, true
			}
		}
		return nil, len(cc.immediate), false
	}
	lo, hi := 0, len(cc.ordinary)
	for lo < hi {
		mid := (lo + hi) / 2
		if cc.ordinary[mid].identity() < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(cc.ordinary) && cc.ordinary[lo].identity() == id {
		return cc.ordinary[lo], lo, true
	}
	return nil, lo, false
}

// insert adds a newly created chain in its proper segment/position. Callers
// must have already confirmed via find that no chain with this identity
// exists.
func (cc *ChainCollection) insert(c chain) {
	if c.isImmediate() {
		cc.immediate = append(cc.immediate, c)
		return
	}
	_, idx, _ := cc.find(c.identity(), false)
	cc.ordinary = append(cc.ordinary, nil)
	copy(cc.ordinary[idx+1:], cc.ordinary[idx:])
	cc.ordinary[idx] = c
}

// Immediate returns the immediate-property prefix, in no particular order.
func (cc *ChainCollection) Immediate() []chain { return cc.immediate }

// Ordinary returns the hash-sorted suffix.
func (cc *ChainCollection) Ordinary() []chain { return cc.ordinary }

// validate reports whether the ordinary segment is still sorted ascending
// by identity — used by tests to check the chain ordering invariant holds
// after arbitrary insert/remove sequences.
func (cc *ChainCollection) validate() bool {
	for i := 1; i < len(cc.ordinary); i++ {
		if cc.ordinary[i-1].identity() > cc.ordinary[i].identity() {
			return false
		}
	}
	return true
}

// sweep drops chains whose property died (host disposed) or that have sat
// empty for more than one cycle. Called once per frame from Manager.Update.
func (cc *ChainCollection) sweep() {
	cc.immediate = sweepSegment(cc.immediate)
	cc.ordinary = sweepSegment(cc.ordinary)
}

func sweepSegment(segment []chain) []chain {
	n := 0
	for _, c := range segment {
		if !c.propertyAlive() {
			continue
		}
		if c.markEmptyObserved() {
			continue
		}
		segment[n] = c
		n++
	}
	return segment[:n]
}

// findOrCreateChain resolves the chain already targeting ref, creating one
// in its correct position if none exists yet.
func findOrCreateChain[T any](cc *ChainCollection, ref PropertyRef[T], traits Traits[T]) *compositionChain[T] {
	prop, _ := ref.resolve()
	immediate := prop != nil && isImmediate(prop)
	if c, _, found := cc.find(ref.identity(), immediate); found {
		return c.(*compositionChain[T])
	}
	nc := newCompositionChain(ref, traits)
	cc.insert(nc)
	return nc
}
