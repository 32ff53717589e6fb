package cadence

import "time"

// clampLocalTime maps a raw accumulated local time against a timeline's
// TotalDuration and FillBehavior, returning the clamped time to evaluate at
// and the resulting state. Negative time (not yet reached the timeline's
// start) yields StateDelayed; time past TotalDuration yields StateFilling or
// StateStopped depending on fill. A non-positive total is treated as
// unbounded: any non-negative time yields StatePlaying.
func clampLocalTime(raw time.Duration, total time.Duration, fill FillBehavior) (time.Duration, InstanceState) {
	if raw < 0 {
		return raw, StateDelayed
	}
	if total <= 0 || raw < total {
		return raw, StatePlaying
	}
	if fill == FillHold {
		return total, StateFilling
	}
	return total, StateStopped
}

// scaleDuration multiplies a duration by a float speed factor. Negative
// speeds run a timeline backwards (local time decreases).
func scaleDuration(dt time.Duration, speed float32) time.Duration {
	if speed == 1 {
		return dt
	}
	return time.Duration(float64(dt) * float64(speed))
}

// cycleOffset computes the additive delta a looping additive animation
// accumulates after k full cycles, using the traits' group operations:
// k applications of Add folded via Multiply, per spec.md §3's "group
// operations used for cycle offsets".
func cycleOffset[T any](traits Traits[T], perCycleDelta T, k int32) T {
	if k == 0 {
		return traits.Identity()
	}
	return traits.Multiply(perCycleDelta, k)
}

// splitmix64 is the standard SplitMix64 finalizer mix, used only to turn a
// pointer-derived integer into a better-distributed property hash for
// ChainCollection's sorted suffix. It is a fixed public-domain bit-mixing
// formula, not a concern any library in this module's dependency graph
// solves — see DESIGN.md.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
