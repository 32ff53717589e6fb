// Package tween provides a concrete cadence.Animation[float64] backed by
// github.com/tanema/gween/ease's Robert Penner-style easing functions — the
// cadence equivalent of the donor engine's TweenGroup, adapted from writing
// straight into a Node's fields to producing values through the core's
// Animation[T] contract instead.
package tween

import (
	"time"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/cadence"
	"github.com/phanxgames/cadence/numeric"
)

// Float tweens a single float64 from From to To over Duration using an
// easing function from github.com/tanema/gween/ease (e.g. ease.Linear,
// ease.OutQuad, ease.InOutCubic).
//
// Evaluate must be a pure function of localTime (cadence re-evaluates every
// instance every frame rather than stepping a private clock), so Float
// calls the easing function directly against localTime instead of going
// through gween.Tween's own stateful Update/clock.
type Float struct {
	From, To float64
	Duration time.Duration
	Ease     ease.TweenFunc
	Fill     cadence.FillBehavior
}

// NewFloat builds a Float tween. A nil fn defaults to ease.Linear.
func NewFloat(from, to float64, duration time.Duration, fn ease.TweenFunc) *Float {
	if fn == nil {
		fn = ease.Linear
	}
	return &Float{From: from, To: to, Duration: duration, Ease: fn}
}

func (f *Float) TotalDuration() time.Duration      { return f.Duration }
func (f *Float) FillBehavior() cadence.FillBehavior { return f.Fill }
func (f *Float) TargetObjectName() string           { return "" }
func (f *Float) TargetPropertyName() string          { return "" }
func (f *Float) Traits() cadence.Traits[float64]     { return numeric.Float64{} }
func (f *Float) IsAdditive() bool                    { return false }

// Evaluate returns the eased value at localTime, ignoring defaultSource and
// defaultTarget since both endpoints are fixed on the tween itself.
func (f *Float) Evaluate(localTime time.Duration, defaultSource, defaultTarget float64) float64 {
	d := float32(f.Duration.Seconds())
	if d <= 0 {
		return f.To
	}
	t := float32(localTime.Seconds())
	if t > d {
		t = d
	}
	if t < 0 {
		t = 0
	}
	return float64(f.Ease(t, float32(f.From), float32(f.To-f.From), d))
}

// CreateInstance builds a fresh leaf Instance playing this tween.
func (f *Float) CreateInstance(mgr *cadence.Manager) cadence.Instance {
	return cadence.NewInstance[float64](f)
}

var _ cadence.Animation[float64] = (*Float)(nil)
