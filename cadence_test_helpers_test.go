package cadence

import "time"

// scalarProperty is a minimal AnimatableProperty[float64] used across this
// package's tests, mirroring the host-side property a real integration
// (e.g. cadence/numeric + a node field) would supply.
type scalarProperty struct {
	base     float64
	hasBase  bool
	animated float64
	isAnim   bool
}

func newScalarProperty(base float64) *scalarProperty {
	return &scalarProperty{base: base, hasBase: true}
}

func (p *scalarProperty) HasBaseValue() bool          { return p.hasBase }
func (p *scalarProperty) BaseValue() float64          { return p.base }
func (p *scalarProperty) SetAnimationValue(v float64) { p.animated = v }
func (p *scalarProperty) SetIsAnimated(animated bool) { p.isAnim = animated }

// weightProperty is an ImmediateProperty-marked float64 property, used to
// drive another instance's weight (spec.md §8 scenario S3). Unlike an
// ordinary property, its BaseValue shares the same cell SetAnimationValue
// writes: a weight property has no "rest value" distinct from whatever it is
// currently set to, so its post-update value is exactly what
// Controller.SetWeightSource reads back later in the same frame.
type weightProperty struct {
	scalarProperty
	ImmediateMarker
}

func (p *weightProperty) BaseValue() float64 { return p.animated }

// float64Traits is a minimal Traits[float64] for tests that don't need the
// numeric subpackage's richer behavior.
type float64Traits struct{}

func (float64Traits) Identity() float64                     { return 0 }
func (float64Traits) Copy(src float64) float64               { return src }
func (float64Traits) Interpolate(a, b float64, w float32) float64 {
	return a + (b-a)*float64(w)
}
func (float64Traits) Add(a, b float64) float64       { return a + b }
func (float64Traits) Invert(a float64) float64       { return -a }
func (float64Traits) Multiply(a float64, k int32) float64 { return a * float64(k) }

// constAnim is a fixed-duration Animation[float64] that linearly ramps from
// From to To, used across this package's tests in place of cadence/tween so
// the core tests don't depend on the tween subpackage. When FromSource is
// set, the ramp starts at whatever defaultSource Evaluate is called with
// (the chain's composed value, or a frozen snapshot) instead of From, for
// tests that exercise a handoff's first-stage source.
type constAnim struct {
	From, To   float64
	Duration   time.Duration
	Fill       FillBehavior
	Additive   bool
	FromSource bool
}

func (a *constAnim) TotalDuration() time.Duration      { return a.Duration }
func (a *constAnim) FillBehavior() FillBehavior         { return a.Fill }
func (a *constAnim) TargetObjectName() string           { return "" }
func (a *constAnim) TargetPropertyName() string         { return "" }
func (a *constAnim) Traits() Traits[float64]            { return float64Traits{} }
func (a *constAnim) IsAdditive() bool                   { return a.Additive }
func (a *constAnim) CreateInstance(mgr *Manager) Instance {
	return NewInstance[float64](a)
}

func (a *constAnim) Evaluate(localTime time.Duration, defaultSource, defaultTarget float64) float64 {
	from := a.From
	if a.FromSource {
		from = defaultSource
	}
	d := a.Duration.Seconds()
	if d <= 0 {
		return a.To
	}
	t := localTime.Seconds()
	if t > d {
		t = d
	}
	if t < 0 {
		t = 0
	}
	frac := t / d
	return from + (a.To-from)*frac
}
