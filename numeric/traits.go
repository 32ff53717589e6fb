// Package numeric provides cadence.Traits implementations for the value
// types most hosts animate: plain floats, 2D vectors, and RGBA colors.
package numeric

import "github.com/phanxgames/cadence"

// Float64 implements cadence.Traits[float64].
type Float64 struct{}

func (Float64) Identity() float64                    { return 0 }
func (Float64) Copy(src float64) float64             { return src }
func (Float64) Interpolate(a, b float64, w float32) float64 {
	return a + (b-a)*float64(w)
}
func (Float64) Add(a, b float64) float64    { return a + b }
func (Float64) Invert(a float64) float64    { return -a }
func (Float64) Multiply(a float64, k int32) float64 { return a * float64(k) }
func (Float64) IsIdentity(a float64) bool   { return a == 0 }

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions.
type Vec2 struct {
	X, Y float64
}

// Vec2Traits implements cadence.Traits[Vec2].
type Vec2Traits struct{}

func (Vec2Traits) Identity() Vec2 { return Vec2{} }
func (Vec2Traits) Copy(src Vec2) Vec2 { return src }
func (Vec2Traits) Interpolate(a, b Vec2, w float32) Vec2 {
	fw := float64(w)
	return Vec2{X: a.X + (b.X-a.X)*fw, Y: a.Y + (b.Y-a.Y)*fw}
}
func (Vec2Traits) Add(a, b Vec2) Vec2    { return Vec2{X: a.X + b.X, Y: a.Y + b.Y} }
func (Vec2Traits) Invert(a Vec2) Vec2    { return Vec2{X: -a.X, Y: -a.Y} }
func (Vec2Traits) Multiply(a Vec2, k int32) Vec2 {
	return Vec2{X: a.X * float64(k), Y: a.Y * float64(k)}
}
func (Vec2Traits) IsIdentity(a Vec2) bool { return a == (Vec2{}) }

// Color is an RGBA color with components in [0, 1], not premultiplied.
type Color struct {
	R, G, B, A float64
}

// White is the neutral tint (no color modification) for a multiplicative
// tint. It is not ColorTraits' additive identity, which is the zero color.
var White = Color{1, 1, 1, 1}

// ColorTraits implements cadence.Traits[Color]. Its additive group identity
// is the zero color (fully transparent black), matching how additive color
// animations (e.g. a flash or tint pulse) are normally authored; absolute
// color animations should specify White explicitly as their rest value via
// the host property's BaseValue, not rely on this Identity.
type ColorTraits struct{}

func (ColorTraits) Identity() Color { return Color{} }
func (ColorTraits) Copy(src Color) Color { return src }
func (ColorTraits) Interpolate(a, b Color, w float32) Color {
	fw := float64(w)
	return Color{
		R: a.R + (b.R-a.R)*fw,
		G: a.G + (b.G-a.G)*fw,
		B: a.B + (b.B-a.B)*fw,
		A: a.A + (b.A-a.A)*fw,
	}
}
func (ColorTraits) Add(a, b Color) Color {
	return Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B, A: a.A + b.A}
}
func (ColorTraits) Invert(a Color) Color {
	return Color{R: -a.R, G: -a.G, B: -a.B, A: -a.A}
}
func (ColorTraits) Multiply(a Color, k int32) Color {
	f := float64(k)
	return Color{R: a.R * f, G: a.G * f, B: a.B * f, A: a.A * f}
}
func (ColorTraits) IsIdentity(a Color) bool { return a == (Color{}) }

var (
	_ cadence.Traits[float64] = Float64{}
	_ cadence.Traits[Vec2]    = Vec2Traits{}
	_ cadence.Traits[Color]   = ColorTraits{}
)
