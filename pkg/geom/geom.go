// Package geom provides the small vector and bounding-box math used by
// the slicing pipeline. Everything here is value-typed and allocation-free.
package geom

import "math"

// Axis identifies one of the three world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Axes lists the three axes in canonical order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Component returns the coordinate on the given axis.
func (v Vec3) Component(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

// WithComponent returns a copy of v with the given axis coordinate replaced.
func (v Vec3) WithComponent(a Axis, f float64) Vec3 {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	case AxisZ:
		v.Z = f
	}
	return v
}

// Min returns the componentwise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the componentwise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Plane is an axis-aligned cutting plane: the set of points whose
// coordinate on Axis equals Offset. The positive side is toward +Axis.
type Plane struct {
	Axis   Axis
	Offset float64
}

// Side returns the signed distance from p to the plane. Negative values
// are below the plane (toward -Axis), positive above.
func (pl Plane) Side(p Vec3) float64 {
	return p.Component(pl.Axis) - pl.Offset
}

// BoundingBox is an axis-aligned box given by its min and max corners.
type BoundingBox struct {
	Min, Max Vec3
}

// NewBoundingBox returns an empty box ready to be extended: its min corner
// is at +inf and its max corner at -inf, so the first Extend sets both.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Extend grows the box to include the point p.
func (b *BoundingBox) Extend(p Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Size returns the extent of the box on each axis.
func (b BoundingBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the box.
func (b BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent returns the box size on a single axis.
func (b BoundingBox) Extent(a Axis) float64 {
	return b.Max.Component(a) - b.Min.Component(a)
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
