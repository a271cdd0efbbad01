// Package geom provides the float32 vector, plane and bounding-box algebra
// shared by every brush builder. Coordinates are right-handed with Z up.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// lerpEpsilon snaps interpolation parameters that are within this distance
// of 0 or 1 to the exact endpoint.
const lerpEpsilon = 1e-4

// Vec3 is a point or direction in map space.
type Vec3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Vec2 is a point on a plane, used for XY centers.
type Vec2 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("%g %g %g", v.X, v.Y, v.Z)
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Mul scales v by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div divides every component of v by s.
func (v Vec3) Div(s float32) Vec3 {
	return Vec3{v.X / s, v.Y / s, v.Z / s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Cross returns the right-handed cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Magnitude returns the euclidean length of v.
func (v Vec3) Magnitude() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. A zero vector yields NaN
// components; callers that can see one must check with HasNaN.
func (v Vec3) Normalize() Vec3 {
	return v.Div(v.Magnitude())
}

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)}
}

// Round rounds every component half away from zero. Components that round
// to zero come out as +0, never -0.
func (v Vec3) Round() Vec3 {
	return Vec3{round(v.X), round(v.Y), round(v.Z)}
}

func round(f float32) float32 {
	r := math32.Round(f)
	if r == 0 {
		return 0
	}
	return r
}

// RoundIf rounds v unless allowFrac is set.
func (v Vec3) RoundIf(allowFrac bool) Vec3 {
	if allowFrac {
		return v
	}
	return v.Round()
}

// HasNaN reports whether any component is NaN.
func (v Vec3) HasNaN() bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsAxisAligned reports whether at least two components are exactly zero,
// so the vector lies on a single axis or is the origin.
func (v Vec3) IsAxisAligned() bool {
	zeros := 0
	if v.X == 0 {
		zeros++
	}
	if v.Y == 0 {
		zeros++
	}
	if v.Z == 0 {
		zeros++
	}
	return zeros >= 2
}

// GreatestAxis returns the axis holding the largest component. Ties go to
// Z, then Y. NaN components never compare greater, so they lose to
// whichever axis the comparison falls through to.
func (v Vec3) GreatestAxis() Axis {
	if v.X > v.Y {
		if v.X > v.Z {
			return AxisX
		}
		return AxisZ
	}
	if v.Y > v.Z {
		return AxisY
	}
	return AxisZ
}

// Component returns the value of v along a.
func (v Vec3) Component(a Axis) float32 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Lerp interpolates every component between v (t=0) and o (t=1).
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		X: Lerp(v.X, o.X, t),
		Y: Lerp(v.Y, o.Y, t),
		Z: Lerp(v.Z, o.Z, t),
	}
}

// DirAndDist returns the unit direction from v towards o and the distance
// between them. When the points coincide the direction is the zero vector
// instead of NaN.
func (v Vec3) DirAndDist(o Vec3) (Vec3, float32) {
	d := o.Sub(v)
	dist := d.Magnitude()
	dir := d.Normalize()
	if dir.HasNaN() {
		dir = Vec3{}
	}
	return dir, dist
}

// Lerp returns a when t is within 1e-4 of 0 (or below it), b when t is
// within 1e-4 of 1, and the linear blend (1-t)a + tb otherwise.
func Lerp(a, b, t float32) float32 {
	if t < lerpEpsilon {
		return a
	}
	if math32.Abs(t-1) < lerpEpsilon {
		return b
	}
	return (1-t)*a + t*b
}

// Axis names one of the three cardinal axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}
