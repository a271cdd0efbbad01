package geom

import "fmt"

// Corner names one of the eight vertices of a Bounds. The numeric order is
// the order Verts returns them in and must stay stable: shape builders
// address faces through these names.
type Corner int

const (
	SouthWestBottom Corner = iota // min
	NorthWestBottom               // max y
	NorthEastBottom               // max x, y
	SouthEastBottom               // max x
	SouthWestTop                  // max z
	NorthWestTop                  // max y, z
	NorthEastTop                  // max
	SouthEastTop                  // max x, z
)

var cornerNames = [...]string{"swb", "nwb", "neb", "seb", "swt", "nwt", "net", "set"}

func (c Corner) String() string {
	if c < 0 || int(c) >= len(cornerNames) {
		return fmt.Sprintf("Corner(%d)", int(c))
	}
	return cornerNames[c]
}

// Bounds is an axis-aligned box. Min is less than or equal to Max on
// every axis when built through NewBounds.
type Bounds struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// NewBounds builds a box from any two opposite corners.
func NewBounds(p1, p2 Vec3) Bounds {
	return Bounds{
		Min: Vec3{min(p1.X, p2.X), min(p1.Y, p2.Y), min(p1.Z, p2.Z)},
		Max: Vec3{max(p1.X, p2.X), max(p1.Y, p2.Y), max(p1.Z, p2.Z)},
	}
}

// Vertex returns the named corner.
func (b Bounds) Vertex(c Corner) Vec3 {
	switch c {
	case SouthWestBottom:
		return b.Min
	case NorthWestBottom:
		return Vec3{b.Min.X, b.Max.Y, b.Min.Z}
	case NorthEastBottom:
		return Vec3{b.Max.X, b.Max.Y, b.Min.Z}
	case SouthEastBottom:
		return Vec3{b.Max.X, b.Min.Y, b.Min.Z}
	case SouthWestTop:
		return Vec3{b.Min.X, b.Min.Y, b.Max.Z}
	case NorthWestTop:
		return Vec3{b.Min.X, b.Max.Y, b.Max.Z}
	case NorthEastTop:
		return b.Max
	case SouthEastTop:
		return Vec3{b.Max.X, b.Min.Y, b.Max.Z}
	}
	panic(fmt.Sprintf("geom: invalid corner %d", int(c)))
}

// Verts returns all eight corners indexed by Corner.
func (b Bounds) Verts() [8]Vec3 {
	var vs [8]Vec3
	for c := SouthWestBottom; c <= SouthEastTop; c++ {
		vs[c] = b.Vertex(c)
	}
	return vs
}

// Face returns the plane through three corners of b.
func (b Bounds) Face(bl, tl, tr Corner) Plane {
	return NewPlane(b.Vertex(bl), b.Vertex(tl), b.Vertex(tr))
}

// TopPlane faces +Z.
func (b Bounds) TopPlane() Plane {
	return b.Face(NorthWestTop, NorthEastTop, SouthEastTop)
}

// BottomPlane faces -Z.
func (b Bounds) BottomPlane() Plane {
	return b.Face(NorthEastBottom, NorthWestBottom, SouthWestBottom)
}

// Planes returns the six outward-facing planes in the order top, bottom,
// west, east, south, north (normals +Z, -Z, -X, +X, -Y, +Y).
func (b Bounds) Planes() [6]Plane {
	return [6]Plane{
		b.Face(SouthWestTop, NorthWestTop, NorthEastTop),
		b.Face(NorthEastBottom, NorthWestBottom, SouthWestBottom),
		b.Face(NorthWestBottom, NorthWestTop, SouthWestTop),
		b.Face(SouthEastBottom, SouthEastTop, NorthEastTop),
		b.Face(SouthWestBottom, SouthWestTop, SouthEastTop),
		b.Face(NorthEastBottom, NorthEastTop, NorthWestTop),
	}
}

// XLen is the extent along X.
func (b Bounds) XLen() float32 { return b.Max.X - b.Min.X }

// YLen is the extent along Y.
func (b Bounds) YLen() float32 { return b.Max.Y - b.Min.Y }

// ZLen is the extent along Z.
func (b Bounds) ZLen() float32 { return b.Max.Z - b.Min.Z }

// Size returns the extents as a vector.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// CenterXY returns the midpoint projected onto the XY plane.
func (b Bounds) CenterXY() Vec2 {
	c := b.Center()
	return Vec2{c.X, c.Y}
}

// TopCenter returns the center of the top face.
func (b Bounds) TopCenter() Vec3 {
	c := b.Center()
	c.Z = b.Max.Z
	return c
}

// BottomCenter returns the center of the bottom face.
func (b Bounds) BottomCenter() Vec3 {
	c := b.Center()
	c.Z = b.Min.Z
	return c
}

// Translate returns b moved by d.
func (b Bounds) Translate(d Vec3) Bounds {
	return Bounds{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// IsEmpty reports whether b has no volume.
func (b Bounds) IsEmpty() bool {
	return b.XLen() <= 0 || b.YLen() <= 0 || b.ZLen() <= 0
}

// ToUnit maps p from b into the cube [-1,1]^3. b must have volume.
func (b Bounds) ToUnit(p Vec3) Vec3 {
	return Vec3{
		X: toUnit(b.Min.X, b.Max.X, p.X),
		Y: toUnit(b.Min.Y, b.Max.Y, p.Y),
		Z: toUnit(b.Min.Z, b.Max.Z, p.Z),
	}
}

// FromUnit maps u from the cube [-1,1]^3 back into b. Points on the cube
// surface land exactly on the bounds faces.
func (b Bounds) FromUnit(u Vec3) Vec3 {
	return Vec3{
		X: Lerp(b.Min.X, b.Max.X, (u.X+1)/2),
		Y: Lerp(b.Min.Y, b.Max.Y, (u.Y+1)/2),
		Z: Lerp(b.Min.Z, b.Max.Z, (u.Z+1)/2),
	}
}

func toUnit(lo, hi, v float32) float32 {
	return (v-lo)/(hi-lo)*2 - 1
}

// Collides reports whether b and o overlap with positive volume. Boxes that
// only share a face, edge or corner do not collide.
func (b Bounds) Collides(o Bounds) bool {
	return IntervalsOverlap(b.Min.X, b.Max.X, o.Min.X, o.Max.X) &&
		IntervalsOverlap(b.Min.Y, b.Max.Y, o.Min.Y, o.Max.Y) &&
		IntervalsOverlap(b.Min.Z, b.Max.Z, o.Min.Z, o.Max.Z)
}

// IntervalsOverlap reports whether [a1,a2] and [b1,b2] share more than an
// endpoint.
func IntervalsOverlap(a1, a2, b1, b2 float32) bool {
	return a2 > b1 && a1 < b2
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%s] -> [%s]", b.Min, b.Max)
}
