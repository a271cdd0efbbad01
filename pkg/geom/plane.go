package geom

import "fmt"

// Plane is a flat face described by three points. Viewed from outside the
// solid, BottomLeft, TopLeft and TopRight sit where their names say and the
// normal points at the viewer. The points must not be colinear.
type Plane struct {
	BottomLeft Vec3 `json:"bottom_left"`
	TopLeft    Vec3 `json:"top_left"`
	TopRight   Vec3 `json:"top_right"`
}

// NewPlane builds a plane from three points without modification.
func NewPlane(bl, tl, tr Vec3) Plane {
	return Plane{BottomLeft: bl, TopLeft: tl, TopRight: tr}
}

// NewPlaneRounded builds a plane, rounding each point to integers unless
// allowFrac is set.
func NewPlaneRounded(bl, tl, tr Vec3, allowFrac bool) Plane {
	return Plane{
		BottomLeft: bl.RoundIf(allowFrac),
		TopLeft:    tl.RoundIf(allowFrac),
		TopRight:   tr.RoundIf(allowFrac),
	}
}

// BottomRight completes the parallelogram spanned by the three points.
func (p Plane) BottomRight() Vec3 {
	return p.BottomLeft.Add(p.TopRight).Sub(p.TopLeft)
}

// NormalDir returns the outward normal without normalizing it:
// (TopLeft-TopRight) x (BottomLeft-TopRight).
func (p Plane) NormalDir() Vec3 {
	a := p.TopLeft.Sub(p.TopRight)
	b := p.BottomLeft.Sub(p.TopRight)
	return a.Cross(b)
}

// Normal returns the unit outward normal.
func (p Plane) Normal() Vec3 {
	return p.NormalDir().Normalize()
}

// Translate returns the plane moved by d.
func (p Plane) Translate(d Vec3) Plane {
	return Plane{
		BottomLeft: p.BottomLeft.Add(d),
		TopLeft:    p.TopLeft.Add(d),
		TopRight:   p.TopRight.Add(d),
	}
}

// Points returns the three defining points in order.
func (p Plane) Points() [3]Vec3 {
	return [3]Vec3{p.BottomLeft, p.TopLeft, p.TopRight}
}

func (p Plane) String() string {
	return fmt.Sprintf("(%s) (%s) (%s)", p.BottomLeft, p.TopLeft, p.TopRight)
}
