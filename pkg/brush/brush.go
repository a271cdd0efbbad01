// Package brush defines the convex solids emitted by the shape builders:
// sides with their planes, textures and optional displacement payloads.
package brush

import (
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/texture"
)

// Options control rounding and texture alignment for a generation call.
type Options struct {
	// AllowFrac keeps fractional vertex coordinates instead of rounding
	// them to integers.
	AllowFrac bool `json:"allow_frac" yaml:"allow_frac"`
	// FracPromote raises the side count of rounded ellipses that are too
	// small for the requested count.
	FracPromote bool `json:"frac_promote" yaml:"frac_promote"`
	// WorldAlign projects textures along the nearest world axis instead of
	// following each face.
	WorldAlign bool `json:"world_align" yaml:"world_align"`
}

// DefaultOptions rounds vertices and aligns textures to faces.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) WithAllowFrac() Options   { o.AllowFrac = true; return o }
func (o Options) WithFracPromote() Options { o.FracPromote = true; return o }
func (o Options) WithWorldAlign() Options  { o.WorldAlign = true; return o }
func (o Options) WithFaceAlign() Options   { o.WorldAlign = false; return o }

// Side is one planar boundary of a solid.
type Side struct {
	Plane   geom.Plane      `json:"plane"`
	Texture texture.Texture `json:"texture"`
	Disp    *Displacement   `json:"dispinfo,omitempty"`
}

// NewSide builds a side through three points, deriving the texture
// projection from the resulting plane.
func NewSide(bl, tl, tr geom.Vec3, m texture.Material, opts Options) Side {
	return NewSideFromPlane(geom.NewPlane(bl, tl, tr), m, opts)
}

// NewSideFromPlane textures an existing plane.
func NewSideFromPlane(p geom.Plane, m texture.Material, opts Options) Side {
	return Side{
		Plane:   p,
		Texture: texture.Apply(m, p, opts.WorldAlign),
	}
}

// Translate moves the side's plane and displacement start position.
// Texture axes are left alone, so textures slide across moved faces.
func (s *Side) Translate(d geom.Vec3) {
	s.Plane = s.Plane.Translate(d)
	if s.Disp != nil {
		s.Disp.Translate(d)
	}
}

// Solid is one convex brush. Closure and convexity are not checked.
type Solid struct {
	Sides []Side `json:"sides"`
}

// NewSolid wraps sides into a solid.
func NewSolid(sides []Side) Solid {
	return Solid{Sides: sides}
}

// Translate moves every side by d.
func (s *Solid) Translate(d geom.Vec3) {
	for i := range s.Sides {
		s.Sides[i].Translate(d)
	}
}

// Translated returns a moved deep copy of s.
func (s Solid) Translated(d geom.Vec3) Solid {
	out := s.Clone()
	out.Translate(d)
	return out
}

// Clone returns a deep copy.
func (s Solid) Clone() Solid {
	sides := make([]Side, len(s.Sides))
	for i, side := range s.Sides {
		sides[i] = side
		if side.Disp != nil {
			d := side.Disp.Clone()
			sides[i].Disp = &d
		}
	}
	return Solid{Sides: sides}
}

// HasDisplacement reports whether any side carries a displacement.
func (s Solid) HasDisplacement() bool {
	for _, side := range s.Sides {
		if side.Disp != nil {
			return true
		}
	}
	return false
}

// Bounds returns the box spanned by every plane point of s.
func (s Solid) Bounds() geom.Bounds {
	if len(s.Sides) == 0 {
		return geom.Bounds{}
	}
	first := s.Sides[0].Plane.BottomLeft
	b := geom.Bounds{Min: first, Max: first}
	for _, side := range s.Sides {
		for _, p := range side.Plane.Points() {
			b = geom.NewBounds(
				geom.V3(min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)),
				geom.V3(max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)),
			)
		}
	}
	return b
}
