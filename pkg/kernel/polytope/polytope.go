// Package polytope implements kernel.Kernel by clipping each brush to its
// exact convex polyhedron. Faces come out as flat polygons, one per brush
// side, with no sampling error. Union keeps parts side by side; there are
// no booleans.
package polytope

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Solid = (*solid)(nil)

// Epsilon is the distance within which a point counts as on a plane.
const Epsilon = 1e-3

var (
	// ErrOpenBrush is returned for brushes with too few faces to enclose space.
	ErrOpenBrush = errors.New("polytope: brush needs at least 4 faces")
	// ErrEmptyBrush is returned when the face planes enclose no volume.
	ErrEmptyBrush = errors.New("polytope: brush planes enclose no volume")
)

func toVec(x, y, z float32) v3.Vec {
	return v3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}
}

// plane is n.p = d with n unit length and pointing out of the solid.
type plane struct {
	n v3.Vec
	d float64
}

func (p plane) dist(v v3.Vec) float64 { return p.n.Dot(v) - p.d }

// face is a convex polygon wound counterclockwise seen from outside.
type face struct {
	normal v3.Vec
	verts  []v3.Vec
}

// solid is one or more polyhedra.
type solid struct {
	faces []face
}

// BoundingBox returns the axis-aligned bounding box of every vertex.
func (s *solid) BoundingBox() (min, max [3]float64) {
	var pts v3.VecSet
	for _, f := range s.faces {
		pts = append(pts, f.verts...)
	}
	if len(pts) == 0 {
		return min, max
	}
	lo, hi := pts.Min(), pts.Max()
	return [3]float64{lo.X, lo.Y, lo.Z}, [3]float64{hi.X, hi.Y, hi.Z}
}

// Kernel is the exact brush kernel. The zero value is ready to use.
type Kernel struct{}

// New returns a polytope kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// Brush intersects the inner half-spaces of every side. Displacement
// sides contribute their flat base plane.
func (k *Kernel) Brush(b brush.Solid) (kernel.Solid, error) {
	if len(b.Sides) < 4 {
		return nil, fmt.Errorf("%w, got %d", ErrOpenBrush, len(b.Sides))
	}
	planes := make([]plane, len(b.Sides))
	for i, side := range b.Sides {
		pl, ok := sidePlane(side)
		if !ok {
			return nil, fmt.Errorf("polytope: side %d has colinear points", i)
		}
		planes[i] = pl
	}

	corners := vertices(planes)
	if len(corners) < 4 {
		return nil, ErrEmptyBrush
	}

	s := &solid{}
	for _, p := range planes {
		var on []v3.Vec
		for _, c := range corners {
			if math.Abs(p.dist(c)) <= Epsilon {
				on = append(on, c)
			}
		}
		// Redundant planes touch the solid along an edge or not at all.
		if len(on) < 3 {
			continue
		}
		s.faces = append(s.faces, face{normal: p.n, verts: wind(on, p.n)})
	}
	if len(s.faces) < 4 {
		return nil, ErrEmptyBrush
	}
	return s, nil
}

// sidePlane turns a brush side into a unit plane. ok is false when the
// side's three points are colinear.
func sidePlane(side brush.Side) (pl plane, ok bool) {
	nd := side.Plane.NormalDir()
	n := toVec(nd.X, nd.Y, nd.Z)
	if n.Length() == 0 {
		return plane{}, false
	}
	n = n.Normalize()
	p := side.Plane.BottomLeft
	return plane{n: n, d: n.Dot(toVec(p.X, p.Y, p.Z))}, true
}

// vertices returns every point where three planes meet inside all the
// others, without duplicates.
func vertices(planes []plane) []v3.Vec {
	var out []v3.Vec
	for i := 0; i < len(planes); i++ {
		for j := i + 1; j < len(planes); j++ {
			for k := j + 1; k < len(planes); k++ {
				p, ok := intersect(planes[i], planes[j], planes[k])
				if !ok || !inside(p, planes) {
					continue
				}
				dup := false
				for _, q := range out {
					if p.Equals(q, Epsilon) {
						dup = true
						break
					}
				}
				if !dup {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// intersect solves the three plane equations by Cramer's rule.
func intersect(a, b, c plane) (v3.Vec, bool) {
	bc := b.n.Cross(c.n)
	det := a.n.Dot(bc)
	if math.Abs(det) < 1e-9 {
		return v3.Vec{}, false
	}
	ca := c.n.Cross(a.n)
	ab := a.n.Cross(b.n)
	p := bc.MulScalar(a.d).Add(ca.MulScalar(b.d)).Add(ab.MulScalar(c.d)).DivScalar(det)
	return p, true
}

func inside(p v3.Vec, planes []plane) bool {
	for _, pl := range planes {
		if pl.dist(p) > Epsilon {
			return false
		}
	}
	return true
}

// wind sorts coplanar points counterclockwise around their centroid as seen
// from the side n points to.
func wind(pts []v3.Vec, n v3.Vec) []v3.Vec {
	var c v3.Vec
	for _, p := range pts {
		c = c.Add(p)
	}
	c = c.DivScalar(float64(len(pts)))

	u := pts[0].Sub(c)
	if u.Length() == 0 {
		u = pts[1].Sub(c)
	}
	u = u.Normalize()
	v := n.Cross(u)

	angle := func(p v3.Vec) float64 {
		d := p.Sub(c)
		return math.Atan2(d.Dot(v), d.Dot(u))
	}
	sorted := append([]v3.Vec(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool { return angle(sorted[i]) < angle(sorted[j]) })
	return sorted
}

// Union returns a solid holding the faces of both. Overlapping volumes are
// not merged.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	faces := make([]face, 0, len(sa.faces)+len(sb.faces))
	faces = append(faces, sa.faces...)
	faces = append(faces, sb.faces...)
	return &solid{faces: faces}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := v3.Vec{X: x, Y: y, Z: z}
	src := unwrap(s)
	out := &solid{faces: make([]face, len(src.faces))}
	for i, f := range src.faces {
		verts := make([]v3.Vec, len(f.verts))
		for j, v := range f.verts {
			verts[j] = v.Add(d)
		}
		out.faces[i] = face{normal: f.normal, verts: verts}
	}
	return out
}

// ToMesh fans each face into triangles. Vertices are not shared between
// faces, so every triangle carries its face normal.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	src := unwrap(s)
	mesh := &kernel.Mesh{}
	for _, f := range src.faces {
		base := uint32(mesh.VertexCount())
		for _, v := range f.verts {
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, float32(f.normal.X), float32(f.normal.Y), float32(f.normal.Z))
		}
		for i := 1; i+1 < len(f.verts); i++ {
			mesh.Indices = append(mesh.Indices, base, base+uint32(i), base+uint32(i+1))
		}
	}
	return mesh, nil
}

// FaceCount returns the number of polygons in s, which is the number of
// brush sides that bound its volume.
func FaceCount(s kernel.Solid) int {
	return len(unwrap(s).faces)
}
