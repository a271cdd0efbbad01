// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest axis of a solid.
const DefaultMeshCells = 200

// ErrOpenBrush is returned for brushes with too few faces to enclose space.
var ErrOpenBrush = errors.New("sdfx: brush needs at least 4 faces")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// halfSpaces is a convex solid: the intersection of the inside of every
// face plane. Evaluate is a bound on the distance, exact only on faces.
type halfSpaces struct {
	normals []v3.Vec
	dists   []float64
	bb      sdf.Box3
}

func (h *halfSpaces) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for i, n := range h.normals {
		d = math.Max(d, n.Dot(p)-h.dists[i])
	}
	return d
}

func (h *halfSpaces) BoundingBox() sdf.Box3 {
	return h.bb
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *SdfxKernel {
	return NewWithCells(DefaultMeshCells)
}

// NewWithCells returns a kernel meshing at the given resolution. Values
// below 1 use DefaultMeshCells.
func NewWithCells(cells int) *SdfxKernel {
	if cells < 1 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Brush builds the half-space intersection of a brush's faces. Each face
// normal points out of the solid, so a point is inside when it is behind
// every plane.
func (k *SdfxKernel) Brush(s brush.Solid) (kernel.Solid, error) {
	if len(s.Sides) < 4 {
		return nil, fmt.Errorf("%w, got %d", ErrOpenBrush, len(s.Sides))
	}
	h := &halfSpaces{
		normals: make([]v3.Vec, len(s.Sides)),
		dists:   make([]float64, len(s.Sides)),
	}
	for i, side := range s.Sides {
		nd := side.Plane.NormalDir()
		n := v3.Vec{X: float64(nd.X), Y: float64(nd.Y), Z: float64(nd.Z)}
		l := n.Length()
		if l == 0 {
			return nil, fmt.Errorf("sdfx: side %d has colinear points", i)
		}
		n = n.DivScalar(l)
		p := side.Plane.BottomLeft
		h.normals[i] = n
		h.dists[i] = n.Dot(v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)})
	}

	b := s.Bounds()
	h.bb = sdf.Box3{
		Min: v3.Vec{X: float64(b.Min.X), Y: float64(b.Min.Y), Z: float64(b.Min.Z)},
		Max: v3.Vec{X: float64(b.Max.X), Y: float64(b.Max.Y), Z: float64(b.Max.Z)},
	}
	return wrap(h), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// SaveSTL triangulates s and writes it to path as binary STL.
func (k *SdfxKernel) SaveSTL(path string, s kernel.Solid) error {
	renderer := render.NewMarchingCubesUniform(k.cells)
	if err := render.SaveSTL(path, render.ToTriangles(unwrap(s), renderer)); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
