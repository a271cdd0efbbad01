// Package kernel defines the preview geometry kernel interface. A kernel
// turns brushes into renderable triangle meshes; the brushes themselves are
// the authoritative output and are never modified by a kernel.
package kernel

import "github.com/chazu/brushgen/pkg/brush"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the preview geometry kernel interface.
type Kernel interface {
	// Brush converts a convex brush into a kernel solid. Displaced faces
	// are previewed as their flat base plane.
	Brush(s brush.Solid) (Solid, error)

	// Union joins two solids.
	Union(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh triangulates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
