// Package tessellate turns generated brushes into preview meshes using a
// geometry kernel. One mesh is produced per brush.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/brushgen/pkg/generate"
	"github.com/chazu/brushgen/pkg/kernel"
)

// ErrNoBrushes is returned by Merge when there is nothing to merge.
var ErrNoBrushes = errors.New("tessellate: no brushes")

// Tessellate converts every brush to a mesh named after it. Brushes are
// read-only here.
func Tessellate(brushes []generate.Brush, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(brushes))
	for _, b := range brushes {
		solid, err := k.Brush(b.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: brush %s: %w", b.Name, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for brush %s: %w", b.Name, err)
		}
		mesh.Name = b.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Merge unions every brush into one kernel solid, for single-file export.
func Merge(brushes []generate.Brush, k kernel.Kernel) (kernel.Solid, error) {
	if len(brushes) == 0 {
		return nil, ErrNoBrushes
	}
	var out kernel.Solid
	for _, b := range brushes {
		solid, err := k.Brush(b.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: brush %s: %w", b.Name, err)
		}
		if out == nil {
			out = solid
			continue
		}
		out = k.Union(out, solid)
	}
	return out, nil
}
