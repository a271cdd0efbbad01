package shape

import (
	"errors"
	"fmt"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/texture"
	"github.com/chewxy/math32"
)

// ErrEmptyBounds is returned by builders that need a box with volume.
var ErrEmptyBounds = errors.New("shape: bounds have no volume")

// ProjectCubeToSphere maps a point on the surface of the cube [-1,1]^3 onto
// the unit sphere. The mapping spreads points more evenly than normalizing.
func ProjectCubeToSphere(p geom.Vec3) geom.Vec3 {
	x2, y2, z2 := p.X*p.X, p.Y*p.Y, p.Z*p.Z
	return geom.Vec3{
		X: p.X * math32.Sqrt(1-y2/2-z2/2+y2*z2/3),
		Y: p.Y * math32.Sqrt(1-z2/2-x2/2+z2*x2/3),
		Z: p.Z * math32.Sqrt(1-x2/2-y2/2+x2*y2/3),
	}
}

// Sphere builds a cube over bounds and displaces every face onto the
// ellipsoid inscribed in bounds. power sets the grid density of each face
// and is clamped to [brush.MinPower, brush.MaxPower].
func Sphere(b geom.Bounds, power int, m texture.Material, opts brush.Options, sink diag.Sink) (brush.Solid, error) {
	if b.IsEmpty() {
		return brush.Solid{}, fmt.Errorf("sphere %s: %w", b, ErrEmptyBounds)
	}
	power = brush.ClampPower(power, sink)

	solid := CubeOf(b, m, opts)
	zeroed := 0
	for i := range solid.Sides {
		side := &solid.Sides[i]
		disp := brush.NewDisplacement(side.Plane, power, nil)
		zeroed += ProjectToSphere(b, &disp)
		side.Disp = &disp
	}
	if zeroed > 0 {
		diag.Reportf(sink, "sphere", "NaN", "0 0 0",
			"%d zero-length offsets given a zero direction", zeroed)
	}
	return solid, nil
}

// ProjectToSphere fills d's normals and distances so each grid vertex moves
// from its flat position onto the ellipsoid inscribed in b. Points are
// mapped through the unit cube of b, not the face plane. It returns the
// number of vertices that did not move, whose direction is set to zero.
func ProjectToSphere(b geom.Bounds, d *brush.Displacement) int {
	zeroed := 0
	for i, p := range d.IdealPoints() {
		target := b.FromUnit(ProjectCubeToSphere(b.ToUnit(p)))
		dir, dist := p.DirAndDist(target)
		if dir.IsZero() {
			zeroed++
		}
		d.Normals[i] = dir
		d.Distances[i] = dist
		d.Alphas[i] = 0
	}
	return zeroed
}
