package generate

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/shape"
	"github.com/chazu/brushgen/pkg/texture"
)

// Room returns six wall cubes of the given thickness lining the inside of
// b, in the order top, bottom, front (+Y), back (-Y), right (+X) and left
// (-X). Every wall spans the full bounds on its other two axes, so walls
// meeting at an edge overlap there.
func Room(b geom.Bounds, thickness float32, m texture.Material, opts brush.Options) ([]brush.Solid, error) {
	if !(thickness > 0) {
		return nil, fmt.Errorf("wall thickness %g must be positive", thickness)
	}
	size := b.Size()
	for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		if v := size.Component(axis); v <= 2*thickness {
			return nil, fmt.Errorf("extent along %s is %.4g, must exceed twice the wall thickness %.4g", axis, v, thickness)
		}
	}

	lo, hi := b.Min, b.Max
	wall := func(min, max geom.Vec3) brush.Solid {
		return shape.CubeOf(geom.NewBounds(min, max), m, opts)
	}
	return []brush.Solid{
		wall(geom.V3(lo.X, lo.Y, hi.Z-thickness), hi),
		wall(lo, geom.V3(hi.X, hi.Y, lo.Z+thickness)),
		wall(geom.V3(lo.X, hi.Y-thickness, lo.Z), hi),
		wall(lo, geom.V3(hi.X, lo.Y+thickness, hi.Z)),
		wall(geom.V3(hi.X-thickness, lo.Y, lo.Z), hi),
		wall(lo, geom.V3(lo.X+thickness, hi.Y, hi.Z)),
	}, nil
}
