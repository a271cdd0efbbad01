package shape

import (
	"fmt"
	"math"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/texture"
	"github.com/chewxy/math32"
)

// poleEpsilon collapses sphere rings this close to a pole into a point.
const poleEpsilon = 0.25

// Cube returns the six faces of bounds in the order top, bottom, west,
// east, south, north; mats is indexed the same way.
func Cube(b geom.Bounds, mats [6]texture.Material, opts brush.Options) brush.Solid {
	planes := b.Planes()
	sides := make([]brush.Side, len(planes))
	for i, p := range planes {
		sides[i] = brush.NewSideFromPlane(p, mats[i], opts)
	}
	return brush.NewSolid(sides)
}

// CubeOf is Cube with one material on every face.
func CubeOf(b geom.Bounds, m texture.Material, opts brush.Options) brush.Solid {
	return Cube(b, [6]texture.Material{m, m, m, m, m, m}, opts)
}

// Wedge is a cube whose top and west faces are replaced by one slope
// rising from the bottom west edge to the top east edge. Faces are slope,
// bottom, north, south, east.
func Wedge(b geom.Bounds, mats [5]texture.Material, opts brush.Options) brush.Solid {
	face := func(bl, tl, tr geom.Corner, m texture.Material) brush.Side {
		return brush.NewSideFromPlane(b.Face(bl, tl, tr), m, opts)
	}
	return brush.NewSolid([]brush.Side{
		face(geom.SouthWestBottom, geom.NorthWestBottom, geom.NorthEastTop, mats[0]),
		face(geom.NorthEastBottom, geom.NorthWestBottom, geom.SouthWestBottom, mats[1]),
		face(geom.NorthEastBottom, geom.NorthEastTop, geom.NorthWestTop, mats[2]),
		face(geom.SouthWestBottom, geom.SouthWestTop, geom.SouthEastTop, mats[3]),
		face(geom.SouthEastBottom, geom.SouthEastTop, geom.NorthEastTop, mats[4]),
	})
}

// Spike is a cone from an elliptical base on the bottom of bounds to a point
// at the center of its top. mats are base and walls.
//
// Map editors handle up to 8 sides without trouble and 16 in almost all
// cases. Compilers reject brushes with more than 64 faces.
func Spike(b geom.Bounds, sides int, mats [2]texture.Material, opts brush.Options, sink diag.Sink) (brush.Solid, error) {
	base, err := EllipseVerts(b.BottomCenter(), b.XLen()/2, b.YLen()/2, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("spike: %w", err)
	}
	faces, err := Prism(RepeatPoint(b.TopCenter()), base, false, [3]texture.Material{mats[0], mats[0], mats[1]}, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("spike: %w", err)
	}
	return brush.NewSolid(faces), nil
}

// Cylinder joins two identical ellipses at the top and bottom of bounds.
// mats are top, bottom and walls. More than 32 sides is not recommended.
func Cylinder(b geom.Bounds, sides int, mats [3]texture.Material, opts brush.Options, sink diag.Sink) (brush.Solid, error) {
	xr, yr := b.XLen()/2, b.YLen()/2
	top, err := EllipseVerts(b.TopCenter(), xr, yr, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("cylinder: %w", err)
	}
	bottom, err := EllipseVerts(b.BottomCenter(), xr, yr, sides, opts, diag.Discard)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("cylinder: %w", err)
	}
	faces, err := Prism(top, bottom, false, mats, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("cylinder: %w", err)
	}
	return brush.NewSolid(faces), nil
}

// Frustum joins an ellipse on the bottom of bounds to a smaller one on top,
// scaled by topScale in (0,1]. mats are top, bottom and walls.
func Frustum(b geom.Bounds, sides int, topScale float32, mats [3]texture.Material, opts brush.Options, sink diag.Sink) (brush.Solid, error) {
	if !(topScale > 0) || topScale > 1 {
		return brush.Solid{}, fmt.Errorf("frustum: top scale %g outside (0,1]", topScale)
	}
	xr, yr := b.XLen()/2, b.YLen()/2
	top, err := EllipseVerts(b.TopCenter(), xr*topScale, yr*topScale, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("frustum: %w", err)
	}
	bottom, err := EllipseVerts(b.BottomCenter(), xr, yr, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("frustum: %w", err)
	}
	faces, err := Prism(top, bottom, false, mats, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("frustum: %w", err)
	}
	return brush.NewSolid(faces), nil
}

// SphereGlobe approximates an ellipsoid filling bounds with stacked
// frustums capped by two cones, like the latitude bands of a globe. Band
// edges are spaced by equal angles from the center, not equal heights, so
// the bands near the poles are thinner. sides is both the ring side count
// and the number of bands, less any bands that rounding flattens to zero
// height. mats are top caps, bottom caps and walls.
//
// Map editors render the pole cones badly above 8 sides.
func SphereGlobe(b geom.Bounds, sides int, mats [3]texture.Material, opts brush.Options, sink diag.Sink) ([]brush.Solid, error) {
	if sides < MinSides {
		diag.Reportf(sink, "sphere_globe", sides, MinSides, "too few sides")
		sides = MinSides
	}
	xr, yr, zr := b.XLen()/2, b.YLen()/2, b.ZLen()/2
	center := b.Center()

	heights := make([]float32, 0, sides+1)
	delta := 2 * math.Pi / float64(sides)
	for n := 0; n <= sides; n++ {
		a := delta * float64(n) / 2
		h := float32(float64(zr) * math.Cos(a))
		if !opts.AllowFrac {
			h = math32.Round(h)
		}
		// Rounding can land two edges on the same height near the poles.
		if len(heights) > 0 && heights[len(heights)-1] == h {
			continue
		}
		heights = append(heights, h)
	}

	type level struct {
		h, rx, ry float32
	}
	levels := make([]level, len(heights))
	for i, h := range heights {
		levels[i] = level{h, radiusAtHeight(xr, zr, h, opts.AllowFrac), radiusAtHeight(yr, zr, h, opts.AllowFrac)}
	}
	ring := func(l level) (Ring, error) {
		c := center
		c.Z += l.h
		return EllipseRing(c, l.rx, l.ry, sides, opts, sink)
	}
	point := func(l level) bool { return l.rx == 0 && l.ry == 0 }

	solids := make([]brush.Solid, 0, sides)
	for i := 0; i+1 < len(levels); i++ {
		if point(levels[i]) && point(levels[i+1]) {
			continue
		}
		top, err := ring(levels[i])
		if err != nil {
			return nil, fmt.Errorf("sphere_globe: band %d top: %w", i, err)
		}
		bottom, err := ring(levels[i+1])
		if err != nil {
			return nil, fmt.Errorf("sphere_globe: band %d bottom: %w", i, err)
		}
		faces, err := Prism(top, bottom, false, mats, opts, sink)
		if err != nil {
			return nil, fmt.Errorf("sphere_globe: band %d: %w", i, err)
		}
		solids = append(solids, brush.NewSolid(faces))
	}
	if len(solids) == 0 {
		return nil, fmt.Errorf("sphere_globe: %w", ErrDegeneratePrism)
	}
	if len(solids) != sides {
		diag.Reportf(sink, "sphere_globe", sides, len(solids),
			"bands merged, rounded band edges coincide (z radius %.1f)", zr)
	}
	return solids, nil
}

// radiusAtHeight returns the horizontal radius of an ellipsoid slice at h
// from its center, for an ellipsoid with horizontal radius r and vertical
// radius zr. Slices within poleEpsilon of a pole have radius zero.
func radiusAtHeight(r, zr, h float32, allowFrac bool) float32 {
	if math32.Abs(zr-math32.Abs(h)) < poleEpsilon || zr == 0 {
		return 0
	}
	t := h / zr
	out := r * math32.Sqrt(max(0, 1-t*t))
	if !allowFrac {
		out = math32.Round(out)
	}
	return out
}
