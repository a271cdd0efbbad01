// Package shape builds brush solids: the ellipse sampler, the prism
// generator that covers cones, cylinders and frustums, the fixed box shapes
// and the displaced sphere.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chewxy/math32"
)

var (
	// ErrZeroRadius is returned when an ellipse has no extent on either axis.
	ErrZeroRadius = errors.New("shape: ellipse has zero radius")
	// ErrRingTooShort is returned when a prism ring has fewer than three points.
	ErrRingTooShort = errors.New("shape: ring has fewer than 3 points")
	// ErrDegeneratePrism is returned when both prism rings are single points.
	ErrDegeneratePrism = errors.New("shape: both prism rings are single points")
	// ErrUnboundedPrism is returned when neither prism ring is finite.
	ErrUnboundedPrism = errors.New("shape: neither prism ring is finite")
)

const (
	// MinSides is the smallest side count of any sampled ring.
	MinSides = 3
	// MaxPromotedSides caps the side count FracPromote can raise a ring to.
	MaxPromotedSides = 1024
)

// clampSides applies the side-count policy for an ellipse of the given
// minimum radius. Rounded ellipses with FracPromote are raised to radius/2
// sides, at most MaxPromotedSides, when that is more than requested;
// anything below MinSides becomes MinSides.
func clampSides(radius float32, sides int, opts brush.Options) int {
	promoted := 0
	if radius > 0 {
		promoted = int(min(radius, 2*MaxPromotedSides)) / 2
	}
	if !opts.AllowFrac && opts.FracPromote && promoted > sides {
		sides = promoted
	}
	if sides < MinSides {
		sides = MinSides
	}
	return sides
}

// EllipseVerts samples sides points around an ellipse lying in the XY plane
// at center.Z. Points run clockwise viewed from above, starting one step
// past west and ending on west. Angles are computed in float64.
// Points are rounded to integers unless opts.AllowFrac is set.
//
// One zero radius is accepted and yields a flat line of points, which is how
// clamshell prisms are drawn. Both radii zero, a negative radius or NaN is
// ErrZeroRadius.
func EllipseVerts(center geom.Vec3, xRadius, yRadius float32, sides int, opts brush.Options, sink diag.Sink) (Points, error) {
	if math32.IsNaN(xRadius) || math32.IsNaN(yRadius) || xRadius < 0 || yRadius < 0 ||
		(xRadius == 0 && yRadius == 0) {
		return nil, fmt.Errorf("%w (x:%g, y:%g)", ErrZeroRadius, xRadius, yRadius)
	}

	n := clampSides(min(xRadius, yRadius), sides, opts)
	if n != sides {
		diag.Reportf(sink, "ellipse", sides, n,
			"sides clamped, too small or too many sides for ellipse (x:%.1f, y:%.1f)", xRadius, yRadius)
	}

	delta := 2 * math.Pi / float64(n)
	cx, cy := float64(center.X), float64(center.Y)
	xr, yr := float64(xRadius), float64(yRadius)

	pts := make(Points, n)
	for i := range pts {
		a := delta * float64(i+1)
		p := geom.V3(
			float32(cx-xr*math.Cos(a)),
			float32(cy+yr*math.Sin(a)),
			center.Z,
		)
		pts[i] = p.RoundIf(opts.AllowFrac)
	}
	return pts, nil
}

// EllipseRing samples an ellipse, collapsing to a single repeated point
// when both radii are zero.
func EllipseRing(center geom.Vec3, xRadius, yRadius float32, sides int, opts brush.Options, sink diag.Sink) (Ring, error) {
	if xRadius == 0 && yRadius == 0 {
		return RepeatPoint(center.RoundIf(opts.AllowFrac)), nil
	}
	return EllipseVerts(center, xRadius, yRadius, sides, opts, sink)
}
