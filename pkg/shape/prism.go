package shape

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/texture"
)

// Prism connects two rings with side faces, covering cylinders, cones,
// frustums and oblique prisms. Sides are returned in the order top cap,
// bottom cap, walls. A ring whose first three points coincide is a single
// point (a cone apex) and gets no cap. mats are the top cap, bottom cap and
// wall materials.
//
// Both rings must run clockwise viewed from above. Caps are built from the
// first three points of each ring, so non-planar rings are flattened to
// those points. Walls pair the rings in lockstep, each point with its
// successor; rings of different lengths are truncated to the shorter one and
// the truncation is reported to sink.
//
// preferTop selects which ring contributes two points to each wall face.
// The choice changes how a map compiler reconstructs the solid. A single
// point ring always contributes one point.
func Prism(top, bottom Ring, preferTop bool, mats [3]texture.Material, opts brush.Options, sink diag.Sink) ([]brush.Side, error) {
	tp := top.Peek(3)
	if len(tp) < 3 {
		return nil, fmt.Errorf("top ring: %w", ErrRingTooShort)
	}
	bp := bottom.Peek(3)
	if len(bp) < 3 {
		return nil, fmt.Errorf("bottom ring: %w", ErrRingTooShort)
	}

	topPoint := isSinglePoint(tp)
	bottomPoint := isSinglePoint(bp)
	if topPoint && bottomPoint {
		return nil, ErrDegeneratePrism
	}

	n, err := lockstepLen(top, bottom, sink)
	if err != nil {
		return nil, err
	}

	sides := make([]brush.Side, 0, n+2)
	if !topPoint {
		sides = append(sides, brush.NewSide(tp[0], tp[1], tp[2], mats[0], opts))
	}
	if !bottomPoint {
		sides = append(sides, brush.NewSide(bp[2], bp[1], bp[0], mats[1], opts))
	}

	twoFromTop := (bottomPoint || preferTop) && !(topPoint && preferTop)
	for i := 0; i < n; i++ {
		t1, t2 := top.At(i), top.At(i+1)
		b1, b2 := bottom.At(i), bottom.At(i+1)
		if twoFromTop {
			sides = append(sides, brush.NewSide(t2, t1, b1, mats[2], opts))
		} else {
			sides = append(sides, brush.NewSide(b1, b2, t1, mats[2], opts))
		}
	}
	return sides, nil
}

// lockstepLen returns how many wall faces two rings produce.
func lockstepLen(top, bottom Ring, sink diag.Sink) (int, error) {
	tn, tFinite := top.Len()
	bn, bFinite := bottom.Len()
	switch {
	case tFinite && bFinite:
		if tn != bn {
			diag.Reportf(sink, "prism", fmt.Sprintf("%d/%d", tn, bn), min(tn, bn),
				"ring lengths differ, walls truncated to the shorter ring")
		}
		return min(tn, bn), nil
	case tFinite:
		return tn, nil
	case bFinite:
		return bn, nil
	}
	return 0, ErrUnboundedPrism
}
