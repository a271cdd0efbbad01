package shape

import "github.com/chazu/brushgen/pkg/geom"

// Ring is an ordered, cyclic sequence of points forming one base of a
// prism. A ring may be unbounded, as with the apex of a cone, so callers
// inspect it through bounded Peek calls and index it with At.
type Ring interface {
	// Peek returns up to n leading points. Fewer than n means the ring is
	// shorter than n.
	Peek(n int) []geom.Vec3
	// Len returns the number of points and whether the ring is finite.
	// Unbounded rings report (0, false).
	Len() (int, bool)
	// At returns point i. Finite rings wrap i modulo their length.
	At(i int) geom.Vec3
}

// Points is a finite ring over a slice.
type Points []geom.Vec3

func (p Points) Peek(n int) []geom.Vec3 {
	return p[:min(n, len(p))]
}

func (p Points) Len() (int, bool) {
	return len(p), true
}

func (p Points) At(i int) geom.Vec3 {
	return p[i%len(p)]
}

// Repeat is an unbounded ring that yields the same point forever.
type Repeat struct {
	Point geom.Vec3
}

// RepeatPoint returns a ring of p repeated.
func RepeatPoint(p geom.Vec3) Repeat {
	return Repeat{Point: p}
}

func (r Repeat) Peek(n int) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = r.Point
	}
	return out
}

func (r Repeat) Len() (int, bool) {
	return 0, false
}

func (r Repeat) At(int) geom.Vec3 {
	return r.Point
}

// isSinglePoint reports whether the first three points of a ring coincide.
// pts must hold at least three points.
func isSinglePoint(pts []geom.Vec3) bool {
	return pts[0] == pts[1] && pts[1] == pts[2]
}
