// Package generate walks a design graph and builds the brushes it describes.
// One Brush is produced per solid; a sphere globe or a room yields several.
package generate

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/shape"
	"github.com/chazu/brushgen/pkg/texture"
)

// Brush is one generated solid and the node it came from.
type Brush struct {
	Name  string       `json:"name"`
	Node  graph.NodeID `json:"node"`
	Solid brush.Solid  `json:"solid"`
}

// transformStack accumulates translations during graph traversal.
type transformStack struct {
	translations []geom.Vec3
}

func (ts *transformStack) push(v geom.Vec3) {
	ts.translations = append(ts.translations, v)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
}

// offset returns the sum of all translations on the stack.
func (ts *transformStack) offset() geom.Vec3 {
	var sum geom.Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// Generate walks g from its roots and builds every shape and room it
// reaches. A node reached along two paths is built twice. Clamps are
// reported to sink, which may be nil. Generate never mutates the graph.
func Generate(g *graph.DesignGraph, sink diag.Sink) ([]Brush, error) {
	if g == nil {
		return nil, nil
	}

	var out []Brush
	ts := &transformStack{}
	onPath := make(map[graph.NodeID]bool)

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, root, ts, onPath, sink)
		if err != nil {
			return nil, fmt.Errorf("generate: root %s: %w", root.Label(), err)
		}
		out = append(out, collected...)
	}
	return out, nil
}

func walkNode(g *graph.DesignGraph, n *graph.Node, ts *transformStack, onPath map[graph.NodeID]bool, sink diag.Sink) ([]Brush, error) {
	if onPath[n.ID] {
		return nil, fmt.Errorf("node %s is part of a cycle", n.Label())
	}
	onPath[n.ID] = true
	defer delete(onPath, n.ID)

	switch n.Kind {
	case graph.NodeShape:
		return handleShape(g, n, ts, sink)

	case graph.NodeRoom:
		return handleRoom(g, n, ts)

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.Label(), n.Data)
		}
		ts.push(td.Offset())
		defer ts.pop()
		return walkChildren(g, n, ts, onPath, sink)

	case graph.NodeGroup:
		return walkChildren(g, n, ts, onPath, sink)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func walkChildren(g *graph.DesignGraph, n *graph.Node, ts *transformStack, onPath map[graph.NodeID]bool, sink diag.Sink) ([]Brush, error) {
	var out []Brush
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, child, ts, onPath, sink)
		if err != nil {
			return nil, err
		}
		out = append(out, collected...)
	}
	return out, nil
}

// handleShape builds a shape node in its local frame and moves the result
// by the accumulated translation.
func handleShape(g *graph.DesignGraph, n *graph.Node, ts *transformStack, sink diag.Sink) ([]Brush, error) {
	sd, ok := n.Data.(graph.ShapeData)
	if !ok {
		return nil, fmt.Errorf("shape node %s has unexpected data type %T", n.Label(), n.Data)
	}

	solids, err := Build(sd, g.Defaults, sink)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", n.Label(), err)
	}
	return named(n, solids, ts.offset()), nil
}

// handleRoom builds the six walls of a room node.
func handleRoom(g *graph.DesignGraph, n *graph.Node, ts *transformStack) ([]Brush, error) {
	rd, ok := n.Data.(graph.RoomData)
	if !ok {
		return nil, fmt.Errorf("room node %s has unexpected data type %T", n.Label(), n.Data)
	}
	m := rd.Material
	if m.Path == "" {
		m = g.Defaults.Material
	}
	walls, err := Room(rd.Bounds, rd.WallThickness(), m, g.Defaults.Options)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", n.Label(), err)
	}
	return named(n, walls, ts.offset()), nil
}

// named wraps solids as brushes, suffixing an index when there is more
// than one.
func named(n *graph.Node, solids []brush.Solid, offset geom.Vec3) []Brush {
	out := make([]Brush, len(solids))
	for i, s := range solids {
		name := n.Label()
		if len(solids) > 1 {
			name = fmt.Sprintf("%s.%d", name, i)
		}
		if !offset.IsZero() {
			s.Translate(offset)
		}
		out[i] = Brush{Name: name, Node: n.ID, Solid: s}
	}
	return out
}

// ---------------------------------------------------------------------------
// Shape dispatch
// ---------------------------------------------------------------------------

// Build runs the builder for sd, filling unset fields from defaults.
func Build(sd graph.ShapeData, defaults graph.GlobalDefaults, sink diag.Sink) ([]brush.Solid, error) {
	opts := defaults.Options
	if sd.Options != nil {
		opts = *sd.Options
	}
	sides := sd.Sides
	if sides == 0 {
		sides = defaults.Sides
	}
	power := sd.Power
	if power == 0 {
		power = defaults.Power
	}
	mats := padMaterials(sd.Materials, sd.Kind.MaterialCount(), defaults.Material)

	one := func(s brush.Solid, err error) ([]brush.Solid, error) {
		if err != nil {
			return nil, err
		}
		return []brush.Solid{s}, nil
	}

	switch sd.Kind {
	case graph.ShapeCube:
		return []brush.Solid{shape.Cube(sd.Bounds, [6]texture.Material(mats), opts)}, nil
	case graph.ShapeWedge:
		return []brush.Solid{shape.Wedge(sd.Bounds, [5]texture.Material(mats), opts)}, nil
	case graph.ShapeSpike:
		return one(shape.Spike(sd.Bounds, sides, [2]texture.Material(mats), opts, sink))
	case graph.ShapeCylinder:
		return one(shape.Cylinder(sd.Bounds, sides, [3]texture.Material(mats), opts, sink))
	case graph.ShapeFrustum:
		scale := sd.TopScale
		if scale == 0 {
			scale = 0.5
		}
		return one(shape.Frustum(sd.Bounds, sides, scale, [3]texture.Material(mats), opts, sink))
	case graph.ShapeSphereGlobe:
		return shape.SphereGlobe(sd.Bounds, sides, [3]texture.Material(mats), opts, sink)
	case graph.ShapeSphere:
		return one(shape.Sphere(sd.Bounds, power, mats[0], opts, sink))
	case graph.ShapePrism:
		return one(buildPrism(sd, sides, [3]texture.Material(mats), opts, sink))
	default:
		return nil, fmt.Errorf("unknown shape kind %v", sd.Kind)
	}
}

func buildPrism(sd graph.ShapeData, sides int, mats [3]texture.Material, opts brush.Options, sink diag.Sink) (brush.Solid, error) {
	if sd.Top == nil || sd.Bottom == nil {
		return brush.Solid{}, fmt.Errorf("prism needs both a top and a bottom ring")
	}
	top, err := shape.EllipseRing(sd.Top.Center, sd.Top.XRadius, sd.Top.YRadius, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("top ring: %w", err)
	}
	bottom, err := shape.EllipseRing(sd.Bottom.Center, sd.Bottom.XRadius, sd.Bottom.YRadius, sides, opts, sink)
	if err != nil {
		return brush.Solid{}, fmt.Errorf("bottom ring: %w", err)
	}
	faces, err := shape.Prism(top, bottom, sd.PreferTop, mats, opts, sink)
	if err != nil {
		return brush.Solid{}, err
	}
	return brush.NewSolid(faces), nil
}

// padMaterials returns exactly n materials: mats truncated, or padded with
// its last entry, or with fallback when mats is empty.
func padMaterials(mats []texture.Material, n int, fallback texture.Material) []texture.Material {
	out := make([]texture.Material, n)
	last := fallback
	for i := range out {
		if i < len(mats) {
			last = mats[i]
			if last.Path == "" {
				last = fallback
			}
		}
		out[i] = last
	}
	return out
}
