package graph

import (
	"fmt"
	"strings"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/texture"
)

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// ShapeKind selects the builder a shape node is generated with.
type ShapeKind int

const (
	ShapeCube ShapeKind = iota
	ShapeWedge
	ShapeSpike
	ShapeCylinder
	ShapeFrustum
	ShapeSphereGlobe
	ShapeSphere
	ShapePrism
)

var shapeKindNames = [...]string{
	ShapeCube:        "cube",
	ShapeWedge:       "wedge",
	ShapeSpike:       "spike",
	ShapeCylinder:    "cylinder",
	ShapeFrustum:     "frustum",
	ShapeSphereGlobe: "sphere-globe",
	ShapeSphere:      "sphere",
	ShapePrism:       "prism",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return "unknown"
	}
	return shapeKindNames[k]
}

// MaterialCount is how many materials the builder for k takes.
func (k ShapeKind) MaterialCount() int {
	switch k {
	case ShapeCube:
		return 6
	case ShapeWedge:
		return 5
	case ShapeSpike:
		return 2
	case ShapeSphere:
		return 1
	default:
		return 3
	}
}

// HasSides reports whether k is built from sampled ellipses.
func (k ShapeKind) HasSides() bool {
	switch k {
	case ShapeSpike, ShapeCylinder, ShapeFrustum, ShapeSphereGlobe, ShapePrism:
		return true
	}
	return false
}

// ParseShapeKind accepts the names printed by String; "cone" and "globe"
// are aliases.
func ParseShapeKind(s string) (ShapeKind, error) {
	s = strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	switch s {
	case "cone":
		return ShapeSpike, nil
	case "globe":
		return ShapeSphereGlobe, nil
	}
	for k, name := range shapeKindNames {
		if name == s {
			return ShapeKind(k), nil
		}
	}
	return 0, fmt.Errorf("graph: unknown shape kind %q", s)
}

// Ellipse is one ring of a prism.
type Ellipse struct {
	Center  geom.Vec3 `json:"center"`
	XRadius float32   `json:"x_radius"`
	YRadius float32   `json:"y_radius"`
}

// Extent returns the box around the ellipse, flat in Z.
func (e Ellipse) Extent() geom.Bounds {
	r := geom.V3(e.XRadius, e.YRadius, 0)
	return geom.NewBounds(e.Center.Sub(r), e.Center.Add(r))
}

// ShapeData is one builder call. Fields a builder does not use are ignored.
// Zero Sides or Power means the graph default; nil Options means the graph
// default options. Materials shorter than the builder needs are padded with
// the last entry, or the graph default material when empty.
type ShapeData struct {
	Kind      ShapeKind          `json:"kind"`
	Bounds    geom.Bounds        `json:"bounds"`
	Sides     int                `json:"sides,omitempty"`
	Power     int                `json:"power,omitempty"`
	TopScale  float32            `json:"top_scale,omitempty"` // frustum
	PreferTop bool               `json:"prefer_top,omitempty"`
	Top       *Ellipse           `json:"top,omitempty"`    // prism
	Bottom    *Ellipse           `json:"bottom,omitempty"` // prism
	Materials []texture.Material `json:"materials,omitempty"`
	Options   *brush.Options     `json:"options,omitempty"`
}

func (ShapeData) nodeData() {}

// Extent returns the space the shape occupies before any transform.
func (d ShapeData) Extent() geom.Bounds {
	if d.Kind != ShapePrism || d.Top == nil || d.Bottom == nil {
		return d.Bounds
	}
	t, b := d.Top.Extent(), d.Bottom.Extent()
	return geom.NewBounds(
		geom.V3(min(t.Min.X, b.Min.X), min(t.Min.Y, b.Min.Y), min(t.Min.Z, b.Min.Z)),
		geom.V3(max(t.Max.X, b.Max.X), max(t.Max.Y, b.Max.Y), max(t.Max.Z, b.Max.Z)),
	)
}

// ---------------------------------------------------------------------------
// Room
// ---------------------------------------------------------------------------

// DefaultWallThickness is the wall thickness of rooms that do not set one.
const DefaultWallThickness = 8

// RoomData is a hollow box: six wall cubes lining the inside of Bounds.
type RoomData struct {
	Bounds    geom.Bounds      `json:"bounds"`
	Material  texture.Material `json:"material"`
	Thickness float32          `json:"thickness,omitempty"`
}

func (RoomData) nodeData() {}

// WallThickness returns Thickness or the default.
func (d RoomData) WallThickness() float32 {
	if d.Thickness <= 0 {
		return DefaultWallThickness
	}
	return d.Thickness
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData translates its children. Created by the (place ...) form.
type TransformData struct {
	Translation *geom.Vec3 `json:"translation,omitempty"`
}

func (TransformData) nodeData() {}

// Offset returns the translation or the zero vector.
func (d TransformData) Offset() geom.Vec3 {
	if d.Translation == nil {
		return geom.Vec3{}
	}
	return *d.Translation
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping. Created by the (group ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
