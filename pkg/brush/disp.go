package brush

import (
	"math/bits"

	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/geom"
)

// Displacement power limits. Width is 2^power+1 vertices per edge.
const (
	MinPower = 1
	MaxPower = 4
)

// TriangleTag is the walkability of one displacement triangle.
type TriangleTag int32

const (
	// TagUnwalkable marks a steep slope players slide down.
	TagUnwalkable TriangleTag = 0
	// TagSteep marks a significant slope that can still be walked on.
	TagSteep TriangleTag = 1
	// TagFlat marks little or no slope.
	TagFlat TriangleTag = 9
)

// AllowedVertsLen is the number of words in the allowed-vertex mask.
const AllowedVertsLen = 10

// Displacement subdivides a side into a (2^power+1)^2 grid. Each vertex is
// offset from its ideal flat position along Normals[i] by Distances[i].
// Grids are row-major: row 0 runs from the plane's bottom-left corner to
// its bottom-right corner and the last row runs along the top edge.
type Displacement struct {
	Power     int         `json:"power"`
	Plane     geom.Plane  `json:"-"`
	Normals   []geom.Vec3 `json:"normals"`
	Distances []float32   `json:"distances"`
	Alphas    []float32   `json:"alphas"`
	Flags     int32       `json:"flags"`
	Elevation float32     `json:"elevation"`
	Subdiv    bool        `json:"subdiv"`
}

// ClampPower limits power to [MinPower, MaxPower], reporting any change.
func ClampPower(power int, sink diag.Sink) int {
	clamped := min(max(power, MinPower), MaxPower)
	if clamped != power {
		diag.Reportf(sink, "displacement", power, clamped, "power clamped to [%d,%d]", MinPower, MaxPower)
	}
	return clamped
}

// PowerToWidth returns the number of vertices along one edge.
func PowerToWidth(power int) int {
	return 1<<power + 1
}

// WidthToPower inverts PowerToWidth.
func WidthToPower(width int) int {
	switch width {
	case 3:
		return 1
	case 5:
		return 2
	case 9:
		return 3
	case 17:
		return 4
	}
	if width < 2 {
		return 0
	}
	return bits.Len(uint(width-1)) - 1
}

// NewDisplacement returns a flat displacement over p. Power is clamped.
func NewDisplacement(p geom.Plane, power int, sink diag.Sink) Displacement {
	power = ClampPower(power, sink)
	n := PowerToWidth(power) * PowerToWidth(power)
	return Displacement{
		Power:     power,
		Plane:     p,
		Normals:   make([]geom.Vec3, n),
		Distances: make([]float32, n),
		Alphas:    make([]float32, n),
	}
}

// Width is the number of vertices along one edge.
func (d *Displacement) Width() int {
	return PowerToWidth(d.Power)
}

// Len is the total number of vertices.
func (d *Displacement) Len() int {
	w := d.Width()
	return w * w
}

// Index returns the row-major index of column x in row y.
func (d *Displacement) Index(x, y int) int {
	return y*d.Width() + x
}

// Corners returns bottom-left, top-left, top-right and bottom-right.
func (d *Displacement) Corners() [4]geom.Vec3 {
	p := d.Plane
	return [4]geom.Vec3{p.BottomLeft, p.TopLeft, p.TopRight, p.BottomRight()}
}

// StartPosition is the corner the grid is anchored to.
func (d *Displacement) StartPosition() geom.Vec3 {
	return d.Plane.BottomLeft
}

// IdealPoints returns the undisplaced grid, bilinearly interpolated between
// the four corners.
func (d *Displacement) IdealPoints() []geom.Vec3 {
	c := d.Corners()
	bl, tl, tr, br := c[0], c[1], c[2], c[3]
	w := d.Width()
	span := float32(w - 1)

	points := make([]geom.Vec3, 0, w*w)
	for y := 0; y < w; y++ {
		ty := float32(y) / span
		for x := 0; x < w; x++ {
			tx := float32(x) / span
			bottom := bl.Lerp(br, tx)
			top := tl.Lerp(tr, tx)
			points = append(points, bottom.Lerp(top, ty))
		}
	}
	return points
}

// DisplacedPoints returns each ideal point moved by its offset.
func (d *Displacement) DisplacedPoints() []geom.Vec3 {
	ideal := d.IdealPoints()
	for i := range ideal {
		ideal[i] = ideal[i].Add(d.Normals[i].Mul(d.Distances[i]))
	}
	return ideal
}

// TriangleTags returns walkability tags, two triangles per grid cell:
// (width-1) rows of 2*(width-1) entries. Every triangle is unwalkable.
func (d *Displacement) TriangleTags() [][]TriangleTag {
	rows := d.Width() - 1
	cols := rows * 2
	tags := make([][]TriangleTag, rows)
	for i := range tags {
		tags[i] = make([]TriangleTag, cols)
		for j := range tags[i] {
			tags[i][j] = TagUnwalkable
		}
	}
	return tags
}

// AllowedVerts returns the allowed-vertex mask with every vertex enabled.
func (d *Displacement) AllowedVerts() [AllowedVertsLen]int32 {
	var m [AllowedVertsLen]int32
	for i := range m {
		m[i] = -1
	}
	return m
}

// Offsets returns the per-vertex offset vectors, all zero.
func (d *Displacement) Offsets() []geom.Vec3 {
	return make([]geom.Vec3, d.Len())
}

// OffsetNormals returns the plane normal for every vertex.
func (d *Displacement) OffsetNormals() []geom.Vec3 {
	n := d.Plane.Normal()
	out := make([]geom.Vec3, d.Len())
	for i := range out {
		out[i] = n
	}
	return out
}

// Translate moves the anchor plane.
func (d *Displacement) Translate(v geom.Vec3) {
	d.Plane = d.Plane.Translate(v)
}

// Clone returns a deep copy.
func (d Displacement) Clone() Displacement {
	out := d
	out.Normals = append([]geom.Vec3(nil), d.Normals...)
	out.Distances = append([]float32(nil), d.Distances...)
	out.Alphas = append([]float32(nil), d.Alphas...)
	return out
}

// Info is the complete field set a map serializer writes for a
// displacement.
type Info struct {
	Power         int                    `json:"power"`
	StartPosition geom.Vec3              `json:"startposition"`
	Flags         int32                  `json:"flags"`
	Elevation     float32                `json:"elevation"`
	Subdiv        bool                   `json:"subdiv"`
	Normals       []geom.Vec3            `json:"normals"`
	Distances     []float32              `json:"distances"`
	Offsets       []geom.Vec3            `json:"offsets"`
	OffsetNormals []geom.Vec3            `json:"offset_normals"`
	Alphas        []float32              `json:"alphas"`
	TriangleTags  [][]TriangleTag        `json:"triangle_tags"`
	AllowedVerts  [AllowedVertsLen]int32 `json:"allowed_verts"`
}

// Info expands d into its serialized field set.
func (d *Displacement) Info() Info {
	return Info{
		Power:         d.Power,
		StartPosition: d.StartPosition(),
		Flags:         d.Flags,
		Elevation:     d.Elevation,
		Subdiv:        d.Subdiv,
		Normals:       d.Normals,
		Distances:     d.Distances,
		Offsets:       d.Offsets(),
		OffsetNormals: d.OffsetNormals(),
		Alphas:        d.Alphas,
		TriangleTags:  d.TriangleTags(),
		AllowedVerts:  d.AllowedVerts(),
	}
}
