package graph

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/geom"
)

// MaxSides is the largest ring side count map compilers accept: a brush may
// have at most 64 faces.
const MaxSides = 63

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateExtents(g)...)
	errs = append(errs, validateRoomWalls(g)...)

	warnings = append(warnings, validateSides(g)...)
	warnings = append(warnings, validatePower(g)...)
	warnings = append(warnings, validateOverlap(g)...)

	return errs, warnings
}

// validateExtents checks that every shape has room to exist: positive size
// on every axis for box-based shapes, a non-zero ring for prisms.
func validateExtents(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok {
			continue
		}

		if sd.Kind == ShapePrism {
			if sd.Top == nil || sd.Bottom == nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "prism needs both a top and a bottom ring",
					Severity: SeverityError,
				})
				continue
			}
			for _, e := range []struct {
				name string
				ring *Ellipse
			}{{"top", sd.Top}, {"bottom", sd.Bottom}} {
				if e.ring.XRadius < 0 || e.ring.YRadius < 0 {
					errs = append(errs, ValidationError{
						NodeID:   node.ID,
						Message:  fmt.Sprintf("prism %s ring has a negative radius", e.name),
						Severity: SeverityError,
					})
				}
			}
			continue
		}

		size := sd.Bounds.Size()
		for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
			if v := size.Component(axis); v <= 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s extent along %s is %.4g, must be positive", sd.Kind, axis, v),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateRoomWalls checks that opposite walls of a room do not overlap.
func validateRoomWalls(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		rd, ok := node.Data.(RoomData)
		if !ok {
			continue
		}
		size := rd.Bounds.Size()
		wall := rd.WallThickness()
		for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
			if v := size.Component(axis); v <= 2*wall {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("room extent along %s is %.4g, must exceed twice the wall thickness %.4g", axis, v, wall),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateSides warns about side counts the builders will clamp and counts
// that produce more faces than a compiler accepts.
func validateSides(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok || !sd.Kind.HasSides() {
			continue
		}
		sides := sd.Sides
		if sides == 0 {
			sides = g.Defaults.Sides
		}
		switch {
		case sides < 3:
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%d sides will be raised to 3", sides),
			})
		case sides > MaxSides:
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%d sides exceeds the compiler limit of %d", sides, MaxSides),
			})
		}
	}

	return warnings
}

// validatePower warns about displacement powers outside the supported range.
func validatePower(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok || sd.Kind != ShapeSphere {
			continue
		}
		power := sd.Power
		if power == 0 {
			power = g.Defaults.Power
		}
		if power < brush.MinPower || power > brush.MaxPower {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("displacement power %d will be clamped to [%d,%d]", power, brush.MinPower, brush.MaxPower),
			})
		}
	}

	return warnings
}

// placedShape is one occurrence of a shape node in world space. A node
// reached through two transforms is placed twice.
type placedShape struct {
	id     NodeID
	bounds geom.Bounds
}

// placeShapes walks from the roots accumulating translations. Cycles are
// skipped; validateDAG reports them.
func placeShapes(g *DesignGraph) []placedShape {
	var out []placedShape
	onPath := make(map[NodeID]bool)

	var walk func(id NodeID, offset geom.Vec3)
	walk = func(id NodeID, offset geom.Vec3) {
		node := g.Nodes[id]
		if node == nil || onPath[id] {
			return
		}
		onPath[id] = true
		defer delete(onPath, id)

		switch d := node.Data.(type) {
		case ShapeData:
			out = append(out, placedShape{id: id, bounds: d.Extent().Translate(offset)})
			return
		case TransformData:
			offset = offset.Add(d.Offset())
		}
		for _, cid := range node.Children {
			walk(cid, offset)
		}
	}

	for _, rid := range g.Roots {
		walk(rid, geom.Vec3{})
	}
	return out
}

// validateOverlap warns when two placed shapes overlap with positive volume.
// Brushes that only touch do not overlap.
func validateOverlap(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	placed := placeShapes(g)
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			if !a.bounds.Collides(b.bounds) {
				continue
			}
			warnings = append(warnings, ValidationWarning{
				NodeID: a.id,
				Message: fmt.Sprintf("shape %s overlaps shape %s",
					g.Nodes[a.id].Label(), g.Nodes[b.id].Label()),
			})
		}
	}

	return warnings
}

// ---------------------------------------------------------------------------
// Tier 3: material warnings
// ---------------------------------------------------------------------------

// validateMaterial runs all Tier 3 material advisory checks.
func validateMaterial(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	warnings = append(warnings, validateMaterialCount(g)...)
	warnings = append(warnings, validateMaterialPaths(g)...)
	return warnings
}

// validateMaterialCount warns when a shape lists more materials than its
// builder uses.
func validateMaterialCount(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok {
			continue
		}
		if want := sd.Kind.MaterialCount(); len(sd.Materials) > want {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%s uses %d materials, %d given; extras ignored", sd.Kind, want, len(sd.Materials)),
			})
		}
	}

	return warnings
}

// validateMaterialPaths warns about listed materials with an empty path,
// which compile as missing textures.
func validateMaterialPaths(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		sd, ok := node.Data.(ShapeData)
		if !ok {
			continue
		}
		var empty int
		for _, m := range sd.Materials {
			if m.Path == "" {
				empty++
			}
		}
		if empty > 0 {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%d material(s) with an empty path", empty),
			})
		}
	}

	return warnings
}
