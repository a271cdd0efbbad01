package texture

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chewxy/math32"
)

// Scale is the texel density applied to every derived axis.
const Scale = 0.25

// nearVerticalNudge is added to the mirrored Z of near-vertical normals so
// the cross product used for the U axis never collapses to zero.
const nearVerticalNudge = 16

// UVAxis is one texture projection axis: how much each world axis
// contributes, a translation along the axis and a scale.
type UVAxis struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Z     float32 `json:"z"`
	Trans float32 `json:"trans"`
	Scale float32 `json:"scale"`
}

// NewUVAxis builds an axis from a direction with zero translation and the
// default scale.
func NewUVAxis(dir geom.Vec3) UVAxis {
	return UVAxis{X: dir.X, Y: dir.Y, Z: dir.Z, Scale: Scale}
}

// Dir returns the axis direction.
func (a UVAxis) Dir() geom.Vec3 {
	return geom.V3(a.X, a.Y, a.Z)
}

func (a UVAxis) String() string {
	return fmt.Sprintf("[%g %g %g %g] %g", a.X, a.Y, a.Z, a.Trans, a.Scale)
}

// UV is a U/V axis pair.
type UV struct {
	U UVAxis `json:"u"`
	V UVAxis `json:"v"`
}

// DefaultTop is the world basis for faces pointing along Z.
func DefaultTop() UV {
	return UV{
		U: UVAxis{X: 1, Scale: Scale},
		V: UVAxis{Y: -1, Scale: Scale},
	}
}

// DefaultBottom is identical to DefaultTop.
func DefaultBottom() UV { return DefaultTop() }

// DefaultEast is the world basis for faces pointing along X.
func DefaultEast() UV {
	return UV{
		U: UVAxis{Y: 1, Scale: Scale},
		V: UVAxis{Z: -1, Scale: Scale},
	}
}

// DefaultWest is identical to DefaultEast.
func DefaultWest() UV { return DefaultEast() }

// DefaultNorth is the world basis for faces pointing along Y.
func DefaultNorth() UV {
	return UV{
		U: UVAxis{X: 1, Scale: Scale},
		V: UVAxis{Z: -1, Scale: Scale},
	}
}

// DefaultSouth is identical to DefaultNorth.
func DefaultSouth() UV { return DefaultNorth() }

// FromNormalWorld picks the fixed world basis for the cardinal axis the
// normal leans on most. The normal need not be unit length.
func FromNormalWorld(normal geom.Vec3) UV {
	switch normal.Abs().GreatestAxis() {
	case geom.AxisX:
		return DefaultEast()
	case geom.AxisY:
		return DefaultNorth()
	default:
		return DefaultTop()
	}
}

// FromNormal derives a basis that follows the face: U runs along the face
// horizontally and V down its slope. The normal need not be unit length.
// Axis-aligned normals use the world basis.
func FromNormal(normal geom.Vec3) UV {
	if normal.IsAxisAligned() {
		return FromNormalWorld(normal)
	}

	mirrored := geom.V3(normal.X, normal.Y, -normal.Z)
	if math32.Abs(normal.Z) < 1 {
		mirrored.Z = math32.Copysign(mirrored.Z+nearVerticalNudge, mirrored.Z)
	}
	u := normal.Cross(mirrored).Normalize()
	v := normal.Cross(u).Normalize().Neg()

	u, v = orientUpright(normal, u, v)
	return UV{U: NewUVAxis(u), V: NewUVAxis(v)}
}

// orientUpright makes a texture read upright when the face is viewed from
// outside. Faces whose normal has a negative Z (sign bit set, so -0 counts)
// get both axes reversed; everything else is returned unchanged.
func orientUpright(normal, u, v geom.Vec3) (geom.Vec3, geom.Vec3) {
	if math32.Signbit(normal.Z) {
		return u.Neg(), v.Neg()
	}
	return u, v
}

// FromNormalAligned dispatches on the alignment mode.
func FromNormalAligned(normal geom.Vec3, worldAlign bool) UV {
	if worldAlign {
		return FromNormalWorld(normal)
	}
	return FromNormal(normal)
}

// Texture is a material applied to a face with its projection.
type Texture struct {
	Material   string `json:"material"`
	U          UVAxis `json:"uaxis"`
	V          UVAxis `json:"vaxis"`
	LightScale uint8  `json:"light_scale"`
}

// Apply projects m onto a face with the given plane.
func Apply(m Material, plane geom.Plane, worldAlign bool) Texture {
	uv := FromNormalAligned(plane.NormalDir(), worldAlign)
	return Texture{
		Material:   m.Path,
		U:          uv.U,
		V:          uv.V,
		LightScale: m.LightScale,
	}
}
