// Package texture holds materials and the UV projection axes derived from
// face geometry.
package texture

import (
	"fmt"
	"sort"
	"strings"
)

// LightmapScale is the default lightmap texel size in world units.
const LightmapScale = 16

// Material is a material path plus its lightmap scale. The path is opaque;
// it is never resolved against game assets.
type Material struct {
	Path       string `json:"path" yaml:"path"`
	LightScale uint8  `json:"light_scale" yaml:"light_scale"`
}

// NewMaterial returns a material with the default lightmap scale.
func NewMaterial(path string) Material {
	return Material{Path: path, LightScale: LightmapScale}
}

// WithLightScale returns m with a different lightmap scale.
func (m Material) WithLightScale(scale uint8) Material {
	m.LightScale = scale
	return m
}

func (m Material) String() string {
	return m.Path
}

// Common development and tool materials.
var (
	DevOrange     = NewMaterial("dev/dev_measuregeneric01")
	DevGray       = NewMaterial("dev/dev_measuregeneric01b")
	DevWallOrange = NewMaterial("dev/dev_measurewall01a")
	DevPerson     = NewMaterial("dev/dev_measurewall01c")
	DevWallGray   = NewMaterial("dev/dev_measurewall01d")
	Dev64         = NewMaterial("dev/dev_measurecrate01")
	Dev32         = NewMaterial("dev/dev_measurecrate02")

	DevFloor = DevGray
	DevWall  = DevPerson

	NoDraw       = NewMaterial("tools/toolsnodraw")
	Skybox       = NewMaterial("tools/toolsskybox")
	Clip         = NewMaterial("tools/toolsclip")
	PlayerClip   = NewMaterial("tools/toolsplayerclip")
	Hint         = NewMaterial("tools/toolshint")
	Skip         = NewMaterial("tools/toolsskip")
	Trigger      = NewMaterial("tools/toolstrigger")
	AreaPortal   = NewMaterial("tools/toolsareaportal")
	BlockLight   = NewMaterial("tools/toolsblocklight")
	BlockBullets = NewMaterial("tools/toolsblockbullets")
)

// Catalog maps short names to materials. Lookups are case-insensitive.
type Catalog map[string]Material

// DefaultCatalog returns the built-in development and tool materials.
func DefaultCatalog() Catalog {
	return Catalog{
		"dev-orange":      DevOrange,
		"dev-gray":        DevGray,
		"dev-wall-orange": DevWallOrange,
		"dev-person":      DevPerson,
		"dev-wall-gray":   DevWallGray,
		"dev-64":          Dev64,
		"dev-32":          Dev32,
		"dev-floor":       DevFloor,
		"dev-wall":        DevWall,
		"nodraw":          NoDraw,
		"skybox":          Skybox,
		"clip":            Clip,
		"playerclip":      PlayerClip,
		"hint":            Hint,
		"skip":            Skip,
		"trigger":         Trigger,
		"areaportal":      AreaPortal,
		"blocklight":      BlockLight,
		"blockbullets":    BlockBullets,
	}
}

// Lookup returns the material registered under name.
func (c Catalog) Lookup(name string) (Material, error) {
	if m, ok := c[strings.ToLower(name)]; ok {
		return m, nil
	}
	return Material{}, fmt.Errorf("texture: no material named %q", name)
}

// Resolve is Lookup, except that an unknown name containing a slash is
// taken as a material path.
func (c Catalog) Resolve(name string) (Material, error) {
	m, err := c.Lookup(name)
	if err == nil {
		return m, nil
	}
	if strings.Contains(name, "/") {
		return NewMaterial(name), nil
	}
	return Material{}, err
}

// Names returns the registered names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new catalog with other's entries layered over c.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[strings.ToLower(k)] = v
	}
	return out
}
