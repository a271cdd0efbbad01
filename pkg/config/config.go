// Package config loads the YAML settings shared by the CLI commands:
// generation options, graph defaults, extra materials and preview output.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
	"gopkg.in/yaml.v3"
)

// DefaultMeshCells is the preview resolution used when none is set.
const DefaultMeshCells = 200

// Preview kernels.
const (
	KernelSDF   = "sdf"
	KernelExact = "exact"
)

type Config struct {
	Options     brush.Options               `yaml:"options"`
	Defaults    DefaultsConfig              `yaml:"defaults"`
	Materials   map[string]texture.Material `yaml:"materials"`
	Preview     PreviewConfig               `yaml:"preview"`
	EvalTimeout string                      `yaml:"eval_timeout"`
}

// DefaultsConfig fills shape fields a script leaves unset.
type DefaultsConfig struct {
	Sides int `yaml:"sides"`
	Power int `yaml:"power"`
	// Material is a catalog name or a raw material path.
	Material string `yaml:"material"`
}

type PreviewConfig struct {
	// Kernel is "sdf" (marching cubes, can write STL) or "exact".
	Kernel    string `yaml:"kernel"`
	MeshCells int    `yaml:"mesh_cells"`
	STL       string `yaml:"stl"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills empty fields with defaults and rejects values no
// generation call could use.
func (c *Config) Validate() error {
	if c.Defaults.Sides == 0 {
		c.Defaults.Sides = graph.DefaultSides
	}
	if c.Defaults.Sides < 3 {
		return fmt.Errorf("defaults.sides must be at least 3, got %d", c.Defaults.Sides)
	}
	if c.Defaults.Power == 0 {
		c.Defaults.Power = graph.DefaultPower
	}
	if c.Defaults.Power < brush.MinPower || c.Defaults.Power > brush.MaxPower {
		return fmt.Errorf("defaults.power must be in [%d,%d], got %d", brush.MinPower, brush.MaxPower, c.Defaults.Power)
	}
	if c.Defaults.Material == "" {
		c.Defaults.Material = "dev-orange"
	}
	for name, m := range c.Materials {
		if name == "" {
			return fmt.Errorf("materials: empty name")
		}
		if m.Path == "" {
			return fmt.Errorf("materials.%s.path must be set", name)
		}
		if m.LightScale == 0 {
			m.LightScale = texture.LightmapScale
			c.Materials[name] = m
		}
	}
	if _, err := c.Material(); err != nil {
		return fmt.Errorf("defaults.material: %w", err)
	}
	switch c.Preview.Kernel {
	case "":
		c.Preview.Kernel = KernelSDF
	case KernelSDF, KernelExact:
	default:
		return fmt.Errorf("preview.kernel must be %q or %q, got %q", KernelSDF, KernelExact, c.Preview.Kernel)
	}
	if c.Preview.MeshCells == 0 {
		c.Preview.MeshCells = DefaultMeshCells
	}
	if c.Preview.MeshCells < 0 {
		return fmt.Errorf("preview.mesh_cells cannot be negative")
	}
	if c.EvalTimeout == "" {
		c.EvalTimeout = "5s"
	}
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil {
		return fmt.Errorf("eval_timeout invalid: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("eval_timeout must be positive")
	}
	return nil
}

// Catalog returns the built-in materials with the configured ones layered
// on top.
func (c *Config) Catalog() texture.Catalog {
	return texture.DefaultCatalog().Merge(c.Materials)
}

// Material resolves the default material. Names containing a slash that
// are not in the catalog are taken as material paths.
func (c *Config) Material() (texture.Material, error) {
	return c.Catalog().Resolve(c.Defaults.Material)
}

// Timeout returns the parsed evaluation timeout. Call Validate first.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GraphDefaults returns the defaults new design graphs start from.
func (c *Config) GraphDefaults() graph.GlobalDefaults {
	m, err := c.Material()
	if err != nil {
		m = texture.DevOrange
	}
	return graph.GlobalDefaults{
		Options:  c.Options,
		Material: m,
		Sides:    c.Defaults.Sides,
		Power:    c.Defaults.Power,
	}
}
