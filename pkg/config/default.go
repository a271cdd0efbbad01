package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
	"gopkg.in/yaml.v3"
)

// Default returns a configuration populated with the values Validate would
// fill in, plus one example material.
func Default() Config {
	return Config{
		Options: brush.DefaultOptions(),
		Defaults: DefaultsConfig{
			Sides:    graph.DefaultSides,
			Power:    graph.DefaultPower,
			Material: "dev-orange",
		},
		Materials: map[string]texture.Material{
			"concrete": texture.NewMaterial("concrete/concretefloor001a"),
		},
		Preview: PreviewConfig{
			Kernel:    KernelSDF,
			MeshCells: DefaultMeshCells,
		},
		EvalTimeout: "5s",
	}
}

// WriteDefault writes the default configuration to the provided path.
func WriteDefault(path string) error {
	cfg := Default()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}
