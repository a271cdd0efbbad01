package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
)

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if got := cfg.Defaults.Sides; got != graph.DefaultSides {
		t.Fatalf("Sides = %d, want %d", got, graph.DefaultSides)
	}
	if got := cfg.Defaults.Power; got != graph.DefaultPower {
		t.Fatalf("Power = %d, want %d", got, graph.DefaultPower)
	}
	if got := cfg.Defaults.Material; got != "dev-orange" {
		t.Fatalf("Material = %q, want dev-orange", got)
	}
	if got := cfg.Preview.MeshCells; got != DefaultMeshCells {
		t.Fatalf("MeshCells = %d, want %d", got, DefaultMeshCells)
	}
	if got := cfg.Preview.Kernel; got != KernelSDF {
		t.Fatalf("Kernel = %q, want %q", got, KernelSDF)
	}
	if got := cfg.Timeout(); got != 5*time.Second {
		t.Fatalf("Timeout = %s, want 5s", got)
	}
}

func TestValidateRejectsInvalidConfigurations(t *testing.T) {
	tests := map[string]*Config{
		"two sides":        {Defaults: DefaultsConfig{Sides: 2}},
		"power too high":   {Defaults: DefaultsConfig{Power: 5}},
		"power negative":   {Defaults: DefaultsConfig{Power: -1}},
		"unknown material": {Defaults: DefaultsConfig{Material: "marble"}},
		"material no path": {Materials: map[string]texture.Material{"x": {}}},
		"negative cells":   {Preview: PreviewConfig{MeshCells: -4}},
		"unknown kernel":   {Preview: PreviewConfig{Kernel: "ray"}},
		"bad timeout":      {EvalTimeout: "soon"},
		"zero timeout":     {EvalTimeout: "0s"},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
		})
	}
}

func TestMaterialResolution(t *testing.T) {
	cfg := &Config{
		Defaults: DefaultsConfig{Material: "Concrete"},
		Materials: map[string]texture.Material{
			"concrete": {Path: "concrete/floor"},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	m, err := cfg.Material()
	if err != nil {
		t.Fatal(err)
	}
	if m.Path != "concrete/floor" || m.LightScale != texture.LightmapScale {
		t.Errorf("material = %+v", m)
	}

	raw, err := cfg.Catalog().Resolve("brick/brickwall001a")
	if err != nil || raw.Path != "brick/brickwall001a" {
		t.Errorf("raw path = %+v, %v", raw, err)
	}
	if _, err := cfg.Catalog().Resolve("nodraw"); err != nil {
		t.Errorf("built-in lookup failed: %v", err)
	}
}

func TestGraphDefaults(t *testing.T) {
	cfg := Default()
	cfg.Options.AllowFrac = true
	cfg.Defaults.Sides = 12
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	d := cfg.GraphDefaults()
	if !d.Options.AllowFrac || d.Sides != 12 || d.Power != graph.DefaultPower {
		t.Errorf("defaults = %+v", d)
	}
	if d.Material != texture.DevOrange {
		t.Errorf("material = %v", d.Material)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brushgen.yaml")
	data := `
options:
  allow_frac: true
defaults:
  sides: 16
materials:
  rock:
    path: nature/rock01
    light_scale: 32
preview:
  stl: out.stl
eval_timeout: 2s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Options.AllowFrac || cfg.Options.FracPromote {
		t.Errorf("options = %+v", cfg.Options)
	}
	if cfg.Defaults.Sides != 16 || cfg.Defaults.Power != graph.DefaultPower {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if m, err := cfg.Catalog().Lookup("rock"); err != nil || m.LightScale != 32 {
		t.Errorf("rock = %+v, %v", m, err)
	}
	if cfg.Preview.STL != "out.stl" || cfg.Preview.MeshCells != DefaultMeshCells {
		t.Errorf("preview = %+v", cfg.Preview)
	}
	if cfg.Timeout() != 2*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("defaults: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("bad yaml: %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brushgen.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Defaults != want.Defaults || cfg.Preview != want.Preview || cfg.EvalTimeout != want.EvalTimeout {
		t.Errorf("loaded %+v, want %+v", cfg, want)
	}
	if _, err := cfg.Catalog().Lookup("concrete"); err != nil {
		t.Error("example material lost")
	}
}
