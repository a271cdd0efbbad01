package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the root command with fresh flag values.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	evalJSON, evalPreview, evalSTL, evalKernel = false, false, "", ""
	// Slice flags append once set, so rebuild them for every run.
	shapeCmd.ResetFlags()
	addShapeFlags(shapeCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvalScriptFile(t *testing.T) {
	out, err := run(t, "", "eval", "../../examples/room.brush")
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	for _, want := range []string{"Solids: 10", "hall.0", "Displacements: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvalStdinJSON(t *testing.T) {
	out, err := run(t, `(defshape "box" (cube (bounds 0 0 0 32 32 32)))`, "eval", "--json", "-")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out, `"name": "box"`) {
		t.Errorf("JSON output missing the brush:\n%s", out)
	}
}

func TestEvalExactPreview(t *testing.T) {
	out, err := run(t, `(defshape "box" (cube (bounds 0 0 0 32 32 32)))`, "eval", "--preview", "--kernel", "exact", "-")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out, "Preview triangles: 12") {
		t.Errorf("output:\n%s", out)
	}
}

func TestEvalReportsErrors(t *testing.T) {
	out, err := run(t, `(defshape "flat" (cube (bounds 0 0 0 64 64 0)))`, "eval", "-")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out, "error: flat:") {
		t.Errorf("output missing the node error:\n%s", out)
	}
}

func TestEvalSTL(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "coarse.yaml")
	if err := os.WriteFile(cfg, []byte("preview:\n  mesh_cells: 24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "box.stl")
	if _, err := run(t, `(defshape "box" (cube (bounds 0 0 0 32 32 32)))`, "eval", "--config", cfg, "--stl", path, "-"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("STL not written: %v", err)
	}
}

func TestShapeCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"shape", "cube"}, "solid 0 (6 sides)"},
		{[]string{"shape", "wedge", "--material", "dev-wall"}, "dev/dev_measurewall01c"},
		{[]string{"shape", "cylinder", "--sides", "8", "--max", "64,64,128"}, "solid 0 (10 sides)"},
		{[]string{"shape", "sphere", "--power", "2"}, "disp power 2"},
		{[]string{"shape", "globe", "--sides", "4"}, "solid 3"},
		{[]string{"shape", "cube", "--min=-64,-64,0", "--max", "0,0,8"}, "(-64 -64 8)"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("%v\n%s", err, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestShapeCornersDoNotAccumulate(t *testing.T) {
	for i := 0; i < 2; i++ {
		out, err := run(t, "", "shape", "cube", "--min", "8,8,8", "--max", "16,16,16")
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i, err, out)
		}
		if !strings.Contains(out, "(8 8 16)") {
			t.Errorf("run %d: output missing (8 8 16):\n%s", i, out)
		}
	}
	// The defaults come back once the flags are dropped.
	out, err := run(t, "", "shape", "cube")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(0 0 64)") {
		t.Errorf("output missing the default corner (0 0 64):\n%s", out)
	}
}

func TestShapeCommandErrors(t *testing.T) {
	for _, args := range [][]string{
		{"shape", "prism"},
		{"shape", "blob"},
		{"shape", "cube", "--max", "64,64"},
		{"shape", "cube", "--min", "0,0,0,0"},
		{"shape", "cube", "--min", "a,0,0"},
		{"shape", "cube", "--max", "64,64,0"},
		{"shape", "cube", "--material", "marble"},
	} {
		if _, err := run(t, "", args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestMaterialsAndConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brushgen.yaml")
	if _, err := run(t, "", "init-config", path); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "materials", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dev-orange", "concrete"} {
		if !strings.Contains(out, want) {
			t.Errorf("materials missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "brushgen dev" {
		t.Errorf("version = %q", out)
	}
}
