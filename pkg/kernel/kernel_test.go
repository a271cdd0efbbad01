package kernel

import (
	"testing"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/shape"
	"github.com/chazu/brushgen/pkg/texture"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, 5, -2, -3, 2, 4, 0, 9, 0}}
	min, max := m.Bounds()
	if min != [3]float32{-3, 2, -2} {
		t.Errorf("min = %v", min)
	}
	if max != [3]float32{1, 9, 4} {
		t.Errorf("max = %v", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float32{}) || max != ([3]float32{}) {
		t.Errorf("empty mesh bounds = %v %v", min, max)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. Brushes become their bounding boxes.
type stubKernel struct{}

func (k *stubKernel) Brush(s brush.Solid) (Solid, error) {
	b := s.Bounds()
	return &stubSolid{
		minBB: [3]float64{float64(b.Min.X), float64(b.Min.Y), float64(b.Min.Z)},
		maxBB: [3]float64{float64(b.Max.X), float64(b.Max.Y), float64(b.Max.Z)},
	}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBrushBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	b := geom.NewBounds(geom.V3(0, 0, 0), geom.V3(10, 20, 30))
	s, err := k.Brush(shape.CubeOf(b, texture.Dev64, brush.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Brush min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Brush max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, _ := k.Brush(brush.Solid{})
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
