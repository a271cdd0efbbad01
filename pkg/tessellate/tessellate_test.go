package tessellate_test

import (
	"errors"
	"testing"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/generate"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/kernel"
	"github.com/chazu/brushgen/pkg/kernel/sdfx"
	"github.com/chazu/brushgen/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(16)
}

// makeCube creates a cube shape node with the given name and bounds.
func makeCube(name string, x0, y0, z0, x1, y1, z1 float32) *graph.Node {
	return &graph.Node{
		ID:   graph.NewNodeID(name),
		Kind: graph.NodeShape,
		Name: name,
		Data: graph.ShapeData{
			Kind:   graph.ShapeCube,
			Bounds: geom.NewBounds(geom.V3(x0, y0, z0), geom.V3(x1, y1, z1)),
		},
	}
}

// makePlaceTransform creates a transform node with a translation.
func makePlaceTransform(name string, tx, ty, tz float32, child graph.NodeID) *graph.Node {
	t := geom.V3(tx, ty, tz)
	return &graph.Node{
		ID:       graph.NewNodeID(name),
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{child},
		Data:     graph.TransformData{Translation: &t},
	}
}

func generateAll(t *testing.T, g *graph.DesignGraph) []generate.Brush {
	t.Helper()
	brushes, err := generate.Generate(g, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return brushes
}

func TestSingleCube(t *testing.T) {
	g := graph.New()
	crate := makeCube("crate", 0, 0, 0, 64, 64, 64)
	g.AddNode(crate)
	g.AddRoot(crate.ID)

	meshes, err := tessellate.Tessellate(generateAll(t, g), newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	if meshes[0].Name != "crate" {
		t.Errorf("mesh name = %q, want crate", meshes[0].Name)
	}
	if meshes[0].IsEmpty() {
		t.Error("mesh is empty")
	}
}

func TestPlacedCubeMesh(t *testing.T) {
	g := graph.New()
	crate := makeCube("crate", 0, 0, 0, 32, 32, 32)
	place := makePlaceTransform("place", 1000, 0, 0, crate.ID)
	g.AddNode(crate)
	g.AddNode(place)
	g.AddRoot(place.ID)

	meshes, err := tessellate.Tessellate(generateAll(t, g), newKernel())
	if err != nil {
		t.Fatal(err)
	}
	min, _ := meshes[0].Bounds()
	if min[0] < 990 {
		t.Errorf("mesh min x = %f, expected the placed cube near 1000", min[0])
	}
}

func TestRoomProducesSixMeshes(t *testing.T) {
	g := graph.New()
	room := &graph.Node{
		ID:   graph.NewNodeID("room"),
		Kind: graph.NodeRoom,
		Name: "hall",
		Data: graph.RoomData{Bounds: geom.NewBounds(geom.V3(0, 0, 0), geom.V3(128, 128, 128))},
	}
	g.AddNode(room)
	g.AddRoot(room.ID)

	meshes, err := tessellate.Tessellate(generateAll(t, g), newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 6 {
		t.Fatalf("got %d meshes, want 6", len(meshes))
	}
	if meshes[5].Name != "hall.5" {
		t.Errorf("last mesh name = %q", meshes[5].Name)
	}
}

func TestEmptyInput(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, newKernel())
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 0 {
		t.Errorf("got %d meshes from no brushes", len(meshes))
	}
}

func TestBadBrush(t *testing.T) {
	_, err := tessellate.Tessellate([]generate.Brush{{Name: "open", Solid: brush.Solid{}}}, newKernel())
	if !errors.Is(err, sdfx.ErrOpenBrush) {
		t.Errorf("err = %v, want ErrOpenBrush", err)
	}
}

func TestMerge(t *testing.T) {
	g := graph.New()
	a := makeCube("a", 0, 0, 0, 32, 32, 32)
	b := makeCube("b", 64, 0, 0, 96, 32, 32)
	g.AddNode(a)
	g.AddNode(b)
	g.AddRoot(a.ID)
	g.AddRoot(b.ID)

	k := newKernel()
	merged, err := tessellate.Merge(generateAll(t, g), k)
	if err != nil {
		t.Fatal(err)
	}
	min, max := merged.BoundingBox()
	if min[0] > 0.01 || max[0] < 95.99 {
		t.Errorf("merged x extent = [%f, %f], want [0, 96]", min[0], max[0])
	}

	if _, err := tessellate.Merge(nil, k); !errors.Is(err, tessellate.ErrNoBrushes) {
		t.Errorf("Merge(nil) err = %v", err)
	}
}
