package graph

import (
	"strings"
	"testing"

	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/texture"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidRoom creates a room with a crate placed inside it, all reachable
// from a group root.
func buildValidRoom() *DesignGraph {
	g := New()

	roomID := NewNodeID("room/hall")
	crateID := NewNodeID("cube/crate")
	placeID := NewNodeID("place/crate")
	groupID := NewNodeID("group/level")

	offset := geom.V3(64, 64, 8)
	g.AddNode(&Node{
		ID: roomID, Kind: NodeRoom, Name: "hall",
		Data: RoomData{Bounds: box(0, 0, 0, 512, 512, 256), Material: texture.DevWall},
	})
	g.AddNode(&Node{
		ID: crateID, Kind: NodeShape, Name: "crate",
		Data: ShapeData{Kind: ShapeCube, Bounds: box(0, 0, 0, 64, 64, 64)},
	})
	g.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{crateID},
		Data:     TransformData{Translation: &offset},
	})
	g.AddNode(&Node{
		ID:       groupID,
		Kind:     NodeGroup,
		Name:     "level",
		Children: []NodeID{roomID, placeID},
		Data:     GroupData{Description: "one room"},
	})
	g.AddRoot(groupID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// errorCount returns the number of error-severity findings.
func errorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	g := buildValidRoom()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error: %s", e)
		}
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	g := New()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error on empty graph: %s", e)
		}
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()

	aID := NewNodeID("a")
	bID := NewNodeID("b")
	cID := NewNodeID("c")

	// Create a cycle: a -> b -> c -> a
	g.AddNode(&Node{ID: aID, Kind: NodeGroup, Name: "a", Children: []NodeID{bID}, Data: GroupData{}})
	g.AddNode(&Node{ID: bID, Kind: NodeGroup, Name: "b", Children: []NodeID{cID}, Data: GroupData{}})
	g.AddNode(&Node{ID: cID, Kind: NodeGroup, Name: "c", Children: []NodeID{aID}, Data: GroupData{}})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Error("expected cycle detection error, got none")
		for _, e := range errs {
			t.Logf("  %s", e)
		}
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := New()

	parentID := NewNodeID("parent")
	missingID := NewNodeID("missing-child")

	g.AddNode(&Node{
		ID: parentID, Kind: NodeGroup, Name: "parent",
		Children: []NodeID{missingID},
		Data:     GroupData{},
	})
	g.AddRoot(parentID)

	errs := Validate(g)
	if !hasError(errs, "does not exist") {
		t.Error("expected dangling reference error, got none")
	}
}

func TestValidate_DanglingRoot(t *testing.T) {
	g := New()
	g.AddRoot(NewNodeID("nowhere"))

	if !hasError(Validate(g), "root reference") {
		t.Error("expected dangling root error")
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	g := New()
	a, b := NewNodeID("a"), NewNodeID("b")
	g.AddNode(&Node{ID: a, Kind: NodeShape, Name: "crate", Data: ShapeData{}})
	g.AddNode(&Node{ID: b, Kind: NodeShape, Name: "crate", Data: ShapeData{}})
	g.AddRoot(a)
	g.AddRoot(b)

	if !hasError(Validate(g), "duplicate name") {
		t.Error("expected duplicate name error")
	}
}

func TestValidate_StaleNameIndex(t *testing.T) {
	g := New()
	g.NameIndex["ghost"] = NewNodeID("ghost")

	if !hasError(Validate(g), "non-existent node") {
		t.Error("expected stale name index error")
	}
}

func TestValidate_OrphanWarning(t *testing.T) {
	g := buildValidRoom()
	g.AddNode(&Node{ID: NewNodeID("orphan"), Kind: NodeShape, Name: "stray", Data: ShapeData{}})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
	}
	if errorCount(errs) != 0 {
		t.Errorf("orphan should not be an error: %v", errs)
	}
}

func TestValidate_ChildrenShape(t *testing.T) {
	tests := []struct {
		name string
		node func(child NodeID) *Node
		want string
	}{
		{
			name: "shape with children",
			node: func(c NodeID) *Node {
				return &Node{Kind: NodeShape, Children: []NodeID{c}, Data: ShapeData{}}
			},
			want: "want none",
		},
		{
			name: "room with children",
			node: func(c NodeID) *Node {
				return &Node{Kind: NodeRoom, Children: []NodeID{c}, Data: RoomData{}}
			},
			want: "want none",
		},
		{
			name: "empty transform",
			node: func(NodeID) *Node {
				return &Node{Kind: NodeTransform, Data: TransformData{}}
			},
			want: "want 1",
		},
		{
			name: "mismatched data",
			node: func(NodeID) *Node {
				return &Node{Kind: NodeShape, Data: RoomData{}}
			},
			want: "carries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			childID := NewNodeID("child")
			g.AddNode(&Node{ID: childID, Kind: NodeShape, Data: ShapeData{}})

			n := tt.node(childID)
			n.ID = NewNodeID("subject")
			g.AddNode(n)
			g.AddRoot(n.ID)

			errs := Validate(g)
			if !hasError(errs, tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, errs)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityError}
	if e.Error() != "[error] boom" {
		t.Errorf("Error() = %q", e.Error())
	}
	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "boom", Severity: SeverityWarning}
	if want := "[warning] node " + id.Short() + ": boom"; e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestValidate_CyclePath(t *testing.T) {
	g := New()
	aID, bID := NewNodeID("a"), NewNodeID("b")
	g.AddNode(&Node{ID: aID, Kind: NodeGroup, Name: "a", Children: []NodeID{bID}, Data: GroupData{}})
	g.AddNode(&Node{ID: bID, Kind: NodeGroup, Name: "b", Children: []NodeID{aID}, Data: GroupData{}})
	g.AddRoot(aID)

	var cycle string
	for _, e := range Validate(g) {
		if strings.Contains(e.Message, "cycle") {
			cycle = e.Message
		}
	}
	if !strings.Contains(cycle, "a -> b -> a") && !strings.Contains(cycle, "b -> a -> b") {
		t.Errorf("cycle message = %q, want the path of names", cycle)
	}
}

func TestValidate_StableOrder(t *testing.T) {
	g := buildValidRoom()
	for i := 0; i < 5; i++ {
		g.AddNode(&Node{ID: NewNodeID("stray/" + string(rune('a'+i))), Kind: NodeShape, Data: ShapeData{}})
	}
	first := Validate(g)
	for i := 0; i < 10; i++ {
		again := Validate(g)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d findings, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: finding %d = %v, want %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestValidate_BrushNameCollision(t *testing.T) {
	g := buildValidRoom()
	// The room "hall" generates hall.0 to hall.5.
	clashID := NewNodeID("cube/hall.2")
	g.AddNode(&Node{
		ID: clashID, Kind: NodeShape, Name: "hall.2",
		Data: ShapeData{Kind: ShapeCube, Bounds: box(0, 0, 0, 8, 8, 8)},
	})
	g.AddRoot(clashID)

	errs := Validate(g)
	if !hasWarning(errs, `generated for "hall"`) {
		t.Errorf("expected a brush name warning, got %v", errs)
	}
	if errorCount(errs) != 0 {
		t.Errorf("name collision should not be an error: %v", errs)
	}

	globe := New()
	globe.Defaults.Sides = 4
	gid := NewNodeID("shape/ball")
	globe.AddNode(&Node{ID: gid, Kind: NodeShape, Name: "ball",
		Data: ShapeData{Kind: ShapeSphereGlobe, Bounds: box(0, 0, 0, 64, 64, 64)}})
	okID := NewNodeID("shape/ball.4")
	globe.AddNode(&Node{ID: okID, Kind: NodeShape, Name: "ball.4",
		Data: ShapeData{Kind: ShapeCube, Bounds: box(0, 0, 0, 8, 8, 8)}})
	globe.AddRoot(gid)
	globe.AddRoot(okID)
	if hasWarning(Validate(globe), "brush name") {
		t.Error("ball.4 is past the last band and should not warn")
	}
}
