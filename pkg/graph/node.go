package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeShape     NodeKind = iota // one builder call (cube, spike, sphere)
	NodeTransform                 // translation of its children (place)
	NodeGroup                     // logical grouping
	NodeRoom                      // hollow box of six wall brushes
)

func (k NodeKind) String() string {
	switch k {
	case NodeShape:
		return "shape"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeRoom:
		return "room"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// Label returns the node's name, or its short ID when unnamed.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
