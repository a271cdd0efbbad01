package graph

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Validate runs the structural checks on the design graph and returns the
// findings in a stable order. An empty slice means the graph is valid. It
// never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateChildren(g)...)
	errs = append(errs, validateBrushNames(g)...)
	return errs
}

// ValidateAll runs all validation tiers (structural, geometric, material)
// and returns a ValidationResult with separated errors and warnings.
// Geometric and material checks read the graph defaults, so they see the
// same sides, power and material the generator will use.
func ValidateAll(g *DesignGraph) ValidationResult {
	// Tier 1: structural validation (existing).
	tier1 := Validate(g)

	// Tier 2: geometric validation.
	tier2Errs, tier2Warnings := validateGeometry(g)

	// Tier 3: material warnings.
	tier3Warnings := validateMaterial(g)

	// Separate Tier 1 findings into errors and warnings.
	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	result.Warnings = append(result.Warnings, tier3Warnings...)

	return result
}

// sortedIDs returns every node ID in byte order so findings do not depend
// on map iteration.
func sortedIDs(g *DesignGraph) []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

func label(g *DesignGraph, id NodeID) string {
	if n, ok := g.Nodes[id]; ok {
		return n.Label()
	}
	return id.Short()
}

// validateDAG reports the first cycle found, as the path of node labels
// that closes it.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[NodeID]int)
	var path []NodeID

	var visit func(id NodeID) *ValidationError
	visit = func(id NodeID) *ValidationError {
		switch state[id] {
		case done:
			return nil
		case onPath:
			start := 0
			for i, p := range path {
				if p == id {
					start = i
				}
			}
			names := make([]string, 0, len(path)-start+1)
			for _, p := range path[start:] {
				names = append(names, label(g, p))
			}
			names = append(names, label(g, id))
			return &ValidationError{
				NodeID:   id,
				Message:  "cycle detected: " + strings.Join(names, " -> "),
				Severity: SeverityError,
			}
		}
		node, ok := g.Nodes[id]
		if !ok {
			// Dangling; validateReferences reports it.
			return nil
		}
		state[id] = onPath
		path = append(path, id)
		for _, child := range node.Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range sortedIDs(g) {
		if err := visit(id); err != nil {
			return []ValidationError{*err}
		}
	}
	return nil
}

// validateReferences checks that every child ID names an existing node.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(g) {
		node := g.Nodes[id]
		for i, child := range node.Children {
			if _, ok := g.Nodes[child]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("child %d reference %s does not exist", i, child.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that every NameIndex entry points at a node and that
// no two nodes share a name. Brush names come from node names, so a
// duplicate would make two unrelated brushes indistinguishable.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(g.NameIndex))
	for name := range g.NameIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := g.NameIndex[name]
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	owners := make(map[string]int)
	for _, node := range g.Nodes {
		if node.Name != "" {
			owners[node.Name]++
		}
	}
	dups := make([]string, 0)
	for name, n := range owners {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	for _, name := range dups {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, owners[name]),
			Severity: SeverityError,
		})
	}
	return errs
}

// reachable returns the set of existing nodes reachable from the roots.
func reachable(g *DesignGraph) map[NodeID]bool {
	seen := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !seen[rid] {
			seen[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := g.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, child := range node.Children {
			if _, ok := g.Nodes[child]; ok && !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}
	return seen
}

// validateRoots checks that every root exists and warns about nodes the
// generator will never reach.
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	seen := reachable(g)
	for _, id := range sortedIDs(g) {
		if !seen[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan), no brushes will be generated for it", label(g, id)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateChildren checks that only groups and transforms have children,
// that transforms wrap exactly one node and that each node's data matches
// its kind.
func validateChildren(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(g) {
		node := g.Nodes[id]
		switch node.Kind {
		case NodeShape, NodeRoom:
			if len(node.Children) > 0 {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("%s node has %d children, want none", node.Kind, len(node.Children)),
					Severity: SeverityError,
				})
			}
		case NodeTransform:
			if len(node.Children) != 1 {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  fmt.Sprintf("transform has %d children, want 1", len(node.Children)),
					Severity: SeverityError,
				})
			}
		}
		if !dataMatchesKind(node) {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s node carries %T data", node.Kind, node.Data),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func dataMatchesKind(n *Node) bool {
	switch n.Data.(type) {
	case ShapeData:
		return n.Kind == NodeShape
	case RoomData:
		return n.Kind == NodeRoom
	case TransformData:
		return n.Kind == NodeTransform
	case GroupData:
		return n.Kind == NodeGroup
	case nil:
		return n.Kind == NodeGroup
	}
	return false
}

// validateBrushNames warns when a node's name equals a brush name the
// generator derives for another node: room walls are name.0 to name.5 and
// globe bands name.0 upward.
func validateBrushNames(g *DesignGraph) []ValidationError {
	derived := make(map[string]NodeID)
	for _, id := range sortedIDs(g) {
		node := g.Nodes[id]
		if node.Name == "" {
			continue
		}
		n := 0
		switch d := node.Data.(type) {
		case RoomData:
			n = 6
		case ShapeData:
			if d.Kind == ShapeSphereGlobe {
				n = max(d.Sides, 3)
				if d.Sides == 0 {
					n = max(g.Defaults.Sides, 3)
				}
			}
		}
		for i := 0; i < n; i++ {
			derived[fmt.Sprintf("%s.%d", node.Name, i)] = id
		}
	}

	var errs []ValidationError
	for _, id := range sortedIDs(g) {
		node := g.Nodes[id]
		if owner, ok := derived[node.Name]; ok && owner != id {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name %q is also a brush name generated for %q", node.Name, label(g, owner)),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
