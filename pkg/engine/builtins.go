package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/brushgen/pkg/brush"
	"github.com/chazu/brushgen/pkg/geom"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms brushgen Lisp source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: sphere-globe -> sphere_globe
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. Line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpBounds struct {
	b geom.Bounds
}

func (b *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds %s)", b.b)
}
func (b *sexpBounds) Type() *zygo.RegisteredType { return nil }

type sexpMaterial struct {
	m texture.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material %q :light-scale %d)", m.m.Path, m.m.LightScale)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

type sexpOptions struct {
	opts brush.Options
}

func (o *sexpOptions) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(options :allow-frac %t :frac-promote %t :world-align %t)",
		o.opts.AllowFrac, o.opts.FracPromote, o.opts.WorldAlign)
}
func (o *sexpOptions) Type() *zygo.RegisteredType { return nil }

type sexpEllipse struct {
	e graph.Ellipse
}

func (e *sexpEllipse) SexpString(ps *zygo.PrintState) string {
	c := e.e.Center
	return fmt.Sprintf("(ellipse (vec3 %g %g %g) %g %g)", c.X, c.Y, c.Z, e.e.XRadius, e.e.YRadius)
}
func (e *sexpEllipse) Type() *zygo.RegisteredType { return nil }

// sexpShape is an unattached builder call. It becomes a graph node when
// named by defshape or used by place, group or another container.
type sexpShape struct {
	data graph.ShapeData
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", s.data.Kind, s.data.Extent())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A keyword followed by another keyword, or by nothing, is a flag and maps
// to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// only returns an error naming the first keyword not in allowed.
func (a kwArgs) only(fn string, allowed ...string) error {
	var unknown []string
	for k := range a.kw {
		found := false
		for _, name := range allowed {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown keyword :%s", fn, unknown[0])
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toFloat32(s zygo.Sexp) (float32, error) {
	f, err := toFloat64(s)
	return float32(f), err
}

// toInt accepts integers and floats with no fractional part.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool treats a bare flag (SexpNull) as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 accepts a vec3 value or a list of three numbers.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
	}
	var c [3]float32
	for i, item := range items {
		if c[i], err = toFloat32(item); err != nil {
			return geom.Vec3{}, err
		}
	}
	return geom.V3(c[0], c[1], c[2]), nil
}

func toBounds(s zygo.Sexp) (geom.Bounds, error) {
	if b, ok := s.(*sexpBounds); ok {
		return b.b, nil
	}
	return geom.Bounds{}, fmt.Errorf("expected bounds, got %T (%s)", s, s.SexpString(nil))
}

func toOptions(s zygo.Sexp) (brush.Options, error) {
	if o, ok := s.(*sexpOptions); ok {
		return o.opts, nil
	}
	return brush.Options{}, fmt.Errorf("expected options, got %T (%s)", s, s.SexpString(nil))
}

func toEllipse(s zygo.Sexp) (graph.Ellipse, error) {
	if e, ok := s.(*sexpEllipse); ok {
		return e.e, nil
	}
	return graph.Ellipse{}, fmt.Errorf("expected ellipse, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// evalState is the graph under construction plus everything builtins share
// during one evaluation.
type evalState struct {
	g       *graph.DesignGraph
	catalog texture.Catalog
	order   []graph.NodeID
	anon    int
}

func newEvalState(g *graph.DesignGraph, c texture.Catalog) *evalState {
	return &evalState{g: g, catalog: c}
}

// nextNodeSuffix provides unique suffixes for anonymous nodes. The counter
// is per evaluation, so the same source always yields the same IDs.
func (st *evalState) nextNodeSuffix() string {
	st.anon++
	return fmt.Sprintf("_anon_%d", st.anon)
}

func (st *evalState) add(n *graph.Node) {
	if _, ok := st.g.Nodes[n.ID]; !ok {
		st.order = append(st.order, n.ID)
	}
	st.g.AddNode(n)
}

// claim fails when name is already bound to a node.
func (st *evalState) claim(fn, name string) error {
	if name == "" {
		return fmt.Errorf("%s: name must not be empty", fn)
	}
	if st.g.Lookup(name) != nil {
		return fmt.Errorf("%s: name %q is already defined", fn, name)
	}
	return nil
}

func (st *evalState) addShape(name string, sd graph.ShapeData) graph.NodeID {
	path := "shape/" + name
	if name == "" {
		path = sd.Kind.String() + "/" + st.nextNodeSuffix()
	}
	id := graph.NewNodeID(path)
	st.add(&graph.Node{ID: id, Kind: graph.NodeShape, Name: name, Data: sd})
	return id
}

// nodeRef accepts a node reference, or an unattached shape which is added
// to the graph anonymously.
func (st *evalState) nodeRef(s zygo.Sexp) (graph.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *sexpShape:
		return st.addShape("", v.data), nil
	}
	return graph.NodeID{}, fmt.Errorf("expected node reference or shape, got %T (%s)", s, s.SexpString(nil))
}

// material accepts a material value, or a catalog name or material path.
func (st *evalState) material(s zygo.Sexp) (texture.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.m, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return texture.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
	}
	return st.catalog.Resolve(name)
}

func (st *evalState) materials(s zygo.Sexp) ([]texture.Material, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]texture.Material, 0, len(items))
	for i, item := range items {
		m, err := st.material(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// promoteStandalone makes every unreferenced node a root when the program
// declared no group. Nodes keep their declaration order.
func (st *evalState) promoteStandalone() {
	if len(st.g.Roots) > 0 {
		return
	}
	referenced := make(map[graph.NodeID]bool)
	for _, n := range st.g.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	for _, id := range st.order {
		if !referenced[id] {
			st.g.AddRoot(id)
		}
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// shapeKeywords are accepted by every shape builtin.
var shapeKeywords = []string{"bounds", "min", "max", "material", "materials", "options"}

// extraKeywords lists what each kind accepts beyond shapeKeywords.
var extraKeywords = map[graph.ShapeKind][]string{
	graph.ShapeSpike:       {"sides"},
	graph.ShapeCylinder:    {"sides"},
	graph.ShapeFrustum:     {"sides", "top-scale"},
	graph.ShapeSphereGlobe: {"sides"},
	graph.ShapeSphere:      {"power"},
	graph.ShapePrism:       {"sides", "top", "bottom", "prefer-top"},
}

// registerBuiltins installs all brushgen DSL builtins into a zygomys
// environment. The builtins operate on the state's DesignGraph, populating
// it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float32
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat32(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: geom.V3(c[0], c[1], c[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (bounds (vec3 0 0 0) (vec3 64 64 64)) or (bounds 0 0 0 64 64 64)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch len(args) {
		case 2:
			p1, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: first corner: %w", err)
			}
			p2, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: second corner: %w", err)
			}
			return &sexpBounds{b: geom.NewBounds(p1, p2)}, nil
		case 6:
			var c [6]float32
			for i, a := range args {
				f, err := toFloat32(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("bounds: argument %d: %w", i+1, err)
				}
				c[i] = f
			}
			return &sexpBounds{b: geom.NewBounds(geom.V3(c[0], c[1], c[2]), geom.V3(c[3], c[4], c[5]))}, nil
		}
		return zygo.SexpNull, fmt.Errorf("bounds requires 2 corners or 6 numbers, got %d arguments", len(args))
	})

	// -----------------------------------------------------------------------
	// (material "concrete/concretefloor001a" :light-scale 32)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("material", "light-scale"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("material requires a path argument")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: path: %w", err)
		}
		if strings.TrimSpace(path) == "" {
			return zygo.SexpNull, fmt.Errorf("material: path must not be empty")
		}
		m := texture.NewMaterial(path)
		if v, ok := pa.kw["light-scale"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: light-scale: %w", err)
			}
			if n < 1 || n > math.MaxUint8 {
				return zygo.SexpNull, fmt.Errorf("material: light-scale %d out of range [1, %d]", n, math.MaxUint8)
			}
			m = m.WithLightScale(uint8(n))
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (mat "dev-64")
	// -----------------------------------------------------------------------
	env.AddFunction("mat", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mat requires a catalog name")
		}
		n, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mat: %w", err)
		}
		m, err := st.catalog.Lookup(n)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mat: %w", err)
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (options :allow-frac :world-align) or (options :frac-promote true)
	// -----------------------------------------------------------------------
	env.AddFunction("options", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("options", "allow-frac", "frac-promote", "world-align"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("options takes only keywords")
		}
		opts := brush.DefaultOptions()
		for kw, dst := range map[string]*bool{
			"allow-frac":   &opts.AllowFrac,
			"frac-promote": &opts.FracPromote,
			"world-align":  &opts.WorldAlign,
		} {
			v, ok := pa.kw[kw]
			if !ok {
				continue
			}
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("options: %s: %w", kw, err)
			}
			*dst = b
		}
		return &sexpOptions{opts: opts}, nil
	})

	// -----------------------------------------------------------------------
	// (ellipse (vec3 0 0 64) 32) or (ellipse (vec3 0 0 64) 32 16)
	// -----------------------------------------------------------------------
	env.AddFunction("ellipse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("ellipse requires a center and one or two radii")
		}
		c, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ellipse: center: %w", err)
		}
		xr, err := toFloat32(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ellipse: x radius: %w", err)
		}
		yr := xr
		if len(args) == 3 {
			if yr, err = toFloat32(args[2]); err != nil {
				return zygo.SexpNull, fmt.Errorf("ellipse: y radius: %w", err)
			}
		}
		if xr < 0 || yr < 0 {
			return zygo.SexpNull, fmt.Errorf("ellipse: radii must not be negative")
		}
		return &sexpEllipse{e: graph.Ellipse{Center: c, XRadius: xr, YRadius: yr}}, nil
	})

	// -----------------------------------------------------------------------
	// (cube (bounds ...) :material "dev-64")
	// (spike :min (vec3 0 0 0) :max (vec3 64 64 128) :sides 12)
	// (prism :top (ellipse ...) :bottom (ellipse ...) :prefer-top)
	// -----------------------------------------------------------------------
	for kind := graph.ShapeCube; kind <= graph.ShapePrism; kind++ {
		fn := strings.ReplaceAll(kind.String(), "-", "_")
		env.AddFunction(fn, shapeBuiltin(st, kind))
	}

	// -----------------------------------------------------------------------
	// (defshape "crate" (cube ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		body, ok := args[1].(*sexpShape)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defshape: expected shape expression, got %T", args[1])
		}
		if err := st.claim("defshape", shapeName); err != nil {
			return zygo.SexpNull, err
		}
		id := st.addShape(shapeName, body.data)
		return &sexpNodeRef{id: id, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "crate")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}
		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}
		n := st.g.Lookup(shapeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("shape: nothing named %q", shapeName)
		}
		return &sexpNodeRef{id: n.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (shape "crate") :at (vec3 0 0 64))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("place", "at"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a shape reference as first argument")
		}
		childID, err := st.nodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}

		label := childID.Short()
		if child := st.g.Get(childID); child != nil {
			label = child.Label()
		}
		id := graph.NewNodeID("place/" + label + "/" + st.nextNodeSuffix())
		st.add(&graph.Node{
			ID:       id,
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{childID},
			Data:     td,
		})
		return &sexpNodeRef{id: id}, nil
	})

	// -----------------------------------------------------------------------
	// (room "hall" (bounds 0 0 0 512 512 256) :material "dev-wall" :thickness 16)
	// -----------------------------------------------------------------------
	env.AddFunction("room", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("room", "material", "thickness"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("room requires a name and bounds")
		}
		roomName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("room: name: %w", err)
		}
		b, err := toBounds(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("room: %w", err)
		}
		rd := graph.RoomData{Bounds: b}
		if v, ok := pa.kw["material"]; ok {
			if rd.Material, err = st.material(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("room: material: %w", err)
			}
		}
		if v, ok := pa.kw["thickness"]; ok {
			if rd.Thickness, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("room: thickness: %w", err)
			}
			if rd.Thickness <= 0 {
				return zygo.SexpNull, fmt.Errorf("room: thickness must be positive")
			}
		}
		if err := st.claim("room", roomName); err != nil {
			return zygo.SexpNull, err
		}
		id := graph.NewNodeID("room/" + roomName)
		st.add(&graph.Node{ID: id, Kind: graph.NodeRoom, Name: roomName, Data: rd})
		return &sexpNodeRef{id: id, name: roomName}, nil
	})

	// -----------------------------------------------------------------------
	// (group "level" (room ...) (place ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("group", "description"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		gd := graph.GroupData{}
		if v, ok := pa.kw["description"]; ok {
			if gd.Description, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("group: description: %w", err)
			}
		}
		if err := st.claim("group", groupName); err != nil {
			return zygo.SexpNull, err
		}

		var children []graph.NodeID
		for i, arg := range pa.positional[1:] {
			cid, err := st.nodeRef(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i+1, err)
			}
			children = append(children, cid)
		}

		id := graph.NewNodeID(groupName)
		st.add(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     groupName,
			Children: children,
			Data:     gd,
		})
		st.g.AddRoot(id)
		return &sexpNodeRef{id: id, name: groupName}, nil
	})

	// -----------------------------------------------------------------------
	// (defaults :sides 12 :power 2 :material "dev-gray" :options (options ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("defaults", "sides", "power", "material", "options"); err != nil {
			return zygo.SexpNull, err
		}
		d := &st.g.Defaults
		var err error
		if v, ok := pa.kw["sides"]; ok {
			if d.Sides, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: sides: %w", err)
			}
		}
		if v, ok := pa.kw["power"]; ok {
			if d.Power, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: power: %w", err)
			}
		}
		if v, ok := pa.kw["material"]; ok {
			if d.Material, err = st.material(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: material: %w", err)
			}
		}
		if v, ok := pa.kw["options"]; ok {
			if d.Options, err = toOptions(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: options: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})
}

// shapeBuiltin returns the builtin for one shape kind. Bounds come from the
// first positional argument, :bounds, or :min and :max.
func shapeBuiltin(st *evalState, kind graph.ShapeKind) zygo.ZlispUserFunction {
	fn := kind.String()
	allowed := append(append([]string{}, shapeKeywords...), extraKeywords[kind]...)

	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only(fn, allowed...); err != nil {
			return zygo.SexpNull, err
		}
		sd := graph.ShapeData{Kind: kind}

		hasBounds, err := shapeBounds(pa, &sd.Bounds)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		if !hasBounds && kind != graph.ShapePrism {
			return zygo.SexpNull, fmt.Errorf("%s: bounds required", fn)
		}

		if v, ok := pa.kw["material"]; ok {
			m, err := st.material(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: material: %w", fn, err)
			}
			sd.Materials = []texture.Material{m}
		}
		if v, ok := pa.kw["materials"]; ok {
			if sd.Materials, err = st.materials(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: materials: %w", fn, err)
			}
		}
		if v, ok := pa.kw["options"]; ok {
			opts, err := toOptions(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: options: %w", fn, err)
			}
			sd.Options = &opts
		}
		if v, ok := pa.kw["sides"]; ok {
			if sd.Sides, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: sides: %w", fn, err)
			}
		}
		if v, ok := pa.kw["power"]; ok {
			if sd.Power, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: power: %w", fn, err)
			}
		}
		if v, ok := pa.kw["top-scale"]; ok {
			if sd.TopScale, err = toFloat32(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: top-scale: %w", fn, err)
			}
			if sd.TopScale <= 0 || sd.TopScale > 1 {
				return zygo.SexpNull, fmt.Errorf("%s: top-scale %g outside (0, 1]", fn, sd.TopScale)
			}
		}
		if v, ok := pa.kw["prefer-top"]; ok {
			if sd.PreferTop, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: prefer-top: %w", fn, err)
			}
		}
		for _, ring := range []struct {
			kw  string
			dst **graph.Ellipse
		}{{"top", &sd.Top}, {"bottom", &sd.Bottom}} {
			v, ok := pa.kw[ring.kw]
			if !ok {
				continue
			}
			e, err := toEllipse(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %s: %w", fn, ring.kw, err)
			}
			*ring.dst = &e
		}
		if kind == graph.ShapePrism && (sd.Top == nil || sd.Bottom == nil) {
			return zygo.SexpNull, fmt.Errorf("%s: both :top and :bottom ellipses are required", fn)
		}
		return &sexpShape{data: sd}, nil
	}
}

func shapeBounds(pa kwArgs, dst *geom.Bounds) (bool, error) {
	if len(pa.positional) > 1 {
		return false, fmt.Errorf("unexpected positional arguments")
	}
	if len(pa.positional) == 1 {
		b, err := toBounds(pa.positional[0])
		if err != nil {
			return false, err
		}
		*dst = b
		return true, nil
	}
	if v, ok := pa.kw["bounds"]; ok {
		b, err := toBounds(v)
		if err != nil {
			return false, fmt.Errorf("bounds: %w", err)
		}
		*dst = b
		return true, nil
	}
	minV, hasMin := pa.kw["min"]
	maxV, hasMax := pa.kw["max"]
	if !hasMin && !hasMax {
		return false, nil
	}
	if hasMin != hasMax {
		return false, fmt.Errorf(":min and :max must be given together")
	}
	p1, err := toVec3(minV)
	if err != nil {
		return false, fmt.Errorf("min: %w", err)
	}
	p2, err := toVec3(maxV)
	if err != nil {
		return false, fmt.Errorf("max: %w", err)
	}
	*dst = geom.NewBounds(p1, p2)
	return true, nil
}
