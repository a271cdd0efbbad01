// Package app runs the full pipeline from DSL source to brushes and preview
// meshes: evaluate, validate, generate, tessellate.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chazu/brushgen/pkg/config"
	"github.com/chazu/brushgen/pkg/diag"
	"github.com/chazu/brushgen/pkg/engine"
	"github.com/chazu/brushgen/pkg/generate"
	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/kernel"
	"github.com/chazu/brushgen/pkg/kernel/polytope"
	"github.com/chazu/brushgen/pkg/kernel/sdfx"
	"github.com/chazu/brushgen/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to brushes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ErrNoSTL is returned by ExportSTL when the kernel cannot write STL files.
var ErrNoSTL = errors.New("app: kernel cannot export STL")

// STLWriter is implemented by kernels that can write a solid to disk.
type STLWriter interface {
	SaveSTL(path string, s kernel.Solid) error
}

// App ties the engine, generator and preview kernel together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *log.Logger
}

// Option configures an App.
type Option func(*App)

// WithKernel replaces the configured preview kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(a *App) { a.kernel = k }
}

// WithLogger sends pipeline logs to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates an App from a validated config. A nil config means
// config.Default.
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	a := &App{
		engine: engine.NewEngine(
			engine.WithCatalog(cfg.Catalog()),
			engine.WithDefaults(cfg.GraphDefaults()),
			engine.WithTimeout(cfg.Timeout()),
		),
		kernel: previewKernel(cfg.Preview),
		logger: log.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func previewKernel(p config.PreviewConfig) kernel.Kernel {
	if p.Kernel == config.KernelExact {
		return polytope.New()
	}
	return sdfx.NewWithCells(p.MeshCells)
}

// MeshData is the JSON-serializable preview mesh of one brush.
type MeshData struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	BrushName string    `json:"brushName"`
	Color     string    `json:"color"`
}

// Message is an error or warning tied to a source line or a graph node.
type Message struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

func (m Message) String() string {
	switch {
	case m.Line > 0:
		return fmt.Sprintf("line %d: %s", m.Line, m.Message)
	case m.Node != "":
		return fmt.Sprintf("%s: %s", m.Node, m.Message)
	}
	return m.Message
}

// Result is everything one evaluation produced. Slices are never nil so
// JSON encodes them as [].
type Result struct {
	Graph       *graph.DesignGraph `json:"-"`
	Brushes     []generate.Brush   `json:"brushes"`
	Meshes      []MeshData         `json:"meshes"`
	Errors      []Message          `json:"errors"`
	Warnings    []Message          `json:"warnings"`
	Diagnostics []diag.Diagnostic  `json:"diagnostics"`
}

// OK reports whether the evaluation produced no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Stats counts the generated geometry.
type Stats struct {
	Solids        int `json:"solids"`
	Faces         int `json:"faces"`
	Displacements int `json:"displacements"`
}

// Stats summarizes the brushes in r.
func (r Result) Stats() Stats {
	var s Stats
	for _, b := range r.Brushes {
		s.Solids++
		s.Faces += len(b.Solid.Sides)
		for _, side := range b.Solid.Sides {
			if side.Disp != nil {
				s.Displacements++
			}
		}
	}
	return s
}

func newResult() Result {
	return Result{
		Brushes:     []generate.Brush{},
		Meshes:      []MeshData{},
		Errors:      []Message{},
		Warnings:    []Message{},
		Diagnostics: []diag.Diagnostic{},
	}
}

func (r *Result) fail(msg string) Result {
	r.Errors = append(r.Errors, Message{Message: msg})
	return *r
}

// Evaluate is EvaluateContext with a background context.
func (a *App) Evaluate(source string) Result {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext runs source through the engine, validates the graph and
// generates brushes. It does not mesh them; see Preview.
func (a *App) EvaluateContext(ctx context.Context, source string) Result {
	result := newResult()

	// Step 1: Evaluate the Lisp source into a design graph.
	g, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Printf("Evaluate fatal error: %v", err)
		return result.fail(err.Error())
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Message{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	result.Graph = g

	// Step 2: Validate. Errors block generation; warnings are passed through.
	vr := graph.ValidateAll(g)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, Message{Node: nodeLabel(g, w.NodeID), Message: w.Message})
	}
	if len(vr.Errors) > 0 {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, Message{Node: nodeLabel(g, e.NodeID), Message: e.Message})
		}
		return result
	}

	// Step 3: Generate brushes, collecting every clamp the builders make.
	var collected diag.Collector
	brushes, err := generate.Generate(g, diag.Tee(&collected, diag.LogSink{Logger: a.logger}))
	result.Diagnostics = append(result.Diagnostics, collected.Diagnostics()...)
	if err != nil {
		a.logger.Printf("Generate error: %v", err)
		return result.fail(err.Error())
	}
	result.Brushes = append(result.Brushes, brushes...)
	return result
}

// Preview is Evaluate followed by tessellation of every brush.
func (a *App) Preview(source string) Result {
	return a.PreviewContext(context.Background(), source)
}

// PreviewContext is EvaluateContext followed by tessellation.
func (a *App) PreviewContext(ctx context.Context, source string) Result {
	result := a.EvaluateContext(ctx, source)
	if !result.OK() {
		return result
	}

	meshes, err := tessellate.Tessellate(result.Brushes, a.kernel)
	if err != nil {
		a.logger.Printf("Tessellate error: %v", err)
		return result.fail("tessellation failed: " + err.Error())
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices:  m.Vertices,
			Normals:   m.Normals,
			Indices:   m.Indices,
			BrushName: m.Name,
			Color:     colorPalette[i%len(colorPalette)],
		})
	}
	return result
}

// ExportSTL unions brushes and writes them to path as one STL file.
func (a *App) ExportSTL(path string, brushes []generate.Brush) error {
	w, ok := a.kernel.(STLWriter)
	if !ok {
		return ErrNoSTL
	}
	solid, err := tessellate.Merge(brushes, a.kernel)
	if err != nil {
		return err
	}
	if err := w.SaveSTL(path, solid); err != nil {
		return err
	}
	a.logger.Printf("wrote %d brushes to %s", len(brushes), path)
	return nil
}

func nodeLabel(g *graph.DesignGraph, id graph.NodeID) string {
	if id.IsZero() {
		return ""
	}
	if n := g.Get(id); n != nil {
		return n.Label()
	}
	return id.Short()
}
