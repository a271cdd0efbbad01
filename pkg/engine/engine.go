// Package engine provides the Lisp evaluation engine for brushgen.
// It wraps zygomys in a sandboxed environment and produces a DesignGraph
// from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/brushgen/pkg/graph"
	"github.com/chazu/brushgen/pkg/texture"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for brushgen evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	gens generations

	catalog  texture.Catalog
	defaults graph.GlobalDefaults
	timeout  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the materials the mat builtin can name.
func WithCatalog(c texture.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithDefaults sets the defaults every evaluated graph starts from.
func WithDefaults(d graph.GlobalDefaults) Option {
	return func(e *Engine) { e.defaults = d }
}

// WithTimeout replaces EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:  texture.DefaultCatalog(),
		defaults: graph.New().Defaults,
		timeout:  EvalTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate is EvaluateContext with a background context.
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext takes Lisp source code and produces a new DesignGraph.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure: returns nil + nil + error, which wraps ErrTimeout,
//     ErrSuperseded, the context's error or a recovered panic
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*graph.DesignGraph, []EvalError, error) {
	gen := e.gens.next()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		g, evalErrs, err := e.evaluate(source, gen)
		ch <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	return wait(ctx, ch, gen, &e.gens, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	g := graph.New()
	g.Defaults = e.defaults
	g.Version = gen

	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return g, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := newEvalState(g, e.catalog)
	registerBuiltins(env, st)

	// Load and compile the source string into bytecode.
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	// Execute the compiled bytecode.
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	st.promoteStandalone()
	return g, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
