package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/brushgen/pkg/graph"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation runs past the engine timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started while this
	// one was running.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult passes evaluation results through channels.
type evalResult struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// generations numbers evaluations. Only the result of the newest one is
// returned; older ones finishing late are dropped.
type generations struct {
	mu sync.Mutex
	n  uint64
}

func (g *generations) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

func (g *generations) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// wait returns the result on ch unless ctx ends or timeout passes first.
// A timed-out or canceled evaluation keeps running in its goroutine; its
// result is discarded because nothing reads ch again.
func wait(ctx context.Context, ch <-chan evalResult, gen uint64, gens *generations, timeout time.Duration) (*graph.DesignGraph, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case res := <-ch:
		if gen != gens.current() {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, nil, fmt.Errorf("evaluation canceled: %w", ctx.Err())
	}
}
