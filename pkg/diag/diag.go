// Package diag carries advisory diagnostics out of the geometry builders.
// A diagnostic reports a value that was clamped or corrected so generation
// could continue; it never changes whether a call succeeds.
package diag

import (
	"fmt"
	"log"
	"sync"
)

// Diagnostic describes one corrected input.
type Diagnostic struct {
	Source    string `json:"source"`    // builder that made the correction, e.g. "ellipse"
	Message   string `json:"message"`   // human-readable explanation
	Original  string `json:"original"`  // requested value
	Corrected string `json:"corrected"` // value actually used
}

func (d Diagnostic) String() string {
	if d.Original == "" && d.Corrected == "" {
		return fmt.Sprintf("%s: %s", d.Source, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s -> %s)", d.Source, d.Message, d.Original, d.Corrected)
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Report sends d to s, doing nothing when s is nil.
func Report(s Sink, d Diagnostic) {
	if s == nil {
		return
	}
	s.Report(d)
}

// Reportf is Report with a formatted message.
func Reportf(s Sink, source string, original, corrected any, format string, args ...any) {
	if s == nil {
		return
	}
	s.Report(Diagnostic{
		Source:    source,
		Message:   fmt.Sprintf(format, args...),
		Original:  fmt.Sprint(original),
		Corrected: fmt.Sprint(corrected),
	})
}

// Collector keeps every diagnostic it receives. The zero value is ready to
// use and safe for concurrent reporting.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Reset drops everything collected.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// LogSink writes each diagnostic as a warning line on a standard logger.
type LogSink struct {
	Logger *log.Logger // nil means the standard logger
}

// Report implements Sink.
func (l LogSink) Report(d Diagnostic) {
	if l.Logger == nil {
		log.Printf("warning: %s", d)
		return
	}
	l.Logger.Printf("warning: %s", d)
}

// Tee fans a diagnostic out to several sinks. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Report(d Diagnostic) {
	for _, s := range t {
		Report(s, d)
	}
}
