package diag

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestCollector(t *testing.T) {
	var c Collector
	Reportf(&c, "ellipse", 2, 3, "sides clamped")
	Report(&c, Diagnostic{Source: "sphere", Message: "power clamped", Original: "7", Corrected: "4"})

	got := c.Diagnostics()
	if len(got) != 2 {
		t.Fatalf("collected %d diagnostics, want 2", len(got))
	}
	if got[0].Original != "2" || got[0].Corrected != "3" {
		t.Errorf("first diagnostic = %+v", got[0])
	}
	if s := got[1].String(); s != "sphere: power clamped (7 -> 4)" {
		t.Errorf("String() = %q", s)
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len after Reset = %d", c.Len())
	}
}

func TestNilSinkIsIgnored(t *testing.T) {
	// Must not panic.
	Report(nil, Diagnostic{Source: "x"})
	Reportf(nil, "x", 1, 2, "msg")
	Discard.Report(Diagnostic{})
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.New(&buf, "", 0)}
	sink.Report(Diagnostic{Source: "ellipse", Message: "sides clamped", Original: "2", Corrected: "3"})
	if !strings.Contains(buf.String(), "warning: ellipse: sides clamped (2 -> 3)") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestTee(t *testing.T) {
	var a, b Collector
	s := Tee(&a, nil, &b)
	s.Report(Diagnostic{Source: "x", Message: "y"})
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("tee delivered %d and %d, want 1 and 1", a.Len(), b.Len())
	}
}
