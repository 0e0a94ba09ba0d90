package interp

import (
	"fmt"
	"io"
)

// StderrTracer is the Tracer implementation behind the CLI's --trace
// flag (SPEC_FULL.md §4).
type StderrTracer struct {
	w io.Writer
}

// NewStderrTracer builds a Tracer that writes one line per event to w.
func NewStderrTracer(w io.Writer) *StderrTracer {
	return &StderrTracer{w: w}
}

func (t *StderrTracer) Line(path string, line int) {
	fmt.Fprintf(t.w, "[trace] %s:%d\n", path, line)
}

func (t *StderrTracer) Call(name string, callSite int) {
	fmt.Fprintf(t.w, "[trace] call %s (from line %d)\n", name, callSite)
}

func (t *StderrTracer) Return(name string) {
	fmt.Fprintf(t.w, "[trace] return %s\n", name)
}
