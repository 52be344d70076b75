package regalloc

import "cprizm/internal/ir"

// Tracer records intermediate allocator state for diagnostics (the CLI's -v
// flag prints these as a sequence of textual snapshots). Grounded on
// debug_ctx.rs's DebugContext/Step, replacing its two fixed variants with
// an interface so callers can plug in their own sink (stderr, a file, or a
// no-op in production builds).
type Tracer interface {
	State(fn *ir.FunctionDefinition)
	Spill(v ir.Variable)
}

// NoopTracer discards every event; it's the default when tracing isn't
// requested.
type NoopTracer struct{}

func (NoopTracer) State(*ir.FunctionDefinition) {}
func (NoopTracer) Spill(ir.Variable)            {}

// RecordingTracer keeps every event in memory in the order recorded, for
// tests and for the CLI's -v output.
type RecordingTracer struct {
	Steps []TraceStep
}

// TraceStep is one recorded event: exactly one of Function or Spilled is
// set, discriminating a full-function snapshot from a single spill.
type TraceStep struct {
	Function *string
	Spilled  *ir.Variable
}

func (t *RecordingTracer) State(fn *ir.FunctionDefinition) {
	text := ir.PrintFunction(fn)
	t.Steps = append(t.Steps, TraceStep{Function: &text})
}

func (t *RecordingTracer) Spill(v ir.Variable) {
	t.Steps = append(t.Steps, TraceStep{Spilled: &v})
}
