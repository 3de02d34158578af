// Package trace records structured events from the tccl driver and the two
// compiler passes.
//
// Enable it from the command line:
//
//	tccl build --trace=- --trace-level=phase prog.ast
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase shows driver and pass spans, detail adds
// per-file events, debug adds one point per visited AST node.
//
// Propagation through the build pipeline uses context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
//	defer span.End("")
package trace
