// Package trace provides the tracing subsystem of the kira compiler.
//
// Tracing follows compilation stages (lex, parse, irgen, frame planning,
// emission) and per-function work, which helps to see where a slow or
// failing build spends its time.
//
// # Usage
//
//	kira build --trace=- --trace-level=phase main.c
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failures
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-function events
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "irgen")
//	defer span.End("")
package trace
