// Package trace records what an analysis run is doing: passes, files, parser
// recovery and per-file failures.
//
// Enable tracing from the command line:
//
//	xqlint analyze --trace=- --trace-level=detail src/
//
// StreamTracer writes events as they happen, RingTracer keeps the last few
// thousand in memory for crash dumps and MultiTracer combines them.
//
// Levels: off, error (failures only), phase (driver and passes), detail (files),
// debug (parser and checks). Failure events pass every level except off.
//
// The tracer and the innermost open span travel with the context, so spans
// started further down nest under their caller's:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "map")
//	defer span.End("")
//
// Code that takes options instead of a context passes trace.ParentID(ctx).
package trace
