// Package trace records what a lowering run is doing, from the driver down
// to single rewrite attempts. It is the tool for passes that stall or fail
// to converge.
//
//	hilo lower --trace=- --trace-level=detail input.hlpack
//
// Every event has a Scope (driver, pass, sweep, pattern) and a tracer's
// Level admits the scopes up to its deepest one. LevelError streams nothing
// and instead keeps sweeps in a ring buffer that the CLI prints after a
// failed run.
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "conversion")
//	defer span.EndErr(err)
//
// Start parents the new span on the one already in ctx.
package trace
