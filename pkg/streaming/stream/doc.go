// Package stream provides the pull-based stream abstraction the
// f-streams-async engine is built on: a suspend-capable Reader/Writer pair
// and the composition operators that connect them.
//
// # Model
//
// A Reader produces one element per Read call; a Writer accepts one element
// per Write call. Both suspend the caller (honouring context cancellation)
// until the counterpart is ready, so backpressure falls out of the model:
// within one pipeline elements are delivered in strict production order with
// no speculative read-ahead. Exactly one logical consumer drives a reader,
// and exactly one producer drives a writer.
//
// Exhaustion is a first-class state, not an error: Read reports it with
// ok == false and keeps reporting it on every later call. A failed reader is
// equally sticky, returning the same error on every later call instead of
// hanging.
//
// # Composition
//
// Map applies a per-element function lazily. Transform hands a source reader
// and a sink writer to a stage function that runs exactly once and may
// implement an arbitrary state machine between them; the codec packages are
// built entirely out of Transform stages. Each, PipeTo and ToSlice are the
// drain operations errors propagate to.
//
// Example:
//
//	src := stream.FromSlice([]int{1, 2, 3})
//	doubled := stream.Map(src, func(_ context.Context, v int) (int, error) {
//		return v * 2, nil
//	})
//	values, err := stream.ToSlice(ctx, doubled)
//
// Sources (FromSlice, FromBytes, FromString) and sinks (Buffer, TextBuffer,
// SliceSink, Discard) cover the in-memory adapters; anything exposing the
// Read/Write contract can participate in a pipeline.
package stream
