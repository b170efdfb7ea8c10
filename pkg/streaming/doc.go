/*
Package streaming offers a new take on streaming data, providing higher-level
abstractions than standard Go readers and writers.

This package provides three main streaming components:

  - stream: Pull-based Reader/Writer stream contracts with backpressure
  - chunk: Re-chunking and cursor primitives over byte and text streams
  - writer: Buffered bridge between streams and the io package

Basic usage:

	// Pull elements out of a stream
	r := stream.FromSlice(items)
	for {
		v, ok, err := r.Read(ctx)
		if err != nil || !ok {
			break
		}
		process(v)
	}

Streams are lazy: nothing is produced until a consumer asks for it, and a
producer writing into a pipe suspends until the consumer catches up. All
operations support error propagation and cancellation through
context.Context.
*/
package streaming
