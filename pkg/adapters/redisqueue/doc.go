// Package redisqueue moves byte-chunk streams through a Redis list, so a
// producer and a consumer on different processes can share one stream.
//
// The sink appends each chunk with RPUSH and marks the end of the stream
// with a sentinel entry; the source pops with BLPOP, blocking until data
// arrives, and turns the sentinel back into the stream end. Chunk boundaries
// are preserved as list entries, which keeps the transported stream usable
// with the chunk-size-independent parsers downstream.
package redisqueue
