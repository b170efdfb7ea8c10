/*
Package fstreams provides a Go library for pull-based streaming with
backpressure and streaming codecs for structured payloads.

Streaming (pkg/streaming):
  - stream: Reader/Writer stream contracts and functional operations
  - chunk: Re-chunking and cursor primitives for byte and text streams
  - writer: Buffered io.Writer sink and io.Reader source adapters

Codecs (pkg/codec):
  - multipart: Streaming MIME multipart parser and formatter
  - xmlstream: Streaming XML parser and formatter

Adapters (pkg/adapters):
  - redisqueue: Byte-chunk streams over Redis lists

Observability (pkg/metrics):
  - Prometheus instrumentation for readers, writers and codecs

Example usage:

	import (
		"github.com/tchambard/f-streams-async/pkg/codec/multipart"
		"github.com/tchambard/f-streams-async/pkg/streaming/stream"
	)

	src := stream.FromBytes(payload)
	parts, _ := multipart.NewReader(src, contentType)
	_ = stream.Each(ctx, parts, func(ctx context.Context, p *multipart.Part) error {
		body, err := stream.ToSlice(ctx, p.Body)
		if err != nil {
			return err
		}
		return handle(p.Headers, body)
	})
*/
package fstreams
