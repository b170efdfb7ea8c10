package multipart

import (
	"bytes"
	"context"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// NewWriter creates a multipart formatter over a byte-chunk sink, the
// inverse of NewReader. Each written Part is emitted as its boundary line,
// header block (insertion order, CRLF line endings), blank line and drained
// body; End emits the closing boundary marker and ends the sink.
//
// For any payload produced by this formatter, parsing it and formatting the
// parts again reproduces the payload byte for byte.
func NewWriter(sink stream.Writer[[]byte], contentType string) (stream.Writer[*Part], error) {
	subtype, boundary, err := ParseContentType(contentType)
	if err != nil {
		return nil, err
	}
	prefix, err := delimiterPrefix(subtype, boundary)
	if err != nil {
		return nil, err
	}
	return &formatter{sink: sink, prefix: prefix}, nil
}

type formatter struct {
	sink   stream.Writer[[]byte]
	prefix string
	ended  bool
	err    error
}

// Write implements stream.Writer[*Part]. The part's body is drained into the
// sink before Write returns; the caller must not read it afterwards.
func (f *formatter) Write(ctx context.Context, part *Part) error {
	if f.err != nil {
		return f.err
	}
	if f.ended {
		return fserrors.ErrEnded
	}
	var head bytes.Buffer
	head.WriteString(f.prefix)
	head.WriteString("\r\n")
	for _, name := range part.Headers.Names() {
		head.WriteString(name)
		head.WriteString(": ")
		head.WriteString(part.Headers.Get(name))
		head.WriteString("\r\n")
	}
	head.WriteString("\r\n")
	if err := f.sink.Write(ctx, head.Bytes()); err != nil {
		return f.fail(err)
	}
	err := stream.Each(ctx, part.Body, func(ctx context.Context, chunk []byte) error {
		return f.sink.Write(ctx, chunk)
	})
	if err != nil {
		return f.fail(err)
	}
	if err := f.sink.Write(ctx, []byte("\r\n")); err != nil {
		return f.fail(err)
	}
	return nil
}

// End implements stream.Writer[*Part].
func (f *formatter) End(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	if f.ended {
		return nil
	}
	f.ended = true
	if err := f.sink.Write(ctx, []byte(f.prefix+"--\r\n")); err != nil {
		return f.fail(err)
	}
	return f.sink.End(ctx)
}

func (f *formatter) fail(err error) error {
	f.err = err
	return err
}
