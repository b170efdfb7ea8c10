package stream

import (
	"bytes"
	"context"
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
)

// Buffer is an in-memory byte sink. It collects every written chunk and
// exposes the accumulated bytes once the producer has signalled End.
type Buffer struct {
	buf   bytes.Buffer
	ended bool
}

// NewBuffer creates an empty in-memory byte sink.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Write implements Writer.
func (b *Buffer) Write(ctx context.Context, chunk []byte) error {
	if b.ended {
		return fserrors.ErrEnded
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	b.buf.Write(chunk)
	return nil
}

// End implements Writer.
func (b *Buffer) End(_ context.Context) error {
	b.ended = true
	return nil
}

// Bytes returns the accumulated content.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// String returns the accumulated content as a string.
func (b *Buffer) String() string {
	return b.buf.String()
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// TextBuffer is an in-memory text sink, the string counterpart of Buffer.
type TextBuffer struct {
	sb    strings.Builder
	ended bool
}

// NewTextBuffer creates an empty in-memory text sink.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{}
}

// Write implements Writer.
func (b *TextBuffer) Write(ctx context.Context, chunk string) error {
	if b.ended {
		return fserrors.ErrEnded
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	b.sb.WriteString(chunk)
	return nil
}

// End implements Writer.
func (b *TextBuffer) End(_ context.Context) error {
	b.ended = true
	return nil
}

// String returns the accumulated content.
func (b *TextBuffer) String() string {
	return b.sb.String()
}

// TextWriter adapts a byte-chunk sink into a text-chunk sink.
func TextWriter(dst Writer[[]byte]) Writer[string] {
	return textWriter{dst: dst}
}

type textWriter struct {
	dst Writer[[]byte]
}

func (w textWriter) Write(ctx context.Context, chunk string) error {
	return w.dst.Write(ctx, []byte(chunk))
}

func (w textWriter) End(ctx context.Context) error {
	return w.dst.End(ctx)
}

// SliceSink collects every written element in order.
type SliceSink[T any] struct {
	items []T
	ended bool
}

// NewSliceSink creates an empty slice sink.
func NewSliceSink[T any]() *SliceSink[T] {
	return &SliceSink[T]{}
}

// Write implements Writer.
func (s *SliceSink[T]) Write(ctx context.Context, v T) error {
	if s.ended {
		return fserrors.ErrEnded
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.items = append(s.items, v)
	return nil
}

// End implements Writer.
func (s *SliceSink[T]) End(_ context.Context) error {
	s.ended = true
	return nil
}

// Items returns the collected elements.
func (s *SliceSink[T]) Items() []T {
	return s.items
}

// Discard returns a writer that accepts and drops every element.
func Discard[T any]() Writer[T] {
	return discard[T]{}
}

type discard[T any] struct{}

func (discard[T]) Write(_ context.Context, _ T) error { return nil }
func (discard[T]) End(_ context.Context) error        { return nil }
