package stream

import "context"

// FromSlice creates a reader delivering the items of a slice in order.
func FromSlice[T any](items []T) Reader[T] {
	return &sliceReader[T]{items: items}
}

type sliceReader[T any] struct {
	items []T
	index int
}

// Read implements Reader.
func (r *sliceReader[T]) Read(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}
	if r.index >= len(r.items) {
		return zero, false, nil
	}
	v := r.items[r.index]
	r.index++
	return v, true, nil
}

// FromBytes creates a byte-chunk reader over an in-memory buffer. The whole
// buffer is delivered as a single chunk; compose with chunk.Rechunk to
// simulate smaller reads. An empty buffer yields an immediately exhausted
// stream.
func FromBytes(b []byte) Reader[[]byte] {
	if len(b) == 0 {
		return Empty[[]byte]()
	}
	return FromSlice([][]byte{b})
}

// FromString creates a text-chunk reader over an in-memory string.
func FromString(s string) Reader[string] {
	if s == "" {
		return Empty[string]()
	}
	return FromSlice([]string{s})
}

// Empty creates a reader that is exhausted from the start.
func Empty[T any]() Reader[T] {
	return ReaderFunc[T](func(_ context.Context) (T, bool, error) {
		var zero T
		return zero, false, nil
	})
}

// BytesToString converts a byte-chunk stream into a text-chunk stream.
// Chunks are converted verbatim; the source must not split multi-byte
// sequences across chunks if the consumer decodes runes.
func BytesToString(src Reader[[]byte]) Reader[string] {
	return Map(src, func(_ context.Context, b []byte) (string, error) {
		return string(b), nil
	})
}

// StringToBytes converts a text-chunk stream into a byte-chunk stream.
func StringToBytes(src Reader[string]) Reader[[]byte] {
	return Map(src, func(_ context.Context, s string) ([]byte, error) {
		return []byte(s), nil
	})
}
