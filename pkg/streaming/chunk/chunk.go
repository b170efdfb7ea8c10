package chunk

import (
	"context"

	"github.com/tchambard/f-streams-async/pkg/common/validation"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// Rechunk re-slices a byte-chunk stream into pieces of at most size bytes.
// The byte sequence is unchanged; only the chunk boundaries move. size must
// be positive.
func Rechunk(src stream.Reader[[]byte], size int) stream.Reader[[]byte] {
	if err := validation.ValidatePositive("chunk", "size", size); err != nil {
		return failed[[]byte](err)
	}
	r := &rechunker[[]byte]{src: src, size: size}
	return stream.ReaderFunc[[]byte](r.read)
}

// RechunkString is Rechunk over a text-chunk stream.
func RechunkString(src stream.Reader[string], size int) stream.Reader[string] {
	if err := validation.ValidatePositive("chunk", "size", size); err != nil {
		return failed[string](err)
	}
	r := &rechunker[string]{src: src, size: size}
	return stream.ReaderFunc[string](r.read)
}

func failed[T any](err error) stream.Reader[T] {
	return stream.ReaderFunc[T](func(_ context.Context) (T, bool, error) {
		var zero T
		return zero, false, err
	})
}

type chunkLike interface {
	~[]byte | ~string
}

type rechunker[T chunkLike] struct {
	src  stream.Reader[T]
	size int
	rest T
	done bool
	err  error
}

func (r *rechunker[T]) read(ctx context.Context) (T, bool, error) {
	var zero T
	if r.err != nil {
		return zero, false, r.err
	}
	for len(r.rest) == 0 {
		if r.done {
			return zero, false, nil
		}
		v, ok, err := r.src.Read(ctx)
		if err != nil {
			r.err = err
			return zero, false, err
		}
		if !ok {
			r.done = true
			return zero, false, nil
		}
		r.rest = v
	}
	if len(r.rest) <= r.size {
		out := r.rest
		r.rest = zero
		return out, true, nil
	}
	out := r.rest[:r.size]
	r.rest = r.rest[r.size:]
	return out, true, nil
}
