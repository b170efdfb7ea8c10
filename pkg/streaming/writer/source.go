package writer

import (
	"context"
	"errors"
	"io"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/common/validation"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// FromReader adapts an io.Reader into a stream of byte chunks of at most
// chunkSize bytes. io.EOF becomes the end marker; any other read error is
// reported as an upstream failure.
func FromReader(r io.Reader, chunkSize int) (stream.Reader[[]byte], error) {
	if err := validation.ValidatePositive("writer", "chunkSize", chunkSize); err != nil {
		return nil, err
	}
	return &readerSource{r: r, size: chunkSize}, nil
}

type readerSource struct {
	r    io.Reader
	size int
	done bool
	err  error
}

func (s *readerSource) Read(ctx context.Context) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if s.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	buf := make([]byte, s.size)
	n, err := s.r.Read(buf)
	if n > 0 {
		if errors.Is(err, io.EOF) {
			s.done = true
		}
		return buf[:n], true, nil
	}
	if errors.Is(err, io.EOF) {
		s.done = true
		return nil, false, nil
	}
	if err == nil {
		// Zero-byte read without error; try again on the next call.
		return s.Read(ctx)
	}
	s.err = fserrors.NewUpstreamError("read", err)
	return nil, false, s.err
}
