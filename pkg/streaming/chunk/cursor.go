package chunk

import (
	"context"
	"io"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// Cursor adapts a byte-chunk stream into a sized-read, buffered scanner.
// It is the single owning handle over the underlying source: codec state
// machines funnel every boundary and delimiter decision through one cursor
// so that no two readers ever race on the same source.
type Cursor struct {
	src  stream.Reader[[]byte]
	buf  []byte
	done bool
	err  error
}

// NewCursor creates a cursor over src.
func NewCursor(src stream.Reader[[]byte]) *Cursor {
	return &Cursor{src: src}
}

// Fill pulls one more chunk from the source into the buffer. It reports
// false once the source is exhausted. Empty chunks are skipped.
func (c *Cursor) Fill(ctx context.Context) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	for {
		if c.done {
			return false, nil
		}
		v, ok, err := c.src.Read(ctx)
		if err != nil {
			c.err = fserrors.NewUpstreamError("read", err)
			return false, c.err
		}
		if !ok {
			c.done = true
			return false, nil
		}
		if len(v) == 0 {
			continue
		}
		c.buf = append(c.buf, v...)
		return true, nil
	}
}

// Buffered returns the bytes currently available without further reads.
// The slice is only valid until the next Fill or Skip.
func (c *Cursor) Buffered() []byte {
	return c.buf
}

// Skip consumes n buffered bytes. n must not exceed len(Buffered()).
func (c *Cursor) Skip(n int) {
	c.buf = c.buf[n:]
}

// Exhausted reports whether the source has ended and the buffer is empty.
func (c *Cursor) Exhausted() bool {
	return c.done && len(c.buf) == 0
}

// Ensure fills until at least n bytes are buffered. It returns
// io.ErrUnexpectedEOF if the source ends first.
func (c *Cursor) Ensure(ctx context.Context, n int) error {
	for len(c.buf) < n {
		ok, err := c.Fill(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

// ReadLine consumes and returns one line, accepting CRLF or bare LF and
// stripping the terminator. It returns io.ErrUnexpectedEOF if the source
// ends before a terminator is seen.
func (c *Cursor) ReadLine(ctx context.Context) (string, error) {
	start := 0
	for {
		for i := start; i < len(c.buf); i++ {
			if c.buf[i] == '\n' {
				line := c.buf[:i]
				if i > 0 && c.buf[i-1] == '\r' {
					line = c.buf[:i-1]
				}
				out := string(line)
				c.Skip(i + 1)
				return out, nil
			}
		}
		start = len(c.buf)
		ok, err := c.Fill(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", io.ErrUnexpectedEOF
		}
	}
}
