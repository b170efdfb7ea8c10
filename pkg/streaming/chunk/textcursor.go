package chunk

import (
	"context"
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// TextCursor is the text counterpart of Cursor: a buffered, byte-level
// scanner over a text-chunk stream, owned by a single tokenizer.
type TextCursor struct {
	src  stream.Reader[string]
	buf  string
	done bool
	err  error
}

// NewTextCursor creates a text cursor over src.
func NewTextCursor(src stream.Reader[string]) *TextCursor {
	return &TextCursor{src: src}
}

func (c *TextCursor) fill(ctx context.Context) (bool, error) {
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
		c.buf += v
		return true, nil
	}
}

func (c *TextCursor) ensure(ctx context.Context, n int) (bool, error) {
	for len(c.buf) < n {
		ok, err := c.fill(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Peek returns the next byte without consuming it. ok is false once the
// source is exhausted.
func (c *TextCursor) Peek(ctx context.Context) (byte, bool, error) {
	ok, err := c.ensure(ctx, 1)
	if err != nil || !ok {
		return 0, false, err
	}
	return c.buf[0], true, nil
}

// Next consumes and returns the next byte.
func (c *TextCursor) Next(ctx context.Context) (byte, bool, error) {
	b, ok, err := c.Peek(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	c.buf = c.buf[1:]
	return b, true, nil
}

// Skip consumes n buffered bytes.
func (c *TextCursor) Skip(n int) {
	c.buf = c.buf[n:]
}

// HasPrefix reports whether the upcoming bytes start with s, filling as
// needed. It consumes nothing.
func (c *TextCursor) HasPrefix(ctx context.Context, s string) (bool, error) {
	ok, err := c.ensure(ctx, len(s))
	if err != nil || !ok {
		return false, err
	}
	return strings.HasPrefix(c.buf, s), nil
}

// ReadUntilByte accumulates bytes up to (not including) the first occurrence
// of stop, which is left unconsumed. found is false if the source ends
// before stop appears; the partial content is still returned.
func (c *TextCursor) ReadUntilByte(ctx context.Context, stop byte) (content string, found bool, err error) {
	from := 0
	for {
		if i := strings.IndexByte(c.buf[from:], stop); i >= 0 {
			out := c.buf[:from+i]
			c.buf = c.buf[from+i:]
			return out, true, nil
		}
		from = len(c.buf)
		ok, err := c.fill(ctx)
		if err != nil {
			return "", false, err
		}
		if !ok {
			out := c.buf
			c.buf = ""
			return out, false, nil
		}
	}
}

// ReadUntilSeq accumulates bytes up to the first occurrence of seq and
// consumes both the content and seq itself. found is false if the source
// ends before seq appears.
func (c *TextCursor) ReadUntilSeq(ctx context.Context, seq string) (content string, found bool, err error) {
	from := 0
	for {
		if i := strings.Index(c.buf[from:], seq); i >= 0 {
			out := c.buf[:from+i]
			c.buf = c.buf[from+i+len(seq):]
			return out, true, nil
		}
		// Keep a tail shorter than seq so a straddling match is still found.
		from = len(c.buf) - (len(seq) - 1)
		if from < 0 {
			from = 0
		}
		ok, err := c.fill(ctx)
		if err != nil {
			return "", false, err
		}
		if !ok {
			out := c.buf
			c.buf = ""
			return out, false, nil
		}
	}
}
