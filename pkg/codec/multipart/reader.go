package multipart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/chunk"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// partState tracks the lifecycle of the current part's body, owned by the
// parser so the outer stream can enforce the exhaustion handshake.
type partState int

const (
	partPending partState = iota
	partDelivering
	partExhausted
)

// NewReader creates a multipart parser over a raw byte-chunk stream. The
// boundary is extracted once from contentType and used for the lifetime of
// this parse. The returned reader yields one Part per segment, in document
// order; each Part's body is a nested reader served from the same underlying
// cursor.
//
// Advancing the outer reader while the current body is unread discards the
// remaining body bytes first, so the shared cursor always sits on a part
// boundary. Terminal reads are idempotent on both the outer stream and the
// bodies, for both subtypes.
func NewReader(src stream.Reader[[]byte], contentType string) (stream.Reader[*Part], error) {
	subtype, boundary, err := ParseContentType(contentType)
	if err != nil {
		return nil, err
	}
	prefix, err := delimiterPrefix(subtype, boundary)
	if err != nil {
		return nil, err
	}
	return &parser{
		cur:    chunk.NewCursor(src),
		prefix: prefix,
		delim:  []byte("\r\n" + prefix),
	}, nil
}

type parser struct {
	cur      *chunk.Cursor
	prefix   string
	delim    []byte
	current  *partBody
	started  bool
	finished bool
	err      error
}

// Read implements stream.Reader[*Part].
func (p *parser) Read(ctx context.Context) (*Part, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.finished {
		return nil, false, nil
	}
	if !p.started {
		if err := p.consumeOpener(ctx); err != nil {
			p.err = err
			return nil, false, err
		}
	} else if p.current != nil && p.current.state != partExhausted {
		// Parent-owned discard: the consumer abandoned the body, so the
		// parser drains it to the next boundary before advancing.
		if err := p.current.discard(ctx); err != nil {
			return nil, false, err
		}
	}
	if p.finished {
		return nil, false, nil
	}
	headers, err := p.readHeaderBlock(ctx)
	if err != nil {
		p.err = err
		return nil, false, err
	}
	body := &partBody{p: p, state: partPending}
	p.current = body
	return &Part{Headers: headers, Body: body}, true, nil
}

func (p *parser) consumeOpener(ctx context.Context) error {
	p.started = true
	line, err := p.cur.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fserrors.NewProtocolError(codecName, "missing opening boundary")
		}
		return err
	}
	switch line {
	case p.prefix:
		return nil
	case p.prefix + "--":
		p.finished = true
		return nil
	default:
		return fserrors.NewProtocolError(codecName, "expected boundary %q, got %q", p.prefix, line)
	}
}

func (p *parser) readHeaderBlock(ctx context.Context) (*Headers, error) {
	headers := NewHeaders()
	for {
		line, err := p.cur.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fserrors.NewProtocolError(codecName, "truncated header block")
			}
			return nil, err
		}
		if line == "" {
			return headers, nil
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return nil, fserrors.NewProtocolError(codecName, "malformed header line %q", line)
		}
		name := strings.TrimSpace(line[:colon])
		if name == "" {
			return nil, fserrors.NewProtocolError(codecName, "empty header name in line %q", line)
		}
		headers.Set(name, strings.TrimSpace(line[colon+1:]))
	}
}

// afterDelimiter consumes what follows a boundary delimiter: "--" closes the
// whole stream, CRLF announces the next part.
func (p *parser) afterDelimiter(ctx context.Context) error {
	if err := p.cur.Ensure(ctx, 2); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fserrors.NewProtocolError(codecName, "truncated boundary line")
		}
		return err
	}
	buf := p.cur.Buffered()
	switch {
	case buf[0] == '-' && buf[1] == '-':
		p.cur.Skip(2)
		p.finished = true
		return p.consumeOptionalNewline(ctx)
	case buf[0] == '\r' && buf[1] == '\n':
		p.cur.Skip(2)
		return nil
	case buf[0] == '\n':
		p.cur.Skip(1)
		return nil
	default:
		return fserrors.NewProtocolError(codecName, "malformed boundary line")
	}
}

func (p *parser) consumeOptionalNewline(ctx context.Context) error {
	for len(p.cur.Buffered()) < 2 && !p.cur.Exhausted() {
		ok, err := p.cur.Fill(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	buf := p.cur.Buffered()
	switch {
	case len(buf) >= 2 && buf[0] == '\r' && buf[1] == '\n':
		p.cur.Skip(2)
	case len(buf) >= 1 && buf[0] == '\n':
		p.cur.Skip(1)
	}
	return nil
}

// partBody serves the bytes of one part up to, but not including, the next
// boundary delimiter. It reads from the parser's cursor, which it shares
// with the outer stream; the state field is the handshake keeping the two
// from racing.
type partBody struct {
	p     *parser
	state partState
	err   error
}

// Read implements stream.Reader[[]byte].
func (b *partBody) Read(ctx context.Context) ([]byte, bool, error) {
	if b.state == partExhausted {
		return nil, false, nil
	}
	if b.err != nil {
		return nil, false, b.err
	}
	if b.p.err != nil {
		b.err = b.p.err
		return nil, false, b.err
	}
	b.state = partDelivering
	keep := len(b.p.delim) - 1
	for {
		buf := b.p.cur.Buffered()
		if i := bytes.Index(buf, b.p.delim); i >= 0 {
			if i == 0 {
				b.p.cur.Skip(len(b.p.delim))
				if err := b.p.afterDelimiter(ctx); err != nil {
					b.fail(err)
					return nil, false, err
				}
				b.state = partExhausted
				return nil, false, nil
			}
			out := make([]byte, i)
			copy(out, buf[:i])
			b.p.cur.Skip(i)
			return out, true, nil
		}
		// No delimiter in sight: deliver all but a tail one byte shorter
		// than the delimiter, so a straddling match is still found.
		if len(buf) > keep {
			n := len(buf) - keep
			out := make([]byte, n)
			copy(out, buf[:n])
			b.p.cur.Skip(n)
			return out, true, nil
		}
		ok, err := b.p.cur.Fill(ctx)
		if err != nil {
			b.fail(err)
			return nil, false, err
		}
		if !ok {
			err := fserrors.NewProtocolError(codecName, "unterminated part: missing closing boundary")
			b.fail(err)
			return nil, false, err
		}
	}
}

func (b *partBody) fail(err error) {
	b.err = err
	b.p.err = err
}

// discard drains the remaining body bytes, leaving the cursor just past the
// next boundary delimiter.
func (b *partBody) discard(ctx context.Context) error {
	for {
		_, ok, err := b.Read(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
