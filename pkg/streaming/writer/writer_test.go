package writer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tchambard/f-streams-async/internal/testutil"
	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

func TestSinkBuffersUntilThreshold(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	var out bytes.Buffer
	s := NewWithConfig(&out, Config{BufferSize: 8})

	testutil.AssertNoError(t, s.Write(ctx, []byte("abc")))
	testutil.AssertEqual(t, out.Len(), 0)
	testutil.AssertEqual(t, s.Buffered(), 3)

	// Crossing the threshold flushes.
	testutil.AssertNoError(t, s.Write(ctx, []byte("defgh")))
	testutil.AssertEqual(t, out.String(), "abcdefgh")
	testutil.AssertEqual(t, s.Buffered(), 0)

	testutil.AssertNoError(t, s.Write(ctx, []byte("x")))
	testutil.AssertNoError(t, s.End(ctx))
	testutil.AssertEqual(t, out.String(), "abcdefghx")

	stats := s.Stats()
	testutil.AssertEqual(t, stats.BytesWritten, int64(9))
	testutil.AssertEqual(t, stats.WriteCount, int64(3))
	testutil.AssertEqual(t, stats.FlushCount, int64(2))
}

func TestSinkEndIsIdempotent(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	var out bytes.Buffer
	s := New(&out)
	testutil.AssertNoError(t, s.Write(ctx, []byte("data")))
	testutil.AssertNoError(t, s.End(ctx))
	testutil.AssertNoError(t, s.End(ctx))
	testutil.AssertEqual(t, out.String(), "data")

	err := s.Write(ctx, []byte("late"))
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrEnded), true)
}

func TestSinkFlushInterval(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	flushed := make(chan struct{}, 1)
	var out bytes.Buffer
	s := NewWithConfig(&out, Config{
		BufferSize:    1024,
		FlushInterval: 5 * time.Millisecond,
		OnFlush: func(int, time.Duration) {
			select {
			case flushed <- struct{}{}:
			default:
			}
		},
	})
	defer func() { _ = s.End(ctx) }()

	testutil.AssertNoError(t, s.Write(ctx, []byte("tick")))
	select {
	case <-flushed:
	case <-time.After(testutil.TestTimeout):
		t.Fatal("automatic flush never happened")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSinkWriteFailureIsSticky(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	s := NewWithConfig(failingWriter{}, Config{BufferSize: 2})
	err := s.Write(ctx, []byte("abc"))
	testutil.AssertError(t, err)

	var ue *fserrors.UpstreamError
	testutil.AssertEqual(t, errors.As(err, &ue), true)
	testutil.AssertEqual(t, s.End(ctx), err)
}

func TestFromReader(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src, err := FromReader(strings.NewReader("hello world"), 4)
	testutil.AssertNoError(t, err)

	chunks, err := stream.ToSlice(ctx, src)
	testutil.AssertNoError(t, err)

	var got []byte
	for _, c := range chunks {
		testutil.AssertTrue(t, len(c) <= 4, "chunk exceeds requested size")
		got = append(got, c...)
	}
	testutil.AssertBytesEqual(t, got, []byte("hello world"))

	// The end marker stays idempotent.
	_, ok, err := src.Read(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

func TestFromReaderInvalidChunkSize(t *testing.T) {
	_, err := FromReader(strings.NewReader("x"), 0)
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrInvalidConfiguration), true)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestFromReaderWrapsError(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src, err := FromReader(errReader{}, 8)
	testutil.AssertNoError(t, err)
	_, _, err = src.Read(ctx)
	testutil.AssertEqual(t, errors.Is(err, io.ErrClosedPipe), true)

	// Sticky failure.
	_, _, again := src.Read(ctx)
	testutil.AssertEqual(t, again, err)
}
