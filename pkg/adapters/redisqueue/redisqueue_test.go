package redisqueue

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tchambard/f-streams-async/internal/testutil"
	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/chunk"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

func newTestClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestQueueRoundTrip(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	client := newTestClient(t)
	sink, err := NewSink(client, "stream:test")
	testutil.AssertNoError(t, err)

	payload := []byte("chunked payload moving through redis")
	err = stream.PipeTo(ctx, chunk.Rechunk(stream.FromBytes(payload), 7), sink)
	testutil.AssertNoError(t, err)

	source, err := NewSource(client, "stream:test")
	testutil.AssertNoError(t, err)
	chunks, err := stream.ToSlice(ctx, source)
	testutil.AssertNoError(t, err)

	var got []byte
	for _, c := range chunks {
		got = append(got, c...)
	}
	testutil.AssertBytesEqual(t, got, payload)

	// The end marker is consumed and the end stays idempotent.
	_, ok, err := source.Read(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
}

func TestSinkSkipsEmptyChunks(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	client := newTestClient(t)
	sink, err := NewSink(client, "stream:empty")
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, sink.Write(ctx, nil))
	testutil.AssertNoError(t, sink.Write(ctx, []byte("x")))
	testutil.AssertNoError(t, sink.End(ctx))

	n, err := client.LLen(ctx, "stream:empty").Result()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, int64(2)) // one chunk plus the end marker
}

func TestSinkEndIsIdempotent(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	client := newTestClient(t)
	sink, err := NewSink(client, "stream:end")
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, sink.End(ctx))
	testutil.AssertNoError(t, sink.End(ctx))

	err = sink.Write(ctx, []byte("late"))
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrEnded), true)

	n, err := client.LLen(ctx, "stream:end").Result()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, int64(1))
}

func TestConfigurationValidation(t *testing.T) {
	client := newTestClient(t)

	_, err := NewSink(nil, "key")
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrInvalidConfiguration), true)

	_, err = NewSink(client, "")
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrInvalidConfiguration), true)

	_, err = NewSource(client, "")
	testutil.AssertEqual(t, errors.Is(err, fserrors.ErrInvalidConfiguration), true)
}
