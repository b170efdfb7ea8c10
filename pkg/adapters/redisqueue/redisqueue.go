package redisqueue

import (
	"context"

	"github.com/redis/go-redis/v9"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/common/validation"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// endMarker is the sentinel entry the sink pushes after the last chunk.
// Empty chunks carry no data in a chunk stream, so the empty entry is free
// to act as the end-of-stream signal.
const endMarker = ""

// NewSink creates a byte-chunk sink that appends chunks to a Redis list.
// End pushes the end-of-stream marker so a reader on the other side sees
// the same end the producer wrote.
func NewSink(client redis.UniversalClient, key string) (stream.Writer[[]byte], error) {
	if err := validation.ValidateNotNil("redisqueue", "client", client); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotEmpty("redisqueue", "key", key); err != nil {
		return nil, err
	}
	return &sink{client: client, key: key}, nil
}

type sink struct {
	client redis.UniversalClient
	key    string
	ended  bool
	err    error
}

func (s *sink) Write(ctx context.Context, chunk []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.ended {
		return fserrors.ErrEnded
	}
	if len(chunk) == 0 {
		return nil
	}
	if err := s.client.RPush(ctx, s.key, chunk).Err(); err != nil {
		s.err = fserrors.NewUpstreamError("rpush", err)
		return s.err
	}
	return nil
}

func (s *sink) End(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	if s.ended {
		return nil
	}
	if err := s.client.RPush(ctx, s.key, endMarker).Err(); err != nil {
		s.err = fserrors.NewUpstreamError("rpush", err)
		return s.err
	}
	s.ended = true
	return nil
}

// NewSource creates a byte-chunk reader over a Redis list written by NewSink.
// Reads block until an entry is available; the end marker becomes the end of
// the stream and is consumed from the list.
func NewSource(client redis.UniversalClient, key string) (stream.Reader[[]byte], error) {
	if err := validation.ValidateNotNil("redisqueue", "client", client); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotEmpty("redisqueue", "key", key); err != nil {
		return nil, err
	}
	return &source{client: client, key: key}, nil
}

type source struct {
	client redis.UniversalClient
	key    string
	done   bool
	err    error
}

func (s *source) Read(ctx context.Context) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if s.done {
		return nil, false, nil
	}
	res, err := s.client.BLPop(ctx, 0, s.key).Result()
	if err != nil {
		s.err = fserrors.NewUpstreamError("blpop", err)
		return nil, false, s.err
	}
	// BLPop returns the key and the popped entry.
	entry := res[1]
	if entry == endMarker {
		s.done = true
		return nil, false, nil
	}
	return []byte(entry), true, nil
}
