package writer

import (
	"context"
	"io"
	"sync"
	"time"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// Config holds configuration options for the buffered sink.
type Config struct {
	// BufferSize is the flush threshold in bytes.
	// Default: 64KB
	BufferSize int

	// FlushInterval is how often to flush buffered data automatically.
	// Set to 0 to disable automatic flushing.
	// Default: 1 second
	FlushInterval time.Duration

	// OnFlush is called after each flush operation.
	OnFlush func(bytesWritten int, duration time.Duration)
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:    64 * 1024,
		FlushInterval: time.Second,
	}
}

// Stats holds statistics about sink performance.
type Stats struct {
	// BytesWritten is the total number of bytes accepted.
	BytesWritten int64

	// WriteCount is the total number of chunks accepted.
	WriteCount int64

	// FlushCount is the total number of flush operations.
	FlushCount int64

	// ErrorCount is the total number of errors encountered.
	ErrorCount int64
}

// Sink is a stream byte sink backed by an io.Writer. Chunks accumulate in
// an internal buffer and are flushed when the buffer passes its threshold,
// on the flush interval, and on End.
type Sink struct {
	underlying io.Writer
	config     Config

	mu     sync.Mutex
	buffer []byte
	stats  Stats
	err    error
	ended  bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

var _ stream.Writer[[]byte] = (*Sink)(nil)

// New creates a buffered sink over w with the default configuration.
func New(w io.Writer) *Sink {
	return NewWithConfig(w, DefaultConfig())
}

// NewWithConfig creates a buffered sink over w.
func NewWithConfig(w io.Writer, config Config) *Sink {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	s := &Sink{
		underlying: w,
		config:     config,
		buffer:     make([]byte, 0, config.BufferSize),
		stopCh:     make(chan struct{}),
	}

	if config.FlushInterval > 0 {
		s.wg.Add(1)
		go s.flushLoop()
	}

	return s
}

// Write implements stream.Writer. The chunk is copied into the internal
// buffer; the underlying writer is only touched on flush.
func (s *Sink) Write(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if s.ended {
		return fserrors.ErrEnded
	}

	s.buffer = append(s.buffer, chunk...)
	s.stats.WriteCount++
	s.stats.BytesWritten += int64(len(chunk))

	if len(s.buffer) >= s.config.BufferSize {
		return s.flushLocked()
	}
	return nil
}

// End implements stream.Writer. It flushes remaining data and stops the
// background flusher. End is idempotent.
func (s *Sink) End(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return s.err
	}
	s.ended = true
	if s.err != nil {
		return s.err
	}
	return s.flushLocked()
}

// Flush forces buffered data out to the underlying writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return s.flushLocked()
}

// Stats returns a snapshot of the sink's counters.
func (s *Sink) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Buffered returns the number of bytes currently held in the buffer.
func (s *Sink) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

func (s *Sink) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			_ = s.flushLocked()
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// flushLocked writes the buffered bytes through. Caller holds s.mu. A write
// failure is sticky: the sink refuses further work with the same error.
func (s *Sink) flushLocked() error {
	if len(s.buffer) == 0 {
		return nil
	}

	start := time.Now()
	n, err := s.underlying.Write(s.buffer)
	s.buffer = s.buffer[:0]
	s.stats.FlushCount++
	if err != nil {
		s.stats.ErrorCount++
		s.err = fserrors.NewUpstreamError("flush", err)
		return s.err
	}
	if s.config.OnFlush != nil {
		s.config.OnFlush(n, time.Since(start))
	}
	return nil
}
