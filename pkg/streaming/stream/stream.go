package stream

import (
	"context"
	"sync"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
)

// Reader produces the elements of a stream one at a time.
//
// Read returns the next element, suspending the caller until one is
// available. ok is false once the stream is exhausted; exhaustion is
// idempotent (every later call keeps returning ok == false) and is never an
// error. A Read that has returned a non-nil error returns the same error on
// every subsequent call. Exactly one logical consumer reads a given Reader.
type Reader[T any] interface {
	Read(ctx context.Context) (value T, ok bool, err error)
}

// Writer accepts the elements of a stream one at a time.
//
// Write suspends the caller until the sink is ready for more. End signals
// that no further elements will be written; it is the dual of the reader's
// end marker. A Writer is driven to completion by exactly one producer.
type Writer[T any] interface {
	Write(ctx context.Context, value T) error
	End(ctx context.Context) error
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc[T any] func(ctx context.Context) (T, bool, error)

// Read implements Reader.
func (f ReaderFunc[T]) Read(ctx context.Context) (T, bool, error) {
	return f(ctx)
}

// PipeWriter is the producer end of a Pipe. In addition to the Writer
// contract it can abort the stream with Fail, which propagates the error to
// the reader end.
type PipeWriter[T any] struct {
	p *pipe[T]
}

// pipe is a rendezvous between one producer and one consumer. The element
// channel is unbuffered, so every Write suspends until the matching Read;
// this is what gives downstream consumers backpressure over producers.
type pipe[T any] struct {
	ch   chan T
	done chan struct{}

	mu   sync.Mutex
	err  error
	over bool
}

// Pipe creates a connected Reader/Writer pair with one-element hand-off.
// Elements written on the writer end are delivered, in order, to the reader
// end. The producer suspends in Write until the consumer reads.
func Pipe[T any]() (Reader[T], *PipeWriter[T]) {
	p := &pipe[T]{
		ch:   make(chan T),
		done: make(chan struct{}),
	}
	return &pipeReader[T]{p: p}, &PipeWriter[T]{p: p}
}

// pipeReader is the consumer end of a pipe.
type pipeReader[T any] struct {
	p *pipe[T]
}

// Read implements Reader.
func (r *pipeReader[T]) Read(ctx context.Context) (T, bool, error) {
	var zero T
	p := r.p
	select {
	case v := <-p.ch:
		return v, true, nil
	case <-p.done:
		if err := p.failure(); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (p *pipe[T]) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *pipe[T]) finish(err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.over {
		return false
	}
	p.over = true
	p.err = err
	close(p.done)
	return true
}

// Write implements Writer. It suspends until the consumer accepts the
// element, the pipe is ended, or ctx is canceled.
func (w *PipeWriter[T]) Write(ctx context.Context, value T) error {
	select {
	case w.p.ch <- value:
		return nil
	case <-w.p.done:
		if err := w.p.failure(); err != nil {
			return err
		}
		return fserrors.ErrEnded
	case <-ctx.Done():
		return ctx.Err()
	}
}

// End implements Writer. Ending an already-ended pipe is a no-op.
func (w *PipeWriter[T]) End(_ context.Context) error {
	w.p.finish(nil)
	return nil
}

// Fail aborts the pipe. The reader end returns err on every subsequent Read.
// Fail after End is a no-op.
func (w *PipeWriter[T]) Fail(err error) {
	if err == nil {
		return
	}
	w.p.finish(err)
}
