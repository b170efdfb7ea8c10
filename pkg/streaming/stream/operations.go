package stream

import (
	"context"
	"sync"
)

// Map returns a reader applying f to every element of src. It is lazy and
// never buffers ahead: each Read pulls exactly one element from src, so
// mapping an unbounded stream is safe. The end marker is preserved, and the
// first error from f or from src aborts the stream.
func Map[T, U any](src Reader[T], f func(ctx context.Context, value T) (U, error)) Reader[U] {
	return &mapReader[T, U]{src: src, f: f}
}

type mapReader[T, U any] struct {
	src  Reader[T]
	f    func(ctx context.Context, value T) (U, error)
	done bool
	err  error
}

// Read implements Reader.
func (r *mapReader[T, U]) Read(ctx context.Context) (U, bool, error) {
	var zero U
	if r.err != nil {
		return zero, false, r.err
	}
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
	u, err := r.f(ctx, v)
	if err != nil {
		r.err = err
		return zero, false, err
	}
	return u, true, nil
}

// Transform rewires src through a stage that owns a private reader/writer
// pair. The stage is handed the source reader and the sink writer and is
// fully responsible for driving both; it runs exactly once, in its own
// goroutine, started lazily on the first Read of the returned reader. This
// is the hook codecs use to inject arbitrary state machines into a pipeline.
//
// The stage signals completion by returning nil (End is then called on its
// behalf if it did not call it) and failure by returning an error, which
// aborts the returned reader. The stage runs under its own context, canceled
// when the stage returns and when a consumer read fails, so a stage blocked
// in an upstream read is released once the consumer gives up. The returned
// reader must be drained or read to failure, otherwise the stage goroutine is
// left suspended.
func Transform[T, U any](src Reader[T], stage func(ctx context.Context, in Reader[T], out Writer[U]) error) Reader[U] {
	out, w := Pipe[U]()
	return &transformReader[T, U]{src: src, stage: stage, out: out, w: w}
}

type transformReader[T, U any] struct {
	src    Reader[T]
	stage  func(ctx context.Context, in Reader[T], out Writer[U]) error
	out    Reader[U]
	w      *PipeWriter[U]
	once   sync.Once
	cancel context.CancelFunc
}

// Read implements Reader.
func (r *transformReader[T, U]) Read(ctx context.Context) (U, bool, error) {
	r.once.Do(func() {
		stageCtx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		go func() {
			defer cancel()
			if err := r.stage(stageCtx, r.src, r.w); err != nil {
				r.w.Fail(err)
				return
			}
			_ = r.w.End(stageCtx)
		}()
	})
	v, ok, err := r.out.Read(ctx)
	if err != nil {
		// A failed consumer read tears the stage down: a stage suspended
		// in an upstream read must not outlive the pipeline.
		r.cancel()
	}
	return v, ok, err
}

// Each drains src, calling f once per element. The caller is suspended while
// f runs. The first error from f or from src stops the drain and is
// returned; no elements after the failing one are delivered.
func Each[T any](ctx context.Context, src Reader[T], f func(ctx context.Context, value T) error) error {
	for {
		v, ok, err := src.Read(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := f(ctx, v); err != nil {
			return err
		}
	}
}

// PipeTo drains src into dst until the end marker, then signals completion
// on dst. The first error from either side aborts the drain; End is not
// called on dst after a failure.
func PipeTo[T any](ctx context.Context, src Reader[T], dst Writer[T]) error {
	for {
		v, ok, err := src.Read(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return dst.End(ctx)
		}
		if err := dst.Write(ctx, v); err != nil {
			return err
		}
	}
}

// ToSlice eagerly drains src into a slice. Only safe for bounded streams.
func ToSlice[T any](ctx context.Context, src Reader[T]) ([]T, error) {
	var result []T
	err := Each(ctx, src, func(_ context.Context, v T) error {
		result = append(result, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
