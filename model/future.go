package model

import (
	"context"
	"sync"
)

// Callback receives the outcome of an asynchronous call.
type Callback[T any] func(result T, err error)

// Future is the pending result of an asynchronous model call. The outcome is
// delivered once, identically, to every waiter and callback.
type Future[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	finished  bool
	callbacks []Callback[T]

	val T
	err error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// goFuture runs fn in a new goroutine and returns its future.
func goFuture[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.complete(fn(ctx))
	}()
	return f
}

// resolvedFuture returns a future that has already completed.
func resolvedFuture[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(val, err)
	return f
}

func (f *Future[T]) complete(val T, err error) {
	f.mu.Lock()
	f.val, f.err = val, err
	f.finished = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(val, err)
	}
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done. Cancelling ctx
// abandons the wait only; the underlying operation still runs to completion.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers cb to receive the result. If the future has already
// completed, cb runs immediately on the calling goroutine; otherwise it runs
// on the goroutine that completes the future.
func (f *Future[T]) Then(cb Callback[T]) *Future[T] {
	if cb == nil {
		return f
	}

	f.mu.Lock()
	if !f.finished {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return f
	}
	val, err := f.val, f.err
	f.mu.Unlock()

	cb(val, err)
	return f
}
