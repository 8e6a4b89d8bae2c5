package grizzly

import (
	"context"
	"sync"
)

// Void is the settlement payload of operations that produce no value.
type Void struct{}

// Future is a single assignment container holding the eventual outcome of an
// asynchronous command: exactly one of a value or an error. It is settled at
// most once - settling twice is a programming error and panics. Listeners may
// be registered from any goroutine, before or after settlement, and each
// listener is invoked exactly once.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	settled   bool
	listeners []func(T, error)
}

// NewFuture returns a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// CompletedFuture returns a future already settled with the given value.
func CompletedFuture[T any](value T) *Future[T] {
	f := NewFuture[T]()
	f.Complete(value)
	return f
}

// FailedFuture returns a future already settled with the given error.
func FailedFuture[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Fail(err)
	return f
}

// Complete settles the future with a value. Complete panics if the future has
// already been settled.
func (f *Future[T]) Complete(value T) {
	f.settle(value, nil)
}

// Fail settles the future with an error. Fail panics if the future has
// already been settled or if err is nil.
func (f *Future[T]) Fail(err error) {
	if err == nil {
		panic("grizzly: future failed with a nil error")
	}
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(value T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		panic("grizzly: future settled twice")
	}
	f.settled = true
	f.value = value
	f.err = err
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()
	for _, listener := range listeners {
		listener(value, err)
	}
}

// OnComplete registers a listener invoked with the settled outcome. If the
// future has already settled the listener is invoked immediately on the
// calling goroutine; otherwise it is invoked on the settling goroutine.
func (f *Future[T]) OnComplete(listener func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.listeners = append(f.listeners, listener)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	listener(value, err)
}

// Settled returns whether the future has been settled.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles and returns its outcome. If the
// context is cancelled first, Await returns the context's error; the future
// is unaffected and the underlying operation keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Transform derives a future by applying fn to the raw settlement of f. Every
// command result flows through here so no call site casts between payload
// types. fn receives the raw value and error exactly as settled and its
// return settles the derived future.
func Transform[A any, B any](f *Future[A], fn func(A, error) (B, error)) *Future[B] {
	derived := NewFuture[B]()
	f.OnComplete(func(value A, err error) {
		out, terr := fn(value, err)
		if terr != nil {
			derived.Fail(terr)
			return
		}
		derived.Complete(out)
	})
	return derived
}
