package frame

import (
	"context"
	"sync"
)

type continuation[T any] struct {
	poster Poster
	fn     func(T, error)
}

// Future is a value produced once, typically by a worker goroutine.
type Future[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    T
	err      error
	conts    []continuation[T]
}

// NewFuture creates an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and resolves the future with its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		v, err := fn()
		f.Resolve(v, err)
	}()
	return f
}

// Resolve sets the result and posts every registered continuation.
// Only the first call has effect; it reports whether this call won.
func (f *Future[T]) Resolve(v T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value, f.err = v, err
	conts := f.conts
	f.conts = nil
	close(f.done)
	f.mu.Unlock()

	for _, c := range conts {
		f.post(c)
	}
	return true
}

// Then registers fn to run through poster once the future resolves. If it
// already has, fn is posted immediately.
func (f *Future[T]) Then(poster Poster, fn func(T, error)) {
	c := continuation[T]{poster: poster, fn: fn}
	f.mu.Lock()
	if !f.resolved {
		f.conts = append(f.conts, c)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.post(c)
}

func (f *Future[T]) post(c continuation[T]) {
	v, err := f.value, f.err
	c.poster.Post(func() { c.fn(v, err) })
}

// Done is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
