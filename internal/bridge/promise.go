package bridge

import (
	"context"
	"sync"
)

// Promise is a single-shot completion primitive. It is created per request
// and settled exactly once by the matching response; later resolutions or
// rejections are discarded, which is how the bridge honours only the first
// response when a transport misbehaves and answers twice.
type Promise[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

// NewPromise creates an unsettled promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolve settles the promise with a value. It reports whether this call
// was the one that settled it.
func (p *Promise[T]) Resolve(v T) bool {
	settled := false
	p.once.Do(func() {
		p.val = v
		close(p.done)
		settled = true
	})
	return settled
}

// Reject settles the promise with an error. It reports whether this call
// was the one that settled it.
func (p *Promise[T]) Reject(err error) bool {
	settled := false
	p.once.Do(func() {
		p.err = err
		close(p.done)
		settled = true
	})
	return settled
}

// Await blocks until the promise settles or the context is done. A promise
// that is never settled waits for as long as the caller's context allows.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the promise settles.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}
