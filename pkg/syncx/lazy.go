// Package syncx holds small concurrency helpers.
package syncx

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Lazy is a guarded lazy-initialisation cell. The first Get runs init; any
// Get that arrives while init is running waits for that same attempt instead
// of starting another one. A successful value is kept for the life of the
// cell. A failed attempt is not remembered, so the next Get tries again.
type Lazy[T any] struct {
	init func(context.Context) (T, error)

	mu    sync.RWMutex
	ready bool
	value T

	group singleflight.Group
}

// NewLazy returns a cell that builds its value with init.
func NewLazy[T any](init func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{init: init}
}

// Get returns the value, initialising it if needed. A waiting caller whose
// ctx ends gets ctx.Err(); the shared attempt keeps running for the others.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	if v, ok := l.Peek(); ok {
		return v, nil
	}

	ch := l.group.DoChan("init", func() (any, error) {
		if v, ok := l.Peek(); ok {
			return v, nil
		}

		v, err := l.init(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.value, l.ready = v, true
		l.mu.Unlock()

		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the value without initialising it.
func (l *Lazy[T]) Peek() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.ready
}
